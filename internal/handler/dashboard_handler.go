// internal/handler/dashboard_handler.go
package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/smsleopard-console/internal/client"
	"github.com/unclebandit/smsleopard-console/internal/service"
)

// DashboardHandler serves the console's read surfaces: the next-slot
// tile, the cached campaign list, and the catalog for the product
// selector.
type DashboardHandler struct {
	Dashboard *service.Dashboard
	Directory *service.GroupDirectory
	API       client.MarketingAPI

	Now func() time.Time
}

func NewDashboardHandler(dashboard *service.Dashboard, directory *service.GroupDirectory, api client.MarketingAPI) *DashboardHandler {
	return &DashboardHandler{
		Dashboard: dashboard,
		Directory: directory,
		API:       api,
		Now:       time.Now,
	}
}

func respond(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// NextSlotHandler reports the next scheduled send across active
// campaigns, or the no-slot sentinel.
func (h *DashboardHandler) NextSlotHandler(w http.ResponseWriter, r *http.Request) {
	next, ok := h.Dashboard.NextSend(h.Now())
	if !ok {
		respond(w, http.StatusOK, map[string]any{"success": true, "next": nil})
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "next": next})
}

// CampaignsHandler returns the cached campaign list.
func (h *DashboardHandler) CampaignsHandler(w http.ResponseWriter, r *http.Request) {
	campaigns, refreshedAt := h.Dashboard.Campaigns()
	respond(w, http.StatusOK, map[string]any{
		"success":     true,
		"campaigns":   campaigns,
		"refreshedAt": refreshedAt,
	})
}

// DeleteCampaignHandler proxies a campaign delete upstream and reloads
// the cache.
func (h *DashboardHandler) DeleteCampaignHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.API.DeleteCampaign(r.Context(), id); err != nil {
		respond(w, http.StatusBadGateway, map[string]any{"success": false, "error": err.Error()})
		return
	}
	if err := h.Dashboard.Reload(r.Context()); err != nil {
		log.Println("⚠️ Failed to reload campaigns after delete:", err)
	}
	respond(w, http.StatusOK, map[string]any{"success": true})
}

// ShopsHandler serves the shop/product catalog for the content-source
// selector.
func (h *DashboardHandler) ShopsHandler(w http.ResponseWriter, r *http.Request) {
	shops, err := h.Directory.Shops(r.Context())
	if err != nil {
		respond(w, http.StatusBadGateway, map[string]any{"success": false, "error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(shops)
}

// HealthHandler is the console's own liveness endpoint.
func (h *DashboardHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{"success": true, "time": h.Now().Format(time.RFC3339)})
}
