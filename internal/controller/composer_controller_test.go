package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/smsleopard-console/internal/controller"
	"github.com/unclebandit/smsleopard-console/internal/model"
	"github.com/unclebandit/smsleopard-console/internal/service"
	"github.com/unclebandit/smsleopard-console/internal/wizard"
)

// --- Mock marketing API ---

type MockAPI struct {
	mu    sync.Mutex
	calls []string
}

func (m *MockAPI) record(name string) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()
}

func (m *MockAPI) CreateCampaign(ctx context.Context, c model.Campaign) (*model.Campaign, error) {
	m.record("create")
	created := c
	created.ID = "c-1"
	return &created, nil
}

func (m *MockAPI) UpdateCampaign(ctx context.Context, id string, c model.Campaign) error {
	m.record("update")
	return nil
}

func (m *MockAPI) SetCampaignTargets(ctx context.Context, groups []string) error {
	m.record("targets")
	return nil
}

func (m *MockAPI) ListCampaigns(ctx context.Context) ([]model.Campaign, error) { return nil, nil }
func (m *MockAPI) DeleteCampaign(ctx context.Context, id string) error         { return nil }
func (m *MockAPI) ListGroups(ctx context.Context) ([]model.Group, error) {
	return []model.Group{
		{ID: "g1", Name: "North", ParticipantCount: 40},
		{ID: "g2", Name: "South", ParticipantCount: 12},
	}, nil
}
func (m *MockAPI) ListShops(ctx context.Context) ([]model.Shop, error) { return nil, nil }
func (m *MockAPI) Health(ctx context.Context) (string, error)          { return "connected", nil }

func newRouter() (*chi.Mux, *MockAPI) {
	api := &MockAPI{}
	directory := service.NewGroupDirectory(api, 0)
	sessions := wizard.NewSessionManager(directory)
	composer := service.NewComposerService(api, sessions, nil, nil, nil)

	ctrl := &controller.ComposerController{
		Sessions: sessions,
		Composer: composer,
	}

	r := chi.NewRouter()
	r.Post("/composer/sessions", ctrl.OpenSession)
	r.Get("/composer/sessions/{id}", ctrl.GetSession)
	r.Put("/composer/sessions/{id}/fields", ctrl.PatchFields)
	r.Post("/composer/sessions/{id}/next", ctrl.NextStep)
	r.Post("/composer/sessions/{id}/back", ctrl.BackStep)
	r.Post("/composer/sessions/{id}/jump", ctrl.JumpStep)
	r.Post("/composer/sessions/{id}/slots/{slot}/toggle", ctrl.ToggleSlot)
	r.Get("/composer/sessions/{id}/groups", ctrl.ListSessionGroups)
	r.Post("/composer/sessions/{id}/groups/toggle-all", ctrl.ToggleAllGroups)
	r.Post("/composer/sessions/{id}/groups/{gid}/toggle", ctrl.ToggleGroup)
	r.Get("/composer/sessions/{id}/review", ctrl.Review)
	r.Post("/composer/sessions/{id}/submit", ctrl.SubmitSession)
	r.Delete("/composer/sessions/{id}", ctrl.CloseSession)
	return r, api
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var res map[string]any
	json.NewDecoder(w.Result().Body).Decode(&res)
	return w, res
}

func TestComposerCreateFlow(t *testing.T) {
	r, api := newRouter()

	// Open a create session
	w, res := doJSON(t, r, "POST", "/composer/sessions", map[string]any{"mode": "create"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	id, _ := res["sessionId"].(string)
	if id == "" {
		t.Fatal("expected a session id")
	}
	base := "/composer/sessions/" + id

	// Advancing with an empty name is blocked with a field error
	w, res = doJSON(t, r, "POST", base+"/next", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if res["field"] != "name" {
		t.Errorf("expected field name, got %v", res["field"])
	}
	if _, got := doJSON(t, r, "GET", base, nil); got["step"].(float64) != 1 {
		t.Errorf("blocked transition must not move the step, got %v", got["step"])
	}

	// Fill step 1 and walk to the audience step
	doJSON(t, r, "PUT", base+"/fields", map[string]any{
		"name":        "Weekend promo",
		"productInfo": "Two-for-one smoothies",
	})
	if w, _ = doJSON(t, r, "POST", base+"/next", nil); w.Code != http.StatusOK {
		t.Fatalf("step 1 -> 2 failed: %d", w.Code)
	}
	doJSON(t, r, "POST", base+"/slots/morning/toggle", map[string]any{"time": "08:30"})
	if w, _ = doJSON(t, r, "POST", base+"/next", nil); w.Code != http.StatusOK {
		t.Fatalf("step 2 -> 3 failed: %d", w.Code)
	}

	// The directory was fetched lazily on entering step 3
	_, res = doJSON(t, r, "GET", base+"/groups", nil)
	groups, _ := res["groups"].([]any)
	if len(groups) != 2 {
		t.Fatalf("expected 2 candidate groups, got %d", len(groups))
	}

	// Select one group and review
	doJSON(t, r, "POST", base+"/groups/g1/toggle", nil)
	_, res = doJSON(t, r, "GET", base+"/review", nil)
	summary, _ := res["summary"].(map[string]any)
	if summary["audienceLabel"] != "1 group selected" {
		t.Errorf("expected '1 group selected', got %v", summary["audienceLabel"])
	}

	// Submit: create then targets
	if w, res = doJSON(t, r, "POST", base+"/submit", nil); w.Code != http.StatusOK {
		t.Fatalf("submit failed: %d %v", w.Code, res)
	}
	if len(api.calls) != 2 || api.calls[0] != "create" || api.calls[1] != "targets" {
		t.Errorf("expected create then targets, got %v", api.calls)
	}

	// The session is gone after a successful submit
	if w, _ = doJSON(t, r, "GET", base, nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after submit, got %d", w.Code)
	}
}

func TestOpenEditRequiresCampaign(t *testing.T) {
	r, _ := newRouter()
	w, _ := doJSON(t, r, "POST", "/composer/sessions", map[string]any{"mode": "edit"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	r, _ := newRouter()
	w, _ := doJSON(t, r, "GET", "/composer/sessions/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestToggleAllOverHTTP(t *testing.T) {
	r, _ := newRouter()
	_, res := doJSON(t, r, "POST", "/composer/sessions", map[string]any{"mode": "create"})
	id := res["sessionId"].(string)
	base := "/composer/sessions/" + id

	doJSON(t, r, "PUT", base+"/fields", map[string]any{"name": "n", "productInfo": "p"})
	doJSON(t, r, "POST", base+"/jump", map[string]any{"step": 3})

	_, res = doJSON(t, r, "POST", base+"/groups/toggle-all", nil)
	if got, _ := res["targetGroups"].([]any); len(got) != 2 {
		t.Fatalf("expected 2 selected after toggle-all, got %v", res["targetGroups"])
	}
	_, res = doJSON(t, r, "POST", base+"/groups/toggle-all", nil)
	if got, _ := res["targetGroups"].([]any); len(got) != 0 {
		t.Errorf("expected empty selection after second toggle-all, got %v", res["targetGroups"])
	}
}
