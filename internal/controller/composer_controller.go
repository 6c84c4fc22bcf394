// internal/controller/composer_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/smsleopard-console/internal/errors"
	"github.com/unclebandit/smsleopard-console/internal/model"
	"github.com/unclebandit/smsleopard-console/internal/repository"
	"github.com/unclebandit/smsleopard-console/internal/service"
	"github.com/unclebandit/smsleopard-console/internal/wizard"
)

// ComposerController exposes composer sessions over REST. One session
// per open composer; the UI drives it step by step.
type ComposerController struct {
	Sessions *wizard.SessionManager
	Composer *service.ComposerService
	Drafts   repository.DraftRepositoryInterface
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps the error taxonomy onto HTTP statuses: validation 422,
// unknown session 404, in-flight submit 409, upstream failure 502.
func writeError(w http.ResponseWriter, err error) {
	body := map[string]any{"success": false, "error": err.Error()}

	var vErr *appErrors.ValidationError
	var apiErr *appErrors.APIError
	switch {
	case errors.Is(err, appErrors.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, body)
	case errors.Is(err, appErrors.ErrSubmitInFlight):
		writeJSON(w, http.StatusConflict, body)
	case errors.As(err, &vErr):
		body["field"] = vErr.Field
		body["error"] = vErr.Reason
		writeJSON(w, http.StatusUnprocessableEntity, body)
	case errors.As(err, &apiErr):
		body["error"] = apiErr.Message
		writeJSON(w, http.StatusBadGateway, body)
	default:
		writeJSON(w, http.StatusInternalServerError, body)
	}
}

func (c *ComposerController) session(w http.ResponseWriter, r *http.Request) *wizard.Controller {
	ctrl, err := c.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return nil
	}
	return ctrl
}

// autosave persists the session's current form state. Best effort; a
// failed autosave never fails the request.
func (c *ComposerController) autosave(ctrl *wizard.Controller) {
	if c.Drafts == nil {
		return
	}
	snap := ctrl.Snapshot()
	payload, err := json.Marshal(struct {
		wizard.State
		TargetGroups []string `json:"targetGroups"`
	}{snap, snap.Audience.Selection()})
	if err != nil {
		log.Println("⚠️ Failed to marshal draft:", err)
		return
	}
	draft := &repository.Draft{
		SessionID:  ctrl.ID,
		Mode:       string(ctrl.Mode),
		CampaignID: snap.CampaignID,
		Payload:    payload,
	}
	if err := c.Drafts.Save(draft); err != nil {
		log.Println("⚠️ Failed to autosave draft:", err)
	}
}

func (c *ComposerController) sessionBody(ctrl *wizard.Controller) map[string]any {
	snap := ctrl.Snapshot()
	return map[string]any{
		"success":      true,
		"sessionId":    ctrl.ID,
		"mode":         ctrl.Mode,
		"step":         ctrl.Step(),
		"state":        snap,
		"targetGroups": snap.Audience.Selection(),
	}
}

// OpenSession starts a composer session: an empty form for create mode,
// or a form populated from the supplied campaign for edit mode.
func (c *ComposerController) OpenSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mode     string          `json:"mode"`
		Campaign *model.Campaign `json:"campaign"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, appErrors.NewValidation("body", "invalid request body"))
		return
	}

	var ctrl *wizard.Controller
	switch wizard.Mode(body.Mode) {
	case wizard.ModeCreate:
		ctrl = c.Sessions.OpenCreate()
	case wizard.ModeEdit:
		if body.Campaign == nil || body.Campaign.ID == "" {
			writeError(w, appErrors.NewValidation("campaign", "edit mode requires an existing campaign"))
			return
		}
		ctrl = c.Sessions.OpenEdit(body.Campaign)
	default:
		writeError(w, appErrors.NewValidation("mode", "mode must be create or edit"))
		return
	}

	c.autosave(ctrl)
	writeJSON(w, http.StatusCreated, c.sessionBody(ctrl))
}

func (c *ComposerController) GetSession(w http.ResponseWriter, r *http.Request) {
	ctrl := c.session(w, r)
	if ctrl == nil {
		return
	}
	writeJSON(w, http.StatusOK, c.sessionBody(ctrl))
}

// PatchFields applies a partial update of the form fields.
func (c *ComposerController) PatchFields(w http.ResponseWriter, r *http.Request) {
	ctrl := c.session(w, r)
	if ctrl == nil {
		return
	}
	var patch wizard.FieldPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, appErrors.NewValidation("body", "invalid request body"))
		return
	}
	ctrl.Patch(patch)
	c.autosave(ctrl)
	writeJSON(w, http.StatusOK, c.sessionBody(ctrl))
}

func (c *ComposerController) NextStep(w http.ResponseWriter, r *http.Request) {
	ctrl := c.session(w, r)
	if ctrl == nil {
		return
	}
	if err := ctrl.Next(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	c.autosave(ctrl)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "step": ctrl.Step()})
}

func (c *ComposerController) BackStep(w http.ResponseWriter, r *http.Request) {
	ctrl := c.session(w, r)
	if ctrl == nil {
		return
	}
	ctrl.Back()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "step": ctrl.Step()})
}

func (c *ComposerController) JumpStep(w http.ResponseWriter, r *http.Request) {
	ctrl := c.session(w, r)
	if ctrl == nil {
		return
	}
	var body struct {
		Step int `json:"step"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, appErrors.NewValidation("body", "invalid request body"))
		return
	}
	if err := ctrl.Jump(r.Context(), body.Step); err != nil {
		writeError(w, err)
		return
	}
	c.autosave(ctrl)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "step": ctrl.Step()})
}

// ToggleSlot flips one of the daily slots, optionally changing its time.
func (c *ComposerController) ToggleSlot(w http.ResponseWriter, r *http.Request) {
	ctrl := c.session(w, r)
	if ctrl == nil {
		return
	}
	var body struct {
		Time string `json:"time"`
	}
	// An empty body keeps the slot's remembered time.
	_ = json.NewDecoder(r.Body).Decode(&body)

	if err := ctrl.ToggleSlot(chi.URLParam(r, "slot"), body.Time); err != nil {
		writeError(w, err)
		return
	}
	c.autosave(ctrl)
	writeJSON(w, http.StatusOK, c.sessionBody(ctrl))
}

func (c *ComposerController) ToggleGroup(w http.ResponseWriter, r *http.Request) {
	ctrl := c.session(w, r)
	if ctrl == nil {
		return
	}
	ctrl.ToggleGroup(chi.URLParam(r, "gid"))
	c.autosave(ctrl)
	writeJSON(w, http.StatusOK, c.sessionBody(ctrl))
}

func (c *ComposerController) ToggleAllGroups(w http.ResponseWriter, r *http.Request) {
	ctrl := c.session(w, r)
	if ctrl == nil {
		return
	}
	ctrl.ToggleAllGroups()
	c.autosave(ctrl)
	writeJSON(w, http.StatusOK, c.sessionBody(ctrl))
}

// ListSessionGroups renders the candidate directory with per-item
// selection state and the derived select-all state.
func (c *ComposerController) ListSessionGroups(w http.ResponseWriter, r *http.Request) {
	ctrl := c.session(w, r)
	if ctrl == nil {
		return
	}
	snap := ctrl.Snapshot()

	type row struct {
		ID               string `json:"id"`
		Name             string `json:"name"`
		ParticipantCount int    `json:"participantCount"`
		Selected         bool   `json:"selected"`
	}
	rows := []row{}
	for _, g := range snap.Audience.Candidates() {
		rows = append(rows, row{
			ID:               string(g.ID),
			Name:             g.Name,
			ParticipantCount: g.ParticipantCount,
			Selected:         snap.Audience.Selected(string(g.ID)),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"groups":      rows,
		"allSelected": snap.Audience.AllSelected(),
	})
}

func (c *ComposerController) Review(w http.ResponseWriter, r *http.Request) {
	ctrl := c.session(w, r)
	if ctrl == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"summary": ctrl.Review(),
	})
}

// SubmitSession performs the final create or edit transaction. The
// session survives a failure for retry; success closes it.
func (c *ComposerController) SubmitSession(w http.ResponseWriter, r *http.Request) {
	ctrl := c.session(w, r)
	if ctrl == nil {
		return
	}
	if err := c.Composer.Submit(r.Context(), ctrl); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// CloseSession cancels a composer without submitting.
func (c *ComposerController) CloseSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c.Sessions.Close(id)
	if c.Drafts != nil {
		if err := c.Drafts.Delete(id); err != nil {
			log.Println("⚠️ Failed to delete draft:", err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// ListDrafts returns the most recent autosaved drafts for crash
// recovery.
func (c *ComposerController) ListDrafts(w http.ResponseWriter, r *http.Request) {
	if c.Drafts == nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "drafts": []repository.Draft{}})
		return
	}
	limit := 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	drafts, err := c.Drafts.ListRecent(limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "drafts": drafts})
}
