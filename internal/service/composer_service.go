// internal/service/composer_service.go
package service

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/unclebandit/smsleopard-console/internal/client"
	appErrors "github.com/unclebandit/smsleopard-console/internal/errors"
	"github.com/unclebandit/smsleopard-console/internal/model"
	"github.com/unclebandit/smsleopard-console/internal/queue"
	"github.com/unclebandit/smsleopard-console/internal/repository"
	"github.com/unclebandit/smsleopard-console/internal/wizard"
)

// ComposerService turns a finished composer session into upstream
// requests. Create and edit follow different protocols on purpose:
// creation excludes targets from the payload and sets them with a
// second call, while an edit embeds targetGroups in the single update.
type ComposerService struct {
	API      client.MarketingAPI
	Sessions *wizard.SessionManager
	Audit    repository.AuditRepositoryInterface
	Drafts   repository.DraftRepositoryInterface
	Queue    queue.Queue

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewComposerService(api client.MarketingAPI, sessions *wizard.SessionManager, audit repository.AuditRepositoryInterface, drafts repository.DraftRepositoryInterface, q queue.Queue) *ComposerService {
	return &ComposerService{
		API:      api,
		Sessions: sessions,
		Audit:    audit,
		Drafts:   drafts,
		Queue:    q,
		inFlight: make(map[string]bool),
	}
}

// Submit validates the session's state and performs the create or edit
// transaction. While one submission for a session is outstanding, a
// second attempt is rejected with ErrSubmitInFlight; the first is never
// cancelled. On success the session is closed; on failure it stays open
// and populated for retry.
func (s *ComposerService) Submit(ctx context.Context, ctrl *wizard.Controller) error {
	s.mu.Lock()
	if s.inFlight[ctrl.ID] {
		s.mu.Unlock()
		return appErrors.ErrSubmitInFlight
	}
	s.inFlight[ctrl.ID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, ctrl.ID)
		s.mu.Unlock()
	}()

	state := ctrl.Snapshot()
	if err := validateForSubmit(&state); err != nil {
		return err
	}

	payload := state.ToCampaign()
	campaignID, err := s.transact(ctx, ctrl.Mode, payload)
	s.record(ctrl, campaignID, err)
	if err != nil {
		return err
	}

	s.Sessions.Close(ctrl.ID)
	if s.Drafts != nil {
		if derr := s.Drafts.Delete(ctrl.ID); derr != nil {
			log.Println("⚠️ Failed to delete draft:", derr)
		}
	}
	if s.Queue != nil {
		if qerr := s.Queue.Publish(queue.TopicCampaignRefresh, payload.Name); qerr != nil {
			log.Println("⚠️ Failed to publish refresh event:", qerr)
		}
	}
	return nil
}

// transact runs the mode-specific upstream call sequence and returns the
// campaign id the attempt applies to, for the audit trail.
func (s *ComposerService) transact(ctx context.Context, mode wizard.Mode, payload model.Campaign) (string, error) {
	if mode == wizard.ModeEdit {
		// Single update with targetGroups embedded verbatim; an empty
		// selection stays an explicit empty list.
		return payload.ID, s.API.UpdateCampaign(ctx, payload.ID, payload)
	}

	// The create payload never carries targetGroups; they go out in the
	// follow-up targets call.
	targets := payload.TargetGroups
	payload.TargetGroups = nil
	created, err := s.API.CreateCampaign(ctx, payload)
	if err != nil {
		// Create failed; the targets call is never attempted.
		return "", err
	}
	var id string
	if created != nil {
		id = created.ID
	}
	if len(targets) == 0 {
		// Empty selection means "all groups" for a new campaign; no
		// targets call is needed.
		return id, nil
	}
	if err := s.API.SetCampaignTargets(ctx, targets); err != nil {
		// The campaign exists upstream with default (all-groups)
		// targeting, but the operation is reported as a failure.
		log.Println("⚠️ Campaign created but setting targets failed:", err)
		return id, err
	}
	return id, nil
}

func (s *ComposerService) record(ctrl *wizard.Controller, campaignID string, submitErr error) {
	if s.Audit == nil {
		return
	}
	rec := &repository.SubmissionRecord{
		SessionID:  ctrl.ID,
		CampaignID: campaignID,
		Mode:       string(ctrl.Mode),
		Succeeded:  submitErr == nil,
	}
	if submitErr != nil {
		rec.Error = submitErr.Error()
	}
	if err := s.Audit.Record(rec); err != nil {
		log.Println("⚠️ Failed to write submission audit:", err)
	}
}

// validateForSubmit applies the final checks deferred past the step
// gates: name, content-source selection, and at least one enabled slot.
func validateForSubmit(state *wizard.State) error {
	if strings.TrimSpace(state.Name) == "" {
		return appErrors.NewValidation("name", "campaign name is required")
	}
	if state.ContentSource == model.ContentSourceExisting &&
		state.SelectedProductID == "" && state.SelectedShopID == "" {
		return appErrors.NewValidation("contentSource", "select a product or shop for existing content")
	}
	if len(state.EnabledSlots()) == 0 {
		return appErrors.NewValidation("schedule", "enable at least one time slot")
	}
	return nil
}
