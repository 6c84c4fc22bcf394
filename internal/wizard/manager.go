// internal/wizard/manager.go
package wizard

import (
	"sync"

	appErrors "github.com/unclebandit/smsleopard-console/internal/errors"
	"github.com/unclebandit/smsleopard-console/internal/model"
)

// SessionManager tracks the live composer sessions by id. Each session
// is an independent Controller; nothing is shared across sessions.
type SessionManager struct {
	mu        sync.Mutex
	sessions  map[string]*Controller
	directory GroupDirectory
}

func NewSessionManager(directory GroupDirectory) *SessionManager {
	return &SessionManager{
		sessions:  make(map[string]*Controller),
		directory: directory,
	}
}

// OpenCreate starts a create-mode session with an empty form.
func (m *SessionManager) OpenCreate() *Controller {
	ctrl := NewController(ModeCreate, NewState(), m.directory)
	m.mu.Lock()
	m.sessions[ctrl.ID] = ctrl
	m.mu.Unlock()
	return ctrl
}

// OpenEdit starts an edit-mode session populated from an existing
// campaign.
func (m *SessionManager) OpenEdit(c *model.Campaign) *Controller {
	ctrl := NewController(ModeEdit, StateFromCampaign(c), m.directory)
	m.mu.Lock()
	m.sessions[ctrl.ID] = ctrl
	m.mu.Unlock()
	return ctrl
}

// Get looks up a live session.
func (m *SessionManager) Get(id string) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctrl, ok := m.sessions[id]
	if !ok {
		return nil, appErrors.ErrSessionNotFound
	}
	return ctrl, nil
}

// Close discards a session. Closing an unknown id is a no-op.
func (m *SessionManager) Close(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
