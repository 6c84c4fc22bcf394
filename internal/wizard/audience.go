// internal/wizard/audience.go
package wizard

import (
	"github.com/unclebandit/smsleopard-console/internal/model"
)

// AudienceSelector tracks the wizard-local selection set over the fixed
// candidate group list. The empty selection is passed through verbatim;
// its "broadcast to all" meaning is applied by the review projection and
// the create-mode submit path, never stored here.
type AudienceSelector struct {
	candidates []model.Group
	selected   map[string]bool
	order      []string // selected ids in insertion order
}

func NewAudienceSelector() *AudienceSelector {
	return &AudienceSelector{selected: make(map[string]bool)}
}

// SetCandidates installs the group directory. Existing selections are
// kept: in edit mode targets are preselected before the directory loads.
func (a *AudienceSelector) SetCandidates(groups []model.Group) {
	a.candidates = groups
}

// Candidates returns the installed directory.
func (a *AudienceSelector) Candidates() []model.Group {
	return a.candidates
}

// Preselect marks the given ids selected, for populating an edit session
// from an existing campaign. Ids are compared string-equal; upstream
// sources that deliver numeric ids are normalized at decode time.
func (a *AudienceSelector) Preselect(ids []string) {
	for _, id := range ids {
		if !a.selected[id] {
			a.selected[id] = true
			a.order = append(a.order, id)
		}
	}
}

// ToggleOne flips membership of one id. Invoking it twice cancels out.
func (a *AudienceSelector) ToggleOne(id string) {
	if a.selected[id] {
		delete(a.selected, id)
		for i, v := range a.order {
			if v == id {
				a.order = append(a.order[:i], a.order[i+1:]...)
				break
			}
		}
		return
	}
	a.selected[id] = true
	a.order = append(a.order, id)
}

// ToggleAll selects every candidate, or clears the selection when every
// candidate is already selected. The tri-state is derived from the
// selection itself, so it can never fall out of sync with per-item
// toggles.
func (a *AudienceSelector) ToggleAll() {
	if a.AllSelected() {
		a.selected = make(map[string]bool)
		a.order = nil
		return
	}
	a.selected = make(map[string]bool)
	a.order = nil
	for _, g := range a.candidates {
		a.selected[string(g.ID)] = true
		a.order = append(a.order, string(g.ID))
	}
}

// AllSelected reports whether every candidate is currently selected.
// False for an empty candidate list.
func (a *AudienceSelector) AllSelected() bool {
	if len(a.candidates) == 0 {
		return false
	}
	for _, g := range a.candidates {
		if !a.selected[string(g.ID)] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the selector. Snapshots hand the
// clone to readers outside the session lock, so later toggles on the
// live selector never touch it.
func (a *AudienceSelector) Clone() *AudienceSelector {
	c := &AudienceSelector{
		candidates: append([]model.Group(nil), a.candidates...),
		selected:   make(map[string]bool, len(a.selected)),
		order:      append([]string(nil), a.order...),
	}
	for id := range a.selected {
		c.selected[id] = true
	}
	return c
}

// Selected reports membership of one id.
func (a *AudienceSelector) Selected(id string) bool {
	return a.selected[id]
}

// Count returns the number of selected groups.
func (a *AudienceSelector) Count() int {
	return len(a.selected)
}

// Selection returns the selected ids in insertion order.
func (a *AudienceSelector) Selection() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}
