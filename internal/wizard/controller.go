// internal/wizard/controller.go
package wizard

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/smsleopard-console/internal/errors"
	"github.com/unclebandit/smsleopard-console/internal/model"
)

// Composer steps.
const (
	StepIdentity = 1 // identity & content
	StepSchedule = 2
	StepAudience = 3
	StepReview   = 4
)

// Mode distinguishes the create and edit composer flows.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// GroupDirectory supplies the candidate group list. force bypasses any
// caching layer underneath.
type GroupDirectory interface {
	Groups(ctx context.Context, force bool) ([]model.Group, error)
}

// Controller owns the form state of one composer session and drives the
// step machine. One instance per open composer; destroyed on close or
// successful submit.
type Controller struct {
	ID    string
	Mode  Mode
	State *State

	mu        sync.Mutex
	step      int
	directory GroupDirectory

	// The group directory is fetched lazily on first entry to the
	// audience step and memoized for the session. A fresh open forces
	// one re-fetch past the shared cache.
	groupsLoaded bool
	freshOpen    bool
}

// NewController opens a composer session around the given state.
func NewController(mode Mode, state *State, directory GroupDirectory) *Controller {
	return &Controller{
		ID:        uuid.NewString(),
		Mode:      mode,
		State:     state,
		step:      StepIdentity,
		directory: directory,
		freshOpen: true,
	}
}

// Step returns the current step (1..4).
func (c *Controller) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Next advances one step. The transition is gated by validation of the
// current step; on failure the step is left unchanged and the
// field-specific error is returned.
func (c *Controller) Next(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step >= StepReview {
		return appErrors.NewValidation("step", "already at the review step")
	}
	return c.advance(ctx, c.step+1)
}

// Back moves one step backward. Never validated.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step > StepIdentity {
		c.step--
	}
}

// Jump moves to an arbitrary step. Backward jumps are unguarded; forward
// jumps validate every step between here and the target, same as
// repeated Next.
func (c *Controller) Jump(ctx context.Context, target int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if target < StepIdentity || target > StepReview {
		return appErrors.NewValidation("step", "no such step")
	}
	if target <= c.step {
		c.step = target
		return nil
	}
	return c.advance(ctx, target)
}

// advance validates each step from the current one up to target and
// lands there. Caller holds the lock.
func (c *Controller) advance(ctx context.Context, target int) error {
	for s := c.step; s < target; s++ {
		if err := c.validateStep(s); err != nil {
			return err
		}
	}
	c.step = target
	if c.step == StepAudience {
		return c.ensureGroups(ctx)
	}
	return nil
}

// validateStep checks the per-step rules. Only the identity step has
// any: name and product info must be non-empty after trimming. Slot
// presence is deliberately deferred to submission.
func (c *Controller) validateStep(step int) error {
	if step != StepIdentity {
		return nil
	}
	if strings.TrimSpace(c.State.Name) == "" {
		return appErrors.NewValidation("name", "campaign name is required")
	}
	if strings.TrimSpace(c.State.ProductInfo) == "" {
		return appErrors.NewValidation("productInfo", "product info is required")
	}
	return nil
}

// ensureGroups loads the candidate directory once per session. Caller
// holds the lock. A load failure is surfaced but leaves the session on
// the audience step for retry.
func (c *Controller) ensureGroups(ctx context.Context) error {
	if c.groupsLoaded {
		return nil
	}
	groups, err := c.directory.Groups(ctx, c.freshOpen)
	if err != nil {
		return err
	}
	c.freshOpen = false
	c.groupsLoaded = true
	c.State.Audience.SetCandidates(groups)
	return nil
}

// ToggleSlot flips the named slot, optionally updating its time. The
// review projection reflects the change on its next computation.
func (c *Controller) ToggleSlot(name, at string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	slot := c.State.Slot(name)
	if slot == nil {
		return appErrors.NewValidation("slot", "unknown slot "+name)
	}
	slot.Enabled = !slot.Enabled
	if at != "" {
		slot.Time = at
	}
	return nil
}

// ToggleGroup flips one group selection.
func (c *Controller) ToggleGroup(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.State.Audience.ToggleOne(id)
}

// ToggleAllGroups applies the derived select-all/deselect-all action.
func (c *Controller) ToggleAllGroups() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.State.Audience.ToggleAll()
}

// Patch applies a partial field update.
func (c *Controller) Patch(p FieldPatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.State.Apply(p)
}

// Snapshot returns a copy of the current form state for rendering. The
// audience selector is deep-copied so readers never share mutable state
// with a concurrent toggle on the same session.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := *c.State
	snap.Audience = c.State.Audience.Clone()
	return snap
}

// SummarySlot is one enabled slot line of the review summary.
type SummarySlot struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
	Time string `json:"time"`
}

// Summary is the review-step projection of the form state.
type Summary struct {
	Name           string        `json:"name"`
	Slots          []SummarySlot `json:"slots"`
	SelectedGroups int           `json:"selectedGroups"`
	AudienceLabel  string        `json:"audienceLabel"`
}

var slotIcons = map[string]string{
	model.SlotMorning:   "🌅",
	model.SlotAfternoon: "☀️",
	model.SlotEvening:   "🌙",
}

// Review computes the summary as a pure projection of the current state.
// Repeated calls with unchanged state yield identical output; there are
// no side effects.
func (c *Controller) Review() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	sum := Summary{Name: c.State.Name}
	for _, slot := range c.State.EnabledSlots() {
		sum.Slots = append(sum.Slots, SummarySlot{
			Name: slot.Name,
			Icon: slotIcons[slot.Name],
			Time: slot.Time,
		})
	}

	sum.SelectedGroups = c.State.Audience.Count()
	if sum.SelectedGroups == 0 {
		sum.AudienceLabel = "all groups"
	} else if sum.SelectedGroups == 1 {
		sum.AudienceLabel = "1 group selected"
	} else {
		sum.AudienceLabel = strconv.Itoa(sum.SelectedGroups) + " groups selected"
	}
	return sum
}
