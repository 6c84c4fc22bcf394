// internal/model/campaign.go
package model

// Content source values for a campaign.
const (
	ContentSourceAI       = "ai"
	ContentSourceExisting = "existing"
)

// Slot names, in daily order.
const (
	SlotMorning   = "morning"
	SlotAfternoon = "afternoon"
	SlotEvening   = "evening"
)

// Campaign is the wire model exchanged with the marketing API.
// A nil slot time means the slot is disabled. An empty ID means the
// campaign has not been created upstream yet. An empty TargetGroups
// slice on a new campaign means "broadcast to all groups".
type Campaign struct {
	ID                  string   `json:"id,omitempty"`
	Name                string   `json:"name"`
	ContentSource       string   `json:"contentSource"`
	SelectedProductID   string   `json:"selectedProductId,omitempty"`
	SelectedShopID      string   `json:"selectedShopId,omitempty"`
	MorningTime         *string  `json:"morningTime"`
	AfternoonTime       *string  `json:"afternoonTime"`
	EveningTime         *string  `json:"eveningTime"`
	BusinessDescription string   `json:"businessDescription,omitempty"`
	ProductInfo         string   `json:"productInfo"`
	UniqueSellingPoint  string   `json:"uniqueSellingPoint,omitempty"`
	BrandVoice          string   `json:"brandVoice,omitempty"`
	CompanyLink         string   `json:"companyLink,omitempty"`
	TargetAudience      string   `json:"targetAudience,omitempty"`
	TargetGroups        []string `json:"targetGroups,omitempty"`
	Status              string   `json:"status,omitempty"` // server-owned, read-only here
}

// TimeSlot is the derived view of one of the three daily slots.
// It is never persisted.
type TimeSlot struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Time    string `json:"time,omitempty"` // HH:MM when enabled
}

// Slots derives the three daily slots in morning/afternoon/evening order.
func (c *Campaign) Slots() []TimeSlot {
	ordered := []struct {
		name string
		t    *string
	}{
		{SlotMorning, c.MorningTime},
		{SlotAfternoon, c.AfternoonTime},
		{SlotEvening, c.EveningTime},
	}

	slots := make([]TimeSlot, 0, 3)
	for _, s := range ordered {
		slot := TimeSlot{Name: s.name}
		if s.t != nil {
			slot.Enabled = true
			slot.Time = *s.t
		}
		slots = append(slots, slot)
	}
	return slots
}

// Active reports whether the campaign is currently running upstream.
func (c *Campaign) Active() bool {
	return c.Status == "active"
}
