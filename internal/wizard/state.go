// internal/wizard/state.go
package wizard

import (
	"github.com/unclebandit/smsleopard-console/internal/model"
)

// SlotSetting is the editable form of one daily slot. Time is kept while
// the slot is disabled so re-enabling restores the previous value.
type SlotSetting struct {
	Enabled bool   `json:"enabled"`
	Time    string `json:"time"`
}

// State is the composer form state for one session. It is owned by
// exactly one Controller and mutated only through it.
type State struct {
	CampaignID string `json:"campaignId,omitempty"`

	Name                string `json:"name"`
	ContentSource       string `json:"contentSource"`
	SelectedProductID   string `json:"selectedProductId,omitempty"`
	SelectedShopID      string `json:"selectedShopId,omitempty"`
	BusinessDescription string `json:"businessDescription,omitempty"`
	ProductInfo         string `json:"productInfo"`
	UniqueSellingPoint  string `json:"uniqueSellingPoint,omitempty"`
	BrandVoice          string `json:"brandVoice,omitempty"`
	CompanyLink         string `json:"companyLink,omitempty"`
	TargetAudience      string `json:"targetAudience,omitempty"`

	Morning   SlotSetting `json:"morning"`
	Afternoon SlotSetting `json:"afternoon"`
	Evening   SlotSetting `json:"evening"`

	Audience *AudienceSelector `json:"-"`
}

// NewState returns the empty create-mode form. Slot times carry the
// console defaults but start disabled.
func NewState() *State {
	return &State{
		ContentSource: model.ContentSourceAI,
		Morning:       SlotSetting{Time: "09:00"},
		Afternoon:     SlotSetting{Time: "14:00"},
		Evening:       SlotSetting{Time: "19:00"},
		Audience:      NewAudienceSelector(),
	}
}

// StateFromCampaign populates an edit-mode form from an existing
// campaign, preselecting its current targets.
func StateFromCampaign(c *model.Campaign) *State {
	s := NewState()
	s.CampaignID = c.ID
	s.Name = c.Name
	s.ContentSource = c.ContentSource
	s.SelectedProductID = c.SelectedProductID
	s.SelectedShopID = c.SelectedShopID
	s.BusinessDescription = c.BusinessDescription
	s.ProductInfo = c.ProductInfo
	s.UniqueSellingPoint = c.UniqueSellingPoint
	s.BrandVoice = c.BrandVoice
	s.CompanyLink = c.CompanyLink
	s.TargetAudience = c.TargetAudience

	if c.MorningTime != nil {
		s.Morning = SlotSetting{Enabled: true, Time: *c.MorningTime}
	}
	if c.AfternoonTime != nil {
		s.Afternoon = SlotSetting{Enabled: true, Time: *c.AfternoonTime}
	}
	if c.EveningTime != nil {
		s.Evening = SlotSetting{Enabled: true, Time: *c.EveningTime}
	}

	s.Audience.Preselect(c.TargetGroups)
	return s
}

// Slot returns the setting for the named slot, or nil for an unknown name.
func (s *State) Slot(name string) *SlotSetting {
	switch name {
	case model.SlotMorning:
		return &s.Morning
	case model.SlotAfternoon:
		return &s.Afternoon
	case model.SlotEvening:
		return &s.Evening
	}
	return nil
}

// EnabledSlots derives the enabled slots in daily order.
func (s *State) EnabledSlots() []model.TimeSlot {
	var out []model.TimeSlot
	for _, slot := range []struct {
		name    string
		setting SlotSetting
	}{
		{model.SlotMorning, s.Morning},
		{model.SlotAfternoon, s.Afternoon},
		{model.SlotEvening, s.Evening},
	} {
		if slot.setting.Enabled {
			out = append(out, model.TimeSlot{Name: slot.name, Enabled: true, Time: slot.setting.Time})
		}
	}
	return out
}

// ToCampaign projects the form back to the wire model. Disabled slots
// become null times. TargetGroups is the current selection verbatim;
// callers decide whether it belongs in the payload.
func (s *State) ToCampaign() model.Campaign {
	c := model.Campaign{
		ID:                  s.CampaignID,
		Name:                s.Name,
		ContentSource:       s.ContentSource,
		SelectedProductID:   s.SelectedProductID,
		SelectedShopID:      s.SelectedShopID,
		BusinessDescription: s.BusinessDescription,
		ProductInfo:         s.ProductInfo,
		UniqueSellingPoint:  s.UniqueSellingPoint,
		BrandVoice:          s.BrandVoice,
		CompanyLink:         s.CompanyLink,
		TargetAudience:      s.TargetAudience,
		TargetGroups:        s.Audience.Selection(),
	}
	if s.Morning.Enabled {
		t := s.Morning.Time
		c.MorningTime = &t
	}
	if s.Afternoon.Enabled {
		t := s.Afternoon.Time
		c.AfternoonTime = &t
	}
	if s.Evening.Enabled {
		t := s.Evening.Time
		c.EveningTime = &t
	}
	return c
}

// FieldPatch is a partial update of the free-text and content-source
// fields. Nil pointers leave the field untouched.
type FieldPatch struct {
	Name                *string `json:"name,omitempty"`
	ContentSource       *string `json:"contentSource,omitempty"`
	SelectedProductID   *string `json:"selectedProductId,omitempty"`
	SelectedShopID      *string `json:"selectedShopId,omitempty"`
	BusinessDescription *string `json:"businessDescription,omitempty"`
	ProductInfo         *string `json:"productInfo,omitempty"`
	UniqueSellingPoint  *string `json:"uniqueSellingPoint,omitempty"`
	BrandVoice          *string `json:"brandVoice,omitempty"`
	CompanyLink         *string `json:"companyLink,omitempty"`
	TargetAudience      *string `json:"targetAudience,omitempty"`
}

// Apply copies the patched fields into the state.
func (s *State) Apply(p FieldPatch) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.ContentSource != nil {
		s.ContentSource = *p.ContentSource
	}
	if p.SelectedProductID != nil {
		s.SelectedProductID = *p.SelectedProductID
	}
	if p.SelectedShopID != nil {
		s.SelectedShopID = *p.SelectedShopID
	}
	if p.BusinessDescription != nil {
		s.BusinessDescription = *p.BusinessDescription
	}
	if p.ProductInfo != nil {
		s.ProductInfo = *p.ProductInfo
	}
	if p.UniqueSellingPoint != nil {
		s.UniqueSellingPoint = *p.UniqueSellingPoint
	}
	if p.BrandVoice != nil {
		s.BrandVoice = *p.BrandVoice
	}
	if p.CompanyLink != nil {
		s.CompanyLink = *p.CompanyLink
	}
	if p.TargetAudience != nil {
		s.TargetAudience = *p.TargetAudience
	}
}
