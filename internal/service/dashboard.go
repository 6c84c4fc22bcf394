// internal/service/dashboard.go
package service

import (
	"context"
	"sync"
	"time"

	"github.com/unclebandit/smsleopard-console/internal/client"
	"github.com/unclebandit/smsleopard-console/internal/model"
	"github.com/unclebandit/smsleopard-console/internal/schedule"
)

// Dashboard caches the upstream campaign list for the console's read
// surfaces (campaign tiles, next-slot computation). It is reloaded by
// refresh events and by the status poller, never by composer sessions.
type Dashboard struct {
	API client.MarketingAPI

	mu          sync.RWMutex
	campaigns   []model.Campaign
	refreshedAt time.Time
}

func NewDashboard(api client.MarketingAPI) *Dashboard {
	return &Dashboard{API: api}
}

// Reload fetches the campaign list and swaps the cache.
func (d *Dashboard) Reload(ctx context.Context) error {
	campaigns, err := d.API.ListCampaigns(ctx)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.campaigns = campaigns
	d.refreshedAt = time.Now()
	d.mu.Unlock()
	return nil
}

// Campaigns returns the cached list and its refresh instant.
func (d *Dashboard) Campaigns() ([]model.Campaign, time.Time) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.Campaign, len(d.campaigns))
	copy(out, d.campaigns)
	return out, d.refreshedAt
}

// NextSend computes the next scheduled send across the cached active
// campaigns. ok is false when no active campaign has an enabled slot.
func (d *Dashboard) NextSend(now time.Time) (schedule.Next, bool) {
	d.mu.RLock()
	entries := schedule.Collect(d.campaigns)
	d.mu.RUnlock()
	return schedule.NextSend(schedule.ClockNow(now), entries)
}
