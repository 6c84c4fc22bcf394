// internal/service/directory.go
package service

import (
	"context"
	"sync"
	"time"

	"github.com/unclebandit/smsleopard-console/internal/client"
	"github.com/unclebandit/smsleopard-console/internal/model"
)

// GroupDirectory caches the upstream group listing behind a process-wide
// time throttle: rapid navigation between composer sessions must not
// hammer the groups endpoint. The throttle is keyed to a single
// timestamp, not per caller.
type GroupDirectory struct {
	API         client.MarketingAPI
	MinInterval time.Duration

	mu        sync.Mutex
	cached    []model.Group
	lastFetch time.Time

	now func() time.Time // test hook
}

func NewGroupDirectory(api client.MarketingAPI, minInterval time.Duration) *GroupDirectory {
	return &GroupDirectory{
		API:         api,
		MinInterval: minInterval,
		now:         time.Now,
	}
}

// Groups returns the candidate directory. Within MinInterval of the last
// successful fetch the cache is served; force bypasses the throttle (a
// freshly opened composer wants current data).
func (d *GroupDirectory) Groups(ctx context.Context, force bool) ([]model.Group, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !force && !d.lastFetch.IsZero() && d.now().Sub(d.lastFetch) < d.MinInterval {
		return d.cached, nil
	}

	groups, err := d.API.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	d.cached = groups
	d.lastFetch = d.now()
	return groups, nil
}

// Shops passes the catalog listing through for the product selector.
func (d *GroupDirectory) Shops(ctx context.Context) ([]model.Shop, error) {
	return d.API.ListShops(ctx)
}
