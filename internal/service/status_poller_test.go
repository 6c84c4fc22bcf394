package service_test

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/unclebandit/smsleopard-console/internal/service"
)

type HealthSequenceAPI struct {
	MockMarketingAPI
	mu     sync.Mutex
	states []string
	polls  int
}

func (h *HealthSequenceAPI) Health(ctx context.Context) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	i := h.polls
	if i >= len(h.states) {
		i = len(h.states) - 1
	}
	h.polls++
	return h.states[i], nil
}

func (h *HealthSequenceAPI) Polls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.polls
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestPollerFiresOnlyOnStateFlips(t *testing.T) {
	api := &HealthSequenceAPI{states: []string{
		"connected", "connected", "disconnected", "connected",
	}}

	var mu sync.Mutex
	var changes []string
	p := service.NewStatusPoller(api, 2*time.Millisecond, func(state string) {
		mu.Lock()
		changes = append(changes, state)
		mu.Unlock()
	})
	p.Start(context.Background())
	defer p.Stop()

	// Run well past the sequence; the steady tail must stay silent.
	waitFor(t, func() bool { return api.Polls() >= 8 })

	mu.Lock()
	got := append([]string(nil), changes...)
	mu.Unlock()
	want := []string{"connected", "disconnected", "connected"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected OnChange per flip %v, got %v", want, got)
	}
}

func TestPollerStopAndRestart(t *testing.T) {
	api := &HealthSequenceAPI{states: []string{"connected"}}
	p := service.NewStatusPoller(api, 2*time.Millisecond, nil)
	ctx := context.Background()

	p.Start(ctx)
	waitFor(t, func() bool { return api.Polls() >= 1 })
	p.Stop()

	// A restarted poller must keep polling on its fresh loop.
	before := api.Polls()
	p.Start(ctx)
	waitFor(t, func() bool { return api.Polls() > before+1 })
	p.Stop()
}
