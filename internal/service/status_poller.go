// internal/service/status_poller.go
package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/unclebandit/smsleopard-console/internal/client"
)

// StatusPoller watches the upstream connection state at a fixed interval
// and fires OnChange when it flips, so the console can reload its page
// data. It runs independently of composer sessions and never touches
// their state.
type StatusPoller struct {
	API      client.MarketingAPI
	Interval time.Duration
	OnChange func(state string)

	mu      sync.Mutex
	running bool
	stop    chan struct{}

	last string // loop goroutine only
}

func NewStatusPoller(api client.MarketingAPI, interval time.Duration, onChange func(state string)) *StatusPoller {
	return &StatusPoller{
		API:      api,
		Interval: interval,
		OnChange: onChange,
	}
}

// Start runs the polling loop on a goroutine. Call Stop to end it; a
// stopped poller can be started again.
func (p *StatusPoller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.stop = make(chan struct{})
	go p.loop(ctx, p.stop)
}

func (p *StatusPoller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	close(p.stop)
	p.running = false
}

func (p *StatusPoller) loop(ctx context.Context, stop chan struct{}) {
	defer func() {
		p.mu.Lock()
		// A restarted poller owns a fresh stop channel; only the
		// current generation may clear the flag.
		if p.stop == stop {
			p.running = false
		}
		p.mu.Unlock()
	}()
	tick := time.NewTicker(p.Interval)
	defer tick.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-tick.C:
			p.poll(ctx)
		}
	}
}

func (p *StatusPoller) poll(ctx context.Context) {
	pollCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	state, err := p.API.Health(pollCtx)
	cancel()
	if err != nil {
		log.Println("⚠️ Status poll failed:", err)
		state = "disconnected"
	}
	if state == p.last {
		return
	}
	log.Printf("Connection state changed: %q -> %q\n", p.last, state)
	p.last = state
	if p.OnChange != nil {
		p.OnChange(state)
	}
}
