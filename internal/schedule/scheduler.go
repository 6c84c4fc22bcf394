// internal/schedule/scheduler.go
package schedule

import (
	"sort"
	"time"

	"github.com/unclebandit/smsleopard-console/internal/model"
)

// Entry is one enabled slot of an active campaign, flattened for the
// next-send computation.
type Entry struct {
	Time     string `json:"time"` // HH:MM, 24-hour, zero-padded
	Campaign string `json:"campaignName"`
}

// Next is the computed next send occurrence. Tomorrow is set when every
// slot has already passed today and the schedule wraps around to the
// chronologically earliest entry.
type Next struct {
	Time     string `json:"time"`
	Campaign string `json:"campaignName"`
	Tomorrow bool   `json:"tomorrow"`
}

// Collect flattens every enabled slot across active campaigns, keeping
// campaign order and morning/afternoon/evening order within a campaign.
func Collect(campaigns []model.Campaign) []Entry {
	var entries []Entry
	for _, c := range campaigns {
		if !c.Active() {
			continue
		}
		for _, slot := range c.Slots() {
			if !slot.Enabled {
				continue
			}
			entries = append(entries, Entry{Time: slot.Time, Campaign: c.Name})
		}
	}
	return entries
}

// NextSend returns the next occurrence after now (HH:MM in the slot time
// zone). ok is false when there is no enabled slot anywhere.
//
// Fixed-width zero-padded HH:MM strings order the same lexically and
// chronologically, so plain string comparison is used throughout. A slot
// equal to the current minute counts as already passed. Ties between
// campaigns at the same time keep collection order (stable sort).
func NextSend(now string, entries []Entry) (Next, bool) {
	if len(entries) == 0 {
		return Next{}, false
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})

	for _, e := range sorted {
		if e.Time > now {
			return Next{Time: e.Time, Campaign: e.Campaign}, true
		}
	}

	// Everything has passed today; wrap to the earliest slot tomorrow.
	first := sorted[0]
	return Next{Time: first.Time, Campaign: first.Campaign, Tomorrow: true}, true
}

// ClockNow formats a wall-clock instant as the HH:MM string NextSend
// expects.
func ClockNow(t time.Time) string {
	return t.Format("15:04")
}
