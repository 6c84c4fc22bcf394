package schedule_test

import (
	"testing"

	"github.com/unclebandit/smsleopard-console/internal/model"
	"github.com/unclebandit/smsleopard-console/internal/schedule"
)

func strPtr(s string) *string { return &s }

func TestNextSendToday(t *testing.T) {
	entries := []schedule.Entry{
		{Time: "08:00", Campaign: "Breakfast"},
		{Time: "13:00", Campaign: "Lunch"},
		{Time: "19:00", Campaign: "Dinner"},
	}

	next, ok := schedule.NextSend("10:00", entries)
	if !ok {
		t.Fatal("expected a next slot")
	}
	if next.Time != "13:00" || next.Campaign != "Lunch" {
		t.Errorf("expected 13:00 Lunch, got %s %s", next.Time, next.Campaign)
	}
	if next.Tomorrow {
		t.Error("expected a today slot, got tomorrow")
	}
}

func TestNextSendWrapsToTomorrow(t *testing.T) {
	entries := []schedule.Entry{
		{Time: "08:00", Campaign: "Breakfast"},
		{Time: "13:00", Campaign: "Lunch"},
		{Time: "19:00", Campaign: "Dinner"},
	}

	next, ok := schedule.NextSend("20:00", entries)
	if !ok {
		t.Fatal("expected a next slot")
	}
	if next.Time != "08:00" || next.Campaign != "Breakfast" {
		t.Errorf("expected wraparound to 08:00 Breakfast, got %s %s", next.Time, next.Campaign)
	}
	if !next.Tomorrow {
		t.Error("expected the wraparound slot to be flagged tomorrow")
	}
}

func TestNextSendExactMinuteCountsAsPassed(t *testing.T) {
	entries := []schedule.Entry{
		{Time: "13:00", Campaign: "Lunch"},
		{Time: "19:00", Campaign: "Dinner"},
	}

	next, _ := schedule.NextSend("13:00", entries)
	if next.Time != "19:00" {
		t.Errorf("a slot equal to the current minute must be skipped, got %s", next.Time)
	}
}

func TestNextSendEmpty(t *testing.T) {
	if _, ok := schedule.NextSend("10:00", nil); ok {
		t.Error("expected no next slot for an empty entry list")
	}
}

func TestNextSendTieKeepsCollectionOrder(t *testing.T) {
	entries := []schedule.Entry{
		{Time: "13:00", Campaign: "Zulu"},
		{Time: "13:00", Campaign: "Alpha"},
	}

	next, _ := schedule.NextSend("10:00", entries)
	if next.Campaign != "Zulu" {
		t.Errorf("tie must keep collection order, got %s", next.Campaign)
	}
}

func TestCollectSkipsDisabledAndInactive(t *testing.T) {
	campaigns := []model.Campaign{
		{
			Name:        "Active",
			Status:      "active",
			MorningTime: strPtr("08:00"),
			EveningTime: strPtr("19:00"),
			// afternoon disabled
		},
		{
			Name:        "Paused",
			Status:      "paused",
			MorningTime: strPtr("09:00"),
		},
	}

	entries := schedule.Collect(campaigns)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Time != "08:00" || entries[1].Time != "19:00" {
		t.Errorf("unexpected entries: %+v", entries)
	}
	for _, e := range entries {
		if e.Campaign != "Active" {
			t.Errorf("paused campaign leaked into entries: %+v", e)
		}
	}
}
