package wizard_test

import (
	"reflect"
	"testing"

	"github.com/unclebandit/smsleopard-console/internal/model"
	"github.com/unclebandit/smsleopard-console/internal/wizard"
)

func fiveGroups() []model.Group {
	return []model.Group{
		{ID: "g1", Name: "North"},
		{ID: "g2", Name: "South"},
		{ID: "g3", Name: "East"},
		{ID: "g4", Name: "West"},
		{ID: "g5", Name: "Central"},
	}
}

func TestToggleAllIsItsOwnInverse(t *testing.T) {
	a := wizard.NewAudienceSelector()
	a.SetCandidates(fiveGroups())

	a.ToggleAll()
	if a.Count() != 5 {
		t.Fatalf("expected all 5 selected, got %d", a.Count())
	}
	if !a.AllSelected() {
		t.Error("expected AllSelected after select-all")
	}

	a.ToggleAll()
	if a.Count() != 0 {
		t.Fatalf("expected empty selection after second toggle, got %d", a.Count())
	}
	if a.AllSelected() {
		t.Error("AllSelected must be false for an empty selection")
	}
}

func TestToggleAllLabelNeverStale(t *testing.T) {
	a := wizard.NewAudienceSelector()
	a.SetCandidates(fiveGroups())

	// Bulk select, then drop one item: the derived state must follow
	// the selection, not a remembered button flag.
	a.ToggleAll()
	a.ToggleOne("g3")
	if a.AllSelected() {
		t.Error("AllSelected must turn false after an individual deselect")
	}

	a.ToggleAll()
	if a.Count() != 5 {
		t.Errorf("toggle-all from a partial selection must select everything, got %d", a.Count())
	}
}

func TestToggleOneCancelsOut(t *testing.T) {
	a := wizard.NewAudienceSelector()
	a.SetCandidates(fiveGroups())

	a.ToggleOne("g2")
	if !a.Selected("g2") {
		t.Fatal("expected g2 selected")
	}
	a.ToggleOne("g2")
	if a.Selected("g2") || a.Count() != 0 {
		t.Error("double toggle must cancel out")
	}
}

func TestPreselectBeforeDirectoryLoads(t *testing.T) {
	a := wizard.NewAudienceSelector()
	a.Preselect([]string{"g2", "g4"})

	// Edit mode preselects targets before the directory is fetched;
	// the selection must survive the candidate install verbatim.
	a.SetCandidates(fiveGroups())
	if got := a.Selection(); !reflect.DeepEqual(got, []string{"g2", "g4"}) {
		t.Errorf("expected [g2 g4], got %v", got)
	}
	if !a.Selected("g2") || !a.Selected("g4") {
		t.Error("preselected ids must report selected")
	}
}

func TestSelectionIsACopy(t *testing.T) {
	a := wizard.NewAudienceSelector()
	a.SetCandidates(fiveGroups())
	a.ToggleOne("g1")

	sel := a.Selection()
	sel[0] = "mutated"
	if got := a.Selection()[0]; got != "g1" {
		t.Errorf("Selection must return a copy, internal state became %s", got)
	}
}
