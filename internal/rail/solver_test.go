package rail

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/network"
)

func newTestSolver() *Solver {
	return NewSolver(SolverConfig{Logger: zerolog.Nop()})
}

func TestSolveMatrixHit(t *testing.T) {
	p, err := newTestSolver().Solve("Houston, TX", "New Orleans, LA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.DistanceMiles != 350 {
		t.Errorf("distance = %v, want 350", p.DistanceMiles)
	}
	if p.Method != network.MethodDistanceMatrix {
		t.Errorf("method = %s, want distance_matrix", p.Method)
	}
	if len(p.Hubs) != 2 {
		t.Errorf("path = %v, want direct", p.Hubs)
	}
	if p.TransitHours != 7.8 {
		t.Errorf("transit = %v, want 7.8", p.TransitHours)
	}
	if p.TerminalHours != 4 {
		t.Errorf("terminal = %v, want 4", p.TerminalHours)
	}
	if p.DurationHours != 11.8 {
		t.Errorf("duration = %v, want 11.8", p.DurationHours)
	}
}

func TestSolveCuratedOverride(t *testing.T) {
	p, err := newTestSolver().Solve("Seattle, WA", "Chicago, IL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Seattle, WA", "Portland, OR", "Chicago, IL"}
	if len(p.Hubs) != len(want) {
		t.Fatalf("path = %v, want %v", p.Hubs, want)
	}
	for i := range want {
		if p.Hubs[i] != want[i] {
			t.Fatalf("path = %v, want %v", p.Hubs, want)
		}
	}
	if p.Method != network.MethodCuratedPath {
		t.Errorf("method = %s, want curated_path", p.Method)
	}
	// Distance keeps the tabulated corridor figure; only the hub
	// sequence is replaced.
	if p.DistanceMiles != 2062 {
		t.Errorf("distance = %v, want 2062", p.DistanceMiles)
	}
	// Three terminals on the curated path.
	if p.TerminalHours != 6 {
		t.Errorf("terminal = %v, want 6", p.TerminalHours)
	}
}

func TestSolveCuratedOverrideReversed(t *testing.T) {
	p, err := newTestSolver().Solve("Chicago, IL", "Houston, TX")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Hubs) != 3 || p.Hubs[1] != "St. Louis, MO" {
		t.Fatalf("path = %v, want Chicago via St. Louis", p.Hubs)
	}
	if p.Hubs[0] != "Chicago, IL" || p.Hubs[2] != "Houston, TX" {
		t.Fatalf("path endpoints wrong: %v", p.Hubs)
	}
}

func TestSolveLocalSegmentFallback(t *testing.T) {
	// Not in the main matrix, but the segment table covers it.
	p, err := newTestSolver().Solve("New Orleans, LA", "Jacksonville, FL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.DistanceMiles != 358 {
		t.Errorf("distance = %v, want 358", p.DistanceMiles)
	}
	if p.Method != network.MethodLocalRailData {
		t.Errorf("method = %s, want local_rail_data", p.Method)
	}
}

func TestSolveNetworkSearch(t *testing.T) {
	// No tabulated figure for this pair; the frontier search has to
	// stitch segments together.
	p, err := newTestSolver().Solve("Long Beach, CA", "New Orleans, LA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Method != network.MethodNetworkRouting {
		t.Errorf("method = %s, want network_routing", p.Method)
	}
	if p.Hubs[0] != "Long Beach, CA" || p.Hubs[len(p.Hubs)-1] != "New Orleans, LA" {
		t.Errorf("path endpoints wrong: %v", p.Hubs)
	}
	if p.DistanceMiles <= 0 {
		t.Errorf("distance = %v, want positive", p.DistanceMiles)
	}
	// The frontier is expanded cheapest-first, so the LA-Chicago trunk
	// beats any detour through Memphis.
	if p.DistanceMiles != 25+2256+400 {
		t.Errorf("distance = %v, want 2681", p.DistanceMiles)
	}
}

func TestSolveNetworkSearchDeterministic(t *testing.T) {
	// Untabulated edges share the average segment cost, so the frontier
	// regularly holds equal-distance entries. Ties keep discovery order,
	// and repeated solves must walk the identical path.
	want := []string{"Long Beach, CA", "Los Angeles, CA", "Chicago, IL", "Memphis, TN"}

	for i := 0; i < 50; i++ {
		p, err := newTestSolver().Solve("Long Beach, CA", "Memphis, TN")
		if err != nil {
			t.Fatalf("unexpected error on run %d: %v", i, err)
		}
		if len(p.Hubs) != len(want) {
			t.Fatalf("run %d path = %v, want %v", i, p.Hubs, want)
		}
		for j, hub := range want {
			if p.Hubs[j] != hub {
				t.Fatalf("run %d path = %v, want %v", i, p.Hubs, want)
			}
		}
		if p.DistanceMiles != 25+2256+341 {
			t.Fatalf("run %d distance = %v, want 2622", i, p.DistanceMiles)
		}
	}
}

func TestSolveHubNotServed(t *testing.T) {
	_, err := newTestSolver().Solve("Tampa Bay, FL", "Portland, OR")
	if !errors.Is(err, ErrHubNotServed) {
		t.Fatalf("expected ErrHubNotServed, got %v", err)
	}
}
