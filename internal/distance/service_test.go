package distance

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fuelroute/fuelroute/internal/network"
	"github.com/fuelroute/fuelroute/internal/rail"
)

// mockDirections is a mock road-directions provider for testing.
type mockDirections struct {
	name      string
	response  *Directions
	err       error
	callCount atomic.Int32
	delay     time.Duration
}

func (m *mockDirections) Directions(ctx context.Context, origin, destination string) (*Directions, error) {
	m.callCount.Add(1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockDirections) Name() string {
	return m.name
}

// mockRailSolver is a mock rail path solver for testing.
type mockRailSolver struct {
	path      *rail.Path
	err       error
	callCount atomic.Int32
}

func (m *mockRailSolver) Solve(origin, destination string) (*rail.Path, error) {
	m.callCount.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.path, nil
}

func realRailSolver() RailSolver {
	return rail.NewSolver(rail.SolverConfig{})
}

func TestResolver_Resolve_LiveTruckTier(t *testing.T) {
	provider := &mockDirections{
		name: "test-provider",
		response: &Directions{
			DistanceMiles: 355,
			DurationHours: 6.5,
			FetchedAt:     time.Now(),
		},
	}

	resolver := NewResolver(ResolverConfig{
		TruckProvider: provider,
		RailSolver:    realRailSolver(),
		CacheTTL:      5 * time.Minute,
	})

	leg, err := resolver.Resolve(context.Background(), "Houston, TX", "New Orleans, LA", network.ModeTruck)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.callCount.Load() != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.callCount.Load())
	}
	if leg.Method != network.MethodLiveDirections {
		t.Errorf("expected live_directions provenance, got %s", leg.Method)
	}
	if leg.DistanceMiles != 355 {
		t.Errorf("expected distance 355, got %v", leg.DistanceMiles)
	}
}

func TestResolver_Resolve_CacheHit(t *testing.T) {
	provider := &mockDirections{
		name:     "test-provider",
		response: &Directions{DistanceMiles: 355, DurationHours: 6.5},
	}

	resolver := NewResolver(ResolverConfig{
		TruckProvider: provider,
		RailSolver:    realRailSolver(),
		CacheTTL:      5 * time.Minute,
	})

	// First call
	_, err := resolver.Resolve(context.Background(), "Houston, TX", "New Orleans, LA", network.ModeTruck)
	if err != nil {
		t.Fatalf("unexpected error on first call: %v", err)
	}

	// Second call (should hit cache)
	_, err = resolver.Resolve(context.Background(), "Houston, TX", "New Orleans, LA", network.ModeTruck)
	if err != nil {
		t.Fatalf("unexpected error on second call: %v", err)
	}

	if provider.callCount.Load() != 1 {
		t.Errorf("expected 1 provider call (cache hit), got %d", provider.callCount.Load())
	}
}

func TestResolver_Resolve_TruckFallsBackToMatrix(t *testing.T) {
	provider := &mockDirections{
		name: "test-provider",
		err:  errors.New("provider down"),
	}

	resolver := NewResolver(ResolverConfig{
		TruckProvider: provider,
		RailSolver:    realRailSolver(),
	})

	leg, err := resolver.Resolve(context.Background(), "Houston, TX", "New Orleans, LA", network.ModeTruck)
	if err != nil {
		t.Fatalf("expected matrix fallback, got error: %v", err)
	}

	if leg.Method != network.MethodDistanceMatrix {
		t.Errorf("expected distance_matrix provenance, got %s", leg.Method)
	}
	if leg.DistanceMiles != 350 {
		t.Errorf("expected distance 350, got %v", leg.DistanceMiles)
	}
	// 350 miles at 55 mph
	if leg.DurationHours != 6.4 {
		t.Errorf("expected duration 6.4, got %v", leg.DurationHours)
	}
}

func TestResolver_Resolve_TruckWithoutProvider(t *testing.T) {
	resolver := NewResolver(ResolverConfig{
		RailSolver: realRailSolver(),
	})

	leg, err := resolver.Resolve(context.Background(), "Houston, TX", "New Orleans, LA", network.ModeTruck)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if leg.Method != network.MethodDistanceMatrix {
		t.Errorf("expected distance_matrix provenance, got %s", leg.Method)
	}
}

func TestResolver_Resolve_EstimateTier(t *testing.T) {
	provider := &mockDirections{
		name: "test-provider",
		err:  errors.New("provider down"),
	}

	resolver := NewResolver(ResolverConfig{
		TruckProvider: provider,
		RailSolver:    realRailSolver(),
	})

	// No tabulated truck mileage for this pair.
	leg, err := resolver.Resolve(context.Background(), "Miami, FL", "Seattle, WA", network.ModeTruck)
	if err != nil {
		t.Fatalf("expected estimate fallback, got error: %v", err)
	}

	if leg.Method != network.MethodCoordinateEstimate {
		t.Errorf("expected coordinate_estimation provenance, got %s", leg.Method)
	}
	if !leg.Estimated() {
		t.Error("estimate-tier leg should report Estimated")
	}
	if leg.DistanceMiles < 2500 || leg.DistanceMiles > 3500 {
		t.Errorf("implausible Miami-Seattle estimate: %v miles", leg.DistanceMiles)
	}
}

func TestResolver_Resolve_RailUsesSolver(t *testing.T) {
	solver := &mockRailSolver{
		path: &rail.Path{
			Hubs:          []string{"Seattle, WA", "Portland, OR", "Chicago, IL"},
			DistanceMiles: 2062,
			DurationHours: 51.8,
			Method:        network.MethodCuratedPath,
			Railroads:     []string{"BNSF", "Union Pacific"},
		},
	}

	resolver := NewResolver(ResolverConfig{RailSolver: solver})

	leg, err := resolver.Resolve(context.Background(), "Seattle, WA", "Chicago, IL", network.ModeRail)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if solver.callCount.Load() != 1 {
		t.Errorf("expected 1 solver call, got %d", solver.callCount.Load())
	}
	if leg.Method != network.MethodCuratedPath {
		t.Errorf("expected curated_path provenance, got %s", leg.Method)
	}
	if len(leg.Path) != 3 || leg.Path[1] != "Portland, OR" {
		t.Errorf("curated path not preserved: %v", leg.Path)
	}
}

func TestResolver_Resolve_RailSolverErrorFallsBackToMatrix(t *testing.T) {
	solver := &mockRailSolver{err: errors.New("solver broken")}

	resolver := NewResolver(ResolverConfig{RailSolver: solver})

	leg, err := resolver.Resolve(context.Background(), "Seattle, WA", "Chicago, IL", network.ModeRail)
	if err != nil {
		t.Fatalf("expected matrix fallback, got error: %v", err)
	}

	if leg.Method != network.MethodDistanceMatrix {
		t.Errorf("expected distance_matrix provenance, got %s", leg.Method)
	}
	if leg.DistanceMiles != 2062 {
		t.Errorf("expected distance 2062, got %v", leg.DistanceMiles)
	}
	// 2062 miles at 45 mph plus the 4 hour yard cap.
	if leg.DurationHours != 49.8 {
		t.Errorf("expected duration 49.8, got %v", leg.DurationHours)
	}
}

func TestResolver_Resolve_UnknownHub(t *testing.T) {
	resolver := NewResolver(ResolverConfig{RailSolver: realRailSolver()})

	_, err := resolver.Resolve(context.Background(), "Springfield, IL", "Houston, TX", network.ModeTruck)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var resErr *Error
	if !errors.As(err, &resErr) {
		t.Fatalf("expected Error, got %T", err)
	}
	if !errors.Is(resErr.Err, ErrUnknownHub) {
		t.Errorf("expected ErrUnknownHub, got %v", resErr.Err)
	}
}

func TestResolver_Resolve_UnsupportedMode(t *testing.T) {
	resolver := NewResolver(ResolverConfig{RailSolver: realRailSolver()})

	_, err := resolver.Resolve(context.Background(), "Houston, TX", "Chicago, IL", network.Mode("pipeline"))
	if !errors.Is(err, ErrUnsupportedMode) {
		t.Fatalf("expected ErrUnsupportedMode, got %v", err)
	}
}

func TestResolver_Resolve_ModesCachedSeparately(t *testing.T) {
	provider := &mockDirections{
		name:     "test-provider",
		response: &Directions{DistanceMiles: 355, DurationHours: 6.5},
	}

	resolver := NewResolver(ResolverConfig{
		TruckProvider: provider,
		RailSolver:    realRailSolver(),
	})

	truck, _ := resolver.Resolve(context.Background(), "Houston, TX", "New Orleans, LA", network.ModeTruck)
	railLeg, _ := resolver.Resolve(context.Background(), "Houston, TX", "New Orleans, LA", network.ModeRail)

	if truck.Method == railLeg.Method && truck.DistanceMiles == railLeg.DistanceMiles {
		t.Error("expected modes to resolve independently")
	}
	if resolver.CacheStats().TotalEntries != 2 {
		t.Errorf("expected 2 cache entries, got %d", resolver.CacheStats().TotalEntries)
	}
}

func TestResolver_Resolve_ConcurrentRequests(t *testing.T) {
	provider := &mockDirections{
		name:     "test-provider",
		delay:    50 * time.Millisecond, // Simulate slow provider
		response: &Directions{DistanceMiles: 355, DurationHours: 6.5},
	}

	resolver := NewResolver(ResolverConfig{
		TruckProvider: provider,
		RailSolver:    realRailSolver(),
		CacheTTL:      5 * time.Minute,
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := resolver.Resolve(context.Background(), "Houston, TX", "New Orleans, LA", network.ModeTruck)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	// With double-check locking, only a few calls should reach the provider
	// (not all 10)
	calls := provider.callCount.Load()
	if calls > 3 {
		t.Errorf("expected <= 3 provider calls with double-check locking, got %d", calls)
	}
}

func TestResolver_InvalidateCache(t *testing.T) {
	provider := &mockDirections{
		name:     "test-provider",
		response: &Directions{DistanceMiles: 355, DurationHours: 6.5},
	}

	resolver := NewResolver(ResolverConfig{
		TruckProvider: provider,
		RailSolver:    realRailSolver(),
	})

	_, _ = resolver.Resolve(context.Background(), "Houston, TX", "New Orleans, LA", network.ModeTruck)
	if resolver.CacheStats().TotalEntries != 1 {
		t.Fatal("expected cache to have 1 entry")
	}

	resolver.InvalidateCache()

	if resolver.CacheStats().TotalEntries != 0 {
		t.Errorf("expected empty cache after invalidation, got %d entries", resolver.CacheStats().TotalEntries)
	}

	_, _ = resolver.Resolve(context.Background(), "Houston, TX", "New Orleans, LA", network.ModeTruck)
	if provider.callCount.Load() != 2 {
		t.Errorf("expected 2 provider calls after cache invalidation, got %d", provider.callCount.Load())
	}
}

func TestResolver_Sweep(t *testing.T) {
	provider := &mockDirections{
		name:     "test-provider",
		response: &Directions{DistanceMiles: 355, DurationHours: 6.5},
	}

	resolver := NewResolver(ResolverConfig{
		TruckProvider:   provider,
		RailSolver:      realRailSolver(),
		CacheTTL:        10 * time.Millisecond,
		StaleIfErrorTTL: 20 * time.Millisecond,
	})

	_, _ = resolver.Resolve(context.Background(), "Houston, TX", "New Orleans, LA", network.ModeTruck)

	// Entry still inside the stale window survives the sweep.
	if removed := resolver.Sweep(); removed != 0 {
		t.Errorf("expected 0 removals, got %d", removed)
	}

	time.Sleep(30 * time.Millisecond)

	if removed := resolver.Sweep(); removed != 1 {
		t.Errorf("expected 1 removal after stale window, got %d", removed)
	}
	if resolver.CacheStats().TotalEntries != 0 {
		t.Errorf("expected empty cache after sweep, got %d", resolver.CacheStats().TotalEntries)
	}
}

func TestResolver_CacheStats(t *testing.T) {
	provider := &mockDirections{
		name:     "test-provider",
		response: &Directions{DistanceMiles: 355, DurationHours: 6.5},
	}

	resolver := NewResolver(ResolverConfig{
		TruckProvider: provider,
		RailSolver:    realRailSolver(),
	})

	stats := resolver.CacheStats()
	if stats.TotalEntries != 0 {
		t.Errorf("expected 0 entries, got %d", stats.TotalEntries)
	}
	if stats.Provider != "test-provider" {
		t.Errorf("expected provider 'test-provider', got '%s'", stats.Provider)
	}

	_, _ = resolver.Resolve(context.Background(), "Houston, TX", "New Orleans, LA", network.ModeTruck)

	stats = resolver.CacheStats()
	if stats.TotalEntries != 1 {
		t.Errorf("expected 1 entry, got %d", stats.TotalEntries)
	}
	if stats.FreshEntries != 1 {
		t.Errorf("expected 1 fresh entry, got %d", stats.FreshEntries)
	}
}
