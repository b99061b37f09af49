package distance

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/network"
)

const (
	truckSpeedMPH = 55.0
	railSpeedMPH  = 45.0

	// Road-network factors applied to great-circle estimates.
	truckRoadFactor = 1.15
	railRoadFactor  = 1.25

	// fixedFallbackMiles is used when a hub has no coordinates to
	// estimate from.
	fixedFallbackMiles = 1000.0
)

// ResolverConfig holds configuration for the distance resolver.
type ResolverConfig struct {
	// TruckProvider is the live road-directions provider. Optional;
	// without it truck legs resolve from curated data.
	TruckProvider DirectionsProvider

	// RailSolver resolves rail paths. Required.
	RailSolver RailSolver

	// Logger for resolver operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache resolved legs (default: 1 hour).
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving stale legs on resolution errors (default: 3 hours).
	StaleIfErrorTTL time.Duration

	// CleanupInterval is how often to clean up expired entries (default: 1 hour).
	CleanupInterval time.Duration
}

// Resolver resolves leg distances with caching. Tiers are tried in
// order per mode; the first success wins and records its provenance on
// the leg.
type Resolver struct {
	truckProvider   DirectionsProvider
	railSolver      RailSolver
	logger          zerolog.Logger
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration
	cleanupInterval time.Duration

	mu          sync.RWMutex
	cache       map[string]*cachedLeg
	lastCleanup time.Time
}

type cachedLeg struct {
	leg        *Leg
	resolvedAt time.Time
	expiresAt  time.Time
}

// NewResolver creates a distance resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 3 * time.Hour
	}

	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval == 0 {
		cleanupInterval = time.Hour
	}

	return &Resolver{
		truckProvider:   cfg.TruckProvider,
		railSolver:      cfg.RailSolver,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleIfErrorTTL,
		cleanupInterval: cleanupInterval,
		cache:           make(map[string]*cachedLeg),
	}
}

// tier is one resolution strategy. Tiers run in declared order; a
// failure falls through to the next.
type tier struct {
	name string
	run  func(ctx context.Context, origin, destination network.Hub) (*Leg, error)
}

// Resolve returns the leg between two hubs for a mode. Uses cached data
// if available and not expired.
func (r *Resolver) Resolve(ctx context.Context, origin, destination string, mode network.Mode) (*Leg, error) {
	originHub, ok := network.HubByName(origin)
	if !ok {
		return nil, &Error{
			Code:    "UNKNOWN_ORIGIN",
			Message: fmt.Sprintf("unknown origin hub %q", origin),
			Err:     ErrUnknownHub,
		}
	}
	destHub, ok := network.HubByName(destination)
	if !ok {
		return nil, &Error{
			Code:    "UNKNOWN_DESTINATION",
			Message: fmt.Sprintf("unknown destination hub %q", destination),
			Err:     ErrUnknownHub,
		}
	}
	if !mode.Valid() {
		return nil, &Error{
			Code:    "UNSUPPORTED_MODE",
			Message: fmt.Sprintf("unsupported transport mode %q", mode),
			Err:     ErrUnsupportedMode,
		}
	}

	cacheKey := r.cacheKey(origin, destination, mode)

	r.mu.RLock()
	if cached, ok := r.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		r.mu.RUnlock()
		r.logger.Debug().
			Str("cache_key", cacheKey).
			Msg("cache hit for leg")
		return cached.leg, nil
	}
	r.mu.RUnlock()

	return r.resolveLeg(ctx, originHub, destHub, mode, cacheKey)
}

// resolveLeg runs the tier chain and updates the cache.
func (r *Resolver) resolveLeg(ctx context.Context, origin, destination network.Hub, mode network.Mode, cacheKey string) (*Leg, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check cache (prevents thundering herd)
	if cached, ok := r.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		r.logger.Debug().
			Str("cache_key", cacheKey).
			Msg("cache hit after double-check")
		return cached.leg, nil
	}

	var lastErr error
	for _, t := range r.tiers(mode) {
		leg, err := t.run(ctx, origin, destination)
		if err != nil {
			lastErr = err
			r.logger.Warn().Err(err).
				Str("tier", t.name).
				Str("origin", origin.Name).
				Str("destination", destination.Name).
				Str("mode", string(mode)).
				Msg("resolution tier failed, falling through")
			continue
		}

		leg.Origin = origin.Name
		leg.Destination = destination.Name
		leg.Mode = mode
		leg.ResolvedAt = time.Now()

		r.cache[cacheKey] = &cachedLeg{
			leg:        leg,
			resolvedAt: leg.ResolvedAt,
			expiresAt:  leg.ResolvedAt.Add(r.cacheTTL),
		}

		r.logger.Debug().
			Str("cache_key", cacheKey).
			Str("tier", t.name).
			Str("method", string(leg.Method)).
			Float64("distance_miles", leg.DistanceMiles).
			Msg("cached resolved leg")

		r.cleanupIfNeeded()

		return leg, nil
	}

	// Check for stale data (stale-if-error pattern)
	if cached, ok := r.cache[cacheKey]; ok {
		if time.Now().Before(cached.resolvedAt.Add(r.staleIfErrorTTL)) {
			r.logger.Warn().
				Time("resolved_at", cached.resolvedAt).
				Str("cache_key", cacheKey).
				Msg("serving stale leg due to resolution errors")
			return cached.leg, nil
		}
	}

	if lastErr == nil {
		lastErr = ErrNoRouteFound
	}
	return nil, &Error{
		Code:    "RESOLUTION_FAILED",
		Message: fmt.Sprintf("all tiers failed for %s to %s by %s", origin.Name, destination.Name, mode),
		Err:     fmt.Errorf("%w: %w", ErrResolutionFailed, lastErr),
	}
}

// tiers returns the ordered strategy chain for a mode.
func (r *Resolver) tiers(mode network.Mode) []tier {
	switch mode {
	case network.ModeTruck:
		chain := make([]tier, 0, 3)
		if r.truckProvider != nil {
			chain = append(chain, tier{name: "live_directions", run: r.liveTruckTier})
		}
		return append(chain,
			tier{name: "distance_matrix", run: r.matrixTier(mode)},
			tier{name: "coordinate_estimate", run: r.estimateTier(mode)},
		)
	case network.ModeRail:
		return []tier{
			{name: "rail_network", run: r.railTier},
			{name: "distance_matrix", run: r.matrixTier(mode)},
			{name: "coordinate_estimate", run: r.estimateTier(mode)},
		}
	}
	return nil
}

func (r *Resolver) liveTruckTier(ctx context.Context, origin, destination network.Hub) (*Leg, error) {
	dirs, err := r.truckProvider.Directions(ctx, origin.Name, destination.Name)
	if err != nil {
		return nil, err
	}
	return &Leg{
		DistanceMiles: dirs.DistanceMiles,
		DurationHours: dirs.DurationHours,
		Method:        network.MethodLiveDirections,
		Path:          []string{origin.Name, destination.Name},
		Geometry:      dirs.Geometry,
	}, nil
}

func (r *Resolver) railTier(ctx context.Context, origin, destination network.Hub) (*Leg, error) {
	p, err := r.railSolver.Solve(origin.Name, destination.Name)
	if err != nil {
		return nil, err
	}
	return &Leg{
		DistanceMiles: p.DistanceMiles,
		DurationHours: p.DurationHours,
		Method:        p.Method,
		Path:          p.Hubs,
		Railroads:     p.Railroads,
	}, nil
}

func (r *Resolver) matrixTier(mode network.Mode) func(ctx context.Context, origin, destination network.Hub) (*Leg, error) {
	return func(ctx context.Context, origin, destination network.Hub) (*Leg, error) {
		d, ok := network.MatrixDistance(origin.Name, destination.Name, mode)
		if !ok {
			return nil, fmt.Errorf("%w: no tabulated %s mileage for %s to %s",
				ErrNoRouteFound, mode, origin.Name, destination.Name)
		}
		return &Leg{
			DistanceMiles: d,
			DurationHours: durationHours(d, mode),
			Method:        network.MethodDistanceMatrix,
			Path:          []string{origin.Name, destination.Name},
		}, nil
	}
}

func (r *Resolver) estimateTier(mode network.Mode) func(ctx context.Context, origin, destination network.Hub) (*Leg, error) {
	return func(ctx context.Context, origin, destination network.Hub) (*Leg, error) {
		d := estimateMiles(origin, destination, mode)
		return &Leg{
			DistanceMiles: d,
			DurationHours: durationHours(d, mode),
			Method:        network.MethodCoordinateEstimate,
			Path:          []string{origin.Name, destination.Name},
		}, nil
	}
}

// estimateMiles scales the great-circle distance by the mode's road
// factor. Hubs without coordinates fall back to a fixed figure.
func estimateMiles(origin, destination network.Hub, mode network.Mode) float64 {
	if (origin.Lat == 0 && origin.Lon == 0) || (destination.Lat == 0 && destination.Lon == 0) {
		return fixedFallbackMiles
	}
	factor := truckRoadFactor
	if mode == network.ModeRail {
		factor = railRoadFactor
	}
	return math.Round(network.GreatCircleMiles(origin, destination) * factor)
}

// durationHours derives leg time from distance. Rail adds yard time for
// switching, between 2 and 4 hours scaled by distance.
func durationHours(distanceMiles float64, mode network.Mode) float64 {
	if mode == network.ModeRail {
		yard := math.Min(4, math.Max(2, distanceMiles/500))
		return math.Round((distanceMiles/railSpeedMPH+yard)*10) / 10
	}
	return math.Round(distanceMiles/truckSpeedMPH*10) / 10
}

// cacheKey generates a cache key for a leg lookup.
// Format: {origin}|{destination}|{mode}.
func (r *Resolver) cacheKey(origin, destination string, mode network.Mode) string {
	return origin + "|" + destination + "|" + string(mode)
}

// cleanupIfNeeded removes expired entries if cleanup interval has passed.
func (r *Resolver) cleanupIfNeeded() {
	now := time.Now()
	if now.Sub(r.lastCleanup) < r.cleanupInterval {
		return
	}

	r.lastCleanup = now
	expired := 0

	for key, cached := range r.cache {
		// Remove entries that are past the stale-if-error window
		if now.After(cached.resolvedAt.Add(r.staleIfErrorTTL)) {
			delete(r.cache, key)
			expired++
		}
	}

	if expired > 0 {
		r.logger.Debug().
			Int("expired_entries", expired).
			Msg("cleaned up expired leg cache entries")
	}
}

// Sweep removes every cache entry past the stale-if-error window,
// regardless of the cleanup interval. The worker calls this hourly.
func (r *Resolver) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	expired := 0
	for key, cached := range r.cache {
		if now.After(cached.resolvedAt.Add(r.staleIfErrorTTL)) {
			delete(r.cache, key)
			expired++
		}
	}
	r.lastCleanup = now
	return expired
}

// InvalidateCache clears all cached legs.
func (r *Resolver) InvalidateCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*cachedLeg)
}

// CacheStats contains cache statistics.
type CacheStats struct {
	TotalEntries int
	FreshEntries int
	StaleEntries int
	Provider     string
}

// CacheStats returns cache statistics.
func (r *Resolver) CacheStats() CacheStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now()
	fresh := 0
	stale := 0

	for _, c := range r.cache {
		if now.Before(c.expiresAt) {
			fresh++
		} else if now.Before(c.resolvedAt.Add(r.staleIfErrorTTL)) {
			stale++
		}
	}

	provider := "static"
	if r.truckProvider != nil {
		provider = r.truckProvider.Name()
	}

	return CacheStats{
		TotalEntries: len(r.cache),
		FreshEntries: fresh,
		StaleEntries: stale,
		Provider:     provider,
	}
}
