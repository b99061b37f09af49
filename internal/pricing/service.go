package pricing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/network"
)

// ServiceConfig holds configuration for the pricing service.
type ServiceConfig struct {
	// Oracle is the AI pricing provider.
	Oracle Oracle

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long quotes and factors stay fresh. Nil uses the
	// 15-minute default; zero or negative disables caching entirely,
	// including stale-on-error, so every lookup goes live.
	CacheTTL *time.Duration

	// CallTimeout bounds every oracle call regardless of the caller's
	// context (default: 15 seconds).
	CallTimeout time.Duration

	// StaleIfErrorTTL allows serving expired data on oracle errors
	// (default: 6 hours).
	StaleIfErrorTTL time.Duration
}

// Service provides cached pricing data. A failed oracle call never
// disables the service; the next request simply retries, and stale
// cached data bridges the gap in between.
type Service struct {
	oracle          Oracle
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cacheDisabled   bool
	callTimeout     time.Duration
	staleIfErrorTTL time.Duration

	mu           sync.RWMutex
	quoteCache   map[string]*cachedQuote
	factorsCache map[string]*cachedFactors
}

type cachedQuote struct {
	quote     *Quote
	fetchedAt time.Time
	expiresAt time.Time
}

type cachedFactors struct {
	factors   *Factors
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a pricing service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := 15 * time.Minute
	cacheDisabled := false
	if cfg.CacheTTL != nil {
		cacheTTL = *cfg.CacheTTL
		cacheDisabled = cacheTTL <= 0
	}

	callTimeout := cfg.CallTimeout
	if callTimeout == 0 {
		callTimeout = 15 * time.Second
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 6 * time.Hour
	}

	return &Service{
		oracle:          cfg.Oracle,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cacheDisabled:   cacheDisabled,
		callTimeout:     callTimeout,
		staleIfErrorTTL: staleIfErrorTTL,
		quoteCache:      make(map[string]*cachedQuote),
		factorsCache:    make(map[string]*cachedFactors),
	}
}

// CommodityPrice returns the current wholesale price for a fuel, served
// from cache when fresh.
func (s *Service) CommodityPrice(ctx context.Context, fuelType string) (*Quote, error) {
	key := "price_" + fuelType

	if !s.cacheDisabled {
		s.mu.RLock()
		if cached, ok := s.quoteCache[key]; ok && time.Now().Before(cached.expiresAt) {
			s.mu.RUnlock()
			s.logger.Debug().Str("cache_key", key).Msg("cache hit for commodity price")
			return cached.quote, nil
		}
		s.mu.RUnlock()
	}

	return s.fetchQuote(ctx, key, fuelType)
}

func (s *Service) fetchQuote(ctx context.Context, key, fuelType string) (*Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache (prevents thundering herd)
	if !s.cacheDisabled {
		if cached, ok := s.quoteCache[key]; ok && time.Now().Before(cached.expiresAt) {
			return cached.quote, nil
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	quote, err := s.oracle.CommodityPrice(callCtx, fuelType)
	if err != nil {
		s.logger.Error().Err(err).
			Str("fuel_type", fuelType).
			Msg("oracle price fetch failed")

		// Stale-if-error: a single failure never takes the oracle out
		// of service, and old data beats no data.
		if !s.cacheDisabled {
			if cached, ok := s.quoteCache[key]; ok && time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Str("cache_key", key).
					Time("fetched_at", cached.fetchedAt).
					Msg("serving stale commodity price due to oracle error")
				return cached.quote, nil
			}
		}
		return nil, err
	}

	quote.FuelType = fuelType
	quote.FetchedAt = time.Now()

	if !s.cacheDisabled {
		s.quoteCache[key] = &cachedQuote{
			quote:     quote,
			fetchedAt: quote.FetchedAt,
			expiresAt: quote.FetchedAt.Add(s.cacheTTL),
		}
	}

	s.logger.Debug().
		Str("fuel_type", fuelType).
		Float64("price_per_ton", quote.PricePerTon).
		Str("confidence", quote.Confidence).
		Msg("cached commodity price")

	return quote, nil
}

// TransportFactors returns market cost factors for one mode and fuel.
// Distance is bucketed into 100-mile bands so nearby requests share an
// entry.
func (s *Service) TransportFactors(ctx context.Context, mode network.Mode, fuelType string, distanceMiles float64) (*Factors, error) {
	key := factorsKey(mode, fuelType, distanceMiles)

	if !s.cacheDisabled {
		s.mu.RLock()
		if cached, ok := s.factorsCache[key]; ok && time.Now().Before(cached.expiresAt) {
			s.mu.RUnlock()
			s.logger.Debug().Str("cache_key", key).Msg("cache hit for transport factors")
			return cached.factors, nil
		}
		s.mu.RUnlock()
	}

	return s.fetchFactors(ctx, key, mode, fuelType, distanceMiles)
}

func (s *Service) fetchFactors(ctx context.Context, key string, mode network.Mode, fuelType string, distanceMiles float64) (*Factors, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cacheDisabled {
		if cached, ok := s.factorsCache[key]; ok && time.Now().Before(cached.expiresAt) {
			return cached.factors, nil
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	factors, err := s.oracle.TransportFactors(callCtx, mode, fuelType, distanceMiles)
	if err != nil {
		s.logger.Error().Err(err).
			Str("mode", string(mode)).
			Str("fuel_type", fuelType).
			Float64("distance_miles", distanceMiles).
			Msg("oracle factors fetch failed")

		if !s.cacheDisabled {
			if cached, ok := s.factorsCache[key]; ok && time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Str("cache_key", key).
					Time("fetched_at", cached.fetchedAt).
					Msg("serving stale transport factors due to oracle error")
				return cached.factors, nil
			}
		}
		return nil, err
	}

	factors.FetchedAt = time.Now()

	if !s.cacheDisabled {
		s.factorsCache[key] = &cachedFactors{
			factors:   factors,
			fetchedAt: factors.FetchedAt,
			expiresAt: factors.FetchedAt.Add(s.cacheTTL),
		}
	}

	s.logger.Debug().
		Str("cache_key", key).
		Float64("base_rate_per_mile", factors.BaseRatePerMile).
		Msg("cached transport factors")

	return factors, nil
}

// factorsKey buckets distance into 100-mile bands.
// Format: transport_{mode}_{fuel}_{distance/100}.
func factorsKey(mode network.Mode, fuelType string, distanceMiles float64) string {
	return fmt.Sprintf("transport_%s_%s_%d", mode, fuelType, int(distanceMiles/100))
}

// Sweep removes entries past the stale-if-error window. The worker
// calls this hourly.
func (s *Service) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, cached := range s.quoteCache {
		if now.After(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			delete(s.quoteCache, key)
			removed++
		}
	}
	for key, cached := range s.factorsCache {
		if now.After(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			delete(s.factorsCache, key)
			removed++
		}
	}
	return removed
}

// InvalidateCache clears all cached pricing data.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quoteCache = make(map[string]*cachedQuote)
	s.factorsCache = make(map[string]*cachedFactors)
}

// CacheStats contains cache statistics.
type CacheStats struct {
	QuoteEntries   int
	FactorsEntries int
	FreshEntries   int
	StaleEntries   int
	Oracle         string
}

// CacheStats returns cache statistics.
func (s *Service) CacheStats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	fresh := 0
	stale := 0

	for _, c := range s.quoteCache {
		if now.Before(c.expiresAt) {
			fresh++
		} else if now.Before(c.fetchedAt.Add(s.staleIfErrorTTL)) {
			stale++
		}
	}
	for _, c := range s.factorsCache {
		if now.Before(c.expiresAt) {
			fresh++
		} else if now.Before(c.fetchedAt.Add(s.staleIfErrorTTL)) {
			stale++
		}
	}

	return CacheStats{
		QuoteEntries:   len(s.quoteCache),
		FactorsEntries: len(s.factorsCache),
		FreshEntries:   fresh,
		StaleEntries:   stale,
		Oracle:         s.oracle.Name(),
	}
}

// OracleName returns the name of the underlying oracle.
func (s *Service) OracleName() string {
	return s.oracle.Name()
}
