// Package worker provides background job processing for FuelRoute.
package worker

import (
	"time"

	"github.com/fuelroute/fuelroute/internal/network"
)

// Lane is an origin-destination pair to keep warm in the distance and
// pricing caches.
type Lane struct {
	Origin      string
	Destination string

	// Priority determines prewarm order (lower = higher priority).
	Priority int
}

// RefreshConfig holds configuration for the cache prewarm job.
type RefreshConfig struct {
	// Lanes are the shipping lanes to prewarm.
	// If empty, uses DefaultLanes.
	Lanes []Lane

	// Modes to prewarm per lane. If empty, every supported mode.
	Modes []network.Mode

	// Fuels to prewarm transport factors for.
	// Default: diesel only, the highest-volume commodity.
	Fuels []string

	// Concurrency is the number of concurrent prewarm operations.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for each prewarm operation.
	// Default: 30 seconds
	Timeout time.Duration

	// PrewarmDistances enables distance leg prewarming.
	// Default: true
	PrewarmDistances bool

	// PrewarmFactors enables pricing factor prewarming.
	// Default: true
	PrewarmFactors bool

	// RecordRetention is how long persisted route calculations are
	// kept before the sweep purges them. Default: 30 days.
	RecordRetention time.Duration
}

// DefaultRefreshConfig returns the default prewarm configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Lanes:            DefaultLanes(),
		Modes:            network.Modes(),
		Fuels:            []string{"diesel"},
		Concurrency:      3,
		Timeout:          30 * time.Second,
		PrewarmDistances: true,
		PrewarmFactors:   true,
		RecordRetention:  30 * 24 * time.Hour,
	}
}

// DefaultLanes returns the highest-volume fuel corridors. Gulf Coast
// refinery lanes first, then the transcontinental and Midwest legs.
func DefaultLanes() []Lane {
	return []Lane{
		{Origin: "Houston, TX", Destination: "New Orleans, LA", Priority: 1},
		{Origin: "Houston, TX", Destination: "Mobile, AL", Priority: 1},
		{Origin: "Houston, TX", Destination: "Memphis, TN", Priority: 1},
		{Origin: "Houston, TX", Destination: "St. Louis, MO", Priority: 1},
		{Origin: "Houston, TX", Destination: "Chicago, IL", Priority: 1},
		{Origin: "New Orleans, LA", Destination: "Memphis, TN", Priority: 2},
		{Origin: "Los Angeles, CA", Destination: "Long Beach, CA", Priority: 2},
		{Origin: "Los Angeles, CA", Destination: "San Francisco/Oakland, CA", Priority: 2},
		{Origin: "Seattle, WA", Destination: "Portland, OR", Priority: 2},
		{Origin: "Seattle, WA", Destination: "Chicago, IL", Priority: 3},
		{Origin: "Chicago, IL", Destination: "New York/NJ", Priority: 3},
		{Origin: "New York/NJ", Destination: "Philadelphia, PA", Priority: 3},
		{Origin: "Norfolk, VA", Destination: "Savannah, GA", Priority: 3},
	}
}

// AllLanes returns every configured lane.
func (c RefreshConfig) AllLanes() []Lane {
	return c.Lanes
}

// TotalLegs returns the number of mode-specific legs to prewarm.
func (c RefreshConfig) TotalLegs() int {
	return len(c.Lanes) * len(c.Modes)
}
