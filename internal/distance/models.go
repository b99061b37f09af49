// Package distance resolves leg distances and durations between freight
// hubs, layering live providers over curated mileage and great-circle
// estimates.
package distance

import (
	"context"
	"errors"
	"time"

	"github.com/fuelroute/fuelroute/internal/network"
	"github.com/fuelroute/fuelroute/internal/rail"
)

// Sentinel errors for distance resolution.
var (
	// ErrUnknownHub indicates the origin or destination is not a registered hub.
	ErrUnknownHub = errors.New("unknown hub")
	// ErrUnsupportedMode indicates the transport mode is outside the supported set.
	ErrUnsupportedMode = errors.New("unsupported transport mode")
	// ErrProviderUnavailable indicates the directions provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("directions provider unavailable")
	// ErrNoRouteFound indicates the provider could not route between the given hubs.
	ErrNoRouteFound = errors.New("no route found between the given hubs")
	// ErrRateLimitExceeded indicates the provider API quota has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrResolutionFailed indicates every resolution tier failed for the leg.
	ErrResolutionFailed = errors.New("distance resolution failed")
)

// DirectionsProvider defines the interface for live road-directions
// providers.
type DirectionsProvider interface {
	// Directions retrieves truck driving directions between two hubs.
	Directions(ctx context.Context, origin, destination string) (*Directions, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// RailSolver resolves rail paths across the freight network.
type RailSolver interface {
	Solve(origin, destination string) (*rail.Path, error)
}

// Coordinate represents a geographic point.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Directions is a live provider's answer for one road movement.
type Directions struct {
	DistanceMiles float64
	DurationHours float64
	Geometry      []Coordinate
	Summary       string
	Provider      string
	FetchedAt     time.Time
}

// Leg is a resolved movement between two hubs by a single mode.
type Leg struct {
	Origin        string
	Destination   string
	Mode          network.Mode
	DistanceMiles float64
	DurationHours float64
	Method        network.Method
	Path          []string
	Geometry      []Coordinate
	Railroads     []string
	ResolvedAt    time.Time
}

// Estimated reports whether the leg was produced by a low-confidence
// fallback tier.
func (l *Leg) Estimated() bool {
	return l.Method.Estimated()
}

// Error provides detailed error information from distance resolution.
type Error struct {
	Provider string // Provider that generated the error
	Code     string // Error code from the provider
	Message  string // Human-readable error message
	Err      error  // Underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is transient and the request can be retried.
func (e *Error) IsRetryable() bool {
	return errors.Is(e.Err, ErrProviderUnavailable) || errors.Is(e.Err, ErrRateLimitExceeded)
}
