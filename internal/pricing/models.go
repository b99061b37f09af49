// Package pricing provides commodity quotes and transport cost factors
// from an AI pricing oracle, with caching and stale-on-error fallback.
package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/fuelroute/fuelroute/internal/network"
)

// Sentinel errors for pricing operations.
var (
	// ErrOracleUnavailable indicates the pricing oracle is down or the circuit breaker is open.
	ErrOracleUnavailable = errors.New("pricing oracle unavailable")
	// ErrMalformedOracleReply indicates the oracle answered but the reply could not be validated.
	ErrMalformedOracleReply = errors.New("malformed oracle reply")
	// ErrRateLimitExceeded indicates the oracle API quota has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Oracle defines the interface for AI pricing providers.
type Oracle interface {
	// CommodityPrice returns the current wholesale price for a fuel.
	CommodityPrice(ctx context.Context, fuelType string) (*Quote, error)
	// TransportFactors returns market cost factors for moving a fuel by
	// a mode over a distance.
	TransportFactors(ctx context.Context, mode network.Mode, fuelType string, distanceMiles float64) (*Factors, error)
	// Name returns the oracle identifier for logging and metrics.
	Name() string
}

// Quote is a commodity price quote in USD per metric ton.
type Quote struct {
	FuelType    string
	PricePerTon float64
	Unit        string
	Source      string
	Date        string
	Confidence  string
	FetchedAt   time.Time
}

// Factors are market transport cost factors for one mode/fuel/distance
// band. All four numeric fields are required from the oracle.
type Factors struct {
	BaseRatePerMile           float64
	FuelSurcharge             float64
	SpecialHandlingMultiplier float64
	DistanceEfficiency        float64
	MarketConditions          string
	FetchedAt                 time.Time
}

// Error provides detailed error information from the pricing oracle.
type Error struct {
	Provider string // Oracle that generated the error
	Code     string // Error code from the oracle
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
	return errors.Is(e.Err, ErrOracleUnavailable) || errors.Is(e.Err, ErrRateLimitExceeded)
}
