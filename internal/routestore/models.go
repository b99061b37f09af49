// Package routestore persists computed route calculations for history
// queries. Writes are fire-and-forget from the caller's perspective: a
// failed save never fails the calculation that produced the record.
package routestore

import (
	"errors"
	"time"

	"github.com/fuelroute/fuelroute/internal/cost"
	"github.com/fuelroute/fuelroute/internal/network"
)

// Repository errors.
var (
	ErrRecordNotFound = errors.New("route record not found")
)

// Record is one persisted route calculation.
type Record struct {
	ID            string
	Origin        string
	Destination   string
	FuelType      string
	VolumeTons    float64
	Modes         []network.Mode
	DistanceMiles float64
	BaseCost      float64
	TotalCost     float64
	Confidence    int
	Breakdown     cost.Breakdown
	AIEnhanced    bool
	CreatedAt     time.Time
}
