package models

import (
	"github.com/fuelroute/fuelroute/internal/network"
	"github.com/fuelroute/fuelroute/internal/planner"
	"github.com/fuelroute/fuelroute/internal/routestore"
)

// RouteComputeRequest is the request body for computing route options.
type RouteComputeRequest struct {
	Origin          string   `json:"origin" validate:"required"`
	Destination     string   `json:"destination" validate:"required"`
	IntermediateHub string   `json:"intermediateHub,omitempty"`
	FuelType        string   `json:"fuelType" validate:"required"`
	VolumeTons      float64  `json:"volumeTons" validate:"required,gt=0"`
	Modes           []string `json:"modes" validate:"required,min=1,max=2"`
	Preference      string   `json:"preference,omitempty" validate:"omitempty,oneof=cost distance"`
}

// ToPlannerRequest converts the DTO into a domain request. Validation happens
// in the planner, which reports every invalid field at once.
func (r *RouteComputeRequest) ToPlannerRequest() planner.RouteRequest {
	modes := make([]network.Mode, len(r.Modes))
	for i, m := range r.Modes {
		modes[i] = network.Mode(m)
	}
	return planner.RouteRequest{
		Origin:          r.Origin,
		Destination:     r.Destination,
		IntermediateHub: r.IntermediateHub,
		FuelType:        r.FuelType,
		VolumeTons:      r.VolumeTons,
		Modes:           modes,
		Preference:      planner.Preference(r.Preference),
	}
}

// RouteCalculateRequest is the request body for the detailed calculation of
// one previously offered option.
type RouteCalculateRequest struct {
	Request        RouteComputeRequest  `json:"request"`
	SelectedOption *planner.RouteOption `json:"selectedOption" validate:"required"`
}

// RouteHistoryItem is one persisted calculation in the history listing.
type RouteHistoryItem struct {
	ID            string    `json:"id"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	FuelType      string    `json:"fuelType"`
	VolumeTons    float64   `json:"volumeTons"`
	Modes         []string  `json:"modes"`
	DistanceMiles float64   `json:"distanceMiles"`
	BaseCost      float64   `json:"baseCost"`
	TotalCost     float64   `json:"totalCost"`
	Confidence    int       `json:"confidence"`
	AIEnhanced    bool      `json:"aiEnhanced"`
	CreatedAt     Timestamp `json:"createdAt"`
}

// RouteHistoryResponse is the response for the history listing.
type RouteHistoryResponse struct {
	Items []RouteHistoryItem `json:"items"`
}

// NewRouteHistoryItem maps a stored record onto the wire shape.
func NewRouteHistoryItem(rec *routestore.Record) RouteHistoryItem {
	modes := make([]string, len(rec.Modes))
	for i, m := range rec.Modes {
		modes[i] = string(m)
	}
	return RouteHistoryItem{
		ID:            rec.ID,
		Origin:        rec.Origin,
		Destination:   rec.Destination,
		FuelType:      rec.FuelType,
		VolumeTons:    rec.VolumeTons,
		Modes:         modes,
		DistanceMiles: rec.DistanceMiles,
		BaseCost:      rec.BaseCost,
		TotalCost:     rec.TotalCost,
		Confidence:    rec.Confidence,
		AIEnhanced:    rec.AIEnhanced,
		CreatedAt:     Timestamp(rec.CreatedAt),
	}
}
