// Package planner turns a shipment request into ranked route options. It
// orchestrates distance resolution, oracle pricing, and cost assembly, and
// degrades to static tables when live data is unavailable.
package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/fuelroute/fuelroute/internal/cost"
	"github.com/fuelroute/fuelroute/internal/network"
)

// OptionType distinguishes single-mode routes from multi-leg ones.
type OptionType string

// Option types.
const (
	TypeDirect     OptionType = "direct"
	TypeMultiModal OptionType = "multimodal"
)

// RiskLevel buckets a feasibility score for display.
type RiskLevel string

// Risk levels.
const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Preference selects the ranking criterion for route options.
type Preference string

// Preferences.
const (
	PreferCost     Preference = "cost"
	PreferDistance Preference = "distance"
)

// RouteRequest is a validated shipment quote request.
type RouteRequest struct {
	Origin          string         `json:"origin"`
	Destination     string         `json:"destination"`
	IntermediateHub string         `json:"intermediate_hub,omitempty"`
	FuelType        string         `json:"fuel_type"`
	VolumeTons      float64        `json:"volume_tons"`
	Modes           []network.Mode `json:"modes"`
	Preference      Preference     `json:"preference,omitempty"`
}

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates all invalid fields of a request.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "invalid route request: " + strings.Join(msgs, "; ")
}

// Validate checks the request and reports every invalid field at once.
func (r *RouteRequest) Validate() error {
	var fields []FieldError
	add := func(field, format string, args ...any) {
		fields = append(fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	switch {
	case r.Origin == "":
		add("origin", "origin is required")
	case !network.KnownHub(r.Origin):
		add("origin", "unknown hub %q", r.Origin)
	}

	switch {
	case r.Destination == "":
		add("destination", "destination is required")
	case !network.KnownHub(r.Destination):
		add("destination", "unknown hub %q", r.Destination)
	case r.Destination == r.Origin:
		add("destination", "destination must differ from origin")
	}

	if r.IntermediateHub != "" {
		switch {
		case !network.KnownHub(r.IntermediateHub):
			add("intermediate_hub", "unknown hub %q", r.IntermediateHub)
		case r.IntermediateHub == r.Origin || r.IntermediateHub == r.Destination:
			add("intermediate_hub", "intermediate hub must differ from origin and destination")
		}
	}

	switch {
	case r.FuelType == "":
		add("fuel_type", "fuel type is required")
	case !cost.KnownFuel(r.FuelType):
		add("fuel_type", "unknown fuel type %q, supported: %s", r.FuelType, strings.Join(cost.Fuels(), ", "))
	}

	if r.VolumeTons <= 0 {
		add("volume_tons", "volume must be greater than zero")
	}

	switch {
	case len(r.Modes) == 0:
		add("modes", "at least one transport mode is required")
	case len(r.Modes) > 2:
		add("modes", "at most two transport modes are supported")
	default:
		for _, m := range r.Modes {
			if !m.Valid() {
				add("modes", "unknown transport mode %q", m)
			}
		}
	}

	if r.Preference != "" && r.Preference != PreferCost && r.Preference != PreferDistance {
		add("preference", "preference must be %q or %q", PreferCost, PreferDistance)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// RouteOption is one priced, scored way to move the requested shipment.
type RouteOption struct {
	ID                   string         `json:"id"`
	Type                 OptionType     `json:"type"`
	Name                 string         `json:"name"`
	Modes                []network.Mode `json:"modes"`
	DistanceMiles        float64        `json:"distance_miles"`
	DurationHours        float64        `json:"duration_hours"`
	TransportCost        float64        `json:"transport_cost"`
	CommodityCost        float64        `json:"commodity_cost"`
	CommodityPricePerTon float64        `json:"commodity_price_per_ton"`
	EstimatedCost        float64        `json:"estimated_cost"`
	TrucksNeeded         int            `json:"trucks_needed,omitempty"`
	FeasibilityScore     float64        `json:"feasibility_score"`
	RiskLevel            RiskLevel      `json:"risk_level"`
	Method               network.Method `json:"routing_method"`
	Path                 []string       `json:"path,omitempty"`
	Advantages           []string       `json:"advantages,omitempty"`
	AIEnhanced           bool           `json:"ai_enhanced"`
	Fallback             bool           `json:"fallback"`
}

// RouteSet is the full answer to one request.
type RouteSet struct {
	RequestID   string         `json:"request_id"`
	Origin      string         `json:"origin"`
	Destination string         `json:"destination"`
	FuelType    string         `json:"fuel_type"`
	VolumeTons  float64        `json:"volume_tons"`
	Options     []*RouteOption `json:"options"`
	Best        *RouteOption   `json:"best,omitempty"`
	Degraded    bool           `json:"degraded"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// Calculation is the reconciled detailed cost for one selected option.
type Calculation struct {
	RecordID string       `json:"record_id"`
	Option   *RouteOption `json:"option"`
	Detail   *cost.Detail `json:"calculation"`
	Repaired bool         `json:"repaired"`
}
