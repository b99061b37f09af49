package cost

import (
	"errors"
	"math"

	"github.com/fuelroute/fuelroute/internal/network"
)

var (
	// ErrInvalidVolume indicates a non-positive shipment volume.
	ErrInvalidVolume = errors.New("volume must be greater than zero")

	// ErrInvalidDistance indicates a non-positive leg distance.
	ErrInvalidDistance = errors.New("distance must be greater than zero")

	// ErrUnsupportedMode indicates a transport mode with no rate model.
	ErrUnsupportedMode = errors.New("no rate model for transport mode")
)

// Transport is the priced transport component of a single leg or route,
// excluding commodity purchase cost.
type Transport struct {
	Mode          network.Mode `json:"mode"`
	Cost          float64      `json:"cost"`
	RatePerMile   float64      `json:"rate_per_mile"`
	TrucksNeeded  int          `json:"trucks_needed,omitempty"`
	FuelSurcharge float64      `json:"fuel_surcharge,omitempty"`
	AIEnhanced    bool         `json:"ai_enhanced"`
	Fallback      bool         `json:"fallback"`
}

// Commodity is the purchase cost of the shipped fuel itself.
type Commodity struct {
	FuelType    string  `json:"fuel_type"`
	PricePerTon float64 `json:"price_per_ton"`
	TotalCost   float64 `json:"total_cost"`
	VolumeTons  float64 `json:"volume_tons"`
	Source      string  `json:"source"`
}

// Breakdown itemizes the fees layered on top of base transport cost, plus the
// commodity component. Fee fields are dollar amounts, not rates.
type Breakdown struct {
	FuelHandlingFee      float64 `json:"fuel_handling_fee"`
	TerminalFees         float64 `json:"terminal_fees"`
	HubTransferFee       float64 `json:"hub_transfer_fee"`
	InsuranceCost        float64 `json:"insurance_cost"`
	CarbonOffset         float64 `json:"carbon_offset"`
	CommodityCost        float64 `json:"commodity_cost"`
	CommodityPricePerTon float64 `json:"commodity_price_per_ton"`
}

// FeeTotal sums the transport fee fields. The commodity component is excluded;
// it is added alongside the fees when totals are assembled.
func (b Breakdown) FeeTotal() float64 {
	return b.FuelHandlingFee + b.TerminalFees + b.HubTransferFee + b.InsuranceCost + b.CarbonOffset
}

// Summary splits a detailed calculation into transport and commodity totals.
type Summary struct {
	TransportCosts float64 `json:"transport_costs"`
	CommodityCosts float64 `json:"commodity_costs"`
	TotalCosts     float64 `json:"total_costs"`
}

// Detail is a fully reconciled cost calculation for one route option.
type Detail struct {
	TotalCost    float64   `json:"total_cost"`
	BaseCost     float64   `json:"base_cost"`
	Confidence   int       `json:"confidence"`
	TrucksNeeded int       `json:"trucks_needed,omitempty"`
	Breakdown    Breakdown `json:"cost_breakdown"`
	Summary      Summary   `json:"cost_summary"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
