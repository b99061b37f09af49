package cost

import "sort"

// Per-fuel economics used when no live oracle data is available. Prices are
// USD per ton; multipliers scale the rail tonne-mile rate for handling
// complexity.
var (
	staticPricesPerTon = map[string]float64{
		"hydrogen": 2500,
		"methanol": 450,
		"ammonia":  550,
		"gasoline": 700,
		"diesel":   750,
		"ethanol":  600,
	}

	fuelMultipliers = map[string]float64{
		"hydrogen": 1.4,
		"ammonia":  1.3,
		"methanol": 1.15,
		"gasoline": 1.0,
		"diesel":   1.05,
	}
)

const (
	defaultFuelMultiplier = 1.2
	defaultStaticPrice    = 700 // gasoline stands in for unlisted fuels

	hydrogenTruckCapacityTons = 8
	standardTruckCapacityTons = 12
)

// KnownFuel reports whether fuel has a static price entry. Unknown fuels are
// still costable (default multiplier, gasoline price) but callers validating
// requests should reject them.
func KnownFuel(fuel string) bool {
	_, ok := staticPricesPerTon[fuel]
	return ok
}

// Fuels returns the supported fuel types in sorted order.
func Fuels() []string {
	out := make([]string, 0, len(staticPricesPerTon))
	for f := range staticPricesPerTon {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// FuelMultiplier returns the rail handling multiplier for fuel.
func FuelMultiplier(fuel string) float64 {
	if m, ok := fuelMultipliers[fuel]; ok {
		return m
	}
	return defaultFuelMultiplier
}

// StaticPricePerTon returns the static commodity price for fuel.
func StaticPricePerTon(fuel string) float64 {
	if p, ok := staticPricesPerTon[fuel]; ok {
		return p
	}
	return defaultStaticPrice
}

// TruckCapacityTons returns the per-truck payload limit for fuel. Hydrogen
// ships in pressurized trailers with a lower payload.
func TruckCapacityTons(fuel string) float64 {
	if fuel == "hydrogen" {
		return hydrogenTruckCapacityTons
	}
	return standardTruckCapacityTons
}
