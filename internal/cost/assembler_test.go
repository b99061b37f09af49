package cost

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelroute/fuelroute/internal/network"
	"github.com/fuelroute/fuelroute/internal/pricing"
)

func newAssembler() *Assembler {
	return New(Config{Logger: zerolog.Nop()})
}

func TestTruckTransportStaticRates(t *testing.T) {
	a := newAssembler()

	tr, err := a.Transport(network.ModeTruck, 10, 350, "hydrogen", nil)
	require.NoError(t, err)

	// 10 t of hydrogen at 8 t/truck needs 2 trucks.
	assert.Equal(t, 2, tr.TrucksNeeded)
	assert.InDelta(t, 2.75, tr.RatePerMile, 1e-9)

	// 2 x 350 x 2.75 = 1925 base, +15% surcharge, +$200 loading and $150
	// hazmat per truck.
	want := 1925.0 + 1925.0*0.15 + 400 + 300
	assert.InDelta(t, want, tr.Cost, 0.01)
	assert.False(t, tr.AIEnhanced)
	assert.False(t, tr.Fallback)
}

func TestTruckTransportDistanceAdjustments(t *testing.T) {
	a := newAssembler()

	long, err := a.Transport(network.ModeTruck, 5, 1200, "diesel", nil)
	require.NoError(t, err)
	assert.InDelta(t, 2.75*0.85*0.9, long.RatePerMile, 1e-9)

	short, err := a.Transport(network.ModeTruck, 5, 50, "diesel", nil)
	require.NoError(t, err)
	assert.InDelta(t, 2.75*1.2, short.RatePerMile, 1e-9)
}

func TestTruckTransportOracleFactorsClamped(t *testing.T) {
	a := newAssembler()

	factors := &pricing.Factors{
		BaseRatePerMile:           2.0, // x1.5 = 3.0, below the floor
		FuelSurcharge:             0.2,
		SpecialHandlingMultiplier: 1.1,
	}
	tr, err := a.Transport(network.ModeTruck, 10, 350, "hydrogen", factors)
	require.NoError(t, err)

	assert.InDelta(t, 3.5*1.1, tr.RatePerMile, 1e-9)
	assert.InDelta(t, 0.2, tr.FuelSurcharge, 1e-9)
	assert.True(t, tr.AIEnhanced)

	factors.BaseRatePerMile = 10 // x1.5 = 15, above the ceiling
	tr, err = a.Transport(network.ModeTruck, 10, 350, "hydrogen", factors)
	require.NoError(t, err)
	assert.InDelta(t, 6.0*1.1, tr.RatePerMile, 1e-9)
}

func TestRailTransportStaticRates(t *testing.T) {
	a := newAssembler()

	tr, err := a.Transport(network.ModeRail, 10, 350, "hydrogen", nil)
	require.NoError(t, err)

	// 350 x $0.15/tonne-mile x 10 t x 1.4 hydrogen multiplier, plus $50/t
	// terminal handling.
	want := 350*0.15*10*1.4 + 10*50
	assert.InDelta(t, want, tr.Cost, 0.01)
	assert.Equal(t, 0, tr.TrucksNeeded)
}

func TestRailTransportLongHaulEfficiency(t *testing.T) {
	a := newAssembler()

	tr, err := a.Transport(network.ModeRail, 20, 2062, "methanol", nil)
	require.NoError(t, err)

	want := 2062*0.15*20*1.15*0.85 + 20*50
	assert.InDelta(t, want, tr.Cost, 0.01)
}

func TestRailTransportOracleRateClamped(t *testing.T) {
	a := newAssembler()

	tr, err := a.Transport(network.ModeRail, 10, 500, "gasoline", &pricing.Factors{
		BaseRatePerMile: 4.0, // /10 = 0.40, above the ceiling
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, tr.RatePerMile, 1e-9)
}

func TestTransportValidation(t *testing.T) {
	a := newAssembler()

	_, err := a.Transport(network.ModeTruck, 0, 350, "diesel", nil)
	assert.ErrorIs(t, err, ErrInvalidVolume)

	_, err = a.Transport(network.ModeTruck, 10, -5, "diesel", nil)
	assert.ErrorIs(t, err, ErrInvalidDistance)

	_, err = a.Transport(network.Mode("pipeline"), 10, 350, "diesel", nil)
	assert.ErrorIs(t, err, ErrUnsupportedMode)
}

func TestFallbackTransport(t *testing.T) {
	a := newAssembler()

	truck := a.FallbackTransport(network.ModeTruck, 10, 350, "hydrogen")
	base := 2.0 * 350 * 4.50
	assert.InDelta(t, base+base*0.15+2*350, truck.Cost, 0.01)
	assert.True(t, truck.Fallback)

	rail := a.FallbackTransport(network.ModeRail, 10, 350, "hydrogen")
	assert.InDelta(t, 350*0.15*10*1.4, rail.Cost, 0.01)
	assert.True(t, rail.Fallback)
}

func TestMultiModalTransport(t *testing.T) {
	a := newAssembler()

	tr, err := a.MultiModalTransport(10, 700, []network.Mode{network.ModeTruck, network.ModeRail}, "hydrogen", nil)
	require.NoError(t, err)

	// Each 350-mile segment priced independently, plus one $500 handoff.
	truckSeg := 1925.0 + 1925.0*0.15 + 400 + 300
	railSeg := 350*0.15*10*1.4 + 10*50
	assert.InDelta(t, truckSeg+railSeg+500, tr.Cost, 0.01)
	assert.Equal(t, 2, tr.TrucksNeeded)
}

func TestCommodityCost(t *testing.T) {
	a := newAssembler()

	static := a.CommodityCost("hydrogen", 10, nil)
	assert.InDelta(t, 2500, static.PricePerTon, 1e-9)
	assert.InDelta(t, 25000, static.TotalCost, 1e-9)
	assert.Equal(t, "static_table", static.Source)

	quoted := a.CommodityCost("hydrogen", 10, &pricing.Quote{
		PricePerTon: 3865,
		Source:      "spot_market",
	})
	assert.InDelta(t, 38650, quoted.TotalCost, 1e-9)
	assert.Equal(t, "spot_market", quoted.Source)

	// Non-positive quoted prices fall back to the static table.
	zeroed := a.CommodityCost("diesel", 4, &pricing.Quote{PricePerTon: 0})
	assert.InDelta(t, 750, zeroed.PricePerTon, 1e-9)
}

func TestDetailBalances(t *testing.T) {
	a := newAssembler()

	d := a.Detail(2913.75, []network.Mode{network.ModeTruck}, 10, "hydrogen", nil)

	assert.InDelta(t, 2913.75*0.05, d.Breakdown.FuelHandlingFee, 0.01)
	assert.InDelta(t, 2913.75*0.02, d.Breakdown.TerminalFees, 0.01)
	assert.InDelta(t, 0, d.Breakdown.HubTransferFee, 1e-9)
	assert.InDelta(t, 2913.75*0.015, d.Breakdown.InsuranceCost, 0.01)
	assert.InDelta(t, 100, d.Breakdown.CarbonOffset, 1e-9)
	assert.InDelta(t, 25000, d.Breakdown.CommodityCost, 1e-9)

	sum := d.BaseCost + d.Breakdown.FeeTotal() + d.Breakdown.CommodityCost
	assert.InDelta(t, sum, d.TotalCost, 0.01)
	assert.InDelta(t, d.TotalCost, d.Summary.TotalCosts, 1e-9)
}

func TestDetailRailFeeSchedule(t *testing.T) {
	a := newAssembler()

	// Any route touching rail uses the rail fee schedule, including a hub
	// transfer fee.
	d := a.Detail(5000, []network.Mode{network.ModeTruck, network.ModeRail}, 20, "ammonia", nil)

	assert.InDelta(t, 5000*0.06, d.Breakdown.FuelHandlingFee, 0.01)
	assert.InDelta(t, 5000*0.03, d.Breakdown.TerminalFees, 0.01)
	assert.InDelta(t, 5000*0.02, d.Breakdown.HubTransferFee, 0.01)
}

func TestReconcileRepairsDrift(t *testing.T) {
	a := newAssembler()

	d := a.Detail(2913.75, []network.Mode{network.ModeTruck}, 10, "hydrogen", nil)

	// Drifted base cost is forced back to the offered transport cost.
	d.BaseCost = 3100
	drifted := a.Reconcile(d, 2913.75)
	assert.True(t, drifted)
	assert.InDelta(t, 2913.75, d.BaseCost, 1e-9)

	sum := d.BaseCost + d.Breakdown.FeeTotal() + d.Breakdown.CommodityCost
	assert.InDelta(t, sum, d.TotalCost, 0.01)

	// A second pass with the same inputs is a no-op.
	total := d.TotalCost
	assert.False(t, a.Reconcile(d, 2913.75))
	assert.InDelta(t, total, d.TotalCost, 1e-9)
}

func TestFuelTables(t *testing.T) {
	assert.True(t, KnownFuel("hydrogen"))
	assert.False(t, KnownFuel("kerosene"))

	assert.InDelta(t, 1.4, FuelMultiplier("hydrogen"), 1e-9)
	assert.InDelta(t, 1.2, FuelMultiplier("kerosene"), 1e-9)

	assert.InDelta(t, 8, TruckCapacityTons("hydrogen"), 1e-9)
	assert.InDelta(t, 12, TruckCapacityTons("diesel"), 1e-9)

	fuels := Fuels()
	assert.Len(t, fuels, 6)
	assert.Contains(t, fuels, "methanol")
}
