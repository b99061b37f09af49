package cost

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/network"
	"github.com/fuelroute/fuelroute/internal/pricing"
)

const (
	truckBaseRatePerMile    = 2.75
	truckFuelSurchargeRate  = 0.15
	truckLoadingFeePerTruck = 200
	truckHazmatFeePerTruck  = 150

	railBaseRatePerTonMile = 0.15
	railTerminalFeePerTon  = 50

	longHaulMiles  = 1000
	shortHaulMiles = 100

	// Long hauls get more efficient, short hauls carry repositioning
	// overhead.
	longHaulEfficiency   = 0.85
	longHaulRateDiscount = 0.9
	shortHaulRatePremium = 1.2

	transferFeePerHandoff = 500

	insuranceRate      = 0.015
	carbonOffsetPerTon = 10

	fallbackTruckRatePerMile  = 4.50
	fallbackTruckFeesPerTruck = 350

	detailConfidence = 85
)

// Oracle-supplied rates are advisory. They are clamped into bands that keep a
// hallucinated figure from producing an absurd quote.
const (
	truckRateFactorScale = 1.5
	truckRateFloor       = 3.5
	truckRateCeiling     = 6.0

	railRateFactorScale = 0.1
	railRateFloor       = 0.10
	railRateCeiling     = 0.25
)

// Config configures an Assembler.
type Config struct {
	Logger zerolog.Logger
}

// Assembler prices transport legs and assembles reconciled cost breakdowns.
// It is stateless and safe for concurrent use.
type Assembler struct {
	logger zerolog.Logger
}

// New creates a cost assembler.
func New(cfg Config) *Assembler {
	return &Assembler{
		logger: cfg.Logger.With().Str("component", "cost").Logger(),
	}
}

// Transport prices a single leg. When factors is non-nil the oracle-supplied
// rates override the static model, clamped to the mode's sane band.
func (a *Assembler) Transport(mode network.Mode, volumeTons, distanceMiles float64, fuel string, factors *pricing.Factors) (*Transport, error) {
	if volumeTons <= 0 {
		return nil, ErrInvalidVolume
	}
	if distanceMiles <= 0 {
		return nil, ErrInvalidDistance
	}

	switch mode {
	case network.ModeTruck:
		return a.truckTransport(volumeTons, distanceMiles, fuel, factors), nil
	case network.ModeRail:
		return a.railTransport(volumeTons, distanceMiles, fuel, factors), nil
	default:
		return nil, ErrUnsupportedMode
	}
}

func (a *Assembler) truckTransport(volumeTons, distanceMiles float64, fuel string, factors *pricing.Factors) *Transport {
	capacity := TruckCapacityTons(fuel)
	trucks := int(math.Max(1, math.Ceil(volumeTons/capacity)))

	rate := truckBaseRatePerMile
	surcharge := truckFuelSurchargeRate
	handling := 1.0

	if distanceMiles > longHaulMiles {
		rate *= longHaulEfficiency
	}

	if factors != nil {
		rate = clamp(factors.BaseRatePerMile*truckRateFactorScale, truckRateFloor, truckRateCeiling)
		if factors.FuelSurcharge > 0 {
			surcharge = factors.FuelSurcharge
		}
		if factors.SpecialHandlingMultiplier > 0 {
			handling = factors.SpecialHandlingMultiplier
		}
	}

	if distanceMiles > longHaulMiles {
		rate *= longHaulRateDiscount
	} else if distanceMiles < shortHaulMiles {
		rate *= shortHaulRatePremium
	}
	rate *= handling

	base := float64(trucks) * distanceMiles * rate
	total := base + base*surcharge +
		float64(trucks)*truckLoadingFeePerTruck +
		float64(trucks)*truckHazmatFeePerTruck

	a.logger.Debug().
		Int("trucks", trucks).
		Float64("rate_per_mile", rate).
		Float64("cost", total).
		Bool("oracle_rates", factors != nil).
		Msg("priced truck leg")

	return &Transport{
		Mode:          network.ModeTruck,
		Cost:          total,
		RatePerMile:   rate,
		TrucksNeeded:  trucks,
		FuelSurcharge: surcharge,
		AIEnhanced:    factors != nil,
	}
}

func (a *Assembler) railTransport(volumeTons, distanceMiles float64, fuel string, factors *pricing.Factors) *Transport {
	rate := railBaseRatePerTonMile
	multiplier := FuelMultiplier(fuel)

	if factors != nil {
		rate = clamp(factors.BaseRatePerMile*railRateFactorScale, railRateFloor, railRateCeiling)
		if factors.FuelSurcharge > 0 {
			multiplier *= 1 + factors.FuelSurcharge
		}
		if factors.SpecialHandlingMultiplier > 0 {
			multiplier *= factors.SpecialHandlingMultiplier
		}
	}

	distanceMultiplier := 1.0
	if distanceMiles > longHaulMiles {
		distanceMultiplier = longHaulEfficiency
	}

	transport := distanceMiles * rate * volumeTons * multiplier * distanceMultiplier
	total := transport + volumeTons*railTerminalFeePerTon

	a.logger.Debug().
		Float64("rate_per_ton_mile", rate).
		Float64("fuel_multiplier", multiplier).
		Float64("cost", total).
		Bool("oracle_rates", factors != nil).
		Msg("priced rail leg")

	return &Transport{
		Mode:        network.ModeRail,
		Cost:        total,
		RatePerMile: rate,
		AIEnhanced:  factors != nil,
	}
}

// FallbackTransport prices a leg from static rates alone. It never fails and
// is used when the primary rate model cannot run.
func (a *Assembler) FallbackTransport(mode network.Mode, volumeTons, distanceMiles float64, fuel string) *Transport {
	if volumeTons <= 0 {
		volumeTons = 1
	}
	if distanceMiles <= 0 {
		distanceMiles = shortHaulMiles
	}

	switch mode {
	case network.ModeTruck:
		capacity := TruckCapacityTons(fuel)
		trucks := int(math.Ceil(volumeTons / capacity))
		if trucks < 1 {
			trucks = 1
		}
		base := float64(trucks) * distanceMiles * fallbackTruckRatePerMile
		total := base + base*truckFuelSurchargeRate + float64(trucks)*fallbackTruckFeesPerTruck
		return &Transport{
			Mode:          network.ModeTruck,
			Cost:          round2(total),
			RatePerMile:   fallbackTruckRatePerMile,
			TrucksNeeded:  trucks,
			FuelSurcharge: truckFuelSurchargeRate,
			Fallback:      true,
		}
	case network.ModeRail:
		multiplier := defaultFuelMultiplier
		if fuel == "hydrogen" {
			multiplier = fuelMultipliers["hydrogen"]
		}
		total := distanceMiles * railBaseRatePerTonMile * volumeTons * multiplier
		return &Transport{
			Mode:        network.ModeRail,
			Cost:        round2(total),
			RatePerMile: railBaseRatePerTonMile,
			Fallback:    true,
		}
	default:
		total := distanceMiles * 0.1 * volumeTons * defaultFuelMultiplier
		return &Transport{
			Mode:     mode,
			Cost:     round2(total),
			Fallback: true,
		}
	}
}

// MultiModalTransport prices a route split evenly across modes, with a fixed
// transfer fee per mode handoff. A segment whose rate model fails is priced
// from static fallback rates instead of failing the whole route.
func (a *Assembler) MultiModalTransport(volumeTons, totalDistanceMiles float64, modes []network.Mode, fuel string, factors map[network.Mode]*pricing.Factors) (*Transport, error) {
	if volumeTons <= 0 {
		return nil, ErrInvalidVolume
	}
	if totalDistanceMiles <= 0 {
		return nil, ErrInvalidDistance
	}
	if len(modes) == 0 {
		return nil, ErrUnsupportedMode
	}

	segment := totalDistanceMiles / float64(len(modes))

	var (
		total      float64
		trucks     int
		aiEnhanced bool
		fellBack   bool
	)
	for _, mode := range modes {
		leg, err := a.Transport(mode, volumeTons, segment, fuel, factors[mode])
		if err != nil {
			a.logger.Warn().Err(err).
				Str("mode", string(mode)).
				Msg("segment rate model failed, using static fallback")
			leg = a.FallbackTransport(mode, volumeTons, segment, fuel)
		}
		total += leg.Cost
		trucks += leg.TrucksNeeded
		aiEnhanced = aiEnhanced || leg.AIEnhanced
		fellBack = fellBack || leg.Fallback
	}

	total += float64(len(modes)-1) * transferFeePerHandoff

	return &Transport{
		Cost:         total,
		TrucksNeeded: trucks,
		AIEnhanced:   aiEnhanced,
		Fallback:     fellBack,
	}, nil
}

// CommodityCost prices the shipped fuel itself. A live quote overrides the
// static table when present and positive.
func (a *Assembler) CommodityCost(fuel string, volumeTons float64, quote *pricing.Quote) Commodity {
	price := StaticPricePerTon(fuel)
	source := "static_table"
	if quote != nil && quote.PricePerTon > 0 {
		price = quote.PricePerTon
		source = quote.Source
	}

	return Commodity{
		FuelType:    fuel,
		PricePerTon: round2(price),
		TotalCost:   round2(price * volumeTons),
		VolumeTons:  volumeTons,
		Source:      source,
	}
}

// Detail assembles the full fee breakdown over a known base transport cost.
// Fee percentages differ by mode because handling complexity differs: rail
// moves through yards and interchanges, direct truck does not.
func (a *Assembler) Detail(baseTransportCost float64, modes []network.Mode, volumeTons float64, fuel string, quote *pricing.Quote) *Detail {
	var handlingRate, terminalRate, transferRate float64
	switch {
	case hasMode(modes, network.ModeRail):
		handlingRate, terminalRate, transferRate = 0.06, 0.03, 0.02
	case hasMode(modes, network.ModeTruck):
		handlingRate, terminalRate, transferRate = 0.05, 0.02, 0
	default:
		handlingRate, terminalRate, transferRate = 0.04, 0.03, 0.01
	}

	commodity := a.CommodityCost(fuel, volumeTons, quote)

	breakdown := Breakdown{
		FuelHandlingFee:      round2(baseTransportCost * handlingRate),
		TerminalFees:         round2(baseTransportCost * terminalRate),
		HubTransferFee:       round2(baseTransportCost * transferRate),
		InsuranceCost:        round2(baseTransportCost * insuranceRate),
		CarbonOffset:         round2(volumeTons * carbonOffsetPerTon),
		CommodityCost:        commodity.TotalCost,
		CommodityPricePerTon: commodity.PricePerTon,
	}

	transportTotal := baseTransportCost + breakdown.FeeTotal()
	total := transportTotal + commodity.TotalCost

	d := &Detail{
		TotalCost:  round2(total),
		BaseCost:   round2(baseTransportCost),
		Confidence: detailConfidence,
		Breakdown:  breakdown,
		Summary: Summary{
			TransportCosts: round2(transportTotal),
			CommodityCosts: commodity.TotalCost,
			TotalCosts:     round2(total),
		},
	}
	a.reconcile(d)
	return d
}

// Reconcile forces a detail's base cost back to the transport cost originally
// offered for the option and recomputes totals. It reports whether the detail
// had drifted.
func (a *Assembler) Reconcile(d *Detail, offeredTransportCost float64) bool {
	drifted := math.Abs(d.BaseCost-offeredTransportCost) > 0.01
	if drifted {
		a.logger.Warn().
			Float64("base_cost", d.BaseCost).
			Float64("offered_cost", offeredTransportCost).
			Msg("base cost drifted from offered transport cost, repairing")
		d.BaseCost = round2(offeredTransportCost)
	}
	a.reconcile(d)
	return drifted
}

// reconcile recomputes the total from the detail's own components. The
// component sum is authoritative over any previously stored total.
func (a *Assembler) reconcile(d *Detail) {
	want := round2(d.BaseCost + d.Breakdown.FeeTotal() + d.Breakdown.CommodityCost)
	if math.Abs(d.TotalCost-want) > 0.01 {
		a.logger.Warn().
			Float64("stored_total", d.TotalCost).
			Float64("computed_total", want).
			Msg("total cost out of balance, recomputing")
	}
	d.TotalCost = want
	d.Summary.TransportCosts = round2(d.BaseCost + d.Breakdown.FeeTotal())
	d.Summary.CommodityCosts = d.Breakdown.CommodityCost
	d.Summary.TotalCosts = want
}

func hasMode(modes []network.Mode, m network.Mode) bool {
	for _, mode := range modes {
		if mode == m {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
