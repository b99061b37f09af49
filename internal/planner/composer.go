package planner

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/cost"
	"github.com/fuelroute/fuelroute/internal/distance"
	"github.com/fuelroute/fuelroute/internal/network"
	"github.com/fuelroute/fuelroute/internal/pricing"
	"github.com/fuelroute/fuelroute/internal/routestore"
)

const (
	defaultRequestTimeout = 30 * time.Second
	saveTimeout           = 5 * time.Second

	transferHours = 4

	fallbackBaseMiles      = 1000
	fallbackRailMultiplier = 1.15
	truckSpeedMPH          = 55
	railSpeedMPH           = 45
)

// Config configures a Composer.
type Config struct {
	Distance  *distance.Resolver
	Pricing   *pricing.Service // optional, static pricing when nil
	Assembler *cost.Assembler
	Store     routestore.Repository // optional, history disabled when nil
	Logger    zerolog.Logger

	// RequestTimeout bounds one whole request. Defaults to 30s.
	RequestTimeout time.Duration
}

// Composer generates and prices route options for shipment requests.
type Composer struct {
	distance       *distance.Resolver
	pricing        *pricing.Service
	assembler      *cost.Assembler
	store          routestore.Repository
	logger         zerolog.Logger
	requestTimeout time.Duration
}

// NewComposer creates a route option composer.
func NewComposer(cfg Config) *Composer {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Composer{
		distance:       cfg.Distance,
		pricing:        cfg.Pricing,
		assembler:      cfg.Assembler,
		store:          cfg.Store,
		logger:         cfg.Logger.With().Str("component", "planner").Logger(),
		requestTimeout: timeout,
	}
}

type modeResult struct {
	leg     *distance.Leg
	err     error
	factors *pricing.Factors
}

// GenerateRouteOptions validates the request, resolves and prices every
// candidate mode concurrently, and returns options ranked by the request's
// preference. Live data failures degrade individual options to static
// tables; only an invalid request fails outright.
func (c *Composer) GenerateRouteOptions(ctx context.Context, req RouteRequest) (*RouteSet, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Preference == "" {
		req.Preference = PreferCost
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	var (
		wg      sync.WaitGroup
		quote   *pricing.Quote
		results = make([]modeResult, len(req.Modes))
	)

	if c.pricing != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q, err := c.pricing.CommodityPrice(ctx, req.FuelType)
			if err != nil {
				c.logger.Warn().Err(err).
					Str("fuel_type", req.FuelType).
					Msg("commodity price unavailable, using static table")
				return
			}
			quote = q
		}()
	}

	for i, mode := range req.Modes {
		wg.Add(1)
		go func(i int, mode network.Mode) {
			defer wg.Done()
			leg, err := c.distance.Resolve(ctx, req.Origin, req.Destination, mode)
			results[i] = modeResult{leg: leg, err: err}
			if err != nil || c.pricing == nil {
				return
			}
			factors, ferr := c.pricing.TransportFactors(ctx, mode, req.FuelType, leg.DistanceMiles)
			if ferr != nil {
				c.logger.Warn().Err(ferr).
					Str("mode", string(mode)).
					Msg("transport factors unavailable, using static rates")
				return
			}
			results[i].factors = factors
		}(i, mode)
	}
	wg.Wait()

	options := make([]*RouteOption, 0, len(req.Modes)+1)
	degraded := true
	for i, mode := range req.Modes {
		opt := c.directOption(req, mode, results[i], quote)
		if !opt.Fallback {
			degraded = false
		}
		options = append(options, opt)
	}

	if req.IntermediateHub != "" && len(req.Modes) == 2 {
		if opt := c.multiModalOption(ctx, req, results, quote); opt != nil {
			options = append(options, opt)
		}
	}

	rankOptions(options, req.Preference)

	set := &RouteSet{
		RequestID:   newID("req"),
		Origin:      req.Origin,
		Destination: req.Destination,
		FuelType:    req.FuelType,
		VolumeTons:  req.VolumeTons,
		Options:     options,
		Degraded:    degraded,
		GeneratedAt: time.Now().UTC(),
	}
	if len(options) > 0 {
		set.Best = options[0]
	}

	c.logger.Info().
		Str("request_id", set.RequestID).
		Str("origin", req.Origin).
		Str("destination", req.Destination).
		Int("options", len(options)).
		Bool("degraded", degraded).
		Msg("generated route options")

	return set, nil
}

func (c *Composer) directOption(req RouteRequest, mode network.Mode, res modeResult, quote *pricing.Quote) *RouteOption {
	if res.err != nil {
		c.logger.Warn().Err(res.err).
			Str("mode", string(mode)).
			Msg("leg resolution failed, building static fallback option")
		return c.fallbackOption(req, mode)
	}
	leg := res.leg

	transport, err := c.assembler.Transport(mode, req.VolumeTons, leg.DistanceMiles, req.FuelType, res.factors)
	if err != nil {
		transport = c.assembler.FallbackTransport(mode, req.VolumeTons, leg.DistanceMiles, req.FuelType)
	}
	commodity := c.assembler.CommodityCost(req.FuelType, req.VolumeTons, quote)

	score := Feasibility(mode, req.FuelType, leg.DistanceMiles)

	return &RouteOption{
		ID:                   newID("opt"),
		Type:                 TypeDirect,
		Name:                 modeName(mode) + " Route",
		Modes:                []network.Mode{mode},
		DistanceMiles:        leg.DistanceMiles,
		DurationHours:        leg.DurationHours,
		TransportCost:        round2(transport.Cost),
		CommodityCost:        commodity.TotalCost,
		CommodityPricePerTon: commodity.PricePerTon,
		EstimatedCost:        round2(transport.Cost + commodity.TotalCost),
		TrucksNeeded:         transport.TrucksNeeded,
		FeasibilityScore:     score,
		RiskLevel:            riskLevel(score),
		Method:               leg.Method,
		Path:                 leg.Path,
		Advantages:           advantages(mode, score, leg.DistanceMiles, leg.Method),
		AIEnhanced:           transport.AIEnhanced,
		Fallback:             leg.Estimated() || transport.Fallback,
	}
}

// fallbackOption builds an option purely from static tables, for when even
// the tiered resolver could not produce a leg.
func (c *Composer) fallbackOption(req RouteRequest, mode network.Mode) *RouteOption {
	dist, ok := network.MatrixDistance(req.Origin, req.Destination, mode)
	method := network.MethodDistanceMatrix
	if !ok {
		dist = fallbackBaseMiles
		if mode == network.ModeRail {
			dist = math.Round(fallbackBaseMiles * fallbackRailMultiplier)
		}
		method = network.MethodCoordinateEstimate
	}

	speed := float64(truckSpeedMPH)
	if mode == network.ModeRail {
		speed = railSpeedMPH
	}

	transport := c.assembler.FallbackTransport(mode, req.VolumeTons, dist, req.FuelType)
	commodity := c.assembler.CommodityCost(req.FuelType, req.VolumeTons, nil)

	score := Feasibility(mode, req.FuelType, dist)

	return &RouteOption{
		ID:                   newID("opt"),
		Type:                 TypeDirect,
		Name:                 modeName(mode) + " Route (Estimated)",
		Modes:                []network.Mode{mode},
		DistanceMiles:        dist,
		DurationHours:        math.Round(dist/speed*10) / 10,
		TransportCost:        round2(transport.Cost),
		CommodityCost:        commodity.TotalCost,
		CommodityPricePerTon: commodity.PricePerTon,
		EstimatedCost:        round2(transport.Cost + commodity.TotalCost),
		TrucksNeeded:         transport.TrucksNeeded,
		FeasibilityScore:     score,
		RiskLevel:            RiskMedium,
		Method:               method,
		Path:                 []string{req.Origin, req.Destination},
		AIEnhanced:           false,
		Fallback:             true,
	}
}

func (c *Composer) multiModalOption(ctx context.Context, req RouteRequest, results []modeResult, quote *pricing.Quote) *RouteOption {
	firstMode, secondMode := req.Modes[0], req.Modes[1]

	first, err := c.distance.Resolve(ctx, req.Origin, req.IntermediateHub, firstMode)
	if err != nil {
		c.logger.Warn().Err(err).Msg("multimodal first leg failed, skipping option")
		return nil
	}
	second, err := c.distance.Resolve(ctx, req.IntermediateHub, req.Destination, secondMode)
	if err != nil {
		c.logger.Warn().Err(err).Msg("multimodal second leg failed, skipping option")
		return nil
	}

	totalDistance := first.DistanceMiles + second.DistanceMiles
	totalDuration := first.DurationHours + second.DurationHours + transferHours

	factors := make(map[network.Mode]*pricing.Factors, len(results))
	for i, mode := range req.Modes {
		if results[i].factors != nil {
			factors[mode] = results[i].factors
		}
	}

	transport, err := c.assembler.MultiModalTransport(req.VolumeTons, totalDistance, req.Modes, req.FuelType, factors)
	if err != nil {
		c.logger.Warn().Err(err).Msg("multimodal pricing failed, skipping option")
		return nil
	}
	commodity := c.assembler.CommodityCost(req.FuelType, req.VolumeTons, quote)

	score := math.Min(
		Feasibility(firstMode, req.FuelType, first.DistanceMiles),
		Feasibility(secondMode, req.FuelType, second.DistanceMiles),
	)

	return &RouteOption{
		ID:                   newID("opt"),
		Type:                 TypeMultiModal,
		Name:                 modeName(firstMode) + " + " + modeName(secondMode) + " Route",
		Modes:                req.Modes,
		DistanceMiles:        totalDistance,
		DurationHours:        math.Round(totalDuration*10) / 10,
		TransportCost:        round2(transport.Cost),
		CommodityCost:        commodity.TotalCost,
		CommodityPricePerTon: commodity.PricePerTon,
		EstimatedCost:        round2(transport.Cost + commodity.TotalCost),
		TrucksNeeded:         transport.TrucksNeeded,
		FeasibilityScore:     score,
		RiskLevel:            riskLevel(score),
		Method:               network.MethodNetworkRouting,
		Path:                 []string{req.Origin, req.IntermediateHub, req.Destination},
		Advantages:           []string{"Flexible routing", "Cost optimization", "Mode specialization"},
		AIEnhanced:           transport.AIEnhanced,
		Fallback:             first.Estimated() || second.Estimated() || transport.Fallback,
	}
}

// CalculateRoute re-derives the full reconciled cost breakdown for one
// previously offered option. The transport cost offered with the option is
// authoritative: a detail that drifts from it is repaired. The record is
// persisted asynchronously; persistence failure never fails the calculation.
func (c *Composer) CalculateRoute(ctx context.Context, option *RouteOption, req RouteRequest) (*Calculation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var quote *pricing.Quote
	if option.CommodityPricePerTon > 0 {
		quote = &pricing.Quote{
			PricePerTon: option.CommodityPricePerTon,
			Source:      "offered_option",
		}
	}

	detail := c.assembler.Detail(option.TransportCost, option.Modes, req.VolumeTons, req.FuelType, quote)
	repaired := c.assembler.Reconcile(detail, option.TransportCost)
	detail.TrucksNeeded = option.TrucksNeeded

	calc := &Calculation{
		RecordID: newID("rte"),
		Option:   option,
		Detail:   detail,
		Repaired: repaired,
	}
	c.saveRecord(calc, req)
	return calc, nil
}

// History returns the most recent persisted calculations, newest first.
func (c *Composer) History(ctx context.Context, limit int) ([]*routestore.Record, error) {
	if c.store == nil {
		return nil, nil
	}
	return c.store.Recent(ctx, limit)
}

// saveRecord persists a calculation in the background. The response does not
// wait for, or depend on, the write.
func (c *Composer) saveRecord(calc *Calculation, req RouteRequest) {
	if c.store == nil {
		return
	}

	record := &routestore.Record{
		ID:            calc.RecordID,
		Origin:        req.Origin,
		Destination:   req.Destination,
		FuelType:      req.FuelType,
		VolumeTons:    req.VolumeTons,
		Modes:         calc.Option.Modes,
		DistanceMiles: calc.Option.DistanceMiles,
		BaseCost:      calc.Detail.BaseCost,
		TotalCost:     calc.Detail.TotalCost,
		Confidence:    calc.Detail.Confidence,
		Breakdown:     calc.Detail.Breakdown,
		AIEnhanced:    calc.Option.AIEnhanced,
		CreatedAt:     time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := c.store.Save(ctx, record); err != nil {
			c.logger.Warn().Err(err).
				Str("record_id", record.ID).
				Msg("failed to persist route record")
		}
	}()
}

// rankOptions sorts live options ahead of fallbacks, then by the requested
// preference.
func rankOptions(options []*RouteOption, pref Preference) {
	sort.SliceStable(options, func(i, j int) bool {
		if options[i].Fallback != options[j].Fallback {
			return !options[i].Fallback
		}
		if pref == PreferDistance {
			return options[i].DistanceMiles < options[j].DistanceMiles
		}
		return options[i].EstimatedCost < options[j].EstimatedCost
	})
}

func advantages(mode network.Mode, score, distanceMiles float64, method network.Method) []string {
	var out []string
	switch mode {
	case network.ModeTruck:
		out = append(out, "Fast delivery", "Door-to-door service", "Flexible scheduling")
	case network.ModeRail:
		out = append(out, "Environmentally friendly", "High capacity", "Weather independent")
	}
	if score > 0.9 {
		out = append(out, "High feasibility")
	}
	if distanceMiles < 500 {
		out = append(out, "Short distance")
	}
	if method == network.MethodLiveDirections {
		out = append(out, "Optimized routing")
	}
	return out
}

func modeName(mode network.Mode) string {
	s := string(mode)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
