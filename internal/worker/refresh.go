package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/distance"
	"github.com/fuelroute/fuelroute/internal/network"
	"github.com/fuelroute/fuelroute/internal/pricing"
	"github.com/fuelroute/fuelroute/internal/routestore"
)

// RefreshJob prewarms the distance and pricing caches for the
// configured lanes and sweeps expired state on a schedule.
type RefreshJob struct {
	config RefreshConfig
	logger zerolog.Logger

	distance *distance.Resolver
	pricing  *pricing.Service      // optional, nil if no oracle configured
	store    routestore.Repository // optional, nil disables record purging

	metrics *RefreshMetrics
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRuns       int64
	SuccessfulLegs  int64
	FailedLegs      int64
	DistancePrewarm int64
	FactorsPrewarm  int64
	SweepRuns       int64
	SweptEntries    int64
	PurgedRecords   int64

	// Timings
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config   RefreshConfig
	Logger   zerolog.Logger
	Distance *distance.Resolver
	Pricing  *pricing.Service
	Store    routestore.Repository
}

// NewRefreshJob creates a new refresh job processor.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	config := cfg.Config
	if len(config.Lanes) == 0 {
		config = DefaultRefreshConfig()
	}
	if len(config.Modes) == 0 {
		config.Modes = network.Modes()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 3
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &RefreshJob{
		config:   config,
		logger:   cfg.Logger,
		distance: cfg.Distance,
		pricing:  cfg.Pricing,
		store:    cfg.Store,
		metrics:  &RefreshMetrics{},
	}
}

// RefreshResult contains the result of one prewarm run.
type RefreshResult struct {
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalLegs  int
	Successful int
	Failed     int
	Errors     []RefreshError
}

// RefreshError represents an error during prewarm.
type RefreshError struct {
	Stage string
	Lane  Lane
	Mode  network.Mode
	Error string
}

// Run executes the prewarm job for all configured lanes.
func (j *RefreshJob) Run(ctx context.Context) *RefreshResult {
	startTime := time.Now()
	result := &RefreshResult{
		StartTime: startTime,
		TotalLegs: j.config.TotalLegs(),
	}

	j.logger.Info().
		Int("total_legs", result.TotalLegs).
		Int("concurrency", j.config.Concurrency).
		Msg("starting lane prewarm job")

	type legWork struct {
		lane Lane
		mode network.Mode
	}

	legsChan := make(chan legWork, result.TotalLegs)
	resultsChan := make(chan legResult, result.TotalLegs)

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for work := range legsChan {
				select {
				case <-ctx.Done():
					return
				default:
					resultsChan <- j.prewarmLeg(ctx, work.lane, work.mode)
				}
			}
		}()
	}

	for _, lane := range j.config.AllLanes() {
		for _, mode := range j.config.Modes {
			legsChan <- legWork{lane: lane, mode: mode}
		}
	}
	close(legsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for lr := range resultsChan {
		if lr.success {
			result.Successful++
		} else {
			result.Failed++
		}
		result.Errors = append(result.Errors, lr.errors...)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("lane prewarm job completed")

	return result
}

type legResult struct {
	lane    Lane
	mode    network.Mode
	success bool
	errors  []RefreshError
}

func (j *RefreshJob) prewarmLeg(ctx context.Context, lane Lane, mode network.Mode) legResult {
	result := legResult{
		lane:    lane,
		mode:    mode,
		success: true,
	}

	legCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	var distanceMiles float64
	if j.config.PrewarmDistances {
		leg, err := j.distance.Resolve(legCtx, lane.Origin, lane.Destination, mode)
		if err != nil {
			result.errors = append(result.errors, RefreshError{
				Stage: "distance",
				Lane:  lane,
				Mode:  mode,
				Error: err.Error(),
			})
			result.success = false
			return result
		}
		distanceMiles = leg.DistanceMiles
		atomic.AddInt64(&j.metrics.DistancePrewarm, 1)
	}

	if j.config.PrewarmFactors && j.pricing != nil {
		for _, fuel := range j.config.Fuels {
			if _, err := j.pricing.TransportFactors(legCtx, mode, fuel, distanceMiles); err != nil {
				// A cold oracle degrades to static rates, so a
				// factor miss does not fail the leg.
				result.errors = append(result.errors, RefreshError{
					Stage: "factors",
					Lane:  lane,
					Mode:  mode,
					Error: err.Error(),
				})
				continue
			}
			atomic.AddInt64(&j.metrics.FactorsPrewarm, 1)
		}
	}

	return result
}

// Sweep drops expired cache entries and purges route records older
// than the retention window. Runs hourly from the worker scheduler.
func (j *RefreshJob) Sweep(ctx context.Context) error {
	swept := j.distance.Sweep()
	if j.pricing != nil {
		swept += j.pricing.Sweep()
	}

	var purged int64
	if j.store != nil && j.config.RecordRetention > 0 {
		cutoff := time.Now().Add(-j.config.RecordRetention)
		n, err := j.store.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			j.logger.Error().Err(err).Msg("failed to purge route records")
			return err
		}
		purged = n
	}

	j.metrics.mu.Lock()
	j.metrics.SweepRuns++
	j.metrics.SweptEntries += int64(swept)
	j.metrics.PurgedRecords += purged
	j.metrics.mu.Unlock()

	j.logger.Info().
		Int("swept_entries", swept).
		Int64("purged_records", purged).
		Msg("cache sweep completed")

	return nil
}

func (j *RefreshJob) updateMetrics(result *RefreshResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.SuccessfulLegs += int64(result.Successful)
	j.metrics.FailedLegs += int64(result.Failed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *RefreshJob) GetMetrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RefreshMetrics{
		TotalRuns:       j.metrics.TotalRuns,
		SuccessfulLegs:  j.metrics.SuccessfulLegs,
		FailedLegs:      j.metrics.FailedLegs,
		DistancePrewarm: j.metrics.DistancePrewarm,
		FactorsPrewarm:  j.metrics.FactorsPrewarm,
		SweepRuns:       j.metrics.SweepRuns,
		SweptEntries:    j.metrics.SweptEntries,
		PurgedRecords:   j.metrics.PurgedRecords,
		LastRunAt:       j.metrics.LastRunAt,
		LastRunDuration: j.metrics.LastRunDuration,
		TotalDuration:   j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *RefreshJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":        m.TotalRuns,
		"successful_legs":   m.SuccessfulLegs,
		"failed_legs":       m.FailedLegs,
		"distance_prewarms": m.DistancePrewarm,
		"factors_prewarms":  m.FactorsPrewarm,
		"sweep_runs":        m.SweepRuns,
		"swept_entries":     m.SweptEntries,
		"purged_records":    m.PurgedRecords,
		"last_run_at":       m.LastRunAt,
		"last_run_duration": m.LastRunDuration.String(),
		"total_duration":    m.TotalDuration.String(),
	}
}
