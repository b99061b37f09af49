// Package handler provides HTTP handlers for the FuelRoute API.
package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/fuelroute/fuelroute/internal/api/models"
	"github.com/fuelroute/fuelroute/internal/api/response"
	"github.com/fuelroute/fuelroute/internal/distance"
	"github.com/fuelroute/fuelroute/internal/pricing"
	"github.com/fuelroute/fuelroute/internal/provider/resilience"
)

// Pinger checks connectivity to a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	distance  *distance.Resolver
	pricing   *pricing.Service     // optional
	db        Pinger               // optional
	registry  *resilience.Registry // optional
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, resolver *distance.Resolver, pricingSvc *pricing.Service, db Pinger, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		distance:  resolver,
		pricing:   pricingSvc,
		db:        db,
		registry:  registry,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. The engine can
// serve degraded answers without its database, so a failed ping reports
// degraded rather than failing readiness outright.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			status = models.HealthStatusDegraded
		}
	}

	health := models.Health{
		Status: status,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - subsystem and cache status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())

	var subsystems []models.SubsystemStatus
	var caches []models.CacheStatus

	if h.db != nil {
		dbStatus := models.HealthStatusOK
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		if err := h.db.Ping(ctx); err != nil {
			dbStatus = models.HealthStatusFail
		}
		cancel()
		subsystems = append(subsystems, models.SubsystemStatus{Name: "postgres", Status: dbStatus})
	}

	ds := h.distance.CacheStats()
	subsystems = append(subsystems, models.SubsystemStatus{
		Name:   "distance-resolver",
		Status: models.HealthStatusOK,
	})
	caches = append(caches, models.CacheStatus{
		Name:         "distance",
		Provider:     ds.Provider,
		TotalEntries: ds.TotalEntries,
		FreshEntries: ds.FreshEntries,
		StaleEntries: ds.StaleEntries,
	})

	if h.pricing != nil {
		ps := h.pricing.CacheStats()
		subsystems = append(subsystems, models.SubsystemStatus{
			Name:   "pricing-oracle",
			Status: models.HealthStatusOK,
		})
		caches = append(caches, models.CacheStatus{
			Name:         "pricing",
			Provider:     ps.Oracle,
			TotalEntries: ps.QuoteEntries + ps.FactorsEntries,
			FreshEntries: ps.FreshEntries,
			StaleEntries: ps.StaleEntries,
		})
	}

	var providers []models.ProviderStatus
	if h.registry != nil {
		for _, ph := range h.registry.GetAllHealth() {
			providerStatus := models.HealthStatusOK
			switch {
			case ph.IsUnhealthy():
				providerStatus = models.HealthStatusFail
			case ph.IsDegraded():
				providerStatus = models.HealthStatusDegraded
			}
			ps := models.ProviderStatus{
				Name:         ph.Name,
				Status:       providerStatus,
				CircuitState: ph.CircuitState.String(),
				Requests:     ph.Counts.Requests,
				Failures:     ph.Counts.TotalFailures,
				LastError:    ph.LastError,
			}
			if ph.LastSuccessAt != nil {
				t := models.Timestamp(*ph.LastSuccessAt)
				ps.LastSuccessAt = &t
			}
			if ph.LastFailureAt != nil {
				t := models.Timestamp(*ph.LastFailureAt)
				ps.LastFailureAt = &t
			}
			providers = append(providers, ps)
		}
		sort.Slice(providers, func(i, j int) bool { return providers[i].Name < providers[j].Name })
	}

	status := models.SystemStatus{
		Status:     models.HealthStatusOK,
		Time:       now,
		Subsystems: subsystems,
		Providers:  providers,
		Caches:     caches,
	}
	response.JSON(w, r, http.StatusOK, status)
}

// InvalidateCaches handles POST /v1/admin/cache:invalidate - drop every
// cached distance and price entry.
func (h *OpsHandler) InvalidateCaches(w http.ResponseWriter, r *http.Request) {
	invalidated := []string{"distance"}
	h.distance.InvalidateCache()
	if h.pricing != nil {
		h.pricing.InvalidateCache()
		invalidated = append(invalidated, "pricing")
	}

	response.JSON(w, r, http.StatusOK, models.CacheInvalidateResponse{
		Invalidated: invalidated,
		Time:        models.Timestamp(time.Now()),
	})
}
