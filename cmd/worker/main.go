// Package main provides the entrypoint for the FuelRoute background worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/database"
	"github.com/fuelroute/fuelroute/internal/distance"
	"github.com/fuelroute/fuelroute/internal/distance/googlemaps"
	"github.com/fuelroute/fuelroute/internal/pricing"
	"github.com/fuelroute/fuelroute/internal/pricing/openai"
	"github.com/fuelroute/fuelroute/internal/provider/resilience"
	"github.com/fuelroute/fuelroute/internal/rail"
	"github.com/fuelroute/fuelroute/internal/routestore"
	"github.com/fuelroute/fuelroute/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "fuelroute-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting FuelRoute worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := resilience.NewRegistry()

	var truckProvider distance.DirectionsProvider
	if mapsKey := os.Getenv("GOOGLE_MAPS_API_KEY"); mapsKey != "" {
		truckProvider = googlemaps.NewClient(googlemaps.ClientConfig{
			APIKey:   mapsKey,
			Registry: registry,
			Logger:   log,
		})
	}

	resolver := distance.NewResolver(distance.ResolverConfig{
		TruckProvider: truckProvider,
		RailSolver:    rail.NewSolver(rail.SolverConfig{Logger: log}),
		Logger:        log,
	})

	var pricingService *pricing.Service
	if openaiKey := os.Getenv("OPENAI_API_KEY"); openaiKey != "" {
		oracle := openai.NewClient(openai.ClientConfig{
			APIKey:   openaiKey,
			Model:    os.Getenv("OPENAI_MODEL"),
			Registry: registry,
			Logger:   log,
		})
		pricingService = pricing.NewService(pricing.ServiceConfig{
			Oracle: oracle,
			Logger: log,
		})
	}

	var store routestore.Repository
	if os.Getenv("DB_HOST") != "" {
		pool, err := database.Connect(ctx, database.ConfigFromEnv())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		store = routestore.NewPostgresRepository(pool)
		log.Info().Msg("database connected")
	}

	refreshJob := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:   worker.DefaultRefreshConfig(),
		Logger:   log,
		Distance: resolver,
		Pricing:  pricingService,
		Store:    store,
	})

	// Pub/Sub driven jobs (optional; the hourly ticker still runs without it)
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscription := os.Getenv("PUBSUB_SUBSCRIPTION")
	if projectID != "" && subscription != "" {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			RefreshJob:       refreshJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer handler.Close()

		go func() {
			if err := handler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
	} else {
		log.Warn().Msg("Pub/Sub not configured - running on the local schedule only")
	}

	// Hourly sweep of expired cache entries and stale route records
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := refreshJob.Sweep(ctx); err != nil {
					log.Error().Err(err).Msg("sweep failed")
				}
			}
		}
	}()

	// Prewarm the default lanes on startup
	go func() {
		result := refreshJob.Run(ctx)
		log.Info().
			Int("successful", result.Successful).
			Int("failed", result.Failed).
			Msg("startup prewarm completed")
	}()

	// HTTP server for health checks
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
