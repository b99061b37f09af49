// Package main provides the entrypoint for the FuelRoute API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuelroute/fuelroute/internal/api"
	"github.com/fuelroute/fuelroute/internal/api/handler"
	"github.com/fuelroute/fuelroute/internal/api/middleware"
	"github.com/fuelroute/fuelroute/internal/auth"
	"github.com/fuelroute/fuelroute/internal/cost"
	"github.com/fuelroute/fuelroute/internal/database"
	"github.com/fuelroute/fuelroute/internal/distance"
	"github.com/fuelroute/fuelroute/internal/distance/googlemaps"
	"github.com/fuelroute/fuelroute/internal/planner"
	"github.com/fuelroute/fuelroute/internal/pricing"
	"github.com/fuelroute/fuelroute/internal/pricing/openai"
	"github.com/fuelroute/fuelroute/internal/provider/resilience"
	"github.com/fuelroute/fuelroute/internal/rail"
	"github.com/fuelroute/fuelroute/internal/routestore"
	"github.com/fuelroute/fuelroute/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "fuelroute-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting FuelRoute API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Initialize auth service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	authService := auth.NewService(auth.ServiceConfig{
		SigningKey: jwtSigningKey,
		Issuer:     "https://api.fuelroute.io",
		Audience:   "fuelroute-api",
	})
	log.Info().Msg("auth service initialized")

	// Provider health registry shared by the external clients
	registry := resilience.NewRegistry()

	// Initialize the distance resolver. The live directions tier is
	// optional; without a Maps key truck legs resolve from curated data.
	var truckProvider distance.DirectionsProvider
	if mapsKey := os.Getenv("GOOGLE_MAPS_API_KEY"); mapsKey != "" {
		truckProvider = googlemaps.NewClient(googlemaps.ClientConfig{
			APIKey:   mapsKey,
			Registry: registry,
			Logger:   log,
		})
		log.Info().Msg("Google Maps directions provider initialized")
	} else {
		log.Warn().Msg("Google Maps not configured - truck distances fall back to curated mileage")
	}

	resolver := distance.NewResolver(distance.ResolverConfig{
		TruckProvider: truckProvider,
		RailSolver:    rail.NewSolver(rail.SolverConfig{Logger: log}),
		Logger:        log,
	})
	log.Info().Msg("distance resolver initialized")

	// Initialize the pricing oracle (optional)
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
		log.Info().Msg("pricing oracle initialized")
	} else {
		log.Warn().Msg("OpenAI not configured - costs use static rate tables")
	}

	// Connect to database (optional; history is disabled without it)
	var store routestore.Repository
	var db handler.Pinger
	if os.Getenv("DB_HOST") != "" {
		dbConfig := database.ConfigFromEnv()
		pool, connErr := database.Connect(ctx, dbConfig)
		if connErr != nil {
			log.Fatal().Err(connErr).Msg("failed to connect to database")
		}
		defer pool.Close()
		store = routestore.NewPostgresRepository(pool)
		db = pool
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")
	} else {
		log.Warn().Msg("database not configured - route history disabled")
	}

	// Wire the planner
	composer := planner.NewComposer(planner.Config{
		Distance:  resolver,
		Pricing:   pricingService,
		Assembler: cost.New(cost.Config{Logger: log}),
		Store:     store,
		Logger:    log,
	})
	log.Info().Msg("route composer initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		AuthService: authService,
		Composer:    composer,
		Distance:    resolver,
		Pricing:     pricingService,
		DB:          db,
		Registry:    registry,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
