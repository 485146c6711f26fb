// Package main provides the entrypoint for the Verdia API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/verdialabs/verdia/internal/analysis"
	"github.com/verdialabs/verdia/internal/api"
	"github.com/verdialabs/verdia/internal/api/handler"
	"github.com/verdialabs/verdia/internal/api/middleware"
	"github.com/verdialabs/verdia/internal/database"
	"github.com/verdialabs/verdia/internal/retrospective"
	"github.com/verdialabs/verdia/internal/siteconditions"
	"github.com/verdialabs/verdia/internal/telemetry"
	"github.com/verdialabs/verdia/internal/vision"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "verdia-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Verdia API")

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

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize site condition assessment. The vision service is
	// optional; without it the simulator answers directly.
	var primary siteconditions.Provider
	if visionURL := os.Getenv("VISION_BASE_URL"); visionURL != "" {
		primary = vision.NewClient(vision.ClientConfig{
			BaseURL: visionURL,
			APIKey:  os.Getenv("VISION_API_KEY"),
			Logger:  log,
		})
		log.Info().Str("base_url", visionURL).Msg("vision client initialized")
	} else {
		log.Warn().Msg("vision service not configured - using simulated site conditions")
	}

	providerMetrics, err := middleware.NewProviderMetrics("siteconditions")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider metrics")
	}

	conditions := siteconditions.NewService(siteconditions.ServiceConfig{
		Primary: primary,
		Logger:  log,
		Metrics: providerMetrics,
	})

	// Initialize analysis repository and service
	analysisRepo := analysis.NewPostgresRepository(pool)
	analysisService := analysis.NewService(analysis.ServiceConfig{
		Conditions: conditions,
		Repository: analysisRepo,
		Logger:     log,
	})
	log.Info().Msg("analysis service initialized")

	retroAnalyzer := retrospective.NewAnalyzer(nil)

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:              Version,
		BuildTime:            BuildTime,
		Logger:               log,
		ServiceName:          serviceName,
		Metrics:              metrics,
		AnalysisService:      analysisService,
		RetrospectiveService: retroAnalyzer,
		ReadyChecks: map[string]handler.ReadyCheck{
			"database": pool.Ping,
		},
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
