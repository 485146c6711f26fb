// Package main provides the entrypoint for the Verdia batch worker.
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

	"github.com/verdialabs/verdia/internal/analysis"
	"github.com/verdialabs/verdia/internal/batch"
	"github.com/verdialabs/verdia/internal/database"
	"github.com/verdialabs/verdia/internal/siteconditions"
	"github.com/verdialabs/verdia/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "verdia-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Verdia worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        os.Getenv("OTEL_ENABLED") == "true",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	// Batch runs use the simulator for site conditions: grid cells
	// have no photographs to send to the vision service.
	analysisService := analysis.NewService(analysis.ServiceConfig{
		Conditions: siteconditions.NewService(siteconditions.ServiceConfig{Logger: log}),
		Repository: analysis.NewPostgresRepository(pool),
		Logger:     log,
	})

	runner := batch.NewRunner(batch.RunnerConfig{
		Analyzer: analysisService,
		Logger:   log,
	})

	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscription := os.Getenv("PUBSUB_SUBSCRIPTION")
	if subscription == "" {
		subscription = "verdia-batch-jobs"
	}

	var pubsubHandler *batch.PubSubHandler
	if projectID != "" {
		pubsubHandler, err = batch.NewPubSubHandler(ctx, batch.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			Runner:           runner,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer pubsubHandler.Close()
	} else {
		log.Warn().Msg("PUBSUB_PROJECT_ID not set - running scheduled grid analysis only")
	}

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

	if pubsubHandler != nil {
		go func() {
			if err := pubsubHandler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
	}

	// Periodic full-grid sweep so results stay fresh even when no
	// job messages arrive.
	interval := 6 * time.Hour
	if raw := os.Getenv("GRID_SWEEP_INTERVAL"); raw != "" {
		if parsed, parseErr := time.ParseDuration(raw); parseErr == nil {
			interval = parsed
		} else {
			log.Warn().Str("value", raw).Msg("invalid GRID_SWEEP_INTERVAL, using default")
		}
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				result := runner.Run(ctx)
				log.Info().
					Int("total", result.TotalCells).
					Int("successful", result.Successful).
					Int("failed", result.Failed).
					Dur("duration", result.Duration).
					Msg("scheduled grid sweep complete")
			}
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
