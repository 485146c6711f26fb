// Package api provides the HTTP API for Verdia.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/verdialabs/verdia/internal/analysis"
	"github.com/verdialabs/verdia/internal/api/handler"
	"github.com/verdialabs/verdia/internal/api/middleware"
	"github.com/verdialabs/verdia/internal/retrospective"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version              string
	BuildTime            string
	Logger               zerolog.Logger
	ServiceName          string
	Metrics              *middleware.Metrics
	AnalysisService      *analysis.Service
	RetrospectiveService *retrospective.Analyzer
	ReadyChecks          map[string]handler.ReadyCheck
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "verdia-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type
	r.Use(middleware.RequireJSON)          // Reject non-JSON request bodies

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.ReadyChecks)
	metadataHandler := handler.NewMetadataHandler()
	analysisHandler := handler.NewAnalysisHandler(cfg.AnalysisService)
	retroHandler := handler.NewRetrospectiveHandler(cfg.RetrospectiveService)

	// Rate limit middleware per endpoint category
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Metadata endpoints - standard rate limiting
		r.Route("/metadata", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/species", metadataHandler.ListSpecies)
			r.Get("/subsidy-zones", metadataHandler.ListSubsidyZones)
			r.Get("/enums", metadataHandler.GetEnums)
		})

		// Analysis endpoints - compute is expensive, reads are standard
		r.Route("/analyses", func(r chi.Router) {
			r.With(expensiveRateLimit).Post("/", analysisHandler.CreateAnalysis)
			r.With(standardRateLimit).Get("/", analysisHandler.ListAnalyses)
			r.Route("/{analysisId}", func(r chi.Router) {
				r.With(standardRateLimit).Get("/", analysisHandler.GetAnalysis)
				r.With(expensiveRateLimit).Post("/specializations", analysisHandler.CreateSpecialization)
			})
		})

		// Retrospective comparison - expensive compute
		r.With(expensiveRateLimit).Post("/retrospective", retroHandler.Analyze)
	})

	return r
}
