package siteconditions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MetricsRecorder receives provider call and cache metrics. Satisfied
// by middleware.ProviderMetrics.
type MetricsRecorder interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
	RecordCacheHit(provider, operation string)
	RecordCacheMiss(provider, operation string)
}

// ServiceConfig holds configuration for creating a Service.
type ServiceConfig struct {
	// Primary is the preferred provider, typically the remote vision
	// client. May be nil, in which case the simulator answers directly.
	Primary Provider
	// Fallback answers when Primary fails. Defaults to the simulator.
	Fallback Provider
	Logger   zerolog.Logger
	// Timeout bounds each primary provider call. Defaults to 10s.
	Timeout time.Duration
	// CacheTTL controls how long assessments are reused. Defaults to
	// 15 minutes. Set negative to disable caching.
	CacheTTL time.Duration
	// Metrics is optional.
	Metrics MetricsRecorder
}

// Service assesses site conditions with provider fallback and caching.
type Service struct {
	primary  Provider
	fallback Provider
	logger   zerolog.Logger
	timeout  time.Duration
	cacheTTL time.Duration
	metrics  MetricsRecorder

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	conditions *Conditions
	expiresAt  time.Time
}

// NewService creates a Service, applying defaults for zero-value
// config fields.
func NewService(cfg ServiceConfig) *Service {
	fallback := cfg.Fallback
	if fallback == nil {
		fallback = NewSimulator()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Minute
	}

	return &Service{
		primary:  cfg.Primary,
		fallback: fallback,
		logger:   cfg.Logger,
		timeout:  timeout,
		cacheTTL: cacheTTL,
		metrics:  cfg.Metrics,
		cache:    make(map[string]cacheEntry),
	}
}

// Assess returns the site conditions for the request. A primary
// provider failure is never fatal: the fallback answers and the result
// carries a degraded-confidence flag.
func (s *Service) Assess(ctx context.Context, req Request) (*Conditions, error) {
	key := cacheKey(req)
	if cached := s.fromCache(key); cached != nil {
		s.logger.Debug().Str("provider", cached.Source).Msg("site conditions cache hit")
		if s.metrics != nil {
			s.metrics.RecordCacheHit(cached.Source, "assess")
		}
		return cached, nil
	}
	if s.metrics != nil {
		s.metrics.RecordCacheMiss("siteconditions", "assess")
	}

	conditions, err := s.assess(ctx, req)
	if err != nil {
		return nil, err
	}

	s.store(key, conditions)
	return conditions, nil
}

func (s *Service) assess(ctx context.Context, req Request) (*Conditions, error) {
	if s.primary != nil {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		start := time.Now()
		conditions, err := s.primary.Assess(callCtx, req)
		cancel()
		if s.metrics != nil {
			s.metrics.RecordRequest(s.primary.Name(), "assess", time.Since(start), err)
		}
		if err == nil {
			return conditions, nil
		}

		s.logger.Warn().
			Err(err).
			Str("provider", s.primary.Name()).
			Msg("primary provider failed, falling back to simulator")

		conditions, fbErr := s.fallback.Assess(ctx, req)
		if fbErr != nil {
			return nil, fmt.Errorf("assessing site conditions: %w", fbErr)
		}
		conditions.DegradedConfidence = true
		return conditions, nil
	}

	conditions, err := s.fallback.Assess(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("assessing site conditions: %w", err)
	}
	return conditions, nil
}

func (s *Service) fromCache(key string) *Conditions {
	if s.cacheTTL < 0 {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.cache[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}
	copied := *entry.conditions
	return &copied
}

func (s *Service) store(key string, c *Conditions) {
	if s.cacheTTL < 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *c
	s.cache[key] = cacheEntry{
		conditions: &copied,
		expiresAt:  time.Now().Add(s.cacheTTL),
	}
}

func cacheKey(req Request) string {
	return fmt.Sprintf("%.1f:%.6f:%.6f:%d", req.AreaM2, req.Centroid.Lat, req.Centroid.Lon, len(req.Polygon))
}
