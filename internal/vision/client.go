// Package vision implements the remote site-condition provider: an
// HTTP client for a computer-vision/solar analysis service, hardened
// with retry and a circuit breaker so a flaky upstream degrades to the
// deterministic simulator instead of failing analyses.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/verdialabs/verdia/internal/geo"
	"github.com/verdialabs/verdia/internal/siteconditions"
)

// ClientConfig holds configuration for the vision service client.
type ClientConfig struct {
	// BaseURL is the vision service endpoint, e.g. http://vision:8090.
	BaseURL string
	APIKey  string
	Logger  zerolog.Logger

	// Timeout bounds each HTTP call. Default: 10 seconds.
	Timeout time.Duration
	// MaxRetries is the number of retry attempts on transient failures.
	// Default: 3.
	MaxRetries uint64
	// InitialInterval is the first retry backoff. Default: 100ms.
	InitialInterval time.Duration
	// MaxInterval caps the retry backoff. Default: 5 seconds.
	MaxInterval time.Duration
	// BreakerTimeout is the open-state period before the breaker
	// half-opens again. Default: 60 seconds.
	BreakerTimeout time.Duration
}

// Client calls the remote vision service. It implements
// siteconditions.Provider.
type Client struct {
	baseURL    string
	apiKey     string
	logger     zerolog.Logger
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*assessmentPayload]
	config     ClientConfig
}

// NewClient creates a vision service client, applying defaults for
// zero-value config fields.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 60 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[*assessmentPayload](gobreaker.Settings{
		Name:    "vision",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && ratio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			cfg.Logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("vision circuit breaker state change")
		},
	})

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		logger:     cfg.Logger,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		config:     cfg,
	}
}

// Name implements siteconditions.Provider.
func (c *Client) Name() string {
	return "vision"
}

type assessmentRequest struct {
	Polygon [][2]float64 `json:"polygon"`
	AreaM2  float64      `json:"area_m2"`
}

type assessmentPayload struct {
	Segmentation struct {
		AsphaltPct    float64 `json:"asphalt_pct"`
		GravelPct     float64 `json:"gravel_pct"`
		VegetationPct float64 `json:"vegetation_pct"`
		ObstaclesPct  float64 `json:"obstacles_pct"`
	} `json:"segmentation"`
	AnnualSunHours float64 `json:"annual_sun_hours"`
	NDVI           float64 `json:"ndvi"`
}

type serverError struct {
	statusCode int
}

func (e *serverError) Error() string {
	return "vision server error: " + http.StatusText(e.statusCode)
}

// Assess implements siteconditions.Provider. Transient failures (5xx,
// network errors) are retried with exponential backoff; an open
// circuit breaker aborts immediately so the caller falls back to the
// simulator without burning the timeout budget.
func (c *Client) Assess(ctx context.Context, req siteconditions.Request) (*siteconditions.Conditions, error) {
	body, err := json.Marshal(buildRequest(req.Polygon, req.AreaM2))
	if err != nil {
		return nil, fmt.Errorf("encoding vision request: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)

	var payload *assessmentPayload
	operation := func() error {
		result, execErr := c.breaker.Execute(func() (*assessmentPayload, error) {
			return c.post(ctx, body)
		})
		if execErr != nil {
			if errors.Is(execErr, gobreaker.ErrOpenState) || errors.Is(execErr, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(siteconditions.ErrProviderUnavailable)
			}
			var clientErr *requestError
			if errors.As(execErr, &clientErr) {
				// 4xx responses will not improve on retry.
				return backoff.Permanent(execErr)
			}
			return execErr
		}
		payload = result
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("%w: %w", siteconditions.ErrProviderUnavailable, err)
	}

	return toConditions(payload), nil
}

// requestError represents a non-retryable 4xx response.
type requestError struct {
	statusCode int
}

func (e *requestError) Error() string {
	return "vision request rejected: " + http.StatusText(e.statusCode)
}

func (c *Client) post(ctx context.Context, body []byte) (*assessmentPayload, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/assess", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, &serverError{statusCode: resp.StatusCode}
	case resp.StatusCode >= 400:
		return nil, &requestError{statusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading vision response: %w", err)
	}

	var payload assessmentPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding vision response: %w", err)
	}
	return &payload, nil
}

func buildRequest(polygon geo.Polygon, areaM2 float64) assessmentRequest {
	req := assessmentRequest{AreaM2: areaM2}
	for _, c := range polygon {
		req.Polygon = append(req.Polygon, [2]float64{c.Lon, c.Lat})
	}
	return req
}

func toConditions(p *assessmentPayload) *siteconditions.Conditions {
	return &siteconditions.Conditions{
		Segmentation: siteconditions.Segmentation{
			AsphaltPct:    p.Segmentation.AsphaltPct,
			GravelPct:     p.Segmentation.GravelPct,
			VegetationPct: p.Segmentation.VegetationPct,
			ObstaclesPct:  p.Segmentation.ObstaclesPct,
		},
		SunExposure:    siteconditions.ClassifyExposure(p.AnnualSunHours),
		AnnualSunHours: p.AnnualSunHours,
		NDVI:           p.NDVI,
		Source:         "vision",
	}
}

// BreakerState exposes the circuit breaker state for readiness checks.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}
