package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/verdialabs/verdia/internal/api/middleware"
)

func limitedHandler(cfg middleware.RateLimitConfig) http.Handler {
	return middleware.RateLimitByIP(cfg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func doRequest(handler http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/analyses", http.NoBody)
	req.RemoteAddr = ip
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitByIP_AllowsWithinLimit(t *testing.T) {
	handler := limitedHandler(middleware.RateLimitConfig{
		RequestLimit: 5,
		WindowLength: time.Minute,
	})

	for i := 0; i < 5; i++ {
		rec := doRequest(handler, "192.168.1.1:12345")
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should be allowed", i+1)
	}
}

func TestRateLimitByIP_BlocksOverLimit(t *testing.T) {
	handler := limitedHandler(middleware.RateLimitConfig{
		RequestLimit: 3,
		WindowLength: time.Minute,
	})

	for i := 0; i < 3; i++ {
		rec := doRequest(handler, "10.0.0.1:12345")
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doRequest(handler, "10.0.0.1:12345")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rate limit exceeded")
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRateLimitByIP_SeparateLimitsPerIP(t *testing.T) {
	handler := limitedHandler(middleware.RateLimitConfig{
		RequestLimit: 2,
		WindowLength: time.Minute,
	})

	for i := 0; i < 2; i++ {
		rec := doRequest(handler, "172.16.0.1:12345")
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, "172.16.0.1:12345").Code)
	assert.Equal(t, http.StatusOK, doRequest(handler, "172.16.0.2:12345").Code)
}

func TestRateLimitExceededResponse_IsProblemJSON(t *testing.T) {
	handler := middleware.RequestID(
		limitedHandler(middleware.RateLimitConfig{
			RequestLimit: 1,
			WindowLength: time.Minute,
		}),
	)

	assert.Equal(t, http.StatusOK, doRequest(handler, "203.0.113.1:12345").Code)

	rec := doRequest(handler, "203.0.113.1:12345")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "too-many-requests")
	assert.Contains(t, body, "Rate limit exceeded")
	assert.Contains(t, body, "/v1/analyses") // instance
}

func TestRateLimitTiers(t *testing.T) {
	assert.Equal(t, 30, middleware.ExpensiveRateLimit.RequestLimit)
	assert.Equal(t, time.Minute, middleware.ExpensiveRateLimit.WindowLength)

	assert.Equal(t, 100, middleware.StandardRateLimit.RequestLimit)
	assert.Equal(t, time.Minute, middleware.StandardRateLimit.WindowLength)
}
