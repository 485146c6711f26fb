package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/verdialabs/verdia/internal/api/middleware"
)

// serveLogged runs a request through the Logger middleware and decodes
// the single JSON line it emits.
func serveLogged(t *testing.T, handler http.HandlerFunc, req *http.Request) map[string]interface{} {
	t.Helper()

	var buf bytes.Buffer
	log := zerolog.New(&buf)

	w := httptest.NewRecorder()
	middleware.Logger(log)(handler).ServeHTTP(w, req)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogger_LogsRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/metadata/species", http.NoBody)
	req.Header.Set("User-Agent", "verdia-test")

	entry := serveLogged(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("response body"))
	}, req)

	assert.Equal(t, "request completed", entry["message"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/v1/metadata/species", entry["path"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Equal(t, float64(13), entry["bytes"]) // len("response body")
	assert.Equal(t, "verdia-test", entry["user_agent"])
	assert.NotEmpty(t, entry["duration"])
}

func TestLogger_LogsErrorStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/analyses", http.NoBody)

	entry := serveLogged(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, req)

	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, float64(500), entry["status"])
}

func TestLogger_DefaultStatusCode(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/analyses", http.NoBody)

	entry := serveLogged(t, func(w http.ResponseWriter, r *http.Request) {
		// No WriteHeader call, should default to 200
		_, _ = w.Write([]byte("ok"))
	}, req)

	assert.Equal(t, float64(200), entry["status"])
}

func TestLogger_DemotesHealthProbes(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.InfoLevel)

	handler := middleware.Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	// Successful probes log at debug, which the info-level logger drops.
	assert.Zero(t, buf.Len())

	// A failing probe still logs at info.
	failing := middleware.Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	failing.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody))
	assert.NotZero(t, buf.Len())
}

func TestLogger_IncludesRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	handler := middleware.RequestID(
		middleware.Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})),
	)

	req := httptest.NewRequest(http.MethodGet, "/v1/analyses", http.NoBody)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	requestID, ok := entry["request_id"].(string)
	assert.True(t, ok)
	assert.Contains(t, requestID, "req_")
}

func TestLogger_IncludesTraceID(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer func() { _ = tp.Shutdown(context.Background()) }()

	var buf bytes.Buffer
	log := zerolog.New(&buf)

	handler := middleware.Tracing("verdia-api")(
		middleware.Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})),
	)

	req := httptest.NewRequest(http.MethodGet, "/v1/analyses", http.NoBody)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	traceID, ok := entry["trace_id"].(string)
	assert.True(t, ok)
	assert.Len(t, traceID, 32)

	spanID, ok := entry["span_id"].(string)
	assert.True(t, ok)
	assert.Len(t, spanID, 16)
}
