package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdialabs/verdia/internal/api/middleware"
)

func TestNewMetrics(t *testing.T) {
	metrics, err := middleware.NewMetrics()
	require.NoError(t, err)
	assert.NotNil(t, metrics)
}

func TestMetrics_Middleware_PassesThrough(t *testing.T) {
	metrics, err := middleware.NewMetrics()
	require.NoError(t, err)

	tests := []struct {
		name       string
		method     string
		path       string
		status     int
		body       string
		skipHeader bool
	}{
		{name: "success", method: http.MethodGet, path: "/v1/metadata/species", status: http.StatusOK, body: "OK"},
		{name: "server error", method: http.MethodPost, path: "/v1/analyses", status: http.StatusInternalServerError, body: "error"},
		{name: "bad request", method: http.MethodPost, path: "/v1/analyses", status: http.StatusBadRequest, body: `{"error":"bad request"}`},
		{name: "implicit 200", method: http.MethodGet, path: "/v1/ops/health", status: http.StatusOK, body: "response", skipHeader: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := metrics.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !tt.skipHeader {
					w.WriteHeader(tt.status)
				}
				_, _ = w.Write([]byte(tt.body))
			}))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, http.NoBody))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestNewProviderMetrics(t *testing.T) {
	pm, err := middleware.NewProviderMetrics("siteconditions")
	require.NoError(t, err)
	assert.NotNil(t, pm)
}

func TestProviderMetrics_RecordersDoNotPanic(t *testing.T) {
	pm, err := middleware.NewProviderMetrics("siteconditions")
	require.NoError(t, err)

	pm.RecordRequest("vision", "assess", 0, nil)
	pm.RecordCacheHit("vision", "assess")
	pm.RecordCacheMiss("vision", "assess")
}
