package models_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdialabs/verdia/internal/api/models"
)

func TestNewProblem(t *testing.T) {
	p := models.NewProblem(
		models.ProblemTypeValidation,
		"Validation error",
		http.StatusBadRequest,
		"req_test123",
	)

	assert.Equal(t, models.ProblemTypeValidation, p.Type)
	assert.Equal(t, "Validation error", p.Title)
	assert.Equal(t, http.StatusBadRequest, p.Status)
	assert.Equal(t, "req_test123", p.TraceID)
	assert.Empty(t, p.Detail)
	assert.Empty(t, p.Instance)
	assert.Nil(t, p.Errors)
}

func TestProblem_Builders(t *testing.T) {
	fieldErrors := []models.FieldError{
		{Field: "polygon[2].lat", Message: "must be between -90 and 90", Code: "out_of_range"},
		{Field: "roof_type", Message: "required", Code: "required"},
	}

	p := models.NewProblem(
		models.ProblemTypeValidation,
		"Validation error",
		http.StatusBadRequest,
		"req_test123",
	).
		WithDetail("polygon[2].lat must be between -90 and 90").
		WithInstance("/v1/analyses").
		WithErrors(fieldErrors)

	assert.Equal(t, "polygon[2].lat must be between -90 and 90", p.Detail)
	assert.Equal(t, "/v1/analyses", p.Instance)
	require.Len(t, p.Errors, 2)
	assert.Equal(t, "polygon[2].lat", p.Errors[0].Field)
	assert.Equal(t, "out_of_range", p.Errors[0].Code)
	assert.Equal(t, "roof_type", p.Errors[1].Field)
}

func TestProblem_Write(t *testing.T) {
	p := models.NewBadRequest("req_test123", "invalid analysis request", []models.FieldError{
		{Field: "substrate_depth_cm", Message: "must not be negative"},
	})
	p.Instance = "/v1/analyses"

	w := httptest.NewRecorder()
	p.Write(w)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.Equal(t, "req_test123", w.Header().Get("X-Request-Id"))

	var result models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.Equal(t, models.ProblemTypeValidation, result.Type)
	assert.Equal(t, "Validation error", result.Title)
	assert.Equal(t, http.StatusBadRequest, result.Status)
	assert.Equal(t, "invalid analysis request", result.Detail)
	assert.Equal(t, "/v1/analyses", result.Instance)
	assert.Equal(t, "req_test123", result.TraceID)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "substrate_depth_cm", result.Errors[0].Field)
}

func TestProblemConstructors(t *testing.T) {
	tests := []struct {
		name       string
		problem    *models.Problem
		wantType   string
		wantTitle  string
		wantStatus int
		wantDetail string
	}{
		{
			name:       "bad request",
			problem:    models.NewBadRequest("req_123", "invalid polygon", nil),
			wantType:   models.ProblemTypeValidation,
			wantTitle:  "Validation error",
			wantStatus: http.StatusBadRequest,
			wantDetail: "invalid polygon",
		},
		{
			name:       "not found",
			problem:    models.NewNotFound("req_123", "analysis not found"),
			wantType:   models.ProblemTypeNotFound,
			wantTitle:  "Not found",
			wantStatus: http.StatusNotFound,
			wantDetail: "analysis not found",
		},
		{
			name:       "too many requests",
			problem:    models.NewTooManyRequests("req_123", "rate limit exceeded"),
			wantType:   models.ProblemTypeTooManyRequests,
			wantTitle:  "Too many requests",
			wantStatus: http.StatusTooManyRequests,
			wantDetail: "rate limit exceeded",
		},
		{
			name:       "internal error",
			problem:    models.NewInternalError("req_123", "database error"),
			wantType:   models.ProblemTypeInternal,
			wantTitle:  "Internal server error",
			wantStatus: http.StatusInternalServerError,
			wantDetail: "database error",
		},
		{
			name:       "service unavailable",
			problem:    models.NewServiceUnavailable("req_123", "vision service unavailable"),
			wantType:   models.ProblemTypeUnavailable,
			wantTitle:  "Service unavailable",
			wantStatus: http.StatusServiceUnavailable,
			wantDetail: "vision service unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.problem.Type)
			assert.Equal(t, tt.wantTitle, tt.problem.Title)
			assert.Equal(t, tt.wantStatus, tt.problem.Status)
			assert.Equal(t, tt.wantDetail, tt.problem.Detail)
			assert.Equal(t, "req_123", tt.problem.TraceID)
		})
	}
}
