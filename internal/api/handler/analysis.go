package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/verdialabs/verdia/internal/analysis"
	"github.com/verdialabs/verdia/internal/api/models"
	"github.com/verdialabs/verdia/internal/api/response"
	"github.com/verdialabs/verdia/internal/geo"
	"github.com/verdialabs/verdia/internal/specialization"
	"github.com/verdialabs/verdia/internal/standards"
)

// AnalysisHandler handles viability analysis endpoints.
type AnalysisHandler struct {
	service *analysis.Service
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(service *analysis.Service) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// CreateAnalysis handles POST /v1/analyses - run and persist an
// analysis.
func (h *AnalysisHandler) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var input models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "invalid analysis request", errs)
		return
	}

	result, err := h.service.Analyze(r.Context(), input.ToDomain())
	if err != nil {
		switch {
		case errors.Is(err, geo.ErrInvalidGeometry):
			response.BadRequest(w, r, err.Error(), []models.FieldError{
				{Field: "polygon", Message: err.Error(), Code: "invalid_geometry"},
			})
		case errors.Is(err, standards.ErrUnknownCoefficient):
			response.BadRequest(w, r, err.Error(), nil)
		default:
			response.InternalError(w, r, "analysis failed")
		}
		return
	}

	location := fmt.Sprintf("/v1/analyses/%s", result.ID)
	response.Created(w, r, location, result)
}

// GetAnalysis handles GET /v1/analyses/{analysisId}.
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	analysisID := chi.URLParam(r, "analysisId")
	if analysisID == "" {
		response.BadRequest(w, r, "analysisId is required", nil)
		return
	}

	result, err := h.service.Get(r.Context(), analysisID)
	if err != nil {
		if errors.Is(err, analysis.ErrNotFound) {
			response.NotFound(w, r, "analysis not found")
			return
		}
		response.InternalError(w, r, "failed to load analysis")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// ListAnalyses handles GET /v1/analyses.
func (h *AnalysisHandler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	results, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w, r, "failed to list analyses")
		return
	}

	response.JSON(w, r, http.StatusOK, models.PagedAnalyses{
		Items: results,
		Meta:  models.PagedResponseMeta{Limit: limit, Offset: offset, Count: len(results)},
	})
}

// CreateSpecialization handles
// POST /v1/analyses/{analysisId}/specializations - run a site-type
// specialization from a stored analysis snapshot.
func (h *AnalysisHandler) CreateSpecialization(w http.ResponseWriter, r *http.Request) {
	analysisID := chi.URLParam(r, "analysisId")
	if analysisID == "" {
		response.BadRequest(w, r, "analysisId is required", nil)
		return
	}

	var input models.SpecializationRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.Type == "" {
		response.BadRequest(w, r, "type is required", []models.FieldError{
			{Field: "type", Message: "type is required", Code: "required"},
		})
		return
	}

	result, err := h.service.Specialize(r.Context(), analysisID, specialization.Type(input.Type), input.Params)
	if err != nil {
		switch {
		case errors.Is(err, analysis.ErrNotFound):
			response.NotFound(w, r, "analysis not found")
		case errors.Is(err, specialization.ErrUnsupportedSpecialization):
			response.BadRequest(w, r, err.Error(), []models.FieldError{
				{Field: "type", Message: err.Error(), Code: "unsupported"},
			})
		case errors.Is(err, standards.ErrUnknownCoefficient):
			response.BadRequest(w, r, err.Error(), nil)
		default:
			response.InternalError(w, r, "specialization failed")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
