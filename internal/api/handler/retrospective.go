package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/verdialabs/verdia/internal/api/models"
	"github.com/verdialabs/verdia/internal/api/response"
	"github.com/verdialabs/verdia/internal/retrospective"
	"github.com/verdialabs/verdia/internal/standards"
)

// RetrospectiveHandler handles before/after conversion analysis.
type RetrospectiveHandler struct {
	analyzer *retrospective.Analyzer
}

// NewRetrospectiveHandler creates a new RetrospectiveHandler.
func NewRetrospectiveHandler(analyzer *retrospective.Analyzer) *RetrospectiveHandler {
	return &RetrospectiveHandler{analyzer: analyzer}
}

// Analyze handles POST /v1/retrospective - compare a sealed surface
// with its projected green conversion.
func (h *RetrospectiveHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var input retrospective.Request
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if input.AreaM2 <= 0 {
		response.BadRequest(w, r, "area_m2 must be positive", []models.FieldError{
			{Field: "area_m2", Message: "area_m2 must be positive", Code: "out_of_range"},
		})
		return
	}

	report, err := h.analyzer.Analyze(input)
	if err != nil {
		if errors.Is(err, standards.ErrUnknownCoefficient) {
			response.BadRequest(w, r, err.Error(), []models.FieldError{
				{Field: "roof_type", Message: err.Error(), Code: "unknown"},
			})
			return
		}
		response.InternalError(w, r, "retrospective analysis failed")
		return
	}

	response.JSON(w, r, http.StatusOK, report)
}
