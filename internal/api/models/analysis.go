package models

import (
	"github.com/verdialabs/verdia/internal/analysis"
	"github.com/verdialabs/verdia/internal/geo"
	"github.com/verdialabs/verdia/internal/greenfactor"
	"github.com/verdialabs/verdia/internal/specialization"
	"github.com/verdialabs/verdia/internal/species"
	"github.com/verdialabs/verdia/internal/standards"
)

// AnalyzeRequest is the body of POST /v1/analyses. Polygon vertices are
// [lon, lat] pairs.
type AnalyzeRequest struct {
	Polygon          [][2]float64 `json:"polygon"`
	RoofType         string       `json:"roof_type"`
	Orientation      string       `json:"orientation"`
	Infrastructure   string       `json:"infrastructure"`
	SubstrateDepthCM float64      `json:"substrate_depth_cm"`
	SpeciesPriority  string       `json:"species_priority,omitempty"`
}

// Validate returns field errors for structurally invalid input.
// Semantic validation (ring closure, coefficient lookups) happens in
// the engine.
func (req *AnalyzeRequest) Validate() []FieldError {
	var errs []FieldError
	if len(req.Polygon) < 4 {
		errs = append(errs, FieldError{
			Field:   "polygon",
			Message: "polygon must have at least 4 vertices (closed ring)",
			Code:    "too_few_vertices",
		})
	}
	for _, v := range req.Polygon {
		if v[0] < -180 || v[0] > 180 || v[1] < -90 || v[1] > 90 {
			errs = append(errs, FieldError{
				Field:   "polygon",
				Message: "vertex out of range, expected [lon, lat]",
				Code:    "out_of_range",
			})
			break
		}
	}
	if req.RoofType == "" {
		errs = append(errs, FieldError{Field: "roof_type", Message: "roof_type is required", Code: "required"})
	}
	if req.Infrastructure == "" {
		errs = append(errs, FieldError{Field: "infrastructure", Message: "infrastructure is required", Code: "required"})
	}
	if req.SubstrateDepthCM < 0 {
		errs = append(errs, FieldError{Field: "substrate_depth_cm", Message: "substrate depth must be non-negative", Code: "out_of_range"})
	}
	return errs
}

// ToDomain converts the request into an engine request.
func (req *AnalyzeRequest) ToDomain() analysis.Request {
	polygon := make(geo.Polygon, 0, len(req.Polygon))
	for _, v := range req.Polygon {
		polygon = append(polygon, geo.Coordinate{Lon: v[0], Lat: v[1]})
	}
	return analysis.Request{
		Polygon: polygon,
		Context: greenfactor.Context{
			RoofType:       standards.RoofType(req.RoofType),
			Orientation:    standards.Orientation(req.Orientation),
			Infrastructure: standards.InfrastructureType(req.Infrastructure),
		},
		SubstrateDepthCM: req.SubstrateDepthCM,
		SpeciesPriority:  species.Priority(req.SpeciesPriority),
	}
}

// SpecializationRequest is the body of
// POST /v1/analyses/{analysisId}/specializations.
type SpecializationRequest struct {
	Type   string                `json:"type"`
	Params specialization.Params `json:"params"`
}

// PagedAnalyses is the response of GET /v1/analyses.
type PagedAnalyses struct {
	Items []*analysis.Result `json:"items"`
	Meta  PagedResponseMeta  `json:"meta"`
}
