// Package analysis orchestrates the full viability pipeline: geometry,
// site conditions, green factor, species, budget, benefits and the
// financial model, assembled into one persisted result.
package analysis

import (
	"errors"
	"time"

	"github.com/verdialabs/verdia/internal/benefits"
	"github.com/verdialabs/verdia/internal/budget"
	"github.com/verdialabs/verdia/internal/financial"
	"github.com/verdialabs/verdia/internal/geo"
	"github.com/verdialabs/verdia/internal/greenfactor"
	"github.com/verdialabs/verdia/internal/siteconditions"
	"github.com/verdialabs/verdia/internal/species"
)

// ErrNotFound is returned when no stored analysis matches the ID.
var ErrNotFound = errors.New("analysis not found")

// Request is the immutable input of one analysis run.
type Request struct {
	Polygon          geo.Polygon         `json:"polygon"`
	Context          greenfactor.Context `json:"context"`
	SubstrateDepthCM float64             `json:"substrate_depth_cm"`
	SpeciesPriority  species.Priority    `json:"species_priority"`
}

// Result is the assembled output of the pipeline.
type Result struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Request   Request   `json:"request"`

	Geometry    *geo.Metrics               `json:"geometry"`
	Conditions  *siteconditions.Conditions `json:"site_conditions"`
	GreenFactor *greenfactor.Score         `json:"green_factor"`
	Species     []species.Recommendation   `json:"species"`
	Budget      *budget.Breakdown          `json:"budget"`
	Benefits    *benefits.Summary          `json:"benefits"`
	Financial   *financial.Metrics         `json:"financial"`
	Timeline    []financial.TimelinePoint  `json:"timeline"`

	UsableAreaM2 float64 `json:"usable_area_m2"`
	GreenScore   float64 `json:"green_score"`

	Recommendations []string `json:"recommendations"`
	Warnings        []string `json:"warnings"`
}
