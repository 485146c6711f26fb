// Package siteconditions assesses surface and solar conditions for a
// candidate site.
//
// The assessment contract is a Provider interface with two
// implementations: the deterministic simulator in this package and a
// remote vision service client. The simulator is always available as a
// fallback; when it stands in for a failed remote call the result is
// flagged with degraded confidence instead of failing the analysis.
package siteconditions

import (
	"context"
	"errors"

	"github.com/verdialabs/verdia/internal/geo"
)

// Provider errors.
var (
	// ErrProviderUnavailable indicates the backing service could not be
	// reached. Callers fall back to the simulator.
	ErrProviderUnavailable = errors.New("siteconditions: provider unavailable")
)

// SunExposure classifies annual direct-sun hours.
type SunExposure string

const (
	ExposureDirectSun SunExposure = "DIRECT_SUN"
	ExposureMixed     SunExposure = "MIXED"
	ExposureShade     SunExposure = "SHADE"
)

// Exposure thresholds in annual sun hours.
const (
	directSunMinHours = 2200
	mixedMinHours     = 1800
)

// ClassifyExposure maps annual sun hours to an exposure class.
func ClassifyExposure(hours float64) SunExposure {
	switch {
	case hours >= directSunMinHours:
		return ExposureDirectSun
	case hours >= mixedMinHours:
		return ExposureMixed
	default:
		return ExposureShade
	}
}

// Segmentation is the surface breakdown in percentages summing to 100.
type Segmentation struct {
	AsphaltPct    float64 `json:"asphalt_pct"`
	GravelPct     float64 `json:"gravel_pct"`
	VegetationPct float64 `json:"vegetation_pct"`
	ObstaclesPct  float64 `json:"obstacles_pct"`
}

// UsablePct is the share of the surface not blocked by obstacles.
func (s Segmentation) UsablePct() float64 {
	return 100 - s.ObstaclesPct
}

// Request describes the site handed to a Provider.
type Request struct {
	Polygon  geo.Polygon
	AreaM2   float64
	Centroid geo.Coordinate
}

// Conditions is the assessed state of a site surface.
type Conditions struct {
	Segmentation   Segmentation `json:"segmentation"`
	SunExposure    SunExposure  `json:"sun_exposure"`
	AnnualSunHours float64      `json:"annual_sun_hours"`
	NDVI           float64      `json:"ndvi"`

	// Source names the provider that produced the assessment.
	Source string `json:"source"`
	// DegradedConfidence is set when a remote provider failed and the
	// simulator answered in its place.
	DegradedConfidence bool `json:"degraded_confidence"`
}

// UsableAreaM2 applies the usable fraction to a total area.
func (c *Conditions) UsableAreaM2(totalM2 float64) float64 {
	return totalM2 * c.Segmentation.UsablePct() / 100
}

// Provider assesses site conditions. Implementations must be safe for
// concurrent use.
type Provider interface {
	Assess(ctx context.Context, req Request) (*Conditions, error)
	Name() string
}
