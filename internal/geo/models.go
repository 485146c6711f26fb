// Package geo derives geometric metrics from geographic polygons.
//
// Coordinates are WGS84 lon/lat pairs. Perimeters use great-circle
// (haversine) distances; areas use a shoelace sum over a local
// equal-area projection scaled by cos(mean latitude), which is accurate
// for site-sized polygons without pulling in a full geodesic library.
package geo

import "errors"

// ErrInvalidGeometry indicates a polygon that cannot describe a real
// site: fewer than 3 distinct vertices, an open ring, or a shape that
// resolves to non-positive area.
var ErrInvalidGeometry = errors.New("geo: invalid geometry")

// Coordinate is a WGS84 position.
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Polygon is a closed ring of coordinates: the first and last vertex
// are equal, with at least 3 distinct vertices in between.
type Polygon []Coordinate

// Metrics holds the geometric measurements derived from one polygon.
type Metrics struct {
	AreaM2      float64    `json:"area_m2"`
	PerimeterM  float64    `json:"perimeter_m"`
	Centroid    Coordinate `json:"centroid"`
	Compactness float64    `json:"compactness"`
	// OrientationDeg is the compass bearing of the polygon's longest
	// edge, 0-180. An approximation of the footprint's dominant axis.
	OrientationDeg float64 `json:"estimated_orientation_deg"`
	// EstimatedSlopePct is a shape-factor heuristic standing in for
	// elevation data: elongated footprints score a higher slope.
	EstimatedSlopePct float64 `json:"estimated_slope_pct"`
}

// IsRectangularFootprint reports whether the shape is compact enough to
// be treated as a building footprint downstream.
func (m *Metrics) IsRectangularFootprint() bool {
	return m.Compactness >= 0.7
}
