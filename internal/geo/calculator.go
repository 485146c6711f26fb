package geo

import (
	"fmt"
	"math"
)

const (
	earthRadiusM        = 6371000.0
	metersPerDegreeLat  = 111000.0
	metersPerDegreeLonE = 111320.0 // at the equator
)

// Compute validates the polygon and derives its metrics.
func Compute(p Polygon) (*Metrics, error) {
	ring, err := validate(p)
	if err != nil {
		return nil, err
	}

	perimeter := perimeterM(ring)
	area := areaM2(ring)
	if area <= 0 {
		return nil, fmt.Errorf("%w: degenerate polygon with zero area", ErrInvalidGeometry)
	}

	compactness := 4 * math.Pi * area / (perimeter * perimeter)
	if compactness > 1 {
		compactness = 1
	}

	return &Metrics{
		AreaM2:            area,
		PerimeterM:        perimeter,
		Centroid:          centroid(ring),
		Compactness:       compactness,
		OrientationDeg:    dominantOrientation(ring),
		EstimatedSlopePct: estimateSlope(area, perimeter),
	}, nil
}

// validate checks ring closure and vertex count, returning the ring
// without the duplicated closing vertex.
func validate(p Polygon) ([]Coordinate, error) {
	if len(p) < 4 {
		return nil, fmt.Errorf("%w: need at least 3 distinct vertices plus closing vertex, got %d", ErrInvalidGeometry, len(p))
	}
	if p[0] != p[len(p)-1] {
		return nil, fmt.Errorf("%w: ring is not closed", ErrInvalidGeometry)
	}

	ring := p[:len(p)-1]
	distinct := make(map[Coordinate]struct{}, len(ring))
	for _, c := range ring {
		distinct[c] = struct{}{}
	}
	if len(distinct) < 3 {
		return nil, fmt.Errorf("%w: only %d distinct vertices", ErrInvalidGeometry, len(distinct))
	}
	return ring, nil
}

// HaversineM returns the great-circle distance in meters between two
// coordinates.
func HaversineM(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func perimeterM(ring []Coordinate) float64 {
	var total float64
	for i := range ring {
		total += HaversineM(ring[i], ring[(i+1)%len(ring)])
	}
	return total
}

// areaM2 projects vertices onto a local planar frame scaled by the mean
// latitude and applies the shoelace formula.
func areaM2(ring []Coordinate) float64 {
	var meanLat float64
	for _, c := range ring {
		meanLat += c.Lat
	}
	meanLat /= float64(len(ring))
	cosLat := math.Cos(meanLat * math.Pi / 180)

	type xy struct{ x, y float64 }
	pts := make([]xy, len(ring))
	for i, c := range ring {
		pts[i] = xy{
			x: c.Lon * cosLat * metersPerDegreeLonE,
			y: c.Lat * metersPerDegreeLat,
		}
	}

	var sum float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].x*pts[j].y - pts[j].x*pts[i].y
	}
	return math.Abs(sum) / 2
}

// centroid is the arithmetic mean of the ring vertices. A deliberate
// approximation of the true polygon centroid, adequate for coefficient
// and subsidy-zone lookups.
func centroid(ring []Coordinate) Coordinate {
	var lon, lat float64
	for _, c := range ring {
		lon += c.Lon
		lat += c.Lat
	}
	n := float64(len(ring))
	return Coordinate{Lon: lon / n, Lat: lat / n}
}

// dominantOrientation returns the bearing of the longest edge folded
// into [0, 180).
func dominantOrientation(ring []Coordinate) float64 {
	var longest float64
	var bearing float64
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		d := HaversineM(a, b)
		if d > longest {
			longest = d
			bearing = bearingDeg(a, b)
		}
	}
	return math.Mod(bearing+360, 180)
}

func bearingDeg(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return math.Atan2(y, x) * 180 / math.Pi
}

// estimateSlope derives a rough slope percentage from how far the shape
// deviates from a square of equal area. Stands in for elevation data.
func estimateSlope(area, perimeter float64) float64 {
	if area <= 0 {
		return 0
	}
	ideal := 4 * math.Sqrt(area)
	shapeFactor := perimeter / ideal
	slope := math.Min(5*(shapeFactor-1), 15)
	return math.Max(0, slope)
}
