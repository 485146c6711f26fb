package budget

import "github.com/verdialabs/verdia/internal/geo"

// Bounds is an axis-aligned lat/lon box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether the coordinate falls inside the box,
// borders included.
func (b Bounds) Contains(c geo.Coordinate) bool {
	return b.MinLat <= c.Lat && c.Lat <= b.MaxLat &&
		b.MinLon <= c.Lon && c.Lon <= b.MaxLon
}

// Zone is one subsidy program area. Zones are ordered highest subsidy
// first and the first containing zone wins.
type Zone struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Pct          float64  `json:"pct"`
	Program      string   `json:"program"`
	Bounds       Bounds   `json:"bounds"`
	Requirements []string `json:"requirements"`
}

// MadridZones returns the Madrid incentive zones (PECV 2025, regional
// programs, Next Generation funds). Boundaries are approximate.
func MadridZones() []Zone {
	return []Zone{
		{
			ID: "centro_historico", Name: "Centro Histórico Madrid", Pct: 80,
			Program: "PECV Madrid 2025 + Fondos Next Generation",
			Bounds:  Bounds{MinLat: 40.405, MaxLat: 40.430, MinLon: -3.720, MaxLon: -3.690},
			Requirements: []string{
				"Factor Verde ≥ 0.6",
				"Mínimo 60% especies nativas",
				"Proyecto técnico visado",
				"Licencia municipal",
			},
		},
		{
			ID: "ensanche", Name: "Ensanche y Barrios Centrales", Pct: 60,
			Program: "PECV Madrid 2025",
			Bounds:  Bounds{MinLat: 40.395, MaxLat: 40.440, MinLon: -3.730, MaxLon: -3.680},
			Requirements: []string{
				"Factor Verde ≥ 0.6",
				"Especies nativas recomendadas",
				"Proyecto técnico",
			},
		},
		{
			ID: "periferia", Name: "Barrios Periféricos", Pct: 50,
			Program: "Comunidad de Madrid",
			Bounds:  Bounds{MinLat: 40.350, MaxLat: 40.480, MinLon: -3.800, MaxLon: -3.600},
			Requirements: []string{
				"Factor Verde ≥ 0.6",
				"Superficie mínima 50 m²",
			},
		},
		{
			ID: "area_metropolitana", Name: "Área Metropolitana", Pct: 40,
			Program: "Comunidad de Madrid",
			Bounds:  Bounds{MinLat: 40.300, MaxLat: 40.550, MinLon: -3.900, MaxLon: -3.500},
			Requirements: []string{
				"Superficie mínima 100 m²",
				"Certificación energética",
			},
		},
	}
}

// FindZone returns the first zone containing the coordinate. The
// boolean is false when the location lies outside every zone.
func FindZone(zones []Zone, c geo.Coordinate) (Zone, bool) {
	for _, z := range zones {
		if z.Bounds.Contains(c) {
			return z, true
		}
	}
	return Zone{}, false
}
