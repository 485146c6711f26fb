// Package batch runs viability analyses over grids of candidate cells
// using a bounded worker pool.
package batch

import (
	"math"
	"time"

	"github.com/verdialabs/verdia/internal/geo"
	"github.com/verdialabs/verdia/internal/greenfactor"
	"github.com/verdialabs/verdia/internal/standards"
)

// Cell is one candidate surface in a grid scan.
type Cell struct {
	// Name identifies the cell in results and logs.
	Name string

	// Polygon is the candidate footprint.
	Polygon geo.Polygon

	// Context describes the assumed installation for scoring.
	Context greenfactor.Context

	// SubstrateDepthCM constrains species selection.
	SubstrateDepthCM float64
}

// Grid groups cells under a named scan area.
type Grid struct {
	// Name is the human-readable name of the scan area.
	Name string

	// Cells are the candidate surfaces to analyze.
	Cells []Cell

	// Priority determines scan order (lower = higher priority).
	Priority int
}

// GridConfig holds configuration for a grid analysis run.
type GridConfig struct {
	// Grids are the scan areas to analyze. If empty, uses
	// DefaultMadridGrids.
	Grids []Grid

	// Concurrency is the number of concurrent cell analyses.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for each cell analysis.
	// Default: 30 seconds
	Timeout time.Duration
}

// DefaultGridConfig returns the default grid configuration.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		Grids:       DefaultMadridGrids(),
		Concurrency: 3,
		Timeout:     30 * time.Second,
	}
}

// DefaultMadridGrids returns candidate rooftop cells across Madrid
// districts, ordered from the subsidy-rich center outwards.
func DefaultMadridGrids() []Grid {
	return []Grid{
		{
			Name:     "Centro",
			Priority: 1,
			Cells: []Cell{
				roofCell("centro-sol", 40.4168, -3.7038, 20),
				roofCell("centro-lavapies", 40.4090, -3.7010, 15),
				roofCell("centro-malasana", 40.4256, -3.7043, 18),
			},
		},
		{
			Name:     "Salamanca",
			Priority: 1,
			Cells: []Cell{
				roofCell("salamanca-goya", 40.4240, -3.6780, 25),
				roofCell("salamanca-lista", 40.4300, -3.6820, 22),
			},
		},
		{
			Name:     "Chamberi",
			Priority: 1,
			Cells: []Cell{
				roofCell("chamberi-olavide", 40.4320, -3.7010, 20),
				roofCell("chamberi-rios-rosas", 40.4410, -3.6990, 24),
			},
		},
		{
			Name:     "Arganzuela",
			Priority: 2,
			Cells: []Cell{
				roofCell("arganzuela-delicias", 40.3980, -3.6930, 30),
				roofCell("arganzuela-legazpi", 40.3900, -3.6950, 35),
			},
		},
		{
			Name:     "Tetuan",
			Priority: 2,
			Cells: []Cell{
				roofCell("tetuan-estrecho", 40.4620, -3.6960, 22),
			},
		},
		{
			Name:     "Vallecas",
			Priority: 3,
			Cells: []Cell{
				roofCell("vallecas-portazgo", 40.3920, -3.6520, 28),
			},
		},
		{
			Name:     "Carabanchel",
			Priority: 3,
			Cells: []Cell{
				roofCell("carabanchel-oporto", 40.3860, -3.7320, 26),
			},
		},
	}
}

// roofCell builds a square extensive-roof candidate of the given side
// length centered on a coordinate.
func roofCell(name string, lat, lon, sideM float64) Cell {
	return Cell{
		Name:    name,
		Polygon: squareAround(lat, lon, sideM),
		Context: greenfactor.Context{
			RoofType:       standards.RoofExtensive,
			Orientation:    standards.OrientationS,
			Infrastructure: standards.InfraExtensiveRoof,
		},
		SubstrateDepthCM: 10,
	}
}

// squareAround returns a closed square ring of the given side length
// centered on (lat, lon).
func squareAround(lat, lon, sideM float64) geo.Polygon {
	const metersPerDegLat = 111_320.0
	halfLat := sideM / 2 / metersPerDegLat
	halfLon := sideM / 2 / (metersPerDegLat * math.Cos(lat*math.Pi/180))

	return geo.Polygon{
		{Lon: lon - halfLon, Lat: lat - halfLat},
		{Lon: lon + halfLon, Lat: lat - halfLat},
		{Lon: lon + halfLon, Lat: lat + halfLat},
		{Lon: lon - halfLon, Lat: lat + halfLat},
		{Lon: lon - halfLon, Lat: lat - halfLat},
	}
}

// AllCells returns all cells from all grids in declaration order.
func (c GridConfig) AllCells() []Cell {
	var cells []Cell
	for _, g := range c.Grids {
		cells = append(cells, g.Cells...)
	}
	return cells
}

// TotalCells returns the total number of cells to analyze.
func (c GridConfig) TotalCells() int {
	total := 0
	for _, g := range c.Grids {
		total += len(g.Cells)
	}
	return total
}
