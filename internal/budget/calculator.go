// Package budget prices green infrastructure installations: base
// construction categories, irrigation, annual maintenance and
// location-based subsidies. Specialization evaluators append their own
// categories to a breakdown; base categories are never replaced.
package budget

import (
	"math"

	"github.com/verdialabs/verdia/internal/geo"
	"github.com/verdialabs/verdia/internal/standards"
)

// Category is one priced line of a breakdown.
type Category struct {
	Name      string  `json:"name"`
	AmountEUR float64 `json:"amount_eur"`
}

// Breakdown is an ordered budget with subsidy applied to the running
// total. Use Append to add categories so the totals stay consistent.
type Breakdown struct {
	Categories           []Category `json:"categories"`
	TotalInitialEUR      float64    `json:"total_initial_eur"`
	AnnualMaintenanceEUR float64    `json:"annual_maintenance_eur"`
	SubsidyEligible      bool       `json:"subsidy_eligible"`
	SubsidyZone          string     `json:"subsidy_zone,omitempty"`
	SubsidyProgram       string     `json:"subsidy_program,omitempty"`
	SubsidyPct           float64    `json:"subsidy_pct"`
	SubsidyEUR           float64    `json:"subsidy_eur"`
	NetCostEUR           float64    `json:"net_cost_eur"`
}

// Append adds a category and recomputes the total, subsidy amount and
// net cost.
func (b *Breakdown) Append(name string, amountEUR float64) {
	b.Categories = append(b.Categories, Category{Name: name, AmountEUR: round2(amountEUR)})
	b.recompute()
}

// Amount returns the amount for a named category.
func (b *Breakdown) Amount(name string) (float64, bool) {
	for _, c := range b.Categories {
		if c.Name == name {
			return c.AmountEUR, true
		}
	}
	return 0, false
}

// IncrementPctOver returns the percentage increase of the current
// total over a base total, e.g. after specialization categories were
// appended.
func (b *Breakdown) IncrementPctOver(baseTotalEUR float64) float64 {
	if baseTotalEUR <= 0 {
		return 0
	}
	return round2((b.TotalInitialEUR - baseTotalEUR) / baseTotalEUR * 100)
}

func (b *Breakdown) recompute() {
	total := 0.0
	for _, c := range b.Categories {
		total += c.AmountEUR
	}
	b.TotalInitialEUR = round2(total)
	b.SubsidyEUR = round2(total * b.SubsidyPct / 100)
	b.NetCostEUR = round2(b.TotalInitialEUR - b.SubsidyEUR)
}

// Input describes the site being priced.
type Input struct {
	UsableAreaM2 float64
	PlantCostEUR float64
	Centroid     geo.Coordinate
}

// Calculator prices installations against a standards cost table and
// a subsidy zone set.
type Calculator struct {
	tables *standards.Tables
	zones  []Zone
}

// NewCalculator creates a calculator over the given tables, using the
// Madrid subsidy zones.
func NewCalculator(tables *standards.Tables) *Calculator {
	return &Calculator{tables: tables, zones: MadridZones()}
}

// Compute builds the base breakdown: construction layers, planting,
// irrigation, annual maintenance, and the subsidy for the site's zone.
func (c *Calculator) Compute(in Input) *Breakdown {
	costs := c.tables.Costs
	area := in.UsableAreaM2

	b := &Breakdown{}
	if zone, ok := FindZone(c.zones, in.Centroid); ok {
		b.SubsidyEligible = true
		b.SubsidyZone = zone.Name
		b.SubsidyProgram = zone.Program
		b.SubsidyPct = zone.Pct
	}

	b.Append("substrate", area*costs.SubstratePerM2)
	b.Append("drainage", area*costs.DrainagePerM2)
	b.Append("waterproof_membrane", area*costs.MembranePerM2)
	b.Append("anti_root_barrier", area*costs.AntiRootPerM2)
	b.Append("geotextile", area*costs.GeotextilePerM2)
	b.Append("installation", area*costs.InstallationPerM2)
	b.Append("planting", in.PlantCostEUR)
	b.Append("irrigation", c.irrigationCost(area))

	b.AnnualMaintenanceEUR = round2(area * costs.MaintenancePerM2Year)
	return b
}

// irrigationCost prices a drip system: piping per m², one controller,
// and humidity sensors by coverage area.
func (c *Calculator) irrigationCost(areaM2 float64) float64 {
	costs := c.tables.Costs
	sensors := math.Max(1, math.Floor(areaM2/costs.SensorCoverageAreaM2))
	return areaM2*costs.DripIrrigationPerM2 +
		costs.IrrigationController +
		sensors*costs.HumiditySensorUnit
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
