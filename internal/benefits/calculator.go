// Package benefits quantifies the annual ecosystem and energy effects
// of a green installation and monetizes them: CO2 capture and
// particulate filtering (MITECO factors), stormwater retention, urban
// heat reduction, and building energy savings (IDAE formulas).
package benefits

import (
	"fmt"
	"math"

	"github.com/verdialabs/verdia/internal/standards"
)

// Ecosystem holds the annual environmental effects of the vegetated
// surface.
type Ecosystem struct {
	CO2CaptureKgYear   float64 `json:"co2_capture_kg_year"`
	WaterRetainedLYear float64 `json:"water_retained_l_year"`
	TempReductionC     float64 `json:"temp_reduction_c"`
	PMFilteredKgYear   float64 `json:"pm_filtered_kg_year"`
}

// Energy holds the annual building energy savings.
type Energy struct {
	HeatingSavedKWhYear float64 `json:"heating_saved_kwh_year"`
	CoolingSavedKWhYear float64 `json:"cooling_saved_kwh_year"`
	TotalSavedKWhYear   float64 `json:"total_saved_kwh_year"`
	SavingsEURYear      float64 `json:"savings_eur_year"`
}

// Summary bundles the physical effects with their monetized value.
type Summary struct {
	Ecosystem Ecosystem `json:"ecosystem"`
	Energy    Energy    `json:"energy"`

	WaterValueEURYear     float64 `json:"water_value_eur_year"`
	CO2ValueEURYear       float64 `json:"co2_value_eur_year"`
	PMValueEURYear        float64 `json:"pm_value_eur_year"`
	TotalAnnualBenefitEUR float64 `json:"total_annual_benefit_eur"`
}

// Calculator computes benefits against a standards table set.
type Calculator struct {
	tables *standards.Tables
}

// NewCalculator creates a benefit calculator over the given tables.
func NewCalculator(tables *standards.Tables) *Calculator {
	return &Calculator{tables: tables}
}

// Compute returns the annual benefit summary for a vegetated area of
// the given roof type. Intensive systems carry deeper substrate and
// denser vegetation, which scales capture, retention and cooling.
func (c *Calculator) Compute(greenAreaM2 float64, roofType standards.RoofType) (*Summary, error) {
	if greenAreaM2 < 0 {
		return nil, fmt.Errorf("green area must be non-negative, got %.2f", greenAreaM2)
	}

	f := c.tables.Benefits
	intensive := roofType == standards.RoofIntensive

	eco := Ecosystem{
		CO2CaptureKgYear:   greenAreaM2 * f.CO2CapturePerM2Year,
		WaterRetainedLYear: greenAreaM2 * f.AnnualPrecipMM * f.RetentionFraction,
		TempReductionC:     f.TempReductionC,
		PMFilteredKgYear:   round2(greenAreaM2 * f.PMFilteredPerM2Year),
	}
	if intensive {
		eco.CO2CaptureKgYear *= f.CO2IntensiveFactor
		eco.WaterRetainedLYear *= f.WaterIntensiveFactor
		eco.TempReductionC *= f.TempIntensiveFactor
	}
	eco.CO2CaptureKgYear = round2(eco.CO2CaptureKgYear)
	eco.WaterRetainedLYear = round2(eco.WaterRetainedLYear)
	eco.TempReductionC = round2(eco.TempReductionC)

	energy, err := c.energySavings(greenAreaM2, roofType)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		Ecosystem:         eco,
		Energy:            *energy,
		WaterValueEURYear: round2(eco.WaterRetainedLYear * f.WaterValuePerLiter),
		CO2ValueEURYear:   round2(eco.CO2CaptureKgYear / 1000 * f.CO2ValuePerTonne),
		PMValueEURYear:    round2(eco.PMFilteredKgYear * f.PMValuePerKg),
	}
	s.TotalAnnualBenefitEUR = round2(energy.SavingsEURYear +
		s.WaterValueEURYear + s.CO2ValueEURYear + s.PMValueEURYear)
	return s, nil
}

func (c *Calculator) energySavings(areaM2 float64, roofType standards.RoofType) (*Energy, error) {
	t := c.tables.Energy
	reduction, err := t.Reduction(roofType)
	if err != nil {
		return nil, err
	}

	e := &Energy{
		HeatingSavedKWhYear: round2(areaM2 * t.HeatingBaseKWhM2Year * reduction.Heating),
		CoolingSavedKWhYear: round2(areaM2 * t.CoolingBaseKWhM2Year * reduction.Cooling),
	}
	e.TotalSavedKWhYear = round2(e.HeatingSavedKWhYear + e.CoolingSavedKWhYear)
	e.SavingsEURYear = round2(e.TotalSavedKWhYear * t.ElectricityEURPerKWh)
	return e, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
