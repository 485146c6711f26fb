// Package retrospective compares the current state of a sealed urban
// surface (the baseline) against a projected green roof conversion:
// running costs avoided, environmental deltas, investment metrics and
// a 25-year cumulative timeline.
package retrospective

import (
	"fmt"
	"math"

	"github.com/verdialabs/verdia/internal/benefits"
	"github.com/verdialabs/verdia/internal/financial"
	"github.com/verdialabs/verdia/internal/standards"
)

// SurfaceType classifies the existing sealed surface.
type SurfaceType string

const (
	SurfaceAsphalt  SurfaceType = "asfalto"
	SurfaceConcrete SurfaceType = "hormigon"
	SurfaceGravel   SurfaceType = "grava"
	SurfaceMixed    SurfaceType = "mixto"
)

var heatIslandIndex = map[SurfaceType]int{
	SurfaceAsphalt:  8,
	SurfaceConcrete: 7,
	SurfaceGravel:   6,
	SurfaceMixed:    7,
}

// Baseline operational cost defaults per m² and year.
const (
	baselineACPerM2          = 15.0
	baselineHeatingPerM2     = 12.0
	baselineWaterPerM2       = 2.0
	baselineMaintenancePerM2 = 5.0
	defaultSummerTempC       = 34.0
)

// Installed cost per m² by roof profile (midpoints of market ranges).
var installedCostPerM2 = map[standards.RoofType]float64{
	standards.RoofExtensive:     115,
	standards.RoofSemiIntensive: 175,
	standards.RoofIntensive:     200,
}

const retrofitSubsidyPct = 0.45

// Request describes the surface to convert.
type Request struct {
	SurfaceType  SurfaceType        `json:"surface_type"`
	AreaM2       float64            `json:"area_m2"`
	GreenAreaM2  float64            `json:"green_area_m2,omitempty"`
	RoofType     standards.RoofType `json:"roof_type"`
	HorizonYears int                `json:"horizon_years,omitempty"`
	SummerTempC  float64            `json:"summer_temp_c,omitempty"`
}

// Baseline is the current state of the sealed surface.
type Baseline struct {
	SurfaceType        SurfaceType `json:"surface_type"`
	AreaM2             float64     `json:"area_m2"`
	SummerTempC        float64     `json:"summer_temp_c"`
	HeatIslandIndex    int         `json:"heat_island_index"`
	RunoffPct          float64     `json:"runoff_pct"`
	CO2CaptureKgYear   float64     `json:"co2_capture_kg_year"`
	ACCostEURYear      float64     `json:"ac_cost_eur_year"`
	HeatingCostEURYear float64     `json:"heating_cost_eur_year"`
	WaterCostEURYear   float64     `json:"water_cost_eur_year"`
	MaintCostEURYear   float64     `json:"maintenance_cost_eur_year"`
	TotalCostEURYear   float64     `json:"total_cost_eur_year"`
}

// Projection is the future state with the green roof installed.
type Projection struct {
	RoofType    standards.RoofType `json:"roof_type"`
	GreenAreaM2 float64            `json:"green_area_m2"`

	TempReductionC      float64 `json:"temp_reduction_c"`
	CO2CaptureKgYear    float64 `json:"co2_capture_kg_year"`
	WaterRetainedM3Year float64 `json:"water_retained_m3_year"`
	NoiseReductionDB    float64 `json:"noise_reduction_db"`
	BiodiversityGainPct float64 `json:"biodiversity_gain_pct"`

	ACSavingsEURYear      float64 `json:"ac_savings_eur_year"`
	HeatingSavingsEURYear float64 `json:"heating_savings_eur_year"`
	WaterValueEURYear     float64 `json:"water_value_eur_year"`
	TotalSavingsEURYear   float64 `json:"total_savings_eur_year"`

	InitialCostEUR       float64 `json:"initial_cost_eur"`
	AnnualMaintenanceEUR float64 `json:"annual_maintenance_eur"`
	SubsidyEUR           float64 `json:"subsidy_eur"`
	NetCostEUR           float64 `json:"net_cost_eur"`
}

// Comparison holds before/after deltas. Negative cost delta means net
// savings.
type Comparison struct {
	DeltaTempC           float64 `json:"delta_temp_c"`
	DeltaCO2KgYear       float64 `json:"delta_co2_kg_year"`
	DeltaWaterM3Year     float64 `json:"delta_water_m3_year"`
	DeltaCostsEURYear    float64 `json:"delta_costs_eur_year"`
	DeltaBiodiversityPct float64 `json:"delta_biodiversity_pct"`
}

// EcosystemValue is the monetized ecosystem services projection.
type EcosystemValue struct {
	CO2ValueEURYear    float64 `json:"co2_value_eur_year"`
	WaterValueEURYear  float64 `json:"water_value_eur_year"`
	AirValueEURYear    float64 `json:"air_value_eur_year"`
	TotalAnnualEUR     float64 `json:"total_annual_eur"`
	TotalHorizonEUR    float64 `json:"valor_ecosistemico_total_eur"`
	QualityOfLifeIndex int     `json:"quality_of_life_index"`
}

// YearPoint is one year of the cumulative projection.
type YearPoint struct {
	Year                 int     `json:"year"`
	CumulativeBenefitEUR float64 `json:"cumulative_benefit_eur"`
	CumulativeCO2Kg      float64 `json:"cumulative_co2_kg"`
	CumulativeWaterM3    float64 `json:"cumulative_water_m3"`
}

// Report is the full retrospective comparison.
type Report struct {
	Baseline   Baseline           `json:"baseline"`
	Projection Projection         `json:"projection"`
	Comparison Comparison         `json:"comparison"`
	Financial  *financial.Metrics `json:"financial"`
	Timeline   []YearPoint        `json:"timeline"`
	Ecosystem  EcosystemValue     `json:"ecosystem_value"`
}

// Analyzer builds retrospective reports.
type Analyzer struct {
	tables   *standards.Tables
	benefits *benefits.Calculator
}

// NewAnalyzer creates a retrospective analyzer over the given tables.
func NewAnalyzer(tables *standards.Tables) *Analyzer {
	if tables == nil {
		tables = standards.Madrid2024()
	}
	return &Analyzer{
		tables:   tables,
		benefits: benefits.NewCalculator(tables),
	}
}

// Analyze compares the baseline surface with its green conversion.
func (a *Analyzer) Analyze(req Request) (*Report, error) {
	if req.AreaM2 <= 0 {
		return nil, fmt.Errorf("area must be positive, got %.2f", req.AreaM2)
	}
	if req.RoofType == "" {
		req.RoofType = standards.RoofExtensive
	}
	if req.HorizonYears <= 0 {
		req.HorizonYears = financial.DefaultHorizonYears
	}
	if req.SummerTempC == 0 {
		req.SummerTempC = defaultSummerTempC
	}
	greenArea := req.GreenAreaM2
	if greenArea <= 0 || greenArea > req.AreaM2 {
		greenArea = req.AreaM2
	}

	baseline := a.baseline(req)
	projection, summary, err := a.projection(req.RoofType, greenArea)
	if err != nil {
		return nil, err
	}

	comparison := Comparison{
		DeltaTempC:           -projection.TempReductionC,
		DeltaCO2KgYear:       round2(projection.CO2CaptureKgYear - baseline.CO2CaptureKgYear),
		DeltaWaterM3Year:     projection.WaterRetainedM3Year,
		DeltaCostsEURYear:    round2(-(projection.TotalSavingsEURYear - projection.AnnualMaintenanceEUR)),
		DeltaBiodiversityPct: projection.BiodiversityGainPct,
	}

	netBenefit := projection.TotalSavingsEURYear - projection.AnnualMaintenanceEUR
	fin := financial.NewAnalyzer(financial.AnalyzerConfig{HorizonYears: req.HorizonYears}).
		Compute(projection.NetCostEUR, netBenefit)

	timeline := make([]YearPoint, 0, req.HorizonYears)
	for year := 1; year <= req.HorizonYears; year++ {
		timeline = append(timeline, YearPoint{
			Year:                 year,
			CumulativeBenefitEUR: round2(netBenefit * float64(year)),
			CumulativeCO2Kg:      round2(projection.CO2CaptureKgYear * float64(year)),
			CumulativeWaterM3:    round2(projection.WaterRetainedM3Year * float64(year)),
		})
	}

	return &Report{
		Baseline:   baseline,
		Projection: projection,
		Comparison: comparison,
		Financial:  fin,
		Timeline:   timeline,
		Ecosystem:  a.ecosystemValue(projection, summary, greenArea, req.HorizonYears),
	}, nil
}

func (a *Analyzer) baseline(req Request) Baseline {
	idx, ok := heatIslandIndex[req.SurfaceType]
	if !ok {
		idx = heatIslandIndex[SurfaceMixed]
	}

	b := Baseline{
		SurfaceType:        req.SurfaceType,
		AreaM2:             req.AreaM2,
		SummerTempC:        req.SummerTempC,
		HeatIslandIndex:    idx,
		RunoffPct:          100,
		ACCostEURYear:      round2(req.AreaM2 * baselineACPerM2),
		HeatingCostEURYear: round2(req.AreaM2 * baselineHeatingPerM2),
		WaterCostEURYear:   round2(req.AreaM2 * baselineWaterPerM2),
		MaintCostEURYear:   round2(req.AreaM2 * baselineMaintenancePerM2),
	}
	b.TotalCostEURYear = round2(b.ACCostEURYear + b.HeatingCostEURYear + b.WaterCostEURYear + b.MaintCostEURYear)
	return b
}

func (a *Analyzer) projection(roofType standards.RoofType, greenAreaM2 float64) (Projection, *benefits.Summary, error) {
	summary, err := a.benefits.Compute(greenAreaM2, roofType)
	if err != nil {
		return Projection{}, nil, err
	}

	price := a.tables.Energy.ElectricityEURPerKWh
	initial := greenAreaM2 * installedCostPerM2[roofType]
	maintenancePct := 0.03
	if roofType == standards.RoofIntensive {
		maintenancePct = 0.05
	}
	biodiversityGain := 20.0
	if roofType == standards.RoofIntensive {
		biodiversityGain = 30
	}

	p := Projection{
		RoofType:    roofType,
		GreenAreaM2: greenAreaM2,

		TempReductionC:      summary.Ecosystem.TempReductionC,
		CO2CaptureKgYear:    summary.Ecosystem.CO2CaptureKgYear,
		WaterRetainedM3Year: round2(summary.Ecosystem.WaterRetainedLYear / 1000),
		NoiseReductionDB:    round2(5 + greenAreaM2/100),
		BiodiversityGainPct: biodiversityGain,

		ACSavingsEURYear:      round2(summary.Energy.CoolingSavedKWhYear * price),
		HeatingSavingsEURYear: round2(summary.Energy.HeatingSavedKWhYear * price),
		WaterValueEURYear:     summary.WaterValueEURYear,

		InitialCostEUR:       round2(initial),
		AnnualMaintenanceEUR: round2(initial * maintenancePct),
		SubsidyEUR:           round2(initial * retrofitSubsidyPct),
	}
	p.TotalSavingsEURYear = round2(p.ACSavingsEURYear + p.HeatingSavingsEURYear + p.WaterValueEURYear)
	p.NetCostEUR = round2(p.InitialCostEUR - p.SubsidyEUR)
	return p, summary, nil
}

func (a *Analyzer) ecosystemValue(p Projection, summary *benefits.Summary, greenAreaM2 float64, horizonYears int) EcosystemValue {
	v := EcosystemValue{
		CO2ValueEURYear:   summary.CO2ValueEURYear,
		WaterValueEURYear: summary.WaterValueEURYear,
		AirValueEURYear:   summary.PMValueEURYear,
	}
	v.TotalAnnualEUR = round2(v.CO2ValueEURYear + v.WaterValueEURYear + v.AirValueEURYear)
	v.TotalHorizonEUR = round2(v.TotalAnnualEUR * float64(horizonYears))

	tempFactor := math.Min(p.TempReductionC/2, 1)
	areaFactor := math.Min(greenAreaM2/500, 1)
	bioFactor := p.BiodiversityGainPct / 100

	idx := int((tempFactor + areaFactor + bioFactor) / 3 * 10)
	v.QualityOfLifeIndex = max(1, min(10, idx))
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
