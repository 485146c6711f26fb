package retrospective

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdialabs/verdia/internal/financial"
	"github.com/verdialabs/verdia/internal/standards"
)

func TestAnalyze_AsphaltToExtensiveRoof(t *testing.T) {
	a := NewAnalyzer(standards.Madrid2024())

	report, err := a.Analyze(Request{
		SurfaceType: SurfaceAsphalt,
		AreaM2:      500,
		RoofType:    standards.RoofExtensive,
	})
	require.NoError(t, err)

	b := report.Baseline
	assert.Equal(t, SurfaceAsphalt, b.SurfaceType)
	assert.Equal(t, 8, b.HeatIslandIndex)
	assert.InDelta(t, 34.0, b.SummerTempC, 0.001)
	assert.InDelta(t, 100, b.RunoffPct, 0.001)
	assert.InDelta(t, 7500, b.ACCostEURYear, 0.01)
	assert.InDelta(t, 6000, b.HeatingCostEURYear, 0.01)
	assert.InDelta(t, 1000, b.WaterCostEURYear, 0.01)
	assert.InDelta(t, 2500, b.MaintCostEURYear, 0.01)
	assert.InDelta(t, 17000, b.TotalCostEURYear, 0.01)
	assert.Zero(t, b.CO2CaptureKgYear)

	p := report.Projection
	assert.InDelta(t, 500, p.GreenAreaM2, 0.001)
	assert.InDelta(t, 2500, p.CO2CaptureKgYear, 0.01)
	assert.InDelta(t, 120, p.WaterRetainedM3Year, 0.01)
	assert.InDelta(t, 1.5, p.TempReductionC, 0.001)
	assert.InDelta(t, 10, p.NoiseReductionDB, 0.01)
	assert.InDelta(t, 20, p.BiodiversityGainPct, 0.001)
	assert.InDelta(t, 1312.50, p.ACSavingsEURYear, 0.01)
	assert.InDelta(t, 937.50, p.HeatingSavingsEURYear, 0.01)
	assert.InDelta(t, 240, p.WaterValueEURYear, 0.01)
	assert.InDelta(t, 2490, p.TotalSavingsEURYear, 0.01)
	assert.InDelta(t, 57500, p.InitialCostEUR, 0.01)
	assert.InDelta(t, 1725, p.AnnualMaintenanceEUR, 0.01)
	assert.InDelta(t, 25875, p.SubsidyEUR, 0.01)
	assert.InDelta(t, 31625, p.NetCostEUR, 0.01)

	c := report.Comparison
	assert.InDelta(t, -1.5, c.DeltaTempC, 0.001)
	assert.InDelta(t, 2500, c.DeltaCO2KgYear, 0.01)
	assert.InDelta(t, 120, c.DeltaWaterM3Year, 0.01)
	assert.InDelta(t, -765, c.DeltaCostsEURYear, 0.01)
	assert.InDelta(t, 20, c.DeltaBiodiversityPct, 0.001)

	require.NotNil(t, report.Financial)
	assert.Greater(t, report.Financial.ROIPct, 0.0)
	assert.InDelta(t, 2.42, report.Financial.ROIPct, 0.01)
	assert.InDelta(t, 41.34, report.Financial.PaybackYears, 0.01)
	assert.Equal(t, 25, report.Financial.HorizonYears)

	require.Len(t, report.Timeline, 25)
	last := report.Timeline[24]
	assert.Equal(t, 25, last.Year)
	// CO2 accumulates linearly, never compounds.
	assert.Equal(t, p.CO2CaptureKgYear*25, last.CumulativeCO2Kg)
	assert.InDelta(t, 3000, last.CumulativeWaterM3, 0.01)
	assert.InDelta(t, 765*25, last.CumulativeBenefitEUR, 0.01)

	e := report.Ecosystem
	assert.InDelta(t, 200, e.CO2ValueEURYear, 0.01)
	assert.InDelta(t, 240, e.WaterValueEURYear, 0.01)
	assert.InDelta(t, 3750, e.AirValueEURYear, 0.01)
	assert.InDelta(t, 4190, e.TotalAnnualEUR, 0.01)
	assert.InDelta(t, 104750, e.TotalHorizonEUR, 0.01)
	assert.Greater(t, e.TotalHorizonEUR, 0.0)
	assert.Equal(t, 6, e.QualityOfLifeIndex)
}

func TestAnalyze_IntensivePartialConversion(t *testing.T) {
	a := NewAnalyzer(nil)

	report, err := a.Analyze(Request{
		SurfaceType:  SurfaceMixed,
		AreaM2:       300,
		GreenAreaM2:  200,
		RoofType:     standards.RoofIntensive,
		HorizonYears: 10,
	})
	require.NoError(t, err)

	p := report.Projection
	assert.InDelta(t, 200, p.GreenAreaM2, 0.001)
	assert.InDelta(t, 1300, p.CO2CaptureKgYear, 0.01)
	assert.InDelta(t, 57.6, p.WaterRetainedM3Year, 0.01)
	assert.InDelta(t, 1.8, p.TempReductionC, 0.001)
	assert.InDelta(t, 30, p.BiodiversityGainPct, 0.001)
	assert.InDelta(t, 40000, p.InitialCostEUR, 0.01)
	assert.InDelta(t, 2000, p.AnnualMaintenanceEUR, 0.01)
	assert.InDelta(t, 22000, p.NetCostEUR, 0.01)

	// Maintenance exceeds the annual savings here, so the investment
	// never pays back on the operational side alone.
	assert.InDelta(t, 750, p.ACSavingsEURYear, 0.01)
	assert.InDelta(t, 750, p.HeatingSavingsEURYear, 0.01)
	assert.InDelta(t, 115.20, p.WaterValueEURYear, 0.01)
	assert.InEpsilon(t, float64(financial.PaybackNever), report.Financial.PaybackYears, 0.001)
	assert.Less(t, report.Financial.ROIPct, 0.0)

	assert.Len(t, report.Timeline, 10)
	assert.Equal(t, 10, report.Financial.HorizonYears)
	assert.Equal(t, p.CO2CaptureKgYear*10, report.Timeline[9].CumulativeCO2Kg)
}

func TestAnalyze_Defaults(t *testing.T) {
	a := NewAnalyzer(nil)

	report, err := a.Analyze(Request{
		SurfaceType: SurfaceType("adoquin"),
		AreaM2:      120,
		GreenAreaM2: 500, // larger than the lot, clamped
	})
	require.NoError(t, err)

	assert.Equal(t, 7, report.Baseline.HeatIslandIndex)
	assert.InDelta(t, 34.0, report.Baseline.SummerTempC, 0.001)
	assert.Equal(t, standards.RoofExtensive, report.Projection.RoofType)
	assert.InDelta(t, 120, report.Projection.GreenAreaM2, 0.001)
	assert.Len(t, report.Timeline, 25)
}

func TestAnalyze_QualityOfLifeIndexBounds(t *testing.T) {
	a := NewAnalyzer(nil)

	small, err := a.Analyze(Request{SurfaceType: SurfaceGravel, AreaM2: 10})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, small.Ecosystem.QualityOfLifeIndex, 1)
	assert.LessOrEqual(t, small.Ecosystem.QualityOfLifeIndex, 10)

	large, err := a.Analyze(Request{
		SurfaceType: SurfaceAsphalt,
		AreaM2:      2000,
		RoofType:    standards.RoofIntensive,
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, large.Ecosystem.QualityOfLifeIndex, small.Ecosystem.QualityOfLifeIndex)
	assert.LessOrEqual(t, large.Ecosystem.QualityOfLifeIndex, 10)
}

func TestAnalyze_InvalidInput(t *testing.T) {
	a := NewAnalyzer(nil)

	_, err := a.Analyze(Request{SurfaceType: SurfaceAsphalt, AreaM2: 0})
	require.Error(t, err)

	_, err = a.Analyze(Request{
		SurfaceType: SurfaceAsphalt,
		AreaM2:      100,
		RoofType:    standards.RoofType("ajardinada"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, standards.ErrUnknownCoefficient)
}
