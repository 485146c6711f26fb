package financial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_StandardInvestment(t *testing.T) {
	a := NewAnalyzer(AnalyzerConfig{})

	m := a.Compute(10000, 1288)

	assert.InDelta(t, 12.88, m.ROIPct, 0.001)
	assert.InDelta(t, 7.76, m.PaybackYears, 0.01)
	assert.Equal(t, 25, m.HorizonYears)

	// Annuity factor at 3% over 25 years is ~17.413.
	assert.InDelta(t, -10000+1288*17.413, m.NPVEUR, 5)
	assert.Greater(t, m.NPVEUR, 0.0)
}

func TestCompute_NonPositiveBenefitUsesSentinel(t *testing.T) {
	a := NewAnalyzer(AnalyzerConfig{})

	m := a.Compute(5000, 0)
	assert.InDelta(t, PaybackNever, m.PaybackYears, 0.001)
	assert.InDelta(t, -5000, m.NPVEUR, 0.01)

	m = a.Compute(5000, -100)
	assert.InDelta(t, PaybackNever, m.PaybackYears, 0.001)
	assert.Less(t, m.ROIPct, 0.0)
}

func TestCompute_FullySubsidized(t *testing.T) {
	a := NewAnalyzer(AnalyzerConfig{})

	m := a.Compute(0, 900)
	assert.Zero(t, m.PaybackYears)
	assert.Greater(t, m.NPVEUR, 0.0)
}

func TestTimeline_CumulativeAndComplete(t *testing.T) {
	a := NewAnalyzer(AnalyzerConfig{HorizonYears: 25})

	points := a.Timeline(1000, 500, 24000)
	require.Len(t, points, 25)

	assert.Equal(t, 1, points[0].Year)
	assert.InDelta(t, 1000, points[0].CumulativeBenefitEUR, 0.001)
	assert.InDelta(t, 25000, points[24].CumulativeBenefitEUR, 0.001)
	assert.InDelta(t, 12500, points[24].CumulativeCO2Kg, 0.001)

	for i := 1; i < len(points); i++ {
		assert.Greater(t, points[i].CumulativeBenefitEUR, points[i-1].CumulativeBenefitEUR)
		assert.Equal(t, points[i-1].Year+1, points[i].Year)
	}
}

func TestNewAnalyzer_CustomHorizon(t *testing.T) {
	a := NewAnalyzer(AnalyzerConfig{HorizonYears: 10, DiscountRate: 0.05})

	m := a.Compute(1000, 200)
	assert.Equal(t, 10, m.HorizonYears)

	points := a.Timeline(200, 0, 0)
	assert.Len(t, points, 10)
}
