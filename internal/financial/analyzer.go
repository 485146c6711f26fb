// Package financial models the long-run economics of an installation:
// return on investment, payback period, net present value and a
// cumulative benefit timeline. The model assumes constant annual
// benefits over the horizon; escalation and degradation curves are
// out of scope.
package financial

import "math"

// PaybackNever is the sentinel payback value reported when annual
// benefits are zero or negative and the investment never recovers.
const PaybackNever = 999

// DefaultHorizonYears matches the expected lifespan of a green roof.
const DefaultHorizonYears = 25

// DefaultDiscountRate is the social discount rate used for NPV.
const DefaultDiscountRate = 0.03

// Metrics summarizes the investment case.
type Metrics struct {
	ROIPct       float64 `json:"roi_pct"`
	PaybackYears float64 `json:"payback_years"`
	NPVEUR       float64 `json:"npv_eur"`
	HorizonYears int     `json:"horizon_years"`
}

// TimelinePoint is one year of the cumulative projection.
type TimelinePoint struct {
	Year                 int     `json:"year"`
	CumulativeBenefitEUR float64 `json:"cumulative_benefit_eur"`
	CumulativeCO2Kg      float64 `json:"cumulative_co2_kg"`
	CumulativeWaterL     float64 `json:"cumulative_water_l"`
}

// AnalyzerConfig holds configuration for the analyzer.
type AnalyzerConfig struct {
	// HorizonYears defaults to DefaultHorizonYears.
	HorizonYears int
	// DiscountRate defaults to DefaultDiscountRate.
	DiscountRate float64
}

// Analyzer computes financial metrics and timelines.
type Analyzer struct {
	horizon      int
	discountRate float64
}

// NewAnalyzer creates an analyzer, applying defaults for zero-value
// config fields.
func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	if cfg.HorizonYears == 0 {
		cfg.HorizonYears = DefaultHorizonYears
	}
	if cfg.DiscountRate == 0 {
		cfg.DiscountRate = DefaultDiscountRate
	}
	return &Analyzer{horizon: cfg.HorizonYears, discountRate: cfg.DiscountRate}
}

// Compute returns the investment metrics for a net cost and a constant
// annual benefit. Non-positive benefits yield the PaybackNever
// sentinel; a fully subsidized (zero or negative) net cost yields an
// immediate payback and zero ROI denominator handling.
func (a *Analyzer) Compute(netCostEUR, annualBenefitEUR float64) *Metrics {
	m := &Metrics{HorizonYears: a.horizon}

	switch {
	case netCostEUR <= 0:
		m.PaybackYears = 0
		m.ROIPct = 0
	case annualBenefitEUR <= 0:
		m.PaybackYears = PaybackNever
		m.ROIPct = round2(annualBenefitEUR / netCostEUR * 100)
	default:
		m.PaybackYears = round2(netCostEUR / annualBenefitEUR)
		m.ROIPct = round2(annualBenefitEUR / netCostEUR * 100)
	}

	npv := -netCostEUR
	for year := 1; year <= a.horizon; year++ {
		npv += annualBenefitEUR / math.Pow(1+a.discountRate, float64(year))
	}
	m.NPVEUR = round2(npv)
	return m
}

// Timeline projects cumulative benefit, CO2 capture and water
// retention year by year over the horizon.
func (a *Analyzer) Timeline(annualBenefitEUR, annualCO2Kg, annualWaterL float64) []TimelinePoint {
	points := make([]TimelinePoint, 0, a.horizon)
	for year := 1; year <= a.horizon; year++ {
		points = append(points, TimelinePoint{
			Year:                 year,
			CumulativeBenefitEUR: round2(annualBenefitEUR * float64(year)),
			CumulativeCO2Kg:      round2(annualCO2Kg * float64(year)),
			CumulativeWaterL:     round2(annualWaterL * float64(year)),
		})
	}
	return points
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
