package specialization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdialabs/verdia/internal/budget"
	"github.com/verdialabs/verdia/internal/standards"
)

func TestEvaluateVerticalGarden_ConcreteWallExterior(t *testing.T) {
	e := NewEvaluator(EvaluatorConfig{})

	res, err := e.Evaluate(Request{
		Type:     TypeVerticalGarden,
		Snapshot: BaseSnapshot{AreaM2: 20, PerimeterM: 18, Budget: budget.Breakdown{TotalInitialEUR: 2500}},
		Params: Params{
			WallType:       "hormigon",
			WallHeightM:    3,
			Location:       "exterior",
			BudgetPriority: "bajo",
		},
	})
	require.NoError(t, err)

	detail, ok := res.Detail.(VerticalGardenDetail)
	require.True(t, ok)

	assert.Equal(t, ViabilityAlta, detail.Wall.StructuralViability)
	assert.False(t, detail.Wall.ReinforcementNeeded)
	assert.False(t, detail.Wall.EngineeringStudyNeeded) // 20 m² is the threshold, not above it
	assert.Equal(t, ViabilityAlta, res.RegulatoryViability)

	// Cheap trellis system wins the low-budget exterior profile.
	assert.Equal(t, "celosia_trepadora", detail.SelectedSystem.Name)
	assert.Equal(t, 30, detail.Anchors)
	assert.Equal(t, "goteo", detail.Irrigation.SystemType)
	assert.True(t, detail.Irrigation.PumpNeeded)

	_, hasAccess := res.amountFor("acceso_mantenimiento")
	assert.True(t, hasAccess) // 20 m² > 15
}

func TestEvaluateVerticalGarden_LightPartitionNotViable(t *testing.T) {
	e := NewEvaluator(EvaluatorConfig{})

	res, err := e.Evaluate(Request{
		Type:     TypeVerticalGarden,
		Snapshot: BaseSnapshot{AreaM2: 12, PerimeterM: 14, Budget: budget.Breakdown{TotalInitialEUR: 1500}},
		Params:   Params{WallType: "tabique_ligero", WallHeightM: 2.8},
	})
	require.NoError(t, err)

	detail := res.Detail.(VerticalGardenDetail)
	assert.True(t, detail.Wall.ReinforcementNeeded)
	assert.True(t, detail.Wall.EngineeringStudyNeeded)

	// No system fits a 40 kg/m² wall once the anchor reserve is held back.
	assert.Equal(t, ViabilityNula, res.TechnicalViability)
	assert.Equal(t, ViabilityNula, res.FinalViability)
	assert.NotEmpty(t, res.Warnings)
}

func TestEvaluateVerticalGarden_UnknownWallType(t *testing.T) {
	e := NewEvaluator(EvaluatorConfig{})

	_, err := e.Evaluate(Request{
		Type:     TypeVerticalGarden,
		Snapshot: BaseSnapshot{AreaM2: 10},
		Params:   Params{WallType: "adobe"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, standards.ErrUnknownCoefficient)
}

func TestEvaluateAbandonedLot_IndustrialHighRisk(t *testing.T) {
	e := NewEvaluator(EvaluatorConfig{})

	res, err := e.Evaluate(Request{
		Type:     TypeAbandonedLot,
		Snapshot: BaseSnapshot{AreaM2: 2000, PerimeterM: 180, Budget: budget.Breakdown{TotalInitialEUR: 60000}},
		Params:   Params{ZoneHistory: ZoneIndustrial, YearsAbandoned: 20},
	})
	require.NoError(t, err)

	detail, ok := res.Detail.(AbandonedLotDetail)
	require.True(t, ok)

	assert.InDelta(t, 0.78, detail.ContaminationRisk, 0.001)
	assert.Equal(t, "alto", detail.RiskLevel)
	assert.True(t, detail.FullStudyNeeded)
	require.Len(t, detail.ProbableContaminants, 3) // asbestos stays below the threshold
	assert.InDelta(t, 50, detail.Remediation.ExcavationDepthCM, 0.001)

	assert.Equal(t, ViabilityMedia, res.TechnicalViability)
	assert.Equal(t, ViabilityBaja, res.RegulatoryViability)
	assert.NotEmpty(t, res.Warnings)
}

func TestEvaluateAbandonedLot_NaturalLowRisk(t *testing.T) {
	e := NewEvaluator(EvaluatorConfig{})

	res, err := e.Evaluate(Request{
		Type:     TypeAbandonedLot,
		Snapshot: BaseSnapshot{AreaM2: 400, PerimeterM: 82, Budget: budget.Breakdown{TotalInitialEUR: 9000, SubsidyPct: 50}},
		Params:   Params{ZoneHistory: ZoneNatural, YearsAbandoned: 3},
	})
	require.NoError(t, err)

	detail := res.Detail.(AbandonedLotDetail)
	assert.Equal(t, "bajo", detail.RiskLevel)
	assert.False(t, detail.FullStudyNeeded)
	assert.Empty(t, detail.ProbableContaminants)
	assert.Zero(t, detail.Remediation.ExcavationDepthCM)

	assert.Equal(t, ViabilityAlta, res.TechnicalViability)
	assert.Equal(t, ViabilityAlta, res.RegulatoryViability)
}

func TestEvaluateVacantLot_SlopeDeterministicAndBudgetComplete(t *testing.T) {
	e := NewEvaluator(EvaluatorConfig{})
	req := Request{
		Type:     TypeVacantLot,
		Snapshot: BaseSnapshot{AreaM2: 800, PerimeterM: 115, Budget: budget.Breakdown{TotalInitialEUR: 30000}},
		Params:   Params{UrbanEnvironment: true},
	}

	res, err := e.Evaluate(req)
	require.NoError(t, err)
	again, err := e.Evaluate(req)
	require.NoError(t, err)

	detail := res.Detail.(VacantLotDetail)
	assert.Equal(t, detail.Slope, again.Detail.(VacantLotDetail).Slope)
	assert.GreaterOrEqual(t, detail.Slope.SlopePct, 0.5)
	assert.LessOrEqual(t, detail.Slope.SlopePct, 12.0)

	_, hasStudies := res.amountFor("estudios_previos")
	assert.True(t, hasStudies)
	_, hasFencing := res.amountFor("vallado_accesos")
	assert.True(t, hasFencing)
	_, hasUtilities := res.amountFor("infraestructura_basica")
	assert.True(t, hasUtilities)

	// 800 m² gets power and drainage alongside water supply.
	assert.Contains(t, detail.Utilities, "agua")
	assert.Contains(t, detail.Utilities, "electricidad")
	assert.Contains(t, detail.Utilities, "drenaje")
	assert.True(t, detail.VehicleGate)

	assert.Equal(t, ViabilityAlta, res.RegulatoryViability)
}

func TestEvaluateDegradedPark_AgeBands(t *testing.T) {
	e := NewEvaluator(EvaluatorConfig{})
	snapshot := BaseSnapshot{AreaM2: 1500, PerimeterM: 160, Budget: budget.Breakdown{TotalInitialEUR: 45000, SubsidyPct: 40}}

	young, err := e.Evaluate(Request{Type: TypeDegradedPark, Snapshot: snapshot, Params: Params{ParkAgeYears: 5}})
	require.NoError(t, err)
	old, err := e.Evaluate(Request{Type: TypeDegradedPark, Snapshot: snapshot, Params: Params{ParkAgeYears: 35}})
	require.NoError(t, err)

	youngDetail := young.Detail.(DegradedParkDetail)
	oldDetail := old.Detail.(DegradedParkDetail)

	assert.Equal(t, "leve", youngDetail.Degradation.Level)
	assert.Equal(t, "critico", oldDetail.Degradation.Level)
	assert.Equal(t, ViabilityAlta, young.TechnicalViability)
	assert.Equal(t, ViabilityMedia, old.TechnicalViability)

	assert.False(t, youngDetail.LEDUpgrade)
	assert.True(t, oldDetail.LEDUpgrade)
	assert.False(t, youngDetail.NewIrrigation)
	assert.True(t, oldDetail.NewIrrigation)

	// Heavier degradation costs more to renovate.
	assert.Greater(t, old.AdditionalCostEUR, young.AdditionalCostEUR)

	detailInventory := oldDetail.Inventory
	assert.Equal(t, 7, detailInventory.Benches) // 1500/200
	assert.Equal(t, 15, detailInventory.Trees)  // 1500/100
	assert.InDelta(t, 600, detailInventory.LawnM2, 0.01)
	assert.InDelta(t, 50, detailInventory.PlaygroundM2, 0.01)
	assert.True(t, oldDetail.Accessibility)
}

// amountFor finds a category amount in the additional categories.
func (r *Result) amountFor(name string) (float64, bool) {
	for _, c := range r.AdditionalCategories {
		if c.Name == name {
			return c.AmountEUR, true
		}
	}
	return 0, false
}
