// Package standards holds the immutable regulatory, pricing and
// benefit tables the analysis pipeline is driven by.
//
// Tables are loaded once (Madrid2024 is the packaged default) and
// passed by reference into the pure calculator packages, so tests and
// future regions can substitute alternate tables without touching
// calculator code. Every keyed lookup fails loudly on unknown keys
// rather than defaulting to an arbitrary coefficient.
package standards

import "errors"

// ErrUnknownCoefficient indicates a lookup against a static table with
// a key the table does not carry.
var ErrUnknownCoefficient = errors.New("standards: unknown coefficient key")

// RoofType classifies green-roof build-ups by substrate depth and
// planting intensity.
type RoofType string

const (
	RoofExtensive     RoofType = "extensive"
	RoofSemiIntensive RoofType = "semi_intensive"
	RoofIntensive     RoofType = "intensive"
)

// Orientation is the compass orientation of the dominant facade.
type Orientation string

const (
	OrientationN  Orientation = "N"
	OrientationNE Orientation = "NE"
	OrientationE  Orientation = "E"
	OrientationSE Orientation = "SE"
	OrientationS  Orientation = "S"
	OrientationSW Orientation = "SW"
	OrientationW  Orientation = "W"
	OrientationNW Orientation = "NW"
)

// InfrastructureType names the green infrastructure element being
// scored by the Green Factor formula.
type InfrastructureType string

const (
	InfraExtensiveRoof  InfrastructureType = "extensive_roof"
	InfraIntensiveRoof  InfrastructureType = "intensive_roof"
	InfraVerticalGarden InfrastructureType = "vertical_garden"
	InfraTreeCover      InfrastructureType = "tree_cover"
	InfraGroundcover    InfrastructureType = "groundcover"
	InfraShrubs         InfrastructureType = "shrubs"
	InfraMeadow         InfrastructureType = "meadow"
)

// Tables bundles every static table for one regulatory region.
type Tables struct {
	GreenFactor GreenFactorTables
	Costs       CostTable
	Benefits    BenefitFactors
	Energy      EnergyTable
}

// GreenFactorTables carries the PECV coefficient tables and the
// compliance thresholds they are checked against.
type GreenFactorTables struct {
	Ct map[RoofType]float64
	Co map[Orientation]float64
	Ci map[InfrastructureType]float64

	MinFactorExtensive float64
	MinFactorIntensive float64
	MinAreaM2          float64
	MaxSlopeDeg        float64
	MinNativePct       float64
}

// RoofCoefficient returns Ct for the roof type.
func (t GreenFactorTables) RoofCoefficient(rt RoofType) (float64, error) {
	v, ok := t.Ct[rt]
	if !ok {
		return 0, lookupErr("roof type", string(rt))
	}
	return v, nil
}

// OrientationCoefficient returns Co for the orientation.
func (t GreenFactorTables) OrientationCoefficient(o Orientation) (float64, error) {
	v, ok := t.Co[o]
	if !ok {
		return 0, lookupErr("orientation", string(o))
	}
	return v, nil
}

// InfrastructureCoefficient returns Ci for the infrastructure element.
func (t GreenFactorTables) InfrastructureCoefficient(it InfrastructureType) (float64, error) {
	v, ok := t.Ci[it]
	if !ok {
		return 0, lookupErr("infrastructure type", string(it))
	}
	return v, nil
}

// CostTable carries the per-unit market prices the budget is built
// from. All monetary values are EUR.
type CostTable struct {
	SubstratePerM2       float64
	DrainagePerM2        float64
	MembranePerM2        float64
	AntiRootPerM2        float64
	GeotextilePerM2      float64
	InstallationPerM2    float64
	MaintenancePerM2Year float64
	DripIrrigationPerM2  float64
	IrrigationController float64
	HumiditySensorUnit   float64
	SensorCoverageAreaM2 float64
	StructuralReinfPerM2 float64
	AntiSlipPerM2        float64
	GreenRoofLifespanYrs int
}

// BenefitFactors carries the MITECO ecosystem-service coefficients.
type BenefitFactors struct {
	CO2CapturePerM2Year  float64 // kg
	CO2IntensiveFactor   float64
	AnnualPrecipMM       float64
	RetentionFraction    float64
	WaterIntensiveFactor float64
	TempReductionC       float64
	TempIntensiveFactor  float64
	PMFilteredPerM2Year  float64 // kg
	WaterValuePerLiter   float64 // EUR
	CO2ValuePerTonne     float64 // EUR
	PMValuePerKg         float64 // EUR
}

// EnergyReduction is the fractional heating/cooling demand cut for one
// roof type.
type EnergyReduction struct {
	Heating float64
	Cooling float64
}

// EnergyTable carries the IDAE baseline consumptions and reduction
// fractions.
type EnergyTable struct {
	HeatingBaseKWhM2Year float64
	CoolingBaseKWhM2Year float64
	Reductions           map[RoofType]EnergyReduction
	ElectricityEURPerKWh float64
}

// Reduction returns the demand-cut fractions for the roof type.
func (t EnergyTable) Reduction(rt RoofType) (EnergyReduction, error) {
	r, ok := t.Reductions[rt]
	if !ok {
		return EnergyReduction{}, lookupErr("roof type", string(rt))
	}
	return r, nil
}
