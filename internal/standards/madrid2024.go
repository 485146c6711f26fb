package standards

// Madrid2024 returns the Madrid regulatory tables for the 2024 cycle:
// PECV green-factor coefficients, market prices, MITECO ecosystem
// coefficients and IDAE energy formulas.
func Madrid2024() *Tables {
	return &Tables{
		GreenFactor: GreenFactorTables{
			Ct: map[RoofType]float64{
				RoofExtensive:     0.75,
				RoofSemiIntensive: 0.85,
				RoofIntensive:     1.00,
			},
			Co: map[Orientation]float64{
				OrientationS:  1.00,
				OrientationSE: 0.95,
				OrientationSW: 0.95,
				OrientationE:  0.85,
				OrientationW:  0.85,
				OrientationNE: 0.75,
				OrientationNW: 0.75,
				OrientationN:  0.70,
			},
			Ci: map[InfrastructureType]float64{
				InfraIntensiveRoof:  1.00,
				InfraTreeCover:      0.80,
				InfraShrubs:         0.70,
				InfraExtensiveRoof:  0.60,
				InfraGroundcover:    0.50,
				InfraMeadow:         0.50,
				InfraVerticalGarden: 0.40,
			},
			MinFactorExtensive: 0.6,
			MinFactorIntensive: 0.8,
			MinAreaM2:          50,
			MaxSlopeDeg:        30,
			MinNativePct:       60,
		},
		Costs: CostTable{
			SubstratePerM2:       45.0,
			DrainagePerM2:        25.0,
			MembranePerM2:        15.0,
			AntiRootPerM2:        8.0,
			GeotextilePerM2:      5.0,
			InstallationPerM2:    20.0,
			MaintenancePerM2Year: 8.0,
			DripIrrigationPerM2:  15.0,
			IrrigationController: 250.0,
			HumiditySensorUnit:   80.0,
			SensorCoverageAreaM2: 100.0,
			StructuralReinfPerM2: 50.0,
			AntiSlipPerM2:        10.0,
			GreenRoofLifespanYrs: 25,
		},
		Benefits: BenefitFactors{
			CO2CapturePerM2Year:  5.0,
			CO2IntensiveFactor:   1.3,
			AnnualPrecipMM:       400,
			RetentionFraction:    0.60,
			WaterIntensiveFactor: 1.2,
			TempReductionC:       1.5,
			TempIntensiveFactor:  1.2,
			PMFilteredPerM2Year:  0.15,
			WaterValuePerLiter:   0.002,
			CO2ValuePerTonne:     80,
			PMValuePerKg:         50,
		},
		Energy: EnergyTable{
			HeatingBaseKWhM2Year: 50,
			CoolingBaseKWhM2Year: 30,
			Reductions: map[RoofType]EnergyReduction{
				RoofExtensive:     {Heating: 0.15, Cooling: 0.35},
				RoofSemiIntensive: {Heating: 0.22, Cooling: 0.42},
				RoofIntensive:     {Heating: 0.30, Cooling: 0.50},
			},
			ElectricityEURPerKWh: 0.25,
		},
	}
}
