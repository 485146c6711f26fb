// Package species recommends planting palettes for green
// infrastructure sites. The catalog is a curated set of Iberian
// species with agronomic constraints and environmental attributes;
// recommendations are hard-filtered by site constraints and scored
// against a priority profile.
package species

// Level grades an agronomic attribute (cost, maintenance, irrigation).
type Level string

const (
	LevelNulo           Level = "nulo"
	LevelSoloEstablecim Level = "solo_establecimiento"
	LevelMinimo         Level = "minimo"
	LevelMuyBajo        Level = "muy_bajo"
	LevelBajo           Level = "bajo"
	LevelMedio          Level = "medio"
	LevelAlto           Level = "alto"
	LevelMuyAlta        Level = "muy_alta"
	LevelAlta           Level = "alta"
	LevelMedia          Level = "media"
	LevelBaja           Level = "baja"
)

// SunRequirement is the light regime a species needs.
type SunRequirement string

const (
	SunFull      SunRequirement = "pleno_sol"
	SunPartShade SunRequirement = "media_sombra"
	SunShade     SunRequirement = "sombra"
)

// PlantingContext is a structural context a species can be planted in.
type PlantingContext string

const (
	ContextRoofExtensive  PlantingContext = "tejado_extensivo"
	ContextRoofIntensive  PlantingContext = "tejado_intensivo"
	ContextVerticalGarden PlantingContext = "jardin_vertical"
	ContextGround         PlantingContext = "suelo"
)

// Species describes one catalog entry.
type Species struct {
	CommonName     string `json:"common_name"`
	ScientificName string `json:"scientific_name"`
	Native         bool   `json:"native_iberia"`

	EconomyLevel   Level             `json:"economy_level"`
	Maintenance    Level             `json:"maintenance"`
	Irrigation     Level             `json:"irrigation"`
	SunRequirement SunRequirement    `json:"sun_requirement"`
	ValidContexts  []PlantingContext `json:"valid_contexts"`
	MinDepthCM     float64           `json:"min_substrate_depth_cm"`
	MaxWeightKgM2  float64           `json:"max_weight_kg_m2"`

	Edible       bool `json:"edible"`
	Aromatic     bool `json:"aromatic"`
	Melliferous  bool `json:"melliferous"`
	NeedsSupport bool `json:"needs_support"`

	BiodiversityScore int     `json:"biodiversity_score"`
	CO2KgYear         float64 `json:"co2_kg_year"`
	WaterRetentionPct float64 `json:"water_retention_pct"`

	DensityPerM2 float64 `json:"density_per_m2"`
	UnitCostEUR  float64 `json:"unit_cost_eur"`
}

func (s Species) validFor(ctx PlantingContext) bool {
	for _, c := range s.ValidContexts {
		if c == ctx {
			return true
		}
	}
	return false
}

// DefaultCatalog returns the built-in Iberian species catalog.
func DefaultCatalog() []Species {
	return []Species{
		{
			CommonName: "Sedum blanco", ScientificName: "Sedum album", Native: true,
			EconomyLevel: LevelMuyAlta, Maintenance: LevelNulo, Irrigation: LevelNulo,
			SunRequirement: SunFull,
			ValidContexts:  []PlantingContext{ContextRoofExtensive, ContextRoofIntensive, ContextVerticalGarden, ContextGround},
			MinDepthCM:     3, MaxWeightKgM2: 5,
			Melliferous:       true,
			BiodiversityScore: 7, CO2KgYear: 0.5, WaterRetentionPct: 40,
			DensityPerM2: 25, UnitCostEUR: 2.50,
		},
		{
			CommonName: "Tomillo", ScientificName: "Thymus vulgaris", Native: true,
			EconomyLevel: LevelMuyAlta, Maintenance: LevelMuyBajo, Irrigation: LevelMinimo,
			SunRequirement: SunFull,
			ValidContexts:  []PlantingContext{ContextRoofExtensive, ContextRoofIntensive, ContextGround},
			MinDepthCM:     10, MaxWeightKgM2: 12,
			Edible: true, Aromatic: true, Melliferous: true,
			BiodiversityScore: 9, CO2KgYear: 0.8, WaterRetentionPct: 30,
			DensityPerM2: 16, UnitCostEUR: 3.50,
		},
		{
			CommonName: "Siempreviva", ScientificName: "Sempervivum tectorum", Native: true,
			EconomyLevel: LevelMuyAlta, Maintenance: LevelNulo, Irrigation: LevelNulo,
			SunRequirement: SunFull,
			ValidContexts:  []PlantingContext{ContextRoofExtensive, ContextRoofIntensive, ContextVerticalGarden},
			MinDepthCM:     5, MaxWeightKgM2: 8,
			BiodiversityScore: 6, CO2KgYear: 0.4, WaterRetentionPct: 35,
			DensityPerM2: 25, UnitCostEUR: 2.50,
		},
		{
			CommonName: "Romero", ScientificName: "Rosmarinus officinalis", Native: true,
			EconomyLevel: LevelMuyAlta, Maintenance: LevelMuyBajo, Irrigation: LevelNulo,
			SunRequirement: SunFull,
			ValidContexts:  []PlantingContext{ContextRoofIntensive, ContextGround},
			MinDepthCM:     30, MaxWeightKgM2: 35,
			Edible: true, Aromatic: true, Melliferous: true,
			BiodiversityScore: 9, CO2KgYear: 2.5, WaterRetentionPct: 25,
			DensityPerM2: 4, UnitCostEUR: 3.50,
		},
		{
			CommonName: "Lavanda", ScientificName: "Lavandula angustifolia", Native: true,
			EconomyLevel: LevelMuyAlta, Maintenance: LevelMuyBajo, Irrigation: LevelBajo,
			SunRequirement: SunFull,
			ValidContexts:  []PlantingContext{ContextRoofIntensive, ContextGround},
			MinDepthCM:     20, MaxWeightKgM2: 25,
			Aromatic: true, Melliferous: true,
			BiodiversityScore: 8, CO2KgYear: 1.2, WaterRetentionPct: 28,
			DensityPerM2: 9, UnitCostEUR: 3.50,
		},
		{
			CommonName: "Hiedra", ScientificName: "Hedera helix", Native: true,
			EconomyLevel: LevelAlta, Maintenance: LevelBajo, Irrigation: LevelMedio,
			SunRequirement: SunPartShade,
			ValidContexts:  []PlantingContext{ContextVerticalGarden, ContextGround},
			MinDepthCM:     20, MaxWeightKgM2: 22,
			NeedsSupport:      true,
			BiodiversityScore: 6, CO2KgYear: 1.8, WaterRetentionPct: 35,
			DensityPerM2: 4, UnitCostEUR: 3.00,
		},
		{
			CommonName: "Encina", ScientificName: "Quercus ilex", Native: true,
			EconomyLevel: LevelAlta, Maintenance: LevelNulo, Irrigation: LevelSoloEstablecim,
			SunRequirement: SunFull,
			ValidContexts:  []PlantingContext{ContextGround},
			MinDepthCM:     200, MaxWeightKgM2: 500,
			Melliferous:       true,
			BiodiversityScore: 10, CO2KgYear: 800,
			DensityPerM2: 0.01, UnitCostEUR: 85.00,
		},
		{
			CommonName: "Santolina", ScientificName: "Santolina chamaecyparissus", Native: true,
			EconomyLevel: LevelMuyAlta, Maintenance: LevelMuyBajo, Irrigation: LevelBajo,
			SunRequirement: SunFull,
			ValidContexts:  []PlantingContext{ContextRoofExtensive, ContextRoofIntensive, ContextGround},
			MinDepthCM:     15, MaxWeightKgM2: 18,
			Aromatic: true, Melliferous: true,
			BiodiversityScore: 7, CO2KgYear: 1.0, WaterRetentionPct: 32,
			DensityPerM2: 6, UnitCostEUR: 3.50,
		},
		{
			CommonName: "Festuca azul", ScientificName: "Festuca glauca", Native: true,
			EconomyLevel: LevelMuyAlta, Maintenance: LevelMuyBajo, Irrigation: LevelBajo,
			SunRequirement: SunFull,
			ValidContexts:  []PlantingContext{ContextRoofExtensive, ContextRoofIntensive, ContextGround},
			MinDepthCM:     10, MaxWeightKgM2: 15,
			BiodiversityScore: 5, CO2KgYear: 0.7, WaterRetentionPct: 25,
			DensityPerM2: 9, UnitCostEUR: 3.00,
		},
	}
}
