package species

import (
	"math"
	"sort"
)

// Priority selects the weight profile used to score candidates.
type Priority string

const (
	PriorityEconomia      Priority = "economia"
	PriorityBiodiversidad Priority = "biodiversidad"
	PriorityComestible    Priority = "comestible"
	PriorityEstetica      Priority = "estetica"
)

// SiteType is the structural family of the site being planted.
type SiteType string

const (
	SiteRoof           SiteType = "tejado"
	SiteVerticalGarden SiteType = "jardin_vertical"
	SiteGround         SiteType = "suelo"
)

// Site carries the constraints a candidate species must satisfy.
type Site struct {
	Type               SiteType       `json:"type"`
	UsableAreaM2       float64        `json:"usable_area_m2"`
	SubstrateDepthCM   float64        `json:"substrate_depth_cm"`
	AdmissibleLoadKgM2 float64        `json:"admissible_load_kg_m2"` // 0 means unconstrained
	SunExposure        SunRequirement `json:"sun_exposure"`
}

// Recommendation is one ranked catalog entry sized for the site.
type Recommendation struct {
	Species          Species `json:"species"`
	SuitabilityScore float64 `json:"suitability_score"`
	Quantity         int     `json:"quantity"`
	CostEUR          float64 `json:"cost_eur"`
	Reason           string  `json:"reason"`
}

// priorityWeights maps a scoring component name to its weight. All
// four profiles sum to 1.0.
var priorityWeights = map[Priority]map[string]float64{
	PriorityEconomia: {
		"nivel_economia": 0.40, "mantenimiento": 0.30, "riego": 0.20,
		"biodiversidad": 0.05, "beneficios": 0.05,
	},
	PriorityBiodiversidad: {
		"biodiversidad": 0.40, "melifera": 0.25, "nativa": 0.20,
		"beneficios": 0.10, "nivel_economia": 0.05,
	},
	PriorityComestible: {
		"comestible": 0.40, "aromatica": 0.25, "nativa": 0.15,
		"mantenimiento": 0.10, "nivel_economia": 0.10,
	},
	PriorityEstetica: {
		"biodiversidad": 0.30, "aromatica": 0.25, "melifera": 0.20,
		"beneficios": 0.15, "nivel_economia": 0.10,
	},
}

var economyNorm = map[Level]float64{
	LevelMuyAlta: 1.0, LevelAlta: 0.75, LevelMedia: 0.5, LevelBaja: 0.25,
}

var maintenanceNorm = map[Level]float64{
	LevelNulo: 1.0, LevelMuyBajo: 0.9, LevelBajo: 0.7, LevelMedio: 0.5, LevelAlto: 0.3,
}

var irrigationNorm = map[Level]float64{
	LevelNulo: 1.0, LevelSoloEstablecim: 0.95, LevelMinimo: 0.85,
	LevelBajo: 0.7, LevelMedio: 0.5, LevelAlto: 0.3,
}

// RecommenderConfig holds configuration for the recommender.
type RecommenderConfig struct {
	// Catalog defaults to DefaultCatalog().
	Catalog []Species
	// MaxResults caps the returned palette. Default: 10.
	MaxResults int
	// MinNativePct is the minimum share of native species the final
	// palette must carry. Default: 60.
	MinNativePct float64
}

// Recommender filters and ranks catalog species for a site.
type Recommender struct {
	catalog      []Species
	maxResults   int
	minNativePct float64
}

// NewRecommender creates a recommender, applying defaults for
// zero-value config fields.
func NewRecommender(cfg RecommenderConfig) *Recommender {
	if cfg.Catalog == nil {
		cfg.Catalog = DefaultCatalog()
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = 10
	}
	if cfg.MinNativePct == 0 {
		cfg.MinNativePct = 60
	}
	return &Recommender{
		catalog:      cfg.Catalog,
		maxResults:   cfg.MaxResults,
		minNativePct: cfg.MinNativePct,
	}
}

// Recommend returns the ranked palette for the site. An empty slice is
// a valid outcome: it means no catalog species survives the hard
// filters, not an error.
func (r *Recommender) Recommend(site Site, priority Priority) []Recommendation {
	candidates := r.filter(site)
	if len(candidates) == 0 {
		return []Recommendation{}
	}

	weights, ok := priorityWeights[priority]
	if !ok {
		weights = priorityWeights[PriorityEconomia]
	}

	scored := make([]Recommendation, 0, len(candidates))
	for _, sp := range candidates {
		scored = append(scored, Recommendation{
			Species:          sp,
			SuitabilityScore: suitabilityScore(sp, weights),
			Reason:           reason(sp, site),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.SuitabilityScore != b.SuitabilityScore {
			return a.SuitabilityScore > b.SuitabilityScore
		}
		if a.Species.Native != b.Species.Native {
			return a.Species.Native
		}
		return a.Species.UnitCostEUR < b.Species.UnitCostEUR
	})

	n := len(scored)
	if n > r.maxResults {
		n = r.maxResults
	}
	selected := make([]Recommendation, n)
	copy(selected, scored[:n])
	selected = r.repairNativeShare(selected, scored)

	for i := range selected {
		selected[i].Quantity = int(site.UsableAreaM2 * selected[i].Species.DensityPerM2)
		selected[i].CostEUR = round2(float64(selected[i].Quantity) * selected[i].Species.UnitCostEUR)
	}
	return selected
}

// NativeSharePct returns the percentage of native species in a palette.
func NativeSharePct(recs []Recommendation) float64 {
	if len(recs) == 0 {
		return 0
	}
	native := 0
	for _, rec := range recs {
		if rec.Species.Native {
			native++
		}
	}
	return float64(native) / float64(len(recs)) * 100
}

func (r *Recommender) filter(site Site) []Species {
	contexts := requiredContexts(site)

	var out []Species
	for _, sp := range r.catalog {
		if !validForAll(sp, contexts) {
			continue
		}
		if site.SubstrateDepthCM > 0 && site.SubstrateDepthCM < sp.MinDepthCM {
			continue
		}
		if site.AdmissibleLoadKgM2 > 0 && site.AdmissibleLoadKgM2 < sp.MaxWeightKgM2 {
			continue
		}
		if site.SunExposure == SunShade && sp.SunRequirement == SunFull {
			continue
		}
		if site.SunExposure == SunFull && sp.SunRequirement == SunShade {
			continue
		}
		out = append(out, sp)
	}
	return out
}

// requiredContexts resolves the planting contexts a species must be
// valid for. A semi-intensive roof (substrate 15-30 cm) sits between
// the two roof profiles, so candidates must suit both.
func requiredContexts(site Site) []PlantingContext {
	switch site.Type {
	case SiteRoof:
		switch {
		case site.SubstrateDepthCM >= 30:
			return []PlantingContext{ContextRoofIntensive}
		case site.SubstrateDepthCM >= 15:
			return []PlantingContext{ContextRoofExtensive, ContextRoofIntensive}
		default:
			return []PlantingContext{ContextRoofExtensive}
		}
	case SiteVerticalGarden:
		return []PlantingContext{ContextVerticalGarden}
	default:
		return []PlantingContext{ContextGround}
	}
}

func validForAll(sp Species, contexts []PlantingContext) bool {
	for _, ctx := range contexts {
		if !sp.validFor(ctx) {
			return false
		}
	}
	return true
}

func suitabilityScore(sp Species, weights map[string]float64) float64 {
	score := 0.0
	for component, weight := range weights {
		score += componentValue(sp, component) * weight
	}
	return round2(score * 100)
}

func componentValue(sp Species, component string) float64 {
	switch component {
	case "nivel_economia":
		return economyNorm[sp.EconomyLevel]
	case "mantenimiento":
		return maintenanceNorm[sp.Maintenance]
	case "riego":
		return irrigationNorm[sp.Irrigation]
	case "biodiversidad":
		return float64(sp.BiodiversityScore) / 10.0
	case "melifera":
		return flagValue(sp.Melliferous, 0.3)
	case "nativa":
		return flagValue(sp.Native, 0.5)
	case "comestible":
		return flagValue(sp.Edible, 0.0)
	case "aromatica":
		return flagValue(sp.Aromatic, 0.3)
	case "beneficios":
		co2 := math.Min(sp.CO2KgYear/5.0, 1.0)
		return (co2 + sp.WaterRetentionPct/100.0) / 2.0
	default:
		return 0
	}
}

func flagValue(flag bool, miss float64) float64 {
	if flag {
		return 1.0
	}
	return miss
}

// repairNativeShare swaps the lowest-ranked non-native entries for the
// best natives left in the candidate pool until the palette meets the
// minimum native share, or until no natives remain to swap in.
func (r *Recommender) repairNativeShare(selected, pool []Recommendation) []Recommendation {
	for NativeSharePct(selected) < r.minNativePct {
		swapOut := -1
		for i := len(selected) - 1; i >= 0; i-- {
			if !selected[i].Species.Native {
				swapOut = i
				break
			}
		}
		if swapOut < 0 {
			break
		}

		replacement := -1
		for i, cand := range pool {
			if !cand.Species.Native || contains(selected, cand.Species.ScientificName) {
				continue
			}
			replacement = i
			break
		}
		if replacement < 0 {
			break
		}
		selected[swapOut] = pool[replacement]
	}
	return selected
}

func contains(recs []Recommendation, scientificName string) bool {
	for _, rec := range recs {
		if rec.Species.ScientificName == scientificName {
			return true
		}
	}
	return false
}

func reason(sp Species, site Site) string {
	switch site.SunExposure {
	case SunShade:
		return "Adaptada a sombra, riego " + string(sp.Irrigation)
	case SunFull:
		return "Ideal para sol directo, riego " + string(sp.Irrigation)
	default:
		return "Versátil para exposición mixta"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
