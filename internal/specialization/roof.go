package specialization

import (
	"fmt"
	"math"

	"github.com/verdialabs/verdia/internal/budget"
	"github.com/verdialabs/verdia/internal/standards"
)

// Waterproofing membrane states reported by the building survey.
const (
	WaterproofingGood       = "bueno"
	WaterproofingAcceptable = "aceptable"
	WaterproofingDeficient  = "deficiente"
)

// RoofObstacles estimates fixed rooftop elements that reduce the
// plantable surface.
type RoofObstacles struct {
	Chimneys     int     `json:"chimneys"`
	ACUnits      int     `json:"ac_units"`
	Antennas     int     `json:"antennas"`
	AccessPoints int     `json:"access_points"`
	TotalAreaM2  float64 `json:"total_area_m2"`
}

// RoofDetail is the tagged-variant payload for roof specializations.
type RoofDetail struct {
	Obstacles              RoofObstacles      `json:"obstacles"`
	UsableAreaM2           float64            `json:"usable_area_m2"`
	RequiredLoadKgM2       float64            `json:"required_load_kg_m2"`
	StructuralCapacityKgM2 float64            `json:"structural_capacity_kg_m2"`
	AllowedLoadKgM2        float64            `json:"allowed_load_kg_m2"`
	StructuralMarginPct    float64            `json:"structural_margin_pct"`
	RecommendedSystem      standards.RoofType `json:"recommended_system"`
	NetCostPerM2EUR        float64            `json:"net_cost_per_m2_eur"`
}

func (RoofDetail) isDetail() {}

// saturatedWeightKgM2 is the fully wet system weight per roof profile.
var saturatedWeightKgM2 = map[standards.RoofType]float64{
	standards.RoofExtensive:     180,
	standards.RoofSemiIntensive: 250,
	standards.RoofIntensive:     350,
}

const structuralSafetyFactor = 1.5

func (e *Evaluator) evaluateRoof(req Request) (*Result, error) {
	area := req.Snapshot.AreaM2
	perimeter := req.Snapshot.PerimeterM

	roofType := req.Params.RoofType
	if roofType == "" {
		roofType = standards.RoofExtensive
	}
	required, ok := saturatedWeightKgM2[roofType]
	if !ok {
		return nil, fmt.Errorf("%w: roof type %q", standards.ErrUnknownCoefficient, roofType)
	}
	waterproofing := req.Params.WaterproofingState
	if waterproofing == "" {
		waterproofing = WaterproofingAcceptable
	}

	obstacles := estimateObstacles(area)
	usable := area - obstacles.TotalAreaM2

	capacity := structuralCapacity(req.Params.ConstructionYear)
	allowed := capacity / structuralSafetyFactor
	margin := round2((allowed - required) / required * 100)

	detail := RoofDetail{
		Obstacles:              obstacles,
		UsableAreaM2:           round2(usable),
		RequiredLoadKgM2:       required,
		StructuralCapacityKgM2: capacity,
		AllowedLoadKgM2:        round2(allowed),
		StructuralMarginPct:    margin,
		RecommendedSystem:      heaviestFittingSystem(allowed),
	}

	categories := []budget.Category{
		{Name: "impermeabilizacion", AmountEUR: round2(waterproofingCost(waterproofing, area))},
		{Name: "drenaje_reforzado", AmountEUR: round2(perimeter*25 + math.Max(2, math.Floor(area/100))*180)},
		{Name: "barrera_antiraices", AmountEUR: round2(usable * 12)},
		{Name: "riego_cubierta", AmountEUR: round2(rooftopIrrigationCost(usable, area))},
		{Name: "logistica_grua", AmountEUR: round2(800*math.Max(1, math.Floor(area/200)) + area*8)},
		{Name: "estudio_estructural", AmountEUR: 1500},
		{Name: "seguridad_perimetral", AmountEUR: round2(perimeter*45 + 450)},
	}

	res := &Result{Type: TypeRoof, Snapshot: req.Snapshot, Detail: detail}
	total := req.Snapshot.Budget.TotalInitialEUR
	for _, c := range categories {
		total += c.AmountEUR
	}
	netPerM2 := e.netCostPerM2(req.Snapshot, total)
	detail.NetCostPerM2EUR = round2(netPerM2)
	res.Detail = detail

	technical := marginViability(margin)
	economic := roofEconomicViability(netPerM2)
	regulatory := roofRegulatoryViability(req.Snapshot.Compliant, waterproofing)
	e.finish(res, categories, technical, economic, regulatory)

	if detail.RecommendedSystem != "" {
		res.Recommendations = append(res.Recommendations,
			"Sistema recomendado por carga admisible: "+string(detail.RecommendedSystem))
	}
	if req.Snapshot.Budget.SubsidyEligible {
		res.Recommendations = append(res.Recommendations,
			"Tramitar subvención "+req.Snapshot.Budget.SubsidyProgram)
	}
	if margin <= 10 {
		res.Warnings = append(res.Warnings,
			"Margen estructural ajustado, requiere verificación por técnico competente")
	}
	if waterproofing == WaterproofingDeficient {
		res.Warnings = append(res.Warnings,
			"Impermeabilización deficiente, renovación completa antes de la instalación")
	}
	return res, nil
}

func estimateObstacles(areaM2 float64) RoofObstacles {
	o := RoofObstacles{
		Chimneys: int(math.Max(1, math.Floor(areaM2/200))),
		ACUnits:  int(math.Max(1, math.Floor(areaM2/100))),
	}
	if areaM2 > 200 {
		o.Antennas = 2
	} else {
		o.Antennas = 1
	}
	if areaM2 < 200 {
		o.AccessPoints = 1
	} else {
		o.AccessPoints = 2
	}
	o.TotalAreaM2 = float64(o.Chimneys)*1.0 +
		float64(o.ACUnits)*2.0 +
		float64(o.Antennas)*0.5 +
		float64(o.AccessPoints)*4.0
	return o
}

// structuralCapacity estimates the slab load capacity from the
// construction period. An unknown year assumes the middle band.
func structuralCapacity(constructionYear int) float64 {
	switch {
	case constructionYear == 0:
		return 300
	case constructionYear < 1980:
		return 200
	case constructionYear <= 2005:
		return 300
	default:
		return 400
	}
}

func heaviestFittingSystem(allowedKgM2 float64) standards.RoofType {
	for _, rt := range []standards.RoofType{
		standards.RoofIntensive, standards.RoofSemiIntensive, standards.RoofExtensive,
	} {
		if saturatedWeightKgM2[rt] <= allowedKgM2 {
			return rt
		}
	}
	return ""
}

func waterproofingCost(state string, areaM2 float64) float64 {
	switch state {
	case WaterproofingGood:
		return 450
	case WaterproofingAcceptable:
		return areaM2*20 + 450
	default:
		return areaM2*35 + 450
	}
}

func rooftopIrrigationCost(usableM2, areaM2 float64) float64 {
	cost := usableM2*22 + 650
	if areaM2 > 100 {
		cost += 1000 // storage tank
	}
	return cost
}

func marginViability(marginPct float64) Viability {
	switch {
	case marginPct > 30:
		return ViabilityAlta
	case marginPct > 10:
		return ViabilityMedia
	case marginPct > 0:
		return ViabilityBaja
	default:
		return ViabilityNula
	}
}

func roofEconomicViability(netPerM2 float64) Viability {
	switch {
	case netPerM2 < 120:
		return ViabilityAlta
	case netPerM2 < 180:
		return ViabilityMedia
	case netPerM2 < 250:
		return ViabilityBaja
	default:
		return ViabilityNula
	}
}

func roofRegulatoryViability(compliant bool, waterproofing string) Viability {
	if !compliant {
		return ViabilityBaja
	}
	if waterproofing == WaterproofingDeficient {
		return ViabilityMedia
	}
	return ViabilityAlta
}
