package specialization

import (
	"fmt"
	"math"

	"github.com/verdialabs/verdia/internal/budget"
	"github.com/verdialabs/verdia/internal/standards"
)

// wallCapacityKgM2 is the admissible hung load per wall construction.
var wallCapacityKgM2 = map[string]float64{
	"hormigon":        250,
	"ladrillo_macizo": 180,
	"piedra":          200,
	"ladrillo_hueco":  90,
	"tabique_ligero":  40,
}

// systemAttachmentReserveKgM2 is load headroom kept for anchors and
// wind action when matching a system to a wall.
const systemAttachmentReserveKgM2 = 30

// VGSystem is one vertical garden constructive system.
type VGSystem struct {
	Name          string  `json:"name"`
	DepthCM       float64 `json:"depth_cm"`
	WeightKgM2    float64 `json:"weight_kg_m2"`
	CostPerM2EUR  float64 `json:"cost_per_m2_eur"`
	LifespanYears int     `json:"lifespan_years"`
}

var vgSystems = []VGSystem{
	{Name: "modular_panel", DepthCM: 8, WeightKgM2: 60, CostPerM2EUR: 85, LifespanYears: 15},
	{Name: "bolsillos_fieltro", DepthCM: 5, WeightKgM2: 35, CostPerM2EUR: 55, LifespanYears: 8},
	{Name: "celosia_trepadora", DepthCM: 30, WeightKgM2: 25, CostPerM2EUR: 45, LifespanYears: 20},
	{Name: "hidroponico", DepthCM: 0, WeightKgM2: 40, CostPerM2EUR: 120, LifespanYears: 12},
}

// WallAssessment is the structural verdict for the supporting wall.
type WallAssessment struct {
	WallType               string    `json:"wall_type"`
	CapacityKgM2           float64   `json:"capacity_kg_m2"`
	MarginKgM2             float64   `json:"margin_kg_m2"`
	ReinforcementNeeded    bool      `json:"reinforcement_needed"`
	EngineeringStudyNeeded bool      `json:"engineering_study_needed"`
	StructuralViability    Viability `json:"structural_viability"`
}

// IrrigationPlan sizes the watering system for the selected garden.
type IrrigationPlan struct {
	SystemType    string  `json:"system_type"`
	PumpNeeded    bool    `json:"pump_needed"`
	Sensors       int     `json:"sensors"`
	AnnualWaterM3 float64 `json:"annual_water_m3"`
	CostEUR       float64 `json:"cost_eur"`
}

// VerticalGardenDetail is the tagged-variant payload for vertical
// garden specializations.
type VerticalGardenDetail struct {
	Wall           WallAssessment `json:"wall"`
	SelectedSystem VGSystem       `json:"selected_system"`
	Anchors        int            `json:"anchors"`
	PerimeterM     float64        `json:"perimeter_m"`
	Irrigation     IrrigationPlan `json:"irrigation"`
}

func (VerticalGardenDetail) isDetail() {}

func (e *Evaluator) evaluateVerticalGarden(req Request) (*Result, error) {
	area := req.Snapshot.AreaM2

	wallType := req.Params.WallType
	if wallType == "" {
		wallType = "hormigon"
	}
	capacity, ok := wallCapacityKgM2[wallType]
	if !ok {
		return nil, fmt.Errorf("%w: wall type %q", standards.ErrUnknownCoefficient, wallType)
	}

	wall := assessWall(wallType, capacity, area)
	system, systemFound := selectSystem(capacity, area, req.Params.Location, req.Params.BudgetPriority)

	wallHeight := req.Params.WallHeightM
	if wallHeight == 0 {
		wallHeight = 3
	}
	perimeter := 2 * (math.Sqrt(area) + wallHeight)
	anchors := int(area * 1.5)

	irrigation := designIrrigation(system, area, wallHeight)

	detail := VerticalGardenDetail{
		Wall:           wall,
		SelectedSystem: system,
		Anchors:        anchors,
		PerimeterM:     round2(perimeter),
		Irrigation:     irrigation,
	}

	studies := 1200.0
	if wall.EngineeringStudyNeeded {
		studies = 800 + 1200 + 450
	}
	scaffoldDays := math.Max(3, math.Floor(area/10))
	categories := []budget.Category{
		{Name: "estudios_previos", AmountEUR: studies},
		{Name: "preparacion_muro", AmountEUR: round2(area * (22 + 8))},
		{Name: "estructura_soporte", AmountEUR: round2(float64(anchors)*25 + perimeter*35 + area*45 + area*system.CostPerM2EUR)},
		{Name: "riego", AmountEUR: irrigation.CostEUR},
		{Name: "instalacion_seguridad", AmountEUR: round2(area*8*scaffoldDays + perimeter*15 + 450)},
	}
	if area > 15 {
		categories = append(categories, budget.Category{Name: "acceso_mantenimiento", AmountEUR: 850})
	}

	res := &Result{Type: TypeVerticalGarden, Snapshot: req.Snapshot, Detail: detail}

	total := req.Snapshot.Budget.TotalInitialEUR
	for _, c := range categories {
		total += c.AmountEUR
	}
	netPerM2 := e.netCostPerM2(req.Snapshot, total)

	technical := wall.StructuralViability
	if !systemFound {
		technical = ViabilityNula
	}
	economic := vgEconomicViability(netPerM2)
	regulatory := ViabilityAlta
	if wall.EngineeringStudyNeeded {
		regulatory = ViabilityMedia
	}
	e.finish(res, categories, technical, economic, regulatory)

	if systemFound {
		res.Recommendations = append(res.Recommendations,
			"Sistema constructivo recomendado: "+system.Name)
	} else {
		res.Warnings = append(res.Warnings,
			"Ningún sistema constructivo compatible con la capacidad del muro")
	}
	if wall.ReinforcementNeeded {
		res.Warnings = append(res.Warnings,
			"El muro requiere refuerzo estructural previo a la instalación")
	}
	if irrigation.PumpNeeded {
		res.Recommendations = append(res.Recommendations,
			"Instalar bomba de presión para altura de muro superior a 2.5 m")
	}
	return res, nil
}

func assessWall(wallType string, capacityKgM2, areaM2 float64) WallAssessment {
	margin := capacityKgM2 - 60
	w := WallAssessment{
		WallType:     wallType,
		CapacityKgM2: capacityKgM2,
		MarginKgM2:   margin,
	}
	switch {
	case margin < 30:
		w.ReinforcementNeeded = true
		w.StructuralViability = ViabilityBaja
	case margin < 60:
		w.StructuralViability = ViabilityMedia
	default:
		w.StructuralViability = ViabilityAlta
	}
	w.EngineeringStudyNeeded = areaM2 > 20 || w.ReinforcementNeeded
	return w
}

// selectSystem ranks the constructive systems that fit the wall load
// and returns the best match for budget priority, size and location.
func selectSystem(capacityKgM2, areaM2 float64, location, budgetPriority string) (VGSystem, bool) {
	best := VGSystem{}
	bestScore := math.Inf(-1)
	found := false

	for _, sys := range vgSystems {
		if sys.WeightKgM2 > capacityKgM2-systemAttachmentReserveKgM2 {
			continue
		}
		score := systemScore(sys, areaM2, location, budgetPriority)
		if score > bestScore {
			best = sys
			bestScore = score
			found = true
		}
	}
	return best, found
}

func systemScore(sys VGSystem, areaM2 float64, location, budgetPriority string) float64 {
	var score float64
	switch budgetPriority {
	case "bajo":
		score = (150 - sys.CostPerM2EUR) / 10
	case "alto":
		score = float64(sys.LifespanYears)
	default:
		score = ((150-sys.CostPerM2EUR)/10 + float64(sys.LifespanYears)) / 2
	}

	if areaM2 > 30 && sys.Name == "modular_panel" {
		score += 20
	}
	if areaM2 < 10 && sys.Name == "bolsillos_fieltro" {
		score += 15
	}
	if location == "interior" {
		if sys.Name == "bolsillos_fieltro" || sys.Name == "hidroponico" {
			score += 10
		}
	} else {
		if sys.Name == "modular_panel" || sys.Name == "celosia_trepadora" {
			score += 10
		}
	}
	return score
}

func designIrrigation(system VGSystem, areaM2, wallHeightM float64) IrrigationPlan {
	plan := IrrigationPlan{
		PumpNeeded: wallHeightM > 2.5,
		Sensors:    int(math.Max(2, math.Floor(areaM2/15))),
	}

	var litersPerM2Day float64
	switch system.Name {
	case "hidroponico":
		plan.SystemType = "hidroponico"
		plan.CostEUR = areaM2*65 + 650 + 180 // fertigation programmer + tank
		litersPerM2Day = 3.0
	case "bolsillos_fieltro":
		plan.SystemType = "capilar"
		plan.CostEUR = areaM2 * 35
		litersPerM2Day = 2.5
	default:
		plan.SystemType = "goteo"
		plan.CostEUR = areaM2 * 28
		litersPerM2Day = 2.0
	}

	if plan.PumpNeeded {
		plan.CostEUR += 450
	}
	plan.CostEUR += float64(plan.Sensors) * 85
	plan.CostEUR = round2(plan.CostEUR)
	plan.AnnualWaterM3 = round2(areaM2 * litersPerM2Day * 365 / 1000)
	return plan
}

func vgEconomicViability(netPerM2 float64) Viability {
	switch {
	case netPerM2 < 150:
		return ViabilityAlta
	case netPerM2 < 220:
		return ViabilityMedia
	default:
		return ViabilityBaja
	}
}
