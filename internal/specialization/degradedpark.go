package specialization

import (
	"math"

	"github.com/verdialabs/verdia/internal/budget"
)

// ParkDegradation is the age-derived condition band with its
// repair/replace split for existing elements.
type ParkDegradation struct {
	Level           string  `json:"level"`
	RepairFraction  float64 `json:"repair_fraction"`
	ReplaceFraction float64 `json:"replace_fraction"`
}

// ParkInventory estimates the existing equipment and vegetation from
// the park surface.
type ParkInventory struct {
	Benches      int     `json:"benches"`
	Bins         int     `json:"bins"`
	Fountain     bool    `json:"fountain"`
	PlaygroundM2 float64 `json:"playground_m2"`
	LightPoles   int     `json:"light_poles"`
	Trees        int     `json:"trees"`
	LawnM2       float64 `json:"lawn_m2"`
	ShrubsM2     float64 `json:"shrubs_m2"`
	HedgesML     float64 `json:"hedges_ml"`
	PathwaysM2   float64 `json:"pathways_m2"`
}

// DegradedParkDetail is the tagged-variant payload for park renovation
// specializations.
type DegradedParkDetail struct {
	Degradation   ParkDegradation `json:"degradation"`
	Inventory     ParkInventory   `json:"inventory"`
	LEDUpgrade    bool            `json:"led_upgrade"`
	NewIrrigation bool            `json:"new_irrigation"`
	Accessibility bool            `json:"accessibility_works"`
}

func (DegradedParkDetail) isDetail() {}

func (e *Evaluator) evaluateDegradedPark(req Request) (*Result, error) {
	area := req.Snapshot.AreaM2
	age := req.Params.ParkAgeYears
	if age <= 0 {
		age = 15
	}

	degradation := classifyDegradation(age)
	inventory := estimateParkInventory(area)

	detail := DegradedParkDetail{
		Degradation:   degradation,
		Inventory:     inventory,
		LEDUpgrade:    age > 15,
		NewIrrigation: age > 20,
		Accessibility: area > 500,
	}

	categories := []budget.Category{
		{Name: "estudios_previos", AmountEUR: 800 + 650 + 1500 + 800},
		{Name: "mobiliario_urbano", AmountEUR: furnitureCost(inventory, degradation)},
		{Name: "pavimentos_senderos", AmountEUR: pavementCost(inventory, age)},
		{Name: "iluminacion", AmountEUR: lightingCost(inventory, area, age, detail.LEDUpgrade)},
		{Name: "vegetacion", AmountEUR: vegetationCost(inventory, age)},
		{Name: "riego", AmountEUR: parkIrrigationCost(inventory, detail.NewIrrigation)},
	}
	if detail.Accessibility {
		// Two ramps, two adapted benches, four tactile strips.
		categories = append(categories, budget.Category{Name: "accesibilidad", AmountEUR: 2*1200 + 2*380 + 4*150})
	}

	res := &Result{Type: TypeDegradedPark, Snapshot: req.Snapshot, Detail: detail}

	total := req.Snapshot.Budget.TotalInitialEUR
	for _, c := range categories {
		total += c.AmountEUR
	}
	netPerM2 := e.netCostPerM2(req.Snapshot, total)

	technical := ViabilityAlta
	if degradation.Level == "critico" {
		technical = ViabilityMedia
	}
	economic := parkEconomicViability(netPerM2)
	e.finish(res, categories, technical, economic, ViabilityAlta)

	if degradation.Level == "critico" || degradation.Level == "severo" {
		res.Warnings = append(res.Warnings,
			"Degradación "+degradation.Level+": renovación mayoritaria de elementos existentes")
	}
	if detail.NewIrrigation {
		res.Recommendations = append(res.Recommendations,
			"Renovar por completo la red de riego existente")
	}
	if detail.LEDUpgrade {
		res.Recommendations = append(res.Recommendations,
			"Sustituir luminarias por tecnología LED")
	}
	return res, nil
}

func classifyDegradation(ageYears int) ParkDegradation {
	switch {
	case ageYears <= 10:
		return ParkDegradation{Level: "leve", RepairFraction: 0.8, ReplaceFraction: 0.2}
	case ageYears <= 20:
		return ParkDegradation{Level: "moderado", RepairFraction: 0.7, ReplaceFraction: 0.3}
	case ageYears <= 30:
		return ParkDegradation{Level: "severo", RepairFraction: 0.5, ReplaceFraction: 0.5}
	default:
		return ParkDegradation{Level: "critico", RepairFraction: 0.3, ReplaceFraction: 0.7}
	}
}

func estimateParkInventory(areaM2 float64) ParkInventory {
	inv := ParkInventory{
		Benches:    int(math.Max(2, math.Floor(areaM2/200))),
		Bins:       int(math.Max(2, math.Floor(areaM2/150))),
		Fountain:   areaM2 > 500,
		LightPoles: int(math.Max(2, math.Floor(areaM2/250))),
		Trees:      int(math.Max(5, math.Floor(areaM2/100))),
		LawnM2:     round2(areaM2 * 0.40),
		ShrubsM2:   round2(areaM2 * 0.20),
		HedgesML:   round2(2 * math.Sqrt(areaM2)),
		PathwaysM2: round2(areaM2 * 0.18),
	}
	if areaM2 > 1000 {
		inv.PlaygroundM2 = 50
	}
	return inv
}

func furnitureCost(inv ParkInventory, d ParkDegradation) float64 {
	benches := float64(inv.Benches)
	cost := benches*d.RepairFraction*80 + benches*d.ReplaceFraction*320
	cost += float64(inv.Bins) * 85 // bins are always fully replaced

	if inv.Fountain {
		if d.Level == "leve" || d.Level == "moderado" {
			cost += 180
		} else {
			cost += 650
		}
	}
	if inv.PlaygroundM2 > 0 {
		if d.Level == "leve" || d.Level == "moderado" {
			cost += inv.PlaygroundM2 * 45
		} else {
			cost += inv.PlaygroundM2 * 180
		}
	}
	return round2(cost)
}

func pavementCost(inv ParkInventory, ageYears int) float64 {
	var repairFrac, replaceFrac float64
	switch {
	case ageYears > 25:
		repairFrac, replaceFrac = 0.4, 0.6
	case ageYears > 15:
		repairFrac, replaceFrac = 0.7, 0.3
	default:
		repairFrac, replaceFrac = 0.9, 0.1
	}

	bordersML := inv.PathwaysM2 * 0.3
	borderRepair, borderNew := 0.4, 0.6
	if ageYears <= 15 {
		borderRepair, borderNew = 0.6, 0.4
	}

	cost := inv.PathwaysM2*repairFrac*18 + inv.PathwaysM2*replaceFrac*35 +
		bordersML*borderRepair*8 + bordersML*borderNew*15
	return round2(cost)
}

func lightingCost(inv ParkInventory, areaM2 float64, ageYears int, led bool) float64 {
	renewPct := 0.30
	switch {
	case ageYears > 30:
		renewPct = 1.0
	case ageYears > 20:
		renewPct = 0.7
	}

	poles := float64(inv.LightPoles)
	renewed := math.Round(poles * renewPct)
	repaired := poles - renewed

	poleCost := 850.0
	if !led {
		poleCost = 600
	}
	wiringML := 2 * math.Sqrt(math.Pi*areaM2) * 1.5

	cost := renewed*poleCost + repaired*75 + wiringML*renewPct*12
	if ageYears > 25 {
		cost += 1200 // new distribution panel
	}
	return round2(cost)
}

func vegetationCost(inv ParkInventory, ageYears int) float64 {
	var lawnFrac, pruneFrac, treeReplaceFrac, hedgeFrac, shrubFrac float64
	switch {
	case ageYears > 25:
		lawnFrac, pruneFrac, treeReplaceFrac, hedgeFrac, shrubFrac = 0.8, 1.0, 0.3, 0.9, 0.6
	case ageYears > 15:
		lawnFrac, pruneFrac, treeReplaceFrac, hedgeFrac, shrubFrac = 0.5, 1.0, 0.15, 0.6, 0.3
	default:
		lawnFrac, pruneFrac, treeReplaceFrac, hedgeFrac, shrubFrac = 0.2, 0.8, 0.05, 0.3, 0.1
	}

	trees := float64(inv.Trees)
	cost := inv.LawnM2*lawnFrac*3.5 +
		trees*pruneFrac*45 +
		trees*treeReplaceFrac*180 +
		inv.HedgesML*hedgeFrac*12 +
		inv.ShrubsM2*shrubFrac*18
	return round2(cost)
}

func parkIrrigationCost(inv ParkInventory, renew bool) float64 {
	irrigatedM2 := inv.LawnM2 + inv.ShrubsM2
	if renew {
		return round2(irrigatedM2*15 + 450)
	}
	return round2(irrigatedM2 * 4.5)
}

func parkEconomicViability(netPerM2 float64) Viability {
	switch {
	case netPerM2 < 70:
		return ViabilityAlta
	case netPerM2 < 100:
		return ViabilityMedia
	default:
		return ViabilityBaja
	}
}
