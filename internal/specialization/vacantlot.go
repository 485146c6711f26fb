package specialization

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/verdialabs/verdia/internal/budget"
)

// SlopeAnalysis classifies the lot topography. No elevation data is
// available, so the slope is drawn deterministically from the lot
// area: identical input always yields the identical slope.
type SlopeAnalysis struct {
	SlopePct       float64 `json:"slope_pct"`
	Class          string  `json:"class"`
	CostFactor     float64 `json:"cost_factor"`
	DropM          float64 `json:"drop_m"`
	LevelingNeeded bool    `json:"leveling_needed"`
}

// Earthwork sizes the leveling works.
type Earthwork struct {
	CutM3          float64 `json:"cut_m3"`
	FillM3         float64 `json:"fill_m3"`
	NetM3          float64 `json:"net_m3"`
	RetainingWallM float64 `json:"retaining_wall_m"`
}

// VacantLotDetail is the tagged-variant payload for vacant-lot
// development specializations.
type VacantLotDetail struct {
	Slope             SlopeAnalysis `json:"slope"`
	Earthwork         Earthwork     `json:"earthwork"`
	FencingPerimeterM float64       `json:"fencing_perimeter_m"`
	VehicleGate       bool          `json:"vehicle_gate"`
	PedestrianGates   int           `json:"pedestrian_gates"`
	Utilities         []string      `json:"utilities"`
}

func (VacantLotDetail) isDetail() {}

func (e *Evaluator) evaluateVacantLot(req Request) (*Result, error) {
	area := req.Snapshot.AreaM2
	perimeter := req.Snapshot.PerimeterM

	slope := analyzeSlope(area)
	earthwork := sizeEarthwork(area, slope)

	detail := VacantLotDetail{
		Slope:             slope,
		Earthwork:         earthwork,
		FencingPerimeterM: round2(perimeter),
		VehicleGate:       area > 500,
		PedestrianGates:   int(math.Max(1, math.Floor(perimeter/100))),
		Utilities:         []string{"agua"},
	}

	prep := area*(1.5+2.0) + area*0.3*3.5
	earthworkCost := 0.0
	if slope.LevelingNeeded {
		earthworkCost = earthwork.CutM3*8.5 + earthwork.FillM3*12 + area*4.0 + area*3.5
	}
	retainingCost := earthwork.RetainingWallM * 85

	fencePerML := 28.0
	if req.Params.UrbanEnvironment {
		fencePerML = 45
	}
	fencing := perimeter*fencePerML + float64(detail.PedestrianGates)*320 + math.Sqrt(area)*0.3*35
	if detail.VehicleGate {
		fencing += 850
	}

	utilities := 1200.0
	if area > 200 {
		utilities += 1800
		detail.Utilities = append(detail.Utilities, "electricidad")
	}
	if area > 300 {
		utilities += area*6.5 + math.Max(2, math.Floor(area/500))*180
		detail.Utilities = append(detail.Utilities, "drenaje")
	}

	surcharge := (prep + earthworkCost + retainingCost) * (slope.CostFactor - 1)

	categories := []budget.Category{
		{Name: "estudios_previos", AmountEUR: 800 + 1500 + 1200 + 600},
		{Name: "preparacion_terreno", AmountEUR: round2(prep)},
	}
	if slope.LevelingNeeded {
		categories = append(categories, budget.Category{Name: "movimiento_tierras", AmountEUR: round2(earthworkCost)})
	}
	if retainingCost > 0 {
		categories = append(categories, budget.Category{Name: "muro_contencion", AmountEUR: round2(retainingCost)})
	}
	categories = append(categories,
		budget.Category{Name: "vallado_accesos", AmountEUR: round2(fencing)},
		budget.Category{Name: "infraestructura_basica", AmountEUR: round2(utilities)},
	)
	if surcharge > 0 {
		categories = append(categories, budget.Category{Name: "sobrecoste_topografia", AmountEUR: round2(surcharge)})
	}

	res := &Result{Type: TypeVacantLot, Snapshot: req.Snapshot, Detail: detail}

	total := req.Snapshot.Budget.TotalInitialEUR
	for _, c := range categories {
		total += c.AmountEUR
	}
	netPerM2 := e.netCostPerM2(req.Snapshot, total)

	technical := ViabilityAlta
	if slope.Class == "fuerte" {
		technical = ViabilityMedia
	}
	economic := vacantLotEconomicViability(netPerM2)
	e.finish(res, categories, technical, economic, ViabilityAlta)

	if slope.LevelingNeeded {
		res.Recommendations = append(res.Recommendations,
			"Nivelación del terreno recomendada antes de la plantación")
	}
	if earthwork.RetainingWallM > 0 {
		res.Warnings = append(res.Warnings,
			"Pendiente superior al 8%: muro de contención incluido en el presupuesto")
	}
	return res, nil
}

// analyzeSlope derives the slope from a hash of the area so repeated
// evaluations of the same lot agree bit for bit.
func analyzeSlope(areaM2 float64) SlopeAnalysis {
	h := fnv.New64a()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(areaM2))
	_, _ = h.Write(buf[:])
	r := float64(h.Sum64()%10000) / 10000

	slopePct := 0.5 + r*11.5

	s := SlopeAnalysis{SlopePct: round2(slopePct)}
	switch {
	case slopePct <= 2:
		s.Class, s.CostFactor = "plano", 1.0
	case slopePct <= 8:
		s.Class, s.CostFactor = "ligero", 1.2
		s.LevelingNeeded = true
	case slopePct <= 15:
		s.Class, s.CostFactor = "moderado", 1.5
		s.LevelingNeeded = true
	default:
		s.Class, s.CostFactor = "fuerte", 2.0
		s.LevelingNeeded = true
	}
	s.DropM = round2(math.Sqrt(areaM2) * (slopePct / 100) * 0.5)
	return s
}

func sizeEarthwork(areaM2 float64, slope SlopeAnalysis) Earthwork {
	if !slope.LevelingNeeded {
		return Earthwork{}
	}

	cut := areaM2 * slope.DropM * 0.3
	fill := cut
	ew := Earthwork{
		CutM3:  round2(cut),
		FillM3: round2(fill),
		NetM3:  round2(math.Abs(cut - fill*1.2)),
	}
	if slope.SlopePct > 8 {
		ew.RetainingWallM = round2(2 * math.Sqrt(math.Pi*areaM2) * 0.25)
	}
	return ew
}

func vacantLotEconomicViability(netPerM2 float64) Viability {
	switch {
	case netPerM2 < 60:
		return ViabilityAlta
	case netPerM2 < 90:
		return ViabilityMedia
	case netPerM2 < 130:
		return ViabilityBaja
	default:
		return ViabilityNula
	}
}
