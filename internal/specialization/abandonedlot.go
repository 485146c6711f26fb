package specialization

import (
	"fmt"
	"math"

	"github.com/verdialabs/verdia/internal/budget"
	"github.com/verdialabs/verdia/internal/standards"
)

// Zone histories accepted for abandoned-lot assessments.
const (
	ZoneIndustrial  = "area_industrial"
	ZoneResidential = "area_residencial"
	ZoneNatural     = "area_natural"
)

var zoneRiskFactor = map[string]float64{
	ZoneIndustrial:  0.7,
	ZoneResidential: 0.3,
	ZoneNatural:     0.1,
}

type contaminantProfile struct {
	name        string
	probability float64
	costPerM2   float64
}

var contaminantProfiles = []contaminantProfile{
	{"metales_pesados", 0.4, 45},
	{"hidrocarburos", 0.3, 55},
	{"amianto", 0.15, 120},
	{"residuos_organicos", 0.6, 15},
}

// ContaminantEstimate is one probable contaminant with its treatment
// cost estimate.
type ContaminantEstimate struct {
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
	EstCostEUR  float64 `json:"est_cost_eur"`
}

// DebrisEstimate quantifies accumulated material to clear.
type DebrisEstimate struct {
	ConstructionM3 float64 `json:"construction_m3"`
	WasteM3        float64 `json:"waste_m3"`
	VegetationM3   float64 `json:"vegetation_m3"`
	HazardousM3    float64 `json:"hazardous_m3"`
	TotalM3        float64 `json:"total_m3"`
	WeightTonnes   float64 `json:"weight_tonnes"`
}

// RemediationPlan sizes the soil recovery work.
type RemediationPlan struct {
	ExcavationDepthCM  float64 `json:"excavation_depth_cm"`
	ContaminatedSoilM3 float64 `json:"contaminated_soil_m3"`
	TopsoilM3          float64 `json:"topsoil_m3"`
	CostEUR            float64 `json:"cost_eur"`
}

// AbandonedLotDetail is the tagged-variant payload for abandoned-zone
// recovery specializations.
type AbandonedLotDetail struct {
	ContaminationRisk    float64               `json:"contamination_risk"`
	RiskLevel            string                `json:"risk_level"`
	FullStudyNeeded      bool                  `json:"full_study_needed"`
	ProbableContaminants []ContaminantEstimate `json:"probable_contaminants"`
	Debris               DebrisEstimate        `json:"debris"`
	Remediation          RemediationPlan       `json:"remediation"`
}

func (AbandonedLotDetail) isDetail() {}

func (e *Evaluator) evaluateAbandonedLot(req Request) (*Result, error) {
	area := req.Snapshot.AreaM2
	perimeter := req.Snapshot.PerimeterM

	zone := req.Params.ZoneHistory
	if zone == "" {
		zone = ZoneResidential
	}
	zoneFactor, ok := zoneRiskFactor[zone]
	if !ok {
		return nil, fmt.Errorf("%w: zone history %q", standards.ErrUnknownCoefficient, zone)
	}
	years := req.Params.YearsAbandoned
	if years <= 0 {
		years = 5
	}

	risk := math.Min(zoneFactor+math.Min(1, area/5000)*0.2, 0.95)
	riskLevel := "bajo"
	switch {
	case risk > 0.6:
		riskLevel = "alto"
	case risk > 0.35:
		riskLevel = "medio"
	}

	contaminants := probableContaminants(zoneFactor, area)
	debris := estimateDebris(area, years)
	remediation := planRemediation(area, riskLevel, contaminants)

	detail := AbandonedLotDetail{
		ContaminationRisk:    round2(risk),
		RiskLevel:            riskLevel,
		FullStudyNeeded:      riskLevel != "bajo",
		ProbableContaminants: contaminants,
		Debris:               debris,
		Remediation:          remediation,
	}

	studyCost := 1200.0
	if detail.FullStudyNeeded {
		studyCost = 3500
	}
	categories := []budget.Category{
		{Name: "estudios_previos", AmountEUR: round2(studyCost + 800)},
		{Name: "retirada_residuos", AmountEUR: round2(debris.ConstructionM3*35 + debris.WasteM3*45 + debris.HazardousM3*180)},
		{Name: "limpieza_vegetacion", AmountEUR: round2(area*2.5 + math.Floor(area/100)*120 + area*0.3*8)},
		{Name: "remediacion_suelo", AmountEUR: remediation.CostEUR},
		{Name: "preparacion_terreno", AmountEUR: round2(area * (6.5 + 4.0))},
		{Name: "seguridad_vallado", AmountEUR: round2(perimeter*35 + 850 + math.Max(2, math.Floor(perimeter/50))*120 + 650)},
	}

	res := &Result{Type: TypeAbandonedLot, Snapshot: req.Snapshot, Detail: detail}

	total := req.Snapshot.Budget.TotalInitialEUR
	for _, c := range categories {
		total += c.AmountEUR
	}
	netPerM2 := e.netCostPerM2(req.Snapshot, total)

	technical := ViabilityAlta
	if riskLevel == "alto" {
		technical = ViabilityMedia
	}
	economic := lotEconomicViability(netPerM2)
	regulatory := map[string]Viability{
		"bajo": ViabilityAlta, "medio": ViabilityMedia, "alto": ViabilityBaja,
	}[riskLevel]
	e.finish(res, categories, technical, economic, regulatory)

	if detail.FullStudyNeeded {
		res.Warnings = append(res.Warnings,
			"Riesgo de contaminación "+riskLevel+": estudio completo de suelos obligatorio")
	}
	if debris.HazardousM3 > 0 {
		res.Warnings = append(res.Warnings,
			"Posibles residuos peligrosos: gestor autorizado para su retirada")
	}
	if len(contaminants) > 0 {
		res.Recommendations = append(res.Recommendations,
			"Priorizar caracterización analítica de los contaminantes probables")
	}
	return res, nil
}

func probableContaminants(zoneFactor, areaM2 float64) []ContaminantEstimate {
	out := []ContaminantEstimate{}
	for _, p := range contaminantProfiles {
		if zoneFactor*p.probability > 0.2 {
			out = append(out, ContaminantEstimate{
				Name:        p.name,
				Probability: p.probability,
				EstCostEUR:  round2(areaM2 * p.costPerM2),
			})
		}
	}
	return out
}

func estimateDebris(areaM2 float64, yearsAbandoned int) DebrisEstimate {
	rate := 0.015 * (float64(yearsAbandoned) / 10)
	total := areaM2 * rate

	d := DebrisEstimate{
		ConstructionM3: round2(total * 0.4),
		WasteM3:        round2(total * 0.3),
		VegetationM3:   round2(total * 0.3),
		TotalM3:        round2(total),
	}
	d.HazardousM3 = round2(d.WasteM3 * math.Min(0.3, float64(yearsAbandoned)*0.02))
	d.WeightTonnes = round2(total * 1.2)
	return d
}

func planRemediation(areaM2 float64, riskLevel string, contaminants []ContaminantEstimate) RemediationPlan {
	depth := 0.0
	switch riskLevel {
	case "alto":
		depth = 50
	case "medio":
		depth = 30
	}

	plan := RemediationPlan{
		ExcavationDepthCM:  depth,
		ContaminatedSoilM3: round2(areaM2 * depth / 100),
		TopsoilM3:          round2(areaM2 * 0.30),
	}

	cost := plan.TopsoilM3 * 28
	for _, c := range contaminants {
		if c.Probability > 0.25 {
			cost += c.EstCostEUR * 0.5
		}
	}
	plan.CostEUR = round2(cost)
	return plan
}

func lotEconomicViability(netPerM2 float64) Viability {
	switch {
	case netPerM2 < 80:
		return ViabilityAlta
	case netPerM2 < 120:
		return ViabilityMedia
	case netPerM2 < 180:
		return ViabilityBaja
	default:
		return ViabilityNula
	}
}
