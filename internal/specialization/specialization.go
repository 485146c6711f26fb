// Package specialization adapts a base site analysis to a concrete
// intervention type: green roof, vertical garden, abandoned-zone
// recovery, vacant-lot development or degraded-park renovation. Every
// evaluator produces type-specific engineering detail, additional
// budget categories on top of the base budget, and three sub-verdicts
// (technical, economic, regulatory) combined into a final viability.
package specialization

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/verdialabs/verdia/internal/budget"
	"github.com/verdialabs/verdia/internal/species"
	"github.com/verdialabs/verdia/internal/standards"
)

// ErrUnsupportedSpecialization is returned for a Type outside the
// closed set.
var ErrUnsupportedSpecialization = errors.New("unsupported specialization type")

// Type identifies the intervention kind.
type Type string

const (
	TypeRoof           Type = "tejado"
	TypeVerticalGarden Type = "jardin_vertical"
	TypeAbandonedLot   Type = "zona_abandonada"
	TypeVacantLot      Type = "solar_vacio"
	TypeDegradedPark   Type = "parque_degradado"
)

// Viability is an ordered verdict scale.
type Viability int

const (
	ViabilityNula Viability = iota
	ViabilityBaja
	ViabilityMedia
	ViabilityAlta
)

var viabilityNames = [...]string{"nula", "baja", "media", "alta"}

func (v Viability) String() string {
	if v < ViabilityNula || v > ViabilityAlta {
		return "nula"
	}
	return viabilityNames[v]
}

// MarshalJSON encodes the viability as its name.
func (v Viability) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// UnmarshalJSON decodes a viability name.
func (v *Viability) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for i, name := range viabilityNames {
		if name == s {
			*v = Viability(i)
			return nil
		}
	}
	return fmt.Errorf("unknown viability %q", s)
}

// Combine returns the worst of the given verdicts.
func Combine(vs ...Viability) Viability {
	final := ViabilityAlta
	for _, v := range vs {
		if v < final {
			final = v
		}
	}
	return final
}

// BaseSnapshot freezes the relevant outputs of the base analysis at
// specialization time. It is embedded by value: later edits to the
// base analysis never alter an existing specialization.
type BaseSnapshot struct {
	AreaM2     float64                  `json:"area_m2"`
	PerimeterM float64                  `json:"perimeter_m"`
	GreenScore float64                  `json:"green_score"`
	Compliant  bool                     `json:"green_factor_compliant"`
	Species    []species.Recommendation `json:"species"`
	Budget     budget.Breakdown         `json:"budget"`
}

// Request asks for one specialization over a snapshot.
type Request struct {
	Type     Type         `json:"type"`
	Snapshot BaseSnapshot `json:"snapshot"`
	Params   Params       `json:"params"`
}

// Params is the union of per-type inputs; each evaluator reads only
// its own fields.
type Params struct {
	// Roof.
	RoofType           standards.RoofType `json:"roof_type,omitempty"`
	ConstructionYear   int                `json:"construction_year,omitempty"`
	WaterproofingState string             `json:"waterproofing_state,omitempty"`

	// Vertical garden.
	WallType       string  `json:"wall_type,omitempty"`
	WallHeightM    float64 `json:"wall_height_m,omitempty"`
	Location       string  `json:"location,omitempty"`
	BudgetPriority string  `json:"budget_priority,omitempty"`

	// Abandoned lot.
	ZoneHistory    string `json:"zone_history,omitempty"`
	YearsAbandoned int    `json:"years_abandoned,omitempty"`

	// Vacant lot.
	UrbanEnvironment bool `json:"urban_environment,omitempty"`

	// Degraded park.
	ParkAgeYears int `json:"park_age_years,omitempty"`
}

// Detail is the closed tagged-variant payload: exactly one concrete
// detail type exists per specialization type.
type Detail interface {
	isDetail()
}

// Result is the outcome of one specialization evaluation.
type Result struct {
	Type     Type         `json:"type"`
	Snapshot BaseSnapshot `json:"snapshot"`
	Detail   Detail       `json:"detail"`

	AdditionalCategories []budget.Category `json:"additional_categories"`
	AdditionalCostEUR    float64           `json:"additional_cost_eur"`
	TotalEUR             float64           `json:"presupuesto_total_eur"`
	IncrementPct         float64           `json:"incremento_vs_base_pct"`
	NetCostEUR           float64           `json:"net_cost_eur"`

	TechnicalViability  Viability `json:"technical_viability"`
	EconomicViability   Viability `json:"economic_viability"`
	RegulatoryViability Viability `json:"regulatory_viability"`
	FinalViability      Viability `json:"final_viability"`

	Recommendations []string `json:"recommendations"`
	Warnings        []string `json:"warnings"`
}

// EvaluatorConfig holds configuration for the evaluator.
type EvaluatorConfig struct {
	Tables *standards.Tables
	Logger zerolog.Logger
}

// Evaluator dispatches a request to the matching per-type evaluation.
type Evaluator struct {
	tables *standards.Tables
	logger zerolog.Logger
}

// NewEvaluator creates an evaluator, defaulting to the Madrid 2024
// tables.
func NewEvaluator(cfg EvaluatorConfig) *Evaluator {
	if cfg.Tables == nil {
		cfg.Tables = standards.Madrid2024()
	}
	return &Evaluator{tables: cfg.Tables, logger: cfg.Logger}
}

// Evaluate runs the specialization for the request's type.
func (e *Evaluator) Evaluate(req Request) (*Result, error) {
	if req.Snapshot.AreaM2 <= 0 {
		return nil, fmt.Errorf("snapshot area must be positive, got %.2f", req.Snapshot.AreaM2)
	}

	switch req.Type {
	case TypeRoof:
		return e.evaluateRoof(req)
	case TypeVerticalGarden:
		return e.evaluateVerticalGarden(req)
	case TypeAbandonedLot:
		return e.evaluateAbandonedLot(req)
	case TypeVacantLot:
		return e.evaluateVacantLot(req)
	case TypeDegradedPark:
		return e.evaluateDegradedPark(req)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSpecialization, req.Type)
	}
}

// finish computes the shared budget arithmetic and verdict combination
// once the per-type evaluation has appended its categories.
func (e *Evaluator) finish(res *Result, categories []budget.Category, technical, economic, regulatory Viability) {
	additional := 0.0
	for _, c := range categories {
		additional += c.AmountEUR
	}
	res.AdditionalCategories = categories
	res.AdditionalCostEUR = round2(additional)
	res.TotalEUR = round2(res.Snapshot.Budget.TotalInitialEUR + additional)
	if base := res.Snapshot.Budget.TotalInitialEUR; base > 0 {
		res.IncrementPct = round2(additional / base * 100)
	}
	res.NetCostEUR = round2(res.TotalEUR * (1 - res.Snapshot.Budget.SubsidyPct/100))

	res.TechnicalViability = technical
	res.EconomicViability = economic
	res.RegulatoryViability = regulatory
	res.FinalViability = Combine(technical, economic, regulatory)
}

// netCostPerM2 is the economic-viability basis: the net-of-subsidy
// total divided by site area.
func (e *Evaluator) netCostPerM2(snapshot BaseSnapshot, totalEUR float64) float64 {
	net := totalEUR * (1 - snapshot.Budget.SubsidyPct/100)
	return net / snapshot.AreaM2
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
