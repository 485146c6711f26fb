package analysis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verdialabs/verdia/internal/benefits"
	"github.com/verdialabs/verdia/internal/budget"
	"github.com/verdialabs/verdia/internal/financial"
	"github.com/verdialabs/verdia/internal/geo"
	"github.com/verdialabs/verdia/internal/greenfactor"
	"github.com/verdialabs/verdia/internal/siteconditions"
	"github.com/verdialabs/verdia/internal/specialization"
	"github.com/verdialabs/verdia/internal/species"
	"github.com/verdialabs/verdia/internal/standards"
)

// Green score component weights, in points.
const (
	scoreWeightGreenFactor = 30.0
	scoreWeightSolar       = 20.0
	scoreWeightUsable      = 15.0
	scoreWeightEcosystem   = 20.0
	scoreWeightCompliance  = 15.0

	// referenceBenefitPerM2 normalizes the ecosystem component: an
	// installation producing this €/m²/year scores full marks.
	referenceBenefitPerM2 = 12.0

	// referenceSunHours is the top of the simulated sun-hour range.
	referenceSunHours = 2600.0
)

// ServiceConfig holds configuration for the analysis service.
type ServiceConfig struct {
	Tables      *standards.Tables
	Conditions  *siteconditions.Service
	Recommender *species.Recommender
	Budget      *budget.Calculator
	Benefits    *benefits.Calculator
	Financial   *financial.Analyzer
	Specializer *specialization.Evaluator
	Repository  Repository
	Logger      zerolog.Logger

	// Now and NewID exist for deterministic tests.
	Now   func() time.Time
	NewID func() string
}

// Service runs the pipeline and persists results.
type Service struct {
	tables      *standards.Tables
	conditions  *siteconditions.Service
	recommender *species.Recommender
	budget      *budget.Calculator
	benefits    *benefits.Calculator
	financial   *financial.Analyzer
	specializer *specialization.Evaluator
	repo        Repository
	logger      zerolog.Logger
	now         func() time.Time
	newID       func() string
}

// NewService creates an analysis service, applying defaults for
// zero-value config fields.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Tables == nil {
		cfg.Tables = standards.Madrid2024()
	}
	if cfg.Conditions == nil {
		cfg.Conditions = siteconditions.NewService(siteconditions.ServiceConfig{Logger: cfg.Logger})
	}
	if cfg.Recommender == nil {
		cfg.Recommender = species.NewRecommender(species.RecommenderConfig{})
	}
	if cfg.Budget == nil {
		cfg.Budget = budget.NewCalculator(cfg.Tables)
	}
	if cfg.Benefits == nil {
		cfg.Benefits = benefits.NewCalculator(cfg.Tables)
	}
	if cfg.Financial == nil {
		cfg.Financial = financial.NewAnalyzer(financial.AnalyzerConfig{})
	}
	if cfg.Specializer == nil {
		cfg.Specializer = specialization.NewEvaluator(specialization.EvaluatorConfig{Tables: cfg.Tables})
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	return &Service{
		tables:      cfg.Tables,
		conditions:  cfg.Conditions,
		recommender: cfg.Recommender,
		budget:      cfg.Budget,
		benefits:    cfg.Benefits,
		financial:   cfg.Financial,
		specializer: cfg.Specializer,
		repo:        cfg.Repository,
		logger:      cfg.Logger,
		now:         cfg.Now,
		newID:       cfg.NewID,
	}
}

// Analyze runs the full pipeline over the request and persists the
// result when a repository is configured. Zero viable species or a
// negative investment case are conclusions, not errors.
func (s *Service) Analyze(ctx context.Context, req Request) (*Result, error) {
	if req.SpeciesPriority == "" {
		req.SpeciesPriority = species.PriorityEconomia
	}

	metrics, err := geo.Compute(req.Polygon)
	if err != nil {
		return nil, fmt.Errorf("computing geometry: %w", err)
	}

	conditions, err := s.conditions.Assess(ctx, siteconditions.Request{
		Polygon:  req.Polygon,
		AreaM2:   metrics.AreaM2,
		Centroid: metrics.Centroid,
	})
	if err != nil {
		return nil, fmt.Errorf("assessing site conditions: %w", err)
	}

	usable := conditions.UsableAreaM2(metrics.AreaM2)

	score, err := greenfactor.Evaluate(s.tables, metrics.AreaM2, usable, req.Context)
	if err != nil {
		return nil, fmt.Errorf("evaluating green factor: %w", err)
	}

	recs := s.recommender.Recommend(species.Site{
		Type:             siteTypeFor(req.Context.Infrastructure),
		UsableAreaM2:     usable,
		SubstrateDepthCM: req.SubstrateDepthCM,
		SunExposure:      sunRequirementFor(conditions.SunExposure),
	}, req.SpeciesPriority)

	plantCost := 0.0
	for _, rec := range recs {
		plantCost += rec.CostEUR
	}

	breakdown := s.budget.Compute(budget.Input{
		UsableAreaM2: usable,
		PlantCostEUR: plantCost,
		Centroid:     metrics.Centroid,
	})

	summary, err := s.benefits.Compute(usable, req.Context.RoofType)
	if err != nil {
		return nil, fmt.Errorf("computing benefits: %w", err)
	}

	annualNet := summary.TotalAnnualBenefitEUR - breakdown.AnnualMaintenanceEUR
	fin := s.financial.Compute(breakdown.NetCostEUR, annualNet)
	timeline := s.financial.Timeline(annualNet,
		summary.Ecosystem.CO2CaptureKgYear, summary.Ecosystem.WaterRetainedLYear)

	res := &Result{
		ID:           s.newID(),
		CreatedAt:    s.now().UTC(),
		Request:      req,
		Geometry:     metrics,
		Conditions:   conditions,
		GreenFactor:  score,
		Species:      recs,
		Budget:       breakdown,
		Benefits:     summary,
		Financial:    fin,
		Timeline:     timeline,
		UsableAreaM2: round2(usable),
	}
	res.GreenScore = s.greenScore(res)
	s.annotate(res)

	if s.repo != nil {
		if err := s.repo.Save(ctx, res); err != nil {
			return nil, fmt.Errorf("saving analysis: %w", err)
		}
	}

	s.logger.Info().
		Str("analysis_id", res.ID).
		Float64("area_m2", metrics.AreaM2).
		Float64("green_score", res.GreenScore).
		Msg("analysis completed")
	return res, nil
}

// Get returns a stored analysis by ID.
func (s *Service) Get(ctx context.Context, id string) (*Result, error) {
	if s.repo == nil {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// List returns stored analyses, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Result, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.List(ctx, limit, offset)
}

// Specialize evaluates a specialization over the frozen snapshot of a
// stored analysis.
func (s *Service) Specialize(ctx context.Context, analysisID string, typ specialization.Type, params specialization.Params) (*specialization.Result, error) {
	base, err := s.Get(ctx, analysisID)
	if err != nil {
		return nil, err
	}
	return s.specializer.Evaluate(specialization.Request{
		Type:     typ,
		Snapshot: SnapshotOf(base),
		Params:   params,
	})
}

// SnapshotOf freezes the specialization-relevant outputs of a result.
func SnapshotOf(res *Result) specialization.BaseSnapshot {
	return specialization.BaseSnapshot{
		AreaM2:     res.Geometry.AreaM2,
		PerimeterM: res.Geometry.PerimeterM,
		GreenScore: res.GreenScore,
		Compliant:  res.GreenFactor.Compliant,
		Species:    res.Species,
		Budget:     *res.Budget,
	}
}

func (s *Service) greenScore(res *Result) float64 {
	factor := math.Min(res.GreenFactor.Factor/s.tables.GreenFactor.MinFactorIntensive, 1)
	solar := math.Min(res.Conditions.AnnualSunHours/referenceSunHours, 1)
	usablePct := res.Conditions.Segmentation.UsablePct() / 100
	eco := 0.0
	if res.Geometry.AreaM2 > 0 {
		eco = math.Min(res.Benefits.TotalAnnualBenefitEUR/(res.Geometry.AreaM2*referenceBenefitPerM2), 1)
	}
	compliance := 0.0
	if res.GreenFactor.Compliant {
		compliance = 1
	}

	return round2(factor*scoreWeightGreenFactor +
		solar*scoreWeightSolar +
		usablePct*scoreWeightUsable +
		eco*scoreWeightEcosystem +
		compliance*scoreWeightCompliance)
}

func (s *Service) annotate(res *Result) {
	gf := s.tables.GreenFactor

	if res.Conditions.DegradedConfidence {
		res.Warnings = append(res.Warnings,
			"Condiciones del sitio estimadas por simulación, confianza reducida")
	}
	if res.Geometry.AreaM2 < gf.MinAreaM2 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("Superficie inferior al mínimo subvencionable de %.0f m²", gf.MinAreaM2))
	}
	if len(res.Species) == 0 {
		res.Warnings = append(res.Warnings,
			"Ninguna especie del catálogo es compatible con las condiciones del sitio")
	} else if species.NativeSharePct(res.Species) < gf.MinNativePct {
		res.Warnings = append(res.Warnings,
			"La paleta vegetal no alcanza el mínimo de especies nativas")
	}
	if !res.GreenFactor.Compliant {
		res.Warnings = append(res.Warnings,
			"Factor Verde por debajo del umbral normativo")
	}

	if res.Budget.SubsidyEligible {
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Elegible para subvención del %.0f%% (%s)", res.Budget.SubsidyPct, res.Budget.SubsidyProgram))
	}
	if res.Financial.NPVEUR > 0 {
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Inversión recuperable en %.1f años", res.Financial.PaybackYears))
	}
}

func siteTypeFor(infra standards.InfrastructureType) species.SiteType {
	switch infra {
	case standards.InfraVerticalGarden:
		return species.SiteVerticalGarden
	case standards.InfraExtensiveRoof, standards.InfraIntensiveRoof:
		return species.SiteRoof
	default:
		return species.SiteGround
	}
}

func sunRequirementFor(exposure siteconditions.SunExposure) species.SunRequirement {
	switch exposure {
	case siteconditions.ExposureDirectSun:
		return species.SunFull
	case siteconditions.ExposureShade:
		return species.SunShade
	default:
		return species.SunPartShade
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
