package batch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/verdialabs/verdia/internal/analysis"
)

// Analyzer runs a single viability analysis. *analysis.Service
// satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error)
}

// Runner fans a grid of candidate cells out over a worker pool.
type Runner struct {
	config   GridConfig
	analyzer Analyzer
	logger   zerolog.Logger

	metrics *RunnerMetrics
}

// RunnerMetrics tracks grid run statistics across invocations.
type RunnerMetrics struct {
	mu sync.RWMutex

	TotalRuns       int64
	SuccessfulCells int64
	FailedCells     int64
	CompliantCells  int64

	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// RunnerConfig holds configuration for creating a Runner.
type RunnerConfig struct {
	Config   GridConfig
	Analyzer Analyzer
	Logger   zerolog.Logger
}

// NewRunner creates a grid analysis runner.
func NewRunner(cfg RunnerConfig) *Runner {
	config := cfg.Config
	if len(config.Grids) == 0 {
		config = DefaultGridConfig()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 3
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &Runner{
		config:   config,
		analyzer: cfg.Analyzer,
		logger:   cfg.Logger,
		metrics:  &RunnerMetrics{},
	}
}

// GridResult contains the outcome of one grid run.
type GridResult struct {
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalCells int
	Successful int
	Failed     int
	Compliant  int
	Errors     []CellError
	Analyses   []CellAnalysis
}

// CellAnalysis pairs a cell with its analysis result.
type CellAnalysis struct {
	Cell       string
	AnalysisID string
	GreenScore float64
	Compliant  bool
	NetCostEUR float64
}

// CellError records a failed cell without aborting its siblings.
type CellError struct {
	Cell  string
	Error string
}

// Run analyzes every cell in the configured grids. Individual cell
// failures are recorded in the result; the run itself only stops when
// the context is canceled.
func (r *Runner) Run(ctx context.Context) *GridResult {
	startTime := time.Now()
	result := &GridResult{
		StartTime:  startTime,
		TotalCells: r.config.TotalCells(),
	}

	r.logger.Info().
		Int("total_cells", result.TotalCells).
		Int("concurrency", r.config.Concurrency).
		Msg("starting grid analysis run")

	cells := r.config.AllCells()

	cellsChan := make(chan Cell, len(cells))
	resultsChan := make(chan cellResult, len(cells))

	var wg sync.WaitGroup
	for i := 0; i < r.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, cellsChan, resultsChan)
		}()
	}

	for _, c := range cells {
		cellsChan <- c
	}
	close(cellsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for cr := range resultsChan {
		if cr.err != nil {
			result.Failed++
			result.Errors = append(result.Errors, CellError{
				Cell:  cr.cell,
				Error: cr.err.Error(),
			})
			continue
		}
		result.Successful++
		if cr.analysis.Compliant {
			result.Compliant++
		}
		result.Analyses = append(result.Analyses, cr.analysis)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	r.updateMetrics(result)

	r.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Int("compliant", result.Compliant).
		Msg("grid analysis run completed")

	return result
}

type cellResult struct {
	cell     string
	analysis CellAnalysis
	err      error
}

func (r *Runner) worker(ctx context.Context, cells <-chan Cell, results chan<- cellResult) {
	for cell := range cells {
		select {
		case <-ctx.Done():
			return
		default:
			results <- r.analyzeCell(ctx, cell)
		}
	}
}

func (r *Runner) analyzeCell(ctx context.Context, cell Cell) cellResult {
	cellCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	res, err := r.analyzer.Analyze(cellCtx, analysis.Request{
		Polygon:          cell.Polygon,
		Context:          cell.Context,
		SubstrateDepthCM: cell.SubstrateDepthCM,
	})
	if err != nil {
		r.logger.Warn().Err(err).Str("cell", cell.Name).Msg("cell analysis failed")
		return cellResult{cell: cell.Name, err: err}
	}

	return cellResult{
		cell: cell.Name,
		analysis: CellAnalysis{
			Cell:       cell.Name,
			AnalysisID: res.ID,
			GreenScore: res.GreenScore,
			Compliant:  res.GreenFactor.Compliant,
			NetCostEUR: res.Budget.NetCostEUR,
		},
	}
}

func (r *Runner) updateMetrics(result *GridResult) {
	r.metrics.mu.Lock()
	defer r.metrics.mu.Unlock()

	r.metrics.TotalRuns++
	r.metrics.SuccessfulCells += int64(result.Successful)
	r.metrics.FailedCells += int64(result.Failed)
	r.metrics.CompliantCells += int64(result.Compliant)
	r.metrics.LastRunAt = result.EndTime
	r.metrics.LastRunDuration = result.Duration
	r.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (r *Runner) GetMetrics() RunnerMetrics {
	r.metrics.mu.RLock()
	defer r.metrics.mu.RUnlock()

	return RunnerMetrics{
		TotalRuns:       r.metrics.TotalRuns,
		SuccessfulCells: r.metrics.SuccessfulCells,
		FailedCells:     r.metrics.FailedCells,
		CompliantCells:  r.metrics.CompliantCells,
		LastRunAt:       r.metrics.LastRunAt,
		LastRunDuration: r.metrics.LastRunDuration,
		TotalDuration:   r.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns the current metrics as a map.
func (r *Runner) MetricsSnapshot() map[string]interface{} {
	m := r.GetMetrics()
	return map[string]interface{}{
		"total_runs":        m.TotalRuns,
		"successful_cells":  m.SuccessfulCells,
		"failed_cells":      m.FailedCells,
		"compliant_cells":   m.CompliantCells,
		"last_run_at":       m.LastRunAt,
		"last_run_duration": m.LastRunDuration.String(),
		"total_duration":    m.TotalDuration.String(),
	}
}
