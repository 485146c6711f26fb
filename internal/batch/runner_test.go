package batch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdialabs/verdia/internal/analysis"
	"github.com/verdialabs/verdia/internal/batch"
	"github.com/verdialabs/verdia/internal/budget"
	"github.com/verdialabs/verdia/internal/greenfactor"
)

// stubAnalyzer fabricates results and fails cells whose centroid
// matches a marker polygon count.
type stubAnalyzer struct {
	calls    atomic.Int32
	failWhen func(req analysis.Request) bool
	delay    time.Duration
}

func (s *stubAnalyzer) Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.failWhen != nil && s.failWhen(req) {
		return nil, errors.New("provider unavailable")
	}
	return &analysis.Result{
		ID:          "00000000-0000-0000-0000-000000000001",
		GreenFactor: &greenfactor.Score{Factor: 0.65, Compliant: true},
		Budget:      &budget.Breakdown{NetCostEUR: 2926},
		GreenScore:  61.5,
	}, nil
}

func testGrid(names ...string) batch.GridConfig {
	cells := make([]batch.Cell, 0, len(names))
	for _, name := range names {
		cells = append(cells, batch.Cell{
			Name:    name,
			Polygon: batch.DefaultMadridGrids()[0].Cells[0].Polygon,
			Context: greenfactor.Context{},
		})
	}
	return batch.GridConfig{
		Grids:       []batch.Grid{{Name: "test", Cells: cells}},
		Concurrency: 2,
		Timeout:     time.Second,
	}
}

func TestDefaultGridConfig(t *testing.T) {
	cfg := batch.DefaultGridConfig()

	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.NotEmpty(t, cfg.Grids)
	assert.Greater(t, cfg.TotalCells(), 5)
	assert.Len(t, cfg.AllCells(), cfg.TotalCells())
}

func TestDefaultMadridGrids_CenterFirst(t *testing.T) {
	grids := batch.DefaultMadridGrids()

	var centro *batch.Grid
	for i := range grids {
		if grids[i].Name == "Centro" {
			centro = &grids[i]
			break
		}
	}
	require.NotNil(t, centro)
	assert.Equal(t, 1, centro.Priority)
	assert.GreaterOrEqual(t, len(centro.Cells), 2)

	for _, cell := range centro.Cells {
		// Cells are closed rings.
		ring := cell.Polygon
		require.GreaterOrEqual(t, len(ring), 5)
		assert.Equal(t, ring[0], ring[len(ring)-1])
	}
}

func TestRunner_Run_AllCellsSucceed(t *testing.T) {
	stub := &stubAnalyzer{}
	runner := batch.NewRunner(batch.RunnerConfig{
		Config:   testGrid("a", "b", "c", "d"),
		Analyzer: stub,
		Logger:   zerolog.Nop(),
	})

	result := runner.Run(context.Background())

	assert.Equal(t, 4, result.TotalCells)
	assert.Equal(t, 4, result.Successful)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 4, result.Compliant)
	assert.Len(t, result.Analyses, 4)
	assert.Empty(t, result.Errors)
	assert.Equal(t, int32(4), stub.calls.Load())
}

func TestRunner_Run_CellFailureDoesNotAbortSiblings(t *testing.T) {
	var fails atomic.Int32
	stub := &stubAnalyzer{
		failWhen: func(analysis.Request) bool {
			// Fail exactly one call.
			return fails.Add(1) == 1
		},
	}
	runner := batch.NewRunner(batch.RunnerConfig{
		Config:   testGrid("a", "b", "c", "d", "e"),
		Analyzer: stub,
		Logger:   zerolog.Nop(),
	})

	result := runner.Run(context.Background())

	assert.Equal(t, 4, result.Successful)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error, "provider unavailable")
	assert.Equal(t, int32(5), stub.calls.Load())
}

func TestRunner_Metrics(t *testing.T) {
	runner := batch.NewRunner(batch.RunnerConfig{
		Config:   testGrid("a", "b"),
		Analyzer: &stubAnalyzer{},
		Logger:   zerolog.Nop(),
	})

	_ = runner.Run(context.Background())
	_ = runner.Run(context.Background())

	m := runner.GetMetrics()
	assert.Equal(t, int64(2), m.TotalRuns)
	assert.Equal(t, int64(4), m.SuccessfulCells)
	assert.Equal(t, int64(0), m.FailedCells)
	assert.NotZero(t, m.LastRunAt)

	snapshot := runner.MetricsSnapshot()
	assert.Contains(t, snapshot, "total_runs")
	assert.Contains(t, snapshot, "successful_cells")
	assert.Contains(t, snapshot, "failed_cells")
	assert.Contains(t, snapshot, "compliant_cells")
	assert.Contains(t, snapshot, "last_run_duration")
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	stub := &stubAnalyzer{delay: 10 * time.Millisecond}
	names := make([]string, 50)
	for i := range names {
		names[i] = "cell"
	}
	runner := batch.NewRunner(batch.RunnerConfig{
		Config:   testGrid(names...),
		Analyzer: stub,
		Logger:   zerolog.Nop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := runner.Run(ctx)

	require.NotNil(t, result)
	assert.Less(t, result.Successful+result.Failed, 50)
}

func TestNewRunner_Defaults(t *testing.T) {
	runner := batch.NewRunner(batch.RunnerConfig{
		Analyzer: &stubAnalyzer{},
		Logger:   zerolog.Nop(),
	})

	m := runner.GetMetrics()
	assert.Equal(t, int64(0), m.TotalRuns)
}
