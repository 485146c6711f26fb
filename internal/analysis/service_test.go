package analysis

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdialabs/verdia/internal/geo"
	"github.com/verdialabs/verdia/internal/greenfactor"
	"github.com/verdialabs/verdia/internal/specialization"
	"github.com/verdialabs/verdia/internal/standards"
)

type memRepository struct {
	mu    sync.Mutex
	items map[string]*Result
}

func newMemRepository() *memRepository {
	return &memRepository{items: make(map[string]*Result)}
}

func (m *memRepository) Save(_ context.Context, res *Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[res.ID] = res
	return nil
}

func (m *memRepository) GetByID(_ context.Context, id string) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return res, nil
}

func (m *memRepository) List(_ context.Context, _, _ int) ([]*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Result, 0, len(m.items))
	for _, res := range m.items {
		out = append(out, res)
	}
	return out, nil
}

// squareRing builds a closed square of the given side length centred
// near Puerta del Sol.
func squareRing(sideM float64) geo.Polygon {
	const lat, lon = 40.4168, -3.7038
	dLat := sideM / 111000
	dLon := sideM / (111320 * math.Cos(lat*math.Pi/180))
	return geo.Polygon{
		{Lon: lon, Lat: lat},
		{Lon: lon + dLon, Lat: lat},
		{Lon: lon + dLon, Lat: lat + dLat},
		{Lon: lon, Lat: lat + dLat},
		{Lon: lon, Lat: lat},
	}
}

func fixedClockService(repo Repository) *Service {
	return NewService(ServiceConfig{
		Repository: repo,
		Logger:     zerolog.Nop(),
		Now:        func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		NewID:      func() string { return "00000000-0000-0000-0000-000000000001" },
	})
}

func extensiveRoofRequest() Request {
	return Request{
		Polygon: squareRing(20),
		Context: greenfactor.Context{
			RoofType:       standards.RoofExtensive,
			Orientation:    standards.OrientationS,
			Infrastructure: standards.InfraExtensiveRoof,
		},
		SubstrateDepthCM: 10,
	}
}

func TestAnalyze_FullPipeline(t *testing.T) {
	repo := newMemRepository()
	svc := fixedClockService(repo)

	res, err := svc.Analyze(context.Background(), extensiveRoofRequest())
	require.NoError(t, err)

	require.NotNil(t, res.Geometry)
	assert.InDelta(t, 400, res.Geometry.AreaM2, 25)

	require.NotNil(t, res.Conditions)
	assert.Equal(t, "simulated", res.Conditions.Source)

	require.NotNil(t, res.GreenFactor)
	assert.Greater(t, res.GreenFactor.Factor, 0.0)

	assert.NotEmpty(t, res.Species)
	require.NotNil(t, res.Budget)
	assert.True(t, res.Budget.SubsidyEligible)
	assert.InDelta(t, 80, res.Budget.SubsidyPct, 0.001)

	require.NotNil(t, res.Benefits)
	assert.Greater(t, res.Benefits.TotalAnnualBenefitEUR, 0.0)

	require.NotNil(t, res.Financial)
	require.Len(t, res.Timeline, 25)

	assert.Greater(t, res.GreenScore, 0.0)
	assert.LessOrEqual(t, res.GreenScore, 100.0)

	// Persisted and retrievable.
	stored, err := svc.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, stored.ID)
}

func TestAnalyze_Idempotent(t *testing.T) {
	svc := fixedClockService(nil)
	req := extensiveRoofRequest()

	first, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyze_InvalidPolygon(t *testing.T) {
	svc := fixedClockService(nil)

	_, err := svc.Analyze(context.Background(), Request{
		Polygon: geo.Polygon{{Lon: -3.70, Lat: 40.42}, {Lon: -3.70, Lat: 40.42}},
		Context: greenfactor.Context{
			RoofType:       standards.RoofExtensive,
			Orientation:    standards.OrientationS,
			Infrastructure: standards.InfraExtensiveRoof,
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, geo.ErrInvalidGeometry)
}

func TestAnalyze_ZeroSpeciesIsAConclusion(t *testing.T) {
	svc := fixedClockService(nil)

	req := extensiveRoofRequest()
	req.Context.Infrastructure = standards.InfraVerticalGarden
	req.SubstrateDepthCM = 2 // below every vertical garden species minimum

	res, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Empty(t, res.Species)
	assert.NotEmpty(t, res.Warnings)
}

func TestSpecialize_FromStoredSnapshot(t *testing.T) {
	repo := newMemRepository()
	svc := fixedClockService(repo)

	base, err := svc.Analyze(context.Background(), extensiveRoofRequest())
	require.NoError(t, err)

	res, err := svc.Specialize(context.Background(), base.ID, specialization.TypeRoof, specialization.Params{
		RoofType:         standards.RoofExtensive,
		ConstructionYear: 1995,
	})
	require.NoError(t, err)

	assert.Equal(t, specialization.TypeRoof, res.Type)
	assert.InDelta(t, base.Geometry.AreaM2, res.Snapshot.AreaM2, 0.001)
	assert.Greater(t, res.TotalEUR, base.Budget.TotalInitialEUR)
}

func TestSpecialize_UnknownAnalysis(t *testing.T) {
	svc := fixedClockService(newMemRepository())

	_, err := svc.Specialize(context.Background(), "missing", specialization.TypeRoof, specialization.Params{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnalyze_SmallAreaWarning(t *testing.T) {
	svc := fixedClockService(nil)

	req := extensiveRoofRequest()
	req.Polygon = squareRing(5) // 25 m², below the 50 m² minimum

	res, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	found := false
	for _, w := range res.Warnings {
		if w == "Superficie inferior al mínimo subvencionable de 50 m²" {
			found = true
		}
	}
	assert.True(t, found)
}
