package siteconditions

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdialabs/verdia/internal/geo"
)

type mockProvider struct {
	name      string
	response  *Conditions
	err       error
	callCount atomic.Int32
}

func (m *mockProvider) Assess(_ context.Context, _ Request) (*Conditions, error) {
	m.callCount.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	copied := *m.response
	return &copied, nil
}

func (m *mockProvider) Name() string {
	return m.name
}

func testRequest() Request {
	return Request{
		Polygon: geo.Polygon{
			{Lon: -3.70, Lat: 40.41},
			{Lon: -3.699, Lat: 40.41},
			{Lon: -3.699, Lat: 40.411},
			{Lon: -3.70, Lat: 40.411},
			{Lon: -3.70, Lat: 40.41},
		},
		AreaM2:   250.5,
		Centroid: geo.Coordinate{Lon: -3.6995, Lat: 40.4105},
	}
}

func TestSimulator_Deterministic(t *testing.T) {
	sim := NewSimulator()
	req := testRequest()

	first, err := sim.Assess(context.Background(), req)
	require.NoError(t, err)
	second, err := sim.Assess(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSimulator_SegmentationSumsTo100(t *testing.T) {
	sim := NewSimulator()
	c, err := sim.Assess(context.Background(), testRequest())
	require.NoError(t, err)

	seg := c.Segmentation
	total := seg.AsphaltPct + seg.GravelPct + seg.VegetationPct + seg.ObstaclesPct
	assert.InDelta(t, 100, total, 0.05)
	assert.InDelta(t, 100-seg.ObstaclesPct, seg.UsablePct(), 1e-9)

	assert.GreaterOrEqual(t, c.NDVI, 0.10)
	assert.LessOrEqual(t, c.NDVI, 0.40)
	assert.False(t, c.DegradedConfidence)
	assert.Equal(t, "simulated", c.Source)
}

func TestClassifyExposure(t *testing.T) {
	tests := []struct {
		hours float64
		want  SunExposure
	}{
		{2400, ExposureDirectSun},
		{2200, ExposureDirectSun},
		{2000, ExposureMixed},
		{1800, ExposureMixed},
		{1500, ExposureShade},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ClassifyExposure(tc.hours))
	}
}

func TestService_FallbackOnPrimaryFailure(t *testing.T) {
	primary := &mockProvider{name: "vision", err: errors.New("upstream 503")}

	service := NewService(ServiceConfig{
		Primary:  primary,
		Timeout:  time.Second,
		CacheTTL: -1,
	})

	c, err := service.Assess(context.Background(), testRequest())
	require.NoError(t, err)

	assert.True(t, c.DegradedConfidence)
	assert.Equal(t, "simulated", c.Source)
	assert.Equal(t, int32(1), primary.callCount.Load())
}

func TestService_PrimarySuccessKeepsConfidence(t *testing.T) {
	primary := &mockProvider{
		name: "vision",
		response: &Conditions{
			Segmentation:   Segmentation{AsphaltPct: 30, GravelPct: 50, VegetationPct: 10, ObstaclesPct: 10},
			SunExposure:    ExposureDirectSun,
			AnnualSunHours: 2300,
			Source:         "vision",
		},
	}

	service := NewService(ServiceConfig{Primary: primary, CacheTTL: -1})

	c, err := service.Assess(context.Background(), testRequest())
	require.NoError(t, err)

	assert.False(t, c.DegradedConfidence)
	assert.Equal(t, "vision", c.Source)
}

func TestService_CacheHit(t *testing.T) {
	primary := &mockProvider{
		name: "vision",
		response: &Conditions{
			SunExposure: ExposureMixed,
			Source:      "vision",
		},
	}

	service := NewService(ServiceConfig{
		Primary:  primary,
		CacheTTL: 5 * time.Minute,
	})

	req := testRequest()
	_, err := service.Assess(context.Background(), req)
	require.NoError(t, err)
	_, err = service.Assess(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int32(1), primary.callCount.Load())
}
