package greenfactor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdialabs/verdia/internal/standards"
)

func TestEvaluate_FullyGreenIntensiveSouth(t *testing.T) {
	tables := standards.Madrid2024()

	score, err := Evaluate(tables, 100, 100, Context{
		RoofType:       standards.RoofIntensive,
		Orientation:    standards.OrientationS,
		Infrastructure: standards.InfraIntensiveRoof,
	})
	require.NoError(t, err)

	// Ct=1.0, Co=1.0, Ci=1.0, Sgreen/Stotal=1.0
	assert.InDelta(t, 1.0, score.Factor, 1e-9)
	assert.True(t, score.MeetsExtensiveMin)
	assert.True(t, score.MeetsIntensiveMin)
	assert.True(t, score.Compliant)
}

func TestEvaluate_ExtensiveNorthFacing(t *testing.T) {
	tables := standards.Madrid2024()

	score, err := Evaluate(tables, 200, 180, Context{
		RoofType:       standards.RoofExtensive,
		Orientation:    standards.OrientationN,
		Infrastructure: standards.InfraExtensiveRoof,
	})
	require.NoError(t, err)

	// 0.75 * 0.70 * 0.60 * 0.9 = 0.2835
	assert.InDelta(t, 0.2835, score.Factor, 1e-9)
	assert.False(t, score.Compliant)
}

func TestEvaluate_MonotoneInGreenArea(t *testing.T) {
	tables := standards.Madrid2024()
	ctx := Context{
		RoofType:       standards.RoofSemiIntensive,
		Orientation:    standards.OrientationSE,
		Infrastructure: standards.InfraShrubs,
	}

	var prev float64
	for _, green := range []float64{0, 50, 100, 150, 200} {
		score, err := Evaluate(tables, 200, green, ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score.Factor, prev)
		prev = score.Factor
	}
}

func TestEvaluate_GreenAreaClampedToTotal(t *testing.T) {
	tables := standards.Madrid2024()
	ctx := Context{
		RoofType:       standards.RoofIntensive,
		Orientation:    standards.OrientationS,
		Infrastructure: standards.InfraIntensiveRoof,
	}

	capped, err := Evaluate(tables, 100, 150, ctx)
	require.NoError(t, err)
	exact, err := Evaluate(tables, 100, 100, ctx)
	require.NoError(t, err)
	assert.Equal(t, exact.Factor, capped.Factor)
}

func TestEvaluate_Errors(t *testing.T) {
	tables := standards.Madrid2024()

	_, err := Evaluate(tables, 0, 0, Context{
		RoofType:       standards.RoofExtensive,
		Orientation:    standards.OrientationS,
		Infrastructure: standards.InfraExtensiveRoof,
	})
	assert.Error(t, err)

	_, err = Evaluate(tables, 100, 50, Context{
		RoofType:       "thatched",
		Orientation:    standards.OrientationS,
		Infrastructure: standards.InfraExtensiveRoof,
	})
	assert.True(t, errors.Is(err, standards.ErrUnknownCoefficient))
}
