package analysis

import (
	"math"
	"math/rand"
	"testing"

	apperrors "whrlab/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate"
)

func normalSample(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = 5.5 + 1.1*rng.NormFloat64()
	}
	return out
}

func TestKDEEstimate_IntegratesToOne(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		factor float64
	}{
		{"normal", normalSample(500, 1), DefaultBandwidthFactor},
		{"small", []float64{4.1, 5.0, 5.2, 6.8, 7.3}, DefaultBandwidthFactor},
		{"wide bandwidth", normalSample(200, 2), 1},
		{"narrow bandwidth", normalSample(200, 3), 0.05},
		{"two points", []float64{1, 2}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xs, density, err := KDEEstimate(tt.values, tt.factor)
			require.NoError(t, err)
			require.Len(t, xs, KDEPoints)
			require.Len(t, density, KDEPoints)

			assert.InDelta(t, 1.0, integrate.Trapezoidal(xs, density), 0.05)
			for _, d := range density {
				assert.GreaterOrEqual(t, d, 0.0)
			}
		})
	}
}

func TestKDEEstimate_SpansSampleRange(t *testing.T) {
	values := []float64{3, 9, 4, 7}
	xs, _, err := KDEEstimate(values, DefaultBandwidthFactor)
	require.NoError(t, err)

	assert.Equal(t, 3.0, xs[0])
	assert.InDelta(t, 9.0, xs[len(xs)-1], 1e-9)
	for i := 1; i < len(xs); i++ {
		assert.Greater(t, xs[i], xs[i-1])
	}
}

func TestKDEEstimate_Deterministic(t *testing.T) {
	values := normalSample(300, 9)

	xs1, d1, err := KDEEstimate(values, 0.3)
	require.NoError(t, err)
	xs2, d2, err := KDEEstimate(values, 0.3)
	require.NoError(t, err)

	assert.Equal(t, xs1, xs2)
	assert.Equal(t, d1, d2)
}

func TestKDEEstimate_IgnoresMissing(t *testing.T) {
	clean := []float64{1, 2, 4, 8}
	withNaN := []float64{1, math.NaN(), 2, 4, math.NaN(), 8}

	_, a, err := KDEEstimate(clean, DefaultBandwidthFactor)
	require.NoError(t, err)
	_, b, err := KDEEstimate(withNaN, DefaultBandwidthFactor)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestKDEEstimate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		factor float64
		code   string
	}{
		{"empty", nil, DefaultBandwidthFactor, apperrors.CodeInsufficientData},
		{"all missing", []float64{math.NaN()}, DefaultBandwidthFactor, apperrors.CodeInsufficientData},
		{"single value", []float64{3}, DefaultBandwidthFactor, apperrors.CodeInsufficientData},
		{"constant", []float64{3, 3, 3}, DefaultBandwidthFactor, apperrors.CodeInsufficientData},
		{"zero factor", []float64{1, 2}, 0, apperrors.CodeInvalidInput},
		{"factor above one", []float64{1, 2}, 1.5, apperrors.CodeInvalidInput},
		{"NaN factor", []float64{1, 2}, math.NaN(), apperrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := KDEEstimate(tt.values, tt.factor)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.GetCode(err))
		})
	}
}

func TestEstimateDensity_Bandwidth(t *testing.T) {
	// sample std of 1..5 is sqrt(2.5)
	d, err := EstimateDensity([]float64{1, 2, 3, 4, 5}, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.5*math.Sqrt(2.5), d.Bandwidth, 1e-12)
	assert.InDelta(t, 1.0, d.Area(), 1e-9)
}
