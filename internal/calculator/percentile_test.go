package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SalarySentinel/internal/model"
)

func hundredths(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i+1) / 100
	}
	return out
}

func TestPercentile_LinearInterpolation(t *testing.T) {
	sample := hundredths(30) // 0.01 .. 0.30

	tests := []struct {
		p    float64
		want float64
	}{
		{99, 0.2971}, // h = 28.71
		{95, 0.2855}, // h = 27.55
		{90, 0.2710}, // h = 26.1
		{0, 0.01},
		{100, 0.30},
		{50, 0.155},
	}
	for _, tt := range tests {
		got, err := Percentile(sample, tt.p)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-12, "p=%g", tt.p)
	}
}

func TestPercentile_UnsortedInputUntouched(t *testing.T) {
	sample := []float64{0.3, 0.1, 0.2}
	got, err := Percentile(sample, 50)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, got, 1e-12)
	assert.Equal(t, []float64{0.3, 0.1, 0.2}, sample)
}

func TestPercentile_Deterministic(t *testing.T) {
	sample := []float64{0.05, 0.21, 0.01, 0.13, 0.08, 0.34, 0.02}
	first, err := Percentile(sample, 97)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Percentile(sample, 97)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPercentile_Errors(t *testing.T) {
	_, err := Percentile(nil, 95)
	assert.ErrorIs(t, err, model.ErrEmptyResidualSample)

	_, err = Percentile([]float64{1}, 101)
	assert.Error(t, err)
}

func TestPercentile_SingleValue(t *testing.T) {
	got, err := Percentile([]float64{0.42}, 99)
	require.NoError(t, err)
	assert.Equal(t, 0.42, got)
}

func TestAbsAll(t *testing.T) {
	assert.Equal(t, []float64{0.1, 0.2, 0}, AbsAll([]float64{-0.1, 0.2, 0}))
}
