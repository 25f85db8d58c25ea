package calculator

import (
	"errors"
	"math"
	"sort"

	"SalarySentinel/internal/model"
)

// Percentile returns the p-th percentile (0..100) of sample using linear
// interpolation between closest ranks: with the sample sorted ascending and
// h = (n-1)·p/100, the result is x[⌊h⌋] + (h-⌊h⌋)·(x[⌊h⌋+1] - x[⌊h⌋]).
// The input slice is not modified.
func Percentile(sample []float64, p float64) (float64, error) {
	if len(sample) == 0 {
		return 0, model.ErrEmptyResidualSample
	}
	if p < 0 || p > 100 || math.IsNaN(p) {
		return 0, errors.New("percentile must be within [0, 100]")
	}
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	h := float64(len(sorted)-1) * p / 100
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1], nil
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo]), nil
}

// AbsAll returns |x| for every element of sample.
func AbsAll(sample []float64) []float64 {
	out := make([]float64, len(sample))
	for i, v := range sample {
		out[i] = math.Abs(v)
	}
	return out
}
