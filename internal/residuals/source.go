// Package residuals loads the historical log-space residuals that back the
// percentile threshold policy.
package residuals

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Source yields a sample of historical residuals. Values are returned as
// absolute log-space residuals.
type Source interface {
	Load() ([]float64, error)
	Name() string
}

// StaticSource serves a fixed in-memory sample.
type StaticSource struct {
	Values []float64
}

func NewStaticSource(values []float64) *StaticSource { return &StaticSource{Values: values} }

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Load() ([]float64, error) {
	out := make([]float64, len(s.Values))
	for i, v := range s.Values {
		out[i] = math.Abs(v)
	}
	return out, nil
}

// Summary describes a residual sample.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Max    float64 `json:"max"`
}

// Summarize returns count, mean, sample standard deviation and max.
func Summarize(sample []float64) Summary {
	s := Summary{Count: len(sample)}
	if len(sample) == 0 {
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(sample, nil)
	if len(sample) == 1 {
		s.StdDev = 0
	}
	s.Max = sample[0]
	for _, v := range sample[1:] {
		if v > s.Max {
			s.Max = v
		}
	}
	return s
}
