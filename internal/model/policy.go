package model

import (
	"fmt"
	"math"
)

// PolicyKind selects how the anomaly threshold is derived.
type PolicyKind string

const (
	PolicyFixedStd   PolicyKind = "fixed_std"
	PolicyPercentile PolicyKind = "percentile"
)

// Bounds on the percentile policy, inclusive.
const (
	MinPercentile = 90.0
	MaxPercentile = 99.0
)

// ThresholdPolicy describes how far, in log-salary units, an actual salary may
// sit from the prediction before it is flagged.
type ThresholdPolicy struct {
	Kind        PolicyKind `json:"kind" yaml:"policy"`
	ResidualStd float64    `json:"residual_std,omitempty" yaml:"residual_std"`
	Multiplier  float64    `json:"multiplier,omitempty" yaml:"multiplier"`
	Percentile  float64    `json:"percentile,omitempty" yaml:"percentile"`
}

// FixedStdPolicy returns a policy of multiplier × std.
func FixedStdPolicy(std, multiplier float64) ThresholdPolicy {
	return ThresholdPolicy{Kind: PolicyFixedStd, ResidualStd: std, Multiplier: multiplier}
}

// PercentilePolicy returns a policy reading the p-th percentile of historical residuals.
func PercentilePolicy(p float64) ThresholdPolicy {
	return ThresholdPolicy{Kind: PolicyPercentile, Percentile: p}
}

// Validate checks the fields relevant to the policy kind.
func (p ThresholdPolicy) Validate() error {
	switch p.Kind {
	case PolicyFixedStd:
		if !(p.ResidualStd > 0) || math.IsInf(p.ResidualStd, 1) {
			return fmt.Errorf("%w: residual_std must be positive and finite, got %g", ErrInvalidPolicy, p.ResidualStd)
		}
		if p.Multiplier != 2 && p.Multiplier != 3 {
			return fmt.Errorf("%w: multiplier must be 2 or 3, got %g", ErrInvalidPolicy, p.Multiplier)
		}
	case PolicyPercentile:
		if !(p.Percentile >= MinPercentile && p.Percentile <= MaxPercentile) {
			return fmt.Errorf("%w: %g outside [%g, %g]", ErrInvalidPercentile, p.Percentile, MinPercentile, MaxPercentile)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPolicy, p.Kind)
	}
	return nil
}

// Label is a short human readable form, e.g. "3×std" or "p95".
func (p ThresholdPolicy) Label() string {
	if p.Kind == PolicyPercentile {
		return fmt.Sprintf("p%g", p.Percentile)
	}
	return fmt.Sprintf("%g×std", p.Multiplier)
}
