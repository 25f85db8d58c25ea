// Package anomaly decides whether an actual salary is too far from the
// model's prediction.
package anomaly

import (
	"fmt"
	"math"

	"SalarySentinel/internal/calculator"
	"SalarySentinel/internal/model"
)

// ResolveThreshold turns a policy into a log-space threshold. sample is only
// read by the percentile policy; its absolute values are used.
func ResolveThreshold(policy model.ThresholdPolicy, sample []float64) (float64, error) {
	if err := policy.Validate(); err != nil {
		return 0, err
	}
	switch policy.Kind {
	case model.PolicyFixedStd:
		return policy.Multiplier * policy.ResidualStd, nil
	case model.PolicyPercentile:
		if len(sample) == 0 {
			return 0, fmt.Errorf("%w: percentile policy needs historical residuals", model.ErrEmptyResidualSample)
		}
		return calculator.Percentile(calculator.AbsAll(sample), policy.Percentile)
	}
	return 0, fmt.Errorf("%w: unknown kind %q", model.ErrInvalidPolicy, policy.Kind)
}

// Classify compares actual against pred in log space. The transform must be
// the one the prediction's log value was produced under.
func Classify(actual float64, pred model.PredictionResult, policy model.ThresholdPolicy, sample []float64, tf calculator.Transform) (*model.AnomalyVerdict, error) {
	actualLog, err := tf.Forward(actual)
	if err != nil {
		return nil, err
	}
	threshold, err := ResolveThreshold(policy, sample)
	if err != nil {
		return nil, err
	}
	dev, err := calculator.PercentDeviation(actual, pred.Salary)
	if err != nil {
		return nil, err
	}

	residual := actualLog - pred.LogSalary
	absResidual := math.Abs(residual)
	isAnomaly := absResidual > threshold

	direction := model.DirectionWithin
	if isAnomaly {
		direction = model.DirectionOver
		if residual < 0 {
			direction = model.DirectionUnder
		}
	}

	return &model.AnomalyVerdict{
		ActualLog:        actualLog,
		PredictedLog:     pred.LogSalary,
		Residual:         residual,
		AbsResidual:      absResidual,
		Threshold:        threshold,
		Policy:           policy.Label(),
		DollarResidual:   actual - pred.Salary,
		PercentDeviation: dev,
		LowerBound:       tf.Inverse(pred.LogSalary - threshold),
		UpperBound:       tf.Inverse(pred.LogSalary + threshold),
		IsAnomaly:        isAnomaly,
		Direction:        direction,
	}, nil
}
