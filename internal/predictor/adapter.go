// Package predictor wraps an opaque regression model that predicts salaries
// in log space.
package predictor

import (
	"fmt"
	"math"

	"SalarySentinel/internal/calculator"
	"SalarySentinel/internal/model"
)

// Model predicts a log-space salary from a feature vector.
type Model interface {
	Predict(features []float64) (float64, error)
}

// ModelFunc adapts a plain function to Model.
type ModelFunc func(features []float64) (float64, error)

func (f ModelFunc) Predict(features []float64) (float64, error) { return f(features) }

// Adapter pairs a model with the transform its target was trained under.
type Adapter struct {
	model     Model
	transform calculator.Transform
}

// NewAdapter returns an adapter. A nil model is accepted so that callers get
// ErrModelUnavailable at prediction time rather than a panic.
func NewAdapter(m Model, t calculator.Transform) *Adapter {
	return &Adapter{model: m, transform: t}
}

// Transform returns the transform pair in use.
func (a *Adapter) Transform() calculator.Transform { return a.transform }

// Predict runs the model and converts its output to dollars.
func (a *Adapter) Predict(features model.FeatureVector) (*model.PredictionResult, error) {
	if a == nil || a.model == nil {
		return nil, fmt.Errorf("%w: no model loaded", model.ErrModelUnavailable)
	}
	logSalary, err := a.model.Predict(features)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrModelUnavailable, err)
	}
	if math.IsNaN(logSalary) || math.IsInf(logSalary, 0) {
		return nil, fmt.Errorf("%w: model returned %v", model.ErrModelUnavailable, logSalary)
	}
	salary := a.transform.Inverse(logSalary)
	if math.IsNaN(salary) || math.IsInf(salary, 0) {
		return nil, fmt.Errorf("%w: log prediction %g is out of range in dollars", model.ErrModelUnavailable, logSalary)
	}
	if a.transform == calculator.TransformLog && salary <= 0 {
		return nil, fmt.Errorf("%w: log prediction %g underflows to %g dollars", model.ErrModelUnavailable, logSalary, salary)
	}
	return &model.PredictionResult{
		LogSalary: logSalary,
		Salary:    salary,
	}, nil
}
