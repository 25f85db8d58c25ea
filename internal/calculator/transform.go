package calculator

import (
	"fmt"
	"math"
	"strings"

	"SalarySentinel/internal/model"
)

// Transform is a matched pair of salary ↔ log-space functions. A deployment
// uses exactly one pair for both the model target and the residuals.
type Transform string

const (
	// TransformLog is ln / exp.
	TransformLog Transform = "log"
	// TransformLog1p is ln(1+x) / exp(x)-1.
	TransformLog1p Transform = "log1p"
)

// ParseTransform accepts "log" or "log1p" (case-insensitive).
func ParseTransform(s string) (Transform, error) {
	switch Transform(strings.ToLower(strings.TrimSpace(s))) {
	case TransformLog:
		return TransformLog, nil
	case TransformLog1p:
		return TransformLog1p, nil
	}
	return "", fmt.Errorf("unknown transform %q (want log or log1p)", s)
}

// Forward maps a dollar salary into log space.
func (t Transform) Forward(salary float64) (float64, error) {
	switch t {
	case TransformLog:
		if salary <= 0 {
			return 0, fmt.Errorf("%w: log(%g) is undefined", model.ErrNonPositiveSalary, salary)
		}
		return math.Log(salary), nil
	case TransformLog1p:
		if salary <= -1 {
			return 0, fmt.Errorf("%w: log1p(%g) is undefined", model.ErrNonPositiveSalary, salary)
		}
		return math.Log1p(salary), nil
	}
	return 0, fmt.Errorf("unknown transform %q", string(t))
}

// Inverse maps a log-space value back to dollars.
func (t Transform) Inverse(v float64) float64 {
	if t == TransformLog1p {
		return math.Expm1(v)
	}
	return math.Exp(v)
}

func (t Transform) String() string { return string(t) }
