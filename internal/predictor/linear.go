package predictor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"SalarySentinel/internal/model"
)

// LinearModel is an intercept plus one coefficient per feature.
type LinearModel struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

func (m *LinearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, fmt.Errorf("%w: model expects %d features, got %d",
			model.ErrFeatureMismatch, len(m.Coefficients), len(features))
	}
	return m.Intercept + floats.Dot(m.Coefficients, features), nil
}
