package predictor

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"SalarySentinel/internal/calculator"
	"SalarySentinel/internal/model"
)

// Artifact types.
const (
	ArtifactLinear       = "linear"
	ArtifactRandomForest = "random_forest"
)

// Artifact is the on-disk form of a trained model.
type Artifact struct {
	Type         string               `json:"type"`
	Transform    calculator.Transform `json:"transform"`
	FeatureNames []string             `json:"feature_names"`
	ResidualStd  float64              `json:"residual_std,omitempty"`
	Linear       *LinearModel         `json:"linear,omitempty"`
	Forest       *ForestModel         `json:"forest,omitempty"`
}

// LoadArtifact reads a JSON model artifact from disk.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read artifact: %v", model.ErrModelUnavailable, err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: parse artifact %s: %v", model.ErrModelUnavailable, path, err)
	}
	if _, err := a.Model(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Model returns the predictor held by the artifact.
func (a *Artifact) Model() (Model, error) {
	switch a.Type {
	case ArtifactLinear:
		if a.Linear == nil {
			return nil, fmt.Errorf("%w: linear artifact has no coefficients", model.ErrModelUnavailable)
		}
		return a.Linear, nil
	case ArtifactRandomForest:
		if a.Forest == nil || len(a.Forest.Trees) == 0 {
			return nil, fmt.Errorf("%w: forest artifact has no trees", model.ErrModelUnavailable)
		}
		return a.Forest, nil
	}
	return nil, fmt.Errorf("%w: unknown artifact type %q", model.ErrModelUnavailable, a.Type)
}

// Check verifies the artifact was trained with the same transform and
// feature columns the caller is about to use. Empty artifact fields are not
// checked.
func (a *Artifact) Check(t calculator.Transform, featureNames []string) error {
	if a.Transform != "" && a.Transform != t {
		return fmt.Errorf("%w: artifact trained with %s, configured %s", model.ErrTransformMismatch, a.Transform, t)
	}
	if len(a.FeatureNames) > 0 && !slices.Equal(a.FeatureNames, featureNames) {
		return fmt.Errorf("%w: artifact has %d columns, encoder produces %d",
			model.ErrFeatureMismatch, len(a.FeatureNames), len(featureNames))
	}
	return nil
}

// Name describes the model kind, e.g. for status displays.
func (a *Artifact) Name() string {
	switch a.Type {
	case ArtifactRandomForest:
		return fmt.Sprintf("random forest (%d trees)", len(a.Forest.Trees))
	case ArtifactLinear:
		return "linear regression"
	}
	return a.Type
}
