// Package engine runs the encode → predict → classify → derive pipeline.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"SalarySentinel/internal/anomaly"
	"SalarySentinel/internal/calculator"
	"SalarySentinel/internal/feature"
	"SalarySentinel/internal/model"
	"SalarySentinel/internal/predictor"
)

// Options are the read-only collaborators of an Engine.
type Options struct {
	Catalog   *model.JobCatalog
	Model     predictor.Model
	ModelName string
	Transform calculator.Transform
	Policy    model.ThresholdPolicy
	Residuals []float64
	// ResidualStd is reported by Describe; it defaults to Policy.ResidualStd.
	ResidualStd float64
	Now         func() time.Time
}

// Engine evaluates employee records. It has no mutable state after New, so a
// single Engine may be shared across goroutines.
type Engine struct {
	encoder     *feature.Encoder
	adapter     *predictor.Adapter
	modelName   string
	transform   calculator.Transform
	policy      model.ThresholdPolicy
	residuals   []float64
	residualStd float64
	threshold   float64
	now         func() time.Time
}

// PolicyInfo summarises the engine configuration for display.
type PolicyInfo struct {
	Model        string  `json:"model"`
	Transform    string  `json:"transform"`
	Policy       string  `json:"policy"`
	PolicyKind   string  `json:"policy_kind"`
	Threshold    float64 `json:"threshold"`
	ResidualStd  float64 `json:"residual_std,omitempty"`
	SampleSize   int     `json:"sample_size"`
	FeatureCount int     `json:"feature_count"`
}

// New validates opts and builds an Engine. Setup problems that would make
// every evaluation fail are reported here.
func New(opts Options) (*Engine, error) {
	if opts.Catalog == nil {
		return nil, errors.New("engine: job catalog is required")
	}
	if _, err := calculator.ParseTransform(string(opts.Transform)); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ResidualStd == 0 {
		opts.ResidualStd = opts.Policy.ResidualStd
	}
	residuals := make([]float64, len(opts.Residuals))
	copy(residuals, opts.Residuals)

	e := &Engine{
		encoder:     feature.NewEncoder(opts.Catalog),
		adapter:     predictor.NewAdapter(opts.Model, opts.Transform),
		modelName:   opts.ModelName,
		transform:   opts.Transform,
		residuals:   residuals,
		residualStd: opts.ResidualStd,
		now:         opts.Now,
	}
	if err := e.setPolicy(opts.Policy); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) setPolicy(p model.ThresholdPolicy) error {
	th, err := anomaly.ResolveThreshold(p, e.residuals)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	e.policy = p
	e.threshold = th
	return nil
}

// WithPolicy returns a copy of e that classifies with p.
func (e *Engine) WithPolicy(p model.ThresholdPolicy) (*Engine, error) {
	cp := *e
	if p.Kind == model.PolicyFixedStd && p.ResidualStd == 0 {
		p.ResidualStd = e.residualStd
	}
	if err := cp.setPolicy(p); err != nil {
		return nil, err
	}
	return &cp, nil
}

// Policy returns the threshold policy in effect.
func (e *Engine) Policy() model.ThresholdPolicy { return e.policy }

// Encoder exposes the feature encoder, e.g. to check a model artifact's schema.
func (e *Engine) Encoder() *feature.Encoder { return e.encoder }

// Describe reports the configuration the engine evaluates with.
func (e *Engine) Describe() PolicyInfo {
	return PolicyInfo{
		Model:        e.modelName,
		Transform:    string(e.transform),
		Policy:       e.policy.Label(),
		PolicyKind:   string(e.policy.Kind),
		Threshold:    e.threshold,
		ResidualStd:  e.residualStd,
		SampleSize:   len(e.residuals),
		FeatureCount: e.encoder.Width(),
	}
}

// Evaluate runs the full pipeline for one record. On error no partial
// result is returned.
func (e *Engine) Evaluate(rec model.EmployeeRecord) (*model.Evaluation, error) {
	title, err := model.ParseJobTitle(string(rec.JobTitle))
	if err != nil {
		return nil, err
	}
	rec.JobTitle = title
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	features, err := e.encoder.Encode(rec)
	if err != nil {
		return nil, err
	}
	pred, err := e.adapter.Predict(features)
	if err != nil {
		return nil, err
	}
	verdict, err := anomaly.Classify(rec.ActualSalary, *pred, e.policy, e.residuals, e.transform)
	if err != nil {
		return nil, err
	}
	derived, err := calculator.Derive(rec, *pred)
	if err != nil {
		return nil, err
	}
	return &model.Evaluation{
		ID:          uuid.New(),
		EvaluatedAt: e.now(),
		Record:      rec,
		Prediction:  *pred,
		Verdict:     *verdict,
		Derived:     *derived,
	}, nil
}
