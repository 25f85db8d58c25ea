package engine

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SalarySentinel/internal/calculator"
	"SalarySentinel/internal/model"
	"SalarySentinel/internal/predictor"
)

var fixedNow = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func scenarioRecord(actual float64) model.EmployeeRecord {
	return model.EmployeeRecord{
		TotalHourlyRate:     30,
		ScheduledHours:      40,
		OvertimeRatio:       0.1,
		PayGrade:            2500,
		PayStep:             5,
		LongevityPercentage: 0,
		JobTitle:            model.JobPoliceOfficer,
		ActualSalary:        actual,
	}
}

func newEngine(t *testing.T, m predictor.Model, policy model.ThresholdPolicy, residuals []float64) *Engine {
	t.Helper()
	cat, err := model.NewJobCatalog(nil)
	require.NoError(t, err)
	e, err := New(Options{
		Catalog:   cat,
		Model:     m,
		ModelName: "mock",
		Transform: calculator.TransformLog,
		Policy:    policy,
		Residuals: residuals,
		Now:       func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return e
}

func mockModel(t *testing.T, dollars float64) predictor.Model {
	return predictor.ModelFunc(func(features []float64) (float64, error) {
		assert.Len(t, features, 23)
		return math.Log(dollars), nil
	})
}

func TestEvaluate_ScenarioA(t *testing.T) {
	e := newEngine(t, mockModel(t, 52000), model.FixedStdPolicy(0.076563, 3), nil)

	ev, err := e.Evaluate(scenarioRecord(50000))
	require.NoError(t, err)
	assert.InDelta(t, 52000, ev.Prediction.Salary, 1e-6)
	assert.InDelta(t, 0.229689, ev.Verdict.Threshold, 1e-9)
	assert.False(t, ev.Verdict.IsAnomaly)
	assert.Equal(t, 62400.0, ev.Derived.ExpectedFromHourly)
	assert.Equal(t, 0.0, ev.Derived.OvertimePremium)
	assert.InDelta(t, ev.Verdict.PercentDeviation, ev.Derived.PercentDeviation, 1e-12)
	assert.Equal(t, fixedNow, ev.EvaluatedAt)
	assert.NotEmpty(t, ev.ID.String())
}

func TestEvaluate_ScenarioB(t *testing.T) {
	e := newEngine(t, mockModel(t, 52000), model.FixedStdPolicy(0.076563, 3), nil)
	ev, err := e.Evaluate(scenarioRecord(120000))
	require.NoError(t, err)
	assert.True(t, ev.Verdict.IsAnomaly)
	assert.Equal(t, model.DirectionOver, ev.Verdict.Direction)
}

func TestEvaluate_StopsOnFirstError(t *testing.T) {
	called := false
	m := predictor.ModelFunc(func([]float64) (float64, error) {
		called = true
		return math.Log(52000), nil
	})
	e := newEngine(t, m, model.FixedStdPolicy(0.076563, 3), nil)

	rec := scenarioRecord(50000)
	rec.JobTitle = "Mayor"
	ev, err := e.Evaluate(rec)
	assert.ErrorIs(t, err, model.ErrUnknownJobTitle)
	assert.Nil(t, ev)
	assert.False(t, called, "model must not run for an unencodable record")

	ev, err = e.Evaluate(scenarioRecord(0))
	assert.ErrorIs(t, err, model.ErrNonPositiveSalary)
	assert.Nil(t, ev)

	rec = scenarioRecord(50000)
	rec.ScheduledHours = -1
	_, err = e.Evaluate(rec)
	assert.ErrorIs(t, err, model.ErrInvalidRecord)
}

func TestEvaluate_NormalizesJobTitle(t *testing.T) {
	e := newEngine(t, mockModel(t, 52000), model.FixedStdPolicy(0.076563, 3), nil)

	rec := scenarioRecord(50000)
	rec.JobTitle = "  POLICE officer "
	ev, err := e.Evaluate(rec)
	require.NoError(t, err)
	assert.Equal(t, model.JobPoliceOfficer, ev.Record.JobTitle)
}

func TestEvaluate_ModelUnavailable(t *testing.T) {
	e := newEngine(t, nil, model.FixedStdPolicy(0.076563, 3), nil)
	ev, err := e.Evaluate(scenarioRecord(50000))
	assert.ErrorIs(t, err, model.ErrModelUnavailable)
	assert.Nil(t, ev)
}

func TestNew_ValidatesUpFront(t *testing.T) {
	cat, err := model.NewJobCatalog(nil)
	require.NoError(t, err)

	_, err = New(Options{Catalog: cat, Transform: calculator.TransformLog, Policy: model.PercentilePolicy(95)})
	assert.ErrorIs(t, err, model.ErrEmptyResidualSample)

	_, err = New(Options{Catalog: cat, Transform: calculator.TransformLog, Policy: model.PercentilePolicy(80), Residuals: []float64{0.1}})
	assert.ErrorIs(t, err, model.ErrInvalidPercentile)

	_, err = New(Options{Catalog: cat, Transform: "sqrt", Policy: model.FixedStdPolicy(0.07, 3)})
	assert.Error(t, err)

	_, err = New(Options{Transform: calculator.TransformLog, Policy: model.FixedStdPolicy(0.07, 3)})
	assert.Error(t, err)
}

func TestWithPolicy(t *testing.T) {
	sample := []float64{0.01, 0.02, 0.03, 0.05, 0.08, 0.13, 0.21}
	e := newEngine(t, mockModel(t, 52000), model.FixedStdPolicy(0.076563, 3), sample)

	two, err := e.WithPolicy(model.ThresholdPolicy{Kind: model.PolicyFixedStd, Multiplier: 2})
	require.NoError(t, err)
	assert.InDelta(t, 0.153126, two.Describe().Threshold, 1e-9)
	assert.InDelta(t, 0.229689, e.Describe().Threshold, 1e-9, "original engine unchanged")

	pct, err := e.WithPolicy(model.PercentilePolicy(90))
	require.NoError(t, err)
	assert.Equal(t, "p90", pct.Describe().Policy)

	_, err = e.WithPolicy(model.PercentilePolicy(100))
	assert.ErrorIs(t, err, model.ErrInvalidPercentile)
}

func TestDescribe(t *testing.T) {
	e := newEngine(t, mockModel(t, 52000), model.FixedStdPolicy(0.076563, 3), nil)
	info := e.Describe()
	assert.Equal(t, "mock", info.Model)
	assert.Equal(t, "log", info.Transform)
	assert.Equal(t, "3×std", info.Policy)
	assert.Equal(t, 23, info.FeatureCount)
	assert.Equal(t, 0.076563, info.ResidualStd)
}

func TestEvaluate_SharedAcrossGoroutines(t *testing.T) {
	e := newEngine(t, mockModel(t, 52000), model.FixedStdPolicy(0.076563, 3), nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ev, err := e.Evaluate(scenarioRecord(50000))
			assert.NoError(t, err)
			if ev != nil {
				assert.False(t, ev.Verdict.IsAnomaly)
			}
		}()
	}
	wg.Wait()
}
