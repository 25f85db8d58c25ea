package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalJobTitles(t *testing.T) {
	titles := CanonicalJobTitles()
	require.Len(t, titles, 17)
	assert.Equal(t, JobDisplacedDisasterWorker, titles[0])
	assert.Equal(t, JobPoliceOfficer, titles[13])

	titles[0] = "mutated"
	assert.Equal(t, JobDisplacedDisasterWorker, CanonicalJobTitles()[0])
}

func TestParseJobTitle(t *testing.T) {
	got, err := ParseJobTitle("  police officer ")
	require.NoError(t, err)
	assert.Equal(t, JobPoliceOfficer, got)

	_, err = ParseJobTitle("Astronaut")
	assert.ErrorIs(t, err, ErrUnknownJobTitle)
}

func TestNewJobCatalog(t *testing.T) {
	c, err := NewJobCatalog(nil)
	require.NoError(t, err)
	assert.Equal(t, 17, c.Len())

	i, err := c.IndexOf(JobSeniorClericalSpecialist)
	require.NoError(t, err)
	assert.Equal(t, 16, i)

	_, err = NewJobCatalog([]JobTitle{JobLaborer, JobLaborer})
	assert.Error(t, err)

	_, err = NewJobCatalog([]JobTitle{"Wizard"})
	assert.ErrorIs(t, err, ErrUnknownJobTitle)

	_, err = CatalogFromStrings([]string{"Laborer", "Wizard"})
	assert.ErrorIs(t, err, ErrUnknownJobTitle)
}

func TestRecordValidate(t *testing.T) {
	ok := EmployeeRecord{TotalHourlyRate: 30, ScheduledHours: 40, JobTitle: JobLaborer, ActualSalary: 1}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.PayStep = -1
	assert.ErrorIs(t, bad.Validate(), ErrInvalidRecord)

	bad = ok
	bad.ActualSalary = -5
	assert.ErrorIs(t, bad.Validate(), ErrInvalidRecord)
}

func TestOvertimeRatioFromRates(t *testing.T) {
	assert.InDelta(t, 1.5, OvertimeRatioFromRates(45, 30), 1e-12)
	assert.Equal(t, 0.0, OvertimeRatioFromRates(45, 0))
}

func TestPolicyValidate(t *testing.T) {
	assert.NoError(t, FixedStdPolicy(0.076563, 3).Validate())
	assert.NoError(t, FixedStdPolicy(0.076563, 2).Validate())
	assert.ErrorIs(t, FixedStdPolicy(0.076563, 4).Validate(), ErrInvalidPolicy)
	assert.ErrorIs(t, FixedStdPolicy(0, 3).Validate(), ErrInvalidPolicy)

	assert.NoError(t, PercentilePolicy(90).Validate())
	assert.NoError(t, PercentilePolicy(99).Validate())
	assert.ErrorIs(t, PercentilePolicy(89.9).Validate(), ErrInvalidPercentile)
	assert.ErrorIs(t, PercentilePolicy(99.5).Validate(), ErrInvalidPercentile)
	assert.ErrorIs(t, PercentilePolicy(math.NaN()).Validate(), ErrInvalidPercentile)
	assert.ErrorIs(t, FixedStdPolicy(math.Inf(1), 3).Validate(), ErrInvalidPolicy)
	assert.ErrorIs(t, FixedStdPolicy(math.NaN(), 3).Validate(), ErrInvalidPolicy)

	assert.ErrorIs(t, ThresholdPolicy{Kind: "zscore"}.Validate(), ErrInvalidPolicy)

	assert.Equal(t, "3×std", FixedStdPolicy(0.1, 3).Label())
	assert.Equal(t, "p95", PercentilePolicy(95).Label())
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "unknown_job_title", ErrorCode(ErrUnknownJobTitle))
	_, err := ParseJobTitle("x")
	assert.Equal(t, "unknown_job_title", ErrorCode(err))
	assert.Equal(t, "model_unavailable", ErrorCode(ErrModelUnavailable))
	assert.Equal(t, "internal", ErrorCode(assert.AnError))
}
