package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SalarySentinel/internal/model"
)

func newCanonicalEncoder(t *testing.T) *Encoder {
	t.Helper()
	cat, err := model.NewJobCatalog(nil)
	require.NoError(t, err)
	return NewEncoder(cat)
}

func TestEncode_ContinuousOrder(t *testing.T) {
	enc := newCanonicalEncoder(t)
	rec := model.EmployeeRecord{
		TotalHourlyRate:     30,
		ScheduledHours:      40,
		OvertimeRatio:       0.1,
		PayGrade:            2500,
		PayStep:             5,
		LongevityPercentage: 0.02,
		JobTitle:            model.JobPoliceOfficer,
		ActualSalary:        50000,
	}
	v, err := enc.Encode(rec)
	require.NoError(t, err)
	require.Len(t, v, 6+17)
	assert.Equal(t, []float64{2500, 5, 40, 0.02, 30, 0.1}, []float64(v[:6]))
}

func TestEncode_OneHotForEveryTitle(t *testing.T) {
	enc := newCanonicalEncoder(t)
	for i, title := range model.CanonicalJobTitles() {
		v, err := enc.Encode(model.EmployeeRecord{JobTitle: title})
		require.NoError(t, err, title)

		hot := v.OneHot()
		require.Len(t, hot, 17)
		ones := 0
		for j, x := range hot {
			if x == 1 {
				ones++
				assert.Equal(t, i, j, "title %q landed at wrong position", title)
			} else {
				assert.Equal(t, 0.0, x)
			}
		}
		assert.Equal(t, 1, ones, "title %q", title)
	}
}

func TestEncode_UnknownTitle(t *testing.T) {
	enc := newCanonicalEncoder(t)
	for _, title := range []model.JobTitle{"", "Mayor", "police officer ", "Chief of Police"} {
		v, err := enc.Encode(model.EmployeeRecord{JobTitle: title})
		assert.ErrorIs(t, err, model.ErrUnknownJobTitle, "title %q", title)
		assert.Nil(t, v)
	}
}

func TestEncode_CustomCatalogOrder(t *testing.T) {
	cat, err := model.NewJobCatalog([]model.JobTitle{model.JobLaborer, model.JobFirefighter})
	require.NoError(t, err)
	enc := NewEncoder(cat)
	assert.Equal(t, 8, enc.Width())

	v, err := enc.Encode(model.EmployeeRecord{JobTitle: model.JobFirefighter})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, v.OneHot())

	_, err = enc.Encode(model.EmployeeRecord{JobTitle: model.JobPoliceOfficer})
	assert.ErrorIs(t, err, model.ErrUnknownJobTitle)
}

func TestNames(t *testing.T) {
	enc := newCanonicalEncoder(t)
	names := enc.Names()
	require.Len(t, names, enc.Width())
	assert.Equal(t, "pay_grade", names[0])
	assert.Equal(t, "overtime_ratio", names[5])
	assert.Equal(t, "job_title_Displaced Disaster Worker", names[6])
	assert.Equal(t, "job_title_Senior Clerical Specialist", names[len(names)-1])
}
