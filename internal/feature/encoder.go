// Package feature turns employee records into the model's input vector.
package feature

import (
	"SalarySentinel/internal/model"
)

// Encoder builds FeatureVectors in a fixed column order.
type Encoder struct {
	catalog *model.JobCatalog
}

// NewEncoder returns an encoder whose one-hot block follows catalog order.
func NewEncoder(catalog *model.JobCatalog) *Encoder {
	return &Encoder{catalog: catalog}
}

// Width is the length of every vector this encoder produces.
func (e *Encoder) Width() int {
	return len(model.ContinuousFeatureNames) + e.catalog.Len()
}

// Catalog returns the job catalog backing the one-hot block.
func (e *Encoder) Catalog() *model.JobCatalog { return e.catalog }

// Names returns the column names in vector order.
func (e *Encoder) Names() []string {
	names := make([]string, 0, e.Width())
	names = append(names, model.ContinuousFeatureNames...)
	for _, t := range e.catalog.Titles() {
		names = append(names, "job_title_"+string(t))
	}
	return names
}

// Encode maps rec into a FeatureVector. A title outside the catalog is an
// error; it is never encoded as an all-zero block.
func (e *Encoder) Encode(rec model.EmployeeRecord) (model.FeatureVector, error) {
	idx, err := e.catalog.IndexOf(rec.JobTitle)
	if err != nil {
		return nil, err
	}
	v := make(model.FeatureVector, e.Width())
	v[0] = rec.PayGrade
	v[1] = rec.PayStep
	v[2] = rec.ScheduledHours
	v[3] = rec.LongevityPercentage
	v[4] = rec.TotalHourlyRate
	v[5] = rec.OvertimeRatio
	v[len(model.ContinuousFeatureNames)+idx] = 1
	return v, nil
}
