package model

// ContinuousFeatureNames is the fixed order of the numeric block of a FeatureVector.
var ContinuousFeatureNames = []string{
	"pay_grade",
	"pay_step",
	"scheduled_hours",
	"longevity_percentage",
	"total_hourly_rate",
	"overtime_ratio",
}

// FeatureVector is the model input: the continuous block followed by the
// one-hot job title block.
type FeatureVector []float64

// OneHot returns the job title block of v.
func (v FeatureVector) OneHot() []float64 {
	if len(v) < len(ContinuousFeatureNames) {
		return nil
	}
	return v[len(ContinuousFeatureNames):]
}
