package calculator

import (
	"fmt"

	"SalarySentinel/internal/model"
)

// WeeksPerYear converts a weekly schedule into an annual figure.
const WeeksPerYear = 52

// ExpectedFromHourly returns hourly rate × weekly hours × 52.
func ExpectedFromHourly(hourlyRate, scheduledHours float64) float64 {
	return hourlyRate * scheduledHours * WeeksPerYear
}

// OvertimePremium returns the overtime premium as a percentage, 0 when the
// ratio does not exceed 1.0.
func OvertimePremium(overtimeRatio float64) float64 {
	if overtimeRatio <= 1.0 {
		return 0
	}
	return (overtimeRatio - 1.0) * 100
}

// PercentDeviation returns (actual - predicted) / predicted × 100.
func PercentDeviation(actual, predicted float64) (float64, error) {
	if predicted == 0 {
		return 0, fmt.Errorf("%w: predicted salary is zero", model.ErrUndefinedDeviation)
	}
	return (actual - predicted) / predicted * 100, nil
}

// Derive computes the informational metrics shown next to a verdict.
func Derive(rec model.EmployeeRecord, pred model.PredictionResult) (*model.DerivedMetrics, error) {
	dev, err := PercentDeviation(rec.ActualSalary, pred.Salary)
	if err != nil {
		return nil, err
	}
	return &model.DerivedMetrics{
		ExpectedFromHourly: ExpectedFromHourly(rec.TotalHourlyRate, rec.ScheduledHours),
		OvertimePremium:    OvertimePremium(rec.OvertimeRatio),
		PercentDeviation:   dev,
	}, nil
}
