package model

import (
	"fmt"
	"math"
)

// EmployeeRecord holds the attributes of one employee being audited.
type EmployeeRecord struct {
	EmployeeID          string   `json:"employee_id,omitempty"`
	TotalHourlyRate     float64  `json:"total_hourly_rate"`
	ScheduledHours      float64  `json:"scheduled_hours"`
	OvertimeRatio       float64  `json:"overtime_ratio"`
	PayGrade            float64  `json:"pay_grade"`
	PayStep             float64  `json:"pay_step"`
	LongevityPercentage float64  `json:"longevity_percentage"`
	JobTitle            JobTitle `json:"job_title"`
	ActualSalary        float64  `json:"actual_salary"`
}

// Validate checks that every numeric attribute is finite and non-negative.
func (r EmployeeRecord) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"total_hourly_rate", r.TotalHourlyRate},
		{"scheduled_hours", r.ScheduledHours},
		{"overtime_ratio", r.OvertimeRatio},
		{"pay_grade", r.PayGrade},
		{"pay_step", r.PayStep},
		{"longevity_percentage", r.LongevityPercentage},
		{"actual_salary", r.ActualSalary},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidRecord, f.name)
		}
		if f.value < 0 {
			return fmt.Errorf("%w: %s must be >= 0, got %g", ErrInvalidRecord, f.name, f.value)
		}
	}
	return nil
}

// OvertimeRatioFromRates derives the overtime ratio for payroll exports that
// carry overtime and base hourly rates instead of the ratio itself.
// Returns 0 when the base rate is not positive.
func OvertimeRatioFromRates(overtimeRate, baseRate float64) float64 {
	if baseRate <= 0 {
		return 0
	}
	return overtimeRate / baseRate
}
