package model

import (
	"time"

	"github.com/google/uuid"
)

// PredictionResult is the model output in log and dollar space.
type PredictionResult struct {
	LogSalary float64 `json:"log_salary"`
	Salary    float64 `json:"salary"`
}

// Direction tells which side of the acceptable band an actual salary falls on.
type Direction string

const (
	DirectionWithin Direction = "within"
	DirectionOver   Direction = "over"
	DirectionUnder  Direction = "under"
)

// AnomalyVerdict is the outcome of comparing an actual salary to a prediction.
type AnomalyVerdict struct {
	ActualLog        float64   `json:"actual_log"`
	PredictedLog     float64   `json:"predicted_log"`
	Residual         float64   `json:"residual"`
	AbsResidual      float64   `json:"abs_residual"`
	Threshold        float64   `json:"threshold"`
	Policy           string    `json:"policy"`
	DollarResidual   float64   `json:"dollar_residual"`
	PercentDeviation float64   `json:"percent_deviation"`
	LowerBound       float64   `json:"lower_bound"`
	UpperBound       float64   `json:"upper_bound"`
	IsAnomaly        bool      `json:"is_anomaly"`
	Direction        Direction `json:"direction"`
}

// DerivedMetrics are informational figures that never affect the verdict.
type DerivedMetrics struct {
	ExpectedFromHourly float64 `json:"expected_from_hourly"`
	OvertimePremium    float64 `json:"overtime_premium"`
	PercentDeviation   float64 `json:"percent_deviation"`
}

// Evaluation is the full result of one pass through the pipeline.
type Evaluation struct {
	ID          uuid.UUID        `json:"id"`
	EvaluatedAt time.Time        `json:"evaluated_at"`
	Record      EmployeeRecord   `json:"record"`
	Prediction  PredictionResult `json:"prediction"`
	Verdict     AnomalyVerdict   `json:"verdict"`
	Derived     DerivedMetrics   `json:"derived"`
}

// AuditRow is one record of a batch together with its position in the source.
type AuditRow struct {
	Line   int
	Record EmployeeRecord
}

// RowFailure records a batch row that could not be parsed or evaluated.
type RowFailure struct {
	Row        int    `json:"row"`
	EmployeeID string `json:"employee_id,omitempty"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// BatchReport summarises a sequential audit over many records.
type BatchReport struct {
	Source     string        `json:"source"`
	Total      int           `json:"total"`
	Evaluated  int           `json:"evaluated"`
	Anomalies  []*Evaluation `json:"anomalies"`
	Failures   []RowFailure  `json:"failures"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}
