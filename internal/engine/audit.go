package engine

import (
	"SalarySentinel/internal/model"
)

// Audit evaluates rows one after another and collects anomalies and
// failures. A failing row never stops the batch. Rows that could not even be
// parsed are passed in as rejected and counted towards the total.
func (e *Engine) Audit(source string, rows []model.AuditRow, rejected []model.RowFailure) *model.BatchReport {
	report := &model.BatchReport{
		Source:    source,
		Total:     len(rows) + len(rejected),
		StartedAt: e.now(),
	}
	report.Failures = append(report.Failures, rejected...)
	for _, row := range rows {
		ev, err := e.Evaluate(row.Record)
		if err != nil {
			report.Failures = append(report.Failures, model.RowFailure{
				Row:        row.Line,
				EmployeeID: row.Record.EmployeeID,
				Code:       model.ErrorCode(err),
				Message:    err.Error(),
			})
			continue
		}
		report.Evaluated++
		if ev.Verdict.IsAnomaly {
			report.Anomalies = append(report.Anomalies, ev)
		}
	}
	report.FinishedAt = e.now()
	return report
}
