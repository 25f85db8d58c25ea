// Package payroll reads employee records to audit in bulk.
package payroll

import "SalarySentinel/internal/model"

// Source yields payroll rows. Rows that cannot be turned into a record are
// returned as failures, never silently dropped.
type Source interface {
	Rows() ([]model.AuditRow, []model.RowFailure, error)
	Name() string
}

// MockSource returns fixed records for development and testing.
type MockSource struct {
	Records []model.EmployeeRecord
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Rows() ([]model.AuditRow, []model.RowFailure, error) {
	rows := make([]model.AuditRow, len(m.Records))
	for i, r := range m.Records {
		rows[i] = model.AuditRow{Line: i + 1, Record: r}
	}
	return rows, nil, nil
}
