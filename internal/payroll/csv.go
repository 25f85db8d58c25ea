package payroll

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"SalarySentinel/internal/model"
)

// Column names understood by CSVSource.
const (
	colEmployeeID     = "employee_id"
	colJobTitle       = "job_title"
	colHourlyRate     = "total_hourly_rate"
	colScheduledHours = "scheduled_hours"
	colOvertimeRatio  = "overtime_ratio"
	colOvertimeRate   = "overtime_hourly_rate"
	colBaseRate       = "base_hourly_rate"
	colPayGrade       = "pay_grade"
	colPayStep        = "pay_step"
	colLongevity      = "longevity_percentage"
	colActualSalary   = "actual_salary"
)

var requiredColumns = []string{
	colJobTitle, colHourlyRate, colScheduledHours, colPayGrade, colPayStep, colLongevity, colActualSalary,
}

// CSVSource reads a header-addressed payroll export. The overtime ratio is
// taken from overtime_ratio when present, otherwise derived from
// overtime_hourly_rate / base_hourly_rate.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource { return &CSVSource{Path: path} }

func (c *CSVSource) Name() string { return "csv:" + c.Path }

func (c *CSVSource) Rows() ([]model.AuditRow, []model.RowFailure, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open payroll csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses payroll rows from r. Line numbers count the header as line 1.
func ReadCSV(r io.Reader) ([]model.AuditRow, []model.RowFailure, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, nil, fmt.Errorf("payroll csv missing column %q", name)
		}
	}
	_, hasRatio := cols[colOvertimeRatio]
	_, hasOT := cols[colOvertimeRate]
	_, hasBase := cols[colBaseRate]
	if !hasRatio && !(hasOT && hasBase) {
		return nil, nil, fmt.Errorf("payroll csv needs %q or both %q and %q", colOvertimeRatio, colOvertimeRate, colBaseRate)
	}

	var rows []model.AuditRow
	var failures []model.RowFailure
	line := 1
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			failures = append(failures, model.RowFailure{Row: line, Code: "invalid_record", Message: err.Error()})
			continue
		}
		p := rowParser{fields: fields, cols: cols}
		rec := model.EmployeeRecord{
			EmployeeID:          p.str(colEmployeeID),
			TotalHourlyRate:     p.num(colHourlyRate),
			ScheduledHours:      p.num(colScheduledHours),
			PayGrade:            p.num(colPayGrade),
			PayStep:             p.num(colPayStep),
			LongevityPercentage: p.num(colLongevity),
			ActualSalary:        p.num(colActualSalary),
		}
		if hasRatio && p.str(colOvertimeRatio) != "" {
			rec.OvertimeRatio = p.num(colOvertimeRatio)
		} else if hasOT && hasBase {
			rec.OvertimeRatio = model.OvertimeRatioFromRates(p.num(colOvertimeRate), p.num(colBaseRate))
		}
		title, titleErr := model.ParseJobTitle(p.str(colJobTitle))
		rec.JobTitle = title

		switch {
		case p.err != nil:
			failures = append(failures, model.RowFailure{
				Row: line, EmployeeID: rec.EmployeeID, Code: "invalid_record", Message: p.err.Error(),
			})
		case titleErr != nil:
			failures = append(failures, model.RowFailure{
				Row: line, EmployeeID: rec.EmployeeID, Code: model.ErrorCode(titleErr), Message: titleErr.Error(),
			})
		default:
			rows = append(rows, model.AuditRow{Line: line, Record: rec})
		}
	}
	return rows, failures, nil
}

// rowParser keeps the first conversion error of a row.
type rowParser struct {
	fields []string
	cols   map[string]int
	err    error
}

func (p *rowParser) str(col string) string {
	i, ok := p.cols[col]
	if !ok || i >= len(p.fields) {
		return ""
	}
	return strings.TrimSpace(p.fields[i])
}

func (p *rowParser) num(col string) float64 {
	s := strings.ReplaceAll(strings.TrimPrefix(p.str(col), "$"), ",", "")
	if s == "" {
		if p.err == nil {
			p.err = fmt.Errorf("%w: %s is empty", model.ErrInvalidRecord, col)
		}
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%w: %s: %v", model.ErrInvalidRecord, col, err)
	}
	return v
}
