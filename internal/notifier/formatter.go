package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"SalarySentinel/internal/engine"
	"SalarySentinel/internal/model"
)

// maxReportedAnomalies caps how many anomalies a batch message lists.
const maxReportedAnomalies = 20

// PossibleReasons lists common explanations shown alongside an anomaly.
var PossibleReasons = []string{
	"Data entry error",
	"Special compensation package",
	"Incorrect job classification",
	"Performance bonus/penalty",
}

// Dollars renders v as a whole-dollar amount with thousands separators.
func Dollars(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return "-$" + humanize.Comma(-n)
	}
	return "$" + humanize.Comma(n)
}

func signedDollars(v float64) string {
	if v >= 0 {
		return "+" + Dollars(v)
	}
	return Dollars(v)
}

// FormatEvaluation formats a single verdict.
func FormatEvaluation(ev *model.Evaluation) string {
	var b strings.Builder
	v := ev.Verdict
	rec := ev.Record

	if v.IsAnomaly {
		b.WriteString("🚨 <b>Salary anomaly</b>")
	} else {
		b.WriteString("✅ <b>Salary within expected range</b>")
	}
	if rec.EmployeeID != "" {
		b.WriteString(fmt.Sprintf(" | %s", html.EscapeString(rec.EmployeeID)))
	}
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Job title: %s\n", html.EscapeString(string(rec.JobTitle))))
	b.WriteString(fmt.Sprintf("Actual: %s | Predicted: %s\n", Dollars(rec.ActualSalary), Dollars(ev.Prediction.Salary)))
	b.WriteString(fmt.Sprintf("Difference: %s (%+.1f%%)\n", signedDollars(v.DollarResidual), v.PercentDeviation))
	b.WriteString(fmt.Sprintf("Expected range: %s – %s\n", Dollars(v.LowerBound), Dollars(v.UpperBound)))
	b.WriteString(fmt.Sprintf("Log residual: %+.4f (threshold %.4f, %s)\n", v.Residual, v.Threshold, v.Policy))

	if v.IsAnomaly {
		b.WriteString(fmt.Sprintf("\nActual pay is <b>%s</b> the predicted salary.\n", directionWord(v.Direction)))
		b.WriteString("Possible reasons:\n")
		for _, r := range PossibleReasons {
			b.WriteString("  • " + r + "\n")
		}
	}
	return b.String()
}

func directionWord(d model.Direction) string {
	switch d {
	case model.DirectionOver:
		return "above"
	case model.DirectionUnder:
		return "below"
	default:
		return "at"
	}
}

// FormatBatchReport formats the outcome of a batch audit.
func FormatBatchReport(r *model.BatchReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 <b>Payroll audit</b> | %s\n\n", r.FinishedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Source: %s\n", html.EscapeString(r.Source)))
	b.WriteString(fmt.Sprintf("Rows: %d | Evaluated: %d | Failed: %d\n", r.Total, r.Evaluated, len(r.Failures)))
	b.WriteString(fmt.Sprintf("Anomalies: <b>%d</b>\n", len(r.Anomalies)))

	if len(r.Anomalies) > 0 {
		b.WriteString("\n🚨 <b>Flagged:</b>\n")
		for i, ev := range r.Anomalies {
			if i == maxReportedAnomalies {
				b.WriteString(fmt.Sprintf("  … and %d more\n", len(r.Anomalies)-maxReportedAnomalies))
				break
			}
			id := ev.Record.EmployeeID
			if id == "" {
				id = "-"
			}
			b.WriteString(fmt.Sprintf("  %s %s: %s vs %s (%+.1f%%)\n",
				html.EscapeString(id), html.EscapeString(string(ev.Record.JobTitle)),
				Dollars(ev.Record.ActualSalary), Dollars(ev.Prediction.Salary), ev.Verdict.PercentDeviation))
		}
	}

	if len(r.Failures) > 0 {
		b.WriteString("\n⚠️ <b>Rejected rows:</b>\n")
		for i, f := range r.Failures {
			if i == maxReportedAnomalies {
				b.WriteString(fmt.Sprintf("  … and %d more\n", len(r.Failures)-maxReportedAnomalies))
				break
			}
			b.WriteString(fmt.Sprintf("  row %d: %s\n", f.Row, html.EscapeString(f.Code)))
		}
	}

	b.WriteString(fmt.Sprintf("\nTook %s", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond)))
	return b.String()
}

// FormatPolicy formats the active model and threshold configuration.
func FormatPolicy(info engine.PolicyInfo) string {
	var b strings.Builder
	b.WriteString("⚙️ <b>Detection policy</b>\n\n")
	b.WriteString(fmt.Sprintf("Model: %s\n", html.EscapeString(info.Model)))
	b.WriteString(fmt.Sprintf("Transform: %s\n", info.Transform))
	b.WriteString(fmt.Sprintf("Policy: %s\n", info.Policy))
	b.WriteString(fmt.Sprintf("Threshold: %.4f (log space)\n", info.Threshold))
	if info.ResidualStd > 0 {
		b.WriteString(fmt.Sprintf("Residual std: %.6f\n", info.ResidualStd))
	}
	b.WriteString(fmt.Sprintf("Residual sample: %s values\n", humanize.Comma(int64(info.SampleSize))))
	b.WriteString(fmt.Sprintf("Features: %d\n", info.FeatureCount))
	return b.String()
}

// FormatJobTitles lists the titles the model was trained on.
func FormatJobTitles(titles []model.JobTitle) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("👷 <b>Job titles</b> (%d)\n\n", len(titles)))
	for _, t := range titles {
		b.WriteString("  • " + html.EscapeString(string(t)) + "\n")
	}
	return b.String()
}
