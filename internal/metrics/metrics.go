// Package metrics exposes Prometheus collectors for the evaluation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"SalarySentinel/internal/model"
)

var (
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salary_sentinel_evaluations_total",
			Help: "Evaluations by outcome (normal, anomaly, error)",
		},
		[]string{"channel", "outcome"},
	)

	EvaluationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salary_sentinel_evaluation_errors_total",
			Help: "Failed evaluations by error code",
		},
		[]string{"code"},
	)

	AbsLogResidual = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "salary_sentinel_abs_log_residual",
			Help:    "Absolute log-space residual of successful evaluations",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.15, 0.23, 0.3, 0.5, 1, 2},
		},
	)

	AuditRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salary_sentinel_audit_runs_total",
			Help: "Batch audits by status",
		},
		[]string{"status"},
	)

	AuditAnomalies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "salary_sentinel_audit_last_anomalies",
			Help: "Anomalies found by the most recent batch audit",
		},
	)
)

// Outcomes.
const (
	OutcomeNormal  = "normal"
	OutcomeAnomaly = "anomaly"
	OutcomeError   = "error"
)

// ObserveEvaluation records one evaluation attempt from channel ("http",
// "cli", "audit").
func ObserveEvaluation(channel string, ev *model.Evaluation, err error) {
	if err != nil {
		EvaluationsTotal.WithLabelValues(channel, OutcomeError).Inc()
		EvaluationErrors.WithLabelValues(model.ErrorCode(err)).Inc()
		return
	}
	outcome := OutcomeNormal
	if ev.Verdict.IsAnomaly {
		outcome = OutcomeAnomaly
	}
	EvaluationsTotal.WithLabelValues(channel, outcome).Inc()
	AbsLogResidual.Observe(ev.Verdict.AbsResidual)
}

// ObserveAudit records the outcome of a batch audit.
func ObserveAudit(report *model.BatchReport, err error) {
	if err != nil {
		AuditRunsTotal.WithLabelValues("error").Inc()
		return
	}
	AuditRunsTotal.WithLabelValues("ok").Inc()
	AuditAnomalies.Set(float64(len(report.Anomalies)))
	for _, ev := range report.Anomalies {
		AbsLogResidual.Observe(ev.Verdict.AbsResidual)
	}
	EvaluationsTotal.WithLabelValues("audit", OutcomeAnomaly).Add(float64(len(report.Anomalies)))
	EvaluationsTotal.WithLabelValues("audit", OutcomeNormal).Add(float64(report.Evaluated - len(report.Anomalies)))
	EvaluationsTotal.WithLabelValues("audit", OutcomeError).Add(float64(len(report.Failures)))
	for _, f := range report.Failures {
		EvaluationErrors.WithLabelValues(f.Code).Inc()
	}
}
