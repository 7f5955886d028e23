package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jonathan/pagespeed-recorder/internal/types"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "psi_recorder_runs_total",
		Help: "Total number of runs by result",
	}, []string{"result"})

	recordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "psi_recorder_records_total",
		Help: "Total number of source records by outcome status and error kind",
	}, []string{"status", "kind"})

	auditDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "psi_recorder_audit_duration_seconds",
		Help:    "Time taken by one PageSpeed audit call",
		Buckets: prometheus.ExponentialBuckets(1, 2, 8),
	})

	auditsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "psi_recorder_audits_in_flight",
		Help: "Number of audit calls currently running",
	})
)

// AuditStarted records the start of an audit call and returns the function
// that records its end.
func AuditStarted() func() {
	start := time.Now()
	auditsInFlight.Inc()
	return func() {
		auditsInFlight.Dec()
		auditDuration.Observe(time.Since(start).Seconds())
	}
}

// RecordOutcome counts one finished record.
func RecordOutcome(o types.Outcome) {
	recordsTotal.WithLabelValues(string(o.Status), string(o.Kind)).Inc()
}

// RecordRun counts one finished run.
func RecordRun(report *types.RunReport) {
	result := "succeeded"
	if report.Failed() {
		result = "failed"
	}
	runsTotal.WithLabelValues(result).Inc()
}
