package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeDegraded = "degraded"
	OutcomeFailed   = "failed"
)

// SubmissionMetrics exposes counters/histograms for the delivery pipelines.
type SubmissionMetrics struct {
	submissionTotal *prometheus.CounterVec
	stepLatency     *prometheus.HistogramVec
	fallbackWrites  *prometheus.CounterVec
}

func NewSubmissionMetrics(reg prometheus.Registerer) *SubmissionMetrics {
	m := &SubmissionMetrics{
		submissionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bridgeforms",
			Subsystem: "submission",
			Name:      "total",
			Help:      "Total form submissions by pipeline outcome",
		}, []string{"kind", "outcome"}),
		stepLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bridgeforms",
			Subsystem: "submission",
			Name:      "step_seconds",
			Help:      "Latency of individual pipeline steps",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind", "step"}),
		fallbackWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bridgeforms",
			Subsystem: "fallback",
			Name:      "writes_total",
			Help:      "Fallback record writes by result",
		}, []string{"kind", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionTotal, m.stepLatency, m.fallbackWrites)
	return m
}

func (m *SubmissionMetrics) ObserveOutcome(kind, outcome string) {
	if m == nil {
		return
	}
	m.submissionTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *SubmissionMetrics) ObserveStep(kind, step string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.stepLatency.WithLabelValues(kind, step).Observe(elapsed.Seconds())
}

func (m *SubmissionMetrics) ObserveFallbackWrite(kind string, ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.fallbackWrites.WithLabelValues(kind, status).Inc()
}
