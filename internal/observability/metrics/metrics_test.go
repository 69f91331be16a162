package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSubmissionMetrics(reg)

	m.ObserveOutcome("contact", OutcomeSuccess)
	m.ObserveOutcome("contact", OutcomeSuccess)
	m.ObserveOutcome("booking", OutcomeDegraded)
	m.ObserveStep("booking", "calendar", 250*time.Millisecond)
	m.ObserveFallbackWrite("booking", true)
	m.ObserveFallbackWrite("contact", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissionTotal.WithLabelValues("contact", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissionTotal.WithLabelValues("booking", OutcomeDegraded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbackWrites.WithLabelValues("contact", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.stepLatency))
}

func TestSubmissionMetricsExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSubmissionMetrics(reg)
	m.ObserveFallbackWrite("contact", true)

	expected := `
# HELP bridgeforms_fallback_writes_total Fallback record writes by result
# TYPE bridgeforms_fallback_writes_total counter
bridgeforms_fallback_writes_total{kind="contact",status="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "bridgeforms_fallback_writes_total"))
}

func TestSubmissionMetricsNilSafe(t *testing.T) {
	var m *SubmissionMetrics
	m.ObserveOutcome("contact", OutcomeInvalid)
	m.ObserveStep("contact", "email", time.Second)
	m.ObserveFallbackWrite("contact", true)
}
