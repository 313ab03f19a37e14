package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/nexuscrm/persistence/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics.New().MustRegister(registry)
}

func TestSampleStatement(t *testing.T) {
	m := metrics.New()
	m.SampleStatement("insert", time.Millisecond, nil)
	m.SampleStatement("insert", time.Millisecond, errors.New("boom"))
	m.SampleStatement("insert", time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Statements.WithLabelValues("insert", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Statements.WithLabelValues("insert", "error")))
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.SampleStatement("get", time.Second, nil)
		m.SampleMemoryPaging("generic")
		m.SampleReleaseFailures(2)
	})
}
