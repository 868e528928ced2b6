package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	for _, s := range []LogSettings{
		{Level: "debug", Format: "json"},
		{Level: "info", Format: "text"},
		{Level: "warn"},
		{Level: "unknown", Format: "unknown"},
	} {
		logger := NewLogger(s)
		require.NotNil(t, logger)
	}
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetricsForTesting()

	m.ObjectsFetched.Inc()
	m.BytesFetched.Add(4096)
	m.PipelineRuns.WithLabelValues("success").Inc()
	m.StoreErrors.WithLabelValues("v3").Inc()
	m.PipelineActive.Set(1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ObjectsFetched))
	assert.Equal(t, 4096.0, testutil.ToFloat64(m.BytesFetched))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PipelineRuns.WithLabelValues("success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.PipelineRuns.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreErrors.WithLabelValues("v3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PipelineActive))
}
