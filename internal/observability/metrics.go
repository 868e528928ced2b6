package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// render pipeline.
type Metrics struct {
	ObjectsFetched prometheus.Counter
	BytesFetched   prometheus.Counter
	ChunksDecoded  prometheus.Counter
	PipelineRuns   *prometheus.CounterVec // labels: outcome={success,error}
	PipelineActive prometheus.Gauge

	// Stage timings.
	ResolveDuration prometheus.Histogram
	ComputeDuration prometheus.Histogram
	RenderDuration  prometheus.Histogram

	StoreErrors *prometheus.CounterVec // labels: flavor={v3,legacy}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ObjectsFetched,
		m.BytesFetched,
		m.ChunksDecoded,
		m.PipelineRuns,
		m.PipelineActive,
		m.ResolveDuration,
		m.ComputeDuration,
		m.RenderDuration,
		m.StoreErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ObjectsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hrrrmap",
			Name:      "objects_fetched_total",
			Help:      "Total objects read from the store.",
		}),
		BytesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hrrrmap",
			Name:      "bytes_fetched_total",
			Help:      "Total object bytes read from the store.",
		}),
		ChunksDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hrrrmap",
			Name:      "chunks_decoded_total",
			Help:      "Total array chunks decompressed and decoded.",
		}),
		PipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrrrmap",
			Name:      "pipeline_runs_total",
			Help:      "Completed pipeline invocations by outcome.",
		}, []string{"outcome"}),
		PipelineActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hrrrmap",
			Name:      "pipeline_active",
			Help:      "1 while a render is in progress.",
		}),
		ResolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hrrrmap",
			Name:      "resolve_duration_seconds",
			Help:      "Time to open the coordinate and data store handles.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hrrrmap",
			Name:      "compute_duration_seconds",
			Help:      "Time spent forcing the lazy array evaluation.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hrrrmap",
			Name:      "render_duration_seconds",
			Help:      "Time spent drawing and encoding the map.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrrrmap",
			Name:      "store_errors_total",
			Help:      "Store access failures by resolved flavor.",
		}, []string{"flavor"}),
	}
}
