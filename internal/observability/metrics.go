package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for one analysis run.
type Metrics struct {
	RecordsLoaded     prometheus.Counter
	RecordsDropped    prometheus.Counter
	DateParseFailures prometheus.Counter
	RollingMissing    prometheus.Counter
	ChartsRendered    prometheus.Counter
	SinkErrors        *prometheus.CounterVec // labels: sink
	LastRunSuccess    prometheus.Gauge

	// StageDuration is labelled by stage={extract,analyze,publish}.
	StageDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

const namespace = "blossom"

func newMetrics() *Metrics {
	return &Metrics{
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_loaded_total",
			Help:      "Total records decoded from the input spreadsheet.",
		}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_dropped_total",
			Help:      "Records discarded for lacking a day-of-year ordinal.",
		}),
		DateParseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "date_parse_failures_total",
			Help:      "Filtered records whose packed MMDD date did not decompose.",
		}),
		RollingMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rolling_missing_total",
			Help:      "Filtered records whose rolling window held too few samples.",
		}),
		ChartsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_rendered_total",
			Help:      "Chart files written.",
		}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Publish failures by sink.",
		}, []string{"sink"}),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 when the last run completed, 0 when it failed.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"stage"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RecordsLoaded,
		m.RecordsDropped,
		m.DateParseFailures,
		m.RollingMissing,
		m.ChartsRendered,
		m.SinkErrors,
		m.LastRunSuccess,
		m.StageDuration,
	}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	m.gatherer = prometheus.DefaultGatherer
	return m
}

// NewMetricsForTesting creates Metrics on a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.collectors()...)
	m.gatherer = reg
	return m
}

// WriteTextfile writes the current metric values in the node_exporter
// textfile-collector format. The write is atomic (temp file + rename).
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.gatherer)
}
