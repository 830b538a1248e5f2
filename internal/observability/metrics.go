package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for one pipeline run.
type Metrics struct {
	RowsLoaded  prometheus.Counter
	ParseErrors prometheus.Counter
	LoadErrors  prometheus.Counter

	GroupsProduced    prometheus.Gauge
	MissingAggregates *prometheus.CounterVec // labels: column

	RenderErrors  *prometheus.CounterVec   // labels: renderer={static,interactive}
	StageDuration *prometheus.HistogramVec // labels: stage={load,transform,render}
}

var stageBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsLoaded,
		m.ParseErrors,
		m.LoadErrors,
		m.GroupsProduced,
		m.MissingAggregates,
		m.RenderErrors,
		m.StageDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heathrow",
			Name:      "rows_loaded_total",
			Help:      "Data lines parsed from the station file.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heathrow",
			Name:      "parse_errors_total",
			Help:      "Station file lines rejected by the parser.",
		}),
		LoadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heathrow",
			Name:      "load_errors_total",
			Help:      "Failed attempts to load the station file.",
		}),
		GroupsProduced: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "heathrow",
			Name:      "groups",
			Help:      "Rows in the grouped table.",
		}),
		MissingAggregates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heathrow",
			Name:      "missing_aggregates_total",
			Help:      "Groups with no valid value for an aggregated column.",
		}, []string{"column"}),
		RenderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heathrow",
			Name:      "render_errors_total",
			Help:      "Renderer failures by renderer kind.",
		}, []string{"renderer"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "heathrow",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   stageBuckets,
		}, []string{"stage"}),
	}
}

// WriteTextfile writes everything in the default registry to path in the text
// exposition format, for pickup by a node_exporter textfile collector.
// An empty path is a no-op.
func WriteTextfile(path string) error {
	return writeTextfile(path, prometheus.DefaultGatherer)
}

func writeTextfile(path string, g prometheus.Gatherer) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
