package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	DatasetLoads *prometheus.CounterVec // labels: dataset={geo,ops}, outcome={success,error}
	DatasetRows  *prometheus.GaugeVec   // labels: dataset={geo,ops}

	// Memo lookups for the loader and geo filter.
	CacheLookups *prometheus.CounterVec // labels: cache={loader,geo_filter}, result={hit,miss}

	// Rendering metrics.
	RenderDuration *prometheus.HistogramVec // labels: artifact={map,line,bar,line_png,bar_png}
	RenderErrors   *prometheus.CounterVec   // labels: artifact

	DashboardReady prometheus.Gauge
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.DatasetLoads,
		m.DatasetRows,
		m.CacheLookups,
		m.RenderDuration,
		m.RenderErrors,
		m.DashboardReady,
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
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thor_dashboard",
			Name:      "dataset_loads_total",
			Help:      "Dataset loads from disk by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
		DatasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "thor_dashboard",
			Name:      "dataset_rows",
			Help:      "Rows held in memory per dataset.",
		}, []string{"dataset"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thor_dashboard",
			Name:      "cache_lookups_total",
			Help:      "Memo lookups by cache and result.",
		}, []string{"cache", "result"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "thor_dashboard",
			Name:      "render_duration_seconds",
			Help:      "Time to build a visualization.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"artifact"}),
		RenderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thor_dashboard",
			Name:      "render_errors_total",
			Help:      "Visualization builds that failed.",
		}, []string{"artifact"}),
		DashboardReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "thor_dashboard",
			Name:      "dashboard_ready",
			Help:      "1 once both datasets are loaded, 0 otherwise.",
		}),
	}
}

// CacheResult returns the result label for a memo lookup.
func CacheResult(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
