package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "temperature_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// Startup load metrics.
	DatasetRows      *prometheus.GaugeVec // labels: dataset={tidy,map}
	DatasetCountries prometheus.Gauge
	MapYears         prometheus.Gauge
	LoadDuration     prometheus.Histogram
	RecordsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
	DashboardReady   prometheus.Gauge

	// Request-time metrics.
	ChartRequests       *prometheus.CounterVec   // labels: chart={bar,bar_png,export,choropleth,countdown}
	ChartRenderDuration *prometheus.HistogramVec // labels: chart
	EmptyFilterResults  prometheus.Counter
	CountdownStreams    prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows held in memory per dataset after loading.",
		}, []string{"dataset"}),
		DatasetCountries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_countries",
			Help:      "Distinct countries in the tidy table.",
		}),
		MapYears: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "map_years",
			Help:      "Number of year layers in the choropleth figure.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Duration of the startup extract, reshape, and build cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_published_total",
			Help:      "Tidy records written to the Kafka topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed attempts to publish the tidy table.",
		}),
		DashboardReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ready",
			Help:      "1 when the datasets are loaded and figures built, 0 otherwise.",
		}),
		ChartRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_requests_total",
			Help:      "Chart and countdown requests by chart kind.",
		}, []string{"chart"}),
		ChartRenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chart_render_duration_seconds",
			Help:      "Time spent building a chart response.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"chart"}),
		EmptyFilterResults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_filter_results_total",
			Help:      "Bar chart requests whose filter matched no data.",
		}),
		CountdownStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "countdown_streams",
			Help:      "Open countdown event streams.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.DatasetRows,
		m.DatasetCountries,
		m.MapYears,
		m.LoadDuration,
		m.RecordsPublished,
		m.PublishErrors,
		m.DashboardReady,
		m.ChartRequests,
		m.ChartRenderDuration,
		m.EmptyFilterResults,
		m.CountdownStreams,
	}
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics registered with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	prometheus.NewRegistry().MustRegister(m.collectors()...)
	return m
}
