package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "artcc_atlas"

// Metrics holds the Prometheus counters, histograms, and gauges for the viewer.
type Metrics struct {
	// Load metrics.
	LoadDuration  prometheus.Histogram
	LoadFailures  prometheus.Counter
	SourcesLoaded *prometheus.CounterVec // labels: kind={attributes,regions,overlay,points}
	JoinMisses    prometheus.Gauge
	ParseFailures prometheus.Gauge
	DuplicateKeys prometheus.Gauge
	DatasetReady  prometheus.Gauge

	// Interaction metrics.
	SelectionChanges  *prometheus.CounterVec // labels: attribute
	InvalidSelections prometheus.Counter
	HoverEnters       *prometheus.CounterVec // labels: surface={map,chart}
	Activations       prometheus.Counter
	PublishErrors     prometheus.Counter
	RenderDuration    prometheus.Histogram
}

// NewMetrics creates and registers all viewer metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.LoadDuration,
		m.LoadFailures,
		m.SourcesLoaded,
		m.JoinMisses,
		m.ParseFailures,
		m.DuplicateKeys,
		m.DatasetReady,
		m.SelectionChanges,
		m.InvalidSelections,
		m.HoverEnters,
		m.Activations,
		m.PublishErrors,
		m.RenderDuration,
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
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Duration of the initial join-all load of every source.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LoadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_failures_total",
			Help:      "Total aborted loads.",
		}),
		SourcesLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sources_loaded_total",
			Help:      "Sources fetched and decoded, by kind.",
		}, []string{"kind"}),
		JoinMisses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "join_misses",
			Help:      "Regions without a matching attribute row in the loaded dataset.",
		}),
		ParseFailures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "parse_failures",
			Help:      "Attribute cells holding non-numeric text in the loaded dataset.",
		}),
		DuplicateKeys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "duplicate_keys",
			Help:      "Attribute row keys that appear more than once.",
		}),
		DatasetReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_ready",
			Help:      "1 once the dataset is loaded and the views rendered.",
		}),
		SelectionChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_changes_total",
			Help:      "Accepted attribute selections, by attribute.",
		}, []string{"attribute"}),
		InvalidSelections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_selections_total",
			Help:      "Rejected attribute selections.",
		}),
		HoverEnters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hover_enters_total",
			Help:      "Hover-enter transitions, by surface.",
		}, []string{"surface"}),
		Activations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activations_total",
			Help:      "Detail pages opened.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interaction_publish_errors_total",
			Help:      "Interaction events that could not be published.",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "attribute_render_duration_seconds",
			Help:      "Duration of one attribute-change transition.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
	}
}
