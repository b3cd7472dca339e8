package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "zip_forecast"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// forecast lookup service.
type Metrics struct {
	// Lookup chain metrics.
	Lookups        *prometheus.CounterVec // labels: stage={geocode,point,forecast,done}, outcome={success,invalid_input,upstream_error}
	LookupDuration prometheus.Histogram
	StaleDiscarded prometheus.Counter

	// Upstream HTTP metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: endpoint={geocode,points,forecast}, outcome={success,error,empty}
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint={geocode,points,forecast}

	// Carousel navigation.
	Navigations *prometheus.CounterVec // labels: direction={next,prev}, result={moved,noop}

	// Lookup event publishing.
	PublishErrors    prometheus.Counter
	PublisherEnabled prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Completed lookup chains by terminal stage and outcome.",
		}, []string{"stage", "outcome"}),
		LookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_duration_seconds",
			Help:      "Duration of a complete geocode, point, and forecast chain.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		StaleDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_lookups_discarded_total",
			Help:      "Lookup results dropped because a newer search superseded them.",
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),
		Navigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "carousel_navigations_total",
			Help:      "Carousel navigation requests by direction and result.",
		}, []string{"direction", "result"}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Lookup events that could not be published.",
		}),
		PublisherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "publisher_enabled",
			Help:      "1 when lookup event publishing is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.Lookups,
		m.LookupDuration,
		m.StaleDiscarded,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.Navigations,
		m.PublishErrors,
		m.PublisherEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Lookups:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "lookups_total"}, []string{"stage", "outcome"}),
		LookupDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "lookup_duration_seconds"}),
		StaleDiscarded:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "stale_lookups_discarded_total"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "upstream_requests_total"}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "upstream_request_duration_seconds"}, []string{"endpoint"}),
		Navigations:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "carousel_navigations_total"}, []string{"direction", "result"}),
		PublishErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "publish_errors_total"}),
		PublisherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "publisher_enabled"}),
	}
}
