package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "launch_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for one run.
type Metrics struct {
	FilesProcessed         prometheus.Counter
	FileErrors             *prometheus.CounterVec // labels: kind={schema,parse,read}
	Candidates             prometheus.Counter
	CitiesWithoutCandidate prometheus.Counter
	RunDuration            prometheus.Histogram
	WinnerLatitude         prometheus.Gauge
	Notifications          *prometheus.CounterVec // labels: channel={email,kafka}, outcome={success,error}

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: provider={nominatim,mapbox}, outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec   // labels: result={hit,miss,error,shared}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: provider
}

// NewMetrics creates all run metrics and registers them with reg.
// A batch program uses a fresh registry per run so it can push exactly
// what this run observed.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.FilesProcessed,
		m.FileErrors,
		m.Candidates,
		m.CitiesWithoutCandidate,
		m.RunDuration,
		m.WinnerLatitude,
		m.Notifications,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics registered with a throwaway registry.
func NewMetricsForTesting() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

func newMetrics() *Metrics {
	return &Metrics{
		FilesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_processed_total",
			Help:      "Observation files parsed successfully.",
		}),
		FileErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "file_errors_total",
			Help:      "Observation files rejected, by failure kind.",
		}, []string{"kind"}),
		Candidates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_total",
			Help:      "Cities that produced a launch day candidate.",
		}),
		CitiesWithoutCandidate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cities_without_candidate_total",
			Help:      "Cities where no day met the launch conditions.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete analysis run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		WinnerLatitude: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "winner_latitude",
			Help:      "Latitude of the selected launch site.",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Report notifications by channel and outcome.",
		}, []string{"channel", "outcome"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Geocoding API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"provider"}),
	}
}
