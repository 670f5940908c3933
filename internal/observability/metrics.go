package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the proxy.
type Metrics struct {
	CacheLookups     *prometheus.CounterVec   // labels: domain={earthquake,weather,nowcast}, result={hit,miss}
	UpstreamRequests *prometheus.CounterVec   // labels: domain={earthquake,weather,nowcast}, outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: domain={earthquake,weather,nowcast}

	CacheFallbackActive prometheus.Gauge
	GazetteerRegions    prometheus.Gauge
}

// NewMetrics creates and registers all proxy metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bmkg_proxy",
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by data domain and result.",
		}, []string{"domain", "result"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bmkg_proxy",
			Name:      "upstream_requests_total",
			Help:      "BMKG upstream requests by data domain and outcome.",
		}, []string{"domain", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bmkg_proxy",
			Name:      "upstream_request_duration_seconds",
			Help:      "BMKG upstream request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"domain"}),
		CacheFallbackActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bmkg_proxy",
			Name:      "cache_fallback_active",
			Help:      "1 when the in-process fallback cache is serving instead of Redis.",
		}),
		GazetteerRegions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bmkg_proxy",
			Name:      "gazetteer_regions",
			Help:      "Number of administrative regions loaded into the gazetteer.",
		}),
	}

	prometheus.MustRegister(
		m.CacheLookups,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.CacheFallbackActive,
		m.GazetteerRegions,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		CacheLookups:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "bmkg_proxy", Name: "cache_lookups_total"}, []string{"domain", "result"}),
		UpstreamRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "bmkg_proxy", Name: "upstream_requests_total"}, []string{"domain", "outcome"}),
		UpstreamDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "bmkg_proxy", Name: "upstream_request_duration_seconds"}, []string{"domain"}),
		CacheFallbackActive: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "bmkg_proxy", Name: "cache_fallback_active"}),
		GazetteerRegions:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "bmkg_proxy", Name: "gazetteer_regions"}),
	}
}
