package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records provider traffic. A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	cacheHits *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_provider_requests_total",
				Help: "Number of HTTP requests sent to the weather provider",
			},
			[]string{"endpoint", "outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "weather_provider_request_duration_seconds",
				Help:    "Latency of HTTP requests sent to the weather provider",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_provider_cache_hits_total",
				Help: "Number of provider calls answered from the response cache",
			},
			[]string{"endpoint"},
		),
	}

	reg.MustRegister(m.requests, m.latency, m.cacheHits)

	return m
}

func (m *Metrics) observeRequest(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, outcome).Inc()
	m.latency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *Metrics) observeCacheHit(endpoint string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(endpoint).Inc()
}
