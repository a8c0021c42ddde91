// Package prometheus holds the metrics exposed by the scoring server.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultHTTPDurationBuckets spans sub-millisecond cache hits to slow
// cold-start requests.
var DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// Metrics holds the scoring server instrumentation.
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal counts HTTP requests by method, path and status.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration observes request latency in seconds by method and path.
	RequestDuration *prometheus.HistogramVec

	// PredictionsTotal counts cluster assignments by cluster id.
	PredictionsTotal *prometheus.CounterVec
}

// New registers the scoring server metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "airmod",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, path and status code.",
		}, []string{"method", "path", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "airmod",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   DefaultHTTPDurationBuckets,
		}, []string{"method", "path"}),
		PredictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "airmod",
			Name:      "predictions_total",
			Help:      "Cluster assignments served, by cluster id.",
		}, []string{"cluster"}),
	}
	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.PredictionsTotal)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
