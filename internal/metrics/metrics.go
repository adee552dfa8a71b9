// Package metrics holds the Prometheus collectors for svcboard.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all collectors, registered against their own prometheus.Registry.
type Registry struct {
	reg *prometheus.Registry

	// Directory client
	DirectoryRequestsTotal   *prometheus.CounterVec
	DirectoryRequestDuration *prometheus.HistogramVec

	// Dashboard HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// View
	RendersTotal *prometheus.CounterVec
}

// New creates a Registry with every collector registered.
func New() *Registry {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Registry{
		reg: reg,
		DirectoryRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "svcboard_directory_requests_total",
				Help: "Directory API calls by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		DirectoryRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "svcboard_directory_request_duration_seconds",
				Help:    "Directory API call latency in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"op"},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "svcboard_http_requests_total",
				Help: "Dashboard HTTP requests by route, method, and status code",
			},
			[]string{"route", "method", "status_code"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "svcboard_http_request_duration_seconds",
				Help:    "Dashboard HTTP request latency in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "svcboard_http_requests_in_flight",
				Help: "Dashboard HTTP requests currently being served",
			},
		),
		RendersTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "svcboard_renders_total",
				Help: "Table renders by resulting view state",
			},
			[]string{"state"},
		),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer returns the underlying registry (for tests).
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// ObserveDirectory records one directory call. A nil Registry is a no-op.
func (r *Registry) ObserveDirectory(op, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.DirectoryRequestsTotal.WithLabelValues(op, outcome).Inc()
	r.DirectoryRequestDuration.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveRender records the state a table render ended in. A nil Registry is a no-op.
func (r *Registry) ObserveRender(state string) {
	if r == nil {
		return
	}
	r.RendersTotal.WithLabelValues(state).Inc()
}
