package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the application.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	analyticsRunsTotal   *prometheus.CounterVec
	analyticsRunDuration *prometheus.HistogramVec
	rowsIngestedTotal    *prometheus.CounterVec
}

// NewMetrics creates and registers the application collectors on a
// dedicated registry. Go runtime and process collectors are included.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency by method and route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		analyticsRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_runs_total",
				Help: "Analytics computations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		analyticsRunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "analytics_run_duration_seconds",
				Help:    "Analytics computation latency by operation",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"operation"},
		),
		rowsIngestedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rows_ingested_total",
				Help: "Rows accepted through upload endpoints by dataset",
			},
			[]string{"dataset"},
		),
	}

	registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.analyticsRunsTotal,
		m.analyticsRunDuration,
		m.rowsIngestedTotal,
	)

	return m
}

// Handler returns the HTTP handler serving the registry in the
// Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveAnalyticsRun records one analytics computation.
func (m *Metrics) ObserveAnalyticsRun(operation string, err error, duration time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.analyticsRunsTotal.WithLabelValues(operation, outcome).Inc()
	m.analyticsRunDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// AddRowsIngested records rows accepted for a dataset ("trades" or "prices").
func (m *Metrics) AddRowsIngested(dataset string, n int) {
	m.rowsIngestedTotal.WithLabelValues(dataset).Add(float64(n))
}
