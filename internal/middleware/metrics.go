// Package middleware provides echo middleware and the Prometheus collectors
// shared by the HTTP layer and the pipeline.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
		[]string{"method", "path"},
	)
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Pipeline metrics
	emailsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_processed_total",
			Help: "Total number of pipeline runs by extraction outcome",
		},
		[]string{"outcome"},
	)
	extractionAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "extraction_attempts",
			Help:    "Model call attempts used per extraction",
			Buckets: []float64{1, 2, 3},
		},
	)
	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_pushes_total",
			Help: "Total number of notification pushes by result",
		},
		[]string{"status"},
	)
	mailWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mail_write_failures_total",
			Help: "Failed persistence writes by table",
		},
		[]string{"table"},
	)
)

// MetricsMiddleware collects request count, latency, and in-flight gauges for
// every route except /metrics itself.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == "/metrics" {
				return next(c)
			}

			start := time.Now()
			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			err := next(c)

			method := c.Request().Method
			path := c.Path()
			status := strconv.Itoa(c.Response().Status)

			httpRequestsTotal.WithLabelValues(method, path, status).Inc()
			httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// RecordPipelineRun counts one completed pipeline run by extraction outcome.
func RecordPipelineRun(outcome string) {
	emailsProcessedTotal.WithLabelValues(outcome).Inc()
}

// ObserveExtractionAttempts records how many model calls an extraction used.
func ObserveExtractionAttempts(attempts int) {
	extractionAttempts.Observe(float64(attempts))
}

// RecordNotification counts one push attempt: "ok", "http_error", or
// "transport_error".
func RecordNotification(status string) {
	notificationsTotal.WithLabelValues(status).Inc()
}

// RecordMailWriteFailure counts a failed persistence write for the given
// table.
func RecordMailWriteFailure(table string) {
	mailWriteFailures.WithLabelValues(table).Inc()
}
