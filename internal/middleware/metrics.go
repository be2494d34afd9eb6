package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func init() {
	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestDuration)
}

// Metrics records a counter and a latency histogram per route.  The path
// label uses the echo route template (e.g. /api/listings/:id) rather than
// the raw URL so cardinality stays bounded.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method
			path := c.Path()

			requestCounter.WithLabelValues(method, path, status).Inc()
			requestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// PrometheusHandler exposes the metrics endpoint.
func PrometheusHandler() http.Handler {
	return promhttp.Handler()
}
