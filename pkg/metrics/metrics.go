// Package metrics exposes the Prometheus registry and the HTTP-level metrics
// of the album proxy. Domain metrics are defined next to the code that
// records them (upstream, cache) and registered via promauto.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the Prometheus registerer every album proxy metric is added to.
var Registry = prometheus.DefaultRegisterer

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "albumproxy_http_requests_total",
		Help: "Total inbound HTTP requests by route and status",
	}, []string{"route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "albumproxy_http_request_duration_seconds",
		Help:    "Inbound HTTP request duration in seconds by route",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"route"})
)

// Handler serves the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency per registered route.
// Unmatched requests are grouped under "unmatched" to bound cardinality.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if !c.Response().Committed {
					status = http.StatusInternalServerError
				}
			}

			httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Metrics Documentation
//
// HTTP Metrics (pkg/metrics):
//   - albumproxy_http_requests_total{route, status} (Counter): inbound requests
//   - albumproxy_http_request_duration_seconds{route} (Histogram): inbound latency
//
// Conditional Cache Metrics (pkg/cache):
//   - albumproxy_conditional_requests_total{kind} (Counter): requests carrying validators
//   - albumproxy_not_modified_total{kind, validator} (Counter): 304s answered without upstream
//
// Upstream Metrics (pkg/upstream):
//   - albumproxy_upstream_requests_total{kind, status} (Counter): upstream calls by status
//   - albumproxy_upstream_request_duration_seconds{kind} (Histogram): upstream latency
//   - albumproxy_upstream_errors_total{class} (Counter): errors by class (client, server, network)
//   - albumproxy_upstream_retries_total{error_class} (Counter): retry attempts
//   - albumproxy_upstream_retry_backoff_seconds{error_class} (Histogram): backoff waits
//   - albumproxy_upstream_retry_exhausted_total{error_class} (Counter): exhausted retries
//
// Example Prometheus Queries:
//
//   # Share of thumbnail requests answered with 304
//   sum(rate(albumproxy_not_modified_total{kind="thumbnail"}[5m])) /
//   sum(rate(albumproxy_http_requests_total{route=~".*/thumbnail/:assetId"}[5m]))
//
//   # Upstream error rate
//   sum(rate(albumproxy_upstream_errors_total[5m])) by (class)
//
//   # P95 upstream latency for originals
//   histogram_quantile(0.95, rate(albumproxy_upstream_request_duration_seconds_bucket{kind="original-asset"}[5m]))
