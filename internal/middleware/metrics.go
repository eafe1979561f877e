package middleware

import (
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the HTTP surface.  Routes are
// labelled by the registered path template (e.g. /v1/review/:id/approve), not
// the raw URL, so cardinality stays bounded.
type Metrics struct {
    requestsTotal   *prometheus.CounterVec
    requestDuration *prometheus.HistogramVec
}

// NewMetrics registers the collectors on the default registry.  Call it once
// per process; promauto panics on duplicate registration.
func NewMetrics(service string) *Metrics {
    labels := prometheus.Labels{"service": service}
    return &Metrics{
        requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
            Name:        "http_requests_total",
            Help:        "Count of HTTP requests by method, route and status code.",
            ConstLabels: labels,
        }, []string{"method", "route", "status"}),
        requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
            Name:        "http_request_duration_seconds",
            Help:        "HTTP request latency by method and route.",
            ConstLabels: labels,
            Buckets:     prometheus.DefBuckets,
        }, []string{"method", "route"}),
    }
}

// Middleware records one observation per request after the handler runs.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)

            route := c.Path()
            if route == "" {
                route = "unmatched"
            }
            method := c.Request().Method
            status := c.Response().Status
            if err != nil {
                // Echo writes the error after the middleware chain unwinds,
                // so read the status off the HTTPError when present.
                if he, ok := err.(*echo.HTTPError); ok {
                    status = he.Code
                }
            }

            m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
            m.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
            return err
        }
    }
}
