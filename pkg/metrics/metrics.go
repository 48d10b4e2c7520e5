package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business metrics
	LeadsCreated          prometheus.Counter
	MutationsFailed       prometheus.Counter
	RealtimeEventsApplied *prometheus.CounterVec

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		LeadsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leads_created_total",
			Help: "Total number of leads created through the mutation gateway",
		}),
		MutationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mutations_failed_total",
			Help: "Total number of mutations that failed to persist (local state kept)",
		}),
		RealtimeEventsApplied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "realtime_events_applied_total",
				Help: "Total number of realtime change notifications merged into the store",
			},
			[]string{"table", "event"},
		),
		CacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"cache"},
		),
		CacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"cache"},
		),
	}
}

// Middleware returns an Echo middleware that records request counts and
// latencies per method, path and status.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			method := c.Request().Method
			path := c.Path()
			statusStr := strconv.Itoa(status)

			m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
			m.HTTPRequestDuration.WithLabelValues(method, path, statusStr).
				Observe(time.Since(start).Seconds())

			return err
		}
	}
}
