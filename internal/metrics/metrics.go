// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zonecast_http_requests_total",
			Help: "HTTP requests handled by the server",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zonecast_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ResolveDuration is the time spent computing one zone's active set.
	ResolveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "zonecast_resolve_duration_seconds",
			Help:    "Active set resolution latency in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5},
		},
	)

	// ActiveSetSize is the number of items in the last set published per zone.
	ActiveSetSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "zonecast_active_set_items",
			Help: "Items in the most recently published active set",
		},
		[]string{"zone"},
	)

	// Pushes counts push attempts per zone by result (delivered, dropped).
	Pushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zonecast_pushes_total",
			Help: "Active set push attempts to sessions",
		},
		[]string{"zone", "result"},
	)

	// Sessions is the number of sessions registered with the hub.
	Sessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "zonecast_sessions",
			Help: "Display and admin sessions connected to the hub",
		},
	)

	// MirrorErrors counts failed hand-offs to a hub mirror.
	MirrorErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zonecast_mirror_errors_total",
			Help: "Failed active set publishes to a mirror",
		},
		[]string{"mirror"},
	)

	// OverlapAdvisories counts schedule entries created under a higher priority overlap.
	OverlapAdvisories = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "zonecast_overlap_advisories_total",
			Help: "Schedule entries created while overlapped by a higher priority entry",
		},
	)
)

// Middleware records request counts and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
