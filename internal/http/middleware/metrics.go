package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// httpReqs counts requests by method, route path, and status code.
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// httpLat records request duration in seconds by method and route path.
	// Status is omitted to keep histogram cardinality bounded.
	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// httpInflight gauges the number of requests currently being processed.
	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// docJobs counts manual-generation job outcomes by terminal status.
	docJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "manual_jobs_total",
			Help: "Total manual-generation jobs by terminal status.",
		},
		[]string{"status"},
	)

	// docJobDur records how long manual generation took from pickup to a
	// terminal state.
	docJobDur = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "manual_job_duration_seconds",
			Help:    "Duration of manual-generation jobs in seconds.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, docJobs, docJobDur)
}

// Metrics returns a Gin middleware that instruments requests with Prometheus.
// The "path" label uses the registered route (c.FullPath()) so raw URLs never
// explode label cardinality; unmatched routes fall back to the URL path.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		httpReqs.WithLabelValues(method, path, status).Inc()
		httpLat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// ObserveJobOutcome records a manual-generation job reaching a terminal
// status after the given processing duration. Called by the worker.
func ObserveJobOutcome(status string, d time.Duration) {
	docJobs.WithLabelValues(status).Inc()
	docJobDur.Observe(d.Seconds())
}
