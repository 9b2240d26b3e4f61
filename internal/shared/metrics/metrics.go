package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intake_submissions_total",
		Help: "Total intake submissions by outcome.",
	}, []string{"outcome"})

	extractionFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "extraction_failures_total",
		Help: "Total extraction failures by kind.",
	}, []string{"kind"})

	documentStoresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "document_stores_total",
		Help: "Total document writes by tier.",
	}, []string{"tier"})

	reconcileTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fallback_reconcile_total",
		Help: "Fallback-tier documents reconciled into the primary tier.",
	}, []string{"outcome"})

	submissionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "intake_submission_duration_seconds",
		Help:    "End-to-end intake pipeline duration.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
)

// IncSubmission records an intake submission outcome.
func IncSubmission(outcome string) {
	submissionsTotal.WithLabelValues(outcome).Inc()
}

// IncExtractionFailure records a typed extraction failure.
func IncExtractionFailure(kind string) {
	extractionFailuresTotal.WithLabelValues(kind).Inc()
}

// IncDocumentStore records a document write to the given tier.
func IncDocumentStore(tier string) {
	documentStoresTotal.WithLabelValues(tier).Inc()
}

// IncReconcile records a reconcile attempt outcome.
func IncReconcile(outcome string) {
	reconcileTotal.WithLabelValues(outcome).Inc()
}

// ObserveSubmissionDuration records an end-to-end pipeline duration.
func ObserveSubmissionDuration(d time.Duration) {
	submissionDuration.Observe(d.Seconds())
}

// Handler exposes the Prometheus metrics endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// HTTP returns middleware counting requests per route.
func HTTP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, statusClass(c.Writer.Status())).Inc()
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
