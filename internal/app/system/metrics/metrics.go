// Package metrics collects and exposes Prometheus metrics for the HTTP
// surface and the donation lifecycle.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the slice of the collector the service layer needs.
type Recorder interface {
	RecordLogin(outcome string)
	RecordDonationSubmitted(itemType string)
	RecordTransition(from, to string)
}

// Collector registers and feeds the Prometheus metrics.
type Collector struct {
	httpRequests *prometheus.CounterVec
	httpLatency  prometheus.Histogram

	logins      *prometheus.CounterVec
	submissions *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "donatehub_http_requests_total",
			Help: "HTTP requests by method, route pattern, and status code.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "donatehub_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "donatehub_login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "donatehub_donations_submitted_total",
			Help: "Donation requests submitted, by item type.",
		}, []string{"item_type"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "donatehub_donation_transitions_total",
			Help: "Donation lifecycle transitions by from and to status.",
		}, []string{"from", "to"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.logins,
		c.submissions,
		c.transitions,
	)

	return c
}

// RecordLogin counts a login attempt by outcome ("success", "user_not_found", ...).
func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

// RecordDonationSubmitted counts a new donation request.
func (c *Collector) RecordDonationSubmitted(itemType string) {
	if itemType == "" {
		itemType = "other"
	}
	c.submissions.WithLabelValues(itemType).Inc()
}

// RecordTransition counts a lifecycle transition.
func (c *Collector) RecordTransition(from, to string) {
	c.transitions.WithLabelValues(from, to).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware counts every request against the chi route pattern, so
// /donations/42 and /donations/43 share one series.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		c.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		c.httpLatency.Observe(time.Since(start).Seconds())
	})
}

// Handler returns the Prometheus scrape handler.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
