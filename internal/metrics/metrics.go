package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status code.",
		},
		[]string{"endpoint", "code"},
	)

	bookings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "bookings_total",
			Help:      "Booking lifecycle transitions by resulting status.",
		},
		[]string{"status"},
	)

	exportJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "export_jobs_total",
			Help:      "Export jobs by result.",
		},
		[]string{"result"},
	)

	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-user rate limiter.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookings, exportJobs, rateLimited)
	})
}

// IncHTTP increments the counter for an endpoint/status pair.
func IncHTTP(endpoint, code string) {
	httpRequests.WithLabelValues(endpoint, code).Inc()
}

// IncBooking increments the booking transition counter.
func IncBooking(status string) {
	bookings.WithLabelValues(status).Inc()
}

// IncExport increments the export job counter.
func IncExport(result string) {
	exportJobs.WithLabelValues(result).Inc()
}

// IncRateLimited counts a throttled request.
func IncRateLimited() {
	rateLimited.Inc()
}
