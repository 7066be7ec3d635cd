package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts finished HTTP requests by route and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "condoflow",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Finished HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration observes request latency by route.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "condoflow",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// OutboxPublished counts outbox events published by result.
	OutboxPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "condoflow",
			Subsystem: "outbox",
			Name:      "published_total",
			Help:      "Outbox events by publish result.",
		},
		[]string{"event_type", "result"},
	)
)

// Handler serves the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
