package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by method, route and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_http_requests_total",
		Help: "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	// HTTPDuration observes request latency per route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campus_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// PushSubmissions counts push messages handed to the provider by result.
	PushSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_push_submissions_total",
		Help: "Push messages submitted to the provider",
	}, []string{"mode", "result"})

	// ScheduledFires counts scheduled notifications dispatched by the cron trigger.
	ScheduledFires = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campus_scheduled_notifications_fired_total",
		Help: "Scheduled notifications dispatched",
	})
)
