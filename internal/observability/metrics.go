package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jotter_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jotter_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// NotificationsPublished counts persisted notifications by type.
	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jotter_notifications_published_total",
		Help: "Total notifications created, labelled by type",
	}, []string{"type"})

	// MediaUploads counts media-store uploads by folder and outcome.
	MediaUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jotter_media_uploads_total",
		Help: "Total media uploads by folder and outcome",
	}, []string{"folder", "outcome"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation string, elapsed time.Duration) {
	DatabaseQueryLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}
