package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stitchhub_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stitchhub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ImageUploads counts image upload attempts by outcome.
	ImageUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stitchhub_image_uploads_total",
		Help: "Total number of image uploads by outcome",
	}, []string{"outcome"})

	// ImageUploadBytes records the size of accepted image uploads.
	ImageUploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stitchhub_image_upload_bytes",
		Help:    "Size in bytes of accepted image uploads",
		Buckets: prometheus.ExponentialBuckets(16*1024, 2, 10),
	})

	// DesignsSubmitted counts persisted design submissions by category.
	DesignsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stitchhub_designs_submitted_total",
		Help: "Total number of designs submitted by category",
	}, []string{"category"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		ObserveQuery(operation, table, start)
	}
}
