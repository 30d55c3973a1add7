package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the deck recommend HTTP handler
	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "deck_recommend_http_latency_seconds",
		Help:    "Latency of the recommend HTTP handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of recommend requests served
	RecommendRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deck_recommend_http_requests_total",
		Help: "Total number of recommend HTTP requests",
	})

	// Total number of snapshot uploads cached
	SnapshotUploads = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deck_snapshot_uploads_total",
		Help: "Total number of cached player snapshot uploads",
	})
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		RecommendRequests,
		SnapshotUploads,
	)
}
