package recommend

import "github.com/prometheus/client_golang/prometheus"

var (
	recommendDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "deck_recommend_duration_seconds",
		Help:    "End-to-end latency of one recommend call",
		Buckets: prometheus.DefBuckets,
	})

	recommendTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deck_recommend_requests_total",
		Help: "Recommend calls by live type, target and outcome",
	}, []string{"live_type", "target", "status"})

	strategyDecksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deck_recommend_strategy_decks_total",
		Help: "Decks contributed by each search strategy before merging",
	}, []string{"alg"})
)

func InitMetrics() {
	prometheus.MustRegister(recommendDuration, recommendTotal, strategyDecksTotal)
}
