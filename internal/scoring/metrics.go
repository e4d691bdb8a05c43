package scoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScoresTotal tracks completed scoring invocations by verdict.
	ScoresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polyscore_scores_total",
		Help: "Total number of scored trades by verdict",
	}, []string{"verdict"})

	// ValidationFailuresTotal tracks rejected requests.
	ValidationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polyscore_validation_failures_total",
		Help: "Total number of requests rejected by trade validation",
	})

	// ScoreDurationSeconds tracks end-to-end scoring latency.
	ScoreDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "polyscore_score_duration_seconds",
		Help:    "End-to-end latency of one scoring invocation",
		Buckets: prometheus.DefBuckets,
	})
)
