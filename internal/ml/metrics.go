package ml

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PredictionsTotal tracks successful model calls
	PredictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polyscore_ml_predictions_total",
		Help: "Total number of successful model predictions",
	})

	// PredictionFailuresTotal tracks model calls that exhausted retries
	PredictionFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polyscore_ml_prediction_failures_total",
		Help: "Total number of failed model predictions",
	}, []string{"reason"})

	// PredictionDurationSeconds tracks end-to-end prediction latency
	PredictionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "polyscore_ml_prediction_duration_seconds",
		Help:    "Model prediction latency including retries",
		Buckets: prometheus.DefBuckets,
	})
)
