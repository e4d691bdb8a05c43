package classifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// ClassificationsTotal tracks classifications by resolution source.
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polyscore_classifications_total",
			Help: "Total number of market classifications by source",
		},
		[]string{"source"},
	)
)
