package waterfall

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// ResolutionsTotal tracks waterfall resolutions by terminal data source.
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polyscore_waterfall_resolutions_total",
			Help: "Total number of trader profile resolutions by data source",
		},
		[]string{"data_source"},
	)
)
