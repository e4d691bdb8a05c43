package markets

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MetadataFetchesTotal tracks successful Gamma API fetches.
	MetadataFetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polyscore_markets_metadata_fetches_total",
		Help: "Total number of successful metadata fetches from the Gamma API",
	})

	// MetadataFetchFailuresTotal tracks fetches that exhausted retries.
	MetadataFetchFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polyscore_markets_metadata_fetch_failures_total",
		Help: "Total number of metadata fetches that exhausted retries",
	})

	// MetadataCacheHitsTotal tracks cache hits for metadata.
	MetadataCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polyscore_markets_metadata_cache_hits_total",
		Help: "Total number of metadata cache hits",
	})

	// MetadataCacheMissesTotal tracks cache misses for metadata.
	MetadataCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polyscore_markets_metadata_cache_misses_total",
		Help: "Total number of metadata cache misses",
	})
)
