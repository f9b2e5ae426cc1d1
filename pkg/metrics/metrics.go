package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PromptCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prompt_cache_hits_total",
		Help: "Total number of prompt cache hits",
	}, []string{"tier"})

	PromptCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prompt_cache_misses_total",
		Help: "Total number of prompt cache misses",
	})

	PromptCacheInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prompt_cache_invalidations_total",
		Help: "Total number of wholesale prompt cache invalidations",
	})

	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Total number of requests to the prompt backend",
	}, []string{"operation"})

	UpstreamLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "upstream_latency_seconds",
		Help:    "Latency of prompt backend requests in seconds",
		Buckets: prometheus.DefBuckets,
	})

	UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_errors_total",
		Help: "Total number of failed prompt backend requests",
	}, []string{"operation"})

	// Persistent store metrics
	StoreOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_operation_duration_seconds",
		Help:    "Duration of persistent store operations in seconds",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"operation"})

	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_errors_total",
		Help: "Total number of persistent store errors",
	}, []string{"operation"})

	SliceOperations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slice_operations_total",
		Help: "Total number of image slice operations",
	})

	SliceTilesProduced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slice_tiles_produced_total",
		Help: "Total number of tiles produced by slice operations",
	})

	SliceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "slice_duration_seconds",
		Help:    "Duration of image slice operations in seconds",
		Buckets: prometheus.DefBuckets,
	})
)
