package cellr

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const levelLabel = "level"

var (
	geometryComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cellr_geometry_computed_total",
		Help: "The number of cell geometries realized, by cell level.",
	}, []string{
		levelLabel,
	})

	geometryCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cellr_geometry_cache_hits_total",
		Help: "The number of geometry lookups served from cache.",
	})

	geometryCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cellr_geometry_cache_misses_total",
		Help: "The number of geometry lookups that missed the cache.",
	})

	tokensRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cellr_tokens_rejected_total",
		Help: "The number of malformed or invalid cell tokens rejected.",
	})
)

func instrumentGeometryComputed(level int) {
	geometryComputed.
		With(prometheus.Labels{levelLabel: strconv.Itoa(level)}).
		Inc()
}

func instrumentGeometryCacheHit() {
	geometryCacheHits.Inc()
}

func instrumentGeometryCacheMiss() {
	geometryCacheMisses.Inc()
}

func instrumentTokenRejected() {
	tokensRejected.Inc()
}
