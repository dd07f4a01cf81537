package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAssemblyMetrics() {
	r.AssemblyTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "porenet_assembly_total",
			Help: "Total number of system assemblies",
		},
		[]string{"status"},
	)

	r.AssemblyDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "porenet_assembly_duration_seconds",
			Help:    "System assembly duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1.0, 5.0},
		},
	)

	r.AssemblyCacheHits = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "porenet_assembly_cache_hits_total",
			Help: "Number of assemblies served from the cached A/b",
		},
	)

	r.AssemblyCacheMisses = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "porenet_assembly_cache_misses_total",
			Help: "Number of assemblies that rebuilt A/b",
		},
	)

	r.AssemblyMatrixNonzeros = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "porenet_assembly_matrix_nonzeros",
			Help: "Nonzero entries in the last assembled matrix",
		},
	)
}
