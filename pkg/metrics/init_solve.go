package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSolveMetrics() {
	r.LinearSolvesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "porenet_linear_solves_total",
			Help: "Total number of linear solves",
		},
		[]string{"backend", "status"},
	)

	r.LinearSolveDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "porenet_linear_solve_duration_seconds",
			Help:    "Linear solve duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
		[]string{"backend"},
	)

	r.SolverIterations = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "porenet_solver_iterations",
			Help:    "Iterations used by iterative linear solves",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		},
		[]string{"backend"},
	)
}
