package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initIntegrationMetrics() {
	r.TimeStepsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "porenet_time_steps_total",
			Help: "Total number of time steps advanced",
		},
		[]string{"scheme"},
	)

	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "porenet_runs_total",
			Help: "Total number of solver runs",
		},
		[]string{"scheme", "status"},
	)

	r.SteadyStateReached = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "porenet_steady_state_reached_total",
			Help: "Runs that terminated early at steady state",
		},
	)

	r.SnapshotsRetained = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "porenet_snapshots_retained",
			Help: "Snapshots retained by the last run",
		},
	)
}
