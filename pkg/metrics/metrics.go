package metrics

import (
	"time"
)

// RecordAssembly records a system assembly with its duration
func (r *Registry) RecordAssembly(status string, duration time.Duration, nonzeros int) {
	r.AssemblyTotal.WithLabelValues(status).Inc()
	r.AssemblyDuration.Observe(duration.Seconds())
	r.AssemblyMatrixNonzeros.Set(float64(nonzeros))
}

// RecordAssemblyCache records whether a cached A/b was reused
func (r *Registry) RecordAssemblyCache(hit bool) {
	if hit {
		r.AssemblyCacheHits.Inc()
	} else {
		r.AssemblyCacheMisses.Inc()
	}
}

// RecordLinearSolve records a linear solve with its duration and iteration count
func (r *Registry) RecordLinearSolve(backend, status string, duration time.Duration, iterations int) {
	r.LinearSolvesTotal.WithLabelValues(backend, status).Inc()
	r.LinearSolveDuration.WithLabelValues(backend).Observe(duration.Seconds())
	if iterations > 0 {
		r.SolverIterations.WithLabelValues(backend).Observe(float64(iterations))
	}
}

// RecordTimeStep records a completed time step
func (r *Registry) RecordTimeStep(scheme string) {
	r.TimeStepsTotal.WithLabelValues(scheme).Inc()
}

// RecordRun records a completed solver run
func (r *Registry) RecordRun(scheme, status string, steadyReached bool, snapshots int) {
	r.RunsTotal.WithLabelValues(scheme, status).Inc()
	if steadyReached {
		r.SteadyStateReached.Inc()
	}
	r.SnapshotsRetained.Set(float64(snapshots))
}
