package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the solver
type Registry struct {
	// Assembly Metrics
	AssemblyTotal          *prometheus.CounterVec
	AssemblyDuration       prometheus.Histogram
	AssemblyCacheHits      prometheus.Counter
	AssemblyCacheMisses    prometheus.Counter
	AssemblyMatrixNonzeros prometheus.Gauge

	// Solve Metrics
	LinearSolvesTotal   *prometheus.CounterVec
	LinearSolveDuration *prometheus.HistogramVec
	SolverIterations    *prometheus.HistogramVec

	// Integration Metrics
	TimeStepsTotal     *prometheus.CounterVec
	RunsTotal          *prometheus.CounterVec
	SteadyStateReached prometheus.Counter
	SnapshotsRetained  prometheus.Gauge

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initAssemblyMetrics()
	r.initSolveMetrics()
	r.initIntegrationMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
