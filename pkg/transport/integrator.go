package transport

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dd0wney/cluso-porenet/pkg/logging"
	"github.com/dd0wney/cluso-porenet/pkg/metrics"
	"github.com/dd0wney/cluso-porenet/pkg/network"
	"github.com/dd0wney/cluso-porenet/pkg/phase"
	"github.com/dd0wney/cluso-porenet/pkg/results"
)

// Solver advances a transport quantity over a pore network with the
// configured integration scheme. One Solver runs one quantity; the step
// loop is strictly sequential and the evolving solution vector is owned
// by the Solver until published as immutable snapshots.
type Solver struct {
	net      *network.Network
	ph       *phase.Phase
	conds    *ConditionSet
	settings Settings

	pairs  []Pair // explicit conductance pairs, nil until set
	logger logging.Logger
	reg    *metrics.Registry
}

// New creates a solver bound to a network and phase.
func New(net *network.Network, ph *phase.Phase, settings Settings) *Solver {
	return &Solver{
		net:      net,
		ph:       ph,
		conds:    NewConditionSet(net.NumPores()),
		settings: settings,
		logger:   logging.DefaultLogger().With(logging.Component("transport")),
		reg:      metrics.DefaultRegistry(),
	}
}

// SetLogger replaces the solver's logger.
func (s *Solver) SetLogger(logger logging.Logger) {
	s.logger = logger.With(logging.Component("transport"))
}

// SetMetrics replaces the solver's metrics registry.
func (s *Solver) SetMetrics(reg *metrics.Registry) {
	s.reg = reg
}

// Conditions returns the boundary/initial condition set of this solver.
func (s *Solver) Conditions() *ConditionSet {
	return s.conds
}

// Settings returns the solver settings.
func (s *Solver) Settings() Settings {
	return s.settings
}

// SetConductancePairs overrides the conductance lookup with explicit
// directional pairs, as produced by AdvectionDiffusionConductance.
func (s *Solver) SetConductancePairs(pairs []Pair) error {
	if len(pairs) != s.net.NumThroats() {
		return shapeError("SetConductancePairs", len(pairs), s.net.NumThroats())
	}
	s.pairs = pairs
	return nil
}

// resolvePairs loads the conductance configured by settings.Conductance
// from the phase unless explicit pairs were set.
func (s *Solver) resolvePairs() ([]Pair, error) {
	if s.pairs != nil {
		return s.pairs, nil
	}
	g, err := s.ph.Field(s.settings.Conductance)
	if err != nil {
		return nil, &SolveError{Op: "Run", Context: fmt.Sprintf("conductance %q", s.settings.Conductance), Cause: ErrConfiguration}
	}
	for ti, v := range g {
		if v < 0 {
			return nil, configError("Run", fmt.Sprintf("negative conductance on throat %d", ti))
		}
	}
	return SymmetricPairs(g), nil
}

// roundTime rounds a time stamp to the configured decimal precision so
// snapshot keys never collide through floating-point drift.
func (s *Solver) roundTime(t float64) float64 {
	shift := math.Pow(10, float64(s.settings.TPrecision))
	return math.Round(t*shift) / shift
}

// outputTimes precomputes the snapshot retention set. Interval requests
// are snapped to the nearest multiple of t_step, ties rounding up; an
// interval beyond t_final retains no intermediate snapshots. Explicit
// report-time lists are honored exactly after precision rounding.
func (s *Solver) outputTimes() map[float64]bool {
	retain := make(map[float64]bool)

	if len(s.settings.TOutputTimes) > 0 {
		for _, t := range s.settings.TOutputTimes {
			retain[s.roundTime(t)] = true
		}
		return retain
	}

	interval := s.settings.TOutput
	if interval <= 0 || interval > s.settings.TFinal-s.settings.TInitial {
		return retain
	}
	steps := math.Floor(interval/s.settings.TStep + 0.5)
	if steps < 1 {
		steps = 1
	}
	snapped := steps * s.settings.TStep

	for t := s.settings.TInitial + snapped; t <= s.settings.TFinal+1e-9*snapped; t += snapped {
		retain[s.roundTime(t)] = true
	}
	return retain
}

// Run executes the configured scheme and returns the retained snapshots.
// On a step failure the snapshots recorded so far are returned alongside
// the error. The final field is also published to the phase under the
// configured quantity name.
func (s *Solver) Run(ctx context.Context) (*results.Set, error) {
	if err := s.settings.Validate(); err != nil {
		return nil, err
	}
	if len(s.conds.ValuePores()) == 0 {
		return nil, configError("Run", "no value boundary condition anchors the system")
	}

	pairs, err := s.resolvePairs()
	if err != nil {
		return nil, err
	}
	adapter, err := NewAdapter(s.settings.Solver)
	if err != nil {
		return nil, err
	}

	asm := NewAssembler(s.net, s.conds, pairs, s.settings.CacheA, s.settings.CacheB, s.reg)

	s.logger.Info("run started",
		logging.Scheme(s.settings.Scheme),
		logging.Quantity(s.settings.Quantity),
		logging.Pores(s.net.NumPores()),
		logging.Throats(s.net.NumThroats()))

	if s.settings.Scheme == SchemeSteady {
		return s.runSteady(asm, adapter)
	}
	return s.runTransient(ctx, asm, adapter)
}

func (s *Solver) runSteady(asm *Assembler, adapter Adapter) (*results.Set, error) {
	a, b := asm.SteadySystem()

	start := time.Now()
	x, iters, err := adapter.Solve(a, b)
	if err != nil {
		s.reg.RecordLinearSolve(adapter.Name(), "error", time.Since(start), iters)
		s.reg.RecordRun(s.settings.Scheme, "error", false, 0)
		return nil, err
	}
	s.reg.RecordLinearSolve(adapter.Name(), "ok", time.Since(start), iters)

	set := results.NewSet(s.settings.Quantity)
	t0 := s.roundTime(s.settings.TInitial)
	set.Append(t0, x)
	set.MarkSteady(t0)

	if err := s.publish(x); err != nil {
		return set, err
	}
	s.reg.RecordRun(s.settings.Scheme, "ok", true, set.Len())
	s.logger.Info("steady solve complete", logging.Iterations(iters))
	return set, nil
}

func (s *Solver) runTransient(ctx context.Context, asm *Assembler, adapter Adapter) (*results.Set, error) {
	theta := 1.0
	if s.settings.Scheme == SchemeCrankNicolson {
		theta = 0.5
	}

	volumes, err := s.net.PoreProp(network.KeyPoreVolume)
	if err != nil {
		return nil, &SolveError{Op: "Run", Context: "pore.volume is required for transient schemes", Cause: ErrConfiguration}
	}

	x := s.conds.InitialField()
	for _, p := range s.conds.ValuePores() {
		x[p] = s.conds.BCValue(p)
	}

	retain := s.outputTimes()
	set := results.NewSet(s.settings.Quantity)
	set.Append(s.roundTime(s.settings.TInitial), x)

	t := s.settings.TInitial
	step := 0
	for t < s.settings.TFinal-1e-12 {
		if err := ctx.Err(); err != nil {
			s.reg.RecordRun(s.settings.Scheme, "canceled", false, set.Len())
			return set, &SolveError{Op: "Run", Step: step + 1, Time: t, Cause: err}
		}

		dt := s.settings.TStep
		if remaining := s.settings.TFinal - t; remaining < dt*(1-1e-9) {
			// Shortened final step: the cached matrix embeds dt
			dt = remaining
			asm.Invalidate()
		}

		a, b := asm.TransientSystem(theta, dt, volumes, x)

		start := time.Now()
		xNew, iters, err := adapter.Solve(a, b)
		if err != nil {
			s.reg.RecordLinearSolve(adapter.Name(), "error", time.Since(start), iters)
			s.reg.RecordRun(s.settings.Scheme, "error", false, set.Len())
			return set, &SolveError{Op: "Step", Step: step + 1, Time: t + dt, Cause: err}
		}
		s.reg.RecordLinearSolve(adapter.Name(), "ok", time.Since(start), iters)
		s.reg.RecordTimeStep(s.settings.Scheme)

		change := normalizedChange(xNew, x)
		step++
		t = s.roundTime(t + dt)
		x = xNew

		if retain[t] || t >= s.settings.TFinal-1e-12 {
			set.Append(t, x)
		}

		if change < s.settings.TTolerance {
			set.MarkSteady(t)
			set.Append(t, x)
			s.logger.Info("steady state reached",
				logging.Step(step), logging.SimTime(t), logging.Residual(change))
			break
		}

		s.logger.Debug("step complete",
			logging.Step(step), logging.SimTime(t), logging.Residual(change))
	}

	if err := s.publish(x); err != nil {
		return set, err
	}
	steady, _ := set.SteadyState()
	s.reg.RecordRun(s.settings.Scheme, "ok", steady, set.Len())
	s.logger.Info("run complete",
		logging.Step(step), logging.SimTime(t), logging.Count(set.Len()))
	return set, nil
}

// publish writes the final field to the phase under the quantity name.
func (s *Solver) publish(x []float64) error {
	if err := s.ph.SetField(s.settings.Quantity, x); err != nil {
		return &SolveError{Op: "Publish", Context: s.settings.Quantity, Cause: err}
	}
	return nil
}

// normalizedChange is the max-norm of the step difference scaled by the
// max-norm of the new solution.
func normalizedChange(xNew, xOld []float64) float64 {
	maxDiff := 0.0
	maxVal := 0.0
	for i := range xNew {
		if d := math.Abs(xNew[i] - xOld[i]); d > maxDiff {
			maxDiff = d
		}
		if v := math.Abs(xNew[i]); v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		return maxDiff
	}
	return maxDiff / maxVal
}
