package transport

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestAssemblyInvariants uses property-based testing to verify the
// invariants of the assembled systems. These properties should hold for
// any positive conductance field and any admissible boundary setup.
func TestAssemblyInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	// Property 1: symmetric diffusion systems are diagonally dominant,
	// so the CG and direct backends are both safe on them.
	properties.Property("steady diffusion system is diagonally dominant", prop.ForAll(
		func(raw []float64) bool {
			n := len(raw) + 1
			net := chainNet(t, n, 1)
			cs := NewConditionSet(n)
			cs.SetValueBC([]int{0}, []float64{1.0})

			g := make([]float64, len(raw))
			for i, v := range raw {
				// Map into a positive, well-spread conductance range
				g[i] = math.Abs(v) + 1e-12
			}
			asm := NewAssembler(net, cs, SymmetricPairs(g), false, false, nil)
			a, _ := asm.SteadySystem()
			return a.IsDiagonallyDominant()
		},
		gen.SliceOfN(9, gen.Float64Range(1e-9, 1e3)),
	))

	// Property 2: the transient accumulation term only strengthens the
	// diagonal, for any theta in (0, 1] and any positive volumes.
	properties.Property("transient system is diagonally dominant", prop.ForAll(
		func(raw []float64, theta, volume float64) bool {
			n := len(raw) + 1
			net := chainNet(t, n, volume)
			cs := NewConditionSet(n)
			cs.SetValueBC([]int{0}, []float64{1.0})

			g := make([]float64, len(raw))
			for i, v := range raw {
				g[i] = math.Abs(v) + 1e-12
			}
			volumes := make([]float64, n)
			for i := range volumes {
				volumes[i] = volume
			}
			asm := NewAssembler(net, cs, SymmetricPairs(g), false, false, nil)
			a, _ := asm.TransientSystem(theta, 0.1, volumes, make([]float64, n))
			return a.IsDiagonallyDominant()
		},
		gen.SliceOfN(9, gen.Float64Range(1e-9, 1e3)),
		gen.Float64Range(0.5, 1.0),
		gen.Float64Range(1e-15, 1.0),
	))

	// Property 3: a rejected mixed assignment leaves the condition set
	// exactly as it was.
	properties.Property("conflicting BC assignment has no partial effect", prop.ForAll(
		func(value float64) bool {
			cs := NewConditionSet(10)
			if err := cs.SetValueBC([]int{5}, []float64{value}); err != nil {
				return false
			}

			// Overlaps the existing value BC, must fail atomically
			if err := cs.SetRateBC([]int{2, 5, 7}, []float64{1e-9}); err == nil {
				return false
			}
			return !cs.IsRate(2) && !cs.IsRate(7) &&
				cs.IsValue(5) && cs.BCValue(5) == value
		},
		gen.Float64Range(-1e6, 1e6),
	))

	// Property 4: every interpolation reduces to pure diffusion at rest
	// and conserves the advective flux between the two edge directions.
	properties.Property("scheme weights conserve the edge flux", prop.ForAll(
		func(q, gd float64) bool {
			for _, s := range []Scheme{Upwind, Hybrid, PowerLaw, Exponential} {
				diff := schemeWeight(s, q, gd) - schemeWeight(s, -q, gd)
				if math.Abs(diff+q) > 1e-9*(math.Abs(q)+gd) {
					return false
				}
				if schemeWeight(s, 0, gd) != gd && s != Exponential {
					return false
				}
			}
			return true
		},
		gen.Float64Range(-1e-6, 1e-6),
		gen.Float64Range(1e-12, 1e-6),
	))

	properties.TestingRun(t)
}
