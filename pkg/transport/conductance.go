package transport

import (
	"fmt"
	"math"

	"github.com/dd0wney/cluso-porenet/pkg/network"
	"github.com/dd0wney/cluso-porenet/pkg/phase"
)

// Scheme selects the advective-diffusive interpolation used to weight
// edge transport against the local Peclet number.
type Scheme int

const (
	// Upwind is first-order and stable at all Peclet numbers
	Upwind Scheme = iota
	// Hybrid switches between upwind and central differencing on |Pe|
	Hybrid
	// PowerLaw matches the asymptotics of the exact 1-D exponential solution
	PowerLaw
	// Exponential is the exact 1-D analytic weighting, one exp per edge
	Exponential
)

// String returns the scheme name.
func (s Scheme) String() string {
	switch s {
	case Upwind:
		return "upwind"
	case Hybrid:
		return "hybrid"
	case PowerLaw:
		return "powerlaw"
	case Exponential:
		return "exponential"
	default:
		return "unknown"
	}
}

// ParseInterpolation converts a scheme name into a Scheme.
func ParseInterpolation(s string) (Scheme, error) {
	switch s {
	case "upwind":
		return Upwind, nil
	case "hybrid":
		return Hybrid, nil
	case "powerlaw":
		return PowerLaw, nil
	case "exponential":
		return Exponential, nil
	default:
		return 0, configError("ParseInterpolation", fmt.Sprintf("unknown scheme %q", s))
	}
}

// Pair holds the directional conductance weights of one throat.
// Forward multiplies the P2 unknown in the P1 row; Reverse multiplies the
// P1 unknown in the P2 row. For pure diffusion both are equal.
type Pair struct {
	Forward float64
	Reverse float64
}

// SymmetricPairs lifts a symmetric conductance field into pairs.
func SymmetricPairs(g []float64) []Pair {
	pairs := make([]Pair, len(g))
	for i, v := range g {
		pairs[i] = Pair{Forward: v, Reverse: v}
	}
	return pairs
}

// conduit collects the series geometry of one pore-throat-pore path.
type conduit struct {
	l1, lt, l2 float64 // half lengths and throat length
	a1, at, a2 float64 // cross-sectional areas
}

func conduits(net *network.Network) ([]conduit, error) {
	poreDia, err := net.PoreProp(network.KeyPoreDiameter)
	if err != nil {
		return nil, &SolveError{Op: "Conductance", Cause: err}
	}
	throatLen, err := net.ThroatProp(network.KeyThroatLength)
	if err != nil {
		return nil, &SolveError{Op: "Conductance", Cause: err}
	}
	throatArea, err := net.ThroatProp(network.KeyThroatArea)
	if err != nil {
		return nil, &SolveError{Op: "Conductance", Cause: err}
	}

	out := make([]conduit, net.NumThroats())
	for ti, t := range net.Throats() {
		d1, d2 := poreDia[t.P1], poreDia[t.P2]
		c := conduit{
			l1: d1 / 2,
			lt: throatLen[ti],
			l2: d2 / 2,
			a1: math.Pi / 4 * d1 * d1,
			at: throatArea[ti],
			a2: math.Pi / 4 * d2 * d2,
		}
		if c.a1 <= 0 || c.at <= 0 || c.a2 <= 0 {
			return nil, configError("Conductance", fmt.Sprintf("throat %d has non-positive area", ti))
		}
		if c.l1 <= 0 || c.lt <= 0 || c.l2 <= 0 {
			return nil, configError("Conductance", fmt.Sprintf("throat %d has non-positive length", ti))
		}
		out[ti] = c
	}
	return out, nil
}

// DiffusiveConductance computes the series pore-throat-pore diffusive
// conductance of every throat from the phase diffusivity and the network
// geometry. Non-positive diffusivity or area is rejected.
func DiffusiveConductance(net *network.Network, ph *phase.Phase) ([]float64, error) {
	diff, err := ph.Field(phase.KeyPoreDiffusivity)
	if err != nil {
		return nil, &SolveError{Op: "DiffusiveConductance", Cause: err}
	}
	cond, err := conduits(net)
	if err != nil {
		return nil, err
	}

	g := make([]float64, net.NumThroats())
	for ti, t := range net.Throats() {
		d1, d2 := diff[t.P1], diff[t.P2]
		if d1 <= 0 || d2 <= 0 {
			return nil, configError("DiffusiveConductance",
				fmt.Sprintf("throat %d has non-positive diffusivity", ti))
		}
		dt := (d1 + d2) / 2
		c := cond[ti]
		// Series resistance of the two pore halves and the throat
		r := c.l1/(d1*c.a1) + c.lt/(dt*c.at) + c.l2/(d2*c.a2)
		g[ti] = 1 / r
	}
	return g, nil
}

// HydraulicConductance computes the series Hagen-Poiseuille hydraulic
// conductance of every throat from the phase viscosity and the geometry.
func HydraulicConductance(net *network.Network, ph *phase.Phase) ([]float64, error) {
	visc, err := ph.Field(phase.KeyPoreViscosity)
	if err != nil {
		return nil, &SolveError{Op: "HydraulicConductance", Cause: err}
	}
	poreDia, err := net.PoreProp(network.KeyPoreDiameter)
	if err != nil {
		return nil, &SolveError{Op: "HydraulicConductance", Cause: err}
	}
	throatDia, err := net.ThroatProp(network.KeyThroatDiameter)
	if err != nil {
		return nil, &SolveError{Op: "HydraulicConductance", Cause: err}
	}
	cond, err := conduits(net)
	if err != nil {
		return nil, err
	}

	// Poiseuille conductance of a cylindrical section: pi d^4 / (128 mu L)
	section := func(d, mu, l float64) float64 {
		return math.Pi * d * d * d * d / (128 * mu * l)
	}

	g := make([]float64, net.NumThroats())
	for ti, t := range net.Throats() {
		mu := (visc[t.P1] + visc[t.P2]) / 2
		if mu <= 0 {
			return nil, configError("HydraulicConductance",
				fmt.Sprintf("throat %d has non-positive viscosity", ti))
		}
		d1, d2 := poreDia[t.P1], poreDia[t.P2]
		c := cond[ti]
		r := 1/section(d1, mu, c.l1) + 1/section(throatDia[ti], mu, c.lt) + 1/section(d2, mu, c.l2)
		g[ti] = 1 / r
	}
	return g, nil
}

// schemeWeight returns the neighbor coefficient for one edge direction:
// q is the flow rate leaving the row's pore through the edge, gd the
// diffusive conductance. All four interpolations reduce to gd at q = 0.
func schemeWeight(s Scheme, q, gd float64) float64 {
	switch s {
	case Upwind:
		return gd + math.Max(-q, 0)
	case Hybrid:
		return math.Max(0, math.Max(-q, gd-q/2))
	case PowerLaw:
		pe := q / gd
		w := gd * math.Pow(math.Max(0, 1-0.1*math.Abs(pe)), 5)
		return w + math.Max(-q, 0)
	case Exponential:
		pe := q / gd
		if math.Abs(pe) < 1e-10 {
			// Central limit of the exact weighting
			return gd - q/2
		}
		return q / math.Expm1(pe)
	default:
		return gd
	}
}

// AdvectionDiffusionConductance combines the diffusive conductance, the
// hydraulic conductance and a previously solved pressure field into the
// directional conductance pairs of an advective-diffusive system. The
// phase must carry throat.diffusive_conductance,
// throat.hydraulic_conductance and pore.pressure.
func AdvectionDiffusionConductance(net *network.Network, ph *phase.Phase, s Scheme) ([]Pair, error) {
	gd, err := ph.Field(phase.KeyDiffusiveConductance)
	if err != nil {
		return nil, &SolveError{Op: "AdvectionDiffusionConductance", Cause: err}
	}
	gh, err := ph.Field(phase.KeyHydraulicConductance)
	if err != nil {
		return nil, &SolveError{Op: "AdvectionDiffusionConductance", Cause: err}
	}
	pressure, err := ph.Field(phase.KeyPorePressure)
	if err != nil {
		return nil, &SolveError{Op: "AdvectionDiffusionConductance", Cause: err}
	}

	pairs := make([]Pair, net.NumThroats())
	for ti, t := range net.Throats() {
		if gd[ti] <= 0 {
			return nil, configError("AdvectionDiffusionConductance",
				fmt.Sprintf("throat %d has non-positive diffusive conductance", ti))
		}
		// Volumetric flow rate, positive from P1 to P2
		q := gh[ti] * (pressure[t.P1] - pressure[t.P2])
		pairs[ti] = Pair{
			Forward: schemeWeight(s, q, gd[ti]),
			Reverse: schemeWeight(s, -q, gd[ti]),
		}
	}
	return pairs, nil
}

// PecletNumbers returns the per-throat Peclet number for a solved flow
// field, diagnostic for scheme selection.
func PecletNumbers(net *network.Network, ph *phase.Phase) ([]float64, error) {
	gd, err := ph.Field(phase.KeyDiffusiveConductance)
	if err != nil {
		return nil, &SolveError{Op: "PecletNumbers", Cause: err}
	}
	gh, err := ph.Field(phase.KeyHydraulicConductance)
	if err != nil {
		return nil, &SolveError{Op: "PecletNumbers", Cause: err}
	}
	pressure, err := ph.Field(phase.KeyPorePressure)
	if err != nil {
		return nil, &SolveError{Op: "PecletNumbers", Cause: err}
	}

	pe := make([]float64, net.NumThroats())
	for ti, t := range net.Throats() {
		q := gh[ti] * (pressure[t.P1] - pressure[t.P2])
		pe[ti] = q / gd[ti]
	}
	return pe, nil
}
