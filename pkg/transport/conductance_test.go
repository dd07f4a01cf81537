package transport

import (
	"math"
	"testing"

	"github.com/dd0wney/cluso-porenet/pkg/network"
	"github.com/dd0wney/cluso-porenet/pkg/phase"
)

func geometryNet(t *testing.T, nx int) *network.Network {
	t.Helper()
	net, err := network.NewCubic(network.CubicOptions{
		Shape:   [3]int{nx, 1, 1},
		Spacing: 1e-4,
	})
	if err != nil {
		t.Fatalf("NewCubic failed: %v", err)
	}
	if err := network.ApplyGeometry(net, network.GeometryOptions{
		Spacing:              1e-4,
		PoreDiameterFraction: 0.5,
		ThroatDiameterFactor: 0.5,
		Seed:                 1,
	}); err != nil {
		t.Fatalf("ApplyGeometry failed: %v", err)
	}
	return net
}

func TestParseInterpolation(t *testing.T) {
	for _, name := range []string{"upwind", "hybrid", "powerlaw", "exponential"} {
		s, err := ParseInterpolation(name)
		if err != nil {
			t.Fatalf("ParseInterpolation(%q) failed: %v", name, err)
		}
		if s.String() != name {
			t.Errorf("round trip %q -> %q", name, s.String())
		}
	}
	if _, err := ParseInterpolation("quick"); !IsConfiguration(err) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestSchemeWeightZeroFlow(t *testing.T) {
	// Every interpolation must reduce to the diffusive conductance at rest.
	gd := 3.7e-9
	for _, s := range []Scheme{Upwind, Hybrid, PowerLaw, Exponential} {
		w := schemeWeight(s, 0, gd)
		if math.Abs(w-gd) > 1e-15*gd {
			t.Errorf("%v weight at q=0 = %v, want %v", s, w, gd)
		}
	}
}

func TestSchemeWeightFluxSplit(t *testing.T) {
	// For all interpolations w(q) - w(-q) = -q, so the advective part of
	// the edge flux is conserved regardless of scheme.
	gd := 2.0e-9
	for _, s := range []Scheme{Upwind, Hybrid, PowerLaw, Exponential} {
		for _, q := range []float64{-1e-8, -1e-9, -1e-10, 1e-10, 1e-9, 1e-8} {
			diff := schemeWeight(s, q, gd) - schemeWeight(s, -q, gd)
			if math.Abs(diff+q) > 1e-12*math.Abs(q) {
				t.Errorf("%v: w(%v)-w(-%v) = %v, want %v", s, q, q, diff, -q)
			}
		}
	}
}

func TestSchemeWeightNonNegative(t *testing.T) {
	gd := 1.5e-9
	for _, s := range []Scheme{Upwind, Hybrid, PowerLaw, Exponential} {
		for _, pe := range []float64{-100, -10, -1, 1, 10, 100} {
			w := schemeWeight(s, pe*gd, gd)
			if w < 0 {
				t.Errorf("%v weight at Pe=%v is negative: %v", s, pe, w)
			}
		}
	}
}

func TestUpwindLargePeclet(t *testing.T) {
	// Downwind side of a strong flow carries pure advection.
	gd := 1e-9
	q := 100 * gd
	if w := schemeWeight(Upwind, -q, gd); math.Abs(w-(gd+q)) > 1e-15*q {
		t.Errorf("upwind against flow = %v, want %v", w, gd+q)
	}
	if w := schemeWeight(Upwind, q, gd); w != gd {
		t.Errorf("upwind with flow = %v, want %v", w, gd)
	}
}

func TestExponentialMatchesCentralAtSmallPeclet(t *testing.T) {
	gd := 1e-9
	q := 1e-4 * gd
	got := schemeWeight(Exponential, q, gd)
	want := gd - q/2
	if math.Abs(got-want) > 1e-8*gd {
		t.Errorf("exponential at small Pe = %v, want %v", got, want)
	}
}

func TestPowerLawVanishingDiffusionAtHighPeclet(t *testing.T) {
	gd := 1e-9
	// Above |Pe| = 10 the diffusive contribution is cut off entirely.
	if w := schemeWeight(PowerLaw, 11*gd, gd); w != 0 {
		t.Errorf("powerlaw downstream weight at Pe=11 = %v, want 0", w)
	}
	if w := schemeWeight(PowerLaw, -11*gd, gd); math.Abs(w-11*gd) > 1e-15*gd {
		t.Errorf("powerlaw upstream weight at Pe=-11 = %v, want %v", w, 11*gd)
	}
}

func TestDiffusiveConductancePositive(t *testing.T) {
	net := geometryNet(t, 4)
	ph := phase.Water(net)

	g, err := DiffusiveConductance(net, ph)
	if err != nil {
		t.Fatalf("DiffusiveConductance failed: %v", err)
	}
	if len(g) != net.NumThroats() {
		t.Fatalf("got %d conductances, want %d", len(g), net.NumThroats())
	}
	for ti, v := range g {
		if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			t.Errorf("throat %d conductance = %v", ti, v)
		}
	}
}

func TestDiffusiveConductanceRejectsNonPositiveDiffusivity(t *testing.T) {
	net := geometryNet(t, 3)
	ph := phase.New("bad", net)
	ph.SetScalar(phase.KeyPoreDiffusivity, -1.0)

	if _, err := DiffusiveConductance(net, ph); !IsConfiguration(err) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestDiffusiveConductanceRequiresDiffusivity(t *testing.T) {
	net := geometryNet(t, 3)
	ph := phase.New("empty", net)

	if _, err := DiffusiveConductance(net, ph); err == nil {
		t.Error("expected an error for a phase without diffusivity")
	}
}

func TestHydraulicConductanceScalesInverselyWithViscosity(t *testing.T) {
	net := geometryNet(t, 4)

	thin := phase.New("thin", net)
	thin.SetScalar(phase.KeyPoreViscosity, 1e-3)
	thick := phase.New("thick", net)
	thick.SetScalar(phase.KeyPoreViscosity, 2e-3)

	g1, err := HydraulicConductance(net, thin)
	if err != nil {
		t.Fatalf("HydraulicConductance failed: %v", err)
	}
	g2, err := HydraulicConductance(net, thick)
	if err != nil {
		t.Fatalf("HydraulicConductance failed: %v", err)
	}
	for ti := range g1 {
		ratio := g1[ti] / g2[ti]
		if math.Abs(ratio-2) > 1e-12 {
			t.Errorf("throat %d conductance ratio = %v, want 2", ti, ratio)
		}
	}
}

func TestAdvectionDiffusionConductanceUpwind(t *testing.T) {
	net := geometryNet(t, 3)
	ph := phase.Water(net)

	gd, err := DiffusiveConductance(net, ph)
	if err != nil {
		t.Fatalf("DiffusiveConductance failed: %v", err)
	}
	gh, err := HydraulicConductance(net, ph)
	if err != nil {
		t.Fatalf("HydraulicConductance failed: %v", err)
	}
	ph.SetField(phase.KeyDiffusiveConductance, gd)
	ph.SetField(phase.KeyHydraulicConductance, gh)

	// Pressure falls with pore index, so flow runs P1 -> P2 on every throat.
	pressure := make([]float64, net.NumPores())
	for i := range pressure {
		pressure[i] = float64(net.NumPores() - i)
	}
	ph.SetField(phase.KeyPorePressure, pressure)

	pairs, err := AdvectionDiffusionConductance(net, ph, Upwind)
	if err != nil {
		t.Fatalf("AdvectionDiffusionConductance failed: %v", err)
	}
	for ti, p := range pairs {
		// The forward weight sees the flow leaving, the reverse weight
		// sees it arriving and must exceed the bare diffusive value.
		if p.Forward != gd[ti] {
			t.Errorf("throat %d forward weight = %v, want %v", ti, p.Forward, gd[ti])
		}
		if p.Reverse <= gd[ti] {
			t.Errorf("throat %d reverse weight = %v, want > %v", ti, p.Reverse, gd[ti])
		}
	}
}

func TestPecletNumbersSign(t *testing.T) {
	net := geometryNet(t, 3)
	ph := phase.Water(net)

	gd, _ := DiffusiveConductance(net, ph)
	gh, _ := HydraulicConductance(net, ph)
	ph.SetField(phase.KeyDiffusiveConductance, gd)
	ph.SetField(phase.KeyHydraulicConductance, gh)

	pressure := make([]float64, net.NumPores())
	for i := range pressure {
		pressure[i] = float64(i) // rising pressure, flow P2 -> P1
	}
	ph.SetField(phase.KeyPorePressure, pressure)

	pe, err := PecletNumbers(net, ph)
	if err != nil {
		t.Fatalf("PecletNumbers failed: %v", err)
	}
	for ti, v := range pe {
		if v >= 0 {
			t.Errorf("throat %d Peclet = %v, want negative", ti, v)
		}
	}
}
