package network

import (
	"errors"
	"math"
	"testing"
)

func TestNewCubicCounts(t *testing.T) {
	n, err := NewCubic(CubicOptions{Shape: [3]int{3, 4, 5}, Spacing: 1e-4})
	if err != nil {
		t.Fatalf("NewCubic failed: %v", err)
	}

	if n.NumPores() != 60 {
		t.Errorf("NumPores = %d, want 60", n.NumPores())
	}
	// Throats per axis: (Nx-1)*Ny*Nz + Nx*(Ny-1)*Nz + Nx*Ny*(Nz-1)
	want := 2*4*5 + 3*3*5 + 3*4*4
	if n.NumThroats() != want {
		t.Errorf("NumThroats = %d, want %d", n.NumThroats(), want)
	}
}

func TestNewCubicRejectsBadOptions(t *testing.T) {
	if _, err := NewCubic(CubicOptions{Shape: [3]int{0, 3, 3}, Spacing: 1e-4}); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("expected ErrInvalidShape, got %v", err)
	}
	if _, err := NewCubic(CubicOptions{Shape: [3]int{3, 3, 3}, Spacing: 0}); !errors.Is(err, ErrInvalidSpacing) {
		t.Errorf("expected ErrInvalidSpacing, got %v", err)
	}
}

func TestFaceLabels(t *testing.T) {
	n, err := NewCubic(CubicOptions{Shape: [3]int{4, 4, 4}, Spacing: 1e-4})
	if err != nil {
		t.Fatalf("NewCubic failed: %v", err)
	}

	for _, label := range []string{LabelLeft, LabelRight, LabelFront, LabelBack, LabelTop, LabelBottom} {
		pores, err := n.Pores(label)
		if err != nil {
			t.Fatalf("Pores(%q) failed: %v", label, err)
		}
		if len(pores) != 16 {
			t.Errorf("face %q has %d pores, want 16", label, len(pores))
		}
	}

	// front/back faces must be disjoint for a lattice deeper than one pore
	front, _ := n.Pores(LabelFront)
	for _, p := range front {
		if n.HasLabel(p, LabelBack) {
			t.Errorf("pore %d is on both front and back faces", p)
		}
	}
}

func TestFaceLabelsSkipDegenerateAxis(t *testing.T) {
	n, err := NewCubic(CubicOptions{Shape: [3]int{5, 5, 1}, Spacing: 1e-4})
	if err != nil {
		t.Fatalf("NewCubic failed: %v", err)
	}

	// A single-layer lattice has no z boundary planes, so neither z face
	// label may exist, not even as an empty set.
	for _, label := range []string{LabelTop, LabelBottom} {
		if _, err := n.Pores(label); !errors.Is(err, ErrUnknownLabel) {
			t.Errorf("Pores(%q) err = %v, want ErrUnknownLabel", label, err)
		}
	}

	for _, label := range []string{LabelLeft, LabelRight, LabelFront, LabelBack} {
		pores, err := n.Pores(label)
		if err != nil {
			t.Fatalf("Pores(%q) failed: %v", label, err)
		}
		if len(pores) != 5 {
			t.Errorf("face %q has %d pores, want 5", label, len(pores))
		}
	}
}

func TestCoordsSpacing(t *testing.T) {
	const spacing = 2.0
	n, err := NewCubic(CubicOptions{Shape: [3]int{2, 1, 1}, Spacing: spacing})
	if err != nil {
		t.Fatalf("NewCubic failed: %v", err)
	}

	c0, c1 := n.Coords(0), n.Coords(1)
	if got := c1[0] - c0[0]; math.Abs(got-spacing) > 1e-12 {
		t.Errorf("x spacing = %v, want %v", got, spacing)
	}
}

func TestApplyGeometry(t *testing.T) {
	opts := DefaultCubicOptions()
	n, err := NewCubic(opts)
	if err != nil {
		t.Fatalf("NewCubic failed: %v", err)
	}
	if err := ApplyGeometry(n, DefaultGeometryOptions(opts.Spacing)); err != nil {
		t.Fatalf("ApplyGeometry failed: %v", err)
	}

	for _, key := range []string{KeyPoreDiameter, KeyPoreVolume} {
		vals, err := n.PoreProp(key)
		if err != nil {
			t.Fatalf("missing %s: %v", key, err)
		}
		for i, v := range vals {
			if v <= 0 {
				t.Fatalf("%s[%d] = %v, want > 0", key, i, v)
			}
		}
	}
	for _, key := range []string{KeyThroatDiameter, KeyThroatLength, KeyThroatArea} {
		vals, err := n.ThroatProp(key)
		if err != nil {
			t.Fatalf("missing %s: %v", key, err)
		}
		for i, v := range vals {
			if v <= 0 {
				t.Fatalf("%s[%d] = %v, want > 0", key, i, v)
			}
		}
	}
}

func TestApplyGeometryDeterministic(t *testing.T) {
	opts := DefaultCubicOptions()

	build := func() []float64 {
		n, err := NewCubic(opts)
		if err != nil {
			t.Fatalf("NewCubic failed: %v", err)
		}
		if err := ApplyGeometry(n, DefaultGeometryOptions(opts.Spacing)); err != nil {
			t.Fatalf("ApplyGeometry failed: %v", err)
		}
		dia, _ := n.PoreProp(KeyPoreDiameter)
		return dia
	}

	a, b := build(), build()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("diameters differ at %d with the same seed: %v vs %v", i, a[i], b[i])
		}
	}
}
