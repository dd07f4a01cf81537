// Package phase attaches fluid properties to a network: scalar defaults
// broadcast over an entity kind, per-entity override fields, and write-back
// of computed fields such as a solved pressure reused by a dependent solve.
package phase

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dd0wney/cluso-porenet/pkg/network"
)

// Common sentinel errors
var (
	ErrUnknownProperty = errors.New("phase property not found")
	ErrBadKeyNamespace = errors.New("key must be pore- or throat-scoped")
	ErrLengthMismatch  = errors.New("field length does not match entity count")
)

// Well-known phase property keys.
const (
	KeyPoreDiffusivity      = "pore.diffusivity"
	KeyPoreViscosity        = "pore.viscosity"
	KeyPorePressure         = "pore.pressure"
	KeyPoreConcentration    = "pore.concentration"
	KeyDiffusiveConductance = "throat.diffusive_conductance"
	KeyHydraulicConductance = "throat.hydraulic_conductance"
	KeyAdDifConductance     = "throat.ad_dif_conductance"
)

// Phase pairs a fluid with a network and stores its property fields.
type Phase struct {
	name string
	net  *network.Network

	mu      sync.RWMutex
	scalars map[string]float64
	fields  map[string][]float64
}

// New creates an empty phase bound to a network.
func New(name string, net *network.Network) *Phase {
	return &Phase{
		name:    name,
		net:     net,
		scalars: make(map[string]float64),
		fields:  make(map[string][]float64),
	}
}

// Water creates a phase with liquid water properties at standard conditions.
func Water(net *network.Network) *Phase {
	p := New("water", net)
	p.SetScalar(KeyPoreViscosity, 8.93e-4)    // Pa s
	p.SetScalar(KeyPoreDiffusivity, 2.067e-9) // m2/s, dilute aqueous solute
	return p
}

// Air creates a phase with air properties at standard conditions.
func Air(net *network.Network) *Phase {
	p := New("air", net)
	p.SetScalar(KeyPoreViscosity, 1.84e-5)
	p.SetScalar(KeyPoreDiffusivity, 2.067e-5)
	return p
}

// Name returns the phase name.
func (p *Phase) Name() string { return p.name }

// Network returns the network this phase is bound to.
func (p *Phase) Network() *network.Network { return p.net }

func (p *Phase) entityCount(key string) (int, error) {
	switch {
	case strings.HasPrefix(key, "pore."):
		return p.net.NumPores(), nil
	case strings.HasPrefix(key, "throat."):
		return p.net.NumThroats(), nil
	default:
		return 0, fmt.Errorf("key %q: %w", key, ErrBadKeyNamespace)
	}
}

// SetScalar stores a scalar default broadcast over the key's entity kind.
func (p *Phase) SetScalar(key string, value float64) error {
	if _, err := p.entityCount(key); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scalars[key] = value
	return nil
}

// SetField stores a per-entity field, replacing any scalar default.
func (p *Phase) SetField(key string, values []float64) error {
	want, err := p.entityCount(key)
	if err != nil {
		return err
	}
	if len(values) != want {
		return fmt.Errorf("key %q: %w: got %d, want %d", key, ErrLengthMismatch, len(values), want)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fields[key] = append([]float64(nil), values...)
	return nil
}

// Field returns a per-entity field, materializing scalar defaults by
// broadcasting over the entity count.
func (p *Phase) Field(key string) ([]float64, error) {
	want, err := p.entityCount(key)
	if err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if values, ok := p.fields[key]; ok {
		return values, nil
	}
	if scalar, ok := p.scalars[key]; ok {
		values := make([]float64, want)
		for i := range values {
			values[i] = scalar
		}
		return values, nil
	}
	return nil, fmt.Errorf("key %q: %w", key, ErrUnknownProperty)
}

// Scalar returns a scalar default by key.
func (p *Phase) Scalar(key string) (float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.scalars[key]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("key %q: %w", key, ErrUnknownProperty)
}

// Has reports whether the phase carries the key as a field or scalar.
func (p *Phase) Has(key string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, ok := p.fields[key]; ok {
		return true
	}
	_, ok := p.scalars[key]
	return ok
}
