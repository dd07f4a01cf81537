// Package network models a pore network: a fixed graph of pores (nodes)
// connected by throats (edges), with typed float64 property fields and
// label sets attached to either entity kind. Topology and entity counts
// are immutable after construction; only properties and labels may be
// added afterwards.
package network

import (
	"github.com/google/uuid"
)

// Throat is an edge between two pores. P1 and P2 are pore indices.
type Throat struct {
	P1 int
	P2 int
}

// Network is a fixed-topology pore network.
type Network struct {
	id      string
	np      int
	throats []Throat
	coords  [][3]float64

	props  *PropertyStore
	labels *LabelStore

	// adjacency built once at construction
	neighbors [][]int // pore -> incident throat indices
}

// New creates a network from explicit coordinates and throat connections.
// Every throat endpoint must be a valid pore index.
func New(coords [][3]float64, throats []Throat) (*Network, error) {
	np := len(coords)
	for _, t := range throats {
		if t.P1 < 0 || t.P1 >= np || t.P2 < 0 || t.P2 >= np {
			return nil, opError("New", "", ErrIndexRange)
		}
	}

	n := &Network{
		id:      uuid.NewString(),
		np:      np,
		throats: append([]Throat(nil), throats...),
		coords:  append([][3]float64(nil), coords...),
	}
	n.props = newPropertyStore(np, len(throats))
	n.labels = newLabelStore(np)
	n.buildAdjacency()
	return n, nil
}

func (n *Network) buildAdjacency() {
	n.neighbors = make([][]int, n.np)
	for ti, t := range n.throats {
		n.neighbors[t.P1] = append(n.neighbors[t.P1], ti)
		n.neighbors[t.P2] = append(n.neighbors[t.P2], ti)
	}
}

// ID returns the unique identifier assigned at construction.
func (n *Network) ID() string { return n.id }

// NumPores returns the pore count.
func (n *Network) NumPores() int { return n.np }

// NumThroats returns the throat count.
func (n *Network) NumThroats() int { return len(n.throats) }

// Throats returns the throat connection list. Callers must not modify it.
func (n *Network) Throats() []Throat { return n.throats }

// Coords returns the coordinates of pore i.
func (n *Network) Coords(i int) [3]float64 { return n.coords[i] }

// IncidentThroats returns the indices of throats incident to pore i.
// Callers must not modify the returned slice.
func (n *Network) IncidentThroats(i int) []int { return n.neighbors[i] }

// SetPoreProp stores a per-pore property field. The key must be in the
// "pore." namespace and values must have length NumPores.
func (n *Network) SetPoreProp(key string, values []float64) error {
	return n.props.set(PoreScope, key, values)
}

// SetThroatProp stores a per-throat property field. The key must be in the
// "throat." namespace and values must have length NumThroats.
func (n *Network) SetThroatProp(key string, values []float64) error {
	return n.props.set(ThroatScope, key, values)
}

// PoreProp returns a per-pore property field by key.
func (n *Network) PoreProp(key string) ([]float64, error) {
	return n.props.get(PoreScope, key)
}

// ThroatProp returns a per-throat property field by key.
func (n *Network) ThroatProp(key string) ([]float64, error) {
	return n.props.get(ThroatScope, key)
}

// PropKeys lists the stored property keys for both scopes.
func (n *Network) PropKeys() []string {
	return n.props.keys()
}

// AddLabel marks the given pores with a label, creating the set if needed.
func (n *Network) AddLabel(label string, pores []int) error {
	return n.labels.add(label, pores)
}

// Pores returns the sorted indices of pores carrying the label.
func (n *Network) Pores(label string) ([]int, error) {
	return n.labels.members(label)
}

// HasLabel reports whether pore i carries the label.
func (n *Network) HasLabel(i int, label string) bool {
	return n.labels.has(label, i)
}

// Labels lists all label names.
func (n *Network) Labels() []string {
	return n.labels.names()
}
