package network

import (
	"sort"
	"strings"
	"sync"
)

// Scope says which entity kind a property field is attached to.
type Scope int

const (
	PoreScope Scope = iota
	ThroatScope
)

// Well-known property keys. User-defined keys are allowed as long as they
// live in the namespace matching their scope.
const (
	KeyPoreVolume     = "pore.volume"
	KeyPoreDiameter   = "pore.diameter"
	KeyThroatDiameter = "throat.diameter"
	KeyThroatLength   = "throat.length"
	KeyThroatArea     = "throat.cross_sectional_area"
)

const (
	porePrefix   = "pore."
	throatPrefix = "throat."
)

// PropertyStore holds named float64 fields per entity kind. Key namespaces
// ("pore." vs "throat.") are validated at insertion.
type PropertyStore struct {
	mu      sync.RWMutex
	np      int
	nt      int
	pores   map[string][]float64
	throats map[string][]float64
}

func newPropertyStore(np, nt int) *PropertyStore {
	return &PropertyStore{
		np:      np,
		nt:      nt,
		pores:   make(map[string][]float64),
		throats: make(map[string][]float64),
	}
}

func (ps *PropertyStore) set(scope Scope, key string, values []float64) error {
	var prefix string
	var want int
	var target map[string][]float64

	switch scope {
	case PoreScope:
		prefix, want = porePrefix, ps.np
	case ThroatScope:
		prefix, want = throatPrefix, ps.nt
	}

	if !strings.HasPrefix(key, prefix) {
		return opError("SetProp", key, ErrBadKeyNamespace)
	}
	if len(values) != want {
		return opError("SetProp", key, ErrLengthMismatch)
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	if scope == PoreScope {
		target = ps.pores
	} else {
		target = ps.throats
	}
	target[key] = append([]float64(nil), values...)
	return nil
}

func (ps *PropertyStore) get(scope Scope, key string) ([]float64, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	var target map[string][]float64
	if scope == PoreScope {
		target = ps.pores
	} else {
		target = ps.throats
	}

	values, ok := target[key]
	if !ok {
		return nil, opError("GetProp", key, ErrUnknownProperty)
	}
	return values, nil
}

func (ps *PropertyStore) keys() []string {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	out := make([]string, 0, len(ps.pores)+len(ps.throats))
	for k := range ps.pores {
		out = append(out, k)
	}
	for k := range ps.throats {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
