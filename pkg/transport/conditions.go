package transport

import (
	"fmt"
	"sync"
)

type bcKind uint8

const (
	bcNone bcKind = iota
	bcValue
	bcRate
)

// ConditionSet stores Dirichlet (value) and source-rate boundary
// conditions plus the initial condition for one solve. A pore may hold a
// value or a rate condition, never both. All validation is eager: a
// failed assignment leaves the set unchanged.
type ConditionSet struct {
	mu    sync.RWMutex
	np    int
	kind  []bcKind
	bcVal []float64
	ic    []float64 // nil until set; defaults to all-zero
}

// NewConditionSet creates an empty condition set for np pores.
func NewConditionSet(np int) *ConditionSet {
	return &ConditionSet{
		np:    np,
		kind:  make([]bcKind, np),
		bcVal: make([]float64, np),
	}
}

// expand resolves the scalar-broadcast convention: values may hold one
// entry (broadcast to all pores) or exactly len(pores) entries.
func expand(op string, pores []int, values []float64) ([]float64, error) {
	switch len(values) {
	case 1:
		out := make([]float64, len(pores))
		for i := range out {
			out[i] = values[0]
		}
		return out, nil
	case len(pores):
		return values, nil
	default:
		return nil, shapeError(op, len(values), len(pores))
	}
}

func (cs *ConditionSet) checkPores(op string, pores []int) error {
	if len(pores) == 0 {
		return configError(op, "empty pore set")
	}
	for _, p := range pores {
		if p < 0 || p >= cs.np {
			return configError(op, fmt.Sprintf("pore %d out of range", p))
		}
	}
	return nil
}

func (cs *ConditionSet) set(op string, want bcKind, conflict bcKind, pores []int, values []float64) error {
	if err := cs.checkPores(op, pores); err != nil {
		return err
	}
	vals, err := expand(op, pores, values)
	if err != nil {
		return err
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	// Validate everything before mutating anything
	for _, p := range pores {
		if cs.kind[p] == conflict {
			return configError(op, fmt.Sprintf("pore %d already holds a conflicting condition", p))
		}
	}
	for i, p := range pores {
		cs.kind[p] = want
		cs.bcVal[p] = vals[i]
	}
	return nil
}

// SetValueBC assigns Dirichlet values to the given pores. values may be a
// single scalar (broadcast) or one entry per pore. Fails without mutation
// if any pore already holds a rate condition.
func (cs *ConditionSet) SetValueBC(pores []int, values []float64) error {
	return cs.set("SetValueBC", bcValue, bcRate, pores, values)
}

// SetRateBC assigns fixed source/sink rates to the given pores, with the
// same broadcast convention and mutual-exclusion rule.
func (cs *ConditionSet) SetRateBC(pores []int, values []float64) error {
	return cs.set("SetRateBC", bcRate, bcValue, pores, values)
}

// ClearBC removes any condition on the given pores. Idempotent.
func (cs *ConditionSet) ClearBC(pores []int) error {
	if err := cs.checkPores("ClearBC", pores); err != nil {
		return err
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for _, p := range pores {
		cs.kind[p] = bcNone
		cs.bcVal[p] = 0
	}
	return nil
}

// SetInitialCondition sets the t=0 field: a single scalar broadcast to
// all pores or one value per pore. If never called the field is all-zero.
func (cs *ConditionSet) SetInitialCondition(values []float64) error {
	var ic []float64
	switch len(values) {
	case 1:
		ic = make([]float64, cs.np)
		for i := range ic {
			ic[i] = values[0]
		}
	case cs.np:
		ic = append([]float64(nil), values...)
	default:
		return shapeError("SetInitialCondition", len(values), cs.np)
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.ic = ic
	return nil
}

// InitialField returns a copy of the initial condition field.
func (cs *ConditionSet) InitialField() []float64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make([]float64, cs.np)
	copy(out, cs.ic) // no-op when ic is nil, leaving zeros
	return out
}

// IsValue reports whether pore p holds a Dirichlet condition.
func (cs *ConditionSet) IsValue(p int) bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.kind[p] == bcValue
}

// IsRate reports whether pore p holds a rate condition.
func (cs *ConditionSet) IsRate(p int) bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.kind[p] == bcRate
}

// BCValue returns the assigned value or rate of pore p, zero if none.
func (cs *ConditionSet) BCValue(p int) float64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.bcVal[p]
}

// ValuePores returns the pores under Dirichlet conditions in index order.
func (cs *ConditionSet) ValuePores() []int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	var out []int
	for p, k := range cs.kind {
		if k == bcValue {
			out = append(out, p)
		}
	}
	return out
}

// RatePores returns the pores under rate conditions in index order.
func (cs *ConditionSet) RatePores() []int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	var out []int
	for p, k := range cs.kind {
		if k == bcRate {
			out = append(out, p)
		}
	}
	return out
}

// NumPores returns the pore count the set was built for.
func (cs *ConditionSet) NumPores() int { return cs.np }
