// Package results holds the solution snapshots produced by a solver run:
// per-pore fields tagged with a time stamp, exportable as quantity@time
// labels and mergeable back into a phase for chained solves or restarts.
package results

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-porenet/pkg/phase"
)

// Common sentinel errors
var (
	ErrNoSnapshots     = errors.New("result set holds no snapshots")
	ErrUnknownSnapshot = errors.New("no snapshot at requested time")
)

// Set is an ordered collection of solution snapshots for one quantity.
// Snapshots are appended by the integrator and never mutated afterwards.
type Set struct {
	mu       sync.RWMutex
	runID    string
	quantity string
	times    []float64
	fields   map[float64][]float64

	steady     bool
	steadyTime float64
}

// NewSet creates an empty result set for the named quantity.
func NewSet(quantity string) *Set {
	return &Set{
		runID:    uuid.NewString(),
		quantity: quantity,
		fields:   make(map[float64][]float64),
	}
}

// RunID returns the unique identifier of the producing run.
func (s *Set) RunID() string { return s.runID }

// Quantity returns the published field name.
func (s *Set) Quantity() string { return s.quantity }

// Append records a snapshot at the given time, copying the field.
// Re-appending an existing time overwrites it in place.
func (s *Set) Append(t float64, field []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.fields[t]; !exists {
		s.times = append(s.times, t)
		sort.Float64s(s.times)
	}
	s.fields[t] = append([]float64(nil), field...)
}

// MarkSteady tags the run as having reached steady state at time t.
func (s *Set) MarkSteady(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steady = true
	s.steadyTime = t
}

// SteadyState reports whether, and when, the run reached steady state.
func (s *Set) SteadyState() (bool, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.steady, s.steadyTime
}

// Times returns the snapshot time stamps in ascending order.
func (s *Set) Times() []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]float64(nil), s.times...)
}

// Len returns the snapshot count.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.times)
}

// At returns a copy of the snapshot recorded at time t.
func (s *Set) At(t float64) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	field, ok := s.fields[t]
	if !ok {
		return nil, fmt.Errorf("t=%g: %w", t, ErrUnknownSnapshot)
	}
	return append([]float64(nil), field...), nil
}

// Last returns a copy of the most recent snapshot and its time.
func (s *Set) Last() ([]float64, float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.times) == 0 {
		return nil, 0, ErrNoSnapshots
	}
	t := s.times[len(s.times)-1]
	return append([]float64(nil), s.fields[t]...), t, nil
}

// Label formats the export label of the snapshot at time t.
func (s *Set) Label(t float64) string {
	return s.quantity + "@" + strconv.FormatFloat(t, 'g', -1, 64)
}

// Export returns the label -> field mapping for all snapshots.
func (s *Set) Export() map[string][]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]float64, len(s.times))
	for _, t := range s.times {
		out[s.Label(t)] = append([]float64(nil), s.fields[t]...)
	}
	return out
}

// MergeInto publishes every snapshot into the phase under its export
// label, and the final snapshot under the bare quantity name.
func (s *Set) MergeInto(ph *phase.Phase) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.times {
		if err := ph.SetField(s.Label(t), s.fields[t]); err != nil {
			return err
		}
	}
	if len(s.times) > 0 {
		last := s.times[len(s.times)-1]
		if err := ph.SetField(s.quantity, s.fields[last]); err != nil {
			return err
		}
	}
	return nil
}
