package network

import (
	"sort"
	"sync"
)

// LabelStore tracks named pore subsets (boundary face membership and
// user-defined groups).
type LabelStore struct {
	mu   sync.RWMutex
	np   int
	sets map[string]map[int]struct{}
}

func newLabelStore(np int) *LabelStore {
	return &LabelStore{
		np:   np,
		sets: make(map[string]map[int]struct{}),
	}
}

func (ls *LabelStore) add(label string, pores []int) error {
	for _, p := range pores {
		if p < 0 || p >= ls.np {
			return opError("AddLabel", label, ErrIndexRange)
		}
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	set, ok := ls.sets[label]
	if !ok {
		set = make(map[int]struct{})
		ls.sets[label] = set
	}
	for _, p := range pores {
		set[p] = struct{}{}
	}
	return nil
}

func (ls *LabelStore) members(label string) ([]int, error) {
	ls.mu.RLock()
	defer ls.mu.RUnlock()

	set, ok := ls.sets[label]
	if !ok {
		return nil, opError("Pores", label, ErrUnknownLabel)
	}
	out := make([]int, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Ints(out)
	return out, nil
}

func (ls *LabelStore) has(label string, pore int) bool {
	ls.mu.RLock()
	defer ls.mu.RUnlock()

	set, ok := ls.sets[label]
	if !ok {
		return false
	}
	_, ok = set[pore]
	return ok
}

func (ls *LabelStore) names() []string {
	ls.mu.RLock()
	defer ls.mu.RUnlock()

	out := make([]string, 0, len(ls.sets))
	for name := range ls.sets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
