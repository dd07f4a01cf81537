package transport

import (
	"time"

	"github.com/dd0wney/cluso-porenet/pkg/metrics"
	"github.com/dd0wney/cluso-porenet/pkg/network"
	"github.com/dd0wney/cluso-porenet/pkg/parallel"
)

// Assembler builds the sparse system encoding conservation at every free
// pore. Dirichlet rows are replaced by identity rows pinning the
// prescribed value; rate conditions contribute to the right-hand side.
// With caching on (the default) the matrix and base vector are built once
// and reused until Invalidate is called.
type Assembler struct {
	net   *network.Network
	conds *ConditionSet
	pairs []Pair

	cacheA bool
	cacheB bool
	reg    *metrics.Registry

	cachedLaplacian *Matrix
	cachedSystem    *Matrix
	cachedTheta     float64
	cachedDtOverV   []float64
	cachedRates     []float64
}

// NewAssembler creates an assembler over the network, conditions and
// per-throat conductance pairs.
func NewAssembler(net *network.Network, conds *ConditionSet, pairs []Pair, cacheA, cacheB bool, reg *metrics.Registry) *Assembler {
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	return &Assembler{
		net:    net,
		conds:  conds,
		pairs:  pairs,
		cacheA: cacheA,
		cacheB: cacheB,
		reg:    reg,
	}
}

// Invalidate drops any cached matrix and vector.
func (a *Assembler) Invalidate() {
	a.cachedLaplacian = nil
	a.cachedSystem = nil
	a.cachedDtOverV = nil
	a.cachedRates = nil
}

// buildRows constructs the matrix rows in parallel. Each pore's row only
// reads shared immutable state and writes its own slot, so chunks over
// the pore range need no synchronization. transient adds the accumulation
// term diag(V/dt) and scales off-diagonals by theta.
func (a *Assembler) buildRows(theta float64, vOverDt []float64) *Matrix {
	np := a.net.NumPores()
	throats := a.net.Throats()
	rows := make([][]entry, np)

	parallel.ForEachRange(np, 0, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if a.conds.IsValue(i) {
				// Identity row pins the prescribed value
				rows[i] = []entry{{col: i, val: 1}}
				continue
			}

			incident := a.net.IncidentThroats(i)
			row := make([]entry, 0, len(incident)+1)
			diag := 0.0
			for _, ti := range incident {
				t := throats[ti]
				if t.P1 == t.P2 {
					continue
				}
				if t.P1 == i {
					row = append(row, entry{col: t.P2, val: -theta * a.pairs[ti].Forward})
					diag += a.pairs[ti].Reverse
				} else {
					row = append(row, entry{col: t.P1, val: -theta * a.pairs[ti].Reverse})
					diag += a.pairs[ti].Forward
				}
			}
			d := theta * diag
			if vOverDt != nil {
				d += vOverDt[i]
			}
			row = append(row, entry{col: i, val: d})
			rows[i] = row
		}
	})

	return buildCSR(np, rows)
}

// Laplacian returns the conductance matrix with Dirichlet rows replaced
// by identity rows and no transient term. Cached when cache_A is on.
func (a *Assembler) Laplacian() *Matrix {
	if a.cacheA && a.cachedLaplacian != nil {
		a.reg.RecordAssemblyCache(true)
		return a.cachedLaplacian
	}
	a.reg.RecordAssemblyCache(false)

	start := time.Now()
	m := a.buildRows(1, nil)
	a.reg.RecordAssembly("ok", time.Since(start), m.Nonzeros())

	if a.cacheA {
		a.cachedLaplacian = m
	}
	return m
}

// pureLaplacianApply computes (L x) for free pores, where L is the
// conductance matrix without Dirichlet row replacement. Dirichlet entries
// of the result are zero. Needed by the explicit part of theta schemes.
func (a *Assembler) pureLaplacianApply(x []float64) []float64 {
	np := a.net.NumPores()
	throats := a.net.Throats()
	out := make([]float64, np)

	parallel.ForEachRange(np, 0, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if a.conds.IsValue(i) {
				continue
			}
			sum := 0.0
			for _, ti := range a.net.IncidentThroats(i) {
				t := throats[ti]
				if t.P1 == t.P2 {
					continue
				}
				if t.P1 == i {
					sum += a.pairs[ti].Reverse*x[i] - a.pairs[ti].Forward*x[t.P2]
				} else {
					sum += a.pairs[ti].Forward*x[i] - a.pairs[ti].Reverse*x[t.P1]
				}
			}
			out[i] = sum
		}
	})
	return out
}

// rates returns the base right-hand side holding the rate conditions.
// Cached when cache_b is on.
func (a *Assembler) rates() []float64 {
	if a.cacheB && a.cachedRates != nil {
		return a.cachedRates
	}

	np := a.net.NumPores()
	b := make([]float64, np)
	for _, p := range a.conds.RatePores() {
		b[p] = a.conds.BCValue(p)
	}
	if a.cacheB {
		a.cachedRates = b
	}
	return b
}

// SteadySystem assembles A and b for a steady solve.
func (a *Assembler) SteadySystem() (*Matrix, []float64) {
	m := a.Laplacian()

	b := append([]float64(nil), a.rates()...)
	for _, p := range a.conds.ValuePores() {
		b[p] = a.conds.BCValue(p)
	}
	return m, b
}

// TransientSystem assembles A and b for one step of a theta scheme:
// (V/dt)(x_new - x_old) = -theta L x_new - (1-theta) L x_old + rates.
// The matrix depends only on theta and dt and is cached across steps;
// the vector is rebuilt from x_old every call.
func (a *Assembler) TransientSystem(theta, dt float64, volumes, xOld []float64) (*Matrix, []float64) {
	np := a.net.NumPores()

	vOverDt := a.cachedDtOverV
	if vOverDt == nil {
		vOverDt = make([]float64, np)
		for i := range vOverDt {
			vOverDt[i] = volumes[i] / dt
		}
		a.cachedDtOverV = vOverDt
	}

	var m *Matrix
	if a.cacheA && a.cachedSystem != nil && a.cachedTheta == theta {
		a.reg.RecordAssemblyCache(true)
		m = a.cachedSystem
	} else {
		a.reg.RecordAssemblyCache(false)
		start := time.Now()
		m = a.buildRows(theta, vOverDt)
		a.reg.RecordAssembly("ok", time.Since(start), m.Nonzeros())
		if a.cacheA {
			a.cachedSystem = m
			a.cachedTheta = theta
		}
	}

	lx := a.pureLaplacianApply(xOld)
	b := append([]float64(nil), a.rates()...)
	for i := 0; i < np; i++ {
		if a.conds.IsValue(i) {
			b[i] = a.conds.BCValue(i)
			continue
		}
		b[i] += vOverDt[i]*xOld[i] - (1-theta)*lx[i]
	}
	return m, b
}
