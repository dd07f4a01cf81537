package transport

import (
	"fmt"
	"math"

	"github.com/edp1096/sparse"
)

// Adapter is a one-shot linear solve of A x = b. Implementations return
// the solution and, for iterative backends, the iteration count used.
type Adapter interface {
	// Solve solves A x = b for x
	Solve(a *Matrix, b []float64) ([]float64, int, error)
	// Name returns the backend name for logging and metrics
	Name() string
}

// NewAdapter creates the backend selected by the solver settings.
func NewAdapter(s SolverSettings) (Adapter, error) {
	switch s.Family {
	case FamilyDirect:
		return &DirectSolver{}, nil
	case FamilyCG:
		return &CGSolver{
			Tolerance:     s.Tolerance,
			MaxIterations: s.MaxIterations,
			Jacobi:        s.Preconditioner == "jacobi",
		}, nil
	default:
		return nil, configError("NewAdapter", fmt.Sprintf("unknown solver family %q", s.Family))
	}
}

// DirectSolver performs a sparse LU factorization and back-substitution.
type DirectSolver struct{}

// Name returns the backend name.
func (d *DirectSolver) Name() string { return "direct" }

// Solve factors A and solves for x. A structurally singular matrix is
// reported as ErrSingularMatrix.
func (d *DirectSolver) Solve(a *Matrix, b []float64) ([]float64, int, error) {
	config := &sparse.Configuration{
		Real:           true,
		Complex:        false,
		Expandable:     true,
		Translate:      false,
		ModifiedNodal:  false,
		TiesMultiplier: 5,
		PrinterWidth:   140,
	}

	m, err := sparse.Create(int64(a.N), config)
	if err != nil {
		return nil, 0, &SolveError{Op: "DirectSolve", Cause: err}
	}
	defer m.Destroy()

	m.Clear()
	for i := 0; i < a.N; i++ {
		for k := a.RowPtr[i]; k < a.RowPtr[i+1]; k++ {
			// The factorization backend is 1-indexed
			m.GetElement(int64(i+1), int64(a.Col[k]+1)).Real += a.Val[k]
		}
	}

	if err := m.Factor(); err != nil {
		return nil, 0, &SolveError{Op: "DirectSolve", Context: err.Error(), Cause: ErrSingularMatrix}
	}

	rhs := make([]float64, a.N+1)
	copy(rhs[1:], b)
	sol, err := m.Solve(rhs)
	if err != nil {
		return nil, 0, &SolveError{Op: "DirectSolve", Context: err.Error(), Cause: ErrSingularMatrix}
	}

	x := make([]float64, a.N)
	copy(x, sol[1:])
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, 0, configErrorSingular("DirectSolve", fmt.Sprintf("non-finite solution at pore %d", i))
		}
	}
	return x, 0, nil
}

func configErrorSingular(op, context string) error {
	return &SolveError{Op: op, Context: context, Cause: ErrSingularMatrix}
}

// CGSolver is a preconditioned conjugate-gradient solve for the symmetric
// diffusion-only systems. Value-condition rows enter the assembly as
// identity rows, which leave the matrix mildly nonsymmetric; Solve folds
// their columns into the right-hand side first so the iteration only ever
// sees a symmetric system. Fails with ErrConvergence when the iteration
// budget is exhausted.
type CGSolver struct {
	Tolerance     float64
	MaxIterations int
	Jacobi        bool
}

// Name returns the backend name.
func (c *CGSolver) Name() string { return "cg" }

// pinnedRows flags identity rows, the form value conditions take in the
// assembled system.
func pinnedRows(a *Matrix) []bool {
	pinned := make([]bool, a.N)
	for i := 0; i < a.N; i++ {
		k := a.RowPtr[i]
		if a.RowPtr[i+1]-k == 1 && a.Col[k] == i && a.Val[k] == 1 {
			pinned[i] = true
		}
	}
	return pinned
}

// eliminatePinned moves the off-diagonal columns of pinned unknowns into
// the right-hand side. The pinned unknowns stay in the system as trivial
// 1x1 blocks, so the solution vector keeps its layout.
func eliminatePinned(a *Matrix, b []float64) (*Matrix, []float64) {
	pinned := pinnedRows(a)
	found := false
	for _, p := range pinned {
		if p {
			found = true
			break
		}
	}
	if !found {
		return a, b
	}

	out := &Matrix{
		N:      a.N,
		RowPtr: make([]int, 1, a.N+1),
		Col:    make([]int, 0, len(a.Col)),
		Val:    make([]float64, 0, len(a.Val)),
	}
	nb := append([]float64(nil), b...)
	for i := 0; i < a.N; i++ {
		for k := a.RowPtr[i]; k < a.RowPtr[i+1]; k++ {
			j := a.Col[k]
			if !pinned[i] && pinned[j] {
				nb[i] -= a.Val[k] * b[j]
				continue
			}
			out.Col = append(out.Col, j)
			out.Val = append(out.Val, a.Val[k])
		}
		out.RowPtr = append(out.RowPtr, len(out.Col))
	}
	return out, nb
}

// Solve runs preconditioned CG on A x = b.
func (c *CGSolver) Solve(a *Matrix, b []float64) ([]float64, int, error) {
	a, b = eliminatePinned(a, b)
	n := a.N
	diag := a.Diagonal()
	for i, d := range diag {
		if d == 0 {
			return nil, 0, configErrorSingular("CGSolve", fmt.Sprintf("zero diagonal at pore %d", i))
		}
	}

	precond := func(r []float64) []float64 {
		z := make([]float64, n)
		if c.Jacobi {
			for i := range z {
				z[i] = r[i] / diag[i]
			}
		} else {
			copy(z, r)
		}
		return z
	}

	x := make([]float64, n)
	r := make([]float64, n)
	copy(r, b) // x0 = 0, so r0 = b

	bnorm := norm2(b)
	if bnorm == 0 {
		return x, 0, nil
	}

	z := precond(r)
	p := append([]float64(nil), z...)
	rz := dot(r, z)

	for iter := 1; iter <= c.MaxIterations; iter++ {
		ap := a.MulVec(p)
		pap := dot(p, ap)
		if pap == 0 {
			return nil, iter, configErrorSingular("CGSolve", "breakdown: p'Ap = 0")
		}
		alpha := rz / pap
		for i := 0; i < n; i++ {
			x[i] += alpha * p[i]
			r[i] -= alpha * ap[i]
		}

		if norm2(r)/bnorm < c.Tolerance {
			return x, iter, nil
		}

		z = precond(r)
		rzNext := dot(r, z)
		beta := rzNext / rz
		rz = rzNext
		for i := 0; i < n; i++ {
			p[i] = z[i] + beta*p[i]
		}
	}

	return nil, c.MaxIterations, &SolveError{
		Op:      "CGSolve",
		Context: fmt.Sprintf("residual above %g after %d iterations", c.Tolerance, c.MaxIterations),
		Cause:   ErrConvergence,
	}
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func norm2(v []float64) float64 {
	return math.Sqrt(dot(v, v))
}
