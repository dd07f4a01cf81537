package transport

import (
	"math"
	"sort"
)

// Matrix is a square sparse matrix in compressed sparse row form.
// Column indices within each row are sorted.
type Matrix struct {
	N      int
	RowPtr []int
	Col    []int
	Val    []float64
}

// entry is a single (column, value) pair while a row is under construction.
type entry struct {
	col int
	val float64
}

// buildCSR compresses per-row entry lists into a Matrix, merging duplicate
// columns by summation.
func buildCSR(n int, rows [][]entry) *Matrix {
	m := &Matrix{
		N:      n,
		RowPtr: make([]int, n+1),
	}

	nnz := 0
	for i := 0; i < n; i++ {
		nnz += len(rows[i])
	}
	m.Col = make([]int, 0, nnz)
	m.Val = make([]float64, 0, nnz)

	for i := 0; i < n; i++ {
		row := rows[i]
		sort.Slice(row, func(a, b int) bool { return row[a].col < row[b].col })

		for k := 0; k < len(row); {
			col := row[k].col
			sum := 0.0
			for k < len(row) && row[k].col == col {
				sum += row[k].val
				k++
			}
			m.Col = append(m.Col, col)
			m.Val = append(m.Val, sum)
		}
		m.RowPtr[i+1] = len(m.Col)
	}
	return m
}

// Nonzeros returns the stored entry count.
func (m *Matrix) Nonzeros() int {
	return len(m.Val)
}

// MulVec computes y = M x.
func (m *Matrix) MulVec(x []float64) []float64 {
	y := make([]float64, m.N)
	for i := 0; i < m.N; i++ {
		sum := 0.0
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			sum += m.Val[k] * x[m.Col[k]]
		}
		y[i] = sum
	}
	return y
}

// Diagonal returns the diagonal as a dense vector. Missing diagonal
// entries are zero.
func (m *Matrix) Diagonal() []float64 {
	d := make([]float64, m.N)
	for i := 0; i < m.N; i++ {
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			if m.Col[k] == i {
				d[i] = m.Val[k]
				break
			}
		}
	}
	return d
}

// IsDiagonallyDominant reports whether every row satisfies
// |diag| >= sum of |off-diagonals|, within a small relative slack for
// floating-point accumulation.
func (m *Matrix) IsDiagonallyDominant() bool {
	const slack = 1e-12
	for i := 0; i < m.N; i++ {
		diag := 0.0
		off := 0.0
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			if m.Col[k] == i {
				diag = math.Abs(m.Val[k])
			} else {
				off += math.Abs(m.Val[k])
			}
		}
		if diag < off*(1-slack)-slack {
			return false
		}
	}
	return true
}
