package chebyshev

import (
	"github.com/james-bowman/sparse"
)

// DerivativeOperator builds the spectral differentiation operator along one
// axis as a K x K sparse matrix acting on coefficient vectors: if c are the
// coefficients of p, D*c are the coefficients of dp/du_axis in the same
// basis. The operator follows the Chebyshev derivative recurrence
//
//	T'_m = 2m * sum_{j<m, m-j odd} T_j / c_j,  c_0 = 2, c_j = 1
//
// applied per multi-index with the other axes held fixed. The matrix is
// banded in the axis degree and empty elsewhere, hence the sparse storage.
func DerivativeOperator(basis IndexSet, axis int) *sparse.CSR {
	var (
		K   = basis.Len()
		dok = sparse.NewDOK(K, K)
	)
	beta := make([]int, basis.Dim)
	for col, alpha := range basis.Indices {
		m := alpha[axis]
		if m == 0 {
			continue
		}
		copy(beta, alpha)
		for j := m - 1; j >= 0; j -= 2 {
			beta[axis] = j
			row := basis.Position(beta)
			if row < 0 {
				continue
			}
			w := 2 * float64(m)
			if j == 0 {
				w /= 2
			}
			dok.Set(row, col, w)
		}
	}
	return dok.ToCSR()
}

// Derivative returns the series of dp/du_axis using a precomputed operator.
func (s Series) Derivative(D *sparse.CSR) Series {
	out := make([]float64, len(s.Coeffs))
	D.DoNonZero(func(i, j int, v float64) {
		out[i] += v * s.Coeffs[j]
	})
	return Series{Basis: s.Basis, Coeffs: out}
}
