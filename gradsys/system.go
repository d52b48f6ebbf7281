// Package gradsys differentiates a polynomial surrogate into its gradient
// system and enumerates all real critical points on the unit box.
package gradsys

import (
	"github.com/james-bowman/sparse"

	"github.com/polylab/polycrit/chebyshev"
	"github.com/polylab/polycrit/surrogate"
	"github.com/polylab/polycrit/utils"
)

// System holds the gradient and Hessian of a surrogate as Chebyshev
// coefficient series on [-1,1]^n. Built once per surrogate, immutable
// afterwards; the solver consumes it read-only.
type System struct {
	Dim   int
	Basis chebyshev.IndexSet
	P     chebyshev.Series     // the surrogate itself
	Grad  []chebyshev.Series   // Grad[i] = dp/du_i
	Hess  [][]chebyshev.Series // Hess[i][j] = d2p/du_i du_j
}

// NewSystem builds the gradient system of s. Differentiation happens in
// coefficient space through the per-axis spectral operators; all
// coefficients stay float64 end to end.
func NewSystem(s surrogate.Surrogate) (sys System) {
	var (
		n     = s.Dim()
		basis = s.Series.Basis
	)
	sys = System{
		Dim:   n,
		Basis: basis,
		P:     s.Series,
		Grad:  make([]chebyshev.Series, n),
		Hess:  make([][]chebyshev.Series, n),
	}
	D := make([]*sparse.CSR, n)
	for i := 0; i < n; i++ {
		D[i] = chebyshev.DerivativeOperator(basis, i)
		sys.Grad[i] = s.Series.Derivative(D[i])
		sys.Hess[i] = make([]chebyshev.Series, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			h := sys.Grad[i].Derivative(D[j])
			sys.Hess[i][j] = h
			if i != j {
				sys.Hess[j][i] = h
			}
		}
	}
	return
}

// GradAt fills g with the surrogate gradient at u.
func (sys System) GradAt(u []float64, g []float64) {
	for i := 0; i < sys.Dim; i++ {
		g[i] = sys.Grad[i].Eval(u)
	}
}

// HessAt fills H with the surrogate Hessian at u.
func (sys System) HessAt(u []float64, H utils.Matrix) {
	for i := 0; i < sys.Dim; i++ {
		for j := i; j < sys.Dim; j++ {
			v := sys.Hess[i][j].Eval(u)
			H.Set(i, j, v)
			if i != j {
				H.Set(j, i, v)
			}
		}
	}
}
