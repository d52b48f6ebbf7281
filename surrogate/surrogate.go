// Package surrogate builds Chebyshev-basis least-squares approximations of
// an objective on a box domain, with error-controlled degree selection.
package surrogate

import (
	"github.com/polylab/polycrit/chebyshev"
	"github.com/polylab/polycrit/types"
)

// Objective is the function under study. It must be pure and repeatedly
// callable; the fitter, classifier and refiner all evaluate it many times.
type Objective func(x []float64) float64

// Surrogate is a polynomial approximation of the objective over a Domain.
// Immutable once constructed; a new degree produces a new Surrogate.
type Surrogate struct {
	Domain      types.Domain
	Degree      int
	Series      chebyshev.Series
	L2Error     float64 // RMS misfit on an independent validation set
	CondNumber  float64 // 2-norm condition number of the design matrix
	SampleCount int
}

func (s Surrogate) Dim() int { return s.Domain.Dim() }

// EvalUnit evaluates the surrogate at a point in [-1,1]^n.
func (s Surrogate) EvalUnit(u []float64) float64 { return s.Series.Eval(u) }

// Eval evaluates the surrogate at a point in domain coordinates.
func (s Surrogate) Eval(x []float64) float64 { return s.Series.Eval(s.Domain.ToUnit(x)) }
