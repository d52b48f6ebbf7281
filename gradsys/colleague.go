package gradsys

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/polylab/polycrit/types"
)

// colleagueRoots enumerates all roots of a univariate Chebyshev series as
// the eigenvalues of its colleague matrix. This is the 1D exact path: no
// starting points, no iteration, every real root recovered at once.
func colleagueRoots(coeffs []float64, imagTol float64) (roots []float64, err error) {
	var (
		b = trimTrailing(coeffs)
		m = len(b) - 1
	)
	switch {
	case m < 0:
		// identically zero derivative: every point is critical
		err = types.SolverErrorf("gradient is identically zero")
		return
	case m == 0:
		// nonzero constant: no roots
		return
	case m == 1:
		roots = []float64{-b[0] / b[1]}
		return
	}

	C := mat.NewDense(m, m, nil)
	C.Set(0, 1, 1)
	for i := 1; i < m-1; i++ {
		C.Set(i, i-1, 0.5)
		C.Set(i, i+1, 0.5)
	}
	for j := 0; j < m; j++ {
		C.Set(m-1, j, -b[j]/(2*b[m]))
	}
	C.Set(m-1, m-2, C.At(m-1, m-2)+0.5)

	var eig mat.Eigen
	if ok := eig.Factorize(C, mat.EigenNone); !ok {
		err = types.SolverErrorf("colleague matrix eigendecomposition failed (m = %d)", m)
		return
	}
	for _, z := range eig.Values(nil) {
		// near-real roots are accepted with a documented tolerance
		if math.Abs(imag(z)) <= imagTol*(1+cmplx.Abs(z)) {
			roots = append(roots, real(z))
		}
	}
	return
}

func trimTrailing(coeffs []float64) []float64 {
	var maxAbs float64
	for _, c := range coeffs {
		if a := math.Abs(c); a > maxAbs {
			maxAbs = a
		}
	}
	cut := len(coeffs)
	for cut > 0 && math.Abs(coeffs[cut-1]) <= 1.e-13*maxAbs {
		cut--
	}
	return coeffs[:cut]
}
