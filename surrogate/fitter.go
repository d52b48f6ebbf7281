package surrogate

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/polylab/polycrit/chebyshev"
	"github.com/polylab/polycrit/types"
)

// Fitter generates a seeded pseudo-random sample set on the domain,
// evaluates the objective there, and solves the least-squares problem for
// the Chebyshev coefficients. The same Seed reproduces the same samples at
// every degree, so L2 errors are comparable across a degree sweep.
type Fitter struct {
	Objective   Objective
	Domain      types.Domain
	SampleCount int
	Seed        int64
}

// Fit builds the degree-d surrogate. The sample count must be at least the
// number of basis functions; an under-determined system is a caller error.
func (ft Fitter) Fit(degree int) (s Surrogate, err error) {
	var (
		n     = ft.Domain.Dim()
		basis = chebyshev.NewIndexSet(n, degree)
		K     = basis.Len()
	)
	if degree < 1 {
		err = types.ConfigurationErrorf("degree %d, must be >= 1", degree)
		return
	}
	if ft.SampleCount < K {
		err = types.ConfigurationErrorf(
			"under-determined fit: %d samples for %d basis functions (dim %d, degree %d)",
			ft.SampleCount, K, n, degree)
		return
	}

	rng := rand.New(rand.NewSource(ft.Seed))
	train := ft.drawSamples(rng, ft.SampleCount)
	valid := ft.drawSamples(rng, ft.SampleCount)

	fTrain, err := ft.evaluate(train)
	if err != nil {
		return
	}
	fValid, err := ft.evaluate(valid)
	if err != nil {
		return
	}

	V := chebyshev.Vandermonde(basis, train)
	coeffs, cond, err := solveLeastSquares(V.M, fTrain)
	if err != nil {
		return
	}

	s = Surrogate{
		Domain:      ft.Domain,
		Degree:      degree,
		Series:      chebyshev.NewSeries(basis, coeffs),
		CondNumber:  cond,
		SampleCount: ft.SampleCount,
	}
	s.L2Error = rmsError(s, valid, fValid)
	return
}

func (ft Fitter) drawSamples(rng *rand.Rand, m int) (pts [][]float64) {
	var (
		n = ft.Domain.Dim()
	)
	pts = make([][]float64, m)
	for i := range pts {
		u := make([]float64, n)
		for j := range u {
			u[j] = 2*rng.Float64() - 1
		}
		pts[i] = u
	}
	return
}

func (ft Fitter) evaluate(unitPts [][]float64) (f []float64, err error) {
	f = make([]float64, len(unitPts))
	for i, u := range unitPts {
		val := ft.Objective(ft.Domain.FromUnit(u))
		if math.IsNaN(val) || math.IsInf(val, 0) {
			err = types.NumericalErrorf("objective returned %v at sample %v",
				val, ft.Domain.FromUnit(u))
			return
		}
		f[i] = val
	}
	return
}

// solveLeastSquares solves min ||A c - b|| through the thin SVD and reports
// the 2-norm condition number of A. A numerically rank-deficient design
// matrix is a NumericalFailure, not silently regularized.
func solveLeastSquares(A *mat.Dense, b []float64) (c []float64, cond float64, err error) {
	var (
		m, k = A.Dims()
		svd  mat.SVD
	)
	if ok := svd.Factorize(A, mat.SVDThin); !ok {
		err = types.NumericalErrorf("SVD of %dx%d design matrix failed", m, k)
		return
	}
	sv := svd.Values(nil)
	tol := float64(m) * sv[0] * 1.e-15
	if sv[k-1] <= tol {
		err = types.NumericalErrorf(
			"design matrix numerically singular: sigma_min = %.3e, sigma_max = %.3e",
			sv[k-1], sv[0])
		return
	}
	cond = sv[0] / sv[k-1]

	var U, Vmat mat.Dense
	svd.UTo(&U)
	svd.VTo(&Vmat)

	// c = V * diag(1/sigma) * U^T b
	ub := make([]float64, k)
	for j := 0; j < k; j++ {
		var dot float64
		for i := 0; i < m; i++ {
			dot += U.At(i, j) * b[i]
		}
		ub[j] = dot / sv[j]
	}
	c = make([]float64, k)
	for i := 0; i < k; i++ {
		var dot float64
		for j := 0; j < k; j++ {
			dot += Vmat.At(i, j) * ub[j]
		}
		c[i] = dot
	}
	return
}

func rmsError(s Surrogate, unitPts [][]float64, f []float64) float64 {
	var sum float64
	for i, u := range unitPts {
		d := f[i] - s.EvalUnit(u)
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(unitPts)))
}
