// Package hessianclass classifies critical point candidates by the
// eigenvalue spectrum of the true objective's Hessian. The surrogate
// Hessian is deliberately not used: it would inherit the approximation
// bias of the fit.
package hessianclass

import (
	"context"
	"math"
	"runtime"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/polylab/polycrit/surrogate"
	"github.com/polylab/polycrit/types"
	"github.com/polylab/polycrit/utils"
)

// Classifier holds the spectral decision tolerances. Classification is a
// pure function of (objective, point), so candidates are processed in
// parallel with no shared mutable state.
type Classifier struct {
	ZeroTol     float64 // |lambda| below this is treated as zero
	PosTol      float64 // all lambda above this: minimum
	NegTol      float64 // all lambda below the negation of this: maximum
	Parallelism int
}

func DefaultClassifier() Classifier {
	return Classifier{
		ZeroTol:     1.e-8,
		PosTol:      1.e-8,
		NegTol:      1.e-8,
		Parallelism: runtime.NumCPU(),
	}
}

// Classify evaluates the true-objective Hessian at every in-domain
// candidate and labels it. Out-of-domain candidates are skipped, so the
// result is 1:1 with the surviving candidate set. A failure at one point
// yields a ClassError record for that point only; the remaining candidates
// are still classified.
func (cl Classifier) Classify(ctx context.Context, f surrogate.Objective, cands []types.CriticalPointCandidate) (pts []types.ClassifiedPoint, err error) {
	var inDomain []types.CriticalPointCandidate
	for _, c := range cands {
		if c.InDomain {
			inDomain = append(inDomain, c)
		}
	}
	pts = make([]types.ClassifiedPoint, len(inDomain))
	err = utils.ParallelFor(ctx, cl.Parallelism, len(inDomain), func(k int) {
		pts[k] = cl.classifyOne(f, inDomain[k])
	})
	if err != nil {
		pts = nil
	}
	return
}

func (cl Classifier) classifyOne(f surrogate.Objective, cand types.CriticalPointCandidate) (cp types.ClassifiedPoint) {
	var (
		n = len(cand.Point)
	)
	cp.CriticalPointCandidate = cand
	cp.SmallestPositive = math.NaN()
	cp.LargestNegative = math.NaN()

	defer func() {
		// an objective that panics at this point classifies as error,
		// without taking down the remaining candidates
		if r := recover(); r != nil {
			cp.Label = types.ClassError
		}
	}()

	cp.ObjectiveValue = f(cand.Point)
	H := mat.NewSymDense(n, nil)
	fd.Hessian(H, f, cand.Point, nil)

	var frob float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := H.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				cp.Label = types.ClassError
				return
			}
			frob += v * v
		}
	}
	cp.FrobeniusNorm = math.Sqrt(frob)

	var eig mat.EigenSym
	if ok := eig.Factorize(H, false); !ok {
		cp.Label = types.ClassError
		return
	}
	ev := eig.Values(nil) // ascending
	cp.Eigenvalues = ev
	cp.Stats = eigenStats(ev)
	cp.Label = cl.label(ev)

	switch cp.Label {
	case types.ClassMinimum:
		// sharpness diagnostic: a near-zero value flags a minimum close
		// to degeneracy
		cp.SmallestPositive = ev[0]
	case types.ClassMaximum:
		cp.LargestNegative = ev[n-1]
	}
	return
}

// label applies the spectral decision rule. Any near-zero eigenvalue wins:
// the second-order test is inconclusive there, regardless of the rest of
// the spectrum.
func (cl Classifier) label(ev []float64) types.Classification {
	var (
		allPos = true
		allNeg = true
	)
	for _, v := range ev {
		if math.Abs(v) < cl.ZeroTol {
			return types.ClassDegenerate
		}
		if v <= cl.PosTol {
			allPos = false
		}
		if v >= -cl.NegTol {
			allNeg = false
		}
	}
	switch {
	case allPos:
		return types.ClassMinimum
	case allNeg:
		return types.ClassMaximum
	}
	return types.ClassSaddle
}

func eigenStats(ev []float64) (st types.EigenStats) {
	st.Min = ev[0]
	st.Max = ev[len(ev)-1]
	st.Determinant = 1
	var maxAbs, minAbs float64
	minAbs = math.Inf(1)
	for _, v := range ev {
		st.Trace += v
		st.Determinant *= v
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
		if a := math.Abs(v); a < minAbs {
			minAbs = a
		}
	}
	if minAbs > 0 {
		st.Cond = maxAbs / minAbs
	} else {
		st.Cond = math.Inf(1)
	}
	return
}
