package hessianclass

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polylab/polycrit/types"
)

func candidateAt(pt ...float64) types.CriticalPointCandidate {
	return types.CriticalPointCandidate{Point: pt, InDomain: true}
}

func TestClassifyBowl(t *testing.T) {
	f := func(x []float64) float64 { return x[0]*x[0] + x[1]*x[1] }
	pts, err := DefaultClassifier().Classify(context.Background(), f,
		[]types.CriticalPointCandidate{candidateAt(0, 0)})
	require.NoError(t, err)
	require.Len(t, pts, 1)

	p := pts[0]
	assert.Equal(t, types.ClassMinimum, p.Label)
	require.Len(t, p.Eigenvalues, 2)
	assert.InDelta(t, 2, p.Eigenvalues[0], 1.e-5)
	assert.InDelta(t, 2, p.Eigenvalues[1], 1.e-5)
	assert.InDelta(t, 2, p.SmallestPositive, 1.e-5)
	assert.True(t, math.IsNaN(p.LargestNegative))
	assert.InDelta(t, 4, p.Stats.Trace, 1.e-4)
	assert.InDelta(t, 4, p.Stats.Determinant, 1.e-4)
	assert.InDelta(t, 1, p.Stats.Cond, 1.e-4)
	assert.InDelta(t, math.Sqrt(8), p.FrobeniusNorm, 1.e-4)
}

func TestClassifySaddle(t *testing.T) {
	f := func(x []float64) float64 { return x[0]*x[0] - x[1]*x[1] }
	pts, err := DefaultClassifier().Classify(context.Background(), f,
		[]types.CriticalPointCandidate{candidateAt(0, 0)})
	require.NoError(t, err)
	require.Len(t, pts, 1)

	p := pts[0]
	assert.Equal(t, types.ClassSaddle, p.Label)
	assert.InDelta(t, -2, p.Eigenvalues[0], 1.e-5)
	assert.InDelta(t, 2, p.Eigenvalues[1], 1.e-5)
	assert.True(t, math.IsNaN(p.SmallestPositive))
	assert.True(t, math.IsNaN(p.LargestNegative))
}

func TestClassifyMaximum(t *testing.T) {
	f := func(x []float64) float64 { return -(x[0]*x[0] + 2*x[1]*x[1]) }
	pts, err := DefaultClassifier().Classify(context.Background(), f,
		[]types.CriticalPointCandidate{candidateAt(0, 0)})
	require.NoError(t, err)
	require.Len(t, pts, 1)

	p := pts[0]
	assert.Equal(t, types.ClassMaximum, p.Label)
	// the negative eigenvalue closest to zero flags near-degenerate maxima
	assert.InDelta(t, -2, p.LargestNegative, 1.e-5)
}

func TestClassifyDegenerate(t *testing.T) {
	// flat along y: one exactly-zero eigenvalue, second-order test
	// inconclusive even though the other eigenvalue is positive
	f := func(x []float64) float64 { return x[0] * x[0] }
	pts, err := DefaultClassifier().Classify(context.Background(), f,
		[]types.CriticalPointCandidate{candidateAt(0, 0)})
	require.NoError(t, err)
	require.Len(t, pts, 1)
	assert.Equal(t, types.ClassDegenerate, pts[0].Label)
}

func TestClassifyNonFiniteHessian(t *testing.T) {
	f := func(x []float64) float64 { return math.Sqrt(x[0]) } // NaN for x < 0
	pts, err := DefaultClassifier().Classify(context.Background(), f,
		[]types.CriticalPointCandidate{candidateAt(0)})
	require.NoError(t, err)
	require.Len(t, pts, 1)
	assert.Equal(t, types.ClassError, pts[0].Label)
}

func TestClassifyPanickingObjective(t *testing.T) {
	f := func(x []float64) float64 {
		if x[0] > 0.5 {
			panic("objective blew up")
		}
		return x[0] * x[0]
	}
	pts, err := DefaultClassifier().Classify(context.Background(), f,
		[]types.CriticalPointCandidate{candidateAt(1), candidateAt(0)})
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, types.ClassError, pts[0].Label)
	// one bad point must not poison the others
	assert.Equal(t, types.ClassMinimum, pts[1].Label)
}

func TestClassifySkipsOutOfDomain(t *testing.T) {
	f := func(x []float64) float64 { return x[0] * x[0] }
	out := types.CriticalPointCandidate{Point: []float64{2}, InDomain: false}
	pts, err := DefaultClassifier().Classify(context.Background(), f,
		[]types.CriticalPointCandidate{out, candidateAt(0)})
	require.NoError(t, err)
	assert.Len(t, pts, 1)
}
