package gradsys

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polylab/polycrit/surrogate"
	"github.com/polylab/polycrit/types"
)

func fitSurrogate(t *testing.T, f surrogate.Objective, dom types.Domain, degree, samples int) surrogate.Surrogate {
	t.Helper()
	s, err := surrogate.Fitter{
		Objective:   f,
		Domain:      dom,
		SampleCount: samples,
		Seed:        42,
	}.Fit(degree)
	require.NoError(t, err)
	return s
}

func TestSolve1DDoubleWell(t *testing.T) {
	// x^4 - x^2 has critical points at 0 and +/- 1/sqrt(2)
	dom, _ := types.NewCubeDomain(1, 0, 1)
	s := fitSurrogate(t, func(x []float64) float64 {
		return math.Pow(x[0], 4) - x[0]*x[0]
	}, dom, 4, 60)

	cands, err := DefaultSolver().Solve(context.Background(), NewSystem(s), dom)
	require.NoError(t, err)
	require.Len(t, cands, 3)
	r := 1 / math.Sqrt(2)
	assert.InDelta(t, -r, cands[0].Point[0], 1.e-8)
	assert.InDelta(t, 0, cands[1].Point[0], 1.e-8)
	assert.InDelta(t, r, cands[2].Point[0], 1.e-8)
	for _, c := range cands {
		assert.True(t, c.InDomain)
	}
	assert.InDelta(t, -0.25, cands[0].SurrogateValue, 1.e-8)
}

func TestSolveBoundaryRootExcluded(t *testing.T) {
	// Shrink the box so the outer wells sit exactly on the boundary;
	// boundary roots must not be flagged in-domain.
	r := 1 / math.Sqrt(2)
	dom, _ := types.NewCubeDomain(1, 0, r)
	s := fitSurrogate(t, func(x []float64) float64 {
		return math.Pow(x[0], 4) - x[0]*x[0]
	}, dom, 4, 60)

	cands, err := DefaultSolver().Solve(context.Background(), NewSystem(s), dom)
	require.NoError(t, err)
	var inDomain int
	for _, c := range cands {
		if c.InDomain {
			inDomain++
			assert.InDelta(t, 0, c.Point[0], 1.e-8)
		}
	}
	assert.Equal(t, 1, inDomain)
}

func TestSolve2DQuadratics(t *testing.T) {
	dom, _ := types.NewCubeDomain(2, 0, 1)
	for _, f := range []surrogate.Objective{
		func(x []float64) float64 { return x[0]*x[0] + x[1]*x[1] },
		func(x []float64) float64 { return x[0]*x[0] - x[1]*x[1] },
	} {
		s := fitSurrogate(t, f, dom, 2, 60)
		cands, err := DefaultSolver().Solve(context.Background(), NewSystem(s), dom)
		require.NoError(t, err)
		require.Len(t, cands, 1)
		assert.InDelta(t, 0, cands[0].Point[0], 1.e-8)
		assert.InDelta(t, 0, cands[0].Point[1], 1.e-8)
		assert.True(t, cands[0].InDomain)
	}
}

func TestSolveHimmelblauEnumeratesAllNine(t *testing.T) {
	// Himmelblau's function is an exact quartic: 4 minima, 4 saddles and
	// 1 maximum, all inside [-5,5]^2. The solver must enumerate every one.
	dom, _ := types.NewCubeDomain(2, 0, 5)
	s := fitSurrogate(t, func(x []float64) float64 {
		a := x[0]*x[0] + x[1] - 11
		b := x[0] + x[1]*x[1] - 7
		return a*a + b*b
	}, dom, 4, 300)
	require.Less(t, s.L2Error, 1.e-6)

	cands, err := DefaultSolver().Solve(context.Background(), NewSystem(s), dom)
	require.NoError(t, err)
	assert.Len(t, cands, 9)

	// the four known minima must be among the candidates
	minima := [][2]float64{
		{3, 2},
		{-2.805118, 3.131312},
		{-3.779310, -3.283186},
		{3.584428, -1.848126},
	}
	for _, m := range minima {
		found := false
		for _, c := range cands {
			if math.Hypot(c.Point[0]-m[0], c.Point[1]-m[1]) < 1.e-4 {
				found = true
				break
			}
		}
		assert.True(t, found, "minimum near (%v,%v) not enumerated", m[0], m[1])
	}
}

func TestSolveLinearHasNoCriticalPoints(t *testing.T) {
	dom, _ := types.NewCubeDomain(2, 0, 1)
	s := fitSurrogate(t, func(x []float64) float64 {
		return 3*x[0] - 2*x[1] + 1
	}, dom, 2, 60)
	cands, err := DefaultSolver().Solve(context.Background(), NewSystem(s), dom)
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestSolveConstantIsSolverFailure(t *testing.T) {
	dom, _ := types.NewCubeDomain(2, 0, 1)
	s := fitSurrogate(t, func(x []float64) float64 { return 4.2 }, dom, 2, 60)
	cands, err := DefaultSolver().Solve(context.Background(), NewSystem(s), dom)
	assert.ErrorIs(t, err, types.ErrSolver)
	assert.Empty(t, cands)
}

func TestSolveCancellation(t *testing.T) {
	dom, _ := types.NewCubeDomain(2, 0, 1)
	s := fitSurrogate(t, func(x []float64) float64 {
		return math.Sin(3*x[0]) * math.Cos(3*x[1])
	}, dom, 8, 200)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DefaultSolver().Solve(ctx, NewSystem(s), dom)
	assert.ErrorIs(t, err, context.Canceled)
}
