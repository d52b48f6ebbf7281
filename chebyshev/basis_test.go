package chebyshev

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexSet(t *testing.T) {
	{
		b := NewIndexSet(2, 3)
		// C(2+3,3) multi-indices with |alpha| <= 3
		assert.Equal(t, 10, b.Len())
		assert.Equal(t, []int{0, 0}, b.Indices[0])
		for k, alpha := range b.Indices {
			assert.Equal(t, k, b.Position(alpha))
		}
		assert.Equal(t, -1, b.Position([]int{3, 1}))
		assert.Equal(t, -1, b.Position([]int{4, 0}))
	}
	{
		b := NewIndexSet(1, 6)
		assert.Equal(t, 7, b.Len())
	}
}

func TestTVals(t *testing.T) {
	var (
		x  = 0.3
		tv = TVals(make([]float64, 8), x)
	)
	for m := 0; m < 8; m++ {
		exact := math.Cos(float64(m) * math.Acos(x))
		assert.True(t, near(tv[m], exact))
	}
}

func TestGaussNodes(t *testing.T) {
	// Chebyshev-Gauss points are known in closed form; the Golub-Welsch
	// eigendecomposition must reproduce them.
	var (
		N = 6
		X = GaussNodes(N)
	)
	assert.Equal(t, N+1, X.Len())
	for k := 0; k <= N; k++ {
		exact := -math.Cos(math.Pi * (2*float64(k) + 1) / (2*float64(N) + 2))
		assert.InDelta(t, exact, X.AtVec(k), 1.e-10)
	}
	// Gauss points are interior: usable as Newton starts without clamping
	assert.Greater(t, X.Min(), -1.)
	assert.Less(t, X.Max(), 1.)
}

func TestSeriesEval(t *testing.T) {
	var (
		b = NewIndexSet(2, 2)
		c = make([]float64, b.Len())
	)
	// p(u,v) = 1 + 2*T1(u) + 3*T2(v) + 0.5*T1(u)T1(v)
	c[b.Position([]int{0, 0})] = 1
	c[b.Position([]int{1, 0})] = 2
	c[b.Position([]int{0, 2})] = 3
	c[b.Position([]int{1, 1})] = 0.5
	s := NewSeries(b, c)
	u, v := 0.4, -0.7
	exact := 1 + 2*u + 3*(2*v*v-1) + 0.5*u*v
	assert.True(t, near(s.Eval([]float64{u, v}), exact))
}

func TestDerivativeOperator(t *testing.T) {
	{
		// 1D: d/dx of T3 = 6*T2 + 3*T0
		b := NewIndexSet(1, 3)
		c := make([]float64, b.Len())
		c[b.Position([]int{3})] = 1
		D := DerivativeOperator(b, 0)
		dp := NewSeries(b, c).Derivative(D)
		assert.True(t, near(dp.Coeffs[b.Position([]int{2})], 6))
		assert.True(t, near(dp.Coeffs[b.Position([]int{0})], 3))
		assert.True(t, near(dp.Coeffs[b.Position([]int{1})], 0))
	}
	{
		// 2D: compare against a central difference of the series itself
		b := NewIndexSet(2, 4)
		c := make([]float64, b.Len())
		for k := range c {
			c[k] = math.Sin(float64(k) + 1) // arbitrary fixed coefficients
		}
		s := NewSeries(b, c)
		for axis := 0; axis < 2; axis++ {
			D := DerivativeOperator(b, axis)
			ds := s.Derivative(D)
			u := []float64{0.21, -0.37}
			h := 1.e-6
			up := append([]float64(nil), u...)
			um := append([]float64(nil), u...)
			up[axis] += h
			um[axis] -= h
			fd := (s.Eval(up) - s.Eval(um)) / (2 * h)
			assert.InDelta(t, fd, ds.Eval(u), 1.e-7)
		}
	}
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*(math.Abs(a)+1) {
		l = true
	}
	return
}
