// Package chebyshev implements tensor-product Chebyshev polynomial bases
// restricted to total degree d on [-1,1]^n: multi-index enumeration, node
// generation, Vandermonde assembly, series evaluation, and spectral
// differentiation of coefficient vectors.
//
// A Chebyshev basis is used instead of raw monomials because the resulting
// Vandermonde matrices stay polynomially conditioned in the degree, which
// keeps least-squares fits meaningful past degree 10-15.
package chebyshev

// IndexSet enumerates the multi-indices alpha with |alpha|_1 <= Degree in
// graded lexicographic order. Immutable after construction.
type IndexSet struct {
	Dim, Degree int
	Indices     [][]int
	positions   map[uint64]int
}

func NewIndexSet(dim, degree int) (b IndexSet) {
	b = IndexSet{
		Dim:       dim,
		Degree:    degree,
		positions: make(map[uint64]int),
	}
	alpha := make([]int, dim)
	for total := 0; total <= degree; total++ {
		b.enumerate(alpha, 0, total)
	}
	return
}

func (b *IndexSet) enumerate(alpha []int, axis, remaining int) {
	if axis == b.Dim-1 {
		alpha[axis] = remaining
		b.append(alpha)
		return
	}
	for k := remaining; k >= 0; k-- {
		alpha[axis] = k
		b.enumerate(alpha, axis+1, remaining-k)
	}
}

func (b *IndexSet) append(alpha []int) {
	cp := append([]int(nil), alpha...)
	b.positions[b.key(cp)] = len(b.Indices)
	b.Indices = append(b.Indices, cp)
}

func (b IndexSet) key(alpha []int) (k uint64) {
	var (
		base = uint64(b.Degree + 1)
	)
	for _, ai := range alpha {
		k = k*base + uint64(ai)
	}
	return
}

func (b IndexSet) Len() int { return len(b.Indices) }

// Position returns the position of alpha within the set, or -1 if alpha is
// not a member.
func (b IndexSet) Position(alpha []int) int {
	for _, ai := range alpha {
		if ai < 0 || ai > b.Degree {
			return -1
		}
	}
	pos, ok := b.positions[b.key(alpha)]
	if !ok {
		return -1
	}
	return pos
}

// TVals fills t with T_0(x)..T_d(x) using the three-term recurrence.
func TVals(t []float64, x float64) []float64 {
	t[0] = 1
	if len(t) > 1 {
		t[1] = x
	}
	for m := 2; m < len(t); m++ {
		t[m] = 2*x*t[m-1] - t[m-2]
	}
	return t
}

// Series is a Chebyshev expansion over an IndexSet. A Series is a value:
// differentiation returns a new Series, the receiver is never mutated.
type Series struct {
	Basis  IndexSet
	Coeffs []float64
}

func NewSeries(basis IndexSet, coeffs []float64) Series {
	if len(coeffs) != basis.Len() {
		panic("chebyshev: coefficient count does not match basis size")
	}
	return Series{Basis: basis, Coeffs: coeffs}
}

// Eval evaluates the series at u in [-1,1]^n.
func (s Series) Eval(u []float64) (val float64) {
	var (
		d      = s.Basis.Degree
		n      = s.Basis.Dim
		tables = make([][]float64, n)
	)
	for i := 0; i < n; i++ {
		tables[i] = TVals(make([]float64, d+1), u[i])
	}
	for k, alpha := range s.Basis.Indices {
		c := s.Coeffs[k]
		if c == 0 {
			continue
		}
		term := c
		for i, ai := range alpha {
			term *= tables[i][ai]
		}
		val += term
	}
	return
}
