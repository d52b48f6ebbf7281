package chebyshev

import (
	"github.com/polylab/polycrit/utils"
)

// Vandermonde assembles the design matrix for the basis at the given unit
// points: V[i,k] = T_alpha(k)(pts[i]). One row per sample, one column per
// multi-index.
func Vandermonde(basis IndexSet, pts [][]float64) (V utils.Matrix) {
	var (
		m      = len(pts)
		k      = basis.Len()
		row    = make([]float64, k)
		tables = make([][]float64, basis.Dim)
	)
	V = utils.NewMatrix(m, k)
	for i := range tables {
		tables[i] = make([]float64, basis.Degree+1)
	}
	for i, u := range pts {
		for ax := 0; ax < basis.Dim; ax++ {
			TVals(tables[ax], u[ax])
		}
		for j, alpha := range basis.Indices {
			t := 1.
			for ax, a := range alpha {
				t *= tables[ax][a]
			}
			row[j] = t
		}
		V.SetRow(i, row)
	}
	return
}
