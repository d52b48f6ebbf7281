package types

import (
	"github.com/polylab/polycrit/utils"
)

// Domain is an axis-aligned box, center +/- halfwidth per axis. All fitting
// and root finding happens on the unit box [-1,1]^n; Domain carries the
// affine map between the two coordinate systems.
type Domain struct {
	Center     []float64
	HalfWidths []float64
}

func NewDomain(center, halfWidths []float64) (d Domain, err error) {
	if len(center) == 0 {
		err = ConfigurationErrorf("domain has dimension zero")
		return
	}
	if len(center) != len(halfWidths) {
		err = ConfigurationErrorf("domain center has dimension %d, halfwidths %d",
			len(center), len(halfWidths))
		return
	}
	for i, hw := range halfWidths {
		if !(hw > 0) { // catches NaN as well
			err = ConfigurationErrorf("domain halfwidth[%d] = %v, must be > 0", i, hw)
			return
		}
	}
	d = Domain{
		Center:     append([]float64(nil), center...),
		HalfWidths: append([]float64(nil), halfWidths...),
	}
	return
}

// NewCubeDomain builds an n-dimensional box with a shared halfwidth.
func NewCubeDomain(n int, center, halfWidth float64) (Domain, error) {
	return NewDomain(utils.ConstArray(n, center), utils.ConstArray(n, halfWidth))
}

func (d Domain) Dim() int { return len(d.Center) }

// ToUnit maps a point from domain coordinates onto [-1,1]^n.
func (d Domain) ToUnit(x []float64) (u []float64) {
	u = make([]float64, len(x))
	for i := range x {
		u[i] = (x[i] - d.Center[i]) / d.HalfWidths[i]
	}
	return
}

// FromUnit maps a point from [-1,1]^n back to domain coordinates.
func (d Domain) FromUnit(u []float64) (x []float64) {
	x = make([]float64, len(u))
	for i := range u {
		x[i] = d.Center[i] + d.HalfWidths[i]*u[i]
	}
	return
}

// boundaryTol absorbs the numerical jitter of roots that sit on the box
// edge, so "exactly on the boundary" excludes them reliably.
const boundaryTol = 1.e-9

// InteriorUnit reports whether u lies strictly inside (-1,1)^n. Boundary
// points are excluded: a root pinned to the box edge is an artifact of the
// truncated basis more often than a critical point.
func (d Domain) InteriorUnit(u []float64) bool {
	for _, ui := range u {
		if ui <= -1+boundaryTol || ui >= 1-boundaryTol {
			return false
		}
	}
	return true
}
