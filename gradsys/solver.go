package gradsys

import (
	"context"
	"math"
	"sort"

	"github.com/polylab/polycrit/chebyshev"
	"github.com/polylab/polycrit/types"
	"github.com/polylab/polycrit/utils"
)

// Solver enumerates the real roots of a gradient System inside (or near)
// the unit box. 1D systems are solved exactly through the colleague
// matrix; nD systems by dense multistart damped Newton seeded on a
// Chebyshev-Gauss tensor grid. The solve is a single-shot call; the caller
// cancels through ctx between independent sub-solves.
type Solver struct {
	MaxNewtonIter int     // per-start iteration budget
	RootTol       float64 // gradient inf-norm acceptance threshold (relative)
	DedupTol      float64 // unit-coordinate radius merging duplicate roots
	ImagTol       float64 // 1D: accept near-real eigenvalues below this
	MaxStarts     int     // cap on the nD start grid size
	NearDomain    float64 // keep roots within (1+NearDomain) of the unit box
}

// DefaultSolver carries the tolerances used throughout the pipeline.
func DefaultSolver() Solver {
	return Solver{
		MaxNewtonIter: 50,
		RootTol:       1.e-10,
		DedupTol:      1.e-8,
		ImagTol:       1.e-9,
		MaxStarts:     4096,
		NearDomain:    0.05,
	}
}

// Solve returns the deduplicated critical point candidates of sys,
// rescaled to domain coordinates, with strict-interior roots flagged
// InDomain. Solver non-convergence returns ErrSolver and an empty set; it
// never panics across the stage boundary.
func (sv Solver) Solve(ctx context.Context, sys System, dom types.Domain) (cands []types.CriticalPointCandidate, err error) {
	var roots [][]float64
	if sys.Dim == 1 {
		roots, err = sv.solve1D(sys)
	} else {
		roots, err = sv.solveND(ctx, sys)
	}
	if err != nil {
		return
	}

	roots = sv.dedup(roots)
	sort.Slice(roots, func(i, j int) bool {
		for k := range roots[i] {
			if roots[i][k] != roots[j][k] {
				return roots[i][k] < roots[j][k]
			}
		}
		return false
	})
	for _, u := range roots {
		cands = append(cands, types.CriticalPointCandidate{
			Point:          dom.FromUnit(u),
			SurrogateValue: sys.P.Eval(u),
			InDomain:       dom.InteriorUnit(u),
		})
	}
	return
}

func (sv Solver) solve1D(sys System) (roots [][]float64, err error) {
	var xs []float64
	if xs, err = colleagueRoots(sys.Grad[0].Coeffs, sv.ImagTol); err != nil {
		return
	}
	for _, x := range xs {
		if math.Abs(x) <= 1+sv.NearDomain {
			roots = append(roots, []float64{x})
		}
	}
	return
}

func (sv Solver) solveND(ctx context.Context, sys System) (roots [][]float64, err error) {
	gscale := gradientScale(sys)

	// A constant gradient has either no roots or infinitely many; Newton
	// has nothing to iterate on, so settle it up front. The cutoff is
	// relative to the coefficient scale, so fit noise on the higher modes
	// cannot masquerade as a non-constant gradient.
	if constant, zero := sv.constantGradient(sys, utils.NODETOL*gscale); constant {
		if zero {
			err = types.SolverErrorf("gradient is identically zero")
		}
		return
	}

	var (
		starts                         = sv.startGrid(sys)
		tol                            = sv.RootTol * gscale
		nConverged, nSingular, nDiverg int
	)
	for _, u0 := range starts {
		if ctx != nil && ctx.Err() != nil {
			err = ctx.Err()
			return
		}
		root, outcome := sv.newton(sys, u0, tol)
		switch outcome {
		case newtonConverged:
			nConverged++
			if inNearBox(root, 1+sv.NearDomain) {
				roots = append(roots, root)
			}
		case newtonSingular:
			nSingular++
		default:
			nDiverg++
		}
	}
	// Distinguish "found none" from "failed": a solve where no start
	// converged anywhere and most died on singular Jacobians is a solver
	// failure, not an empty landscape.
	if nConverged == 0 && nSingular*2 >= len(starts) {
		roots = nil
		err = types.SolverErrorf(
			"no Newton start converged: %d singular, %d diverged of %d starts",
			nSingular, nDiverg, len(starts))
	}
	return
}

type newtonOutcome uint8

const (
	newtonConverged newtonOutcome = iota
	newtonSingular
	newtonDiverged
)

func (sv Solver) newton(sys System, u0 []float64, tol float64) (u []float64, outcome newtonOutcome) {
	var (
		n  = sys.Dim
		g  = make([]float64, n)
		gv = utils.NewVector(n, g)
		H  = utils.NewMatrix(n, n)
	)
	u = append([]float64(nil), u0...)
	sys.GradAt(u, g)
	gn := infNorm(g)
	for iter := 0; iter < sv.MaxNewtonIter; iter++ {
		if gn <= tol {
			outcome = newtonConverged
			return
		}
		sys.HessAt(u, H)
		Hinv, err := H.Inverse()
		if err != nil {
			outcome = newtonSingular
			return
		}
		du := Hinv.MulVec(gv).DataP()

		// damped step: backtrack until the residual shrinks
		step := 1.0
		var accepted bool
		for k := 0; k < 8; k++ {
			trial := make([]float64, n)
			for i := range trial {
				trial[i] = u[i] - step*du[i]
			}
			sys.GradAt(trial, g)
			if tn := infNorm(g); tn < gn {
				u, gn = trial, tn
				accepted = true
				break
			}
			step /= 2
		}
		if !accepted || !inNearBox(u, 3) {
			outcome = newtonDiverged
			return
		}
	}
	if gn <= tol {
		outcome = newtonConverged
		return
	}
	outcome = newtonDiverged
	return
}

// startGrid tensors Chebyshev-Gauss nodes per axis, shrinking the per-axis
// count until the grid fits under MaxStarts.
func (sv Solver) startGrid(sys System) (starts [][]float64) {
	var (
		n = sys.Dim
		s = 2*sys.Basis.Degree + 1
	)
	if s < 3 {
		s = 3
	}
	for s > 2 && intPow(s, n) > sv.MaxStarts {
		s--
	}
	nodes := chebyshev.GaussNodes(s - 1)
	idx := make([]int, n)
	for {
		u := make([]float64, n)
		for i, k := range idx {
			u[i] = nodes.AtVec(k)
		}
		starts = append(starts, u)
		ax := 0
		for ; ax < n; ax++ {
			idx[ax]++
			if idx[ax] < s {
				break
			}
			idx[ax] = 0
		}
		if ax == n {
			return
		}
	}
}

func (sv Solver) constantGradient(sys System, cut float64) (constant, zero bool) {
	constant = true
	zero = true
	for i := 0; i < sys.Dim; i++ {
		for k, c := range sys.Grad[i].Coeffs {
			if k == 0 {
				if math.Abs(c) > cut {
					zero = false
				}
				continue
			}
			if math.Abs(c) > cut {
				constant = false
				zero = false
				return
			}
		}
	}
	return
}

func (sv Solver) dedup(roots [][]float64) (out [][]float64) {
	for _, r := range roots {
		dup := false
		for _, kept := range out {
			if dist(r, kept) <= sv.DedupTol {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	return
}

func gradientScale(sys System) (scale float64) {
	scale = 1
	for i := 0; i < sys.Dim; i++ {
		for _, c := range sys.Grad[i].Coeffs {
			if a := math.Abs(c); a > scale {
				scale = a
			}
		}
	}
	return
}

func infNorm(v []float64) (n float64) {
	for _, x := range v {
		if a := math.Abs(x); a > n {
			n = a
		}
	}
	return
}

func dist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func inNearBox(u []float64, bound float64) bool {
	for _, ui := range u {
		if math.Abs(ui) > bound {
			return false
		}
	}
	return true
}

func intPow(base, exp int) (r int) {
	r = 1
	for i := 0; i < exp; i++ {
		r *= base
		if r > 1<<30 {
			return 1 << 30
		}
	}
	return
}
