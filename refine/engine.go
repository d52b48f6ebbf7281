// Package refine polishes classified surrogate critical points against the
// true objective with a budgeted local optimizer, validates the result by
// its gradient norm, and merges duplicates.
//
// The Engine accepts any classified seeds, but both optimizers minimize:
// a seed at a saddle or maximum walks away from the point being polished
// and fails gradient validation. Callers should seed minima only, as the
// pipeline does.
package refine

import (
	"context"
	"math"
	"runtime"
	"sort"
	"time"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"github.com/polylab/polycrit/surrogate"
	"github.com/polylab/polycrit/types"
	"github.com/polylab/polycrit/utils"
)

// Engine runs one local optimization per seed point. Every run carries an
// iteration budget and an optional wall-clock budget; an unbudgeted run is
// a defect, so MaxIterations is always enforced.
type Engine struct {
	GradTol       float64       // validation threshold on the refined gradient norm
	MergeRadius   float64       // cluster radius for duplicate minimizers
	MaxIterations int           // per-point optimizer budget
	Budget        time.Duration // per-point wall-clock budget, 0 means iteration budget only
	GradFree      bool          // use Nelder-Mead instead of BFGS
	Parallelism   int
}

func DefaultEngine() Engine {
	return Engine{
		GradTol:       1.e-6,
		MergeRadius:   1.e-6,
		MaxIterations: 200,
		Parallelism:   runtime.NumCPU(),
	}
}

// Result separates the refined export from the rejection diagnostics:
// rejected points are counted, never silently dropped.
type Result struct {
	Points   []types.RefinedPoint
	Rejected int // runs that diverged or failed gradient validation
	Merged   int // candidates folded into another minimizer
}

// Refine runs the local optimizer seeded at each point, keeps only runs
// whose refined gradient norm passes validation, and merges minimizers
// closer than MergeRadius. Seeds are independent; runs execute in
// parallel and are cancelled cooperatively through ctx.
func (e Engine) Refine(ctx context.Context, f surrogate.Objective, seeds []types.ClassifiedPoint) (res Result, err error) {
	type outcome struct {
		pt types.RefinedPoint
		ok bool
	}
	outcomes := make([]outcome, len(seeds))
	err = utils.ParallelFor(ctx, e.Parallelism, len(seeds), func(k int) {
		pt, ok := e.refineOne(f, seeds[k])
		outcomes[k] = outcome{pt, ok}
	})
	if err != nil {
		return
	}

	var accepted []types.RefinedPoint
	for _, o := range outcomes {
		if o.ok {
			accepted = append(accepted, o.pt)
		} else {
			res.Rejected++
		}
	}
	res.Points, res.Merged = e.merge(accepted)
	return
}

func (e Engine) refineOne(f surrogate.Objective, seed types.ClassifiedPoint) (pt types.RefinedPoint, ok bool) {
	var (
		problem = optimize.Problem{
			Func: f,
			Grad: func(grad, x []float64) {
				fd.Gradient(grad, f, x, nil)
			},
		}
		settings = &optimize.Settings{
			MajorIterations: e.MaxIterations,
			Runtime:         e.Budget,
			// finite-difference gradients bottom out near sqrt(eps), so
			// the stopping threshold has to sit above that floor
			GradientThreshold: 0.1 * e.GradTol,
		}
		method optimize.Method = &optimize.BFGS{}
	)
	if e.GradFree {
		method = &optimize.NelderMead{}
	}

	// Optimizer stalls (a linesearch that cannot improve on a seed already
	// at the minimum) are not rejections; the gradient check below decides.
	sol, _ := optimize.Minimize(problem, seed.Point, settings, method)
	if sol == nil {
		return
	}

	grad := make([]float64, len(sol.X))
	fd.Gradient(grad, f, sol.X, nil)
	norm := floats.Norm(grad, 2)
	if !(norm < e.GradTol) { // rejects NaN as well
		return
	}

	pt = types.RefinedPoint{
		ClassifiedPoint: seed,
		Refined:         append([]float64(nil), sol.X...),
		RefinedValue:    sol.F,
		RawValue:        seed.ObjectiveValue,
		Iterations:      sol.Stats.MajorIterations,
		Converged:       true,
		Improvement:     distance(seed.Point, sol.X),
		Merged:          1,
	}
	ok = true
	return
}

// merge folds refined points within MergeRadius of each other into one
// reported minimizer: greedy nearest-neighbor clustering, the
// representative being the point with the lowest refined value.
func (e Engine) merge(pts []types.RefinedPoint) (out []types.RefinedPoint, merged int) {
	sort.Slice(pts, func(i, j int) bool { return pts[i].RefinedValue < pts[j].RefinedValue })
	for _, p := range pts {
		var host *types.RefinedPoint
		for i := range out {
			if distance(out[i].Refined, p.Refined) <= e.MergeRadius {
				host = &out[i]
				break
			}
		}
		if host != nil {
			host.Merged++
			merged++
			continue
		}
		out = append(out, p)
	}
	return
}

func distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
