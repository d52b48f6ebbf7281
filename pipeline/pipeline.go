// Package pipeline chains the four stages (fit, solve, classify, refine)
// into a single run over one objective, and reduces the run to a
// Summary. Stages execute strictly in order; only the classification
// and refinement stages parallelize internally.
package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/polylab/polycrit/gradsys"
	"github.com/polylab/polycrit/hessianclass"
	"github.com/polylab/polycrit/refine"
	"github.com/polylab/polycrit/surrogate"
	"github.com/polylab/polycrit/types"
)

// SolverOutcome distinguishes an empty critical-point landscape from a
// solver that could not resolve the landscape at all.
type SolverOutcome uint8

const (
	SolverFoundPoints SolverOutcome = iota
	SolverFoundNone
	SolverFailed
)

func (o SolverOutcome) String() string {
	switch o {
	case SolverFoundPoints:
		return "found points"
	case SolverFoundNone:
		return "found none"
	}
	return "failed"
}

// Config is one complete run description. Build it with DefaultConfig
// and override fields; Run validates the rest.
type Config struct {
	Objective   surrogate.Objective
	Domain      types.Domain
	StartDegree int
	MaxDegree   int     // degree escalation ceiling, >= StartDegree
	Tolerance   float64 // L2 target for degree selection
	SampleCount int     // 0 picks a count from the ceiling basis size
	Seed        int64

	Solver     gradsys.Solver
	Classifier hessianclass.Classifier
	Engine     refine.Engine

	Logger *slog.Logger // nil silences stage logging
}

// DefaultConfig wires the stage defaults around f on dom. MaxDegree
// equal to StartDegree means no auto-increase, matching the selector.
func DefaultConfig(f surrogate.Objective, dom types.Domain) Config {
	return Config{
		Objective:   f,
		Domain:      dom,
		StartDegree: 2,
		MaxDegree:   2,
		Tolerance:   1.e-6,
		Solver:      gradsys.DefaultSolver(),
		Classifier:  hessianclass.DefaultClassifier(),
		Engine:      refine.DefaultEngine(),
	}
}

// Summary is the scalar reduction of a run, the artifact the cmd layer
// prints and the CSV export stamps.
type Summary struct {
	Dim          int
	Degree       int
	L2Error      float64
	CondNumber   float64
	ToleranceMet bool
	Attempts     int

	Solver     SolverOutcome
	Candidates int // surrogate gradient roots, including near-domain ones
	InDomain   int

	Counts   map[types.Classification]int
	Refined  int
	Rejected int
	Merged   int
}

// Result carries every stage artifact of one run. Classified is the raw
// export set, Refined the validated one.
type Result struct {
	Surrogate  surrogate.Surrogate
	Attempts   []surrogate.DegreeAttempt
	Candidates []types.CriticalPointCandidate
	Classified []types.ClassifiedPoint
	Refined    []types.RefinedPoint
	Summary    Summary
}

// Run executes the full pipeline. Configuration and numerical failures
// abort the run; a solver failure degrades it: the surrogate artifacts
// are kept, the candidate set is empty, and Summary.Solver records the
// failure so the caller can tell it apart from a flat landscape.
func Run(ctx context.Context, cfg Config) (res Result, err error) {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Objective == nil {
		err = types.ConfigurationErrorf("no objective")
		return
	}
	if cfg.SampleCount == 0 {
		cfg.SampleCount = defaultSampleCount(cfg.Domain.Dim(), cfg.MaxDegree)
	}

	ft := surrogate.Fitter{
		Objective:   cfg.Objective,
		Domain:      cfg.Domain,
		SampleCount: cfg.SampleCount,
		Seed:        cfg.Seed,
	}
	sel, err := surrogate.SelectDegree(ft, cfg.StartDegree, cfg.MaxDegree, cfg.Tolerance)
	if err != nil {
		return
	}
	res.Surrogate = sel.Surrogate
	res.Attempts = sel.Attempts
	if !sel.ToleranceMet {
		log.Warn("surrogate tolerance not met",
			"degree", sel.Degree, "l2_error", sel.Surrogate.L2Error,
			"tolerance", cfg.Tolerance)
	}
	log.Debug("surrogate fitted",
		"degree", sel.Degree, "l2_error", sel.Surrogate.L2Error,
		"cond", sel.Surrogate.CondNumber, "samples", cfg.SampleCount)

	sys := gradsys.NewSystem(sel.Surrogate)
	cands, solveErr := cfg.Solver.Solve(ctx, sys, cfg.Domain)
	outcome := SolverFoundPoints
	switch {
	case errors.Is(solveErr, types.ErrSolver):
		log.Warn("critical point solver failed", "err", solveErr)
		outcome = SolverFailed
		cands = nil
	case solveErr != nil:
		err = solveErr
		return
	case len(cands) == 0:
		outcome = SolverFoundNone
	}
	res.Candidates = cands
	log.Debug("critical points solved", "outcome", outcome, "candidates", len(cands))

	if res.Classified, err = cfg.Classifier.Classify(ctx, cfg.Objective, cands); err != nil {
		return
	}

	var seeds []types.ClassifiedPoint
	for _, p := range res.Classified {
		if p.Label == types.ClassMinimum {
			seeds = append(seeds, p)
		}
	}
	ref, err := cfg.Engine.Refine(ctx, cfg.Objective, seeds)
	if err != nil {
		return
	}
	res.Refined = ref.Points
	log.Debug("refinement done",
		"refined", len(ref.Points), "rejected", ref.Rejected, "merged", ref.Merged)

	res.Summary = summarize(cfg, sel, outcome, res, ref)
	return
}

func summarize(cfg Config, sel surrogate.DegreeResult, outcome SolverOutcome, res Result, ref refine.Result) Summary {
	s := Summary{
		Dim:          cfg.Domain.Dim(),
		Degree:       sel.Degree,
		L2Error:      sel.Surrogate.L2Error,
		CondNumber:   sel.Surrogate.CondNumber,
		ToleranceMet: sel.ToleranceMet,
		Attempts:     len(sel.Attempts),
		Solver:       outcome,
		Candidates:   len(res.Candidates),
		Counts:       map[types.Classification]int{},
		Refined:      len(ref.Points),
		Rejected:     ref.Rejected,
		Merged:       ref.Merged,
	}
	for _, c := range res.Candidates {
		if c.InDomain {
			s.InDomain++
		}
	}
	for _, p := range res.Classified {
		s.Counts[p.Label]++
	}
	return s
}

// defaultSampleCount oversamples the largest basis the sweep can reach
// by 3x, so every attempted degree stays well determined.
func defaultSampleCount(dim, ceiling int) int {
	k := 1
	// C(ceiling+dim, dim)
	for i := 1; i <= dim; i++ {
		k = k * (ceiling + i) / i
	}
	return 3 * k
}
