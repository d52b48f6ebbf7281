package surrogate

import (
	"github.com/polylab/polycrit/types"
)

// DegreeAttempt records one step of the escalation loop.
type DegreeAttempt struct {
	Degree     int
	L2Error    float64
	CondNumber float64
}

// DegreeResult is the outcome of a degree sweep. ToleranceMet false is a
// warning, not an error: the best-effort surrogate is still returned and
// the caller decides whether to proceed.
type DegreeResult struct {
	Surrogate    Surrogate
	Degree       int
	ToleranceMet bool
	Attempts     []DegreeAttempt
}

// SelectDegree fits surrogates of increasing degree, one at a time, until
// the validation L2 error drops below tol or ceiling is reached. The loop
// can never exceed ceiling: the bound is enforced here, not left to the
// caller. A ceiling equal to start means no auto-increase.
func SelectDegree(ft Fitter, start, ceiling int, tol float64) (res DegreeResult, err error) {
	if start < 1 {
		err = types.ConfigurationErrorf("start degree %d, must be >= 1", start)
		return
	}
	if ceiling < start {
		err = types.ConfigurationErrorf("degree ceiling %d below start degree %d", ceiling, start)
		return
	}
	if !(tol > 0) {
		err = types.ConfigurationErrorf("tolerance %v, must be > 0", tol)
		return
	}
	for d := start; d <= ceiling; d++ {
		var s Surrogate
		if s, err = ft.Fit(d); err != nil {
			return
		}
		res.Surrogate = s
		res.Degree = d
		res.Attempts = append(res.Attempts, DegreeAttempt{
			Degree:     d,
			L2Error:    s.L2Error,
			CondNumber: s.CondNumber,
		})
		if s.L2Error <= tol {
			res.ToleranceMet = true
			return
		}
	}
	return
}
