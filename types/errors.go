package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the pipeline stages. Callers match with errors.Is;
// context is added by wrapping with fmt.Errorf("...: %w", ErrX).
var (
	// ErrConfiguration rejects a run before any computation begins:
	// under-determined sample counts, invalid domains, a degree ceiling
	// below the start degree.
	ErrConfiguration = errors.New("polycrit: invalid configuration")

	// ErrNumerical aborts the current degree attempt: a non-finite
	// objective sample or a singular fitting matrix. Not retried.
	ErrNumerical = errors.New("polycrit: numerical failure")

	// ErrSolver marks polynomial-system solver non-convergence. The
	// pipeline continues with an empty candidate set.
	ErrSolver = errors.New("polycrit: critical point solver failed")
)

func ConfigurationErrorf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrConfiguration)...)
}

func NumericalErrorf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNumerical)...)
}

func SolverErrorf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrSolver)...)
}
