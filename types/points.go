package types

// Classification is the closed set of second-order labels for a critical
// point. The zero value is deliberately invalid so uninitialized records
// are visible.
type Classification uint8

const (
	ClassUnknown Classification = iota
	ClassMinimum
	ClassMaximum
	ClassSaddle
	ClassDegenerate
	ClassError
)

func (c Classification) String() string {
	switch c {
	case ClassMinimum:
		return "minimum"
	case ClassMaximum:
		return "maximum"
	case ClassSaddle:
		return "saddle"
	case ClassDegenerate:
		return "degenerate"
	case ClassError:
		return "error"
	}
	return "unknown"
}

// CriticalPointCandidate is a root of the surrogate gradient, rescaled to
// domain coordinates. Consumed read-only downstream.
type CriticalPointCandidate struct {
	Point          []float64
	SurrogateValue float64
	InDomain       bool
}

// EigenStats summarizes the Hessian spectrum at a candidate.
type EigenStats struct {
	Min, Max    float64
	Cond        float64 // |lambda|_max / |lambda|_min
	Determinant float64
	Trace       float64
}

// ClassifiedPoint extends a candidate with the second-order analysis of the
// true objective. SmallestPositive is meaningful only for minima,
// LargestNegative only for maxima; both are NaN otherwise.
type ClassifiedPoint struct {
	CriticalPointCandidate
	Label            Classification
	ObjectiveValue   float64
	Eigenvalues      []float64 // ascending
	SmallestPositive float64
	LargestNegative  float64
	FrobeniusNorm    float64
	Stats            EigenStats
}

// RefinedPoint records a candidate that survived local optimization and
// gradient-norm validation. Candidates that diverge or fail validation
// never produce a RefinedPoint.
type RefinedPoint struct {
	ClassifiedPoint
	Refined      []float64
	RefinedValue float64
	RawValue     float64
	Iterations   int
	Converged    bool
	Improvement  float64 // euclidean distance between raw and refined coordinates
	Merged       int     // number of raw candidates merged into this minimizer
}
