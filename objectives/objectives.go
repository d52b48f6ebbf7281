// Package objectives catalogs benchmark functions with known critical
// point structure, used by the CLI and the scenario tests.
package objectives

import (
	"fmt"
	"math"
	"sort"

	"github.com/polylab/polycrit/surrogate"
	"github.com/polylab/polycrit/types"
)

// Benchmark pairs an objective with its natural study box and, where
// known, the locations of its global minima.
type Benchmark struct {
	Name        string
	Description string
	Dim         int
	F           surrogate.Objective
	Domain      types.Domain
	Minima      [][]float64
}

var catalog = map[string]Benchmark{}

func register(b Benchmark) {
	catalog[b.Name] = b
}

func mustCube(n int, hw float64) types.Domain {
	d, err := types.NewCubeDomain(n, 0, hw)
	if err != nil {
		panic(err)
	}
	return d
}

func init() {
	register(Benchmark{
		Name:        "sphere",
		Description: "x^2 + y^2, single minimum at the origin",
		Dim:         2,
		F: func(x []float64) float64 {
			return x[0]*x[0] + x[1]*x[1]
		},
		Domain: mustCube(2, 2),
		Minima: [][]float64{{0, 0}},
	})
	register(Benchmark{
		Name:        "saddle",
		Description: "x^2 - y^2, single saddle at the origin",
		Dim:         2,
		F: func(x []float64) float64 {
			return x[0]*x[0] - x[1]*x[1]
		},
		Domain: mustCube(2, 2),
	})
	register(Benchmark{
		Name:        "sixhumpcamel",
		Description: "six-hump camel, two global minima among six local ones",
		Dim:         2,
		F: func(x []float64) float64 {
			x2 := x[0] * x[0]
			y2 := x[1] * x[1]
			return (4-2.1*x2+x2*x2/3)*x2 + x[0]*x[1] + (-4+4*y2)*y2
		},
		Domain: mustCube(2, 1.2),
		Minima: [][]float64{
			{0.08984201, -0.71265640},
			{-0.08984201, 0.71265640},
		},
	})
	register(Benchmark{
		Name:        "himmelblau",
		Description: "quartic with four global minima",
		Dim:         2,
		F: func(x []float64) float64 {
			a := x[0]*x[0] + x[1] - 11
			b := x[0] + x[1]*x[1] - 7
			return a*a + b*b
		},
		Domain: mustCube(2, 5),
		Minima: [][]float64{
			{3, 2},
			{-2.805118, 3.131312},
			{-3.779310, -3.283186},
			{3.584428, -1.848126},
		},
	})
	register(Benchmark{
		Name:        "rosenbrock",
		Description: "banana valley, minimum at (1,1)",
		Dim:         2,
		F: func(x []float64) float64 {
			a := 1 - x[0]
			b := x[1] - x[0]*x[0]
			return a*a + 100*b*b
		},
		Domain: mustCube(2, 2),
		Minima: [][]float64{{1, 1}},
	})
	register(Benchmark{
		Name:        "doublewell",
		Description: "x^4 - x^2 in one dimension, two minima and one maximum",
		Dim:         1,
		F: func(x []float64) float64 {
			return math.Pow(x[0], 4) - x[0]*x[0]
		},
		Domain: mustCube(1, 1.5),
		Minima: [][]float64{
			{-1 / math.Sqrt2},
			{1 / math.Sqrt2},
		},
	})
}

// Lookup returns the named benchmark.
func Lookup(name string) (Benchmark, error) {
	b, ok := catalog[name]
	if !ok {
		return Benchmark{}, fmt.Errorf("unknown objective %q (known: %v)", name, Names())
	}
	return b, nil
}

// Names lists the registered benchmarks in stable order.
func Names() (names []string) {
	for n := range catalog {
		names = append(names, n)
	}
	sort.Strings(names)
	return
}
