// Package optim sweeps a single circuit parameter across a range of
// values, one independent Simulation per point, adapted from the
// teacher's GridSearch and using internal/dynamo's ParallelFor for the
// same independent-point parallelism spec.md §5 permits (distinct
// Simulation instances may run concurrently; a single instance may
// not run two overlapping Process calls).
package optim

import (
	"github.com/san-kum/livespice/internal/dynamo"
	"github.com/san-kum/livespice/internal/experiment"
	"github.com/san-kum/livespice/internal/symbolic"
)

// Point is one sweep sample: the parameter value tried and the metric
// value computed from its resulting output buffer.
type Point struct {
	Value  float64
	Metric float64
}

// Sweep runs metric(outputBuffer) for every value in values. Each
// point gets its own freshly-built Simulation rather than reusing one
// across values, so a point that diverges can't poison the next
// point's global-cell state.
func Sweep(
	netlist *experiment.Netlist,
	registry *experiment.Registry,
	paramName string,
	values []float64,
	n int,
	inputBufs map[symbolic.Expr][]float64,
	outputExpr symbolic.Expr,
	metric func([]float64) float64,
) ([]Point, error) {
	points := make([]Point, len(values))
	errs := make([]error, len(values))

	dynamo.ParallelFor(len(values), 1, func(start, end int) {
		for i := start; i < end; i++ {
			sim, err := netlist.Build(registry)
			if err != nil {
				errs[i] = err
				continue
			}
			outBuf := make([]float64, n)
			params := netlist.ParameterList(map[string]float64{paramName: values[i]})
			if err := sim.Process(n, inputBufs, map[symbolic.Expr][]float64{outputExpr: outBuf}, params); err != nil {
				errs[i] = err
				continue
			}
			points[i] = Point{Value: values[i], Metric: metric(outBuf)}
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return points, nil
}

// Best returns the sweep point minimizing Metric, or maximizing it
// when maximize is true.
func Best(points []Point, maximize bool) Point {
	best := points[0]
	for _, p := range points[1:] {
		if (maximize && p.Metric > best.Metric) || (!maximize && p.Metric < best.Metric) {
			best = p
		}
	}
	return best
}

// Linspace generates n evenly spaced values from lo to hi inclusive,
// the shape every sweep's --from/--to/--steps flags produce.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	values := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range values {
		values[i] = lo + step*float64(i)
	}
	return values
}
