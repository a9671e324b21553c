package dynamo

import (
	"fmt"
	"time"

	"github.com/san-kum/livespice/internal/circuit"
	"github.com/san-kum/livespice/internal/kernel"
	"github.com/san-kum/livespice/internal/symbolic"
)

// Parameter binds a named circuit constant (a resistance, a
// capacitance, a diode's saturation current) to a value for one
// Process call. Parameters are marshaled in a fixed order matching
// the kernel's own parameter list, never baked into the compiled
// kernel itself, so one Kernel serves every value a sweep assigns.
type Parameter struct {
	Expr  symbolic.Expr
	Value float64
}

// Simulation is the runtime driver: it classifies a netlist once at
// construction, then selects or builds a compiled kernel per distinct
// (inputs, outputs, parameters) signature and drives it sample by
// sample. It owns the global-cell store (the previous-step value of
// every stateful unknown, every f0 substitution, and every input) for
// as long as the Simulation itself lives.
type Simulation struct {
	inputs []symbolic.Expr
	strata *circuit.Strata

	componentVoltages map[string]symbolic.Expr

	sampleRate float64
	oversample int

	// Iterations is the Newton correction's fixed loop count, baked
	// into every kernel this Simulation builds (spec.md §4.4: "the
	// core calls it with n_iterations=1 inside its own fixed-count
	// loop"). Zero is valid for a circuit with no non-linear unknowns.
	Iterations int

	cache *kernel.Cache

	// globals is the name-keyed global-cell store from spec.md §3:
	// every stateful unknown's previous-step value, every f0
	// substitution variable, every input, and the distinguished time
	// cell "t", all keyed by their canonical String() name rather than
	// a kernel-specific slot index. A compiled Kernel's slot layout is
	// an implementation detail of one signature; this map is what
	// survives a signature change (a caller requesting a different
	// output set mid-run) and what Reset zeros.
	globals map[string]float64

	// DivergenceCheck enables the optional NaN/Inf tail scan spec.md §7
	// describes; on by default. Set false to disable it, e.g. when a
	// caller wants to inspect a diverged run rather than have it reset
	// out from under them.
	DivergenceCheck bool
}

// New classifies equations/unknowns once (spec.md §2: "construction
// runs the classifier once") and returns a ready-to-drive Simulation.
// inputs lists the netlist's time-varying exogenous signals;
// componentVoltages names every two-terminal component's own terminal
// voltage so a caller may request it as an output without hand-deriving
// the underlying V(a)-V(b) expression (spec.md §3's "components"
// field). sampleRate and oversample together fix the step length
// h = 1/(sampleRate*oversample) passed to Classify.
func New(
	equations []symbolic.Equation,
	unknowns, inputs []symbolic.Expr,
	componentVoltages []symbolic.Arrow,
	sampleRate float64,
	oversample int,
	iterations int,
) (*Simulation, error) {
	start := time.Now()
	fmt.Printf("[%6dms] building simulation: %d equations, %d unknowns\n", elapsedMS(start), len(equations), len(unknowns))

	h := symbolic.V("h")
	strata, err := circuit.Classify(equations, unknowns, inputs, h)
	if err != nil {
		return nil, err
	}
	fmt.Printf("[%6dms] classified: %d trivial, %d differential, %d linear, %d newton unknown(s)\n",
		elapsedMS(start), len(strata.Trivial), len(strata.Differential), len(strata.Linear), len(strata.NewtonUnknowns))
	for _, a := range strata.Trivial {
		fmt.Printf("[%6dms]   trivial      %s\n", elapsedMS(start), a)
	}
	for _, a := range strata.Differential {
		fmt.Printf("[%6dms]   differential %s\n", elapsedMS(start), a)
	}
	for _, a := range strata.Linear {
		fmt.Printf("[%6dms]   linear       %s\n", elapsedMS(start), a)
	}
	for _, eq := range strata.Nonlinear {
		fmt.Printf("[%6dms]   residual     %s\n", elapsedMS(start), eq)
	}

	cv := map[string]symbolic.Expr{}
	for _, a := range componentVoltages {
		cv[varName(a.Left)] = a.Right
		fmt.Printf("[%6dms]   component    %s\n", elapsedMS(start), a)
	}

	return &Simulation{
		inputs:            inputs,
		strata:            strata,
		componentVoltages: cv,
		sampleRate:        sampleRate,
		oversample:        oversample,
		Iterations:        iterations,
		cache:             kernel.NewCache(),
		globals:           map[string]float64{},
		DivergenceCheck:   true,
	}, nil
}

// Reset zeros every global cell and sets _t = 0 (spec.md §4.5).
func (s *Simulation) Reset() {
	s.globals = map[string]float64{}
}

// Time returns the simulation's current time, the runtime driver's
// "_t" cell.
func (s *Simulation) Time() float64 { return s.globals[symbolic.T.String()] }

func elapsedMS(start time.Time) int64 { return time.Since(start).Milliseconds() }

func varName(e symbolic.Expr) string {
	if v, ok := e.(symbolic.Var); ok {
		return v.Name
	}
	return e.String()
}
