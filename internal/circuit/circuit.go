package circuit

import "github.com/san-kum/livespice/internal/symbolic"

// Classify reduces a netlist's raw equations and unknowns to a Strata,
// running the five stages in order: trivial elimination, non-linear
// extraction, differential discretization, linear closure, and
// residual construction. inputs are the netlist's time-varying
// exogenous signals (source waveforms); they carry no equation of
// their own but still need a previous-sample shadow cell whenever a
// differential's companion model evaluates them at t0. h is the
// symbolic sample interval (ordinarily a kernel-hoisted constant built
// from the oversampled rate).
func Classify(equations []symbolic.Equation, unknowns, inputs []symbolic.Expr, h symbolic.Expr) (*Strata, error) {
	prev := symbolic.Bindings{}
	for _, u := range unknowns {
		if symbolic.IsD(u) {
			continue
		}
		prev[u.String()] = PrevOf(u)
	}
	for _, in := range inputs {
		prev[in.String()] = PrevOf(in)
	}

	trivial, eqs, remaining := eliminateTrivial(equations, unknowns)

	f0, eqs := extractF0(eqs)

	diffEquations, diffTargets, eqs, remaining, err := buildDifferentialEquations(eqs, remaining, prev, T0, h)
	if err != nil {
		return nil, err
	}

	differential, linear, remaining := closeLinear(eqs, remaining, diffEquations, diffTargets, f0)

	nonlinear, newtonUnknowns, err := buildResidual(f0, trivial, differential, linear, remaining)
	if err != nil {
		return nil, err
	}

	return &Strata{
		Trivial:        trivial,
		Differential:   differential,
		Linear:         linear,
		F0:             f0,
		Nonlinear:      nonlinear,
		NewtonUnknowns: newtonUnknowns,
		H:              h,
	}, nil
}
