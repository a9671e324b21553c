package circuit

import "github.com/san-kum/livespice/internal/symbolic"

// buildResidual equates each non-linear law to whatever other
// definition the rest of the circuit already gives its own unknown
// (its linear, trivial or differential arrow, if any — otherwise the
// unknown itself, which only happens for a non-linear law with nothing
// else constraining it), producing the system Newton solves and the
// exact set of genuinely unresolved unknowns it solves for.
func buildResidual(
	f0 []symbolic.Arrow,
	trivial, differential, linear []symbolic.Arrow,
	remaining []symbolic.Expr,
) ([]symbolic.Equation, []symbolic.Expr, error) {
	var nonlinear []symbolic.Equation
	for _, f := range f0 {
		if rhs, ok := lookupArrow(f.Left, trivial, differential, linear); ok {
			nonlinear = append(nonlinear, symbolic.Eq(rhs, f.Right))
		} else {
			nonlinear = append(nonlinear, symbolic.Eq(f.Left, f.Right))
		}
	}
	if len(remaining) > len(nonlinear) {
		return nil, nil, newConfigurationError(
			"%d unknown(s) have no governing equation: %v", len(remaining)-len(nonlinear), remaining)
	}
	if len(remaining) < len(nonlinear) {
		return nil, nil, newConfigurationError(
			"non-linear residual has %d equation(s) for only %d unknown(s)", len(nonlinear), len(remaining))
	}
	return nonlinear, remaining, nil
}
