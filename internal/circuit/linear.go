package circuit

import "github.com/san-kum/livespice/internal/symbolic"

// closeLinear solves the remaining component/KCL equations together
// with the differential stage's trapezoidal equations, as one combined
// linear system, for every remaining unknown that doesn't itself
// appear inside some non-linear law's right-hand side (those are
// deferred to the residual stage). Solving both kinds of equation
// together — rather than resolving differentials first and everything
// else second — is what lets Gauss-Jordan eliminate the mutual
// coupling a capacitor's current and its own node voltage otherwise
// have on each other, leaving every arrow's right side free of any
// other still-being-solved unknown.
func closeLinear(
	equations []symbolic.Equation,
	unknowns []symbolic.Expr,
	diffEquations []symbolic.Equation,
	diffTargets []symbolic.Expr,
	f0 []symbolic.Arrow,
) (differential, linear []symbolic.Arrow, remaining []symbolic.Expr) {
	var targets []symbolic.Expr
	for _, u := range unknowns {
		coupled := false
		for _, f := range f0 {
			if symbolic.IsFunctionOf(f.Right, u) {
				coupled = true
				break
			}
		}
		if !coupled {
			targets = append(targets, u)
		}
	}

	combined := append(append([]symbolic.Equation(nil), equations...), diffEquations...)
	solved := symbolic.Solve(combined, targets)

	isDiffTarget := func(e symbolic.Expr) bool {
		for _, d := range diffTargets {
			if symbolic.Equal(d, e) {
				return true
			}
		}
		return false
	}
	for _, a := range solved {
		if isDiffTarget(a.Left) {
			differential = append(differential, a)
		} else {
			linear = append(linear, a)
		}
	}

	remaining = append([]symbolic.Expr(nil), unknowns...)
	for _, a := range solved {
		remaining = removeExpr(remaining, a.Left)
	}
	return differential, linear, remaining
}
