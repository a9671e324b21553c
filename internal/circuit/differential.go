package circuit

import "github.com/san-kum/livespice/internal/symbolic"

// buildDifferentialEquations discretizes every remaining D(y, t)
// unknown via the trapezoidal rule and returns each as an ordinary
// equation "y = trapezoidal update" plus the underlying y it defines,
// rather than resolving it in isolation: a companion current is
// nearly always itself a still-unresolved unknown (a capacitor's
// current depends on the very node voltage its own trapezoidal update
// solves for), so y's true closed form only falls out once this
// equation is solved together with the rest of the linear system in
// closeLinear, not before.
func buildDifferentialEquations(
	equations []symbolic.Equation,
	unknowns []symbolic.Expr,
	prev symbolic.Bindings,
	t0, h symbolic.Expr,
) (diffEquations []symbolic.Equation, diffTargets []symbolic.Expr, rest []symbolic.Equation, remaining []symbolic.Expr, err error) {
	rest = equations
	remaining = unknowns
	for _, u := range unknowns {
		if !symbolic.IsD(u) {
			continue
		}
		y := symbolic.DOf(u)
		arrow, nderr := symbolic.NDSolve(rest, u, y, prev, symbolic.T, t0, h)
		if nderr != nil {
			return nil, nil, nil, nil, newConfigurationError("differential unknown %s: %v", u, nderr)
		}
		diffEquations = append(diffEquations, symbolic.Eq(arrow.Left, arrow.Right))
		diffTargets = append(diffTargets, y)

		consumed := -1
		for i, eq := range rest {
			r := eq.Residual()
			if !symbolic.IsFunctionOf(r, u) {
				continue
			}
			if symbolic.IsFunctionOf(symbolic.Diff(r, u), u) {
				continue
			}
			consumed = i
			break
		}
		if consumed >= 0 {
			rest = append(append([]symbolic.Equation(nil), rest[:consumed]...), rest[consumed+1:]...)
		}
		remaining = removeExpr(remaining, u)
	}
	return diffEquations, diffTargets, rest, remaining, nil
}
