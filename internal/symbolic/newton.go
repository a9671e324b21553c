package symbolic

import "fmt"

// NSolve derives a single symbolic Newton-Raphson correction for
// equations with respect to unknowns:
//
//	delta = J(unknowns)^-1 . R(unknowns)
//	unknowns_new = unknowns - delta
//
// Both R (the residuals) and J (the Jacobian, via Diff) are evaluated
// symbolically at the unknowns themselves rather than at a numeric
// guess, because the core always calls this once per kernel build
// with n_iterations=1: the returned arrows are a fixed-point
// iteration formula, compiled once and re-evaluated every Newton
// iteration at runtime against whatever numeric values the unknowns'
// global cells currently hold. Calling it again with the same
// unknowns refines the same formula by one more symbolic step; the
// runtime driver instead re-runs the single compiled step repeatedly,
// which is what keeps its per-sample instruction mix fixed.
func NSolve(equations []Equation, unknowns []Expr) ([]Arrow, error) {
	n := len(unknowns)
	residuals := make([]Expr, len(equations))
	for i, eq := range equations {
		residuals[i] = eq.Residual()
	}

	deltas := make([]Expr, n)
	for j, u := range unknowns {
		name := "_delta_" + u.String()
		deltas[j] = Var{name}
	}

	deltaEqs := make([]Equation, len(residuals))
	for i, r := range residuals {
		lhs := Expr(Num{0})
		for j, u := range unknowns {
			jac := Diff(r, u)
			lhs = AddOf(lhs, MulOf(jac, deltas[j]))
		}
		deltaEqs[i] = Eq(lhs, r)
	}

	solved := Solve(deltaEqs, deltas)
	if len(solved) != n {
		return nil, fmt.Errorf("symbolic: Newton system is singular for %d unknown(s)", n)
	}
	byKey := make(map[string]Expr, n)
	for _, a := range solved {
		byKey[a.Left.String()] = a.Right
	}

	out := make([]Arrow, n)
	for j, u := range unknowns {
		delta, ok := byKey[deltas[j].String()]
		if !ok {
			return nil, fmt.Errorf("symbolic: Newton system did not resolve %s", u)
		}
		out[j] = Arrow{u, Sub(u, delta)}
	}
	return out, nil
}
