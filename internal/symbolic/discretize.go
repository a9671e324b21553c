package symbolic

import "fmt"

// NDSolve discretizes the equation among equations that defines
// dydt = D(y, t) using the trapezoidal rule:
//
//	y_new = y_old + (h/2) * (f(t, y_new, ...) + f(t0, y_old, ...))
//
// prev supplies, for every symbol whose previous-step value matters
// (y itself, and any time-varying input referenced by f), the
// expression that reads that previous value — typically a global
// cell. t and t0 name the current and previous sample times. The
// result is y's binding at the new step, expressed without any
// remaining reference to dydt.
func NDSolve(equations []Equation, dydt, y Expr, prev Bindings, t, t0, h Expr) (Arrow, error) {
	derived := Solve(equations, []Expr{dydt})
	if len(derived) == 0 {
		return Arrow{}, fmt.Errorf("symbolic: no equation defines %s linearly", dydt)
	}
	fNew := derived[0].Right

	oldBindings := make(Bindings, len(prev)+1)
	for k, v := range prev {
		oldBindings[k] = v
	}
	oldBindings[t.String()] = t0
	fOld := Evaluate(fNew, oldBindings)

	y0, ok := prev[y.String()]
	if !ok {
		return Arrow{}, fmt.Errorf("symbolic: no previous-step binding for %s", y)
	}

	half := Div(h, Num{2})
	rhs := AddOf(y0, MulOf(half, AddOf(fNew, fOld)))

	arrow, ok := SolveForVar(Eq(y, rhs), y)
	if !ok {
		return Arrow{}, fmt.Errorf("symbolic: %s is not linear in its own trapezoidal update", y)
	}
	return arrow, nil
}

// RecoverDerivative builds the expression that reconstructs D(y,t) at
// the current step from its new and previous values, using the
// standard trapezoidal companion identity
// dy/dt_new = (2/h)(y_new - y_old) - dy/dt_old. invHalfH is the
// caller-supplied 1/(h/2) expression, so the reconstruction itself
// contains no division.
func RecoverDerivative(yNew, yOld, dydtOld, invHalfH Expr) Expr {
	return Sub(MulOf(invHalfH, Sub(yNew, yOld)), dydtOld)
}
