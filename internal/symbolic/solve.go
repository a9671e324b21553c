package symbolic

// isZero reports whether e reduces to the literal constant zero once
// expanded. Symbolic zero-testing is undecidable in general; this
// package only ever needs it for coefficients built from sums and
// products of component values, node/branch unknowns and h, which
// cancel down to a literal 0 through Expand/AddOf/MulOf whenever they
// truly are zero.
func isZero(e Expr) bool { return Expand(e).String() == "0" }

// linearRow is one equation's residual rewritten as coeffs . unknowns
// == rhs, valid only when every coefficient and rhs are themselves
// free of every unknown (a strict linear-combination test).
type linearRow struct {
	coeffs []Expr
	rhs    Expr
}

func buildLinearRow(eq Equation, unknowns []Expr) (linearRow, bool) {
	r := eq.Residual()
	coeffs := make([]Expr, len(unknowns))
	for j, u := range unknowns {
		c := Diff(r, u)
		if IsFunctionOf(c, u) {
			return linearRow{}, false
		}
		coeffs[j] = c
	}
	rest := r
	for j, u := range unknowns {
		rest = Sub(rest, MulOf(coeffs[j], u))
	}
	rest = Expand(rest)
	for _, u := range unknowns {
		if IsFunctionOf(rest, u) {
			return linearRow{}, false
		}
	}
	return linearRow{coeffs: coeffs, rhs: Neg(rest)}, true
}

// Solve reduces a system of equations, each linear in the given
// unknowns (coefficients may reference anything else: other
// still-unsolved symbols, globals, inputs, parameters), via
// Gauss-Jordan elimination performed with expression arithmetic
// instead of floats. Equations that are not linear in the requested
// unknowns are silently skipped; unknowns that never obtain a pivot
// are omitted from the result rather than erroring, since callers use
// Solve opportunistically across several classifier stages and expect
// a partial solution back.
func Solve(equations []Equation, unknowns []Expr) []Arrow {
	var rows []linearRow
	for _, eq := range equations {
		if row, ok := buildLinearRow(eq, unknowns); ok {
			rows = append(rows, row)
		}
	}
	n := len(unknowns)
	pivotRow := make([]int, n)
	for j := range pivotRow {
		pivotRow[j] = -1
	}
	used := make([]bool, len(rows))
	for col := 0; col < n; col++ {
		sel := -1
		for i, row := range rows {
			if !used[i] && !isZero(row.coeffs[col]) {
				sel = i
				break
			}
		}
		if sel == -1 {
			continue
		}
		used[sel] = true
		pivotRow[col] = sel
		pivot := rows[sel].coeffs[col]
		for k := 0; k < n; k++ {
			rows[sel].coeffs[k] = Div(rows[sel].coeffs[k], pivot)
		}
		rows[sel].rhs = Div(rows[sel].rhs, pivot)
		for i := range rows {
			if i == sel {
				continue
			}
			factor := rows[i].coeffs[col]
			if isZero(factor) {
				continue
			}
			for k := 0; k < n; k++ {
				rows[i].coeffs[k] = Sub(rows[i].coeffs[k], MulOf(factor, rows[sel].coeffs[k]))
			}
			rows[i].rhs = Sub(rows[i].rhs, MulOf(factor, rows[sel].rhs))
		}
	}
	var arrows []Arrow
	for col, ri := range pivotRow {
		if ri == -1 {
			continue
		}
		arrows = append(arrows, Arrow{unknowns[col], rows[ri].rhs})
	}
	return arrows
}

// SolveForVar isolates x in a single equation when it appears
// linearly, returning ok=false if x does not appear or appears
// non-linearly.
func SolveForVar(eq Equation, x Expr) (Arrow, bool) {
	arrows := Solve([]Equation{eq}, []Expr{x})
	if len(arrows) == 0 {
		return Arrow{}, false
	}
	return arrows[0], true
}
