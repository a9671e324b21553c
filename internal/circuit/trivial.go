package circuit

import "github.com/san-kum/livespice/internal/symbolic"

// eliminateTrivial repeatedly finds an equation that pins down a
// remaining unknown independent of every other remaining unknown (a
// node tied straight to a source, a wire's equality, a grounded
// terminal) and removes both from the pool, iterating to a fixed
// point since resolving one trivial unknown can reveal another.
func eliminateTrivial(equations []symbolic.Equation, unknowns []symbolic.Expr) ([]symbolic.Arrow, []symbolic.Equation, []symbolic.Expr) {
	var trivial []symbolic.Arrow
	for {
		found := false
		for ei, eq := range equations {
			r := eq.Residual()
			for _, u := range unknowns {
				if !symbolic.IsFunctionOf(r, u) {
					continue
				}
				blocked := false
				for _, other := range unknowns {
					if symbolic.Equal(other, u) {
						continue
					}
					if symbolic.IsFunctionOf(r, other) {
						blocked = true
						break
					}
				}
				if blocked {
					continue
				}
				arrow, ok := symbolic.SolveForVar(eq, u)
				if !ok {
					continue
				}
				trivial = append(trivial, arrow)
				equations = append(append([]symbolic.Equation(nil), equations[:ei]...), equations[ei+1:]...)
				unknowns = removeExpr(unknowns, u)
				found = true
				break
			}
			if found {
				break
			}
		}
		if !found {
			return trivial, equations, unknowns
		}
	}
}
