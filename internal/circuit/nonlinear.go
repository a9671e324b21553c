package circuit

import "github.com/san-kum/livespice/internal/symbolic"

// extractF0 pulls every non-linear defining law (an equation whose
// right-hand side contains a transcendental call — currently only the
// diode's Shockley law) out of the equation pool and into F0 bindings,
// keeping the defined unknown itself in the pool: it still appears
// linearly wherever else it's used (typically a single KCL sum), and
// only needs resolving once the residual stage equates its two
// definitions.
func extractF0(equations []symbolic.Equation) (f0 []symbolic.Arrow, rest []symbolic.Equation) {
	for _, eq := range equations {
		if containsCall(eq.Right) || containsCall(eq.Left) {
			f0 = append(f0, symbolic.Arrow{Left: eq.Left, Right: eq.Right})
			continue
		}
		rest = append(rest, eq)
	}
	return f0, rest
}
