// Package circuit implements the classifier: the five-stage reduction
// that turns a netlist's raw, unordered pile of symbolic MNA equations
// and unknowns into a Strata the kernel builder can compile directly,
// with every differential already discretized and every non-linearity
// isolated into a single Newton-Raphson correction step.
package circuit

import "github.com/san-kum/livespice/internal/symbolic"

// Strata is the classifier's output: every original unknown is
// accounted for in exactly one of Trivial, Differential, Linear or
// NewtonUnknowns, except the derivative markers D(y, t), which the
// differential stage eliminates and which appear in none of them.
type Strata struct {
	// Trivial unknowns solve immediately, independent of every other
	// still-unresolved unknown (e.g. a node tied directly to a source).
	Trivial []symbolic.Arrow

	// Differential unknowns are the underlying quantity y of some
	// D(y, t) marker; their arrow is the trapezoidal companion update,
	// already discretized against H.
	Differential []symbolic.Arrow

	// Linear unknowns solve by Gauss-Jordan elimination over the
	// remaining equations, once the non-linear unknowns are excluded.
	Linear []symbolic.Arrow

	// F0 holds every non-linear defining law found during extraction,
	// keyed by the unknown it defines (e.g. a diode's branch current).
	// Kept aside rather than substituted so the equations referencing
	// that unknown elsewhere stay linear.
	F0 []symbolic.Arrow

	// Nonlinear is the residual system Newton solves: one equation per
	// F0 binding, equating its non-linear law to whatever linear
	// closure the rest of the circuit imposes on the same unknown.
	Nonlinear []symbolic.Equation

	// NewtonUnknowns is the set of genuinely coupled unknowns the
	// residual system is solved for — the "y" in "its unknowns are the
	// residual y".
	NewtonUnknowns []symbolic.Expr

	// H is the sample interval expression used to discretize every
	// differential in this Strata.
	H symbolic.Expr
}
