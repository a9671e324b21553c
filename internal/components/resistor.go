package components

import "github.com/san-kum/livespice/internal/symbolic"

// Resistor is an ideal linear resistor between nodes A and B, valued
// by the parameter symbol Param (e.g. "R1"), resolved to a concrete
// resistance at kernel-invocation time.
type Resistor struct {
	Label string
	A, B  string
	Param string
}

func (r *Resistor) Name() string { return r.Label }

func (r *Resistor) current() symbolic.Expr { return symbolic.V("I_" + r.Label) }

func (r *Resistor) Voltage() symbolic.Expr {
	return symbolic.Sub(Node(r.A), Node(r.B))
}

// Analyze declares the branch current i = (Va-Vb)/R and stamps it
// into both terminals' KCL sums.
func (r *Resistor) Analyze(sys *System) {
	i := r.current()
	sys.AddUnknown(i)
	sys.AddEquation(i, symbolic.Div(r.Voltage(), symbolic.V(r.Param)))
	sys.AddCurrent(r.A, i)
	sys.AddCurrent(r.B, symbolic.Neg(i))
}
