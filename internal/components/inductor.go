package components

import "github.com/san-kum/livespice/internal/symbolic"

// Inductor is an ideal linear inductor between nodes A and B, valued
// by parameter Param (henries). Dual of Capacitor: its defining law
// puts the derivative on the branch current rather than the voltage.
type Inductor struct {
	Label string
	A, B  string
	Param string
}

func (l *Inductor) Name() string { return l.Label }

func (l *Inductor) current() symbolic.Expr { return symbolic.V("I_" + l.Label) }

func (l *Inductor) Voltage() symbolic.Expr {
	return symbolic.Sub(Node(l.A), Node(l.B))
}

// Analyze declares V = L * dI/dt.
func (l *Inductor) Analyze(sys *System) {
	i := l.current()
	didt := symbolic.D(i, symbolic.T)
	sys.AddUnknown(i)
	sys.AddUnknown(didt)
	sys.AddEquation(l.Voltage(), symbolic.MulOf(symbolic.V(l.Param), didt))
	sys.AddCurrent(l.A, i)
	sys.AddCurrent(l.B, symbolic.Neg(i))
}
