package components

import "github.com/san-kum/livespice/internal/symbolic"

// Diode is the module's sole non-linear primitive: a Shockley-model
// junction between nodes A (anode) and B (cathode), parameterized by
// saturation current IsParam and thermal voltage VtParam. Its current
// law is exponential in its own terminal voltage, which is exactly
// the shape the classifier's f0 extraction stage exists to isolate.
type Diode struct {
	Label   string
	A, B    string
	IsParam string
	VtParam string
}

func (d *Diode) Name() string { return d.Label }

func (d *Diode) current() symbolic.Expr { return symbolic.V("I_" + d.Label) }

func (d *Diode) Voltage() symbolic.Expr {
	return symbolic.Sub(Node(d.A), Node(d.B))
}

// Analyze declares i = Is * (exp(Vd/Vt) - 1).
func (d *Diode) Analyze(sys *System) {
	i := d.current()
	sys.AddUnknown(i)
	law := symbolic.MulOf(
		symbolic.V(d.IsParam),
		symbolic.Sub(symbolic.Exp(symbolic.Div(d.Voltage(), symbolic.V(d.VtParam))), symbolic.N(1)),
	)
	sys.AddEquation(i, law)
	sys.AddCurrent(d.A, i)
	sys.AddCurrent(d.B, symbolic.Neg(i))
}
