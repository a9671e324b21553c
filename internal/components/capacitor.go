package components

import "github.com/san-kum/livespice/internal/symbolic"

// Capacitor is an ideal linear capacitor between nodes A and B,
// valued by parameter Param (farads). Its current law introduces a
// derivative marker D(V,t) as an unknown: the differential classifier
// stage resolves it via trapezoidal discretization, not this package.
type Capacitor struct {
	Label string
	A, B  string
	Param string
}

func (c *Capacitor) Name() string { return c.Label }

func (c *Capacitor) current() symbolic.Expr { return symbolic.V("I_" + c.Label) }

func (c *Capacitor) Voltage() symbolic.Expr {
	return symbolic.Sub(Node(c.A), Node(c.B))
}

// Analyze declares i = C * dV/dt.
func (c *Capacitor) Analyze(sys *System) {
	i := c.current()
	dvdt := symbolic.D(c.Voltage(), symbolic.T)
	sys.AddUnknown(i)
	sys.AddUnknown(dvdt)
	sys.AddEquation(i, symbolic.MulOf(symbolic.V(c.Param), dvdt))
	sys.AddCurrent(c.A, i)
	sys.AddCurrent(c.B, symbolic.Neg(i))
}
