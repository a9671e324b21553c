package components

import "github.com/san-kum/livespice/internal/symbolic"

// VoltageSource forces Node A minus Node B to equal Value, an
// arbitrary expression of time and input variables (a literal
// constant for a DC bias, or symbolic.Sin(...) for an audio input).
// Like the ideal op-amp, it needs a free branch current unknown since
// an ideal source's own current is determined entirely by the rest
// of the circuit.
type VoltageSource struct {
	Label string
	A, B  string
	Value symbolic.Expr
}

func (v *VoltageSource) Name() string { return v.Label }

func (v *VoltageSource) current() symbolic.Expr { return symbolic.V("I_" + v.Label) }

func (v *VoltageSource) Voltage() symbolic.Expr {
	return symbolic.Sub(Node(v.A), Node(v.B))
}

func (v *VoltageSource) Analyze(sys *System) {
	i := v.current()
	sys.AddUnknown(i)
	sys.AddEquation(v.Voltage(), v.Value)
	sys.AddCurrent(v.A, i)
	sys.AddCurrent(v.B, symbolic.Neg(i))
}

// CurrentSource forces a fixed current Value to flow from A to B
// through the source; it needs no extra unknown since its current is
// already known.
type CurrentSource struct {
	Label string
	A, B  string
	Value symbolic.Expr
}

func (c *CurrentSource) Name() string { return c.Label }

func (c *CurrentSource) Voltage() symbolic.Expr {
	return symbolic.Sub(Node(c.A), Node(c.B))
}

func (c *CurrentSource) Analyze(sys *System) {
	sys.AddCurrent(c.A, c.Value)
	sys.AddCurrent(c.B, symbolic.Neg(c.Value))
}
