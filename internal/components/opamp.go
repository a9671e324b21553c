package components

import "github.com/san-kum/livespice/internal/symbolic"

// OpAmp is an ideal operational amplifier (infinite gain, infinite
// input impedance, zero output impedance): the classic nullor MNA
// stamp. It draws no current at either input, contributes a free
// output branch current unknown, and constrains the two inputs to be
// equal (the virtual short). Op-amp saturation is out of scope.
type OpAmp struct {
	Label       string
	Plus, Minus string
	Out         string
}

func (o *OpAmp) Name() string { return o.Label }

func (o *OpAmp) outputCurrent() symbolic.Expr { return symbolic.V("I_" + o.Label) }

// Analyze constrains V+ = V- and lets the output branch current be
// whatever the rest of the circuit's KCL at the output node requires.
func (o *OpAmp) Analyze(sys *System) {
	iOut := o.outputCurrent()
	sys.AddUnknown(iOut)
	sys.AddEquation(Node(o.Plus), Node(o.Minus))
	sys.AddCurrent(o.Out, symbolic.Neg(iOut))
}
