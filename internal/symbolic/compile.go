package symbolic

import (
	"fmt"
	"math"
)

// Node is a compiled, allocation-free evaluation step. Frame holds
// every live value (globals, inputs, locals, parameters, outputs)
// addressed by a flat slot index resolved once at compile time, so
// evaluating a Node at runtime never allocates and never looks a name
// up by string.
type Node interface {
	Eval(frame []float64) float64
}

type irConst float64

func (c irConst) Eval(frame []float64) float64 { return float64(c) }

type irLoad int

func (l irLoad) Eval(frame []float64) float64 { return frame[l] }

type irAdd []Node

func (a irAdd) Eval(frame []float64) float64 {
	sum := 0.0
	for _, n := range a {
		sum += n.Eval(frame)
	}
	return sum
}

type irMul []Node

func (m irMul) Eval(frame []float64) float64 {
	prod := 1.0
	for _, n := range m {
		prod *= n.Eval(frame)
	}
	return prod
}

type irPow struct{ Base, Exp Node }

func (p irPow) Eval(frame []float64) float64 {
	return math.Pow(p.Base.Eval(frame), p.Exp.Eval(frame))
}

type irCall struct {
	Fn  string
	Arg Node
}

func (c irCall) Eval(frame []float64) float64 {
	x := c.Arg.Eval(frame)
	switch c.Fn {
	case "exp":
		return math.Exp(x)
	case "sin":
		return math.Sin(x)
	case "cos":
		return math.Cos(x)
	case "tanh":
		return math.Tanh(x)
	default:
		return math.NaN()
	}
}

// SlotMap resolves a variable's canonical key to its frame slot.
type SlotMap map[string]int

// Compile translates a simplified expression into a Node tree
// addressed against slots. Every Var referenced by e must have a
// slot; a Deriv surviving to this point is a builder error, since the
// differential classifier stage must have already eliminated it.
func Compile(e Expr, slots SlotMap) (Node, error) {
	switch t := e.(type) {
	case Num:
		return irConst(t.V), nil
	case Var:
		slot, ok := slots[t.Name]
		if !ok {
			return nil, fmt.Errorf("symbolic: no slot for variable %q", t.Name)
		}
		return irLoad(slot), nil
	case Add:
		nodes := make(irAdd, len(t.Terms))
		for i, term := range t.Terms {
			n, err := Compile(term, slots)
			if err != nil {
				return nil, err
			}
			nodes[i] = n
		}
		return nodes, nil
	case Mul:
		nodes := make(irMul, len(t.Factors))
		for i, f := range t.Factors {
			n, err := Compile(f, slots)
			if err != nil {
				return nil, err
			}
			nodes[i] = n
		}
		return nodes, nil
	case Pow:
		base, err := Compile(t.Base, slots)
		if err != nil {
			return nil, err
		}
		exp, err := Compile(t.Exp, slots)
		if err != nil {
			return nil, err
		}
		return irPow{base, exp}, nil
	case Call:
		arg, err := Compile(t.Arg, slots)
		if err != nil {
			return nil, err
		}
		return irCall{t.Fn, arg}, nil
	case Deriv:
		return nil, fmt.Errorf("symbolic: cannot compile unresolved derivative %s", t)
	}
	return nil, fmt.Errorf("symbolic: unknown expression node %T", e)
}
