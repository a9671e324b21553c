// Package components implements the two-terminal (and small
// multi-terminal) circuit primitives that assemble a symbolic
// Modified Nodal Analysis system: each component's Analyze method
// declares its own unknown branch current (or, for op-amps, an
// output branch current and a constraint) and contributes that
// current to the Kirchhoff's Current Law sum at each of its nodes.
package components

import (
	"sort"

	"github.com/san-kum/livespice/internal/symbolic"
)

// Ground is the reference node; it never receives a KCL equation.
const Ground = "0"

// System accumulates the raw equations and unknowns produced by
// asking every component in a circuit to Analyze itself, mirroring
// the component contract's "raw list of MNA equations and unknowns,
// obtained by asking each component to augment them."
type System struct {
	kcl       map[string]symbolic.Expr
	nodeOrder []string
	Equations []symbolic.Equation
	Unknowns  []symbolic.Expr
	unknownAt map[string]bool
}

// NewSystem returns an empty assembly.
func NewSystem() *System {
	return &System{kcl: map[string]symbolic.Expr{}, unknownAt: map[string]bool{}}
}

// Node returns the symbolic node-voltage variable for a named node;
// the ground node is the literal constant zero, not a floating
// unknown.
func Node(name string) symbolic.Expr {
	if name == Ground {
		return symbolic.N(0)
	}
	return symbolic.V("V_" + name)
}

// AddCurrent records current leaving node flowing into a component
// branch; grounded nodes are dropped immediately since ground never
// gets its own KCL row.
func (s *System) AddCurrent(node string, current symbolic.Expr) {
	if node == Ground {
		return
	}
	prev, ok := s.kcl[node]
	if !ok {
		s.nodeOrder = append(s.nodeOrder, node)
		s.kcl[node] = current
		return
	}
	s.kcl[node] = symbolic.AddOf(prev, current)
}

// AddEquation appends a component-defining equation (Ohm's law, a
// capacitor's current law, an ideal source's constraint).
func (s *System) AddEquation(lhs, rhs symbolic.Expr) {
	s.Equations = append(s.Equations, symbolic.Eq(lhs, rhs))
}

// AddUnknown registers e as an unknown the classifier must resolve,
// deduplicating by canonical string.
func (s *System) AddUnknown(e symbolic.Expr) {
	key := e.String()
	if s.unknownAt[key] {
		return
	}
	s.unknownAt[key] = true
	s.Unknowns = append(s.Unknowns, e)
}

// Finish appends one KCL equation per non-ground node (sum of leaving
// currents equals zero) to Equations and returns the complete system.
// Node voltages are registered as unknowns here too: any node that
// never gets otherwise resolved (e.g. it is the sole terminal of a
// dangling probe) still needs a slot in the classifier's unknown set.
func (s *System) Finish() ([]symbolic.Equation, []symbolic.Expr) {
	nodes := append([]string(nil), s.nodeOrder...)
	sort.Strings(nodes)
	for _, n := range nodes {
		s.AddEquation(s.kcl[n], symbolic.N(0))
		s.AddUnknown(Node(n))
	}
	return s.Equations, s.Unknowns
}

// Component is anything that can augment a System with its own
// governing equations and KCL contributions.
type Component interface {
	Name() string
	Analyze(sys *System)
}

// TwoTerminal additionally exposes the voltage across its own
// terminals, used by components (e.g. a diode probing its own drop)
// and by output taps in a netlist.
type TwoTerminal interface {
	Component
	Voltage() symbolic.Expr
}
