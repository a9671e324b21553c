package experiment

import (
	"fmt"
	"math"

	"github.com/san-kum/livespice/internal/components"
	"github.com/san-kum/livespice/internal/symbolic"
)

// ComponentSpec is one YAML entry describing a component instance in
// a netlist. Not every field applies to every Type; unused fields are
// simply left zero.
type ComponentSpec struct {
	Type    string `yaml:"type"`
	Label   string `yaml:"label"`
	A       string `yaml:"a"`
	B       string `yaml:"b"`
	Plus    string `yaml:"plus"`
	Minus   string `yaml:"minus"`
	Out     string `yaml:"out"`
	Param   string `yaml:"param"`
	IsParam string `yaml:"is_param"`
	VtParam string `yaml:"vt_param"`

	// Value selects the driven expression for a source: Input names an
	// exogenous signal variable, Const is a literal, and SineHz builds
	// SineAmp*sin(2*pi*SineHz*t) directly (spec.md §8.3's internally-
	// driven sine source).
	Input   string   `yaml:"input"`
	Const   *float64 `yaml:"const"`
	SineHz  *float64 `yaml:"sine_hz"`
	SineAmp float64  `yaml:"sine_amp"`
}

func (s ComponentSpec) value() symbolic.Expr {
	switch {
	case s.SineHz != nil:
		amp := s.SineAmp
		if amp == 0 {
			amp = 1.0
		}
		return symbolic.MulOf(symbolic.N(amp), symbolic.Sin(symbolic.MulOf(symbolic.N(2*math.Pi*(*s.SineHz)), symbolic.T)))
	case s.Const != nil:
		return symbolic.N(*s.Const)
	case s.Input != "":
		return symbolic.V(s.Input)
	default:
		return symbolic.N(0)
	}
}

// Registry maps a netlist's component "type" strings to constructors,
// mirroring the teacher's model/integrator/controller name registry
// but over circuit primitives instead of physical models.
type Registry struct {
	builders map[string]func(ComponentSpec) (components.Component, error)
}

func NewRegistry() *Registry {
	r := &Registry{builders: map[string]func(ComponentSpec) (components.Component, error){}}

	r.builders["resistor"] = func(s ComponentSpec) (components.Component, error) {
		return &components.Resistor{Label: s.Label, A: s.A, B: s.B, Param: s.Param}, nil
	}
	r.builders["capacitor"] = func(s ComponentSpec) (components.Component, error) {
		return &components.Capacitor{Label: s.Label, A: s.A, B: s.B, Param: s.Param}, nil
	}
	r.builders["inductor"] = func(s ComponentSpec) (components.Component, error) {
		return &components.Inductor{Label: s.Label, A: s.A, B: s.B, Param: s.Param}, nil
	}
	r.builders["diode"] = func(s ComponentSpec) (components.Component, error) {
		return &components.Diode{Label: s.Label, A: s.A, B: s.B, IsParam: s.IsParam, VtParam: s.VtParam}, nil
	}
	r.builders["opamp"] = func(s ComponentSpec) (components.Component, error) {
		return &components.OpAmp{Label: s.Label, Plus: s.Plus, Minus: s.Minus, Out: s.Out}, nil
	}
	r.builders["voltage_source"] = func(s ComponentSpec) (components.Component, error) {
		return &components.VoltageSource{Label: s.Label, A: s.A, B: s.B, Value: s.value()}, nil
	}
	r.builders["current_source"] = func(s ComponentSpec) (components.Component, error) {
		return &components.CurrentSource{Label: s.Label, A: s.A, B: s.B, Value: s.value()}, nil
	}

	return r
}

func (r *Registry) Build(spec ComponentSpec) (components.Component, error) {
	fn, ok := r.builders[spec.Type]
	if !ok {
		return nil, fmt.Errorf("experiment: unknown component type %q (label %s)", spec.Type, spec.Label)
	}
	return fn(spec)
}

// ListTypes returns every registered component type name.
func (r *Registry) ListTypes() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	return names
}
