package experiment

import (
	"fmt"
	"os"

	"github.com/san-kum/livespice/internal/circuit"
	"github.com/san-kum/livespice/internal/components"
	"github.com/san-kum/livespice/internal/dynamo"
	"github.com/san-kum/livespice/internal/symbolic"
	"gopkg.in/yaml.v3"
)

// Netlist is the on-disk description of a circuit: its components,
// which of their driving variables are exogenous inputs, which
// expressions a caller usually wants as outputs, and default
// parameter values. This is the practical way a Simulation gets built
// outside of hand-written Go — every MNA simulator in the retrieved
// corpus has an equivalent load path.
type Netlist struct {
	Name       string              `yaml:"name"`
	SampleRate float64             `yaml:"sample_rate"`
	Oversample int                 `yaml:"oversample"`
	Iterations int                 `yaml:"iterations"`
	Components []ComponentSpec     `yaml:"components"`
	Inputs     []string            `yaml:"inputs"`
	Outputs    []string            `yaml:"outputs"`
	Parameters map[string]float64  `yaml:"parameters"`
}

func LoadNetlist(path string) (*Netlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var n Netlist
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	if n.SampleRate == 0 {
		n.SampleRate = 48000
	}
	if n.Oversample == 0 {
		n.Oversample = 1
	}
	if err := n.validate(); err != nil {
		return nil, err
	}
	return &n, nil
}

func (n *Netlist) validate() error {
	if len(n.Components) == 0 {
		return fmt.Errorf("experiment: netlist %q has no components", n.Name)
	}
	return nil
}

// Build assembles this netlist's components into a classified
// Simulation, ready for Process.
func (n *Netlist) Build(registry *Registry) (*dynamo.Simulation, error) {
	sys := components.NewSystem()
	comps := make([]components.Component, 0, len(n.Components))
	for _, spec := range n.Components {
		c, err := registry.Build(spec)
		if err != nil {
			return nil, err
		}
		c.Analyze(sys)
		comps = append(comps, c)
	}
	equations, unknowns := sys.Finish()

	inputs := make([]symbolic.Expr, len(n.Inputs))
	for i, name := range n.Inputs {
		inputs[i] = symbolic.V(name)
	}

	cv := circuit.ComponentVoltages(comps)

	return dynamo.New(equations, unknowns, inputs, cv, n.SampleRate, n.Oversample, n.Iterations)
}

// OutputExprs resolves the netlist's own declared output names into
// expressions Process can request directly.
func (n *Netlist) OutputExprs() []symbolic.Expr {
	out := make([]symbolic.Expr, len(n.Outputs))
	for i, name := range n.Outputs {
		out[i] = symbolic.V(name)
	}
	return out
}

// ParameterList marshals this netlist's default parameter map into
// dynamo.Parameter bindings, in no particular order — Process sorts
// them itself before building a kernel signature.
func (n *Netlist) ParameterList(overrides map[string]float64) []dynamo.Parameter {
	merged := make(map[string]float64, len(n.Parameters))
	for k, v := range n.Parameters {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	params := make([]dynamo.Parameter, 0, len(merged))
	for name, val := range merged {
		params = append(params, dynamo.Parameter{Expr: symbolic.V(name), Value: val})
	}
	return params
}
