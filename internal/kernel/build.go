package kernel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/livespice/internal/circuit"
	"github.com/san-kum/livespice/internal/symbolic"
)

// Build compiles strata into a Kernel that can evaluate exactly the
// requested outputs against the given time-varying inputs and named
// parameters. iterations is the Newton correction's fixed loop count.
func Build(strata *circuit.Strata, inputs, outputs []symbolic.Expr, params []string, iterations int) (*Kernel, error) {
	used := markUsed(strata, outputs)
	trivial := filterArrows(strata.Trivial, used)
	differential := filterArrows(strata.Differential, used)
	linear := filterArrows(strata.Linear, used)

	var newtonArrows []symbolic.Arrow
	if len(strata.NewtonUnknowns) > 0 {
		var err error
		newtonArrows, err = symbolic.NSolve(strata.Nonlinear, strata.NewtonUnknowns)
		if err != nil {
			return nil, fmt.Errorf("kernel: deriving Newton step: %w", err)
		}
	}

	names := map[string]bool{}
	collect := func(arrows []symbolic.Arrow) {
		for _, a := range arrows {
			collectVarNames(a.Left, names)
			collectVarNames(a.Right, names)
		}
	}
	collect(trivial)
	collect(differential)
	collect(linear)
	collect(newtonArrows)
	for _, o := range outputs {
		collectVarNames(o, names)
	}
	for _, in := range inputs {
		collectVarNames(in, names)
	}
	for _, p := range params {
		names[p] = true
	}

	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)
	slots := symbolic.SlotMap{}
	for i, n := range sorted {
		slots[n] = i
	}

	compileInto := func(a symbolic.Arrow) (binding, error) {
		node, err := symbolic.Compile(a.Right, slots)
		if err != nil {
			return binding{}, fmt.Errorf("kernel: compiling %s: %w", a, err)
		}
		slot, ok := slots[varName(a.Left)]
		if !ok {
			return binding{}, fmt.Errorf("kernel: no slot reserved for %s", a.Left)
		}
		return binding{slot: slot, node: node}, nil
	}

	k := &Kernel{Slots: slots, Iterations: iterations, FrameSize: len(sorted)}
	for _, a := range trivial {
		b, err := compileInto(a)
		if err != nil {
			return nil, err
		}
		k.trivial = append(k.trivial, b)
	}
	for _, a := range differential {
		b, err := compileInto(a)
		if err != nil {
			return nil, err
		}
		k.differential = append(k.differential, b)
	}
	for _, a := range newtonArrows {
		b, err := compileInto(a)
		if err != nil {
			return nil, err
		}
		k.newton = append(k.newton, b)
	}
	k.newtonScratch = make([]float64, len(k.newton))
	for _, a := range linear {
		b, err := compileInto(a)
		if err != nil {
			return nil, err
		}
		k.linear = append(k.linear, b)
	}
	for _, o := range outputs {
		node, err := symbolic.Compile(o, slots)
		if err != nil {
			return nil, fmt.Errorf("kernel: compiling output %s: %w", o, err)
		}
		k.outputs = append(k.outputs, node)
	}

	const prevPrefix = "_prev_"
	for _, n := range sorted {
		if !strings.HasPrefix(n, prevPrefix) {
			continue
		}
		base := strings.TrimPrefix(n, prevPrefix)
		if baseSlot, ok := slots[base]; ok {
			k.prevPairs = append(k.prevPairs, prevPair{from: baseSlot, to: slots[n]})
		}
	}
	if tSlot, ok := slots[symbolic.T.String()]; ok {
		if t0Slot, ok := slots[circuit.T0.String()]; ok {
			k.prevPairs = append(k.prevPairs, prevPair{from: tSlot, to: t0Slot})
		}
	}

	return k, nil
}

func varName(e symbolic.Expr) string {
	if v, ok := e.(symbolic.Var); ok {
		return v.Name
	}
	return e.String()
}
