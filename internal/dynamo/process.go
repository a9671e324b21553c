package dynamo

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/livespice/internal/kernel"
	"github.com/san-kum/livespice/internal/symbolic"
)

// Process drives the kernel for N samples: inputs maps a time-varying
// signal expression to its dense length-N buffer, outputs maps a
// requested expression (a bare unknown, a component voltage name, or
// an arbitrary expression over either) to the buffer it should be
// written into, and parameters binds every named circuit constant the
// kernel references. Process looks up or builds the kernel for this
// signature, marshals parameters in kernel-slot order, runs
// oversample inner ticks per output sample with linear interpolation
// of every input and boxcar-averaging of every output, and advances
// Time() by N/sampleRate.
func (s *Simulation) Process(N int, inputs map[symbolic.Expr][]float64, outputs map[symbolic.Expr][]float64, parameters []Parameter) error {
	for e, buf := range inputs {
		if len(buf) != N {
			return fmt.Errorf("%w: input %s has length %d, want %d", ErrLengthMismatch, e, len(buf), N)
		}
	}
	for e, buf := range outputs {
		if len(buf) != N {
			return fmt.Errorf("%w: output %s has length %d, want %d", ErrLengthMismatch, e, len(buf), N)
		}
	}

	resolvedOutputs := make(map[string]symbolic.Expr, len(outputs)) // key string -> resolved expr
	outputBufs := make(map[string][]float64, len(outputs))
	for e, buf := range outputs {
		resolved := s.resolveOutput(e)
		if !s.outputResolvable(resolved) {
			return fmt.Errorf("%w: %s", ErrUnknownOutput, e)
		}
		key := e.String()
		resolvedOutputs[key] = resolved
		outputBufs[key] = buf
	}

	inputExprs := make([]symbolic.Expr, 0, len(inputs))
	for e := range inputs {
		inputExprs = append(inputExprs, e)
	}
	sort.Slice(inputExprs, func(i, j int) bool { return inputExprs[i].String() < inputExprs[j].String() })

	outputKeys := make([]string, 0, len(resolvedOutputs))
	for k := range resolvedOutputs {
		outputKeys = append(outputKeys, k)
	}
	sort.Strings(outputKeys)
	outputExprs := make([]symbolic.Expr, len(outputKeys))
	for i, k := range outputKeys {
		outputExprs[i] = resolvedOutputs[k]
	}

	paramNames := make([]string, len(parameters))
	for i, p := range parameters {
		paramNames[i] = varName(p.Expr)
	}
	sortedParams := append([]string(nil), paramNames...)
	sort.Strings(sortedParams)

	signature := s.signature(inputExprs, outputExprs, sortedParams)

	k, err := s.cache.GetOrBuild(signature, func() (*kernel.Kernel, error) {
		return kernel.Build(s.strata, inputExprs, outputExprs, sortedParams, s.Iterations)
	})
	if err != nil {
		return &BuildFailure{Signature: signature, Wrapped: err}
	}

	frame := k.NewFrame()
	for name, slot := range k.Slots {
		if v, ok := s.globals[name]; ok {
			frame[slot] = v
		}
	}
	for _, p := range parameters {
		if slot, ok := k.Slot(varName(p.Expr)); ok {
			frame[slot] = p.Value
		}
	}

	h := 1.0 / (s.sampleRate * float64(s.oversample))
	hSlot, hUsed := k.Slot("h")
	tSlot, tUsed := k.Slot(symbolic.T.String())

	inputSlots := make([]int, len(inputExprs))
	inputUsed := make([]bool, len(inputExprs))
	for i, e := range inputExprs {
		inputSlots[i], inputUsed[i] = k.Slot(varName(e))
	}

	t0 := s.globals[symbolic.T.String()]
	va := make([]float64, len(inputExprs))
	vb := make([]float64, len(inputExprs))
	dv := make([]float64, len(inputExprs))
	acc := make([]float64, len(outputExprs))

	for n := 0; n < N; n++ {
		for i, e := range inputExprs {
			if !inputUsed[i] {
				continue
			}
			va[i] = frame[inputSlots[i]]
			vb[i] = inputs[e][n]
			dv[i] = (vb[i] - va[i]) / float64(s.oversample)
		}

		for i := range acc {
			acc[i] = 0
		}

		for ov := 1; ov <= s.oversample; ov++ {
			if hUsed {
				frame[hSlot] = h
			}
			if tUsed {
				frame[tSlot] += h
			}
			for i := range inputExprs {
				if !inputUsed[i] {
					continue
				}
				if ov == s.oversample {
					frame[inputSlots[i]] = vb[i]
				} else {
					frame[inputSlots[i]] = va[i] + dv[i]*float64(ov)
				}
			}

			k.Step(frame)

			for i := range outputExprs {
				acc[i] += k.Output(i, frame)
			}

			k.Commit(frame)
		}

		invOversample := 1.0 / float64(s.oversample)
		for i, key := range outputKeys {
			outputBufs[key][n] = acc[i] * invOversample
		}
	}

	for name, slot := range k.Slots {
		s.globals[name] = frame[slot]
	}
	if !tUsed {
		s.globals[symbolic.T.String()] = t0 + float64(N*s.oversample)*h
	}

	if s.DivergenceCheck {
		if diverged, at := tailDiverged(outputBufs, outputKeys); diverged {
			s.Reset()
			return &SimulationError{Step: at, Time: s.Time(), Wrapped: ErrDiverged}
		}
	}

	return nil
}

// resolveOutput substitutes a bare component-voltage name (e.g.
// V("V_D1")) with its registered underlying terminal-voltage
// expression; any other expression, including a bare circuit unknown,
// passes through unchanged.
func (s *Simulation) resolveOutput(e symbolic.Expr) symbolic.Expr {
	if v, ok := e.(symbolic.Var); ok {
		if expr, ok := s.componentVoltages[v.Name]; ok {
			return expr
		}
	}
	return e
}

// outputResolvable reports whether every free variable in e is
// something the classifier, the component-voltage registry, or the
// netlist's own input list actually produces a value for.
func (s *Simulation) outputResolvable(e symbolic.Expr) bool {
	known := map[string]bool{symbolic.T.String(): true}
	for _, set := range [][]symbolic.Arrow{s.strata.Trivial, s.strata.Differential, s.strata.Linear, s.strata.F0} {
		for _, a := range set {
			known[varName(a.Left)] = true
		}
	}
	for _, u := range s.strata.NewtonUnknowns {
		known[varName(u)] = true
	}
	for _, in := range s.inputs {
		known[varName(in)] = true
	}

	used := map[string]bool{}
	collectFreeVars(e, used)
	for name := range used {
		if !known[name] {
			return false
		}
	}
	return true
}

func collectFreeVars(e symbolic.Expr, out map[string]bool) {
	switch t := e.(type) {
	case symbolic.Var:
		out[t.Name] = true
	case symbolic.Add:
		for _, term := range t.Terms {
			collectFreeVars(term, out)
		}
	case symbolic.Mul:
		for _, f := range t.Factors {
			collectFreeVars(f, out)
		}
	case symbolic.Pow:
		collectFreeVars(t.Base, out)
		collectFreeVars(t.Exp, out)
	case symbolic.Call:
		collectFreeVars(t.Arg, out)
	case symbolic.Deriv:
		collectFreeVars(t.Inner, out)
		collectFreeVars(t.Wrt, out)
	}
}

// signature is the kernel cache key: the ordered hash of the
// (inputs, outputs, parameters) signature, spec.md §4.3.
func (s *Simulation) signature(inputs, outputs []symbolic.Expr, paramNames []string) string {
	var b strings.Builder
	b.WriteString("in:")
	for _, e := range inputs {
		b.WriteString(e.String())
		b.WriteByte(',')
	}
	b.WriteString("|out:")
	for _, e := range outputs {
		b.WriteString(e.String())
		b.WriteByte(',')
	}
	b.WriteString("|params:")
	for _, p := range paramNames {
		b.WriteString(p)
		b.WriteByte(',')
	}
	return b.String()
}

// tailDiverged scans the last sample of every output buffer for a
// non-finite value.
func tailDiverged(bufs map[string][]float64, keys []string) (bool, int) {
	for _, key := range keys {
		buf := bufs[key]
		if len(buf) == 0 {
			continue
		}
		last := buf[len(buf)-1]
		if math.IsNaN(last) || math.IsInf(last, 0) {
			return true, len(buf) - 1
		}
	}
	return false, 0
}
