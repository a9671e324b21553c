// Package kernel compiles a classified Strata into a flat, allocation
// free per-sample evaluator: every arrow becomes a symbolic.Node
// addressed against a shared frame of float64 slots, dead bindings
// nothing downstream reads are pruned before compilation, and the
// Newton correction is compiled once from the residual system and
// re-evaluated in place for a fixed iteration count.
package kernel

import "github.com/san-kum/livespice/internal/symbolic"

type binding struct {
	slot int
	node symbolic.Node
}

// prevPair copies a resolved value into its previous-sample shadow
// cell once a tick fully commits.
type prevPair struct{ from, to int }

// Kernel is one compiled evaluator for a fixed (netlist, inputs,
// outputs) shape; parameter values live in ordinary frame slots, so a
// single Kernel serves every parameter value a sweep or a live knob
// ever assigns — only the netlist topology and the requested input
// and output set force a rebuild.
type Kernel struct {
	Slots symbolic.SlotMap

	trivial      []binding
	differential []binding
	newton       []binding
	linear       []binding
	outputs      []symbolic.Node
	prevPairs    []prevPair

	newtonScratch []float64
	Iterations    int
	FrameSize     int
}

// NewFrame allocates a zeroed evaluation frame sized for this kernel.
func (k *Kernel) NewFrame() []float64 { return make([]float64, k.FrameSize) }

// Slot resolves a variable's frame index; ok is false if the kernel's
// dead-code pass pruned every reference to it (its value can never be
// observed, so no slot exists).
func (k *Kernel) Slot(name string) (int, bool) { s, ok := k.Slots[name]; return s, ok }

// Step advances the frame by one internal (oversampled) tick: trivial
// bindings first, then the fixed-iteration-count Newton correction
// (whose compiled residual may reference a trivial result directly),
// then the differential and linear closure bindings together — solved
// as one combined system at classify time, so neither ever forward
// references the other, but either may reference a just-converged
// Newton unknown. Step never commits the previous-sample shadow cells
// itself — call Commit once the caller is done reading this tick's
// outputs, so a caller peeking at intermediate values mid-tick never
// observes a commit that hasn't happened yet.
func (k *Kernel) Step(frame []float64) {
	for _, b := range k.trivial {
		frame[b.slot] = b.node.Eval(frame)
	}
	for iter := 0; iter < k.Iterations; iter++ {
		for i, b := range k.newton {
			k.newtonScratch[i] = b.node.Eval(frame)
		}
		for i, b := range k.newton {
			frame[b.slot] = k.newtonScratch[i]
		}
	}
	for _, b := range k.differential {
		frame[b.slot] = b.node.Eval(frame)
	}
	for _, b := range k.linear {
		frame[b.slot] = b.node.Eval(frame)
	}
}

// Commit copies every resolved quantity into its previous-sample
// shadow cell, making this tick's values available as "old" state to
// the next call to Step.
func (k *Kernel) Commit(frame []float64) {
	for _, p := range k.prevPairs {
		frame[p.to] = frame[p.from]
	}
}

// Output evaluates the i-th requested output expression against frame.
func (k *Kernel) Output(i int, frame []float64) float64 { return k.outputs[i].Eval(frame) }
