package kernel

import (
	"math"
	"testing"

	"github.com/san-kum/livespice/internal/circuit"
	"github.com/san-kum/livespice/internal/components"
	"github.com/san-kum/livespice/internal/symbolic"
)

func mustSlot(t *testing.T, k *Kernel, name string) int {
	t.Helper()
	s, ok := k.Slot(name)
	if !ok {
		t.Fatalf("no slot for %q (kernel dead-code-pruned it, or it was never referenced)", name)
	}
	return s
}

func TestRCLowPassOneStepMatchesTrapezoidalClosedForm(t *testing.T) {
	sys := components.NewSystem()
	in := symbolic.V("in")
	(&components.VoltageSource{Label: "Vin", A: "in", B: components.Ground, Value: in}).Analyze(sys)
	(&components.Resistor{Label: "R1", A: "in", B: "mid", Param: "R1_ohms"}).Analyze(sys)
	(&components.Capacitor{Label: "C1", A: "mid", B: components.Ground, Param: "C1_farads"}).Analyze(sys)
	eqs, unknowns := sys.Finish()

	strata, err := circuit.Classify(eqs, unknowns, []symbolic.Expr{in}, symbolic.V("h"))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	k, err := Build(strata, []symbolic.Expr{in}, []symbolic.Expr{symbolic.V("V_mid")}, []string{"R1_ohms", "C1_farads"}, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	frame := k.NewFrame()
	frame[mustSlot(t, k, "h")] = 1e-4
	frame[mustSlot(t, k, "R1_ohms")] = 1000
	frame[mustSlot(t, k, "C1_farads")] = 1e-6
	frame[mustSlot(t, k, "in")] = 1.0
	// initial state: V_mid and I_C1 both start at zero, as does their
	// previous-sample shadow.

	k.Step(frame)
	got := k.Output(0, frame)
	want := 1.0 / 21.0 // (h/(2RC)) / (1 + h/(2RC)), RC=1e-3, h/2RC=0.05
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("V_mid after one step = %v, want %v", got, want)
	}
}

func TestHalfWaveRectifierNewtonConverges(t *testing.T) {
	sys := components.NewSystem()
	in := symbolic.V("in")
	(&components.VoltageSource{Label: "Vin", A: "in", B: components.Ground, Value: in}).Analyze(sys)
	(&components.Diode{Label: "D1", A: "in", B: "out", IsParam: "Is", VtParam: "Vt"}).Analyze(sys)
	(&components.Resistor{Label: "Rload", A: "out", B: components.Ground, Param: "Rload_ohms"}).Analyze(sys)
	eqs, unknowns := sys.Finish()

	strata, err := circuit.Classify(eqs, unknowns, []symbolic.Expr{in}, symbolic.V("h"))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	k, err := Build(strata, []symbolic.Expr{in}, []symbolic.Expr{symbolic.V("V_out")},
		[]string{"Is", "Vt", "Rload_ohms"}, 25)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	frame := k.NewFrame()
	const is, vt, rload, vin = 1e-12, 0.02585, 1000.0, 0.6
	frame[mustSlot(t, k, "Is")] = is
	frame[mustSlot(t, k, "Vt")] = vt
	frame[mustSlot(t, k, "Rload_ohms")] = rload
	frame[mustSlot(t, k, "in")] = vin

	k.Step(frame)
	vout := k.Output(0, frame)

	residual := vout/rload - is*(math.Exp((vin-vout)/vt)-1)
	if math.Abs(residual) > 1e-6 {
		t.Fatalf("Newton did not converge: V_out=%v residual=%v", vout, residual)
	}
	if vout <= 0 || vout >= vin {
		t.Fatalf("V_out=%v outside the physically sane (0, Vin) range", vout)
	}
}

func TestDeadCodeEliminationDropsUnreferencedUnknowns(t *testing.T) {
	sys := components.NewSystem()
	in := symbolic.V("in")
	(&components.VoltageSource{Label: "Vin", A: "in", B: components.Ground, Value: in}).Analyze(sys)
	(&components.Resistor{Label: "R1", A: "in", B: "mid", Param: "R1_ohms"}).Analyze(sys)
	(&components.Capacitor{Label: "C1", A: "mid", B: components.Ground, Param: "C1_farads"}).Analyze(sys)
	eqs, unknowns := sys.Finish()

	strata, err := circuit.Classify(eqs, unknowns, []symbolic.Expr{in}, symbolic.V("h"))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	// Only V_mid is requested; I_R1 and I_Vin feed nothing the output
	// needs and should never get a slot.
	k, err := Build(strata, []symbolic.Expr{in}, []symbolic.Expr{symbolic.V("V_mid")}, []string{"R1_ohms", "C1_farads"}, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, dead := range []string{"I_R1", "I_Vin"} {
		if _, ok := k.Slot(dead); ok {
			t.Fatalf("expected %s to be pruned as dead code, but it has a slot", dead)
		}
	}
	if _, ok := k.Slot("I_C1"); !ok {
		t.Fatalf("I_C1 feeds V_mid's own differential update and must not be pruned")
	}
}
