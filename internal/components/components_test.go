package components

import "testing"

func TestResistorContributesCurrentAndEquation(t *testing.T) {
	sys := NewSystem()
	r := &Resistor{Label: "R1", A: "in", B: "0", Param: "R1_ohms"}
	r.Analyze(sys)

	if len(sys.Equations) != 1 {
		t.Fatalf("want 1 equation, got %d", len(sys.Equations))
	}
	if len(sys.Unknowns) != 1 {
		t.Fatalf("want 1 unknown, got %d", len(sys.Unknowns))
	}
	eqs, unknowns := sys.Finish()
	if len(eqs) != 2 { // component law + KCL(in)
		t.Fatalf("want 2 equations after Finish, got %d", len(eqs))
	}
	if len(unknowns) != 2 { // I_R1 + V_in
		t.Fatalf("want 2 unknowns after Finish, got %d", len(unknowns))
	}
}

func TestCapacitorRegistersDerivativeUnknown(t *testing.T) {
	sys := NewSystem()
	c := &Capacitor{Label: "C1", A: "out", B: "0", Param: "C1_farads"}
	c.Analyze(sys)

	foundDeriv := false
	for _, u := range sys.Unknowns {
		if u.String() == "D(V_out, t)" {
			foundDeriv = true
		}
	}
	if !foundDeriv {
		t.Fatalf("expected a D(V_out, t) unknown, got %v", sys.Unknowns)
	}
}

func TestGroundNodeGetsNoKCLRow(t *testing.T) {
	sys := NewSystem()
	r := &Resistor{Label: "R1", A: "in", B: Ground, Param: "R"}
	r.Analyze(sys)
	eqs, _ := sys.Finish()
	// exactly one KCL row (for "in"), plus the resistor's own law.
	if len(eqs) != 2 {
		t.Fatalf("want 2 equations, got %d: %v", len(eqs), eqs)
	}
}
