package experiment

import "testing"

func TestRegistryBuildsKnownTypes(t *testing.T) {
	r := NewRegistry()
	specs := []ComponentSpec{
		{Type: "resistor", Label: "R1", A: "a", B: "b", Param: "R"},
		{Type: "capacitor", Label: "C1", A: "a", B: "b", Param: "C"},
		{Type: "inductor", Label: "L1", A: "a", B: "b", Param: "L"},
		{Type: "diode", Label: "D1", A: "a", B: "b", IsParam: "Is", VtParam: "Vt"},
		{Type: "opamp", Label: "U1", Plus: "p", Minus: "m", Out: "o"},
		{Type: "voltage_source", Label: "V1", A: "a", B: "b", Input: "in"},
		{Type: "current_source", Label: "I1", A: "a", B: "b", Const: floatPtr(1.0)},
	}
	for _, s := range specs {
		c, err := r.Build(s)
		if err != nil {
			t.Fatalf("Build(%s): %v", s.Type, err)
		}
		if c.Name() != s.Label {
			t.Errorf("Build(%s).Name() = %s, want %s", s.Type, c.Name(), s.Label)
		}
	}
}

func TestRegistryRejectsUnknownType(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Build(ComponentSpec{Type: "transistor"}); err == nil {
		t.Fatal("expected an error for an unregistered component type")
	}
}

func TestNetlistBuildClassifiesRCLowPass(t *testing.T) {
	n := &Netlist{
		Name:       "rc_lowpass",
		SampleRate: 48000,
		Oversample: 1,
		Components: []ComponentSpec{
			{Type: "voltage_source", Label: "Vin", A: "in", B: "0", Input: "in"},
			{Type: "resistor", Label: "R1", A: "in", B: "mid", Param: "R1_ohms"},
			{Type: "capacitor", Label: "C1", A: "mid", B: "0", Param: "C1_farads"},
		},
		Inputs:     []string{"in"},
		Outputs:    []string{"V_mid"},
		Parameters: map[string]float64{"R1_ohms": 1000, "C1_farads": 1e-6},
	}

	sim, err := n.Build(NewRegistry())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if sim == nil {
		t.Fatal("expected a non-nil Simulation")
	}
}

func floatPtr(v float64) *float64 { return &v }
