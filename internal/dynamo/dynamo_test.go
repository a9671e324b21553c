package dynamo_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/livespice/internal/components"
	"github.com/san-kum/livespice/internal/dynamo"
	"github.com/san-kum/livespice/internal/symbolic"
)

// buildSystem is a small helper so each scenario reads as a netlist,
// not Go plumbing.
func buildSystem(analyze func(sys *components.System)) ([]symbolic.Equation, []symbolic.Expr) {
	sys := components.NewSystem()
	analyze(sys)
	return sys.Finish()
}

var _ = Describe("Simulation.Process", func() {
	// Scenario 1 (spec.md §8.1): wire passthrough.
	It("passes an input straight through a wire with no filtering", func() {
		in := symbolic.V("in")
		eqs, unknowns := buildSystem(func(sys *components.System) {
			(&components.VoltageSource{Label: "Vin", A: "out", B: components.Ground, Value: in}).Analyze(sys)
		})

		sim, err := dynamo.New(eqs, unknowns, []symbolic.Expr{in}, nil, 48000, 1, 0)
		Expect(err).NotTo(HaveOccurred())

		inBuf := []float64{1.0, -1.0, 0.5}
		outBuf := make([]float64, 3)
		err = sim.Process(3, map[symbolic.Expr][]float64{in: inBuf},
			map[symbolic.Expr][]float64{symbolic.V("V_out"): outBuf}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(outBuf).To(Equal(inBuf))
	})

	// Scenario 2 (spec.md §8.2): RC low-pass step response.
	It("matches the analytic trapezoidal step response of an RC low-pass", func() {
		in := symbolic.V("in")
		eqs, unknowns := buildSystem(func(sys *components.System) {
			(&components.VoltageSource{Label: "Vin", A: "in", B: components.Ground, Value: in}).Analyze(sys)
			(&components.Resistor{Label: "R1", A: "in", B: "mid", Param: "R1_ohms"}).Analyze(sys)
			(&components.Capacitor{Label: "C1", A: "mid", B: components.Ground, Param: "C1_farads"}).Analyze(sys)
		})

		sim, err := dynamo.New(eqs, unknowns, []symbolic.Expr{in}, nil, 48000, 1, 0)
		Expect(err).NotTo(HaveOccurred())

		const n = 1000
		inBuf := make([]float64, n)
		for i := range inBuf {
			inBuf[i] = 1.0
		}
		outBuf := make([]float64, n)
		params := []dynamo.Parameter{
			{Expr: symbolic.V("R1_ohms"), Value: 1000},
			{Expr: symbolic.V("C1_farads"), Value: 1e-6},
		}
		err = sim.Process(n, map[symbolic.Expr][]float64{in: inBuf},
			map[symbolic.Expr][]float64{symbolic.V("V_mid"): outBuf}, params)
		Expect(err).NotTo(HaveOccurred())

		rc := 1000.0 * 1e-6
		want := 1.0 - math.Exp(-float64(n)/(48000.0*rc))
		Expect(outBuf[n-1]).To(BeNumerically("~", want, 1e-3))
	})

	// Scenario 3 (spec.md §8.3): ideal voltage source, open circuit.
	It("reproduces an internally-driven sine source exactly between trivial and Sin", func() {
		value := symbolic.Sin(symbolic.MulOf(symbolic.N(2*math.Pi*1000), symbolic.T))
		eqs, unknowns := buildSystem(func(sys *components.System) {
			(&components.VoltageSource{Label: "Vin", A: "out", B: components.Ground, Value: value}).Analyze(sys)
		})

		sim, err := dynamo.New(eqs, unknowns, nil, nil, 48000, 1, 0)
		Expect(err).NotTo(HaveOccurred())

		const n = 48
		outBuf := make([]float64, n)
		err = sim.Process(n, nil, map[symbolic.Expr][]float64{symbolic.V("V_out"): outBuf}, nil)
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < n; i++ {
			want := math.Sin(2 * math.Pi * 1000 * float64(i+1) / 48000)
			Expect(outBuf[i]).To(BeNumerically("~", want, 1e-12))
		}
	})

	// Scenario 4 (spec.md §8.4): ideal op-amp voltage follower.
	It("buffers an input ramp through an ideal op-amp follower", func() {
		in := symbolic.V("in")
		eqs, unknowns := buildSystem(func(sys *components.System) {
			(&components.VoltageSource{Label: "Vin", A: "in", B: components.Ground, Value: in}).Analyze(sys)
			(&components.OpAmp{Label: "U1", Plus: "in", Minus: "out", Out: "out"}).Analyze(sys)
		})

		sim, err := dynamo.New(eqs, unknowns, []symbolic.Expr{in}, nil, 48000, 1, 0)
		Expect(err).NotTo(HaveOccurred())

		inBuf := []float64{0.0, 0.25, 0.5, 0.75, 1.0}
		outBuf := make([]float64, len(inBuf))
		err = sim.Process(len(inBuf), map[symbolic.Expr][]float64{in: inBuf},
			map[symbolic.Expr][]float64{symbolic.V("V_out"): outBuf}, nil)
		Expect(err).NotTo(HaveOccurred())

		for i := range inBuf {
			Expect(outBuf[i]).To(BeNumerically("~", inBuf[i], 1e-12))
		}
	})

	// Scenario 5 & 6 (spec.md §8.5, §8.6): diode half-wave rectifier and
	// determinism after Reset.
	Context("half-wave rectifier", func() {
		buildRectifier := func() (*dynamo.Simulation, symbolic.Expr, []float64, []dynamo.Parameter) {
			in := symbolic.V("in")
			eqs, unknowns := buildSystem(func(sys *components.System) {
				(&components.VoltageSource{Label: "Vin", A: "in", B: components.Ground, Value: in}).Analyze(sys)
				(&components.Diode{Label: "D1", A: "in", B: "out", IsParam: "Is", VtParam: "Vt"}).Analyze(sys)
				(&components.Resistor{Label: "Rload", A: "out", B: components.Ground, Param: "Rload_ohms"}).Analyze(sys)
			})
			sim, err := dynamo.New(eqs, unknowns, []symbolic.Expr{in}, nil, 48000, 1, 25)
			Expect(err).NotTo(HaveOccurred())

			const n = 480
			inBuf := make([]float64, n)
			for i := range inBuf {
				inBuf[i] = math.Sin(2 * math.Pi * 1000 * float64(i+1) / 48000)
			}
			params := []dynamo.Parameter{
				{Expr: symbolic.V("Is"), Value: 1e-12},
				{Expr: symbolic.V("Vt"), Value: 0.02585},
				{Expr: symbolic.V("Rload_ohms"), Value: 1000},
			}
			return sim, in, inBuf, params
		}

		It("clips negative half-cycles and drops ~0.7V on the positive half", func() {
			sim, in, inBuf, params := buildRectifier()

			outBuf := make([]float64, len(inBuf))
			err := sim.Process(len(inBuf), map[symbolic.Expr][]float64{in: inBuf},
				map[symbolic.Expr][]float64{symbolic.V("V_out"): outBuf}, params)
			Expect(err).NotTo(HaveOccurred())

			for i, vout := range outBuf {
				if inBuf[i] < 0 {
					Expect(math.Abs(vout)).To(BeNumerically("<=", 1e-6))
				} else {
					Expect(math.Abs(inBuf[i]-vout)).To(BeNumerically("<", 0.7))
				}
			}
		})

		It("produces bit-identical output after Reset and re-run", func() {
			sim, in, inBuf, params := buildRectifier()

			first := make([]float64, len(inBuf))
			Expect(sim.Process(len(inBuf), map[symbolic.Expr][]float64{in: inBuf},
				map[symbolic.Expr][]float64{symbolic.V("V_out"): first}, params)).To(Succeed())

			sim.Reset()

			second := make([]float64, len(inBuf))
			Expect(sim.Process(len(inBuf), map[symbolic.Expr][]float64{in: inBuf},
				map[symbolic.Expr][]float64{symbolic.V("V_out"): second}, params)).To(Succeed())

			Expect(second).To(Equal(first))
		})
	})

	// Round-trip / idempotence (spec.md §8): splitting a Process call in
	// half must not change the concatenated output.
	It("produces identical output whether N samples are processed whole or split in half", func() {
		in := symbolic.V("in")
		eqs, unknowns := buildSystem(func(sys *components.System) {
			(&components.VoltageSource{Label: "Vin", A: "in", B: components.Ground, Value: in}).Analyze(sys)
			(&components.Resistor{Label: "R1", A: "in", B: "mid", Param: "R1_ohms"}).Analyze(sys)
			(&components.Capacitor{Label: "C1", A: "mid", B: components.Ground, Param: "C1_farads"}).Analyze(sys)
		})
		params := []dynamo.Parameter{
			{Expr: symbolic.V("R1_ohms"), Value: 1000},
			{Expr: symbolic.V("C1_farads"), Value: 1e-6},
		}
		const n = 200
		inBuf := make([]float64, n)
		for i := range inBuf {
			inBuf[i] = math.Sin(2 * math.Pi * 1000 * float64(i+1) / 48000)
		}

		whole, err := dynamo.New(eqs, unknowns, []symbolic.Expr{in}, nil, 48000, 1, 0)
		Expect(err).NotTo(HaveOccurred())
		wholeOut := make([]float64, n)
		Expect(whole.Process(n, map[symbolic.Expr][]float64{in: inBuf},
			map[symbolic.Expr][]float64{symbolic.V("V_mid"): wholeOut}, params)).To(Succeed())

		split, err := dynamo.New(eqs, unknowns, []symbolic.Expr{in}, nil, 48000, 1, 0)
		Expect(err).NotTo(HaveOccurred())
		splitOut := make([]float64, n)
		half := n / 2
		Expect(split.Process(half, map[symbolic.Expr][]float64{in: inBuf[:half]},
			map[symbolic.Expr][]float64{symbolic.V("V_mid"): splitOut[:half]}, params)).To(Succeed())
		Expect(split.Process(n-half, map[symbolic.Expr][]float64{in: inBuf[half:]},
			map[symbolic.Expr][]float64{symbolic.V("V_mid"): splitOut[half:]}, params)).To(Succeed())

		Expect(splitOut).To(Equal(wholeOut))
	})

	It("rejects an output buffer whose length doesn't match N", func() {
		in := symbolic.V("in")
		eqs, unknowns := buildSystem(func(sys *components.System) {
			(&components.VoltageSource{Label: "Vin", A: "out", B: components.Ground, Value: in}).Analyze(sys)
		})
		sim, err := dynamo.New(eqs, unknowns, []symbolic.Expr{in}, nil, 48000, 1, 0)
		Expect(err).NotTo(HaveOccurred())

		err = sim.Process(3, map[symbolic.Expr][]float64{in: {1, 2, 3}},
			map[symbolic.Expr][]float64{symbolic.V("V_out"): make([]float64, 2)}, nil)
		Expect(err).To(MatchError(dynamo.ErrLengthMismatch))
	})

	It("rejects a requested output the classifier never resolved", func() {
		in := symbolic.V("in")
		eqs, unknowns := buildSystem(func(sys *components.System) {
			(&components.VoltageSource{Label: "Vin", A: "out", B: components.Ground, Value: in}).Analyze(sys)
		})
		sim, err := dynamo.New(eqs, unknowns, []symbolic.Expr{in}, nil, 48000, 1, 0)
		Expect(err).NotTo(HaveOccurred())

		err = sim.Process(3, map[symbolic.Expr][]float64{in: {1, 2, 3}},
			map[symbolic.Expr][]float64{symbolic.V("V_nowhere"): make([]float64, 3)}, nil)
		Expect(err).To(MatchError(dynamo.ErrUnknownOutput))
	})
})
