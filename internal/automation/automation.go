// Package automation runs a scripted batch of netlist + input-buffer
// pairs without a human driving each one by hand, adapted from the
// teacher's Scenario/RunScenario batch runner.
package automation

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/livespice/internal/experiment"
	"github.com/san-kum/livespice/internal/metrics"
	"github.com/san-kum/livespice/internal/symbolic"
	"gopkg.in/yaml.v3"
)

// Scenario is one scripted run: a netlist file, how many samples to
// generate, an optional sine test input, and any parameter overrides.
type Scenario struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Netlist     string             `yaml:"netlist"`
	Samples     int                `yaml:"samples"`
	InputHz     float64            `yaml:"input_hz"`
	InputAmp    float64            `yaml:"input_amp"`
	Parameters  map[string]float64 `yaml:"parameters"`
}

// Batch is a named sequence of scenarios, loaded from one YAML file.
type Batch struct {
	Name      string     `yaml:"name"`
	Scenarios []Scenario `yaml:"scenarios"`
}

func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var b Batch
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Result holds one scenario's output buffers plus how long Process
// took to produce them.
type Result struct {
	Scenario string
	Outputs  map[string][]float64
	Elapsed  time.Duration
}

// RunScenario loads dir/scenario.Netlist, builds a test input (a sine
// wave when InputHz is set, silence otherwise) for the netlist's
// declared input(s), and drives Process for Samples ticks.
func RunScenario(dir string, scenario Scenario, registry *experiment.Registry) (*Result, error) {
	netlist, err := experiment.LoadNetlist(dir + "/" + scenario.Netlist)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	sim, err := netlist.Build(registry)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	n := scenario.Samples
	if n == 0 {
		n = int(netlist.SampleRate)
	}

	inputBufs := make(map[symbolic.Expr][]float64, len(netlist.Inputs))
	for _, name := range netlist.Inputs {
		buf := make([]float64, n)
		if scenario.InputHz > 0 {
			amp := scenario.InputAmp
			if amp == 0 {
				amp = 1.0
			}
			for i := range buf {
				buf[i] = amp * math.Sin(2*math.Pi*scenario.InputHz*float64(i+1)/netlist.SampleRate)
			}
		}
		inputBufs[symbolic.V(name)] = buf
	}

	outputExprs := netlist.OutputExprs()
	outputBufs := make(map[symbolic.Expr][]float64, len(outputExprs))
	named := make(map[string][]float64, len(outputExprs))
	for i, name := range netlist.Outputs {
		buf := make([]float64, n)
		outputBufs[outputExprs[i]] = buf
		named[name] = buf
	}

	start := time.Now()
	err = sim.Process(n, inputBufs, outputBufs, netlist.ParameterList(scenario.Parameters))
	elapsed := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	return &Result{Scenario: scenario.Name, Outputs: named, Elapsed: elapsed}, nil
}

// RunBatch runs every scenario in order, logging progress the way the
// teacher's RunScenario logged each step.
func RunBatch(dir string, batch *Batch, registry *experiment.Registry) ([]*Result, error) {
	results := make([]*Result, 0, len(batch.Scenarios))
	for i, scenario := range batch.Scenarios {
		fmt.Printf("running scenario %d/%d: %s\n", i+1, len(batch.Scenarios), scenario.Name)
		result, err := RunScenario(dir, scenario, registry)
		if err != nil {
			return results, fmt.Errorf("scenario %d: %w", i+1, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// ToleranceConfig describes a component-tolerance Monte Carlo run: each
// trial draws every named parameter independently from
// value*(1 +/- Tolerance) and re-runs the netlist, adapted from the
// teacher's MonteCarloConfig (which perturbed an ODE's initial state
// instead of a circuit's component values — see DESIGN.md).
type ToleranceConfig struct {
	Netlist    string
	Samples    int
	InputHz    float64
	InputAmp   float64
	Tolerance  float64 // fractional, e.g. 0.05 for 5% component tolerance
	NumTrials  int
	Seed       int64
	OutputName string // which netlist output to judge stability on
}

// ToleranceTrial is one Monte Carlo draw's perturbed parameters and
// stability verdict.
type ToleranceTrial struct {
	TrialID    int
	Parameters map[string]float64
	Report     metrics.Report
}

// RunToleranceAnalysis draws cfg.NumTrials independent parameter sets
// around the netlist's nominal values and reports how many stay within
// a stability threshold, the way a production tolerance sweep checks
// whether component variation ever drives a circuit into an unbounded
// or non-finite regime.
func RunToleranceAnalysis(dir string, cfg ToleranceConfig, registry *experiment.Registry) ([]ToleranceTrial, error) {
	netlist, err := experiment.LoadNetlist(dir + "/" + cfg.Netlist)
	if err != nil {
		return nil, fmt.Errorf("tolerance analysis: %w", err)
	}
	if len(netlist.Outputs) == 0 {
		return nil, fmt.Errorf("tolerance analysis: netlist %s has no outputs", cfg.Netlist)
	}
	outputName := cfg.OutputName
	if outputName == "" {
		outputName = netlist.Outputs[0]
	}
	outputExpr := symbolic.V(outputName)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	n := cfg.Samples
	if n == 0 {
		n = int(netlist.SampleRate)
	}
	inputBufs := make(map[symbolic.Expr][]float64, len(netlist.Inputs))
	for _, name := range netlist.Inputs {
		buf := make([]float64, n)
		if cfg.InputHz > 0 {
			amp := cfg.InputAmp
			if amp == 0 {
				amp = 1.0
			}
			for i := range buf {
				buf[i] = amp * math.Sin(2*math.Pi*cfg.InputHz*float64(i+1)/netlist.SampleRate)
			}
		}
		inputBufs[symbolic.V(name)] = buf
	}

	stability := metrics.NewStability(1e6)
	trials := make([]ToleranceTrial, 0, cfg.NumTrials)

	for trial := 0; trial < cfg.NumTrials; trial++ {
		perturbed := make(map[string]float64, len(netlist.Parameters))
		for name, nominal := range netlist.Parameters {
			perturbed[name] = nominal * (1 + (rng.Float64()*2-1)*cfg.Tolerance)
		}

		sim, err := netlist.Build(registry)
		if err != nil {
			return nil, fmt.Errorf("tolerance trial %d: %w", trial, err)
		}

		outBuf := make([]float64, n)
		err = sim.Process(n, inputBufs, map[symbolic.Expr][]float64{outputExpr: outBuf}, netlist.ParameterList(perturbed))
		if err != nil {
			return nil, fmt.Errorf("tolerance trial %d: %w", trial, err)
		}

		trials = append(trials, ToleranceTrial{
			TrialID:    trial,
			Parameters: perturbed,
			Report:     stability.Observe(outBuf),
		})

		if (trial+1)%10 == 0 {
			fmt.Printf("tolerance analysis: %d/%d trials complete\n", trial+1, cfg.NumTrials)
		}
	}

	return trials, nil
}

// ToleranceStats summarizes how many trials stayed finite and within
// the stability threshold across their whole buffer.
func ToleranceStats(trials []ToleranceTrial) (stableCount, unstableCount int) {
	for _, t := range trials {
		if !t.Report.NonFinite && t.Report.Stable == 1.0 {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
