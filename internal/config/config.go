package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSampleRate = 48000.0
	DefaultOversample = 1
	DefaultIterations = 10
)

// Config holds the run-level parameters for a Simulation that don't
// belong in the netlist itself: the sample rate and oversample factor
// that fix h, the Newton iteration count, and the circuit parameter
// values a netlist's components reference by name (spec.md §3's
// "parameters" — resistances, capacitances, a diode's Is/Vt).
type Config struct {
	Netlist    string             `yaml:"netlist"`
	SampleRate float64            `yaml:"sample_rate"`
	Oversample int                `yaml:"oversample"`
	Iterations int                `yaml:"iterations"`
	Parameters map[string]float64 `yaml:"parameters"`
}

func DefaultConfig() *Config {
	return &Config{
		SampleRate: DefaultSampleRate,
		Oversample: DefaultOversample,
		Iterations: DefaultIterations,
		Parameters: map[string]float64{},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Step returns the per-tick time increment h implied by this config.
func (c *Config) Step() float64 {
	return 1.0 / (c.SampleRate * float64(c.Oversample))
}
