package config

// Presets ships the netlists a caller most often reaches for, matching
// spec.md §8's literal test scenarios, the way the teacher shipped a
// model/init-state preset table per physical system. Preset is a name;
// the actual netlist file lives in the repository's top-level netlists
// directory and is loaded by path (see AsConfig).
type Preset struct {
	Netlist    string
	SampleRate float64
	Oversample int
	Iterations int
	Parameters map[string]float64
}

var Presets = map[string]*Preset{
	"wire": {
		Netlist:    "wire.yaml",
		SampleRate: 48000,
		Oversample: 1,
		Iterations: 0,
	},
	"rc_lowpass": {
		Netlist:    "rc_lowpass.yaml",
		SampleRate: 48000,
		Oversample: 1,
		Iterations: 0,
		Parameters: map[string]float64{"R1_ohms": 1000, "C1_farads": 1e-6},
	},
	"voltage_follower": {
		Netlist:    "voltage_follower.yaml",
		SampleRate: 48000,
		Oversample: 1,
		Iterations: 0,
	},
	"half_wave_rectifier": {
		Netlist:    "half_wave_rectifier.yaml",
		SampleRate: 48000,
		Oversample: 1,
		Iterations: 25,
		Parameters: map[string]float64{"Is": 1e-12, "Vt": 0.02585, "Rload_ohms": 1000},
	},
	"sine_source": {
		Netlist:    "sine_source.yaml",
		SampleRate: 48000,
		Oversample: 1,
		Iterations: 0,
	},
}

func GetPreset(name string) *Preset {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

// AsConfig turns a named preset into a run Config with its netlist
// path resolved relative to dir (the caller's netlist directory).
func (p *Preset) AsConfig(dir string) *Config {
	params := make(map[string]float64, len(p.Parameters))
	for k, v := range p.Parameters {
		params[k] = v
	}
	return &Config{
		Netlist:    dir + "/" + p.Netlist,
		SampleRate: p.SampleRate,
		Oversample: p.Oversample,
		Iterations: p.Iterations,
		Parameters: params,
	}
}
