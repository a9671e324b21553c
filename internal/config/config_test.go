package config

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.SampleRate <= 0 {
		t.Error("sample rate should be positive")
	}
	if cfg.Oversample <= 0 {
		t.Error("oversample should be positive")
	}
}

func TestStep(t *testing.T) {
	cfg := &Config{SampleRate: 48000, Oversample: 2}
	got := cfg.Step()
	want := 1.0 / 96000.0
	if got != want {
		t.Errorf("Step() = %v, want %v", got, want)
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("rc_lowpass")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	if p.Parameters["R1_ohms"] != 1000 {
		t.Errorf("expected R1_ohms 1000, got %f", p.Parameters["R1_ohms"])
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if p := GetPreset("nonexistent"); p != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(names))
	}
}

func TestAsConfig(t *testing.T) {
	p := GetPreset("wire")
	cfg := p.AsConfig("netlists")
	if cfg.Netlist != "netlists/wire.yaml" {
		t.Errorf("unexpected netlist path: %s", cfg.Netlist)
	}
}
