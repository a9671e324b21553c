package metrics

import (
	"math"
	"testing"
)

func TestStabilityAllBounded(t *testing.T) {
	s := NewStability(1.0)
	r := s.Observe([]float64{0.1, -0.5, 0.9, -0.2})
	if r.Stable != 1.0 {
		t.Errorf("Stable = %v, want 1.0", r.Stable)
	}
	if r.NonFinite {
		t.Error("NonFinite = true, want false")
	}
	if r.Peak != 0.9 {
		t.Errorf("Peak = %v, want 0.9", r.Peak)
	}
}

func TestStabilityDetectsViolationsAndNonFinite(t *testing.T) {
	s := NewStability(1.0)
	r := s.Observe([]float64{0.1, 2.0, math.NaN(), 3.0})
	if r.Stable != 0.5 {
		t.Errorf("Stable = %v, want 0.5", r.Stable)
	}
	if !r.NonFinite {
		t.Error("NonFinite = false, want true")
	}
}
