package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for the runtime driver (spec.md §7).
var (
	// ErrUnknownOutput indicates a requested output expression
	// references a variable the classifier never resolved to any
	// stratum and that isn't a registered component voltage.
	ErrUnknownOutput = errors.New("dynamo: unknown output")

	// ErrLengthMismatch indicates an input or output buffer's length
	// doesn't match the requested sample count N.
	ErrLengthMismatch = errors.New("dynamo: input/output buffer length mismatch")

	// ErrDiverged indicates the optional divergence detector found a
	// non-finite value in an output buffer's tail.
	ErrDiverged = errors.New("dynamo: simulation diverged (NaN or Inf)")
)

// BuildFailure wraps a symbolic compile error surfaced from Process
// when a new (inputs, outputs, parameters) signature fails to compile
// into a kernel. The cache is never populated on this path, so a later
// Process call with corrected inputs may retry.
type BuildFailure struct {
	Signature string
	Wrapped   error
}

func (e *BuildFailure) Error() string {
	return fmt.Sprintf("dynamo: kernel build failed for signature %q: %v", e.Signature, e.Wrapped)
}

func (e *BuildFailure) Unwrap() error { return e.Wrapped }

// SimulationError wraps an error with the sample index and simulation
// time at which it occurred.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("dynamo: sample %d (t=%.6f): %s", e.Step, e.Time, e.Wrapped.Error())
}

func (e *SimulationError) Unwrap() error { return e.Wrapped }
