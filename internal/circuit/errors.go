package circuit

import "fmt"

// ConfigurationError reports a netlist whose symbolic system the
// classifier cannot reduce to a solvable form: an unknown with no
// governing equation, a genuinely underdetermined or overdetermined
// system, or a non-linear residual with a mismatched unknown count.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("circuit: unsolvable configuration: %s", e.Reason)
}

func newConfigurationError(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}
