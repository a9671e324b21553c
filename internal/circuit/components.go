package circuit

import (
	"github.com/san-kum/livespice/internal/components"
	"github.com/san-kum/livespice/internal/symbolic"
)

// ComponentVoltages builds one arrow per two-terminal component,
// naming its own terminal voltage V_<label> (spec.md §3's "components"
// field) so a caller may request any component's voltage as a kernel
// output without re-deriving the underlying V(a)-V(b) expression.
// Components that aren't two-terminal (the op-amp) contribute nothing
// here; they still expose their output node's voltage as an ordinary
// unknown.
func ComponentVoltages(comps []components.Component) []symbolic.Arrow {
	var out []symbolic.Arrow
	for _, c := range comps {
		tt, ok := c.(components.TwoTerminal)
		if !ok {
			continue
		}
		out = append(out, symbolic.Arrow{Left: symbolic.V("V_" + c.Name()), Right: tt.Voltage()})
	}
	return out
}
