package kernel

import (
	"strings"

	"github.com/san-kum/livespice/internal/circuit"
	"github.com/san-kum/livespice/internal/symbolic"
)

// collectVarNames gathers every Var name referenced anywhere in e.
func collectVarNames(e symbolic.Expr, out map[string]bool) {
	switch t := e.(type) {
	case symbolic.Var:
		out[t.Name] = true
	case symbolic.Add:
		for _, term := range t.Terms {
			collectVarNames(term, out)
		}
	case symbolic.Mul:
		for _, f := range t.Factors {
			collectVarNames(f, out)
		}
	case symbolic.Pow:
		collectVarNames(t.Base, out)
		collectVarNames(t.Exp, out)
	case symbolic.Call:
		collectVarNames(t.Arg, out)
	case symbolic.Deriv:
		collectVarNames(t.Inner, out)
		collectVarNames(t.Wrt, out)
	}
}

// markUsed computes, for a Strata and a requested output set, the
// canonical keys of every unknown the kernel must actually evaluate:
// the outputs themselves, everything the Newton residual references
// directly (it is compiled whole, not per-arrow), and the transitive
// closure of whatever those pull in through trivial, differential,
// linear or F0 bindings, plus the live quantity behind every
// previous-sample shadow cell that set reads (Commit can only keep
// _prev_X current if X itself is evaluated). An arrow whose left side never shows up in
// this set is dead code: nothing reachable from what the caller asked
// for ever reads it, so filterArrows prunes it before compilation.
func markUsed(strata *circuit.Strata, outputs []symbolic.Expr) map[string]bool {
	used := map[string]bool{}
	for _, o := range outputs {
		collectVarNames(o, used)
	}
	for _, eq := range strata.Nonlinear {
		collectVarNames(eq.Left, used)
		collectVarNames(eq.Right, used)
	}
	for _, u := range strata.NewtonUnknowns {
		collectVarNames(u, used)
	}

	byLeft := map[string]symbolic.Arrow{}
	for _, set := range [][]symbolic.Arrow{strata.Trivial, strata.Differential, strata.Linear, strata.F0} {
		for _, a := range set {
			byLeft[varName(a.Left)] = a
		}
	}

	for changed := true; changed; {
		changed = false
		for key := range used {
			before := len(used)
			if base, ok := strings.CutPrefix(key, "_prev_"); ok {
				used[base] = true
			}
			if a, ok := byLeft[key]; ok {
				collectVarNames(a.Right, used)
			}
			if len(used) != before {
				changed = true
			}
		}
	}
	return used
}

func filterArrows(arrows []symbolic.Arrow, used map[string]bool) []symbolic.Arrow {
	var out []symbolic.Arrow
	for _, a := range arrows {
		if used[varName(a.Left)] {
			out = append(out, a)
		}
	}
	return out
}
