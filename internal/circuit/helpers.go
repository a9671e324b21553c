package circuit

import "github.com/san-kum/livespice/internal/symbolic"

// containsCall reports whether e contains any transcendental function
// application anywhere in its tree — the classifier's test for "this
// defining equation is non-linear".
func containsCall(e symbolic.Expr) bool {
	switch t := e.(type) {
	case symbolic.Call:
		return true
	case symbolic.Add:
		for _, term := range t.Terms {
			if containsCall(term) {
				return true
			}
		}
	case symbolic.Mul:
		for _, f := range t.Factors {
			if containsCall(f) {
				return true
			}
		}
	case symbolic.Pow:
		return containsCall(t.Base) || containsCall(t.Exp)
	case symbolic.Deriv:
		return containsCall(t.Inner)
	}
	return false
}

// removeExpr returns exprs with the first element equal to target
// dropped.
func removeExpr(exprs []symbolic.Expr, target symbolic.Expr) []symbolic.Expr {
	out := make([]symbolic.Expr, 0, len(exprs))
	removed := false
	for _, e := range exprs {
		if !removed && symbolic.Equal(e, target) {
			removed = true
			continue
		}
		out = append(out, e)
	}
	return out
}

// containsExpr reports whether target is present in exprs.
func containsExpr(exprs []symbolic.Expr, target symbolic.Expr) bool {
	for _, e := range exprs {
		if symbolic.Equal(e, target) {
			return true
		}
	}
	return false
}

// lookupArrow returns the right-hand side bound to key across one or
// more arrow sets, in priority order.
func lookupArrow(key symbolic.Expr, sets ...[]symbolic.Arrow) (symbolic.Expr, bool) {
	for _, set := range sets {
		for _, a := range set {
			if symbolic.Equal(a.Left, key) {
				return a.Right, true
			}
		}
	}
	return nil, false
}

// T0 is the global cell holding the previous sample's time value, the
// discretizer's t0 argument for every differential in a Strata.
var T0 = symbolic.V("_t0")

// PrevOf names the previous-sample shadow global cell for a variable
// (a node voltage, branch current or input) — the kernel maintains one
// such cell per quantity any differential or non-linear law needs a
// prior value of, committing it only after a full sample completes.
func PrevOf(e symbolic.Expr) symbolic.Expr {
	if v, ok := e.(symbolic.Var); ok {
		return symbolic.V("_prev_" + v.Name)
	}
	return e
}
