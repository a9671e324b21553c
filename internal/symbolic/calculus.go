package symbolic

import "math"

// Bindings maps a canonical expression key (Expr.String()) to its
// replacement. Evaluate walks a tree substituting any subtree whose
// String() matches a key, then re-simplifies through the ordinary
// constructors so results stay canonical.
type Bindings map[string]Expr

// BindingsOf builds a Bindings map from (key, value) pairs.
func BindingsOf(pairs ...Arrow) Bindings {
	b := make(Bindings, len(pairs))
	for _, p := range pairs {
		b[p.Left.String()] = p.Right
	}
	return b
}

// Evaluate substitutes every occurrence of a bound subexpression with
// its binding and simplifies the result.
func Evaluate(e Expr, b Bindings) Expr {
	if v, ok := b[e.String()]; ok {
		return v
	}
	switch t := e.(type) {
	case Num, Var:
		return e
	case Add:
		terms := make([]Expr, len(t.Terms))
		for i, x := range t.Terms {
			terms[i] = Evaluate(x, b)
		}
		return AddOf(terms...)
	case Mul:
		factors := make([]Expr, len(t.Factors))
		for i, x := range t.Factors {
			factors[i] = Evaluate(x, b)
		}
		return MulOf(factors...)
	case Pow:
		return PowOf(Evaluate(t.Base, b), Evaluate(t.Exp, b))
	case Call:
		return CallOf(t.Fn, Evaluate(t.Arg, b))
	case Deriv:
		inner := Evaluate(t.Inner, b)
		wrt := Evaluate(t.Wrt, b)
		if key := (Deriv{inner, wrt}).String(); b != nil {
			if v, ok := b[key]; ok {
				return v
			}
		}
		return Deriv{inner, wrt}
	}
	return e
}

// IsFunctionOf reports whether x occurs anywhere within e.
func IsFunctionOf(e, x Expr) bool {
	if Equal(e, x) {
		return true
	}
	switch t := e.(type) {
	case Num, Var:
		return false
	case Add:
		for _, term := range t.Terms {
			if IsFunctionOf(term, x) {
				return true
			}
		}
	case Mul:
		for _, f := range t.Factors {
			if IsFunctionOf(f, x) {
				return true
			}
		}
	case Pow:
		return IsFunctionOf(t.Base, x) || IsFunctionOf(t.Exp, x)
	case Call:
		return IsFunctionOf(t.Arg, x)
	case Deriv:
		return IsFunctionOf(t.Inner, x) || IsFunctionOf(t.Wrt, x)
	}
	return false
}

// Diff computes the symbolic derivative of e with respect to x using
// the standard sum, product, power and chain rules. Deriv markers are
// treated as opaque with respect to any variable other than their own
// inner expression; differentiating a Deriv node itself is not
// supported (Newton's Jacobian never needs it: by the time the
// non-linear residual is built, every Deriv unknown has already been
// eliminated by the differential stage).
func Diff(e, x Expr) Expr {
	if Equal(e, x) {
		return Num{1}
	}
	switch t := e.(type) {
	case Num:
		return Num{0}
	case Var:
		return Num{0}
	case Add:
		terms := make([]Expr, len(t.Terms))
		for i, term := range t.Terms {
			terms[i] = Diff(term, x)
		}
		return AddOf(terms...)
	case Mul:
		var sum []Expr
		for i := range t.Factors {
			factors := make([]Expr, len(t.Factors))
			copy(factors, t.Factors)
			factors[i] = Diff(t.Factors[i], x)
			sum = append(sum, MulOf(factors...))
		}
		return AddOf(sum...)
	case Pow:
		if n, ok := isNum(t.Exp); ok {
			return MulOf(Num{n}, PowOf(t.Base, Num{n - 1}), Diff(t.Base, x))
		}
		// general case: d(b^e) = b^e * (e' * ln(b) + e * b'/b), unsupported
		// in this domain (no component produces a variable exponent).
		return Num{0}
	case Call:
		inner := Diff(t.Arg, x)
		switch t.Fn {
		case "exp":
			return MulOf(CallOf("exp", t.Arg), inner)
		case "sin":
			return MulOf(CallOf("cos", t.Arg), inner)
		case "cos":
			return MulOf(Num{-1}, CallOf("sin", t.Arg), inner)
		case "tanh":
			return MulOf(Sub(Num{1}, PowOf(CallOf("tanh", t.Arg), Num{2})), inner)
		}
	case Deriv:
		if !IsFunctionOf(t, x) {
			return Num{0}
		}
	}
	return Num{0}
}

// Terms returns the additive top-level terms of e; a non-Add
// expression is its own single term.
func Terms(e Expr) []Expr {
	if a, ok := e.(Add); ok {
		return a.Terms
	}
	return []Expr{e}
}

// Expand distributes multiplication over addition and expands
// small positive integer powers of a sum, fully normalizing a
// left-hand-side-minus-right-hand-side expression into a flat sum of
// terms before classification.
func Expand(e Expr) Expr {
	switch t := e.(type) {
	case Add:
		terms := make([]Expr, len(t.Terms))
		for i, term := range t.Terms {
			terms[i] = Expand(term)
		}
		return AddOf(terms...)
	case Mul:
		factors := make([]Expr, len(t.Factors))
		for i, f := range t.Factors {
			factors[i] = Expand(f)
		}
		return expandProduct(factors)
	case Pow:
		if n, ok := isNum(t.Exp); ok && n == math.Trunc(n) && n >= 2 && n <= 8 {
			base := Expand(t.Base)
			factors := make([]Expr, int(n))
			for i := range factors {
				factors[i] = base
			}
			return expandProduct(factors)
		}
		return PowOf(Expand(t.Base), t.Exp)
	case Call:
		return CallOf(t.Fn, Expand(t.Arg))
	case Deriv:
		return Deriv{Expand(t.Inner), t.Wrt}
	}
	return e
}

func expandProduct(factors []Expr) Expr {
	acc := []Expr{Num{1}}
	for _, f := range factors {
		terms := Terms(f)
		var next []Expr
		for _, a := range acc {
			for _, term := range terms {
				next = append(next, MulOf(a, term))
			}
		}
		acc = next
	}
	return AddOf(acc...)
}
