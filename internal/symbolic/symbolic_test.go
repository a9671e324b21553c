package symbolic

import "testing"

func TestAddOfCombinesLikeTerms(t *testing.T) {
	x := V("x")
	got := AddOf(x, x, N(3))
	want := "((2 * x) + 3)"
	if got.String() != want {
		t.Fatalf("AddOf(x,x,3) = %s, want %s", got.String(), want)
	}
}

func TestMulOfFoldsLiterals(t *testing.T) {
	got := MulOf(N(2), N(3), V("x"))
	if got.String() != "(6 * x)" {
		t.Fatalf("got %s", got.String())
	}
}

func TestDiffPowerRule(t *testing.T) {
	x := V("x")
	got := Diff(PowOf(x, N(3)), x)
	if got.String() != "((x ^ 2) * 3)" {
		t.Fatalf("d/dx x^3 = %s", got.String())
	}
}

func TestDiffExpChainRule(t *testing.T) {
	x := V("x")
	got := Diff(Exp(MulOf(N(2), x)), x)
	if got.String() != "(2 * exp((2 * x)))" {
		t.Fatalf("d/dx exp(2x) = %s", got.String())
	}
}

func TestSolveForVarLinear(t *testing.T) {
	// 2x + 6 = 0 -> x = -3
	x := V("x")
	eq := Eq(AddOf(MulOf(N(2), x), N(6)), N(0))
	arrow, ok := SolveForVar(eq, x)
	if !ok {
		t.Fatal("expected solvable")
	}
	if arrow.Right.String() != "-3" {
		t.Fatalf("x = %s, want -3", arrow.Right.String())
	}
}

func TestSolveSystemOfTwo(t *testing.T) {
	// x + y = 10, x - y = 2 -> x=6, y=4
	x, y := V("x"), V("y")
	eqs := []Equation{
		Eq(AddOf(x, y), N(10)),
		Eq(Sub(x, y), N(2)),
	}
	arrows := Solve(eqs, []Expr{x, y})
	got := map[string]string{}
	for _, a := range arrows {
		got[a.Left.String()] = a.Right.String()
	}
	if got["x"] != "6" || got["y"] != "4" {
		t.Fatalf("got %v", got)
	}
}

func TestIsFunctionOf(t *testing.T) {
	x, y := V("x"), V("y")
	e := AddOf(MulOf(N(2), x), y)
	if !IsFunctionOf(e, x) {
		t.Fatal("expected e to be a function of x")
	}
	if IsFunctionOf(e, V("z")) {
		t.Fatal("did not expect e to be a function of z")
	}
}

func TestDerivMarker(t *testing.T) {
	v := V("v")
	d := D(v, T)
	if !IsD(d) {
		t.Fatal("expected IsD")
	}
	if DOf(d).String() != "v" {
		t.Fatalf("DOf = %s", DOf(d).String())
	}
}

func TestNSolveScalarNewtonStep(t *testing.T) {
	// residual: x^2 - 4 = 0; Newton step at symbolic x:
	// delta = (x^2-4)/(2x); x_new = x - delta
	x := V("x")
	eq := Eq(PowOf(x, N(2)), N(4))
	arrows, err := NSolve([]Equation{eq}, []Expr{x})
	if err != nil {
		t.Fatal(err)
	}
	if len(arrows) != 1 || arrows[0].Left.String() != "x" {
		t.Fatalf("got %v", arrows)
	}
	// sanity-check numerically at x=3: delta=(9-4)/6=5/6, x_new=3-5/6=13/6
	slots := SlotMap{"x": 0}
	node, err := Compile(arrows[0].Right, slots)
	if err != nil {
		t.Fatal(err)
	}
	got := node.Eval([]float64{3})
	want := 13.0 / 6.0
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("Newton step at x=3 = %v, want %v", got, want)
	}
}

func TestCompileEvaluatesExpression(t *testing.T) {
	x, y := V("x"), V("y")
	e := AddOf(MulOf(N(2), x), y)
	node, err := Compile(e, SlotMap{"x": 0, "y": 1})
	if err != nil {
		t.Fatal(err)
	}
	got := node.Eval([]float64{3, 4})
	if got != 10 {
		t.Fatalf("got %v, want 10", got)
	}
}
