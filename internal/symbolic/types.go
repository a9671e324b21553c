package symbolic

// Equation is a symbolic statement Left = Right, e.g. a KCL sum of
// currents at a node equated to zero, or a component's defining law.
type Equation struct{ Left, Right Expr }

// Eq constructs an equation.
func Eq(left, right Expr) Equation { return Equation{left, right} }

// Residual returns Left - Right, expanded into a flat sum of terms;
// an equation holds exactly when its residual is zero.
func (e Equation) Residual() Expr { return Expand(Sub(e.Left, e.Right)) }

func (e Equation) String() string { return e.Left.String() + " = " + e.Right.String() }

// Arrow is a solved binding Left -> Right: an unknown mapped to a
// closed-form expression in terms of other unknowns, globals and
// inputs.
type Arrow struct{ Left, Right Expr }

func (a Arrow) String() string { return a.Left.String() + " -> " + a.Right.String() }
