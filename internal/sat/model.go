package sat

import "fmt"

// VarID identifies a model variable.
type VarID int

// Literal is a possibly negated boolean variable, used to guard constraints.
type Literal struct {
	Var VarID
	Neg bool
}

// Pos returns the positive literal for v.
func Pos(v VarID) Literal { return Literal{Var: v} }

// Neg returns the negated literal for v.
func Neg(v VarID) Literal { return Literal{Var: v, Neg: true} }

// Not flips the literal.
func (l Literal) Not() Literal { return Literal{Var: l.Var, Neg: !l.Neg} }

// LinearExpr is a weighted sum of variables plus a constant offset.
type LinearExpr struct {
	vars   []VarID
	coeffs []int64
	offset int64
}

// NewLinearExpr returns an empty expression.
func NewLinearExpr() *LinearExpr {
	return &LinearExpr{}
}

// Sum builds an expression adding every variable with coefficient 1.
func Sum(vars ...VarID) *LinearExpr {
	e := NewLinearExpr()
	for _, v := range vars {
		e.AddTerm(v, 1)
	}
	return e
}

// AddTerm appends coeff*v to the expression.
func (e *LinearExpr) AddTerm(v VarID, coeff int64) *LinearExpr {
	e.vars = append(e.vars, v)
	e.coeffs = append(e.coeffs, coeff)
	return e
}

// Add appends v with coefficient 1.
func (e *LinearExpr) Add(v VarID) *LinearExpr {
	return e.AddTerm(v, 1)
}

// AddConstant shifts the expression by a constant.
func (e *LinearExpr) AddConstant(c int64) *LinearExpr {
	e.offset += c
	return e
}

// Terms reports the number of variable terms.
func (e *LinearExpr) Terms() int { return len(e.vars) }

const (
	// NoLowerBound relaxes the lower side of a linear constraint.
	NoLowerBound int64 = -1 << 40
	// NoUpperBound relaxes the upper side of a linear constraint.
	NoUpperBound int64 = 1 << 40
)

// Constraint restricts a linear expression to [lb, ub]. A constraint with
// enforcement literals only applies when every literal is true; when the
// constraint cannot hold, a sole unfixed enforcement literal is fixed false.
type Constraint struct {
	expr    *LinearExpr
	lb, ub  int64
	enforce []Literal
}

// OnlyEnforceIf guards the constraint with the given literals.
func (c *Constraint) OnlyEnforceIf(lits ...Literal) *Constraint {
	c.enforce = append(c.enforce, lits...)
	return c
}

// Model is a bounded-integer constraint model with an optional single
// minimization objective. Variables participate in search in creation order,
// so callers control determinism by fixing their enumeration order.
type Model struct {
	names       []string
	lo, hi      []int64
	constraints []*Constraint
	objective   *LinearExpr
	hints       map[VarID]int64
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{hints: make(map[VarID]int64)}
}

// NewBoolVar adds a 0/1 variable.
func (m *Model) NewBoolVar(name string) VarID {
	return m.NewIntVar(0, 1, name)
}

// NewIntVar adds an integer variable with inclusive bounds.
func (m *Model) NewIntVar(lo, hi int64, name string) VarID {
	if lo > hi {
		panic(fmt.Sprintf("sat: variable %q has empty domain [%d,%d]", name, lo, hi))
	}
	id := VarID(len(m.names))
	m.names = append(m.names, name)
	m.lo = append(m.lo, lo)
	m.hi = append(m.hi, hi)
	return id
}

// NumVars reports how many variables the model holds.
func (m *Model) NumVars() int { return len(m.names) }

// NumConstraints reports how many constraints the model holds.
func (m *Model) NumConstraints() int { return len(m.constraints) }

// AddLinear constrains expr to [lb, ub].
func (m *Model) AddLinear(expr *LinearExpr, lb, ub int64) *Constraint {
	c := &Constraint{expr: expr, lb: lb, ub: ub}
	m.constraints = append(m.constraints, c)
	return c
}

// AddEquality constrains expr == value.
func (m *Model) AddEquality(expr *LinearExpr, value int64) *Constraint {
	return m.AddLinear(expr, value, value)
}

// AddAtMost constrains expr <= value.
func (m *Model) AddAtMost(expr *LinearExpr, value int64) *Constraint {
	return m.AddLinear(expr, NoLowerBound, value)
}

// AddAtLeast constrains expr >= value.
func (m *Model) AddAtLeast(expr *LinearExpr, value int64) *Constraint {
	return m.AddLinear(expr, value, NoUpperBound)
}

// AddAllEqual pins two variables to the same value.
func (m *Model) AddAllEqual(a, b VarID) *Constraint {
	return m.AddEquality(NewLinearExpr().AddTerm(a, 1).AddTerm(b, -1), 0)
}

// Minimize installs the objective expression.
func (m *Model) Minimize(expr *LinearExpr) {
	m.objective = expr
}

// Hint suggests a branching value for v; the search tries it first.
func (m *Model) Hint(v VarID, value int64) {
	m.hints[v] = value
}

// Name returns the variable's diagnostic name.
func (m *Model) Name(v VarID) string { return m.names[v] }
