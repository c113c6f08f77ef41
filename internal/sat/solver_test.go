package sat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveSimpleEquality(t *testing.T) {
	m := NewModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	c := m.NewBoolVar("c")
	m.AddEquality(Sum(a, b, c), 2)
	m.AddEquality(Sum(a), 0)

	res := NewSolver(Params{}).Solve(m)
	require.Equal(t, StatusFeasible, res.Status)
	assert.False(t, res.BoolValue(a))
	assert.True(t, res.BoolValue(b))
	assert.True(t, res.BoolValue(c))
}

func TestSolveInfeasible(t *testing.T) {
	m := NewModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	m.AddEquality(Sum(a, b), 2)
	m.AddAtMost(Sum(a, b), 1)

	res := NewSolver(Params{}).Solve(m)
	assert.Equal(t, StatusInfeasible, res.Status)
	assert.False(t, res.HasSolution())
}

func TestSolveMinimizeMax(t *testing.T) {
	// Three unit tasks over two workers; the balanced split has max load 2.
	m := NewModel()
	var assign [3][2]VarID
	for task := 0; task < 3; task++ {
		for worker := 0; worker < 2; worker++ {
			assign[task][worker] = m.NewBoolVar("assign")
		}
		m.AddEquality(Sum(assign[task][0], assign[task][1]), 1)
	}
	maxLoad := m.NewIntVar(0, 3, "max_load")
	for worker := 0; worker < 2; worker++ {
		load := NewLinearExpr()
		for task := 0; task < 3; task++ {
			load.Add(assign[task][worker])
		}
		load.AddTerm(maxLoad, -1)
		m.AddAtMost(load, 0)
	}
	m.Minimize(NewLinearExpr().Add(maxLoad))

	res := NewSolver(Params{}).Solve(m)
	require.Equal(t, StatusOptimal, res.Status)
	assert.Equal(t, int64(2), res.Objective)
}

func TestSolveEnforcementLiteral(t *testing.T) {
	m := NewModel()
	guard := m.NewBoolVar("guard")
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	// guard forces both a and b; minimizing guard+a+b without other
	// constraints drives everything to zero.
	m.AddEquality(Sum(a, b), 2).OnlyEnforceIf(Pos(guard))
	m.Minimize(Sum(guard, a, b))

	res := NewSolver(Params{}).Solve(m)
	require.Equal(t, StatusOptimal, res.Status)
	assert.Equal(t, int64(0), res.Objective)
}

func TestSolveReifiedThreshold(t *testing.T) {
	// flag must become true exactly when the pinned sum exceeds one.
	m := NewModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	flag := m.NewBoolVar("flag")
	m.AddEquality(Sum(a), 1)
	m.AddEquality(Sum(b), 1)
	m.AddAtLeast(Sum(a, b), 2).OnlyEnforceIf(Pos(flag))
	m.AddAtMost(Sum(a, b), 1).OnlyEnforceIf(Neg(flag))

	res := NewSolver(Params{}).Solve(m)
	require.Equal(t, StatusFeasible, res.Status)
	assert.True(t, res.BoolValue(flag))
}

func TestSolveHintGuidesBranching(t *testing.T) {
	m := NewModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	m.AddAtMost(Sum(a, b), 1)
	m.Hint(a, 0)

	res := NewSolver(Params{}).Solve(m)
	require.Equal(t, StatusFeasible, res.Status)
	// The hint steers a to zero even though booleans default to one-first.
	assert.False(t, res.BoolValue(a))
	assert.True(t, res.BoolValue(b))
}

func TestSolveNegativeCoefficients(t *testing.T) {
	m := NewModel()
	x := m.NewIntVar(0, 10, "x")
	y := m.NewIntVar(0, 10, "y")
	// x - y == 3 with y >= 2 forces x >= 5.
	m.AddEquality(NewLinearExpr().AddTerm(x, 1).AddTerm(y, -1), 3)
	m.AddAtLeast(Sum(y), 2)
	m.Minimize(Sum(x))

	res := NewSolver(Params{}).Solve(m)
	require.Equal(t, StatusOptimal, res.Status)
	assert.Equal(t, int64(5), res.Value(x))
	assert.Equal(t, int64(2), res.Value(y))
}

func TestSolveDeterministic(t *testing.T) {
	build := func() (*Model, []VarID) {
		m := NewModel()
		vars := make([]VarID, 6)
		for i := range vars {
			vars[i] = m.NewBoolVar("v")
		}
		m.AddEquality(Sum(vars...), 3)
		return m, vars
	}

	m1, v1 := build()
	m2, v2 := build()
	r1 := NewSolver(Params{Seed: 7}).Solve(m1)
	r2 := NewSolver(Params{Seed: 7}).Solve(m2)
	require.Equal(t, StatusFeasible, r1.Status)
	for i := range v1 {
		assert.Equal(t, r1.Value(v1[i]), r2.Value(v2[i]))
	}
}

func TestSolveTimeLimitReportsUnknown(t *testing.T) {
	// A large pigeonhole-style model the DFS cannot finish instantly.
	m := NewModel()
	const n = 24
	vars := make([][]VarID, n)
	for i := range vars {
		vars[i] = make([]VarID, n)
		for j := range vars[i] {
			vars[i][j] = m.NewBoolVar("p")
		}
		m.AddEquality(Sum(vars[i]...), n/2)
	}
	for j := 0; j < n; j++ {
		col := NewLinearExpr()
		for i := 0; i < n; i++ {
			col.Add(vars[i][j])
		}
		m.AddEquality(col, n/2)
	}
	// Conflicting global parity makes the model infeasible, but proving it
	// takes far longer than a microsecond budget.
	total := NewLinearExpr()
	for i := range vars {
		for j := range vars[i] {
			total.Add(vars[i][j])
		}
	}
	m.AddEquality(total, n*n/2+1)

	res := NewSolver(Params{TimeLimit: time.Microsecond}).Solve(m)
	assert.Contains(t, []Status{StatusUnknown, StatusInfeasible}, res.Status)
}
