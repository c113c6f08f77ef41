package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentPicksTwoStaffForBlocks(t *testing.T) {
	cfg := budgetFixture()
	require.NoError(t, AllocatePeriods(cfg))

	e := New(nil, Options{})
	assignments, _, err := e.solveAssignment(cfg)
	require.NoError(t, err)

	picks := assignments["CSE-A"]
	// Labs and tutorials with two qualified instructors get both.
	assert.Len(t, picks["DB_Lab"], 2)
	assert.Len(t, picks["M_Tutorial"], 2)
	// Lectures always get exactly one.
	for _, s := range []string{"L1", "L2", "L3", "L4", "L5", "L6", "PW", "LIB_HH"} {
		assert.Len(t, picks[s], 1, s)
	}
}

func TestAssignmentRespectsExpertise(t *testing.T) {
	cfg := budgetFixture()
	require.NoError(t, AllocatePeriods(cfg))

	e := New(nil, Options{})
	assignments, _, err := e.solveAssignment(cfg)
	require.NoError(t, err)

	for subject, picked := range assignments["CSE-A"] {
		for _, staff := range picked {
			assert.Contains(t, cfg.StaffExpertise[subject], staff, subject)
		}
	}
}

func TestAssignmentBalancesWorkload(t *testing.T) {
	// Two classes, one shared subject pool: two instructors are qualified
	// everywhere, so the optimum splits the load in half.
	cfg := &Config{
		Classes:  []string{"A", "B"},
		Staff:    []string{"T1", "T2"},
		Subjects: []string{"S1", "S2"},
		StaffExpertise: map[string][]string{
			"S1": {"T1", "T2"},
			"S2": {"T1", "T2"},
		},
		ClassData: map[string]*ClassConfig{
			"A": {Subjects: []string{"S1", "S2"}},
			"B": {Subjects: []string{"S1", "S2"}},
		},
	}
	require.NoError(t, AllocatePeriods(cfg))

	e := New(nil, Options{})
	_, maxLoad, err := e.solveAssignment(cfg)
	require.NoError(t, err)
	// Four 21-period teaching duties over two instructors: 42 each.
	assert.Equal(t, int64(42), maxLoad)
}

func TestAssignmentObjectiveIsStable(t *testing.T) {
	cfg := budgetFixture()
	require.NoError(t, AllocatePeriods(cfg))

	e := New(nil, Options{})
	first, firstLoad, err := e.solveAssignment(cfg)
	require.NoError(t, err)
	second, secondLoad, err := e.solveAssignment(cfg)
	require.NoError(t, err)

	assert.Equal(t, firstLoad, secondLoad)
	assert.Equal(t, first, second)
}
