package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func budgetFixture() *Config {
	return &Config{
		Classes:  []string{"CSE-A"},
		Staff:    []string{"T1", "T2", "T3"},
		Subjects: []string{"LIB_HH", "PW", "L1", "L2", "L3", "L4", "L5", "L6", "DB_Lab", "M_Tutorial"},
		StaffExpertise: map[string][]string{
			"LIB_HH": {"T1"}, "PW": {"T2"},
			"L1": {"T1"}, "L2": {"T2"}, "L3": {"T3"},
			"L4": {"T1"}, "L5": {"T2"}, "L6": {"T3"},
			"DB_Lab": {"T1", "T2"}, "M_Tutorial": {"T2", "T3"},
		},
		ClassData: map[string]*ClassConfig{
			"CSE-A": {
				Subjects:  []string{"LIB_HH", "PW", "L1", "L2", "L3", "L4", "L5", "L6"},
				Labs:      []string{"DB_Lab"},
				Tutorials: []string{"M_Tutorial"},
			},
		},
	}
}

func TestAllocatePeriodsSumsToWeeklyTotal(t *testing.T) {
	cfg := budgetFixture()
	require.NoError(t, AllocatePeriods(cfg))

	periods := cfg.ClassData["CSE-A"].PeriodsPerSubject
	assert.Equal(t, 3, periods["DB_Lab"])
	assert.Equal(t, 2, periods["M_Tutorial"])
	assert.Equal(t, 4, periods["PW"])
	assert.Equal(t, 1, periods["LIB_HH"])

	// 32 remaining periods over six lectures: the first two absorb the
	// remainder.
	assert.Equal(t, 6, periods["L1"])
	assert.Equal(t, 6, periods["L2"])
	for _, s := range []string{"L3", "L4", "L5", "L6"} {
		assert.Equal(t, 5, periods[s])
	}

	total := 0
	for _, count := range periods {
		total += count
	}
	assert.Equal(t, PeriodsPerWeek, total)
}

func TestAllocatePeriodsCountsElectiveGroupOnce(t *testing.T) {
	cfg := budgetFixture()
	cc := cfg.ClassData["CSE-A"]
	cc.Subjects = append(cc.Subjects, "E1", "E2")
	cc.ElectiveGroups = [][]string{{"E1", "E2"}}
	cfg.Subjects = append(cfg.Subjects, "E1", "E2")
	cfg.StaffExpertise["E1"] = []string{"T1"}
	cfg.StaffExpertise["E2"] = []string{"T2"}

	require.NoError(t, AllocatePeriods(cfg))
	periods := cc.PeriodsPerSubject
	assert.Equal(t, 5, periods["E1"])
	assert.Equal(t, 5, periods["E2"])

	// Weekly total counts the group once, not per member.
	total := 0
	for s, count := range periods {
		if s == "E2" {
			continue
		}
		total += count
	}
	assert.Equal(t, PeriodsPerWeek, total)
}

func TestAllocatePeriodsOverfullIsInfeasible(t *testing.T) {
	cfg := &Config{
		Classes:  []string{"CSE-B"},
		Staff:    []string{"T1"},
		Subjects: []string{"PW", "T&P", "DS-I", "SSD-III", "BC", "CS", "Lab1_Lab", "Lab2_Lab", "Lab3_Lab", "Lab4_Lab", "Lab5_Lab", "Lab6_Lab", "Lab7_Lab", "Lab8_Lab", "Lab9_Lab"},
		StaffExpertise: map[string][]string{
			"PW": {"T1"}, "T&P": {"T1"}, "DS-I": {"T1"}, "SSD-III": {"T1"}, "BC": {"T1"}, "CS": {"T1"},
			"Lab1_Lab": {"T1"}, "Lab2_Lab": {"T1"}, "Lab3_Lab": {"T1"}, "Lab4_Lab": {"T1"}, "Lab5_Lab": {"T1"},
			"Lab6_Lab": {"T1"}, "Lab7_Lab": {"T1"}, "Lab8_Lab": {"T1"}, "Lab9_Lab": {"T1"},
		},
		ClassData: map[string]*ClassConfig{
			"CSE-B": {
				Subjects: []string{"PW", "T&P", "DS-I", "SSD-III", "BC", "CS"},
				Labs:     []string{"Lab1_Lab", "Lab2_Lab", "Lab3_Lab", "Lab4_Lab", "Lab5_Lab", "Lab6_Lab", "Lab7_Lab", "Lab8_Lab", "Lab9_Lab"},
			},
		},
	}

	// Fixed counts alone exceed the weekly total (20 + 27 = 47 > 42).
	err := AllocatePeriods(cfg)
	var budgetErr *BudgetInfeasibleError
	require.ErrorAs(t, err, &budgetErr)
	assert.Equal(t, "CSE-B", budgetErr.Class)
	assert.Negative(t, budgetErr.Remaining)
}

func TestAllocatePeriodsNoLecturesToAbsorbRemainder(t *testing.T) {
	cfg := &Config{
		Classes:        []string{"CSE-C"},
		Staff:          []string{"T1"},
		Subjects:       []string{"MH"},
		StaffExpertise: map[string][]string{"MH": {"T1"}},
		ClassData: map[string]*ClassConfig{
			"CSE-C": {Subjects: []string{"MH"}},
		},
	}

	err := AllocatePeriods(cfg)
	var budgetErr *BudgetInfeasibleError
	require.ErrorAs(t, err, &budgetErr)
	assert.Equal(t, "CSE-C", budgetErr.Class)
}
