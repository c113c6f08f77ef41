package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, cfg *Config) *Result {
	t.Helper()
	e := New(nil, Options{TimeLimit: 30 * time.Second})
	result, err := e.Generate(context.Background(), cfg)
	require.NoError(t, err)
	return result
}

// verifySchedule asserts every structural rule a returned schedule must
// satisfy, independent of the solver that produced it.
func verifySchedule(t *testing.T, cfg *Config, res *Result) {
	t.Helper()

	for _, class := range cfg.Classes {
		cc := cfg.ClassData[class]
		grids := res.Placement[class]

		// Per-subject period counts.
		for _, subject := range cc.ActiveSubjects() {
			require.NotNil(t, grids[subject], "%s/%s missing grid", class, subject)
			assert.Equal(t, cc.PeriodsPerSubject[subject], grids[subject].Count(),
				"%s/%s period count", class, subject)
		}

		// Single activity per slot, electives counted once; full week.
		occupied := 0
		for d := 0; d < NumDays; d++ {
			for p := 0; p < NumPeriods; p++ {
				inSlot := 0
				for _, subject := range cc.ActiveSubjects() {
					if cc.IsElectiveMember(subject) {
						continue
					}
					if grids[subject][d][p] {
						inSlot++
					}
				}
				for _, group := range cc.ElectiveGroups {
					if grids[group[0]][d][p] {
						inSlot++
					}
				}
				assert.LessOrEqual(t, inSlot, 1, "%s slot (%d,%d)", class, d, p)
				occupied += inSlot
			}
		}
		assert.Equal(t, PeriodsPerWeek, occupied, "%s weekly total", class)

		// Lab blocks: one contiguous weekday run starting at period 1 or 4,
		// at most one lab per day.
		labDays := make(map[int]int)
		for _, subject := range cc.Labs {
			day, start := blockShape(t, grids[subject], 3)
			assert.Less(t, day, NumDays-1, "%s/%s lab on Saturday", class, subject)
			assert.Contains(t, []int{1, 4}, start, "%s/%s lab start", class, subject)
			labDays[day]++
		}
		for day, count := range labDays {
			assert.LessOrEqual(t, count, 1, "%s has %d labs on day %d", class, count, day)
		}

		// Tutorial blocks: one contiguous weekday run of two periods.
		for _, subject := range cc.Tutorials {
			day, start := blockShape(t, grids[subject], 2)
			assert.Less(t, day, NumDays-1, "%s/%s tutorial on Saturday", class, subject)
			assert.Contains(t, []int{0, 1, 2, 4, 5}, start, "%s/%s tutorial start", class, subject)
		}

		// Elective co-occurrence.
		for _, group := range cc.ElectiveGroups {
			for _, other := range group[1:] {
				assert.Equal(t, grids[group[0]], grids[other],
					"%s electives %s and %s diverge", class, group[0], other)
			}
		}

		// First-period diversity.
		for _, subject := range cc.ActiveSubjects() {
			opens := 0
			for d := 0; d < NumDays; d++ {
				if grids[subject][d][0] {
					opens++
				}
			}
			assert.LessOrEqual(t, opens, 1, "%s/%s opens multiple days", class, subject)
		}

		// Core lecture daily cap.
		for _, subject := range cc.Subjects {
			if !isCoreLecture(subject, cfg) || cc.IsElectiveMember(subject) {
				continue
			}
			for d := 0; d < NumDays; d++ {
				daily := 0
				for p := 0; p < NumPeriods; p++ {
					if grids[subject][d][p] {
						daily++
					}
				}
				assert.LessOrEqual(t, daily, 2, "%s/%s day %d", class, subject, d)
			}
		}

		// Library slotting.
		for _, subject := range cc.Subjects {
			if !IsLibrarySubject(subject) {
				continue
			}
			for d := 0; d < NumDays; d++ {
				for p := 0; p < NumPeriods; p++ {
					if grids[subject][d][p] {
						assert.Contains(t, []int{3, 6}, p, "%s/%s placed at period %d", class, subject, p)
					}
				}
			}
		}
	}

	// Instructor non-conflict across classes.
	for _, staff := range cfg.Staff {
		for d := 0; d < NumDays; d++ {
			for p := 0; p < NumPeriods; p++ {
				busy := 0
				for _, class := range cfg.Classes {
					for subject, picked := range res.Assignments[class] {
						if contains(picked, staff) && res.Placement[class][subject][d][p] {
							busy++
						}
					}
				}
				assert.LessOrEqual(t, busy, 1, "%s double-booked at (%d,%d)", staff, d, p)
			}
		}
	}

	// The reported max workload matches the selection.
	heaviest := 0
	for _, staff := range cfg.Staff {
		load := 0
		for _, class := range cfg.Classes {
			for subject, picked := range res.Assignments[class] {
				if contains(picked, staff) {
					load += cfg.ClassData[class].PeriodsPerSubject[subject]
				}
			}
		}
		if load > heaviest {
			heaviest = load
		}
	}
	assert.Equal(t, int64(heaviest), res.MaxWorkload)
}

// blockShape asserts the grid holds exactly one contiguous run of the given
// length and returns its day and start period.
func blockShape(t *testing.T, grid *SubjectGrid, length int) (day, start int) {
	t.Helper()
	day, start = -1, -1
	cells := 0
	for d := 0; d < NumDays; d++ {
		for p := 0; p < NumPeriods; p++ {
			if !grid[d][p] {
				continue
			}
			cells++
			if day == -1 {
				day, start = d, p
				continue
			}
			require.Equal(t, day, d, "block spans days")
		}
	}
	require.Equal(t, length, cells, "block length")
	for i := 0; i < length; i++ {
		require.True(t, grid[day][start+i], "block not contiguous at %d", start+i)
	}
	return day, start
}

func TestGenerateSingleClass(t *testing.T) {
	cfg := budgetFixture()
	res := generate(t, cfg)
	verifySchedule(t, cfg, res)

	// A six-period lecture must spread over at least three days under the
	// daily cap.
	days := map[int]bool{}
	for d := 0; d < NumDays; d++ {
		for p := 0; p < NumPeriods; p++ {
			if res.Placement["CSE-A"]["L1"][d][p] {
				days[d] = true
			}
		}
	}
	assert.GreaterOrEqual(t, len(days), 3)
}

func TestGenerateRendersBoundaryRecord(t *testing.T) {
	cfg := budgetFixture()
	res := generate(t, cfg)

	class := res.Schedule["CSE-A"]
	require.Len(t, class, NumDays)
	for d := 0; d < NumDays; d++ {
		row := class[dayKey(d)]
		require.Len(t, row, NumPeriods)
		for _, slot := range row {
			assert.NotEmpty(t, slot)
		}
	}

	// Every slot is either free or "SUBJECT (instructor...)".
	foundLab := false
	for _, row := range class {
		for _, slot := range row {
			if slot == FreeSlot {
				continue
			}
			assert.Regexp(t, `^.+ \(.+\)$`, slot)
			if slot == "DB_Lab (T1 & T2)" || slot == "DB_Lab (T2 & T1)" {
				foundLab = true
			}
		}
	}
	assert.True(t, foundLab, "lab slot should list both instructors")
}

func TestGenerateElectiveGroupsCoScheduled(t *testing.T) {
	cfg := budgetFixture()
	cc := cfg.ClassData["CSE-A"]
	cc.Subjects = append(cc.Subjects, "E1", "E2")
	cc.ElectiveGroups = [][]string{{"E1", "E2"}}
	cfg.Subjects = append(cfg.Subjects, "E1", "E2")
	cfg.Staff = append(cfg.Staff, "T4", "T5")
	cfg.StaffExpertise["E1"] = []string{"T4"}
	cfg.StaffExpertise["E2"] = []string{"T5"}

	res := generate(t, cfg)
	verifySchedule(t, cfg, res)
	assert.Equal(t, res.Placement["CSE-A"]["E1"], res.Placement["CSE-A"]["E2"])
}

func TestGenerateSharedInstructorNoConflict(t *testing.T) {
	// Both classes need subject M, taught by the sole qualified instructor.
	cfg := &Config{
		Classes:  []string{"A", "B"},
		Staff:    []string{"TM", "A1", "A2", "A3", "A4", "A5", "A6", "B1", "B2", "B3", "B4", "B5", "B6"},
		Subjects: []string{"M", "LIB_HH", "AL1", "AL2", "AL3", "AL4", "AL5", "AL6", "BL1", "BL2", "BL3", "BL4", "BL5", "BL6"},
		StaffExpertise: map[string][]string{
			"M": {"TM"}, "LIB_HH": {"TM"},
			"AL1": {"A1"}, "AL2": {"A2"}, "AL3": {"A3"}, "AL4": {"A4"}, "AL5": {"A5"}, "AL6": {"A6"},
			"BL1": {"B1"}, "BL2": {"B2"}, "BL3": {"B3"}, "BL4": {"B4"}, "BL5": {"B5"}, "BL6": {"B6"},
		},
		ClassData: map[string]*ClassConfig{
			"A": {Subjects: []string{"LIB_HH", "M", "AL1", "AL2", "AL3", "AL4", "AL5", "AL6"}},
			"B": {Subjects: []string{"LIB_HH", "M", "BL1", "BL2", "BL3", "BL4", "BL5", "BL6"}},
		},
	}

	res := generate(t, cfg)
	verifySchedule(t, cfg, res)

	for d := 0; d < NumDays; d++ {
		for p := 0; p < NumPeriods; p++ {
			both := res.Placement["A"]["M"][d][p] && res.Placement["B"]["M"][d][p]
			assert.False(t, both, "M taught to both classes at (%d,%d)", d, p)
		}
	}
}

func TestGenerateBudgetInfeasible(t *testing.T) {
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

	e := New(nil, Options{})
	_, err := e.Generate(context.Background(), cfg)
	var budgetErr *BudgetInfeasibleError
	require.ErrorAs(t, err, &budgetErr)
}

func TestGenerateLibraryPlacement(t *testing.T) {
	cfg := budgetFixture()
	res := generate(t, cfg)

	placed := 0
	for d := 0; d < NumDays; d++ {
		for p := 0; p < NumPeriods; p++ {
			if res.Placement["CSE-A"]["LIB_HH"][d][p] {
				placed++
				assert.Contains(t, []int{3, 6}, p)
			}
		}
	}
	assert.Equal(t, 1, placed)
}

func TestGenerateSchedulingInfeasible(t *testing.T) {
	// Six labs cannot fit five weekdays at one lab per day.
	cfg := sixLabFixture("X")

	e := New(nil, Options{TimeLimit: 2 * time.Minute})
	_, err := e.Generate(context.Background(), cfg)
	var schedErr *SchedulingInfeasibleError
	require.ErrorAs(t, err, &schedErr)
}

func TestGenerateSolverTimeout(t *testing.T) {
	cfg := sixLabFixture("X")
	cfg2 := sixLabFixture("Y")
	cfg.Classes = append(cfg.Classes, cfg2.Classes...)
	for class, cc := range cfg2.ClassData {
		cfg.ClassData[class] = cc
	}
	cfg.Subjects = append(cfg.Subjects, cfg2.Subjects...)
	cfg.Staff = append(cfg.Staff, cfg2.Staff...)
	for s, staff := range cfg2.StaffExpertise {
		cfg.StaffExpertise[s] = staff
	}

	e := New(nil, Options{TimeLimit: time.Nanosecond})
	_, err := e.Generate(context.Background(), cfg)
	var timeoutErr *SolverTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
}

// sixLabFixture builds a class whose six labs exceed the one-lab-per-day
// rule, with prefixed names so two instances can coexist.
func sixLabFixture(prefix string) *Config {
	labs := []string{prefix + "1_Lab", prefix + "2_Lab", prefix + "3_Lab", prefix + "4_Lab", prefix + "5_Lab", prefix + "6_Lab"}
	lectures := []string{prefix + "C1", prefix + "C2", prefix + "C3", prefix + "C4"}
	staffName := prefix + "T"
	expertise := map[string][]string{}
	subjects := append(append([]string{}, lectures...), labs...)
	staff := []string{}
	for i, s := range subjects {
		name := staffName + string(rune('a'+i))
		staff = append(staff, name)
		expertise[s] = []string{name}
	}
	return &Config{
		Classes:        []string{prefix + "-class"},
		Staff:          staff,
		Subjects:       subjects,
		StaffExpertise: expertise,
		ClassData: map[string]*ClassConfig{
			prefix + "-class": {
				Subjects: lectures,
				Labs:     labs,
			},
		},
	}
}
