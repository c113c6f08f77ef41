package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/AnanthuNarashimman/Skeduler/internal/sat"
)

// Valid block start periods. Labs span three periods and avoid Saturday;
// tutorials span two.
var (
	labStartPeriods      = []int{1, 4}
	tutorialStartPeriods = []int{0, 1, 2, 4, 5}
	libraryPeriods       = map[int]bool{3: true, 6: true}
)

// SubjectGrid marks the weekly slots one subject occupies for a class.
type SubjectGrid [NumDays][NumPeriods]bool

// Count returns the number of occupied slots.
func (g *SubjectGrid) Count() int {
	total := 0
	for d := 0; d < NumDays; d++ {
		for p := 0; p < NumPeriods; p++ {
			if g[d][p] {
				total++
			}
		}
	}
	return total
}

// ClassPlacement is the per-subject occupancy of one class.
type ClassPlacement map[string]*SubjectGrid

// Placement is the raw scheduling decision for every class.
type Placement map[string]ClassPlacement

// solveSchedule places every activity into the weekly grid under the hard
// pedagogical rules, softly discouraging a core lecture doubling up within a
// day. The fixed assignment from the first phase decides which instructor
// clashes matter.
func (e *Engine) solveSchedule(cfg *Config, assignments Assignments) (Placement, int64, error) {
	model := sat.NewModel()

	classIdx := indexOf(cfg.Classes)
	subjectIdx := indexOf(cfg.Subjects)

	type slotKey struct {
		class   string
		day, p  int
		subject string
	}
	labStart := make(map[slotKey]sat.VarID)
	tutStart := make(map[slotKey]sat.VarID)
	x := make(map[slotKey]sat.VarID)

	// Block-start variables come first so the search commits lab and
	// tutorial runs before filling individual slots.
	for _, class := range cfg.Classes {
		cc := cfg.ClassData[class]
		for _, subject := range cc.Labs {
			for d := 0; d < NumDays-1; d++ {
				for _, p := range labStartPeriods {
					name := fmt.Sprintf("lab_start_c%d_d%d_p%d_s%d", classIdx[class], d, p, subjectIdx[subject])
					labStart[slotKey{class, d, p, subject}] = model.NewBoolVar(name)
				}
			}
		}
		for _, subject := range cc.Tutorials {
			for d := 0; d < NumDays-1; d++ {
				for _, p := range tutorialStartPeriods {
					name := fmt.Sprintf("tut_start_c%d_d%d_p%d_s%d", classIdx[class], d, p, subjectIdx[subject])
					tutStart[slotKey{class, d, p, subject}] = model.NewBoolVar(name)
				}
			}
		}
	}

	// Occupancy variables in dense (class, day, period, subject) order.
	for _, class := range cfg.Classes {
		cc := cfg.ClassData[class]
		for d := 0; d < NumDays; d++ {
			for p := 0; p < NumPeriods; p++ {
				for _, subject := range cc.ActiveSubjects() {
					name := fmt.Sprintf("assign_c%d_d%d_p%d_s%d", classIdx[class], d, p, subjectIdx[subject])
					x[slotKey{class, d, p, subject}] = model.NewBoolVar(name)
				}
			}
		}
	}

	for _, class := range cfg.Classes {
		cc := cfg.ClassData[class]
		active := cc.ActiveSubjects()

		// One activity per slot, electives counted through their
		// first-listed representative. When the class's period counts fill
		// the whole week the cap is an implied equality, which propagates
		// far better.
		classTotal := 0
		for _, subject := range active {
			if !cc.IsElectiveMember(subject) {
				classTotal += cc.PeriodsPerSubject[subject]
			}
		}
		for _, group := range cc.ElectiveGroups {
			classTotal += cc.PeriodsPerSubject[group[0]]
		}

		for d := 0; d < NumDays; d++ {
			for p := 0; p < NumPeriods; p++ {
				expr := sat.NewLinearExpr()
				for _, subject := range active {
					if cc.IsElectiveMember(subject) {
						continue
					}
					expr.Add(x[slotKey{class, d, p, subject}])
				}
				for _, group := range cc.ElectiveGroups {
					expr.Add(x[slotKey{class, d, p, group[0]}])
				}
				if classTotal == PeriodsPerWeek {
					model.AddEquality(expr, 1)
				} else {
					model.AddAtMost(expr, 1)
				}
			}
		}

		// Every member of an elective group mirrors the representative.
		for _, group := range cc.ElectiveGroups {
			for _, other := range group[1:] {
				for d := 0; d < NumDays; d++ {
					for p := 0; p < NumPeriods; p++ {
						model.AddAllEqual(x[slotKey{class, d, p, group[0]}], x[slotKey{class, d, p, other}])
					}
				}
			}
		}

		// Weekly period counts.
		for _, subject := range active {
			expr := sat.NewLinearExpr()
			for d := 0; d < NumDays; d++ {
				for p := 0; p < NumPeriods; p++ {
					expr.Add(x[slotKey{class, d, p, subject}])
				}
			}
			model.AddEquality(expr, int64(cc.PeriodsPerSubject[subject]))
		}

		// Lab runs: a start implies three contiguous slots; exactly one run
		// per lab; at most one lab run per day.
		for _, subject := range cc.Labs {
			starts := sat.NewLinearExpr()
			for d := 0; d < NumDays-1; d++ {
				for _, p := range labStartPeriods {
					start := labStart[slotKey{class, d, p, subject}]
					starts.Add(start)
					for i := 0; i < 3; i++ {
						model.AddEquality(sat.Sum(x[slotKey{class, d, p + i, subject}]), 1).
							OnlyEnforceIf(sat.Pos(start))
					}
				}
			}
			model.AddEquality(starts, 1)
		}
		for d := 0; d < NumDays-1; d++ {
			daily := sat.NewLinearExpr()
			for _, subject := range cc.Labs {
				for _, p := range labStartPeriods {
					daily.Add(labStart[slotKey{class, d, p, subject}])
				}
			}
			if daily.Terms() > 1 {
				model.AddAtMost(daily, 1)
			}
		}

		// Tutorial runs: two contiguous slots, exactly one run.
		for _, subject := range cc.Tutorials {
			starts := sat.NewLinearExpr()
			for d := 0; d < NumDays-1; d++ {
				for _, p := range tutorialStartPeriods {
					start := tutStart[slotKey{class, d, p, subject}]
					starts.Add(start)
					for i := 0; i < 2; i++ {
						model.AddEquality(sat.Sum(x[slotKey{class, d, p + i, subject}]), 1).
							OnlyEnforceIf(sat.Pos(start))
					}
				}
			}
			model.AddEquality(starts, 1)
		}

		// First-period diversity: a subject opens the day at most once a week.
		for _, subject := range active {
			expr := sat.NewLinearExpr()
			for d := 0; d < NumDays; d++ {
				expr.Add(x[slotKey{class, d, 0, subject}])
			}
			model.AddAtMost(expr, 1)
		}

		// Library-style subjects sit only in the mid-morning or last period.
		for _, subject := range cc.Subjects {
			if !IsLibrarySubject(subject) {
				continue
			}
			expr := sat.NewLinearExpr()
			for d := 0; d < NumDays; d++ {
				for p := 0; p < NumPeriods; p++ {
					if !libraryPeriods[p] {
						expr.Add(x[slotKey{class, d, p, subject}])
					}
				}
			}
			model.AddEquality(expr, 0)
		}
	}

	// Instructor non-conflict across classes, per the fixed assignment.
	for _, staff := range cfg.Staff {
		for d := 0; d < NumDays; d++ {
			for p := 0; p < NumPeriods; p++ {
				expr := sat.NewLinearExpr()
				for _, class := range cfg.Classes {
					for _, subject := range cfg.ClassData[class].ActiveSubjects() {
						if contains(assignments[class][subject], staff) {
							expr.Add(x[slotKey{class, d, p, subject}])
						}
					}
				}
				if expr.Terms() > 1 {
					model.AddAtMost(expr, 1)
				}
			}
		}
	}

	// Core lectures: hard daily cap of two, soft penalty on any doubling.
	penalties := sat.NewLinearExpr()
	for _, class := range cfg.Classes {
		cc := cfg.ClassData[class]
		for _, subject := range cc.Subjects {
			if !isCoreLecture(subject, cfg) || cc.IsElectiveMember(subject) {
				continue
			}
			for d := 0; d < NumDays; d++ {
				daily := sat.NewLinearExpr()
				for p := 0; p < NumPeriods; p++ {
					daily.Add(x[slotKey{class, d, p, subject}])
				}
				model.AddAtMost(daily, 2)

				repeated := model.NewBoolVar(fmt.Sprintf("rep_c%d_d%d_s%d", classIdx[class], d, subjectIdx[subject]))
				model.AddAtLeast(daily, 2).OnlyEnforceIf(sat.Pos(repeated))
				model.AddAtMost(daily, 1).OnlyEnforceIf(sat.Neg(repeated))
				model.Hint(repeated, 0)
				penalties.Add(repeated)
			}
		}
	}
	if penalties.Terms() > 0 {
		model.Minimize(penalties)
	}

	solver := sat.NewSolver(sat.Params{
		TimeLimit: e.opts.TimeLimit,
		Seed:      e.opts.Seed,
		Workers:   e.opts.Workers,
	})
	res := solver.Solve(model)
	e.logger.Info("timetable scheduling solved",
		zap.String("status", res.Status.String()),
		zap.Int64("repetition_penalty", res.Objective),
		zap.Duration("wall_time", res.WallTime),
		zap.Int64("branches", res.Branches),
	)

	switch res.Status {
	case sat.StatusOptimal, sat.StatusFeasible:
	case sat.StatusUnknown:
		return nil, 0, &SolverTimeoutError{Limit: e.opts.TimeLimit}
	default:
		return nil, 0, &SchedulingInfeasibleError{Detail: res.Status.String()}
	}

	placement := make(Placement, len(cfg.Classes))
	for _, class := range cfg.Classes {
		cc := cfg.ClassData[class]
		byClass := make(ClassPlacement)
		for _, subject := range cc.ActiveSubjects() {
			grid := &SubjectGrid{}
			for d := 0; d < NumDays; d++ {
				for p := 0; p < NumPeriods; p++ {
					grid[d][p] = res.BoolValue(x[slotKey{class, d, p, subject}])
				}
			}
			byClass[subject] = grid
		}
		placement[class] = byClass
	}
	return placement, res.Objective, nil
}
