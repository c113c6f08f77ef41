package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/AnanthuNarashimman/Skeduler/internal/sat"
)

// Assignments records the instructor selection of the assignment phase:
// class → subject → one or two instructors, in expertise order.
type Assignments map[string]map[string][]string

// solveAssignment chooses instructors per (class, subject) so that the
// heaviest weekly load is as small as possible. Labs and tutorials get two
// instructors when at least two are qualified.
func (e *Engine) solveAssignment(cfg *Config) (Assignments, int64, error) {
	model := sat.NewModel()

	type key struct {
		class, subject, staff string
	}
	vars := make(map[key]sat.VarID)

	classIdx := indexOf(cfg.Classes)
	staffIdx := indexOf(cfg.Staff)
	subjectIdx := indexOf(cfg.Subjects)

	// Assignment variables in dense (class, subject, staff) order.
	for _, class := range cfg.Classes {
		cc := cfg.ClassData[class]
		for _, subject := range cc.ActiveSubjects() {
			for _, staff := range cfg.StaffExpertise[subject] {
				if _, known := staffIdx[staff]; !known {
					continue
				}
				name := fmt.Sprintf("assign_c%d_s%d_t%d", classIdx[class], subjectIdx[subject], staffIdx[staff])
				vars[key{class, subject, staff}] = model.NewBoolVar(name)
			}
		}
	}

	// Per-subject headcount.
	for _, class := range cfg.Classes {
		cc := cfg.ClassData[class]
		for _, subject := range cc.ActiveSubjects() {
			expr := sat.NewLinearExpr()
			qualified := 0
			for _, staff := range cfg.StaffExpertise[subject] {
				if v, ok := vars[key{class, subject, staff}]; ok {
					expr.Add(v)
					qualified++
				}
			}
			if qualified == 0 {
				return nil, 0, &AssignmentInfeasibleError{Detail: fmt.Sprintf("subject %q of class %q has no qualified staff", subject, class)}
			}
			target := int64(1)
			if (cc.IsLab(subject) || cc.IsTutorial(subject)) && qualified >= 2 {
				target = 2
			}
			model.AddEquality(expr, target)
		}
	}

	// Workload balancing: minimize the maximum weekly load.
	maxLoad := model.NewIntVar(0, PeriodsPerWeek, "max_workload")
	for _, staff := range cfg.Staff {
		load := sat.NewLinearExpr()
		for _, class := range cfg.Classes {
			cc := cfg.ClassData[class]
			for _, subject := range cc.ActiveSubjects() {
				if v, ok := vars[key{class, subject, staff}]; ok {
					load.AddTerm(v, int64(cc.PeriodsPerSubject[subject]))
				}
			}
		}
		if load.Terms() == 0 {
			continue
		}
		load.AddTerm(maxLoad, -1)
		model.AddAtMost(load, 0)
	}
	model.Minimize(sat.NewLinearExpr().Add(maxLoad))

	solver := sat.NewSolver(sat.Params{
		TimeLimit: e.opts.AssignmentTimeLimit,
		Seed:      e.opts.Seed,
		Workers:   e.opts.Workers,
	})
	res := solver.Solve(model)
	e.logger.Info("staff assignment solved",
		zap.String("status", res.Status.String()),
		zap.Int64("max_workload", res.Objective),
		zap.Duration("wall_time", res.WallTime),
	)

	switch res.Status {
	case sat.StatusOptimal, sat.StatusFeasible:
	default:
		return nil, 0, &AssignmentInfeasibleError{Detail: res.Status.String()}
	}

	out := make(Assignments, len(cfg.Classes))
	for _, class := range cfg.Classes {
		cc := cfg.ClassData[class]
		picks := make(map[string][]string)
		for _, subject := range cc.ActiveSubjects() {
			for _, staff := range cfg.StaffExpertise[subject] {
				if v, ok := vars[key{class, subject, staff}]; ok && res.BoolValue(v) {
					picks[subject] = append(picks[subject], staff)
				}
			}
		}
		out[class] = picks
	}
	return out, res.Objective, nil
}

func indexOf(names []string) map[string]int {
	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}
	return idx
}
