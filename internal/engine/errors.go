package engine

import (
	"fmt"
	"time"
)

// ConfigInvalidError reports a structural or referential defect in the input
// record.
type ConfigInvalidError struct {
	Reason string
}

func (e *ConfigInvalidError) Error() string {
	return "invalid configuration: " + e.Reason
}

// BudgetInfeasibleError means a class's declared activities cannot be fitted
// into the weekly period target.
type BudgetInfeasibleError struct {
	Class     string
	Remaining int
}

func (e *BudgetInfeasibleError) Error() string {
	return fmt.Sprintf("period budget infeasible for class %q (remaining %d of %d)", e.Class, e.Remaining, PeriodsPerWeek)
}

// AssignmentInfeasibleError means the staff assignment phase found no
// instructor selection satisfying the per-subject headcounts.
type AssignmentInfeasibleError struct {
	Detail string
}

func (e *AssignmentInfeasibleError) Error() string {
	if e.Detail == "" {
		return "staff assignment infeasible"
	}
	return "staff assignment infeasible: " + e.Detail
}

// SchedulingInfeasibleError means the placement phase proved the timetable
// over-constrained.
type SchedulingInfeasibleError struct {
	Detail string
}

func (e *SchedulingInfeasibleError) Error() string {
	if e.Detail == "" {
		return "timetable scheduling infeasible"
	}
	return "timetable scheduling infeasible: " + e.Detail
}

// SolverTimeoutError means the placement phase exhausted its wall-clock
// budget before finding any solution.
type SolverTimeoutError struct {
	Limit time.Duration
}

func (e *SolverTimeoutError) Error() string {
	return fmt.Sprintf("scheduling solver exceeded the %s time limit", e.Limit)
}
