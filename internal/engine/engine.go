package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Options tunes the two solve phases. The scheduling phase is wall-clock
// bounded; the assignment phase runs unbounded by default because its models
// stay small.
type Options struct {
	TimeLimit           time.Duration
	AssignmentTimeLimit time.Duration
	Seed                int64
	Workers             int
}

// DefaultTimeLimit bounds the scheduling phase when no limit is configured.
const DefaultTimeLimit = 60 * time.Second

// Engine runs the timetable generation pipeline. It holds no state across
// invocations; every Generate call is independent and re-entrant.
type Engine struct {
	opts   Options
	logger *zap.Logger
}

// New builds an engine with the given options.
func New(logger *zap.Logger, opts Options) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TimeLimit <= 0 {
		opts.TimeLimit = DefaultTimeLimit
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Engine{opts: opts, logger: logger}
}

// Result is the immutable outcome of a successful generation.
type Result struct {
	Assignments Assignments
	Placement   Placement
	Schedule    RenderedSchedule
	MaxWorkload int64
	Penalty     int64
}

// Generate runs the full pipeline: validation, period budgeting, staff
// assignment, slot placement and rendering. Any stage failure short-circuits
// with its typed error; no partial schedule is ever returned.
func (e *Engine) Generate(ctx context.Context, cfg *Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := AllocatePeriods(cfg); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	assignments, maxLoad, err := e.solveAssignment(cfg)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	placement, penalty, err := e.solveSchedule(cfg, assignments)
	if err != nil {
		return nil, err
	}

	return &Result{
		Assignments: assignments,
		Placement:   placement,
		Schedule:    Render(cfg, placement, assignments),
		MaxWorkload: maxLoad,
		Penalty:     penalty,
	}, nil
}
