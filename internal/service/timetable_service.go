package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AnanthuNarashimman/Skeduler/internal/adapter"
	"github.com/AnanthuNarashimman/Skeduler/internal/dto"
	"github.com/AnanthuNarashimman/Skeduler/internal/engine"
	"github.com/AnanthuNarashimman/Skeduler/internal/models"
	appErrors "github.com/AnanthuNarashimman/Skeduler/pkg/errors"
	"github.com/AnanthuNarashimman/Skeduler/pkg/export"
	"github.com/AnanthuNarashimman/Skeduler/pkg/jobs"
)

type timetableRepository interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	Create(ctx context.Context, exec sqlx.ExtContext, t *models.Timetable, meta *models.TimetableMetadata) error
	List(ctx context.Context, department string, limit int) ([]models.TimetableWithMeta, error)
	FindByID(ctx context.Context, id string) (*models.TimetableWithMeta, error)
	SoftDelete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context, exec sqlx.ExtContext, department string) error
}

type timetableGenerator interface {
	Generate(ctx context.Context, cfg *engine.Config) (*engine.Result, error)
}

// ScheduleCache is the subset of the redis client the service needs.
type ScheduleCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type generationQueue interface {
	Enqueue(job jobs.Job) error
}

type generationObserver interface {
	ObserveGeneration(outcome string, elapsed time.Duration)
}

type pdfRenderer interface {
	Render(tables []export.TimetablePDF) ([]byte, error)
}

// TimetableServiceConfig governs persistence behaviour.
type TimetableServiceConfig struct {
	Department string
	CacheTTL   time.Duration
}

// TimetableService runs the generation pipeline and manages stored
// timetables.
type TimetableService struct {
	repo      timetableRepository
	generator timetableGenerator
	cache     ScheduleCache
	queue     generationQueue
	pdf       pdfRenderer
	metrics   generationObserver
	validator *validator.Validate
	logger    *zap.Logger
	cfg       TimetableServiceConfig
}

// NewTimetableService wires the service dependencies.
func NewTimetableService(
	repo timetableRepository,
	generator timetableGenerator,
	cache ScheduleCache,
	queue generationQueue,
	pdf pdfRenderer,
	metrics generationObserver,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableServiceConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Department == "" {
		cfg.Department = "CSE"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &TimetableService{
		repo:      repo,
		generator: generator,
		cache:     cache,
		queue:     queue,
		pdf:       pdf,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// AttachQueue installs the asynchronous generation queue once it has been
// started with this service's job handler.
func (s *TimetableService) AttachQueue(q generationQueue) {
	s.queue = q
}

// GenerateFromWorkbook parses an uploaded department workbook and runs the
// constraint pipeline over it.
func (s *TimetableService) GenerateFromWorkbook(ctx context.Context, r io.Reader) (*dto.GenerateResponse, error) {
	cfg, err := adapter.ParseWorkbook(r)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnsupportedSpreadsheet.Code, appErrors.ErrUnsupportedSpreadsheet.Status, "failed to parse workbook")
	}
	return s.GenerateFromConfig(ctx, cfg)
}

// GenerateFromConfig runs the constraint pipeline over an already-built
// configuration record.
func (s *TimetableService) GenerateFromConfig(ctx context.Context, cfg *engine.Config) (*dto.GenerateResponse, error) {
	start := time.Now()
	result, err := s.generator.Generate(ctx, cfg)
	if err != nil {
		mapped := mapEngineError(err)
		s.observeGeneration(appErrors.FromError(mapped).Code, start)
		return nil, mapped
	}
	s.observeGeneration("SUCCESS", start)
	s.logger.Info("timetable generated",
		zap.Int("classes", len(cfg.Classes)),
		zap.Int64("max_workload", result.MaxWorkload),
		zap.Int64("repetition_penalty", result.Penalty),
	)
	return &dto.GenerateResponse{Status: "success", Schedule: result.Schedule}, nil
}

func (s *TimetableService) observeGeneration(outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveGeneration(outcome, time.Since(start))
	}
}

// GenerateAsync queues a generation-and-save run and returns the job id.
func (s *TimetableService) GenerateAsync(ctx context.Context, cfg *engine.Config) (*dto.GenerateJobResponse, error) {
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "generation queue unavailable")
	}
	if err := cfg.Validate(); err != nil {
		return nil, mapEngineError(err)
	}
	jobID := uuid.NewString()
	err := s.queue.Enqueue(jobs.Job{ID: jobID, Type: "generate_timetable", Payload: cfg})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "generation queue is full")
	}
	return &dto.GenerateJobResponse{JobID: jobID, Message: "generation queued"}, nil
}

// HandleGenerationJob is the queue worker: it generates and persists the
// schedule under the configured department.
func (s *TimetableService) HandleGenerationJob(ctx context.Context, job jobs.Job) error {
	cfg, ok := job.Payload.(*engine.Config)
	if !ok {
		return fmt.Errorf("job %s carries no configuration", job.ID)
	}
	result, err := s.GenerateFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	_, err = s.SaveAll(ctx, dto.SaveTimetableRequest{
		ScheduleData: result.Schedule,
		Department:   s.cfg.Department,
	})
	return err
}

// SaveAll wipes the department's previous timetables and stores each class
// of the schedule as its own row, within a single transaction.
func (s *TimetableService) SaveAll(ctx context.Context, req dto.SaveTimetableRequest) (*dto.SaveTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save timetable payload")
	}
	department := req.Department
	if department == "" {
		department = s.cfg.Department
	}

	tx, err := s.repo.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.repo.DeleteAll(ctx, tx, department); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear previous timetables")
		return nil, err
	}

	classes := make([]string, 0, len(req.ScheduleData))
	for class := range req.ScheduleData {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	saved := make([]string, 0, len(classes))
	for _, class := range classes {
		payload, marshalErr := json.Marshal(engine.RenderedSchedule{class: req.ScheduleData[class]})
		if marshalErr != nil {
			err = appErrors.Wrap(marshalErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode schedule")
			return nil, err
		}
		row := &models.Timetable{
			Department:   department,
			Semester:     class,
			AcademicYear: req.AcademicYear,
			ScheduleData: types.JSONText(payload),
		}
		meta := &models.TimetableMetadata{
			TotalClasses:  1,
			TotalSubjects: len(req.ScheduleData[class]),
			FileName:      req.FileName,
			CreatedBy:     "Admin",
		}
		if err = s.repo.Create(ctx, tx, row, meta); err != nil {
			err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store timetable")
			return nil, err
		}
		saved = append(saved, row.ID)
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetables")
		return nil, err
	}

	s.invalidateCache(ctx, department)
	return &dto.SaveTimetableResponse{
		Message:      fmt.Sprintf("Successfully saved %d class timetables", len(saved)),
		TimetableIDs: saved,
	}, nil
}

// List returns stored timetables, serving department-scoped requests from
// cache when possible.
func (s *TimetableService) List(ctx context.Context, query dto.TimetableQuery) ([]models.TimetableWithMeta, error) {
	if query.Limit <= 0 {
		query.Limit = 50
	}
	cacheKey := ""
	if s.cache != nil && query.Department != "" && query.Limit == 50 {
		cacheKey = "timetables:active:" + query.Department
		if raw, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var cached []models.TimetableWithMeta
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}

	list, err := s.repo.List(ctx, query.Department, query.Limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetables")
	}

	if cacheKey != "" {
		if raw, err := json.Marshal(list); err == nil {
			if err := s.cache.Set(ctx, cacheKey, raw, s.cfg.CacheTTL).Err(); err != nil {
				s.logger.Warn("timetable cache write failed", zap.Error(err))
			}
		}
	}
	return list, nil
}

// Get loads one stored timetable.
func (s *TimetableService) Get(ctx context.Context, id string) (*models.TimetableWithMeta, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "timetable id is required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	return row, nil
}

// Delete soft-deletes a stored timetable.
func (s *TimetableService) Delete(ctx context.Context, id string) error {
	row, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable")
	}
	s.invalidateCache(ctx, row.Department)
	return nil
}

// DeleteAll removes every stored timetable, optionally scoped by department.
func (s *TimetableService) DeleteAll(ctx context.Context, department string) error {
	if err := s.repo.DeleteAll(ctx, nil, department); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetables")
	}
	if department != "" {
		s.invalidateCache(ctx, department)
	} else {
		s.invalidateCache(ctx, s.cfg.Department)
	}
	return nil
}

// ExportPDF renders a stored timetable as a printable document.
func (s *TimetableService) ExportPDF(ctx context.Context, id string) ([]byte, string, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	var schedule engine.RenderedSchedule
	if err := json.Unmarshal(row.ScheduleData, &schedule); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored schedule is corrupt")
	}

	classes := make([]string, 0, len(schedule))
	for class := range schedule {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	tables := make([]export.TimetablePDF, 0, len(classes))
	for _, class := range classes {
		tables = append(tables, export.TimetablePDF{
			ClassName: class,
			Days:      orderedDays(schedule[class]),
		})
	}
	data, err := s.pdf.Render(tables)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable pdf")
	}
	return data, fmt.Sprintf("timetable_%s.pdf", row.Semester), nil
}

// MySchedule filters the department's active timetables down to the slots
// taught by one instructor.
func (s *TimetableService) MySchedule(ctx context.Context, teacherName string) (map[string]map[string][]string, error) {
	if teacherName == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher name is required")
	}
	list, err := s.List(ctx, dto.TimetableQuery{Department: s.cfg.Department})
	if err != nil {
		return nil, err
	}

	out := make(map[string]map[string][]string)
	for _, row := range list {
		var schedule engine.RenderedSchedule
		if err := json.Unmarshal(row.ScheduleData, &schedule); err != nil {
			continue
		}
		for class, days := range schedule {
			filtered := make(map[string][]string, len(days))
			taught := false
			for day, slots := range days {
				rowSlots := make([]string, len(slots))
				for p, slot := range slots {
					if slotTaughtBy(slot, teacherName) {
						rowSlots[p] = slot
						taught = true
					} else {
						rowSlots[p] = engine.FreeSlot
					}
				}
				filtered[day] = rowSlots
			}
			if taught {
				out[class] = filtered
			}
		}
	}
	return out, nil
}

func (s *TimetableService) invalidateCache(ctx context.Context, department string) {
	if s.cache == nil || department == "" {
		return
	}
	if err := s.cache.Del(ctx, "timetables:active:"+department).Err(); err != nil {
		s.logger.Warn("timetable cache invalidation failed", zap.Error(err))
	}
}

// slotTaughtBy checks whether a rendered slot lists the instructor, matching
// the "SUBJECT (A & B)" format the serializer emits.
func slotTaughtBy(slot, teacher string) bool {
	open := strings.Index(slot, "(")
	if open < 0 || !strings.HasSuffix(slot, ")") {
		return false
	}
	inner := slot[open+1 : len(slot)-1]
	for _, name := range strings.Split(inner, " & ") {
		if name == teacher {
			return true
		}
	}
	return false
}

// mapEngineError translates the engine's typed failures into the HTTP error
// taxonomy.
func mapEngineError(err error) error {
	var configErr *engine.ConfigInvalidError
	if errors.As(err, &configErr) {
		return appErrors.Wrap(err, appErrors.ErrConfigInvalid.Code, appErrors.ErrConfigInvalid.Status, configErr.Error())
	}
	var budgetErr *engine.BudgetInfeasibleError
	if errors.As(err, &budgetErr) {
		return appErrors.Wrap(err, appErrors.ErrBudgetInfeasible.Code, appErrors.ErrBudgetInfeasible.Status, budgetErr.Error())
	}
	var assignErr *engine.AssignmentInfeasibleError
	if errors.As(err, &assignErr) {
		return appErrors.Wrap(err, appErrors.ErrAssignmentInfeasible.Code, appErrors.ErrAssignmentInfeasible.Status, "Staff Assignment Failed")
	}
	var schedErr *engine.SchedulingInfeasibleError
	if errors.As(err, &schedErr) {
		return appErrors.Wrap(err, appErrors.ErrSchedulingInfeasible.Code, appErrors.ErrSchedulingInfeasible.Status, "Scheduling Failed (Over-constrained)")
	}
	var timeoutErr *engine.SolverTimeoutError
	if errors.As(err, &timeoutErr) {
		return appErrors.Wrap(err, appErrors.ErrSolverTimeout.Code, appErrors.ErrSolverTimeout.Status, timeoutErr.Error())
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "timetable generation failed")
}

func orderedDays(days map[string][]string) [][]string {
	out := make([][]string, 0, engine.NumDays)
	for d := 0; d < engine.NumDays; d++ {
		out = append(out, days[fmt.Sprintf("%d", d)])
	}
	return out
}
