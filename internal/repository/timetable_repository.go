package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AnanthuNarashimman/Skeduler/internal/models"
)

// TimetableRepository persists generated timetables.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs the repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

func (r *TimetableRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// BeginTxx opens a transaction for multi-row saves.
func (r *TimetableRepository) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, opts)
}

// Create inserts a timetable row with its metadata.
func (r *TimetableRepository) Create(ctx context.Context, exec sqlx.ExtContext, t *models.Timetable, meta *models.TimetableMetadata) error {
	if t == nil {
		return fmt.Errorf("timetable payload is nil")
	}
	if t.Department == "" {
		return fmt.Errorf("department is required")
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	t.Active = true

	target := r.exec(exec)

	const insertQuery = `
INSERT INTO timetables (id, department, semester, academic_year, schedule_data, is_active, created_at, updated_at)
VALUES (:id, :department, :semester, :academic_year, :schedule_data, :is_active, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, t); err != nil {
		return fmt.Errorf("insert timetable: %w", err)
	}

	if meta != nil {
		if meta.ID == "" {
			meta.ID = uuid.NewString()
		}
		meta.TimetableID = t.ID
		const metaQuery = `
INSERT INTO timetable_metadata (id, timetable_id, total_classes, total_subjects, file_name, created_by)
VALUES (:id, :timetable_id, :total_classes, :total_subjects, :file_name, :created_by)`
		if _, err := sqlx.NamedExecContext(ctx, target, metaQuery, meta); err != nil {
			return fmt.Errorf("insert timetable metadata: %w", err)
		}
	}
	return nil
}

// List returns active timetables, newest first, optionally filtered by
// department.
func (r *TimetableRepository) List(ctx context.Context, department string, limit int) ([]models.TimetableWithMeta, error) {
	if limit <= 0 {
		limit = 50
	}
	var (
		query string
		args  []interface{}
	)
	if department != "" {
		query = `SELECT t.id, t.department, t.semester, t.academic_year, t.schedule_data, t.is_active, t.created_at, t.updated_at,
tm.total_classes, tm.file_name, tm.created_by
FROM timetables t
LEFT JOIN timetable_metadata tm ON t.id = tm.timetable_id
WHERE t.department = $1 AND t.is_active = TRUE
ORDER BY t.created_at DESC
LIMIT $2`
		args = []interface{}{department, limit}
	} else {
		query = `SELECT t.id, t.department, t.semester, t.academic_year, t.schedule_data, t.is_active, t.created_at, t.updated_at,
tm.total_classes, tm.file_name, tm.created_by
FROM timetables t
LEFT JOIN timetable_metadata tm ON t.id = tm.timetable_id
WHERE t.is_active = TRUE
ORDER BY t.created_at DESC
LIMIT $1`
		args = []interface{}{limit}
	}
	var out []models.TimetableWithMeta
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list timetables: %w", err)
	}
	return out, nil
}

// FindByID loads one timetable with its metadata.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.TimetableWithMeta, error) {
	const query = `SELECT t.id, t.department, t.semester, t.academic_year, t.schedule_data, t.is_active, t.created_at, t.updated_at,
tm.total_classes, tm.file_name, tm.created_by
FROM timetables t
LEFT JOIN timetable_metadata tm ON t.id = tm.timetable_id
WHERE t.id = $1`
	var row models.TimetableWithMeta
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// SoftDelete marks a timetable inactive.
func (r *TimetableRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE timetables SET is_active = FALSE, updated_at = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("soft delete timetable: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteAll removes timetables, optionally scoped to a department. Saving a
// fresh generation wipes the department's previous rows first.
func (r *TimetableRepository) DeleteAll(ctx context.Context, exec sqlx.ExtContext, department string) error {
	target := r.exec(exec)
	var err error
	if department != "" {
		_, err = target.ExecContext(ctx, `DELETE FROM timetables WHERE department = $1`, department)
	} else {
		_, err = target.ExecContext(ctx, `DELETE FROM timetables`)
	}
	if err != nil {
		return fmt.Errorf("delete timetables: %w", err)
	}
	return nil
}
