package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/AnanthuNarashimman/Skeduler/internal/models"
)

// TeacherRepository provides database access for instructor accounts.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository creates a new instance of TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// FindByUsername returns an active teacher by username.
func (r *TeacherRepository) FindByUsername(ctx context.Context, username string) (*models.Teacher, error) {
	const query = `SELECT id, name, username, password_hash, email, department, is_active, created_at
FROM teachers WHERE username = $1 AND is_active = TRUE LIMIT 1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher by username: %w", err)
	}
	return &teacher, nil
}

// FindByID returns an active teacher by identifier.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	const query = `SELECT id, name, username, password_hash, email, department, is_active, created_at
FROM teachers WHERE id = $1 AND is_active = TRUE LIMIT 1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher by id: %w", err)
	}
	return &teacher, nil
}

// Create inserts a teacher account. A duplicate username returns
// ErrUsernameTaken so the seeder can skip existing entries.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = time.Now().UTC()
	}
	teacher.Active = true

	const query = `
INSERT INTO teachers (id, name, username, password_hash, email, department, is_active, created_at)
VALUES (:id, :name, :username, :password_hash, :email, :department, :is_active, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.db, query, teacher); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrUsernameTaken
		}
		return fmt.Errorf("insert teacher: %w", err)
	}
	return nil
}

// UpdatePassword updates the stored password hash.
func (r *TeacherRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE teachers SET password_hash = $2 WHERE id = $1 AND is_active = TRUE`
	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update teacher password: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("teacher rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListActive returns all active teachers ordered by name.
func (r *TeacherRepository) ListActive(ctx context.Context) ([]models.Teacher, error) {
	const query = `SELECT id, name, username, password_hash, email, department, is_active, created_at
FROM teachers WHERE is_active = TRUE ORDER BY name`
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// ErrUsernameTaken signals a duplicate username on insert.
var ErrUsernameTaken = errors.New("username already exists")
