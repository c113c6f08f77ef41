package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnanthuNarashimman/Skeduler/internal/models"
)

func TestTeacherFindByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTeacherRepository(db)

	columns := []string{"id", "name", "username", "password_hash", "email", "department", "is_active", "created_at"}
	mock.ExpectQuery("SELECT .* FROM teachers WHERE username").
		WithArgs("arun.kumar").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("t-1", "Mr. Arun Kumar", "arun.kumar", "hash", nil, "CSE", true, time.Now()))

	teacher, err := repo.FindByUsername(context.Background(), "arun.kumar")
	require.NoError(t, err)
	assert.Equal(t, "t-1", teacher.ID)
	assert.True(t, teacher.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherFindByUsernameMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTeacherRepository(db)

	mock.ExpectQuery("SELECT .* FROM teachers WHERE username").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTeacherCreateAssignsID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTeacherRepository(db)

	mock.ExpectExec("INSERT INTO teachers").WillReturnResult(sqlmock.NewResult(1, 1))

	teacher := &models.Teacher{Name: "Mrs. Devi", Username: "devi", PasswordHash: "hash", Department: "CSE"}
	require.NoError(t, repo.Create(context.Background(), teacher))
	assert.NotEmpty(t, teacher.ID)
	assert.True(t, teacher.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherUpdatePasswordMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTeacherRepository(db)

	mock.ExpectExec("UPDATE teachers SET password_hash").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePassword(context.Background(), "missing", "hash")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
