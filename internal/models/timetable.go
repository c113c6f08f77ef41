package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Timetable is a stored generated schedule. One row holds the rendered
// schedule of a single class; the class name doubles as the semester label,
// mirroring how departments file their sheets.
type Timetable struct {
	ID           string         `db:"id" json:"id"`
	Department   string         `db:"department" json:"department"`
	Semester     string         `db:"semester" json:"semester"`
	AcademicYear *string        `db:"academic_year" json:"academic_year,omitempty"`
	ScheduleData types.JSONText `db:"schedule_data" json:"schedule_data"`
	Active       bool           `db:"is_active" json:"is_active"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// TimetableMetadata carries provenance details for a stored timetable.
type TimetableMetadata struct {
	ID            string  `db:"id" json:"id"`
	TimetableID   string  `db:"timetable_id" json:"timetable_id"`
	TotalClasses  int     `db:"total_classes" json:"total_classes"`
	TotalSubjects int     `db:"total_subjects" json:"total_subjects"`
	FileName      *string `db:"file_name" json:"file_name,omitempty"`
	CreatedBy     string  `db:"created_by" json:"created_by"`
}

// TimetableWithMeta joins a timetable row with its metadata for list views.
type TimetableWithMeta struct {
	Timetable
	TotalClasses *int    `db:"total_classes" json:"total_classes,omitempty"`
	FileName     *string `db:"file_name" json:"file_name,omitempty"`
	CreatedBy    *string `db:"created_by" json:"created_by,omitempty"`
}
