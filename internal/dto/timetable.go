package dto

import "github.com/AnanthuNarashimman/Skeduler/internal/engine"

// GenerateResponse mirrors the boundary output record of the engine: either
// a schedule keyed by class and stringified day index, or an error message.
type GenerateResponse struct {
	Status   string                  `json:"status"`
	Schedule engine.RenderedSchedule `json:"schedule,omitempty"`
	Message  string                  `json:"message,omitempty"`
}

// SaveTimetableRequest persists a generated schedule. The schedule may span
// several classes; each class is stored as its own timetable row.
type SaveTimetableRequest struct {
	ScheduleData engine.RenderedSchedule `json:"schedule_data" validate:"required,min=1"`
	Department   string                  `json:"department"`
	AcademicYear *string                 `json:"academic_year"`
	FileName     *string                 `json:"file_name"`
}

// SaveTimetableResponse reports the stored rows.
type SaveTimetableResponse struct {
	Message      string   `json:"message"`
	TimetableIDs []string `json:"timetable_ids"`
}

// TimetableQuery filters the stored timetable listing.
type TimetableQuery struct {
	Department string `form:"department"`
	Limit      int    `form:"limit"`
}

// GenerateJobResponse acknowledges an asynchronous generation request.
type GenerateJobResponse struct {
	JobID   string `json:"jobId"`
	Message string `json:"message"`
}
