package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AnanthuNarashimman/Skeduler/internal/adapter"
	"github.com/AnanthuNarashimman/Skeduler/internal/dto"
	"github.com/AnanthuNarashimman/Skeduler/internal/engine"
	"github.com/AnanthuNarashimman/Skeduler/internal/middleware"
	"github.com/AnanthuNarashimman/Skeduler/internal/models"
	appErrors "github.com/AnanthuNarashimman/Skeduler/pkg/errors"
	"github.com/AnanthuNarashimman/Skeduler/pkg/response"
)

type timetableManager interface {
	GenerateFromWorkbook(ctx context.Context, r io.Reader) (*dto.GenerateResponse, error)
	GenerateFromConfig(ctx context.Context, cfg *engine.Config) (*dto.GenerateResponse, error)
	GenerateAsync(ctx context.Context, cfg *engine.Config) (*dto.GenerateJobResponse, error)
	SaveAll(ctx context.Context, req dto.SaveTimetableRequest) (*dto.SaveTimetableResponse, error)
	List(ctx context.Context, query dto.TimetableQuery) ([]models.TimetableWithMeta, error)
	Get(ctx context.Context, id string) (*models.TimetableWithMeta, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context, department string) error
	ExportPDF(ctx context.Context, id string) ([]byte, string, error)
	MySchedule(ctx context.Context, teacherName string) (map[string]map[string][]string, error)
}

// TimetableHandler exposes timetable generation and storage endpoints.
type TimetableHandler struct {
	service   timetableManager
	maxUpload int64
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(service timetableManager, maxUpload int64) *TimetableHandler {
	if maxUpload <= 0 {
		maxUpload = 10 * 1024 * 1024
	}
	return &TimetableHandler{service: service, maxUpload: maxUpload}
}

// Upload godoc
// @Summary Upload a department workbook and generate the timetable
// @Tags Timetables
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Department workbook (.xlsx)"
// @Success 200 {object} dto.GenerateResponse
// @Router /schedule/upload [post]
func (h *TimetableHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.GenerateResponse{Status: "error", Message: "No file part"})
		return
	}
	defer file.Close() //nolint:errcheck
	if header.Size > h.maxUpload {
		c.JSON(http.StatusBadRequest, dto.GenerateResponse{Status: "error", Message: "file exceeds upload limit"})
		return
	}

	result, err := h.service.GenerateFromWorkbook(c.Request.Context(), file)
	if err != nil {
		writeGenerateError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Generate godoc
// @Summary Generate a timetable from a configuration record
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body engine.Config true "Configuration record"
// @Success 200 {object} dto.GenerateResponse
// @Router /schedule/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var cfg engine.Config
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, dto.GenerateResponse{Status: "error", Message: "invalid configuration payload"})
		return
	}
	result, err := h.service.GenerateFromConfig(c.Request.Context(), &cfg)
	if err != nil {
		writeGenerateError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GenerateAsync godoc
// @Summary Queue a timetable generation run
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body engine.Config true "Configuration record"
// @Success 202 {object} response.Envelope
// @Router /schedule/generate-async [post]
func (h *TimetableHandler) GenerateAsync(c *gin.Context) {
	var cfg engine.Config
	if err := c.ShouldBindJSON(&cfg); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid configuration payload"))
		return
	}
	job, err := h.service.GenerateAsync(c.Request.Context(), &cfg)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Save godoc
// @Summary Persist a generated timetable, one row per class
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.SaveTimetableRequest true "Save timetable payload"
// @Success 200 {object} dto.SaveTimetableResponse
// @Router /timetables [post]
func (h *TimetableHandler) Save(c *gin.Context) {
	var req dto.SaveTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Missing schedule data"))
		return
	}
	result, err := h.service.SaveAll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List godoc
// @Summary List stored timetables
// @Tags Timetables
// @Produce json
// @Param department query string false "Department filter"
// @Param limit query int false "Maximum results"
// @Success 200 {object} response.Envelope
// @Router /timetables [get]
func (h *TimetableHandler) List(c *gin.Context) {
	var query dto.TimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	list, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"count": len(list), "timetables": list}, nil)
}

// Get godoc
// @Summary Fetch one stored timetable
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	row, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, row, nil)
}

// Delete godoc
// @Summary Soft-delete a stored timetable
// @Tags Timetables
// @Param id path string true "Timetable ID"
// @Success 204
// @Router /timetables/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteAll godoc
// @Summary Delete all stored timetables
// @Tags Timetables
// @Param department query string false "Department filter"
// @Success 204
// @Router /timetables [delete]
func (h *TimetableHandler) DeleteAll(c *gin.Context) {
	if err := h.service.DeleteAll(c.Request.Context(), c.Query("department")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportPDF godoc
// @Summary Download a stored timetable as PDF
// @Tags Timetables
// @Produce application/pdf
// @Param id path string true "Timetable ID"
// @Success 200
// @Router /timetables/{id}/export.pdf [get]
func (h *TimetableHandler) ExportPDF(c *gin.Context) {
	data, filename, err := h.service.ExportPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// ExportWorkbook godoc
// @Summary Convert a configuration record back into a department workbook
// @Tags Timetables
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param payload body engine.Config true "Configuration record"
// @Success 200
// @Router /configuration/export [post]
func (h *TimetableHandler) ExportWorkbook(c *gin.Context) {
	var cfg engine.Config
	if err := c.ShouldBindJSON(&cfg); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid configuration payload"))
		return
	}
	data, err := adapter.ExportWorkbook(&cfg)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build workbook"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="department_data.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// MySchedule godoc
// @Summary Return the authenticated teacher's slots across active timetables
// @Tags Timetables
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /my-schedule [get]
func (h *TimetableHandler) MySchedule(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	schedule, err := h.service.MySchedule(c.Request.Context(), claims.TeacherName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// writeGenerateError emits the boundary output record for engine failures,
// keeping the {status, message} contract of the generation endpoints.
func writeGenerateError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.JSON(appErr.Status, dto.GenerateResponse{Status: "error", Message: appErr.Message})
}
