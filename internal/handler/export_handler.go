package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-ops/staff-attendance-api/internal/dto"
	"github.com/campus-ops/staff-attendance-api/internal/models"
	"github.com/campus-ops/staff-attendance-api/internal/service"
	appErrors "github.com/campus-ops/staff-attendance-api/pkg/errors"
	"github.com/campus-ops/staff-attendance-api/pkg/response"
)

type exportService interface {
	ExportAttendance(ctx context.Context, session *models.Session, filters service.RecordFilters, format service.ExportFormat) (*dto.ExportFile, error)
	ExportLeave(ctx context.Context, session *models.Session, filters service.RecordFilters, format service.ExportFormat) (*dto.ExportFile, error)
}

// ExportHandler streams synchronous report downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Attendance godoc
// @Summary Export attendance records
// @Description Download the caller's current filtered attendance view as CSV or PDF
// @Tags Exports
// @Produce text/csv
// @Param format query string false "csv or pdf"
// @Param dateMode query string false "all, today, week or month"
// @Param department query string false "Department name or all"
// @Param status query string false "Attendance status or all"
// @Param role query string false "Staff role or all"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /exports/attendance [get]
func (h *ExportHandler) Attendance(c *gin.Context) {
	h.serve(c, h.service.ExportAttendance)
}

// Leave godoc
// @Summary Export leave requests
// @Description Download the caller's current filtered leave view as CSV or PDF
// @Tags Exports
// @Produce text/csv
// @Param format query string false "csv or pdf"
// @Param dateMode query string false "all, today, week or month"
// @Param department query string false "Department name or all"
// @Param status query string false "Leave status or all"
// @Param role query string false "Staff role or all"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /exports/leave [get]
func (h *ExportHandler) Leave(c *gin.Context) {
	h.serve(c, h.service.ExportLeave)
}

func (h *ExportHandler) serve(c *gin.Context, render func(context.Context, *models.Session, service.RecordFilters, service.ExportFormat) (*dto.ExportFile, error)) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filters, err := parseRecordFilters(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := render(c.Request.Context(), session, filters, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
