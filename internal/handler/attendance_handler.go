package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-ops/staff-attendance-api/internal/dto"
	"github.com/campus-ops/staff-attendance-api/internal/models"
	"github.com/campus-ops/staff-attendance-api/internal/service"
	appErrors "github.com/campus-ops/staff-attendance-api/pkg/errors"
	"github.com/campus-ops/staff-attendance-api/pkg/response"
)

type attendanceService interface {
	List(ctx context.Context, session *models.Session, filters service.RecordFilters) (*dto.AttendanceListResponse, error)
	Mark(ctx context.Context, session *models.Session, req dto.MarkAttendanceRequest) (*models.AttendanceRecord, error)
	DailySchedule(ctx context.Context, session *models.Session, date string) (*dto.DailyScheduleResponse, error)
}

// AttendanceHandler wires attendance endpoints to the service.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// List godoc
// @Summary List attendance records
// @Description Returns the caller's scoped record set with the requested filters applied
// @Tags Attendance
// @Produce json
// @Param dateMode query string false "all, today, week or month"
// @Param department query string false "Department name or all"
// @Param status query string false "Attendance status or all"
// @Param role query string false "Staff role or all"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
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

	out, err := h.service.List(c.Request.Context(), session, filters)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, out, nil)
}

// Mark godoc
// @Summary Mark attendance
// @Description Upsert the status for one staff member on one date
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.MarkAttendanceRequest true "Mark payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /attendance/mark [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mark payload"))
		return
	}

	stored, err := h.service.Mark(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, stored, nil)
}

// Daily godoc
// @Summary Daily schedule view
// @Description Per-person schedule slots with attendance status for one day
// @Tags Attendance
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD). Defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance/daily [get]
func (h *AttendanceHandler) Daily(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	out, err := h.service.DailySchedule(c.Request.Context(), session, c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, out, nil)
}
