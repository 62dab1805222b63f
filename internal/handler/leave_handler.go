package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campus-ops/staff-attendance-api/internal/dto"
	"github.com/campus-ops/staff-attendance-api/internal/models"
	"github.com/campus-ops/staff-attendance-api/internal/service"
	appErrors "github.com/campus-ops/staff-attendance-api/pkg/errors"
	"github.com/campus-ops/staff-attendance-api/pkg/response"
)

type leaveService interface {
	List(ctx context.Context, session *models.Session, filters service.RecordFilters) (*dto.LeaveListResponse, error)
	Submit(ctx context.Context, session *models.Session, req dto.SubmitLeaveRequest) (*models.LeaveRequest, error)
	Respond(ctx context.Context, session *models.Session, id int64, req dto.RespondLeaveRequest) (*models.LeaveRequest, error)
}

// LeaveHandler wires leave request endpoints to the service.
type LeaveHandler struct {
	service leaveService
}

// NewLeaveHandler constructs the handler.
func NewLeaveHandler(service leaveService) *LeaveHandler {
	return &LeaveHandler{service: service}
}

// List godoc
// @Summary List leave requests
// @Description Returns the caller's scoped leave requests with the requested filters applied
// @Tags Leave
// @Produce json
// @Param dateMode query string false "all, today, week or month"
// @Param department query string false "Department name or all"
// @Param status query string false "Leave status or all"
// @Param role query string false "Staff role or all"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /leave [get]
func (h *LeaveHandler) List(c *gin.Context) {
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

// Submit godoc
// @Summary Submit leave request
// @Description Create a pending leave request for the current staff member
// @Tags Leave
// @Accept json
// @Produce json
// @Param payload body dto.SubmitLeaveRequest true "Leave payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /leave [post]
func (h *LeaveHandler) Submit(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid leave payload"))
		return
	}

	stored, err := h.service.Submit(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, stored)
}

// Respond godoc
// @Summary Respond to a leave request
// @Description Approve or reject a pending leave request; terminal states are immutable
// @Tags Leave
// @Accept json
// @Produce json
// @Param id path int true "Leave request ID"
// @Param payload body dto.RespondLeaveRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /leave/{id}/respond [post]
func (h *LeaveHandler) Respond(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid leave request id"))
		return
	}

	var req dto.RespondLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid response payload"))
		return
	}

	updated, err := h.service.Respond(c.Request.Context(), session, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, updated, nil)
}
