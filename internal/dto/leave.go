package dto

import "github.com/campus-ops/staff-attendance-api/internal/models"

// SubmitLeaveRequest is the payload for creating a leave request.
type SubmitLeaveRequest struct {
	LeaveType models.LeaveType `json:"leave_type" validate:"required"`
	StartDate string           `json:"start_date" validate:"required"`
	EndDate   string           `json:"end_date" validate:"required"`
	Reason    string           `json:"reason" validate:"required,min=3,max=500"`
}

// RespondLeaveRequest carries the terminal decision for a pending request.
type RespondLeaveRequest struct {
	Status models.LeaveStatus `json:"status" validate:"required"`
}

// LeaveListResponse carries the scoped, filtered leave set plus the department
// options derived from it.
type LeaveListResponse struct {
	Records     []models.LeaveRow `json:"records"`
	Departments []string          `json:"departments"`
	Total       int               `json:"total"`
}
