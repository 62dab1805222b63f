package dto

import "github.com/campus-ops/staff-attendance-api/internal/models"

// MarkAttendanceRequest is the payload for marking a staff member. ScheduleID
// zero targets the whole-day record.
type MarkAttendanceRequest struct {
	UserID     int64                   `json:"user_id" validate:"required,gt=0"`
	ScheduleID int64                   `json:"schedule_id" validate:"gte=0"`
	Date       string                  `json:"date" validate:"required"`
	Status     models.AttendanceStatus `json:"status" validate:"required"`
}

// AttendanceListResponse carries the scoped, filtered record set plus the
// department options derived from it.
type AttendanceListResponse struct {
	Records     []models.AttendanceRow `json:"records"`
	Departments []string               `json:"departments"`
	Total       int                    `json:"total"`
}

// DailyScheduleResponse is the per-slot view for one calendar day.
type DailyScheduleResponse struct {
	Date string                    `json:"date"`
	Rows []models.DailyScheduleRow `json:"rows"`
}
