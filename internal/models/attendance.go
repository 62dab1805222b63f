package models

import "time"

// DateLayout is the wire and storage format for calendar dates. Dates are
// persisted as text, so readers must parse defensively.
const DateLayout = "2006-01-02"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLeave   AttendanceStatus = "LEAVE"
	AttendancePending AttendanceStatus = "PENDING"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLeave, AttendancePending:
		return true
	default:
		return false
	}
}

// Markable reports whether the status may be set through the mark operation.
// LEAVE is derived from approved leave requests and PENDING is the unmarked
// default; neither is assignable by an operator.
func (s AttendanceStatus) Markable() bool {
	return s == AttendancePresent || s == AttendanceAbsent
}

// AttendanceRecord represents a single attendance row. At most one row exists
// per (user_id, date, schedule_id); the store enforces it with a unique
// constraint and marks are last-write-wins upserts. ScheduleID 0 denotes the
// whole-day record with no schedule slot.
type AttendanceRecord struct {
	ID         int64            `db:"id" json:"id"`
	UserID     int64            `db:"user_id" json:"user_id"`
	ScheduleID int64            `db:"schedule_id" json:"schedule_id,omitempty"`
	Date       string           `db:"date" json:"date"`
	Status     AttendanceStatus `db:"status" json:"status"`
	MarkedBy   *int64           `db:"marked_by" json:"marked_by,omitempty"`
	MarkedAt   *time.Time       `db:"marked_at" json:"marked_at,omitempty"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// AttendanceRow extends the record with subject staff and schedule metadata.
// Joined fields are nullable; consumers render missing values as "N/A".
type AttendanceRow struct {
	AttendanceRecord
	StaffName      string    `db:"staff_name" json:"staff_name"`
	StaffRole      StaffRole `db:"staff_role" json:"staff_role"`
	DepartmentID   *int64    `db:"dept_id" json:"dept_id,omitempty"`
	DepartmentName *string   `db:"department_name" json:"department_name,omitempty"`
	ScheduleTitle  *string   `db:"schedule_title" json:"schedule_title,omitempty"`
	StartTime      *string   `db:"start_time" json:"start_time,omitempty"`
	EndTime        *string   `db:"end_time" json:"end_time,omitempty"`
}

// AttendanceQuery scopes the repository fetch. Filtering beyond scope happens
// in memory because views consume the record set wholesale.
type AttendanceQuery struct {
	DepartmentID *int64
	UserID       *int64
}

// DailyScheduleRow is the per-person schedule+status view for a single day.
// Status and RecordID are nil until someone marks the slot.
type DailyScheduleRow struct {
	UserID         int64             `db:"user_id" json:"user_id"`
	StaffName      string            `db:"staff_name" json:"staff_name"`
	StaffRole      StaffRole         `db:"staff_role" json:"staff_role"`
	DepartmentName *string           `db:"department_name" json:"department_name,omitempty"`
	ScheduleID     int64             `db:"schedule_id" json:"schedule_id"`
	ScheduleTitle  string            `db:"schedule_title" json:"schedule_title"`
	StartTime      string            `db:"start_time" json:"start_time"`
	EndTime        string            `db:"end_time" json:"end_time"`
	RecordID       *int64            `db:"record_id" json:"record_id,omitempty"`
	Status         *AttendanceStatus `db:"status" json:"status,omitempty"`
}
