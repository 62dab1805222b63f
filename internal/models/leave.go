package models

import "time"

// LeaveStatus tracks the lifecycle of a leave request.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "PENDING"
	LeaveApproved LeaveStatus = "APPROVED"
	LeaveRejected LeaveStatus = "REJECTED"
)

// Valid returns true when the status is a supported value.
func (s LeaveStatus) Valid() bool {
	switch s {
	case LeavePending, LeaveApproved, LeaveRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status permits no further transition.
func (s LeaveStatus) Terminal() bool {
	return s == LeaveApproved || s == LeaveRejected
}

// LeaveType categorises leave requests.
type LeaveType string

const (
	LeaveAnnual        LeaveType = "ANNUAL"
	LeaveSick          LeaveType = "SICK"
	LeaveMaternity     LeaveType = "MATERNITY"
	LeaveStudy         LeaveType = "STUDY"
	LeaveCompassionate LeaveType = "COMPASSIONATE"
	LeaveUnpaid        LeaveType = "UNPAID"
)

// Valid returns true when the leave type is supported.
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveAnnual, LeaveSick, LeaveMaternity, LeaveStudy, LeaveCompassionate, LeaveUnpaid:
		return true
	default:
		return false
	}
}

// LeaveRequest represents a leave request row. Status starts PENDING; once a
// responder moves it to APPROVED or REJECTED the responded fields are set and
// the row is immutable.
type LeaveRequest struct {
	ID          int64       `db:"id" json:"id"`
	UserID      int64       `db:"user_id" json:"user_id"`
	LeaveType   LeaveType   `db:"leave_type" json:"leave_type"`
	StartDate   string      `db:"start_date" json:"start_date"`
	EndDate     string      `db:"end_date" json:"end_date"`
	Reason      string      `db:"reason" json:"reason"`
	Status      LeaveStatus `db:"status" json:"status"`
	SubmittedAt time.Time   `db:"submitted_at" json:"submitted_at"`
	RespondedAt *time.Time  `db:"responded_at" json:"responded_at,omitempty"`
	RespondedBy *int64      `db:"responded_by" json:"responded_by,omitempty"`
}

// LeaveRow extends the request with requester and responder metadata.
type LeaveRow struct {
	LeaveRequest
	StaffName      string    `db:"staff_name" json:"staff_name"`
	StaffRole      StaffRole `db:"staff_role" json:"staff_role"`
	DepartmentID   *int64    `db:"dept_id" json:"dept_id,omitempty"`
	DepartmentName *string   `db:"department_name" json:"department_name,omitempty"`
	ResponderName  *string   `db:"responder_name" json:"responder_name,omitempty"`
}

// LeaveQuery scopes the repository fetch by department or requester.
type LeaveQuery struct {
	DepartmentID *int64
	UserID       *int64
}
