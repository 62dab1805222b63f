package models

import "time"

// StaffRole represents the available roles for the RBAC system.
type StaffRole string

const (
	RoleHead        StaffRole = "HEAD"
	RoleAdmin       StaffRole = "ADMIN"
	RoleModerator   StaffRole = "MODERATOR"
	RoleHRAssistant StaffRole = "HR_ASSISTANT"
	RoleTeacher     StaffRole = "TEACHER"
	RoleStaff       StaffRole = "STAFF"
)

// Valid returns true when the role is a supported value.
func (r StaffRole) Valid() bool {
	switch r {
	case RoleHead, RoleAdmin, RoleModerator, RoleHRAssistant, RoleTeacher, RoleStaff:
		return true
	default:
		return false
	}
}

// CampusWide reports whether the role sees records across all departments.
// HEAD is scoped to its own department; TEACHER and STAFF only see themselves.
func (r StaffRole) CampusWide() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleHRAssistant:
		return true
	default:
		return false
	}
}

// CanMarkAttendance reports whether the role may mark other staff.
func (r StaffRole) CanMarkAttendance() bool {
	switch r {
	case RoleHead, RoleAdmin, RoleModerator, RoleHRAssistant:
		return true
	default:
		return false
	}
}

// AccountStatus indicates whether a staff account may log in.
type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountInactive AccountStatus = "INACTIVE"
)

// User represents a staff member stored in the users table.
type User struct {
	ID           int64         `db:"id" json:"id"`
	StaffNo      string        `db:"staff_no" json:"staff_no"`
	PasswordHash string        `db:"password_hash" json:"-"`
	FullName     string        `db:"full_name" json:"full_name"`
	Role         StaffRole     `db:"role" json:"role"`
	DepartmentID *int64        `db:"department_id" json:"department_id,omitempty"`
	Status       AccountStatus `db:"status" json:"status"`
	LastLogin    *time.Time    `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// UserRow extends User with the resolved department name.
type UserRow struct {
	User
	DepartmentName *string `db:"department_name" json:"department_name,omitempty"`
}

// Department groups staff for scoping and reporting.
type Department struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role         *StaffRole
	Status       *AccountStatus
	DepartmentID *int64
	UserID       *int64
	Search       string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
