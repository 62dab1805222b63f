package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a staff member.
type LoginRequest struct {
	StaffNo   string `json:"staff_no" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued session and user info. The session id is
// also set as an HttpOnly cookie; AccessToken serves non-browser clients.
type LoginResponse struct {
	SessionID   string    `json:"-"`
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// ChangePasswordRequest payload for updating password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// UserInfo describes the authenticated staff member in responses.
type UserInfo struct {
	ID           int64     `json:"id"`
	StaffNo      string    `json:"staff_no"`
	FullName     string    `json:"full_name"`
	Role         StaffRole `json:"role"`
	DepartmentID *int64    `json:"department_id,omitempty"`
}

// Session is the server-side session payload stored in Redis. Everything
// downstream consumes it as the opaque "current user" context.
type Session struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"user_id"`
	StaffNo      string    `json:"staff_no"`
	FullName     string    `json:"full_name"`
	Role         StaffRole `json:"role"`
	DepartmentID *int64    `json:"department_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// JWTClaims represents the JWT payload for access tokens issued alongside
// sessions.
type JWTClaims struct {
	UserID       int64     `json:"user_id"`
	StaffNo      string    `json:"staff_no"`
	FullName     string    `json:"full_name"`
	Role         StaffRole `json:"role"`
	DepartmentID *int64    `json:"department_id,omitempty"`
	jwt.RegisteredClaims
}
