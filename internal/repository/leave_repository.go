package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campus-ops/staff-attendance-api/internal/models"
)

// LeaveRepository provides database access for leave requests.
type LeaveRepository struct {
	db *sqlx.DB
}

// NewLeaveRepository creates a new LeaveRepository.
func NewLeaveRepository(db *sqlx.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

const leaveColumns = `l.id, l.user_id, l.leave_type, l.start_date, l.end_date, l.reason, l.status, l.submitted_at, l.responded_at, l.responded_by,
	u.full_name AS staff_name, u.role AS staff_role, u.department_id AS dept_id,
	d.name AS department_name, resp.full_name AS responder_name`

// List returns leave requests joined with the requester and responder. Rows
// are ordered newest first; in-memory filters downstream preserve this order.
func (r *LeaveRepository) List(ctx context.Context, query models.LeaveQuery) ([]models.LeaveRow, error) {
	baseQuery := fmt.Sprintf(`SELECT %s
	FROM leave_requests l
	JOIN users u ON u.id = l.user_id
	LEFT JOIN departments d ON d.id = u.department_id
	LEFT JOIN users resp ON resp.id = l.responded_by
	WHERE 1=1`, leaveColumns)

	var conditions []string
	var args []interface{}
	if query.DepartmentID != nil {
		conditions = append(conditions, fmt.Sprintf("u.department_id = $%d", len(args)+1))
		args = append(args, *query.DepartmentID)
	}
	if query.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("l.user_id = $%d", len(args)+1))
		args = append(args, *query.UserID)
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY l.submitted_at DESC, l.id DESC"

	var rows []models.LeaveRow
	if err := r.db.SelectContext(ctx, &rows, baseQuery, args...); err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	return rows, nil
}

// FindByID returns a single leave request.
func (r *LeaveRepository) FindByID(ctx context.Context, id int64) (*models.LeaveRequest, error) {
	const query = `SELECT id, user_id, leave_type, start_date, end_date, reason, status, submitted_at, responded_at, responded_by FROM leave_requests WHERE id = $1 LIMIT 1`
	var request models.LeaveRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find leave request by id: %w", err)
	}
	return &request, nil
}

// Create inserts a new pending leave request.
func (r *LeaveRepository) Create(ctx context.Context, request *models.LeaveRequest) (*models.LeaveRequest, error) {
	const query = `INSERT INTO leave_requests (user_id, leave_type, start_date, end_date, reason, status, submitted_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, user_id, leave_type, start_date, end_date, reason, status, submitted_at, responded_at, responded_by`

	if request.SubmittedAt.IsZero() {
		request.SubmittedAt = time.Now().UTC()
	}
	var stored models.LeaveRequest
	if err := r.db.GetContext(ctx, &stored, query, request.UserID, request.LeaveType, request.StartDate, request.EndDate, request.Reason, models.LeavePending, request.SubmittedAt); err != nil {
		return nil, fmt.Errorf("create leave request: %w", err)
	}
	return &stored, nil
}

// Respond transitions a pending request to its terminal status. The guard on
// status makes the terminal states immutable at the store level: responding to
// an already-responded request affects zero rows.
func (r *LeaveRepository) Respond(ctx context.Context, id int64, status models.LeaveStatus, responderID int64, respondedAt time.Time) (int64, error) {
	const query = `UPDATE leave_requests SET status = $2, responded_by = $3, responded_at = $4 WHERE id = $1 AND status = $5`
	result, err := r.db.ExecContext(ctx, query, id, status, responderID, respondedAt, models.LeavePending)
	if err != nil {
		return 0, fmt.Errorf("respond to leave request: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("respond rows affected: %w", err)
	}
	return affected, nil
}

// CountOnLeave counts approved requests whose [start_date, end_date] span
// covers the given date. Dates are YYYY-MM-DD text, so the comparisons are
// lexicographic and need no casts.
func (r *LeaveRepository) CountOnLeave(ctx context.Context, date string, query models.LeaveQuery) (int, error) {
	baseQuery := `SELECT COUNT(*) FROM leave_requests l JOIN users u ON u.id = l.user_id WHERE l.status = $1 AND l.start_date <= $2 AND l.end_date >= $2`
	args := []interface{}{models.LeaveApproved, date}
	if query.DepartmentID != nil {
		baseQuery += fmt.Sprintf(" AND u.department_id = $%d", len(args)+1)
		args = append(args, *query.DepartmentID)
	}
	if query.UserID != nil {
		baseQuery += fmt.Sprintf(" AND l.user_id = $%d", len(args)+1)
		args = append(args, *query.UserID)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, baseQuery, args...); err != nil {
		return 0, fmt.Errorf("count staff on leave: %w", err)
	}
	return total, nil
}

// CountPending counts pending requests within the given scope.
func (r *LeaveRepository) CountPending(ctx context.Context, query models.LeaveQuery) (int, error) {
	baseQuery := `SELECT COUNT(*) FROM leave_requests l JOIN users u ON u.id = l.user_id WHERE l.status = $1`
	args := []interface{}{models.LeavePending}
	if query.DepartmentID != nil {
		baseQuery += fmt.Sprintf(" AND u.department_id = $%d", len(args)+1)
		args = append(args, *query.DepartmentID)
	}
	if query.UserID != nil {
		baseQuery += fmt.Sprintf(" AND l.user_id = $%d", len(args)+1)
		args = append(args, *query.UserID)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, baseQuery, args...); err != nil {
		return 0, fmt.Errorf("count pending leave requests: %w", err)
	}
	return total, nil
}
