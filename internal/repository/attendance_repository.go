package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campus-ops/staff-attendance-api/internal/models"
)

// AttendanceRepository provides database access for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const attendanceColumns = `a.id, a.user_id, a.schedule_id, a.date, a.status, a.marked_by, a.marked_at, a.created_at, a.updated_at,
	u.full_name AS staff_name, u.role AS staff_role, u.department_id AS dept_id,
	d.name AS department_name, s.title AS schedule_title, s.start_time, s.end_time`

// List returns attendance rows joined with the subject staff member, their
// department and the schedule slot. Rows are ordered newest first; in-memory
// filters downstream preserve this order.
func (r *AttendanceRepository) List(ctx context.Context, query models.AttendanceQuery) ([]models.AttendanceRow, error) {
	baseQuery := fmt.Sprintf(`SELECT %s
	FROM attendance a
	JOIN users u ON u.id = a.user_id
	LEFT JOIN departments d ON d.id = u.department_id
	LEFT JOIN schedules s ON s.id = a.schedule_id
	WHERE 1=1`, attendanceColumns)

	var conditions []string
	var args []interface{}
	if query.DepartmentID != nil {
		conditions = append(conditions, fmt.Sprintf("u.department_id = $%d", len(args)+1))
		args = append(args, *query.DepartmentID)
	}
	if query.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("a.user_id = $%d", len(args)+1))
		args = append(args, *query.UserID)
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY a.date DESC, a.id DESC"

	var rows []models.AttendanceRow
	if err := r.db.SelectContext(ctx, &rows, baseQuery, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return rows, nil
}

// Mark upserts the attendance record for (user_id, date, schedule_id). A
// repeat mark overwrites the prior status; concurrent marks resolve to
// last-write-wins through the unique constraint.
func (r *AttendanceRepository) Mark(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	const query = `INSERT INTO attendance (user_id, schedule_id, date, status, marked_by, marked_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	ON CONFLICT (user_id, date, schedule_id)
	DO UPDATE SET status = EXCLUDED.status, marked_by = EXCLUDED.marked_by, marked_at = EXCLUDED.marked_at, updated_at = EXCLUDED.updated_at
	RETURNING id, user_id, schedule_id, date, status, marked_by, marked_at, created_at, updated_at`

	now := time.Now().UTC()
	var stored models.AttendanceRecord
	if err := r.db.GetContext(ctx, &stored, query, record.UserID, record.ScheduleID, record.Date, record.Status, record.MarkedBy, record.MarkedAt, now); err != nil {
		return nil, fmt.Errorf("mark attendance: %w", err)
	}
	return &stored, nil
}

// DailySchedule returns the per-person schedule+status view for a single day.
// Every active staff member's slots for the weekday appear, with attendance
// fields nil where nothing has been marked yet.
func (r *AttendanceRepository) DailySchedule(ctx context.Context, date string, weekday int, query models.AttendanceQuery) ([]models.DailyScheduleRow, error) {
	baseQuery := `SELECT u.id AS user_id, u.full_name AS staff_name, u.role AS staff_role, d.name AS department_name,
	s.id AS schedule_id, s.title AS schedule_title, s.start_time, s.end_time,
	a.id AS record_id, a.status
	FROM users u
	JOIN schedules s ON s.department_id = u.department_id AND s.weekday = $1
	LEFT JOIN departments d ON d.id = u.department_id
	LEFT JOIN attendance a ON a.user_id = u.id AND a.schedule_id = s.id AND a.date = $2
	WHERE u.status = 'ACTIVE'`

	args := []interface{}{weekday, date}
	if query.DepartmentID != nil {
		baseQuery += fmt.Sprintf(" AND u.department_id = $%d", len(args)+1)
		args = append(args, *query.DepartmentID)
	}
	if query.UserID != nil {
		baseQuery += fmt.Sprintf(" AND u.id = $%d", len(args)+1)
		args = append(args, *query.UserID)
	}
	baseQuery += " ORDER BY u.full_name ASC, s.start_time ASC"

	var rows []models.DailyScheduleRow
	if err := r.db.SelectContext(ctx, &rows, baseQuery, args...); err != nil {
		return nil, fmt.Errorf("daily schedule: %w", err)
	}
	return rows, nil
}

// CountByStatusOnDate aggregates attendance statuses for one day, optionally
// restricted to a department or a single staff member.
func (r *AttendanceRepository) CountByStatusOnDate(ctx context.Context, date string, query models.AttendanceQuery) (map[models.AttendanceStatus]int, error) {
	baseQuery := `SELECT a.status, COUNT(*) AS count
	FROM attendance a
	JOIN users u ON u.id = a.user_id
	WHERE a.date = $1`

	args := []interface{}{date}
	if query.DepartmentID != nil {
		baseQuery += fmt.Sprintf(" AND u.department_id = $%d", len(args)+1)
		args = append(args, *query.DepartmentID)
	}
	if query.UserID != nil {
		baseQuery += fmt.Sprintf(" AND a.user_id = $%d", len(args)+1)
		args = append(args, *query.UserID)
	}
	baseQuery += " GROUP BY a.status"

	rows := []struct {
		Status models.AttendanceStatus `db:"status"`
		Count  int                     `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, baseQuery, args...); err != nil {
		return nil, fmt.Errorf("count attendance by status: %w", err)
	}

	counts := make(map[models.AttendanceStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
