package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-ops/staff-attendance-api/internal/models"
)

func leaveRowColumns() []string {
	return []string{
		"id", "user_id", "leave_type", "start_date", "end_date", "reason", "status", "submitted_at", "responded_at", "responded_by",
		"staff_name", "staff_role", "dept_id", "department_name", "responder_name",
	}
}

func TestLeaveRepositoryListScopedToUser(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(leaveRowColumns()).
		AddRow(1, 9, "SICK", "2024-03-05", "2024-03-06", "flu", "PENDING", now, nil, nil, "Ada Lovelace", "STAFF", 3, "Science", nil)
	mock.ExpectQuery("SELECT (.+) FROM leave_requests l(.+)l.user_id = \\$1(.+)ORDER BY l.submitted_at DESC, l.id DESC").
		WithArgs(int64(9)).
		WillReturnRows(rows)

	userID := int64(9)
	out, err := repo.List(context.Background(), models.LeaveQuery{UserID: &userID})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, models.LeavePending, out[0].Status)
	assert.Equal(t, models.LeaveSick, out[0].LeaveType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	now := time.Now().UTC()
	returned := sqlmock.NewRows([]string{"id", "user_id", "leave_type", "start_date", "end_date", "reason", "status", "submitted_at", "responded_at", "responded_by"}).
		AddRow(77, 9, "SICK", "2024-03-05", "2024-03-06", "flu", "PENDING", now, nil, nil)
	mock.ExpectQuery("INSERT INTO leave_requests (.+)RETURNING").
		WithArgs(int64(9), models.LeaveSick, "2024-03-05", "2024-03-06", "flu", models.LeavePending, sqlmock.AnyArg()).
		WillReturnRows(returned)

	stored, err := repo.Create(context.Background(), &models.LeaveRequest{
		UserID: 9, LeaveType: models.LeaveSick, StartDate: "2024-03-05", EndDate: "2024-03-06", Reason: "flu",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), stored.ID)
	assert.Equal(t, models.LeavePending, stored.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryRespondGuardsPendingStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	respondedAt := time.Now().UTC()
	mock.ExpectExec("UPDATE leave_requests SET status = \\$2, responded_by = \\$3, responded_at = \\$4 WHERE id = \\$1 AND status = \\$5").
		WithArgs(int64(1), models.LeaveApproved, int64(2), respondedAt, models.LeavePending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Respond(context.Background(), 1, models.LeaveApproved, 2, respondedAt)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryRespondAlreadyTerminalAffectsNothing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	respondedAt := time.Now().UTC()
	mock.ExpectExec("UPDATE leave_requests SET status").
		WithArgs(int64(1), models.LeaveRejected, int64(2), respondedAt, models.LeavePending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.Respond(context.Background(), 1, models.LeaveRejected, 2, respondedAt)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM leave_requests WHERE id = \\$1").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 404)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestLeaveRepositoryCountOnLeaveCoversDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	dept := int64(3)
	mock.ExpectQuery("SELECT COUNT(.+) FROM leave_requests l JOIN users u(.+)l.status = \\$1 AND l.start_date <= \\$2 AND l.end_date >= \\$2 AND u.department_id = \\$3").
		WithArgs(models.LeaveApproved, "2024-03-06", dept).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	total, err := repo.CountOnLeave(context.Background(), "2024-03-06", models.LeaveQuery{DepartmentID: &dept})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryCountPending(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	dept := int64(3)
	mock.ExpectQuery("SELECT COUNT(.+) FROM leave_requests l JOIN users u(.+)l.status = \\$1 AND u.department_id = \\$2").
		WithArgs(models.LeavePending, dept).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	total, err := repo.CountPending(context.Background(), models.LeaveQuery{DepartmentID: &dept})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
