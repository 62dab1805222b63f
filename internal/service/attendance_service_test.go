package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-ops/staff-attendance-api/internal/dto"
	"github.com/campus-ops/staff-attendance-api/internal/models"
	appErrors "github.com/campus-ops/staff-attendance-api/pkg/errors"
)

type fakeAttendanceRepo struct {
	rows      []models.AttendanceRow
	lastQuery models.AttendanceQuery
	marked    *models.AttendanceRecord
	daily     []models.DailyScheduleRow
	lastDate  string
	weekday   int
}

func (f *fakeAttendanceRepo) List(_ context.Context, query models.AttendanceQuery) ([]models.AttendanceRow, error) {
	f.lastQuery = query
	return f.rows, nil
}

func (f *fakeAttendanceRepo) Mark(_ context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	stored := *record
	stored.ID = 42
	f.marked = &stored
	return &stored, nil
}

func (f *fakeAttendanceRepo) DailySchedule(_ context.Context, date string, weekday int, query models.AttendanceQuery) ([]models.DailyScheduleRow, error) {
	f.lastDate = date
	f.weekday = weekday
	f.lastQuery = query
	return f.daily, nil
}

type fakeUserReader struct {
	users  map[int64]*models.User
	audits []*models.AuditLog
}

func (f *fakeUserReader) FindByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserReader) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	f.audits = append(f.audits, log)
	return nil
}

func headSession(dept int64) *models.Session {
	return &models.Session{UserID: 1, StaffNo: "H001", FullName: "Head", Role: models.RoleHead, DepartmentID: &dept}
}

func TestAttendanceListScopesHeadToDepartment(t *testing.T) {
	repo := &fakeAttendanceRepo{rows: []models.AttendanceRow{
		attendanceRow(1, time.Now().UTC().Format(models.DateLayout), models.AttendancePresent, 3, "Science", models.RoleTeacher),
		attendanceRow(2, "2020-01-01", models.AttendanceAbsent, 3, "Science", models.RoleTeacher),
	}}
	svc := NewAttendanceService(repo, &fakeUserReader{}, nil, nil, nil, nil)

	out, err := svc.List(context.Background(), headSession(3), RecordFilters{DateMode: DateModeToday})
	require.NoError(t, err)

	require.NotNil(t, repo.lastQuery.DepartmentID)
	assert.Equal(t, int64(3), *repo.lastQuery.DepartmentID)
	assert.Len(t, out.Records, 1)
	assert.Equal(t, 1, out.Total)
	assert.Equal(t, []string{"Science"}, out.Departments)
}

func TestAttendanceMarkRejectsUnmarkableStatus(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceRepo{}, &fakeUserReader{}, nil, nil, nil, nil)

	_, err := svc.Mark(context.Background(), headSession(3), dto.MarkAttendanceRequest{
		UserID: 5, Date: "2024-03-06", Status: models.AttendanceLeave,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttendanceMarkRejectsBadDate(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceRepo{}, &fakeUserReader{}, nil, nil, nil, nil)

	_, err := svc.Mark(context.Background(), headSession(3), dto.MarkAttendanceRequest{
		UserID: 5, Date: "06/03/2024", Status: models.AttendancePresent,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAttendanceMarkForbiddenForStaffRole(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceRepo{}, &fakeUserReader{}, nil, nil, nil, nil)
	session := &models.Session{UserID: 9, Role: models.RoleStaff}

	_, err := svc.Mark(context.Background(), session, dto.MarkAttendanceRequest{
		UserID: 9, Date: "2024-03-06", Status: models.AttendancePresent,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAttendanceMarkHeadCannotReachOtherDepartment(t *testing.T) {
	users := &fakeUserReader{users: map[int64]*models.User{
		5: {ID: 5, Role: models.RoleTeacher, DepartmentID: int64Ptr(7)},
	}}
	svc := NewAttendanceService(&fakeAttendanceRepo{}, users, nil, nil, nil, nil)

	_, err := svc.Mark(context.Background(), headSession(3), dto.MarkAttendanceRequest{
		UserID: 5, Date: "2024-03-06", Status: models.AttendancePresent,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAttendanceMarkUnknownStaffMember(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceRepo{}, &fakeUserReader{users: map[int64]*models.User{}}, nil, nil, nil, nil)

	_, err := svc.Mark(context.Background(), headSession(3), dto.MarkAttendanceRequest{
		UserID: 404, Date: "2024-03-06", Status: models.AttendancePresent,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAttendanceMarkSuccessRecordsMarkerAndAudit(t *testing.T) {
	repo := &fakeAttendanceRepo{}
	users := &fakeUserReader{users: map[int64]*models.User{
		5: {ID: 5, Role: models.RoleTeacher, DepartmentID: int64Ptr(3)},
	}}
	svc := NewAttendanceService(repo, users, nil, nil, nil, nil)

	stored, err := svc.Mark(context.Background(), headSession(3), dto.MarkAttendanceRequest{
		UserID: 5, ScheduleID: 11, Date: "2024-03-06", Status: models.AttendanceAbsent,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), stored.ID)
	assert.Equal(t, models.AttendanceAbsent, stored.Status)
	require.NotNil(t, stored.MarkedBy)
	assert.Equal(t, int64(1), *stored.MarkedBy)
	require.NotNil(t, stored.MarkedAt)

	require.Len(t, users.audits, 1)
	assert.Equal(t, models.AuditActionMarkAttendance, users.audits[0].Action)
}

func TestDailyScheduleSundayIsDaySeven(t *testing.T) {
	repo := &fakeAttendanceRepo{daily: []models.DailyScheduleRow{{UserID: 5}}}
	svc := NewAttendanceService(repo, &fakeUserReader{}, nil, nil, nil, nil)

	out, err := svc.DailySchedule(context.Background(), headSession(3), "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, 7, repo.weekday)
	assert.Equal(t, "2024-03-10", repo.lastDate)
	assert.Equal(t, "2024-03-10", out.Date)
	assert.Len(t, out.Rows, 1)
}

func TestDailyScheduleRejectsBadDate(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceRepo{}, &fakeUserReader{}, nil, nil, nil, nil)

	_, err := svc.DailySchedule(context.Background(), headSession(3), "March 10")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
