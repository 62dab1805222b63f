package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-ops/staff-attendance-api/internal/models"
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func attendanceRow(id int64, date string, status models.AttendanceStatus, deptID int64, deptName string, role models.StaffRole) models.AttendanceRow {
	return models.AttendanceRow{
		AttendanceRecord: models.AttendanceRecord{ID: id, Date: date, Status: status},
		StaffRole:        role,
		DepartmentID:     int64Ptr(deptID),
		DepartmentName:   strPtr(deptName),
	}
}

func TestViewerScopeByRole(t *testing.T) {
	dept := int64Ptr(3)

	head := Viewer{UserID: 10, Role: models.RoleHead, DepartmentID: dept}
	q := head.AttendanceQuery()
	require.NotNil(t, q.DepartmentID)
	assert.Equal(t, int64(3), *q.DepartmentID)
	assert.Nil(t, q.UserID)

	admin := Viewer{UserID: 11, Role: models.RoleAdmin, DepartmentID: dept}
	q = admin.AttendanceQuery()
	assert.Nil(t, q.DepartmentID)
	assert.Nil(t, q.UserID)

	staff := Viewer{UserID: 12, Role: models.RoleStaff, DepartmentID: dept}
	lq := staff.LeaveQuery()
	require.NotNil(t, lq.UserID)
	assert.Equal(t, int64(12), *lq.UserID)
}

func TestResolveDateRangeToday(t *testing.T) {
	now := time.Date(2024, 3, 6, 14, 30, 0, 0, time.UTC)
	r := ResolveDateRange(DateModeToday, now)
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), r.Start)
	assert.True(t, r.ContainsDay("2024-03-06"))
	assert.False(t, r.ContainsDay("2024-03-05"))
	assert.False(t, r.ContainsDay("2024-03-07"))
}

func TestResolveDateRangeISOWeek(t *testing.T) {
	// Wednesday 2024-03-06: the ISO week opened Monday 2024-03-04.
	now := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)
	r := ResolveDateRange(DateModeWeek, now)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), r.Start)
	assert.True(t, r.ContainsDay("2024-03-04"))
	assert.True(t, r.ContainsDay("2024-03-06"))
	assert.False(t, r.ContainsDay("2024-03-03"))
}

func TestResolveDateRangeSundayIsDaySeven(t *testing.T) {
	// Sunday 2024-03-10 still belongs to the week opened Monday 2024-03-04.
	now := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	r := ResolveDateRange(DateModeWeek, now)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), r.Start)
	assert.True(t, r.ContainsDay("2024-03-10"))
}

func TestResolveDateRangeMonthBoundariesInclusive(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	r := ResolveDateRange(DateModeMonth, now)
	assert.True(t, r.ContainsDay("2024-03-01"))
	assert.True(t, r.ContainsDay("2024-03-15"))
	assert.False(t, r.ContainsDay("2024-02-29"))
	assert.False(t, r.ContainsDay("2024-03-16"))
}

func TestDateRangeDefensiveParsing(t *testing.T) {
	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	bounded := ResolveDateRange(DateModeMonth, now)
	assert.False(t, bounded.ContainsDay("not-a-date"))
	assert.False(t, bounded.ContainsDay(""))

	unbounded := ResolveDateRange(DateModeAll, now)
	assert.True(t, unbounded.ContainsDay("not-a-date"))
	assert.True(t, unbounded.ContainsDay("1999-01-01"))
}

func TestFilterAttendanceScenario(t *testing.T) {
	// Five department-3 rows (3 present, 2 absent), four dated today.
	now := time.Date(2024, 3, 6, 16, 0, 0, 0, time.UTC)
	rows := []models.AttendanceRow{
		attendanceRow(1, "2024-03-06", models.AttendancePresent, 3, "Science", models.RoleTeacher),
		attendanceRow(2, "2024-03-06", models.AttendancePresent, 3, "Science", models.RoleTeacher),
		attendanceRow(3, "2024-03-06", models.AttendanceAbsent, 3, "Science", models.RoleStaff),
		attendanceRow(4, "2024-03-06", models.AttendanceAbsent, 3, "Science", models.RoleStaff),
		attendanceRow(5, "2024-03-01", models.AttendancePresent, 3, "Science", models.RoleTeacher),
	}

	today := FilterAttendance(rows, RecordFilters{DateMode: DateModeToday}, now)
	assert.Len(t, today, 4)

	present := FilterAttendance(rows, RecordFilters{DateMode: DateModeToday, Status: "PRESENT"}, now)
	assert.Len(t, present, 2)
}

func TestFilterAttendanceIsStable(t *testing.T) {
	now := time.Date(2024, 3, 6, 16, 0, 0, 0, time.UTC)
	rows := []models.AttendanceRow{
		attendanceRow(9, "2024-03-06", models.AttendancePresent, 3, "Science", models.RoleTeacher),
		attendanceRow(4, "2024-03-06", models.AttendancePresent, 3, "Arts", models.RoleTeacher),
		attendanceRow(7, "2024-03-06", models.AttendancePresent, 3, "Science", models.RoleTeacher),
	}
	out := FilterAttendance(rows, RecordFilters{DateMode: DateModeAll}, now)
	require.Len(t, out, 3)
	assert.Equal(t, int64(9), out[0].ID)
	assert.Equal(t, int64(4), out[1].ID)
	assert.Equal(t, int64(7), out[2].ID)
}

func TestFilterAttendanceByDepartmentAndRole(t *testing.T) {
	now := time.Date(2024, 3, 6, 16, 0, 0, 0, time.UTC)
	rows := []models.AttendanceRow{
		attendanceRow(1, "2024-03-06", models.AttendancePresent, 3, "Science", models.RoleTeacher),
		attendanceRow(2, "2024-03-06", models.AttendancePresent, 7, "Arts", models.RoleStaff),
	}

	science := FilterAttendance(rows, RecordFilters{DateMode: DateModeAll, Department: "Science"}, now)
	require.Len(t, science, 1)
	assert.Equal(t, int64(1), science[0].ID)

	staffOnly := FilterAttendance(rows, RecordFilters{DateMode: DateModeAll, Role: "STAFF"}, now)
	require.Len(t, staffOnly, 1)
	assert.Equal(t, int64(2), staffOnly[0].ID)

	everything := FilterAttendance(rows, RecordFilters{DateMode: DateModeAll, Department: "all", Status: "all", Role: "all"}, now)
	assert.Len(t, everything, 2)
}

func TestFilterAttendanceMissingDepartmentKeptUnderAll(t *testing.T) {
	now := time.Date(2024, 3, 6, 16, 0, 0, 0, time.UTC)
	orphan := models.AttendanceRow{
		AttendanceRecord: models.AttendanceRecord{ID: 1, Date: "2024-03-06", Status: models.AttendancePresent},
		StaffRole:        models.RoleStaff,
	}
	rows := []models.AttendanceRow{orphan}

	kept := FilterAttendance(rows, RecordFilters{DateMode: DateModeAll}, now)
	assert.Len(t, kept, 1)

	filtered := FilterAttendance(rows, RecordFilters{DateMode: DateModeAll, Department: "Science"}, now)
	assert.Empty(t, filtered)
}

func TestFilterLeaveSpanOverlap(t *testing.T) {
	now := time.Date(2024, 3, 6, 16, 0, 0, 0, time.UTC)
	rows := []models.LeaveRow{
		{LeaveRequest: models.LeaveRequest{ID: 1, StartDate: "2024-03-05", EndDate: "2024-03-08", Status: models.LeavePending}, StaffRole: models.RoleTeacher, DepartmentName: strPtr("Science")},
		{LeaveRequest: models.LeaveRequest{ID: 2, StartDate: "2024-02-01", EndDate: "2024-02-03", Status: models.LeaveApproved}, StaffRole: models.RoleTeacher, DepartmentName: strPtr("Science")},
		{LeaveRequest: models.LeaveRequest{ID: 3, StartDate: "2024-02-01", EndDate: "2024-04-01", Status: models.LeaveApproved}, StaffRole: models.RoleStaff, DepartmentName: strPtr("Arts")},
	}

	thisWeek := FilterLeave(rows, RecordFilters{DateMode: DateModeWeek}, now)
	require.Len(t, thisWeek, 2)
	assert.Equal(t, int64(1), thisWeek[0].ID)
	assert.Equal(t, int64(3), thisWeek[1].ID)

	pending := FilterLeave(rows, RecordFilters{DateMode: DateModeAll, Status: "PENDING"}, now)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(1), pending[0].ID)
}

func TestDistinctDepartmentsSortedUnique(t *testing.T) {
	names := []*string{strPtr("Science"), strPtr("Arts"), nil, strPtr("Science"), strPtr("Engineering"), strPtr("")}
	options := DistinctDepartments(names)
	assert.Equal(t, []string{"Arts", "Engineering", "Science"}, options)
}
