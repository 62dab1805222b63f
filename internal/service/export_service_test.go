package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-ops/staff-attendance-api/internal/models"
	appErrors "github.com/campus-ops/staff-attendance-api/pkg/errors"
	"github.com/campus-ops/staff-attendance-api/pkg/export"
)

func newExportService(attendance *fakeAttendanceRepo, leave *fakeLeaveRepo, maxRows int) *ExportService {
	return NewExportService(attendance, leave, export.NewCSVExporter(), export.NewPDFExporter(), maxRows, nil)
}

func TestParseExportFormat(t *testing.T) {
	format, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)

	format, err = ParseExportFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, format)

	_, err = ParseExportFormat("xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTitleStatus(t *testing.T) {
	assert.Equal(t, "Present", titleStatus("PRESENT"))
	assert.Equal(t, "Absent", titleStatus("ABSENT"))
	assert.Equal(t, "Hr Assistant", titleStatus("HR_ASSISTANT"))
	assert.Equal(t, "N/A", titleStatus(""))
}

func TestExportAttendanceCSVQuotesAndFills(t *testing.T) {
	marked := time.Date(2024, 3, 6, 8, 15, 0, 0, time.UTC)
	row := attendanceRow(1, "2024-03-06", models.AttendancePresent, 3, "Science", models.RoleTeacher)
	row.StaffName = "Ada, Lovelace"
	row.MarkedAt = &marked

	orphan := models.AttendanceRow{
		AttendanceRecord: models.AttendanceRecord{ID: 2, Date: "2024-03-06", Status: models.AttendanceAbsent},
		StaffName:        "Grace Hopper",
		StaffRole:        models.RoleStaff,
	}

	svc := newExportService(&fakeAttendanceRepo{rows: []models.AttendanceRow{row, orphan}}, &fakeLeaveRepo{}, 100)

	file, err := svc.ExportAttendance(context.Background(), headSession(3), RecordFilters{DateMode: DateModeAll}, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Name, ".csv"))

	content := string(file.Content)
	lines := strings.Split(strings.TrimRight(content, "\r\n"), "\r\n")
	require.Len(t, lines, 3)

	assert.Equal(t, `"Date","Name","Role","Department","Status","Time"`, lines[0])
	assert.Equal(t, `"2024-03-06","Ada, Lovelace","TEACHER","Science","Present","08:15"`, lines[1])
	assert.Equal(t, `"2024-03-06","Grace Hopper","STAFF","N/A","Absent","N/A"`, lines[2])
}

func TestExportAttendanceUsesScheduleTimeWhenPresent(t *testing.T) {
	row := attendanceRow(1, "2024-03-06", models.AttendancePresent, 3, "Science", models.RoleTeacher)
	row.StaffName = "Ada"
	row.StartTime = strPtr("08:00")
	row.EndTime = strPtr("10:00")

	svc := newExportService(&fakeAttendanceRepo{rows: []models.AttendanceRow{row}}, &fakeLeaveRepo{}, 100)

	file, err := svc.ExportAttendance(context.Background(), headSession(3), RecordFilters{DateMode: DateModeAll}, FormatCSV)
	require.NoError(t, err)
	assert.Contains(t, string(file.Content), `"08:00 - 10:00"`)
}

func TestExportAttendanceRowLimit(t *testing.T) {
	rows := []models.AttendanceRow{
		attendanceRow(1, "2024-03-06", models.AttendancePresent, 3, "Science", models.RoleTeacher),
		attendanceRow(2, "2024-03-06", models.AttendancePresent, 3, "Science", models.RoleTeacher),
	}
	svc := newExportService(&fakeAttendanceRepo{rows: rows}, &fakeLeaveRepo{}, 1)

	_, err := svc.ExportAttendance(context.Background(), headSession(3), RecordFilters{DateMode: DateModeAll}, FormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportLeaveCSV(t *testing.T) {
	rows := []models.LeaveRow{{
		LeaveRequest: models.LeaveRequest{
			ID: 1, UserID: 10, LeaveType: models.LeaveSick,
			StartDate: "2024-03-05", EndDate: "2024-03-06", Status: models.LeaveApproved,
		},
		StaffName:      "Ada",
		StaffRole:      models.RoleTeacher,
		DepartmentName: strPtr("Science"),
		ResponderName:  strPtr("Head of Science"),
	}}
	svc := newExportService(&fakeAttendanceRepo{}, &fakeLeaveRepo{rows: rows}, 100)

	file, err := svc.ExportLeave(context.Background(), headSession(3), RecordFilters{DateMode: DateModeAll}, FormatCSV)
	require.NoError(t, err)

	content := string(file.Content)
	assert.Contains(t, content, `"Name","Role","Department","Type","Start Date","End Date","Status","Responded By"`)
	assert.Contains(t, content, `"Sick"`)
	assert.Contains(t, content, `"Approved"`)
	assert.Contains(t, content, `"Head of Science"`)
}

func TestExportAttendancePDF(t *testing.T) {
	row := attendanceRow(1, "2024-03-06", models.AttendancePresent, 3, "Science", models.RoleTeacher)
	row.StaffName = "Ada"
	svc := newExportService(&fakeAttendanceRepo{rows: []models.AttendanceRow{row}}, &fakeLeaveRepo{}, 100)

	file, err := svc.ExportAttendance(context.Background(), headSession(3), RecordFilters{DateMode: DateModeAll}, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Name, ".pdf"))
	assert.NotEmpty(t, file.Content)
}
