package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campus-ops/staff-attendance-api/internal/dto"
	"github.com/campus-ops/staff-attendance-api/internal/models"
	appErrors "github.com/campus-ops/staff-attendance-api/pkg/errors"
	"github.com/campus-ops/staff-attendance-api/pkg/export"
)

// ExportFormat selects the download encoding.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ParseExportFormat normalises a query parameter into an ExportFormat.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

var attendanceExportHeaders = []string{"Date", "Name", "Role", "Department", "Status", "Time"}

var leaveExportHeaders = []string{"Name", "Role", "Department", "Type", "Start Date", "End Date", "Status", "Responded By"}

// ExportService renders the viewer's current filtered view into a download.
// Exports are synchronous: the file reflects exactly the rows the caller sees
// at the moment of the request.
type ExportService struct {
	attendance attendanceRepository
	leave      leaveRepository
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	maxRows    int
	logger     *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(attendance attendanceRepository, leave leaveRepository, csv *export.CSVExporter, pdf *export.PDFExporter, maxRows int, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRows <= 0 {
		maxRows = 10000
	}
	return &ExportService{attendance: attendance, leave: leave, csv: csv, pdf: pdf, maxRows: maxRows, logger: logger}
}

// ExportAttendance renders the scoped, filtered attendance set.
func (s *ExportService) ExportAttendance(ctx context.Context, session *models.Session, filters RecordFilters, format ExportFormat) (*dto.ExportFile, error) {
	viewer := ViewerFromSession(session)
	rows, err := s.attendance.List(ctx, viewer.AttendanceQuery())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch attendance for export")
	}

	filtered := FilterAttendance(rows, filters, time.Now())
	if len(filtered) > s.maxRows {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("export exceeds the %d row limit, narrow the filters", s.maxRows))
	}

	dataset := export.Dataset{Headers: attendanceExportHeaders, Rows: make([]map[string]string, 0, len(filtered))}
	for _, row := range filtered {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Date":       orNA(row.Date),
			"Name":       orNA(row.StaffName),
			"Role":       orNA(string(row.StaffRole)),
			"Department": derefOrNA(row.DepartmentName),
			"Status":     titleStatus(string(row.Status)),
			"Time":       attendanceTime(row),
		})
	}

	return s.render(dataset, "attendance", format)
}

// ExportLeave renders the scoped, filtered leave set.
func (s *ExportService) ExportLeave(ctx context.Context, session *models.Session, filters RecordFilters, format ExportFormat) (*dto.ExportFile, error) {
	viewer := ViewerFromSession(session)
	rows, err := s.leave.List(ctx, viewer.LeaveQuery())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch leave requests for export")
	}

	filtered := FilterLeave(rows, filters, time.Now())
	if len(filtered) > s.maxRows {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("export exceeds the %d row limit, narrow the filters", s.maxRows))
	}

	dataset := export.Dataset{Headers: leaveExportHeaders, Rows: make([]map[string]string, 0, len(filtered))}
	for _, row := range filtered {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Name":         orNA(row.StaffName),
			"Role":         orNA(string(row.StaffRole)),
			"Department":   derefOrNA(row.DepartmentName),
			"Type":         titleStatus(string(row.LeaveType)),
			"Start Date":   orNA(row.StartDate),
			"End Date":     orNA(row.EndDate),
			"Status":       titleStatus(string(row.Status)),
			"Responded By": derefOrNA(row.ResponderName),
		})
	}

	return s.render(dataset, "leave_requests", format)
}

func (s *ExportService) render(dataset export.Dataset, basename string, format ExportFormat) (*dto.ExportFile, error) {
	stamp := time.Now().UTC().Format(models.DateLayout)
	switch format {
	case FormatPDF:
		content, err := s.pdf.Render(dataset, strings.ReplaceAll(basename, "_", " ")+" report")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &dto.ExportFile{
			Name:        fmt.Sprintf("%s_%s.pdf", basename, stamp),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &dto.ExportFile{
			Name:        fmt.Sprintf("%s_%s.csv", basename, stamp),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	}
}

// titleStatus renders an UPPER_SNAKE status as a title-cased word, so
// "PRESENT" exports as "Present" and "HR_ASSISTANT" as "Hr Assistant".
func titleStatus(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "N/A"
	}
	words := strings.Split(strings.ToLower(raw), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func attendanceTime(row models.AttendanceRow) string {
	if row.StartTime != nil && row.EndTime != nil && *row.StartTime != "" && *row.EndTime != "" {
		return *row.StartTime + " - " + *row.EndTime
	}
	if row.MarkedAt != nil {
		return row.MarkedAt.UTC().Format("15:04")
	}
	return "N/A"
}

func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return "N/A"
	}
	return value
}

func derefOrNA(value *string) string {
	if value == nil {
		return "N/A"
	}
	return orNA(*value)
}
