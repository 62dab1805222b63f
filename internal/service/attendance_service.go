package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-ops/staff-attendance-api/internal/dto"
	"github.com/campus-ops/staff-attendance-api/internal/models"
	appErrors "github.com/campus-ops/staff-attendance-api/pkg/errors"
)

type attendanceRepository interface {
	List(ctx context.Context, query models.AttendanceQuery) ([]models.AttendanceRow, error)
	Mark(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	DailySchedule(ctx context.Context, date string, weekday int, query models.AttendanceQuery) ([]models.DailyScheduleRow, error)
}

type attendanceUserReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AttendanceService implements attendance listing and marking. Scoping is
// decided here from the session; handlers never pass scope from the client.
type AttendanceService struct {
	repo      attendanceRepository
	users     attendanceUserReader
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService instance.
func NewAttendanceService(repo attendanceRepository, users attendanceUserReader, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceService{repo: repo, users: users, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List fetches the viewer-scoped record set and applies the requested filters
// in memory. Department options are recomputed from the scoped set on every
// call so they always track the records they came from.
func (s *AttendanceService) List(ctx context.Context, session *models.Session, filters RecordFilters) (*dto.AttendanceListResponse, error) {
	viewer := ViewerFromSession(session)
	rows, err := s.repo.List(ctx, viewer.AttendanceQuery())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}

	filtered := FilterAttendance(rows, filters, time.Now())
	return &dto.AttendanceListResponse{
		Records:     filtered,
		Departments: DistinctDepartments(AttendanceDepartmentNames(rows)),
		Total:       len(filtered),
	}, nil
}

// Mark upserts the attendance status for one staff member on one date. Repeat
// marks for the same (user, date, schedule) overwrite rather than duplicate.
func (s *AttendanceService) Mark(ctx context.Context, session *models.Session, req dto.MarkAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mark payload")
	}
	if !req.Status.Markable() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be PRESENT or ABSENT")
	}
	if _, err := time.Parse(models.DateLayout, strings.TrimSpace(req.Date)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}
	if !session.Role.CanMarkAttendance() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role may not mark attendance")
	}

	target, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}

	if session.Role == models.RoleHead {
		if session.DepartmentID == nil || target.DepartmentID == nil || *session.DepartmentID != *target.DepartmentID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "staff member is outside your department")
		}
	}

	now := time.Now().UTC()
	markerID := session.UserID
	record := &models.AttendanceRecord{
		UserID:     req.UserID,
		ScheduleID: req.ScheduleID,
		Date:       strings.TrimSpace(req.Date),
		Status:     req.Status,
		MarkedBy:   &markerID,
		MarkedAt:   &now,
	}

	stored, err := s.repo.Mark(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark attendance")
	}

	if s.metrics != nil {
		s.metrics.RecordAttendanceMark(string(stored.Status))
	}
	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}

	resourceID := fmt.Sprintf("%d", stored.ID)
	if err := s.users.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &markerID,
		Action:     models.AuditActionMarkAttendance,
		Resource:   "attendance",
		ResourceID: &resourceID,
		NewValues:  []byte(fmt.Sprintf(`{"user_id":%d,"date":%q,"status":%q}`, stored.UserID, stored.Date, stored.Status)),
	}); err != nil {
		s.logger.Warn("failed to record attendance audit log", zap.Error(err))
	}

	return stored, nil
}

// DailySchedule returns the per-person slot view for a single day within the
// viewer's scope. An empty date defaults to today.
func (s *AttendanceService) DailySchedule(ctx context.Context, session *models.Session, date string) (*dto.DailyScheduleResponse, error) {
	date = strings.TrimSpace(date)
	var day time.Time
	if date == "" {
		day = time.Now().UTC()
		date = day.Format(models.DateLayout)
	} else {
		parsed, err := time.Parse(models.DateLayout, date)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
		}
		day = parsed
	}

	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	viewer := ViewerFromSession(session)
	rows, err := s.repo.DailySchedule(ctx, date, weekday, viewer.AttendanceQuery())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load daily schedule")
	}
	return &dto.DailyScheduleResponse{Date: date, Rows: rows}, nil
}
