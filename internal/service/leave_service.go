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

type leaveRepository interface {
	List(ctx context.Context, query models.LeaveQuery) ([]models.LeaveRow, error)
	FindByID(ctx context.Context, id int64) (*models.LeaveRequest, error)
	Create(ctx context.Context, request *models.LeaveRequest) (*models.LeaveRequest, error)
	Respond(ctx context.Context, id int64, status models.LeaveStatus, responderID int64, respondedAt time.Time) (int64, error)
}

type leaveUserReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// LeaveService implements the leave request lifecycle: submit, list within the
// viewer's scope, and respond. APPROVED and REJECTED are terminal.
type LeaveService struct {
	repo      leaveRepository
	users     leaveUserReader
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLeaveService constructs a LeaveService instance.
func NewLeaveService(repo leaveRepository, users leaveUserReader, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *LeaveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &LeaveService{repo: repo, users: users, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List fetches the viewer-scoped leave set and applies the requested filters
// in memory. A request matches a date window when its day span overlaps it.
func (s *LeaveService) List(ctx context.Context, session *models.Session, filters RecordFilters) (*dto.LeaveListResponse, error) {
	viewer := ViewerFromSession(session)
	rows, err := s.repo.List(ctx, viewer.LeaveQuery())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leave requests")
	}

	filtered := FilterLeave(rows, filters, time.Now())
	return &dto.LeaveListResponse{
		Records:     filtered,
		Departments: DistinctDepartments(LeaveDepartmentNames(rows)),
		Total:       len(filtered),
	}, nil
}

// Submit creates a pending leave request for the current session's user.
func (s *LeaveService) Submit(ctx context.Context, session *models.Session, req dto.SubmitLeaveRequest) (*models.LeaveRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave payload")
	}
	if !req.LeaveType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported leave type")
	}

	start, err := time.Parse(models.DateLayout, strings.TrimSpace(req.StartDate))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be formatted YYYY-MM-DD")
	}
	end, err := time.Parse(models.DateLayout, strings.TrimSpace(req.EndDate))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be formatted YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not precede start_date")
	}

	stored, err := s.repo.Create(ctx, &models.LeaveRequest{
		UserID:      session.UserID,
		LeaveType:   req.LeaveType,
		StartDate:   strings.TrimSpace(req.StartDate),
		EndDate:     strings.TrimSpace(req.EndDate),
		Reason:      strings.TrimSpace(req.Reason),
		Status:      models.LeavePending,
		SubmittedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create leave request")
	}

	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}

	requesterID := session.UserID
	resourceID := fmt.Sprintf("%d", stored.ID)
	if err := s.users.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &requesterID,
		Action:     models.AuditActionSubmitLeave,
		Resource:   "leave_requests",
		ResourceID: &resourceID,
		NewValues:  []byte(fmt.Sprintf(`{"leave_type":%q,"start_date":%q,"end_date":%q}`, stored.LeaveType, stored.StartDate, stored.EndDate)),
	}); err != nil {
		s.logger.Warn("failed to record leave audit log", zap.Error(err))
	}

	return stored, nil
}

// Respond transitions a pending request to APPROVED or REJECTED. Terminal
// requests are immutable: the store-level guard turns a raced second response
// into zero affected rows, surfaced as a conflict.
func (s *LeaveService) Respond(ctx context.Context, session *models.Session, id int64, req dto.RespondLeaveRequest) (*models.LeaveRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid response payload")
	}
	if !req.Status.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be APPROVED or REJECTED")
	}
	if !session.Role.CanMarkAttendance() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role may not respond to leave requests")
	}

	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "leave request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave request")
	}
	if request.Status.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrConflict, "leave request already responded to")
	}

	if session.Role == models.RoleHead {
		requester, err := s.users.FindByID(ctx, request.UserID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load requester")
		}
		if session.DepartmentID == nil || requester.DepartmentID == nil || *session.DepartmentID != *requester.DepartmentID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "leave request is outside your department")
		}
	}

	respondedAt := time.Now().UTC()
	affected, err := s.repo.Respond(ctx, id, req.Status, session.UserID, respondedAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to respond to leave request")
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "leave request already responded to")
	}

	if s.metrics != nil {
		s.metrics.RecordLeaveResponse(string(req.Status))
	}
	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}

	responderID := session.UserID
	resourceID := fmt.Sprintf("%d", id)
	if err := s.users.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &responderID,
		Action:     models.AuditActionRespondLeave,
		Resource:   "leave_requests",
		ResourceID: &resourceID,
		NewValues:  []byte(fmt.Sprintf(`{"status":%q}`, req.Status)),
	}); err != nil {
		s.logger.Warn("failed to record leave response audit log", zap.Error(err))
	}

	request.Status = req.Status
	request.RespondedBy = &responderID
	request.RespondedAt = &respondedAt
	return request, nil
}
