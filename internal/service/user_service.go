package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/campus-ops/staff-attendance-api/internal/models"
	appErrors "github.com/campus-ops/staff-attendance-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.UserRow, int, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type departmentRepository interface {
	List(ctx context.Context) ([]models.Department, error)
}

// UserService exposes the staff directory within the viewer's scope.
type UserService struct {
	repo        userRepository
	departments departmentRepository
	logger      *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(repo userRepository, departments departmentRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, departments: departments, logger: logger}
}

// List returns staff rows visible to the viewer. Campus-wide roles browse the
// full directory, HEAD their department, everyone else only themselves.
func (s *UserService) List(ctx context.Context, session *models.Session, filter models.UserFilter) ([]models.UserRow, *models.Pagination, error) {
	viewer := ViewerFromSession(session)
	if !viewer.Role.CampusWide() {
		if viewer.Role == models.RoleHead && viewer.DepartmentID != nil {
			filter.DepartmentID = viewer.DepartmentID
		} else {
			userID := viewer.UserID
			filter.UserID = &userID
		}
	}

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}

	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}
	return rows, pagination, nil
}

// Profile loads a single staff member, enforcing the viewer scope.
func (s *UserService) Profile(ctx context.Context, session *models.Session, id int64) (*models.User, error) {
	viewer := ViewerFromSession(session)
	if !viewer.Role.CampusWide() && viewer.Role != models.RoleHead && viewer.UserID != id {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "profile is outside your scope")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	if viewer.Role == models.RoleHead {
		if viewer.DepartmentID == nil || user.DepartmentID == nil || *viewer.DepartmentID != *user.DepartmentID {
			if viewer.UserID != id {
				return nil, appErrors.Clone(appErrors.ErrForbidden, "profile is outside your department")
			}
		}
	}

	return user, nil
}

// Departments lists every department for form dropdowns and admin views.
func (s *UserService) Departments(ctx context.Context) ([]models.Department, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	return departments, nil
}
