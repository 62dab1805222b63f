package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-ops/staff-attendance-api/internal/models"
	appErrors "github.com/campus-ops/staff-attendance-api/pkg/errors"
)

type fakeUserRepo struct {
	rows       []models.UserRow
	total      int
	lastFilter models.UserFilter
	byID       map[int64]*models.User
}

func (f *fakeUserRepo) List(_ context.Context, filter models.UserFilter) ([]models.UserRow, int, error) {
	f.lastFilter = filter
	return f.rows, f.total, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return (&fakeUserReader{users: f.byID}).FindByID(ctx, id)
}

type fakeDepartmentRepo struct {
	departments []models.Department
}

func (f *fakeDepartmentRepo) List(_ context.Context) ([]models.Department, error) {
	return f.departments, nil
}

func TestUserListScopesHeadToDepartment(t *testing.T) {
	repo := &fakeUserRepo{total: 2}
	svc := NewUserService(repo, &fakeDepartmentRepo{}, nil)

	_, pagination, err := svc.List(context.Background(), headSession(3), models.UserFilter{Page: 2, PageSize: 10})
	require.NoError(t, err)

	require.NotNil(t, repo.lastFilter.DepartmentID)
	assert.Equal(t, int64(3), *repo.lastFilter.DepartmentID)
	assert.Nil(t, repo.lastFilter.UserID)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 2, pagination.TotalCount)
}

func TestUserListScopesStaffToSelf(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserService(repo, &fakeDepartmentRepo{}, nil)

	_, _, err := svc.List(context.Background(), staffSession(9), models.UserFilter{})
	require.NoError(t, err)

	require.NotNil(t, repo.lastFilter.UserID)
	assert.Equal(t, int64(9), *repo.lastFilter.UserID)
}

func TestUserListAdminSeesEveryone(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserService(repo, &fakeDepartmentRepo{}, nil)
	admin := &models.Session{UserID: 1, Role: models.RoleAdmin}

	_, _, err := svc.List(context.Background(), admin, models.UserFilter{})
	require.NoError(t, err)
	assert.Nil(t, repo.lastFilter.DepartmentID)
	assert.Nil(t, repo.lastFilter.UserID)
}

func TestUserProfileStaffCannotViewOthers(t *testing.T) {
	repo := &fakeUserRepo{byID: map[int64]*models.User{5: {ID: 5}}}
	svc := NewUserService(repo, &fakeDepartmentRepo{}, nil)

	_, err := svc.Profile(context.Background(), staffSession(9), 5)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUserProfileSelfAlwaysVisible(t *testing.T) {
	repo := &fakeUserRepo{byID: map[int64]*models.User{9: {ID: 9, Role: models.RoleStaff}}}
	svc := NewUserService(repo, &fakeDepartmentRepo{}, nil)

	user, err := svc.Profile(context.Background(), staffSession(9), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), user.ID)
}

func TestUserProfileHeadLimitedToDepartment(t *testing.T) {
	repo := &fakeUserRepo{byID: map[int64]*models.User{
		5: {ID: 5, DepartmentID: int64Ptr(7)},
		6: {ID: 6, DepartmentID: int64Ptr(3)},
	}}
	svc := NewUserService(repo, &fakeDepartmentRepo{}, nil)

	_, err := svc.Profile(context.Background(), headSession(3), 5)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	user, err := svc.Profile(context.Background(), headSession(3), 6)
	require.NoError(t, err)
	assert.Equal(t, int64(6), user.ID)
}

func TestUserProfileUnknownUser(t *testing.T) {
	repo := &fakeUserRepo{byID: map[int64]*models.User{}}
	svc := NewUserService(repo, &fakeDepartmentRepo{}, nil)
	admin := &models.Session{UserID: 1, Role: models.RoleAdmin}

	_, err := svc.Profile(context.Background(), admin, 404)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDepartmentsListing(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{}, &fakeDepartmentRepo{departments: []models.Department{
		{ID: 1, Name: "Arts"}, {ID: 2, Name: "Science"},
	}}, nil)

	departments, err := svc.Departments(context.Background())
	require.NoError(t, err)
	require.Len(t, departments, 2)
	assert.Equal(t, "Arts", departments[0].Name)
}
