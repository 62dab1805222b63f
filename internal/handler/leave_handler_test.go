package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-ops/staff-attendance-api/internal/dto"
	"github.com/campus-ops/staff-attendance-api/internal/middleware"
	"github.com/campus-ops/staff-attendance-api/internal/models"
	"github.com/campus-ops/staff-attendance-api/internal/service"
	appErrors "github.com/campus-ops/staff-attendance-api/pkg/errors"
)

type fakeLeaveSrv struct {
	listResp   *dto.LeaveListResponse
	submitResp *models.LeaveRequest
	respondTo  int64
	respondReq dto.RespondLeaveRequest
	respondOut *models.LeaveRequest
	respondErr error
}

func (f *fakeLeaveSrv) List(context.Context, *models.Session, service.RecordFilters) (*dto.LeaveListResponse, error) {
	return f.listResp, nil
}

func (f *fakeLeaveSrv) Submit(_ context.Context, _ *models.Session, _ dto.SubmitLeaveRequest) (*models.LeaveRequest, error) {
	return f.submitResp, nil
}

func (f *fakeLeaveSrv) Respond(_ context.Context, _ *models.Session, id int64, req dto.RespondLeaveRequest) (*models.LeaveRequest, error) {
	f.respondTo = id
	f.respondReq = req
	return f.respondOut, f.respondErr
}

func TestLeaveHandlerSubmitCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeLeaveSrv{submitResp: &models.LeaveRequest{ID: 77, Status: models.LeavePending}}
	handler := NewLeaveHandler(srv)

	body := `{"leave_type":"SICK","start_date":"2024-03-05","end_date":"2024-03-06","reason":"flu"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/leave", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, testSession())

	handler.Submit(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestLeaveHandlerRespondInvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewLeaveHandler(&fakeLeaveSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/leave/abc/respond", strings.NewReader(`{"status":"APPROVED"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Set(middleware.ContextUserKey, testSession())

	handler.Respond(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeaveHandlerRespondSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeLeaveSrv{respondOut: &models.LeaveRequest{ID: 9, Status: models.LeaveApproved}}
	handler := NewLeaveHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/leave/9/respond", strings.NewReader(`{"status":"APPROVED"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	c.Set(middleware.ContextUserKey, testSession())

	handler.Respond(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(9), srv.respondTo)
	assert.Equal(t, models.LeaveApproved, srv.respondReq.Status)
}

func TestLeaveHandlerRespondConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeLeaveSrv{respondErr: appErrors.Clone(appErrors.ErrConflict, "leave request already responded to")}
	handler := NewLeaveHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/leave/9/respond", strings.NewReader(`{"status":"REJECTED"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	c.Set(middleware.ContextUserKey, testSession())

	handler.Respond(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
