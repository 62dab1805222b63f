package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-ops/staff-attendance-api/internal/dto"
	"github.com/campus-ops/staff-attendance-api/internal/middleware"
	"github.com/campus-ops/staff-attendance-api/internal/models"
	appErrors "github.com/campus-ops/staff-attendance-api/pkg/errors"
	"github.com/campus-ops/staff-attendance-api/pkg/response"
)

type dashboardService interface {
	Metrics(ctx context.Context, session *models.Session) (*dto.DashboardMetrics, bool, error)
}

// DashboardHandler wires the dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Metrics godoc
// @Summary Dashboard metrics
// @Description Today's attendance counts and the pending leave queue for the caller's scope
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Metrics(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	start := time.Now()
	metrics, cacheHit, err := h.service.Metrics(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, metrics, nil, meta)
}
