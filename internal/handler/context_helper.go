package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campus-ops/staff-attendance-api/internal/middleware"
	"github.com/campus-ops/staff-attendance-api/internal/models"
	"github.com/campus-ops/staff-attendance-api/internal/service"
)

func sessionFromContext(c *gin.Context) *models.Session {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	session, ok := value.(*models.Session)
	if !ok {
		return nil
	}
	return session
}

// parseRecordFilters reads the shared filter query parameters. Empty or "all"
// values leave a dimension open.
func parseRecordFilters(c *gin.Context) (service.RecordFilters, error) {
	mode, err := service.ParseDateMode(c.Query("dateMode"))
	if err != nil {
		return service.RecordFilters{}, err
	}
	return service.RecordFilters{
		DateMode:   mode,
		Department: strings.TrimSpace(c.Query("department")),
		Status:     strings.TrimSpace(c.Query("status")),
		Role:       strings.TrimSpace(c.Query("role")),
	}, nil
}
