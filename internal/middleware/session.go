package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campus-ops/staff-attendance-api/internal/service"
	appErrors "github.com/campus-ops/staff-attendance-api/pkg/errors"
	"github.com/campus-ops/staff-attendance-api/pkg/response"
)

// ContextUserKey is the gin context key storing the current session.
const ContextUserKey = "currentUser"

// ContextSessionIDKey stores the opaque session id when the request
// authenticated through the cookie.
const ContextSessionIDKey = "sessionID"

// Session protects routes by requiring either the session cookie or a Bearer
// access token. Both resolve to the same *models.Session context payload.
func Session(authService *service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionID, err := c.Cookie(cookieName); err == nil && sessionID != "" {
			session, err := authService.CurrentSession(c.Request.Context(), sessionID)
			if err != nil {
				response.Error(c, err)
				c.Abort()
				return
			}
			c.Set(ContextUserKey, session)
			c.Set(ContextSessionIDKey, sessionID)
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, authService.SessionFromClaims(claims))
		c.Next()
	}
}
