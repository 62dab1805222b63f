package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-ops/staff-attendance-api/internal/middleware"
	"github.com/campus-ops/staff-attendance-api/internal/models"
	"github.com/campus-ops/staff-attendance-api/internal/service"
	"github.com/campus-ops/staff-attendance-api/pkg/config"
	appErrors "github.com/campus-ops/staff-attendance-api/pkg/errors"
	"github.com/campus-ops/staff-attendance-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service. Login sets the session
// cookie; the token in the body serves non-browser clients.
type AuthHandler struct {
	service *service.AuthService
	session config.SessionConfig
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService, session config.SessionConfig) *AuthHandler {
	return &AuthHandler{service: svc, session: session}
}

// Login godoc
// @Summary Authenticate staff member
// @Description Authenticate by staff number and password, issuing a session cookie and access token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, res.SessionID, int(h.session.TTL.Seconds()), "/", "", h.session.CookieSecure, true)

	response.JSON(c, http.StatusOK, res, nil)
}

// Logout godoc
// @Summary Logout current session
// @Description Delete the server-side session and clear the cookie
// @Tags Authentication
// @Produce json
// @Success 204 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	sessionID := c.GetString(middleware.ContextSessionIDKey)
	if sessionID != "" {
		meta := models.LoginRequest{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
		if err := h.service.Logout(c.Request.Context(), sessionID, session.UserID, meta); err != nil {
			response.Error(c, err)
			return
		}
	}

	c.SetCookie(h.session.CookieName, "", -1, "/", "", h.session.CookieSecure, true)
	response.NoContent(c)
}

// ChangePassword godoc
// @Summary Change password
// @Description Change password for the current staff member
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.ChangePasswordRequest true "Change password"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), session.UserID, req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Me godoc
// @Summary Get current staff member
// @Description Returns the authenticated staff member's info
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	info := models.UserInfo{
		ID:           session.UserID,
		StaffNo:      session.StaffNo,
		FullName:     session.FullName,
		Role:         session.Role,
		DepartmentID: session.DepartmentID,
	}

	response.JSON(c, http.StatusOK, info, nil)
}
