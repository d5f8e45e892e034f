// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"

	domain "khidma-service/internal/domain/auth"
	"khidma-service/internal/middleware"
	xerrors "khidma-service/internal/pkg/errors"
	"khidma-service/internal/pkg/response"
	authsvc "khidma-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *authsvc.AuthService
}

func NewAuthHandler(authService *authsvc.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid registration payload", err)
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, xerrors.ErrDuplicateEntry) {
			response.Error(c, http.StatusConflict, "Email already registered", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Registration failed", err)
		return
	}

	response.Success(c, http.StatusCreated, "Account created", resp)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid login payload", err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrRateLimited):
			response.Error(c, http.StatusTooManyRequests, "Too many login attempts, try again later", nil)
		case errors.Is(err, xerrors.ErrForbidden):
			response.Forbidden(c, "Account suspended")
		default:
			response.Unauthorized(c, "Invalid email or password")
		}
		return
	}

	response.Success(c, http.StatusOK, "Logged in", resp)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req domain.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid refresh payload", err)
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Unauthorized(c, "Invalid refresh token")
		return
	}

	response.Success(c, http.StatusOK, "Token refreshed", resp)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	sessionID, _ := middleware.GetSessionID(c)

	if err := h.authService.Logout(c.Request.Context(), identityID, sessionID); err != nil {
		response.Error(c, http.StatusInternalServerError, "Logout failed", err)
		return
	}

	response.Success(c, http.StatusOK, "Logged out", nil)
}

// LogoutAll handles POST /auth/logout-all
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	if err := h.authService.LogoutAll(c.Request.Context(), identityID); err != nil {
		response.Error(c, http.StatusInternalServerError, "Logout failed", err)
		return
	}

	response.Success(c, http.StatusOK, "All sessions terminated", nil)
}

// ChangePassword handles POST /auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	var req domain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid password payload", err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), identityID, &req); err != nil {
		switch {
		case errors.Is(err, xerrors.ErrUnauthorized):
			response.Unauthorized(c, "Current password is incorrect")
		case errors.Is(err, xerrors.ErrNotFound), errors.Is(err, xerrors.ErrInvalidInput):
			response.ValidationError(c, "Password login is not enabled for this account", nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to change password", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "Password changed", nil)
}
