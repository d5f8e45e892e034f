// internal/handlers/user/user_handler.go
package user

import (
	"errors"
	"net/http"
	"strconv"

	domain "khidma-service/internal/domain/user"
	"khidma-service/internal/middleware"
	xerrors "khidma-service/internal/pkg/errors"
	"khidma-service/internal/pkg/response"
	usersvc "khidma-service/internal/service/user"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *usersvc.UserService
}

func NewUserHandler(userService *usersvc.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me handles GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	profile, err := h.userService.GetProfile(c.Request.Context(), identityID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "Profile not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to load profile", err)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}

// UpdateMe handles PATCH /users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid profile payload", err)
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), identityID, &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "Profile not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to update profile", err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated", profile)
}

// GetProfile handles GET /users/:id (public consultant/client profile)
func (h *UserHandler) GetProfile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid user ID", err)
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "Profile not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to load profile", err)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}

// ========== Admin ==========

// List handles GET /admin/users
func (h *UserHandler) List(c *gin.Context) {
	var filters domain.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "Invalid filters", err)
		return
	}

	resp, err := h.userService.List(c.Request.Context(), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	response.Success(c, http.StatusOK, "Users retrieved", resp)
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus handles PATCH /admin/users/:id/status
func (h *UserHandler) SetStatus(c *gin.Context) {
	adminID := middleware.MustGetIdentityID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid user ID", err)
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid status payload", err)
		return
	}

	if err := h.userService.SetStatus(c.Request.Context(), adminID, id, req.Status); err != nil {
		switch {
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.ValidationError(c, "Invalid status value", nil)
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "User not found")
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to update status", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "Status updated", nil)
}

type setVerificationRequest struct {
	Verification string `json:"verification" binding:"required"`
}

// SetVerification handles PATCH /admin/users/:id/verification
func (h *UserHandler) SetVerification(c *gin.Context) {
	adminID := middleware.MustGetIdentityID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid user ID", err)
		return
	}

	var req setVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid verification payload", err)
		return
	}

	if err := h.userService.SetVerification(c.Request.Context(), adminID, id, req.Verification); err != nil {
		switch {
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.ValidationError(c, "Invalid verification value", nil)
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "User not found")
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to update verification", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "Verification updated", nil)
}
