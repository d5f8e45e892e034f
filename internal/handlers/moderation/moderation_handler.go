// internal/handlers/moderation/moderation_handler.go
package moderation

import (
	"errors"
	"net/http"
	"strconv"

	domain "khidma-service/internal/domain/message"
	"khidma-service/internal/middleware"
	xerrors "khidma-service/internal/pkg/errors"
	"khidma-service/internal/pkg/response"
	modsvc "khidma-service/internal/service/moderation"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	moderationService *modsvc.ModerationService
}

func NewModerationHandler(moderationService *modsvc.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

// SendMessage handles POST /jobs/:id/messages/:consultant_id
func (h *ModerationHandler) SendMessage(c *gin.Context) {
	senderID := middleware.MustGetIdentityID(c)

	jobID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid job ID", err)
		return
	}
	consultantID, err := strconv.ParseInt(c.Param("consultant_id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid consultant ID", err)
		return
	}

	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid message payload", err)
		return
	}

	m, err := h.moderationService.SendMessage(c.Request.Context(), senderID, jobID, consultantID, &req)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "Job not found")
		case errors.Is(err, xerrors.ErrForbidden):
			response.Forbidden(c, "You are not a participant in this conversation")
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to send message", err)
		}
		return
	}

	response.Success(c, http.StatusCreated, "Message sent", m)
}

// Thread handles GET /conversations/:id/messages
func (h *ModerationHandler) Thread(c *gin.Context) {
	callerID := middleware.MustGetIdentityID(c)

	conversationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid conversation ID", err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	msgs, err := h.moderationService.Thread(c.Request.Context(), callerID, middleware.IsAdmin(c), conversationID, limit)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "Conversation not found")
		case errors.Is(err, xerrors.ErrForbidden):
			response.Forbidden(c, "You are not a participant in this conversation")
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to load messages", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "Messages retrieved", msgs)
}

// Flag handles POST /messages/:id/flag
func (h *ModerationHandler) Flag(c *gin.Context) {
	callerID := middleware.MustGetIdentityID(c)

	messageID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid message ID", err)
		return
	}

	var req domain.FlagMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid flag payload", err)
		return
	}

	if err := h.moderationService.Flag(c.Request.Context(), callerID, messageID, &req); err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "Message not found")
		case errors.Is(err, xerrors.ErrForbidden):
			response.Forbidden(c, "You are not a participant in this conversation")
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.ValidationError(c, "You cannot flag your own message", nil)
		case errors.Is(err, xerrors.ErrInvalidState):
			response.Error(c, http.StatusConflict, "Message is already under review", nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to flag message", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "Message flagged for review", nil)
}

// ========== Admin ==========

// Queue handles GET /admin/moderation/queue
func (h *ModerationHandler) Queue(c *gin.Context) {
	var filters domain.QueueFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "Invalid filters", err)
		return
	}

	resp, err := h.moderationService.Queue(c.Request.Context(), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to load moderation queue", err)
		return
	}

	response.Success(c, http.StatusOK, "Moderation queue retrieved", resp)
}

type resolveRequest struct {
	Approve bool `json:"approve"`
}

// Resolve handles POST /admin/moderation/:id/resolve
func (h *ModerationHandler) Resolve(c *gin.Context) {
	moderatorID := middleware.MustGetIdentityID(c)

	messageID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid message ID", err)
		return
	}

	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid resolution payload", err)
		return
	}

	if err := h.moderationService.Resolve(c.Request.Context(), moderatorID, messageID, req.Approve); err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "Message not found")
		case errors.Is(err, xerrors.ErrInvalidState):
			response.Error(c, http.StatusConflict, "Message is not awaiting review", nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to resolve flag", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "Flag resolved", nil)
}
