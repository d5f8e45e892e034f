// internal/handlers/content/content_handler.go
package content

import (
	"errors"
	"net/http"

	domain "khidma-service/internal/domain/content"
	"khidma-service/internal/middleware"
	xerrors "khidma-service/internal/pkg/errors"
	"khidma-service/internal/pkg/response"
	contentsvc "khidma-service/internal/service/content"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	contentService *contentsvc.ContentService
}

func NewContentHandler(contentService *contentsvc.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// ========== Public ==========

// GetPage handles GET /pages/:slug
func (h *ContentHandler) GetPage(c *gin.Context) {
	p, err := h.contentService.GetPage(c.Request.Context(), c.Param("slug"), false)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "Page not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to load page", err)
		return
	}

	response.Success(c, http.StatusOK, "Page retrieved", p)
}

// HomeSections handles GET /home-sections
func (h *ContentHandler) HomeSections(c *gin.Context) {
	sections, err := h.contentService.ListHomeSections(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to load home sections", err)
		return
	}

	response.Success(c, http.StatusOK, "Home sections retrieved", sections)
}

// ========== Admin ==========

// ListSettings handles GET /admin/settings
func (h *ContentHandler) ListSettings(c *gin.Context) {
	settings, err := h.contentService.ListSettings(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list settings", err)
		return
	}

	response.Success(c, http.StatusOK, "Settings retrieved", settings)
}

// UpsertSetting handles PUT /admin/settings/:key
func (h *ContentHandler) UpsertSetting(c *gin.Context) {
	adminID := middleware.MustGetIdentityID(c)

	var req domain.UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid setting payload", err)
		return
	}

	setting, err := h.contentService.UpsertSetting(c.Request.Context(), adminID, c.Param("key"), req.Value)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to save setting", err)
		return
	}

	response.Success(c, http.StatusOK, "Setting saved", setting)
}

// ListPages handles GET /admin/pages (drafts included)
func (h *ContentHandler) ListPages(c *gin.Context) {
	pages, err := h.contentService.ListPages(c.Request.Context(), false)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list pages", err)
		return
	}

	response.Success(c, http.StatusOK, "Pages retrieved", pages)
}

// UpsertPage handles PUT /admin/pages
func (h *ContentHandler) UpsertPage(c *gin.Context) {
	adminID := middleware.MustGetIdentityID(c)

	var req domain.UpsertPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid page payload", err)
		return
	}

	p, err := h.contentService.UpsertPage(c.Request.Context(), adminID, &req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to save page", err)
		return
	}

	response.Success(c, http.StatusOK, "Page saved", p)
}

// ReorderHomeSections handles PUT /admin/home-sections/order
func (h *ContentHandler) ReorderHomeSections(c *gin.Context) {
	adminID := middleware.MustGetIdentityID(c)

	var req domain.ReorderSectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid order payload", err)
		return
	}

	if err := h.contentService.ReorderHomeSections(c.Request.Context(), adminID, req.SectionIDs); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "Unknown section in order list")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to reorder sections", err)
		return
	}

	response.Success(c, http.StatusOK, "Home sections reordered", nil)
}
