// internal/handlers/analytics/analytics_handler.go
package analytics

import (
	"net/http"
	"strconv"

	"khidma-service/internal/pkg/response"
	analyticssvc "khidma-service/internal/service/analytics"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService *analyticssvc.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *analyticssvc.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Dashboard handles GET /admin/analytics/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.analyticsService.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to load dashboard", err)
		return
	}

	response.Success(c, http.StatusOK, "Dashboard retrieved", stats)
}

// Revenue handles GET /admin/analytics/revenue
func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "12"))

	points, err := h.analyticsService.MonthlyRevenue(c.Request.Context(), months)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to load revenue series", err)
		return
	}

	response.Success(c, http.StatusOK, "Revenue series retrieved", points)
}

// Categories handles GET /admin/analytics/categories
func (h *AnalyticsHandler) Categories(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	counts, err := h.analyticsService.TopCategories(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to load category counts", err)
		return
	}

	response.Success(c, http.StatusOK, "Category counts retrieved", counts)
}
