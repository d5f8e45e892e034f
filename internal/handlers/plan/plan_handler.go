// internal/handlers/plan/plan_handler.go
package plan

import (
	"errors"
	"net/http"
	"strconv"

	domain "khidma-service/internal/domain/plan"
	"khidma-service/internal/middleware"
	xerrors "khidma-service/internal/pkg/errors"
	"khidma-service/internal/pkg/response"
	plansvc "khidma-service/internal/service/plan"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planService *plansvc.PlanService
}

func NewPlanHandler(planService *plansvc.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// PublicList handles GET /plans. Only active public plans are visible here.
func (h *PlanHandler) PublicList(c *gin.Context) {
	var filters domain.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "Invalid filters", err)
		return
	}

	// Pin the public view regardless of query input
	isPublic := true
	filters.Status = string(domain.StatusActive)
	filters.IsPublic = &isPublic

	resp, err := h.planService.List(c.Request.Context(), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list plans", err)
		return
	}

	response.Success(c, http.StatusOK, "Plans retrieved", resp)
}

// Subscribe handles POST /plans/subscribe
func (h *PlanHandler) Subscribe(c *gin.Context) {
	consultantID := middleware.MustGetIdentityID(c)

	var req domain.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid subscription payload", err)
		return
	}

	sub, err := h.planService.Subscribe(c.Request.Context(), consultantID, &req)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "Plan not found")
		case errors.Is(err, xerrors.ErrInvalidState):
			response.Error(c, http.StatusConflict, "Plan is not open for subscription", nil)
		case errors.Is(err, xerrors.ErrDuplicateEntry):
			response.Error(c, http.StatusConflict, "You already have an active subscription", nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to subscribe", err)
		}
		return
	}

	response.Success(c, http.StatusCreated, "Subscribed", sub)
}

// MySubscription handles GET /plans/subscription
func (h *PlanHandler) MySubscription(c *gin.Context) {
	consultantID := middleware.MustGetIdentityID(c)

	sub, err := h.planService.CurrentSubscription(c.Request.Context(), consultantID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "No active subscription")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to load subscription", err)
		return
	}

	response.Success(c, http.StatusOK, "Subscription retrieved", sub)
}

// ========== Admin ==========

// Create handles POST /admin/plans
func (h *PlanHandler) Create(c *gin.Context) {
	adminID := middleware.MustGetIdentityID(c)

	var req domain.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid plan payload", err)
		return
	}

	p, err := h.planService.Create(c.Request.Context(), adminID, &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrDuplicateEntry) {
			response.Error(c, http.StatusConflict, "Plan code already exists", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to create plan", err)
		return
	}

	response.Success(c, http.StatusCreated, "Plan created", p)
}

// Update handles PATCH /admin/plans/:id
func (h *PlanHandler) Update(c *gin.Context) {
	adminID := middleware.MustGetIdentityID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid plan ID", err)
		return
	}

	var req domain.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid plan payload", err)
		return
	}

	p, err := h.planService.Update(c.Request.Context(), adminID, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "Plan not found")
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.ValidationError(c, "Invalid plan status", nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to update plan", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "Plan updated", p)
}

// AdminList handles GET /admin/plans (all plans, including private/retired)
func (h *PlanHandler) AdminList(c *gin.Context) {
	var filters domain.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "Invalid filters", err)
		return
	}

	resp, err := h.planService.List(c.Request.Context(), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list plans", err)
		return
	}

	response.Success(c, http.StatusOK, "Plans retrieved", resp)
}

// Get handles GET /plans/:id
func (h *PlanHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid plan ID", err)
		return
	}

	p, err := h.planService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "Plan not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to load plan", err)
		return
	}

	response.Success(c, http.StatusOK, "Plan retrieved", p)
}
