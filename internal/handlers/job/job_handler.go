// internal/handlers/job/job_handler.go
package job

import (
	"errors"
	"net/http"
	"strconv"

	domain "khidma-service/internal/domain/job"
	"khidma-service/internal/middleware"
	xerrors "khidma-service/internal/pkg/errors"
	"khidma-service/internal/pkg/response"
	jobsvc "khidma-service/internal/service/job"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobService *jobsvc.JobService
}

func NewJobHandler(jobService *jobsvc.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// Create handles POST /jobs
func (h *JobHandler) Create(c *gin.Context) {
	clientID := middleware.MustGetIdentityID(c)

	var req domain.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid job payload", err)
		return
	}

	publish := c.DefaultQuery("publish", "true") != "false"

	j, err := h.jobService.Create(c.Request.Context(), clientID, &req, publish)
	if err != nil {
		if errors.Is(err, xerrors.ErrInvalidInput) {
			response.ValidationError(c, "Budget range is invalid", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to create job", err)
		return
	}

	response.Success(c, http.StatusCreated, "Job created", j)
}

// Get handles GET /jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid job ID", err)
		return
	}

	j, err := h.jobService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "Job not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to load job", err)
		return
	}

	response.Success(c, http.StatusOK, "Job retrieved", j)
}

// Update handles PATCH /jobs/:id
func (h *JobHandler) Update(c *gin.Context) {
	clientID := middleware.MustGetIdentityID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid job ID", err)
		return
	}

	var req domain.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid job payload", err)
		return
	}

	j, err := h.jobService.Update(c.Request.Context(), clientID, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "Job not found")
		case errors.Is(err, xerrors.ErrForbidden):
			response.Forbidden(c, "You do not own this job")
		case errors.Is(err, xerrors.ErrInvalidState):
			response.Error(c, http.StatusConflict, "Job can no longer be edited", nil)
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.ValidationError(c, "Budget range is invalid", nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to update job", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "Job updated", j)
}

// Publish handles POST /jobs/:id/publish
func (h *JobHandler) Publish(c *gin.Context) {
	clientID := middleware.MustGetIdentityID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid job ID", err)
		return
	}

	if err := h.jobService.Publish(c.Request.Context(), clientID, id); err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "Job not found")
		case errors.Is(err, xerrors.ErrForbidden):
			response.Forbidden(c, "You do not own this job")
		case errors.Is(err, xerrors.ErrInvalidState):
			response.Error(c, http.StatusConflict, "Only draft jobs can be published", nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to publish job", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "Job published", nil)
}

// Close handles POST /jobs/:id/close
func (h *JobHandler) Close(c *gin.Context) {
	callerID := middleware.MustGetIdentityID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid job ID", err)
		return
	}

	if err := h.jobService.Close(c.Request.Context(), callerID, middleware.IsAdmin(c), id); err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "Job not found")
		case errors.Is(err, xerrors.ErrForbidden):
			response.Forbidden(c, "You do not own this job")
		case errors.Is(err, xerrors.ErrJobClosed):
			response.Error(c, http.StatusConflict, "Job is already closed", nil)
		case errors.Is(err, xerrors.ErrInvalidState):
			response.Error(c, http.StatusConflict, "Awarded jobs cannot be closed", nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to close job", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "Job closed", nil)
}

// List handles GET /jobs
func (h *JobHandler) List(c *gin.Context) {
	var filters domain.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "Invalid filters", err)
		return
	}

	resp, err := h.jobService.List(c.Request.Context(), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list jobs", err)
		return
	}

	response.Success(c, http.StatusOK, "Jobs retrieved", resp)
}
