// internal/handlers/bid/bid_handler.go
package bid

import (
	"errors"
	"net/http"
	"strconv"

	domain "khidma-service/internal/domain/bid"
	"khidma-service/internal/middleware"
	xerrors "khidma-service/internal/pkg/errors"
	"khidma-service/internal/pkg/response"
	bidsvc "khidma-service/internal/service/bid"

	"github.com/gin-gonic/gin"
)

type BidHandler struct {
	bidService *bidsvc.BidService
}

func NewBidHandler(bidService *bidsvc.BidService) *BidHandler {
	return &BidHandler{bidService: bidService}
}

// Submit handles POST /jobs/:id/bids
func (h *BidHandler) Submit(c *gin.Context) {
	consultantID := middleware.MustGetIdentityID(c)

	jobID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid job ID", err)
		return
	}

	var req domain.SubmitBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid bid payload", err)
		return
	}

	b, err := h.bidService.Submit(c.Request.Context(), consultantID, jobID, &req)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "Job not found")
		case errors.Is(err, xerrors.ErrJobClosed):
			response.Error(c, http.StatusConflict, "Job is not open for bidding", nil)
		case errors.Is(err, xerrors.ErrForbidden):
			response.Forbidden(c, "You cannot bid on your own job")
		case errors.Is(err, xerrors.ErrDuplicateEntry):
			response.Error(c, http.StatusConflict, "You already have an active bid on this job", nil)
		case errors.Is(err, xerrors.ErrRateLimited):
			response.Error(c, http.StatusForbidden, "Monthly bid allowance exhausted", nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to submit bid", err)
		}
		return
	}

	response.Success(c, http.StatusCreated, "Bid submitted", b)
}

// Accept handles POST /bids/:id/accept
func (h *BidHandler) Accept(c *gin.Context) {
	clientID := middleware.MustGetIdentityID(c)

	bidID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid bid ID", err)
		return
	}

	inv, err := h.bidService.Accept(c.Request.Context(), clientID, bidID)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "Bid not found")
		case errors.Is(err, xerrors.ErrForbidden):
			response.Forbidden(c, "You do not own this job")
		case errors.Is(err, xerrors.ErrAlreadyAwarded):
			response.Error(c, http.StatusConflict, "Job has already been awarded", nil)
		case errors.Is(err, xerrors.ErrJobClosed):
			response.Error(c, http.StatusConflict, "Job is no longer open", nil)
		case errors.Is(err, xerrors.ErrInvalidState):
			response.Error(c, http.StatusConflict, "Bid is no longer pending", nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to accept bid", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "Bid accepted", inv)
}

// Withdraw handles POST /bids/:id/withdraw
func (h *BidHandler) Withdraw(c *gin.Context) {
	consultantID := middleware.MustGetIdentityID(c)

	bidID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid bid ID", err)
		return
	}

	if err := h.bidService.Withdraw(c.Request.Context(), consultantID, bidID); err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "Bid not found")
		case errors.Is(err, xerrors.ErrForbidden):
			response.Forbidden(c, "You do not own this bid")
		case errors.Is(err, xerrors.ErrInvalidState):
			response.Error(c, http.StatusConflict, "Bid is no longer pending", nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to withdraw bid", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "Bid withdrawn", nil)
}

// scopeFilters pins the list to what the caller may see: consultants get
// their own bids, clients get bids on jobs they own, admins filter freely.
func scopeFilters(c *gin.Context, filters *domain.ListFilters) {
	if middleware.IsAdmin(c) {
		return
	}

	callerID := middleware.MustGetIdentityID(c)
	if middleware.HasRole(c, "consultant") {
		filters.ConsultantID = callerID
		filters.ClientID = 0
	} else {
		filters.ClientID = callerID
		filters.ConsultantID = 0
	}
}

// List handles GET /bids
func (h *BidHandler) List(c *gin.Context) {
	var filters domain.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "Invalid filters", err)
		return
	}

	scopeFilters(c, &filters)

	resp, err := h.bidService.List(c.Request.Context(), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list bids", err)
		return
	}

	response.Success(c, http.StatusOK, "Bids retrieved", resp)
}
