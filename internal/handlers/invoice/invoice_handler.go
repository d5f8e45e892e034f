// internal/handlers/invoice/invoice_handler.go
package invoice

import (
	"errors"
	"net/http"
	"strconv"

	domain "khidma-service/internal/domain/invoice"
	"khidma-service/internal/middleware"
	xerrors "khidma-service/internal/pkg/errors"
	"khidma-service/internal/pkg/response"
	invoicesvc "khidma-service/internal/service/invoice"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService *invoicesvc.InvoiceService
}

func NewInvoiceHandler(invoiceService *invoicesvc.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Get handles GET /invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	callerID := middleware.MustGetIdentityID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid invoice ID", err)
		return
	}

	inv, err := h.invoiceService.Get(c.Request.Context(), callerID, middleware.IsAdmin(c), id)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "Invoice not found")
		case errors.Is(err, xerrors.ErrForbidden):
			response.Forbidden(c, "You are not a party to this invoice")
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to load invoice", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "Invoice retrieved", inv)
}

// MarkPaid handles POST /invoices/:id/pay
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	callerID := middleware.MustGetIdentityID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid invoice ID", err)
		return
	}

	inv, err := h.invoiceService.MarkPaid(c.Request.Context(), callerID, middleware.IsAdmin(c), id)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "Invoice not found")
		case errors.Is(err, xerrors.ErrForbidden):
			response.Forbidden(c, "Only the billed client can settle this invoice")
		case errors.Is(err, xerrors.ErrInvalidState):
			response.Error(c, http.StatusConflict, "Invoice cannot be paid in its current state", nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to settle invoice", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "Invoice paid", inv)
}

// Void handles POST /admin/invoices/:id/void
func (h *InvoiceHandler) Void(c *gin.Context) {
	adminID := middleware.MustGetIdentityID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid invoice ID", err)
		return
	}

	if err := h.invoiceService.Void(c.Request.Context(), adminID, id); err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "Invoice not found")
		case errors.Is(err, xerrors.ErrInvalidState):
			response.Error(c, http.StatusConflict, "Invoice cannot be voided in its current state", nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to void invoice", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "Invoice voided", nil)
}

// List handles GET /invoices. Non-admin callers only see invoices they are
// party to.
func (h *InvoiceHandler) List(c *gin.Context) {
	var filters domain.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "Invalid filters", err)
		return
	}

	if !middleware.IsAdmin(c) {
		callerID := middleware.MustGetIdentityID(c)
		if middleware.HasRole(c, "consultant") {
			filters.ConsultantID = callerID
			filters.ClientID = 0
		} else {
			filters.ClientID = callerID
			filters.ConsultantID = 0
		}
	}

	resp, err := h.invoiceService.List(c.Request.Context(), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list invoices", err)
		return
	}

	response.Success(c, http.StatusOK, "Invoices retrieved", resp)
}
