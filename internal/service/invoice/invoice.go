// internal/service/invoice/invoice.go
package invoice

import (
	"context"

	"khidma-service/internal/domain/invoice"
	"khidma-service/internal/domain/realtime"
	xerrors "khidma-service/internal/pkg/errors"
	"khidma-service/internal/repository/postgres"
	"khidma-service/internal/websocket"

	"go.uber.org/zap"
)

type InvoiceService struct {
	invoiceRepo *postgres.InvoiceRepository
	hub         *websocket.Hub
	logger      *zap.Logger
}

func NewInvoiceService(invoiceRepo *postgres.InvoiceRepository, hub *websocket.Hub, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{invoiceRepo: invoiceRepo, hub: hub, logger: logger}
}

// Get returns an invoice, restricted to its parties unless the caller is admin
func (s *InvoiceService) Get(ctx context.Context, callerID int64, isAdmin bool, id int64) (*invoice.Invoice, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && inv.ClientID != callerID && inv.ConsultantID != callerID {
		return nil, xerrors.ErrForbidden
	}
	return inv, nil
}

// MarkPaid settles an invoice. Only the billed client or an admin may do so.
func (s *InvoiceService) MarkPaid(ctx context.Context, callerID int64, isAdmin bool, id int64) (*invoice.Invoice, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && inv.ClientID != callerID {
		return nil, xerrors.ErrForbidden
	}
	if !inv.CanTransition(invoice.StatusPaid) {
		return nil, xerrors.ErrInvalidState
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, id, invoice.StatusPaid); err != nil {
		return nil, err
	}
	inv.Status = invoice.StatusPaid

	s.hub.Publish(realtime.EventInvoicePaid, map[string]interface{}{
		"invoice_reference": inv.InvoiceReference,
		"total":             inv.Total,
		"currency":          inv.Currency,
	})

	s.logger.Info("invoice paid",
		zap.String("invoice_reference", inv.InvoiceReference),
		zap.Float64("total", inv.Total),
	)
	return inv, nil
}

// Void cancels an invoice. Admin only; voiding a paid invoice is refused.
func (s *InvoiceService) Void(ctx context.Context, adminID, id int64) error {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !inv.CanTransition(invoice.StatusVoid) {
		return xerrors.ErrInvalidState
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, id, invoice.StatusVoid); err != nil {
		return err
	}

	s.logger.Info("invoice voided",
		zap.String("invoice_reference", inv.InvoiceReference),
		zap.Int64("admin_id", adminID),
	)
	return nil
}

// List returns invoices matching the filters
func (s *InvoiceService) List(ctx context.Context, filters *invoice.ListFilters) (*invoice.ListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	invoices, total, err := s.invoiceRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filters.PageSize) - 1) / int64(filters.PageSize))
	return &invoice.ListResponse{
		Invoices:   invoices,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}
