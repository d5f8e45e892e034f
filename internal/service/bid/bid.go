// internal/service/bid/bid.go
package bid

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"khidma-service/internal/domain/bid"
	"khidma-service/internal/domain/invoice"
	"khidma-service/internal/domain/job"
	"khidma-service/internal/domain/realtime"
	xerrors "khidma-service/internal/pkg/errors"
	"khidma-service/internal/repository/postgres"
	"khidma-service/internal/websocket"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// invoiceDueDays is how long a client has to settle an acceptance invoice.
const invoiceDueDays = 14

type BidService struct {
	db          *postgres.DB
	bidRepo     *postgres.BidRepository
	jobRepo     *postgres.JobRepository
	invoiceRepo *postgres.InvoiceRepository
	planRepo    *postgres.PlanRepository
	hub         *websocket.Hub
	feePercent  float64
	logger      *zap.Logger
}

func NewBidService(
	db *postgres.DB,
	bidRepo *postgres.BidRepository,
	jobRepo *postgres.JobRepository,
	invoiceRepo *postgres.InvoiceRepository,
	planRepo *postgres.PlanRepository,
	hub *websocket.Hub,
	feePercent float64,
	logger *zap.Logger,
) *BidService {
	return &BidService{
		db:          db,
		bidRepo:     bidRepo,
		jobRepo:     jobRepo,
		invoiceRepo: invoiceRepo,
		planRepo:    planRepo,
		hub:         hub,
		feePercent:  feePercent,
		logger:      logger,
	}
}

// Submit places a consultant's bid on an open job. Consultants on a metered
// plan are held to their monthly bid allowance.
func (s *BidService) Submit(ctx context.Context, consultantID, jobID int64, req *bid.SubmitBidRequest) (*bid.Bid, error) {
	j, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !j.CanReceiveBids() {
		return nil, xerrors.ErrJobClosed
	}
	if j.ClientID == consultantID {
		return nil, xerrors.ErrForbidden
	}

	has, err := s.bidRepo.HasActiveBid(ctx, jobID, consultantID)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, xerrors.ErrDuplicateEntry
	}

	sub, err := s.checkAllowance(ctx, consultantID)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = j.Currency
	}

	b := &bid.Bid{
		BidReference: fmt.Sprintf("BID-%s", ulid.Make().String()),
		JobID:        jobID,
		ConsultantID: consultantID,
		Amount:       req.Amount,
		Currency:     currency,
		DeliveryDays: req.DeliveryDays,
		CoverNote:    sql.NullString{String: req.CoverNote, Valid: req.CoverNote != ""},
		Status:       bid.StatusPending,
	}
	if err := s.bidRepo.Create(ctx, b); err != nil {
		return nil, err
	}

	if err := s.jobRepo.IncrementBidCount(ctx, jobID); err != nil {
		s.logger.Error("failed to bump bid count", zap.Int64("job_id", jobID), zap.Error(err))
	}
	if sub != nil {
		if err := s.planRepo.IncrementBidsUsed(ctx, sub.ID); err != nil {
			s.logger.Error("failed to record allowance use", zap.Int64("subscription_id", sub.ID), zap.Error(err))
		}
	}

	s.hub.Publish(realtime.EventBidSubmitted, map[string]interface{}{
		"bid_reference": b.BidReference,
		"job_reference": j.JobReference,
		"amount":        b.Amount,
		"currency":      b.Currency,
	})

	s.logger.Info("bid submitted",
		zap.String("bid_reference", b.BidReference),
		zap.Int64("job_id", jobID),
		zap.Int64("consultant_id", consultantID),
	)
	return b, nil
}

// checkAllowance enforces the consultant's plan allowance. No subscription
// means the free tier, which is unmetered.
func (s *BidService) checkAllowance(ctx context.Context, consultantID int64) (sub *subscriptionRef, err error) {
	active, err := s.planRepo.FindActiveSubscription(ctx, consultantID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if active.IsExpired(time.Now()) {
		return nil, nil
	}

	p, err := s.planRepo.FindByID(ctx, active.PlanID)
	if err != nil {
		return nil, err
	}
	if p.BidsPerMonth.Valid && active.BidsUsed >= int(p.BidsPerMonth.Int32) {
		return nil, xerrors.ErrRateLimited
	}

	return &subscriptionRef{ID: active.ID}, nil
}

type subscriptionRef struct {
	ID int64
}

// Accept awards the job to a bid. The bid flip, the sibling declines, the
// job award and the invoice land in one transaction so a job can never end
// up with two accepted bids or an awarded job without its invoice.
func (s *BidService) Accept(ctx context.Context, clientID, bidID int64) (*invoice.Invoice, error) {
	b, err := s.bidRepo.FindByID(ctx, bidID)
	if err != nil {
		return nil, err
	}

	j, err := s.jobRepo.FindByID(ctx, b.JobID)
	if err != nil {
		return nil, err
	}
	if j.ClientID != clientID {
		return nil, xerrors.ErrForbidden
	}
	if j.Status == job.StatusAwarded {
		return nil, xerrors.ErrAlreadyAwarded
	}
	if !j.CanReceiveBids() {
		return nil, xerrors.ErrJobClosed
	}
	if !b.IsOpen() {
		return nil, xerrors.ErrInvalidState
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.bidRepo.Accept(ctx, tx, bidID); err != nil {
		return nil, err
	}
	if err := s.bidRepo.DeclineOthers(ctx, tx, j.ID, bidID); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Award(ctx, tx, j.ID, bidID); err != nil {
		return nil, err
	}

	fee := math.Round(b.Amount*s.feePercent) / 100
	now := time.Now()
	inv := &invoice.Invoice{
		InvoiceReference: fmt.Sprintf("INV-%s", ulid.Make().String()),
		JobID:            j.ID,
		BidID:            b.ID,
		ClientID:         j.ClientID,
		ConsultantID:     b.ConsultantID,
		Amount:           b.Amount,
		PlatformFee:      fee,
		Total:            b.Amount + fee,
		Currency:         b.Currency,
		Status:           invoice.StatusIssued,
		IssuedAt:         sql.NullTime{Time: now, Valid: true},
		DueAt:            sql.NullTime{Time: now.AddDate(0, 0, invoiceDueDays), Valid: true},
	}
	if err := s.invoiceRepo.Create(ctx, tx, inv); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit acceptance: %w", err)
	}

	s.hub.Publish(realtime.EventBidAccepted, map[string]interface{}{
		"job_reference":     j.JobReference,
		"bid_reference":     b.BidReference,
		"invoice_reference": inv.InvoiceReference,
		"total":             inv.Total,
	})

	s.logger.Info("bid accepted",
		zap.Int64("job_id", j.ID),
		zap.Int64("bid_id", b.ID),
		zap.String("invoice_reference", inv.InvoiceReference),
	)
	return inv, nil
}

// Withdraw lets a consultant pull a pending bid
func (s *BidService) Withdraw(ctx context.Context, consultantID, bidID int64) error {
	b, err := s.bidRepo.FindByID(ctx, bidID)
	if err != nil {
		return err
	}
	if b.ConsultantID != consultantID {
		return xerrors.ErrForbidden
	}
	if !b.IsOpen() {
		return xerrors.ErrInvalidState
	}

	return s.bidRepo.UpdateStatus(ctx, bidID, bid.StatusWithdrawn)
}

// List returns bids matching the filters. Non-admin callers are restricted
// by the handler to their own jobs or bids before this is reached.
func (s *BidService) List(ctx context.Context, filters *bid.ListFilters) (*bid.ListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	bids, total, err := s.bidRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filters.PageSize) - 1) / int64(filters.PageSize))
	return &bid.ListResponse{
		Bids:       bids,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}
