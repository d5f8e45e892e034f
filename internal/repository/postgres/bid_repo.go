// internal/repository/postgres/bid_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"khidma-service/internal/domain/bid"
	xerrors "khidma-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BidRepository struct {
	db *pgxpool.Pool
}

func NewBidRepository(db *pgxpool.Pool) *BidRepository {
	return &BidRepository{db: db}
}

const bidColumns = `
	id, bid_reference, job_id, consultant_id, amount, currency,
	delivery_days, cover_note, status, created_at, updated_at
`

func scanBid(row pgx.Row) (*bid.Bid, error) {
	var b bid.Bid
	err := row.Scan(
		&b.ID, &b.BidReference, &b.JobID, &b.ConsultantID, &b.Amount, &b.Currency,
		&b.DeliveryDays, &b.CoverNote, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan bid: %w", err)
	}
	return &b, nil
}

// Create inserts a new bid
func (r *BidRepository) Create(ctx context.Context, b *bid.Bid) error {
	query := `
		INSERT INTO bids (bid_reference, job_id, consultant_id, amount, currency,
		                  delivery_days, cover_note, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		b.BidReference, b.JobID, b.ConsultantID, b.Amount, b.Currency,
		b.DeliveryDays, b.CoverNote, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create bid: %w", err)
	}

	return nil
}

// FindByID retrieves a bid by ID
func (r *BidRepository) FindByID(ctx context.Context, id int64) (*bid.Bid, error) {
	query := fmt.Sprintf(`SELECT %s FROM bids WHERE id = $1`, bidColumns)
	return scanBid(r.db.QueryRow(ctx, query, id))
}

// HasActiveBid reports whether the consultant already has a pending bid on the job
func (r *BidRepository) HasActiveBid(ctx context.Context, jobID, consultantID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bids
			WHERE job_id = $1 AND consultant_id = $2 AND status = 'pending'
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, jobID, consultantID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check active bid: %w", err)
	}
	return exists, nil
}

// Accept marks the bid accepted inside the caller's transaction.
func (r *BidRepository) Accept(ctx context.Context, tx pgx.Tx, id int64) error {
	query := `UPDATE bids SET status = 'accepted', updated_at = NOW() WHERE id = $1 AND status = 'pending'`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to accept bid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrInvalidState
	}

	return nil
}

// DeclineOthers declines every other pending bid on the job, inside the
// caller's transaction. Runs as part of the award flow.
func (r *BidRepository) DeclineOthers(ctx context.Context, tx pgx.Tx, jobID, acceptedBidID int64) error {
	query := `
		UPDATE bids SET status = 'declined', updated_at = NOW()
		WHERE job_id = $1 AND id != $2 AND status = 'pending'
	`
	_, err := tx.Exec(ctx, query, jobID, acceptedBidID)
	return err
}

// UpdateStatus moves a single bid's lifecycle
func (r *BidRepository) UpdateStatus(ctx context.Context, id int64, status bid.BidStatus) error {
	query := `UPDATE bids SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

// List returns bids matching the filters with pagination
func (r *BidRepository) List(ctx context.Context, filters *bid.ListFilters) ([]*bid.Bid, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filters.JobID > 0 {
		conditions = append(conditions, fmt.Sprintf("job_id = $%d", argIdx))
		args = append(args, filters.JobID)
		argIdx++
	}
	if filters.ConsultantID > 0 {
		conditions = append(conditions, fmt.Sprintf("consultant_id = $%d", argIdx))
		args = append(args, filters.ConsultantID)
		argIdx++
	}
	if filters.ClientID > 0 {
		// Bids on jobs the client owns
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM jobs j WHERE j.id = bids.job_id AND j.client_id = $%d)", argIdx))
		args = append(args, filters.ClientID)
		argIdx++
	}
	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filters.Status)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM bids WHERE %s`, where)

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bids: %w", err)
	}

	offset := (filters.Page - 1) * filters.PageSize
	listQuery := fmt.Sprintf(`
		SELECT %s FROM bids
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, bidColumns, where, argIdx, argIdx+1)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bids: %w", err)
	}
	defer rows.Close()

	var bids []*bid.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, 0, err
		}
		bids = append(bids, b)
	}

	return bids, total, rows.Err()
}
