// internal/repository/postgres/invoice_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"khidma-service/internal/domain/invoice"
	xerrors "khidma-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvoiceRepository struct {
	db *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

const invoiceColumns = `
	id, invoice_reference, job_id, bid_id, client_id, consultant_id,
	amount, platform_fee, total, currency,
	status, issued_at, due_at, paid_at, created_at, updated_at
`

func scanInvoice(row pgx.Row) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	err := row.Scan(
		&inv.ID, &inv.InvoiceReference, &inv.JobID, &inv.BidID, &inv.ClientID, &inv.ConsultantID,
		&inv.Amount, &inv.PlatformFee, &inv.Total, &inv.Currency,
		&inv.Status, &inv.IssuedAt, &inv.DueAt, &inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan invoice: %w", err)
	}
	return &inv, nil
}

// Create inserts an invoice inside the caller's transaction (part of the
// bid-acceptance flow).
func (r *InvoiceRepository) Create(ctx context.Context, tx pgx.Tx, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (invoice_reference, job_id, bid_id, client_id, consultant_id,
		                      amount, platform_fee, total, currency, status, issued_at, due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		inv.InvoiceReference, inv.JobID, inv.BidID, inv.ClientID, inv.ConsultantID,
		inv.Amount, inv.PlatformFee, inv.Total, inv.Currency, inv.Status, inv.IssuedAt, inv.DueAt,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	return nil
}

// FindByID retrieves an invoice by ID
func (r *InvoiceRepository) FindByID(ctx context.Context, id int64) (*invoice.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE id = $1`, invoiceColumns)
	return scanInvoice(r.db.QueryRow(ctx, query, id))
}

// FindByReference retrieves an invoice by its public reference
func (r *InvoiceRepository) FindByReference(ctx context.Context, ref string) (*invoice.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE invoice_reference = $1`, invoiceColumns)
	return scanInvoice(r.db.QueryRow(ctx, query, ref))
}

// UpdateStatus moves the invoice lifecycle. MarkPaid stamps paid_at.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id int64, status invoice.InvoiceStatus) error {
	query := `
		UPDATE invoices
		SET status = $2,
		    paid_at = CASE WHEN $2 = 'paid' THEN NOW() ELSE paid_at END,
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

// List returns invoices matching the filters with pagination
func (r *InvoiceRepository) List(ctx context.Context, filters *invoice.ListFilters) ([]*invoice.Invoice, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filters.ClientID > 0 {
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", argIdx))
		args = append(args, filters.ClientID)
		argIdx++
	}
	if filters.ConsultantID > 0 {
		conditions = append(conditions, fmt.Sprintf("consultant_id = $%d", argIdx))
		args = append(args, filters.ConsultantID)
		argIdx++
	}
	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filters.Status)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM invoices WHERE %s`, where)

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	offset := (filters.Page - 1) * filters.PageSize
	listQuery := fmt.Sprintf(`
		SELECT %s FROM invoices
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, invoiceColumns, where, argIdx, argIdx+1)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, inv)
	}

	return invoices, total, rows.Err()
}
