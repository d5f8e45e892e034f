// internal/repository/postgres/plan_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"khidma-service/internal/domain/plan"
	xerrors "khidma-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlanRepository struct {
	db *pgxpool.Pool
}

func NewPlanRepository(db *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{db: db}
}

const planColumns = `
	id, plan_code, name_en, name_ar, description_en, description_ar,
	price, currency, billing_cycle, bids_per_month, featured_profile,
	status, is_public, created_at, updated_at
`

func scanPlan(row pgx.Row) (*plan.SubscriptionPlan, error) {
	var p plan.SubscriptionPlan
	err := row.Scan(
		&p.ID, &p.PlanCode, &p.NameEn, &p.NameAr, &p.DescriptionEn, &p.DescriptionAr,
		&p.Price, &p.Currency, &p.BillingCycle, &p.BidsPerMonth, &p.FeaturedProfile,
		&p.Status, &p.IsPublic, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan plan: %w", err)
	}
	return &p, nil
}

// Create inserts a new subscription plan
func (r *PlanRepository) Create(ctx context.Context, p *plan.SubscriptionPlan) error {
	query := `
		INSERT INTO subscription_plans (plan_code, name_en, name_ar, description_en, description_ar,
		                                price, currency, billing_cycle, bids_per_month,
		                                featured_profile, status, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		p.PlanCode, p.NameEn, p.NameAr, p.DescriptionEn, p.DescriptionAr,
		p.Price, p.Currency, p.BillingCycle, p.BidsPerMonth,
		p.FeaturedProfile, p.Status, p.IsPublic,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create subscription plan: %w", err)
	}

	return nil
}

// FindByID retrieves a plan by ID
func (r *PlanRepository) FindByID(ctx context.Context, id int64) (*plan.SubscriptionPlan, error) {
	query := fmt.Sprintf(`SELECT %s FROM subscription_plans WHERE id = $1`, planColumns)
	return scanPlan(r.db.QueryRow(ctx, query, id))
}

// FindByPlanCode retrieves a plan by its code
func (r *PlanRepository) FindByPlanCode(ctx context.Context, code string) (*plan.SubscriptionPlan, error) {
	query := fmt.Sprintf(`SELECT %s FROM subscription_plans WHERE plan_code = $1`, planColumns)
	return scanPlan(r.db.QueryRow(ctx, query, code))
}

// ExistsByPlanCode checks whether a plan code is already taken
func (r *PlanRepository) ExistsByPlanCode(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM subscription_plans WHERE plan_code = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check plan code: %w", err)
	}
	return exists, nil
}

// Update replaces the mutable plan fields
func (r *PlanRepository) Update(ctx context.Context, p *plan.SubscriptionPlan) error {
	query := `
		UPDATE subscription_plans
		SET name_en = $2, name_ar = $3, description_en = $4, description_ar = $5,
		    price = $6, bids_per_month = $7, featured_profile = $8,
		    status = $9, is_public = $10, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		p.ID, p.NameEn, p.NameAr, p.DescriptionEn, p.DescriptionAr,
		p.Price, p.BidsPerMonth, p.FeaturedProfile, p.Status, p.IsPublic,
	)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// List returns plans matching the filters with pagination
func (r *PlanRepository) List(ctx context.Context, filters *plan.ListFilters) ([]*plan.SubscriptionPlan, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filters.Status)
		argIdx++
	}
	if filters.IsPublic != nil {
		conditions = append(conditions, fmt.Sprintf("is_public = $%d", argIdx))
		args = append(args, *filters.IsPublic)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM subscription_plans WHERE %s`, where)

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count plans: %w", err)
	}

	offset := (filters.Page - 1) * filters.PageSize
	listQuery := fmt.Sprintf(`
		SELECT %s FROM subscription_plans
		WHERE %s
		ORDER BY price ASC
		LIMIT $%d OFFSET $%d
	`, planColumns, where, argIdx, argIdx+1)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []*plan.SubscriptionPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, 0, err
		}
		plans = append(plans, p)
	}

	return plans, total, rows.Err()
}

// ========== Subscriptions ==========

// CreateSubscription enrols a consultant on a plan. The allowance window
// opens at the current calendar month.
func (r *PlanRepository) CreateSubscription(ctx context.Context, s *plan.Subscription) error {
	query := `
		INSERT INTO plan_subscriptions (consultant_id, plan_id, started_at, expires_at, period_start, status)
		VALUES ($1, $2, $3, $4, date_trunc('month', NOW()), $5)
		RETURNING id, period_start, created_at
	`

	err := r.db.QueryRow(ctx, query,
		s.ConsultantID, s.PlanID, s.StartedAt, s.ExpiresAt, s.Status,
	).Scan(&s.ID, &s.PeriodStart, &s.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

// FindActiveSubscription returns the consultant's current unexpired
// subscription, if any. When the calendar month has rolled since the last
// read, the monthly bid counter is zeroed first.
func (r *PlanRepository) FindActiveSubscription(ctx context.Context, consultantID int64) (*plan.Subscription, error) {
	rollQuery := `
		UPDATE plan_subscriptions
		SET bids_used = 0, period_start = date_trunc('month', NOW())
		WHERE consultant_id = $1 AND status = 'active'
		  AND period_start < date_trunc('month', NOW())
	`
	if _, err := r.db.Exec(ctx, rollQuery, consultantID); err != nil {
		return nil, fmt.Errorf("failed to roll allowance window: %w", err)
	}

	query := `
		SELECT id, consultant_id, plan_id, started_at, expires_at, period_start, bids_used, status, created_at
		FROM plan_subscriptions
		WHERE consultant_id = $1 AND status = 'active'
		  AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY started_at DESC
		LIMIT 1
	`

	var s plan.Subscription
	err := r.db.QueryRow(ctx, query, consultantID).Scan(
		&s.ID, &s.ConsultantID, &s.PlanID, &s.StartedAt, &s.ExpiresAt,
		&s.PeriodStart, &s.BidsUsed, &s.Status, &s.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}

	return &s, nil
}

// IncrementBidsUsed counts a bid against the monthly allowance
func (r *PlanRepository) IncrementBidsUsed(ctx context.Context, subscriptionID int64) error {
	query := `UPDATE plan_subscriptions SET bids_used = bids_used + 1 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, subscriptionID)
	return err
}
