// internal/repository/postgres/analytics_repo.go
package postgres

import (
	"context"
	"fmt"

	"khidma-service/internal/domain/analytics"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AnalyticsRepository struct {
	db *pgxpool.Pool
}

func NewAnalyticsRepository(db *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// DashboardStats collects the admin dashboard headline counters in one round trip.
func (r *AnalyticsRepository) DashboardStats(ctx context.Context) (*analytics.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM identities WHERE role = 'client' AND deleted_at IS NULL),
			(SELECT COUNT(*) FROM identities WHERE role = 'consultant' AND deleted_at IS NULL),
			(SELECT COUNT(*) FROM jobs WHERE status = 'open'),
			(SELECT COUNT(*) FROM jobs WHERE status = 'awarded'),
			(SELECT COUNT(*) FROM bids WHERE status = 'pending'),
			(SELECT COUNT(*) FROM messages WHERE moderation = 'flagged'),
			(SELECT COUNT(*) FROM invoices WHERE status = 'paid'),
			(SELECT COALESCE(SUM(total), 0) FROM invoices WHERE status = 'paid')
	`

	var stats analytics.DashboardStats
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalClients, &stats.TotalConsultants,
		&stats.OpenJobs, &stats.AwardedJobs,
		&stats.PendingBids, &stats.FlaggedMessages,
		&stats.PaidInvoices, &stats.TotalRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}

	return &stats, nil
}

// MonthlyRevenue returns paid-invoice revenue grouped by month, newest last.
func (r *AnalyticsRepository) MonthlyRevenue(ctx context.Context, months int) ([]*analytics.MonthlyRevenuePoint, error) {
	query := `
		SELECT to_char(date_trunc('month', paid_at), 'YYYY-MM') AS month,
		       COALESCE(SUM(total), 0),
		       COALESCE(SUM(platform_fee), 0)
		FROM invoices
		WHERE status = 'paid' AND paid_at >= date_trunc('month', NOW()) - ($1 || ' months')::interval
		GROUP BY 1
		ORDER BY 1 ASC
	`

	rows, err := r.db.Query(ctx, query, months)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly revenue: %w", err)
	}
	defer rows.Close()

	var points []*analytics.MonthlyRevenuePoint
	for rows.Next() {
		var p analytics.MonthlyRevenuePoint
		if err := rows.Scan(&p.Month, &p.Revenue, &p.Fees); err != nil {
			return nil, fmt.Errorf("failed to scan revenue point: %w", err)
		}
		points = append(points, &p)
	}

	return points, rows.Err()
}

// TopCategories returns job counts per category, busiest first.
func (r *AnalyticsRepository) TopCategories(ctx context.Context, limit int) ([]*analytics.CategoryCount, error) {
	query := `
		SELECT category, COUNT(*)
		FROM jobs
		GROUP BY category
		ORDER BY COUNT(*) DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load top categories: %w", err)
	}
	defer rows.Close()

	var counts []*analytics.CategoryCount
	for rows.Next() {
		var c analytics.CategoryCount
		if err := rows.Scan(&c.Category, &c.Jobs); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts = append(counts, &c)
	}

	return counts, rows.Err()
}
