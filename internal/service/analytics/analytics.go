// internal/service/analytics/analytics.go
package analytics

import (
	"context"

	"khidma-service/internal/domain/analytics"
	"khidma-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type AnalyticsService struct {
	analyticsRepo *postgres.AnalyticsRepository
	logger        *zap.Logger
}

func NewAnalyticsService(analyticsRepo *postgres.AnalyticsRepository, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: analyticsRepo, logger: logger}
}

// Dashboard returns the admin dashboard headline counters
func (s *AnalyticsService) Dashboard(ctx context.Context) (*analytics.DashboardStats, error) {
	return s.analyticsRepo.DashboardStats(ctx)
}

// MonthlyRevenue returns the revenue series for the chart, capped at two years
func (s *AnalyticsService) MonthlyRevenue(ctx context.Context, months int) ([]*analytics.MonthlyRevenuePoint, error) {
	if months < 1 || months > 24 {
		months = 12
	}
	return s.analyticsRepo.MonthlyRevenue(ctx, months)
}

// TopCategories returns the busiest job categories
func (s *AnalyticsService) TopCategories(ctx context.Context, limit int) ([]*analytics.CategoryCount, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.analyticsRepo.TopCategories(ctx, limit)
}
