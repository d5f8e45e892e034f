// internal/service/plan/plan.go
package plan

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"khidma-service/internal/domain/plan"
	xerrors "khidma-service/internal/pkg/errors"
	"khidma-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type PlanService struct {
	planRepo *postgres.PlanRepository
	logger   *zap.Logger
}

func NewPlanService(planRepo *postgres.PlanRepository, logger *zap.Logger) *PlanService {
	return &PlanService{planRepo: planRepo, logger: logger}
}

// ========== Admin plan management ==========

// Create adds a subscription plan
func (s *PlanService) Create(ctx context.Context, adminID int64, req *plan.CreatePlanRequest) (*plan.SubscriptionPlan, error) {
	exists, err := s.planRepo.ExistsByPlanCode(ctx, req.PlanCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, xerrors.ErrDuplicateEntry
	}

	currency := req.Currency
	if currency == "" {
		currency = "SAR"
	}

	p := &plan.SubscriptionPlan{
		PlanCode:        req.PlanCode,
		NameEn:          req.NameEn,
		NameAr:          sql.NullString{String: req.NameAr, Valid: req.NameAr != ""},
		DescriptionEn:   sql.NullString{String: req.DescriptionEn, Valid: req.DescriptionEn != ""},
		DescriptionAr:   sql.NullString{String: req.DescriptionAr, Valid: req.DescriptionAr != ""},
		Price:           req.Price,
		Currency:        currency,
		BillingCycle:    req.BillingCycle,
		FeaturedProfile: req.FeaturedProfile,
		Status:          plan.StatusActive,
		IsPublic:        req.IsPublic,
	}
	if req.BidsPerMonth != nil {
		p.BidsPerMonth = sql.NullInt32{Int32: *req.BidsPerMonth, Valid: true}
	}

	if err := s.planRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("plan created",
		zap.String("plan_code", p.PlanCode),
		zap.Int64("admin_id", adminID),
	)
	return p, nil
}

// Update edits a plan in place
func (s *PlanService) Update(ctx context.Context, adminID, planID int64, req *plan.UpdatePlanRequest) (*plan.SubscriptionPlan, error) {
	p, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	if req.NameEn != "" {
		p.NameEn = req.NameEn
	}
	if req.NameAr != "" {
		p.NameAr = sql.NullString{String: req.NameAr, Valid: true}
	}
	if req.DescriptionEn != "" {
		p.DescriptionEn = sql.NullString{String: req.DescriptionEn, Valid: true}
	}
	if req.DescriptionAr != "" {
		p.DescriptionAr = sql.NullString{String: req.DescriptionAr, Valid: true}
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.BidsPerMonth != nil {
		p.BidsPerMonth = sql.NullInt32{Int32: *req.BidsPerMonth, Valid: true}
	}
	if req.FeaturedProfile != nil {
		p.FeaturedProfile = *req.FeaturedProfile
	}
	if req.IsPublic != nil {
		p.IsPublic = *req.IsPublic
	}
	if req.Status != "" {
		switch plan.PlanStatus(req.Status) {
		case plan.StatusActive, plan.StatusRetired, plan.StatusInactive:
			p.Status = plan.PlanStatus(req.Status)
		default:
			return nil, xerrors.ErrInvalidInput
		}
	}

	if err := s.planRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("plan updated",
		zap.String("plan_code", p.PlanCode),
		zap.Int64("admin_id", adminID),
	)
	return p, nil
}

// Get retrieves a plan by ID
func (s *PlanService) Get(ctx context.Context, id int64) (*plan.SubscriptionPlan, error) {
	return s.planRepo.FindByID(ctx, id)
}

// List returns plans matching the filters. Public callers only ever see
// active public plans; the handler pins those filters.
func (s *PlanService) List(ctx context.Context, filters *plan.ListFilters) (*plan.ListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	plans, total, err := s.planRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filters.PageSize) - 1) / int64(filters.PageSize))
	return &plan.ListResponse{
		Plans:      plans,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// ========== Subscriptions ==========

// Subscribe enrols a consultant on a plan. One active subscription per
// consultant; monthly plans expire after 30 days, yearly after a year.
func (s *PlanService) Subscribe(ctx context.Context, consultantID int64, req *plan.SubscribeRequest) (*plan.Subscription, error) {
	p, err := s.planRepo.FindByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if p.Status != plan.StatusActive || !p.IsPublic {
		return nil, xerrors.ErrInvalidState
	}

	_, err = s.planRepo.FindActiveSubscription(ctx, consultantID)
	if err == nil {
		return nil, xerrors.ErrDuplicateEntry
	}
	if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	sub := &plan.Subscription{
		ConsultantID: consultantID,
		PlanID:       p.ID,
		StartedAt:    now,
		Status:       "active",
	}
	switch p.BillingCycle {
	case "yearly":
		sub.ExpiresAt = sql.NullTime{Time: now.AddDate(1, 0, 0), Valid: true}
	default:
		sub.ExpiresAt = sql.NullTime{Time: now.AddDate(0, 0, 30), Valid: true}
	}

	if err := s.planRepo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("consultant subscribed",
		zap.Int64("consultant_id", consultantID),
		zap.String("plan_code", p.PlanCode),
	)
	return sub, nil
}

// CurrentSubscription returns the consultant's active subscription
func (s *PlanService) CurrentSubscription(ctx context.Context, consultantID int64) (*plan.Subscription, error) {
	return s.planRepo.FindActiveSubscription(ctx, consultantID)
}
