// internal/service/user/user.go
package user

import (
	"context"
	"database/sql"
	"fmt"

	"khidma-service/internal/domain/auth"
	"khidma-service/internal/domain/user"
	xerrors "khidma-service/internal/pkg/errors"
	"khidma-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type UserService struct {
	userRepo *postgres.UserRepository
	authRepo *postgres.AuthRepository
	logger   *zap.Logger
}

func NewUserService(userRepo *postgres.UserRepository, authRepo *postgres.AuthRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, authRepo: authRepo, logger: logger}
}

// GetProfile returns the profile for an identity
func (s *UserService) GetProfile(ctx context.Context, identityID int64) (*user.Profile, error) {
	return s.userRepo.FindProfileByIdentity(ctx, identityID)
}

// UpdateProfile applies the caller's edits to their own profile. Empty
// request fields leave the stored value unchanged.
func (s *UserService) UpdateProfile(ctx context.Context, identityID int64, req *user.UpdateProfileRequest) (*user.Profile, error) {
	p, err := s.userRepo.FindProfileByIdentity(ctx, identityID)
	if err != nil {
		return nil, err
	}

	if req.NameEn != "" {
		p.NameEn = req.NameEn
	}
	if req.NameAr != "" {
		p.NameAr = sql.NullString{String: req.NameAr, Valid: true}
	}
	if req.BioEn != "" {
		p.BioEn = sql.NullString{String: req.BioEn, Valid: true}
	}
	if req.BioAr != "" {
		p.BioAr = sql.NullString{String: req.BioAr, Valid: true}
	}
	if req.Company != "" {
		p.Company = sql.NullString{String: req.Company, Valid: true}
	}
	if req.Country != "" {
		p.Country = sql.NullString{String: req.Country, Valid: true}
	}
	if req.City != "" {
		p.City = sql.NullString{String: req.City, Valid: true}
	}
	if req.Skills != nil {
		p.Skills = req.Skills
	}
	if req.HourlyRate != nil {
		p.HourlyRate = sql.NullFloat64{Float64: *req.HourlyRate, Valid: true}
	}

	if err := s.userRepo.UpdateProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return p, nil
}

// ========== Admin operations ==========

// List returns accounts with profile info for the admin user directory
func (s *UserService) List(ctx context.Context, filters *user.ListFilters) (*user.ListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	items, total, err := s.userRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filters.PageSize) - 1) / int64(filters.PageSize))
	return &user.ListResponse{
		Users:      items,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// SetStatus activates or suspends an account
func (s *UserService) SetStatus(ctx context.Context, adminID, identityID int64, status string) error {
	switch status {
	case auth.StatusActive, auth.StatusSuspended:
	default:
		return xerrors.ErrInvalidInput
	}

	if adminID == identityID {
		return xerrors.ErrInvalidInput
	}

	if err := s.authRepo.UpdateIdentityStatus(ctx, identityID, status); err != nil {
		return err
	}

	s.logger.Info("account status changed",
		zap.Int64("identity_id", identityID),
		zap.String("status", status),
		zap.Int64("admin_id", adminID),
	)
	return nil
}

// SetVerification moves a consultant's verification status
func (s *UserService) SetVerification(ctx context.Context, adminID, identityID int64, status string) error {
	switch status {
	case user.VerificationNone, user.VerificationPending, user.VerificationVerified:
	default:
		return xerrors.ErrInvalidInput
	}

	if err := s.userRepo.UpdateVerification(ctx, identityID, status); err != nil {
		return err
	}

	s.logger.Info("verification changed",
		zap.Int64("identity_id", identityID),
		zap.String("verification", status),
		zap.Int64("admin_id", adminID),
	)
	return nil
}
