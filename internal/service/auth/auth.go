// internal/service/auth/auth.go
package auth

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"khidma-service/internal/domain/auth"
	"khidma-service/internal/domain/user"
	xerrors "khidma-service/internal/pkg/errors"
	"khidma-service/internal/pkg/jwt"
	"khidma-service/internal/pkg/session"
	"khidma-service/internal/repository/postgres"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	authRepo       *postgres.AuthRepository
	userRepo       *postgres.UserRepository
	jwtManager     *jwt.Manager
	sessionManager *session.Manager
	rateLimiter    *session.RateLimiter
	logger         *zap.Logger
}

func NewAuthService(
	authRepo *postgres.AuthRepository,
	userRepo *postgres.UserRepository,
	jwtManager *jwt.Manager,
	sessionManager *session.Manager,
	rateLimiter *session.RateLimiter,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		authRepo:       authRepo,
		userRepo:       userRepo,
		jwtManager:     jwtManager,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
		logger:         logger,
	}
}

// ========== Registration ==========

// Register creates a new client or consultant account
func (s *AuthService) Register(ctx context.Context, req *auth.RegisterRequest, ip, userAgent string) (*auth.LoginResponse, error) {
	exists, err := s.authRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, xerrors.ErrDuplicateEntry
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity := &auth.Identity{
		Email:  req.Email,
		Phone:  sql.NullString{String: req.Phone, Valid: req.Phone != ""},
		Role:   req.Role,
		Status: auth.StatusActive,
	}
	if err := s.authRepo.CreateIdentity(ctx, identity); err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	provider := &auth.Provider{
		IdentityID:   identity.ID,
		Provider:     "local",
		PasswordHash: sql.NullString{String: string(hashedPassword), Valid: true},
		IsPrimary:    true,
	}
	if err := s.authRepo.CreateProvider(ctx, provider); err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	profile := &user.Profile{
		IdentityID:   identity.ID,
		NameEn:       req.NameEn,
		NameAr:       sql.NullString{String: req.NameAr, Valid: req.NameAr != ""},
		Verification: user.VerificationNone,
	}
	if err := s.userRepo.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Info("account registered",
		zap.Int64("identity_id", identity.ID),
		zap.String("role", identity.Role),
	)

	return s.issueSession(ctx, identity, ip, userAgent)
}

// ========== Login ==========

// Login authenticates an email/password pair and issues a session. Admin
// logins go through the same path; their sessions are additionally governed
// by the idle-activity tracker.
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest, ip, userAgent string) (*auth.LoginResponse, error) {
	allowed, remaining, err := s.rateLimiter.CheckLoginAttempt(ctx, ip, req.Email)
	if err != nil {
		s.logger.Error("rate limiter unavailable", zap.Error(err))
	} else if !allowed {
		s.logger.Warn("login rate limited",
			zap.String("email", req.Email),
			zap.Int64("remaining", remaining),
		)
		return nil, xerrors.ErrRateLimited
	}

	identity, err := s.authRepo.FindIdentityByEmail(ctx, req.Email)
	if err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	if identity.Status == auth.StatusSuspended {
		return nil, xerrors.ErrForbidden
	}
	if identity.LockedUntil.Valid && identity.LockedUntil.Time.After(time.Now()) {
		return nil, xerrors.ErrRateLimited
	}

	provider, err := s.authRepo.FindProviderByIdentityAndType(ctx, identity.ID, "local")
	if err != nil || !provider.PasswordHash.Valid {
		return nil, xerrors.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(provider.PasswordHash.String), []byte(req.Password)); err != nil {
		if err := s.authRepo.IncrementFailedLoginAttempts(ctx, identity.ID, 15*time.Minute); err != nil {
			s.logger.Error("failed to record login failure", zap.Error(err))
		}
		return nil, xerrors.ErrUnauthorized
	}

	if err := s.authRepo.UpdateIdentityLastLogin(ctx, identity.ID); err != nil {
		s.logger.Error("failed to update last login", zap.Error(err))
	}
	if err := s.rateLimiter.ResetLoginAttempts(ctx, ip, req.Email); err != nil {
		s.logger.Error("failed to reset login attempts", zap.Error(err))
	}

	return s.issueSession(ctx, identity, ip, userAgent)
}

// issueSession mints tokens and records the session in Redis plus the
// Postgres audit mirror.
func (s *AuthService) issueSession(ctx context.Context, identity *auth.Identity, ip, userAgent string) (*auth.LoginResponse, error) {
	roles := []string{identity.Role}

	accessToken, jti, err := s.jwtManager.Generator.GenerateAccessToken(identity.ID, roles)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, _, err := s.jwtManager.Generator.GenerateRefreshToken(identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtManager.Generator.Ttl)

	sess := &session.SessionData{
		JTI:        jti,
		IdentityID: identity.ID,
		Email:      identity.Email,
		Roles:      roles,
		IPAddress:  ip,
		UserAgent:  userAgent,
		LoginAt:    now,
		ExpiresAt:  expiresAt,
	}
	if err := s.sessionManager.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	auditRow := &auth.Session{
		IdentityID:     identity.ID,
		JTI:            jti,
		IPAddress:      sql.NullString{String: ip, Valid: ip != ""},
		UserAgent:      sql.NullString{String: userAgent, Valid: userAgent != ""},
		Status:         "active",
		LoginAt:        now,
		LastActivityAt: now,
		ExpiresAt:      expiresAt,
	}
	if err := s.authRepo.CreateSession(ctx, auditRow); err != nil {
		// Redis is the source of truth; the mirror is best-effort
		s.logger.Error("failed to mirror session to postgres", zap.Error(err))
	}

	return &auth.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		IdentityID:   identity.ID,
		Email:        identity.Email,
		Role:         identity.Role,
	}, nil
}

// ========== Token validation ==========

// ValidateToken verifies a bearer token and confirms its session is still
// live in Redis. A session destroyed by logout or the idle tracker fails
// here, forcing re-login.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.jwtManager.Verifier.VerifyAccessToken(token)
	if err != nil {
		return nil, err
	}

	exists, err := s.sessionManager.SessionExists(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	if !exists {
		return nil, xerrors.ErrSessionExpired
	}

	return claims, nil
}

// Refresh exchanges a refresh token for a fresh access session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, ip, userAgent string) (*auth.LoginResponse, error) {
	claims, err := s.jwtManager.Verifier.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	identity, err := s.authRepo.FindIdentityByID(ctx, claims.IdentityID)
	if err != nil {
		return nil, xerrors.ErrUnauthorized
	}
	if identity.Status != auth.StatusActive {
		return nil, xerrors.ErrForbidden
	}

	return s.issueSession(ctx, identity, ip, userAgent)
}

// ========== Logout ==========

// Logout destroys the caller's session
func (s *AuthService) Logout(ctx context.Context, identityID int64, jti string) error {
	if err := s.sessionManager.DestroySession(ctx, jti); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}

	if err := s.authRepo.RevokeSession(ctx, jti, "revoked"); err != nil {
		s.logger.Error("failed to mark session revoked", zap.Error(err))
	}

	s.logger.Info("logged out", zap.Int64("identity_id", identityID))
	return nil
}

// LogoutAll destroys every session belonging to the caller
func (s *AuthService) LogoutAll(ctx context.Context, identityID int64) error {
	if err := s.sessionManager.DestroyAllForIdentity(ctx, identityID); err != nil {
		return fmt.Errorf("failed to destroy sessions: %w", err)
	}

	if err := s.authRepo.RevokeAllUserSessions(ctx, identityID); err != nil {
		s.logger.Error("failed to mark sessions revoked", zap.Error(err))
	}

	return nil
}

// ========== Password ==========

// ChangePassword verifies the current password and replaces the hash
func (s *AuthService) ChangePassword(ctx context.Context, identityID int64, req *auth.ChangePasswordRequest) error {
	provider, err := s.authRepo.FindProviderByIdentityAndType(ctx, identityID, "local")
	if err != nil {
		return xerrors.ErrNotFound
	}

	if !provider.PasswordHash.Valid {
		return xerrors.ErrInvalidInput
	}
	if err := bcrypt.CompareHashAndPassword([]byte(provider.PasswordHash.String), []byte(req.CurrentPassword)); err != nil {
		return xerrors.ErrUnauthorized
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.authRepo.UpdateProviderPassword(ctx, provider.ID, string(hashed)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("password changed", zap.Int64("identity_id", identityID))
	return nil
}
