// internal/repository/postgres/auth_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"khidma-service/internal/domain/auth"
	xerrors "khidma-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuthRepository struct {
	db *pgxpool.Pool
}

func NewAuthRepository(db *pgxpool.Pool) *AuthRepository {
	return &AuthRepository{db: db}
}

// ========== Identity Methods ==========

// FindIdentityByEmail retrieves an identity by email
func (r *AuthRepository) FindIdentityByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	query := `
		SELECT id, email, email_verified, phone, role, status,
		       last_login, failed_login_attempts, locked_until,
		       created_at, updated_at, deleted_at
		FROM identities
		WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL
	`

	var identity auth.Identity
	err := r.db.QueryRow(ctx, query, email).Scan(
		&identity.ID, &identity.Email, &identity.EmailVerified, &identity.Phone,
		&identity.Role, &identity.Status,
		&identity.LastLogin, &identity.FailedLoginAttempts, &identity.LockedUntil,
		&identity.CreatedAt, &identity.UpdatedAt, &identity.DeletedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}

	return &identity, nil
}

// FindIdentityByID retrieves an identity by ID
func (r *AuthRepository) FindIdentityByID(ctx context.Context, id int64) (*auth.Identity, error) {
	query := `
		SELECT id, email, email_verified, phone, role, status,
		       last_login, failed_login_attempts, locked_until,
		       created_at, updated_at, deleted_at
		FROM identities
		WHERE id = $1 AND deleted_at IS NULL
	`

	var identity auth.Identity
	err := r.db.QueryRow(ctx, query, id).Scan(
		&identity.ID, &identity.Email, &identity.EmailVerified, &identity.Phone,
		&identity.Role, &identity.Status,
		&identity.LastLogin, &identity.FailedLoginAttempts, &identity.LockedUntil,
		&identity.CreatedAt, &identity.UpdatedAt, &identity.DeletedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}

	return &identity, nil
}

// CreateIdentity inserts a new identity
func (r *AuthRepository) CreateIdentity(ctx context.Context, identity *auth.Identity) error {
	query := `
		INSERT INTO identities (email, phone, role, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		identity.Email, identity.Phone, identity.Role, identity.Status,
	).Scan(&identity.ID, &identity.CreatedAt, &identity.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}

	return nil
}

// UpdateIdentityLastLogin stamps last_login and clears the failure counter
func (r *AuthRepository) UpdateIdentityLastLogin(ctx context.Context, id int64) error {
	query := `
		UPDATE identities
		SET last_login = NOW(), failed_login_attempts = 0, locked_until = NULL, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// IncrementFailedLoginAttempts bumps the counter and locks the account after 5 failures
func (r *AuthRepository) IncrementFailedLoginAttempts(ctx context.Context, id int64, lockDuration time.Duration) error {
	query := `
		UPDATE identities
		SET failed_login_attempts = failed_login_attempts + 1,
		    locked_until = CASE WHEN failed_login_attempts + 1 >= 5
		                        THEN NOW() + $2::interval ELSE locked_until END,
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id, lockDuration.String())
	return err
}

// UpdateIdentityStatus updates the account status
func (r *AuthRepository) UpdateIdentityStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE identities SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

// ExistsByEmail checks whether an identity with this email exists
func (r *AuthRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM identities WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// ========== Provider Methods ==========

// FindProviderByIdentityAndType retrieves a credential record
func (r *AuthRepository) FindProviderByIdentityAndType(ctx context.Context, identityID int64, providerType string) (*auth.Provider, error) {
	query := `
		SELECT id, identity_id, provider, password_hash, is_primary, created_at
		FROM auth_providers
		WHERE identity_id = $1 AND provider = $2
	`

	var provider auth.Provider
	err := r.db.QueryRow(ctx, query, identityID, providerType).Scan(
		&provider.ID, &provider.IdentityID, &provider.Provider,
		&provider.PasswordHash, &provider.IsPrimary, &provider.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find provider: %w", err)
	}

	return &provider, nil
}

// CreateProvider inserts a credential record
func (r *AuthRepository) CreateProvider(ctx context.Context, provider *auth.Provider) error {
	query := `
		INSERT INTO auth_providers (identity_id, provider, password_hash, is_primary)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		provider.IdentityID, provider.Provider, provider.PasswordHash, provider.IsPrimary,
	).Scan(&provider.ID, &provider.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}

	return nil
}

// UpdateProviderPassword replaces the stored password hash
func (r *AuthRepository) UpdateProviderPassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE auth_providers SET password_hash = $2 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, passwordHash)
	return err
}

// ========== Session Methods (audit mirror of Redis) ==========

// CreateSession inserts a session audit row
func (r *AuthRepository) CreateSession(ctx context.Context, sess *auth.Session) error {
	query := `
		INSERT INTO sessions (identity_id, jti, ip_address, user_agent, status, login_at, last_activity_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		sess.IdentityID, sess.JTI, sess.IPAddress, sess.UserAgent,
		sess.Status, sess.LoginAt, sess.LastActivityAt, sess.ExpiresAt,
	).Scan(&sess.ID)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// RevokeSession marks a session revoked in the audit mirror
func (r *AuthRepository) RevokeSession(ctx context.Context, jti, reason string) error {
	query := `
		UPDATE sessions
		SET status = $2, revoked_at = NOW()
		WHERE jti = $1 AND revoked_at IS NULL
	`
	_, err := r.db.Exec(ctx, query, jti, reason)
	return err
}

// RevokeAllUserSessions marks all of an identity's sessions revoked
func (r *AuthRepository) RevokeAllUserSessions(ctx context.Context, identityID int64) error {
	query := `
		UPDATE sessions
		SET status = 'revoked', revoked_at = NOW()
		WHERE identity_id = $1 AND revoked_at IS NULL
	`
	_, err := r.db.Exec(ctx, query, identityID)
	return err
}
