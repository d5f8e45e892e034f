// internal/domain/auth/entity.go
package auth

import (
	"database/sql"
	"time"
)

const (
	StatusActive              = "active"
	StatusSuspended           = "suspended"
	StatusPendingVerification = "pending_verification"
)

// Account roles
const (
	RoleClient     = "client"
	RoleConsultant = "consultant"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type Identity struct {
	ID                  int64          `json:"id" db:"id"`
	Email               string         `json:"email" db:"email"`
	EmailVerified       bool           `json:"email_verified" db:"email_verified"`
	Phone               sql.NullString `json:"phone,omitempty" db:"phone"`
	Role                string         `json:"role" db:"role"`
	Status              string         `json:"status" db:"status"`
	LastLogin           sql.NullTime   `json:"last_login,omitempty" db:"last_login"`
	FailedLoginAttempts int            `json:"-" db:"failed_login_attempts"`
	LockedUntil         sql.NullTime   `json:"-" db:"locked_until"`
	CreatedAt           time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at" db:"updated_at"`
	DeletedAt           sql.NullTime   `json:"-" db:"deleted_at"`
}

// Provider holds the credential record for an identity (local = bcrypt hash)
type Provider struct {
	ID           int64          `json:"id" db:"id"`
	IdentityID   int64          `json:"identity_id" db:"identity_id"`
	Provider     string         `json:"provider" db:"provider"`
	PasswordHash sql.NullString `json:"-" db:"password_hash"`
	IsPrimary    bool           `json:"is_primary" db:"is_primary"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}

// Session is the Postgres audit mirror of the Redis session record.
type Session struct {
	ID             int64          `json:"id" db:"id"`
	IdentityID     int64          `json:"identity_id" db:"identity_id"`
	JTI            string         `json:"jti" db:"jti"`
	IPAddress      sql.NullString `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent      sql.NullString `json:"user_agent,omitempty" db:"user_agent"`
	Status         string         `json:"status" db:"status"`
	LoginAt        time.Time      `json:"login_at" db:"login_at"`
	LastActivityAt time.Time      `json:"last_activity_at" db:"last_activity_at"`
	ExpiresAt      time.Time      `json:"expires_at" db:"expires_at"`
	RevokedAt      sql.NullTime   `json:"revoked_at,omitempty" db:"revoked_at"`
}
