// internal/domain/user/entity.go
package user

import (
	"database/sql"
	"time"
)

const (
	VerificationNone     = "none"
	VerificationPending  = "pending"
	VerificationVerified = "verified"
)

// Profile carries the bilingual public profile of a client or consultant.
// English fields are required at registration; Arabic fields are optional
// and fall back to English in the frontend.
type Profile struct {
	ID         int64 `json:"id" db:"id"`
	IdentityID int64 `json:"identity_id" db:"identity_id"`

	NameEn    string         `json:"name_en" db:"name_en"`
	NameAr    sql.NullString `json:"name_ar,omitempty" db:"name_ar"`
	BioEn     sql.NullString `json:"bio_en,omitempty" db:"bio_en"`
	BioAr     sql.NullString `json:"bio_ar,omitempty" db:"bio_ar"`
	Company   sql.NullString `json:"company,omitempty" db:"company"`
	Country   sql.NullString `json:"country,omitempty" db:"country"`
	City      sql.NullString `json:"city,omitempty" db:"city"`

	// Consultant-only fields
	Skills       []string        `json:"skills,omitempty" db:"skills"`
	HourlyRate   sql.NullFloat64 `json:"hourly_rate,omitempty" db:"hourly_rate"`
	Verification string          `json:"verification" db:"verification"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
