// internal/domain/content/entity.go
package content

import (
	"database/sql"
	"time"
)

// Setting is a single platform configuration value keyed by name.
type Setting struct {
	Key   string `json:"key" db:"key"`
	Value string `json:"value" db:"value"`

	// Null for values seeded by migrations rather than an admin
	UpdatedBy sql.NullInt64 `json:"updated_by,omitempty" db:"updated_by"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// Page is a bilingual CMS content page addressed by slug.
type Page struct {
	ID      int64          `json:"id" db:"id"`
	Slug    string         `json:"slug" db:"slug"`
	TitleEn string         `json:"title_en" db:"title_en"`
	TitleAr sql.NullString `json:"title_ar,omitempty" db:"title_ar"`
	BodyEn  string         `json:"body_en" db:"body_en"`
	BodyAr  sql.NullString `json:"body_ar,omitempty" db:"body_ar"`

	Published bool      `json:"published" db:"published"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HomeSection orders a block on the marketing home page.
type HomeSection struct {
	ID        int64          `json:"id" db:"id"`
	Section   string         `json:"section" db:"section"`
	TitleEn   string         `json:"title_en" db:"title_en"`
	TitleAr   sql.NullString `json:"title_ar,omitempty" db:"title_ar"`
	SortOrder int            `json:"sort_order" db:"sort_order"`
	Enabled   bool           `json:"enabled" db:"enabled"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}
