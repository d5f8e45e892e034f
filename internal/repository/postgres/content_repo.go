// internal/repository/postgres/content_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"khidma-service/internal/domain/content"
	xerrors "khidma-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ContentRepository struct {
	db *pgxpool.Pool
}

func NewContentRepository(db *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{db: db}
}

// ========== Settings ==========

// GetSetting retrieves a platform setting by key
func (r *ContentRepository) GetSetting(ctx context.Context, key string) (*content.Setting, error) {
	query := `SELECT key, value, updated_by, updated_at FROM platform_settings WHERE key = $1`

	var s content.Setting
	err := r.db.QueryRow(ctx, query, key).Scan(&s.Key, &s.Value, &s.UpdatedBy, &s.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}

	return &s, nil
}

// ListSettings returns all platform settings
func (r *ContentRepository) ListSettings(ctx context.Context) ([]*content.Setting, error) {
	query := `SELECT key, value, updated_by, updated_at FROM platform_settings ORDER BY key`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	var settings []*content.Setting
	for rows.Next() {
		var s content.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedBy, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings = append(settings, &s)
	}

	return settings, rows.Err()
}

// UpsertSetting writes a platform setting
func (r *ContentRepository) UpsertSetting(ctx context.Context, s *content.Setting) error {
	query := `
		INSERT INTO platform_settings (key, value, updated_by, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = NOW()
		RETURNING updated_at
	`

	if err := r.db.QueryRow(ctx, query, s.Key, s.Value, s.UpdatedBy).Scan(&s.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert setting: %w", err)
	}

	return nil
}

// ========== Content Pages ==========

// FindPageBySlug retrieves a content page by slug
func (r *ContentRepository) FindPageBySlug(ctx context.Context, slug string) (*content.Page, error) {
	query := `
		SELECT id, slug, title_en, title_ar, body_en, body_ar, published, created_at, updated_at
		FROM content_pages
		WHERE slug = $1
	`

	var p content.Page
	err := r.db.QueryRow(ctx, query, slug).Scan(
		&p.ID, &p.Slug, &p.TitleEn, &p.TitleAr, &p.BodyEn, &p.BodyAr,
		&p.Published, &p.CreatedAt, &p.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find page: %w", err)
	}

	return &p, nil
}

// UpsertPage creates or replaces a content page by slug
func (r *ContentRepository) UpsertPage(ctx context.Context, p *content.Page) error {
	query := `
		INSERT INTO content_pages (slug, title_en, title_ar, body_en, body_ar, published)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (slug) DO UPDATE
		SET title_en = EXCLUDED.title_en, title_ar = EXCLUDED.title_ar,
		    body_en = EXCLUDED.body_en, body_ar = EXCLUDED.body_ar,
		    published = EXCLUDED.published, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		p.Slug, p.TitleEn, p.TitleAr, p.BodyEn, p.BodyAr, p.Published,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert page: %w", err)
	}

	return nil
}

// ListPages returns all content pages
func (r *ContentRepository) ListPages(ctx context.Context, publishedOnly bool) ([]*content.Page, error) {
	query := `
		SELECT id, slug, title_en, title_ar, body_en, body_ar, published, created_at, updated_at
		FROM content_pages
		WHERE ($1 = false OR published = true)
		ORDER BY slug
	`

	rows, err := r.db.Query(ctx, query, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var pages []*content.Page
	for rows.Next() {
		var p content.Page
		if err := rows.Scan(
			&p.ID, &p.Slug, &p.TitleEn, &p.TitleAr, &p.BodyEn, &p.BodyAr,
			&p.Published, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, &p)
	}

	return pages, rows.Err()
}

// ========== Home Sections ==========

// ListHomeSections returns the home sections in display order
func (r *ContentRepository) ListHomeSections(ctx context.Context) ([]*content.HomeSection, error) {
	query := `
		SELECT id, section, title_en, title_ar, sort_order, enabled, updated_at
		FROM home_sections
		ORDER BY sort_order ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list home sections: %w", err)
	}
	defer rows.Close()

	var sections []*content.HomeSection
	for rows.Next() {
		var s content.HomeSection
		if err := rows.Scan(
			&s.ID, &s.Section, &s.TitleEn, &s.TitleAr, &s.SortOrder, &s.Enabled, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan home section: %w", err)
		}
		sections = append(sections, &s)
	}

	return sections, rows.Err()
}

// ReorderHomeSections rewrites sort_order to match the given ID order,
// inside one transaction so the ordering is never half-applied.
func (r *ContentRepository) ReorderHomeSections(ctx context.Context, tx pgx.Tx, ids []int64) error {
	for i, id := range ids {
		tag, err := tx.Exec(ctx,
			`UPDATE home_sections SET sort_order = $2, updated_at = NOW() WHERE id = $1`,
			id, i+1,
		)
		if err != nil {
			return fmt.Errorf("failed to reorder section %d: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return xerrors.ErrNotFound
		}
	}

	return nil
}
