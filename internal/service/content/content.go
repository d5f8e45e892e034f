// internal/service/content/content.go
package content

import (
	"context"
	"database/sql"
	"fmt"

	"khidma-service/internal/domain/content"
	xerrors "khidma-service/internal/pkg/errors"
	"khidma-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type ContentService struct {
	db          *postgres.DB
	contentRepo *postgres.ContentRepository
	logger      *zap.Logger
}

func NewContentService(db *postgres.DB, contentRepo *postgres.ContentRepository, logger *zap.Logger) *ContentService {
	return &ContentService{db: db, contentRepo: contentRepo, logger: logger}
}

// ========== Settings ==========

// GetSetting returns one platform setting
func (s *ContentService) GetSetting(ctx context.Context, key string) (*content.Setting, error) {
	return s.contentRepo.GetSetting(ctx, key)
}

// ListSettings returns all platform settings
func (s *ContentService) ListSettings(ctx context.Context) ([]*content.Setting, error) {
	return s.contentRepo.ListSettings(ctx)
}

// UpsertSetting writes a platform setting, recording who changed it
func (s *ContentService) UpsertSetting(ctx context.Context, adminID int64, key, value string) (*content.Setting, error) {
	setting := &content.Setting{
		Key:       key,
		Value:     value,
		UpdatedBy: sql.NullInt64{Int64: adminID, Valid: true},
	}
	if err := s.contentRepo.UpsertSetting(ctx, setting); err != nil {
		return nil, err
	}

	s.logger.Info("setting updated",
		zap.String("key", key),
		zap.Int64("admin_id", adminID),
	)
	return setting, nil
}

// ========== Pages ==========

// GetPage returns a content page by slug. Public callers only see
// published pages.
func (s *ContentService) GetPage(ctx context.Context, slug string, includeUnpublished bool) (*content.Page, error) {
	p, err := s.contentRepo.FindPageBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.Published && !includeUnpublished {
		// Unpublished pages are invisible to the public
		return nil, xerrors.ErrNotFound
	}
	return p, nil
}

// UpsertPage creates or replaces a content page
func (s *ContentService) UpsertPage(ctx context.Context, adminID int64, req *content.UpsertPageRequest) (*content.Page, error) {
	p := &content.Page{
		Slug:      req.Slug,
		TitleEn:   req.TitleEn,
		TitleAr:   sql.NullString{String: req.TitleAr, Valid: req.TitleAr != ""},
		BodyEn:    req.BodyEn,
		BodyAr:    sql.NullString{String: req.BodyAr, Valid: req.BodyAr != ""},
		Published: req.Published,
	}
	if err := s.contentRepo.UpsertPage(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("page upserted",
		zap.String("slug", p.Slug),
		zap.Int64("admin_id", adminID),
	)
	return p, nil
}

// ListPages returns content pages
func (s *ContentService) ListPages(ctx context.Context, publishedOnly bool) ([]*content.Page, error) {
	return s.contentRepo.ListPages(ctx, publishedOnly)
}

// ========== Home sections ==========

// ListHomeSections returns the home layout in display order
func (s *ContentService) ListHomeSections(ctx context.Context) ([]*content.HomeSection, error) {
	return s.contentRepo.ListHomeSections(ctx)
}

// ReorderHomeSections rewrites the home layout order atomically
func (s *ContentService) ReorderHomeSections(ctx context.Context, adminID int64, ids []int64) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.contentRepo.ReorderHomeSections(ctx, tx, ids); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}

	s.logger.Info("home sections reordered",
		zap.Int("count", len(ids)),
		zap.Int64("admin_id", adminID),
	)
	return nil
}
