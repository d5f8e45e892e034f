// internal/repository/postgres/user_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"khidma-service/internal/domain/user"
	xerrors "khidma-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateProfile inserts a new profile for an identity
func (r *UserRepository) CreateProfile(ctx context.Context, p *user.Profile) error {
	query := `
		INSERT INTO profiles (identity_id, name_en, name_ar, bio_en, bio_ar,
		                      company, country, city, skills, hourly_rate, verification)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		p.IdentityID, p.NameEn, p.NameAr, p.BioEn, p.BioAr,
		p.Company, p.Country, p.City, pq.Array(p.Skills), p.HourlyRate, p.Verification,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// FindProfileByIdentity retrieves the profile owned by an identity
func (r *UserRepository) FindProfileByIdentity(ctx context.Context, identityID int64) (*user.Profile, error) {
	query := `
		SELECT id, identity_id, name_en, name_ar, bio_en, bio_ar,
		       company, country, city, skills, hourly_rate, verification,
		       created_at, updated_at
		FROM profiles
		WHERE identity_id = $1
	`

	var p user.Profile
	err := r.db.QueryRow(ctx, query, identityID).Scan(
		&p.ID, &p.IdentityID, &p.NameEn, &p.NameAr, &p.BioEn, &p.BioAr,
		&p.Company, &p.Country, &p.City, &p.Skills, &p.HourlyRate, &p.Verification,
		&p.CreatedAt, &p.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return &p, nil
}

// UpdateProfile replaces the mutable profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, p *user.Profile) error {
	query := `
		UPDATE profiles
		SET name_en = $2, name_ar = $3, bio_en = $4, bio_ar = $5,
		    company = $6, country = $7, city = $8, skills = $9,
		    hourly_rate = $10, updated_at = NOW()
		WHERE identity_id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		p.IdentityID, p.NameEn, p.NameAr, p.BioEn, p.BioAr,
		p.Company, p.Country, p.City, pq.Array(p.Skills), p.HourlyRate,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateVerification sets the consultant verification status
func (r *UserRepository) UpdateVerification(ctx context.Context, identityID int64, status string) error {
	query := `UPDATE profiles SET verification = $2, updated_at = NOW() WHERE identity_id = $1`
	_, err := r.db.Exec(ctx, query, identityID, status)
	return err
}

// List returns the admin user listing with filters and pagination
func (r *UserRepository) List(ctx context.Context, filters *user.ListFilters) ([]*user.ListItem, int64, error) {
	conditions := []string{"i.deleted_at IS NULL"}
	args := []interface{}{}
	argIdx := 1

	if filters.Role != "" {
		conditions = append(conditions, fmt.Sprintf("i.role = $%d", argIdx))
		args = append(args, filters.Role)
		argIdx++
	}
	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("i.status = $%d", argIdx))
		args = append(args, filters.Status)
		argIdx++
	}
	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(i.email ILIKE $%d OR p.name_en ILIKE $%d OR p.name_ar ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+filters.Search+"%")
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM identities i
		JOIN profiles p ON p.identity_id = i.id
		WHERE %s
	`, where)

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	offset := (filters.Page - 1) * filters.PageSize
	listQuery := fmt.Sprintf(`
		SELECT i.id, i.email, i.role, i.status,
		       p.name_en, COALESCE(p.name_ar, ''), p.verification
		FROM identities i
		JOIN profiles p ON p.identity_id = i.id
		WHERE %s
		ORDER BY i.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argIdx, argIdx+1)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var items []*user.ListItem
	for rows.Next() {
		var item user.ListItem
		if err := rows.Scan(
			&item.IdentityID, &item.Email, &item.Role, &item.Status,
			&item.NameEn, &item.NameAr, &item.Verification,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		items = append(items, &item)
	}

	return items, total, rows.Err()
}
