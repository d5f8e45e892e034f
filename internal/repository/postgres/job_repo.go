// internal/repository/postgres/job_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"khidma-service/internal/domain/job"
	xerrors "khidma-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type JobRepository struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) *JobRepository {
	return &JobRepository{db: db}
}

const jobColumns = `
	id, job_reference, client_id, title_en, title_ar, description_en, description_ar,
	category, tags, budget_min, budget_max, currency, deadline,
	status, awarded_bid_id, bid_count, created_at, updated_at
`

func scanJob(row pgx.Row) (*job.Job, error) {
	var j job.Job
	err := row.Scan(
		&j.ID, &j.JobReference, &j.ClientID, &j.TitleEn, &j.TitleAr,
		&j.DescriptionEn, &j.DescriptionAr,
		&j.Category, &j.Tags, &j.BudgetMin, &j.BudgetMax, &j.Currency, &j.Deadline,
		&j.Status, &j.AwardedBidID, &j.BidCount, &j.CreatedAt, &j.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan job: %w", err)
	}
	return &j, nil
}

// Create inserts a new job posting
func (r *JobRepository) Create(ctx context.Context, j *job.Job) error {
	query := `
		INSERT INTO jobs (job_reference, client_id, title_en, title_ar,
		                  description_en, description_ar, category, tags,
		                  budget_min, budget_max, currency, deadline, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		j.JobReference, j.ClientID, j.TitleEn, j.TitleAr,
		j.DescriptionEn, j.DescriptionAr, j.Category, pq.Array(j.Tags),
		j.BudgetMin, j.BudgetMax, j.Currency, j.Deadline, j.Status,
	).Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// FindByID retrieves a job by ID
func (r *JobRepository) FindByID(ctx context.Context, id int64) (*job.Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE id = $1`, jobColumns)
	return scanJob(r.db.QueryRow(ctx, query, id))
}

// FindByReference retrieves a job by its public reference
func (r *JobRepository) FindByReference(ctx context.Context, ref string) (*job.Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE job_reference = $1`, jobColumns)
	return scanJob(r.db.QueryRow(ctx, query, ref))
}

// Update replaces the mutable job fields
func (r *JobRepository) Update(ctx context.Context, j *job.Job) error {
	query := `
		UPDATE jobs
		SET title_en = $2, title_ar = $3, description_en = $4, description_ar = $5,
		    category = $6, tags = $7, budget_min = $8, budget_max = $9,
		    deadline = $10, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		j.ID, j.TitleEn, j.TitleAr, j.DescriptionEn, j.DescriptionAr,
		j.Category, pq.Array(j.Tags), j.BudgetMin, j.BudgetMax, j.Deadline,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateStatus moves the job lifecycle
func (r *JobRepository) UpdateStatus(ctx context.Context, id int64, status job.JobStatus) error {
	query := `UPDATE jobs SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

// Award marks the job awarded to a bid, inside the caller's transaction.
func (r *JobRepository) Award(ctx context.Context, tx pgx.Tx, jobID, bidID int64) error {
	query := `
		UPDATE jobs
		SET status = 'awarded', awarded_bid_id = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'open'
	`

	tag, err := tx.Exec(ctx, query, jobID, bidID)
	if err != nil {
		return fmt.Errorf("failed to award job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrAlreadyAwarded
	}

	return nil
}

// IncrementBidCount bumps the denormalized bid counter
func (r *JobRepository) IncrementBidCount(ctx context.Context, id int64) error {
	query := `UPDATE jobs SET bid_count = bid_count + 1, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// List returns jobs matching the filters with pagination
func (r *JobRepository) List(ctx context.Context, filters *job.ListFilters) ([]*job.Job, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filters.Status)
		argIdx++
	}
	if filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, filters.Category)
		argIdx++
	}
	if filters.ClientID > 0 {
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", argIdx))
		args = append(args, filters.ClientID)
		argIdx++
	}
	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(title_en ILIKE $%d OR title_ar ILIKE $%d OR description_en ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+filters.Search+"%")
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM jobs WHERE %s`, where)

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	offset := (filters.Page - 1) * filters.PageSize
	listQuery := fmt.Sprintf(`
		SELECT %s FROM jobs
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, jobColumns, where, argIdx, argIdx+1)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*job.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, j)
	}

	return jobs, total, rows.Err()
}
