// internal/service/job/job.go
package job

import (
	"context"
	"database/sql"
	"fmt"

	"khidma-service/internal/domain/job"
	xerrors "khidma-service/internal/pkg/errors"
	"khidma-service/internal/repository/postgres"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const defaultCurrency = "SAR"

type JobService struct {
	jobRepo *postgres.JobRepository
	logger  *zap.Logger
}

func NewJobService(jobRepo *postgres.JobRepository, logger *zap.Logger) *JobService {
	return &JobService{jobRepo: jobRepo, logger: logger}
}

// Create posts a new job on behalf of a client. Jobs go live immediately;
// drafts are created by passing publish=false.
func (s *JobService) Create(ctx context.Context, clientID int64, req *job.CreateJobRequest, publish bool) (*job.Job, error) {
	if req.BudgetMin != nil && req.BudgetMax != nil && *req.BudgetMin > *req.BudgetMax {
		return nil, xerrors.ErrInvalidInput
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	status := job.StatusDraft
	if publish {
		status = job.StatusOpen
	}

	j := &job.Job{
		JobReference:  fmt.Sprintf("JOB-%s", ulid.Make().String()),
		ClientID:      clientID,
		TitleEn:       req.TitleEn,
		TitleAr:       sql.NullString{String: req.TitleAr, Valid: req.TitleAr != ""},
		DescriptionEn: req.DescriptionEn,
		DescriptionAr: sql.NullString{String: req.DescriptionAr, Valid: req.DescriptionAr != ""},
		Category:      req.Category,
		Tags:          req.Tags,
		Currency:      currency,
		Status:        status,
	}
	if req.BudgetMin != nil {
		j.BudgetMin = sql.NullFloat64{Float64: *req.BudgetMin, Valid: true}
	}
	if req.BudgetMax != nil {
		j.BudgetMax = sql.NullFloat64{Float64: *req.BudgetMax, Valid: true}
	}
	if req.Deadline != nil {
		j.Deadline = sql.NullTime{Time: *req.Deadline, Valid: true}
	}

	if err := s.jobRepo.Create(ctx, j); err != nil {
		return nil, err
	}

	s.logger.Info("job created",
		zap.String("job_reference", j.JobReference),
		zap.Int64("client_id", clientID),
		zap.String("status", string(j.Status)),
	)
	return j, nil
}

// Get retrieves a job by ID
func (s *JobService) Get(ctx context.Context, id int64) (*job.Job, error) {
	return s.jobRepo.FindByID(ctx, id)
}

// Update edits a job owned by the caller. Awarded and closed jobs are
// immutable.
func (s *JobService) Update(ctx context.Context, clientID, jobID int64, req *job.UpdateJobRequest) (*job.Job, error) {
	j, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j.ClientID != clientID {
		return nil, xerrors.ErrForbidden
	}
	if j.Status != job.StatusDraft && j.Status != job.StatusOpen {
		return nil, xerrors.ErrInvalidState
	}

	if req.TitleEn != "" {
		j.TitleEn = req.TitleEn
	}
	if req.TitleAr != "" {
		j.TitleAr = sql.NullString{String: req.TitleAr, Valid: true}
	}
	if req.DescriptionEn != "" {
		j.DescriptionEn = req.DescriptionEn
	}
	if req.DescriptionAr != "" {
		j.DescriptionAr = sql.NullString{String: req.DescriptionAr, Valid: true}
	}
	if req.Category != "" {
		j.Category = req.Category
	}
	if req.Tags != nil {
		j.Tags = req.Tags
	}
	if req.BudgetMin != nil {
		j.BudgetMin = sql.NullFloat64{Float64: *req.BudgetMin, Valid: true}
	}
	if req.BudgetMax != nil {
		j.BudgetMax = sql.NullFloat64{Float64: *req.BudgetMax, Valid: true}
	}
	if req.Deadline != nil {
		j.Deadline = sql.NullTime{Time: *req.Deadline, Valid: true}
	}

	if j.BudgetMin.Valid && j.BudgetMax.Valid && j.BudgetMin.Float64 > j.BudgetMax.Float64 {
		return nil, xerrors.ErrInvalidInput
	}

	if err := s.jobRepo.Update(ctx, j); err != nil {
		return nil, err
	}

	return j, nil
}

// Publish moves a draft job to open
func (s *JobService) Publish(ctx context.Context, clientID, jobID int64) error {
	j, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return err
	}
	if j.ClientID != clientID {
		return xerrors.ErrForbidden
	}
	if j.Status != job.StatusDraft {
		return xerrors.ErrInvalidState
	}

	return s.jobRepo.UpdateStatus(ctx, jobID, job.StatusOpen)
}

// Close withdraws a job from the marketplace. Owners close their own jobs;
// admins may close any job.
func (s *JobService) Close(ctx context.Context, callerID int64, isAdmin bool, jobID int64) error {
	j, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return err
	}
	if !isAdmin && j.ClientID != callerID {
		return xerrors.ErrForbidden
	}
	if j.Status == job.StatusClosed {
		return xerrors.ErrJobClosed
	}
	if j.Status == job.StatusAwarded {
		return xerrors.ErrInvalidState
	}

	if err := s.jobRepo.UpdateStatus(ctx, jobID, job.StatusClosed); err != nil {
		return err
	}

	s.logger.Info("job closed",
		zap.Int64("job_id", jobID),
		zap.Int64("closed_by", callerID),
	)
	return nil
}

// List returns jobs matching the filters
func (s *JobService) List(ctx context.Context, filters *job.ListFilters) (*job.ListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	jobs, total, err := s.jobRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filters.PageSize) - 1) / int64(filters.PageSize))
	return &job.ListResponse{
		Jobs:       jobs,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}
