package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/target/bayflow/internal/core"
	"github.com/target/bayflow/internal/domain/model"
	apperrors "github.com/target/bayflow/internal/errors"
)

// DefaultJobListLimit is used when the caller does not pass a limit.
const DefaultJobListLimit = 50

// JobQueryServiceOptions groups dependencies for JobQueryService.
type JobQueryServiceOptions struct {
	Repo          core.FileJobRepository // Required
	LandingBucket string                 // Optional: fallback source bucket for views
	TargetBucket  string                 // Optional: fallback target bucket for views
}

// JobQueryService serves read-only views of job records.
type JobQueryService struct {
	repo          core.FileJobRepository
	landingBucket string
	targetBucket  string
}

// NewJobQueryService constructs a JobQueryService.
func NewJobQueryService(opts JobQueryServiceOptions) (*JobQueryService, error) {
	if opts.Repo == nil {
		return nil, errors.New("FileJobRepository is required")
	}
	return &JobQueryService{
		repo:          opts.Repo,
		landingBucket: opts.LandingBucket,
		targetBucket:  opts.TargetBucket,
	}, nil
}

// List returns job records. Invalid status filters are rejected.
func (s *JobQueryService) List(ctx context.Context, opts model.FileJobListOptions) ([]*model.FileJob, error) {
	if opts.Status != "" && !opts.Status.Valid() {
		return nil, apperrors.ValidationField("status", "status must be RUNNING, SUCCESS or FAILED")
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultJobListLimit
	}
	jobs, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	if jobs == nil {
		jobs = []*model.FileJob{}
	}
	return jobs, nil
}

// Get returns the first record for jobID enriched with source and target locations.
// Records missing a bucket fall back to the configured landing and target buckets.
func (s *JobQueryService) Get(ctx context.Context, jobID string) (*model.FileJobView, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, apperrors.ValidationField("job_id", "job_id is required")
	}

	jobs, err := s.repo.GetByJobID(ctx, jobID)
	if err != nil {
		if errors.Is(err, core.ErrFileJobNotFound) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeNotFound, "Job not found")
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	if len(jobs) == 0 {
		return nil, apperrors.NotFoundf("Job not found")
	}

	job := jobs[0]
	return &model.FileJobView{
		FileJob:  job,
		SourceS3: model.ObjectLocation{Bucket: fallback(job.SourceBucket, s.landingBucket), Key: job.FileName},
		TargetS3: model.ObjectLocation{Bucket: fallback(job.TargetBucket, s.targetBucket), Key: job.FileName},
	}, nil
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
