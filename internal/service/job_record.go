package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/target/bayflow/internal/core"
	"github.com/target/bayflow/internal/domain/model"
	apperrors "github.com/target/bayflow/internal/errors"
)

// JobRecordServiceOptions groups dependencies for JobRecordService.
type JobRecordServiceOptions struct {
	Repo   core.FileJobRepository // Required
	Logger *slog.Logger           // Optional
}

// JobRecordService writes the RUNNING record and its single terminal transition.
type JobRecordService struct {
	repo   core.FileJobRepository
	logger *slog.Logger
}

// NewJobRecordService constructs a JobRecordService.
func NewJobRecordService(opts JobRecordServiceOptions) (*JobRecordService, error) {
	if opts.Repo == nil {
		return nil, errors.New("FileJobRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &JobRecordService{repo: opts.Repo, logger: logger.With("component", "job_record")}, nil
}

// Create writes a RUNNING record. Any failure is a StoreWrite error.
func (s *JobRecordService) Create(ctx context.Context, req *model.CreateFileJobRequest) (*model.FileJob, error) {
	job, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, apperrors.StoreWrite(err, "create job record")
	}
	return job, nil
}

// MarkSuccess moves the record to SUCCESS.
func (s *JobRecordService) MarkSuccess(ctx context.Context, jobID, fileName string) (*model.FileJob, error) {
	return s.markTerminal(ctx, &model.MarkTerminalRequest{
		JobID:    jobID,
		FileName: fileName,
		Status:   model.JobStatusSuccess,
	})
}

// MarkFailed moves the record to FAILED. An empty errMsg leaves error_message unset.
func (s *JobRecordService) MarkFailed(ctx context.Context, jobID, fileName, errMsg string) (*model.FileJob, error) {
	req := &model.MarkTerminalRequest{
		JobID:    jobID,
		FileName: fileName,
		Status:   model.JobStatusFailed,
	}
	if errMsg != "" {
		req.ErrorMessage = &errMsg
	}
	return s.markTerminal(ctx, req)
}

func (s *JobRecordService) markTerminal(ctx context.Context, req *model.MarkTerminalRequest) (*model.FileJob, error) {
	job, err := s.repo.MarkTerminal(ctx, req)
	if err != nil {
		return nil, apperrors.StoreWrite(err, "mark job record "+string(req.Status))
	}
	return job, nil
}
