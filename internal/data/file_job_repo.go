package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/target/bayflow/internal/core"
	"github.com/target/bayflow/internal/data/pgxutil"
	"github.com/target/bayflow/internal/domain/model"
	apperrors "github.com/target/bayflow/internal/errors"
)

const (
	defaultFileJobListLimit = 100
	maxFileJobListLimit     = 1000
)

// FileJobRepoConfig holds configuration options for the file job repository.
type FileJobRepoConfig struct {
	Logger       *slog.Logger
	TimeProvider TimeProvider
}

// FileJobRepo stores job records in the file_jobs table.
type FileJobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

var _ core.FileJobRepository = (*FileJobRepo)(nil)

// NewFileJobRepo creates a new FileJobRepo instance.
func NewFileJobRepo(db *sql.DB, cfg FileJobRepoConfig) *FileJobRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &FileJobRepo{
		DB:           db,
		timeProvider: tp,
		logger:       logger.With("component", "file_job_repo"),
	}
}

const fileJobColumns = `
  job_id,
  file_name,
  tenant,
  flow_id,
  status,
  source_bucket,
  target_bucket,
  error_message,
  created_at,
  updated_at
`

func scanFileJob(row interface{ Scan(dest ...any) error }) (*model.FileJob, error) {
	var (
		job    model.FileJob
		errMsg sql.NullString
	)
	if err := row.Scan(
		&job.JobID,
		&job.FileName,
		&job.Tenant,
		&job.FlowID,
		&job.Status,
		&job.SourceBucket,
		&job.TargetBucket,
		&errMsg,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if errMsg.Valid {
		job.ErrorMessage = &errMsg.String
	}
	return &job, nil
}

// Create inserts a RUNNING record. created_at and updated_at are both set to now.
func (r *FileJobRepo) Create(ctx context.Context, req *model.CreateFileJobRequest) (*model.FileJob, error) {
	if req == nil {
		return nil, errors.New("create file job request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid file job")
	}

	now := r.timeProvider.Now().UTC()
	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO file_jobs (job_id, file_name, tenant, flow_id, status, source_bucket, target_bucket, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING `+fileJobColumns,
		req.JobID, req.FileName, req.Tenant, req.FlowID, model.JobStatusRunning,
		req.SourceBucket, req.TargetBucket, now,
	)

	job, err := scanFileJob(row)
	if err != nil {
		return nil, fmt.Errorf("insert file job %s/%s: %w", req.JobID, req.FileName, apperrors.MapDBError(err))
	}
	return job, nil
}

// MarkTerminal moves a RUNNING record to a terminal state. The row is locked for the duration
// of the check so concurrent writers cannot both succeed.
func (r *FileJobRepo) MarkTerminal(ctx context.Context, req *model.MarkTerminalRequest) (*model.FileJob, error) {
	if req == nil {
		return nil, errors.New("mark terminal request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid terminal update")
	}

	var updated *model.FileJob
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			var current model.JobStatus
			err := tx.QueryRowContext(ctx,
				`SELECT status FROM file_jobs WHERE job_id = $1 AND file_name = $2 FOR UPDATE`,
				req.JobID, req.FileName,
			).Scan(&current)
			if errors.Is(err, sql.ErrNoRows) {
				return core.ErrFileJobNotFound
			}
			if err != nil {
				return apperrors.MapDBError(err)
			}
			if current != model.JobStatusRunning {
				r.logger.WarnContext(ctx, "refusing terminal transition",
					"job_id", req.JobID,
					"file_name", req.FileName,
					"current", current,
					"requested", req.Status,
				)
				return fmt.Errorf("%w: %s/%s is %s", core.ErrJobNotRunning, req.JobID, req.FileName, current)
			}

			row := tx.QueryRowContext(ctx, `
				UPDATE file_jobs
				SET status = $3,
				    error_message = COALESCE($4, error_message),
				    updated_at = $5
				WHERE job_id = $1 AND file_name = $2 AND status = 'RUNNING'
				RETURNING `+fileJobColumns,
				req.JobID, req.FileName, req.Status, nullString(req.ErrorMessage), r.timeProvider.Now().UTC(),
			)
			job, scanErr := scanFileJob(row)
			if scanErr != nil {
				return apperrors.MapDBError(scanErr)
			}
			updated = job
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetByJobID returns all records written under jobID.
func (r *FileJobRepo) GetByJobID(ctx context.Context, jobID string) ([]*model.FileJob, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, apperrors.ValidationField("job_id", "job_id is required")
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+fileJobColumns+` FROM file_jobs WHERE job_id = $1 ORDER BY created_at ASC, file_name ASC`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("query file jobs: %w", apperrors.MapDBError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			r.logger.WarnContext(ctx, "close rows", "error", cerr)
		}
	}()

	var jobs []*model.FileJob
	for rows.Next() {
		job, scanErr := scanFileJob(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan file job: %w", scanErr)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file jobs: %w", err)
	}
	if len(jobs) == 0 {
		return nil, core.ErrFileJobNotFound
	}
	return jobs, nil
}

// List returns up to opts.Limit records, newest first. A tenant filter uses the tenant/flow
// index. The status filter is applied to the limited page, so a page may hold fewer than Limit
// records.
func (r *FileJobRepo) List(ctx context.Context, opts model.FileJobListOptions) ([]*model.FileJob, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultFileJobListLimit
	}
	if limit > maxFileJobListLimit {
		limit = maxFileJobListLimit
	}

	query := `SELECT ` + fileJobColumns + ` FROM file_jobs`
	args := []any{limit}
	if opts.Tenant != "" {
		query += ` WHERE tenant = $2`
		args = append(args, opts.Tenant)
	}
	query += ` ORDER BY updated_at DESC LIMIT $1`

	var jobs []*model.FileJob
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		collected, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.FileJob])
		if err != nil {
			return err
		}
		jobs = collected
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list file jobs: %w", apperrors.MapDBError(err))
	}

	if opts.Status == "" {
		return jobs, nil
	}
	filtered := jobs[:0]
	for _, j := range jobs {
		if j.Status == opts.Status {
			filtered = append(filtered, j)
		}
	}
	return filtered, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
