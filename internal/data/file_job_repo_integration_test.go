package data

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/bayflow/internal/core"
	"github.com/target/bayflow/internal/domain/model"
	apperrors "github.com/target/bayflow/internal/errors"
	"github.com/target/bayflow/internal/testutil"
)

func newTestFileJobRepo(db *sql.DB) (*FileJobRepo, *FixedTimeProvider) {
	clock := NewFixedTimeProvider(testutil.TestTime())
	return NewFileJobRepo(db, FileJobRepoConfig{TimeProvider: clock}), clock
}

func TestFileJobRepo_Integration_Lifecycle(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo, clock := newTestFileJobRepo(db)
		ctx := context.Background()

		job, err := repo.Create(ctx, testutil.NewFileJobRequest("exec-1", "orders.csv"))
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusRunning, job.Status)
		assert.True(t, job.CreatedAt.Equal(job.UpdatedAt))
		assert.Nil(t, job.ErrorMessage)

		clock.AddTime(time.Minute)
		done, err := repo.MarkTerminal(ctx, &model.MarkTerminalRequest{
			JobID: "exec-1", FileName: "orders.csv", Status: model.JobStatusSuccess,
		})
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusSuccess, done.Status)
		assert.True(t, done.UpdatedAt.After(done.CreatedAt))
		assert.True(t, done.CreatedAt.Equal(job.CreatedAt), "created_at is fixed at creation")
		assert.Nil(t, done.ErrorMessage)

		// terminal -> terminal is refused and leaves the record alone
		msg := "late failure"
		_, err = repo.MarkTerminal(ctx, &model.MarkTerminalRequest{
			JobID: "exec-1", FileName: "orders.csv", Status: model.JobStatusFailed, ErrorMessage: &msg,
		})
		require.ErrorIs(t, err, core.ErrJobNotRunning)

		jobs, err := repo.GetByJobID(ctx, "exec-1")
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, model.JobStatusSuccess, jobs[0].Status)
		assert.Nil(t, jobs[0].ErrorMessage)
	})
}

func TestFileJobRepo_Integration_Failed(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo, _ := newTestFileJobRepo(db)
		ctx := context.Background()

		_, err := repo.Create(ctx, testutil.NewFileJobRequest("exec-2", "orders.csv"))
		require.NoError(t, err)

		msg := "AccessDenied"
		job, err := repo.MarkTerminal(ctx, &model.MarkTerminalRequest{
			JobID: "exec-2", FileName: "orders.csv", Status: model.JobStatusFailed, ErrorMessage: &msg,
		})
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusFailed, job.Status)
		require.NotNil(t, job.ErrorMessage)
		assert.Equal(t, "AccessDenied", *job.ErrorMessage)
	})
}

func TestFileJobRepo_Integration_Errors(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo, _ := newTestFileJobRepo(db)
		ctx := context.Background()

		_, err := repo.MarkTerminal(ctx, &model.MarkTerminalRequest{
			JobID: "missing", FileName: "x.csv", Status: model.JobStatusSuccess,
		})
		require.ErrorIs(t, err, core.ErrFileJobNotFound)

		_, err = repo.GetByJobID(ctx, "missing")
		require.ErrorIs(t, err, core.ErrFileJobNotFound)

		_, err = repo.Create(ctx, testutil.NewFileJobRequest("dup", "x.csv"))
		require.NoError(t, err)
		_, err = repo.Create(ctx, testutil.NewFileJobRequest("dup", "x.csv"))
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
		assert.Equal(t, "job_id, file_name", apperrors.GetField(err))
	})
}

func TestFileJobRepo_Integration_ConcurrentTerminal(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo, _ := newTestFileJobRepo(db)
		ctx := context.Background()

		_, err := repo.Create(ctx, testutil.NewFileJobRequest("race", "x.csv"))
		require.NoError(t, err)

		statuses := []model.JobStatus{model.JobStatusSuccess, model.JobStatusFailed}
		errs := make([]error, len(statuses))
		var wg sync.WaitGroup
		for i, st := range statuses {
			wg.Add(1)
			go func(i int, st model.JobStatus) {
				defer wg.Done()
				_, errs[i] = repo.MarkTerminal(ctx, &model.MarkTerminalRequest{
					JobID: "race", FileName: "x.csv", Status: st,
				})
			}(i, st)
		}
		wg.Wait()

		succeeded := 0
		for _, e := range errs {
			if e == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, e, core.ErrJobNotRunning)
			}
		}
		assert.Equal(t, 1, succeeded, "exactly one terminal write wins")
	})
}

func TestFileJobRepo_Integration_List(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo, clock := newTestFileJobRepo(db)
		ctx := context.Background()

		for _, tc := range []struct{ id, tenant string }{{"a", "acme"}, {"b", "acme"}, {"c", "globex"}} {
			req := testutil.NewFileJobRequest(tc.id, "f.csv")
			req.Tenant = tc.tenant
			_, err := repo.Create(ctx, req)
			require.NoError(t, err)
			clock.AddTime(time.Second)
		}
		_, err := repo.MarkTerminal(ctx, &model.MarkTerminalRequest{JobID: "a", FileName: "f.csv", Status: model.JobStatusSuccess})
		require.NoError(t, err)

		all, err := repo.List(ctx, model.FileJobListOptions{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, all, 3)

		acme, err := repo.List(ctx, model.FileJobListOptions{Tenant: "acme"})
		require.NoError(t, err)
		assert.Len(t, acme, 2)

		running, err := repo.List(ctx, model.FileJobListOptions{Tenant: "acme", Status: model.JobStatusRunning})
		require.NoError(t, err)
		require.Len(t, running, 1)
		assert.Equal(t, "b", running[0].JobID)
	})
}
