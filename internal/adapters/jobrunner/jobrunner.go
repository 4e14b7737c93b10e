// Package jobrunner delivers file-arrival events to the router through an asynq queue.
package jobrunner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/target/bayflow/internal/domain/model"
	apperrors "github.com/target/bayflow/internal/errors"
	obserrors "github.com/target/bayflow/internal/observability/errors"
)

// TaskTypeFileArrived is the asynq task type carrying a model.FileArrival payload.
const TaskTypeFileArrived = "file:arrived"

// DefaultQueue is the asynq queue file-arrival tasks are placed on.
const DefaultQueue = "bayflow"

// Router is the orchestration entry point invoked once per task attempt.
type Router interface {
	Handle(ctx context.Context, arrival model.FileArrival) (*model.RouteResult, error)
}

// RetryJobID returns the job id an attempt records under. The first attempt keeps the
// execution id; retries get their own record so each invocation owns exactly one.
func RetryJobID(executionID string, retried int) string {
	if retried <= 0 {
		return executionID
	}
	return fmt.Sprintf("%s#retry-%d", executionID, retried)
}

// TaskHandler adapts Router to asynq.Handler.
type TaskHandler struct {
	router Router
	logger *slog.Logger
}

var _ asynq.Handler = (*TaskHandler)(nil)

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(router Router, logger *slog.Logger) (*TaskHandler, error) {
	if router == nil {
		return nil, errors.New("router is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{router: router, logger: logger.With("component", "jobrunner")}, nil
}

// ProcessTask decodes the payload and runs it through the router. Errors that a retry cannot
// fix (bad payloads, unknown tenant or flow) are marked so asynq archives the task instead.
func (h *TaskHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var arrival model.FileArrival
	if err := json.Unmarshal(task.Payload(), &arrival); err != nil {
		h.logger.ErrorContext(ctx, "malformed file arrival payload", "error", err)
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	retried, _ := asynq.GetRetryCount(ctx)
	arrival.ExecutionID = RetryJobID(arrival.JobID(), retried)

	start := time.Now()
	_, err := h.router.Handle(ctx, arrival)
	if err == nil {
		h.logger.InfoContext(ctx, "file arrival processed",
			"job_id", arrival.ExecutionID,
			"key", arrival.Key,
			"duration", time.Since(start),
		)
		return nil
	}

	h.logger.ErrorContext(ctx, "file arrival failed",
		"job_id", arrival.ExecutionID,
		"key", arrival.Key,
		"retried", retried,
		"error_class", obserrors.Classify(err),
		"error", err,
	)
	if permanent(err) {
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	return err
}

func permanent(err error) bool {
	return apperrors.IsConfigLookup(err) || apperrors.IsValidation(err)
}

// RunnerOptions configures the queue worker.
type RunnerOptions struct {
	Redis       asynq.RedisConnOpt // Required
	Router      Router             // Required
	Concurrency int                // Optional: defaults to 4
	Queue       string             // Optional: defaults to DefaultQueue
	Logger      *slog.Logger       // Optional
}

// Runner consumes file-arrival tasks until its context is cancelled.
type Runner struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	queue  string
	logger *slog.Logger
}

// NewRunner constructs a Runner. The broker connection is opened by Run.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Redis == nil {
		return nil, errors.New("redis connection options are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	handler, err := NewTaskHandler(opts.Router, logger)
	if err != nil {
		return nil, err
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	queue := opts.Queue
	if queue == "" {
		queue = DefaultQueue
	}

	server := asynq.NewServer(opts.Redis, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{queue: 1},
		Logger:      newAsynqLogger(logger),
	})
	mux := asynq.NewServeMux()
	mux.Handle(TaskTypeFileArrived, handler)

	return &Runner{
		server: server,
		mux:    mux,
		queue:  queue,
		logger: logger.With("component", "jobrunner"),
	}, nil
}

// Run starts the asynq server and blocks until ctx is done, then drains in-flight tasks.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting router worker", "queue", r.queue)
	if err := r.server.Start(r.mux); err != nil {
		return fmt.Errorf("start asynq server: %w", err)
	}
	<-ctx.Done()
	r.server.Shutdown()
	r.logger.InfoContext(context.Background(), "router worker stopped")
	return nil
}

// EnqueuerOptions configures an Enqueuer.
type EnqueuerOptions struct {
	Queue    string // Optional: defaults to DefaultQueue
	MaxRetry int    // Optional: defaults to 3
}

// Enqueuer submits file-arrival tasks.
type Enqueuer struct {
	client   *asynq.Client
	queue    string
	maxRetry int
}

// NewEnqueuer creates an Enqueuer that owns a new asynq client.
func NewEnqueuer(redisOpt asynq.RedisConnOpt, opts EnqueuerOptions) *Enqueuer {
	return newEnqueuer(asynq.NewClient(redisOpt), opts)
}

func newEnqueuer(client *asynq.Client, opts EnqueuerOptions) *Enqueuer {
	queue := opts.Queue
	if queue == "" {
		queue = DefaultQueue
	}
	maxRetry := opts.MaxRetry
	if maxRetry <= 0 {
		maxRetry = 3
	}
	return &Enqueuer{client: client, queue: queue, maxRetry: maxRetry}
}

// EnqueueFileArrival queues arrival for the router. The execution id doubles as the task id,
// so an execution already queued is rejected as a conflict.
func (e *Enqueuer) EnqueueFileArrival(ctx context.Context, arrival model.FileArrival) (string, error) {
	if err := arrival.Validate(); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid file arrival")
	}

	body, err := json.Marshal(arrival)
	if err != nil {
		return "", fmt.Errorf("marshal file arrival: %w", err)
	}

	opts := []asynq.Option{asynq.Queue(e.queue), asynq.MaxRetry(e.maxRetry)}
	if arrival.ExecutionID != "" {
		opts = append(opts, asynq.TaskID(arrival.ExecutionID))
	}

	info, err := e.client.EnqueueContext(ctx, asynq.NewTask(TaskTypeFileArrived, body), opts...)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return "", &apperrors.AppError{
				Code:    apperrors.ErrCodeConflict,
				Message: "execution " + arrival.ExecutionID + " is already queued",
				Field:   "execution_id",
				Cause:   err,
			}
		}
		return "", fmt.Errorf("enqueue file arrival: %w", err)
	}
	return info.ID, nil
}

// Close releases the asynq client.
func (e *Enqueuer) Close() error {
	return e.client.Close()
}
