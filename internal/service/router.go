package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/target/bayflow/internal/core"
	"github.com/target/bayflow/internal/domain/model"
	"github.com/target/bayflow/internal/domain/routing"
	apperrors "github.com/target/bayflow/internal/errors"
)

// RouteSuccessMessage is returned to the invoker when a file was routed.
const RouteSuccessMessage = "File processed successfully."

// RouterServiceOptions groups dependencies for RouterService.
type RouterServiceOptions struct {
	Configs      *PartnerConfigService  // Required
	Records      *JobRecordService      // Required
	Files        *FileRouterService     // Required
	Notifier     *NotifierService       // Required
	TargetBucket string                 // Required
	Classifier   routing.FlowClassifier // Optional: defaults to the fixed inbound-v1 flow
	Logger       *slog.Logger           // Optional
}

// RouterService runs one file arrival through the job lifecycle:
// START -> RUNNING -> SUCCESS | FAILED.
type RouterService struct {
	configs      *PartnerConfigService
	records      *JobRecordService
	files        *FileRouterService
	notifier     *NotifierService
	classifier   routing.FlowClassifier
	targetBucket string
	logger       *slog.Logger
}

// NewRouterService constructs a RouterService.
func NewRouterService(opts RouterServiceOptions) (*RouterService, error) {
	switch {
	case opts.Configs == nil:
		return nil, errors.New("PartnerConfigService is required")
	case opts.Records == nil:
		return nil, errors.New("JobRecordService is required")
	case opts.Files == nil:
		return nil, errors.New("FileRouterService is required")
	case opts.Notifier == nil:
		return nil, errors.New("NotifierService is required")
	case strings.TrimSpace(opts.TargetBucket) == "":
		return nil, errors.New("target bucket is required")
	}

	classifier := opts.Classifier
	if classifier == nil {
		classifier = routing.FixedClassifier{FlowID: routing.DefaultFlowID}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &RouterService{
		configs:      opts.Configs,
		records:      opts.Records,
		files:        opts.Files,
		notifier:     opts.Notifier,
		classifier:   classifier,
		targetBucket: opts.TargetBucket,
		logger:       logger.With("component", "router"),
	}, nil
}

// MustNewRouterService constructs a RouterService and panics on error.
func MustNewRouterService(opts RouterServiceOptions) *RouterService {
	svc, err := NewRouterService(opts)
	if err != nil {
		panic(err)
	}
	return svc
}

// Handle processes one file arrival. Errors raised before the RUNNING record exists propagate
// without a record or notification. Once the record exists, any failure marks it FAILED,
// publishes a failure notification (both best effort) and returns the original error.
func (s *RouterService) Handle(ctx context.Context, arrival model.FileArrival) (*model.RouteResult, error) {
	if err := arrival.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid file arrival")
	}

	plan, err := s.plan(ctx, arrival)
	if err != nil {
		s.logger.WarnContext(ctx, "file not routable",
			"bucket", arrival.Bucket,
			"key", arrival.Key,
			"execution_id", arrival.JobID(),
			"error", err,
		)
		return nil, err
	}

	jobID := arrival.JobID()
	log := s.logger.With(
		"job_id", jobID,
		"tenant", plan.Tenant,
		"flow_id", plan.FlowID,
		"file_name", plan.FileName,
	)

	if _, err := s.records.Create(ctx, &model.CreateFileJobRequest{
		JobID:        jobID,
		FileName:     plan.FileName,
		Tenant:       plan.Tenant,
		FlowID:       plan.FlowID,
		SourceBucket: plan.Source.Bucket,
		TargetBucket: plan.Target.Bucket,
	}); err != nil {
		log.ErrorContext(ctx, "job record not created", "error", err)
		return nil, err
	}

	if err := s.complete(ctx, jobID, arrival.Key, plan); err != nil {
		// The invocation's deadline may be what failed; the record must still leave RUNNING.
		s.compensate(context.WithoutCancel(ctx), log, jobID, arrival.Key, plan, err)
		return nil, err
	}

	log.InfoContext(ctx, "file routed", "target", plan.Target.String(), "archived", plan.ArchiveEnabled)
	return &model.RouteResult{Status: model.RouteStatusOK, Message: RouteSuccessMessage}, nil
}

func (s *RouterService) plan(ctx context.Context, arrival model.FileArrival) (routing.Plan, error) {
	parsed := routing.ParseKey(arrival.Key)

	flowID, err := s.classifier.Classify(ctx, routing.ClassifyInput{
		Bucket: arrival.Bucket,
		Key:    arrival.Key,
		Parsed: parsed,
	})
	if err != nil {
		return routing.Plan{}, fmt.Errorf("classify flow: %w", err)
	}

	cfg, err := s.configs.Load(ctx)
	if err != nil {
		return routing.Plan{}, err
	}

	rule, err := routing.Resolve(cfg, parsed.Tenant, flowID)
	if err != nil {
		return routing.Plan{}, err
	}

	source := model.ObjectLocation{Bucket: arrival.Bucket, Key: arrival.Key}
	return routing.NewPlan(rule, source, parsed.FileName, s.targetBucket), nil
}

func (s *RouterService) complete(ctx context.Context, jobID, key string, plan routing.Plan) error {
	if err := s.files.Route(ctx, plan); err != nil {
		return err
	}
	if _, err := s.records.MarkSuccess(ctx, jobID, plan.FileName); err != nil {
		return err
	}
	target := plan.Target
	return s.notifier.Publish(ctx, Outcome{
		Success: true,
		JobID:   jobID,
		Tenant:  plan.Tenant,
		FlowID:  plan.FlowID,
		Key:     key,
		Source:  plan.Source,
		Target:  &target,
	})
}

// compensate records and announces cause. Its own failures are logged, never returned.
func (s *RouterService) compensate(
	ctx context.Context,
	log *slog.Logger,
	jobID, key string,
	plan routing.Plan,
	cause error,
) {
	log.ErrorContext(ctx, "error while processing file", "error", cause)

	if _, err := s.records.MarkFailed(ctx, jobID, plan.FileName, cause.Error()); err != nil {
		if errors.Is(err, core.ErrJobNotRunning) {
			log.WarnContext(ctx, "job record already terminal; keeping existing status", "error", err)
		} else {
			log.ErrorContext(ctx, "failed to mark job record FAILED", "error", err)
		}
	}

	if err := s.notifier.Publish(ctx, Outcome{
		Success: false,
		JobID:   jobID,
		Tenant:  plan.Tenant,
		FlowID:  plan.FlowID,
		Key:     key,
		Source:  plan.Source,
		Err:     cause,
	}); err != nil {
		log.ErrorContext(ctx, "failed to publish failure notification", "error", err)
	}
}
