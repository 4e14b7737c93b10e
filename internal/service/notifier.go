package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/target/bayflow/internal/core"
	"github.com/target/bayflow/internal/domain/model"
	apperrors "github.com/target/bayflow/internal/errors"
	obserrors "github.com/target/bayflow/internal/observability/errors"
	"github.com/target/bayflow/internal/observability/notify"
)

// SinkRegistration pairs a secondary sink with a name for logging.
type SinkRegistration struct {
	Name string
	Sink notify.Sink
}

// NotifierServiceOptions groups dependencies for NotifierService.
type NotifierServiceOptions struct {
	Broadcaster core.Broadcaster   // Required: primary topic publisher
	Topic       string             // Required: broadcast topic
	Sinks       []SinkRegistration // Optional: best-effort secondary sinks
	Logger      *slog.Logger       // Optional
	Now         func() time.Time   // Optional: clock for sink timestamps
}

// NotifierService publishes route outcomes to the broadcast topic and fans them out to any
// secondary sinks.
type NotifierService struct {
	broadcaster core.Broadcaster
	topic       string
	sinks       []SinkRegistration
	logger      *slog.Logger
	now         func() time.Time
}

// NewNotifierService constructs a NotifierService.
func NewNotifierService(opts NotifierServiceOptions) (*NotifierService, error) {
	if opts.Broadcaster == nil {
		return nil, errors.New("Broadcaster is required")
	}
	if strings.TrimSpace(opts.Topic) == "" {
		return nil, errors.New("notification topic is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	var sinks []SinkRegistration
	for _, entry := range opts.Sinks {
		if entry.Sink == nil {
			continue
		}
		if entry.Name == "" {
			entry.Name = "sink"
		}
		sinks = append(sinks, entry)
	}

	return &NotifierService{
		broadcaster: opts.Broadcaster,
		topic:       opts.Topic,
		sinks:       sinks,
		logger:      logger.With("component", "notifier"),
		now:         now,
	}, nil
}

// Outcome is the result being announced for one file.
type Outcome struct {
	Success bool
	JobID   string
	Tenant  string
	FlowID  string
	Key     string
	Source  model.ObjectLocation
	// Target is set on success.
	Target *model.ObjectLocation
	// Err is set on failure.
	Err error
}

func (o Outcome) label() string {
	if o.Success {
		return notify.OutcomeSuccess
	}
	return notify.OutcomeFailure
}

// Subject renders "BayFlow: <OUTCOME> for <tenant>/<flow>".
func (o Outcome) Subject() string {
	return fmt.Sprintf("BayFlow: %s for %s/%s", o.label(), o.Tenant, o.FlowID)
}

// Body renders the three-line message body.
func (o Outcome) Body() string {
	var b strings.Builder
	if o.Success {
		fmt.Fprintf(&b, "File %s processed successfully.\n", o.Key)
	} else {
		fmt.Fprintf(&b, "File %s failed to process.\n", o.Key)
	}
	fmt.Fprintf(&b, "Source: %s\n", o.Source)
	switch {
	case o.Success && o.Target != nil:
		fmt.Fprintf(&b, "Target: %s", o.Target)
	case !o.Success && o.Err != nil:
		fmt.Fprintf(&b, "Error: %s", o.Err.Error())
	default:
		return strings.TrimSuffix(b.String(), "\n")
	}
	return b.String()
}

// Publish sends one message to the broadcast topic. A broadcast failure is returned as a
// Notification error; secondary sinks are attempted either way and only logged.
func (s *NotifierService) Publish(ctx context.Context, o Outcome) error {
	err := s.broadcaster.Publish(ctx, model.BroadcastMessage{
		Topic:   s.topic,
		Subject: o.Subject(),
		Message: o.Body(),
	})

	s.fanOut(ctx, o)

	if err != nil {
		return apperrors.Notification(err, "publish "+strings.ToLower(o.label())+" notification")
	}
	return nil
}

func (s *NotifierService) fanOut(ctx context.Context, o Outcome) {
	if len(s.sinks) == 0 {
		return
	}

	n := notify.RouteNotification{
		Outcome:    o.label(),
		JobID:      o.JobID,
		Tenant:     o.Tenant,
		FlowID:     o.FlowID,
		Source:     o.Source.String(),
		OccurredAt: s.now(),
	}
	if o.Target != nil {
		n.Target = o.Target.String()
	}
	if o.Err != nil {
		n.Error = o.Err.Error()
		n.ErrorClass = obserrors.Classify(o.Err)
	}

	var wg sync.WaitGroup
	for _, entry := range s.sinks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := entry.Sink.SendRouteNotification(ctx, n); err != nil {
				s.logger.ErrorContext(ctx, "notification sink delivery error",
					"sink", entry.Name,
					"job_id", n.JobID,
					"outcome", n.Outcome,
					"error", err,
				)
			}
		}()
	}
	wg.Wait()
}
