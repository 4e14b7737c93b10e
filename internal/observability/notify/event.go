// Package notify defines the payload delivered to secondary notification sinks.
package notify

import (
	"context"
	"time"
)

// Outcome values carried by RouteNotification.
const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)

// RouteNotification describes the outcome of routing one file.
type RouteNotification struct {
	Outcome    string
	JobID      string
	Tenant     string
	FlowID     string
	Source     string
	Target     string
	Error      string
	ErrorClass string
	OccurredAt time.Time
}

// Sink describes a destination capable of consuming route notifications.
type Sink interface {
	SendRouteNotification(ctx context.Context, n RouteNotification) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, n RouteNotification) error

// SendRouteNotification implements the Sink interface.
func (f SinkFunc) SendRouteNotification(ctx context.Context, n RouteNotification) error {
	if f == nil {
		return nil
	}
	return f(ctx, n)
}
