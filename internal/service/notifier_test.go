package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/bayflow/internal/domain/model"
	apperrors "github.com/target/bayflow/internal/errors"
	"github.com/target/bayflow/internal/observability/notify"
	"github.com/target/bayflow/internal/testutil"
)

func TestOutcome_Format(t *testing.T) {
	src := model.ObjectLocation{Bucket: "landing", Key: "inbound/acme/inbox/f.csv"}
	target := model.ObjectLocation{Bucket: "target", Key: "processed/acme/f.csv"}

	ok := Outcome{Success: true, Tenant: "acme", FlowID: "inbound-v1", Key: src.Key, Source: src, Target: &target}
	assert.Equal(t, "BayFlow: SUCCESS for acme/inbound-v1", ok.Subject())
	assert.Equal(t,
		"File inbound/acme/inbox/f.csv processed successfully.\nSource: s3://landing/inbound/acme/inbox/f.csv\nTarget: s3://target/processed/acme/f.csv",
		ok.Body())

	failed := Outcome{Tenant: "acme", FlowID: "inbound-v1", Key: src.Key, Source: src, Err: errors.New("boom")}
	assert.Equal(t, "BayFlow: FAILURE for acme/inbound-v1", failed.Subject())
	assert.Equal(t,
		"File inbound/acme/inbox/f.csv failed to process.\nSource: s3://landing/inbound/acme/inbox/f.csv\nError: boom",
		failed.Body())
}

func TestNotifierService_Publish(t *testing.T) {
	bc := &testutil.RecordingBroadcaster{}

	var (
		mu   sync.Mutex
		seen []notify.RouteNotification
	)
	sink := notify.SinkFunc(func(_ context.Context, n notify.RouteNotification) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, n)
		return errors.New("slack down")
	})

	svc, err := NewNotifierService(NotifierServiceOptions{
		Broadcaster: bc,
		Topic:       "topic",
		Sinks:       []SinkRegistration{{Name: "slack", Sink: sink}, {Name: "nil"}},
	})
	require.NoError(t, err)

	cause := apperrors.Routing(errors.New("denied"), "copy failed")
	err = svc.Publish(context.Background(), Outcome{
		JobID:  "exec-1",
		Tenant: "acme",
		FlowID: "inbound-v1",
		Key:    "k",
		Source: model.ObjectLocation{Bucket: "landing", Key: "k"},
		Err:    cause,
	})
	require.NoError(t, err, "sink errors are logged, not returned")

	require.Len(t, bc.Published(), 1)
	require.Len(t, seen, 1)
	assert.Equal(t, notify.OutcomeFailure, seen[0].Outcome)
	assert.Equal(t, "routing", seen[0].ErrorClass)
	assert.Equal(t, "s3://landing/k", seen[0].Source)
	assert.Empty(t, seen[0].Target)
}

func TestNotifierService_BroadcastFailure(t *testing.T) {
	bc := &testutil.RecordingBroadcaster{Err: errors.New("unreachable")}
	svc, err := NewNotifierService(NotifierServiceOptions{Broadcaster: bc, Topic: "topic"})
	require.NoError(t, err)

	err = svc.Publish(context.Background(), Outcome{Success: true, Tenant: "acme", FlowID: "f"})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotification(err))
	assert.Contains(t, err.Error(), "unreachable")
}

func TestNewNotifierService_Validation(t *testing.T) {
	_, err := NewNotifierService(NotifierServiceOptions{Topic: "t"})
	require.Error(t, err)
	_, err = NewNotifierService(NotifierServiceOptions{Broadcaster: &testutil.RecordingBroadcaster{}})
	require.Error(t, err)
}
