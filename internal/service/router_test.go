package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/bayflow/internal/core"
	"github.com/target/bayflow/internal/domain/model"
	"github.com/target/bayflow/internal/domain/routing"
	apperrors "github.com/target/bayflow/internal/errors"
	"github.com/target/bayflow/internal/mocks"
	"github.com/target/bayflow/internal/testutil"
)

const (
	landingBucket = "landing"
	targetBucket  = "target"
	acmeKey       = "inbound/acme/inbox/orders.csv"
)

type routerFixture struct {
	objects *testutil.MemoryObjectStore
	jobs    *testutil.MemoryFileJobRepo
	configs *testutil.MemoryPartnerConfigStore
	bc      *testutil.RecordingBroadcaster
	router  *RouterService
}

func newRouterFixture(t *testing.T, cfg []byte) *routerFixture {
	t.Helper()
	f := &routerFixture{
		objects: testutil.NewMemoryObjectStore(),
		jobs:    testutil.NewMemoryFileJobRepo(),
		configs: testutil.NewMemoryPartnerConfigStore(cfg),
		bc:      &testutil.RecordingBroadcaster{},
	}
	f.objects.Seed(landingBucket, acmeKey, []byte("id,qty\n1,2\n"))
	f.router = buildRouter(t, routerDeps{
		objects: f.objects,
		jobs:    f.jobs,
		configs: f.configs,
		bc:      f.bc,
	})
	return f
}

type routerDeps struct {
	objects    core.ObjectStore
	jobs       core.FileJobRepository
	configs    core.PartnerConfigStore
	bc         core.Broadcaster
	classifier routing.FlowClassifier
}

func buildRouter(t *testing.T, d routerDeps) *RouterService {
	t.Helper()
	files, err := NewFileRouterService(d.objects, nil)
	require.NoError(t, err)
	records, err := NewJobRecordService(JobRecordServiceOptions{Repo: d.jobs})
	require.NoError(t, err)
	notifier, err := NewNotifierService(NotifierServiceOptions{Broadcaster: d.bc, Topic: "bayflow-notifications"})
	require.NoError(t, err)

	return MustNewRouterService(RouterServiceOptions{
		Configs:      MustNewPartnerConfigService(PartnerConfigServiceOptions{Store: d.configs}),
		Records:      records,
		Files:        files,
		Notifier:     notifier,
		TargetBucket: targetBucket,
		Classifier:   d.classifier,
	})
}

func arrival(key, exec string) model.FileArrival {
	return model.FileArrival{Bucket: landingBucket, Key: key, ExecutionID: exec}
}

func TestRouter_AcmeSuccess(t *testing.T) {
	f := newRouterFixture(t, testutil.AcmePartnerConfig().JSON())

	res, err := f.router.Handle(context.Background(), arrival(acmeKey, "exec-1"))
	require.NoError(t, err)
	assert.Equal(t, &model.RouteResult{Status: "ok", Message: "File processed successfully."}, res)

	assert.True(t, f.objects.Has(targetBucket, "processed/acme/orders.csv"))
	assert.True(t, f.objects.Has(landingBucket, "archive/acme/orders.csv"))
	assert.True(t, f.objects.Has(landingBucket, acmeKey), "source is never deleted")

	job := f.jobs.Get("exec-1", "orders.csv")
	require.NotNil(t, job)
	assert.Equal(t, model.JobStatusSuccess, job.Status)
	assert.Equal(t, "acme", job.Tenant)
	assert.Equal(t, "inbound-v1", job.FlowID)
	assert.Equal(t, landingBucket, job.SourceBucket)
	assert.Equal(t, targetBucket, job.TargetBucket)
	assert.Nil(t, job.ErrorMessage)

	msgs := f.bc.Published()
	require.Len(t, msgs, 1)
	assert.Equal(t, "bayflow-notifications", msgs[0].Topic)
	assert.Equal(t, "BayFlow: SUCCESS for acme/inbound-v1", msgs[0].Subject)
	assert.Equal(t,
		"File inbound/acme/inbox/orders.csv processed successfully.\n"+
			"Source: s3://landing/inbound/acme/inbox/orders.csv\n"+
			"Target: s3://target/processed/acme/orders.csv",
		msgs[0].Message)
}

func TestRouter_TargetCopyFailure(t *testing.T) {
	f := newRouterFixture(t, testutil.AcmePartnerConfig().JSON())
	f.objects.CopyErr = func(dst model.ObjectLocation) error {
		if dst.Bucket == targetBucket {
			return errors.New("AccessDenied")
		}
		return nil
	}

	_, err := f.router.Handle(context.Background(), arrival(acmeKey, "exec-2"))
	require.Error(t, err)
	assert.True(t, apperrors.IsRouting(err))
	assert.Contains(t, err.Error(), "AccessDenied")

	assert.Len(t, f.objects.Copies, 1, "archive is not attempted after a failed target copy")
	assert.False(t, f.objects.Has(landingBucket, "archive/acme/orders.csv"))

	job := f.jobs.Get("exec-2", "orders.csv")
	require.NotNil(t, job)
	assert.Equal(t, model.JobStatusFailed, job.Status)
	require.NotNil(t, job.ErrorMessage)
	assert.Contains(t, *job.ErrorMessage, "AccessDenied")

	msgs := f.bc.Published()
	require.Len(t, msgs, 1)
	assert.Equal(t, "BayFlow: FAILURE for acme/inbound-v1", msgs[0].Subject)
	assert.True(t, strings.HasPrefix(msgs[0].Message, "File inbound/acme/inbox/orders.csv failed to process.\n"))
	assert.Contains(t, msgs[0].Message, "Source: s3://landing/inbound/acme/inbox/orders.csv\n")
	assert.Contains(t, msgs[0].Message, "Error: ")
	assert.Contains(t, msgs[0].Message, "AccessDenied")
}

func TestRouter_ArchiveFailureKeepsTargetCopy(t *testing.T) {
	f := newRouterFixture(t, testutil.AcmePartnerConfig().JSON())
	f.objects.CopyErr = func(dst model.ObjectLocation) error {
		if dst.Bucket == landingBucket {
			return errors.New("SlowDown")
		}
		return nil
	}

	_, err := f.router.Handle(context.Background(), arrival(acmeKey, "exec-3"))
	require.Error(t, err)
	assert.True(t, apperrors.IsRouting(err))
	assert.True(t, f.objects.Has(targetBucket, "processed/acme/orders.csv"), "partial completion is not rolled back")
	assert.Equal(t, model.JobStatusFailed, f.jobs.Get("exec-3", "orders.csv").Status)
}

func TestRouter_UnknownTenant(t *testing.T) {
	f := newRouterFixture(t, testutil.AcmePartnerConfig().JSON())
	f.objects.Seed(landingBucket, "inbound/ghost/inbox/x.csv", []byte("x"))

	_, err := f.router.Handle(context.Background(), arrival("inbound/ghost/inbox/x.csv", "exec-4"))
	require.Error(t, err)
	assert.True(t, apperrors.IsConfigLookup(err))

	assert.Zero(t, f.jobs.Len(), "no record before a rule is resolved")
	assert.Empty(t, f.bc.Published())
	assert.Empty(t, f.objects.Copies)
}

func TestRouter_ShortKeyIsUnknownTenant(t *testing.T) {
	f := newRouterFixture(t, testutil.AcmePartnerConfig().JSON())

	_, err := f.router.Handle(context.Background(), arrival("inbound/orders.csv", "exec-5"))
	require.Error(t, err)
	assert.True(t, apperrors.IsConfigLookup(err))
	assert.Contains(t, err.Error(), "unknown")
	assert.Zero(t, f.jobs.Len())
}

func TestRouter_MissingConfiguration(t *testing.T) {
	f := newRouterFixture(t, nil)

	_, err := f.router.Handle(context.Background(), arrival(acmeKey, "exec-6"))
	require.Error(t, err)
	assert.True(t, apperrors.IsConfigLookup(err))
	assert.Zero(t, f.jobs.Len())
}

func TestRouter_ArchiveDisabled(t *testing.T) {
	f := newRouterFixture(t, testutil.AcmePartnerConfig().WithArchiveEnabled(false).JSON())

	_, err := f.router.Handle(context.Background(), arrival(acmeKey, "exec-7"))
	require.NoError(t, err)
	assert.True(t, f.objects.Has(targetBucket, "processed/acme/orders.csv"))
	assert.False(t, f.objects.Has(landingBucket, "archive/acme/orders.csv"))
	assert.Len(t, f.objects.Copies, 1)
}

func TestRouter_IdempotentTarget(t *testing.T) {
	f := newRouterFixture(t, testutil.AcmePartnerConfig().JSON())
	ctx := context.Background()

	_, err := f.router.Handle(ctx, arrival(acmeKey, "exec-8a"))
	require.NoError(t, err)
	_, err = f.router.Handle(ctx, arrival(acmeKey, "exec-8b"))
	require.NoError(t, err)

	assert.Equal(t, 1, f.objects.Count(targetBucket), "re-routing overwrites the same target key")
	assert.Equal(t, 2, f.jobs.Len(), "each invocation owns its record")
}

func TestRouter_DefaultExecutionID(t *testing.T) {
	f := newRouterFixture(t, testutil.AcmePartnerConfig().JSON())

	_, err := f.router.Handle(context.Background(), arrival(acmeKey, ""))
	require.NoError(t, err)
	assert.NotNil(t, f.jobs.Get(model.UnknownExecutionID, "orders.csv"))
}

func TestRouter_StoreWriteFailureIsFatal(t *testing.T) {
	f := newRouterFixture(t, testutil.AcmePartnerConfig().JSON())
	f.jobs.CreateErr = errors.New("connection refused")

	_, err := f.router.Handle(context.Background(), arrival(acmeKey, "exec-9"))
	require.Error(t, err)
	assert.True(t, apperrors.IsStoreWrite(err))
	assert.Empty(t, f.objects.Copies, "no copy without a RUNNING record")
	assert.Empty(t, f.bc.Published())
}

func TestRouter_NotificationFailureAfterSuccess(t *testing.T) {
	f := newRouterFixture(t, testutil.AcmePartnerConfig().JSON())
	f.bc.Err = errors.New("topic unavailable")

	_, err := f.router.Handle(context.Background(), arrival(acmeKey, "exec-10"))
	require.Error(t, err)
	assert.True(t, apperrors.IsNotification(err))

	job := f.jobs.Get("exec-10", "orders.csv")
	assert.Equal(t, model.JobStatusSuccess, job.Status, "terminal status is never overwritten")
	assert.Nil(t, job.ErrorMessage)

	msgs := f.bc.Published()
	require.Len(t, msgs, 2, "success attempt and failure attempt")
	assert.Contains(t, msgs[0].Subject, "SUCCESS")
	assert.Contains(t, msgs[1].Subject, "FAILURE")
}

func TestRouter_PrefixClassifier(t *testing.T) {
	cfg := testutil.NewPartnerConfig().WithFlow("acme", "daily", "daily/acme/", "archive/daily/").JSON()
	objects := testutil.NewMemoryObjectStore()
	objects.Seed(landingBucket, "inbound/acme/daily/d.csv", []byte("d"))
	jobs := testutil.NewMemoryFileJobRepo()

	router := buildRouter(t, routerDeps{
		objects:    objects,
		jobs:       jobs,
		configs:    testutil.NewMemoryPartnerConfigStore(cfg),
		bc:         &testutil.RecordingBroadcaster{},
		classifier: routing.PrefixClassifier{},
	})

	_, err := router.Handle(context.Background(), arrival("inbound/acme/daily/d.csv", "exec-11"))
	require.NoError(t, err)
	assert.True(t, objects.Has(targetBucket, "daily/acme/d.csv"))
	assert.Equal(t, "daily", jobs.Get("exec-11", "d.csv").FlowID)
}

func TestRouter_InvalidArrival(t *testing.T) {
	f := newRouterFixture(t, testutil.AcmePartnerConfig().JSON())

	_, err := f.router.Handle(context.Background(), model.FileArrival{Key: acmeKey})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestRouter_PartnersScenario(t *testing.T) {
	const key = "partners/acme/inbox/order.csv"
	f := newRouterFixture(t, testutil.AcmePartnerConfig().JSON())
	f.objects.Seed(landingBucket, key, []byte("id\n1\n"))

	res, err := f.router.Handle(context.Background(), arrival(key, "exec-20"))
	require.NoError(t, err)
	assert.Equal(t, model.RouteStatusOK, res.Status)

	assert.True(t, f.objects.Has(targetBucket, "processed/acme/order.csv"))
	assert.True(t, f.objects.Has(landingBucket, "archive/acme/order.csv"))

	job := f.jobs.Get("exec-20", "order.csv")
	require.NotNil(t, job)
	assert.Equal(t, model.JobStatusSuccess, job.Status)
	assert.Equal(t, "acme", job.Tenant)
}

func TestRouter_PrefixKeyDegradesToStoreWrite(t *testing.T) {
	f := newRouterFixture(t, testutil.AcmePartnerConfig().JSON())

	_, err := f.router.Handle(context.Background(), arrival("inbound/acme/", "exec-21"))
	require.Error(t, err)
	assert.False(t, apperrors.IsValidation(err))
	assert.True(t, apperrors.IsStoreWrite(err), "empty file name is refused by the record store")
	assert.Zero(t, f.jobs.Len())
	assert.Empty(t, f.objects.Copies)
	assert.Empty(t, f.bc.Published())
}

// TestRouter_CancelledInvocationStillMarksFailed covers a copy that fails because the
// invocation's context was cancelled mid-flight.
func TestRouter_CancelledInvocationStillMarksFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockPartnerConfigStore(ctrl)
	repo := mocks.NewMockFileJobRepository(ctrl)
	objects := mocks.NewMockObjectStore(ctrl)
	bc := mocks.NewMockBroadcaster(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var failed *model.MarkTerminalRequest
	gomock.InOrder(
		store.EXPECT().Load(gomock.Any()).Return(testutil.AcmePartnerConfig().JSON(), nil),
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&model.FileJob{Status: model.JobStatusRunning}, nil),
		objects.EXPECT().CopyObject(gomock.Any(), gomock.Any()).DoAndReturn(
			func(context.Context, model.CopyObjectRequest) error {
				cancel()
				return context.Canceled
			}),
		repo.EXPECT().MarkTerminal(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, req *model.MarkTerminalRequest) (*model.FileJob, error) {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				failed = req
				return &model.FileJob{Status: req.Status}, nil
			}),
		bc.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, msg model.BroadcastMessage) error {
				require.NoError(t, ctx.Err())
				assert.Contains(t, msg.Subject, "FAILURE")
				return nil
			}),
	)

	router := buildRouter(t, routerDeps{objects: objects, jobs: repo, configs: store, bc: bc})
	_, err := router.Handle(ctx, arrival(acmeKey, "exec-22"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, apperrors.IsRouting(err))

	require.NotNil(t, failed, "record must leave RUNNING")
	assert.Equal(t, model.JobStatusFailed, failed.Status)
}

// TestRouter_CallOrder pins the exact sequence of port calls for a successful invocation.
func TestRouter_CallOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockPartnerConfigStore(ctrl)
	repo := mocks.NewMockFileJobRepository(ctrl)
	objects := mocks.NewMockObjectStore(ctrl)
	bc := mocks.NewMockBroadcaster(ctrl)

	src := model.ObjectLocation{Bucket: landingBucket, Key: acmeKey}
	gomock.InOrder(
		store.EXPECT().Load(gomock.Any()).Return(testutil.AcmePartnerConfig().JSON(), nil),
		repo.EXPECT().Create(gomock.Any(), &model.CreateFileJobRequest{
			JobID: "exec-12", FileName: "orders.csv", Tenant: "acme", FlowID: "inbound-v1",
			SourceBucket: landingBucket, TargetBucket: targetBucket,
		}).Return(&model.FileJob{Status: model.JobStatusRunning}, nil),
		objects.EXPECT().CopyObject(gomock.Any(), model.CopyObjectRequest{
			Source: src, Destination: model.ObjectLocation{Bucket: targetBucket, Key: "processed/acme/orders.csv"},
		}).Return(nil),
		objects.EXPECT().CopyObject(gomock.Any(), model.CopyObjectRequest{
			Source: src, Destination: model.ObjectLocation{Bucket: landingBucket, Key: "archive/acme/orders.csv"},
		}).Return(nil),
		repo.EXPECT().MarkTerminal(gomock.Any(), &model.MarkTerminalRequest{
			JobID: "exec-12", FileName: "orders.csv", Status: model.JobStatusSuccess,
		}).Return(&model.FileJob{Status: model.JobStatusSuccess}, nil),
		bc.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil),
	)

	router := buildRouter(t, routerDeps{objects: objects, jobs: repo, configs: store, bc: bc})
	_, err := router.Handle(context.Background(), arrival(acmeKey, "exec-12"))
	require.NoError(t, err)
}

// TestRouter_CompensationErrorsAreSwallowed checks the original error survives failing compensation.
func TestRouter_CompensationErrorsAreSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockPartnerConfigStore(ctrl)
	repo := mocks.NewMockFileJobRepository(ctrl)
	objects := mocks.NewMockObjectStore(ctrl)
	bc := mocks.NewMockBroadcaster(ctrl)

	copyErr := errors.New("AccessDenied")
	gomock.InOrder(
		store.EXPECT().Load(gomock.Any()).Return(testutil.AcmePartnerConfig().JSON(), nil),
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&model.FileJob{}, nil),
		objects.EXPECT().CopyObject(gomock.Any(), gomock.Any()).Return(copyErr),
		repo.EXPECT().MarkTerminal(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req *model.MarkTerminalRequest) (*model.FileJob, error) {
				assert.Equal(t, model.JobStatusFailed, req.Status)
				require.NotNil(t, req.ErrorMessage)
				assert.Contains(t, *req.ErrorMessage, "AccessDenied")
				return nil, errors.New("db down")
			}),
		bc.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("topic down")),
	)

	router := buildRouter(t, routerDeps{objects: objects, jobs: repo, configs: store, bc: bc})
	_, err := router.Handle(context.Background(), arrival(acmeKey, "exec-13"))
	require.Error(t, err)
	assert.ErrorIs(t, err, copyErr)
	assert.True(t, apperrors.IsRouting(err))
	assert.False(t, apperrors.IsStoreWrite(err))
}

func TestNewRouterService_Validation(t *testing.T) {
	_, err := NewRouterService(RouterServiceOptions{})
	require.Error(t, err)
}
