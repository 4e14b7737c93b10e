package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/bayflow/internal/domain/model"
	apperrors "github.com/target/bayflow/internal/errors"
	"github.com/target/bayflow/internal/mocks"
	"github.com/target/bayflow/internal/testutil"
)

func TestBucketService_List(t *testing.T) {
	objects := testutil.NewMemoryObjectStore()
	for _, k := range []string{"inbound/acme/a.csv", "inbound/acme/b.csv", "inbound/globex/c.csv"} {
		objects.Seed("landing", k, []byte("x"))
	}
	svc, err := NewBucketService(BucketServiceOptions{Objects: objects, LandingBucket: "landing", TargetBucket: "target"})
	require.NoError(t, err)
	ctx := context.Background()

	page, err := svc.List(ctx, ListParams{Kind: "landing", Prefix: "inbound/acme/", MaxKeys: 1})
	require.NoError(t, err)
	assert.Equal(t, "landing", page.Bucket)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "inbound/acme/a.csv", page.Items[0].Key)
	assert.True(t, page.IsTruncated)
	require.NotNil(t, page.NextContinuationToken)

	page, err = svc.List(ctx, ListParams{Kind: "landing", Prefix: "inbound/acme/", MaxKeys: 1, ContinuationToken: *page.NextContinuationToken})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "inbound/acme/b.csv", page.Items[0].Key)

	page, err = svc.List(ctx, ListParams{Kind: "target"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = svc.List(ctx, ListParams{Kind: "archive"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "kind must be 'landing' or 'target'", err.(*apperrors.AppError).Message)
}

func TestBucketService_DefaultsAndLimits(t *testing.T) {
	ctrl := gomock.NewController(t)
	objects := mocks.NewMockObjectStore(ctrl)
	svc, err := NewBucketService(BucketServiceOptions{Objects: objects, LandingBucket: "landing"})
	require.NoError(t, err)
	ctx := context.Background()

	objects.EXPECT().ListObjects(gomock.Any(), model.ListObjectsRequest{Bucket: "landing", MaxKeys: DefaultBucketPageSize}).
		Return(&model.ObjectPage{}, nil)
	_, err = svc.List(ctx, ListParams{Kind: "landing"})
	require.NoError(t, err)

	objects.EXPECT().ListObjects(gomock.Any(), model.ListObjectsRequest{Bucket: "landing", MaxKeys: 1000}).
		Return(&model.ObjectPage{}, nil)
	_, err = svc.List(ctx, ListParams{Kind: "landing", MaxKeys: 5000})
	require.NoError(t, err)

	_, err = svc.List(ctx, ListParams{Kind: "target"})
	require.Error(t, err, "target bucket is not configured")
}
