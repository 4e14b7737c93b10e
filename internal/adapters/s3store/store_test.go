package s3store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/bayflow/internal/core"
	"github.com/target/bayflow/internal/domain/model"
)

// fakeAPI records inputs and returns canned outputs.
type fakeAPI struct {
	objects map[string][]byte

	lastCopy *s3.CopyObjectInput
	lastPut  *s3.PutObjectInput
	lastList *s3.ListObjectsV2Input
	listOut  *s3.ListObjectsV2Output
	headOut  *s3.HeadObjectOutput
	err      error
}

func (f *fakeAPI) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (f *fakeAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.lastPut = in
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeAPI) CopyObject(_ context.Context, in *s3.CopyObjectInput, _ ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	f.lastCopy = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.CopyObjectOutput{}, nil
}

func (f *fakeAPI) HeadObject(_ context.Context, _ *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.headOut, nil
}

func (f *fakeAPI) ListObjectsV2(
	_ context.Context,
	in *s3.ListObjectsV2Input,
	_ ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	f.lastList = in
	if f.err != nil {
		return nil, f.err
	}
	return f.listOut, nil
}

func newFake() *fakeAPI {
	return &fakeAPI{objects: map[string][]byte{}}
}

func TestStore_CopyObject(t *testing.T) {
	api := newFake()
	store := NewStore(api, nil)

	err := store.CopyObject(context.Background(), model.CopyObjectRequest{
		Source:      model.ObjectLocation{Bucket: "landing", Key: "inbound/acme/inbox/q1 report+final.csv"},
		Destination: model.ObjectLocation{Bucket: "target", Key: "processed/acme/q1 report+final.csv"},
	})
	require.NoError(t, err)
	assert.Equal(t, "target", aws.ToString(api.lastCopy.Bucket))
	assert.Equal(t, "processed/acme/q1 report+final.csv", aws.ToString(api.lastCopy.Key))
	assert.Equal(t, "landing/inbound/acme/inbox/q1%20report+final.csv", aws.ToString(api.lastCopy.CopySource))
}

func TestStore_CopyObjectError(t *testing.T) {
	api := newFake()
	api.err = errors.New("AccessDenied")
	store := NewStore(api, nil)

	err := store.CopyObject(context.Background(), model.CopyObjectRequest{
		Source:      model.ObjectLocation{Bucket: "landing", Key: "k"},
		Destination: model.ObjectLocation{Bucket: "target", Key: "k"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")
	assert.Contains(t, err.Error(), "s3://landing/k")
}

func TestStore_GetPutObject(t *testing.T) {
	api := newFake()
	store := NewStore(api, nil)
	ctx := context.Background()
	loc := model.ObjectLocation{Bucket: "config", Key: "partners.json"}

	_, err := store.GetObject(ctx, loc)
	require.ErrorIs(t, err, core.ErrObjectNotFound)

	require.NoError(t, store.PutObject(ctx, model.PutObjectRequest{Location: loc, Body: []byte(`{}`), ContentType: "application/json"}))
	assert.Equal(t, "application/json", aws.ToString(api.lastPut.ContentType))

	body, err := store.GetObject(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(body))
}

func TestStore_HeadObject(t *testing.T) {
	api := newFake()
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	api.headOut = &s3.HeadObjectOutput{
		ContentType:   aws.String("text/csv"),
		ContentLength: aws.Int64(42),
		LastModified:  &ts,
		Metadata:      map[string]string{"flow": "weekly"},
	}
	store := NewStore(api, nil)

	meta, err := store.HeadObject(context.Background(), model.ObjectLocation{Bucket: "b", Key: "k"})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", meta.ContentType)
	assert.EqualValues(t, 42, meta.Size)
	assert.Equal(t, ts, meta.LastModified)
	assert.Equal(t, "weekly", meta.Metadata["flow"])

	api.err = &types.NotFound{}
	_, err = store.HeadObject(context.Background(), model.ObjectLocation{Bucket: "b", Key: "k"})
	assert.ErrorIs(t, err, core.ErrObjectNotFound)
}

func TestStore_ListObjects(t *testing.T) {
	api := newFake()
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	api.listOut = &s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("inbound/acme/a.csv"), Size: aws.Int64(10), LastModified: &ts},
		},
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("tok-2"),
	}
	store := NewStore(api, nil)

	page, err := store.ListObjects(context.Background(), model.ListObjectsRequest{
		Bucket: "landing", Prefix: "inbound/", MaxKeys: 50, ContinuationToken: "tok-1",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 50, aws.ToInt32(api.lastList.MaxKeys))
	assert.Equal(t, "tok-1", aws.ToString(api.lastList.ContinuationToken))

	assert.Equal(t, "landing", page.Bucket)
	assert.True(t, page.IsTruncated)
	assert.Equal(t, "tok-2", *page.NextContinuationToken)
	require.Len(t, page.Items, 1)
	assert.Equal(t, model.ObjectSummary{Key: "inbound/acme/a.csv", Size: 10, LastModified: ts}, page.Items[0])
}

func TestPartnerConfigStore(t *testing.T) {
	api := newFake()
	objects := NewStore(api, nil)
	store, err := NewPartnerConfigStore(objects, "config", "")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Load(ctx)
	require.ErrorIs(t, err, core.ErrPartnerConfigNotFound)

	require.NoError(t, store.Save(ctx, []byte(`{"partners":{}}`)))
	assert.Equal(t, "partners.json", aws.ToString(api.lastPut.Key))

	raw, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "partners"))

	_, err = NewPartnerConfigStore(objects, "", "")
	require.Error(t, err)
}
