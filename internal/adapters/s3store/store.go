// Package s3store implements the object store and the partner configuration store on S3
// (or any S3-compatible endpoint such as MinIO).
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/target/bayflow/internal/core"
	"github.com/target/bayflow/internal/domain/model"
)

// API is the subset of *s3.Client used by Store.
type API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CopyObject(ctx context.Context, in *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(
		ctx context.Context,
		in *s3.ListObjectsV2Input,
		optFns ...func(*s3.Options),
	) (*s3.ListObjectsV2Output, error)
}

// ClientConfig configures the S3 client.
type ClientConfig struct {
	Region          string
	Endpoint        string // Optional: custom endpoint for S3-compatible stores
	UsePathStyle    bool
	AccessKeyID     string // Optional: static credentials; default chain otherwise
	SecretAccessKey string
}

// NewClient builds an S3 client from the default AWS configuration chain.
func NewClient(ctx context.Context, cfg ClientConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// Store implements core.ObjectStore on S3.
type Store struct {
	api    API
	logger *slog.Logger
}

var _ core.ObjectStore = (*Store)(nil)

// NewStore wraps api.
func NewStore(api API, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{api: api, logger: logger.With("component", "s3store")}
}

// GetObject downloads the object at loc.
func (s *Store) GetObject(ctx context.Context, loc model.ObjectLocation) ([]byte, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		return nil, mapNotFound(err, loc)
	}
	defer func() {
		if cerr := out.Body.Close(); cerr != nil {
			s.logger.WarnContext(ctx, "close object body", "location", loc.String(), "error", cerr)
		}
	}()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", loc, err)
	}
	return body, nil
}

// PutObject uploads req.Body to req.Location.
func (s *Store) PutObject(ctx context.Context, req model.PutObjectRequest) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(req.Location.Bucket),
		Key:    aws.String(req.Location.Key),
		Body:   bytes.NewReader(req.Body),
	}
	if req.ContentType != "" {
		in.ContentType = aws.String(req.ContentType)
	}
	if _, err := s.api.PutObject(ctx, in); err != nil {
		return fmt.Errorf("put %s: %w", req.Location, err)
	}
	return nil
}

// CopyObject performs a server-side copy. An existing destination is overwritten.
func (s *Store) CopyObject(ctx context.Context, req model.CopyObjectRequest) error {
	_, err := s.api.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(req.Destination.Bucket),
		Key:        aws.String(req.Destination.Key),
		CopySource: aws.String(copySource(req.Source)),
	})
	if err != nil {
		return fmt.Errorf("copy %s to %s: %w", req.Source, req.Destination, mapNotFound(err, req.Source))
	}
	return nil
}

// HeadObject returns the object's headers and user metadata.
func (s *Store) HeadObject(ctx context.Context, loc model.ObjectLocation) (*model.ObjectMetadata, error) {
	out, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		return nil, mapNotFound(err, loc)
	}
	return &model.ObjectMetadata{
		ContentType:  aws.ToString(out.ContentType),
		Size:         aws.ToInt64(out.ContentLength),
		LastModified: aws.ToTime(out.LastModified),
		Metadata:     out.Metadata,
	}, nil
}

// ListObjects returns one page of a ListObjectsV2 listing.
func (s *Store) ListObjects(ctx context.Context, req model.ListObjectsRequest) (*model.ObjectPage, error) {
	in := &s3.ListObjectsV2Input{
		Bucket: aws.String(req.Bucket),
		Prefix: aws.String(req.Prefix),
	}
	if req.MaxKeys > 0 {
		in.MaxKeys = aws.Int32(int32(min(req.MaxKeys, 1000)))
	}
	if req.ContinuationToken != "" {
		in.ContinuationToken = aws.String(req.ContinuationToken)
	}

	out, err := s.api.ListObjectsV2(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("list s3://%s/%s: %w", req.Bucket, req.Prefix, err)
	}

	page := &model.ObjectPage{
		Bucket:                req.Bucket,
		Prefix:                req.Prefix,
		Items:                 make([]model.ObjectSummary, 0, len(out.Contents)),
		IsTruncated:           aws.ToBool(out.IsTruncated),
		NextContinuationToken: out.NextContinuationToken,
	}
	for _, obj := range out.Contents {
		page.Items = append(page.Items, model.ObjectSummary{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
		})
	}
	return page, nil
}

// copySource renders the URL-encoded "bucket/key" expected by CopyObject.
func copySource(loc model.ObjectLocation) string {
	return (&url.URL{Path: loc.Bucket + "/" + loc.Key}).EscapedPath()
}

func mapNotFound(err error, loc model.ObjectLocation) error {
	var (
		noKey    *types.NoSuchKey
		notFound *types.NotFound
	)
	if errors.As(err, &noKey) || errors.As(err, &notFound) {
		return fmt.Errorf("%w: %s: %w", core.ErrObjectNotFound, loc, err)
	}
	return fmt.Errorf("%s: %w", loc, err)
}
