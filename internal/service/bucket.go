package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/target/bayflow/internal/core"
	"github.com/target/bayflow/internal/domain/model"
	apperrors "github.com/target/bayflow/internal/errors"
)

// DefaultBucketPageSize is used when the caller does not pass maxKeys.
const DefaultBucketPageSize = 50

const maxBucketPageSize = 1000

// BucketServiceOptions groups dependencies for BucketService.
type BucketServiceOptions struct {
	Objects       core.ObjectStore // Required
	LandingBucket string
	TargetBucket  string
}

// BucketService lists the landing and target buckets.
type BucketService struct {
	objects core.ObjectStore
	buckets map[model.BucketKind]string
}

// NewBucketService constructs a BucketService.
func NewBucketService(opts BucketServiceOptions) (*BucketService, error) {
	if opts.Objects == nil {
		return nil, errors.New("ObjectStore is required")
	}
	return &BucketService{
		objects: opts.Objects,
		buckets: map[model.BucketKind]string{
			model.BucketKindLanding: opts.LandingBucket,
			model.BucketKindTarget:  opts.TargetBucket,
		},
	}, nil
}

// ListParams selects a page of a bucket listing.
type ListParams struct {
	Kind              string
	Prefix            string
	MaxKeys           int
	ContinuationToken string
}

// List returns one page of the bucket named by params.Kind.
func (s *BucketService) List(ctx context.Context, params ListParams) (*model.ObjectPage, error) {
	kind, err := model.ParseBucketKind(params.Kind)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	}
	bucket := s.buckets[kind]
	if bucket == "" {
		return nil, apperrors.Wrapf(errors.New("bucket not configured"), apperrors.ErrCodeInternal,
			"Bucket for kind '%s' is not configured", kind)
	}

	maxKeys := params.MaxKeys
	if maxKeys <= 0 {
		maxKeys = DefaultBucketPageSize
	}
	maxKeys = min(maxKeys, maxBucketPageSize)

	page, err := s.objects.ListObjects(ctx, model.ListObjectsRequest{
		Bucket:            bucket,
		Prefix:            params.Prefix,
		MaxKeys:           maxKeys,
		ContinuationToken: params.ContinuationToken,
	})
	if err != nil {
		return nil, fmt.Errorf("list %s objects: %w", kind, err)
	}
	return page, nil
}
