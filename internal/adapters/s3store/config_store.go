package s3store

import (
	"context"
	"errors"
	"fmt"

	"github.com/target/bayflow/internal/core"
	"github.com/target/bayflow/internal/domain/model"
)

// PartnerConfigStore keeps the partner configuration document as one object.
type PartnerConfigStore struct {
	objects core.ObjectStore
	loc     model.ObjectLocation
}

var _ core.PartnerConfigStore = (*PartnerConfigStore)(nil)

// NewPartnerConfigStore stores the document at bucket/key; an empty key uses partners.json.
func NewPartnerConfigStore(objects core.ObjectStore, bucket, key string) (*PartnerConfigStore, error) {
	if objects == nil {
		return nil, errors.New("object store is required")
	}
	if bucket == "" {
		return nil, errors.New("config bucket is required")
	}
	if key == "" {
		key = model.PartnerConfigKey
	}
	return &PartnerConfigStore{objects: objects, loc: model.ObjectLocation{Bucket: bucket, Key: key}}, nil
}

// Load downloads the document.
func (s *PartnerConfigStore) Load(ctx context.Context) ([]byte, error) {
	raw, err := s.objects.GetObject(ctx, s.loc)
	if err != nil {
		if errors.Is(err, core.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %w", core.ErrPartnerConfigNotFound, err)
		}
		return nil, err
	}
	return raw, nil
}

// Save uploads the document, replacing the previous version.
func (s *PartnerConfigStore) Save(ctx context.Context, raw []byte) error {
	return s.objects.PutObject(ctx, model.PutObjectRequest{
		Location:    s.loc,
		Body:        raw,
		ContentType: "application/json",
	})
}
