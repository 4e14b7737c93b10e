package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/bayflow/config"
	"github.com/target/bayflow/internal/adapters/s3store"
	"github.com/target/bayflow/internal/core"
	"github.com/target/bayflow/internal/data"
)

// ConnectObjectStore builds the S3-backed object store.
func ConnectObjectStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*s3store.Store, error) {
	client, err := s3store.NewClient(ctx, s3store.ClientConfig{
		Region:          cfg.Region,
		Endpoint:        cfg.Endpoint,
		UsePathStyle:    cfg.UsePathStyle,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	if logger != nil {
		logger.Info("object store configured",
			"region", cfg.Region,
			"endpoint", cfg.Endpoint,
			"landing_bucket", cfg.LandingBucket,
			"target_bucket", cfg.TargetBucket,
		)
	}
	return s3store.NewStore(client, logger), nil
}

// PartnerConfigStoreDeps groups the backends a partner configuration store can use.
type PartnerConfigStoreDeps struct {
	Config  config.PartnerConfigStoreConfig
	Objects core.ObjectStore
	Redis   redis.UniversalClient
}

// NewPartnerConfigStore selects the partner configuration backend named by the config.
//
//nolint:ireturn // the backend is chosen at runtime.
func NewPartnerConfigStore(deps PartnerConfigStoreDeps) (core.PartnerConfigStore, error) {
	switch deps.Config.Backend {
	case config.PartnerConfigBackendRedis:
		if deps.Redis == nil {
			return nil, errors.New("redis client is required for the redis partner config backend")
		}
		return data.NewRedisPartnerConfigStore(deps.Redis, deps.Config.RedisKey), nil
	case config.PartnerConfigBackendS3, "":
		if deps.Objects == nil {
			return nil, errors.New("object store is required for the s3 partner config backend")
		}
		return s3store.NewPartnerConfigStore(deps.Objects, deps.Config.Bucket, deps.Config.Key)
	default:
		return nil, fmt.Errorf("unknown partner config backend %q", deps.Config.Backend)
	}
}
