package main

import (
	"errors"
	"fmt"

	"github.com/target/bayflow/config"
	"github.com/target/bayflow/internal/bootstrap"
)

var errRedisNotConfigured = errors.New("redis not configured")

// connectServices opens the full infrastructure and wires the domain services, as the
// service runtime does.
func connectServices(cmdCtx *commandContext) (*bootstrap.Infrastructure, bootstrap.ServiceContainer, error) {
	cfg := &cmdCtx.Config
	infra, err := bootstrap.ConnectInfrastructure(cmdCtx.Ctx, cfg, cmdCtx.Logger)
	if err != nil {
		return nil, bootstrap.ServiceContainer{}, err
	}

	deps, err := bootstrap.NewServiceDeps(cfg, infra, cmdCtx.Logger)
	if err != nil {
		return nil, bootstrap.ServiceContainer{}, errors.Join(err, infra.Close())
	}
	services, err := bootstrap.NewServices(deps)
	if err != nil {
		return nil, bootstrap.ServiceContainer{}, errors.Join(err, infra.Close())
	}
	return infra, services, nil
}

func closeInfra(cmdCtx *commandContext, infra *bootstrap.Infrastructure) {
	if err := infra.Close(); err != nil {
		cmdCtx.Logger.Warn("close infrastructure failed", "error", err)
	}
}

func hasRedisConfig(cfg *config.RedisConfig) bool {
	if cfg == nil {
		return false
	}
	if cfg.UseCluster {
		return len(cfg.ClusterNodes) > 0 || cfg.URI != ""
	}
	if cfg.UseSentinel {
		return len(cfg.SentinelNodes) > 0
	}
	return cfg.URI != ""
}

func requireRedisConfig(cfg *config.RedisConfig) error {
	if !hasRedisConfig(cfg) {
		return fmt.Errorf("%w: set REDIS_URI, REDIS_SENTINEL_NODES or REDIS_CLUSTER_NODES", errRedisNotConfigured)
	}
	return nil
}
