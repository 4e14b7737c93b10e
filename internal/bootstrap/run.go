package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/target/bayflow/config"
	"github.com/target/bayflow/internal/adapters/jobrunner"
	httpx "github.com/target/bayflow/internal/http"
)

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Infra    *Infrastructure
	Logger   *slog.Logger
}

// RunServicesWithShutdown runs the enabled services until SIGINT/SIGTERM or until one of
// them fails, then stops the rest.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisOpt, err := QueueRedisOpt(cfg.Config.Redis)
	if err != nil {
		return fmt.Errorf("queue redis options: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if enabled[config.ServiceModeHTTP] {
		enqueuer := jobrunner.NewEnqueuer(redisOpt, jobrunner.EnqueuerOptions{
			Queue:    cfg.Config.Queue.Name,
			MaxRetry: cfg.Config.Queue.MaxRetry,
		})
		defer func() {
			if cerr := enqueuer.Close(); cerr != nil {
				logger.Warn("failed to close queue client", "error", cerr)
			}
		}()

		server := NewHTTPServer(&HTTPServerConfig{
			Config:       cfg.Config,
			Services:     cfg.Services,
			Enqueuer:     enqueuer,
			HealthChecks: healthChecks(cfg.Infra),
			Logger:       logger,
		})
		g.Go(func() error {
			if err := ServeHTTP(gctx, server, logger); err != nil {
				return fmt.Errorf("http server failed: %w", err)
			}
			return nil
		})
	}

	if enabled[config.ServiceModeRouterWorker] {
		runner, err := jobrunner.NewRunner(jobrunner.RunnerOptions{
			Redis:       redisOpt,
			Router:      cfg.Services.Router,
			Concurrency: cfg.Config.Queue.Concurrency,
			Queue:       cfg.Config.Queue.Name,
			Logger:      logger,
		})
		if err != nil {
			return fmt.Errorf("create router worker: %w", err)
		}
		g.Go(func() error {
			if err := runner.Run(gctx); err != nil {
				return fmt.Errorf("router worker failed: %w", err)
			}
			return nil
		})
	}

	logger.Info("services started", "services", GetEnabledServices(cfg.Config))
	err = g.Wait()
	logger.Info("services stopped")
	return err
}

func healthChecks(infra *Infrastructure) map[string]httpx.HealthCheck {
	checks := make(map[string]httpx.HealthCheck)
	if infra == nil {
		return checks
	}
	if infra.DB != nil {
		checks["postgres"] = infra.DB.PingContext
	}
	if infra.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return infra.Redis.Ping(ctx).Err()
		}
	}
	return checks
}
