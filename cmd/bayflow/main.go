package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/target/bayflow/config"
	"github.com/target/bayflow/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger(slog.LevelInfo)
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if level := cfg.Observability.SlogLevel(); level != slog.LevelInfo {
		logger = bootstrap.InitLogger(level)
	}

	// Log startup info
	logStartupInfo(ctx, logger, &cfg)

	cfgPtr := &cfg

	// Validate configuration
	if err = bootstrap.ValidateServiceConfig(cfgPtr); err != nil {
		return err
	}

	// Initialize infrastructure
	infra, err := bootstrap.ConnectInfrastructure(ctx, cfgPtr, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := infra.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close infrastructure failed", "error", cerr)
		}
	}()

	// Run migrations if enabled
	if cfg.Postgres.RunMigrationsOnStart {
		if err = bootstrap.RunMigrations(ctx, infra.DB, logger); err != nil {
			return err
		}
	} else {
		logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
	}

	// Initialize and run services
	deps, err := bootstrap.NewServiceDeps(cfgPtr, infra, logger)
	if err != nil {
		return err
	}
	services, err := bootstrap.NewServices(deps)
	if err != nil {
		return err
	}

	return bootstrap.RunServicesWithShutdown(ctx, &bootstrap.ServiceOrchestrationConfig{
		Config:   cfgPtr,
		Services: services,
		Infra:    infra,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting bayflow service",
		"db_host", cfg.Postgres.Host,
		"db_port", cfg.Postgres.Port,
		"db_name", cfg.Postgres.Name,
		"landing_bucket", cfg.Storage.LandingBucket,
		"target_bucket", cfg.Storage.TargetBucket,
		"partner_config_backend", cfg.PartnerConfig.Backend,
		"flow_classifier", cfg.Router.FlowClassifier,
		"enabled_services", bootstrap.GetEnabledServices(cfg))
}
