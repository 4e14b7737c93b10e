package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/bayflow/config"
	redisadapter "github.com/target/bayflow/internal/adapters/redis"
	"github.com/target/bayflow/internal/adapters/s3store"
	"github.com/target/bayflow/internal/core"
	"github.com/target/bayflow/internal/data"
	"github.com/target/bayflow/internal/domain/routing"
	"github.com/target/bayflow/internal/observability/notify/slack"
	"github.com/target/bayflow/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Configs  *service.PartnerConfigService
	Records  *service.JobRecordService
	Files    *service.FileRouterService
	Notifier *service.NotifierService
	Router   *service.RouterService
	Jobs     *service.JobQueryService
	Buckets  *service.BucketService
}

// ServiceDeps groups the adapters services are built on.
type ServiceDeps struct {
	Config      *config.AppConfig
	Jobs        core.FileJobRepository
	Objects     core.ObjectStore
	ConfigStore core.PartnerConfigStore
	Broadcaster core.Broadcaster
	Logger      *slog.Logger
}

// Infrastructure holds the live connections opened at startup.
type Infrastructure struct {
	DB      *sql.DB
	Redis   redis.UniversalClient
	Objects *s3store.Store
}

// ConnectInfrastructure opens the tracking store, Redis and the object store.
func ConnectInfrastructure(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*Infrastructure, error) {
	dbCfg := DatabaseConfig{DBConfig: cfg.Postgres, RedisConfig: cfg.Redis, Logger: logger}

	db, err := ConnectDB(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	redisClient, err := ConnectRedis(dbCfg)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("connect redis: %w", err), db.Close())
	}
	objects, err := ConnectObjectStore(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, errors.Join(err, db.Close(), redisClient.Close())
	}

	return &Infrastructure{DB: db, Redis: redisClient, Objects: objects}, nil
}

// Close releases the database and Redis connections.
func (i *Infrastructure) Close() error {
	if i == nil {
		return nil
	}
	var errs []error
	if i.DB != nil {
		errs = append(errs, i.DB.Close())
	}
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	return errors.Join(errs...)
}

// NewServiceDeps builds the data adapters on top of live infrastructure.
func NewServiceDeps(cfg *config.AppConfig, infra *Infrastructure, logger *slog.Logger) (*ServiceDeps, error) {
	configStore, err := NewPartnerConfigStore(PartnerConfigStoreDeps{
		Config:  cfg.PartnerConfig,
		Objects: infra.Objects,
		Redis:   infra.Redis,
	})
	if err != nil {
		return nil, err
	}
	broadcaster, err := redisadapter.NewBroadcaster(redisadapter.BroadcasterOptions{
		Client: infra.Redis,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	return &ServiceDeps{
		Config:      cfg,
		Jobs:        data.NewFileJobRepo(infra.DB, data.FileJobRepoConfig{Logger: logger}),
		Objects:     infra.Objects,
		ConfigStore: configStore,
		Broadcaster: broadcaster,
		Logger:      logger,
	}, nil
}

// NewServices wires the domain services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service dependencies are required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	configs, err := service.NewPartnerConfigService(service.PartnerConfigServiceOptions{
		Store:  deps.ConfigStore,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}
	records, err := service.NewJobRecordService(service.JobRecordServiceOptions{Repo: deps.Jobs, Logger: logger})
	if err != nil {
		return ServiceContainer{}, err
	}
	files, err := service.NewFileRouterService(deps.Objects, logger)
	if err != nil {
		return ServiceContainer{}, err
	}
	notifier, err := service.NewNotifierService(service.NotifierServiceOptions{
		Broadcaster: deps.Broadcaster,
		Topic:       cfg.Router.NotifyTopic,
		Sinks:       buildNotificationSinks(logger, cfg.Observability.Notifications),
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}
	classifier, err := routing.NewClassifier(routing.ClassifierOptions{
		Kind:       cfg.Router.FlowClassifier,
		FlowID:     cfg.Router.FlowID,
		Segment:    cfg.Router.FlowSegment,
		Expression: cfg.Router.FlowExpression,
		Objects:    deps.Objects,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build flow classifier: %w", err)
	}
	router, err := service.NewRouterService(service.RouterServiceOptions{
		Configs:      configs,
		Records:      records,
		Files:        files,
		Notifier:     notifier,
		TargetBucket: cfg.Storage.TargetBucket,
		Classifier:   classifier,
		Logger:       logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}
	jobs, err := service.NewJobQueryService(service.JobQueryServiceOptions{
		Repo:          deps.Jobs,
		LandingBucket: cfg.Storage.LandingBucket,
		TargetBucket:  cfg.Storage.TargetBucket,
	})
	if err != nil {
		return ServiceContainer{}, err
	}
	buckets, err := service.NewBucketService(service.BucketServiceOptions{
		Objects:       deps.Objects,
		LandingBucket: cfg.Storage.LandingBucket,
		TargetBucket:  cfg.Storage.TargetBucket,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	return ServiceContainer{
		Configs:  configs,
		Records:  records,
		Files:    files,
		Notifier: notifier,
		Router:   router,
		Jobs:     jobs,
		Buckets:  buckets,
	}, nil
}

// buildNotificationSinks configures the optional secondary notification sinks.
func buildNotificationSinks(
	logger *slog.Logger,
	cfg config.ObservabilityNotificationsConfig,
) []service.SinkRegistration {
	if !cfg.Enabled {
		return nil
	}

	var sinks []service.SinkRegistration
	if cfg.Slack.Enabled {
		client, err := slack.NewClient(slack.Config{
			WebhookURL:   cfg.Slack.WebhookURL,
			Channel:      cfg.Slack.Channel,
			Username:     cfg.Slack.Username,
			Timeout:      cfg.Timeout,
			RetryLimit:   cfg.RetryLimit,
			JobURLPrefix: cfg.Slack.JobURLPrefix,
			FailuresOnly: cfg.Slack.FailuresOnly,
		})
		if err != nil {
			logger.Error("failed to initialise slack notifier", "error", err)
		} else {
			sinks = append(sinks, service.SinkRegistration{Name: "slack", Sink: client})
		}
	}

	if len(sinks) == 0 {
		logger.Warn("notifications enabled but no sinks configured")
	}
	return sinks
}
