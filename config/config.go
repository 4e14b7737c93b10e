// Package config defines the environment-driven configuration for the BayFlow binaries.
package config

import (
	"errors"
	"fmt"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - database.go: Postgres tracking store and Redis
//   - http.go: HTTP server configuration
//   - storage.go: object store, buckets and partner configuration storage
//   - router.go: flow classification, notifications topic and queue
//   - services.go: service mode configuration
type AppConfig struct {
	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Object store and partner configuration storage
	Storage       StorageConfig
	PartnerConfig PartnerConfigStoreConfig

	// Router and queue configuration
	Router RouterConfig
	Queue  QueueConfig

	// Service mode configuration
	Services string `env:"SERVICES" envDefault:"http,router-worker"`

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Storage.Sanitize()
	c.PartnerConfig.Sanitize()
	c.Router.Sanitize()
	c.Queue.Sanitize()
	c.Observability.Sanitize()
}

// Validate reports settings the enabled services cannot run without.
func (c *AppConfig) Validate() error {
	services, err := c.GetEnabledServices()
	if err != nil {
		return err
	}

	var errs []error
	if err := c.PartnerConfig.Validate(); err != nil {
		errs = append(errs, err)
	}
	if services[ServiceModeRouterWorker] && c.Storage.TargetBucket == "" {
		errs = append(errs, errors.New("TARGET_BUCKET is required for the router-worker service"))
	}
	if err := c.Router.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// GetEnabledServices returns the enabled services based on the Services field.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsHTTPServerEnabled returns true if the HTTP server service is enabled.
func (c *AppConfig) IsHTTPServerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeHTTP]
}

// IsRouterWorkerEnabled returns true if the queue worker service is enabled.
func (c *AppConfig) IsRouterWorkerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeRouterWorker]
}
