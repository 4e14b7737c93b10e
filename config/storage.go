package config

import (
	"fmt"
	"strings"
)

// StorageConfig contains object store and bucket configuration.
type StorageConfig struct {
	Region string `env:"S3_REGION" envDefault:"us-east-1"`
	// Endpoint overrides the S3 endpoint (MinIO, LocalStack). Empty uses AWS.
	Endpoint        string `env:"S3_ENDPOINT"`
	UsePathStyle    bool   `env:"S3_USE_PATH_STYLE"    envDefault:"false"`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`

	LandingBucket string `env:"LANDING_BUCKET"`
	TargetBucket  string `env:"TARGET_BUCKET"`
}

// Sanitize trims bucket and endpoint values.
func (s *StorageConfig) Sanitize() {
	s.Endpoint = strings.TrimSpace(s.Endpoint)
	s.LandingBucket = strings.TrimSpace(s.LandingBucket)
	s.TargetBucket = strings.TrimSpace(s.TargetBucket)
	if s.Region = strings.TrimSpace(s.Region); s.Region == "" {
		s.Region = "us-east-1"
	}
}

// PartnerConfigBackend selects where the partner configuration document lives.
type PartnerConfigBackend string

const (
	// PartnerConfigBackendS3 stores the document as an object in CONFIG_BUCKET.
	PartnerConfigBackendS3 PartnerConfigBackend = "s3"
	// PartnerConfigBackendRedis stores the document under a Redis key.
	PartnerConfigBackendRedis PartnerConfigBackend = "redis"
)

// PartnerConfigStoreConfig configures the partner configuration document store.
type PartnerConfigStoreConfig struct {
	Backend  PartnerConfigBackend `env:"PARTNER_CONFIG_BACKEND"   envDefault:"s3"`
	Bucket   string               `env:"CONFIG_BUCKET"`
	Key      string               `env:"CONFIG_KEY"               envDefault:"partners.json"`
	RedisKey string               `env:"PARTNER_CONFIG_REDIS_KEY" envDefault:"bayflow:config:partners.json"`
}

// Sanitize normalises the backend name and key.
func (c *PartnerConfigStoreConfig) Sanitize() {
	c.Backend = PartnerConfigBackend(strings.ToLower(strings.TrimSpace(string(c.Backend))))
	if c.Backend == "" {
		c.Backend = PartnerConfigBackendS3
	}
	c.Bucket = strings.TrimSpace(c.Bucket)
	if c.Key = strings.TrimSpace(c.Key); c.Key == "" {
		c.Key = "partners.json"
	}
}

// Validate checks the backend has what it needs.
func (c *PartnerConfigStoreConfig) Validate() error {
	switch c.Backend {
	case PartnerConfigBackendS3:
		if c.Bucket == "" {
			return fmt.Errorf("CONFIG_BUCKET is required when PARTNER_CONFIG_BACKEND=%s", c.Backend)
		}
	case PartnerConfigBackendRedis:
		if strings.TrimSpace(c.RedisKey) == "" {
			return fmt.Errorf("PARTNER_CONFIG_REDIS_KEY is required when PARTNER_CONFIG_BACKEND=%s", c.Backend)
		}
	default:
		return fmt.Errorf("invalid PARTNER_CONFIG_BACKEND %q (valid options: s3, redis)", c.Backend)
	}
	return nil
}
