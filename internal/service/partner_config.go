package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/bayflow/internal/core"
	"github.com/target/bayflow/internal/domain/model"
	apperrors "github.com/target/bayflow/internal/errors"
)

// PartnerConfigServiceOptions groups dependencies for PartnerConfigService.
type PartnerConfigServiceOptions struct {
	Store  core.PartnerConfigStore // Required
	Logger *slog.Logger            // Optional
}

// PartnerConfigService reads and replaces the partner configuration document. Every Load hits
// the store; nothing is cached.
type PartnerConfigService struct {
	store  core.PartnerConfigStore
	logger *slog.Logger
}

// NewPartnerConfigService constructs a PartnerConfigService.
func NewPartnerConfigService(opts PartnerConfigServiceOptions) (*PartnerConfigService, error) {
	if opts.Store == nil {
		return nil, errors.New("PartnerConfigStore is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PartnerConfigService{store: opts.Store, logger: logger.With("component", "partner_config")}, nil
}

// MustNewPartnerConfigService constructs a PartnerConfigService and panics on error.
func MustNewPartnerConfigService(opts PartnerConfigServiceOptions) *PartnerConfigService {
	svc, err := NewPartnerConfigService(opts)
	if err != nil {
		panic(err)
	}
	return svc
}

// Load fetches and parses the current document. A missing document is a configuration lookup
// error since no tenant can be resolved against it.
func (s *PartnerConfigService) Load(ctx context.Context) (*model.PartnerConfig, error) {
	raw, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, core.ErrPartnerConfigNotFound) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeConfigLookup, model.PartnerConfigKey+" not found")
		}
		return nil, fmt.Errorf("load partner configuration: %w", err)
	}
	cfg, err := model.ParsePartnerConfig(raw)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfigLookup, "partner configuration is unreadable")
	}
	return cfg, nil
}

// Raw returns the stored document bytes.
func (s *PartnerConfigService) Raw(ctx context.Context) ([]byte, error) {
	raw, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, core.ErrPartnerConfigNotFound) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeNotFound, model.PartnerConfigKey+" not found")
		}
		return nil, fmt.Errorf("load partner configuration: %w", err)
	}
	return raw, nil
}

// Replace validates raw strictly and stores it indented, replacing the previous document.
func (s *PartnerConfigService) Replace(ctx context.Context, raw []byte) (*model.PartnerConfig, error) {
	cfg, err := model.DecodePartnerConfigStrict(raw)
	if err != nil {
		return nil, err
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, bytes.TrimSpace(raw), "", "  "); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid partner configuration")
	}
	if err := s.store.Save(ctx, pretty.Bytes()); err != nil {
		return nil, fmt.Errorf("save partner configuration: %w", err)
	}
	s.logger.InfoContext(ctx, "partner configuration replaced", "tenants", len(cfg.Partners))
	return cfg, nil
}
