package testutil

import (
	"encoding/json"

	"github.com/target/bayflow/internal/domain/model"
)

// PartnerConfigBuilder provides a fluent interface for building partner configuration documents.
type PartnerConfigBuilder struct {
	cfg model.PartnerConfig
}

// NewPartnerConfig starts an empty partner configuration.
func NewPartnerConfig() *PartnerConfigBuilder {
	return &PartnerConfigBuilder{cfg: model.PartnerConfig{Partners: map[string]model.Partner{}}}
}

// WithFlow adds tenant/flowID routed to the given prefixes.
func (b *PartnerConfigBuilder) WithFlow(tenant, flowID, targetPrefix, archivePrefix string) *PartnerConfigBuilder {
	p, ok := b.cfg.Partners[tenant]
	if !ok || p.Flows == nil {
		p = model.Partner{Flows: map[string]model.Flow{}}
	}
	p.Flows[flowID] = model.Flow{TargetPrefix: targetPrefix, ArchivePrefix: archivePrefix}
	b.cfg.Partners[tenant] = p
	return b
}

// WithArchiveEnabled sets defaults.archive_enabled.
func (b *PartnerConfigBuilder) WithArchiveEnabled(enabled bool) *PartnerConfigBuilder {
	b.cfg.Defaults.ArchiveEnabled = BoolPtr(enabled)
	return b
}

// Build returns the configuration.
func (b *PartnerConfigBuilder) Build() *model.PartnerConfig {
	cfg := b.cfg
	return &cfg
}

// JSON returns the configuration as a stored document.
func (b *PartnerConfigBuilder) JSON() []byte {
	raw, err := json.Marshal(b.cfg)
	if err != nil {
		panic(err)
	}
	return raw
}

// AcmePartnerConfig is the single-tenant configuration used across router scenarios:
// acme/inbound-v1 routed to processed/acme/ and archived under archive/acme/.
func AcmePartnerConfig() *PartnerConfigBuilder {
	return NewPartnerConfig().WithFlow("acme", "inbound-v1", "processed/acme/", "archive/acme/")
}

// NewFileJobRequest returns a valid create request for tests.
func NewFileJobRequest(jobID, fileName string) *model.CreateFileJobRequest {
	return &model.CreateFileJobRequest{
		JobID:        jobID,
		FileName:     fileName,
		Tenant:       "acme",
		FlowID:       "inbound-v1",
		SourceBucket: "landing",
		TargetBucket: "target",
	}
}
