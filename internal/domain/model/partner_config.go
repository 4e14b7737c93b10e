package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	apperrors "github.com/target/bayflow/internal/errors"
)

// PartnerConfigKey is the well-known key the partner configuration document is stored under.
const PartnerConfigKey = "partners.json"

// PartnerConfig is the routing configuration document: tenants, their flows, and global defaults.
type PartnerConfig struct {
	Partners map[string]Partner `json:"partners"`
	Defaults Defaults           `json:"defaults"`
}

// Partner holds the flows configured for one tenant.
type Partner struct {
	Flows map[string]Flow `json:"flows"`
}

// Flow maps a tenant's files to target and archive prefixes.
type Flow struct {
	TargetPrefix  string `json:"target_prefix"`
	ArchivePrefix string `json:"archive_prefix"`
}

// Defaults holds cross-tenant settings.
type Defaults struct {
	ArchiveEnabled *bool `json:"archive_enabled,omitempty"`
}

// ArchiveEnabledOrDefault returns defaults.archive_enabled, true when absent.
func (d Defaults) ArchiveEnabledOrDefault() bool {
	if d.ArchiveEnabled == nil {
		return true
	}
	return *d.ArchiveEnabled
}

// ParsePartnerConfig decodes a stored document leniently: the top level must be a JSON object,
// everything else is checked at lookup time.
func ParsePartnerConfig(raw []byte) (*PartnerConfig, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("partner configuration must be a JSON object")
	}
	var cfg PartnerConfig
	if err := json.Unmarshal(trimmed, &cfg); err != nil {
		return nil, fmt.Errorf("decode partner configuration: %w", err)
	}
	return &cfg, nil
}

// DecodePartnerConfigStrict decodes and validates a document submitted for storage.
// Unknown fields are rejected and every tenant and flow must be complete.
func DecodePartnerConfigStrict(raw []byte) (*PartnerConfig, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, apperrors.Validation("partner configuration must be a JSON object")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()

	var cfg PartnerConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid partner configuration")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, apperrors.Validation("partner configuration must contain a single JSON object")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the nested structure required for routing. Errors carry the JSON path of the
// offending field.
func (c *PartnerConfig) Validate() error {
	if c.Partners == nil {
		return apperrors.ValidationField("partners", "partners is required and must be an object")
	}

	for _, tenant := range sortedKeys(c.Partners) {
		base := "partners." + tenant
		if strings.TrimSpace(tenant) == "" {
			return apperrors.ValidationField(base, "tenant name cannot be empty")
		}
		if strings.Contains(tenant, "/") {
			return apperrors.ValidationField(base, "tenant name cannot contain '/'")
		}
		flows := c.Partners[tenant].Flows
		if len(flows) == 0 {
			return apperrors.ValidationField(base+".flows", "flows is required and cannot be empty")
		}
		for _, flowID := range sortedKeys(flows) {
			if err := validateFlow(base+".flows."+flowID, flowID, flows[flowID]); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateFlow(path, flowID string, f Flow) error {
	if strings.TrimSpace(flowID) == "" {
		return apperrors.ValidationField(path, "flow id cannot be empty")
	}
	if strings.TrimSpace(f.TargetPrefix) == "" {
		return apperrors.ValidationField(path+".target_prefix", "target_prefix is required and cannot be empty")
	}
	if strings.TrimSpace(f.ArchivePrefix) == "" {
		return apperrors.ValidationField(path+".archive_prefix", "archive_prefix is required and cannot be empty")
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
