package routing

import (
	"github.com/target/bayflow/internal/domain/model"
	apperrors "github.com/target/bayflow/internal/errors"
)

// Rule is the routing rule for one tenant flow.
type Rule struct {
	Tenant         string
	FlowID         string
	TargetPrefix   string
	ArchivePrefix  string
	ArchiveEnabled bool
}

// TargetKey returns the destination key for fileName in the target bucket.
func (r Rule) TargetKey(fileName string) string {
	return r.TargetPrefix + fileName
}

// ArchiveKey returns the archive key for fileName in the landing bucket.
func (r Rule) ArchiveKey(fileName string) string {
	return r.ArchivePrefix + fileName
}

// Resolve looks up partners[tenant].flows[flowID]. A missing tenant or flow is a
// configuration lookup error.
func Resolve(cfg *model.PartnerConfig, tenant, flowID string) (Rule, error) {
	if cfg == nil {
		return Rule{}, apperrors.ConfigLookupf("no partner configuration loaded")
	}
	partner, ok := cfg.Partners[tenant]
	if !ok {
		return Rule{}, apperrors.ConfigLookupf("tenant %s not found in partner configuration", tenant)
	}
	flow, ok := partner.Flows[flowID]
	if !ok {
		return Rule{}, apperrors.ConfigLookupf("flow %s not configured for tenant %s", flowID, tenant)
	}
	return Rule{
		Tenant:         tenant,
		FlowID:         flowID,
		TargetPrefix:   flow.TargetPrefix,
		ArchivePrefix:  flow.ArchivePrefix,
		ArchiveEnabled: cfg.Defaults.ArchiveEnabledOrDefault(),
	}, nil
}

// Plan is the complete set of copies for one file.
type Plan struct {
	Tenant         string
	FlowID         string
	FileName       string
	Source         model.ObjectLocation
	Target         model.ObjectLocation
	ArchiveEnabled bool
	Archive        model.ObjectLocation
}

// NewPlan applies rule to the arriving object. The archive copy lives in the landing bucket.
func NewPlan(rule Rule, source model.ObjectLocation, fileName, targetBucket string) Plan {
	return Plan{
		Tenant:         rule.Tenant,
		FlowID:         rule.FlowID,
		FileName:       fileName,
		Source:         source,
		Target:         model.ObjectLocation{Bucket: targetBucket, Key: rule.TargetKey(fileName)},
		ArchiveEnabled: rule.ArchiveEnabled,
		Archive:        model.ObjectLocation{Bucket: source.Bucket, Key: rule.ArchiveKey(fileName)},
	}
}
