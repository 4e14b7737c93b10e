// Package routing holds the pure routing rules: landing key parsing, flow classification and
// rule resolution against partner configuration.
package routing

import "strings"

// UnknownTenant is reported for keys too short to carry a tenant segment.
const UnknownTenant = "unknown"

// ParsedKey is the result of splitting a landing object key.
type ParsedKey struct {
	Tenant   string
	FileName string
	Segments []string
}

// ParseKey splits key on '/'. Keys with more than two segments carry the tenant in segment 1
// (e.g. "inbound/acme/inbox/f.csv"); shorter keys yield UnknownTenant. The file name is always
// the final segment. No validation is performed.
func ParseKey(key string) ParsedKey {
	segments := strings.Split(key, "/")
	tenant := UnknownTenant
	if len(segments) > 2 {
		tenant = segments[1]
	}
	return ParsedKey{
		Tenant:   tenant,
		FileName: segments[len(segments)-1],
		Segments: segments,
	}
}

// Segment returns segment i, or "" when the key is too short.
func (p ParsedKey) Segment(i int) string {
	if i < 0 || i >= len(p.Segments) {
		return ""
	}
	return p.Segments[i]
}
