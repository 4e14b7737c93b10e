package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		tenant   string
		fileName string
	}{
		{name: "standard layout", key: "inbound/acme/inbox/orders.csv", tenant: "acme", fileName: "orders.csv"},
		{name: "three segments", key: "inbound/acme/orders.csv", tenant: "acme", fileName: "orders.csv"},
		{name: "two segments", key: "inbound/orders.csv", tenant: UnknownTenant, fileName: "orders.csv"},
		{name: "bare file", key: "orders.csv", tenant: UnknownTenant, fileName: "orders.csv"},
		{name: "empty tenant segment", key: "inbound//x.csv", tenant: "", fileName: "x.csv"},
		{name: "trailing slash", key: "inbound/acme/inbox/", tenant: "acme", fileName: ""},
		{name: "ghost tenant", key: "inbound/ghost/inbox/x.csv", tenant: "ghost", fileName: "x.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseKey(tt.key)
			assert.Equal(t, tt.tenant, got.Tenant)
			assert.Equal(t, tt.fileName, got.FileName)
		})
	}
}

func TestParsedKey_Segment(t *testing.T) {
	p := ParseKey("inbound/acme/inbox/f.csv")
	assert.Equal(t, "inbound", p.Segment(0))
	assert.Equal(t, "inbox", p.Segment(2))
	assert.Empty(t, p.Segment(4))
	assert.Empty(t, p.Segment(-1))
}
