package config

import "strings"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// CORSOrigin is sent as Access-Control-Allow-Origin on every API response.
	CORSOrigin string `env:"HTTP_CORS_ORIGIN" envDefault:"*"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.Addr = strings.TrimSpace(h.Addr)
	if h.Addr == "" {
		h.Addr = ":8080"
	}
	if h.CORSOrigin = strings.TrimSpace(h.CORSOrigin); h.CORSOrigin == "" {
		h.CORSOrigin = "*"
	}
}
