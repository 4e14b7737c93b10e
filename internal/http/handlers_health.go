package httpx

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

// HealthHandlers serves liveness and readiness.
type HealthHandlers struct {
	Checks  map[string]HealthCheck
	Timeout time.Duration
}

type healthResponse struct {
	Status string            `json:"status"`
	Failed map[string]string `json:"failed,omitempty"`
}

// Health returns 200 when every check passes and 503 listing the failures otherwise.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	names := make([]string, 0, len(h.Checks))
	for name := range h.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	failed := map[string]string{}
	for _, name := range names {
		if err := h.Checks[name](ctx); err != nil {
			failed[name] = err.Error()
		}
	}

	code, resp := http.StatusOK, healthResponse{Status: "ok"}
	if len(failed) > 0 {
		code, resp = http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Failed: failed}
	}
	if r.Method == http.MethodHead {
		w.WriteHeader(code)
		return
	}
	WriteJSON(w, code, resp)
}
