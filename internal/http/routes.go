package httpx

import (
	"log/slog"
	"net/http"

	"github.com/target/bayflow/internal/core"
	"github.com/target/bayflow/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Jobs     *service.JobQueryService
	Partners *service.PartnerConfigService
	Buckets  *service.BucketService
	// Optional: event ingress is only mounted when an enqueuer is configured.
	Enqueuer     core.FileArrivalEnqueuer
	HealthChecks map[string]HealthCheck
	CORSOrigin   string
	Logger       *slog.Logger
}

// NewRouter creates the API handler. Nil services leave their routes unmounted.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	if services.Jobs != nil {
		h := &JobHandlers{Svc: services.Jobs}
		mux.HandleFunc("GET /jobs", h.List)
		mux.HandleFunc("GET /jobs/{job_id}", h.Get)
	}
	if services.Partners != nil {
		h := &PartnerHandlers{Svc: services.Partners}
		mux.HandleFunc("GET /partners", h.Get)
		mux.HandleFunc("PUT /partners", h.Put)
	}
	if services.Buckets != nil {
		h := &BucketHandlers{Svc: services.Buckets}
		mux.HandleFunc("GET /buckets/{kind}/objects", h.ListObjects)
	}
	if services.Enqueuer != nil {
		h := &EventHandlers{Enqueuer: services.Enqueuer}
		mux.HandleFunc("POST /events/file-arrival", h.FileArrival)
	}

	health := &HealthHandlers{Checks: services.HealthChecks}
	mux.HandleFunc("GET /healthz", health.Health)
	mux.HandleFunc("HEAD /healthz", health.Health)
	mux.HandleFunc("/", notFound)

	return CORS(services.CORSOrigin)(mux)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]string{
		"message": "Not Found",
		"path":    r.URL.Path,
		"method":  r.Method,
	})
}
