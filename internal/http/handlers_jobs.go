// Package httpx provides the HTTP query and configuration API for BayFlow.
package httpx

import (
	"net/http"

	"github.com/target/bayflow/internal/domain/model"
	"github.com/target/bayflow/internal/service"
)

const maxJobListLimit = 1000

// JobHandlers provides HTTP handlers for job record queries.
type JobHandlers struct {
	Svc *service.JobQueryService
}

type jobListResponse struct {
	Items []*model.FileJob `json:"items"`
}

// List handles GET /jobs?tenant=&status=&limit=.
func (h *JobHandlers) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Svc.List(r.Context(), model.FileJobListOptions{
		Tenant: queryString(r, "tenant"),
		Status: model.JobStatus(queryString(r, "status")),
		Limit:  ParseLimit(r, service.DefaultJobListLimit, maxJobListLimit),
	})
	if err != nil {
		WriteServiceError(w, err, "Error listing jobs")
		return
	}
	WriteJSON(w, http.StatusOK, jobListResponse{Items: jobs})
}

// Get handles GET /jobs/{job_id}.
func (h *JobHandlers) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.Svc.Get(r.Context(), r.PathValue("job_id"))
	if err != nil {
		WriteServiceError(w, err, "Error reading job")
		return
	}
	WriteJSON(w, http.StatusOK, view)
}
