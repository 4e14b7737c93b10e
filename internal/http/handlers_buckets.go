package httpx

import (
	"net/http"

	"github.com/target/bayflow/internal/service"
)

// BucketHandlers lists landing and target bucket contents.
type BucketHandlers struct {
	Svc *service.BucketService
}

// ListObjects handles GET /buckets/{kind}/objects?prefix=&maxKeys=&continuationToken=.
func (h *BucketHandlers) ListObjects(w http.ResponseWriter, r *http.Request) {
	page, err := h.Svc.List(r.Context(), service.ListParams{
		Kind:              r.PathValue("kind"),
		Prefix:            r.URL.Query().Get("prefix"),
		MaxKeys:           parseIntQuery(r, "maxKeys", service.DefaultBucketPageSize),
		ContinuationToken: r.URL.Query().Get("continuationToken"),
	})
	if err != nil {
		WriteServiceError(w, err, "Error listing objects")
		return
	}
	WriteJSON(w, http.StatusOK, page)
}
