package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/target/bayflow/internal/domain/model"
	"github.com/target/bayflow/internal/service"
)

const maxPartnerConfigBytes = 1 << 20

// PartnerHandlers serves the partner configuration document.
type PartnerHandlers struct {
	Svc *service.PartnerConfigService
}

// Get handles GET /partners.
func (h *PartnerHandlers) Get(w http.ResponseWriter, r *http.Request) {
	raw, err := h.Svc.Raw(r.Context())
	if err != nil {
		WriteServiceError(w, err, "Error reading "+model.PartnerConfigKey)
		return
	}
	if !json.Valid(raw) {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "internal",
			Err:     errors.New("Error reading " + model.PartnerConfigKey),
		})
		return
	}
	WriteRawJSON(w, http.StatusOK, raw)
}

// Put handles PUT /partners, replacing the document after strict validation.
func (h *PartnerHandlers) Put(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPartnerConfigBytes))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusRequestEntityTooLarge, ErrCode: "body_too_large", Err: err})
		return
	}
	if _, err := h.Svc.Replace(r.Context(), raw); err != nil {
		WriteServiceError(w, err, "Error writing "+model.PartnerConfigKey)
		return
	}
	WriteMessage(w, http.StatusOK, model.PartnerConfigKey+" updated")
}
