package httpx

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/target/bayflow/internal/core"
	"github.com/target/bayflow/internal/domain/model"
)

// EventHandlers accepts file-arrival events for asynchronous routing.
type EventHandlers struct {
	Enqueuer core.FileArrivalEnqueuer
	// NewID generates execution ids for events submitted without one. Defaults to uuid.NewString.
	NewID func() string
}

type fileArrivalAccepted struct {
	TaskID      string `json:"task_id"`
	ExecutionID string `json:"execution_id"`
}

// FileArrival handles POST /events/file-arrival.
func (h *EventHandlers) FileArrival(w http.ResponseWriter, r *http.Request) {
	var arrival model.FileArrival
	if !DecodeJSON(w, r, &arrival) {
		return
	}
	if err := arrival.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation", Err: err})
		return
	}
	if arrival.ExecutionID == "" {
		newID := h.NewID
		if newID == nil {
			newID = uuid.NewString
		}
		arrival.ExecutionID = newID()
	}

	taskID, err := h.Enqueuer.EnqueueFileArrival(r.Context(), arrival)
	if err != nil {
		WriteServiceError(w, err, "Error queueing file arrival")
		return
	}
	WriteJSON(w, http.StatusAccepted, fileArrivalAccepted{TaskID: taskID, ExecutionID: arrival.ExecutionID})
}
