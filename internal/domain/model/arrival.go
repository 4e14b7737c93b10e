package model

import (
	"errors"
	"strings"
)

// UnknownExecutionID is used when the invoker does not supply an execution identifier.
const UnknownExecutionID = "unknown-execution"

// RouteStatusOK is the status reported to the invoker on success.
const RouteStatusOK = "ok"

// FileArrival is the descriptor delivered by the invoker for one object landing in a bucket.
type FileArrival struct {
	Bucket      string `json:"bucket"`
	Key         string `json:"key"`
	ExecutionID string `json:"execution_id,omitempty"`
}

// Validate validates the FileArrival fields.
func (a *FileArrival) Validate() error {
	if strings.TrimSpace(a.Bucket) == "" {
		return errors.New("bucket is required")
	}
	if strings.TrimSpace(a.Key) == "" {
		return errors.New("key is required")
	}
	return nil
}

// JobID returns the execution identifier, falling back to UnknownExecutionID.
func (a *FileArrival) JobID() string {
	if id := strings.TrimSpace(a.ExecutionID); id != "" {
		return id
	}
	return UnknownExecutionID
}

// RouteResult is the success payload returned to the invoker.
type RouteResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
