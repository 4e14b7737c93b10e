// Package model defines the data types shared by the router, the tracking store and the query API.
package model

import (
	"errors"
	"strings"
	"time"
)

// JobStatus is the lifecycle state of a routed file.
type JobStatus string

const (
	// JobStatusRunning is written before any object is copied.
	JobStatusRunning JobStatus = "RUNNING"
	// JobStatusSuccess is written after the copy (and archive, if enabled) completed.
	JobStatusSuccess JobStatus = "SUCCESS"
	// JobStatusFailed is written when routing or a later step failed.
	JobStatusFailed JobStatus = "FAILED"
)

// Valid returns true if the JobStatus is one of the known states.
func (s JobStatus) Valid() bool {
	return s == JobStatusRunning || s == JobStatusSuccess || s == JobStatusFailed
}

// Terminal reports whether no further transition is allowed from s.
func (s JobStatus) Terminal() bool {
	return s == JobStatusSuccess || s == JobStatusFailed
}

// FileJob is one tracked execution of the router for a single file.
// It is keyed by (JobID, FileName).
type FileJob struct {
	JobID        string    `json:"job_id"                  db:"job_id"`
	FileName     string    `json:"file_name"               db:"file_name"`
	Tenant       string    `json:"tenant"                  db:"tenant"`
	FlowID       string    `json:"flow_id"                 db:"flow_id"`
	Status       JobStatus `json:"status"                  db:"status"`
	SourceBucket string    `json:"source_bucket"           db:"source_bucket"`
	TargetBucket string    `json:"target_bucket"           db:"target_bucket"`
	ErrorMessage *string   `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time `json:"created_at"              db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"              db:"updated_at"`
}

// CreateFileJobRequest describes the RUNNING record written at the start of an invocation.
type CreateFileJobRequest struct {
	JobID        string
	FileName     string
	Tenant       string
	FlowID       string
	SourceBucket string
	TargetBucket string
}

// Validate validates the CreateFileJobRequest fields.
func (r *CreateFileJobRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.JobID) == "":
		return errors.New("job_id is required")
	case strings.TrimSpace(r.FileName) == "":
		return errors.New("file_name is required")
	case r.Tenant == "":
		return errors.New("tenant is required")
	case r.FlowID == "":
		return errors.New("flow_id is required")
	case r.SourceBucket == "":
		return errors.New("source_bucket is required")
	case r.TargetBucket == "":
		return errors.New("target_bucket is required")
	}
	return nil
}

// MarkTerminalRequest moves a RUNNING record to SUCCESS or FAILED.
type MarkTerminalRequest struct {
	JobID        string
	FileName     string
	Status       JobStatus
	ErrorMessage *string
}

// Validate validates the MarkTerminalRequest fields.
func (r *MarkTerminalRequest) Validate() error {
	if strings.TrimSpace(r.JobID) == "" || strings.TrimSpace(r.FileName) == "" {
		return errors.New("job_id and file_name are required")
	}
	if !r.Status.Terminal() {
		return errors.New("status must be SUCCESS or FAILED")
	}
	return nil
}

// FileJobListOptions filters job listings. Tenant uses the tenant index; Status is applied
// after the limit, matching the behaviour the front end was built against.
type FileJobListOptions struct {
	Tenant string
	Status JobStatus
	Limit  int
}

// ObjectLocation addresses one object in the object store.
type ObjectLocation struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// String renders the location as an s3:// URI.
func (l ObjectLocation) String() string {
	return "s3://" + l.Bucket + "/" + l.Key
}

// FileJobView is a job record enriched with source and target object locations for the API.
type FileJobView struct {
	*FileJob

	SourceS3 ObjectLocation `json:"source_s3"`
	TargetS3 ObjectLocation `json:"target_s3"`
}
