// Package core declares the ports the routing services depend on. Adapters in internal/data and
// internal/adapters implement them.
package core

import (
	"context"

	"github.com/target/bayflow/internal/domain/model"
)

// FileJobRepository persists job records in the tracking store.
type FileJobRepository interface {
	// Create writes a RUNNING record with created_at = updated_at = now.
	Create(ctx context.Context, req *model.CreateFileJobRequest) (*model.FileJob, error)
	// MarkTerminal moves a RUNNING record to SUCCESS or FAILED. Records that are already terminal
	// are left untouched and ErrJobNotRunning is returned.
	MarkTerminal(ctx context.Context, req *model.MarkTerminalRequest) (*model.FileJob, error)
	// GetByJobID returns every record for the job id, oldest first.
	GetByJobID(ctx context.Context, jobID string) ([]*model.FileJob, error)
	List(ctx context.Context, opts model.FileJobListOptions) ([]*model.FileJob, error)
}

// ObjectStore is the bucket/key object store files are routed through.
type ObjectStore interface {
	GetObject(ctx context.Context, loc model.ObjectLocation) ([]byte, error)
	PutObject(ctx context.Context, req model.PutObjectRequest) error
	// CopyObject overwrites the destination if it exists.
	CopyObject(ctx context.Context, req model.CopyObjectRequest) error
	HeadObject(ctx context.Context, loc model.ObjectLocation) (*model.ObjectMetadata, error)
	ListObjects(ctx context.Context, req model.ListObjectsRequest) (*model.ObjectPage, error)
}

// PartnerConfigStore holds the raw partner configuration document.
type PartnerConfigStore interface {
	// Load returns the stored document, or ErrPartnerConfigNotFound.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the stored document wholesale.
	Save(ctx context.Context, raw []byte) error
}

// Broadcaster publishes one message to a topic.
type Broadcaster interface {
	Publish(ctx context.Context, msg model.BroadcastMessage) error
}

// FileArrivalEnqueuer hands file-arrival events to the invoker.
type FileArrivalEnqueuer interface {
	EnqueueFileArrival(ctx context.Context, arrival model.FileArrival) (taskID string, err error)
}
