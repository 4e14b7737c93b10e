package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/target/bayflow/internal/core"
	"github.com/target/bayflow/internal/domain/model"
)

// MemoryObjectStore is an in-memory core.ObjectStore keyed by bucket/key.
type MemoryObjectStore struct {
	mu      sync.Mutex
	objects map[model.ObjectLocation][]byte
	meta    map[model.ObjectLocation]map[string]string
	// CopyErr, when set, is returned by CopyObject for matching destinations.
	CopyErr func(dst model.ObjectLocation) error
	Copies  []model.CopyObjectRequest
}

var _ core.ObjectStore = (*MemoryObjectStore)(nil)

// NewMemoryObjectStore returns an empty store.
func NewMemoryObjectStore() *MemoryObjectStore {
	return &MemoryObjectStore{
		objects: make(map[model.ObjectLocation][]byte),
		meta:    make(map[model.ObjectLocation]map[string]string),
	}
}

// Seed stores body at bucket/key.
func (s *MemoryObjectStore) Seed(bucket, key string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[model.ObjectLocation{Bucket: bucket, Key: key}] = body
}

// SeedMetadata sets user metadata on bucket/key.
func (s *MemoryObjectStore) SeedMetadata(bucket, key string, meta map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta[model.ObjectLocation{Bucket: bucket, Key: key}] = meta
}

// Has reports whether bucket/key exists.
func (s *MemoryObjectStore) Has(bucket, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[model.ObjectLocation{Bucket: bucket, Key: key}]
	return ok
}

// Count returns the number of stored objects in bucket.
func (s *MemoryObjectStore) Count(bucket string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for loc := range s.objects {
		if loc.Bucket == bucket {
			n++
		}
	}
	return n
}

// GetObject returns the body stored at loc.
func (s *MemoryObjectStore) GetObject(_ context.Context, loc model.ObjectLocation) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.objects[loc]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrObjectNotFound, loc)
	}
	return append([]byte(nil), body...), nil
}

// PutObject stores req.Body at req.Location.
func (s *MemoryObjectStore) PutObject(_ context.Context, req model.PutObjectRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[req.Location] = append([]byte(nil), req.Body...)
	return nil
}

// CopyObject copies req.Source over req.Destination.
func (s *MemoryObjectStore) CopyObject(_ context.Context, req model.CopyObjectRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Copies = append(s.Copies, req)
	if s.CopyErr != nil {
		if err := s.CopyErr(req.Destination); err != nil {
			return err
		}
	}
	body, ok := s.objects[req.Source]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrObjectNotFound, req.Source)
	}
	s.objects[req.Destination] = append([]byte(nil), body...)
	return nil
}

// HeadObject returns size and user metadata for loc.
func (s *MemoryObjectStore) HeadObject(_ context.Context, loc model.ObjectLocation) (*model.ObjectMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.objects[loc]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrObjectNotFound, loc)
	}
	return &model.ObjectMetadata{Size: int64(len(body)), Metadata: s.meta[loc]}, nil
}

// ListObjects lists keys in lexical order. The continuation token is the last key returned.
func (s *MemoryObjectStore) ListObjects(_ context.Context, req model.ListObjectsRequest) (*model.ObjectPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []string
	for loc := range s.objects {
		if loc.Bucket == req.Bucket && strings.HasPrefix(loc.Key, req.Prefix) && loc.Key > req.ContinuationToken {
			keys = append(keys, loc.Key)
		}
	}
	sort.Strings(keys)

	page := &model.ObjectPage{Bucket: req.Bucket, Prefix: req.Prefix, Items: []model.ObjectSummary{}}
	limit := req.MaxKeys
	if limit <= 0 {
		limit = 1000
	}
	if len(keys) > limit {
		keys = keys[:limit]
		page.IsTruncated = true
		next := keys[len(keys)-1]
		page.NextContinuationToken = &next
	}
	for _, k := range keys {
		page.Items = append(page.Items, model.ObjectSummary{
			Key:  k,
			Size: int64(len(s.objects[model.ObjectLocation{Bucket: req.Bucket, Key: k}])),
		})
	}
	return page, nil
}

// MemoryFileJobRepo is an in-memory core.FileJobRepository with the same transition rules as
// the Postgres repository.
type MemoryFileJobRepo struct {
	mu   sync.Mutex
	jobs map[[2]string]*model.FileJob
	// Now supplies timestamps; defaults to time.Now.
	Now func() time.Time
	// CreateErr and MarkErr, when set, fail the corresponding call.
	CreateErr error
	MarkErr   error
}

var _ core.FileJobRepository = (*MemoryFileJobRepo)(nil)

// NewMemoryFileJobRepo returns an empty repository.
func NewMemoryFileJobRepo() *MemoryFileJobRepo {
	return &MemoryFileJobRepo{jobs: make(map[[2]string]*model.FileJob), Now: time.Now}
}

// Create stores a RUNNING record.
func (r *MemoryFileJobRepo) Create(_ context.Context, req *model.CreateFileJobRequest) (*model.FileJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return nil, r.CreateErr
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	k := [2]string{req.JobID, req.FileName}
	if _, exists := r.jobs[k]; exists {
		return nil, fmt.Errorf("file job %s/%s already exists", req.JobID, req.FileName)
	}
	now := r.Now().UTC()
	job := &model.FileJob{
		JobID:        req.JobID,
		FileName:     req.FileName,
		Tenant:       req.Tenant,
		FlowID:       req.FlowID,
		Status:       model.JobStatusRunning,
		SourceBucket: req.SourceBucket,
		TargetBucket: req.TargetBucket,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.jobs[k] = job
	cp := *job
	return &cp, nil
}

// MarkTerminal moves a RUNNING record to a terminal state.
func (r *MemoryFileJobRepo) MarkTerminal(_ context.Context, req *model.MarkTerminalRequest) (*model.FileJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.MarkErr != nil {
		return nil, r.MarkErr
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	job, ok := r.jobs[[2]string{req.JobID, req.FileName}]
	if !ok {
		return nil, core.ErrFileJobNotFound
	}
	if job.Status != model.JobStatusRunning {
		return nil, fmt.Errorf("%w: %s/%s is %s", core.ErrJobNotRunning, req.JobID, req.FileName, job.Status)
	}
	job.Status = req.Status
	if req.ErrorMessage != nil {
		msg := *req.ErrorMessage
		job.ErrorMessage = &msg
	}
	job.UpdatedAt = r.Now().UTC()
	cp := *job
	return &cp, nil
}

// GetByJobID returns every record for jobID.
func (r *MemoryFileJobRepo) GetByJobID(_ context.Context, jobID string) ([]*model.FileJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.FileJob
	for k, j := range r.jobs {
		if k[0] == jobID {
			cp := *j
			out = append(out, &cp)
		}
	}
	if len(out) == 0 {
		return nil, core.ErrFileJobNotFound
	}
	sort.Slice(out, func(a, b int) bool { return out[a].FileName < out[b].FileName })
	return out, nil
}

// List returns records filtered by tenant, limited, then filtered by status.
func (r *MemoryFileJobRepo) List(_ context.Context, opts model.FileJobListOptions) ([]*model.FileJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.FileJob
	for _, j := range r.jobs {
		if opts.Tenant == "" || j.Tenant == opts.Tenant {
			cp := *j
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].UpdatedAt.After(out[b].UpdatedAt) })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	if opts.Status == "" {
		return out, nil
	}
	filtered := out[:0]
	for _, j := range out {
		if j.Status == opts.Status {
			filtered = append(filtered, j)
		}
	}
	return filtered, nil
}

// Get returns the record for jobID/fileName, or nil.
func (r *MemoryFileJobRepo) Get(jobID, fileName string) *model.FileJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[[2]string{jobID, fileName}]
	if !ok {
		return nil
	}
	cp := *j
	return &cp
}

// Len returns the number of stored records.
func (r *MemoryFileJobRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

// MemoryPartnerConfigStore holds one raw document.
type MemoryPartnerConfigStore struct {
	mu  sync.Mutex
	raw []byte
	// LoadErr, when set, fails Load.
	LoadErr error
}

var _ core.PartnerConfigStore = (*MemoryPartnerConfigStore)(nil)

// NewMemoryPartnerConfigStore returns a store holding raw (nil means no document).
func NewMemoryPartnerConfigStore(raw []byte) *MemoryPartnerConfigStore {
	return &MemoryPartnerConfigStore{raw: raw}
}

// Load returns the stored document.
func (s *MemoryPartnerConfigStore) Load(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	if s.raw == nil {
		return nil, core.ErrPartnerConfigNotFound
	}
	return append([]byte(nil), s.raw...), nil
}

// Save replaces the stored document.
func (s *MemoryPartnerConfigStore) Save(_ context.Context, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = append([]byte(nil), raw...)
	return nil
}

// RecordingBroadcaster records published messages.
type RecordingBroadcaster struct {
	mu       sync.Mutex
	Messages []model.BroadcastMessage
	// Err, when set, fails every publish after recording it.
	Err error
}

var _ core.Broadcaster = (*RecordingBroadcaster)(nil)

// Publish records msg.
func (b *RecordingBroadcaster) Publish(_ context.Context, msg model.BroadcastMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Messages = append(b.Messages, msg)
	return b.Err
}

// Published returns a copy of the recorded messages.
func (b *RecordingBroadcaster) Published() []model.BroadcastMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.BroadcastMessage(nil), b.Messages...)
}
