package model

import (
	"errors"
	"time"
)

// CopyObjectRequest copies Source to Destination, overwriting any existing object at Destination.
type CopyObjectRequest struct {
	Source      ObjectLocation
	Destination ObjectLocation
}

// PutObjectRequest stores Body at Location.
type PutObjectRequest struct {
	Location    ObjectLocation
	Body        []byte
	ContentType string
}

// ObjectMetadata is the subset of object headers the router reads.
type ObjectMetadata struct {
	ContentType  string
	Size         int64
	LastModified time.Time
	Metadata     map[string]string
}

// ListObjectsRequest pages through a bucket.
type ListObjectsRequest struct {
	Bucket            string
	Prefix            string
	MaxKeys           int
	ContinuationToken string
}

// ObjectSummary describes one listed object.
type ObjectSummary struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ObjectPage is one page of a bucket listing.
type ObjectPage struct {
	Bucket                string          `json:"bucket"`
	Prefix                string          `json:"prefix"`
	Items                 []ObjectSummary `json:"items"`
	IsTruncated           bool            `json:"is_truncated"`
	NextContinuationToken *string         `json:"next_continuation_token"`
}

// BucketKind names the buckets exposed by the query API.
type BucketKind string

const (
	// BucketKindLanding is the bucket partner files land in.
	BucketKindLanding BucketKind = "landing"
	// BucketKindTarget is the bucket files are routed to.
	BucketKindTarget BucketKind = "target"
)

// ErrInvalidBucketKind is returned for kinds other than landing and target.
var ErrInvalidBucketKind = errors.New("kind must be 'landing' or 'target'")

// ParseBucketKind validates a bucket kind.
func ParseBucketKind(s string) (BucketKind, error) {
	switch k := BucketKind(s); k {
	case BucketKindLanding, BucketKindTarget:
		return k, nil
	default:
		return "", ErrInvalidBucketKind
	}
}

// BroadcastMessage is one notification published to a topic.
type BroadcastMessage struct {
	Topic   string `json:"topic"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}
