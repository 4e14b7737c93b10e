package routing

import (
	"context"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/target/bayflow/internal/domain/model"
)

// DefaultFlowID is the flow every file belongs to unless a classifier says otherwise.
const DefaultFlowID = "inbound-v1"

// DefaultFlowSegment is the key segment read by the prefix classifier ("inbound/<tenant>/<flow>/file").
const DefaultFlowSegment = 2

// Classifier kinds accepted by NewClassifier.
const (
	ClassifierFixed    = "fixed"
	ClassifierPrefix   = "prefix"
	ClassifierMetadata = "metadata"
)

// ClassifyInput is what a FlowClassifier may inspect.
type ClassifyInput struct {
	Bucket string
	Key    string
	Parsed ParsedKey
}

// FlowClassifier maps an arriving object to a flow id.
type FlowClassifier interface {
	Classify(ctx context.Context, in ClassifyInput) (string, error)
}

// ObjectHeader reads object metadata without downloading the body.
type ObjectHeader interface {
	HeadObject(ctx context.Context, loc model.ObjectLocation) (*model.ObjectMetadata, error)
}

// FixedClassifier assigns every file the same flow.
type FixedClassifier struct {
	FlowID string
}

// Classify returns the configured flow id.
func (c FixedClassifier) Classify(_ context.Context, _ ClassifyInput) (string, error) {
	return orDefault(c.FlowID), nil
}

// PrefixClassifier reads the flow id from a key segment.
type PrefixClassifier struct {
	Segment  int
	Fallback string
}

// Classify returns key segment c.Segment. Keys too short for the segment, or whose segment is
// the file name itself, get the fallback flow.
func (c PrefixClassifier) Classify(_ context.Context, in ClassifyInput) (string, error) {
	idx := c.Segment
	if idx <= 0 {
		idx = DefaultFlowSegment
	}
	if idx >= len(in.Parsed.Segments)-1 {
		return orDefault(c.Fallback), nil
	}
	if seg := strings.TrimSpace(in.Parsed.Segment(idx)); seg != "" {
		return seg, nil
	}
	return orDefault(c.Fallback), nil
}

// MetadataClassifier evaluates a JMESPath expression over the object's headers.
// The expression sees {metadata, content_type, bucket, key, tenant}.
type MetadataClassifier struct {
	Objects    ObjectHeader
	Expression string
	Fallback   string
}

// NewMetadataClassifier compiles expr to reject bad expressions at startup.
func NewMetadataClassifier(objects ObjectHeader, expr, fallback string) (*MetadataClassifier, error) {
	if objects == nil {
		return nil, fmt.Errorf("metadata classifier requires an object store")
	}
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("metadata classifier requires an expression")
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("compile flow expression: %w", err)
	}
	return &MetadataClassifier{Objects: objects, Expression: expr, Fallback: fallback}, nil
}

// Classify heads the source object and evaluates the expression. Empty or non-string results
// fall back to the default flow.
func (c *MetadataClassifier) Classify(ctx context.Context, in ClassifyInput) (string, error) {
	meta, err := c.Objects.HeadObject(ctx, model.ObjectLocation{Bucket: in.Bucket, Key: in.Key})
	if err != nil {
		return "", fmt.Errorf("head %s/%s: %w", in.Bucket, in.Key, err)
	}

	metadata := make(map[string]any, len(meta.Metadata))
	for k, v := range meta.Metadata {
		metadata[strings.ToLower(k)] = v
	}
	doc := map[string]any{
		"metadata":     metadata,
		"content_type": meta.ContentType,
		"bucket":       in.Bucket,
		"key":          in.Key,
		"tenant":       in.Parsed.Tenant,
	}

	out, err := jmespath.Search(c.Expression, doc)
	if err != nil {
		return "", fmt.Errorf("evaluate flow expression: %w", err)
	}
	if s, ok := out.(string); ok && strings.TrimSpace(s) != "" {
		return s, nil
	}
	return orDefault(c.Fallback), nil
}

// ClassifierOptions selects and configures a FlowClassifier.
type ClassifierOptions struct {
	Kind       string
	FlowID     string
	Segment    int
	Expression string
	Objects    ObjectHeader
}

// NewClassifier builds the classifier named by opts.Kind. An empty kind means fixed.
func NewClassifier(opts ClassifierOptions) (FlowClassifier, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Kind)) {
	case "", ClassifierFixed:
		return FixedClassifier{FlowID: opts.FlowID}, nil
	case ClassifierPrefix:
		return PrefixClassifier{Segment: opts.Segment, Fallback: opts.FlowID}, nil
	case ClassifierMetadata:
		return NewMetadataClassifier(opts.Objects, opts.Expression, opts.FlowID)
	default:
		return nil, fmt.Errorf("unknown flow classifier %q", opts.Kind)
	}
}

func orDefault(flowID string) string {
	if strings.TrimSpace(flowID) == "" {
		return DefaultFlowID
	}
	return flowID
}
