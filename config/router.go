package config

import (
	"fmt"
	"strings"
)

// RouterConfig controls how files are classified and where outcomes are announced.
type RouterConfig struct {
	// FlowClassifier is one of fixed, prefix or metadata.
	FlowClassifier string `env:"ROUTER_FLOW_CLASSIFIER" envDefault:"fixed"`
	// FlowID is the fixed flow id, and the fallback for the other classifiers.
	FlowID string `env:"ROUTER_FLOW_ID" envDefault:"inbound-v1"`
	// FlowSegment is the key segment the prefix classifier reads.
	FlowSegment int `env:"ROUTER_FLOW_SEGMENT" envDefault:"2"`
	// FlowExpression is the JMESPath expression the metadata classifier evaluates.
	FlowExpression string `env:"ROUTER_FLOW_EXPRESSION" envDefault:"metadata.flow"`
	// NotifyTopic is the broadcast topic success and failure notifications are published to.
	NotifyTopic string `env:"NOTIFY_TOPIC" envDefault:"bayflow-file-events"`
}

// Sanitize normalises classifier settings.
func (r *RouterConfig) Sanitize() {
	r.FlowClassifier = strings.ToLower(strings.TrimSpace(r.FlowClassifier))
	if r.FlowClassifier == "" {
		r.FlowClassifier = "fixed"
	}
	if r.FlowID = strings.TrimSpace(r.FlowID); r.FlowID == "" {
		r.FlowID = "inbound-v1"
	}
	if r.FlowSegment < 0 {
		r.FlowSegment = 2
	}
	if r.FlowExpression = strings.TrimSpace(r.FlowExpression); r.FlowExpression == "" {
		r.FlowExpression = "metadata.flow"
	}
	r.NotifyTopic = strings.TrimSpace(r.NotifyTopic)
}

// Validate checks the classifier name and topic.
func (r *RouterConfig) Validate() error {
	switch r.FlowClassifier {
	case "fixed", "prefix", "metadata":
	default:
		return fmt.Errorf("invalid ROUTER_FLOW_CLASSIFIER %q (valid options: fixed, prefix, metadata)", r.FlowClassifier)
	}
	if r.NotifyTopic == "" {
		return fmt.Errorf("NOTIFY_TOPIC is required")
	}
	return nil
}

// QueueConfig controls the asynq queue file-arrival events travel through.
type QueueConfig struct {
	Name        string `env:"QUEUE_NAME"        envDefault:"bayflow"`
	Concurrency int    `env:"QUEUE_CONCURRENCY" envDefault:"4"`
	MaxRetry    int    `env:"QUEUE_MAX_RETRY"   envDefault:"3"`
}

// Sanitize applies guardrails to queue configuration values.
func (q *QueueConfig) Sanitize() {
	if q.Name = strings.TrimSpace(q.Name); q.Name == "" {
		q.Name = "bayflow"
	}
	if q.Concurrency < 1 {
		q.Concurrency = 1
	}
	if q.MaxRetry < 0 {
		q.MaxRetry = 0
	}
}
