// Package redis provides Redis-based adapters for BayFlow.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/bayflow/internal/core"
	"github.com/target/bayflow/internal/domain/model"
)

// DefaultChannelPrefix is prepended to the topic to form the pub/sub channel name.
const DefaultChannelPrefix = "bayflow:notify:"

// Envelope is the JSON document published on the channel.
type Envelope struct {
	Topic       string    `json:"topic"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	PublishedAt time.Time `json:"published_at"`
}

// BroadcasterOptions configures a Broadcaster.
type BroadcasterOptions struct {
	Client redis.UniversalClient // Required
	Prefix string                // Optional: defaults to DefaultChannelPrefix
	Logger *slog.Logger          // Optional
	Now    func() time.Time      // Optional
}

// Broadcaster publishes route notifications over Redis pub/sub.
type Broadcaster struct {
	client redis.UniversalClient
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

var _ core.Broadcaster = (*Broadcaster)(nil)

// NewBroadcaster creates a Broadcaster.
func NewBroadcaster(opts BroadcasterOptions) (*Broadcaster, error) {
	if opts.Client == nil {
		return nil, errors.New("redis client is required")
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Broadcaster{
		client: opts.Client,
		prefix: prefix,
		logger: logger.With("component", "redis_broadcaster"),
		now:    now,
	}, nil
}

// Channel returns the pub/sub channel for topic.
func (b *Broadcaster) Channel(topic string) string {
	return b.prefix + topic
}

// Publish sends msg to the topic's channel. Having no subscribers is not an error.
func (b *Broadcaster) Publish(ctx context.Context, msg model.BroadcastMessage) error {
	if strings.TrimSpace(msg.Topic) == "" {
		return errors.New("topic is required")
	}

	data, err := json.Marshal(Envelope{
		Topic:       msg.Topic,
		Subject:     msg.Subject,
		Message:     msg.Message,
		PublishedAt: b.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	channel := b.Channel(msg.Topic)
	receivers, err := b.client.Publish(ctx, channel, data).Result()
	if err != nil {
		return fmt.Errorf("redis publish %s: %w", channel, err)
	}
	b.logger.DebugContext(ctx, "notification published", "channel", channel, "receivers", receivers)
	return nil
}
