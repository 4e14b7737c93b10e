package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/target/bayflow/internal/core"
)

// DefaultPartnerConfigRedisKey is the key the partner configuration is stored under in Redis.
const DefaultPartnerConfigRedisKey = "bayflow:config:partners.json"

// RedisPartnerConfigStore keeps the partner configuration document in a single Redis key.
type RedisPartnerConfigStore struct {
	client redis.UniversalClient
	key    string
}

var _ core.PartnerConfigStore = (*RedisPartnerConfigStore)(nil)

// NewRedisPartnerConfigStore creates a store for key; an empty key uses DefaultPartnerConfigRedisKey.
func NewRedisPartnerConfigStore(client redis.UniversalClient, key string) *RedisPartnerConfigStore {
	if key == "" {
		key = DefaultPartnerConfigRedisKey
	}
	return &RedisPartnerConfigStore{client: client, key: key}
}

// Load reads the stored document.
func (s *RedisPartnerConfigStore) Load(ctx context.Context) ([]byte, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrPartnerConfigNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return raw, nil
}

// Save replaces the stored document. The key does not expire.
func (s *RedisPartnerConfigStore) Save(ctx context.Context, raw []byte) error {
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
