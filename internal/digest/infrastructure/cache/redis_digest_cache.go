// Package cache provides Redis-backed caching for built digest payloads.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	digest "github.com/Sc0remac/cadenzor/internal/digest/domain"
)

// DefaultTTL bounds how stale a served digest can be.
const DefaultTTL = 15 * time.Minute

// RedisDigestCache stores the most recently built digest per user. Keys are
// namespaced as digest:user:{user_id}.
type RedisDigestCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDigestCache creates a cache with the given TTL. A zero TTL uses
// DefaultTTL.
func NewRedisDigestCache(client *redis.Client, ttl time.Duration) *RedisDigestCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisDigestCache{client: client, ttl: ttl}
}

func digestKey(userID uuid.UUID) string {
	return fmt.Sprintf("digest:user:%s", userID)
}

// Store caches a built payload for the user.
func (c *RedisDigestCache) Store(ctx context.Context, userID uuid.UUID, payload digest.Payload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to serialize digest: %w", err)
	}
	if err := c.client.Set(ctx, digestKey(userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache digest for user %s: %w", userID, err)
	}
	return nil
}

// Fetch returns the cached payload, or ErrNotCached.
func (c *RedisDigestCache) Fetch(ctx context.Context, userID uuid.UUID) (digest.Payload, error) {
	raw, err := c.client.Get(ctx, digestKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return digest.Payload{}, digest.ErrNotCached
	}
	if err != nil {
		return digest.Payload{}, fmt.Errorf("failed to fetch cached digest for user %s: %w", userID, err)
	}

	var payload digest.Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return digest.Payload{}, fmt.Errorf("corrupt cached digest for user %s: %w", userID, err)
	}
	return payload, nil
}

// Invalidate drops the cached digest so the next read rebuilds it.
func (c *RedisDigestCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Del(ctx, digestKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate digest for user %s: %w", userID, err)
	}
	return nil
}
