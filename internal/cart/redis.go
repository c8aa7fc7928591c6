package cart

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"restaurant-booking-platform/internal/models"
)

// RedisStore persists cart snapshots in Redis, one key per customer
// session, so carts survive restarts of the storefront process.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed snapshot store
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) storageKey(key string) string {
	return fmt.Sprintf("cart:%s", key)
}

// Load fetches and decodes the snapshot for a key. Malformed payloads are
// dropped from Redis and reported as not found.
func (r *RedisStore) Load(ctx context.Context, key string) (models.CartSnapshot, bool, error) {
	data, err := r.client.Get(ctx, r.storageKey(key)).Result()
	if err == redis.Nil {
		return models.CartSnapshot{}, false, nil
	}
	if err != nil {
		return models.CartSnapshot{}, false, fmt.Errorf("failed to load cart snapshot: %w", err)
	}

	snap, ok := DecodeSnapshot(data)
	if !ok {
		log.Printf("cart: discarding malformed snapshot for %s", key)
		r.client.Del(ctx, r.storageKey(key))
		return models.CartSnapshot{}, false, nil
	}
	return snap, true, nil
}

// Save writes the snapshot as one atomic value
func (r *RedisStore) Save(ctx context.Context, key string, snap models.CartSnapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("failed to encode cart snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.storageKey(key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	return nil
}

// Delete removes the snapshot for a key
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.storageKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart snapshot: %w", err)
	}
	return nil
}
