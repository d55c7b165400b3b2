package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "session:"

// RedisStore implements Store on top of Redis. Records are stored as
// JSON values with a native TTL, so expired sessions stop resolving
// without an explicit sweep.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: defaultKeyPrefix,
	}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	val, err := r.client.Get(ctx, r.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}

	// TTL and ExpiresAt can drift by a sweep interval; expiry is
	// enforced here regardless of which side lags.
	if s.IsExpired() {
		_ = r.client.Del(ctx, r.key(id)).Err()
		return nil, ErrExpired
	}

	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return ErrInvalidSession
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return r.client.Del(ctx, r.key(s.ID)).Err()
	}

	data, err := json.Marshal(s)
	if err != nil {
		return errors.Join(ErrSaveSession, err)
	}

	return r.client.Set(ctx, r.key(s.ID), data, ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}

// DeleteExpired is a no-op for Redis; key TTLs handle expiry natively.
func (r *RedisStore) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}
