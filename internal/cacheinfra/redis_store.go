package cacheinfra

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanBatchSize = 100

// RedisStore implements Store on Redis, suitable as a cluster-wide cache
// shared by every storefront instance. Expiry is enforced by the server.
type RedisStore struct {
	client *redis.Client
	prefix string
	owned  bool // client was created by NewRedisStore and is closed with the store
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	store := NewRedisStoreFromClient(client, cfg.KeyPrefix)
	store.owned = true
	return store, nil
}

// NewRedisStoreFromClient wraps an existing client. The caller keeps
// ownership of the client; Close does not close it.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapStoreError("get", key, err)
	}
	return val, nil
}

// GetWithTTL reads the value and its remaining lifetime in one round trip.
// A zero duration means the server reported no expiry.
func (s *RedisStore) GetWithTTL(ctx context.Context, key string) ([]byte, time.Duration, error) {
	pipe := s.client.Pipeline()
	getCmd := pipe.Get(ctx, s.key(key))
	ttlCmd := pipe.PTTL(ctx, s.key(key))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, wrapStoreError("get", key, err)
	}

	val, err := getCmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, wrapStoreError("get", key, err)
	}

	remaining := ttlCmd.Val()
	if remaining < 0 {
		remaining = 0
	}
	return val, remaining, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return wrapStoreError("set", key, ErrNonPositiveTTL)
	}
	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return wrapStoreError("set", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	err := s.client.Del(ctx, s.key(key)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return wrapStoreError("delete", key, err)
	}
	return nil
}

// DeleteByPrefix walks the keyspace with SCAN and deletes matches in batches.
func (s *RedisStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := s.client.Scan(ctx, 0, escapeGlob(s.key(prefix))+"*", scanBatchSize).Iterator()

	batch := make([]string, 0, scanBatchSize)
	for iter.Next(ctx) {
		full := iter.Val()
		if !MatchesPrefix(strings.TrimPrefix(full, s.prefix), prefix) {
			continue
		}
		batch = append(batch, full)
		if len(batch) == scanBatchSize {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return wrapStoreError("delete_prefix", prefix, err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return wrapStoreError("scan", prefix, err)
	}
	if len(batch) > 0 {
		if err := s.client.Del(ctx, batch...).Err(); err != nil {
			return wrapStoreError("delete_prefix", prefix, err)
		}
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client only when the store created it.
func (s *RedisStore) Close() error {
	if s.owned && s.client != nil {
		return s.client.Close()
	}
	return nil
}

func escapeGlob(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
