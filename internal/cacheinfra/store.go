package cacheinfra

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a key does not exist or has expired.
	ErrNotFound = errors.New("cache: key not found")

	// ErrClosed is returned by stores used after Close.
	ErrClosed = errors.New("cache: store closed")

	// ErrNonPositiveTTL is returned by Set when the entry would never be readable.
	ErrNonPositiveTTL = errors.New("cache: ttl must be positive")
)

// Store is the byte-level key-value contract every backend satisfies.
// Implementations enforce expiry: a Get after the entry TTL elapsed
// returns ErrNotFound.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
	Close() error
}

// ttlReader is implemented by stores that can report the remaining lifetime
// of an entry alongside its value.
type ttlReader interface {
	GetWithTTL(ctx context.Context, key string) ([]byte, time.Duration, error)
}

// NewStore builds the backend selected by cfg.Backend.
func NewStore(cfg Config, logger *slog.Logger) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case BackendRedis:
		store, err := NewRedisStore(cfg.Redis)
		if err != nil {
			return nil, err
		}
		logger.Info("cache store ready", "backend", cfg.Backend, "addr", cfg.Redis.Addr)
		return store, nil

	case BackendTiered:
		l2, err := NewRedisStore(cfg.Redis)
		if err != nil {
			return nil, err
		}
		l1, err := NewMemoryStore(cfg)
		if err != nil {
			_ = l2.Close()
			return nil, err
		}
		logger.Info("cache store ready", "backend", cfg.Backend, "addr", cfg.Redis.Addr, "l1_ttl", cfg.L1TTL)
		return NewTieredStore(l1, l2, cfg.L1TTL), nil

	default:
		store, err := NewMemoryStore(cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("cache store ready", "backend", cfg.Backend, "capacity", cfg.Capacity, "ttl", cfg.TTL)
		return store, nil
	}
}

// MatchesPrefix reports whether key belongs to the prefix group: either the
// key equals prefix or continues it after a segment separator. This keeps
// "product:get_by_id:1" from matching "product:get_by_id:10".
func MatchesPrefix(key, prefix string) bool {
	if prefix == "" {
		return true
	}
	if key == prefix {
		return true
	}
	if strings.HasSuffix(prefix, ":") {
		return strings.HasPrefix(key, prefix)
	}
	return strings.HasPrefix(key, prefix+":")
}

func wrapStoreError(op, key string, err error) error {
	return fmt.Errorf("cache %s %q: %w", op, key, err)
}
