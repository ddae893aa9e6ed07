package cacheinfra

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/viccon/sturdyc"
)

// memoryEntry pairs the stored bytes with their logical expiry. sturdyc
// evicts on its own client-wide TTL; expiresAt enforces the per-entry TTL
// requested by the caller.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store backed by a sharded sturdyc client.
type MemoryStore struct {
	client *sturdyc.Client[memoryEntry]
	now    func() time.Time
	closed atomic.Bool
}

// MemoryOption customizes a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the time source used for logical expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates a sturdyc-backed store.
//
// Capacity, NumShards, TTL and EvictionPercentage are passed to sturdyc.New();
// the remaining options are applied via ToSturdycOptions().
func NewMemoryStore(cfg Config, opts ...MemoryOption) (*MemoryStore, error) {
	if err := cfg.validateMemory(); err != nil {
		return nil, err
	}

	client := sturdyc.New[memoryEntry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	s := &MemoryStore{client: client, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	entry, ok := s.client.Get(key)
	if !ok || !s.now().Before(entry.expiresAt) {
		return nil, ErrNotFound
	}
	return cloneBytes(entry.value), nil
}

// GetWithTTL returns the value and its remaining logical lifetime.
func (s *MemoryStore) GetWithTTL(ctx context.Context, key string) ([]byte, time.Duration, error) {
	if s.closed.Load() {
		return nil, 0, ErrClosed
	}
	entry, ok := s.client.Get(key)
	if !ok {
		return nil, 0, ErrNotFound
	}
	remaining := entry.expiresAt.Sub(s.now())
	if remaining <= 0 {
		return nil, 0, ErrNotFound
	}
	return cloneBytes(entry.value), remaining, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if ttl <= 0 {
		return wrapStoreError("set", key, ErrNonPositiveTTL)
	}
	s.client.Set(key, memoryEntry{
		value:     cloneBytes(value),
		expiresAt: s.now().Add(ttl),
	})
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.client.Delete(key)
	return nil
}

// DeleteByPrefix scans the live key set and removes every key in the prefix group.
func (s *MemoryStore) DeleteByPrefix(_ context.Context, prefix string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	for _, key := range s.client.ScanKeys() {
		if MatchesPrefix(key, prefix) {
			s.client.Delete(key)
		}
	}
	return nil
}

// Size returns the number of physically stored entries, expired ones included.
func (s *MemoryStore) Size() int {
	return s.client.Size()
}

func (s *MemoryStore) Ping(_ context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return nil
}

// Close drops every entry and rejects further use.
func (s *MemoryStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	for _, key := range s.client.ScanKeys() {
		s.client.Delete(key)
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}
