package cacheinfra

import (
	"context"
	"errors"
	"time"
)

// TieredStore layers a fast local store (L1) over a shared store (L2).
// Reads check L1 first and fall through to L2, populating L1 on an L2 hit.
// Writes go to both layers. L1 entries never outlive the L2 entry they were
// copied from, so a read never returns a value whose L2 TTL has elapsed.
type TieredStore struct {
	l1    Store
	l2    Store
	l1TTL time.Duration
}

// NewTieredStore creates a two-level store. l1TTL caps L1 entry lifetime
// (default: 10s).
func NewTieredStore(l1, l2 Store, l1TTL time.Duration) *TieredStore {
	if l1TTL <= 0 {
		l1TTL = 10 * time.Second
	}
	return &TieredStore{l1: l1, l2: l2, l1TTL: l1TTL}
}

func (t *TieredStore) Get(ctx context.Context, key string) ([]byte, error) {
	// An L1 failure is just a miss; L2 is the authority.
	if val, err := t.l1.Get(ctx, key); err == nil {
		return val, nil
	}

	val, remaining, err := t.getL2(ctx, key)
	if err != nil {
		return nil, err
	}

	if ttl := t.l1Lifetime(remaining); ttl > 0 {
		_ = t.l1.Set(ctx, key, val, ttl)
	}
	return val, nil
}

func (t *TieredStore) getL2(ctx context.Context, key string) ([]byte, time.Duration, error) {
	if r, ok := t.l2.(ttlReader); ok {
		return r.GetWithTTL(ctx, key)
	}
	val, err := t.l2.Get(ctx, key)
	return val, 0, err
}

// l1Lifetime returns how long an L2 value may live in L1. Zero remaining
// means unknown, in which case the L1 cap alone applies.
func (t *TieredStore) l1Lifetime(remaining time.Duration) time.Duration {
	if remaining > 0 && remaining < t.l1TTL {
		return remaining
	}
	return t.l1TTL
}

func (t *TieredStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return wrapStoreError("set", key, ErrNonPositiveTTL)
	}
	_ = t.l1.Set(ctx, key, value, t.l1Lifetime(ttl))
	return t.l2.Set(ctx, key, value, ttl)
}

func (t *TieredStore) Delete(ctx context.Context, key string) error {
	_ = t.l1.Delete(ctx, key)
	return t.l2.Delete(ctx, key)
}

func (t *TieredStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	_ = t.l1.DeleteByPrefix(ctx, prefix)
	return t.l2.DeleteByPrefix(ctx, prefix)
}

func (t *TieredStore) Ping(ctx context.Context) error {
	if err := t.l1.Ping(ctx); err != nil {
		return err
	}
	return t.l2.Ping(ctx)
}

func (t *TieredStore) Close() error {
	return errors.Join(t.l1.Close(), t.l2.Close())
}
