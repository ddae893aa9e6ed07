package cache

import (
	"context"
	"fmt"
	"time"
)

// Store is the key-value backend the reader caches into. It must enforce
// expiry: a Get after the TTL elapsed reports ErrNotFound.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
	Close() error
}

// KeySerializer builds a cache key from a namespace + arbitrary args.
// It is responsible for producing stable keys across calls.
type KeySerializer interface {
	SerializeKey(namespace string, args ...any) string
}

// FetchFn is the function signature GetOrFetch expects when fetching from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// DecodeFn turns stored bytes back into the caller's value type.
type DecodeFn func(codec Codec, data []byte) (any, error)

// Request describes one read-through lookup. GetOrFetch builds it from
// typed arguments; CacheService implementations only see the untyped form.
type Request struct {
	Key   string
	TTL   time.Duration
	Fetch func(ctx context.Context) (any, error)

	// Decode rebuilds a value from its cached bytes.
	Decode DecodeFn

	// ShouldCache decides whether a fetched value is written to the store.
	// Nil caches every successful fetch.
	ShouldCache func(value any) bool
}

func (r Request) validate() error {
	switch {
	case r.Key == "":
		return ErrInvalidKey
	case r.TTL <= 0:
		return fmt.Errorf("%w (got %v)", ErrInvalidTTL, r.TTL)
	case r.Fetch == nil:
		return ErrNilFetch
	case r.Decode == nil:
		return ErrNilDecode
	}
	return nil
}

// CacheService exposes the read-through caching operations used by the
// catalog and by repository decorators.
type CacheService interface {
	GetOrFetch(ctx context.Context, req Request) (any, error)
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	InvalidateKeys(ctx context.Context, keys []string) error
}

// FetchOption customizes a single GetOrFetch call.
type FetchOption[T any] func(*fetchOptions[T])

type fetchOptions[T any] struct {
	shouldCache func(T) bool
}

// CacheIf only writes fetched values for which pred returns true. Values
// that fail the predicate are still returned to the caller.
func CacheIf[T any](pred func(T) bool) FetchOption[T] {
	return func(o *fetchOptions[T]) {
		o.shouldCache = pred
	}
}

// NotNil is a CacheIf predicate for pointer results.
func NotNil[E any](v *E) bool {
	return v != nil
}

// GetOrFetch is a type-safe wrapper around CacheService.GetOrFetch.
//
// It returns the cached value for key when present and fresh. Otherwise it
// calls fetchFn, stores the result for ttl and returns it. Fetch errors are
// returned unchanged and never cached.
//
// Every cache hit decodes a private copy. Callers that waited on the same
// in-flight fetch share its result, so slices, maps and pointers in T must
// be treated as read-only.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, ttl time.Duration, fetchFn FetchFn[T], opts ...FetchOption[T]) (T, error) {
	var zero T

	var o fetchOptions[T]
	for _, opt := range opts {
		opt(&o)
	}

	req := Request{
		Key: key,
		TTL: ttl,
		Decode: func(codec Codec, data []byte) (any, error) {
			var v T
			if err := codec.Unmarshal(data, &v); err != nil {
				return nil, err
			}
			return v, nil
		},
	}
	if fetchFn != nil {
		req.Fetch = func(ctx context.Context) (any, error) {
			return fetchFn(ctx)
		}
	}
	if o.shouldCache != nil {
		req.ShouldCache = func(value any) bool {
			if value == nil {
				return o.shouldCache(zero)
			}
			typed, ok := value.(T)
			return ok && o.shouldCache(typed)
		}
	}

	result, err := service.GetOrFetch(ctx, req)
	if err != nil {
		return zero, err
	}

	// A nil interface result is the zero value of an interface-typed T.
	if result == nil {
		return zero, nil
	}

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %T", ErrInvalidResultType, result, zero)
	}
	return typed, nil
}
