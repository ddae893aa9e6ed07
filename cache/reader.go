package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const tracerName = "github.com/Adyime/DadapperDaze-sub001/cache"

// Reader is the default CacheService: a cache-aside reader over a Store.
//
// Store failures never fail a lookup. A failed read is treated as a miss
// and a failed write is logged and skipped. Concurrent misses on the same
// key share a single fetch.
//
// A fetch that overlaps an invalidation (Delete, DeleteByPrefix,
// InvalidateKeys) may have read the pre-write row, so its result is
// returned but not left in the store.
type Reader struct {
	store   Store
	codec   Codec
	group   singleflight.Group
	epoch   atomic.Uint64
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

var _ CacheService = (*Reader)(nil)

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithLogger sets the logger used for degraded store operations.
func WithLogger(logger *slog.Logger) ReaderOption {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithCodec overrides the default msgpack codec.
func WithCodec(codec Codec) ReaderOption {
	return func(r *Reader) {
		if codec != nil {
			r.codec = codec
		}
	}
}

// WithMetrics reports lookups to the given collectors.
func WithMetrics(m *Metrics) ReaderOption {
	return func(r *Reader) {
		r.metrics = m
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(tracer trace.Tracer) ReaderOption {
	return func(r *Reader) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// NewReader creates a Reader over store. The store is not owned by the
// reader; whoever constructed it closes it.
func NewReader(store Store, opts ...ReaderOption) *Reader {
	r := &Reader{
		store:  store,
		codec:  MsgpackCodec{},
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetOrFetch implements CacheService.GetOrFetch.
//
// A fresh entry is returned without calling req.Fetch. On a miss the fetch
// runs at most once per key across concurrent callers and its result is
// stored for req.TTL when req.ShouldCache accepts it. Fetch errors are
// returned unchanged and nothing is written.
func (r *Reader) GetOrFetch(ctx context.Context, req Request) (any, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	ctx, span := r.tracer.Start(ctx, "cache.get_or_fetch",
		trace.WithAttributes(attribute.String("cache.key", req.Key)))
	defer span.End()

	if value, ok := r.lookup(ctx, req); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		r.metrics.hit()
		return value, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))
	r.metrics.miss()

	ch := r.group.DoChan(req.Key, func() (any, error) {
		// A flight for this key may have completed between our miss and now.
		if value, ok := r.lookup(ctx, req); ok {
			return value, nil
		}
		return r.populate(ctx, req)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()

	case res := <-ch:
		if res.Shared {
			r.metrics.shared()
		}
		// The caller that led the flight gave up. Our context is still live,
		// so fetch on our own behalf instead of inheriting its cancellation.
		if res.Err != nil && res.Shared && isContextError(res.Err) && ctx.Err() == nil {
			return r.populate(ctx, req)
		}
		if res.Err != nil {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, res.Err.Error())
		}
		return res.Val, res.Err
	}
}

// lookup reads and decodes key. Any failure is reported as a miss.
func (r *Reader) lookup(ctx context.Context, req Request) (any, bool) {
	data, err := r.store.Get(ctx, req.Key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.metrics.storeError("get")
			r.logger.WarnContext(ctx, "cache read failed, treating as miss", "key", req.Key, "error", err)
		}
		return nil, false
	}

	value, err := req.Decode(r.codec, data)
	if err != nil {
		r.metrics.storeError("decode")
		r.logger.WarnContext(ctx, "cache entry undecodable, treating as miss", "key", req.Key, "codec", r.codec.Name(), "error", err)
		return nil, false
	}
	return value, true
}

// populate fetches from the source of truth and writes the result.
func (r *Reader) populate(ctx context.Context, req Request) (any, error) {
	epoch := r.epoch.Load()
	start := time.Now()
	value, err := req.Fetch(ctx)
	r.metrics.fetched(time.Since(start), err)
	if err != nil {
		return nil, err
	}

	// Results fetched under a cancelled context may be partial.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.ShouldCache != nil && !req.ShouldCache(value) {
		r.metrics.skipped()
		return value, nil
	}

	data, err := r.codec.Marshal(value)
	if err != nil {
		r.metrics.storeError("encode")
		r.logger.WarnContext(ctx, "cache entry unencodable, skipping write", "key", req.Key, "codec", r.codec.Name(), "error", err)
		return value, nil
	}

	if r.epoch.Load() != epoch {
		r.metrics.skipped()
		r.logger.DebugContext(ctx, "invalidated during fetch, skipping write", "key", req.Key)
		return value, nil
	}
	if err := r.store.Set(ctx, req.Key, data, req.TTL); err != nil {
		r.metrics.storeError("set")
		r.logger.WarnContext(ctx, "cache write failed", "key", req.Key, "ttl", req.TTL, "error", err)
		return value, nil
	}
	// An invalidation that bumped the epoch after the check above may have
	// deleted before our Set landed.
	if r.epoch.Load() != epoch {
		r.metrics.skipped()
		if err := r.store.Delete(ctx, req.Key); err != nil {
			r.logger.WarnContext(ctx, "cache cleanup after invalidation failed", "key", req.Key, "error", err)
		}
	}
	return value, nil
}

// Delete implements CacheService.Delete.
func (r *Reader) Delete(ctx context.Context, key string) error {
	r.epoch.Add(1)
	r.group.Forget(key)
	return r.store.Delete(ctx, key)
}

// DeleteByPrefix implements CacheService.DeleteByPrefix. Fetches already in
// flight for any key finish but do not write their results.
func (r *Reader) DeleteByPrefix(ctx context.Context, prefix string) error {
	r.epoch.Add(1)
	return r.store.DeleteByPrefix(ctx, prefix)
}

// InvalidateKeys implements CacheService.InvalidateKeys. Every key is
// attempted; the errors are joined.
func (r *Reader) InvalidateKeys(ctx context.Context, keys []string) error {
	var errs []error
	for _, key := range keys {
		if err := r.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Ping checks the underlying store.
func (r *Reader) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
