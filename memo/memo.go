// Package memo reuses lookup results within a single request.
//
// A scope is attached to a context with WithScope, typically once per
// incoming HTTP request. Do then runs fn at most once per key inside that
// scope; later calls with the same key get the first successful result.
// Errors are never memoized, so a failed lookup is retried on the next call.
//
// Outside a scope Do simply calls fn.
package memo

import (
	"context"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

type scopeKey struct{}

// Scope holds the results memoized for one request.
type Scope struct {
	entries *xsync.MapOf[string, *entry]
}

type entry struct {
	mu    sync.Mutex
	done  bool
	value any
}

// WithScope returns a context carrying a fresh, empty scope. An existing
// scope on ctx is replaced.
func WithScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, scopeKey{}, &Scope{entries: xsync.NewMapOf[string, *entry]()})
}

// FromContext returns the scope attached to ctx, if any.
func FromContext(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(*Scope)
	return s, ok && s != nil
}

// Len reports how many keys hold a memoized result.
func (s *Scope) Len() int {
	n := 0
	s.entries.Range(func(_ string, e *entry) bool {
		e.mu.Lock()
		if e.done {
			n++
		}
		e.mu.Unlock()
		return true
	})
	return n
}

// Do returns the result memoized for key in ctx's scope, or calls fn and
// memoizes its result when it succeeds. Concurrent calls for the same key
// within a scope are serialized so fn runs once.
//
// Every caller in the scope gets the same value; results holding slices,
// maps or pointers are shared and must not be modified.
func Do[T any](ctx context.Context, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	scope, ok := FromContext(ctx)
	if !ok {
		return fn(ctx)
	}

	e, _ := scope.entries.LoadOrCompute(key, func() *entry { return &entry{} })

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.done {
		if v, ok := e.value.(T); ok {
			return v, nil
		}
		// Same key used with a different result type; don't share.
		return fn(ctx)
	}

	v, err := fn(ctx)
	if err != nil {
		return v, err
	}
	e.value = v
	e.done = true
	return v, nil
}
