// Package cache provides the read-through cache layer shared by the catalog
// service and the repository decorators.
//
// # Overview
//
// The package exports three building blocks:
//
//   - Store: a byte-level key-value backend with per-entry TTL (memory, Redis or tiered)
//   - CacheService: read-through operations over a Store; Reader is the default implementation
//   - KeySerializer: builds stable "<namespace>:<args>" keys
//
// # Basic Usage
//
//	store, err := cache.NewStore(cache.DefaultConfig(), logger)
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	reader := cache.NewReader(store, cache.WithLogger(logger))
//
//	categories, err := cache.GetOrFetch(ctx, reader, "category:all", 30*time.Minute,
//		func(ctx context.Context) ([]Category, error) {
//			return repo.ListCategories(ctx)
//		})
//
// # Read-through Semantics
//
// A fresh entry is returned without calling the fetch function. On a miss
// the fetch runs once per key even when many goroutines miss at the same
// time; the others wait for it and share the result. Successful results are
// stored for the requested TTL. Errors are returned to every waiter and are
// never cached, so the next call retries.
//
// CacheIf restricts what is written. The value is still returned:
//
//	category, err := cache.GetOrFetch(ctx, reader, "category:"+slug, ttl, fetch,
//		cache.CacheIf(cache.NotNil[Category]))
//
// # Degraded Stores
//
// The cache is an optimisation, not a dependency. When the store fails a
// read the lookup is treated as a miss and the fetch runs. When it fails a
// write the fetched value is still returned and the failure is logged.
// Argument errors (empty key, non-positive TTL, nil fetch) are the only
// errors the layer itself produces; they wrap ErrInvalidRequest.
//
// # Key Serialization Strategy
//
// The default key serializer uses reflection to handle various Go types:
//
//   - Function pointers: Uses %p formatting for stability within a process
//   - Basic types: Direct string representation
//   - Slices/arrays: Recursive serialization of elements
//   - Maps: Sorted key-value pairs for deterministic output
//   - Structs: String() when available, otherwise exported fields
//   - Complex types: JSON fallback with error handling
//
// Calls without arguments map to "<namespace>:all". Keys longer than the
// configured maximum keep their namespace and hash the remainder with xxhash.
//
// Function criteria are stable only within a single process. When sharing a
// Redis cache between instances, prefer criteria that serialize by value.
//
// # See Also
//
// For repository decorators built on this package, see the repositorycache package.
package cache
