// Package repositorycache provides cached repository decorators for go-repository-bun.
//
// # Overview
//
// CachedRepository wraps a base repository and routes its read operations
// through a cache.CacheService. Writes always reach the base repository.
//
//	reader := cache.NewReader(store)
//	products := repositorycache.New(baseProducts, reader, cache.NewDefaultKeySerializer(),
//		repositorycache.WithTTL(10*time.Minute),
//		repositorycache.WithWriteInvalidation(),
//	)
//
//	product, err := products.GetByID(ctx, id)
//
// # Cached vs Pass-through Operations
//
// Cached: Get, GetByID, GetByIdentifier, List, Count.
//
// Pass-through: every write (Create, Update, Upsert, Delete and variants),
// every *Tx method and Raw queries. Transactional reads bypass the cache so
// they never observe values from outside the transaction.
//
// # Keys
//
// Keys are "<namespace>:<op>:<args>". The namespace defaults to the
// singular snake_case name of the record type, so *catalog.Product reads
// are stored under "product:get_by_id:<id>", "product:list" and so on.
// Use WithNamespace when two repositories share a record type.
//
// # Invalidation
//
// Without WithWriteInvalidation entries live until their TTL expires; this
// suits data where bounded staleness is acceptable. With it, a successful
// write drops the entries it may have made stale:
//
//   - Create: list, count and get query results
//   - Update, Upsert, Delete: the record's id and identifier lookups plus all query results
//   - DeleteMany, DeleteWhere: the whole namespace
//
// Invalidation goes through CacheService.DeleteByPrefix, so entries written
// by other processes sharing a Redis store are dropped too. Failures are
// logged and never fail the write; the entries then expire on their TTL.
//
// # Error Handling
//
// Errors from the base repository are propagated unchanged and are never
// cached.
//
// # See Also
//
// For cache configuration and key serialization details, see the cache package.
// For dependency injection setup, see the pkg/di package.
package repositorycache
