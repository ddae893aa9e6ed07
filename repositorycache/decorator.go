package repositorycache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"github.com/Adyime/DadapperDaze-sub001/cache"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/uptrace/bun"
)

var _ repository.Repository[any] = (*CachedRepository[any])(nil)

// Key operation segments. A GetByID key for a product reads
// "product:get_by_id:<id>".
const (
	opGet             = "get"
	opGetByID         = "get_by_id"
	opGetByIdentifier = "get_by_identifier"
	opList            = "list"
	opCount           = "count"
	opHashed          = "h"
)

// listResult wraps the tuple result from List operations for caching
type listResult[T any] struct {
	Records []T `json:"records" msgpack:"records"`
	Total   int `json:"total" msgpack:"total"`
}

// CachedRepository decorates a base repository with read-through caching.
// Reads go through the cache; transactional reads and raw queries bypass it.
// Writes always reach the base repository and, with WithWriteInvalidation,
// drop the cached reads they may have made stale.
type CachedRepository[T any] struct {
	base          repository.Repository[T]
	cache         cache.CacheService
	keySerializer cache.KeySerializer
	opts          options

	// keys read through this decorator; pruned on invalidation.
	keyRegistry *xsync.MapOf[string, struct{}]
}

// New creates a new CachedRepository that wraps the base repository with caching
func New[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer, opts ...Option) *CachedRepository[T] {
	o := options{
		ttl:    DefaultTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.namespace == "" {
		o.namespace = namespaceFor[T]()
	}

	return &CachedRepository[T]{
		base:          base,
		cache:         cacheService,
		keySerializer: keySerializer,
		opts:          o,
		keyRegistry:   xsync.NewMapOf[string, struct{}](),
	}
}

// Namespace returns the key namespace shared by every entry this decorator writes.
func (c *CachedRepository[T]) Namespace() string {
	return c.opts.namespace
}

// TrackedKeys returns the cache keys read through this decorator that have
// not been invalidated since, sorted.
func (c *CachedRepository[T]) TrackedKeys() []string {
	keys := make([]string, 0, c.keyRegistry.Size())
	c.keyRegistry.Range(func(key string, _ struct{}) bool {
		keys = append(keys, key)
		return true
	})
	sort.Strings(keys)
	return keys
}

func (c *CachedRepository[T]) key(op string, args ...any) string {
	parts := append([]any{op}, args...)
	key := c.keySerializer.SerializeKey(c.opts.namespace, parts...)
	c.keyRegistry.Store(key, struct{}{})
	return key
}

func withCriteria[C any](args []any, criteria []C) []any {
	if len(criteria) == 0 {
		return args
	}
	return append(args, criteria)
}

// Get retrieves a single record using the provided criteria, with caching
func (c *CachedRepository[T]) Get(ctx context.Context, criteria ...repository.SelectCriteria) (T, error) {
	key := c.key(opGet, withCriteria(nil, criteria)...)
	return cache.GetOrFetch(ctx, c.cache, key, c.opts.ttl, func(ctx context.Context) (T, error) {
		return c.base.Get(ctx, criteria...)
	})
}

// GetByID retrieves a record by ID with optional criteria, with caching
func (c *CachedRepository[T]) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (T, error) {
	key := c.key(opGetByID, withCriteria([]any{id}, criteria)...)
	return cache.GetOrFetch(ctx, c.cache, key, c.opts.ttl, func(ctx context.Context) (T, error) {
		return c.base.GetByID(ctx, id, criteria...)
	})
}

// List retrieves multiple records using the provided criteria, with caching
func (c *CachedRepository[T]) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, int, error) {
	key := c.key(opList, withCriteria(nil, criteria)...)
	res, err := cache.GetOrFetch(ctx, c.cache, key, c.opts.ttl, func(ctx context.Context) (listResult[T], error) {
		records, total, err := c.base.List(ctx, criteria...)
		return listResult[T]{Records: records, Total: total}, err
	})
	if err != nil {
		return nil, 0, err
	}
	return res.Records, res.Total, nil
}

// Count returns the number of records matching the criteria, with caching
func (c *CachedRepository[T]) Count(ctx context.Context, criteria ...repository.SelectCriteria) (int, error) {
	key := c.key(opCount, withCriteria(nil, criteria)...)
	return cache.GetOrFetch(ctx, c.cache, key, c.opts.ttl, func(ctx context.Context) (int, error) {
		return c.base.Count(ctx, criteria...)
	})
}

// GetByIdentifier retrieves a record by identifier with optional criteria, with caching
func (c *CachedRepository[T]) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (T, error) {
	key := c.key(opGetByIdentifier, withCriteria([]any{identifier}, criteria)...)
	return cache.GetOrFetch(ctx, c.cache, key, c.opts.ttl, func(ctx context.Context) (T, error) {
		return c.base.GetByIdentifier(ctx, identifier, criteria...)
	})
}

// Create creates a new record. Write operations pass through to base repository
func (c *CachedRepository[T]) Create(ctx context.Context, record T, criteria ...repository.InsertCriteria) (T, error) {
	result, err := c.base.Create(ctx, record, criteria...)
	if err == nil {
		c.invalidateAfterCreate(ctx)
	}
	return result, err
}

// CreateTx creates a new record within a transaction
func (c *CachedRepository[T]) CreateTx(ctx context.Context, tx bun.IDB, record T, criteria ...repository.InsertCriteria) (T, error) {
	result, err := c.base.CreateTx(ctx, tx, record, criteria...)
	if err == nil {
		c.invalidateAfterCreate(ctx)
	}
	return result, err
}

// CreateMany creates multiple records
func (c *CachedRepository[T]) CreateMany(ctx context.Context, records []T, criteria ...repository.InsertCriteria) ([]T, error) {
	result, err := c.base.CreateMany(ctx, records, criteria...)
	if err == nil {
		c.invalidateAfterCreate(ctx)
	}
	return result, err
}

// CreateManyTx creates multiple records within a transaction
func (c *CachedRepository[T]) CreateManyTx(ctx context.Context, tx bun.IDB, records []T, criteria ...repository.InsertCriteria) ([]T, error) {
	result, err := c.base.CreateManyTx(ctx, tx, records, criteria...)
	if err == nil {
		c.invalidateAfterCreate(ctx)
	}
	return result, err
}

// GetOrCreate gets a record or creates it if it doesn't exist
func (c *CachedRepository[T]) GetOrCreate(ctx context.Context, record T) (T, error) {
	result, err := c.base.GetOrCreate(ctx, record)
	if err == nil {
		c.invalidateAfterCreate(ctx)
	}
	return result, err
}

// GetOrCreateTx gets a record or creates it if it doesn't exist within a transaction
func (c *CachedRepository[T]) GetOrCreateTx(ctx context.Context, tx bun.IDB, record T) (T, error) {
	result, err := c.base.GetOrCreateTx(ctx, tx, record)
	if err == nil {
		c.invalidateAfterCreate(ctx)
	}
	return result, err
}

// Update updates a record
func (c *CachedRepository[T]) Update(ctx context.Context, record T, criteria ...repository.UpdateCriteria) (T, error) {
	result, err := c.base.Update(ctx, record, criteria...)
	if err == nil {
		c.invalidateRecords(ctx, record, result)
	}
	return result, err
}

// UpdateTx updates a record within a transaction
func (c *CachedRepository[T]) UpdateTx(ctx context.Context, tx bun.IDB, record T, criteria ...repository.UpdateCriteria) (T, error) {
	result, err := c.base.UpdateTx(ctx, tx, record, criteria...)
	if err == nil {
		c.invalidateRecords(ctx, record, result)
	}
	return result, err
}

// UpdateMany updates multiple records
func (c *CachedRepository[T]) UpdateMany(ctx context.Context, records []T, criteria ...repository.UpdateCriteria) ([]T, error) {
	result, err := c.base.UpdateMany(ctx, records, criteria...)
	if err == nil {
		c.invalidateRecords(ctx, append(append([]T(nil), records...), result...)...)
	}
	return result, err
}

// UpdateManyTx updates multiple records within a transaction
func (c *CachedRepository[T]) UpdateManyTx(ctx context.Context, tx bun.IDB, records []T, criteria ...repository.UpdateCriteria) ([]T, error) {
	result, err := c.base.UpdateManyTx(ctx, tx, records, criteria...)
	if err == nil {
		c.invalidateRecords(ctx, append(append([]T(nil), records...), result...)...)
	}
	return result, err
}

// Upsert inserts or updates a record
func (c *CachedRepository[T]) Upsert(ctx context.Context, record T, criteria ...repository.UpdateCriteria) (T, error) {
	result, err := c.base.Upsert(ctx, record, criteria...)
	if err == nil {
		c.invalidateRecords(ctx, record, result)
	}
	return result, err
}

// UpsertTx inserts or updates a record within a transaction
func (c *CachedRepository[T]) UpsertTx(ctx context.Context, tx bun.IDB, record T, criteria ...repository.UpdateCriteria) (T, error) {
	result, err := c.base.UpsertTx(ctx, tx, record, criteria...)
	if err == nil {
		c.invalidateRecords(ctx, record, result)
	}
	return result, err
}

// UpsertMany inserts or updates multiple records
func (c *CachedRepository[T]) UpsertMany(ctx context.Context, records []T, criteria ...repository.UpdateCriteria) ([]T, error) {
	result, err := c.base.UpsertMany(ctx, records, criteria...)
	if err == nil {
		c.invalidateRecords(ctx, append(append([]T(nil), records...), result...)...)
	}
	return result, err
}

// UpsertManyTx inserts or updates multiple records within a transaction
func (c *CachedRepository[T]) UpsertManyTx(ctx context.Context, tx bun.IDB, records []T, criteria ...repository.UpdateCriteria) ([]T, error) {
	result, err := c.base.UpsertManyTx(ctx, tx, records, criteria...)
	if err == nil {
		c.invalidateRecords(ctx, append(append([]T(nil), records...), result...)...)
	}
	return result, err
}

// Delete deletes a record
func (c *CachedRepository[T]) Delete(ctx context.Context, record T) error {
	err := c.base.Delete(ctx, record)
	if err == nil {
		c.invalidateRecords(ctx, record)
	}
	return err
}

// DeleteTx deletes a record within a transaction
func (c *CachedRepository[T]) DeleteTx(ctx context.Context, tx bun.IDB, record T) error {
	err := c.base.DeleteTx(ctx, tx, record)
	if err == nil {
		c.invalidateRecords(ctx, record)
	}
	return err
}

// DeleteMany deletes multiple records based on criteria
func (c *CachedRepository[T]) DeleteMany(ctx context.Context, criteria ...repository.DeleteCriteria) error {
	err := c.base.DeleteMany(ctx, criteria...)
	if err == nil {
		c.invalidateAll(ctx)
	}
	return err
}

// DeleteManyTx deletes multiple records based on criteria within a transaction
func (c *CachedRepository[T]) DeleteManyTx(ctx context.Context, tx bun.IDB, criteria ...repository.DeleteCriteria) error {
	err := c.base.DeleteManyTx(ctx, tx, criteria...)
	if err == nil {
		c.invalidateAll(ctx)
	}
	return err
}

// DeleteWhere deletes records based on criteria
func (c *CachedRepository[T]) DeleteWhere(ctx context.Context, criteria ...repository.DeleteCriteria) error {
	err := c.base.DeleteWhere(ctx, criteria...)
	if err == nil {
		c.invalidateAll(ctx)
	}
	return err
}

// DeleteWhereTx deletes records based on criteria within a transaction
func (c *CachedRepository[T]) DeleteWhereTx(ctx context.Context, tx bun.IDB, criteria ...repository.DeleteCriteria) error {
	err := c.base.DeleteWhereTx(ctx, tx, criteria...)
	if err == nil {
		c.invalidateAll(ctx)
	}
	return err
}

// ForceDelete force deletes a record (bypassing soft delete)
func (c *CachedRepository[T]) ForceDelete(ctx context.Context, record T) error {
	err := c.base.ForceDelete(ctx, record)
	if err == nil {
		c.invalidateRecords(ctx, record)
	}
	return err
}

// ForceDeleteTx force deletes a record within a transaction (bypassing soft delete)
func (c *CachedRepository[T]) ForceDeleteTx(ctx context.Context, tx bun.IDB, record T) error {
	err := c.base.ForceDeleteTx(ctx, tx, record)
	if err == nil {
		c.invalidateRecords(ctx, record)
	}
	return err
}

func (c *CachedRepository[T]) GetTx(ctx context.Context, tx bun.IDB, criteria ...repository.SelectCriteria) (T, error) {
	return c.base.GetTx(ctx, tx, criteria...)
}

func (c *CachedRepository[T]) GetByIDTx(ctx context.Context, tx bun.IDB, id string, criteria ...repository.SelectCriteria) (T, error) {
	return c.base.GetByIDTx(ctx, tx, id, criteria...)
}

func (c *CachedRepository[T]) ListTx(ctx context.Context, tx bun.IDB, criteria ...repository.SelectCriteria) ([]T, int, error) {
	return c.base.ListTx(ctx, tx, criteria...)
}

func (c *CachedRepository[T]) CountTx(ctx context.Context, tx bun.IDB, criteria ...repository.SelectCriteria) (int, error) {
	return c.base.CountTx(ctx, tx, criteria...)
}

func (c *CachedRepository[T]) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (T, error) {
	return c.base.GetByIdentifierTx(ctx, tx, identifier, criteria...)
}

// Raw executes a raw SQL query. Results are never cached.
func (c *CachedRepository[T]) Raw(ctx context.Context, sql string, args ...any) ([]T, error) {
	return c.base.Raw(ctx, sql, args...)
}

func (c *CachedRepository[T]) RawTx(ctx context.Context, tx bun.IDB, sql string, args ...any) ([]T, error) {
	return c.base.RawTx(ctx, tx, sql, args...)
}

// Handlers returns the model handlers from the base repository
func (c *CachedRepository[T]) Handlers() repository.ModelHandlers[T] {
	return c.base.Handlers()
}

// Invalidate drops every entry in this repository's namespace, regardless
// of WithWriteInvalidation.
func (c *CachedRepository[T]) Invalidate(ctx context.Context) error {
	return c.deletePrefixes(ctx, c.opts.namespace)
}

func (c *CachedRepository[T]) prefix(op string, args ...string) string {
	p := c.opts.namespace + cache.KeySeparator + op
	for _, a := range args {
		p += cache.KeySeparator + a
	}
	return p
}

// deletePrefixes removes entries under each prefix from the cache and the
// registry. Every prefix is attempted; the errors are joined.
func (c *CachedRepository[T]) deletePrefixes(ctx context.Context, prefixes ...string) error {
	var errs []error
	for _, prefix := range prefixes {
		if err := c.cache.DeleteByPrefix(ctx, prefix); err != nil {
			errs = append(errs, fmt.Errorf("invalidate %q: %w", prefix, err))
			continue
		}
		c.keyRegistry.Range(func(key string, _ struct{}) bool {
			if cache.MatchesPrefix(key, prefix) {
				c.keyRegistry.Delete(key)
			}
			return true
		})
	}
	return errors.Join(errs...)
}

func (c *CachedRepository[T]) invalidate(ctx context.Context, prefixes ...string) {
	if !c.opts.invalidateOnWrite {
		return
	}
	if err := c.deletePrefixes(ctx, prefixes...); err != nil {
		c.opts.logger.WarnContext(ctx, "cache invalidation failed",
			"namespace", c.opts.namespace, "error", err)
	}
}

// invalidateAfterCreate drops query results; a new row cannot be cached by id yet.
func (c *CachedRepository[T]) invalidateAfterCreate(ctx context.Context) {
	c.invalidate(ctx,
		c.prefix(opList),
		c.prefix(opCount),
		c.prefix(opGet),
		c.prefix(opHashed),
	)
}

// invalidateRecords drops the id and identifier entries of each record plus
// every query result. Records whose id cannot be found fall back to
// dropping all id lookups.
func (c *CachedRepository[T]) invalidateRecords(ctx context.Context, records ...T) {
	prefixes := []string{
		c.prefix(opList),
		c.prefix(opCount),
		c.prefix(opGet),
		c.prefix(opHashed),
	}

	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			prefixes = append(prefixes, p)
		}
	}

	for _, record := range records {
		if id, err := extractID(record); err == nil {
			add(c.prefix(opGetByID, id))
		} else {
			add(c.prefix(opGetByID))
		}
		if identifier, err := extractIdentifier(record); err == nil {
			add(c.prefix(opGetByIdentifier, identifier))
		} else {
			add(c.prefix(opGetByIdentifier))
		}
	}

	c.invalidate(ctx, prefixes...)
}

func (c *CachedRepository[T]) invalidateAll(ctx context.Context) {
	c.invalidate(ctx, c.opts.namespace)
}

func recordValue(record any) (reflect.Value, bool) {
	v := reflect.ValueOf(record)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.Kind() == reflect.Struct
}

// extractID reads the record's ID field.
func extractID(record any) (string, error) {
	return extractField(record, "ID", "Id")
}

// extractIdentifier reads the field GetByIdentifier usually looks up by.
func extractIdentifier(record any) (string, error) {
	return extractField(record, "Identifier", "Slug", "Code", "Email", "Name")
}

func extractField(record any, names ...string) (string, error) {
	v, ok := recordValue(record)
	if !ok {
		return "", fmt.Errorf("record %T is not a struct", record)
	}
	for _, name := range names {
		field := v.FieldByName(name)
		if field.IsValid() && field.CanInterface() {
			s := fmt.Sprintf("%v", field.Interface())
			if s == "" {
				continue
			}
			return s, nil
		}
	}
	return "", fmt.Errorf("no %v field found in %T", names, record)
}
