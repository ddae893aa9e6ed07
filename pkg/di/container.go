package di

import (
	"log/slog"
	"sync"

	repository "github.com/goliatone/go-repository-bun"

	"github.com/Adyime/DadapperDaze-sub001/cache"
	"github.com/Adyime/DadapperDaze-sub001/repositorycache"
)

// Container wires the cache components a process shares: one store, one
// reader over it and one key serializer. Repositories built through
// NewCachedRepository all read and invalidate through the same reader.
type Container struct {
	store         cache.Store
	reader        *cache.Reader
	keySerializer cache.KeySerializer
	config        cache.Config
	logger        *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

type containerOptions struct {
	logger        *slog.Logger
	codec         cache.Codec
	metrics       *cache.Metrics
	store         cache.Store
	keySerializer cache.KeySerializer
}

// Option configures a Container.
type Option func(*containerOptions)

func WithLogger(logger *slog.Logger) Option {
	return func(o *containerOptions) {
		o.logger = logger
	}
}

func WithCodec(codec cache.Codec) Option {
	return func(o *containerOptions) {
		o.codec = codec
	}
}

func WithMetrics(m *cache.Metrics) Option {
	return func(o *containerOptions) {
		o.metrics = m
	}
}

// WithStore uses store instead of building one from the config. The
// container still closes it.
func WithStore(store cache.Store) Option {
	return func(o *containerOptions) {
		o.store = store
	}
}

func WithKeySerializer(ks cache.KeySerializer) Option {
	return func(o *containerOptions) {
		o.keySerializer = ks
	}
}

// NewContainer builds the store described by config and a reader over it.
func NewContainer(config cache.Config, opts ...Option) (*Container, error) {
	o := containerOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	store := o.store
	if store == nil {
		var err error
		if store, err = cache.NewStore(config, o.logger); err != nil {
			return nil, err
		}
	}

	keySerializer := o.keySerializer
	if keySerializer == nil {
		keySerializer = cache.NewDefaultKeySerializer()
	}

	reader := cache.NewReader(store,
		cache.WithLogger(o.logger),
		cache.WithCodec(o.codec),
		cache.WithMetrics(o.metrics),
	)

	return &Container{
		store:         store,
		reader:        reader,
		keySerializer: keySerializer,
		config:        config,
		logger:        o.logger,
	}, nil
}

// NewContainerWithDefaults builds an in-memory container with default settings.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(cache.DefaultConfig())
}

// CacheService returns the shared reader as a CacheService.
func (c *Container) CacheService() cache.CacheService {
	return c.reader
}

// Reader returns the shared reader, for callers that need Ping.
func (c *Container) Reader() *cache.Reader {
	return c.reader
}

func (c *Container) Store() cache.Store {
	return c.store
}

func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Config returns a copy of the configuration the container was built with.
func (c *Container) Config() cache.Config {
	return c.config
}

// Close closes the store. It is safe to call more than once.
func (c *Container) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.store.Close()
	})
	return c.closeErr
}

// NewCachedRepository wraps base in a read-through cache backed by the
// container's reader and key serializer.
//
// Go methods cannot have type parameters, so this is a package-level function:
//
//	products := di.NewCachedRepository(container, repos.Products, repositorycache.WithWriteInvalidation())
func NewCachedRepository[T any](container *Container, base repository.Repository[T], opts ...repositorycache.Option) *repositorycache.CachedRepository[T] {
	opts = append([]repositorycache.Option{repositorycache.WithLogger(container.logger)}, opts...)
	return repositorycache.New(base, container.reader, container.keySerializer, opts...)
}
