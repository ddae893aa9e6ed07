package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/uptrace/bun"

	"github.com/Adyime/DadapperDaze-sub001/cache"
	"github.com/Adyime/DadapperDaze-sub001/internal/catalog"
	"github.com/Adyime/DadapperDaze-sub001/internal/config"
	"github.com/Adyime/DadapperDaze-sub001/internal/db"
	"github.com/Adyime/DadapperDaze-sub001/internal/httpapi"
	"github.com/Adyime/DadapperDaze-sub001/pkg/di"
	"github.com/Adyime/DadapperDaze-sub001/repositorycache"
)

// app is the fully wired storefront.
type app struct {
	db        *bun.DB
	container *di.Container
	catalog   *catalog.Service
	server    *httpapi.Server
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	conn, err := db.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if err := catalog.Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	codec, err := cache.CodecByName(cfg.Cache.Codec)
	if err != nil {
		conn.Close()
		return nil, err
	}

	containerOpts := []di.Option{di.WithLogger(logger), di.WithCodec(codec)}

	var gatherer prometheus.Gatherer
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics, err := cache.NewMetrics(cfg.Metrics.Namespace, registry)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("register cache metrics: %w", err)
		}
		containerOpts = append(containerOpts, di.WithMetrics(metrics))
		gatherer = registry
	}

	container, err := di.NewContainer(cfg.Cache.Engine(), containerOpts...)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("build cache: %w", err)
	}

	repos := catalog.NewRepositories(conn)
	repos.Products = di.NewCachedRepository(container, repos.Products,
		repositorycache.WithNamespace("product"),
		repositorycache.WithTTL(cfg.Cache.ProductTTL),
		repositorycache.WithWriteInvalidation(),
	)

	svc := catalog.NewService(catalog.Deps{
		Store: catalog.NewStore(conn),
		Repos: repos,
		Cache: container.CacheService(),
		Keys:  container.KeySerializer(),
	},
		catalog.WithCategoryTTL(cfg.Cache.CategoryTTL),
		catalog.WithProductTTL(cfg.Cache.ProductTTL),
		catalog.WithLogger(logger),
	)

	server := httpapi.New(httpapi.Config{
		Catalog:  svc,
		DB:       httpapi.PingFunc(conn.PingContext),
		Cache:    container.Reader(),
		APIKey:   cfg.Admin.APIKey,
		Gatherer: gatherer,
		Logger:   logger,
	})

	if cfg.Admin.APIKey == "" {
		logger.Warn("admin API key is not set, admin endpoints will reject every request")
	}

	return &app{db: conn, container: container, catalog: svc, server: server}, nil
}

// Close releases the cache and the database.
func (a *app) Close() error {
	return errors.Join(a.container.Close(), a.db.Close())
}
