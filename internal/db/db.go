// Package db opens the catalog database as a bun.DB for the configured driver.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/Adyime/DadapperDaze-sub001/internal/config"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
	pingTimeout            = 5 * time.Second
)

// Open connects to the database described by cfg and verifies it with a ping.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*bun.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sqldb, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s connection: %w", cfg.Driver, err)
	}

	var db *bun.DB
	switch cfg.Driver {
	case DriverSQLite:
		// SQLite serializes writers; a single connection also keeps
		// in-memory databases alive and shared.
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case DriverPostgres:
		sqldb.SetMaxOpenConns(defaultMaxOpenConns)
		sqldb.SetMaxIdleConns(defaultMaxIdleConns)
		sqldb.SetConnMaxLifetime(defaultConnMaxLifetime)
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		sqldb.Close()
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", cfg.Driver, err)
	}

	if cfg.Debug {
		db.AddQueryHook(&QueryLogger{Logger: logger})
	}

	logger.Info("database ready", "driver", cfg.Driver, "dsn", redactDSN(cfg.DSN))
	return db, nil
}

// QueryLogger is a bun.QueryHook that logs every query at DEBUG and failed
// queries at WARN.
type QueryLogger struct {
	Logger *slog.Logger
}

var _ bun.QueryHook = (*QueryLogger)(nil)

func (h *QueryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryLogger) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	attrs := []any{
		"operation", event.Operation(),
		"query", event.Query,
		"duration", time.Since(event.StartTime),
	}
	if event.Err != nil && event.Err != sql.ErrNoRows {
		h.Logger.WarnContext(ctx, "query failed", append(attrs, "error", event.Err)...)
		return
	}
	h.Logger.DebugContext(ctx, "query", attrs...)
}

// redactDSN hides the password of URL-style DSNs.
func redactDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	userinfo, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	user, _, hasPassword := strings.Cut(userinfo, ":")
	if !hasPassword {
		return dsn
	}
	return scheme + "://" + user + ":xxxxx@" + host
}
