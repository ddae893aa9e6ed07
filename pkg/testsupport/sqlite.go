package testsupport

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var dbCounter atomic.Int64

// MemoryDSN returns a DSN for a private, shared-cache in-memory database.
// Each call yields a new database.
func MemoryDSN(t testing.TB) string {
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	return fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, dbCounter.Add(1))
}

// NewSQLiteDB opens an in-memory SQLite database, runs each migration on it
// and closes it when the test ends.
func NewSQLiteDB(t testing.TB, migrations ...func(context.Context, bun.IDB) error) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", MemoryDSN(t))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	// The database lives as long as one connection holds it open.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	for _, migrate := range migrations {
		if err := migrate(context.Background(), db); err != nil {
			t.Fatalf("failed to migrate test database: %v", err)
		}
	}
	return db
}

// SeedJSON inserts every record decoded from a JSON fixture. dest must be
// a pointer to a slice of bun models.
func SeedJSON(t testing.TB, db bun.IDB, path string, dest any) {
	t.Helper()

	LoadFixtureJSON(t, path, dest)
	if _, err := db.NewInsert().Model(dest).Exec(context.Background()); err != nil {
		t.Fatalf("failed to seed %s: %v", path, err)
	}
}
