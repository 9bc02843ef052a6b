// Package dbtest opens throwaway migrated databases for store tests.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/bl815v/Tiendo/database"
	"github.com/bl815v/Tiendo/internal/db"
)

var counter atomic.Int64

// OpenSQLite returns a migrated in-memory SQLite database unique to the test.
// It is closed when the test ends.
func OpenSQLite(t testing.TB) *sql.DB {
	t.Helper()

	url := fmt.Sprintf("file:dbtest_%d?mode=memory&cache=shared", counter.Add(1))

	sqlDB, dialect, err := database.Open(context.Background(), url)
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.RunMigrations(context.Background(), sqlDB, dialect); err != nil {
		t.Fatalf("migrating sqlite: %v", err)
	}
	return sqlDB
}

// Dialect is the dialect of databases returned by OpenSQLite.
const Dialect = db.DialectSQLite
