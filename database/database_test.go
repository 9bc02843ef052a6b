package database

import (
	"context"
	"testing"

	"github.com/bl815v/Tiendo/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantDriver  string
		wantDSN     string
		wantDialect db.Dialect
		wantErr     bool
	}{
		{"postgres", "postgres://u:p@localhost:5432/tiendo", "pgx", "postgres://u:p@localhost:5432/tiendo", db.DialectPostgres, false},
		{"postgresql", "postgresql://u@db/tiendo?sslmode=disable", "pgx", "postgresql://u@db/tiendo?sslmode=disable", db.DialectPostgres, false},
		{"sqlite scheme", "sqlite://tiendo.db", "sqlite3", "file:tiendo.db?_foreign_keys=on&_busy_timeout=5000", db.DialectSQLite, false},
		{"sqlite absolute", "sqlite:///var/lib/tiendo.db", "sqlite3", "file:/var/lib/tiendo.db?_foreign_keys=on&_busy_timeout=5000", db.DialectSQLite, false},
		{"file with params", "file:x?mode=memory&cache=shared", "sqlite3", "file:x?mode=memory&cache=shared&_foreign_keys=on&_busy_timeout=5000", db.DialectSQLite, false},
		{"bare path", "./data/tiendo.db", "sqlite3", "file:./data/tiendo.db?_foreign_keys=on&_busy_timeout=5000", db.DialectSQLite, false},
		{"keeps explicit fk", "file:x.db?_fk=1", "sqlite3", "file:x.db?_fk=1&_busy_timeout=5000", db.DialectSQLite, false},
		{"empty", "  ", "", "", "", true},
		{"mysql", "mysql://root@localhost/tiendo", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, dsn, dialect, err := ParseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantDSN, dsn)
			assert.Equal(t, tt.wantDialect, dialect)
		})
	}
}

func TestOpenAndMigrateSQLite(t *testing.T) {
	ctx := context.Background()
	sqlDB, dialect, err := Open(ctx, "file:database_test_migrate?mode=memory&cache=shared")
	require.NoError(t, err)
	defer sqlDB.Close()
	assert.Equal(t, db.DialectSQLite, dialect)

	require.NoError(t, RunMigrations(ctx, sqlDB, dialect))
	// A second run is a no-op.
	require.NoError(t, RunMigrations(ctx, sqlDB, dialect))
	// the pool stays open and nothing is held by the migrator
	require.NoError(t, sqlDB.PingContext(ctx))
	assert.Zero(t, sqlDB.Stats().InUse)

	for _, table := range []string{"categoria", "producto", "cliente", "carrito", "detalle_carrito", "pedido", "detalle_pedido", "pago", "envio"} {
		var name string
		err := sqlDB.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
	}

	var fk int
	require.NoError(t, sqlDB.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestRunMigrations_UnknownDialect(t *testing.T) {
	assert.Error(t, RunMigrations(context.Background(), nil, db.Dialect("mysql")))
}
