package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/bl815v/Tiendo/internal/db"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql
var sqliteMigrations embed.FS

//go:embed migrations/postgres/*.sql
var postgresMigrations embed.FS

// RunMigrations applies all pending schema migrations for the given dialect.
//
// Migrations are embedded under migrations/<dialect>. If the database is
// already up to date it returns nil. On Postgres the migration runs on a
// dedicated connection that goes back to the pool when it is done; sqlDB
// itself stays open.
//
// Typical usage:
//
//	if err := RunMigrations(ctx, sqlDB, db.DialectSQLite); err != nil {
//	    log.Fatalf("migration failed: %v", err)
//	}
func RunMigrations(ctx context.Context, sqlDB *sql.DB, dialect db.Dialect) error {
	var (
		driver database.Driver
		files  embed.FS
		dir    string
		dbName string
		err    error
	)

	switch dialect {
	case db.DialectSQLite:
		driver, err = sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
		files, dir, dbName = sqliteMigrations, "migrations/sqlite", "sqlite3"
	case db.DialectPostgres:
		var conn *sql.Conn
		conn, err = sqlDB.Conn(ctx)
		if err != nil {
			return fmt.Errorf("acquiring migration connection: %w", err)
		}
		defer conn.Close()
		driver, err = pgxmigrate.WithConnection(ctx, conn, &pgxmigrate.Config{})
		files, dir, dbName = postgresMigrations, "migrations/postgres", "pgx5"
	default:
		return fmt.Errorf("unknown database type %q", dialect)
	}
	if err != nil {
		return err
	}

	source, err := iofs.New(files, dir)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", source, dbName, driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}
