package db

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Dialect identifies the SQL backend behind a *sql.DB.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

func (d Dialect) IsValid() bool {
	return d == DialectSQLite || d == DialectPostgres
}

// Rebind rewrites ? placeholders to $1, $2, ... for Postgres. Question marks
// inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Conn binds a Querier to its dialect so callers can write ? placeholders.
type Conn struct {
	Q       Querier
	Dialect Dialect
}

func (c Conn) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.Q.ExecContext(ctx, c.Dialect.Rebind(query), args...)
}

func (c Conn) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.Q.QueryContext(ctx, c.Dialect.Rebind(query), args...)
}

func (c Conn) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return c.Q.QueryRowContext(ctx, c.Dialect.Rebind(query), args...)
}

// InTx runs fn inside a transaction, committing on success and rolling back
// on error or panic.
func InTx(ctx context.Context, sqlDB *sql.DB, d Dialect, fn func(Conn) error) (err error) {
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(Conn{Q: tx, Dialect: d}); err != nil {
		return err
	}
	return tx.Commit()
}

// UTC normalises a timestamp before it is written so both backends compare
// stored values consistently.
func UTC(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// NullString converts an optional string to a driver value.
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func NullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func NullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: UTC(*t), Valid: true}
}

// StringPtr converts a scanned nullable string back to an optional value.
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func Int64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

func TimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}
