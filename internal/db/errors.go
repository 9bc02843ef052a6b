package db

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// DuplicateKeyError represents a database constraint violation error
type DuplicateKeyError struct {
	Field string // The field that caused the constraint violation
	Value string // The value that was duplicated (optional, might be sensitive)
	err   error  // The underlying database error
}

func (e *DuplicateKeyError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("duplicate key violation: %s already exists", e.Field)
	}
	return "duplicate key violation"
}

// Unwrap returns the underlying error for error chain support
func (e *DuplicateKeyError) Unwrap() error {
	return e.err
}

// GetField returns the field that caused the violation
func (e *DuplicateKeyError) GetField() string {
	return e.Field
}

// NewDuplicateKeyError creates a new DuplicateKeyError
func NewDuplicateKeyError(field string, err error) error {
	return &DuplicateKeyError{
		Field: field,
		err:   err,
	}
}

// ForeignKeyError is returned when a write references a row that does not exist.
type ForeignKeyError struct {
	Constraint string
	err        error
}

func (e *ForeignKeyError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("foreign key violation: %s", e.Constraint)
	}
	return "foreign key violation"
}

func (e *ForeignKeyError) Unwrap() error {
	return e.err
}

func NewForeignKeyError(constraint string, err error) error {
	return &ForeignKeyError{Constraint: constraint, err: err}
}

// WrapErrorIfDuplicateConstraint reports whether err is a unique violation
// from either driver and, if so, returns it wrapped in a DuplicateKeyError.
func WrapErrorIfDuplicateConstraint(err error) (bool, error) {
	var sqliteErr sqlite3.Error
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique:
		return true, NewDuplicateKeyError(extractViolatedFieldFromSQLite(err), err)
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation:
		return true, NewDuplicateKeyError(extractViolatedFieldFromPostgres(pgErr), err)
	default:
		return false, err
	}
}

// WrapErrorIfForeignKeyConstraint is the foreign key counterpart of
// WrapErrorIfDuplicateConstraint.
func WrapErrorIfForeignKeyConstraint(err error) (bool, error) {
	var sqliteErr sqlite3.Error
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey:
		return true, NewForeignKeyError("", err)
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation:
		return true, NewForeignKeyError(pgErr.ConstraintName, err)
	default:
		return false, err
	}
}

// WrapConstraintError converts driver constraint violations into
// DuplicateKeyError or ForeignKeyError and returns other errors unchanged.
func WrapConstraintError(err error) error {
	if err == nil {
		return nil
	}
	if ok, wrapped := WrapErrorIfDuplicateConstraint(err); ok {
		return wrapped
	}
	if ok, wrapped := WrapErrorIfForeignKeyConstraint(err); ok {
		return wrapped
	}
	return err
}

// IsConstraintError reports whether err is a DuplicateKeyError or ForeignKeyError.
func IsConstraintError(err error) bool {
	var dup *DuplicateKeyError
	var fk *ForeignKeyError
	return errors.As(err, &dup) || errors.As(err, &fk)
}

// A pre-compiled regex to find the column name from a SQLite unique constraint error.
// It looks for the pattern "table.column" at the end of the error string.
var sqliteUniqueConstraintRegex = regexp.MustCompile(`UNIQUE constraint failed: \w+\.(\w+)`)

// ExtractViolatedFieldFromSQLite attempts to parse the column name from a SQLite error.
func extractViolatedFieldFromSQLite(err error) string {
	// e.g., ["UNIQUE constraint failed: cliente.correo", "correo"]
	matches := sqliteUniqueConstraintRegex.FindStringSubmatch(err.Error())

	if len(matches) > 1 {
		return matches[1]
	}

	return "unknown"
}

// Postgres reports "Key (correo)=(ana@example.com) already exists." in Detail.
var postgresKeyDetailRegex = regexp.MustCompile(`Key \((\w+)\)=`)

func extractViolatedFieldFromPostgres(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if matches := postgresKeyDetailRegex.FindStringSubmatch(pgErr.Detail); len(matches) > 1 {
		return matches[1]
	}
	return "unknown"
}
