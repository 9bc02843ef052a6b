// Package authstore persists storefront customers and checks their credentials.
package authstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/bl815v/Tiendo/internal/db"
	"github.com/bl815v/Tiendo/pkg/models"
	"github.com/bl815v/Tiendo/pkg/models/passwd"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown e-mail or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Store defines a unified interface for interacting with the customer datastore.
//
// All methods return error types defined in the models package
// (ValidationError, NotFoundError, DatabaseError); constraint violations are
// reachable through DatabaseError as db.DuplicateKeyError or db.ForeignKeyError.
type Store interface {
	// CheckEmailExists returns true if a customer with the specified e-mail exists.
	CheckEmailExists(ctx context.Context, email string) (bool, error)

	// Create hashes the password and inserts a new customer.
	// An e-mail that is already registered yields a DuplicateKeyError on "correo".
	Create(ctx context.Context, args models.CustomerParams) (*models.Customer, error)

	// List returns customers ordered by id.
	List(ctx context.Context, page models.Page) ([]*models.Customer, error)

	// Get retrieves a customer by id.
	Get(ctx context.Context, id int64) (*models.Customer, error)

	// GetByEmail retrieves a customer by e-mail.
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)

	// Update replaces a customer's fields. The password is re-hashed only when set.
	Update(ctx context.Context, id int64, args models.CustomerParams) (*models.Customer, error)

	// Delete removes a customer along with their carts and orders.
	Delete(ctx context.Context, id int64) error

	// Authenticate returns the customer whose e-mail and password match.
	Authenticate(ctx context.Context, email, password string) (*models.Customer, error)
}

type Option func(*sqlAuthStore)

// WithHasher sets the bcrypt cost used for new hashes.
func WithHasher(h passwd.Hasher) Option {
	return func(s *sqlAuthStore) {
		s.hasher = h
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *sqlAuthStore) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a customer store backed by sqlDB. The same SQL serves both
// dialects; placeholders are rebound for Postgres.
func New(sqlDB *sql.DB, dialect db.Dialect, logger *slog.Logger, opts ...Option) *sqlAuthStore {
	s := &sqlAuthStore{
		db:   sqlDB,
		conn: db.Conn{Q: sqlDB, Dialect: dialect},
		log:  logger,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
