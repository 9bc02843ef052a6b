// Package store assembles the storefront's datastores over one database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bl815v/Tiendo/database"
	"github.com/bl815v/Tiendo/internal/authstore"
	"github.com/bl815v/Tiendo/internal/db"
	"github.com/bl815v/Tiendo/internal/logutil"
	"github.com/bl815v/Tiendo/internal/sessionstore"
	"github.com/bl815v/Tiendo/internal/shopstore"
	"github.com/bl815v/Tiendo/internal/tokenstore"
)

type Store struct {
	db      *sql.DB
	log     *slog.Logger
	dialect db.Dialect

	Auth    authstore.Store
	Shop    shopstore.Store
	Session sessionstore.Store
	Token   tokenstore.TokenStore
}

// Config tunes the stores that do not live in the database.
type Config struct {
	// SessionSweepInterval is how often expired admin sessions are swept.
	// Zero uses sessionstore.DefaultSweepInterval; a negative value disables the sweep.
	SessionSweepInterval time.Duration
	// JWTSecret signs customer tokens. Empty means a random per-process key.
	JWTSecret     string
	TokenDuration time.Duration
}

// New initializes and returns a Store with every subcomponent (Auth, Shop,
// Session, Token) bound to sqlDB. It also runs the database migrations the
// stores need.
//
// Params:
//   - ctx: bounds the migration run
//   - sqlDB: a live database connection
//   - dialect: the SQL backend of sqlDB, used to pick migrations and placeholders
//   - log: a slog.Logger pointer instance used for logging
//   - cfg: session and token settings
//
// Example:
//
//	st, err := New(ctx, sqlDB, db.DialectSQLite, logger, Config{})
func New(ctx context.Context, sqlDB *sql.DB, dialect db.Dialect, log *slog.Logger, cfg Config) (*Store, error) {
	if !dialect.IsValid() {
		return nil, errors.New("unknown database type")
	}

	s := &Store{
		db:      sqlDB,
		log:     log,
		dialect: dialect,
	}

	if err := s.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("unable to run migrations: %w", err)
	}

	token, err := tokenstore.New(log, cfg.JWTSecret, cfg.TokenDuration)
	if err != nil {
		return nil, err
	}

	var sessOpts []sessionstore.Option
	switch {
	case cfg.SessionSweepInterval < 0:
		sessOpts = append(sessOpts, sessionstore.WithSweepInterval(0))
	case cfg.SessionSweepInterval > 0:
		sessOpts = append(sessOpts, sessionstore.WithSweepInterval(cfg.SessionSweepInterval))
	}

	s.Auth = authstore.New(sqlDB, dialect, log)
	s.Shop = shopstore.New(sqlDB, dialect, log)
	s.Session = sessionstore.NewInMemory(log, sessOpts...)
	s.Token = token

	return s, nil
}

// Open connects to databaseURL and returns the assembled Store. Close
// releases both the sessions worker and the connection.
func Open(ctx context.Context, databaseURL string, log *slog.Logger, cfg Config) (*Store, error) {
	sqlDB, dialect, err := database.Open(ctx, databaseURL)
	if err != nil {
		return nil, logutil.LogAndWrapErr(log, "unable to open database", err)
	}
	log.Debug("successfully connected to database", "dialect", dialect)

	s, err := New(ctx, sqlDB, dialect, log, cfg)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) RunMigrations(ctx context.Context) error {
	return logutil.LogDurationWithError(s.log, "ran database migrations", func() error {
		return database.RunMigrations(ctx, s.db, s.dialect)
	}, "dialect", s.dialect)
}

func (s *Store) Dialect() db.Dialect {
	return s.dialect
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close stops the session sweep and closes the database.
func (s *Store) Close() error {
	if s.Session != nil {
		s.Session.Close()
	}
	return s.db.Close()
}
