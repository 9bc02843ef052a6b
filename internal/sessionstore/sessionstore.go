// Package sessionstore keeps admin sessions in process memory.
package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bl815v/Tiendo/pkg/models"
)

const (
	DefaultTTL           = time.Hour
	DefaultSweepInterval = 5 * time.Minute
	defaultTokenLength   = 32
)

// Store defines the interface for an admin session store.
type Store interface {
	// Create generates a new session for owner, stores it, and returns it.
	Create(ctx context.Context, owner, originAddress string) (*models.AdminSession, error)

	// Get retrieves a session by token without checking expiry.
	Get(ctx context.Context, token string) (*models.AdminSession, error)

	// Delete removes a session. Unknown tokens are not an error.
	Delete(ctx context.Context, token string) error

	// Validate returns the session if it exists and has not outlived the TTL.
	// An expired session is removed before ErrSessionExpired is returned.
	Validate(ctx context.Context, token string) (*models.AdminSession, error)

	// CleanupExpired removes all sessions older than the TTL.
	CleanupExpired(ctx context.Context) error

	// Close stops any background cleanup.
	Close()
}

type config struct {
	tokenLength   int
	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time
}

type Option func(*config)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithSweepInterval sets how often expired sessions are swept.
// Zero disables the background sweep.
func WithSweepInterval(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.sweepInterval = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// ErrInvalidSession is returned by Validate for a token the store does not hold.
var ErrInvalidSession = errors.New("invalid session")

var ErrSessionExpired = &SessionExpiredError{}

// SessionExpiredError reports a token that existed but outlived the TTL.
type SessionExpiredError struct {
	Token string
}

func (e *SessionExpiredError) Error() string {
	return "session has expired"
}

func (e *SessionExpiredError) Is(target error) bool {
	_, ok := target.(*SessionExpiredError)
	return ok
}

// SessionNotFoundError is returned by Get for an unknown token.
type SessionNotFoundError struct {
	Token string
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("session not found (token length %d)", len(e.Token))
}

func (e *SessionNotFoundError) Is(target error) bool {
	_, ok := target.(*SessionNotFoundError)
	return ok
}
