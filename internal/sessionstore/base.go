package sessionstore

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bl815v/Tiendo/internal/logutil"
	"github.com/bl815v/Tiendo/pkg/models"
)

type baseSessionStore struct {
	log         *slog.Logger
	tokenLength int              // number of random bytes used when generating tokens
	ttl         time.Duration    // how long a session stays valid after creation
	now         func() time.Time // clock, replaced in tests
	stopCh      chan struct{}    // channel used to stop the cleanup of expired sessions
	stopOnce    sync.Once
}

func newBase(logger *slog.Logger, cfg config) *baseSessionStore {
	return &baseSessionStore{
		log:         logger,
		tokenLength: cfg.tokenLength,
		ttl:         cfg.ttl,
		now:         cfg.now,
		stopCh:      make(chan struct{}),
	}
}

// createSession generates a models.AdminSession for owner stamped with the current time.
// Returns a wrapped error if generating the token fails.
func (s *baseSessionStore) createSession(owner, originAddress string) (*models.AdminSession, error) {
	token, err := generateSecureToken(s.tokenLength)
	if err != nil {
		return nil, logutil.LogAndWrapErr(s.log, "failed to generate secure token", err)
	}

	return &models.AdminSession{
		Token:         token,
		Owner:         owner,
		CreatedAt:     s.now(),
		OriginAddress: originAddress,
	}, nil
}

func (s *baseSessionStore) expired(sess *models.AdminSession, now time.Time) bool {
	return sess.Age(now) > s.ttl
}

// generateSecureToken returns n random bytes encoded as unpadded URL-safe base64.
func generateSecureToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// expirable is implemented by session stores that support
// automatic cleanup of expired sessions.
type expirable interface {
	CleanupExpired(ctx context.Context) error
}

// startCleanupWorker starts a goroutine that periodically cleans up expired sessions.
// The interval specifies how often the cleanup should run.
func (s *baseSessionStore) startCleanupWorker(exp expirable, interval time.Duration) {
	s.log.Debug("Starting session cleanup worker", "interval", interval)
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cleanupCtx, cancel := context.WithTimeout(context.Background(), interval/2) // Give it a max half the interval
				err := exp.CleanupExpired(cleanupCtx)
				if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
					s.log.Error("failed to cleanup sessions", "err", err)
				}
				cancel()

			case <-s.stopCh:
				s.log.Info("Stopping session cleanup worker")
				return
			}
		}
	}()
}

// Close stops the cleanup worker. It is safe to call more than once.
func (s *baseSessionStore) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
