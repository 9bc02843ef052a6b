package sessionstore

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bl815v/Tiendo/pkg/models"
)

type inMemorySessionStore struct {
	*baseSessionStore
	sessions map[string]*models.AdminSession // token -> session
	mutex    *sync.Mutex
}

// NewInMemory returns a session store that keeps everything in a map.
// Nothing survives a restart.
func NewInMemory(logger *slog.Logger, opts ...Option) *inMemorySessionStore {
	cfg := config{
		tokenLength:   defaultTokenLength,
		ttl:           DefaultTTL,
		sweepInterval: DefaultSweepInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &inMemorySessionStore{
		baseSessionStore: newBase(logger, cfg),
		sessions:         make(map[string]*models.AdminSession),
		mutex:            new(sync.Mutex),
	}

	if cfg.sweepInterval > 0 {
		s.startCleanupWorker(s, cfg.sweepInterval)
	}
	return s
}

func (s *inMemorySessionStore) Create(ctx context.Context, owner, originAddress string) (*models.AdminSession, error) {
	s.log.Debug("creating session", "owner", owner)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	// Check for context cancellation/deadline early.
	select {
	case <-ctx.Done():
		s.log.Info("context cancelled during session creation", "error", ctx.Err())
		return nil, ctx.Err()
	default:
	}

	session, err := s.createSession(owner, originAddress)
	if err != nil {
		return nil, err
	}
	s.sessions[session.Token] = session

	s.log.Debug("created session", "owner", owner, "origin", originAddress)
	return copySession(session), nil
}

func (s *inMemorySessionStore) Get(ctx context.Context, token string) (*models.AdminSession, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	select {
	case <-ctx.Done():
		s.log.Info("context cancelled during session get", "error", ctx.Err())
		return nil, ctx.Err()
	default:
	}

	sess, ok := s.sessions[token]
	if !ok {
		return nil, &SessionNotFoundError{Token: token}
	}

	return copySession(sess), nil
}

func (s *inMemorySessionStore) Delete(ctx context.Context, token string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	select {
	case <-ctx.Done():
		s.log.Info("context cancelled during session delete", "error", ctx.Err())
		return ctx.Err()
	default:
	}

	if sess, ok := s.sessions[token]; ok {
		delete(s.sessions, token)
		s.log.Debug("deleted session", "owner", sess.Owner)
	}
	return nil
}

func (s *inMemorySessionStore) Validate(ctx context.Context, token string) (*models.AdminSession, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	select {
	case <-ctx.Done():
		s.log.Info("context cancelled during session validate", "error", ctx.Err())
		return nil, ctx.Err()
	default:
	}

	sess, ok := s.sessions[token]
	if !ok {
		return nil, ErrInvalidSession
	}

	if s.expired(sess, s.now()) {
		delete(s.sessions, token)
		s.log.Debug("removed expired session", "owner", sess.Owner)
		return nil, &SessionExpiredError{Token: token}
	}

	return copySession(sess), nil
}

func (s *inMemorySessionStore) CleanupExpired(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	select {
	case <-ctx.Done():
		s.log.Info("context cancelled during session cleanup", "error", ctx.Err())
		return ctx.Err()
	default:
	}

	now := s.now()
	removed := 0
	for k, v := range s.sessions {
		if s.expired(v, now) {
			delete(s.sessions, k)
			removed++
		}
	}
	if removed > 0 {
		s.log.Debug("deleted expired sessions", "count", removed)
	}
	return nil
}

// Len reports how many sessions are held, expired or not.
func (s *inMemorySessionStore) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.sessions)
}

func copySession(s *models.AdminSession) *models.AdminSession {
	c := *s
	return &c
}
