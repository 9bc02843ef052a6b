package sessionstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/bl815v/Tiendo/internal/logutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable clock shared by the store and the test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T) (*inMemorySessionStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	s := NewInMemory(logutil.Discard(), WithClock(clock.Now), WithSweepInterval(0))
	t.Cleanup(s.Close)
	return s, clock
}

func TestCreate_TokenFormat(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()

	sess, err := s.Create(ctx, "admin", "127.0.0.1")
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(sess.Token)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
	assert.NotContains(t, sess.Token, "=")

	assert.Equal(t, "admin", sess.Owner)
	assert.Equal(t, "127.0.0.1", sess.OriginAddress)
	assert.Equal(t, clock.Now(), sess.CreatedAt)
}

func TestGet_UnknownToken(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, token := range []string{"", "nope", "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"} {
		_, err := s.Get(ctx, token)
		assert.True(t, errors.Is(err, &SessionNotFoundError{}), "token %q", token)
	}
}

func TestGet_DoesNotCheckExpiry(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()

	sess, err := s.Create(ctx, "admin", "")
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	got, err := s.Get(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Owner)
}

func TestValidate_ExpiryBoundary(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()

	sess, err := s.Create(ctx, "admin", "")
	require.NoError(t, err)

	clock.Advance(3599 * time.Second)
	got, err := s.Validate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.Token, got.Token)

	// exactly at the TTL is still valid
	clock.Advance(time.Second)
	_, err = s.Validate(ctx, sess.Token)
	require.NoError(t, err)

	clock.Advance(time.Second)
	_, err = s.Validate(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = s.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, &SessionNotFoundError{}, "expired session should be removed")

	_, err = s.Validate(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	sess, err := s.Create(ctx, "admin", "")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, sess.Token))
	_, err = s.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, &SessionNotFoundError{})
	_, err = s.Validate(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	// deleting again is a no-op
	assert.NoError(t, s.Delete(ctx, sess.Token))
	assert.NoError(t, s.Delete(ctx, "never-issued"))
}

func TestCleanupExpired(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()

	old, err := s.Create(ctx, "old", "")
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)
	fresh, err := s.Create(ctx, "fresh", "")
	require.NoError(t, err)

	clock.Advance(31 * time.Minute)
	require.NoError(t, s.CleanupExpired(ctx))

	assert.Equal(t, 1, s.Len())
	_, err = s.Get(ctx, old.Token)
	assert.Error(t, err)
	_, err = s.Get(ctx, fresh.Token)
	assert.NoError(t, err)
}

func TestConcurrentCreate(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	const n = 50
	tokens := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, err := s.Create(ctx, "admin", "")
			if err == nil {
				tokens[i] = sess.Token
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for _, tok := range tokens {
		require.NotEmpty(t, tok)
		_, dup := seen[tok]
		require.False(t, dup, "duplicate token issued")
		seen[tok] = struct{}{}

		_, err := s.Validate(ctx, tok)
		assert.NoError(t, err)
	}
}

func TestConcurrentValidateAndDelete(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()

	sess, err := s.Create(ctx, "admin", "")
	require.NoError(t, err)
	clock.Advance(2 * time.Hour)

	var wg sync.WaitGroup
	results := make(chan error, 20)
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.Validate(ctx, sess.Token)
			results <- err
		}()
		go func() {
			defer wg.Done()
			_ = s.Delete(ctx, sess.Token)
		}()
	}
	wg.Wait()
	close(results)

	expiredCount := 0
	for err := range results {
		require.Error(t, err)
		if errors.Is(err, ErrSessionExpired) {
			expiredCount++
		} else {
			assert.ErrorIs(t, err, ErrInvalidSession)
		}
	}
	assert.LessOrEqual(t, expiredCount, 1)
	assert.Equal(t, 0, s.Len())
}

func TestCancelledContext(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Create(ctx, "admin", "")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.Validate(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Delete(ctx, "x"), context.Canceled)
}

func TestCleanupWorker(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	s := NewInMemory(logutil.Discard(), WithClock(clock.Now), WithSweepInterval(10*time.Millisecond))
	defer s.Close()

	_, err := s.Create(context.Background(), "admin", "")
	require.NoError(t, err)
	clock.Advance(2 * time.Hour)

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 10*time.Millisecond)

	// Close is idempotent
	s.Close()
}

func TestWithTTL(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	s := NewInMemory(logutil.Discard(), WithClock(clock.Now), WithSweepInterval(0), WithTTL(time.Minute))
	defer s.Close()

	sess, err := s.Create(context.Background(), "admin", "")
	require.NoError(t, err)
	clock.Advance(61 * time.Second)
	_, err = s.Validate(context.Background(), sess.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestNewInMemory_LogsThroughGivenLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := NewInMemory(logger, WithSweepInterval(0))
	t.Cleanup(s.Close)

	_, err := s.Create(context.Background(), "admin", "127.0.0.1:5000")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "creating session")
	assert.Same(t, logger, s.log)
}
