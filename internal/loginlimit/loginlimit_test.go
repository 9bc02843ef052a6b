package loginlimit

import (
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bl815v/Tiendo/internal/logutil"
	"github.com/stretchr/testify/assert"
)

func TestLimiter_BlocksAfterMaxFailures(t *testing.T) {
	l := New(logutil.Discard(), 3, time.Minute)

	for i := 1; i <= 3; i++ {
		assert.True(t, l.Attempt("10.0.0.1"), "attempt %d", i)
	}
	assert.False(t, l.Attempt("10.0.0.1"))
	assert.True(t, l.Attempt("10.0.0.2"), "other addresses are unaffected")

	l.Reset("10.0.0.1")
	assert.True(t, l.Attempt("10.0.0.1"))
}

func TestLimiter_WindowExpires(t *testing.T) {
	l := New(logutil.Discard(), 1, 20*time.Millisecond)

	assert.True(t, l.Attempt("k"))
	assert.False(t, l.Attempt("k"))

	assert.Eventually(t, func() bool { return l.Attempt("k") }, time.Second, 5*time.Millisecond)
}

func TestLimiter_ConcurrentAttemptsNeverExceedMax(t *testing.T) {
	const maxAttempts = 5
	l := New(logutil.Discard(), maxAttempts, time.Minute)

	var (
		wg      sync.WaitGroup
		allowed atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Attempt("203.0.113.7") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, maxAttempts, allowed.Load())
}

func TestNew_Defaults(t *testing.T) {
	l := New(logutil.Discard(), 0, 0)
	assert.Equal(t, DefaultMaxFailures, l.maxFailures)
	assert.Equal(t, DefaultWindow, l.window)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.168.1.9:51234"
	assert.Equal(t, "192.168.1.9", ClientIP(r))

	r.RemoteAddr = "[::1]:8000"
	assert.Equal(t, "::1", ClientIP(r))

	r.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", ClientIP(r))
}
