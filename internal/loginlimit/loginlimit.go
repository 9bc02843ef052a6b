// Package loginlimit throttles failed admin logins per client address.
package loginlimit

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultMaxFailures = 5
	DefaultWindow      = 15 * time.Minute
)

// Limiter counts login attempts per key inside a fixed window that starts
// at the first attempt. Successful logins clear the count.
type Limiter struct {
	failures    *cache.Cache
	maxFailures int
	window      time.Duration
	log         *slog.Logger
}

// New returns a Limiter that blocks a key after maxFailures unsuccessful
// attempts within window. Non-positive values fall back to the defaults.
func New(logger *slog.Logger, maxFailures int, window time.Duration) *Limiter {
	if maxFailures <= 0 {
		maxFailures = DefaultMaxFailures
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		failures:    cache.New(window, window),
		maxFailures: maxFailures,
		window:      window,
		log:         logger,
	}
}

// Attempt records a login attempt for key and reports whether it may go
// ahead. The count is taken and compared in one step, so concurrent attempts
// cannot slip past maxFailures. A successful login should call Reset.
func (l *Limiter) Attempt(key string) bool {
	n := l.incr(key)
	if n == l.maxFailures+1 {
		l.log.Warn("login attempts blocked", "key", key, "attempts", n, "window", l.window)
	}
	return n <= l.maxFailures
}

func (l *Limiter) incr(key string) int {
	if err := l.failures.Add(key, 1, l.window); err == nil {
		return 1
	}
	n, err := l.failures.IncrementInt(key, 1)
	if err != nil {
		// expired between Add and IncrementInt
		l.failures.Set(key, 1, l.window)
		return 1
	}
	return n
}

// Reset forgets the failures of key, after a successful login.
func (l *Limiter) Reset(key string) {
	l.failures.Delete(key)
}

// ClientIP returns the host part of the request's remote address.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
