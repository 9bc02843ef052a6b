// Package launcher runs the storefront as a desktop application: it starts
// the server, waits until it answers and opens it in the system browser.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/pkg/browser"
)

const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultStartTimeout = 10 * time.Second
)

// ErrStartTimeout is returned when the server never answered in time.
var ErrStartTimeout = errors.New("server did not start in time")

// ServeFunc runs the HTTP server until ctx is cancelled.
type ServeFunc func(ctx context.Context) error

type Launcher struct {
	log          *slog.Logger
	client       *http.Client
	open         func(url string) error
	pollInterval time.Duration
	startTimeout time.Duration
}

type Option func(*Launcher)

func WithPollInterval(d time.Duration) Option {
	return func(l *Launcher) { l.pollInterval = d }
}

func WithStartTimeout(d time.Duration) Option {
	return func(l *Launcher) { l.startTimeout = d }
}

// WithOpener replaces the system browser, mostly for tests.
func WithOpener(open func(url string) error) Option {
	return func(l *Launcher) { l.open = open }
}

func New(logger *slog.Logger, opts ...Option) *Launcher {
	l := &Launcher{
		log:          logger,
		client:       &http.Client{Timeout: time.Second},
		open:         browser.OpenURL,
		pollInterval: DefaultPollInterval,
		startTimeout: DefaultStartTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WaitForServer polls url until it answers 200 or the start timeout passes.
func (l *Launcher) WaitForServer(ctx context.Context, url string) error {
	probe := func() (int, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return 0, backoff.Permanent(err)
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return 0, err
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return resp.StatusCode, nil
	}

	_, err := backoff.Retry(ctx, probe,
		backoff.WithBackOff(backoff.NewConstantBackOff(l.pollInterval)),
		backoff.WithMaxElapsedTime(l.startTimeout),
	)
	if err != nil {
		l.log.Debug("server readiness probe failed", "url", url, "error", err)
		return ErrStartTimeout
	}
	return nil
}

// Run starts serve in the background, opens url once the server is ready and
// blocks until the server stops or ctx is cancelled.
func (l *Launcher) Run(ctx context.Context, url string, serve ServeFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- serve(ctx)
	}()

	ready := make(chan error, 1)
	go func() {
		ready <- l.WaitForServer(ctx, url)
	}()

	select {
	case err := <-errCh:
		if err == nil {
			err = ErrStartTimeout
		}
		return err
	case err := <-ready:
		if err != nil {
			cancel()
			<-errCh
			return err
		}
	}

	l.log.Info("opening storefront", "url", url)
	if err := l.open(url); err != nil {
		l.log.Warn("could not open browser, visit the URL manually", "url", url, "error", err)
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return <-errCh
	}
}
