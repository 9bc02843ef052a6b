package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/bl815v/Tiendo/database"
	"github.com/bl815v/Tiendo/pkg/store"
)

const shutdownTimeout = 10 * time.Second

type Globals struct {
	Logger  *slog.Logger
	Version string
}

// DatabaseFlags names the database every command works on.
type DatabaseFlags struct {
	URL string `name:"database-url" help:"database URL (sqlite://path, file:, *.db or postgres://)" env:"DATABASE_URL" required:""`
}

func (d *DatabaseFlags) Validate() error {
	if _, _, _, err := database.ParseURL(d.URL); err != nil {
		return fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	return nil
}

// AppFlags are the settings of a running storefront.
type AppFlags struct {
	Listen               string        `help:"HTTP listen address" default:"127.0.0.1:8000" env:"LISTEN_ADDR"`
	AdminUser            string        `help:"admin username, login is disabled when empty" env:"ADMIN_USER"`
	AdminPass            string        `help:"admin password, login is disabled when empty" env:"ADMIN_PASS"`
	JWTSecret            string        `help:"secret signing customer tokens, random per process when empty" env:"JWT_SECRET"`
	SessionSweepInterval time.Duration `help:"how often expired admin sessions are removed" default:"5m" env:"SESSION_SWEEP_INTERVAL"`
	CookieSecure         bool          `help:"mark the admin cookie Secure (serve behind TLS)" default:"false" env:"COOKIE_SECURE"`
	CORSOrigins          []string      `help:"allowed CORS origins for API requests" default:"*" env:"CORS_ORIGINS"`
}

func (a *AppFlags) Validate() error {
	if _, _, err := net.SplitHostPort(a.Listen); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", a.Listen, err)
	}
	if a.SessionSweepInterval < 0 {
		return errors.New("session sweep interval must not be negative")
	}
	return nil
}

func (a *AppFlags) storeConfig() store.Config {
	cfg := store.Config{JWTSecret: a.JWTSecret, SessionSweepInterval: a.SessionSweepInterval}
	if cfg.SessionSweepInterval == 0 {
		cfg.SessionSweepInterval = -1
	}
	return cfg
}

func configureHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    8 * 1024, // 8KiB
	}
}

// runHTTPServer serves until ctx is cancelled, then drains open requests for
// up to shutdownTimeout.
func runHTTPServer(ctx context.Context, log *slog.Logger, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}
	return nil
}
