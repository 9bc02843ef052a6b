// Package tiendo assembles the storefront: the route table behind the auth
// gate, the admin pages and the JSON API, wrapped in the HTTP middlewares
// every response goes through.
package tiendo

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"filippo.io/csrf"
	"github.com/bl815v/Tiendo/internal/loginlimit"
	"github.com/bl815v/Tiendo/pkg/enforcer"
	"github.com/bl815v/Tiendo/pkg/routes"
	"github.com/bl815v/Tiendo/pkg/store"
	"github.com/bl815v/Tiendo/web"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/cors"
)

type Tiendo struct {
	logger   *slog.Logger
	config   *Config
	Store    *store.Store
	Enforcer *enforcer.Enforcer

	mux     *http.ServeMux
	handler http.Handler
}

// Config holds the settings that are not part of the store.
type Config struct {
	Admin        routes.AdminCredentials
	CookieSecure bool
	CORSOrigins  []string

	LoginMaxFailures int
	LoginWindow      time.Duration
}

type Option func(*Tiendo)

func WithLogger(l *slog.Logger) Option {
	return func(t *Tiendo) {
		if l != nil {
			t.logger = l
		}
	}
}

func WithStore(st *store.Store) Option {
	return func(t *Tiendo) {
		t.Store = st
	}
}

// WithAdmin sets the single admin account. Leaving either value empty
// disables admin login.
func WithAdmin(username, password string) Option {
	return func(t *Tiendo) {
		t.config.Admin = routes.AdminCredentials{Username: username, Password: password}
	}
}

// WithCookieSecure marks the admin cookie Secure. Enable it behind TLS.
func WithCookieSecure(secure bool) Option {
	return func(t *Tiendo) {
		t.config.CookieSecure = secure
	}
}

func WithCORSOrigins(origins ...string) Option {
	return func(t *Tiendo) {
		t.config.CORSOrigins = origins
	}
}

func WithLoginLimit(maxFailures int, window time.Duration) Option {
	return func(t *Tiendo) {
		t.config.LoginMaxFailures = maxFailures
		t.config.LoginWindow = window
	}
}

// New builds the storefront on top of an opened store. The store stays owned
// by the caller.
func New(opts ...Option) (*Tiendo, error) {
	t := &Tiendo{
		logger: slog.Default(),
		config: &Config{
			CORSOrigins:      []string{"*"},
			LoginMaxFailures: loginlimit.DefaultMaxFailures,
			LoginWindow:      loginlimit.DefaultWindow,
		},
		mux: http.NewServeMux(),
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.Store == nil {
		return nil, errors.New("tiendo: a store is required")
	}

	t.logger.Info("starting tiendo")

	enfConfig := enforcer.NewDefaultConfig()
	enfConfig.AdminCookieSecure = t.config.CookieSecure
	t.Enforcer = enforcer.NewEnforcer(t.logger, t.mux, t.Store.Session, t.Store.Token, enfConfig)
	t.Enforcer.LoadDefaultPolicies()
	t.logger.Debug("tiendo enforcer loaded")

	pages, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	if t.config.Admin.Username == "" || t.config.Admin.Password == "" {
		t.logger.Warn("ADMIN_USER or ADMIN_PASS not set, admin login is disabled")
	}

	limiter := loginlimit.New(t.logger, t.config.LoginMaxFailures, t.config.LoginWindow)
	rt := routes.New(t.logger, t.Enforcer, t.Store, pages, limiter, t.config.Admin)
	if err := rt.LoadAllRoutes(); err != nil {
		return nil, err
	}
	t.logger.Debug("tiendo routes loaded")

	t.handler = t.buildHandler()
	return t, nil
}

// Handler returns the root handler to serve.
func (t *Tiendo) Handler() http.Handler {
	return t.handler
}

// buildHandler puts CORS in front of the JSON API and cross-origin request
// protection in front of the pages and forms, then compresses everything.
func (t *Tiendo) buildHandler() http.Handler {
	protection := csrf.New()
	pages := protection.Handler(t.mux)

	apiCORS := cors.New(cors.Options{
		AllowedOrigins: t.config.CORSOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	apiHandler := apiCORS.Handler(t.mux)

	split := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isAPIRoute(r.URL.Path) {
			apiHandler.ServeHTTP(w, r)
			return
		}
		pages.ServeHTTP(w, r)
	})

	return gzhttp.GzipHandler(split)
}

func isAPIRoute(path string) bool {
	return strings.HasPrefix(path, "/api/")
}
