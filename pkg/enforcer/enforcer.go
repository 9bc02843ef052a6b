// Package enforcer guards routes by role. Admin pages and endpoints require a
// live admin session cookie; customer endpoints require a bearer token.
package enforcer

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/bl815v/Tiendo/internal/sessionstore"
	"github.com/bl815v/Tiendo/internal/tokenstore"
	"github.com/bl815v/Tiendo/pkg/models"
)

// Enforcer manages access control policies and wraps route handlers with
// authentication and authorization logic.
type Enforcer struct {
	log      *slog.Logger
	Policies map[string]map[string]models.Role  // e.g route: {GET: RoleGuest, POST: RoleAdmin}
	handlers map[string]map[string]http.Handler // path -> method -> handler internal mapping
	router   Router                             // used for middlewares and creating routes
	session  SessionStore
	token    TokenStore
	Config
	mu sync.RWMutex // mutex to protect policies and handlers maps
}

type Config struct {
	AdminCookieName         string // name of the admin session cookie
	AdminCookieSecure       bool   // sets Secure on the admin cookie; enable behind TLS
	AdminCookiePath         string // path set on the admin cookie
	AdminCookieMaxAge       int    // cookie lifetime in seconds, matches the session TTL
	RedirectOnAuthErrorPath string // where HTML requests go when the gate fails
}

// SessionStore is the part of the admin session store the gate needs.
type SessionStore interface {
	Create(ctx context.Context, owner, originAddress string) (*models.AdminSession, error)
	Validate(ctx context.Context, token string) (*models.AdminSession, error)
	Delete(ctx context.Context, token string) error
}

// TokenStore verifies customer bearer tokens.
type TokenStore interface {
	ParseToken(tokenStr string) (*tokenstore.TokenPayload, error)
}

// ErrUnauthenticated is returned by Authenticate when the request carries no admin cookie.
var ErrUnauthenticated = errors.New("unauthenticated")

// NewEnforcer initializes and returns a new Enforcer instance.
//
// Params:
//   - logger: structured logger
//   - router: an implementation of the Router interface used to register routes
//   - sess: the admin session store
//   - token: verifies customer bearer tokens
//   - config: cookie and redirect settings, nil for the defaults
//
// Example:
//
//	enforcer := NewEnforcer(logger, mux, sessionStore, tokenStore, nil)
func NewEnforcer(logger *slog.Logger, router Router, sess SessionStore, token TokenStore, config *Config) *Enforcer {
	if config == nil {
		config = NewDefaultConfig()
	}

	return &Enforcer{
		log:      logger,
		Policies: make(map[string]map[string]models.Role),
		handlers: make(map[string]map[string]http.Handler),
		router:   router,
		session:  sess,
		token:    token,
		Config:   *config,
	}
}

// NewDefaultConfig returns the cookie settings used by the storefront.
func NewDefaultConfig() *Config {
	return &Config{
		AdminCookieName:         "admin_session",
		AdminCookiePath:         "/",
		AdminCookieSecure:       false,
		AdminCookieMaxAge:       int(sessionstore.DefaultTTL.Seconds()),
		RedirectOnAuthErrorPath: "/admin/login",
	}
}

// Authenticate checks the admin session cookie of r.
//
// It returns ErrUnauthenticated when there is no cookie, ErrInvalidSession
// for an unknown token and ErrSessionExpired for a session older than the
// TTL, which is removed. It writes nothing to the response.
func (e *Enforcer) Authenticate(r *http.Request) (*models.AdminSession, error) {
	cookie, err := r.Cookie(e.AdminCookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrUnauthenticated
	}
	return e.session.Validate(r.Context(), cookie.Value)
}

// StartSession creates an admin session for owner and sets its cookie.
func (e *Enforcer) StartSession(w http.ResponseWriter, r *http.Request, owner string) (*models.AdminSession, error) {
	sess, err := e.session.Create(r.Context(), owner, r.RemoteAddr)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     e.AdminCookieName,
		Value:    sess.Token,
		Path:     e.AdminCookiePath,
		MaxAge:   e.AdminCookieMaxAge,
		HttpOnly: true,
		Secure:   e.AdminCookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

// EndSession deletes the session named by the request cookie, if any, and
// clears the cookie.
func (e *Enforcer) EndSession(w http.ResponseWriter, r *http.Request) error {
	var err error
	if cookie, cerr := r.Cookie(e.AdminCookieName); cerr == nil && cookie.Value != "" {
		err = e.session.Delete(r.Context(), cookie.Value)
	}
	e.expireCookie(w)
	return err
}

func (e *Enforcer) expireCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     e.AdminCookieName,
		Value:    "",
		Path:     e.AdminCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   e.AdminCookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// AuthErrorMessage is the user-facing reason for a failed gate check.
func AuthErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "No autenticado"
	case errors.Is(err, sessionstore.ErrSessionExpired):
		return "Sesión expirada"
	default:
		return "Sesión inválida"
	}
}

// SetPolicy allows defining the minimum required role for a given resource path and HTTP method.
// Use "*" as the method to apply the policy to all methods for that path.
func (e *Enforcer) SetPolicy(resourcePath string, method string, requiredRole models.Role) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !strings.HasPrefix(resourcePath, "/") {
		resourcePath = "/" + resourcePath
	}
	if _, ok := e.Policies[resourcePath]; !ok {
		e.Policies[resourcePath] = make(map[string]models.Role)
	}
	e.Policies[resourcePath][strings.ToUpper(method)] = requiredRole
}

// FindMatchingPolicy finds the most specific policy for a given resource path and method.
// It prioritizes exact method matches over wildcard method matches.
func (e *Enforcer) FindMatchingPolicy(resourcePath, method string) (models.Role, bool) {
	method = strings.ToUpper(method)

	pathsToCheck := buildPrefixes(resourcePath)

	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, p := range pathsToCheck {
		if methodPolicies, ok := e.Policies[p]; ok {
			if requiredRole, methodOk := methodPolicies[method]; methodOk {
				return requiredRole, true
			}
			if requiredRole, anyMethodOk := methodPolicies["*"]; anyMethodOk {
				return requiredRole, true
			}
		}
	}

	return models.RoleGuest, false
}

// buildPrefixes returns a list of paths to check from most specific to least specific.
// For "/a/b/c" it returns ["/a/b/c", "/a/b", "/a", "/"].
func buildPrefixes(path string) []string {
	if path == "" || path == "/" {
		return []string{"/"}
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 1 && segments[0] == "" {
		return []string{"/"}
	}

	prefixes := make([]string, 0, len(segments)+1)
	for i := len(segments); i > 0; i-- {
		prefixes = append(prefixes, "/"+strings.Join(segments[:i], "/"))
	}
	prefixes = append(prefixes, "/")

	return prefixes
}
