package enforcer

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bl815v/Tiendo/api"
	"github.com/bl815v/Tiendo/pkg/models"
)

type contextKey string

const PrincipalContextKey contextKey = "principal"

// Principal is the caller resolved by AuthenticationMiddleware.
type Principal struct {
	Role       models.Role
	Admin      *models.AdminSession // set for RoleAdmin
	CustomerID int64                // set when a valid bearer token was sent
	Email      string               // set when a valid bearer token was sent

	// AuthErr is why the admin cookie, when present, was rejected.
	AuthErr error
	// TokenErr is why the bearer token, when present, was rejected.
	TokenErr error
}

// PrincipalFromContext returns the caller stored by AuthenticationMiddleware,
// or a guest when there is none.
func PrincipalFromContext(ctx context.Context) *Principal {
	if p, ok := ctx.Value(PrincipalContextKey).(*Principal); ok {
		return p
	}
	return &Principal{Role: models.RoleGuest, AuthErr: ErrUnauthenticated}
}

// AuthenticationMiddleware resolves the caller and stores a *Principal in the
// request context.
//
// Authentication order:
//  1. the admin session cookie, through Authenticate
//  2. a customer bearer token in the Authorization header, which also fills
//     CustomerID for an admin
//  3. otherwise the caller is a guest
//
// It never rejects a request; AuthorizationMiddleware does that.
func (e *Enforcer) AuthenticationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := &Principal{Role: models.RoleGuest}

		sess, err := e.Authenticate(r)
		if err == nil {
			p.Role = models.RoleAdmin
			p.Admin = sess
		} else {
			p.AuthErr = err
			if !errors.Is(err, ErrUnauthenticated) {
				e.log.Debug("admin session rejected", "reason", AuthErrorMessage(err), "path", r.URL.Path, "remote_ip", r.RemoteAddr)
			}
		}

		e.tryBearerAuth(r, p)

		ctx := context.WithValue(r.Context(), PrincipalContextKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthorizationMiddleware returns an HTTP middleware that ensures the caller
// has at least the required role for path.
//
// Admin failures redirect HTML requests to RedirectOnAuthErrorPath and answer
// API requests with 401 {"status":"error","message":reason}. Customer
// failures are a 401 error response.
func (e *Enforcer) AuthorizationMiddleware(path string, required models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := r.Context().Value(PrincipalContextKey).(*Principal)
			if !ok {
				e.log.Error("AuthorizationMiddleware expected Principal in http context and did not receive", "path", path)
				p = PrincipalFromContext(r.Context())
			}

			if p.Role.AtLeast(required) {
				next.ServeHTTP(w, r)
				return
			}

			if required == models.RoleAdmin {
				e.respondAdminAuthFailure(w, r, p.AuthErr)
				return
			}
			e.respondTokenFailure(w, r, p.TokenErr)
		})
	}
}

// WrapHandler applies authentication and, if a policy requires more than a
// guest, authorization to h.
func (e *Enforcer) WrapHandler(path, method string, h http.Handler) http.Handler {
	requiredRole, _ := e.FindMatchingPolicy(path, method)

	if requiredRole != models.RoleGuest {
		h = e.AuthorizationMiddleware(path, requiredRole)(h)
	}

	return e.AuthenticationMiddleware(h)
}

func (e *Enforcer) tryBearerAuth(r *http.Request, p *Principal) {
	tokenStr, err := extractBearerToken(r)
	if err != nil {
		p.TokenErr = err
		return
	}

	payload, err := e.token.ParseToken(tokenStr)
	if err != nil {
		e.log.Debug("bearer token rejected", "error", err, "path", r.URL.Path)
		p.TokenErr = err
		return
	}
	id, err := payload.CustomerID()
	if err != nil {
		p.TokenErr = err
		return
	}

	if p.Role == models.RoleGuest {
		p.Role = models.RoleCustomer
	}
	p.CustomerID = id
	p.Email = payload.Email
}

var errNoBearer = errors.New("no bearer token")

func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errNoBearer
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization header format")
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("empty token")
	}

	return token, nil
}

// isAPIRequest reports whether r targets the JSON API.
func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

func (e *Enforcer) respondAdminAuthFailure(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		err = ErrUnauthenticated
	}
	if isAPIRequest(r) {
		api.RespondJSONAndLog(w, e.log, http.StatusUnauthorized, api.StatusResponse{
			Status:  "error",
			Message: AuthErrorMessage(err),
		})
		return
	}
	if !errors.Is(err, ErrUnauthenticated) {
		e.expireCookie(w)
	}
	http.Redirect(w, r, e.RedirectOnAuthErrorPath, http.StatusFound)
}

func (e *Enforcer) respondTokenFailure(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil || errors.Is(err, errNoBearer) {
		api.ReturnError(w, e.log, api.UnauthorizedMissingToken)
		return
	}
	api.ReturnError(w, e.log, api.UnauthorizedInvalidToken)
}

func (e *Enforcer) respondMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if isAPIRequest(r) {
		api.ReturnError(w, e.log, api.MethodNotAllowed)
	} else {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
