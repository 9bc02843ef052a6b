package enforcer

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bl815v/Tiendo/internal/logutil"
)

// Router defines an abstraction for registering routes.
// It allows Enforcer to remain decoupled from specific HTTP frameworks.
type Router interface {
	Handle(pattern string, handler http.Handler)
}

// Handle registers an HTTP handler with the router for the given route pattern.
// The route string can be either:
//
//	"/path"          // matches all HTTP methods for /path
//	"METHOD /path"   // matches only HTTP requests with METHOD (GET, POST, etc.)
//
// Paths may use net/http wildcards such as "/api/v1/productos/{id}".
// Registering the same method and path twice returns a DuplicatePathAndMethodError.
// The handler is wrapped with authentication and authorization middlewares
// based on policies set with SetPolicy.
func (e *Enforcer) Handle(route string, handler http.Handler) error {
	if handler == nil {
		e.log.Error("cannot register nil handler for route", "route", route)
		return fmt.Errorf("cannot register nil handler for route %q", route)
	}

	method, path := parseRoute(route)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handlers == nil {
		e.handlers = make(map[string]map[string]http.Handler)
	}

	if _, exists := e.handlers[path]; !exists {
		e.handlers[path] = make(map[string]http.Handler)

		// one dispatching handler per path
		e.router.Handle(path, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer logutil.NewTimingLogger(e.log, time.Now(), "access handled", "method", r.Method, "path", r.URL.Path, "remote_ip", r.RemoteAddr, "user_agent", r.UserAgent())()

			h, ok := e.lookup(path, r.Method)
			if !ok {
				e.respondMethodNotAllowed(w, r)
				return
			}
			e.WrapHandler(path, r.Method, h).ServeHTTP(w, r)
		}))
	}

	if _, exists := e.handlers[path][method]; exists {
		return logutil.LogAndWrapErr(e.log, "attempted to add duplicate path to enforcer",
			NewDuplicatePathAndMethodError(path, method))
	}

	e.handlers[path][method] = handler
	return nil
}

// HandleFunc is a convenience wrapper around Handle that accepts
// an http.HandlerFunc instead of a full http.Handler.
func (e *Enforcer) HandleFunc(route string, handlerFunc http.HandlerFunc) error {
	return e.Handle(route, handlerFunc)
}

// lookup finds the handler for method, falling back to one registered for
// every method. HEAD is served by the GET handler.
func (e *Enforcer) lookup(path, method string) (http.Handler, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	methodHandlers := e.handlers[path]
	if h, ok := methodHandlers[method]; ok {
		return h, true
	}
	if method == http.MethodHead {
		if h, ok := methodHandlers[http.MethodGet]; ok {
			return h, true
		}
	}
	h, ok := methodHandlers[""]
	return h, ok
}

// parseRoute parses a route string into method and path components.
// Valid formats are:
//
//	"METHOD /path"   e.g. "GET /admin"
//	"/path"          e.g. "/admin"
//
// If the method is omitted, the returned method string is empty,
// meaning the route applies to all HTTP methods.
func parseRoute(route string) (method, path string) {
	parts := strings.Fields(route)
	switch len(parts) {
	case 0:
		return "", "/"
	case 1:
		if strings.HasPrefix(parts[0], "/") {
			return "", parts[0]
		}
		return "", "/"
	default:
		return strings.ToUpper(parts[0]), parts[1]
	}
}

var ErrDuplicatePathAndMethod = &DuplicatePathAndMethodError{}

type DuplicatePathAndMethodError struct {
	Method string
	Path   string
}

func NewDuplicatePathAndMethodError(path, method string) *DuplicatePathAndMethodError {
	return &DuplicatePathAndMethodError{
		Method: method,
		Path:   path,
	}
}

func (e *DuplicatePathAndMethodError) Error() string {
	return fmt.Sprintf("enforcer: duplicate path: %s and method: %s attempted", e.Path, e.Method)
}

func (e *DuplicatePathAndMethodError) Is(target error) bool {
	_, ok := target.(*DuplicatePathAndMethodError)
	return ok
}
