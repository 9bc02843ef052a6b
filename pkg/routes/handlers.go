package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bl815v/Tiendo/api"
	"github.com/bl815v/Tiendo/internal/authstore"
	"github.com/bl815v/Tiendo/internal/db"
	"github.com/bl815v/Tiendo/internal/loginlimit"
	"github.com/bl815v/Tiendo/internal/shopstore"
	"github.com/bl815v/Tiendo/internal/tokenstore"
	"github.com/bl815v/Tiendo/pkg/enforcer"
	"github.com/bl815v/Tiendo/pkg/models"
	"github.com/bl815v/Tiendo/pkg/store"
	"github.com/bl815v/Tiendo/web"
)

type Handler struct {
	auth     authstore.Store
	shop     shopstore.Store
	token    tokenstore.TokenStore
	enforcer *enforcer.Enforcer
	pages    *web.Renderer
	limiter  *loginlimit.Limiter
	admin    AdminCredentials
	ping     func(ctx context.Context) error
	log      *slog.Logger
	now      func() time.Time
}

func newHandler(logger *slog.Logger, enf *enforcer.Enforcer, st *store.Store, pages *web.Renderer, limiter *loginlimit.Limiter, admin AdminCredentials) *Handler {
	return &Handler{
		auth:     st.Auth,
		shop:     st.Shop,
		token:    st.Token,
		enforcer: enf,
		pages:    pages,
		limiter:  limiter,
		admin:    admin,
		ping:     st.Ping,
		log:      logger,
		now:      time.Now,
	}
}

func (h *Handler) logAccess(r *http.Request) {
	h.log.Debug("Access", "method", r.Method, "path", r.URL.Path, "remote_ip", r.RemoteAddr, "user_agent", r.UserAgent())
}

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// decodeJSON reads one JSON object from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON object")
	}
	return nil
}

// pathID parses the {id} wildcard as a positive integer.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, models.NewValidationError("id must be a positive integer")
	}
	return id, nil
}

// queryInt returns the integer query parameter name, or def when it is absent.
func queryInt(r *http.Request, name string, def int64) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, models.NewValidationError(name + " must be an integer")
	}
	return v, nil
}

func queryIntPtr(r *http.Request, name string) (*int64, error) {
	if strings.TrimSpace(r.URL.Query().Get(name)) == "" {
		return nil, nil
	}
	v, err := queryInt(r, name, 0)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func queryFloatPtr(r *http.Request, name string) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, models.NewValidationError(name + " must be a number")
	}
	return &v, nil
}

// listPage reads skip and limit for the CRUD listings.
func listPage(r *http.Request) (models.Page, error) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		return models.Page{}, err
	}
	limit, err := queryInt(r, "limit", models.DefaultListLimit)
	if err != nil {
		return models.Page{}, err
	}
	return models.ClampPage(skip, limit), nil
}

const (
	// customerSegment is the first segment of /<collection>/cliente/{id}.
	customerSegment   = "cliente"
	msgNoSuchResource = "Recurso no encontrado"
)

// handleNested serves /<collection>/{a}/{b}. ServeMux cannot hold both
// /carritos/cliente/{id} and /carritos/{id}/detalles, so one pattern takes
// both shapes: "cliente/{id}" goes to byCustomer and "{id}/<child>" to
// children[child]. Either way the id reaches the handler as {id}.
func (h *Handler) handleNested(byCustomer http.HandlerFunc, children map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, b := r.PathValue("a"), r.PathValue("b")
		if a == customerSegment && byCustomer != nil {
			r.SetPathValue("id", b)
			byCustomer(w, r)
			return
		}
		if child, ok := children[b]; ok {
			r.SetPathValue("id", a)
			child(w, r)
			return
		}
		h.logAccess(r)
		api.ReturnError(w, h.log, func() (int, api.ErrorResponse) { return api.NotFound(msgNoSuchResource) })
	}
}

// fail writes the error response matching err.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	api.ReturnError(w, h.log, api.FromStoreError(err))
}

// failDecode answers a body that could not be decoded.
func (h *Handler) failDecode(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Debug("invalid request body", "path", r.URL.Path, "err", err)
	api.ReturnError(w, h.log, api.BadRequestInvalidJSON)
}

func (h *Handler) ok(w http.ResponseWriter, payload any) {
	api.RespondJSONAndLog(w, h.log, http.StatusOK, payload)
}

func (h *Handler) message(w http.ResponseWriter, msg string) {
	api.RespondJSONAndLog(w, h.log, http.StatusOK, api.MessageResponse{Message: msg})
}

// isDuplicate reports whether err is a unique violation on field.
func isDuplicate(err error, field string) bool {
	var dup *db.DuplicateKeyError
	return errors.As(err, &dup) && dup.Field == field
}

// orEmpty keeps JSON lists as [] rather than null.
func orEmpty[T any](s []*T) []*T {
	if s == nil {
		return []*T{}
	}
	return s
}
