package routes

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/bl815v/Tiendo/api"
	"github.com/bl815v/Tiendo/internal/loginlimit"
	"github.com/bl815v/Tiendo/pkg/enforcer"
	"github.com/bl815v/Tiendo/pkg/models"
	"github.com/bl815v/Tiendo/web"
)

const (
	msgConfigError       = "Error de configuración del servidor"
	msgBadCredentials    = "Usuario o contraseña incorrectos"
	msgTooManyAttempts   = "Demasiados intentos fallidos. Intente de nuevo más tarde."
	msgSessionInvalid    = "Sesión inválida"
	msgLoginUnavailable  = "No se pudo iniciar la sesión"
	defaultAdminUsername = "Admin"
)

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, page string, data web.PageData) {
	if status != http.StatusOK {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
	}
	if err := h.pages.Render(w, page, data); err != nil {
		h.log.Error("unable to render page", "page", page, "path", r.URL.Path, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) handleAdminLoginGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)
		h.renderPage(w, r, http.StatusOK, web.PageAdminLogin, web.PageData{})
	}
}

// handleAdminLoginPost checks the form against the configured admin account.
// Attempts are counted per client address and a successful login clears
// the count. Past the limit the page is answered with 429 until the window
// passes.
func (h *Handler) handleAdminLoginPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		ip := loginlimit.ClientIP(r)
		if !h.limiter.Attempt(ip) {
			h.renderPage(w, r, http.StatusTooManyRequests, web.PageAdminLogin, web.PageData{Error: msgTooManyAttempts})
			return
		}

		if err := r.ParseForm(); err != nil {
			h.log.Error("parsing form from POST /admin/login", "err", err)
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}

		if h.admin.Username == "" || h.admin.Password == "" {
			h.log.Error("admin login attempted without ADMIN_USER/ADMIN_PASS configured")
			h.renderPage(w, r, http.StatusOK, web.PageAdminLogin, web.PageData{Error: msgConfigError})
			return
		}

		username := r.PostFormValue("username")
		password := r.PostFormValue("password")

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.admin.Username))
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.admin.Password))
		if userOK&passOK != 1 {
			h.log.Info("admin login failed", "remote_ip", ip)
			h.renderPage(w, r, http.StatusOK, web.PageAdminLogin, web.PageData{Error: msgBadCredentials})
			return
		}

		if _, err := h.enforcer.StartSession(w, r, username); err != nil {
			h.log.Error("creating admin session", "err", err)
			h.renderPage(w, r, http.StatusInternalServerError, web.PageAdminLogin, web.PageData{Error: msgLoginUnavailable})
			return
		}
		h.limiter.Reset(ip)
		h.log.Info("admin logged in", "username", username, "remote_ip", ip)

		http.Redirect(w, r, "/admin", http.StatusFound)
	}
}

func (h *Handler) handleAdminLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		if err := h.enforcer.EndSession(w, r); err != nil {
			h.log.Error("deleting admin session", "err", err)
		}
		http.Redirect(w, r, "/admin/login", http.StatusFound)
	}
}

func (h *Handler) handleAdminCheckSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		sess, err := h.enforcer.Authenticate(r)
		if err != nil {
			api.RespondJSONAndLog(w, h.log, http.StatusUnauthorized, api.StatusResponse{
				Status:  "error",
				Message: msgSessionInvalid,
			})
			return
		}
		api.RespondJSONAndLog(w, h.log, http.StatusOK, api.StatusResponse{
			Status:   "ok",
			Username: sess.Owner,
		})
	}
}

// handleAdminPage renders a dashboard page. The route policy has already
// checked the session, so the principal carries it.
func (h *Handler) handleAdminPage(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		data := web.PageData{Username: defaultAdminUsername}
		if p := enforcer.PrincipalFromContext(r.Context()); p.Admin != nil && p.Admin.Owner != "" {
			data.Username = p.Admin.Owner
		}
		h.renderPage(w, r, http.StatusOK, page, data)
	}
}

func (h *Handler) handleProductStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		stats, err := h.shop.ProductStats(r.Context())
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, stats)
	}
}

func (h *Handler) handleOrderStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		stats, err := h.shop.OrderStats(r.Context())
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, stats)
	}
}

func (h *Handler) handleCustomerStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		stats, err := h.shop.CustomerStats(r.Context())
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, stats)
	}
}

// handleDebug reports database connectivity. A failing database is part of
// the report, so the status code stays 200.
func (h *Handler) handleDebug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		report, err := h.shop.Debug(r.Context())
		if err != nil {
			h.ok(w, api.DebugFailure{
				Status:    "ERROR",
				Database:  "connection_failed",
				Error:     err.Error(),
				Timestamp: h.now().UTC(),
			})
			return
		}
		h.ok(w, report)
	}
}

func (h *Handler) handleFilterOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		f, err := orderFilterFromQuery(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		orders, err := h.shop.FilterOrders(r.Context(), f)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, orEmpty(orders))
	}
}

func (h *Handler) handleFilterProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		f, err := productFilterFromQuery(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		products, err := h.shop.FilterProducts(r.Context(), f)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, orEmpty(products))
	}
}

func orderFilterFromQuery(r *http.Request) (models.OrderFilter, error) {
	q := r.URL.Query()
	f := models.OrderFilter{}

	if s := strings.TrimSpace(q.Get("estado")); s != "" {
		f.Status = &s
	}
	customerID, err := queryIntPtr(r, "cliente_id")
	if err != nil {
		return f, err
	}
	// cliente_id=0 means no filter
	if customerID != nil && *customerID != 0 {
		f.CustomerID = customerID
	}
	f.From = parseFilterTime(q.Get("fecha_desde"), false)
	f.To = parseFilterTime(q.Get("fecha_hasta"), true)

	if f.Skip, err = queryInt(r, "skip", 0); err != nil {
		return f, err
	}
	if f.Limit, err = queryInt(r, "limit", models.DefaultListLimit); err != nil {
		return f, err
	}
	return f, nil
}

func productFilterFromQuery(r *http.Request) (models.ProductFilter, error) {
	f := models.ProductFilter{}
	var err error

	if f.CategoryID, err = queryIntPtr(r, "categoria_id"); err != nil {
		return f, err
	}
	if f.CategoryID != nil && *f.CategoryID == 0 {
		f.CategoryID = nil
	}
	if f.StockMin, err = queryIntPtr(r, "stock_min"); err != nil {
		return f, err
	}
	if f.StockMax, err = queryIntPtr(r, "stock_max"); err != nil {
		return f, err
	}
	if f.PriceMin, err = queryFloatPtr(r, "precio_min"); err != nil {
		return f, err
	}
	if f.PriceMax, err = queryFloatPtr(r, "precio_max"); err != nil {
		return f, err
	}
	if f.Skip, err = queryInt(r, "skip", 0); err != nil {
		return f, err
	}
	if f.Limit, err = queryInt(r, "limit", models.DefaultListLimit); err != nil {
		return f, err
	}
	return f, nil
}

// parseFilterTime accepts RFC 3339 timestamps (with or without a zone) and
// bare dates. Anything else is ignored. A bare date used as an upper bound
// covers the whole day.
func parseFilterTime(raw string, upper bool) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		if upper {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t
	}
	return nil
}
