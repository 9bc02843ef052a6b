package routes

import (
	"errors"
	"mime"
	"net/http"

	"github.com/bl815v/Tiendo/api"
	"github.com/bl815v/Tiendo/internal/authstore"
	"github.com/bl815v/Tiendo/pkg/enforcer"
	"github.com/bl815v/Tiendo/pkg/models"
)

const msgEmailTaken = "El correo ya está registrado"

func (h *Handler) failCustomer(w http.ResponseWriter, err error) {
	if isDuplicate(err, "correo") {
		api.ReturnError(w, h.log, func() (int, api.ErrorResponse) { return api.BadRequestConflict(msgEmailTaken) })
		return
	}
	h.fail(w, err)
}

func (h *Handler) handleCustomerCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		var args models.CustomerParams
		if err := decodeJSON(w, r, &args); err != nil {
			h.failDecode(w, r, err)
			return
		}
		c, err := h.auth.Create(r.Context(), args)
		if err != nil {
			h.failCustomer(w, err)
			return
		}
		api.RespondJSONAndLog(w, h.log, http.StatusCreated, c)
	}
}

func (h *Handler) handleCustomerList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		page, err := listPage(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		customers, err := h.auth.List(r.Context(), page)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, orEmpty(customers))
	}
}

func (h *Handler) handleCustomerGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		c, err := h.auth.Get(r.Context(), id)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, c)
	}
}

func (h *Handler) handleCustomerUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		var args models.CustomerParams
		if err := decodeJSON(w, r, &args); err != nil {
			h.failDecode(w, r, err)
			return
		}
		c, err := h.auth.Update(r.Context(), id, args)
		if err != nil {
			h.failCustomer(w, err)
			return
		}
		h.ok(w, c)
	}
}

func (h *Handler) handleCustomerDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		if err := h.auth.Delete(r.Context(), id); err != nil {
			h.fail(w, err)
			return
		}
		h.message(w, "Cliente eliminado")
	}
}

// handleCustomerLogin accepts the credentials as a JSON body, a form or query
// parameters, and answers with a bearer token for the customer endpoints.
func (h *Handler) handleCustomerLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		creds, err := readCredentials(w, r)
		if err != nil {
			h.failDecode(w, r, err)
			return
		}

		c, err := h.auth.Authenticate(r.Context(), creds.Email, creds.Password)
		if err != nil {
			if errors.Is(err, authstore.ErrInvalidCredentials) {
				api.ReturnError(w, h.log, api.UnauthorizedInvalidCredentials)
				return
			}
			h.fail(w, err)
			return
		}

		token, err := h.token.IssueToken(c)
		if err != nil {
			h.log.Error("issuing customer token", "err", err)
			api.ReturnError(w, h.log, api.InternalServerError)
			return
		}

		h.ok(w, models.CustomerLoginResponse{
			Message:   "Login exitoso",
			ID:        c.ID,
			Name:      c.FirstName,
			Email:     c.Email,
			Token:     token,
			ExpiresIn: int64(h.token.Duration().Seconds()),
		})
	}
}

func readCredentials(w http.ResponseWriter, r *http.Request) (models.CustomerCredentials, error) {
	var creds models.CustomerCredentials

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		err := decodeJSON(w, r, &creds)
		return creds, err
	}

	if err := r.ParseForm(); err != nil {
		return creds, err
	}
	creds.Email = r.FormValue("correo")
	creds.Password = r.FormValue("contrasena")
	return creds, nil
}

// handleCustomerMe returns the customer named by the bearer token.
func (h *Handler) handleCustomerMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		p := enforcer.PrincipalFromContext(r.Context())
		if p.CustomerID == 0 {
			api.ReturnError(w, h.log, api.UnauthorizedMissingToken)
			return
		}
		c, err := h.auth.Get(r.Context(), p.CustomerID)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, c)
	}
}
