package routes

import (
	"net/http"

	"github.com/bl815v/Tiendo/pkg/models"
)

func (h *Handler) handlePaymentCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		var args models.PaymentParams
		if err := decodeJSON(w, r, &args); err != nil {
			h.failDecode(w, r, err)
			return
		}
		p, err := h.shop.CreatePayment(r.Context(), args)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, p)
	}
}

func (h *Handler) handlePaymentList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		page, err := listPage(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		payments, err := h.shop.ListPayments(r.Context(), page)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, orEmpty(payments))
	}
}

func (h *Handler) handlePaymentListByOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		payments, err := h.shop.ListPaymentsByOrder(r.Context(), id)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, orEmpty(payments))
	}
}

func (h *Handler) handlePaymentGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		p, err := h.shop.GetPayment(r.Context(), id)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, p)
	}
}

func (h *Handler) handlePaymentUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		var args models.PaymentParams
		if err := decodeJSON(w, r, &args); err != nil {
			h.failDecode(w, r, err)
			return
		}
		p, err := h.shop.UpdatePayment(r.Context(), id, args)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, p)
	}
}

func (h *Handler) handlePaymentDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		if err := h.shop.DeletePayment(r.Context(), id); err != nil {
			h.fail(w, err)
			return
		}
		h.message(w, "Pago eliminado")
	}
}
