package routes

import (
	"net/http"

	"github.com/bl815v/Tiendo/pkg/models"
)

func (h *Handler) handleShipmentCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		var args models.ShipmentParams
		if err := decodeJSON(w, r, &args); err != nil {
			h.failDecode(w, r, err)
			return
		}
		sh, err := h.shop.CreateShipment(r.Context(), args)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, sh)
	}
}

func (h *Handler) handleShipmentList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		page, err := listPage(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		shipments, err := h.shop.ListShipments(r.Context(), page)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, orEmpty(shipments))
	}
}

func (h *Handler) handleShipmentGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		sh, err := h.shop.GetShipment(r.Context(), id)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, sh)
	}
}

func (h *Handler) handleShipmentGetByOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		sh, err := h.shop.GetShipmentByOrder(r.Context(), id)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, sh)
	}
}

func (h *Handler) handleShipmentUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		var args models.ShipmentParams
		if err := decodeJSON(w, r, &args); err != nil {
			h.failDecode(w, r, err)
			return
		}
		sh, err := h.shop.UpdateShipment(r.Context(), id, args)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, sh)
	}
}

func (h *Handler) handleShipmentDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		if err := h.shop.DeleteShipment(r.Context(), id); err != nil {
			h.fail(w, err)
			return
		}
		h.message(w, "Envío eliminado")
	}
}
