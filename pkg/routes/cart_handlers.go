package routes

import (
	"net/http"

	"github.com/bl815v/Tiendo/pkg/models"
)

func (h *Handler) handleCartCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		var args models.CartParams
		if err := decodeJSON(w, r, &args); err != nil {
			h.failDecode(w, r, err)
			return
		}
		cart, err := h.shop.CreateCart(r.Context(), args)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, cart)
	}
}

func (h *Handler) handleCartList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		page, err := listPage(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		carts, err := h.shop.ListCarts(r.Context(), page)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, orEmpty(carts))
	}
}

// handleCartListByCustomer lists a customer's carts. An unknown customer
// simply has none.
func (h *Handler) handleCartListByCustomer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		carts, err := h.shop.ListCartsByCustomer(r.Context(), id)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, orEmpty(carts))
	}
}

func (h *Handler) handleCartGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		cart, err := h.shop.GetCart(r.Context(), id)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, cart)
	}
}

func (h *Handler) handleCartUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		var args models.CartParams
		if err := decodeJSON(w, r, &args); err != nil {
			h.failDecode(w, r, err)
			return
		}
		cart, err := h.shop.UpdateCart(r.Context(), id, args)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, cart)
	}
}

func (h *Handler) handleCartDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		if err := h.shop.DeleteCart(r.Context(), id); err != nil {
			h.fail(w, err)
			return
		}
		h.message(w, "Carrito eliminado")
	}
}

func (h *Handler) handleCartItemAdd() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		var args models.LineItemParams
		if err := decodeJSON(w, r, &args); err != nil {
			h.failDecode(w, r, err)
			return
		}
		item, err := h.shop.AddCartItem(r.Context(), id, args)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, item)
	}
}

func (h *Handler) handleCartItemList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		items, err := h.shop.ListCartItems(r.Context(), id)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, orEmpty(items))
	}
}
