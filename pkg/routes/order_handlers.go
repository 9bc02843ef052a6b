package routes

import (
	"net/http"
	"strings"

	"github.com/bl815v/Tiendo/pkg/models"
)

func (h *Handler) handleOrderCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		var args models.OrderParams
		if err := decodeJSON(w, r, &args); err != nil {
			h.failDecode(w, r, err)
			return
		}
		order, err := h.shop.CreateOrder(r.Context(), args)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, order)
	}
}

func (h *Handler) handleOrderList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		page, err := listPage(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		orders, err := h.shop.ListOrders(r.Context(), page)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, orEmpty(orders))
	}
}

func (h *Handler) handleOrderListByCustomer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		orders, err := h.shop.ListOrdersByCustomer(r.Context(), id)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, orEmpty(orders))
	}
}

func (h *Handler) handleOrderGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		order, err := h.shop.GetOrder(r.Context(), id)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, order)
	}
}

func (h *Handler) handleOrderUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		var args models.OrderParams
		if err := decodeJSON(w, r, &args); err != nil {
			h.failDecode(w, r, err)
			return
		}
		order, err := h.shop.UpdateOrder(r.Context(), id, args)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, order)
	}
}

// handleOrderStatusPatch sets only the status. The new value comes from the
// estado query parameter or, failing that, a form field of the same name.
func (h *Handler) handleOrderStatusPatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}

		status := strings.TrimSpace(r.URL.Query().Get("estado"))
		if status == "" {
			status = strings.TrimSpace(r.FormValue("estado"))
		}
		if status == "" {
			h.fail(w, models.NewValidationError("estado is required"))
			return
		}

		order, err := h.shop.UpdateOrderStatus(r.Context(), id, models.OrderStatus(status))
		if err != nil {
			h.fail(w, err)
			return
		}
		h.message(w, "Estado del pedido actualizado a "+order.Status.String())
	}
}

func (h *Handler) handleOrderDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		if err := h.shop.DeleteOrder(r.Context(), id); err != nil {
			h.fail(w, err)
			return
		}
		h.message(w, "Pedido eliminado")
	}
}

func (h *Handler) handleOrderItemAdd() http.HandlerFunc {
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
		item, err := h.shop.AddOrderItem(r.Context(), id, args)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, item)
	}
}

func (h *Handler) handleOrderItemList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		items, err := h.shop.ListOrderItems(r.Context(), id)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, orEmpty(items))
	}
}
