package routes

import (
	"net/http"

	"github.com/bl815v/Tiendo/pkg/models"
)

func (h *Handler) handleCategoryCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		var args models.CategoryParams
		if err := decodeJSON(w, r, &args); err != nil {
			h.failDecode(w, r, err)
			return
		}
		cat, err := h.shop.CreateCategory(r.Context(), args)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, cat)
	}
}

func (h *Handler) handleCategoryList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		page, err := listPage(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		cats, err := h.shop.ListCategories(r.Context(), page)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, orEmpty(cats))
	}
}

func (h *Handler) handleCategoryGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		cat, err := h.shop.GetCategory(r.Context(), id)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, cat)
	}
}

func (h *Handler) handleCategoryUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		var args models.CategoryParams
		if err := decodeJSON(w, r, &args); err != nil {
			h.failDecode(w, r, err)
			return
		}
		cat, err := h.shop.UpdateCategory(r.Context(), id, args)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, cat)
	}
}

func (h *Handler) handleCategoryDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		if err := h.shop.DeleteCategory(r.Context(), id); err != nil {
			h.fail(w, err)
			return
		}
		h.message(w, "Categoría eliminada")
	}
}

func (h *Handler) handleProductCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		var args models.ProductParams
		if err := decodeJSON(w, r, &args); err != nil {
			h.failDecode(w, r, err)
			return
		}
		p, err := h.shop.CreateProduct(r.Context(), args)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, p)
	}
}

func (h *Handler) handleProductList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		page, err := listPage(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		products, err := h.shop.ListProducts(r.Context(), page)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, orEmpty(products))
	}
}

func (h *Handler) handleProductListByCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		products, err := h.shop.ListProductsByCategory(r.Context(), id)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, orEmpty(products))
	}
}

func (h *Handler) handleProductGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		p, err := h.shop.GetProduct(r.Context(), id)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, p)
	}
}

func (h *Handler) handleProductUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		var args models.ProductParams
		if err := decodeJSON(w, r, &args); err != nil {
			h.failDecode(w, r, err)
			return
		}
		p, err := h.shop.UpdateProduct(r.Context(), id, args)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, p)
	}
}

func (h *Handler) handleProductDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logAccess(r)

		id, err := pathID(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		if err := h.shop.DeleteProduct(r.Context(), id); err != nil {
			h.fail(w, err)
			return
		}
		h.message(w, "Producto eliminado")
	}
}
