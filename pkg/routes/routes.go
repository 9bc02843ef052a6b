// Package routes registers the storefront's pages and JSON API on the enforcer.
package routes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bl815v/Tiendo/internal/loginlimit"
	"github.com/bl815v/Tiendo/pkg/enforcer"
	"github.com/bl815v/Tiendo/pkg/store"
	"github.com/bl815v/Tiendo/web"
)

type Routes struct {
	enforcer *enforcer.Enforcer
	handler  Handler
}

// AdminCredentials are the single admin account. Login is refused while
// either field is empty.
type AdminCredentials struct {
	Username string
	Password string
}

// New initializes and returns a new Routes instance.
func New(logger *slog.Logger, enf *enforcer.Enforcer, st *store.Store, pages *web.Renderer, limiter *loginlimit.Limiter, admin AdminCredentials) *Routes {
	return &Routes{
		enforcer: enf,
		handler:  *newHandler(logger, enf, st, pages, limiter, admin),
	}
}

// LoadAllRoutes loads every route group. If any group fails to register its
// routes, the error(s) will be combined and returned as a single error via
// errors.Join.
func (rt *Routes) LoadAllRoutes() error {
	errs := []error{
		rt.LoadAdminSessionRoutes(),
		rt.LoadAdminPageRoutes(),
		rt.LoadAdminAPIRoutes(),
		rt.LoadCatalogRoutes(),
		rt.LoadCustomerRoutes(),
		rt.LoadCartRoutes(),
		rt.LoadOrderRoutes(),
		rt.LoadPaymentRoutes(),
		rt.LoadShipmentRoutes(),
		rt.LoadClientPageRoutes(),
	}

	return errors.Join(errs...)
}

// LoadAdminSessionRoutes configures admin login, logout and the session probe.
// They stay open to guests and check the session themselves.
func (rt *Routes) LoadAdminSessionRoutes() error {
	return rt.registerRoutes(map[string]http.HandlerFunc{
		"GET /admin/login":         rt.handler.handleAdminLoginGet(),
		"POST /admin/login":        rt.handler.handleAdminLoginPost(),
		"POST /admin/logout":       rt.handler.handleAdminLogout(),
		"GET /admin/check-session": rt.handler.handleAdminCheckSession(),
	})
}

// LoadAdminPageRoutes configures the dashboard pages. The gate redirects to
// the login page when the session is missing or stale.
func (rt *Routes) LoadAdminPageRoutes() error {
	return rt.registerRoutes(map[string]http.HandlerFunc{
		"GET /admin":                rt.handler.handleAdminPage(web.PageAdminIndex),
		"GET /admin/products":       rt.handler.handleAdminPage(web.PageAdminProducts),
		"GET /admin/products/add":   rt.handler.handleAdminPage(web.PageAdminProductsAdd),
		"GET /admin/categories":     rt.handler.handleAdminPage(web.PageAdminCategories),
		"GET /admin/categories/add": rt.handler.handleAdminPage(web.PageAdminCategoriesAdd),
		"GET /admin/orders":         rt.handler.handleAdminPage(web.PageAdminOrders),
		"GET /admin/orders/pending": rt.handler.handleAdminPage(web.PageAdminOrdersPending),
		"GET /admin/users":          rt.handler.handleAdminPage(web.PageAdminUsers),
		"GET /admin/users/activity": rt.handler.handleAdminPage(web.PageAdminUsersActivity),
	})
}

func (rt *Routes) LoadAdminAPIRoutes() error {
	return rt.registerRoutes(map[string]http.HandlerFunc{
		"GET /api/v1/admin/stats/products":  rt.handler.handleProductStats(),
		"GET /api/v1/admin/stats/orders":    rt.handler.handleOrderStats(),
		"GET /api/v1/admin/stats/users":     rt.handler.handleCustomerStats(),
		"GET /api/v1/admin/debug":           rt.handler.handleDebug(),
		"GET /api/v1/admin/filter/orders":   rt.handler.handleFilterOrders(),
		"GET /api/v1/admin/filter/products": rt.handler.handleFilterProducts(),
	})
}

func (rt *Routes) LoadCatalogRoutes() error {
	return rt.registerRoutes(map[string]http.HandlerFunc{
		"POST /api/v1/categorias":        rt.handler.handleCategoryCreate(),
		"GET /api/v1/categorias":         rt.handler.handleCategoryList(),
		"GET /api/v1/categorias/{id}":    rt.handler.handleCategoryGet(),
		"PUT /api/v1/categorias/{id}":    rt.handler.handleCategoryUpdate(),
		"DELETE /api/v1/categorias/{id}": rt.handler.handleCategoryDelete(),

		"POST /api/v1/productos":               rt.handler.handleProductCreate(),
		"GET /api/v1/productos":                rt.handler.handleProductList(),
		"GET /api/v1/productos/{id}":           rt.handler.handleProductGet(),
		"PUT /api/v1/productos/{id}":           rt.handler.handleProductUpdate(),
		"DELETE /api/v1/productos/{id}":        rt.handler.handleProductDelete(),
		"GET /api/v1/productos/categoria/{id}": rt.handler.handleProductListByCategory(),
	})
}

// LoadCustomerRoutes configures customer accounts, the customer login that
// issues bearer tokens, and the per-customer cart and order listings. The
// listings are also reachable as /carritos/cliente/{id} and
// /pedidos/cliente/{id}.
func (rt *Routes) LoadCustomerRoutes() error {
	return rt.registerRoutes(map[string]http.HandlerFunc{
		"POST /api/v1/clientes":              rt.handler.handleCustomerCreate(),
		"GET /api/v1/clientes":               rt.handler.handleCustomerList(),
		"GET /api/v1/clientes/{id}":          rt.handler.handleCustomerGet(),
		"PUT /api/v1/clientes/{id}":          rt.handler.handleCustomerUpdate(),
		"DELETE /api/v1/clientes/{id}":       rt.handler.handleCustomerDelete(),
		"POST /api/v1/clientes/login":        rt.handler.handleCustomerLogin(),
		"GET /api/v1/clientes/me":            rt.handler.handleCustomerMe(),
		"GET /api/v1/clientes/{id}/carritos": rt.handler.handleCartListByCustomer(),
		"GET /api/v1/clientes/{id}/pedidos":  rt.handler.handleOrderListByCustomer(),
	})
}

func (rt *Routes) LoadCartRoutes() error {
	return rt.registerRoutes(map[string]http.HandlerFunc{
		"POST /api/v1/carritos":        rt.handler.handleCartCreate(),
		"GET /api/v1/carritos":         rt.handler.handleCartList(),
		"GET /api/v1/carritos/{id}":    rt.handler.handleCartGet(),
		"PUT /api/v1/carritos/{id}":    rt.handler.handleCartUpdate(),
		"DELETE /api/v1/carritos/{id}": rt.handler.handleCartDelete(),
		"POST /api/v1/carritos/{a}/{b}": rt.handler.handleNested(nil, map[string]http.HandlerFunc{
			"detalles": rt.handler.handleCartItemAdd(),
		}),
		"GET /api/v1/carritos/{a}/{b}": rt.handler.handleNested(rt.handler.handleCartListByCustomer(), map[string]http.HandlerFunc{
			"detalles": rt.handler.handleCartItemList(),
		}),
	})
}

func (rt *Routes) LoadOrderRoutes() error {
	return rt.registerRoutes(map[string]http.HandlerFunc{
		"POST /api/v1/pedidos":        rt.handler.handleOrderCreate(),
		"GET /api/v1/pedidos":         rt.handler.handleOrderList(),
		"GET /api/v1/pedidos/{id}":    rt.handler.handleOrderGet(),
		"PUT /api/v1/pedidos/{id}":    rt.handler.handleOrderUpdate(),
		"DELETE /api/v1/pedidos/{id}": rt.handler.handleOrderDelete(),
		"PATCH /api/v1/pedidos/{a}/{b}": rt.handler.handleNested(nil, map[string]http.HandlerFunc{
			"estado": rt.handler.handleOrderStatusPatch(),
		}),
		"POST /api/v1/pedidos/{a}/{b}": rt.handler.handleNested(nil, map[string]http.HandlerFunc{
			"detalles": rt.handler.handleOrderItemAdd(),
		}),
		"GET /api/v1/pedidos/{a}/{b}": rt.handler.handleNested(rt.handler.handleOrderListByCustomer(), map[string]http.HandlerFunc{
			"detalles": rt.handler.handleOrderItemList(),
		}),
	})
}

func (rt *Routes) LoadPaymentRoutes() error {
	return rt.registerRoutes(map[string]http.HandlerFunc{
		"POST /api/v1/pagos":            rt.handler.handlePaymentCreate(),
		"GET /api/v1/pagos":             rt.handler.handlePaymentList(),
		"GET /api/v1/pagos/{id}":        rt.handler.handlePaymentGet(),
		"PUT /api/v1/pagos/{id}":        rt.handler.handlePaymentUpdate(),
		"DELETE /api/v1/pagos/{id}":     rt.handler.handlePaymentDelete(),
		"GET /api/v1/pagos/pedido/{id}": rt.handler.handlePaymentListByOrder(),
	})
}

func (rt *Routes) LoadShipmentRoutes() error {
	return rt.registerRoutes(map[string]http.HandlerFunc{
		"POST /api/v1/envios":            rt.handler.handleShipmentCreate(),
		"GET /api/v1/envios":             rt.handler.handleShipmentList(),
		"GET /api/v1/envios/{id}":        rt.handler.handleShipmentGet(),
		"PUT /api/v1/envios/{id}":        rt.handler.handleShipmentUpdate(),
		"DELETE /api/v1/envios/{id}":     rt.handler.handleShipmentDelete(),
		"GET /api/v1/envios/pedido/{id}": rt.handler.handleShipmentGetByOrder(),
	})
}

// LoadClientPageRoutes configures the storefront pages, the health probe and
// the static assets.
func (rt *Routes) LoadClientPageRoutes() error {
	return rt.registerRoutes(map[string]http.HandlerFunc{
		"GET /{$}":               rt.handler.handleClientPage(web.PageIndex),
		"GET /user":              rt.handler.handleClientPage(web.PageUser),
		"GET /cart":              rt.handler.handleClientPage(web.PageCart),
		"GET /product":           rt.handler.handleClientPage(web.PageProduct),
		"GET /login-template":    rt.handler.handleClientPage(web.PageLogin),
		"GET /register-template": rt.handler.handleClientPage(web.PageRegister),
		"GET /health":            rt.handler.handleHealth(),
		"GET /static/":           http.StripPrefix("/static/", web.StaticHandler()).ServeHTTP,
	})
}

// registerRoutes registers a set of HTTP routes with their corresponding handlers.
// It accepts a map where the keys are route patterns (e.g., "GET /admin/login")
// and the values are the associated http.HandlerFunc implementations.
//
// If any calls to enforcer.Handle fail, all resulting errors are collected
// and returned as a single error using errors.Join. If all registrations succeed,
// the returned error will be nil.
func (rt *Routes) registerRoutes(routes map[string]http.HandlerFunc) error {
	var errs []error
	for pattern, handler := range routes {
		if err := rt.enforcer.Handle(pattern, handler); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
