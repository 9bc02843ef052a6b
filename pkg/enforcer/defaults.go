package enforcer

import "github.com/bl815v/Tiendo/pkg/models"

// LoadDefaultPolicies sets the storefront's access rules.
//
// The admin pages and the admin JSON API require an admin session, and the
// customer profile endpoint requires a bearer token. The admin login,
// logout and session check stay public: they handle authentication themselves.
// Everything else is open to guests.
func (e *Enforcer) LoadDefaultPolicies() {
	e.SetPolicy("/", "*", models.RoleGuest)

	e.SetPolicy("/admin", "*", models.RoleAdmin)
	e.SetPolicy("/admin/login", "*", models.RoleGuest)
	e.SetPolicy("/admin/logout", "*", models.RoleGuest)
	e.SetPolicy("/admin/check-session", "*", models.RoleGuest)

	e.SetPolicy("/api/v1/admin", "*", models.RoleAdmin)

	e.SetPolicy("/api/v1/clientes/me", "GET", models.RoleCustomer)
}
