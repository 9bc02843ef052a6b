// Package web holds the storefront's HTML templates and static assets,
// embedded into the binary.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names accepted by Renderer.Render.
const (
	PageIndex              = "index"
	PageUser               = "user"
	PageCart               = "cart"
	PageProduct            = "product"
	PageLogin              = "login"
	PageRegister           = "register"
	PageAdminLogin         = "admin_login"
	PageAdminIndex         = "admin_index"
	PageAdminProducts      = "admin_products"
	PageAdminProductsAdd   = "admin_products_add"
	PageAdminCategories    = "admin_categories"
	PageAdminCategoriesAdd = "admin_categories_add"
	PageAdminOrders        = "admin_orders"
	PageAdminOrdersPending = "admin_orders_pending"
	PageAdminUsers         = "admin_users"
	PageAdminUsersActivity = "admin_users_activity"
)

// PageData is what every template receives.
type PageData struct {
	Title    string
	Username string
	Error    string
}

// Renderer executes the embedded pages, each inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every embedded page once.
func NewRenderer() (*Renderer, error) {
	layout, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		if name == "layout" {
			continue
		}
		t, err := template.Must(layout.Clone()).ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page to w. The page is executed into a buffer first so a
// template error never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, page string, data PageData) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	if rw, ok := w.(http.ResponseWriter); ok {
		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	_, err := buf.WriteTo(w)
	return err
}

// StaticHandler serves the embedded assets. Mount it under /static/ with the
// prefix stripped.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServerFS(sub)
}
