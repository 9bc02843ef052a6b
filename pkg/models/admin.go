package models

import "time"

// Pagination bounds for list endpoints.
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
	MaxFilterLimit   = 200
)

// Page is a skip/limit window over an ordered list.
type Page struct {
	Skip  int64
	Limit int64
}

// ClampPage applies the CRUD list defaults: a negative skip becomes 0 and the
// limit is clamped to 1..MaxListLimit, with 0 meaning DefaultListLimit.
func ClampPage(skip, limit int64) Page {
	if skip < 0 {
		skip = 0
	}
	switch {
	case limit == 0:
		limit = DefaultListLimit
	case limit < 1:
		limit = 1
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	return Page{Skip: skip, Limit: limit}
}

type ProductStats struct {
	Total           int64   `json:"total_productos"`
	LowStock        int64   `json:"productos_bajo_stock"`
	WithoutImage    int64   `json:"productos_sin_imagen"`
	LowStockPercent float64 `json:"bajo_stock_porcentaje"`
}

type OrderStats struct {
	Total      int64            `json:"total_pedidos"`
	Today      int64            `json:"pedidos_hoy"`
	TotalSales float64          `json:"total_ventas"`
	ByStatus   map[string]int64 `json:"por_estado"`
}

type CustomerStats struct {
	Total         int64   `json:"total_usuarios"`
	WithOrders    int64   `json:"usuarios_con_pedidos"`
	NewLast7Days  int64   `json:"nuevos_usuarios_7dias"`
	ActivePercent float64 `json:"usuarios_activos_porcentaje"`
}

// Percent returns part/total*100, or 0 when total is 0.
func Percent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// DebugCounts are row counts per table.
type DebugCounts struct {
	Categories int64 `json:"categorias"`
	Products   int64 `json:"productos"`
	Customers  int64 `json:"clientes"`
	Orders     int64 `json:"pedidos"`
}

// NamedRecord is the id and name of the newest row in a table.
type NamedRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}

type TotalRecord struct {
	ID    int64   `json:"id"`
	Total float64 `json:"total"`
}

type LastRecords struct {
	Category *NamedRecord `json:"categoria"`
	Product  *NamedRecord `json:"producto"`
	Customer *NamedRecord `json:"cliente"`
	Order    *TotalRecord `json:"pedido"`
}

// DebugReport is the admin connectivity report.
type DebugReport struct {
	Status      string       `json:"status"`
	Database    string       `json:"database"`
	Timestamp   time.Time    `json:"timestamp"`
	Counts      *DebugCounts `json:"counts,omitempty"`
	LastRecords *LastRecords `json:"last_records,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// OrderFilter narrows the admin order listing. Nil fields are not applied.
type OrderFilter struct {
	Status     *string
	CustomerID *int64
	From       *time.Time
	To         *time.Time
	Skip       int64
	Limit      int64
}

// ProductFilter narrows the admin product listing. Nil fields are not applied.
type ProductFilter struct {
	CategoryID *int64
	StockMin   *int64
	StockMax   *int64
	PriceMin   *float64
	PriceMax   *float64
	Skip       int64
	Limit      int64
}

// ValidateFilterPage checks the stricter window used by the admin filters.
func ValidateFilterPage(skip, limit int64) error {
	if skip < 0 {
		return NewValidationError("skip must be greater than or equal to 0")
	}
	if limit < 1 || limit > MaxFilterLimit {
		return NewValidationError("limit must be between 1 and 200")
	}
	return nil
}
