package shopstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/bl815v/Tiendo/internal/db"
	"github.com/bl815v/Tiendo/internal/logutil"
	"github.com/bl815v/Tiendo/pkg/models"
)

// lowStockThreshold is the stock level under which a product counts as low.
const lowStockThreshold = 10

func (s *sqlShopStore) ProductStats(ctx context.Context) (*models.ProductStats, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "ProductStats")()

	var st models.ProductStats
	err := s.conn.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN stock < ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN imagen IS NULL OR imagen = '' THEN 1 ELSE 0 END), 0)
		FROM producto`, lowStockThreshold).Scan(&st.Total, &st.LowStock, &st.WithoutImage)
	if err != nil {
		return nil, s.wrapErr("failed to compute product stats", err, "producto", 0, "")
	}
	st.LowStockPercent = models.Percent(st.LowStock, st.Total)
	return &st, nil
}

// OrderStats counts orders placed today by UTC calendar day.
func (s *sqlShopStore) OrderStats(ctx context.Context) (*models.OrderStats, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "OrderStats")()
	errMsg := "failed to compute order stats"

	today := startOfDay(s.now())
	st := models.OrderStats{ByStatus: make(map[string]int64)}
	err := s.conn.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN fecha_pedido >= ? AND fecha_pedido < ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(total), 0.0)
		FROM pedido`, today, today.AddDate(0, 0, 1)).Scan(&st.Total, &st.Today, &st.TotalSales)
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "pedido", 0, "")
	}

	rows, err := s.conn.Query(ctx, `SELECT estado, COUNT(*) FROM pedido GROUP BY estado`)
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "pedido", 0, "")
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, s.wrapErr(errMsg, err, "pedido", 0, "")
		}
		st.ByStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrapErr(errMsg, err, "pedido", 0, "")
	}
	return &st, nil
}

// CustomerStats counts as new every customer registered since the start of
// the UTC day seven days ago.
func (s *sqlShopStore) CustomerStats(ctx context.Context) (*models.CustomerStats, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "CustomerStats")()
	errMsg := "failed to compute customer stats"

	var st models.CustomerStats
	if err := s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM cliente`).Scan(&st.Total); err != nil {
		return nil, s.wrapErr(errMsg, err, "cliente", 0, "")
	}
	if err := s.conn.QueryRow(ctx, `SELECT COUNT(DISTINCT id_cliente) FROM pedido`).Scan(&st.WithOrders); err != nil {
		return nil, s.wrapErr(errMsg, err, "pedido", 0, "")
	}
	since := startOfDay(s.now()).AddDate(0, 0, -7)
	if err := s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM cliente WHERE fecha_registro >= ?`, since).Scan(&st.NewLast7Days); err != nil {
		return nil, s.wrapErr(errMsg, err, "cliente", 0, "")
	}
	st.ActivePercent = models.Percent(st.WithOrders, st.Total)
	return &st, nil
}

// Debug reports row counts and the newest row of the main tables. The
// returned error means the database could not be queried.
func (s *sqlShopStore) Debug(ctx context.Context) (*models.DebugReport, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "Debug")()
	errMsg := "failed to build debug report"

	var counts models.DebugCounts
	for _, c := range []struct {
		table string
		dst   *int64
	}{
		{"categoria", &counts.Categories},
		{"producto", &counts.Products},
		{"cliente", &counts.Customers},
		{"pedido", &counts.Orders},
	} {
		if err := s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM `+c.table).Scan(c.dst); err != nil {
			return nil, s.wrapErr(errMsg, err, c.table, 0, "")
		}
	}

	var (
		last models.LastRecords
		err  error
	)
	if last.Category, err = s.lastNamed(ctx, `SELECT id_categoria, nombre FROM categoria ORDER BY id_categoria DESC LIMIT 1`); err != nil {
		return nil, s.wrapErr(errMsg, err, "categoria", 0, "")
	}
	if last.Product, err = s.lastNamed(ctx, `SELECT id_producto, nombre FROM producto ORDER BY id_producto DESC LIMIT 1`); err != nil {
		return nil, s.wrapErr(errMsg, err, "producto", 0, "")
	}
	if last.Customer, err = s.lastNamed(ctx, `SELECT id_cliente, nombre FROM cliente ORDER BY id_cliente DESC LIMIT 1`); err != nil {
		return nil, s.wrapErr(errMsg, err, "cliente", 0, "")
	}

	var order models.TotalRecord
	err = s.conn.QueryRow(ctx, `SELECT id_pedido, total FROM pedido ORDER BY id_pedido DESC LIMIT 1`).Scan(&order.ID, &order.Total)
	switch {
	case err == nil:
		last.Order = &order
	case !errors.Is(err, sql.ErrNoRows):
		return nil, s.wrapErr(errMsg, err, "pedido", 0, "")
	}

	return &models.DebugReport{
		Status:      "OK",
		Database:    "connected",
		Timestamp:   s.now().UTC(),
		Counts:      &counts,
		LastRecords: &last,
	}, nil
}

func (s *sqlShopStore) lastNamed(ctx context.Context, query string) (*models.NamedRecord, error) {
	var rec models.NamedRecord
	err := s.conn.QueryRow(ctx, query).Scan(&rec.ID, &rec.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// FilterOrders lists orders matching every set field, newest first.
func (s *sqlShopStore) FilterOrders(ctx context.Context, f models.OrderFilter) ([]*models.Order, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "FilterOrders")()
	errMsg := "failed to filter orders"

	if err := models.ValidateFilterPage(f.Skip, f.Limit); err != nil {
		return nil, s.wrapErr(errMsg, err, "pedido", 0, "")
	}

	var w where
	if f.Status != nil {
		w.add("estado = ?", *f.Status)
	}
	if f.CustomerID != nil {
		w.add("id_cliente = ?", *f.CustomerID)
	}
	if f.From != nil {
		w.add("fecha_pedido >= ?", db.UTC(*f.From))
	}
	if f.To != nil {
		w.add("fecha_pedido <= ?", db.UTC(*f.To))
	}

	orders, err := queryAll(ctx, s.conn, scanOrder,
		`SELECT `+orderColumns+` FROM pedido`+w.String()+` ORDER BY fecha_pedido DESC, id_pedido DESC LIMIT ? OFFSET ?`,
		append(w.args, f.Limit, f.Skip)...)
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "pedido", 0, "")
	}
	return orders, nil
}

// FilterProducts lists products matching every set bound, by id.
func (s *sqlShopStore) FilterProducts(ctx context.Context, f models.ProductFilter) ([]*models.Product, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "FilterProducts")()
	errMsg := "failed to filter products"

	if err := models.ValidateFilterPage(f.Skip, f.Limit); err != nil {
		return nil, s.wrapErr(errMsg, err, "producto", 0, "")
	}

	var w where
	if f.CategoryID != nil {
		w.add("id_categoria = ?", *f.CategoryID)
	}
	if f.StockMin != nil {
		w.add("stock >= ?", *f.StockMin)
	}
	if f.StockMax != nil {
		w.add("stock <= ?", *f.StockMax)
	}
	if f.PriceMin != nil {
		w.add("precio >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		w.add("precio <= ?", *f.PriceMax)
	}

	products, err := queryAll(ctx, s.conn, scanProduct,
		`SELECT `+productColumns+` FROM producto`+w.String()+` ORDER BY id_producto LIMIT ? OFFSET ?`,
		append(w.args, f.Limit, f.Skip)...)
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "producto", 0, "")
	}
	return products, nil
}

// where accumulates AND-ed conditions and their arguments.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, arg)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
