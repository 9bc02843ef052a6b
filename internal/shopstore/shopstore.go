// Package shopstore persists the storefront catalogue, carts, orders,
// payments and shipments, and computes the admin dashboard figures.
package shopstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/bl815v/Tiendo/internal/db"
	"github.com/bl815v/Tiendo/internal/logutil"
	"github.com/bl815v/Tiendo/pkg/models"
)

// Catalog manages categories and products.
type Catalog interface {
	CreateCategory(ctx context.Context, args models.CategoryParams) (*models.Category, error)
	ListCategories(ctx context.Context, page models.Page) ([]*models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, args models.CategoryParams) (*models.Category, error)
	// DeleteCategory leaves the category's products uncategorised.
	DeleteCategory(ctx context.Context, id int64) error

	CreateProduct(ctx context.Context, args models.ProductParams) (*models.Product, error)
	ListProducts(ctx context.Context, page models.Page) ([]*models.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID int64) ([]*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, args models.ProductParams) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// Carts manages shopping carts and their line items.
type Carts interface {
	// CreateCart inserts the cart and its items in one transaction.
	CreateCart(ctx context.Context, args models.CartParams) (*models.Cart, error)
	ListCarts(ctx context.Context, page models.Page) ([]*models.Cart, error)
	ListCartsByCustomer(ctx context.Context, customerID int64) ([]*models.Cart, error)
	GetCart(ctx context.Context, id int64) (*models.Cart, error)
	// UpdateCart replaces the cart's scalar fields; items are left alone.
	UpdateCart(ctx context.Context, id int64, args models.CartParams) (*models.Cart, error)
	DeleteCart(ctx context.Context, id int64) error
	AddCartItem(ctx context.Context, cartID int64, args models.LineItemParams) (*models.CartItem, error)
	ListCartItems(ctx context.Context, cartID int64) ([]*models.CartItem, error)
}

// Orders manages orders and their line items.
type Orders interface {
	// CreateOrder inserts the order and its items in one transaction.
	CreateOrder(ctx context.Context, args models.OrderParams) (*models.Order, error)
	ListOrders(ctx context.Context, page models.Page) ([]*models.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID int64) ([]*models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	// UpdateOrder replaces the order's scalar fields; items are left alone.
	UpdateOrder(ctx context.Context, id int64, args models.OrderParams) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error)
	// DeleteOrder also removes the order's items, payments and shipment.
	DeleteOrder(ctx context.Context, id int64) error
	AddOrderItem(ctx context.Context, orderID int64, args models.LineItemParams) (*models.OrderItem, error)
	ListOrderItems(ctx context.Context, orderID int64) ([]*models.OrderItem, error)
}

type Payments interface {
	// CreatePayment generates a reference when none is given.
	CreatePayment(ctx context.Context, args models.PaymentParams) (*models.Payment, error)
	ListPayments(ctx context.Context, page models.Page) ([]*models.Payment, error)
	ListPaymentsByOrder(ctx context.Context, orderID int64) ([]*models.Payment, error)
	GetPayment(ctx context.Context, id int64) (*models.Payment, error)
	UpdatePayment(ctx context.Context, id int64, args models.PaymentParams) (*models.Payment, error)
	DeletePayment(ctx context.Context, id int64) error
}

type Shipments interface {
	CreateShipment(ctx context.Context, args models.ShipmentParams) (*models.Shipment, error)
	ListShipments(ctx context.Context, page models.Page) ([]*models.Shipment, error)
	GetShipment(ctx context.Context, id int64) (*models.Shipment, error)
	GetShipmentByOrder(ctx context.Context, orderID int64) (*models.Shipment, error)
	UpdateShipment(ctx context.Context, id int64, args models.ShipmentParams) (*models.Shipment, error)
	DeleteShipment(ctx context.Context, id int64) error
}

// Admin computes the dashboard figures.
type Admin interface {
	ProductStats(ctx context.Context) (*models.ProductStats, error)
	OrderStats(ctx context.Context) (*models.OrderStats, error)
	CustomerStats(ctx context.Context) (*models.CustomerStats, error)
	Debug(ctx context.Context) (*models.DebugReport, error)
	FilterOrders(ctx context.Context, f models.OrderFilter) ([]*models.Order, error)
	FilterProducts(ctx context.Context, f models.ProductFilter) ([]*models.Product, error)
}

// Store is the whole storefront datastore.
type Store interface {
	Catalog
	Carts
	Orders
	Payments
	Shipments
	Admin
}

type Option func(*sqlShopStore)

func WithClock(now func() time.Time) Option {
	return func(s *sqlShopStore) {
		if now != nil {
			s.now = now
		}
	}
}

type sqlShopStore struct {
	db      *sql.DB
	dialect db.Dialect
	conn    db.Conn
	log     *slog.Logger
	now     func() time.Time
}

// New returns a storefront store backed by sqlDB.
func New(sqlDB *sql.DB, dialect db.Dialect, logger *slog.Logger, opts ...Option) *sqlShopStore {
	s := &sqlShopStore{
		db:      sqlDB,
		dialect: dialect,
		conn:    db.Conn{Q: sqlDB, Dialect: dialect},
		log:     logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *sqlShopStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlShopStore) inTx(ctx context.Context, fn func(db.Conn) error) error {
	return db.InTx(ctx, s.db, s.dialect, fn)
}

type scanner interface {
	Scan(dest ...any) error
}

// queryAll runs query and scans every row with scan.
func queryAll[T any](ctx context.Context, conn db.Conn, scan func(scanner) (*T, error), query string, args ...any) ([]*T, error) {
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// wrapErr classifies err: sql.ErrNoRows becomes a NotFoundError with detail,
// a ValidationError or NotFoundError passes through, and anything else is a
// DatabaseError with constraint violations recognised.
func (s *sqlShopStore) wrapErr(errMsg string, err error, entity string, id int64, detail string) error {
	var ve *models.ValidationError
	var nf *models.NotFoundError
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return logutil.DebugAndWrapErr(s.log, errMsg, models.NewNotFoundError(entity, id, detail))
	case errors.As(err, &ve), errors.As(err, &nf):
		return logutil.DebugAndWrapErr(s.log, errMsg, err)
	default:
		wrapped := db.WrapConstraintError(err)
		if db.IsConstraintError(wrapped) {
			return logutil.DebugAndWrapErr(s.log, errMsg, models.NewDatabaseError(wrapped))
		}
		return logutil.LogAndWrapErr(s.log, errMsg, models.NewDatabaseError(wrapped))
	}
}

// deleteRow removes one row by primary key, returning a NotFoundError when nothing matched.
func (s *sqlShopStore) deleteRow(ctx context.Context, table, idColumn string, id int64, entity, detail string) error {
	errMsg := "failed to delete " + entity

	res, err := s.conn.Exec(ctx, `DELETE FROM `+table+` WHERE `+idColumn+` = ?`, id)
	if err != nil {
		return s.wrapErr(errMsg, err, entity, id, detail)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.wrapErr(errMsg, err, entity, id, detail)
	}
	if n == 0 {
		return s.wrapErr(errMsg, sql.ErrNoRows, entity, id, detail)
	}
	return nil
}

// exists reports whether a row with the given key exists, as a NotFoundError otherwise.
func exists(ctx context.Context, conn db.Conn, table, idColumn string, id int64, entity, detail string) error {
	var one int
	err := conn.QueryRow(ctx, `SELECT 1 FROM `+table+` WHERE `+idColumn+` = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewNotFoundError(entity, id, detail)
	}
	return err
}

const (
	detailCategoryNotFound      = "Categoría no encontrada"
	detailProductNotFound       = "Producto no encontrado"
	detailCustomerNotFound      = "Cliente no encontrado"
	detailCartNotFound          = "Carrito no encontrado"
	detailOrderNotFound         = "Pedido no encontrado"
	detailPaymentNotFound       = "Pago no encontrado"
	detailShipmentNotFound      = "Envío no encontrado"
	detailShipmentOrderNotFound = "Envío no encontrado para este pedido"
)
