package shopstore

import (
	"context"
	"strings"
	"time"

	"github.com/bl815v/Tiendo/internal/db"
	"github.com/bl815v/Tiendo/internal/logutil"
	"github.com/bl815v/Tiendo/pkg/models"
)

const (
	cartColumns     = `id_carrito, id_cliente, fecha_creacion, activo`
	cartItemColumns = `id_detalle, id_carrito, id_producto, cantidad, precio_unitario`
)

func (s *sqlShopStore) CreateCart(ctx context.Context, args models.CartParams) (*models.Cart, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "CreateCart")()
	errMsg := "failed to create cart"

	if err := args.Validate(); err != nil {
		return nil, s.wrapErr(errMsg, err, "carrito", 0, "")
	}

	created := s.now()
	if args.CreatedAt != nil {
		created = *args.CreatedAt
	}

	var cartID int64
	err := s.inTx(ctx, func(tx db.Conn) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO carrito (id_cliente, fecha_creacion, activo) VALUES (?, ?, ?) RETURNING id_carrito`,
			*args.CustomerID, db.UTC(created), *args.Active).Scan(&cartID)
		if err != nil {
			return err
		}
		for _, item := range args.Items {
			if _, err := insertCartItem(ctx, tx, cartID, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "carrito", 0, "")
	}
	return s.GetCart(ctx, cartID)
}

func (s *sqlShopStore) ListCarts(ctx context.Context, page models.Page) ([]*models.Cart, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "ListCarts")()
	errMsg := "failed to list carts"

	carts, err := queryAll(ctx, s.conn, scanCart,
		`SELECT `+cartColumns+` FROM carrito ORDER BY id_carrito LIMIT ? OFFSET ?`, page.Limit, page.Skip)
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "carrito", 0, "")
	}
	if err := s.attachCartItems(ctx, carts); err != nil {
		return nil, s.wrapErr(errMsg, err, "carrito", 0, "")
	}
	return carts, nil
}

func (s *sqlShopStore) ListCartsByCustomer(ctx context.Context, customerID int64) ([]*models.Cart, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "ListCartsByCustomer", "customer_id", customerID)()
	errMsg := "failed to list carts by customer"

	carts, err := queryAll(ctx, s.conn, scanCart,
		`SELECT `+cartColumns+` FROM carrito WHERE id_cliente = ? ORDER BY id_carrito`, customerID)
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "carrito", 0, "")
	}
	if err := s.attachCartItems(ctx, carts); err != nil {
		return nil, s.wrapErr(errMsg, err, "carrito", 0, "")
	}
	return carts, nil
}

func (s *sqlShopStore) GetCart(ctx context.Context, id int64) (*models.Cart, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "GetCart", "id", id)()
	errMsg := "failed to get cart"

	c, err := scanCart(s.conn.QueryRow(ctx, `SELECT `+cartColumns+` FROM carrito WHERE id_carrito = ?`, id))
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "carrito", id, detailCartNotFound)
	}
	if err := s.attachCartItems(ctx, []*models.Cart{c}); err != nil {
		return nil, s.wrapErr(errMsg, err, "carrito", id, detailCartNotFound)
	}
	return c, nil
}

func (s *sqlShopStore) UpdateCart(ctx context.Context, id int64, args models.CartParams) (*models.Cart, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "UpdateCart", "id", id)()
	errMsg := "failed to update cart"

	if err := args.Validate(); err != nil {
		return nil, s.wrapErr(errMsg, err, "carrito", id, "")
	}

	current, err := s.GetCart(ctx, id)
	if err != nil {
		return nil, err
	}
	created := current.CreatedAt
	if args.CreatedAt != nil {
		created = *args.CreatedAt
	}

	_, err = s.conn.Exec(ctx,
		`UPDATE carrito SET id_cliente = ?, fecha_creacion = ?, activo = ? WHERE id_carrito = ?`,
		*args.CustomerID, db.UTC(created), *args.Active, id)
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "carrito", id, detailCartNotFound)
	}
	return s.GetCart(ctx, id)
}

func (s *sqlShopStore) DeleteCart(ctx context.Context, id int64) error {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "DeleteCart", "id", id)()
	return s.deleteRow(ctx, "carrito", "id_carrito", id, "carrito", detailCartNotFound)
}

func (s *sqlShopStore) AddCartItem(ctx context.Context, cartID int64, args models.LineItemParams) (*models.CartItem, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "AddCartItem", "cart_id", cartID)()
	errMsg := "failed to add cart item"

	if err := args.Validate(true); err != nil {
		return nil, s.wrapErr(errMsg, err, "detalle_carrito", 0, "")
	}

	var item *models.CartItem
	err := s.inTx(ctx, func(tx db.Conn) error {
		if err := exists(ctx, tx, "carrito", "id_carrito", cartID, "carrito", detailCartNotFound); err != nil {
			return err
		}
		var err error
		item, err = insertCartItem(ctx, tx, cartID, args)
		return err
	})
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "carrito", cartID, detailCartNotFound)
	}
	return item, nil
}

func (s *sqlShopStore) ListCartItems(ctx context.Context, cartID int64) ([]*models.CartItem, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "ListCartItems", "cart_id", cartID)()

	items, err := queryAll(ctx, s.conn, scanCartItem,
		`SELECT `+cartItemColumns+` FROM detalle_carrito WHERE id_carrito = ? ORDER BY id_detalle`, cartID)
	if err != nil {
		return nil, s.wrapErr("failed to list cart items", err, "detalle_carrito", 0, "")
	}
	return items, nil
}

// attachCartItems loads the items of every cart in one query.
func (s *sqlShopStore) attachCartItems(ctx context.Context, carts []*models.Cart) error {
	if len(carts) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Cart, len(carts))
	args := make([]any, 0, len(carts))
	for _, c := range carts {
		c.Items = make([]models.CartItem, 0)
		byID[c.ID] = c
		args = append(args, c.ID)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
	items, err := queryAll(ctx, s.conn, scanCartItem,
		`SELECT `+cartItemColumns+` FROM detalle_carrito WHERE id_carrito IN (`+placeholders+`) ORDER BY id_detalle`,
		args...)
	if err != nil {
		return err
	}
	for _, it := range items {
		if c, ok := byID[it.CartID]; ok {
			c.Items = append(c.Items, *it)
		}
	}
	return nil
}

func insertCartItem(ctx context.Context, conn db.Conn, cartID int64, item models.LineItemParams) (*models.CartItem, error) {
	return scanCartItem(conn.QueryRow(ctx, `
		INSERT INTO detalle_carrito (id_carrito, id_producto, cantidad, precio_unitario)
		VALUES (?, ?, ?, ?)
		RETURNING `+cartItemColumns,
		cartID, *item.ProductID, *item.Quantity, *item.UnitPrice))
}

func scanCart(row scanner) (*models.Cart, error) {
	var c models.Cart
	if err := row.Scan(&c.ID, &c.CustomerID, &c.CreatedAt, &c.Active); err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

func scanCartItem(row scanner) (*models.CartItem, error) {
	var it models.CartItem
	if err := row.Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
		return nil, err
	}
	return &it, nil
}
