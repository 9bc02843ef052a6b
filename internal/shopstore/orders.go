package shopstore

import (
	"context"
	"time"

	"github.com/bl815v/Tiendo/internal/db"
	"github.com/bl815v/Tiendo/internal/logutil"
	"github.com/bl815v/Tiendo/pkg/models"
)

const (
	orderColumns     = `id_pedido, id_cliente, fecha_pedido, total, estado`
	orderItemColumns = `id_detalle, id_pedido, id_producto, cantidad, precio_unitario`
)

func (s *sqlShopStore) CreateOrder(ctx context.Context, args models.OrderParams) (*models.Order, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "CreateOrder")()
	errMsg := "failed to create order"

	if err := args.Validate(); err != nil {
		return nil, s.wrapErr(errMsg, err, "pedido", 0, "")
	}

	placed := s.now()
	if args.PlacedAt != nil {
		placed = *args.PlacedAt
	}

	var orderID int64
	err := s.inTx(ctx, func(tx db.Conn) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO pedido (id_cliente, fecha_pedido, total, estado) VALUES (?, ?, ?, ?) RETURNING id_pedido`,
			*args.CustomerID, db.UTC(placed), *args.Total, args.Status.String()).Scan(&orderID)
		if err != nil {
			return err
		}
		for _, item := range args.Items {
			if _, err := insertOrderItem(ctx, tx, orderID, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "pedido", 0, "")
	}
	return s.GetOrder(ctx, orderID)
}

func (s *sqlShopStore) ListOrders(ctx context.Context, page models.Page) ([]*models.Order, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "ListOrders")()

	orders, err := queryAll(ctx, s.conn, scanOrder,
		`SELECT `+orderColumns+` FROM pedido ORDER BY id_pedido LIMIT ? OFFSET ?`, page.Limit, page.Skip)
	if err != nil {
		return nil, s.wrapErr("failed to list orders", err, "pedido", 0, "")
	}
	return orders, nil
}

func (s *sqlShopStore) ListOrdersByCustomer(ctx context.Context, customerID int64) ([]*models.Order, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "ListOrdersByCustomer", "customer_id", customerID)()

	orders, err := queryAll(ctx, s.conn, scanOrder,
		`SELECT `+orderColumns+` FROM pedido WHERE id_cliente = ? ORDER BY id_pedido`, customerID)
	if err != nil {
		return nil, s.wrapErr("failed to list orders by customer", err, "pedido", 0, "")
	}
	return orders, nil
}

func (s *sqlShopStore) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "GetOrder", "id", id)()

	o, err := scanOrder(s.conn.QueryRow(ctx, `SELECT `+orderColumns+` FROM pedido WHERE id_pedido = ?`, id))
	if err != nil {
		return nil, s.wrapErr("failed to get order", err, "pedido", id, detailOrderNotFound)
	}
	return o, nil
}

func (s *sqlShopStore) UpdateOrder(ctx context.Context, id int64, args models.OrderParams) (*models.Order, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "UpdateOrder", "id", id)()
	errMsg := "failed to update order"

	if err := args.Validate(); err != nil {
		return nil, s.wrapErr(errMsg, err, "pedido", id, "")
	}

	current, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	placed := current.PlacedAt
	if args.PlacedAt != nil {
		placed = *args.PlacedAt
	}

	_, err = s.conn.Exec(ctx,
		`UPDATE pedido SET id_cliente = ?, fecha_pedido = ?, total = ?, estado = ? WHERE id_pedido = ?`,
		*args.CustomerID, db.UTC(placed), *args.Total, args.Status.String(), id)
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "pedido", id, detailOrderNotFound)
	}
	return s.GetOrder(ctx, id)
}

func (s *sqlShopStore) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "UpdateOrderStatus", "id", id)()
	errMsg := "failed to update order status"

	if !status.IsValid() {
		return nil, s.wrapErr(errMsg, models.NewValidationError("invalid estado: "+status.String()), "pedido", id, "")
	}

	res, err := s.conn.Exec(ctx, `UPDATE pedido SET estado = ? WHERE id_pedido = ?`, status.String(), id)
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "pedido", id, detailOrderNotFound)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, s.wrapErr(errMsg, sql.ErrNoRows, "pedido", id, detailOrderNotFound)
	}
	return s.GetOrder(ctx, id)
}

func (s *sqlShopStore) DeleteOrder(ctx context.Context, id int64) error {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "DeleteOrder", "id", id)()
	return s.deleteRow(ctx, "pedido", "id_pedido", id, "pedido", detailOrderNotFound)
}

func (s *sqlShopStore) AddOrderItem(ctx context.Context, orderID int64, args models.LineItemParams) (*models.OrderItem, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "AddOrderItem", "order_id", orderID)()
	errMsg := "failed to add order item"

	if err := args.Validate(false); err != nil {
		return nil, s.wrapErr(errMsg, err, "detalle_pedido", 0, "")
	}

	var item *models.OrderItem
	err := s.inTx(ctx, func(tx db.Conn) error {
		if err := exists(ctx, tx, "pedido", "id_pedido", orderID, "pedido", detailOrderNotFound); err != nil {
			return err
		}
		var err error
		item, err = insertOrderItem(ctx, tx, orderID, args)
		return err
	})
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "pedido", orderID, detailOrderNotFound)
	}
	return item, nil
}

func (s *sqlShopStore) ListOrderItems(ctx context.Context, orderID int64) ([]*models.OrderItem, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "ListOrderItems", "order_id", orderID)()

	items, err := queryAll(ctx, s.conn, scanOrderItem,
		`SELECT `+orderItemColumns+` FROM detalle_pedido WHERE id_pedido = ? ORDER BY id_detalle`, orderID)
	if err != nil {
		return nil, s.wrapErr("failed to list order items", err, "detalle_pedido", 0, "")
	}
	return items, nil
}

func insertOrderItem(ctx context.Context, conn db.Conn, orderID int64, item models.LineItemParams) (*models.OrderItem, error) {
	return scanOrderItem(conn.QueryRow(ctx, `
		INSERT INTO detalle_pedido (id_pedido, id_producto, cantidad, precio_unitario)
		VALUES (?, ?, ?, ?)
		RETURNING `+orderItemColumns,
		orderID, *item.ProductID, *item.Quantity, *item.UnitPrice))
}

func scanOrder(row scanner) (*models.Order, error) {
	var (
		o      models.Order
		status string
	)
	if err := row.Scan(&o.ID, &o.CustomerID, &o.PlacedAt, &o.Total, &status); err != nil {
		return nil, err
	}
	o.PlacedAt = o.PlacedAt.UTC()
	o.Status = models.OrderStatus(status)
	return &o, nil
}

func scanOrderItem(row scanner) (*models.OrderItem, error) {
	var it models.OrderItem
	if err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
		return nil, err
	}
	return &it, nil
}
