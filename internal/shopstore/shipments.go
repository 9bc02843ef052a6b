package shopstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/bl815v/Tiendo/internal/db"
	"github.com/bl815v/Tiendo/internal/logutil"
	"github.com/bl815v/Tiendo/pkg/models"
)

const shipmentColumns = `id_envio, id_pedido, direccion_envio, ciudad_envio, pais_envio, estado_envio, fecha_envio, fecha_entrega, empresa_transporte, numero_guia`

// CreateShipment fails with a DuplicateKeyError when the order already has one.
func (s *sqlShopStore) CreateShipment(ctx context.Context, args models.ShipmentParams) (*models.Shipment, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "CreateShipment")()
	errMsg := "failed to create shipment"

	if err := args.Validate(); err != nil {
		return nil, s.wrapErr(errMsg, err, "envio", 0, "")
	}

	var id int64
	err := s.conn.QueryRow(ctx, `
		INSERT INTO envio (id_pedido, direccion_envio, ciudad_envio, pais_envio, estado_envio, fecha_envio, fecha_entrega, empresa_transporte, numero_guia)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id_envio`,
		*args.OrderID, args.Address, args.City, args.Country, args.Status,
		db.NullTime(args.ShippedAt), db.NullTime(args.DeliveredAt),
		db.NullString(args.Carrier), db.NullString(args.TrackingNo)).Scan(&id)
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "envio", 0, "")
	}
	return s.GetShipment(ctx, id)
}

func (s *sqlShopStore) ListShipments(ctx context.Context, page models.Page) ([]*models.Shipment, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "ListShipments")()

	shipments, err := queryAll(ctx, s.conn, scanShipment,
		`SELECT `+shipmentColumns+` FROM envio ORDER BY id_envio LIMIT ? OFFSET ?`, page.Limit, page.Skip)
	if err != nil {
		return nil, s.wrapErr("failed to list shipments", err, "envio", 0, "")
	}
	return shipments, nil
}

func (s *sqlShopStore) GetShipment(ctx context.Context, id int64) (*models.Shipment, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "GetShipment", "id", id)()

	sh, err := scanShipment(s.conn.QueryRow(ctx, `SELECT `+shipmentColumns+` FROM envio WHERE id_envio = ?`, id))
	if err != nil {
		return nil, s.wrapErr("failed to get shipment", err, "envio", id, detailShipmentNotFound)
	}
	return sh, nil
}

func (s *sqlShopStore) GetShipmentByOrder(ctx context.Context, orderID int64) (*models.Shipment, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "GetShipmentByOrder", "order_id", orderID)()

	sh, err := scanShipment(s.conn.QueryRow(ctx, `SELECT `+shipmentColumns+` FROM envio WHERE id_pedido = ?`, orderID))
	if err != nil {
		return nil, s.wrapErr("failed to get shipment by order", err, "envio", 0, detailShipmentOrderNotFound)
	}
	return sh, nil
}

func (s *sqlShopStore) UpdateShipment(ctx context.Context, id int64, args models.ShipmentParams) (*models.Shipment, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "UpdateShipment", "id", id)()
	errMsg := "failed to update shipment"

	if err := args.Validate(); err != nil {
		return nil, s.wrapErr(errMsg, err, "envio", id, "")
	}

	res, err := s.conn.Exec(ctx, `
		UPDATE envio
		SET id_pedido = ?, direccion_envio = ?, ciudad_envio = ?, pais_envio = ?, estado_envio = ?,
		    fecha_envio = ?, fecha_entrega = ?, empresa_transporte = ?, numero_guia = ?
		WHERE id_envio = ?`,
		*args.OrderID, args.Address, args.City, args.Country, args.Status,
		db.NullTime(args.ShippedAt), db.NullTime(args.DeliveredAt),
		db.NullString(args.Carrier), db.NullString(args.TrackingNo), id)
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "envio", id, detailShipmentNotFound)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, s.wrapErr(errMsg, sql.ErrNoRows, "envio", id, detailShipmentNotFound)
	}
	return s.GetShipment(ctx, id)
}

func (s *sqlShopStore) DeleteShipment(ctx context.Context, id int64) error {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "DeleteShipment", "id", id)()
	return s.deleteRow(ctx, "envio", "id_envio", id, "envio", detailShipmentNotFound)
}

func scanShipment(row scanner) (*models.Shipment, error) {
	var (
		sh                  models.Shipment
		shipped, delivered  sql.NullTime
		carrier, trackingNo  sql.NullString
	)
	err := row.Scan(&sh.ID, &sh.OrderID, &sh.Address, &sh.City, &sh.Country, &sh.Status,
		&shipped, &delivered, &carrier, &trackingNo)
	if err != nil {
		return nil, err
	}
	sh.ShippedAt = db.TimePtr(shipped)
	sh.DeliveredAt = db.TimePtr(delivered)
	sh.Carrier = db.StringPtr(carrier)
	sh.TrackingNo = db.StringPtr(trackingNo)
	return &sh, nil
}
