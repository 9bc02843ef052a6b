package shopstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/bl815v/Tiendo/internal/db"
	"github.com/bl815v/Tiendo/internal/logutil"
	"github.com/bl815v/Tiendo/pkg/models"
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

const paymentColumns = `id_pago, id_pedido, fecha_pago, monto, metodo, referencia_pago`

// NewPaymentReference returns a short unique reference such as "PAY-3yQ7x1...".
func NewPaymentReference() string {
	id := uuid.New()
	return "PAY-" + base58.Encode(id[:])
}

func (s *sqlShopStore) CreatePayment(ctx context.Context, args models.PaymentParams) (*models.Payment, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "CreatePayment")()
	errMsg := "failed to create payment"

	if err := args.Validate(); err != nil {
		return nil, s.wrapErr(errMsg, err, "pago", 0, "")
	}

	paid := s.now()
	if args.PaidAt != nil {
		paid = *args.PaidAt
	}
	ref := args.Reference
	if ref == nil || *ref == "" {
		generated := NewPaymentReference()
		ref = &generated
	}

	var id int64
	err := s.conn.QueryRow(ctx, `
		INSERT INTO pago (id_pedido, fecha_pago, monto, metodo, referencia_pago)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id_pago`,
		*args.OrderID, db.UTC(paid), *args.Amount, string(args.Method), *ref).Scan(&id)
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "pago", 0, "")
	}
	return s.GetPayment(ctx, id)
}

func (s *sqlShopStore) ListPayments(ctx context.Context, page models.Page) ([]*models.Payment, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "ListPayments")()

	payments, err := queryAll(ctx, s.conn, scanPayment,
		`SELECT `+paymentColumns+` FROM pago ORDER BY id_pago LIMIT ? OFFSET ?`, page.Limit, page.Skip)
	if err != nil {
		return nil, s.wrapErr("failed to list payments", err, "pago", 0, "")
	}
	return payments, nil
}

func (s *sqlShopStore) ListPaymentsByOrder(ctx context.Context, orderID int64) ([]*models.Payment, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "ListPaymentsByOrder", "order_id", orderID)()

	payments, err := queryAll(ctx, s.conn, scanPayment,
		`SELECT `+paymentColumns+` FROM pago WHERE id_pedido = ? ORDER BY id_pago`, orderID)
	if err != nil {
		return nil, s.wrapErr("failed to list payments by order", err, "pago", 0, "")
	}
	return payments, nil
}

func (s *sqlShopStore) GetPayment(ctx context.Context, id int64) (*models.Payment, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "GetPayment", "id", id)()

	p, err := scanPayment(s.conn.QueryRow(ctx, `SELECT `+paymentColumns+` FROM pago WHERE id_pago = ?`, id))
	if err != nil {
		return nil, s.wrapErr("failed to get payment", err, "pago", id, detailPaymentNotFound)
	}
	return p, nil
}

// UpdatePayment replaces the payment's fields. A nil fecha_pago or
// referencia_pago keeps the stored value.
func (s *sqlShopStore) UpdatePayment(ctx context.Context, id int64, args models.PaymentParams) (*models.Payment, error) {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "UpdatePayment", "id", id)()
	errMsg := "failed to update payment"

	if err := args.Validate(); err != nil {
		return nil, s.wrapErr(errMsg, err, "pago", id, "")
	}

	current, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	paid := current.PaidAt
	if args.PaidAt != nil {
		paid = *args.PaidAt
	}
	ref := current.Reference
	if args.Reference != nil {
		ref = args.Reference
	}

	_, err = s.conn.Exec(ctx, `
		UPDATE pago SET id_pedido = ?, fecha_pago = ?, monto = ?, metodo = ?, referencia_pago = ?
		WHERE id_pago = ?`,
		*args.OrderID, db.UTC(paid), *args.Amount, string(args.Method), db.NullString(ref), id)
	if err != nil {
		return nil, s.wrapErr(errMsg, err, "pago", id, detailPaymentNotFound)
	}
	return s.GetPayment(ctx, id)
}

func (s *sqlShopStore) DeletePayment(ctx context.Context, id int64) error {
	defer logutil.NewTimingLogger(s.log, time.Now(), "executed sql query", "method", "DeletePayment", "id", id)()
	return s.deleteRow(ctx, "pago", "id_pago", id, "pago", detailPaymentNotFound)
}

func scanPayment(row scanner) (*models.Payment, error) {
	var (
		p      models.Payment
		method string
		ref    sql.NullString
	)
	if err := row.Scan(&p.ID, &p.OrderID, &p.PaidAt, &p.Amount, &method, &ref); err != nil {
		return nil, err
	}
	p.PaidAt = p.PaidAt.UTC()
	p.Method = models.PaymentMethod(method)
	p.Reference = db.StringPtr(ref)
	return &p, nil
}
