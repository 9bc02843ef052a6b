package models

import (
	"fmt"
	"time"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDIENTE"
	OrderProcessing OrderStatus = "PROCESANDO"
	OrderShipped    OrderStatus = "ENVIADO"
	OrderDelivered  OrderStatus = "ENTREGADO"
	OrderCancelled  OrderStatus = "CANCELADO"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderPending,
	OrderProcessing,
	OrderShipped,
	OrderDelivered,
	OrderCancelled,
}

func (s OrderStatus) IsValid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

func (s *OrderStatus) UnmarshalText(text []byte) error {
	v := OrderStatus(text)
	if !v.IsValid() {
		return fmt.Errorf("invalid order status: %s", text)
	}
	*s = v
	return nil
}

func (s OrderStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Order struct {
	ID         int64       `json:"id_pedido"`
	CustomerID int64       `json:"id_cliente"`
	PlacedAt   time.Time   `json:"fecha_pedido"`
	Total      float64     `json:"total"`
	Status     OrderStatus `json:"estado"`
}

type OrderItem struct {
	ID        int64   `json:"id_detalle"`
	OrderID   int64   `json:"id_pedido"`
	ProductID int64   `json:"id_producto"`
	Quantity  int64   `json:"cantidad"`
	UnitPrice float64 `json:"precio_unitario"`
}

// OrderParams is the body accepted by order create and update.
// Update ignores Items.
type OrderParams struct {
	CustomerID *int64           `json:"id_cliente"`
	PlacedAt   *time.Time       `json:"fecha_pedido"`
	Total      *float64         `json:"total"`
	Status     OrderStatus      `json:"estado"`
	Items      []LineItemParams `json:"detalles"`
}

func (p *OrderParams) Validate() error {
	if p.CustomerID == nil {
		return NewValidationError("id_cliente is required")
	}
	if p.Total == nil {
		return NewValidationError("total is required")
	}
	if *p.Total < 0 {
		return NewValidationError("total must be greater than or equal to 0")
	}
	if p.Status == "" {
		p.Status = OrderPending
	}
	for i := range p.Items {
		if err := p.Items[i].Validate(false); err != nil {
			return err
		}
	}
	return nil
}
