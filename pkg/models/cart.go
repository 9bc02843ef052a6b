package models

import "time"

// Cart is a customer's shopping cart with its line items.
type Cart struct {
	ID         int64      `json:"id_carrito"`
	CustomerID int64      `json:"id_cliente"`
	CreatedAt  time.Time  `json:"fecha_creacion"`
	Active     int64      `json:"activo"`
	Items      []CartItem `json:"detalles"`
}

type CartItem struct {
	ID        int64   `json:"id_detalle"`
	CartID    int64   `json:"id_carrito"`
	ProductID int64   `json:"id_producto"`
	Quantity  int64   `json:"cantidad"`
	UnitPrice float64 `json:"precio_unitario"`
}

// LineItemParams is a cart or order line in a create request.
type LineItemParams struct {
	ProductID *int64   `json:"id_producto"`
	Quantity  *int64   `json:"cantidad"`
	UnitPrice *float64 `json:"precio_unitario"`
}

// Validate checks a line item. A missing cantidad defaults to 1 when
// defaultQuantity is set, otherwise it is required.
func (p *LineItemParams) Validate(defaultQuantity bool) error {
	if p.ProductID == nil {
		return NewValidationError("id_producto is required")
	}
	if p.Quantity == nil {
		if !defaultQuantity {
			return NewValidationError("cantidad is required")
		}
		one := int64(1)
		p.Quantity = &one
	}
	if *p.Quantity < 1 {
		return NewValidationError("cantidad must be at least 1")
	}
	if p.UnitPrice == nil {
		return NewValidationError("precio_unitario is required")
	}
	if *p.UnitPrice < 0 {
		return NewValidationError("precio_unitario must be greater than or equal to 0")
	}
	return nil
}

// CartParams is the body accepted by cart create and update.
// Update ignores Items.
type CartParams struct {
	CustomerID *int64           `json:"id_cliente"`
	CreatedAt  *time.Time       `json:"fecha_creacion"`
	Active     *int64           `json:"activo"`
	Items      []LineItemParams `json:"detalles"`
}

func (p *CartParams) Validate() error {
	if p.CustomerID == nil {
		return NewValidationError("id_cliente is required")
	}
	if p.Active == nil {
		one := int64(1)
		p.Active = &one
	}
	for i := range p.Items {
		if err := p.Items[i].Validate(true); err != nil {
			return err
		}
	}
	return nil
}
