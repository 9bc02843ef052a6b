package models

import (
	"fmt"
	"time"
)

// PaymentMethod is how an order was paid.
type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "tarjeta_credito"
	PaymentDebitCard  PaymentMethod = "tarjeta_debito"
	PaymentTransfer   PaymentMethod = "transferencia"
	PaymentCash       PaymentMethod = "efectivo"
	PaymentPaypal     PaymentMethod = "paypal"
)

var PaymentMethods = []PaymentMethod{
	PaymentCreditCard,
	PaymentDebitCard,
	PaymentTransfer,
	PaymentCash,
	PaymentPaypal,
}

func (m PaymentMethod) IsValid() bool {
	for _, v := range PaymentMethods {
		if m == v {
			return true
		}
	}
	return false
}

func (m *PaymentMethod) UnmarshalText(text []byte) error {
	v := PaymentMethod(text)
	if !v.IsValid() {
		return fmt.Errorf("invalid payment method: %s", text)
	}
	*m = v
	return nil
}

type Payment struct {
	ID        int64         `json:"id_pago"`
	OrderID   int64         `json:"id_pedido"`
	PaidAt    time.Time     `json:"fecha_pago"`
	Amount    float64       `json:"monto"`
	Method    PaymentMethod `json:"metodo"`
	Reference *string       `json:"referencia_pago"`
}

// PaymentParams is the body accepted by payment create and update.
// An empty Reference is replaced with a generated one on create.
type PaymentParams struct {
	OrderID   *int64        `json:"id_pedido"`
	PaidAt    *time.Time    `json:"fecha_pago"`
	Amount    *float64      `json:"monto"`
	Method    PaymentMethod `json:"metodo"`
	Reference *string       `json:"referencia_pago"`
}

func (p *PaymentParams) Validate() error {
	if p.OrderID == nil {
		return NewValidationError("id_pedido is required")
	}
	if p.Amount == nil {
		return NewValidationError("monto is required")
	}
	if *p.Amount < 0 {
		return NewValidationError("monto must be greater than or equal to 0")
	}
	if !p.Method.IsValid() {
		return NewValidationError("metodo is required")
	}
	return optionalText("referencia_pago", p.Reference, 100)
}
