package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func requireValidationError(t *testing.T, err error, contains string) {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	assert.Contains(t, ve.Error(), contains)
}

func TestProductParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  ProductParams
		wantErr string
	}{
		{"ok", ProductParams{Name: "Mesa", Price: ptr(10.5)}, ""},
		{"zero price", ProductParams{Name: "Regalo", Price: ptr(0.0)}, ""},
		{"missing name", ProductParams{Price: ptr(1.0)}, "nombre is required"},
		{"blank name", ProductParams{Name: "   ", Price: ptr(1.0)}, "nombre is required"},
		{"long name", ProductParams{Name: strings.Repeat("x", 201), Price: ptr(1.0)}, "at most 200"},
		{"missing price", ProductParams{Name: "Mesa"}, "precio is required"},
		{"negative price", ProductParams{Name: "Mesa", Price: ptr(-1.0)}, "precio must be"},
		{"long image", ProductParams{Name: "Mesa", Price: ptr(1.0), Image: ptr(strings.Repeat("i", 501))}, "imagen"},
		{"negative stock", ProductParams{Name: "Mesa", Price: ptr(1.0), Stock: -2}, "stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			requireValidationError(t, err, tt.wantErr)
		})
	}
}

func TestCustomerParams_Validate(t *testing.T) {
	valid := CustomerParams{FirstName: "Ana", LastName: "Ruiz", Email: "ana@example.com", Password: "secret"}
	assert.NoError(t, valid.Validate())
	assert.NoError(t, valid.ValidateCreate())

	bad := valid
	bad.Email = "not-an-email"
	requireValidationError(t, bad.Validate(), "correo")

	bad = valid
	bad.Email = "Ana <ana@example.com>"
	requireValidationError(t, bad.Validate(), "correo")

	bad = valid
	bad.Password = ""
	assert.NoError(t, bad.Validate())
	requireValidationError(t, bad.ValidateCreate(), "contrasena")

	bad = valid
	bad.Phone = ptr(strings.Repeat("1", 21))
	requireValidationError(t, bad.Validate(), "telefono")
}

func TestCustomerParams_Normalize(t *testing.T) {
	p := CustomerParams{FirstName: " Ana ", Email: "  Ana@Example.COM "}
	p.Normalize()
	assert.Equal(t, "Ana", p.FirstName)
	assert.Equal(t, "ana@example.com", p.Email)
}

func TestLineItemParams_DefaultQuantity(t *testing.T) {
	item := LineItemParams{ProductID: ptr(int64(1)), UnitPrice: ptr(2.5)}
	require.NoError(t, item.Validate(true))
	assert.Equal(t, int64(1), *item.Quantity)

	item = LineItemParams{ProductID: ptr(int64(1)), UnitPrice: ptr(2.5)}
	requireValidationError(t, item.Validate(false), "cantidad is required")

	item = LineItemParams{ProductID: ptr(int64(1)), Quantity: ptr(int64(0)), UnitPrice: ptr(2.5)}
	requireValidationError(t, item.Validate(true), "cantidad must be")
}

func TestOrderParams_Validate(t *testing.T) {
	p := OrderParams{CustomerID: ptr(int64(3)), Total: ptr(12.0)}
	require.NoError(t, p.Validate())
	assert.Equal(t, OrderPending, p.Status)

	p = OrderParams{Total: ptr(12.0)}
	requireValidationError(t, p.Validate(), "id_cliente")

	p = OrderParams{CustomerID: ptr(int64(3))}
	requireValidationError(t, p.Validate(), "total")
}

func TestOrderStatus_UnmarshalText(t *testing.T) {
	var s OrderStatus
	require.NoError(t, s.UnmarshalText([]byte("ENVIADO")))
	assert.Equal(t, OrderShipped, s)

	assert.Error(t, s.UnmarshalText([]byte("enviado")))
	assert.Error(t, s.UnmarshalText([]byte("PERDIDO")))
}

func TestPaymentParams_Validate(t *testing.T) {
	p := PaymentParams{OrderID: ptr(int64(1)), Amount: ptr(10.0), Method: PaymentCash}
	assert.NoError(t, p.Validate())

	p.Method = "bitcoin"
	requireValidationError(t, p.Validate(), "metodo")
}

func TestShipmentParams_DefaultStatus(t *testing.T) {
	p := ShipmentParams{OrderID: ptr(int64(1)), Address: "Calle 1", City: "Lima", Country: "Peru"}
	require.NoError(t, p.Validate())
	assert.Equal(t, ShipmentPreparing, p.Status)

	p.City = ""
	requireValidationError(t, p.Validate(), "ciudad_envio")
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		skip, limit int64
		want        Page
	}{
		{0, 0, Page{0, DefaultListLimit}},
		{-5, 10, Page{0, 10}},
		{20, -1, Page{20, 1}},
		{0, 5000, Page{0, MaxListLimit}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampPage(tt.skip, tt.limit))
	}
}

func TestValidateFilterPage(t *testing.T) {
	assert.NoError(t, ValidateFilterPage(0, 1))
	assert.NoError(t, ValidateFilterPage(10, 200))
	requireValidationError(t, ValidateFilterPage(0, 0), "limit")
	requireValidationError(t, ValidateFilterPage(0, 201), "limit")
	requireValidationError(t, ValidateFilterPage(-1, 10), "skip")
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, Percent(3, 0))
	assert.Equal(t, 25.0, Percent(1, 4))
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("producto", 7, "Producto no encontrado")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Producto no encontrado", nf.Detail)
	assert.Equal(t, "producto 7 not found", err.Error())
}
