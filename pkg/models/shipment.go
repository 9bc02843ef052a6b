package models

import "time"

// ShipmentPreparing is the initial shipment state.
const ShipmentPreparing = "PREPARACION"

// Shipment tracks delivery of an order. Each order has at most one.
type Shipment struct {
	ID          int64      `json:"id_envio"`
	OrderID     int64      `json:"id_pedido"`
	Address     string     `json:"direccion_envio"`
	City        string     `json:"ciudad_envio"`
	Country     string     `json:"pais_envio"`
	Status      string     `json:"estado_envio"`
	ShippedAt   *time.Time `json:"fecha_envio"`
	DeliveredAt *time.Time `json:"fecha_entrega"`
	Carrier     *string    `json:"empresa_transporte"`
	TrackingNo  *string    `json:"numero_guia"`
}

type ShipmentParams struct {
	OrderID     *int64     `json:"id_pedido"`
	Address     string     `json:"direccion_envio"`
	City        string     `json:"ciudad_envio"`
	Country     string     `json:"pais_envio"`
	Status      string     `json:"estado_envio"`
	ShippedAt   *time.Time `json:"fecha_envio"`
	DeliveredAt *time.Time `json:"fecha_entrega"`
	Carrier     *string    `json:"empresa_transporte"`
	TrackingNo  *string    `json:"numero_guia"`
}

func (p *ShipmentParams) Validate() error {
	if p.OrderID == nil {
		return NewValidationError("id_pedido is required")
	}
	if err := requireText("direccion_envio", p.Address, 255); err != nil {
		return err
	}
	if err := requireText("ciudad_envio", p.City, 100); err != nil {
		return err
	}
	if err := requireText("pais_envio", p.Country, 100); err != nil {
		return err
	}
	if p.Status == "" {
		p.Status = ShipmentPreparing
	}
	if err := optionalText("estado_envio", &p.Status, 50); err != nil {
		return err
	}
	if err := optionalText("empresa_transporte", p.Carrier, 100); err != nil {
		return err
	}
	return optionalText("numero_guia", p.TrackingNo, 100)
}
