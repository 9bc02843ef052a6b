package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Category groups products in the storefront.
type Category struct {
	ID          int64   `json:"id_categoria"`
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion"`
}

// CategoryParams is the body accepted by category create and update.
type CategoryParams struct {
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion"`
}

func (p *CategoryParams) Validate() error {
	if err := requireText("nombre", p.Name, 100); err != nil {
		return err
	}
	return nil
}

// Product is a sellable item. CategoryID is nil for uncategorised products.
type Product struct {
	ID          int64   `json:"id_producto"`
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion"`
	Price       float64 `json:"precio"`
	Image       *string `json:"imagen"`
	CategoryID  *int64  `json:"id_categoria"`
	Stock       int64   `json:"stock"`
}

// ProductParams is the body accepted by product create and update.
type ProductParams struct {
	Name        string   `json:"nombre"`
	Description *string  `json:"descripcion"`
	Price       *float64 `json:"precio"`
	Image       *string  `json:"imagen"`
	CategoryID  *int64   `json:"id_categoria"`
	Stock       int64    `json:"stock"`
}

func (p *ProductParams) Validate() error {
	if err := requireText("nombre", p.Name, 200); err != nil {
		return err
	}
	if p.Price == nil {
		return NewValidationError("precio is required")
	}
	if *p.Price < 0 {
		return NewValidationError("precio must be greater than or equal to 0")
	}
	if p.Image != nil && utf8.RuneCountInString(*p.Image) > 500 {
		return NewValidationError("imagen must be at most 500 characters")
	}
	if p.Stock < 0 {
		return NewValidationError("stock must be greater than or equal to 0")
	}
	return nil
}

func requireText(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(fmt.Sprintf("%s is required", field))
	}
	if max > 0 && utf8.RuneCountInString(value) > max {
		return NewValidationError(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return nil
}

func optionalText(field string, value *string, max int) error {
	if value != nil && utf8.RuneCountInString(*value) > max {
		return NewValidationError(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return nil
}
