package models

import (
	"net/mail"
	"strings"
	"time"
)

// Customer is a registered storefront account. PasswordHash never leaves the server.
type Customer struct {
	ID           int64     `json:"id_cliente"`
	FirstName    string    `json:"nombre"`
	LastName     string    `json:"apellido"`
	Email        string    `json:"correo"`
	PasswordHash string    `json:"-"`
	Phone        *string   `json:"telefono"`
	Address      *string   `json:"direccion"`
	City         *string   `json:"ciudad"`
	Country      *string   `json:"pais"`
	RegisteredAt time.Time `json:"fecha_registro"`
}

// CustomerParams is the body accepted by customer create and update.
// Password is plaintext and is hashed by the store. On update an empty
// Password keeps the current hash.
type CustomerParams struct {
	FirstName string  `json:"nombre"`
	LastName  string  `json:"apellido"`
	Email     string  `json:"correo"`
	Password  string  `json:"contrasena"`
	Phone     *string `json:"telefono"`
	Address   *string `json:"direccion"`
	City      *string `json:"ciudad"`
	Country   *string `json:"pais"`
}

// ValidateCreate is Validate plus the password, which update may omit.
func (p *CustomerParams) ValidateCreate() error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Password == "" {
		return NewValidationError("contrasena is required")
	}
	return nil
}

func (p *CustomerParams) Validate() error {
	if err := requireText("nombre", p.FirstName, 100); err != nil {
		return err
	}
	if err := requireText("apellido", p.LastName, 100); err != nil {
		return err
	}
	if err := requireText("correo", p.Email, 150); err != nil {
		return err
	}
	if !ValidEmail(p.Email) {
		return NewValidationError("correo must be a valid email address")
	}
	if err := optionalText("telefono", p.Phone, 20); err != nil {
		return err
	}
	if err := optionalText("direccion", p.Address, 255); err != nil {
		return err
	}
	if err := optionalText("ciudad", p.City, 100); err != nil {
		return err
	}
	return optionalText("pais", p.Country, 100)
}

// Normalize trims whitespace and lower-cases the e-mail.
func (p *CustomerParams) Normalize() {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = NormalizeEmail(p.Email)
}

// ValidEmail reports whether s is a bare address such as "ana@example.com".
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && strings.Contains(s[at:], ".")
}

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CustomerCredentials is the body of the customer login.
type CustomerCredentials struct {
	Email    string `json:"correo"`
	Password string `json:"contrasena"`
}

// CustomerLoginResponse is returned by a successful customer login.
type CustomerLoginResponse struct {
	Message   string `json:"message"`
	ID        int64  `json:"cliente_id"`
	Name      string `json:"nombre"`
	Email     string `json:"correo"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}
