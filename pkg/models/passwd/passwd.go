// Package passwd hashes and checks customer passwords with bcrypt.
package passwd

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Constants for cost and max password length (bcrypt truncates after 72 bytes)
const (
	DefaultCost    = 12
	MaxPasswordLen = 72
)

var ErrPasswordTooLong = errors.New("password exceeds 72 bytes and will be truncated by bcrypt")

// Hasher hashes passwords at a fixed bcrypt cost. The zero value uses DefaultCost.
type Hasher struct {
	Cost int
}

// Hash hashes password at the hasher's cost.
func (h Hasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordLen {
		return "", ErrPasswordTooLong
	}

	cost := h.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// HashPassword hashes a password using bcrypt with the DefaultCost
func HashPassword(password string) (string, error) {
	return Hasher{}.Hash(password)
}

// CheckPasswordHash compares a plaintext password with a bcrypt hashed password.
// Returns true if they match, false otherwise.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
