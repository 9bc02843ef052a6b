package passwd

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_Hash(t *testing.T) {
	h := Hasher{Cost: bcrypt.MinCost}

	// Valid password
	password := "mysecretpassword"
	hashedPassword, err := h.Hash(password)
	if err != nil {
		t.Fatalf("Hash returned an error for valid password: %v", err)
	}
	if hashedPassword == "" {
		t.Error("Hash returned an empty string for valid password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		t.Errorf("Hashed password does not match original password: %v", err)
	}
	if cost, _ := bcrypt.Cost([]byte(hashedPassword)); cost != bcrypt.MinCost {
		t.Errorf("expected cost %d, got %d", bcrypt.MinCost, cost)
	}

	// Password exceeding MaxPasswordLen
	longPassword := strings.Repeat("a", MaxPasswordLen+1)
	_, err = h.Hash(longPassword)
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}

	// Cost below bcrypt.MinCost is raised
	low, err := Hasher{Cost: 1}.Hash(password)
	if err != nil {
		t.Fatalf("Hash with low cost returned an error: %v", err)
	}
	if cost, _ := bcrypt.Cost([]byte(low)); cost != bcrypt.MinCost {
		t.Errorf("expected cost raised to %d, got %d", bcrypt.MinCost, cost)
	}
}

func TestHashPassword_DefaultCost(t *testing.T) {
	hashed, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword returned an error: %v", err)
	}
	if cost, _ := bcrypt.Cost([]byte(hashed)); cost != DefaultCost {
		t.Errorf("expected cost %d, got %d", DefaultCost, cost)
	}
}

func TestCheckPasswordHash(t *testing.T) {
	password := "testpassword123"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to generate bcrypt hash for testing: %v", err)
	}

	if !CheckPasswordHash(password, string(hashedPassword)) {
		t.Error("CheckPasswordHash returned false for correct password and hash")
	}

	if CheckPasswordHash("wrongpassword", string(hashedPassword)) {
		t.Error("CheckPasswordHash returned true for incorrect password")
	}

	// Empty password with non-empty hash (should fail)
	if CheckPasswordHash("", string(hashedPassword)) {
		t.Error("CheckPasswordHash returned true for empty password and non-empty hash")
	}

	// Invalid hash format (should fail)
	if CheckPasswordHash(password, "thisisnotavalidhash") {
		t.Error("CheckPasswordHash returned true for invalid hash format")
	}
}
