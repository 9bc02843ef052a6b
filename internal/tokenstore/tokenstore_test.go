package tokenstore

import (
	"testing"
	"time"

	"github.com/bl815v/Tiendo/internal/logutil"
	"github.com/bl815v/Tiendo/pkg/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, secret string) *jwtTokenStore {
	t.Helper()
	s, err := New(logutil.Discard(), secret, time.Hour)
	require.NoError(t, err)
	return s
}

func TestIssueAndParse(t *testing.T) {
	s := newStore(t, "test-secret")
	c := &models.Customer{ID: 42, Email: "ana@example.com"}

	tok, err := s.IssueToken(c)
	require.NoError(t, err)

	payload, err := s.ParseToken(tok)
	require.NoError(t, err)
	id, err := payload.CustomerID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "ana@example.com", payload.Email)
	assert.NotEmpty(t, payload.ID)
	assert.Equal(t, time.Hour, s.Duration())
}

func TestParse_Expired(t *testing.T) {
	s := newStore(t, "test-secret")
	start := time.Now()
	s.now = func() time.Time { return start }

	tok, err := s.IssueToken(&models.Customer{ID: 1})
	require.NoError(t, err)

	s.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err = s.ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParse_WrongSecret(t *testing.T) {
	a := newStore(t, "secret-a")
	b := newStore(t, "secret-b")

	tok, err := a.IssueToken(&models.Customer{ID: 1})
	require.NoError(t, err)

	_, err = b.ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	s := newStore(t, "test-secret")

	claims := TokenPayload{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.ParseToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNew_RandomSecret(t *testing.T) {
	a := newStore(t, "")
	b := newStore(t, "")
	assert.Len(t, a.jwtSecret, 32)
	assert.NotEqual(t, a.jwtSecret, b.jwtSecret)
}

func TestCustomerID_BadSubject(t *testing.T) {
	p := &TokenPayload{RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}
	_, err := p.CustomerID()
	assert.ErrorIs(t, err, ErrInvalidToken)
}
