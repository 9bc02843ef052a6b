// Package tokenstore issues and verifies the bearer tokens handed to
// customers at login.
package tokenstore

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/bl815v/Tiendo/internal/logutil"
	"github.com/bl815v/Tiendo/pkg/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultTokenDuration = time.Hour
	issuer               = "tiendo"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenStore defines the behavior for issuing and validating customer tokens.
type TokenStore interface {
	// IssueToken generates a signed JWT whose subject is the customer id.
	IssueToken(customer *models.Customer) (string, error)

	// ParseToken validates the signature and expiry of tokenStr.
	ParseToken(tokenStr string) (*TokenPayload, error)

	// Duration is how long issued tokens stay valid.
	Duration() time.Duration
}

type TokenPayload struct {
	Email string `json:"correo"`
	jwt.RegisteredClaims
}

// CustomerID returns the numeric id carried in the subject claim.
func (p *TokenPayload) CustomerID() (int64, error) {
	id, err := strconv.ParseInt(p.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return id, nil
}

type jwtTokenStore struct {
	log           *slog.Logger
	jwtSecret     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// New returns a store signing HS256 tokens with signingSecret. An empty
// secret is replaced by a random per-process key, so tokens do not survive
// a restart.
func New(logger *slog.Logger, signingSecret string, tokenDuration time.Duration) (*jwtTokenStore, error) {
	secret := []byte(signingSecret)
	if len(secret) == 0 {
		logger.Warn("JWT_SECRET not set, using a random signing key")
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, logutil.LogAndWrapErr(logger, "failed to generate signing key", err)
		}
	}
	if tokenDuration <= 0 {
		tokenDuration = DefaultTokenDuration
	}
	return &jwtTokenStore{
		log:           logger,
		jwtSecret:     secret,
		tokenDuration: tokenDuration,
		now:           time.Now,
	}, nil
}

func (t *jwtTokenStore) Duration() time.Duration {
	return t.tokenDuration
}

// IssueToken generates a signed JWT for the given customer.
func (t *jwtTokenStore) IssueToken(customer *models.Customer) (string, error) {
	now := t.now()
	payload := TokenPayload{
		Email: customer.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.tokenDuration)),
			Subject:   strconv.FormatInt(customer.ID, 10),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	return token.SignedString(t.jwtSecret)
}

func (t *jwtTokenStore) ParseToken(tokenStr string) (*TokenPayload, error) {
	payload := &TokenPayload{}
	token, err := jwt.ParseWithClaims(tokenStr, payload,
		func(token *jwt.Token) (any, error) {
			return t.jwtSecret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, logutil.DebugAndWrapErr(t.log, "failed to parse token", fmt.Errorf("%w: %w", ErrInvalidToken, err))
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := payload.CustomerID(); err != nil {
		return nil, err
	}
	return payload, nil
}
