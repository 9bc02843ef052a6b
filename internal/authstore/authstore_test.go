package authstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bl815v/Tiendo/internal/db"
	"github.com/bl815v/Tiendo/internal/dbtest"
	"github.com/bl815v/Tiendo/internal/logutil"
	"github.com/bl815v/Tiendo/pkg/models"
	"github.com/bl815v/Tiendo/pkg/models/passwd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *sqlAuthStore {
	t.Helper()
	return New(dbtest.OpenSQLite(t), dbtest.Dialect, logutil.Discard(),
		WithHasher(passwd.Hasher{Cost: bcrypt.MinCost}),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func strPtr(s string) *string { return &s }

func validParams(email string) models.CustomerParams {
	return models.CustomerParams{
		FirstName: "Ana",
		LastName:  "Ruiz",
		Email:     email,
		Password:  "secret123",
		City:      strPtr("Bogotá"),
	}
}

func TestCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.Create(ctx, validParams("Ana@Example.com"))
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Equal(t, "ana@example.com", c.Email)
	assert.Equal(t, "Bogotá", *c.City)
	assert.Nil(t, c.Phone)
	assert.True(t, fixedNow.Equal(c.RegisteredAt))
	assert.NotEqual(t, "secret123", c.PasswordHash)
	assert.True(t, passwd.CheckPasswordHash("secret123", c.PasswordHash))

	got, err := s.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	byEmail, err := s.GetByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byEmail.ID)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, validParams("ana@example.com"))
	require.NoError(t, err)

	_, err = s.Create(ctx, validParams("ana@example.com"))
	var dup *db.DuplicateKeyError
	require.True(t, errors.As(err, &dup), "got %v", err)
	assert.Equal(t, "correo", dup.Field)
}

func TestCreate_Validation(t *testing.T) {
	s := newTestStore(t)
	p := validParams("nope")
	_, err := s.Create(context.Background(), p)
	var ve *models.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), 404)
	var nf *models.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Cliente no encontrado", nf.Detail)
}

func TestList_Pagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, e := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		_, err := s.Create(ctx, validParams(e))
		require.NoError(t, err)
	}

	all, err := s.List(ctx, models.ClampPage(0, 0))
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := s.List(ctx, models.ClampPage(1, 1))
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b@x.com", page[0].Email)
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.Create(ctx, validParams("ana@example.com"))
	require.NoError(t, err)
	other, err := s.Create(ctx, validParams("luis@example.com"))
	require.NoError(t, err)

	// Without a password the hash is kept.
	p := validParams("ana.ruiz@example.com")
	p.Password = ""
	p.Phone = strPtr("555-1234")
	updated, err := s.Update(ctx, c.ID, p)
	require.NoError(t, err)
	assert.Equal(t, "ana.ruiz@example.com", updated.Email)
	assert.Equal(t, "555-1234", *updated.Phone)
	assert.Equal(t, c.PasswordHash, updated.PasswordHash)

	// With a password it is re-hashed.
	p.Password = "nueva-clave"
	updated, err = s.Update(ctx, c.ID, p)
	require.NoError(t, err)
	assert.True(t, passwd.CheckPasswordHash("nueva-clave", updated.PasswordHash))

	// Taking another customer's e-mail is a duplicate.
	p.Email = other.Email
	_, err = s.Update(ctx, c.ID, p)
	var dup *db.DuplicateKeyError
	assert.True(t, errors.As(err, &dup))

	_, err = s.Update(ctx, 9999, validParams("z@x.com"))
	var nf *models.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.Create(ctx, validParams("ana@example.com"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, c.ID))
	_, err = s.Get(ctx, c.ID)
	var nf *models.NotFoundError
	assert.True(t, errors.As(err, &nf))

	err = s.Delete(ctx, c.ID)
	assert.True(t, errors.As(err, &nf))
}

func TestAuthenticate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.Create(ctx, validParams("ana@example.com"))
	require.NoError(t, err)

	got, err := s.Authenticate(ctx, "ana@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = s.Authenticate(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Authenticate(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCheckEmailExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ok, err := s.CheckEmailExists(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Create(ctx, validParams("ana@example.com"))
	require.NoError(t, err)

	ok, err = s.CheckEmailExists(ctx, " ANA@example.com ")
	require.NoError(t, err)
	assert.True(t, ok)
}
