package store

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/bl815v/Tiendo/internal/db"
	"github.com/bl815v/Tiendo/internal/logutil"
	"github.com/bl815v/Tiendo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	st, err := Open(ctx, "file:store_test_open?mode=memory&cache=shared", logutil.Discard(), Config{SessionSweepInterval: -1})
	require.NoError(t, err)
	defer st.Close()

	assert.Equal(t, db.DialectSQLite, st.Dialect())
	require.NoError(t, st.Ping(ctx))

	cat, err := st.Shop.CreateCategory(ctx, models.CategoryParams{Name: "Libros"})
	require.NoError(t, err)
	assert.NotZero(t, cat.ID)

	sess, err := st.Session.Create(ctx, "admin", "127.0.0.1:5000")
	require.NoError(t, err)
	_, err = st.Session.Validate(ctx, sess.Token)
	require.NoError(t, err)

	cust, err := st.Auth.Create(ctx, models.CustomerParams{
		FirstName: "Ana",
		LastName:  "Ruiz",
		Email:     "ana@example.com",
		Password:  "secret123",
	})
	require.NoError(t, err)

	tok, err := st.Token.IssueToken(cust)
	require.NoError(t, err)
	payload, err := st.Token.ParseToken(tok)
	require.NoError(t, err)
	id, err := payload.CustomerID()
	require.NoError(t, err)
	assert.Equal(t, cust.ID, id)
}

func TestOpen_BadURL(t *testing.T) {
	_, err := Open(context.Background(), "mysql://nope", logutil.Discard(), Config{})
	assert.Error(t, err)
}

func TestNew_UnknownDialect(t *testing.T) {
	_, err := New(context.Background(), nil, db.Dialect("mysql"), logutil.Discard(), Config{})
	assert.Error(t, err)
}

func TestOpen_LogsMigrationRun(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	st, err := Open(context.Background(), "file:store_test_migrate_log?mode=memory&cache=shared", log, Config{SessionSweepInterval: -1})
	require.NoError(t, err)
	defer st.Close()

	out := buf.String()
	assert.Contains(t, out, `"msg":"ran database migrations"`)
	assert.Contains(t, out, `"dialect":"sqlite"`)
	assert.Contains(t, out, `"duration"`)
}
