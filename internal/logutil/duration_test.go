package logutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines[len(lines)-1], "nothing was logged")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &rec))
	return rec
}

func TestLogDurationWithError(t *testing.T) {
	t.Run("success logs at info", func(t *testing.T) {
		var buf bytes.Buffer
		calls := 0
		err := LogDurationWithError(jsonLogger(&buf), "ran database migrations", func() error {
			calls++
			return nil
		}, "dialect", "sqlite")

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		rec := lastRecord(t, &buf)
		assert.Equal(t, "INFO", rec["level"])
		assert.Equal(t, "ran database migrations", rec["msg"])
		assert.Equal(t, "sqlite", rec["dialect"])
		assert.Contains(t, rec, "duration")
		assert.NotContains(t, rec, "err")
	})

	t.Run("failure logs at error and returns the same error", func(t *testing.T) {
		var buf bytes.Buffer
		boom := errors.New("no such table")
		err := LogDurationWithError(jsonLogger(&buf), "ran database migrations", func() error { return boom })

		assert.Same(t, boom, err)
		rec := lastRecord(t, &buf)
		assert.Equal(t, "ERROR", rec["level"])
		assert.Equal(t, "no such table", rec["err"])
	})

	t.Run("caller fields are not mutated", func(t *testing.T) {
		var buf bytes.Buffer
		fields := make([]any, 2, 8)
		fields[0], fields[1] = "dialect", "postgres"
		_ = LogDurationWithError(jsonLogger(&buf), "op", func() error { return nil }, fields...)
		assert.Equal(t, []any{"dialect", "postgres"}, fields)
		assert.Equal(t, []any{"dialect", "postgres", nil, nil}, fields[:4])
	})
}

func TestLogSlowOperation(t *testing.T) {
	t.Run("fast run logs at debug", func(t *testing.T) {
		var buf bytes.Buffer
		err := LogSlowOperation(jsonLogger(&buf), time.Hour, "seeding database", func() error { return nil }, "seed", 7)

		require.NoError(t, err)
		rec := lastRecord(t, &buf)
		assert.Equal(t, "DEBUG", rec["level"])
		assert.Equal(t, "seeding database", rec["msg"])
		assert.Equal(t, "1h0m0s", rec["threshold"])
		assert.EqualValues(t, 7, rec["seed"])
	})

	t.Run("slow run warns", func(t *testing.T) {
		var buf bytes.Buffer
		err := LogSlowOperation(jsonLogger(&buf), time.Millisecond, "seeding database", func() error {
			time.Sleep(5 * time.Millisecond)
			return nil
		})

		require.NoError(t, err)
		rec := lastRecord(t, &buf)
		assert.Equal(t, "WARN", rec["level"])
		assert.Equal(t, "seeding database is slow", rec["msg"])
	})

	t.Run("error passes through", func(t *testing.T) {
		var buf bytes.Buffer
		boom := errors.New("disk full")
		err := LogSlowOperation(jsonLogger(&buf), time.Hour, "seeding database", func() error { return boom })
		assert.ErrorIs(t, err, boom)
	})
}
