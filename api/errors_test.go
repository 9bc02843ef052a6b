package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bl815v/Tiendo/internal/db"
	"github.com/bl815v/Tiendo/internal/logutil"
	"github.com/bl815v/Tiendo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStoreError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"validation", fmt.Errorf("create: %w", models.NewValidationError("nombre is required")), http.StatusBadRequest, "nombre is required"},
		{"not found", models.NewNotFoundError("producto", 3, "Producto no encontrado"), http.StatusNotFound, "Producto no encontrado"},
		{"duplicate", models.NewDatabaseError(db.NewDuplicateKeyError("correo", errors.New("unique"))), http.StatusBadRequest, "correo already exists"},
		{"foreign key", models.NewDatabaseError(db.NewForeignKeyError("fk", errors.New("fk"))), http.StatusBadRequest, "referenced record does not exist"},
		{"other", models.NewDatabaseError(errors.New("disk full")), http.StatusInternalServerError, "an unexpected error occurred"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := FromStoreError(tt.err)()
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.detail, resp.Detail)
		})
	}
}

func TestReturnError_WritesJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	ReturnError(rec, logutil.Discard(), func() (int, ErrorResponse) { return NotFound("Pedido no encontrado") })

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"error": "resource not found", "detail": "Pedido no encontrado"}, body)
}

func TestNewError_UnknownKey(t *testing.T) {
	_, resp := NewError(http.StatusTeapot, ErrorKey("nope"), "")
	assert.Equal(t, "unknown error", resp.Error)
}
