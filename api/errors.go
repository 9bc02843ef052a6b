package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bl815v/Tiendo/internal/db"
	"github.com/bl815v/Tiendo/pkg/models"
)

// ErrorKey is a type alias for string, used to reference a specific
// standardized error message in the errorMessages map.
type ErrorKey string

// These constants define unique keys for each error variant.
// Several variants may share an HTTP status code.
const (
	ErrInvalidJSON      ErrorKey = "invalid_json"
	ErrValidation       ErrorKey = "validation_failed"
	ErrNotFound         ErrorKey = "not_found"
	ErrInternal         ErrorKey = "internal_error"
	ErrCredentials      ErrorKey = "invalid_credentials"
	ErrAuthRequired     ErrorKey = "auth_required"
	ErrInvalidToken     ErrorKey = "invalid_token"
	ErrConflict         ErrorKey = "conflict"
	ErrMethodNotAllowed ErrorKey = "not_allowed"
	ErrTooManyRequests  ErrorKey = "too_many_requests"
)

// errorMessages is the centralized map of all standard error texts.
// The value is the message shown in the "error" field of the JSON response.
var errorMessages = map[ErrorKey]string{
	ErrInvalidJSON:      "invalid JSON format",
	ErrValidation:       "validation failed",
	ErrNotFound:         "resource not found",
	ErrInternal:         "internal server error",
	ErrCredentials:      "invalid credentials",
	ErrAuthRequired:     "authentication required",
	ErrInvalidToken:     "invalid token",
	ErrConflict:         "resource conflict",
	ErrMethodNotAllowed: "method not allowed",
	ErrTooManyRequests:  "too many requests",
}

// ErrorResponse represents the JSON body returned for an error.
// - Error:  short machine-readable summary of the problem
// - Detail: optional human-readable explanation
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// NewError creates an ErrorResponse for a given HTTP status, error key, and detail.
// If the key is not found, it falls back to "unknown error".
func NewError(status int, key ErrorKey, detail string) (int, ErrorResponse) {
	msg, ok := errorMessages[key]
	if !ok {
		msg = "unknown error"
	}
	return status, ErrorResponse{
		Error:  msg,
		Detail: detail,
	}
}

// BadRequestInvalidJSON returns a 400 error for undecodable bodies.
func BadRequestInvalidJSON() (int, ErrorResponse) {
	return NewError(http.StatusBadRequest, ErrInvalidJSON, "expected valid JSON object")
}

// BadRequestValidation returns a 400 error for failed validation.
func BadRequestValidation(detail string) (int, ErrorResponse) {
	return NewError(http.StatusBadRequest, ErrValidation, detail)
}

// BadRequestConflict returns a 400 error for a duplicate or dangling reference.
func BadRequestConflict(detail string) (int, ErrorResponse) {
	return NewError(http.StatusBadRequest, ErrConflict, detail)
}

// NotFound returns a 404 error, detail naming the missing entity.
func NotFound(detail string) (int, ErrorResponse) {
	return NewError(http.StatusNotFound, ErrNotFound, detail)
}

// InternalServerError returns a 500 error with a generic detail message.
func InternalServerError() (int, ErrorResponse) {
	return NewError(http.StatusInternalServerError, ErrInternal, "an unexpected error occurred")
}

func MethodNotAllowed() (int, ErrorResponse) {
	return NewError(http.StatusMethodNotAllowed, ErrMethodNotAllowed, "")
}

// UnauthorizedInvalidCredentials returns a 401 error for a failed customer login.
func UnauthorizedInvalidCredentials() (int, ErrorResponse) {
	return NewError(http.StatusUnauthorized, ErrCredentials, "Credenciales inválidas")
}

// UnauthorizedMissingToken returns a 401 error when no bearer token was sent.
func UnauthorizedMissingToken() (int, ErrorResponse) {
	return NewError(http.StatusUnauthorized, ErrAuthRequired, "bearer token required")
}

// UnauthorizedInvalidToken returns a 401 error indicating that the provided token is invalid or expired.
func UnauthorizedInvalidToken() (int, ErrorResponse) {
	return NewError(http.StatusUnauthorized, ErrInvalidToken, "token is expired or malformed")
}

func TooManyRequests() (int, ErrorResponse) {
	return NewError(http.StatusTooManyRequests, ErrTooManyRequests, "demasiados intentos, intente más tarde")
}

// FromStoreError maps a store error to a response: validation errors and
// constraint violations are 400, a missing row is 404 and anything else 500.
func FromStoreError(err error) func() (int, ErrorResponse) {
	var (
		ve  *models.ValidationError
		nf  *models.NotFoundError
		dup *db.DuplicateKeyError
		fk  *db.ForeignKeyError
	)
	switch {
	case errors.As(err, &ve):
		return func() (int, ErrorResponse) { return BadRequestValidation(ve.Error()) }
	case errors.As(err, &nf):
		return func() (int, ErrorResponse) { return NotFound(nf.Detail) }
	case errors.As(err, &dup):
		return func() (int, ErrorResponse) { return BadRequestConflict(dup.Field + " already exists") }
	case errors.As(err, &fk):
		return func() (int, ErrorResponse) { return BadRequestConflict("referenced record does not exist") }
	default:
		return InternalServerError
	}
}

// ReturnError accepts a function returning (int, ErrorResponse),
// calls it, and passes the result to RespondJSONAndLog with the given writer and logger.
func ReturnError(w http.ResponseWriter, logger *slog.Logger, errorFunc func() (int, ErrorResponse)) {
	status, errResp := errorFunc()
	RespondJSONAndLog(w, logger, status, errResp)
}
