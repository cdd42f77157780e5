// Package apierror provides standardized error response structures for the API
// together with the domain error taxonomy used by the services. All errors
// returned to clients go through this package to ensure consistency and to
// prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// FieldErrors wraps multiple field-level validation errors.
type FieldErrors struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewFieldErrors(fields map[string]string) *FieldErrors {
	return &FieldErrors{Detail: "Error de validacion", Fields: fields}
}

// ── Domain error taxonomy ────────────────────────────────────────────────────
// Services wrap these sentinels (fmt.Errorf("...: %w", ErrValidation)) so that
// handlers can map them to HTTP codes with errors.Is without string matching.

var (
	// ErrValidation marks malformed or out-of-range input: qty <= 0 where a
	// positive quantity is required, an empty basket, a zero adjustment.
	ErrValidation = errors.New("entrada invalida")

	// ErrNotFound marks references to entities that do not exist.
	ErrNotFound = errors.New("recurso no encontrado")

	// ErrConflict marks operations rejected by the current entity state,
	// e.g. charging a booking that is not PENDIENTE.
	ErrConflict = errors.New("conflicto con el estado actual")

	// ErrUnauthorized marks failed credential or token checks.
	ErrUnauthorized = errors.New("credenciales invalidas")
)

// Validationf wraps ErrValidation with a formatted detail message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

// NotFoundf wraps ErrNotFound with a formatted detail message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Conflictf wraps ErrConflict with a formatted detail message.
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}

// Unauthorizedf wraps ErrUnauthorized with a formatted detail message.
func Unauthorizedf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrUnauthorized)...)
}

// InsufficientStockError is returned by the FIFO costing engine when the
// available cost layers cannot cover a requested withdrawal. Shortfall is the
// number of units that could not be covered.
type InsufficientStockError struct {
	ProductID string
	Shortfall int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: faltan %d unidades", e.Shortfall)
}
