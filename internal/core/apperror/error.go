// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes. The set is closed: the HTTP layer matches on Code only.
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"

	// Validation errors (400)
	CodeValidation = "VALIDATION_ERROR"

	// Reference and document errors
	CodeNotFound      = "NOT_FOUND"
	CodeAlreadyExists = "ALREADY_EXISTS"
	CodeEntityInUse   = "ENTITY_IN_USE"

	// Ledger errors
	CodeBalanceNotFound = "BALANCE_NOT_FOUND"
	CodeNegativeBalance = "NEGATIVE_BALANCE"

	// Shipment errors
	CodeEmptyShipment = "EMPTY_SHIPMENT_DOCUMENT"
)

// AppError is the standard error type for the platform.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field, value, resource/measure pair)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404) for entity looked up by field=value.
func NewNotFound(entity, field string, value any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s with %s = %v not found", entity, field, value),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// NewAlreadyExists creates a uniqueness violation error (409).
func NewAlreadyExists(entity, field string, value any) *AppError {
	return &AppError{
		Code:       CodeAlreadyExists,
		Message:    fmt.Sprintf("%s with %s = %v already exists", entity, field, value),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// NewEntityInUse creates an error for deletes blocked by dependent rows (423).
func NewEntityInUse(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeEntityInUse,
		Message:    fmt.Sprintf("%s %v is used in the system", entity, id),
		HTTPStatus: http.StatusLocked,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewBalanceNotFound is returned when a reduction targets a missing balance row (410).
func NewBalanceNotFound(resourceID, measureID any) *AppError {
	return &AppError{
		Code:       CodeBalanceNotFound,
		Message:    "No balance for resource and measure",
		HTTPStatus: http.StatusGone,
		Details:    map[string]any{"resourceId": resourceID, "measureId": measureID},
	}
}

// NewNegativeBalance is returned when a reduction would push a balance below zero (422).
func NewNegativeBalance(resourceID, measureID any) *AppError {
	return &AppError{
		Code:       CodeNegativeBalance,
		Message:    "Balance cannot become negative",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"resourceId": resourceID, "measureId": measureID},
	}
}

// NewEmptyShipment is returned when a shipment would be left without lines (412).
func NewEmptyShipment(number string) *AppError {
	return &AppError{
		Code:       CodeEmptyShipment,
		Message:    fmt.Sprintf("Shipment document %q must contain at least one line", number),
		HTTPStatus: http.StatusPreconditionFailed,
		Details:    map[string]any{"number": number},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }

// IsAlreadyExists checks if error is CodeAlreadyExists
func IsAlreadyExists(err error) bool { return HasCode(err, CodeAlreadyExists) }

// IsEntityInUse checks if error is CodeEntityInUse
func IsEntityInUse(err error) bool { return HasCode(err, CodeEntityInUse) }

// IsBalanceNotFound checks if error is CodeBalanceNotFound
func IsBalanceNotFound(err error) bool { return HasCode(err, CodeBalanceNotFound) }

// IsNegativeBalance checks if error is CodeNegativeBalance
func IsNegativeBalance(err error) bool { return HasCode(err, CodeNegativeBalance) }

// IsEmptyShipment checks if error is CodeEmptyShipment
func IsEmptyShipment(err error) bool { return HasCode(err, CodeEmptyShipment) }

// IsValidation checks if error is CodeValidation
func IsValidation(err error) bool { return HasCode(err, CodeValidation) }
