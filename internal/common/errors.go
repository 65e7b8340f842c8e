package common

import (
	"errors"
	"net/http"
)

// Canonical error codes surfaced to API clients.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeAllocationFailed    = "ALLOCATION_FAILED"
	CodeShippingCapExceeded = "SHIPPING_CAP_EXCEEDED"
	CodeTxConflict          = "TX_CONFLICT"
	CodeNotFound            = "NOT_FOUND"
	CodeInternal            = "INTERNAL"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// NotFoundError builds the canonical not-found error.
func NotFoundError(message string) *AppError {
	return NewAppError(CodeNotFound, message, http.StatusNotFound, nil)
}

// ConflictError marks an infrastructure-level transaction conflict. Callers
// may retry the whole operation with a fresh snapshot.
func ConflictError(message string, err error) *AppError {
	return NewAppError(CodeTxConflict, message, http.StatusConflict, err)
}

// RejectedError marks a caller-fault validation failure; the order is well
// formed but cannot be fulfilled as requested.
func RejectedError(code, message string) *AppError {
	return NewAppError(code, message, http.StatusUnprocessableEntity, nil)
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}
