// Package apperrors defines the coded errors surfaced by the storefront
// API. Every failed request maps to exactly one stable code; handlers turn
// the kind into an HTTP status and never leak internals.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal   Kind = iota // unexpected persistence or programming error
	KindValidation             // malformed or missing input
	KindNotFound               // referenced entity does not exist
	KindConflict               // request conflicts with current stock/state of the catalog
	KindState                  // illegal lifecycle transition
	KindAuth                   // valid credentials, insufficient rights
	KindUnauthenticated        // missing or invalid credentials
)

// Stable error codes, part of the public API contract.
const (
	CodeInvalidQuantity      = "INVALID_QUANTITY"
	CodeMissingProductID     = "MISSING_PRODUCT_ID"
	CodeInvalidOrderData     = "INVALID_ORDER_DATA"
	CodeProductNotFound      = "PRODUCT_NOT_FOUND"
	CodeItemNotFound         = "ITEM_NOT_FOUND"
	CodeOrderNotFound        = "ORDER_NOT_FOUND"
	CodeInsufficientStock    = "INSUFFICIENT_INVENTORY"
	CodeProductInactive      = "PRODUCT_INACTIVE"
	CodeInvalidStatus        = "INVALID_STATUS"
	CodeInvalidPaymentStatus = "INVALID_PAYMENT_STATUS"
	CodeStateError           = "STATE_ERROR"
	CodeAccessDenied         = "ACCESS_DENIED"
	CodeInternal             = "INTERNAL_ERROR"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches two coded errors by code, so sentinel-style comparisons with
// errors.Is work: errors.Is(err, apperrors.Validation(CodeInvalidQuantity, "")).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) *Error {
	return New(KindValidation, code, message)
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func Conflict(code, message string) *Error {
	return New(KindConflict, code, message)
}

func State(code, message string) *Error {
	return New(KindState, code, message)
}

func Auth(message string) *Error {
	return New(KindAuth, CodeAccessDenied, message)
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, CodeAccessDenied, message)
}

// Internal wraps an unexpected error; its message is generic on purpose so
// persistence details never reach the client.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: "internal error", cause: cause}
}

// FromErr normalizes any error into a coded one. Already-coded errors pass
// through untouched.
func FromErr(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// HTTPStatus maps an error kind to the response status.
func HTTPStatus(err error) int {
	switch FromErr(err).Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindState:
		return http.StatusConflict
	case KindAuth:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf returns the stable code for an error, CodeInternal for uncoded ones.
func CodeOf(err error) string {
	return FromErr(err).Code
}
