package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure so callers can disambiguate
// without parsing message text.
type Code string

const (
	CodeInvalidInput      Code = "INVALID_INPUT"
	CodeInvalidAddress    Code = "INVALID_ADDRESS"
	CodeUnknownSession    Code = "UNKNOWN_SESSION"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
	CodeConflict          Code = "CONFLICT"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeNotFound          Code = "NOT_FOUND"
	CodePaymentProvider   Code = "PAYMENT_PROVIDER"
	CodeInternal          Code = "INTERNAL"
)

// Error is a coded application error. ProductID is set only for
// INSUFFICIENT_STOCK so the UI can offer a reduce-quantity path.
type Error struct {
	Code      Code
	Message   string
	ProductID string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func InvalidInput(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func InvalidAddress() *Error {
	return &Error{Code: CodeInvalidAddress, Message: "address not found for user"}
}

func UnknownSession() *Error {
	return &Error{Code: CodeUnknownSession, Message: "no payment matches this session"}
}

func InvalidTransition(from, to string) *Error {
	return &Error{Code: CodeInvalidTransition, Message: fmt.Sprintf("cannot transition order from %s to %s", from, to)}
}

func InsufficientStock(productID string) *Error {
	return &Error{Code: CodeInsufficientStock, Message: "insufficient stock for product " + productID, ProductID: productID}
}

func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

func NotFound(what string) *Error {
	return &Error{Code: CodeNotFound, Message: what + " not found"}
}

func PaymentProvider(err error) *Error {
	return &Error{Code: CodePaymentProvider, Message: "payment provider request failed", Err: err}
}

func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "internal error", Err: err}
}

// CodeOf extracts the code from err, or CodeInternal for plain errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// HTTPStatus maps an error to the response status for the REST surface.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeInvalidInput, CodeInvalidAddress, CodeUnknownSession, CodeInvalidTransition:
		return http.StatusBadRequest
	case CodeInsufficientStock, CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodePaymentProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Body is the JSON error shape returned by every handler.
func Body(err error) map[string]any {
	body := map[string]any{"error": string(CodeOf(err))}
	var e *Error
	if errors.As(err, &e) {
		body["details"] = e.Message
		if e.ProductID != "" {
			body["product_id"] = e.ProductID
		}
	} else {
		body["details"] = "internal error"
	}
	return body
}
