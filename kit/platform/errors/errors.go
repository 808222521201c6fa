package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Error codes shared by every storefront service. Handlers translate these
// into HTTP status codes, so adding one means updating the transport map too.
const (
	EInternal         = "internal error"
	ENotImplemented   = "not implemented"
	ENotFound         = "not found"
	EConflict         = "conflict"
	EInvalid          = "invalid"
	EEmptyValue       = "empty value"
	EUnavailable      = "unavailable"
	EMethodNotAllowed = "method not allowed"
	ETooLarge         = "request too large"
)

// Error is the error struct of storefront.
//
// Code targets automated handlers (the HTTP layer maps it to a status).
// Msg is the human-readable message returned to callers. Op names the
// logical operation that failed and Err chains the underlying cause.
//
// A missing record:
//
//	&Error{Code: ENotFound, Msg: "user not found", Op: "shop/FindUserByID"}
//
// A storage fault carrying the backend message:
//
//	&Error{Code: EInternal, Msg: err.Error(), Err: err}
type Error struct {
	Code string
	Msg  string
	Op   string
	Err  error
}

// Error joins Msg and the cause. A cause that only repeats Msg is not
// printed twice.
func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil && e.Msg != e.Err.Error():
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	}
	return fmt.Sprintf("<%s>", e.Code)
}

// Unwrap returns the wrapped cause so errors.Is and errors.As see through it.
func (e *Error) Unwrap() error {
	return e.Err
}

// find returns the outermost *Error in err's chain whose field, as picked
// by get, is set.
func find(err error, get func(*Error) string) (string, bool) {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) || e == nil {
			return "", false
		}
		if v := get(e); v != "" {
			return v, true
		}
		err = e.Err
	}
	return "", false
}

// ErrorCode returns the first code found in err's chain. Errors that carry
// no code are EInternal.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if code, ok := find(err, func(e *Error) string { return e.Code }); ok {
		return code
	}
	return EInternal
}

// ErrorOp returns the first op found in err's chain, or "".
func ErrorOp(err error) string {
	op, _ := find(err, func(e *Error) string { return e.Op })
	return op
}

// ErrorMessage returns the first message found in err's chain. Errors that
// carry no message get a generic one so internals are not leaked.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg, ok := find(err, func(e *Error) string { return e.Msg }); ok {
		return msg
	}
	return "An internal error has occurred."
}

// ErrInternal wraps a backend failure as an EInternal error that carries the
// backend message verbatim. A nil err, or one that already carries a code,
// is returned unchanged.
func ErrInternal(err error, op string) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return err
	}

	return &Error{
		Code: EInternal,
		Msg:  err.Error(),
		Op:   op,
		Err:  err,
	}
}

// HTTPErrorHandler is the interface to handle http error.
type HTTPErrorHandler interface {
	HandleHTTPError(ctx context.Context, err error, w http.ResponseWriter)
}
