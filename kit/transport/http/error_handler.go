package http

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/storefront/storefront/kit/platform/errors"
)

// PlatformErrorCodeHeader shows the error code of platform error.
const PlatformErrorCodeHeader = "X-Platform-Error-Code"

// ErrorHandler writes platform errors as JSON bodies. API.Err sends every
// handler error through it.
type ErrorHandler int

var _ errors.HTTPErrorHandler = ErrorHandler(0)

// HandleHTTPError encodes err with the appropriate status code and format,
// sets the X-Platform-Error-Code headers on the response.
func (h ErrorHandler) HandleHTTPError(ctx context.Context, err error, w http.ResponseWriter) {
	if err == nil {
		return
	}

	code := errors.ErrorCode(err)
	w.Header().Set(PlatformErrorCodeHeader, code)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(ErrorCodeToStatusCode(code))
	e := ErrBody{Code: code}
	var pe *errors.Error
	if stderrors.As(err, &pe) {
		e.Msg = pe.Error()
	} else {
		e.Msg = "An internal error has occurred"
	}
	b, _ := json.Marshal(e)
	_, _ = w.Write(b)
}

// ErrorCodeToStatusCode maps a storefront error code string to a
// http status code integer.
func ErrorCodeToStatusCode(code string) int {
	statusCode, ok := platformErrorToHTTPStatusCode[code]
	if ok {
		return statusCode
	}

	return http.StatusBadRequest
}

// platformErrorToHTTPStatusCode is the map convert platform.Error to error
var platformErrorToHTTPStatusCode = map[string]int{
	errors.EInternal:         http.StatusInternalServerError,
	errors.ENotImplemented:   http.StatusNotImplemented,
	errors.EInvalid:          http.StatusBadRequest,
	errors.EEmptyValue:       http.StatusBadRequest,
	errors.EConflict:         http.StatusUnprocessableEntity,
	errors.ENotFound:         http.StatusNotFound,
	errors.EUnavailable:      http.StatusServiceUnavailable,
	errors.EMethodNotAllowed: http.StatusMethodNotAllowed,
	errors.ETooLarge:         http.StatusRequestEntityTooLarge,
}
