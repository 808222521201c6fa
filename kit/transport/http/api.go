package http

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/storefront/storefront/kit/platform/errors"
	"github.com/storefront/storefront/logger"
	"go.uber.org/zap"
)

// maxBodyBytes bounds how much of a request body DecodeJSON will read.
const maxBodyBytes = 1 << 20

// oker is implemented by request bodies that validate themselves.
type oker interface {
	OK() error
}

// APIOptFn is a functional option for setting fields on the API type.
type APIOptFn func(*API)

// WithLog sets the logger.
func WithLog(logger *zap.Logger) APIOptFn {
	return func(api *API) {
		api.logger = logger
	}
}

// WithPrettyJSON sets the json encoder to marshal indent or not.
func WithPrettyJSON(b bool) APIOptFn {
	return func(api *API) {
		api.prettyJSON = b
	}
}

// API provides a consolidated means for handling API interface concerns.
// Concerns such as decoding/encoding request and response bodies as well
// as adding headers for content type and content encoding.
type API struct {
	logger *zap.Logger

	prettyJSON bool

	errHandler errors.HTTPErrorHandler
}

// NewAPI creates a new API type.
func NewAPI(opts ...APIOptFn) *API {
	api := API{
		logger:     zap.NewNop(),
		prettyJSON: true,
		errHandler: ErrorHandler(0),
	}
	for _, o := range opts {
		o(&api)
	}
	return &api
}

// DecodeJSON decodes a single JSON value from r into v. Bodies over
// maxBodyBytes are rejected with ETooLarge and anything after the value
// with EInvalid. When v implements OK, the decoded value is validated
// before returning.
func (a *API) DecodeJSON(r io.Reader, v interface{}) error {
	lr := &io.LimitedReader{R: r, N: maxBodyBytes + 1}
	dec := json.NewDecoder(lr)

	if err := dec.Decode(v); err != nil {
		if lr.N <= 0 {
			return errBodyTooLarge
		}
		return unmarshalError(err)
	}

	var extra json.RawMessage
	err := dec.Decode(&extra)
	if lr.N <= 0 {
		return errBodyTooLarge
	}
	if !stderrors.Is(err, io.EOF) {
		return &errors.Error{
			Code: errors.EInvalid,
			Msg:  "failed to unmarshal json: request body must hold a single JSON value",
		}
	}

	if vv, ok := v.(oker); ok {
		return vv.OK()
	}
	return nil
}

var errBodyTooLarge = &errors.Error{
	Code: errors.ETooLarge,
	Msg:  fmt.Sprintf("request body exceeds %d bytes", maxBodyBytes),
}

func unmarshalError(err error) error {
	return &errors.Error{
		Code: errors.EInvalid,
		Msg:  "failed to unmarshal json: " + unmarshalMessage(err),
	}
}

// Respond writes to the response writer, handling all errors in writing.
func (a *API) Respond(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	if a == nil || a.prettyJSON {
		enc.SetIndent("", "\t")
	}

	w.WriteHeader(status)
	if err := enc.Encode(v); err != nil {
		// the status line is already gone; all that is left is to log.
		a.log(r).Error("failed to encode response body", zap.Error(err), zap.String("path", r.URL.Path))
	}
}

// Err writes err to the response through the error handler, logging
// anything that maps to a 5XX status.
func (a *API) Err(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	if ErrorCodeToStatusCode(errors.ErrorCode(err)) >= http.StatusInternalServerError {
		a.log(r).Error("api error encountered", zap.Error(err), zap.String("path", r.URL.Path))
	}
	a.errHandler.HandleHTTPError(r.Context(), err, w)
}

// log prefers the request scoped logger LoggingMW stores on the context.
func (a *API) log(r *http.Request) *zap.Logger {
	fallback := zap.NewNop()
	if a != nil && a.logger != nil {
		fallback = a.logger
	}
	return logger.FromContextOr(r.Context(), fallback)
}

// unmarshalMessage describes a decode failure without leaking Go type names.
func unmarshalMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		return fmt.Sprintf("field %q got %s, expected %s", typeErr.Field, typeErr.Value, jsonKind(typeErr.Type.Kind().String()))
	}
	if stderrors.Is(err, io.EOF) {
		return "request body is empty"
	}
	return err.Error()
}

func jsonKind(goKind string) string {
	switch goKind {
	case "string":
		return "string"
	case "slice", "array":
		return "array"
	case "map", "struct":
		return "object"
	case "bool":
		return "boolean"
	default:
		return "number"
	}
}

// ErrBody is an err response body.
type ErrBody struct {
	Code string `json:"code"`
	Msg  string `json:"message"`
}
