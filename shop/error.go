package shop

import (
	"github.com/storefront/storefront/kit/platform/errors"
)

// ErrCorruptRecord is used when a stored record cannot be decoded.
func ErrCorruptRecord(kind string, err error) *errors.Error {
	return &errors.Error{
		Code: errors.EInternal,
		Msg:  kind + " record is corrupt",
		Err:  err,
	}
}

// ErrUnprocessableRecord is used when a record cannot be encoded for storage.
func ErrUnprocessableRecord(kind string, err error) *errors.Error {
	return &errors.Error{
		Code: errors.EInternal,
		Msg:  kind + " record could not be encoded",
		Err:  err,
	}
}

// ErrInternalServiceError is used when the error comes from the underlying
// key value store. Errors that already carry a code pass through untouched.
func ErrInternalServiceError(err error, op string) error {
	return errors.ErrInternal(err, "shop/"+op)
}

// errMissingID is returned when a route is reached without an id.
var errMissingID = &errors.Error{
	Code: errors.EInvalid,
	Msg:  "url missing id",
}
