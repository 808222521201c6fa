package dynamodb

import (
	stderrors "errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/storefront/storefront/kit/platform/errors"
)

// storageError converts an SDK failure into an EInternal error carrying the
// message DynamoDB sent back. Errors without an API message fall back to
// the full error text.
func storageError(err error, op string) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		msg := apiErr.ErrorMessage()
		if msg == "" {
			msg = apiErr.ErrorCode()
		}
		return &errors.Error{
			Code: errors.EInternal,
			Msg:  msg,
			Op:   "dynamodb/" + op,
		}
	}

	return errors.ErrInternal(err, "dynamodb/"+op)
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return stderrors.As(err, &ccf)
}

func errCorruptItem(kind string, err error) error {
	return &errors.Error{
		Code: errors.EInternal,
		Msg:  kind + " item is corrupt",
		Err:  err,
	}
}
