package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storefront/storefront/kit/platform/errors"
	kithttp "github.com/storefront/storefront/kit/transport/http"
	"github.com/stretchr/testify/require"
)

func TestEncodeError(t *testing.T) {
	ctx := context.TODO()

	w := httptest.NewRecorder()

	kithttp.ErrorHandler(0).HandleHTTPError(ctx, nil, w)

	if w.Code != 200 {
		t.Errorf("expected status code 200, got: %d", w.Code)
	}
}

func TestEncodeErrorWithError(t *testing.T) {
	ctx := context.TODO()
	err := &errors.Error{
		Code: errors.EInternal,
		Msg:  "an error occurred",
		Err:  fmt.Errorf("there's an error here, be aware"),
	}

	w := httptest.NewRecorder()

	kithttp.ErrorHandler(0).HandleHTTPError(ctx, err, w)

	if w.Code != 500 {
		t.Errorf("expected status code 500, got: %d", w.Code)
	}

	errHeader := w.Header().Get("X-Platform-Error-Code")
	if errHeader != errors.EInternal {
		t.Errorf("expected X-Platform-Error-Code: %s, got: %s", errors.EInternal, errHeader)
	}

	var body kithttp.ErrBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	if want, got := errors.EInternal, body.Code; want != got {
		t.Errorf("unexpected code -want/+got:\n\t- %q\n\t+ %q", want, got)
	}
	if want, got := "an error occurred: there's an error here, be aware", body.Msg; want != got {
		t.Errorf("unexpected message -want/+got:\n\t- %q\n\t+ %q", want, got)
	}
}

func TestEncodeErrorHidesNonPlatformErrors(t *testing.T) {
	w := httptest.NewRecorder()

	kithttp.ErrorHandler(0).HandleHTTPError(context.TODO(), fmt.Errorf("dial tcp 10.0.0.1:8000: i/o timeout"), w)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"code":"internal error","message":"An internal error has occurred"}`, w.Body.String())
}

func TestErrorCodeToStatusCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{code: errors.EInvalid, want: http.StatusBadRequest},
		{code: errors.ENotFound, want: http.StatusNotFound},
		{code: errors.EInternal, want: http.StatusInternalServerError},
		{code: errors.EMethodNotAllowed, want: http.StatusMethodNotAllowed},
		{code: "made up", want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			require.Equal(t, tt.want, kithttp.ErrorCodeToStatusCode(tt.code))
		})
	}
}
