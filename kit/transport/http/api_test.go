package http_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/storefront/storefront/kit/platform/errors"
	kithttp "github.com/storefront/storefront/kit/transport/http"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type checkedBody struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

func (b checkedBody) OK() error {
	if b.Name == "" {
		return &errors.Error{Code: errors.EInvalid, Msg: "name is required"}
	}
	return nil
}

func TestAPI_DecodeJSON(t *testing.T) {
	api := kithttp.NewAPI()

	tests := []struct {
		name     string
		body     string
		wantCode string
		wantErr  string
	}{
		{name: "valid", body: `{"name":"kettle","price":1.5}`},
		{name: "trailing whitespace", body: "{\"name\":\"kettle\"}\n\n"},
		{name: "fails OK", body: `{"price":1.5}`, wantCode: errors.EInvalid, wantErr: "name is required"},
		{name: "empty body", body: ``, wantCode: errors.EInvalid, wantErr: "failed to unmarshal json: request body is empty"},
		{name: "syntax error", body: `{"name":`, wantCode: errors.EInvalid, wantErr: "failed to unmarshal json: unexpected EOF"},
		{
			name:     "type mismatch",
			body:     `{"name":"kettle","price":"cheap"}`,
			wantCode: errors.EInvalid,
			wantErr:  `failed to unmarshal json: field "price" got string, expected number`,
		},
		{
			name:     "trailing data",
			body:     `{"name":"kettle"} trailing garbage`,
			wantCode: errors.EInvalid,
			wantErr:  "failed to unmarshal json: request body must hold a single JSON value",
		},
		{
			name:     "second value",
			body:     `{"name":"kettle"}{"name":"pot"}`,
			wantCode: errors.EInvalid,
			wantErr:  "failed to unmarshal json: request body must hold a single JSON value",
		},
		{
			name:     "oversized value",
			body:     `{"name":"` + strings.Repeat("a", 2<<20) + `"}`,
			wantCode: errors.ETooLarge,
			wantErr:  "request body exceeds 1048576 bytes",
		},
		{
			name:     "oversized trailing padding",
			body:     `{"name":"kettle"}` + strings.Repeat(" ", 2<<20),
			wantCode: errors.ETooLarge,
			wantErr:  "request body exceeds 1048576 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b checkedBody
			err := api.DecodeJSON(strings.NewReader(tt.body), &b)
			if tt.wantErr == "" {
				require.NoError(t, err)
				require.Equal(t, "kettle", b.Name)
				return
			}
			require.Equal(t, tt.wantCode, errors.ErrorCode(err))
			require.Equal(t, tt.wantErr, errors.ErrorMessage(err))
		})
	}
}

func TestAPI_Respond(t *testing.T) {
	api := kithttp.NewAPI(kithttp.WithPrettyJSON(false))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	api.Respond(w, r, http.StatusCreated, map[string]string{"id": "abc"})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	require.Equal(t, "{\"id\":\"abc\"}\n", w.Body.String())

	w = httptest.NewRecorder()
	api.Respond(w, r, http.StatusNoContent, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Empty(t, w.Body.String())
}

func TestAPI_Err(t *testing.T) {
	api := kithttp.NewAPI(kithttp.WithLog(zaptest.NewLogger(t)))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   kithttp.ErrBody
	}{
		{
			name:       "not found",
			err:        &errors.Error{Code: errors.ENotFound, Msg: "user not found"},
			wantStatus: http.StatusNotFound,
			wantBody:   kithttp.ErrBody{Code: errors.ENotFound, Msg: "user not found"},
		},
		{
			name:       "invalid",
			err:        &errors.Error{Code: errors.EInvalid, Msg: "invalid user: email is required"},
			wantStatus: http.StatusBadRequest,
			wantBody:   kithttp.ErrBody{Code: errors.EInvalid, Msg: "invalid user: email is required"},
		},
		{
			name:       "storage fault passes the backend message through",
			err:        &errors.Error{Code: errors.EInternal, Msg: "Requested resource not found: Table: users not found"},
			wantStatus: http.StatusInternalServerError,
			wantBody:   kithttp.ErrBody{Code: errors.EInternal, Msg: "Requested resource not found: Table: users not found"},
		},
		{
			name:       "wrapped storage fault is not repeated",
			err:        errors.ErrInternal(fmt.Errorf("Requested resource not found"), "shop/FindUsers"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   kithttp.ErrBody{Code: errors.EInternal, Msg: "Requested resource not found"},
		},
		{
			name:       "too large",
			err:        &errors.Error{Code: errors.ETooLarge, Msg: "request body exceeds 1048576 bytes"},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantBody:   kithttp.ErrBody{Code: errors.ETooLarge, Msg: "request body exceeds 1048576 bytes"},
		},
		{
			name:       "unknown error",
			err:        json.Unmarshal([]byte("{"), &struct{}{}),
			wantStatus: http.StatusInternalServerError,
			wantBody:   kithttp.ErrBody{Code: errors.EInternal, Msg: "An internal error has occurred"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/user/get/x", nil)

			api.Err(w, r, tt.err)

			require.Equal(t, tt.wantStatus, w.Code)
			require.Equal(t, tt.wantBody.Code, w.Header().Get(kithttp.PlatformErrorCodeHeader))

			var got kithttp.ErrBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			require.Equal(t, tt.wantBody, got)
		})
	}
}
