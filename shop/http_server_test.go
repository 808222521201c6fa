package shop

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/storefront/storefront"
	"github.com/storefront/storefront/kit/platform/errors"
	kithttp "github.com/storefront/storefront/kit/transport/http"
	"github.com/storefront/storefront/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	userID    = "0b4c3c5e-6c1d-4d4f-9f22-96a35f4a7c1b"
	productID = "2d2d6e1c-0f0e-4e53-8b3e-c1b0a8f4ef11"
	orderID   = "7f1e29a4-58f1-4c8e-a0f5-5c0d5a3c9b2e"
	now       = time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)
)

type testServices struct {
	users    *mock.MockUserService
	products *mock.MockProductService
	orders   *mock.MockOrderService
}

func newTestServer(t *testing.T) (*httptest.Server, testServices) {
	ctrlr := gomock.NewController(t)
	svcs := testServices{
		users:    mock.NewMockUserService(ctrlr),
		products: mock.NewMockProductService(ctrlr),
		orders:   mock.NewMockOrderService(ctrlr),
	}
	server := NewAPIHandler(zaptest.NewLogger(t), svcs.users, svcs.products, svcs.orders)
	ts := httptest.NewServer(server)
	t.Cleanup(ts.Close)
	return ts, svcs
}

func newTestRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	var r io.Reader = http.NoBody
	if body != nil {
		if s, ok := body.(string); ok {
			r = strings.NewReader(s)
		} else {
			dat, err := json.Marshal(body)
			require.NoError(t, err)
			r = bytes.NewBuffer(dat)
		}
	}

	req, err := http.NewRequest(method, path, r)
	require.NoError(t, err)

	req.Header.Add("Content-Type", "application/json")

	return req
}

func doTestRequest(t *testing.T, req *http.Request, wantCode int, needBody bool) *http.Response {
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, wantCode, res.StatusCode)
	if needBody {
		return res
	}
	require.NoError(t, res.Body.Close())
	return nil
}

func decodeErrBody(t *testing.T, res *http.Response) kithttp.ErrBody {
	t.Helper()
	defer res.Body.Close()

	var got kithttp.ErrBody
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	require.Equal(t, got.Code, res.Header.Get(kithttp.PlatformErrorCodeHeader))
	return got
}

func testUser() *storefront.User {
	return &storefront.User{
		ID:        userID,
		Username:  "alice",
		Email:     "alice@example.com",
		Picture:   []string{},
		CreatedAt: now,
	}
}

func TestAPIHandler_Index(t *testing.T) {
	ts, _ := newTestServer(t)

	res := doTestRequest(t, newTestRequest(t, "GET", ts.URL+"/", nil), http.StatusOK, true)
	defer res.Body.Close()

	var got map[string]string
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	require.Equal(t, map[string]string{"message": "Hello World"}, got)
}

func TestAPIHandler_UnknownRoutes(t *testing.T) {
	ts, _ := newTestServer(t)

	res := doTestRequest(t, newTestRequest(t, "GET", ts.URL+"/api/user/nope", nil), http.StatusNotFound, true)
	require.Equal(t, errors.ENotFound, decodeErrBody(t, res).Code)

	res = doTestRequest(t, newTestRequest(t, "GET", ts.URL+"/api/unknown", nil), http.StatusNotFound, true)
	require.Equal(t, errors.ENotFound, decodeErrBody(t, res).Code)

	// orders cannot be listed or deleted.
	res = doTestRequest(t, newTestRequest(t, "DELETE", ts.URL+"/api/order/get/"+orderID, nil), http.StatusMethodNotAllowed, true)
	require.Equal(t, errors.EMethodNotAllowed, decodeErrBody(t, res).Code)
}

func TestUserHandler_RejectedBodies(t *testing.T) {
	ctrlr := gomock.NewController(t)
	users := mock.NewMockUserService(ctrlr)
	h := NewAPIHandler(zaptest.NewLogger(t), users, mock.NewMockProductService(ctrlr), mock.NewMockOrderService(ctrlr))

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  kithttp.ErrBody
	}{
		{
			name:     "oversized picture list",
			body:     `{"username":"alice","email":"alice@example.com","picture":["` + strings.Repeat("p", 2<<20) + `"]}`,
			wantCode: http.StatusRequestEntityTooLarge,
			wantErr:  kithttp.ErrBody{Code: errors.ETooLarge, Msg: "request body exceeds 1048576 bytes"},
		},
		{
			name:     "trailing garbage",
			body:     `{"username":"alice","email":"alice@example.com"} trailing garbage`,
			wantCode: http.StatusBadRequest,
			wantErr:  kithttp.ErrBody{Code: errors.EInvalid, Msg: "failed to unmarshal json: request body must hold a single JSON value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/user/create", strings.NewReader(tt.body))
			h.ServeHTTP(w, r)

			require.Equal(t, tt.wantCode, w.Code)
			require.Equal(t, tt.wantErr.Code, w.Header().Get(kithttp.PlatformErrorCodeHeader))

			var got kithttp.ErrBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			require.Equal(t, tt.wantErr, got)
		})
	}
}

func TestUserHandler(t *testing.T) {
	t.Parallel()

	ts, svcs := newTestServer(t)

	t.Run("create user", func(t *testing.T) {
		body := storefront.UserCreate{Username: "alice", Email: "alice@example.com", Picture: []string{}}
		svcs.users.EXPECT().
			CreateUser(gomock.Any(), body).
			Return(testUser(), nil)

		res := doTestRequest(t, newTestRequest(t, "POST", ts.URL+"/api/user/create", body), http.StatusCreated, true)
		defer res.Body.Close()

		got := &storefront.User{}
		require.NoError(t, json.NewDecoder(res.Body).Decode(got))
		require.Equal(t, testUser(), got)
	})

	t.Run("create user with invalid body", func(t *testing.T) {
		body := `{"username":"alice","email":"not-an-email"}`

		res := doTestRequest(t, newTestRequest(t, "POST", ts.URL+"/api/user/create", body), http.StatusBadRequest, true)
		got := decodeErrBody(t, res)
		require.Equal(t, errors.EInvalid, got.Code)
		require.Equal(t, "invalid user: email must be a valid email address", got.Msg)
	})

	t.Run("create user with malformed json", func(t *testing.T) {
		res := doTestRequest(t, newTestRequest(t, "POST", ts.URL+"/api/user/create", `{"username":`), http.StatusBadRequest, true)
		require.Equal(t, errors.EInvalid, decodeErrBody(t, res).Code)
	})

	t.Run("create user with wrongly typed field", func(t *testing.T) {
		body := `{"username":"alice","email":"alice@example.com","age":"old"}`

		res := doTestRequest(t, newTestRequest(t, "POST", ts.URL+"/api/user/create", body), http.StatusBadRequest, true)
		got := decodeErrBody(t, res)
		require.Equal(t, errors.EInvalid, got.Code)
		require.Equal(t, `failed to unmarshal json: field "age" got string, expected number`, got.Msg)
	})

	t.Run("get user", func(t *testing.T) {
		svcs.users.EXPECT().
			FindUserByID(gomock.Any(), userID).
			Return(testUser(), nil)

		res := doTestRequest(t, newTestRequest(t, "GET", ts.URL+"/api/user/get/"+userID, nil), http.StatusOK, true)
		defer res.Body.Close()

		got := &storefront.User{}
		require.NoError(t, json.NewDecoder(res.Body).Decode(got))
		require.Equal(t, testUser(), got)
	})

	t.Run("get missing user", func(t *testing.T) {
		svcs.users.EXPECT().
			FindUserByID(gomock.Any(), "missing").
			Return(nil, storefront.ErrUserNotFound)

		res := doTestRequest(t, newTestRequest(t, "GET", ts.URL+"/api/user/get/missing", nil), http.StatusNotFound, true)
		got := decodeErrBody(t, res)
		require.Equal(t, kithttp.ErrBody{Code: errors.ENotFound, Msg: "user not found"}, got)
	})

	t.Run("get users", func(t *testing.T) {
		svcs.users.EXPECT().
			FindUsers(gomock.Any()).
			Return([]*storefront.User{testUser()}, nil)

		res := doTestRequest(t, newTestRequest(t, "GET", ts.URL+"/api/user/get", nil), http.StatusOK, true)
		defer res.Body.Close()

		var got []*storefront.User
		require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
		require.Equal(t, []*storefront.User{testUser()}, got)
	})

	t.Run("get users when there are none", func(t *testing.T) {
		svcs.users.EXPECT().
			FindUsers(gomock.Any()).
			Return(nil, nil)

		res := doTestRequest(t, newTestRequest(t, "GET", ts.URL+"/api/user/get", nil), http.StatusOK, true)
		defer res.Body.Close()

		b, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		require.Equal(t, "[]\n", string(b))
	})

	t.Run("get users storage fault", func(t *testing.T) {
		svcs.users.EXPECT().
			FindUsers(gomock.Any()).
			Return(nil, &errors.Error{Code: errors.EInternal, Msg: "Requested resource not found", Op: "shop/FindUsers"})

		res := doTestRequest(t, newTestRequest(t, "GET", ts.URL+"/api/user/get", nil), http.StatusInternalServerError, true)
		got := decodeErrBody(t, res)
		require.Equal(t, kithttp.ErrBody{Code: errors.EInternal, Msg: "Requested resource not found"}, got)
	})

	t.Run("update user", func(t *testing.T) {
		upd := storefront.UserUpdate{Email: "alice@wonder.land", Username: "alice_l", Picture: []string{"a.png"}}
		updated := testUser()
		upd.Apply(updated)
		svcs.users.EXPECT().
			UpdateUser(gomock.Any(), userID, upd).
			Return(updated, nil)

		res := doTestRequest(t, newTestRequest(t, "PUT", ts.URL+"/api/user/update/"+userID, upd), http.StatusOK, true)
		defer res.Body.Close()

		got := &storefront.User{}
		require.NoError(t, json.NewDecoder(res.Body).Decode(got))
		require.Equal(t, updated, got)
	})

	t.Run("update missing user", func(t *testing.T) {
		upd := storefront.UserUpdate{Email: "ghost@example.com", Username: "ghost"}
		svcs.users.EXPECT().
			UpdateUser(gomock.Any(), "missing", upd).
			Return(nil, storefront.ErrUserNotFound)

		res := doTestRequest(t, newTestRequest(t, "PUT", ts.URL+"/api/user/update/missing", upd), http.StatusNotFound, true)
		require.Equal(t, errors.ENotFound, decodeErrBody(t, res).Code)
	})

	t.Run("delete user", func(t *testing.T) {
		svcs.users.EXPECT().
			DeleteUser(gomock.Any(), userID).
			Return(nil)

		res := doTestRequest(t, newTestRequest(t, "DELETE", ts.URL+"/api/user/delete/"+userID, nil), http.StatusOK, true)
		defer res.Body.Close()

		var got map[string]string
		require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
		require.Equal(t, map[string]string{"id": userID}, got)
	})
}

func TestProductHandler(t *testing.T) {
	t.Parallel()

	ts, svcs := newTestServer(t)

	price, stock := 39.5, 12
	product := &storefront.Product{
		ID:          productID,
		Name:        "kettle",
		Description: "1.7l stainless steel",
		Price:       price,
		Category:    "kitchen",
		Image:       []string{"kettle.png"},
		Stock:       stock,
		CreatedAt:   now,
	}

	t.Run("create product", func(t *testing.T) {
		body := storefront.ProductCreate{
			Name:        "kettle",
			Description: "1.7l stainless steel",
			Price:       &price,
			Category:    "kitchen",
			Image:       []string{"kettle.png"},
			Stock:       &stock,
		}
		svcs.products.EXPECT().
			CreateProduct(gomock.Any(), body).
			Return(product, nil)

		res := doTestRequest(t, newTestRequest(t, "POST", ts.URL+"/api/product/create", body), http.StatusCreated, true)
		defer res.Body.Close()

		got := &storefront.Product{}
		require.NoError(t, json.NewDecoder(res.Body).Decode(got))
		require.Equal(t, product, got)
	})

	t.Run("create product without price", func(t *testing.T) {
		body := `{"name":"kettle","description":"d","category":"kitchen","image":[],"stock":1}`

		res := doTestRequest(t, newTestRequest(t, "POST", ts.URL+"/api/product/create", body), http.StatusBadRequest, true)
		got := decodeErrBody(t, res)
		require.Equal(t, "invalid product: price is required", got.Msg)
	})

	t.Run("get product", func(t *testing.T) {
		svcs.products.EXPECT().
			FindProductByID(gomock.Any(), productID).
			Return(product, nil)

		res := doTestRequest(t, newTestRequest(t, "GET", ts.URL+"/api/product/get/"+productID, nil), http.StatusOK, true)
		defer res.Body.Close()

		got := &storefront.Product{}
		require.NoError(t, json.NewDecoder(res.Body).Decode(got))
		require.Equal(t, product, got)
	})

	t.Run("get missing product", func(t *testing.T) {
		svcs.products.EXPECT().
			FindProductByID(gomock.Any(), "missing").
			Return(nil, storefront.ErrProductNotFound)

		res := doTestRequest(t, newTestRequest(t, "GET", ts.URL+"/api/product/get/missing", nil), http.StatusNotFound, true)
		require.Equal(t, "product not found", decodeErrBody(t, res).Msg)
	})

	t.Run("get products", func(t *testing.T) {
		svcs.products.EXPECT().
			FindProducts(gomock.Any()).
			Return([]*storefront.Product{product}, nil)

		res := doTestRequest(t, newTestRequest(t, "GET", ts.URL+"/api/product/get", nil), http.StatusOK, true)
		defer res.Body.Close()

		var got []*storefront.Product
		require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
		require.Equal(t, []*storefront.Product{product}, got)
	})

	t.Run("delete product", func(t *testing.T) {
		svcs.products.EXPECT().
			DeleteProduct(gomock.Any(), productID).
			Return(nil)

		doTestRequest(t, newTestRequest(t, "DELETE", ts.URL+"/api/product/delete/"+productID, nil), http.StatusOK, false)
	})
}

func TestOrderHandler(t *testing.T) {
	t.Parallel()

	ts, svcs := newTestServer(t)

	total := 68.5
	order := &storefront.Order{
		ID:            orderID,
		UserID:        userID,
		Quotation:     []storefront.Quotation{{"kettle": 1}, {"mug": 4}},
		Total:         total,
		Status:        "paid",
		PaymentMethod: "card",
		PaymentID:     "pi_1",
		CreatedAt:     now,
	}

	t.Run("create order", func(t *testing.T) {
		body := storefront.OrderCreate{
			UserID:        userID,
			Quotation:     []storefront.Quotation{{"kettle": 1}, {"mug": 4}},
			Total:         &total,
			Status:        "paid",
			PaymentMethod: "card",
			PaymentID:     "pi_1",
		}
		svcs.orders.EXPECT().
			CreateOrder(gomock.Any(), body).
			Return(order, nil)

		res := doTestRequest(t, newTestRequest(t, "POST", ts.URL+"/api/order/create", body), http.StatusCreated, true)
		defer res.Body.Close()

		got := &storefront.Order{}
		require.NoError(t, json.NewDecoder(res.Body).Decode(got))
		require.Equal(t, order, got)
	})

	t.Run("create order with empty body", func(t *testing.T) {
		res := doTestRequest(t, newTestRequest(t, "POST", ts.URL+"/api/order/create", nil), http.StatusBadRequest, true)
		got := decodeErrBody(t, res)
		require.Equal(t, "failed to unmarshal json: request body is empty", got.Msg)
	})

	t.Run("get order", func(t *testing.T) {
		svcs.orders.EXPECT().
			FindOrderByID(gomock.Any(), orderID).
			Return(order, nil)

		res := doTestRequest(t, newTestRequest(t, "GET", ts.URL+"/api/order/get/"+orderID, nil), http.StatusOK, true)
		defer res.Body.Close()

		got := &storefront.Order{}
		require.NoError(t, json.NewDecoder(res.Body).Decode(got))
		require.Equal(t, order, got)
	})

	t.Run("get missing order", func(t *testing.T) {
		svcs.orders.EXPECT().
			FindOrderByID(gomock.Any(), "missing").
			Return(nil, storefront.ErrOrderNotFound)

		res := doTestRequest(t, newTestRequest(t, "GET", ts.URL+"/api/order/get/missing", nil), http.StatusNotFound, true)
		require.Equal(t, "order not found", decodeErrBody(t, res).Msg)
	})
}
