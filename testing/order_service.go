package testing

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/storefront/storefront"
	"github.com/storefront/storefront/kit/platform/errors"
	"github.com/storefront/storefront/mock"
)

// OrderInitFn builds a storefront.OrderService seeded with fields.
type OrderInitFn func(ShopFields, *testing.T) (storefront.OrderService, func())

// OrderService runs every order conformance case.
func OrderService(init OrderInitFn, t *testing.T) {
	tests := []struct {
		name string
		fn   func(init OrderInitFn, t *testing.T)
	}{
		{name: "CreateOrder", fn: CreateOrder},
		{name: "FindOrderByID", fn: FindOrderByID},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(init, t)
		})
	}
}

func paidOrder() *storefront.Order {
	return &storefront.Order{
		ID:            idOne,
		UserID:        idTwo,
		Quotation:     []storefront.Quotation{{"kettle": 1}, {"mug": 4}},
		Total:         68.5,
		Status:        "paid",
		PaymentMethod: "card",
		PaymentID:     "pi_3MtwBwLkdIwHu7ix28a3tqPa",
		CreatedAt:     fixedNow,
	}
}

// CreateOrder testing
func CreateOrder(init OrderInitFn, t *testing.T) {
	tests := []struct {
		name    string
		fields  ShopFields
		create  storefront.OrderCreate
		wantErr error
		want    *storefront.Order
	}{
		{
			name: "basic create order",
			fields: ShopFields{
				IDGenerator: mock.NewIDGenerator(idOne),
				Now:         fixedNow,
			},
			create: storefront.OrderCreate{
				UserID:        idTwo,
				Quotation:     []storefront.Quotation{{"kettle": 1}, {"mug": 4}},
				Total:         floatPtr(68.5),
				Status:        "paid",
				PaymentMethod: "card",
				PaymentID:     "pi_3MtwBwLkdIwHu7ix28a3tqPa",
			},
			want: paidOrder(),
		},
		{
			name: "user is not checked and total is not reconciled",
			fields: ShopFields{
				IDGenerator: mock.NewIDGenerator(idThree),
				Now:         fixedNow,
			},
			create: storefront.OrderCreate{
				UserID:    idNone,
				Quotation: []storefront.Quotation{{"kettle": 100}},
				Total:     floatPtr(0),
			},
			want: &storefront.Order{
				ID:        idThree,
				UserID:    idNone,
				Quotation: []storefront.Quotation{{"kettle": 100}},
				CreatedAt: fixedNow,
			},
		},
		{
			name: "user, quotation and total are required",
			fields: ShopFields{
				IDGenerator: mock.NewIDGenerator(idThree),
				Now:         fixedNow,
			},
			create: storefront.OrderCreate{Status: "pending"},
			wantErr: &errors.Error{
				Code: errors.EInvalid,
				Msg:  "invalid order: user_id is required; quotation is required; total is required",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, done := init(tt.fields, t)
			defer done()
			ctx := context.Background()

			order, err := s.CreateOrder(ctx, tt.create)
			diffPlatformErrors(tt.name, err, tt.wantErr, t)
			if tt.wantErr != nil {
				return
			}

			if diff := cmp.Diff(order, tt.want); diff != "" {
				t.Errorf("created order is different -got/+want\ndiff %s", diff)
			}

			found, err := s.FindOrderByID(ctx, order.ID)
			if err != nil {
				t.Fatalf("failed to read back created order: %v", err)
			}
			if diff := cmp.Diff(found, tt.want); diff != "" {
				t.Errorf("stored order is different -got/+want\ndiff %s", diff)
			}
		})
	}
}

// FindOrderByID testing
func FindOrderByID(init OrderInitFn, t *testing.T) {
	tests := []struct {
		name    string
		fields  ShopFields
		id      string
		wantErr error
		want    *storefront.Order
	}{
		{
			name:   "basic find order by id",
			fields: ShopFields{Orders: []*storefront.Order{paidOrder()}},
			id:     idOne,
			want:   paidOrder(),
		},
		{
			name:    "find order by id not exists",
			fields:  ShopFields{Orders: []*storefront.Order{paidOrder()}},
			id:      idNone,
			wantErr: storefront.ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, done := init(tt.fields, t)
			defer done()

			order, err := s.FindOrderByID(context.Background(), tt.id)
			diffPlatformErrors(tt.name, err, tt.wantErr, t)

			if diff := cmp.Diff(order, tt.want); diff != "" {
				t.Errorf("order is different -got/+want\ndiff %s", diff)
			}
		})
	}
}
