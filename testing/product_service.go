package testing

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/storefront/storefront"
	"github.com/storefront/storefront/kit/platform/errors"
	"github.com/storefront/storefront/mock"
)

var productCmpOptions = cmp.Options{
	cmp.Transformer("Sort", func(in []*storefront.Product) []*storefront.Product {
		out := append([]*storefront.Product(nil), in...)
		sort.Slice(out, func(i, j int) bool {
			return out[i].ID < out[j].ID
		})
		return out
	}),
}

// ProductInitFn builds a storefront.ProductService seeded with fields.
type ProductInitFn func(ShopFields, *testing.T) (storefront.ProductService, func())

// ProductService runs every product conformance case.
func ProductService(init ProductInitFn, t *testing.T) {
	tests := []struct {
		name string
		fn   func(init ProductInitFn, t *testing.T)
	}{
		{name: "CreateProduct", fn: CreateProduct},
		{name: "FindProductByID", fn: FindProductByID},
		{name: "FindProducts", fn: FindProducts},
		{name: "DeleteProduct", fn: DeleteProduct},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(init, t)
		})
	}
}

func kettle() *storefront.Product {
	return &storefront.Product{
		ID:          idOne,
		Name:        "kettle",
		Description: "1.7l stainless steel",
		Price:       39.5,
		Category:    "kitchen",
		Image:       []string{"https://img.example.com/kettle.png"},
		Stock:       12,
		CreatedAt:   fixedNow,
	}
}

func teapot() *storefront.Product {
	return &storefront.Product{
		ID:          idTwo,
		Name:        "teapot",
		Description: "short and stout",
		Price:       0,
		Category:    "kitchen",
		Image:       []string{},
		Stock:       0,
		CreatedAt:   fixedNow,
	}
}

// CreateProduct testing
func CreateProduct(init ProductInitFn, t *testing.T) {
	tests := []struct {
		name    string
		fields  ShopFields
		create  storefront.ProductCreate
		wantErr error
		want    *storefront.Product
	}{
		{
			name: "basic create product",
			fields: ShopFields{
				IDGenerator: mock.NewIDGenerator(idThree),
				Now:         fixedNow,
			},
			create: storefront.ProductCreate{
				Name:        "mug",
				Description: "holds coffee",
				Price:       floatPtr(7.25),
				Category:    "kitchen",
				Image:       []string{"mug.png"},
				Stock:       intPtr(40),
			},
			want: &storefront.Product{
				ID:          idThree,
				Name:        "mug",
				Description: "holds coffee",
				Price:       7.25,
				Category:    "kitchen",
				Image:       []string{"mug.png"},
				Stock:       40,
				CreatedAt:   fixedNow,
			},
		},
		{
			name: "price and stock of zero are accepted",
			fields: ShopFields{
				IDGenerator: mock.NewIDGenerator(idTwo),
				Now:         fixedNow,
			},
			create: storefront.ProductCreate{
				Name:        "teapot",
				Description: "short and stout",
				Price:       floatPtr(0),
				Category:    "kitchen",
				Image:       []string{},
				Stock:       intPtr(0),
			},
			want: teapot(),
		},
		{
			name: "negative price is rejected",
			fields: ShopFields{
				IDGenerator: mock.NewIDGenerator(idThree),
				Now:         fixedNow,
			},
			create: storefront.ProductCreate{
				Name:        "mug",
				Description: "holds coffee",
				Price:       floatPtr(-1),
				Category:    "kitchen",
				Image:       []string{},
				Stock:       intPtr(1),
			},
			wantErr: &errors.Error{
				Code: errors.EInvalid,
				Msg:  "invalid product: price must be greater than or equal to 0",
			},
		},
		{
			name: "missing fields are named",
			fields: ShopFields{
				IDGenerator: mock.NewIDGenerator(idThree),
				Now:         fixedNow,
			},
			create: storefront.ProductCreate{
				Name:        "mug",
				Description: "holds coffee",
				Category:    "kitchen",
			},
			wantErr: &errors.Error{
				Code: errors.EInvalid,
				Msg:  "invalid product: price is required; image is required; stock is required",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, done := init(tt.fields, t)
			defer done()
			ctx := context.Background()

			product, err := s.CreateProduct(ctx, tt.create)
			diffPlatformErrors(tt.name, err, tt.wantErr, t)
			if tt.wantErr != nil {
				return
			}

			if diff := cmp.Diff(product, tt.want); diff != "" {
				t.Errorf("created product is different -got/+want\ndiff %s", diff)
			}

			found, err := s.FindProductByID(ctx, product.ID)
			if err != nil {
				t.Fatalf("failed to read back created product: %v", err)
			}
			if diff := cmp.Diff(found, tt.want); diff != "" {
				t.Errorf("stored product is different -got/+want\ndiff %s", diff)
			}
		})
	}
}

// FindProductByID testing
func FindProductByID(init ProductInitFn, t *testing.T) {
	tests := []struct {
		name    string
		fields  ShopFields
		id      string
		wantErr error
		want    *storefront.Product
	}{
		{
			name:   "basic find product by id",
			fields: ShopFields{Products: []*storefront.Product{kettle(), teapot()}},
			id:     idOne,
			want:   kettle(),
		},
		{
			name:    "find product by id not exists",
			fields:  ShopFields{Products: []*storefront.Product{kettle()}},
			id:      idNone,
			wantErr: storefront.ErrProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, done := init(tt.fields, t)
			defer done()

			product, err := s.FindProductByID(context.Background(), tt.id)
			diffPlatformErrors(tt.name, err, tt.wantErr, t)

			if diff := cmp.Diff(product, tt.want); diff != "" {
				t.Errorf("product is different -got/+want\ndiff %s", diff)
			}
		})
	}
}

// FindProducts testing
func FindProducts(init ProductInitFn, t *testing.T) {
	many := make([]*storefront.Product, 0, storefront.MaxProductsListed+3)
	for i := 1; i <= storefront.MaxProductsListed+3; i++ {
		p := kettle()
		p.ID = fmt.Sprintf("020f755c-3c08-4000-8000-%012d", 100+i)
		p.Name = fmt.Sprintf("kettle %d", i)
		many = append(many, p)
	}

	tests := []struct {
		name      string
		fields    ShopFields
		want      []*storefront.Product
		wantCount int
	}{
		{
			name:   "no products",
			fields: ShopFields{},
			want:   []*storefront.Product{},
		},
		{
			name:   "every listed attribute is returned",
			fields: ShopFields{Products: []*storefront.Product{kettle(), teapot()}},
			want:   []*storefront.Product{kettle(), teapot()},
		},
		{
			name:      "at most thirty products are listed",
			fields:    ShopFields{Products: many},
			wantCount: storefront.MaxProductsListed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, done := init(tt.fields, t)
			defer done()

			products, err := s.FindProducts(context.Background())
			diffPlatformErrors(tt.name, err, nil, t)

			if tt.want != nil {
				if diff := cmp.Diff(products, tt.want, productCmpOptions...); diff != "" {
					t.Errorf("products are different -got/+want\ndiff %s", diff)
				}
				return
			}

			if len(products) != tt.wantCount {
				t.Fatalf("expected %d products, got %d", tt.wantCount, len(products))
			}
		})
	}
}

// DeleteProduct testing
func DeleteProduct(init ProductInitFn, t *testing.T) {
	tests := []struct {
		name   string
		fields ShopFields
		id     string
		want   []*storefront.Product
	}{
		{
			name:   "delete product using exist id",
			fields: ShopFields{Products: []*storefront.Product{kettle(), teapot()}},
			id:     idOne,
			want:   []*storefront.Product{teapot()},
		},
		{
			name:   "delete product using id that does not exist",
			fields: ShopFields{Products: []*storefront.Product{teapot()}},
			id:     idNone,
			want:   []*storefront.Product{teapot()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, done := init(tt.fields, t)
			defer done()
			ctx := context.Background()

			err := s.DeleteProduct(ctx, tt.id)
			diffPlatformErrors(tt.name, err, nil, t)

			if _, err := s.FindProductByID(ctx, tt.id); errors.ErrorCode(err) != errors.ENotFound {
				t.Fatalf("expected deleted product to be not found, got %v", err)
			}

			products, err := s.FindProducts(ctx)
			if err != nil {
				t.Fatalf("failed to retrieve products: %v", err)
			}
			if diff := cmp.Diff(products, tt.want, productCmpOptions...); diff != "" {
				t.Errorf("products are different -got/+want\ndiff %s", diff)
			}
		})
	}
}
