package storefront

import (
	"context"
	"time"

	"github.com/storefront/storefront/kit/platform/errors"
)

// MaxProductsListed caps how many products FindProducts returns.
const MaxProductsListed = 30

// ProductListAttributes are the product attributes FindProducts returns.
var ProductListAttributes = []string{"id", "name", "description", "price", "category", "image", "created_at", "stock"}

// ErrProductNotFound is used when the product is not found.
var ErrProductNotFound = &errors.Error{
	Code: errors.ENotFound,
	Msg:  "product not found",
}

// Product is an item for sale.
type Product struct {
	ID          string    `json:"id" dynamodbav:"id"`
	Name        string    `json:"name" dynamodbav:"name"`
	Description string    `json:"description" dynamodbav:"description"`
	Price       float64   `json:"price" dynamodbav:"price"`
	Category    string    `json:"category" dynamodbav:"category"`
	Image       []string  `json:"image" dynamodbav:"image"`
	Stock       int       `json:"stock" dynamodbav:"stock"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
}

// Ops for product errors and op log.
const (
	OpFindProductByID = "FindProductByID"
	OpFindProducts    = "FindProducts"
	OpCreateProduct   = "CreateProduct"
	OpDeleteProduct   = "DeleteProduct"
)

// ProductService represents a service for managing the product catalog.
type ProductService interface {
	CreateProduct(ctx context.Context, c ProductCreate) (*Product, error)
	FindProductByID(ctx context.Context, id string) (*Product, error)
	// FindProducts returns at most MaxProductsListed products.
	FindProducts(ctx context.Context) ([]*Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// ProductCreate is the body accepted when creating a product. Price and
// stock are pointers so a missing value can be told apart from zero.
type ProductCreate struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Category    string   `json:"category" validate:"required"`
	Image       []string `json:"image" validate:"required"`
	Stock       *int     `json:"stock" validate:"required,gte=0"`
}

// OK validates the create body.
func (c ProductCreate) OK() error {
	return validateBody("product", c)
}

// Product builds the stored record for c. It must only be called on a body
// that passed OK.
func (c ProductCreate) Product(id string, now time.Time) *Product {
	return &Product{
		ID:          id,
		Name:        c.Name,
		Description: c.Description,
		Price:       *c.Price,
		Category:    c.Category,
		Image:       c.Image,
		Stock:       *c.Stock,
		CreatedAt:   now.UTC(),
	}
}
