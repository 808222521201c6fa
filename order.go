package storefront

import (
	"context"
	"time"

	"github.com/storefront/storefront/kit/platform/errors"
)

// ErrOrderNotFound is used when the order is not found.
var ErrOrderNotFound = &errors.Error{
	Code: errors.ENotFound,
	Msg:  "order not found",
}

// Quotation maps an item identifier to the quantity ordered.
type Quotation map[string]int

// Order is a purchase placed by a user. UserID is not checked against the
// users table and Total is not reconciled with the quotation.
type Order struct {
	ID            string      `json:"id" dynamodbav:"id"`
	UserID        string      `json:"user_id" dynamodbav:"user_id"`
	Quotation     []Quotation `json:"quotation" dynamodbav:"quotation"`
	Total         float64     `json:"total" dynamodbav:"total"`
	Status        string      `json:"status" dynamodbav:"status"`
	PaymentMethod string      `json:"payment_method" dynamodbav:"payment_method"`
	PaymentID     string      `json:"payment_id" dynamodbav:"payment_id"`
	CreatedAt     time.Time   `json:"created_at" dynamodbav:"created_at"`
}

// Ops for order errors and op log.
const (
	OpFindOrderByID = "FindOrderByID"
	OpCreateOrder   = "CreateOrder"
)

// OrderService represents a service for recording orders.
type OrderService interface {
	CreateOrder(ctx context.Context, c OrderCreate) (*Order, error)
	FindOrderByID(ctx context.Context, id string) (*Order, error)
}

// OrderCreate is the body accepted when placing an order.
type OrderCreate struct {
	UserID        string      `json:"user_id" validate:"required"`
	Quotation     []Quotation `json:"quotation" validate:"required"`
	Total         *float64    `json:"total" validate:"required"`
	Status        string      `json:"status"`
	PaymentMethod string      `json:"payment_method"`
	PaymentID     string      `json:"payment_id"`
}

// OK validates the create body.
func (c OrderCreate) OK() error {
	return validateBody("order", c)
}

// Order builds the stored record for c. It must only be called on a body
// that passed OK.
func (c OrderCreate) Order(id string, now time.Time) *Order {
	return &Order{
		ID:            id,
		UserID:        c.UserID,
		Quotation:     c.Quotation,
		Total:         *c.Total,
		Status:        c.Status,
		PaymentMethod: c.PaymentMethod,
		PaymentID:     c.PaymentID,
		CreatedAt:     now.UTC(),
	}
}
