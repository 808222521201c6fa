// Package storefront defines the records served by storefrontd (users,
// products and orders), the request bodies that create and update them, and
// the service contracts every storage backend implements.
package storefront

import (
	"github.com/google/uuid"
)

//go:generate go run github.com/golang/mock/mockgen -destination mock/storefront_services.go -package mock github.com/storefront/storefront OrderService,ProductService,UserService

// Table names used by every backend, one per resource.
const (
	UsersTable    = "users"
	ProductsTable = "products"
	OrdersTable   = "orders"
)

// IDGenerator produces identifiers for new records.
type IDGenerator interface {
	ID() string
}

// UUIDGenerator hands out random (version 4) UUIDs in their 36 character
// canonical form.
type UUIDGenerator struct{}

// ID returns a new random UUID.
func (UUIDGenerator) ID() string {
	return uuid.NewString()
}
