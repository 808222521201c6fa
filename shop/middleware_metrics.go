package shop

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/storefront/storefront"
	"github.com/storefront/storefront/kit/metric"
)

var (
	_ storefront.UserService    = (*UserMetrics)(nil)
	_ storefront.ProductService = (*ProductMetrics)(nil)
	_ storefront.OrderService   = (*OrderMetrics)(nil)
)

type UserMetrics struct {
	// RED metrics
	rec *metric.REDClient

	userService storefront.UserService
}

// NewUserMetrics returns a metrics service middleware for the User Service.
func NewUserMetrics(reg prometheus.Registerer, s storefront.UserService, opts ...metric.ClientOptFn) *UserMetrics {
	o := metric.ApplyMetricOpts(opts...)
	return &UserMetrics{
		rec:         metric.New(reg, o.ApplySuffix("user"), opts...),
		userService: s,
	}
}

func (m *UserMetrics) CreateUser(ctx context.Context, c storefront.UserCreate) (*storefront.User, error) {
	rec := m.rec.Record("create_user")
	user, err := m.userService.CreateUser(ctx, c)
	return user, rec(err)
}

func (m *UserMetrics) FindUserByID(ctx context.Context, id string) (*storefront.User, error) {
	rec := m.rec.Record("find_user_by_id")
	user, err := m.userService.FindUserByID(ctx, id)
	return user, rec(err)
}

func (m *UserMetrics) FindUsers(ctx context.Context) ([]*storefront.User, error) {
	rec := m.rec.Record("find_users")
	users, err := m.userService.FindUsers(ctx)
	return users, rec(err)
}

func (m *UserMetrics) UpdateUser(ctx context.Context, id string, upd storefront.UserUpdate) (*storefront.User, error) {
	rec := m.rec.Record("update_user")
	user, err := m.userService.UpdateUser(ctx, id, upd)
	return user, rec(err)
}

func (m *UserMetrics) DeleteUser(ctx context.Context, id string) error {
	rec := m.rec.Record("delete_user")
	err := m.userService.DeleteUser(ctx, id)
	return rec(err)
}

type ProductMetrics struct {
	// RED metrics
	rec *metric.REDClient

	productService storefront.ProductService
}

// NewProductMetrics returns a metrics service middleware for the Product Service.
func NewProductMetrics(reg prometheus.Registerer, s storefront.ProductService, opts ...metric.ClientOptFn) *ProductMetrics {
	o := metric.ApplyMetricOpts(opts...)
	return &ProductMetrics{
		rec:            metric.New(reg, o.ApplySuffix("product"), opts...),
		productService: s,
	}
}

func (m *ProductMetrics) CreateProduct(ctx context.Context, c storefront.ProductCreate) (*storefront.Product, error) {
	rec := m.rec.Record("create_product")
	product, err := m.productService.CreateProduct(ctx, c)
	return product, rec(err)
}

func (m *ProductMetrics) FindProductByID(ctx context.Context, id string) (*storefront.Product, error) {
	rec := m.rec.Record("find_product_by_id")
	product, err := m.productService.FindProductByID(ctx, id)
	return product, rec(err)
}

func (m *ProductMetrics) FindProducts(ctx context.Context) ([]*storefront.Product, error) {
	rec := m.rec.Record("find_products")
	products, err := m.productService.FindProducts(ctx)
	return products, rec(err)
}

func (m *ProductMetrics) DeleteProduct(ctx context.Context, id string) error {
	rec := m.rec.Record("delete_product")
	err := m.productService.DeleteProduct(ctx, id)
	return rec(err)
}

type OrderMetrics struct {
	// RED metrics
	rec *metric.REDClient

	orderService storefront.OrderService
}

// NewOrderMetrics returns a metrics service middleware for the Order Service.
func NewOrderMetrics(reg prometheus.Registerer, s storefront.OrderService, opts ...metric.ClientOptFn) *OrderMetrics {
	o := metric.ApplyMetricOpts(opts...)
	return &OrderMetrics{
		rec:          metric.New(reg, o.ApplySuffix("order"), opts...),
		orderService: s,
	}
}

func (m *OrderMetrics) CreateOrder(ctx context.Context, c storefront.OrderCreate) (*storefront.Order, error) {
	rec := m.rec.Record("create_order")
	order, err := m.orderService.CreateOrder(ctx, c)
	return order, rec(err)
}

func (m *OrderMetrics) FindOrderByID(ctx context.Context, id string) (*storefront.Order, error) {
	rec := m.rec.Record("find_order_by_id")
	order, err := m.orderService.FindOrderByID(ctx, id)
	return order, rec(err)
}
