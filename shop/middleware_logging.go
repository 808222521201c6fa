package shop

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront/storefront"
	"go.uber.org/zap"
)

// UserLogger logs every call made through a storefront.UserService.
type UserLogger struct {
	logger      *zap.Logger
	userService storefront.UserService
}

// NewUserLogger returns a logging service middleware for the User Service.
func NewUserLogger(log *zap.Logger, s storefront.UserService) *UserLogger {
	return &UserLogger{
		logger:      log,
		userService: s,
	}
}

var _ storefront.UserService = (*UserLogger)(nil)

func (l *UserLogger) CreateUser(ctx context.Context, c storefront.UserCreate) (u *storefront.User, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to create user", zap.Error(err), dur)
			return
		}
		l.logger.Debug("user create", zap.String("id", u.ID), dur)
	}(time.Now())
	return l.userService.CreateUser(ctx, c)
}

func (l *UserLogger) FindUserByID(ctx context.Context, id string) (u *storefront.User, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			msg := fmt.Sprintf("failed to find user with ID %v", id)
			l.logger.Debug(msg, zap.Error(err), dur)
			return
		}
		l.logger.Debug("user find by ID", dur)
	}(time.Now())
	return l.userService.FindUserByID(ctx, id)
}

func (l *UserLogger) FindUsers(ctx context.Context) (us []*storefront.User, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to find users", zap.Error(err), dur)
			return
		}
		l.logger.Debug("users find", zap.Int("count", len(us)), dur)
	}(time.Now())
	return l.userService.FindUsers(ctx)
}

func (l *UserLogger) UpdateUser(ctx context.Context, id string, upd storefront.UserUpdate) (u *storefront.User, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			msg := fmt.Sprintf("failed to update user with ID %v", id)
			l.logger.Debug(msg, zap.Error(err), dur)
			return
		}
		l.logger.Debug("user update", dur)
	}(time.Now())
	return l.userService.UpdateUser(ctx, id, upd)
}

func (l *UserLogger) DeleteUser(ctx context.Context, id string) (err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			msg := fmt.Sprintf("failed to delete user with ID %v", id)
			l.logger.Debug(msg, zap.Error(err), dur)
			return
		}
		l.logger.Debug("user delete", dur)
	}(time.Now())
	return l.userService.DeleteUser(ctx, id)
}

// ProductLogger logs every call made through a storefront.ProductService.
type ProductLogger struct {
	logger         *zap.Logger
	productService storefront.ProductService
}

// NewProductLogger returns a logging service middleware for the Product Service.
func NewProductLogger(log *zap.Logger, s storefront.ProductService) *ProductLogger {
	return &ProductLogger{
		logger:         log,
		productService: s,
	}
}

var _ storefront.ProductService = (*ProductLogger)(nil)

func (l *ProductLogger) CreateProduct(ctx context.Context, c storefront.ProductCreate) (p *storefront.Product, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to create product", zap.Error(err), dur)
			return
		}
		l.logger.Debug("product create", zap.String("id", p.ID), dur)
	}(time.Now())
	return l.productService.CreateProduct(ctx, c)
}

func (l *ProductLogger) FindProductByID(ctx context.Context, id string) (p *storefront.Product, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			msg := fmt.Sprintf("failed to find product with ID %v", id)
			l.logger.Debug(msg, zap.Error(err), dur)
			return
		}
		l.logger.Debug("product find by ID", dur)
	}(time.Now())
	return l.productService.FindProductByID(ctx, id)
}

func (l *ProductLogger) FindProducts(ctx context.Context) (ps []*storefront.Product, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to find products", zap.Error(err), dur)
			return
		}
		l.logger.Debug("products find", zap.Int("count", len(ps)), dur)
	}(time.Now())
	return l.productService.FindProducts(ctx)
}

func (l *ProductLogger) DeleteProduct(ctx context.Context, id string) (err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			msg := fmt.Sprintf("failed to delete product with ID %v", id)
			l.logger.Debug(msg, zap.Error(err), dur)
			return
		}
		l.logger.Debug("product delete", dur)
	}(time.Now())
	return l.productService.DeleteProduct(ctx, id)
}

// OrderLogger logs every call made through a storefront.OrderService.
type OrderLogger struct {
	logger       *zap.Logger
	orderService storefront.OrderService
}

// NewOrderLogger returns a logging service middleware for the Order Service.
func NewOrderLogger(log *zap.Logger, s storefront.OrderService) *OrderLogger {
	return &OrderLogger{
		logger:       log,
		orderService: s,
	}
}

var _ storefront.OrderService = (*OrderLogger)(nil)

func (l *OrderLogger) CreateOrder(ctx context.Context, c storefront.OrderCreate) (o *storefront.Order, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to create order", zap.Error(err), dur)
			return
		}
		l.logger.Debug("order create", zap.String("id", o.ID), zap.String("user_id", o.UserID), dur)
	}(time.Now())
	return l.orderService.CreateOrder(ctx, c)
}

func (l *OrderLogger) FindOrderByID(ctx context.Context, id string) (o *storefront.Order, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			msg := fmt.Sprintf("failed to find order with ID %v", id)
			l.logger.Debug(msg, zap.Error(err), dur)
			return
		}
		l.logger.Debug("order find by ID", dur)
	}(time.Now())
	return l.orderService.FindOrderByID(ctx, id)
}
