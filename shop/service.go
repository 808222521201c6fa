package shop

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/storefront/storefront"
	"github.com/storefront/storefront/kv"
)

var (
	_ storefront.UserService    = (*Service)(nil)
	_ storefront.ProductService = (*Service)(nil)
	_ storefront.OrderService   = (*Service)(nil)
)

// Service implements the storefront services on top of a Store.
type Service struct {
	store *Store
	idGen storefront.IDGenerator
	clock clock.Clock
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithIDGenerator sets the generator used for new record ids.
func WithIDGenerator(g storefront.IDGenerator) ServiceOption {
	return func(s *Service) {
		s.idGen = g
	}
}

// WithClock sets the clock used to stamp created_at.
func WithClock(c clock.Clock) ServiceOption {
	return func(s *Service) {
		s.clock = c
	}
}

// NewService returns a Service backed by st. Ids default to random UUIDs and
// timestamps to the wall clock.
func NewService(st *Store, opts ...ServiceOption) *Service {
	s := &Service{
		store: st,
		idGen: storefront.UUIDGenerator{},
		clock: clock.New(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateUser validates c and stores it as a new user.
func (s *Service) CreateUser(ctx context.Context, c storefront.UserCreate) (*storefront.User, error) {
	if err := c.OK(); err != nil {
		return nil, err
	}

	u := c.User(s.idGen.ID(), s.clock.Now())
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		return s.store.CreateUser(ctx, tx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// FindUserByID returns a single user by ID.
func (s *Service) FindUserByID(ctx context.Context, id string) (*storefront.User, error) {
	var user *storefront.User
	err := s.store.View(ctx, func(tx kv.Tx) error {
		u, err := s.store.GetUser(ctx, tx, id)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// FindUsers returns at most storefront.MaxUsersListed users.
func (s *Service) FindUsers(ctx context.Context) ([]*storefront.User, error) {
	var users []*storefront.User
	err := s.store.View(ctx, func(tx kv.Tx) error {
		us, err := s.store.ListUsers(ctx, tx)
		if err != nil {
			return err
		}
		users = us
		return nil
	})
	if err != nil {
		return nil, err
	}

	return users, nil
}

// UpdateUser replaces the email, username and picture of the user with id.
func (s *Service) UpdateUser(ctx context.Context, id string, upd storefront.UserUpdate) (*storefront.User, error) {
	if err := upd.OK(); err != nil {
		return nil, err
	}

	var user *storefront.User
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		u, err := s.store.UpdateUser(ctx, tx, id, upd)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser removes a user by ID.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(tx kv.Tx) error {
		return s.store.DeleteUser(ctx, tx, id)
	})
}

// CreateProduct validates c and stores it as a new product.
func (s *Service) CreateProduct(ctx context.Context, c storefront.ProductCreate) (*storefront.Product, error) {
	if err := c.OK(); err != nil {
		return nil, err
	}

	p := c.Product(s.idGen.ID(), s.clock.Now())
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		return s.store.CreateProduct(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindProductByID returns a single product by ID.
func (s *Service) FindProductByID(ctx context.Context, id string) (*storefront.Product, error) {
	var product *storefront.Product
	err := s.store.View(ctx, func(tx kv.Tx) error {
		p, err := s.store.GetProduct(ctx, tx, id)
		if err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// FindProducts returns at most storefront.MaxProductsListed products.
func (s *Service) FindProducts(ctx context.Context) ([]*storefront.Product, error) {
	var products []*storefront.Product
	err := s.store.View(ctx, func(tx kv.Tx) error {
		ps, err := s.store.ListProducts(ctx, tx)
		if err != nil {
			return err
		}
		products = ps
		return nil
	})
	if err != nil {
		return nil, err
	}

	return products, nil
}

// DeleteProduct removes a product by ID.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(tx kv.Tx) error {
		return s.store.DeleteProduct(ctx, tx, id)
	})
}

// CreateOrder validates c and records it as a new order.
func (s *Service) CreateOrder(ctx context.Context, c storefront.OrderCreate) (*storefront.Order, error) {
	if err := c.OK(); err != nil {
		return nil, err
	}

	o := c.Order(s.idGen.ID(), s.clock.Now())
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		return s.store.CreateOrder(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// FindOrderByID returns a single order by ID.
func (s *Service) FindOrderByID(ctx context.Context, id string) (*storefront.Order, error) {
	var order *storefront.Order
	err := s.store.View(ctx, func(tx kv.Tx) error {
		o, err := s.store.GetOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}
