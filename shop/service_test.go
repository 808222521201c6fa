package shop_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/storefront/storefront"
	"github.com/storefront/storefront/bolt"
	"github.com/storefront/storefront/inmem"
	"github.com/storefront/storefront/kv"
	"github.com/storefront/storefront/shop"
	storefronttesting "github.com/storefront/storefront/testing"
	"go.uber.org/zap/zaptest"
)

type backend struct {
	name string
	open func(t *testing.T) (kv.SchemaStore, func())
}

var backends = []backend{
	{
		name: "inmem",
		open: func(t *testing.T) (kv.SchemaStore, func()) {
			return inmem.NewKVStore(), func() {}
		},
	},
	{
		name: "bolt",
		open: func(t *testing.T) (kv.SchemaStore, func()) {
			path := filepath.Join(t.TempDir(), "storefront.bolt")
			s := bolt.NewKVStore(zaptest.NewLogger(t), path, bolt.WithNoSync)
			if err := s.Open(context.Background()); err != nil {
				t.Fatalf("failed to open bolt store: %v", err)
			}
			return s, func() {
				if err := s.Close(); err != nil {
					t.Logf("failed to close bolt store: %v", err)
				}
			}
		},
	},
}

func initService(b backend, f storefronttesting.ShopFields, t *testing.T) (*shop.Service, func()) {
	t.Helper()

	kvStore, closeFn := b.open(t)
	ctx := context.Background()

	store, err := shop.NewStore(ctx, kvStore)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	err = store.Update(ctx, func(tx kv.Tx) error {
		for _, u := range f.Users {
			if err := store.CreateUser(ctx, tx, u); err != nil {
				return err
			}
		}
		for _, p := range f.Products {
			if err := store.CreateProduct(ctx, tx, p); err != nil {
				return err
			}
		}
		for _, o := range f.Orders {
			if err := store.CreateOrder(ctx, tx, o); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	opts := []shop.ServiceOption{shop.WithClock(f.Clock())}
	if f.IDGenerator != nil {
		opts = append(opts, shop.WithIDGenerator(f.IDGenerator))
	}
	return shop.NewService(store, opts...), closeFn
}

func TestUserService(t *testing.T) {
	for _, b := range backends {
		b := b
		t.Run(b.name, func(t *testing.T) {
			storefronttesting.UserService(func(f storefronttesting.ShopFields, t *testing.T) (storefront.UserService, func()) {
				return initService(b, f, t)
			}, t)
		})
	}
}

func TestProductService(t *testing.T) {
	for _, b := range backends {
		b := b
		t.Run(b.name, func(t *testing.T) {
			storefronttesting.ProductService(func(f storefronttesting.ShopFields, t *testing.T) (storefront.ProductService, func()) {
				return initService(b, f, t)
			}, t)
		})
	}
}

func TestOrderService(t *testing.T) {
	for _, b := range backends {
		b := b
		t.Run(b.name, func(t *testing.T) {
			storefronttesting.OrderService(func(f storefronttesting.ShopFields, t *testing.T) (storefront.OrderService, func()) {
				return initService(b, f, t)
			}, t)
		})
	}
}
