// Package shop serves users, products and orders from a key value store,
// and exposes any storefront service over HTTP.
package shop

import (
	"context"
	"encoding/json"

	"github.com/storefront/storefront"
	"github.com/storefront/storefront/kv"
)

var (
	userBucket    = []byte(storefront.UsersTable)
	productBucket = []byte(storefront.ProductsTable)
	orderBucket   = []byte(storefront.OrdersTable)
)

// Store reads and writes storefront records inside kv transactions. Every
// method takes the transaction it runs in so callers can compose them.
type Store struct {
	kvStore kv.Store
}

// NewStore creates the users, products and orders buckets if they are
// missing and returns a Store over kvStore.
func NewStore(ctx context.Context, kvStore kv.SchemaStore) (*Store, error) {
	for _, b := range [][]byte{userBucket, productBucket, orderBucket} {
		if err := kvStore.CreateBucket(ctx, b); err != nil {
			return nil, err
		}
	}

	return &Store{kvStore: kvStore}, nil
}

// View opens up a transaction that will not write to any data. Failures of
// the transaction itself are reported as internal errors.
func (s *Store) View(ctx context.Context, fn func(kv.Tx) error) error {
	return ErrInternalServiceError(s.kvStore.View(ctx, fn), "View")
}

// Update opens up a transaction that will mutate data. Failures of the
// transaction itself, such as a failed commit, are reported as internal errors.
func (s *Store) Update(ctx context.Context, fn func(kv.Tx) error) error {
	return ErrInternalServiceError(s.kvStore.Update(ctx, fn), "Update")
}

// project keeps only the named top-level attributes of the JSON object v.
func project(v []byte, attrs []string) ([]byte, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(v, &all); err != nil {
		return nil, err
	}

	kept := make(map[string]json.RawMessage, len(attrs))
	for _, a := range attrs {
		if raw, ok := all[a]; ok {
			kept[a] = raw
		}
	}
	return json.Marshal(kept)
}
