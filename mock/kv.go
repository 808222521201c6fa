package mock

import (
	"context"

	"github.com/storefront/storefront/kv"
)

var _ (kv.SchemaStore) = (*Store)(nil)

// Store is a mock kv.SchemaStore. A nil CreateBucketFn accepts every bucket.
type Store struct {
	CreateBucketFn func(ctx context.Context, bucket []byte) error
	ViewFn         func(ctx context.Context, fn func(kv.Tx) error) error
	UpdateFn       func(ctx context.Context, fn func(kv.Tx) error) error
}

// NewStoreWithTx returns a Store whose View and Update run fn against tx.
func NewStoreWithTx(tx kv.Tx) *Store {
	run := func(_ context.Context, fn func(kv.Tx) error) error {
		return fn(tx)
	}
	return &Store{ViewFn: run, UpdateFn: run}
}

// CreateBucket creates a bucket on the underlying store if it does not exist
func (s *Store) CreateBucket(ctx context.Context, bucket []byte) error {
	if s.CreateBucketFn == nil {
		return nil
	}
	return s.CreateBucketFn(ctx, bucket)
}

// View opens up a transaction that will not write to any data.
func (s *Store) View(ctx context.Context, fn func(kv.Tx) error) error {
	return s.ViewFn(ctx, fn)
}

// Update opens up a transaction that will mutate data.
func (s *Store) Update(ctx context.Context, fn func(kv.Tx) error) error {
	return s.UpdateFn(ctx, fn)
}

var _ (kv.Tx) = (*Tx)(nil)

// Tx is mock of a kv.Tx.
type Tx struct {
	BucketFn      func(b []byte) (kv.Bucket, error)
	ContextFn     func() context.Context
	WithContextFn func(ctx context.Context)
}

// NewTxWithBucket returns a Tx that hands out b for every bucket name.
func NewTxWithBucket(b kv.Bucket) *Tx {
	return &Tx{
		BucketFn: func([]byte) (kv.Bucket, error) {
			return b, nil
		},
		ContextFn:     context.Background,
		WithContextFn: func(context.Context) {},
	}
}

// Bucket possibly creates and returns bucket, b.
func (t *Tx) Bucket(b []byte) (kv.Bucket, error) {
	return t.BucketFn(b)
}

// Context returns the context associated with this Tx.
func (t *Tx) Context() context.Context {
	return t.ContextFn()
}

// WithContext associates a context with this Tx.
func (t *Tx) WithContext(ctx context.Context) {
	t.WithContextFn(ctx)
}

var _ (kv.Bucket) = (*Bucket)(nil)

// Bucket is a function-field kv.Bucket used to inject storage faults.
type Bucket struct {
	GetFn    func(key []byte) ([]byte, error)
	CursorFn func() (kv.Cursor, error)
	PutFn    func(key, value []byte) error
	DeleteFn func(key []byte) error
}

// NewFailingBucket returns a Bucket whose every operation fails with err.
func NewFailingBucket(err error) *Bucket {
	return &Bucket{
		GetFn:    func([]byte) ([]byte, error) { return nil, err },
		CursorFn: func() (kv.Cursor, error) { return nil, err },
		PutFn:    func(_, _ []byte) error { return err },
		DeleteFn: func([]byte) error { return err },
	}
}

// Get returns a key within this bucket. Errors if key does not exist.
func (b *Bucket) Get(key []byte) ([]byte, error) {
	return b.GetFn(key)
}

// Cursor returns a cursor at the beginning of this bucket.
func (b *Bucket) Cursor() (kv.Cursor, error) {
	return b.CursorFn()
}

// Put should error if the transaction it was called in is not writable.
func (b *Bucket) Put(key, value []byte) error {
	return b.PutFn(key, value)
}

// Delete should error if the transaction it was called in is not writable.
func (b *Bucket) Delete(key []byte) error {
	return b.DeleteFn(key)
}
