package bolt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/storefront/storefront/kit/tracing"
	"github.com/storefront/storefront/kv"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var _ kv.SchemaStore = (*KVStore)(nil)

// openTimeout bounds how long Open waits for the file lock held by another
// process.
const openTimeout = time.Second

// KVStore is a kv.SchemaStore kept in a single boltdb file.
type KVStore struct {
	path   string
	db     *bolt.DB
	log    *zap.Logger
	noSync bool
}

// KVOption configures a KVStore.
type KVOption func(*KVStore)

// WithNoSync skips the fsync after each commit. Only tests should use it:
// a crash can lose committed writes.
func WithNoSync(s *KVStore) {
	s.noSync = true
}

// NewKVStore returns a KVStore for the file at path. Call Open before use.
func NewKVStore(log *zap.Logger, path string, opts ...KVOption) *KVStore {
	s := &KVStore{path: path, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the location of the boltdb file.
func (s *KVStore) Path() string {
	return s.path
}

// Open opens the boltdb file, creating it and its parent directories when
// missing.
func (s *KVStore) Open(ctx context.Context) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "KVStore.Open")
	defer span.Finish()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return tracing.LogError(span, fmt.Errorf("unable to create directory for %s: %w", s.path, err))
	}

	db, err := bolt.Open(s.path, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return tracing.LogError(span, fmt.Errorf("unable to open boltdb file %s: %w", s.path, err))
	}
	db.NoSync = s.noSync
	s.db = db

	s.log.Info("Resources opened", zap.String("path", s.path))
	return nil
}

// Close closes the boltdb file. Closing an unopened store is a no-op.
func (s *KVStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// CreateBucket creates the named bucket unless it already exists.
func (s *KVStore) CreateBucket(ctx context.Context, name []byte) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "KVStore.CreateBucket")
	defer span.Finish()

	err := s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	})
	return tracing.LogError(span, err)
}

// View opens up a view transaction against the store.
func (s *KVStore) View(ctx context.Context, fn func(tx kv.Tx) error) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "KVStore.View")
	defer span.Finish()

	err := s.db.View(func(tx *bolt.Tx) error {
		return fn(&Tx{
			tx:  tx,
			ctx: ctx,
		})
	})
	return tracing.LogError(span, err)
}

// Update opens up an update transaction against the store.
func (s *KVStore) Update(ctx context.Context, fn func(tx kv.Tx) error) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "KVStore.Update")
	defer span.Finish()

	err := s.db.Update(func(tx *bolt.Tx) error {
		return fn(&Tx{
			tx:  tx,
			ctx: ctx,
		})
	})
	return tracing.LogError(span, err)
}

// Tx is a light wrapper around a boltdb transaction. It implements kv.Tx.
type Tx struct {
	tx  *bolt.Tx
	ctx context.Context
}

// Context returns the context for the transaction.
func (tx *Tx) Context() context.Context {
	return tx.ctx
}

// WithContext sets the context for the transaction.
func (tx *Tx) WithContext(ctx context.Context) {
	tx.ctx = ctx
}

// Bucket retrieves the bucket named b.
func (tx *Tx) Bucket(b []byte) (kv.Bucket, error) {
	bkt := tx.tx.Bucket(b)
	if bkt == nil {
		return nil, fmt.Errorf("bucket %q: %w", string(b), kv.ErrBucketNotFound)
	}
	return &Bucket{
		bucket: bkt,
	}, nil
}

// Bucket implements kv.Bucket.
type Bucket struct {
	bucket *bolt.Bucket
}

// Get retrieves the value at the provided key.
func (b *Bucket) Get(key []byte) ([]byte, error) {
	val := b.bucket.Get(key)
	if len(val) == 0 {
		return nil, kv.ErrKeyNotFound
	}

	// bolt values are only valid for the life of the transaction.
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

// Put sets the value at the provided key.
func (b *Bucket) Put(key []byte, value []byte) error {
	err := b.bucket.Put(key, value)
	if errors.Is(err, bolt.ErrTxNotWritable) {
		return kv.ErrTxNotWritable
	}
	return err
}

// Delete removes the provided key.
func (b *Bucket) Delete(key []byte) error {
	err := b.bucket.Delete(key)
	if errors.Is(err, bolt.ErrTxNotWritable) {
		return kv.ErrTxNotWritable
	}
	return err
}

// Cursor returns a cursor over the bucket. It is only valid for the life
// of the transaction.
func (b *Bucket) Cursor() (kv.Cursor, error) {
	return &Cursor{cursor: b.bucket.Cursor()}, nil
}

// Cursor adapts a bolt cursor to kv.Cursor. An exhausted cursor yields
// nil for both key and value.
type Cursor struct {
	cursor *bolt.Cursor
}

func orNil(k, v []byte) ([]byte, []byte) {
	if k == nil {
		return nil, nil
	}
	return k, v
}

// Seek moves to the first key carrying prefix.
func (c *Cursor) Seek(prefix []byte) ([]byte, []byte) {
	k, v := c.cursor.Seek(prefix)
	if !bytes.HasPrefix(k, prefix) {
		return nil, nil
	}
	return orNil(k, v)
}

// First moves to the smallest key.
func (c *Cursor) First() ([]byte, []byte) { return orNil(c.cursor.First()) }

// Last moves to the largest key.
func (c *Cursor) Last() ([]byte, []byte) { return orNil(c.cursor.Last()) }

// Next moves one key forward.
func (c *Cursor) Next() ([]byte, []byte) { return orNil(c.cursor.Next()) }

// Prev moves one key back.
func (c *Cursor) Prev() ([]byte, []byte) { return orNil(c.cursor.Prev()) }
