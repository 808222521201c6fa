// Package inmem holds a kv.SchemaStore that lives entirely in memory.
// storefrontd serves from it with --store memory, and tests use it in place
// of boltdb.
package inmem

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/google/btree"
	"github.com/storefront/storefront/kv"
)

var _ kv.SchemaStore = (*KVStore)(nil)

// btreeDegree is the branching factor of every bucket's tree.
const btreeDegree = 8

type pair struct {
	key   []byte
	value []byte
}

func lessPair(a, b pair) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// KVStore keeps one btree per bucket. View transactions share a read lock,
// Update transactions hold the write lock for their whole duration.
type KVStore struct {
	mu      sync.RWMutex
	buckets map[string]*btree.BTreeG[pair]
}

// NewKVStore returns an empty store with no buckets.
func NewKVStore() *KVStore {
	return &KVStore{
		buckets: make(map[string]*btree.BTreeG[pair]),
	}
}

// View runs fn in a read-only transaction.
func (s *KVStore) View(ctx context.Context, fn func(kv.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(&Tx{store: s, ctx: ctx})
}

// Update runs fn in a writable transaction. Writes are applied as they are
// made; a failing fn does not roll them back.
func (s *KVStore) Update(ctx context.Context, fn func(kv.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(&Tx{store: s, ctx: ctx, writable: true})
}

// CreateBucket creates the named bucket unless it already exists.
func (s *KVStore) CreateBucket(ctx context.Context, name []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buckets[string(name)]; !ok {
		s.buckets[string(name)] = btree.NewG(btreeDegree, lessPair)
	}
	return nil
}

// Tx is a transaction against a KVStore.
type Tx struct {
	store    *KVStore
	ctx      context.Context
	writable bool
}

// Context returns the context for the transaction.
func (t *Tx) Context() context.Context {
	return t.ctx
}

// WithContext sets the context for the transaction.
func (t *Tx) WithContext(ctx context.Context) {
	t.ctx = ctx
}

// Bucket returns the named bucket, or kv.ErrBucketNotFound.
func (t *Tx) Bucket(name []byte) (kv.Bucket, error) {
	tree, ok := t.store.buckets[string(name)]
	if !ok {
		return nil, fmt.Errorf("bucket %q: %w", string(name), kv.ErrBucketNotFound)
	}
	return &Bucket{tree: tree, writable: t.writable}, nil
}

// Bucket is a view of one btree inside a transaction.
type Bucket struct {
	tree     *btree.BTreeG[pair]
	writable bool
}

// Get returns the value stored at key, or kv.ErrKeyNotFound.
func (b *Bucket) Get(key []byte) ([]byte, error) {
	p, ok := b.tree.Get(pair{key: key})
	if !ok {
		return nil, kv.ErrKeyNotFound
	}
	return p.value, nil
}

// Put stores a copy of key and value.
func (b *Bucket) Put(key, value []byte) error {
	if !b.writable {
		return kv.ErrTxNotWritable
	}

	b.tree.ReplaceOrInsert(pair{
		key:   append([]byte(nil), key...),
		value: append([]byte(nil), value...),
	})
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (b *Bucket) Delete(key []byte) error {
	if !b.writable {
		return kv.ErrTxNotWritable
	}

	b.tree.Delete(pair{key: key})
	return nil
}

// Cursor returns a cursor over a snapshot of the bucket taken now.
func (b *Bucket) Cursor() (kv.Cursor, error) {
	pairs := make([]kv.Pair, 0, b.tree.Len())
	b.tree.Ascend(func(p pair) bool {
		pairs = append(pairs, kv.Pair{Key: p.key, Value: p.value})
		return true
	})
	return kv.NewStaticCursor(pairs), nil
}
