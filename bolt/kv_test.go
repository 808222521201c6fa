package bolt_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/storefront/storefront"
	"github.com/storefront/storefront/bolt"
	"github.com/storefront/storefront/kit/prom/promtest"
	"github.com/storefront/storefront/kv"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestKVStore(t *testing.T) *bolt.KVStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nested", "storefront.bolt")
	s := bolt.NewKVStore(zaptest.NewLogger(t), path, bolt.WithNoSync)
	require.NoError(t, s.Open(context.Background()))
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestKVStore_Buckets(t *testing.T) {
	ctx := context.Background()
	s := newTestKVStore(t)

	err := s.View(ctx, func(tx kv.Tx) error {
		_, err := tx.Bucket([]byte("missing"))
		return err
	})
	require.ErrorIs(t, err, kv.ErrBucketNotFound)

	require.NoError(t, s.CreateBucket(ctx, []byte("things")))
	// creating twice is fine.
	require.NoError(t, s.CreateBucket(ctx, []byte("things")))

	err = s.Update(ctx, func(tx kv.Tx) error {
		b, err := tx.Bucket([]byte("things"))
		if err != nil {
			return err
		}
		for _, k := range []string{"c", "a", "b"} {
			if err := b.Put([]byte(k), []byte("v"+k)); err != nil {
				return err
			}
		}
		return b.Delete([]byte("never-there"))
	})
	require.NoError(t, err)

	err = s.View(ctx, func(tx kv.Tx) error {
		b, err := tx.Bucket([]byte("things"))
		if err != nil {
			return err
		}

		v, err := b.Get([]byte("a"))
		require.NoError(t, err)
		require.Equal(t, []byte("va"), v)

		_, err = b.Get([]byte("z"))
		require.ErrorIs(t, err, kv.ErrKeyNotFound)

		require.ErrorIs(t, b.Put([]byte("d"), []byte("vd")), kv.ErrTxNotWritable)

		var keys []string
		require.NoError(t, kv.WalkFirst(b, func(k, _ []byte) bool {
			keys = append(keys, string(k))
			return len(keys) < 2
		}))
		require.Equal(t, []string{"a", "b"}, keys)
		return nil
	})
	require.NoError(t, err)
}

func TestKVStore_Metrics(t *testing.T) {
	ctx := context.Background()
	s := newTestKVStore(t)

	require.NoError(t, s.CreateBucket(ctx, []byte(storefront.UsersTable)))
	require.NoError(t, s.Update(ctx, func(tx kv.Tx) error {
		b, err := tx.Bucket([]byte(storefront.UsersTable))
		if err != nil {
			return err
		}
		if err := b.Put([]byte("a"), []byte("{}")); err != nil {
			return err
		}
		return b.Put([]byte("b"), []byte("{}"))
	}))

	reg := prometheus.NewRegistry()
	reg.MustRegister(s)
	mfs := promtest.MustGather(t, reg)

	users := promtest.MustFindMetric(t, mfs, "storefront_users_total", nil)
	require.Equal(t, float64(2), users.GetGauge().GetValue())

	// the products bucket was never created.
	products := promtest.MustFindMetric(t, mfs, "storefront_products_total", nil)
	require.Equal(t, float64(0), products.GetGauge().GetValue())

	writes := promtest.MustFindMetric(t, mfs, "boltdb_writes_total", nil)
	require.Greater(t, writes.GetCounter().GetValue(), float64(0))
	promtest.MustFindMetric(t, mfs, "boltdb_reads_total", nil)
}

func TestKVStore_CursorSeek(t *testing.T) {
	ctx := context.Background()
	s := newTestKVStore(t)

	require.NoError(t, s.CreateBucket(ctx, []byte("things")))
	require.NoError(t, s.Update(ctx, func(tx kv.Tx) error {
		b, err := tx.Bucket([]byte("things"))
		if err != nil {
			return err
		}
		for _, k := range []string{"order/1", "user/1", "user/2"} {
			if err := b.Put([]byte(k), []byte("v")); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, s.View(ctx, func(tx kv.Tx) error {
		b, err := tx.Bucket([]byte("things"))
		require.NoError(t, err)
		c, err := b.Cursor()
		require.NoError(t, err)

		k, _ := c.Seek([]byte("user/"))
		require.Equal(t, "user/1", string(k))
		k, _ = c.Next()
		require.Equal(t, "user/2", string(k))
		k, v := c.Next()
		require.Nil(t, k)
		require.Nil(t, v)

		k, _ = c.Seek([]byte("product/"))
		require.Nil(t, k)

		k, _ = c.Last()
		require.Equal(t, "user/2", string(k))
		k, _ = c.Prev()
		require.Equal(t, "user/1", string(k))
		return nil
	}))
}

func TestKVStore_Close(t *testing.T) {
	s := bolt.NewKVStore(zaptest.NewLogger(t), filepath.Join(t.TempDir(), "storefront.bolt"))
	require.NoError(t, s.Close())

	require.NoError(t, s.Open(context.Background()))
	require.FileExists(t, s.Path())
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}
