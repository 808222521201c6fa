package kv

import (
	"bytes"
	"sort"
)

// Pair is a single key and its value.
type Pair struct {
	Key   []byte
	Value []byte
}

// staticCursor walks a fixed, key-ordered slice of pairs. idx is -1 before
// the first positioning call.
type staticCursor struct {
	idx   int
	pairs []Pair
}

// NewStaticCursor returns a Cursor over pairs. The slice is sorted by key
// in place.
func NewStaticCursor(pairs []Pair) Cursor {
	sort.SliceStable(pairs, func(i, j int) bool {
		return bytes.Compare(pairs[i].Key, pairs[j].Key) < 0
	})
	return &staticCursor{idx: -1, pairs: pairs}
}

func (c *staticCursor) at(idx int) ([]byte, []byte) {
	if idx < 0 || idx >= len(c.pairs) {
		return nil, nil
	}
	c.idx = idx
	return c.pairs[idx].Key, c.pairs[idx].Value
}

// Seek moves to the first key that carries prefix.
func (c *staticCursor) Seek(prefix []byte) ([]byte, []byte) {
	i := sort.Search(len(c.pairs), func(i int) bool {
		return bytes.Compare(c.pairs[i].Key, prefix) >= 0
	})
	if i == len(c.pairs) || !bytes.HasPrefix(c.pairs[i].Key, prefix) {
		return nil, nil
	}
	return c.at(i)
}

// First moves to the smallest key.
func (c *staticCursor) First() ([]byte, []byte) {
	return c.at(0)
}

// Last moves to the largest key.
func (c *staticCursor) Last() ([]byte, []byte) {
	return c.at(len(c.pairs) - 1)
}

// Next moves one key forward.
func (c *staticCursor) Next() ([]byte, []byte) {
	return c.at(c.idx + 1)
}

// Prev moves one key back.
func (c *staticCursor) Prev() ([]byte, []byte) {
	if c.idx < 0 {
		return nil, nil
	}
	return c.at(c.idx - 1)
}
