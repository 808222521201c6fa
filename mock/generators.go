package mock

import (
	"fmt"
	"sync"

	"github.com/storefront/storefront"
)

var _ storefront.IDGenerator = IDGenerator{}

// IDGenerator is mock implementation of storefront.IDGenerator.
type IDGenerator struct {
	IDFn func() string
}

// ID generates a new id from a mock function.
func (g IDGenerator) ID() string {
	return g.IDFn()
}

// NewIDGenerator is a simple way to create immutable id generator
func NewIDGenerator(s string) IDGenerator {
	return IDGenerator{
		IDFn: func() string {
			return s
		},
	}
}

// NewSequentialIDGenerator hands out valid UUIDs whose last block counts up
// from 1, so records created in order also sort in order.
func NewSequentialIDGenerator() IDGenerator {
	var (
		mu sync.Mutex
		n  uint64
	)
	return IDGenerator{
		IDFn: func() string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("00000000-0000-4000-8000-%012x", n)
		},
	}
}
