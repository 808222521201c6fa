// Package testing holds conformance suites every storefront service
// implementation is expected to pass.
package testing

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/storefront/storefront"
	"github.com/storefront/storefront/kit/platform/errors"
)

// ShopFields seeds a backend before a conformance case runs. Records are
// written as given, bypassing validation.
type ShopFields struct {
	IDGenerator storefront.IDGenerator
	Now         time.Time
	Users       []*storefront.User
	Products    []*storefront.Product
	Orders      []*storefront.Order
}

// Clock returns a mock clock stopped at f.Now.
func (f ShopFields) Clock() *clock.Mock {
	c := clock.NewMock()
	c.Set(f.Now)
	return c
}

var fixedNow = time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)

const (
	idOne   = "020f755c-3c08-4000-8000-000000000001"
	idTwo   = "020f755c-3c08-4000-8000-000000000002"
	idThree = "020f755c-3c08-4000-8000-000000000003"
	idNone  = "020f755c-3c08-4000-8000-0000000000ff"
)

func diffPlatformErrors(name string, actual, expected error, t *testing.T) {
	t.Helper()

	if expected == nil && actual == nil {
		return
	}

	if expected == nil && actual != nil {
		t.Fatalf("%s failed, unexpected error %s", name, actual.Error())
	}

	if expected != nil && actual == nil {
		t.Fatalf("%s failed, expected error %s but received nil", name, expected.Error())
	}

	if errors.ErrorCode(expected) != errors.ErrorCode(actual) {
		t.Fatalf("%s failed, expected error code %q but received %q", name, errors.ErrorCode(expected), errors.ErrorCode(actual))
	}

	if errors.ErrorMessage(expected) != errors.ErrorMessage(actual) {
		t.Fatalf("%s failed, expected error message %q but received %q", name, errors.ErrorMessage(expected), errors.ErrorMessage(actual))
	}
}

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }
