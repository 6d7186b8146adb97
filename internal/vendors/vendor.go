// internal/vendors/vendor.go
package vendors

import (
	"context"
	"fmt"

	"github.com/johnhkchen/hack-stack/pkg/registry"
)

// Result is the outcome of a vendor call: either Data or Err is set.
type Result struct {
	Data map[string]interface{}
	Err  error
}

func Success(data map[string]interface{}) Result { return Result{Data: data} }

func Failure(err error) Result { return Result{Err: err} }

func (r Result) OK() bool { return r.Err == nil }

// Vendor processes one operation. Implementations report failure through
// Result rather than panicking.
type Vendor interface {
	Process(ctx context.Context, operation string, data map[string]interface{}) Result
}

// MockVendor answers from the vendor registry's canned responses.
type MockVendor struct {
	name     string
	registry *registry.VendorRegistry
}

func NewMockVendor(name string, reg *registry.VendorRegistry) *MockVendor {
	return &MockVendor{name: name, registry: reg}
}

func (m *MockVendor) Process(ctx context.Context, operation string, _ map[string]interface{}) Result {
	if err := ctx.Err(); err != nil {
		return Failure(err)
	}
	return Success(m.respond(operation))
}

func (m *MockVendor) respond(operation string) map[string]interface{} {
	if resp, ok := m.registry.Lookup(m.name, operation); ok {
		return resp
	}
	return map[string]interface{}{
		"message":   fmt.Sprintf("Mock response from %s", m.name),
		"operation": operation,
		"mock":      true,
	}
}
