// internal/debug/discovery.go
package debug

// OriginDiscovered marks descriptors read from the live route table.
const OriginDiscovered = "discovered"

// RouteDescriptor is one live route. Methods is sorted and non-empty.
type RouteDescriptor struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Origin      string   `json:"origin"`
}

func (r RouteDescriptor) hasMethod(method string) bool {
	for _, m := range r.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// RouteSource lists the routes currently served, in registration order.
type RouteSource interface {
	ListRoutes() []RouteDescriptor
}

// StaticRoutes is a fixed RouteSource.
type StaticRoutes []RouteDescriptor

func (s StaticRoutes) ListRoutes() []RouteDescriptor {
	out := make([]RouteDescriptor, len(s))
	copy(out, s)
	return out
}
