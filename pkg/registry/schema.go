// pkg/registry/schema.go
package registry

type VendorRegistry struct {
	Version     string   `json:"version"`
	LastUpdated string   `json:"lastUpdated"`
	Vendors     []Vendor `json:"vendors"`
}

type Vendor struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"displayName"`
	Type        string      `json:"type"`
	EnvVar      string      `json:"envVar"`
	Operations  []Operation `json:"operations"`
	Tags        []string    `json:"tags"`
}

// Operation is a canned mock response for one vendor operation.
type Operation struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Response    map[string]interface{} `json:"response"`
}
