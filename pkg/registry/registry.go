// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

func LoadRegistry(path string) (*VendorRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg VendorRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// LoadOrDefault falls back to the built-in registry when path is empty or
// missing. Parse errors are still returned.
func LoadOrDefault(path string) (*VendorRegistry, error) {
	if path == "" {
		return Default(), nil
	}
	reg, err := LoadRegistry(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	return reg, err
}

// Save writes the registry as indented JSON, creating the directory.
func (r *VendorRegistry) Save(path string) error {
	r.LastUpdated = time.Now().Format(time.RFC3339)
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func (r *VendorRegistry) Vendor(id string) (*Vendor, bool) {
	for i := range r.Vendors {
		if r.Vendors[i].ID == id {
			return &r.Vendors[i], true
		}
	}
	return nil, false
}

// VendorIDs returns vendor ids in registry order.
func (r *VendorRegistry) VendorIDs() []string {
	ids := make([]string, len(r.Vendors))
	for i, v := range r.Vendors {
		ids[i] = v.ID
	}
	return ids
}

// Lookup returns a deep copy of the canned response so callers may add keys.
func (r *VendorRegistry) Lookup(vendor, operation string) (map[string]interface{}, bool) {
	v, ok := r.Vendor(vendor)
	if !ok {
		return nil, false
	}
	for _, op := range v.Operations {
		if op.Name == operation {
			return copyMap(op.Response), true
		}
	}
	return nil, false
}

// Validate checks required fields and uniqueness of ids and operation names.
func (r *VendorRegistry) Validate() error {
	if len(r.Vendors) == 0 {
		return fmt.Errorf("registry contains no vendors")
	}
	ids := make(map[string]bool)
	for _, v := range r.Vendors {
		if v.ID == "" {
			return fmt.Errorf("vendor missing required field: ID")
		}
		if ids[v.ID] {
			return fmt.Errorf("duplicate vendor ID: %s", v.ID)
		}
		ids[v.ID] = true

		if v.EnvVar == "" {
			return fmt.Errorf("vendor %s missing required field: EnvVar", v.ID)
		}
		ops := make(map[string]bool)
		for _, op := range v.Operations {
			if op.Name == "" {
				return fmt.Errorf("vendor %s has an operation without a name", v.ID)
			}
			if ops[op.Name] {
				return fmt.Errorf("vendor %s: duplicate operation %s", v.ID, op.Name)
			}
			ops[op.Name] = true
		}
	}
	return nil
}

func copyMap(in map[string]interface{}) map[string]interface{} {
	if in == nil {
		return map[string]interface{}{}
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return copyMap(t)
	case []interface{}:
		s := make([]interface{}, len(t))
		for i := range t {
			s[i] = copyValue(t[i])
		}
		return s
	default:
		return v
	}
}

// Default is the built-in registry used when no registry file is present.
func Default() *VendorRegistry {
	return &VendorRegistry{
		Version: "1.0.0",
		Vendors: []Vendor{
			{
				ID:          "openai",
				DisplayName: "OpenAI",
				Type:        "llm",
				EnvVar:      "OPENAI_API_KEY",
				Operations: []Operation{{
					Name:        "analyze",
					Description: "Narrative analysis of a business story",
					Response: map[string]interface{}{
						"analysis":    "This business represents the evolution of local culture, combining traditional craftsmanship with modern innovation.",
						"sentiment":   "positive",
						"key_themes":  []interface{}{"innovation", "community", "tradition"},
						"confidence":  0.92,
						"suggestions": []interface{}{"expand online presence", "host community events"},
					},
				}},
			},
			{
				ID:          "anthropic",
				DisplayName: "Anthropic",
				Type:        "llm",
				EnvVar:      "ANTHROPIC_API_KEY",
				Operations: []Operation{{
					Name:        "extract_structure",
					Description: "Structured extraction from free text",
					Response: map[string]interface{}{
						"structured_data": map[string]interface{}{
							"business_category":  "innovative_local",
							"community_impact":   "high",
							"target_demographic": "tech-savvy millennials",
							"growth_potential":   "high",
						},
						"narrative_quality": "compelling",
						"completeness":      0.88,
					},
				}},
			},
			{
				ID:          "weaviate",
				DisplayName: "Weaviate",
				Type:        "vector_db",
				EnvVar:      "WEAVIATE_API_KEY",
				Operations: []Operation{{
					Name:        "similarity_search",
					Description: "Nearest businesses by embedding",
					Response: map[string]interface{}{
						"similar_businesses": []interface{}{
							map[string]interface{}{"name": "Code & Coffee", "tagline": "Fuel for developers", "score": 0.89},
							map[string]interface{}{"name": "Analog Digital", "tagline": "Bridging old and new", "score": 0.76},
						},
						"total_results":  8,
						"search_time_ms": 45,
					},
				}},
			},
		},
	}
}
