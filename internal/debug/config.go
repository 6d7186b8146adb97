// internal/debug/config.go
package debug

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultSearchPaths are tried in order when no explicit path is configured.
var DefaultSearchPaths = []string{
	"./configs/debug.yaml",
	"../../configs/debug.yaml",
	"/app/config/debug.yaml",
	"/config/debug.yaml",
}

type ProjectInfo struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Version     string `yaml:"version" json:"version"`
}

type HealthCheckConfig struct {
	Endpoint       string  `yaml:"endpoint"`
	ExpectedStatus int     `yaml:"expected_status"`
	Timeout        float64 `yaml:"timeout"` // seconds
}

type ServiceConfig struct {
	Name        string            `yaml:"name"`
	Type        string            `yaml:"type"`
	URL         string            `yaml:"url"`
	SelfService bool              `yaml:"self_service"`
	HealthCheck HealthCheckConfig `yaml:"health_check"`
	Features    []interface{}     `yaml:"features"`
}

type VendorConfig struct {
	Name     string        `yaml:"name"`
	Type     string        `yaml:"type"`
	EnvVar   string        `yaml:"env_var"`
	Enabled  bool          `yaml:"enabled"`
	Features []interface{} `yaml:"features"`
}

type ReadinessConfig struct {
	Criteria []Criterion `yaml:"criteria"`
}

type EndpointConfig struct {
	Path        string      `yaml:"path"`
	DisplayPath string      `yaml:"display_path"`
	Method      string      `yaml:"method"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Priority    Priority    `yaml:"priority"`
	RequestBody interface{} `yaml:"request_body"`
}

type SectionConfig struct {
	Key         string           `yaml:"-"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Expanded    bool             `yaml:"expanded"`
	Endpoints   []EndpointConfig `yaml:"endpoints"`
}

// SectionList keeps sections in the order they are declared in YAML.
type SectionList []SectionConfig

// UnmarshalYAML accepts a mapping keyed by section key.
func (l *SectionList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("endpoints.sections: expected a mapping, got line %d", node.Line)
	}
	out := make(SectionList, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var sec SectionConfig
		if err := node.Content[i+1].Decode(&sec); err != nil {
			return fmt.Errorf("endpoints.sections.%s: %w", node.Content[i].Value, err)
		}
		sec.Key = node.Content[i].Value
		out = append(out, sec)
	}
	*l = out
	return nil
}

type EndpointsConfig struct {
	PrimarySection string      `yaml:"primary_section"`
	StrictMethods  bool        `yaml:"strict_methods"`
	Sections       SectionList `yaml:"sections"`
}

type Config struct {
	Project       ProjectInfo              `yaml:"project"`
	Services      map[string]ServiceConfig `yaml:"services"`
	Vendors       map[string]VendorConfig  `yaml:"vendors"`
	DemoReadiness ReadinessConfig          `yaml:"demo_readiness"`
	Endpoints     EndpointsConfig          `yaml:"endpoints"`
}

// DefaultConfig is used when no debug.yaml can be found.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectInfo{
			Name:        "Hack Stack Demo",
			Description: "Modern hackathon demo stack",
			Version:     "1.0.0",
		},
		Services: map[string]ServiceConfig{},
		Vendors:  map[string]VendorConfig{},
	}
}

// ParseConfig decodes debug.yaml content.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse debug config: %w", err)
	}
	if cfg.Services == nil {
		cfg.Services = map[string]ServiceConfig{}
	}
	if cfg.Vendors == nil {
		cfg.Vendors = map[string]VendorConfig{}
	}
	return cfg, nil
}

// LoadConfig reads path, or the first existing DefaultSearchPaths entry when
// path is empty. It returns the path used, or "" with DefaultConfig when
// nothing was found. An explicit path that does not exist is an error.
func LoadConfig(path string) (*Config, string, error) {
	candidates := DefaultSearchPaths
	if path != "" {
		candidates = []string{path}
	}

	for _, p := range candidates {
		data, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) && path == "" {
				continue
			}
			return nil, "", fmt.Errorf("read debug config %s: %w", p, err)
		}
		cfg, err := ParseConfig(data)
		if err != nil {
			return nil, "", err
		}
		abs, _ := filepath.Abs(p)
		return cfg, abs, nil
	}
	return DefaultConfig(), "", nil
}
