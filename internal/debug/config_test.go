package debug

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDebugYAML = `
project:
  name: "Legacy Registry Demo"
  version: "2.0.0"
services:
  backend:
    name: "Backend API"
    type: "api"
    url: "http://localhost:8000"
    self_service: true
  frontend:
    name: "Frontend"
    type: "web"
    url: "http://frontend:3000"
    health_check:
      endpoint: "/"
      expected_status: 200
      timeout: 2.5
vendors:
  openai:
    name: "OpenAI"
    env_var: "OPENAI_API_KEY"
    enabled: true
demo_readiness:
  criteria:
    - check: services_healthy
      name: "Services healthy"
      weight: 30
    - check: vendor_available
      name: "Vendors"
endpoints:
  primary_section: vendors
  strict_methods: true
  sections:
    vendors:
      name: "Vendors"
      expanded: true
      endpoints:
        - path: /api/vendor/openai
          display_path: /api/vendor/{vendor_name}
          method: POST
          priority: high
          request_body:
            operation: analyze
            data:
              content: "hello"
    core:
      name: "Core"
      endpoints:
        - path: /api/health
    analytics:
      name: "Analytics"
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleDebugYAML))
	require.NoError(t, err)

	assert.Equal(t, "Legacy Registry Demo", cfg.Project.Name)
	assert.True(t, cfg.Services["backend"].SelfService)
	assert.Equal(t, 2.5, cfg.Services["frontend"].HealthCheck.Timeout)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Vendors["openai"].EnvVar)

	require.Len(t, cfg.DemoReadiness.Criteria, 2)
	require.NotNil(t, cfg.DemoReadiness.Criteria[0].Weight)
	assert.Equal(t, 30, *cfg.DemoReadiness.Criteria[0].Weight)
	assert.Nil(t, cfg.DemoReadiness.Criteria[1].Weight)

	assert.Equal(t, "vendors", cfg.Endpoints.PrimarySection)
	assert.True(t, cfg.Endpoints.StrictMethods)
}

func TestParseConfig_SectionsKeepDeclarationOrder(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleDebugYAML))
	require.NoError(t, err)

	keys := make([]string, 0, len(cfg.Endpoints.Sections))
	for _, s := range cfg.Endpoints.Sections {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{"vendors", "core", "analytics"}, keys)

	ep := cfg.Endpoints.Sections[0].Endpoints[0]
	assert.Equal(t, "/api/vendor/{vendor_name}", ep.DisplayPath)
	assert.Equal(t, PriorityHigh, ep.Priority)
	body, ok := ep.RequestBody.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "analyze", body["operation"])
	assert.Empty(t, cfg.Endpoints.Sections[2].Endpoints)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"sections not a mapping", "endpoints:\n  sections:\n    - core\n"},
		{"bad section body", "endpoints:\n  sections:\n    core: [1, 2]\n"},
		{"broken yaml", "project: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseConfig_Empty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "Hack Stack Demo", cfg.Project.Name)
	assert.NotNil(t, cfg.Services)
	assert.NotNil(t, cfg.Vendors)
	assert.Empty(t, cfg.Endpoints.Sections)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "debug.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDebugYAML), 0o600))

	t.Run("explicit path", func(t *testing.T) {
		cfg, used, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, path, used)
		assert.Equal(t, "Legacy Registry Demo", cfg.Project.Name)
	})

	t.Run("explicit missing path", func(t *testing.T) {
		_, _, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("search paths", func(t *testing.T) {
		orig := DefaultSearchPaths
		t.Cleanup(func() { DefaultSearchPaths = orig })

		DefaultSearchPaths = []string{filepath.Join(dir, "nope.yaml"), path}
		cfg, used, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, path, used)
		assert.Equal(t, "2.0.0", cfg.Project.Version)

		DefaultSearchPaths = []string{filepath.Join(dir, "nope.yaml")}
		cfg, used, err = LoadConfig("")
		require.NoError(t, err)
		assert.Empty(t, used)
		assert.Equal(t, "Hack Stack Demo", cfg.Project.Name)
	})
}

func TestShippedConfig(t *testing.T) {
	cfg, used, err := LoadConfig(filepath.Join("..", "..", "configs", "debug.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, used)

	assert.Equal(t, "core", cfg.Endpoints.PrimarySection)
	assert.False(t, cfg.Endpoints.StrictMethods)
	for _, sec := range cfg.Endpoints.Sections {
		assert.NotEqual(t, UntrackedSection, sec.Key)
		assert.NotEmpty(t, sec.Endpoints, sec.Key)
	}

	total := 0
	for _, c := range cfg.DemoReadiness.Criteria {
		require.NotNil(t, c.Weight)
		total += *c.Weight
	}
	assert.Equal(t, 100, total)
	assert.True(t, cfg.Services["backend"].SelfService)
}

func TestShippedConfig_VendorAliasesResolve(t *testing.T) {
	cfg, _, err := LoadConfig(filepath.Join("..", "..", "configs", "debug.yaml"))
	require.NoError(t, err)

	routes := StaticRoutes{{Path: "/api/vendor/{vendor_name}", Methods: []string{"POST"}, Origin: OriginDiscovered}}
	view := Reconcile(routes.ListRoutes(), cfg.Endpoints, ReconcileOptions{})

	sec, ok := view.Sections.Get("vendors")
	require.True(t, ok)
	require.NotEmpty(t, sec.Endpoints)
	for _, ep := range sec.Endpoints {
		if ep.DisplayPath == "/api/vendor/{vendor_name}" {
			assert.True(t, ep.AutoDiscovered, ep.Path)
		}
	}
}

func TestShippedConfig_RegistryAliasesResolve(t *testing.T) {
	cfg, _, err := LoadConfig(filepath.Join("..", "..", "configs", "debug.yaml"))
	require.NoError(t, err)

	routes := StaticRoutes{
		{Path: "/api/v2/businesses/{business_name}/similar", Methods: []string{"GET"}, Origin: OriginDiscovered},
		{Path: "/api/v2/search/quick", Methods: []string{"GET"}, Origin: OriginDiscovered},
		{Path: "/api/v2/rag/query", Methods: []string{"POST"}, Origin: OriginDiscovered},
		{Path: "/api/v2/rag/contexts/{business_name}", Methods: []string{"GET"}, Origin: OriginDiscovered},
	}
	view := Reconcile(routes.ListRoutes(), cfg.Endpoints, ReconcileOptions{})

	found := map[string]bool{}
	for _, key := range []string{"legacy", "rag"} {
		sec, ok := view.Sections.Get(key)
		require.True(t, ok, key)
		for _, ep := range sec.Endpoints {
			if ep.AutoDiscovered {
				found[ep.Name] = true
			}
		}
	}
	for _, name := range []string{"Similar Businesses", "Quick Search", "RAG Query", "RAG Contexts"} {
		assert.True(t, found[name], name)
	}
	_, untracked := view.Sections.Get(UntrackedSection)
	assert.False(t, untracked)
}
