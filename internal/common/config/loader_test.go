package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: hack-stack
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, ":8000", cfg.Server.Addr())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "legacy_businesses", cfg.Database.Elasticsearch.Index)
	assert.Equal(t, "configs/vendor-registry.json", cfg.Vendors.RegistryPath)
	assert.Len(t, cfg.Server.CORSOrigins, 3)
	assert.False(t, cfg.Debug.StrictMethods)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("HS_TEST_PG_HOST", "db.internal")
	path := writeConfig(t, `
database:
  postgres:
    enabled: true
    host: ${HS_TEST_PG_HOST}
    database: registry
    user: demo
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.Contains(t, cfg.Database.Postgres.GetDSN(), "host=db.internal port=5432")
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name: "postgres enabled without host",
			body: `
database:
  postgres:
    enabled: true
`,
			wantErr: "database.postgres.host is required",
		},
		{
			name: "redis enabled without address",
			body: `
database:
  redis:
    enabled: true
`,
			wantErr: "database.redis.address is required",
		},
		{
			name: "tracing enabled without endpoint",
			body: `
tracing:
  enabled: true
`,
			wantErr: "tracing.jaeger_endpoint is required",
		},
		{
			name: "ses without recipients",
			body: `
notifications:
  enabled: true
  ses:
    enabled: true
    from_email: demo@example.com
`,
			wantErr: "notifications.ses.from_email and notifications.ses.to are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_ForceMockFromEnv(t *testing.T) {
	t.Setenv("FORCE_MOCK", "1")
	cfg, err := LoadFromFile(writeConfig(t, "app:\n  name: x\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Vendors.ForceMock)
}

func TestElasticsearchConfig_GetURL(t *testing.T) {
	assert.Equal(t, "http://a:9200", ElasticsearchConfig{URL: "http://a:9200", Addresses: []string{"http://b:9200"}}.GetURL())
	assert.Equal(t, "http://b:9200", ElasticsearchConfig{Addresses: []string{"http://b:9200"}}.GetURL())
	assert.Empty(t, ElasticsearchConfig{}.GetURL())
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
