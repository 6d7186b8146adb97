package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	reg := Default()
	require.NoError(t, reg.Validate())
	assert.Equal(t, []string{"openai", "anthropic", "weaviate"}, reg.VendorIDs())
}

func TestLookup_ReturnsCopy(t *testing.T) {
	reg := Default()

	resp, ok := reg.Lookup("openai", "analyze")
	require.True(t, ok)
	assert.Equal(t, "positive", resp["sentiment"])

	resp["_meta"] = "mutated"
	resp["key_themes"].([]interface{})[0] = "changed"

	again, _ := reg.Lookup("openai", "analyze")
	assert.NotContains(t, again, "_meta")
	assert.Equal(t, "innovation", again["key_themes"].([]interface{})[0])
}

func TestLookup_Misses(t *testing.T) {
	reg := Default()

	_, ok := reg.Lookup("openai", "summarize")
	assert.False(t, ok)

	_, ok = reg.Lookup("cohere", "analyze")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		reg     VendorRegistry
		wantErr string
	}{
		{"empty", VendorRegistry{}, "no vendors"},
		{"missing id", VendorRegistry{Vendors: []Vendor{{EnvVar: "X"}}}, "missing required field: ID"},
		{"duplicate id", VendorRegistry{Vendors: []Vendor{{ID: "a", EnvVar: "A"}, {ID: "a", EnvVar: "A"}}}, "duplicate vendor ID"},
		{"missing env var", VendorRegistry{Vendors: []Vendor{{ID: "a"}}}, "EnvVar"},
		{"duplicate op", VendorRegistry{Vendors: []Vendor{{ID: "a", EnvVar: "A", Operations: []Operation{{Name: "x"}, {Name: "x"}}}}}, "duplicate operation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "vendor-registry.json")

	require.NoError(t, Default().Save(path))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.NotEmpty(t, reg.LastUpdated)
	assert.Len(t, reg.Vendors, 3)

	resp, ok := reg.Lookup("weaviate", "similarity_search")
	require.True(t, ok)
	assert.Equal(t, float64(8), resp["total_results"])
}

func TestLoadOrDefault(t *testing.T) {
	reg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Len(t, reg.Vendors, 3)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = LoadOrDefault(bad)
	assert.Error(t, err)
}

func TestShippedRegistryMatchesDefault(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "configs", "vendor-registry.json"))
	require.NoError(t, err)
	require.NoError(t, reg.Validate())
	assert.Equal(t, Default().VendorIDs(), reg.VendorIDs())

	for _, v := range Default().Vendors {
		for _, op := range v.Operations {
			_, ok := reg.Lookup(v.ID, op.Name)
			assert.True(t, ok, "%s/%s missing from shipped registry", v.ID, op.Name)
		}
	}
}
