package vendors

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/johnhkchen/hack-stack/internal/common/errors"
	"github.com/johnhkchen/hack-stack/internal/common/logger"
	"github.com/johnhkchen/hack-stack/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

type failingVendor struct{ err error }

func (f failingVendor) Process(context.Context, string, map[string]interface{}) Result {
	return Failure(f.err)
}

func fixedClock() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }

func envFrom(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func newTestService(t *testing.T, opts ...Option) *Service {
	env := DetectEnvironment(registry.Default(), "", false, envFrom(nil), nil)
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	return NewService(registry.Default(), env, nil, logger.NewTestLogger(t), opts...)
}

// ==========================
// Credential detection
// ==========================

func TestDetectEnvironment(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("OPENAI_API_KEY=sk-file\nANTHROPIC_API_KEY=\n"), 0o600))

	env := DetectEnvironment(registry.Default(), envFile, false, envFrom(map[string]string{
		"OPENAI_API_KEY":    "sk-file",
		"ANTHROPIC_API_KEY": "sk-host",
	}), logger.NewTestLogger(t))

	assert.Equal(t, ModeMock, env.Mode)
	assert.Equal(t, []string{"openai", "anthropic"}, env.AvailableVendors)

	tests := []struct {
		vendor   string
		source   CredentialSource
		secure   bool
		hasKey   bool
		warnings bool
	}{
		{"openai", SourceEnvFile, true, true, false},
		{"anthropic", SourceHostEnv, false, true, true},
		{"weaviate", SourceNone, true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.vendor, func(t *testing.T) {
			c := env.Credentials[tt.vendor]
			assert.Equal(t, tt.source, c.Source)
			assert.Equal(t, tt.secure, c.IsSecure)
			assert.Equal(t, tt.hasKey, c.HasKey)
			if tt.warnings {
				assert.Equal(t, "Using host environment key - insecure! Use .env file instead", c.Warning)
			} else {
				assert.Empty(t, c.Warning)
			}
		})
	}
}

func TestDetectEnvironment_MissingEnvFileMeansHostEnv(t *testing.T) {
	env := DetectEnvironment(registry.Default(), filepath.Join(t.TempDir(), "nope.env"), false,
		envFrom(map[string]string{"WEAVIATE_API_KEY": "wv"}), nil)

	assert.Equal(t, SourceHostEnv, env.Credentials["weaviate"].Source)
	assert.Equal(t, []string{"weaviate"}, env.AvailableVendors)
}

func TestDetectEnvironment_ForceMock(t *testing.T) {
	env := DetectEnvironment(registry.Default(), "", true, envFrom(map[string]string{"OPENAI_API_KEY": "sk"}), nil)

	assert.True(t, env.ForceMock)
	assert.Empty(t, env.AvailableVendors)
	assert.Empty(t, env.Credentials)
}

// ==========================
// Vendor service
// ==========================

func TestService_ProcessKnownOperation(t *testing.T) {
	svc := newTestService(t)

	out, err := svc.Process(context.Background(), "anthropic", "extract_structure", nil)
	require.NoError(t, err)

	assert.Equal(t, "compelling", out["narrative_quality"])
	meta := out["_meta"].(map[string]interface{})
	assert.Equal(t, "anthropic", meta["vendor"])
	assert.Equal(t, "extract_structure", meta["operation"])
	assert.Equal(t, "mock", meta["mode"])
	assert.Equal(t, "2024-03-01T09:30:00Z", meta["timestamp"])
	assert.NotContains(t, meta, "error")
}

func TestService_ProcessUnknownOperation(t *testing.T) {
	svc := newTestService(t)

	out, err := svc.Process(context.Background(), "weaviate", "summarize", map[string]interface{}{"q": 1})
	require.NoError(t, err)

	assert.Equal(t, "Mock response from weaviate", out["message"])
	assert.Equal(t, "summarize", out["operation"])
	assert.Equal(t, true, out["mock"])
}

func TestService_ProcessUnknownVendor(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Process(context.Background(), "cohere", "analyze", nil)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnknownVendor))
	assert.Equal(t, "Unknown vendor: cohere", apperrors.AsStandard(err).Message)
}

func TestService_FailureFallsBack(t *testing.T) {
	svc := newTestService(t, WithVendor("openai", failingVendor{err: errors.New("rate limited")}))

	out, err := svc.Process(context.Background(), "openai", "analyze", nil)
	require.NoError(t, err)

	assert.Equal(t, "positive", out["sentiment"])
	meta := out["_meta"].(map[string]interface{})
	assert.Equal(t, "mock_fallback", meta["mode"])
	assert.Equal(t, "rate limited", meta["error"])
}

func TestService_CancelledContextFallsBack(t *testing.T) {
	svc := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := svc.Process(ctx, "openai", "analyze", nil)
	require.NoError(t, err)
	assert.Equal(t, "mock_fallback", out["_meta"].(map[string]interface{})["mode"])
}

func TestService_AvailableVendorsIsCopy(t *testing.T) {
	env := DetectEnvironment(registry.Default(), "", false, envFrom(map[string]string{"OPENAI_API_KEY": "k"}), nil)
	svc := NewService(registry.Default(), env, nil, logger.NewNoOpLogger())

	got := svc.AvailableVendors()
	got[0] = "mutated"
	assert.Equal(t, []string{"openai"}, svc.AvailableVendors())
	assert.Equal(t, "mock", svc.Mode())
}
