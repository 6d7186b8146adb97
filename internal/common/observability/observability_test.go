package observability

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/johnhkchen/hack-stack/internal/common/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestObservability_SpansAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	recorder := tracetest.NewSpanRecorder()

	obs, err := New("hack-stack-test", config.TracingConfig{}, reg, sdktrace.WithSpanProcessor(recorder))
	require.NoError(t, err)

	ctx, span := obs.StartSpan(context.Background(), "health.probe", attribute.String("service", "frontend"))
	obs.RecordRequest(ctx, http.MethodGet, "/api/debug", http.StatusOK, 12*time.Millisecond)
	obs.RecordVendorCall(ctx, "openai", "mock")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "health.probe", ended[0].Name())

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "http_server_requests_total")
	assert.Contains(t, names, "vendor_calls_total")

	require.NoError(t, obs.Shutdown(context.Background()))
}

func TestObservability_NilReceiver(t *testing.T) {
	var obs *Observability

	ctx, span := obs.StartSpan(context.Background(), "noop")
	assert.NotNil(t, ctx)
	assert.False(t, span.IsRecording())
	span.End()

	obs.RecordRequest(ctx, http.MethodGet, "/", 200, time.Millisecond)
	obs.RecordVendorCall(ctx, "openai", "mock")
	assert.NoError(t, obs.Shutdown(context.Background()))
}
