package debug

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	httpclient "github.com/johnhkchen/hack-stack/internal/common/http"
	"github.com/johnhkchen/hack-stack/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ==========================
// Test Helpers
// ==========================

type probeResult struct {
	code    int
	elapsed time.Duration
	err     error
}

// fakeProber answers by URL and records what it was asked.
type fakeProber struct {
	mu      sync.Mutex
	results map[string]probeResult
	calls   []string
}

func (f *fakeProber) Status(_ context.Context, url string) (int, time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	r, ok := f.results[url]
	if !ok {
		return 0, 0, errors.New("connection refused")
	}
	return r.code, r.elapsed, r.err
}

func newHTTPChecker(t *testing.T) *HealthChecker {
	client := httpclient.NewClient(5 * time.Second)
	t.Cleanup(client.CloseIdleConnections)
	return NewHealthChecker(client, 0, nil, logger.NewTestLogger(t))
}

// ==========================
// Probes against real servers
// ==========================

func TestCheckService_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
		case "/created":
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	checker := newHTTPChecker(t)

	tests := []struct {
		name   string
		cfg    ServiceConfig
		status HealthStatus
		err    string
	}{
		{
			name:   "healthy",
			cfg:    ServiceConfig{URL: srv.URL + "/", HealthCheck: HealthCheckConfig{Endpoint: "/health"}},
			status: StatusHealthy,
		},
		{
			name:   "server error",
			cfg:    ServiceConfig{URL: srv.URL, HealthCheck: HealthCheckConfig{Endpoint: "/broken"}},
			status: StatusUnhealthy,
			err:    "HTTP 500",
		},
		{
			name:   "custom expected status",
			cfg:    ServiceConfig{URL: srv.URL, HealthCheck: HealthCheckConfig{Endpoint: "/created", ExpectedStatus: 201}},
			status: StatusHealthy,
		},
		{
			name:   "default endpoint",
			cfg:    ServiceConfig{URL: srv.URL},
			status: StatusUnhealthy,
			err:    "HTTP 404",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.CheckService(context.Background(), "svc", tt.cfg)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, "svc", got.Name)
			require.NotNil(t, got.ResponseTime)
			if tt.err == "" {
				assert.Nil(t, got.Error)
			} else {
				require.NotNil(t, got.Error)
				assert.Equal(t, tt.err, *got.Error)
			}
		})
	}
}

func TestCheckService_SlowServerTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	got := newHTTPChecker(t).CheckService(context.Background(), "slow", ServiceConfig{
		Name:        "Slow API",
		Type:        "api",
		URL:         srv.URL,
		HealthCheck: HealthCheckConfig{Timeout: 0.05},
	})

	assert.Equal(t, StatusUnhealthy, got.Status)
	require.NotNil(t, got.Error)
	assert.Equal(t, "Timeout", *got.Error)
	assert.Nil(t, got.ResponseTime)
	assert.Equal(t, "Slow API", got.Name)
}

func TestCheckService_MaxTimeoutCapsConfiguredTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client := httpclient.NewClient(5 * time.Second)
	t.Cleanup(client.CloseIdleConnections)
	checker := NewHealthChecker(client, 50*time.Millisecond, nil, logger.NewNoOpLogger())

	start := time.Now()
	got := checker.CheckService(context.Background(), "slow", ServiceConfig{URL: srv.URL, HealthCheck: HealthCheckConfig{Timeout: 30}})
	assert.Less(t, time.Since(start), time.Second)
	require.NotNil(t, got.Error)
	assert.Equal(t, "Timeout", *got.Error)
}

// ==========================
// Probes against a fake
// ==========================

func TestCheckService_SelfServiceSkipsProbe(t *testing.T) {
	prober := &fakeProber{}
	checker := NewHealthChecker(prober, 0, nil, logger.NewNoOpLogger())

	got := checker.CheckService(context.Background(), "backend", ServiceConfig{
		Name:        "Backend",
		Type:        "api",
		URL:         "http://localhost:8000",
		SelfService: true,
		Features:    []interface{}{"debug"},
	})

	assert.Equal(t, StatusHealthy, got.Status)
	require.NotNil(t, got.ResponseTime)
	assert.Equal(t, 0.001, *got.ResponseTime)
	assert.Equal(t, []interface{}{"debug"}, got.Features)
	assert.Empty(t, prober.calls)
}

func TestCheckService_TransportError(t *testing.T) {
	checker := NewHealthChecker(&fakeProber{}, 0, nil, logger.NewNoOpLogger())

	got := checker.CheckService(context.Background(), "db", ServiceConfig{URL: "http://db:5432"})
	assert.Equal(t, StatusUnhealthy, got.Status)
	require.NotNil(t, got.Error)
	assert.Equal(t, "connection refused", *got.Error)
	assert.Equal(t, []interface{}{}, got.Features)
}

func TestCheckService_DeadlineErrorIsTimeout(t *testing.T) {
	prober := &fakeProber{results: map[string]probeResult{
		"http://api/": {err: context.DeadlineExceeded},
	}}
	checker := NewHealthChecker(prober, 0, nil, logger.NewNoOpLogger())

	got := checker.CheckService(context.Background(), "api", ServiceConfig{URL: "http://api"})
	require.NotNil(t, got.Error)
	assert.Equal(t, "Timeout", *got.Error)
}

func TestCheckAll(t *testing.T) {
	prober := &fakeProber{results: map[string]probeResult{
		"http://api/health": {code: 200, elapsed: 10 * time.Millisecond},
		"http://web/":       {code: 503, elapsed: 5 * time.Millisecond},
	}}
	checker := NewHealthChecker(prober, 0, nil, logger.NewNoOpLogger())

	got := checker.CheckAll(context.Background(), map[string]ServiceConfig{
		"api":  {Name: "API", Type: "api", URL: "http://api", HealthCheck: HealthCheckConfig{Endpoint: "/health"}},
		"web":  {Name: "Web", Type: "web", URL: "http://web/"},
		"self": {Name: "Self", Type: "api", SelfService: true},
	})

	require.Len(t, got, 3)
	assert.Equal(t, StatusHealthy, got["api"].Status)
	assert.Equal(t, 0.01, *got["api"].ResponseTime)
	assert.Equal(t, StatusUnhealthy, got["web"].Status)
	assert.Equal(t, "HTTP 503", *got["web"].Error)
	assert.Equal(t, StatusHealthy, got["self"].Status)
	assert.Len(t, prober.calls, 2)
}

func TestOverallHealth(t *testing.T) {
	healthy := ServiceStatus{Status: StatusHealthy}
	down := ServiceStatus{Status: StatusUnhealthy}

	tests := []struct {
		name     string
		statuses map[string]ServiceStatus
		want     HealthStatus
		count    int
	}{
		{"no services", nil, StatusHealthy, 0},
		{"all healthy", map[string]ServiceStatus{"a": healthy, "b": healthy}, StatusHealthy, 2},
		{"some healthy", map[string]ServiceStatus{"a": healthy, "b": down}, StatusDegraded, 1},
		{"none healthy", map[string]ServiceStatus{"a": down, "b": down}, StatusUnhealthy, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := OverallHealth(tt.statuses)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.count, n)
		})
	}
}
