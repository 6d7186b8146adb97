// internal/debug/health.go
package debug

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/johnhkchen/hack-stack/internal/common/logger"
	"github.com/johnhkchen/hack-stack/internal/common/metrics"
	"github.com/johnhkchen/hack-stack/internal/common/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

const (
	defaultProbeEndpoint = "/"
	defaultProbeStatus   = 200
	defaultProbeTimeout  = 5 * time.Second
	selfResponseTime     = 0.001
	maxConcurrentProbes  = 8
)

// Prober issues a single GET and reports the status code and round-trip time.
type Prober interface {
	Status(ctx context.Context, url string) (int, time.Duration, error)
}

type ServiceStatus struct {
	Name         string        `json:"name"`
	Type         string        `json:"type"`
	Status       HealthStatus  `json:"status"`
	URL          string        `json:"url"`
	ResponseTime *float64      `json:"response_time"`
	Features     []interface{} `json:"features"`
	Error        *string       `json:"error"`
}

// HealthChecker probes configured services concurrently.
type HealthChecker struct {
	prober     Prober
	maxTimeout time.Duration
	obs        *observability.Observability
	logger     logger.Logger
}

// NewHealthChecker caps every probe at maxTimeout when it is positive.
func NewHealthChecker(prober Prober, maxTimeout time.Duration, obs *observability.Observability, log logger.Logger) *HealthChecker {
	return &HealthChecker{
		prober:     prober,
		maxTimeout: maxTimeout,
		obs:        obs,
		logger:     log.WithFields(map[string]interface{}{"component": "health_checker"}),
	}
}

// CheckAll probes every service and returns statuses keyed like services.
func (h *HealthChecker) CheckAll(ctx context.Context, services map[string]ServiceConfig) map[string]ServiceStatus {
	keys := make([]string, 0, len(services))
	for k := range services {
		keys = append(keys, k)
	}

	results := make([]ServiceStatus, len(keys))
	var g errgroup.Group
	g.SetLimit(maxConcurrentProbes)
	for i, key := range keys {
		g.Go(func() error {
			results[i] = h.CheckService(ctx, key, services[key])
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]ServiceStatus, len(keys))
	for i, key := range keys {
		out[key] = results[i]
	}
	return out
}

// CheckService probes one service. It never fails; problems are reported in
// the returned status.
func (h *HealthChecker) CheckService(ctx context.Context, key string, cfg ServiceConfig) ServiceStatus {
	name := cfg.Name
	if name == "" {
		name = key
	}
	status := ServiceStatus{
		Name:     name,
		Type:     cfg.Type,
		URL:      cfg.URL,
		Features: cfg.Features,
	}
	if status.Features == nil {
		status.Features = []interface{}{}
	}

	if cfg.SelfService {
		rt := selfResponseTime
		status.Status = StatusHealthy
		status.ResponseTime = &rt
		return status
	}

	endpoint := cfg.HealthCheck.Endpoint
	if endpoint == "" {
		endpoint = defaultProbeEndpoint
	}
	expected := cfg.HealthCheck.ExpectedStatus
	if expected == 0 {
		expected = defaultProbeStatus
	}
	timeout := defaultProbeTimeout
	if cfg.HealthCheck.Timeout > 0 {
		timeout = time.Duration(cfg.HealthCheck.Timeout * float64(time.Second))
	}
	if h.maxTimeout > 0 && timeout > h.maxTimeout {
		timeout = h.maxTimeout
	}

	target := strings.TrimRight(cfg.URL, "/") + endpoint

	ctx, span := h.obs.StartSpan(ctx, "health.probe",
		attribute.String("service", key),
		attribute.String("url", target),
	)
	defer span.End()

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	code, elapsed, err := h.prober.Status(probeCtx, target)
	switch {
	case err != nil:
		msg := err.Error()
		if isTimeout(err) {
			msg = "Timeout"
		}
		status.Status = StatusUnhealthy
		status.Error = &msg
		span.RecordError(err)
		span.SetStatus(codes.Error, msg)
	case code != expected:
		msg := fmt.Sprintf("HTTP %d", code)
		rt := elapsed.Seconds()
		status.Status = StatusUnhealthy
		status.ResponseTime = &rt
		status.Error = &msg
		span.SetStatus(codes.Error, msg)
	default:
		rt := elapsed.Seconds()
		status.Status = StatusHealthy
		status.ResponseTime = &rt
	}
	span.SetAttributes(attribute.String("status", string(status.Status)))
	metrics.HealthProbeDuration.WithLabelValues(key, string(status.Status)).Observe(elapsed.Seconds())

	if status.Status != StatusHealthy {
		h.logger.Warn("service probe failed", map[string]interface{}{
			"service": key,
			"url":     target,
			"error":   *status.Error,
		})
	}
	return status
}

// OverallHealth reduces service statuses. No services counts as healthy.
func OverallHealth(statuses map[string]ServiceStatus) (HealthStatus, int) {
	healthy := 0
	for _, s := range statuses {
		if s.Status == StatusHealthy {
			healthy++
		}
	}
	switch {
	case healthy == len(statuses):
		return StatusHealthy, healthy
	case healthy > 0:
		return StatusDegraded, healthy
	default:
		return StatusUnhealthy, healthy
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
