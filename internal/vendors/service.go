// internal/vendors/service.go
package vendors

import (
	"context"
	"time"

	apperrors "github.com/johnhkchen/hack-stack/internal/common/errors"
	"github.com/johnhkchen/hack-stack/internal/common/logger"
	"github.com/johnhkchen/hack-stack/internal/common/metrics"
	"github.com/johnhkchen/hack-stack/internal/common/observability"
	"github.com/johnhkchen/hack-stack/pkg/registry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const ModeMockFallback = "mock_fallback"

// Service routes vendor calls and builds the fallback response when a
// vendor reports failure.
type Service struct {
	registry *registry.VendorRegistry
	env      *Environment
	vendors  map[string]Vendor
	obs      *observability.Observability
	logger   logger.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithVendor replaces the implementation behind name. name must exist in the
// registry.
func WithVendor(name string, v Vendor) Option {
	return func(s *Service) {
		if _, ok := s.vendors[name]; ok {
			s.vendors[name] = v
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(reg *registry.VendorRegistry, env *Environment, obs *observability.Observability, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		registry: reg,
		env:      env,
		vendors:  make(map[string]Vendor, len(reg.Vendors)),
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"component": "vendors"}),
		now:      time.Now,
	}
	for _, id := range reg.VendorIDs() {
		s.vendors[id] = NewMockVendor(id, reg)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Mode() string { return s.env.Mode }

func (s *Service) AvailableVendors() []string {
	out := make([]string, len(s.env.AvailableVendors))
	copy(out, s.env.AvailableVendors)
	return out
}

func (s *Service) Credentials(vendor string) (Credentials, bool) {
	c, ok := s.env.Credentials[vendor]
	return c, ok
}

// Process runs operation on vendor. Unknown vendors return UNKNOWN_VENDOR;
// vendor failures never surface as errors, they produce the canned response
// tagged mock_fallback.
func (s *Service) Process(ctx context.Context, vendor, operation string, data map[string]interface{}) (map[string]interface{}, error) {
	v, ok := s.vendors[vendor]
	if !ok {
		return nil, apperrors.NewUnknownVendorError(vendor)
	}

	ctx, span := s.obs.StartSpan(ctx, "vendor.process",
		attribute.String("vendor", vendor),
		attribute.String("operation", operation),
	)
	defer span.End()

	res := v.Process(ctx, operation, data)

	var out map[string]interface{}
	meta := map[string]interface{}{
		"vendor":    vendor,
		"operation": operation,
		"timestamp": s.now().Format(time.RFC3339),
	}
	if res.OK() {
		out = res.Data
		if out == nil {
			out = map[string]interface{}{}
		}
		meta["mode"] = ModeMock
	} else {
		s.logger.Warn("vendor call failed, using fallback", map[string]interface{}{
			"vendor":    vendor,
			"operation": operation,
			"error":     res.Err.Error(),
		})
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())

		out = NewMockVendor(vendor, s.registry).respond(operation)
		meta["mode"] = ModeMockFallback
		meta["error"] = res.Err.Error()
	}
	out["_meta"] = meta

	mode := meta["mode"].(string)
	metrics.VendorCallsTotal.WithLabelValues(vendor, operation, mode).Inc()
	s.obs.RecordVendorCall(ctx, vendor, mode)

	return out, nil
}
