// internal/debug/service.go
package debug

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	apperrors "github.com/johnhkchen/hack-stack/internal/common/errors"
	"github.com/johnhkchen/hack-stack/internal/common/logger"
	"github.com/johnhkchen/hack-stack/internal/common/metrics"
	"github.com/johnhkchen/hack-stack/internal/vendors"
)

const (
	EnvironmentModeMock = "mock"
	vendorTestOperation = "analyze"
	vendorTestContent   = "Debug test - checking vendor connectivity"
	alertTimeout        = 10 * time.Second
)

// VendorBackend is the part of vendors.Service the debug surface uses.
type VendorBackend interface {
	Process(ctx context.Context, vendor, operation string, data map[string]interface{}) (map[string]interface{}, error)
	Credentials(vendor string) (vendors.Credentials, bool)
}

type VendorSecurity struct {
	CredentialSource vendors.CredentialSource `json:"credential_source"`
	IsSecure         bool                     `json:"is_secure"`
	SecurityWarning  *string                  `json:"security_warning"`
}

type VendorStatus struct {
	Name           string        `json:"name"`
	Type           string        `json:"type"`
	Enabled        bool          `json:"enabled"`
	HasCredentials bool          `json:"has_credentials"`
	Mode           string        `json:"mode"`
	Features       []interface{} `json:"features"`
	*VendorSecurity
}

type ReportSummary struct {
	TotalServices   int `json:"total_services"`
	HealthyServices int `json:"healthy_services"`
	TotalVendors    int `json:"total_vendors"`
	LiveVendors     int `json:"live_vendors"`
	MockVendors     int `json:"mock_vendors"`
}

type Report struct {
	Project         ProjectInfo              `json:"project"`
	Timestamp       float64                  `json:"timestamp"`
	OverallHealth   HealthStatus             `json:"overall_health"`
	EnvironmentMode string                   `json:"environment_mode"`
	DemoReady       Readiness                `json:"demo_ready"`
	Services        map[string]ServiceStatus `json:"services"`
	Vendors         map[string]VendorStatus  `json:"vendors"`
	Summary         ReportSummary            `json:"summary"`
}

type VendorTestResult struct {
	Vendor    string                 `json:"vendor"`
	Status    string                 `json:"status"`
	Result    map[string]interface{} `json:"result,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Timestamp float64                `json:"timestamp"`
}

// Service assembles the debug report and the reconciled endpoint view.
type Service struct {
	cfg     *Config
	checker *HealthChecker
	vendors VendorBackend
	alerter *Alerter
	strict  bool

	alerts   sync.WaitGroup
	alerting atomic.Bool

	getenv  func(string) string
	now     func() time.Time
	logger  logger.Logger
}

type ServiceOption func(*Service)

func WithAlerter(a *Alerter) ServiceOption {
	return func(s *Service) { s.alerter = a }
}

// WithStrictMethods turns on per-method untracked detection regardless of
// debug.yaml.
func WithStrictMethods(strict bool) ServiceOption {
	return func(s *Service) { s.strict = strict }
}

func WithGetenv(getenv func(string) string) ServiceOption {
	return func(s *Service) { s.getenv = getenv }
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func NewService(cfg *Config, checker *HealthChecker, backend VendorBackend, log logger.Logger, opts ...ServiceOption) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Service{
		cfg:     cfg,
		checker: checker,
		vendors: backend,
		getenv:  os.Getenv,
		now:     time.Now,
		logger:  log.WithFields(map[string]interface{}{"component": "debug"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Config() *Config { return s.cfg }

// Report probes every service and scores demo readiness.
func (s *Service) Report(ctx context.Context) *Report {
	services := s.checker.CheckAll(ctx, s.cfg.Services)
	overall, healthy := OverallHealth(services)
	vendorStatus := s.VendorStatus()

	readiness := Score(s.cfg.DemoReadiness.Criteria, resolver(services, vendorStatus, overall))
	metrics.ReadinessScore.Set(float64(readiness.Score))

	report := &Report{
		Project:         s.cfg.Project,
		Timestamp:       unixSeconds(s.now()),
		OverallHealth:   overall,
		EnvironmentMode: EnvironmentModeMock,
		DemoReady:       readiness,
		Services:        services,
		Vendors:         vendorStatus,
		Summary: ReportSummary{
			TotalServices:   len(services),
			HealthyServices: healthy,
			TotalVendors:    len(vendorStatus),
		},
	}
	for _, v := range vendorStatus {
		switch v.Mode {
		case "live":
			report.Summary.LiveVendors++
		case vendors.ModeMock:
			report.Summary.MockVendors++
		}
	}

	if s.alerter != nil && !readiness.Ready {
		s.dispatchAlert(*report)
	}
	return report
}

// dispatchAlert sends report in the background. At most one alert is in
// flight; reports arriving meanwhile are dropped.
func (s *Service) dispatchAlert(report Report) {
	if !s.alerting.CompareAndSwap(false, true) {
		s.logger.Debug("readiness alert already in flight, skipping", nil)
		return
	}
	s.alerts.Add(1)
	go func() {
		defer s.alerts.Done()
		defer s.alerting.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), alertTimeout)
		defer cancel()
		if _, err := s.alerter.Notify(ctx, &report); err != nil {
			s.logger.WithError(err).Warn("readiness alert incomplete", nil)
		}
	}()
}

// Shutdown waits for an in-flight readiness alert or until ctx is done.
func (s *Service) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.alerts.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// VendorStatus describes every vendor declared in debug.yaml.
func (s *Service) VendorStatus() map[string]VendorStatus {
	out := make(map[string]VendorStatus, len(s.cfg.Vendors))
	for key, vc := range s.cfg.Vendors {
		st := VendorStatus{
			Name:     vc.Name,
			Type:     vc.Type,
			Enabled:  vc.Enabled,
			Mode:     vendors.ModeMock,
			Features: vc.Features,
		}
		if st.Name == "" {
			st.Name = key
		}
		if st.Type == "" {
			st.Type = "unknown"
		}
		if st.Features == nil {
			st.Features = []interface{}{}
		}
		if vc.EnvVar != "" {
			st.HasCredentials = s.getenv(vc.EnvVar) != ""
		}

		if s.vendors != nil {
			if creds, ok := s.vendors.Credentials(key); ok {
				st.HasCredentials = st.HasCredentials || creds.HasKey
				sec := &VendorSecurity{CredentialSource: creds.Source, IsSecure: creds.IsSecure}
				if creds.Warning != "" {
					w := creds.Warning
					sec.SecurityWarning = &w
				}
				st.VendorSecurity = sec
			}
		}
		out[key] = st
	}
	return out
}

// Endpoints reconciles the given live routes against debug.yaml.
func (s *Service) Endpoints(routes []RouteDescriptor) EndpointsView {
	return Reconcile(routes, s.cfg.Endpoints, ReconcileOptions{StrictMethods: s.strict})
}

// TestVendor runs a fixed analyze call against vendor.
func (s *Service) TestVendor(ctx context.Context, vendor string) VendorTestResult {
	res := VendorTestResult{Vendor: vendor}
	out, err := s.vendors.Process(ctx, vendor, vendorTestOperation, map[string]interface{}{
		"content": vendorTestContent,
	})
	res.Timestamp = unixSeconds(s.now())
	if err != nil {
		res.Status = "error"
		res.Error = apperrors.AsStandard(err).Message
		return res
	}
	res.Status = "success"
	res.Result = out
	return res
}

func resolver(services map[string]ServiceStatus, vendorStatus map[string]VendorStatus, overall HealthStatus) CheckResolver {
	healthyOfType := func(typ string) bool {
		for _, s := range services {
			if s.Type == typ && s.Status == StatusHealthy {
				return true
			}
		}
		return false
	}
	return func(check string) bool {
		switch check {
		case CheckServicesHealthy:
			return overall == StatusHealthy || overall == StatusDegraded
		case CheckAPIResponsive:
			return healthyOfType("api")
		case CheckFrontendHealthy:
			return healthyOfType("web")
		case CheckVendorAvailable:
			return len(vendorStatus) > 0
		default:
			return false
		}
	}
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
