// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/johnhkchen/hack-stack/internal/business"
	"github.com/johnhkchen/hack-stack/internal/common/config"
	apperrors "github.com/johnhkchen/hack-stack/internal/common/errors"
	"github.com/johnhkchen/hack-stack/internal/common/logger"
	"github.com/johnhkchen/hack-stack/internal/common/observability"
	"github.com/johnhkchen/hack-stack/internal/debug"
	"github.com/johnhkchen/hack-stack/internal/legacy"
	"github.com/johnhkchen/hack-stack/internal/vendors"
)

const readyTimeout = 3 * time.Second

// Pinger is a backing service checked by /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the HTTP surface exposes. Gatherer defaults to the
// Prometheus default registry.
type Deps struct {
	Config     config.ServerConfig
	Businesses *business.Service
	Legacy     *legacy.Service
	Vendors    *vendors.Service
	Debug      *debug.Service
	Obs        *observability.Observability
	Gatherer   prometheus.Gatherer
	Backends   map[string]Pinger
	Logger     logger.Logger
	StartedAt  time.Time
}

// Server owns the chi router and the route catalog.
type Server struct {
	deps    Deps
	router  chi.Router
	catalog *Catalog
	routes  *RouteTable
	errors  *apperrors.ErrorHandler
	logger  logger.Logger
}

func New(deps Deps) *Server {
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	if deps.StartedAt.IsZero() {
		deps.StartedAt = time.Now()
	}
	log := deps.Logger.WithFields(map[string]interface{}{"component": "http"})

	s := &Server{
		deps:    deps,
		router:  chi.NewRouter(),
		catalog: NewCatalog(),
		errors:  apperrors.NewErrorHandler(log),
		logger:  log,
	}
	s.routes = NewRouteTable(s.router, s.catalog)

	s.router.Use(RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(CORS(deps.Config.CORSOrigins))
	s.router.Use(Instrument(deps.Obs, log))

	s.registerRoutes()
	return s
}

// Handler is the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListRoutes reports the live routes. It implements debug.RouteSource.
func (s *Server) ListRoutes() []debug.RouteDescriptor { return s.routes.ListRoutes() }

// HTTPServer builds an http.Server for the configured port and timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.deps.Config.Addr(),
		Handler:      s.router,
		ReadTimeout:  config.GetDuration(s.deps.Config.ReadTimeout),
		WriteTimeout: config.GetDuration(s.deps.Config.WriteTimeout),
	}
}

func (s *Server) registerRoutes() {
	r := catalogRouter{Router: s.router, catalog: s.catalog}

	r.handle(http.MethodGet, "/api/health", s.health, RouteInfo{
		Name: "Health Check", Description: "System health and configuration status", Tags: []string{"core"},
	})
	r.handle(http.MethodGet, "/api/businesses", s.listBusinesses, RouteInfo{
		Name: "List Businesses", Description: "Demo businesses, cached per limit", Tags: []string{"business"},
	})
	r.handle(http.MethodGet, "/api/businesses/{business_id}", s.getBusiness, RouteInfo{
		Name: "Get Business", Description: "Single demo business by id", Tags: []string{"business"},
	})
	r.handle(http.MethodPost, "/api/vendor/{vendor_name}", s.processVendor, RouteInfo{
		Name: "Vendor Call", Description: "Run an operation through a mock AI vendor", Tags: []string{"vendors"},
	})
	r.handle(http.MethodGet, "/api/search", s.searchBusinesses, RouteInfo{
		Name: "Search Businesses", Description: "Substring search over name, story and tagline", Tags: []string{"business"},
	})
	r.handle(http.MethodGet, "/api/metrics", s.demoMetrics, RouteInfo{
		Name: "Demo Metrics", Description: "Business and vendor counts", Tags: []string{"core"},
	})
	r.handle(http.MethodGet, "/api/debug", s.debugReport, RouteInfo{
		Name: "Debug Report", Description: "Service health, vendor status and demo readiness", Tags: []string{"debug"},
	})
	r.handle(http.MethodGet, "/api/debug/test/{vendor_name}", s.testVendor, RouteInfo{
		Name: "Vendor Smoke Test", Description: "Run the analyze operation against a vendor", Tags: []string{"debug"},
	})
	r.handle(http.MethodGet, "/api/debug/endpoints", s.debugEndpoints, RouteInfo{
		Name: "Endpoint Inventory", Description: "Configured sections merged with discovered routes", Tags: []string{"debug"},
	})

	r.handle(http.MethodGet, "/api/v2/businesses", s.listLegacy, RouteInfo{
		Name: "Legacy Businesses", Description: "Registry entries filtered by neighborhood and type", Tags: []string{"legacy"},
	})
	r.handle(http.MethodPost, "/api/v2/businesses", s.createLegacy, RouteInfo{
		Name: "Create Legacy Business", Description: "Validate and store a registry entry", Tags: []string{"legacy"},
	})
	r.handle(http.MethodGet, "/api/v2/businesses/summaries", s.legacySummaries, RouteInfo{
		Name: "Legacy Summaries", Description: "Lightweight registry entries for list views", Tags: []string{"legacy"},
	})
	r.handle(http.MethodGet, "/api/v2/businesses/{business_name}", s.getLegacy, RouteInfo{
		Name: "Legacy Business Detail", Description: "Full registry entry by name", Tags: []string{"legacy"},
	})
	r.handle(http.MethodPost, "/api/v2/businesses/search", s.searchLegacy, RouteInfo{
		Name: "Legacy Search", Description: "Filtered and ranked registry search", Tags: []string{"legacy"},
	})
	r.handle(http.MethodGet, "/api/v2/businesses/{business_name}/similar", s.similarLegacy, RouteInfo{
		Name: "Similar Businesses", Description: "Registry entries sharing type, neighborhood or era", Tags: []string{"legacy"},
	})
	r.handle(http.MethodGet, "/api/v2/search/quick", s.quickSearch, RouteInfo{
		Name: "Quick Search", Description: "Query-string registry search with compact rows", Tags: []string{"legacy"},
	})
	r.handle(http.MethodPost, "/api/v2/rag/query", s.ragQuery, RouteInfo{
		Name: "RAG Query", Description: "Simulated answer grounded on registry narratives", Tags: []string{"rag"},
	})
	r.handle(http.MethodGet, "/api/v2/rag/contexts/{business_name}", s.ragContexts, RouteInfo{
		Name: "RAG Contexts", Description: "Weighted narrative contexts for one business", Tags: []string{"rag"},
	})
	r.handle(http.MethodGet, "/api/v2/analytics/neighborhoods", s.neighborhoodAnalytics, RouteInfo{
		Name: "Neighborhood Analytics", Description: "Registry entries per neighborhood", Tags: []string{"analytics"},
	})
	r.handle(http.MethodGet, "/api/v2/analytics/heritage-scores", s.heritageAnalytics, RouteInfo{
		Name: "Heritage Score Analytics", Description: "Heritage score buckets", Tags: []string{"analytics"},
	})
	r.handle(http.MethodGet, "/api/v2/analytics/business-types", s.businessTypeAnalytics, RouteInfo{
		Name: "Business Type Analytics", Description: "Registry entries per business type", Tags: []string{"analytics"},
	})
	r.handle(http.MethodGet, "/api/v2/schema/business-model", s.legacySchema, RouteInfo{
		Name: "Business Model Schema", Description: "JSON schema for registry entries", Tags: []string{"legacy"},
	})
	r.handle(http.MethodGet, "/api/v2/system/status", s.legacyStatus, RouteInfo{
		Name: "System Status", Description: "Registry capabilities and data statistics", Tags: []string{"legacy"},
	})

	r.handle(http.MethodGet, "/healthz", s.liveness, RouteInfo{
		Name: "Liveness", Description: "Process liveness probe", Tags: []string{"system"},
	})
	r.handle(http.MethodGet, "/readyz", s.readiness, RouteInfo{
		Name: "Readiness", Description: "Backing service readiness probe", Tags: []string{"system"},
	})
	r.catalog.Add("/metrics", RouteInfo{
		Name: "Prometheus Metrics", Description: "Prometheus exposition", Tags: []string{"system"},
	})
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))

	if dir := s.deps.Config.StaticDir; dir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(dir)))
		s.router.Handle("/static/*", fs)
		r.handle(http.MethodGet, "/", s.index(dir), RouteInfo{
			Name: "Dashboard", Description: "Demo dashboard page", Tags: []string{"core"},
		})
	}
}

func (s *Server) index(dir string) http.HandlerFunc {
	page := filepath.Join(dir, "index.html")
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(page); err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, page)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
