// internal/server/handlers.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/johnhkchen/hack-stack/internal/business"
	apperrors "github.com/johnhkchen/hack-stack/internal/common/errors"
	"github.com/johnhkchen/hack-stack/internal/legacy"
	"github.com/johnhkchen/hack-stack/internal/models"
)

const (
	maxBodyBytes = 1 << 20
	startupTime  = "Development mode - fast startup"
)

type vendorRequest struct {
	Operation string                 `json:"operation"`
	Data      map[string]interface{} `json:"data"`
}

// queryInt reads an integer query parameter, falling back to def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewInvalidRequestError(fmt.Sprintf("%s must be an integer, got %q", name, raw))
	}
	return v, nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.NewInvalidRequestError("failed to read request body: " + err.Error())
	}
	return body, nil
}

// ==========================
// v1 demo routes
// ==========================

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "healthy",
		"mode":              s.deps.Vendors.Mode(),
		"available_vendors": s.deps.Vendors.AvailableVendors(),
		"demo_ready":        true,
		"startup_time":      startupTime,
	})
}

func (s *Server) listBusinesses(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", business.DefaultLimit)
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Businesses.List(r.Context(), limit))
}

func (s *Server) getBusiness(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "business_id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		s.errors.Handle(w, r, apperrors.NewInvalidRequestError(fmt.Sprintf("business_id must be an integer, got %q", raw)))
		return
	}
	b, err := s.deps.Businesses.Get(r.Context(), id)
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) processVendor(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}
	var req vendorRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.errors.Handle(w, r, apperrors.NewInvalidRequestError("malformed JSON body: "+err.Error()))
		return
	}
	if strings.TrimSpace(req.Operation) == "" {
		s.errors.Handle(w, r, apperrors.NewInvalidRequestError("operation is required"))
		return
	}
	if req.Data == nil {
		req.Data = map[string]interface{}{}
	}

	out, err := s.deps.Vendors.Process(r.Context(), chi.URLParam(r, "vendor_name"), req.Operation, req.Data)
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) searchBusinesses(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", business.DefaultLimit)
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}
	q := r.URL.Query().Get("q")
	if _, present := r.URL.Query()["q"]; !present {
		q = business.DefaultQuery
	}
	writeJSON(w, http.StatusOK, s.deps.Businesses.Search(r.Context(), q, limit))
}

func (s *Server) demoMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_businesses": s.deps.Businesses.Count(r.Context()),
		"active_vendors":   len(s.deps.Vendors.AvailableVendors()),
		"mode":             s.deps.Vendors.Mode(),
		"uptime":           time.Since(s.deps.StartedAt).Round(time.Second).String(),
	})
}

// ==========================
// Debug routes
// ==========================

func (s *Server) debugReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Debug.Report(r.Context()))
}

func (s *Server) testVendor(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Debug.TestVendor(r.Context(), chi.URLParam(r, "vendor_name")))
}

func (s *Server) debugEndpoints(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Debug.Endpoints(s.routes.ListRoutes()))
}

// ==========================
// v2 legacy registry routes
// ==========================

func (s *Server) listLegacy(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", business.DefaultLimit)
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}
	neighborhood := models.Neighborhood(r.URL.Query().Get("neighborhood"))
	if neighborhood != "" && !knownNeighborhood(neighborhood) {
		s.errors.Handle(w, r, apperrors.NewInvalidRequestError(fmt.Sprintf("unknown neighborhood %q", neighborhood)))
		return
	}

	out, err := s.deps.Legacy.List(r.Context(), limit, neighborhood, r.URL.Query().Get("business_type"))
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func knownNeighborhood(n models.Neighborhood) bool {
	for _, known := range models.Neighborhoods {
		if n == known {
			return true
		}
	}
	return false
}

func (s *Server) createLegacy(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}
	created, err := s.deps.Legacy.Create(r.Context(), body)
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) legacySummaries(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", business.DefaultLimit)
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}
	out, err := s.deps.Legacy.Summaries(r.Context(), limit)
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getLegacy(w http.ResponseWriter, r *http.Request) {
	b, err := s.deps.Legacy.Get(r.Context(), chi.URLParam(r, "business_name"))
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) searchLegacy(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}
	req, err := s.deps.Legacy.DecodeSearch(body)
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}
	out, err := s.deps.Legacy.Search(r.Context(), req)
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) similarLegacy(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", legacy.DefaultSimilarLimit)
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}
	out, err := s.deps.Legacy.Similar(r.Context(), chi.URLParam(r, "business_name"), limit)
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"business_name":      chi.URLParam(r, "business_name"),
		"similar_businesses": out,
		"count":              len(out),
	})
}

func (s *Server) quickSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(r, "limit", legacy.DefaultQuickLimit)
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}
	params := legacy.QuickSearchParams{
		Query:        q.Get("q"),
		Limit:        limit,
		Neighborhood: models.Neighborhood(q.Get("neighborhood")),
		BusinessType: q.Get("business_type"),
	}
	if params.Neighborhood != "" && !knownNeighborhood(params.Neighborhood) {
		s.errors.Handle(w, r, apperrors.NewInvalidRequestError(fmt.Sprintf("unknown neighborhood %q", params.Neighborhood)))
		return
	}
	if q.Get("min_heritage_score") != "" {
		minScore, err := queryInt(r, "min_heritage_score", 0)
		if err != nil {
			s.errors.Handle(w, r, err)
			return
		}
		params.HeritageScoreMin = &minScore
	}

	out, err := s.deps.Legacy.QuickSearch(r.Context(), params)
	s.respond(w, r, out, err)
}

type ragRequest struct {
	Query      string `json:"query"`
	MaxResults *int   `json:"max_results"`
}

// ragQuery takes query and max_results from the query string or a JSON body.
// Query string values win.
func (s *Server) ragQuery(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}
	var req ragRequest
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			s.errors.Handle(w, r, apperrors.NewInvalidRequestError(fmt.Sprintf("decode rag query: %v", err)))
			return
		}
	}
	if q := r.URL.Query().Get("query"); q != "" {
		req.Query = q
	}
	def := legacy.DefaultRAGResults
	if req.MaxResults != nil {
		def = *req.MaxResults
	}
	maxResults, err := queryInt(r, "max_results", def)
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}

	out, err := s.deps.Legacy.RAGQuery(r.Context(), req.Query, maxResults)
	s.respond(w, r, out, err)
}

func (s *Server) ragContexts(w http.ResponseWriter, r *http.Request) {
	out, err := s.deps.Legacy.Contexts(r.Context(), chi.URLParam(r, "business_name"), r.URL.Query().Get("context_type"))
	s.respond(w, r, out, err)
}

func (s *Server) neighborhoodAnalytics(w http.ResponseWriter, r *http.Request) {
	out, err := s.deps.Legacy.Neighborhoods(r.Context())
	s.respond(w, r, out, err)
}

func (s *Server) heritageAnalytics(w http.ResponseWriter, r *http.Request) {
	out, err := s.deps.Legacy.HeritageScores(r.Context())
	s.respond(w, r, out, err)
}

func (s *Server) businessTypeAnalytics(w http.ResponseWriter, r *http.Request) {
	out, err := s.deps.Legacy.BusinessTypes(r.Context())
	s.respond(w, r, out, err)
}

func (s *Server) legacySchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Legacy.Schema())
}

func (s *Server) legacyStatus(w http.ResponseWriter, r *http.Request) {
	out, err := s.deps.Legacy.Status(r.Context())
	s.respond(w, r, out, err)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, v interface{}, err error) {
	if err != nil {
		s.errors.Handle(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// ==========================
// Probes
// ==========================

func (s *Server) liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// readiness pings every configured backend. Any failure turns the probe 503.
func (s *Server) readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := make(map[string]string, len(s.deps.Backends))
	ready := true
	for name, p := range s.deps.Backends {
		if err := p.Ping(ctx); err != nil {
			checks[name] = err.Error()
			ready = false
			s.logger.WithError(err).Warn("Readiness check failed", map[string]interface{}{"backend": name})
			continue
		}
		checks[name] = "ok"
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}
