// internal/legacy/service.go
package legacy

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	apperrors "github.com/johnhkchen/hack-stack/internal/common/errors"
	"github.com/johnhkchen/hack-stack/internal/common/logger"
	"github.com/johnhkchen/hack-stack/internal/common/observability"
	"github.com/johnhkchen/hack-stack/internal/common/validation"
	"github.com/johnhkchen/hack-stack/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	BackendElasticsearch = "elasticsearch"
	BackendLocal         = "local"

	APIVersion   = "2.0.0"
	StatusMode   = "enhanced_mock"
	statusSample = 100
)

var (
	businessSchema = validation.MustCompile(models.LegacyBusinessSchema)
	searchSchema   = validation.MustCompile(models.LegacyBusinessSearchSchema)
)

type SchemaDocument struct {
	ModelName   string          `json:"model_name"`
	Schema      json.RawMessage `json:"schema"`
	GeneratedAt string          `json:"generated_at"`
}

type DataStatistics struct {
	TotalBusinesses      int     `json:"total_businesses"`
	SchemaValidated      int     `json:"schema_validated_businesses"`
	WithNarratives       int     `json:"businesses_with_narratives"`
	WithHeritageScores   int     `json:"businesses_with_heritage_scores"`
	AverageHeritageScore float64 `json:"average_heritage_score"`
}

type Performance struct {
	ResponseTimeTargetMS  int `json:"response_time_target_ms"`
	SearchTargetMS        int `json:"search_performance_target_ms"`
	ConcurrentUsersTarget int `json:"concurrent_users_supported"`
}

type SystemStatus struct {
	Status         string          `json:"status"`
	Mode           string          `json:"mode"`
	Timestamp      string          `json:"timestamp"`
	APIVersion     string          `json:"api_version"`
	Capabilities   map[string]bool `json:"capabilities"`
	DataStatistics DataStatistics  `json:"data_statistics"`
	Performance    Performance     `json:"performance"`
}

// Service is the v2 legacy registry API over a Store and an optional
// full-text index.
type Service struct {
	store  Store
	index  Searcher
	obs    *observability.Observability
	now    func() time.Time
	logger logger.Logger
}

type Option func(*Service)

// WithSearchIndex routes searches and new entries through idx. Local search
// remains the fallback when idx fails.
func WithSearchIndex(idx Searcher) Option {
	return func(s *Service) { s.index = idx }
}

func WithObservability(obs *observability.Observability) Option {
	return func(s *Service) { s.obs = obs }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		now:    time.Now,
		logger: log.WithFields(map[string]interface{}{"component": "legacy"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the first limit entries, then narrows them by neighborhood
// and business type.
func (s *Service) List(ctx context.Context, limit int, neighborhood models.Neighborhood, businessType string) ([]models.LegacyBusiness, error) {
	if err := CheckLimit(limit); err != nil {
		return nil, err
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(Page(all, 0, limit), models.LegacyBusinessSearch{
		Neighborhood: neighborhood,
		BusinessType: businessType,
	}), nil
}

func (s *Service) Summaries(ctx context.Context, limit int) ([]models.LegacyBusinessSummary, error) {
	businesses, err := s.List(ctx, limit, "", "")
	if err != nil {
		return nil, err
	}
	out := make([]models.LegacyBusinessSummary, len(businesses))
	for i := range businesses {
		out[i] = businesses[i].Summary()
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, name string) (*models.LegacyBusiness, error) {
	return s.store.GetByName(ctx, name)
}

// DecodeSearch validates a search body and decodes it over the request
// defaults.
func (s *Service) DecodeSearch(raw []byte) (models.LegacyBusinessSearch, error) {
	req := models.NewLegacyBusinessSearch("")
	if err := validate(searchSchema, raw); err != nil {
		return req, err
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, apperrors.NewInvalidRequestError(fmt.Sprintf("decode search request: %v", err))
	}
	return req, nil
}

// Search filters and ranks the registry. With an index configured the query
// runs there first; any index failure falls back to local ranking.
func (s *Service) Search(ctx context.Context, req models.LegacyBusinessSearch) (*models.LegacySearchResult, error) {
	if err := CheckLimit(req.Limit); err != nil {
		return nil, err
	}
	if req.Offset < 0 {
		return nil, apperrors.NewInvalidRequestError(fmt.Sprintf("offset must not be negative, got %d", req.Offset))
	}

	start := s.now()
	ctx, span := s.obs.StartSpan(ctx, "legacy.search", attribute.String("query", req.Query))
	defer span.End()

	results, total, backend, err := s.search(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("backend", backend), attribute.Int("total", total))

	elapsed := s.now().Sub(start)
	return &models.LegacySearchResult{
		Results:        results,
		Total:          total,
		Query:          req.Query,
		FiltersApplied: filtersApplied(req),
		SearchMetadata: models.SearchMetadata{
			SimilarityThreshold:   req.SimilarityThreshold,
			SearchFields:          req.SearchFields,
			SemanticSearchEnabled: strings.TrimSpace(req.Query) != "",
			Backend:               backend,
			ProcessingTimeMS:      math.Round(float64(elapsed.Microseconds())/10) / 100,
			Timestamp:             s.now().UTC().Format(time.RFC3339Nano),
		},
	}, nil
}

func (s *Service) search(ctx context.Context, req models.LegacyBusinessSearch) ([]models.LegacyBusiness, int, string, error) {
	if s.index != nil {
		results, total, err := s.index.Search(ctx, req)
		if err == nil {
			return nonNil(results), total, BackendElasticsearch, nil
		}
		s.logger.WithError(err).Warn("Index search failed, using local ranking", map[string]interface{}{
			"query": req.Query,
		})
	}

	all, err := s.store.List(ctx)
	if err != nil {
		return nil, 0, "", err
	}
	results, total := SearchLocal(all, req)
	return nonNil(results), total, BackendLocal, nil
}

// Create validates raw against the registry schema, normalizes the entry and
// stores it. Indexing failures are logged; the stored entry stands.
func (s *Service) Create(ctx context.Context, raw []byte) (*models.LegacyBusiness, error) {
	if err := validate(businessSchema, raw); err != nil {
		return nil, err
	}

	var b models.LegacyBusiness
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, apperrors.NewInvalidRequestError(fmt.Sprintf("decode business: %v", err))
	}
	for _, loc := range b.LocationHistory {
		if loc.EndYear != nil && *loc.EndYear < loc.StartYear {
			return nil, apperrors.NewValidationFailedError(
				fmt.Sprintf("location_history: end_year %d is before start_year %d at %q", *loc.EndYear, loc.StartYear, loc.Address))
		}
	}
	b.Normalize(s.now())

	if err := s.store.Create(ctx, &b); err != nil {
		return nil, err
	}

	if s.index != nil {
		if err := s.index.Index(ctx, &b); err != nil {
			s.logger.WithError(err).Warn("Failed to index legacy business", map[string]interface{}{
				"business_name": b.BusinessName,
			})
		}
	}

	s.logger.Info("Legacy business created", map[string]interface{}{
		"business_name": b.BusinessName,
		"neighborhood":  b.Neighborhood,
	})
	return &b, nil
}

func (s *Service) Neighborhoods(ctx context.Context) (NeighborhoodAnalytics, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return NeighborhoodAnalytics{}, err
	}
	return Neighborhoods(all), nil
}

func (s *Service) HeritageScores(ctx context.Context) (HeritageAnalytics, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return HeritageAnalytics{}, err
	}
	return HeritageScores(all), nil
}

func (s *Service) BusinessTypes(ctx context.Context) (BusinessTypeAnalytics, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return BusinessTypeAnalytics{}, err
	}
	return BusinessTypes(all), nil
}

func (s *Service) Schema() SchemaDocument {
	return SchemaDocument{
		ModelName:   "LegacyBusiness",
		Schema:      json.RawMessage(models.LegacyBusinessSchema),
		GeneratedAt: s.now().UTC().Format(time.RFC3339Nano),
	}
}

// Status reports capabilities and statistics over the first statusSample
// entries.
func (s *Service) Status(ctx context.Context) (*SystemStatus, error) {
	businesses, err := s.List(ctx, statusSample, "", "")
	if err != nil {
		return nil, err
	}

	stats := DataStatistics{
		TotalBusinesses: len(businesses),
		SchemaValidated: len(businesses),
	}
	scoreSum := 0
	for _, b := range businesses {
		if b.FoundingStory != "" {
			stats.WithNarratives++
		}
		if b.HeritageScore != nil && *b.HeritageScore != 0 {
			stats.WithHeritageScores++
			scoreSum += *b.HeritageScore
		}
	}
	stats.AverageHeritageScore = float64(scoreSum) / float64(max(stats.WithHeritageScores, 1))

	return &SystemStatus{
		Status:     "operational",
		Mode:       StatusMode,
		Timestamp:  s.now().UTC().Format(time.RFC3339Nano),
		APIVersion: APIVersion,
		Capabilities: map[string]bool{
			"schema_validation":           true,
			"semantic_search":             true,
			"rag_simulation":              true,
			"advanced_filtering":          true,
			"dynamic_frontend_generation": true,
			"heritage_analytics":          true,
		},
		DataStatistics: stats,
		Performance: Performance{
			ResponseTimeTargetMS:  200,
			SearchTargetMS:        500,
			ConcurrentUsersTarget: 100,
		},
	}, nil
}

func validate(schema *validation.Schema, raw []byte) error {
	if !json.Valid(raw) {
		return apperrors.NewInvalidRequestError("request body is not valid JSON")
	}
	result, err := schema.ValidateBytes(raw)
	if err != nil {
		return apperrors.NewInvalidRequestError(err.Error())
	}
	return result.Err()
}

func filtersApplied(req models.LegacyBusinessSearch) models.SearchFilters {
	f := models.SearchFilters{
		FoundingYearRange: [2]*int{req.FoundingYearMin, req.FoundingYearMax},
		HeritageScoreMin:  req.HeritageScoreMin,
	}
	if req.Neighborhood != "" {
		n := req.Neighborhood
		f.Neighborhood = &n
	}
	if req.BusinessType != "" {
		t := req.BusinessType
		f.BusinessType = &t
	}
	return f
}

func nonNil(in []models.LegacyBusiness) []models.LegacyBusiness {
	if in == nil {
		return []models.LegacyBusiness{}
	}
	return in
}
