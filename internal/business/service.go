// internal/business/service.go
package business

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/johnhkchen/hack-stack/internal/common/cache"
	apperrors "github.com/johnhkchen/hack-stack/internal/common/errors"
	"github.com/johnhkchen/hack-stack/internal/common/logger"
	"github.com/johnhkchen/hack-stack/internal/common/metrics"
	"github.com/johnhkchen/hack-stack/internal/models"
)

const (
	DefaultQuery = "innovation"
	DefaultLimit = 10

	// statsLimit is large enough to cover the whole demo data set.
	statsLimit = 100
)

// Service serves the v1 demo businesses. List results are cached per limit.
type Service struct {
	businesses []models.Business
	cache      cache.Store
	ttl        time.Duration
	logger     logger.Logger
}

func NewService(store cache.Store, ttl time.Duration, log logger.Logger) *Service {
	return &Service{
		businesses: models.DemoBusinesses(),
		cache:      store,
		ttl:        ttl,
		logger:     log.WithFields(map[string]interface{}{"component": "business"}),
	}
}

func cacheKey(limit int) string {
	return "businesses_" + strconv.Itoa(limit)
}

// List returns the first limit businesses. Cache failures are logged and the
// list is served from memory.
func (s *Service) List(ctx context.Context, limit int) []models.Business {
	limit = s.clamp(limit)
	key := cacheKey(limit)

	raw, found, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.BusinessCacheLookups.WithLabelValues("error").Inc()
		s.logger.WithError(err).Warn("Business cache read failed", map[string]interface{}{"key": key})
	case found:
		var cached []models.Business
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			metrics.BusinessCacheLookups.WithLabelValues("hit").Inc()
			return cached
		}
		s.logger.Warn("Discarding undecodable cache entry", map[string]interface{}{"key": key})
	}
	if err == nil {
		metrics.BusinessCacheLookups.WithLabelValues("miss").Inc()
	}

	out := s.first(limit)
	if data, jsonErr := json.Marshal(out); jsonErr == nil {
		if setErr := s.cache.Set(ctx, key, data, s.ttl); setErr != nil {
			s.logger.WithError(setErr).Warn("Business cache write failed", map[string]interface{}{"key": key})
		}
	}
	return out
}

// clamp bounds limit to [0, len(businesses)] so out-of-range limits share
// one cache entry.
func (s *Service) clamp(limit int) int {
	return max(0, min(limit, len(s.businesses)))
}

func (s *Service) first(limit int) []models.Business {
	limit = s.clamp(limit)
	out := make([]models.Business, limit)
	copy(out, s.businesses[:limit])
	return out
}

// Get returns the business with id.
func (s *Service) Get(_ context.Context, id int) (*models.Business, error) {
	for i := range s.businesses {
		if s.businesses[i].ID == id {
			b := s.businesses[i]
			return &b, nil
		}
	}
	err := apperrors.NewBusinessNotFoundError(fmt.Sprintf("business_id: %d", id))
	err.Message = "Business not found"
	return nil, err
}

// Search matches query against name, story and tagline ignoring case. Total
// counts every match; Results holds at most limit.
func (s *Service) Search(_ context.Context, query string, limit int) models.BusinessSearchResult {
	q := strings.ToLower(query)

	matches := []models.Business{}
	for _, b := range s.businesses {
		if strings.Contains(strings.ToLower(b.Name), q) ||
			strings.Contains(strings.ToLower(b.Story), q) ||
			strings.Contains(strings.ToLower(b.Tagline), q) {
			matches = append(matches, b)
		}
	}

	results := matches[:max(0, min(limit, len(matches)))]
	return models.BusinessSearchResult{
		Query:   query,
		Results: results,
		Total:   len(matches),
	}
}

// Count is the size of the full data set as reported by the metrics route.
func (s *Service) Count(ctx context.Context) int {
	return len(s.List(ctx, statsLimit))
}
