// internal/legacy/search.go
package legacy

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/johnhkchen/hack-stack/internal/common/errors"
	"github.com/johnhkchen/hack-stack/internal/models"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Relevance weights per field. The same boosts drive the Elasticsearch
// multi_match query.
const (
	weightName      = 4.0
	weightNarrative = 3.0
	weightDetail    = 2.0
	weightListItem  = 1.5
)

// Filter keeps businesses matching every set criterion of req.
func Filter(businesses []models.LegacyBusiness, req models.LegacyBusinessSearch) []models.LegacyBusiness {
	businessType := strings.ToLower(req.BusinessType)

	out := make([]models.LegacyBusiness, 0, len(businesses))
	for _, b := range businesses {
		if req.Neighborhood != "" && b.Neighborhood != req.Neighborhood {
			continue
		}
		if businessType != "" && !strings.Contains(strings.ToLower(b.BusinessType), businessType) {
			continue
		}
		if req.FoundingYearMin != nil && *req.FoundingYearMin > 0 {
			if b.FoundingYear == nil || *b.FoundingYear < *req.FoundingYearMin {
				continue
			}
		}
		if req.FoundingYearMax != nil && *req.FoundingYearMax > 0 {
			if b.FoundingYear == nil || *b.FoundingYear > *req.FoundingYearMax {
				continue
			}
		}
		if req.HeritageScoreMin != nil && *req.HeritageScoreMin > 0 {
			if b.HeritageScore == nil || *b.HeritageScore < *req.HeritageScoreMin {
				continue
			}
		}
		out = append(out, b)
	}
	return out
}

// Relevance scores b against a lower-cased query by substring matches.
func Relevance(b models.LegacyBusiness, query string) float64 {
	contains := func(field string) bool {
		return field != "" && strings.Contains(strings.ToLower(field), query)
	}

	score := 0.0
	for _, f := range []string{b.FoundingStory, b.CulturalSignificance, b.CommunityImpact} {
		if contains(f) {
			score += weightNarrative
		}
	}
	for _, f := range []string{b.PhysicalTraditions, b.HistoricalSignificance} {
		if contains(f) {
			score += weightDetail
		}
	}
	if contains(b.BusinessName) {
		score += weightName
	}
	if contains(b.BusinessType) {
		score += weightDetail
	}
	for _, f := range b.UniqueFeatures {
		if contains(f) {
			score += weightListItem
		}
	}
	for _, f := range b.DemoHighlights {
		if contains(f) {
			score += weightListItem
		}
	}
	return score
}

// Rank drops businesses that do not match a non-blank query and orders the
// rest by descending relevance, keeping store order on ties. A blank query
// leaves the input untouched.
func Rank(businesses []models.LegacyBusiness, query string) []models.LegacyBusiness {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return businesses
	}

	type scored struct {
		b     models.LegacyBusiness
		score float64
	}
	hits := make([]scored, 0, len(businesses))
	for _, b := range businesses {
		if s := Relevance(b, q); s > 0 {
			hits = append(hits, scored{b: b, score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	out := make([]models.LegacyBusiness, len(hits))
	for i, h := range hits {
		out[i] = h.b
	}
	return out
}

// Page applies offset and limit.
func Page(businesses []models.LegacyBusiness, offset, limit int) []models.LegacyBusiness {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(businesses) {
		return []models.LegacyBusiness{}
	}
	end := offset + limit
	if limit <= 0 || end > len(businesses) {
		end = len(businesses)
	}
	return businesses[offset:end]
}

// SearchLocal filters, ranks and pages businesses, returning the page and the
// total before paging.
func SearchLocal(businesses []models.LegacyBusiness, req models.LegacyBusinessSearch) ([]models.LegacyBusiness, int) {
	ranked := Rank(Filter(businesses, req), req.Query)
	return Page(ranked, req.Offset, req.Limit), len(ranked)
}

// CheckLimit rejects limits outside 1..MaxLimit.
func CheckLimit(limit int) error {
	if limit < 1 || limit > MaxLimit {
		return apperrors.NewInvalidRequestError(fmt.Sprintf("limit must be between 1 and %d, got %d", MaxLimit, limit))
	}
	return nil
}
