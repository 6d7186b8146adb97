// internal/models/legacy_business.go
package models

import (
	"sort"
	"strings"
	"time"
)

type Neighborhood string

const (
	NeighborhoodChinatown      Neighborhood = "Chinatown"
	NeighborhoodMission        Neighborhood = "Mission District"
	NeighborhoodNorthBeach     Neighborhood = "North Beach"
	NeighborhoodCastro         Neighborhood = "Castro"
	NeighborhoodHaightAshbury  Neighborhood = "Haight-Ashbury"
	NeighborhoodSoMa           Neighborhood = "SoMa"
	NeighborhoodFinancial      Neighborhood = "Financial District"
	NeighborhoodNobHill        Neighborhood = "Nob Hill"
	NeighborhoodRichmond       Neighborhood = "Richmond"
	NeighborhoodSunset         Neighborhood = "Sunset"
	NeighborhoodMarina         Neighborhood = "Marina"
	NeighborhoodPacificHeights Neighborhood = "Pacific Heights"
)

// Neighborhoods lists every accepted neighborhood in declaration order.
var Neighborhoods = []Neighborhood{
	NeighborhoodChinatown, NeighborhoodMission, NeighborhoodNorthBeach, NeighborhoodCastro,
	NeighborhoodHaightAshbury, NeighborhoodSoMa, NeighborhoodFinancial, NeighborhoodNobHill,
	NeighborhoodRichmond, NeighborhoodSunset, NeighborhoodMarina, NeighborhoodPacificHeights,
}

type BusinessStatus string

const (
	StatusActive        BusinessStatus = "active"
	StatusClosed        BusinessStatus = "closed"
	StatusRelocated     BusinessStatus = "relocated"
	StatusPendingReview BusinessStatus = "pending_review"
)

type LocationHistory struct {
	Address   string `json:"address"`
	StartYear int    `json:"start_year"`
	EndYear   *int   `json:"end_year,omitempty"`
	IsCurrent bool   `json:"is_current"`
}

type Recognition struct {
	Title       string `json:"title"`
	Year        *int   `json:"year,omitempty"`
	Issuer      string `json:"issuer"`
	Description string `json:"description,omitempty"`
	MediaType   string `json:"media_type,omitempty"`
}

type OwnershipHistory struct {
	OwnerName    string `json:"owner_name"`
	StartYear    *int   `json:"start_year,omitempty"`
	EndYear      *int   `json:"end_year,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Generation   *int   `json:"generation,omitempty"`
}

// LegacyBusiness is a San Francisco Legacy Business Registry entry.
type LegacyBusiness struct {
	BusinessName string `json:"business_name"`
	LegalName    string `json:"legal_name,omitempty"`
	DBAName      string `json:"dba_name,omitempty"`

	FoundingYear           *int `json:"founding_year,omitempty"`
	YearsAtCurrentLocation *int `json:"years_at_current_location,omitempty"`

	CurrentAddress  string            `json:"current_address,omitempty"`
	Neighborhood    Neighborhood      `json:"neighborhood,omitempty"`
	LocationHistory []LocationHistory `json:"location_history"`

	BusinessType     string `json:"business_type,omitempty"`
	BusinessCategory string `json:"business_category,omitempty"`

	FoundingStory          string `json:"founding_story,omitempty"`
	CulturalSignificance   string `json:"cultural_significance,omitempty"`
	PhysicalTraditions     string `json:"physical_traditions,omitempty"`
	CommunityImpact        string `json:"community_impact,omitempty"`
	HistoricalSignificance string `json:"historical_significance,omitempty"`

	OwnershipHistory []OwnershipHistory `json:"ownership_history"`
	Recognition      []Recognition      `json:"recognition"`

	UniqueFeatures    []string `json:"unique_features"`
	SignatureProducts []string `json:"signature_products"`
	SearchTags        []string `json:"search_tags"`
	DemoHighlights    []string `json:"demo_highlights"`

	CurrentStatus BusinessStatus `json:"current_status"`
	StatusNotes   string         `json:"status_notes,omitempty"`

	ApplicationID string `json:"application_id,omitempty"`
	HeritageScore *int   `json:"heritage_score,omitempty"`

	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	LastVerified *time.Time `json:"last_verified,omitempty"`

	SourceDocuments      []string `json:"source_documents"`
	ExtractionConfidence *float64 `json:"extraction_confidence,omitempty"`
}

// Normalize fills defaults, syncs the current address with the current
// location history entry and regenerates search tags.
func (b *LegacyBusiness) Normalize(now time.Time) {
	if b.CurrentStatus == "" {
		b.CurrentStatus = StatusActive
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now.UTC()
	}
	if b.CurrentAddress != "" {
		for _, loc := range b.LocationHistory {
			if loc.IsCurrent {
				b.CurrentAddress = loc.Address
				break
			}
		}
	}
	b.SearchTags = GenerateSearchTags(b, now.Year())

	if b.LocationHistory == nil {
		b.LocationHistory = []LocationHistory{}
	}
	if b.OwnershipHistory == nil {
		b.OwnershipHistory = []OwnershipHistory{}
	}
	if b.Recognition == nil {
		b.Recognition = []Recognition{}
	}
	if b.UniqueFeatures == nil {
		b.UniqueFeatures = []string{}
	}
	if b.SignatureProducts == nil {
		b.SignatureProducts = []string{}
	}
	if b.DemoHighlights == nil {
		b.DemoHighlights = []string{}
	}
	if b.SourceDocuments == nil {
		b.SourceDocuments = []string{}
	}
}

// GenerateSearchTags merges existing tags with tags derived from founding era,
// age relative to currentYear, story keywords, recognition and neighborhood.
// The result is sorted and de-duplicated.
func GenerateSearchTags(b *LegacyBusiness, currentYear int) []string {
	tags := make(map[string]struct{}, len(b.SearchTags)+6)
	for _, t := range b.SearchTags {
		tags[t] = struct{}{}
	}

	if b.FoundingYear != nil && *b.FoundingYear > 0 {
		year := *b.FoundingYear
		switch {
		case year < 1900:
			tags["19th-century"] = struct{}{}
		case year < 1950:
			tags["early-20th-century"] = struct{}{}
		default:
			tags["mid-century"] = struct{}{}
		}

		age := currentYear - year
		switch {
		case age > 100:
			tags["century-old"] = struct{}{}
		case age > 75:
			tags["historic"] = struct{}{}
		case age > 50:
			tags["established"] = struct{}{}
		}
	}

	story := strings.ToLower(b.FoundingStory)
	if strings.Contains(story, "family") {
		tags["family-owned"] = struct{}{}
	}
	if strings.Contains(story, "immigrant") {
		tags["immigrant-founded"] = struct{}{}
	}

	if len(b.Recognition) > 0 {
		tags["award-winning"] = struct{}{}
	}

	if b.Neighborhood != "" {
		slug := strings.ReplaceAll(strings.ToLower(string(b.Neighborhood)), " ", "-")
		tags[slug+"-heritage"] = struct{}{}
	}

	out := make([]string, 0, len(tags))
	for t := range tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// LegacyBusinessSummary is the lightweight list view of a LegacyBusiness.
type LegacyBusinessSummary struct {
	BusinessName   string   `json:"business_name"`
	FoundingYear   *int     `json:"founding_year"`
	Neighborhood   *string  `json:"neighborhood"`
	BusinessType   *string  `json:"business_type"`
	UniqueFeatures []string `json:"unique_features"`
	DemoHighlights []string `json:"demo_highlights"`
	HeritageScore  *int     `json:"heritage_score"`
	CurrentStatus  *string  `json:"current_status"`
}

func (b *LegacyBusiness) Summary() LegacyBusinessSummary {
	s := LegacyBusinessSummary{
		BusinessName:   b.BusinessName,
		FoundingYear:   b.FoundingYear,
		UniqueFeatures: FirstN(b.UniqueFeatures, 3),
		DemoHighlights: FirstN(b.DemoHighlights, 3),
		HeritageScore:  b.HeritageScore,
	}
	if b.Neighborhood != "" {
		n := string(b.Neighborhood)
		s.Neighborhood = &n
	}
	if b.BusinessType != "" {
		t := b.BusinessType
		s.BusinessType = &t
	}
	if b.CurrentStatus != "" {
		st := string(b.CurrentStatus)
		s.CurrentStatus = &st
	}
	return s
}

func FirstN(in []string, n int) []string {
	if len(in) < n {
		n = len(in)
	}
	out := make([]string, n)
	copy(out, in[:n])
	return out
}

// LegacyBusinessSearch is the advanced search request body.
type LegacyBusinessSearch struct {
	Query               string       `json:"query"`
	Neighborhood        Neighborhood `json:"neighborhood,omitempty"`
	FoundingYearMin     *int         `json:"founding_year_min,omitempty"`
	FoundingYearMax     *int         `json:"founding_year_max,omitempty"`
	BusinessType        string       `json:"business_type,omitempty"`
	HeritageScoreMin    *int         `json:"heritage_score_min,omitempty"`
	Limit               int          `json:"limit"`
	Offset              int          `json:"offset"`
	SimilarityThreshold float64      `json:"similarity_threshold"`
	SearchFields        []string     `json:"search_fields"`
}

// NewLegacyBusinessSearch returns a request carrying the documented defaults.
func NewLegacyBusinessSearch(query string) LegacyBusinessSearch {
	return LegacyBusinessSearch{
		Query:               query,
		Limit:               10,
		SimilarityThreshold: 0.7,
		SearchFields:        []string{"founding_story", "cultural_significance", "business_name"},
	}
}

type SearchFilters struct {
	Neighborhood      *Neighborhood `json:"neighborhood"`
	BusinessType      *string       `json:"business_type"`
	FoundingYearRange [2]*int       `json:"founding_year_range"`
	HeritageScoreMin  *int          `json:"heritage_score_min"`
}

type SearchMetadata struct {
	SimilarityThreshold   float64  `json:"similarity_threshold"`
	SearchFields          []string `json:"search_fields"`
	SemanticSearchEnabled bool     `json:"semantic_search_enabled"`
	Backend               string   `json:"backend"`
	ProcessingTimeMS      float64  `json:"processing_time_ms"`
	Timestamp             string   `json:"timestamp"`
}

type LegacySearchResult struct {
	Results        []LegacyBusiness `json:"results"`
	Total          int              `json:"total"`
	Query          string           `json:"query"`
	FiltersApplied SearchFilters    `json:"filters_applied"`
	SearchMetadata SearchMetadata   `json:"search_metadata"`
}
