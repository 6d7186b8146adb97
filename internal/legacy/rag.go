// internal/legacy/rag.go
package legacy

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	apperrors "github.com/johnhkchen/hack-stack/internal/common/errors"
	"github.com/johnhkchen/hack-stack/internal/models"
)

const (
	DefaultRAGResults = 5
	MaxRAGResults     = 10

	DefaultSimilarLimit = 5
	MaxSimilarLimit     = 20

	DefaultQuickLimit = 10
	MaxQuickLimit     = 50

	ragSimilarityThreshold = 0.6
	ragExcerptLength       = 200
	similarityThreshold    = 0.5

	// Confidence is spread over [confidenceFloor, confidenceFloor+confidenceSpan]
	// by relative relevance.
	confidenceFloor = 0.7
	confidenceSpan  = 0.25
)

// RAG context weights. High-weight narratives lead retrieval.
const (
	RAGWeightHigh   = "high"
	RAGWeightMedium = "medium"

	boostHigh   = 1.8
	boostMedium = 1.0
)

type RAGSource struct {
	BusinessName   string  `json:"business_name"`
	Context        string  `json:"context"`
	HeritageScore  *int    `json:"heritage_score"`
	RelevanceScore float64 `json:"relevance_score"`
}

type RAGResult struct {
	Success                 bool                  `json:"success"`
	Timestamp               string                `json:"timestamp"`
	Mode                    string                `json:"mode"`
	Query                   string                `json:"query"`
	Response                string                `json:"response"`
	SourceContexts          []RAGSource           `json:"source_contexts"`
	TotalBusinessesSearched int                   `json:"total_businesses_searched"`
	RelevantBusinessesFound int                   `json:"relevant_businesses_found"`
	SearchMetadata          models.SearchMetadata `json:"search_metadata"`
}

// NarrativeContext is one narrative field prepared for retrieval. Text
// fields carry CharacterCount, list fields carry ListLength.
type NarrativeContext struct {
	Content        interface{} `json:"content"`
	RAGWeight      string      `json:"rag_weight"`
	SearchBoost    float64     `json:"search_boost"`
	CharacterCount *int        `json:"character_count,omitempty"`
	ListLength     *int        `json:"list_length,omitempty"`
}

type ContextSummary struct {
	TotalContexts        int `json:"total_contexts"`
	HighWeightContexts   int `json:"high_weight_contexts"`
	MediumWeightContexts int `json:"medium_weight_contexts"`
}

type BusinessContexts struct {
	BusinessName         string                      `json:"business_name"`
	Contexts             map[string]NarrativeContext `json:"contexts"`
	HeritageScore        *int                        `json:"heritage_score"`
	ExtractionConfidence *float64                    `json:"extraction_confidence"`
	ContextSummary       ContextSummary              `json:"context_summary"`
}

type SimilarBusiness struct {
	Business        models.LegacyBusinessSummary `json:"business"`
	SimilarityScore float64                      `json:"similarity_score"`
	Certainty       float64                      `json:"certainty"`
	Distance        float64                      `json:"distance"`
}

type QuickSearchParams struct {
	Query            string
	Limit            int
	Neighborhood     models.Neighborhood
	BusinessType     string
	HeritageScoreMin *int
}

type QuickResult struct {
	BusinessName  string              `json:"business_name"`
	BusinessType  string              `json:"business_type"`
	Neighborhood  models.Neighborhood `json:"neighborhood"`
	FoundingYear  *int                `json:"founding_year"`
	HeritageScore *int                `json:"heritage_score"`
	Confidence    float64             `json:"confidence"`
}

type QuickSearchResult struct {
	Results         []QuickResult `json:"results"`
	Query           string        `json:"query"`
	TotalCount      int           `json:"total_count"`
	ExecutionTimeMS float64       `json:"execution_time_ms"`
	UsedFallback    bool          `json:"used_fallback"`
}

// narrativeFields lists the context types in retrieval order.
var narrativeFields = []struct {
	key    string
	weight string
	boost  float64
	text   func(*models.LegacyBusiness) string
	list   func(*models.LegacyBusiness) []string
}{
	{key: "founding_story", weight: RAGWeightHigh, boost: boostHigh, text: func(b *models.LegacyBusiness) string { return b.FoundingStory }},
	{key: "cultural_significance", weight: RAGWeightHigh, boost: boostHigh, text: func(b *models.LegacyBusiness) string { return b.CulturalSignificance }},
	{key: "physical_traditions", weight: RAGWeightMedium, boost: boostMedium, text: func(b *models.LegacyBusiness) string { return b.PhysicalTraditions }},
	{key: "historical_significance", weight: RAGWeightMedium, boost: boostMedium, text: func(b *models.LegacyBusiness) string { return b.HistoricalSignificance }},
	{key: "unique_features", weight: RAGWeightMedium, boost: boostMedium, list: func(b *models.LegacyBusiness) []string { return b.UniqueFeatures }},
}

// ContextTypes are the accepted context_type values.
func ContextTypes() []string {
	out := make([]string, len(narrativeFields))
	for i, f := range narrativeFields {
		out[i] = f.key
	}
	return out
}

// RAGQuery retrieves the best matching businesses for query and answers from
// their narratives with a canned generator. No model is called.
func (s *Service) RAGQuery(ctx context.Context, query string, maxResults int) (*RAGResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewInvalidRequestError("query cannot be empty")
	}
	if maxResults < 1 || maxResults > MaxRAGResults {
		return nil, apperrors.NewInvalidRequestError(
			fmt.Sprintf("max_results must be between 1 and %d, got %d", MaxRAGResults, maxResults))
	}

	req := models.NewLegacyBusinessSearch(query)
	req.Limit = maxResults
	req.SimilarityThreshold = ragSimilarityThreshold

	found, err := s.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	confidence := confidences(found.Results, query)
	sources := make([]RAGSource, len(found.Results))
	for i := range found.Results {
		b := &found.Results[i]
		sources[i] = RAGSource{
			BusinessName:   b.BusinessName,
			Context:        ragContext(b),
			HeritageScore:  b.HeritageScore,
			RelevanceScore: confidence[i],
		}
	}

	return &RAGResult{
		Success:                 true,
		Timestamp:               s.now().UTC().Format(time.RFC3339Nano),
		Mode:                    "simulation",
		Query:                   query,
		Response:                simulatedAnswer(query, sources),
		SourceContexts:          sources,
		TotalBusinessesSearched: len(all),
		RelevantBusinessesFound: len(found.Results),
		SearchMetadata:          found.SearchMetadata,
	}, nil
}

func ragContext(b *models.LegacyBusiness) string {
	var parts []string
	if b.FoundingStory != "" {
		parts = append(parts, "Origin: "+excerpt(b.FoundingStory))
	}
	if b.CulturalSignificance != "" {
		parts = append(parts, "Cultural Impact: "+excerpt(b.CulturalSignificance))
	}
	if len(b.UniqueFeatures) > 0 {
		parts = append(parts, "Notable Features: "+strings.Join(models.FirstN(b.UniqueFeatures, 3), ", "))
	}
	return strings.Join(parts, " | ")
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) > ragExcerptLength {
		r = r[:ragExcerptLength]
	}
	return string(r) + "..."
}

func simulatedAnswer(query string, sources []RAGSource) string {
	if len(sources) == 0 {
		return fmt.Sprintf("I couldn't find specific information about '%s' in the legacy business database.", query)
	}

	names := make([]string, len(sources))
	for i, src := range sources {
		names[i] = src.BusinessName
	}
	q := strings.ToLower(query)

	switch {
	case strings.Contains(q, "traditional") || strings.Contains(q, "authentic"):
		answer := fmt.Sprintf("Based on the legacy business registry, several businesses exemplify traditional practices: %s. "+
			"These establishments have maintained authentic cultural traditions for decades", strings.Join(models.FirstN(names, 3), ", "))
		if lo, hi, ok := scoreRange(sources); ok {
			answer += fmt.Sprintf(", with heritage scores ranging from %d to %d", lo, hi)
		}
		return answer + "."
	case strings.Contains(q, "food") || strings.Contains(q, "restaurant"):
		var food []string
		for _, src := range sources {
			c := strings.ToLower(src.Context)
			if strings.Contains(c, "food") || strings.Contains(c, "restaurant") {
				food = append(food, src.BusinessName)
			}
		}
		if len(food) > 0 {
			return fmt.Sprintf("The legacy food establishments in San Francisco include %s. "+
				"These businesses represent generations of culinary tradition and community gathering spaces.", strings.Join(food, ", "))
		}
	case strings.Contains(q, "history") || strings.Contains(q, "historic"):
		return fmt.Sprintf("Several historic businesses match your query: %s. These establishments have witnessed "+
			"San Francisco's transformation while maintaining their original character and community connections.", strings.Join(names, ", "))
	}
	return fmt.Sprintf("I found %d relevant legacy businesses: %s. Each has unique cultural significance and "+
		"contributes to San Francisco's diverse heritage landscape.", len(sources), strings.Join(names, ", "))
}

func scoreRange(sources []RAGSource) (lo, hi int, ok bool) {
	for _, src := range sources {
		if src.HeritageScore == nil || *src.HeritageScore == 0 {
			continue
		}
		v := *src.HeritageScore
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		lo, hi = min(lo, v), max(hi, v)
	}
	return lo, hi, ok
}

// confidences maps each result's relevance to query onto the confidence
// band, relative to the best result.
func confidences(results []models.LegacyBusiness, query string) []float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	scores := make([]float64, len(results))
	top := 0.0
	for i, b := range results {
		scores[i] = Relevance(b, q)
		top = math.Max(top, scores[i])
	}
	for i := range scores {
		c := confidenceFloor
		if top > 0 {
			c += confidenceSpan * scores[i] / top
		}
		scores[i] = round2(c)
	}
	return scores
}

// Contexts returns the narrative fields of one business with their retrieval
// weights. contextType narrows the output to one field.
func (s *Service) Contexts(ctx context.Context, name, contextType string) (*BusinessContexts, error) {
	contextType = strings.TrimSpace(contextType)
	if contextType != "" && !knownContextType(contextType) {
		return nil, apperrors.NewInvalidRequestError(fmt.Sprintf("unknown context_type %q, expected one of %s",
			contextType, strings.Join(ContextTypes(), ", ")))
	}

	b, err := s.store.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	out := &BusinessContexts{
		BusinessName:         b.BusinessName,
		Contexts:             map[string]NarrativeContext{},
		HeritageScore:        b.HeritageScore,
		ExtractionConfidence: b.ExtractionConfidence,
	}
	for _, f := range narrativeFields {
		if contextType != "" && contextType != f.key {
			continue
		}
		nc := NarrativeContext{RAGWeight: f.weight, SearchBoost: f.boost}
		if f.list != nil {
			items := f.list(b)
			if items == nil {
				items = []string{}
			}
			n := len(items)
			nc.Content, nc.ListLength = items, &n
		} else {
			text := f.text(b)
			n := len([]rune(text))
			nc.Content, nc.CharacterCount = text, &n
		}
		out.Contexts[f.key] = nc

		out.ContextSummary.TotalContexts++
		switch f.weight {
		case RAGWeightHigh:
			out.ContextSummary.HighWeightContexts++
		case RAGWeightMedium:
			out.ContextSummary.MediumWeightContexts++
		}
	}
	return out, nil
}

func knownContextType(t string) bool {
	for _, f := range narrativeFields {
		if f.key == t {
			return true
		}
	}
	return false
}

// Similar ranks other businesses by shared type, neighborhood and founding
// era. Matches under similarityThreshold are dropped.
func (s *Service) Similar(ctx context.Context, name string, limit int) ([]SimilarBusiness, error) {
	if limit < 1 || limit > MaxSimilarLimit {
		return nil, apperrors.NewInvalidRequestError(
			fmt.Sprintf("limit must be between 1 and %d, got %d", MaxSimilarLimit, limit))
	}
	target, err := s.store.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	out := []SimilarBusiness{}
	for i := range all {
		b := &all[i]
		if nameKey(b.BusinessName) == nameKey(target.BusinessName) {
			continue
		}
		score := Similarity(target, b)
		if score < similarityThreshold {
			continue
		}
		out = append(out, SimilarBusiness{
			Business:        b.Summary(),
			SimilarityScore: score,
			Certainty:       score,
			Distance:        round2(1 - score),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SimilarityScore > out[j].SimilarityScore })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Similarity scores b against target: 0.4 when b's type contains target's,
// 0.3 for the same neighborhood, and 0.3 or 0.2 for founding years under 20
// or 50 years apart.
func Similarity(target, b *models.LegacyBusiness) float64 {
	score := 0.0
	if t := strings.ToLower(target.BusinessType); t != "" && strings.Contains(strings.ToLower(b.BusinessType), t) {
		score += 0.4
	}
	if target.Neighborhood != "" && target.Neighborhood == b.Neighborhood {
		score += 0.3
	}
	if target.FoundingYear != nil && b.FoundingYear != nil && *target.FoundingYear > 0 && *b.FoundingYear > 0 {
		diff := *target.FoundingYear - *b.FoundingYear
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff < 20:
			score += 0.3
		case diff < 50:
			score += 0.2
		}
	}
	return round2(score)
}

// QuickSearch is the query-string form of Search with a compact result row.
func (s *Service) QuickSearch(ctx context.Context, p QuickSearchParams) (*QuickSearchResult, error) {
	if strings.TrimSpace(p.Query) == "" {
		return nil, apperrors.NewInvalidRequestError("q is required")
	}
	if p.Limit < 1 || p.Limit > MaxQuickLimit {
		return nil, apperrors.NewInvalidRequestError(
			fmt.Sprintf("limit must be between 1 and %d, got %d", MaxQuickLimit, p.Limit))
	}
	if p.HeritageScoreMin != nil && (*p.HeritageScoreMin < 0 || *p.HeritageScoreMin > 100) {
		return nil, apperrors.NewInvalidRequestError(
			fmt.Sprintf("min_heritage_score must be between 0 and 100, got %d", *p.HeritageScoreMin))
	}

	req := models.NewLegacyBusinessSearch(p.Query)
	req.Limit = p.Limit
	req.Neighborhood = p.Neighborhood
	req.BusinessType = p.BusinessType
	req.HeritageScoreMin = p.HeritageScoreMin

	found, err := s.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	confidence := confidences(found.Results, p.Query)
	rows := make([]QuickResult, len(found.Results))
	for i, b := range found.Results {
		rows[i] = QuickResult{
			BusinessName:  b.BusinessName,
			BusinessType:  b.BusinessType,
			Neighborhood:  b.Neighborhood,
			FoundingYear:  b.FoundingYear,
			HeritageScore: b.HeritageScore,
			Confidence:    confidence[i],
		}
	}
	return &QuickSearchResult{
		Results:         rows,
		Query:           found.Query,
		TotalCount:      found.Total,
		ExecutionTimeMS: found.SearchMetadata.ProcessingTimeMS,
		UsedFallback:    s.index != nil && found.SearchMetadata.Backend == BackendLocal,
	}, nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
