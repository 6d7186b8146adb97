// internal/legacy/elasticsearch.go
package legacy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	apperrors "github.com/johnhkchen/hack-stack/internal/common/errors"
	"github.com/johnhkchen/hack-stack/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

// IndexMapping is used by EnsureIndex when the registry index is created.
const IndexMapping = `{
  "mappings": {
    "properties": {
      "business_name":           {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "neighborhood":            {"type": "keyword"},
      "business_type":           {"type": "text"},
      "founding_year":           {"type": "integer"},
      "heritage_score":          {"type": "integer"},
      "founding_story":          {"type": "text"},
      "cultural_significance":   {"type": "text"},
      "community_impact":        {"type": "text"},
      "physical_traditions":     {"type": "text"},
      "historical_significance": {"type": "text"},
      "unique_features":         {"type": "text"},
      "demo_highlights":         {"type": "text"},
      "search_tags":             {"type": "keyword"}
    }
  }
}`

// boostedFields mirrors the Relevance weights.
var boostedFields = []string{
	"business_name^4",
	"founding_story^3",
	"cultural_significance^3",
	"community_impact^3",
	"physical_traditions^2",
	"historical_significance^2",
	"business_type^2",
	"unique_features^1.5",
	"demo_highlights^1.5",
}

// Searcher is a full-text backend for the registry.
type Searcher interface {
	Index(ctx context.Context, b *models.LegacyBusiness) error
	Search(ctx context.Context, req models.LegacyBusinessSearch) ([]models.LegacyBusiness, int, error)
}

type ElasticsearchIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchIndex(client *elasticsearch.Client, index string) *ElasticsearchIndex {
	return &ElasticsearchIndex{client: client, index: index}
}

// Index upserts b under its lower-cased name.
func (e *ElasticsearchIndex) Index(ctx context.Context, b *models.LegacyBusiness) error {
	body, err := json.Marshal(b)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("encode business: %w", err))
	}

	req := esapi.IndexRequest{
		Index:      e.index,
		DocumentID: nameKey(b.BusinessName),
		Body:       bytes.NewReader(body),
		Refresh:    "wait_for",
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return apperrors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperrors.NewSearchQueryFailedError("index_legacy_business", fmt.Errorf("%s", res.String()))
	}
	return nil
}

// IndexAll bulk-indexes businesses and reports how many were accepted.
func (e *ElasticsearchIndex) IndexAll(ctx context.Context, businesses []models.LegacyBusiness) (int, error) {
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     e.client,
		Index:      e.index,
		NumWorkers: 1,
		Refresh:    "wait_for",
	})
	if err != nil {
		return 0, apperrors.NewElasticsearchConnectionFailedError(err)
	}

	var failures []string
	var mu sync.Mutex
	for i := range businesses {
		body, err := json.Marshal(&businesses[i])
		if err != nil {
			_ = bi.Close(ctx)
			return 0, apperrors.NewInternalError(fmt.Errorf("encode business: %w", err))
		}
		name := businesses[i].BusinessName
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: nameKey(name),
			Body:       bytes.NewReader(body),
			OnFailure: func(_ context.Context, _ esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failures = append(failures, name+": "+err.Error())
					return
				}
				failures = append(failures, name+": "+res.Error.Reason)
			},
		})
		if err != nil {
			_ = bi.Close(ctx)
			return 0, apperrors.NewElasticsearchConnectionFailedError(err)
		}
	}
	if err := bi.Close(ctx); err != nil {
		return 0, apperrors.NewElasticsearchConnectionFailedError(err)
	}

	stats := bi.Stats()
	if len(failures) > 0 {
		return int(stats.NumIndexed), apperrors.NewSearchQueryFailedError("bulk_index_legacy_businesses",
			fmt.Errorf("%d documents failed: %s", len(failures), strings.Join(failures, "; ")))
	}
	return int(stats.NumIndexed), nil
}

// BuildQuery renders req as a search body. Filters mirror Filter; a blank
// query matches everything in store order.
func BuildQuery(req models.LegacyBusinessSearch) map[string]interface{} {
	var must []interface{}
	filter := []interface{}{}

	if q := strings.TrimSpace(req.Query); q != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q,
				"fields": boostedFields,
				"type":   "best_fields",
			},
		})
	}
	if req.Neighborhood != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"neighborhood": string(req.Neighborhood)},
		})
	}
	if req.BusinessType != "" {
		filter = append(filter, map[string]interface{}{
			"match_phrase": map[string]interface{}{"business_type": req.BusinessType},
		})
	}

	years := map[string]interface{}{}
	if req.FoundingYearMin != nil && *req.FoundingYearMin > 0 {
		years["gte"] = *req.FoundingYearMin
	}
	if req.FoundingYearMax != nil && *req.FoundingYearMax > 0 {
		years["lte"] = *req.FoundingYearMax
	}
	if len(years) > 0 {
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{"founding_year": years},
		})
	}
	if req.HeritageScoreMin != nil && *req.HeritageScoreMin > 0 {
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{"heritage_score": map[string]interface{}{"gte": *req.HeritageScoreMin}},
		})
	}

	boolQuery := map[string]interface{}{"filter": filter}
	if len(must) > 0 {
		boolQuery["must"] = must
	}

	return map[string]interface{}{
		"query":            map[string]interface{}{"bool": boolQuery},
		"from":             req.Offset,
		"size":             req.Limit,
		"track_total_hits": true,
	}
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source models.LegacyBusiness `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (e *ElasticsearchIndex) Search(ctx context.Context, req models.LegacyBusinessSearch) ([]models.LegacyBusiness, int, error) {
	body, err := json.Marshal(BuildQuery(req))
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, 0, apperrors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, 0, apperrors.NewIndexNotFoundError(e.index)
	}
	if res.IsError() {
		return nil, 0, apperrors.NewSearchQueryFailedError("search_legacy_businesses", fmt.Errorf("%s", res.String()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, apperrors.NewSearchQueryFailedError("search_legacy_businesses", fmt.Errorf("decode response: %w", err))
	}

	out := make([]models.LegacyBusiness, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, parsed.Hits.Total.Value, nil
}
