// internal/storage/candidates.go
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"matching-workers/internal/common/errors"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// CandidateSearch pulls candidate listings for a search request out of the
// property index. The query is a coarse pre-filter on contract, location and
// price; the scoring engine does the fine-grained work on what comes back.
type CandidateSearch struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewCandidateSearch(client *elasticsearch.Client, index string, log logger.Logger) *CandidateSearch {
	return &CandidateSearch{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "candidate-search"}),
	}
}

// Search returns up to limit candidate properties for the request.
func (s *CandidateSearch) Search(ctx context.Context, req models.SearchRequest, limit int) ([]models.Property, error) {
	queryBody := buildCandidateQuery(req)

	body, err := json.Marshal(queryBody)
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(s.index, err)
	}

	from := 0
	searchReq := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
		From:  &from,
		Size:  &limit,
	}

	res, err := searchReq.Do(ctx, s.client)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewSearchTimeoutError(s.index)
		}
		return nil, errors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewSearchQueryFailedError(s.index, fmt.Errorf("search query failed: %s", res.Status()))
	}

	var envelope struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Property `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, errors.NewSearchQueryFailedError(s.index, err)
	}

	properties := make([]models.Property, 0, len(envelope.Hits.Hits))
	for _, hit := range envelope.Hits.Hits {
		properties = append(properties, hit.Source)
	}

	s.logger.Debug("candidate search completed", map[string]interface{}{
		"requestId": req.ID,
		"totalHits": envelope.Hits.Total.Value,
		"returned":  len(properties),
	})

	return properties, nil
}

// buildCandidateQuery builds the bool filter for a search request. Only hard
// constraints become filters; soft preferences stay out so the scorer can
// grade near misses.
func buildCandidateQuery(req models.SearchRequest) map[string]interface{} {
	filterClauses := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"contract": req.Contract},
		},
	}

	if len(req.Cities) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"city": lowerAll(req.Cities)},
		})
	}

	if len(req.Kinds) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"kind": lowerAll(req.Kinds)},
		})
	}

	// Price pre-filter widened by 50% above the max so above-budget listings
	// still reach the scorer, which grades them down instead of dropping them.
	if req.PriceMax != nil && *req.PriceMax > 0 {
		priceField := "priceSale"
		if req.Contract == models.ContractRent {
			priceField = "monthlyRent"
		}
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				priceField: map[string]interface{}{
					"lte": *req.PriceMax * 1.5,
				},
			},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": filterClauses,
			},
		},
	}
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(strings.TrimSpace(v)))
	}
	return out
}
