package rerank

import (
	"context"
	"fmt"
	"strings"

	cohere "github.com/cohere-ai/cohere-go/v2"
	"github.com/cohere-ai/cohere-go/v2/option"
)

// DefaultModel is the Cohere rerank model.
const DefaultModel = "rerank-english-v2.0"

// CohereAPI is the subset of the Cohere SDK client used for reranking.
type CohereAPI interface {
	Rerank(ctx context.Context, request *cohere.RerankRequest, opts ...option.RequestOption) (*cohere.RerankResponse, error)
}

// CohereClient implements Client with the Cohere rerank endpoint.
type CohereClient struct {
	api   CohereAPI
	model string
}

// NewCohereClient returns a reranker for model, or DefaultModel when empty.
func NewCohereClient(api CohereAPI, model string) *CohereClient {
	if model == "" {
		model = DefaultModel
	}
	return &CohereClient{api: api, model: model}
}

// Rerank submits docs to Cohere. TopN is capped at len(docs).
func (c *CohereClient) Rerank(ctx context.Context, query string, docs []Document, topN int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if len(docs) == 0 {
		return []Result{}, nil
	}
	if topN <= 0 || topN > len(docs) {
		topN = len(docs)
	}

	items := make([]*cohere.RerankRequestDocumentsItem, len(docs))
	for i, d := range docs {
		items[i] = &cohere.RerankRequestDocumentsItem{String: d.Text}
	}

	resp, err := c.api.Rerank(ctx, &cohere.RerankRequest{
		Model:     cohere.String(c.model),
		Query:     query,
		Documents: items,
		TopN:      cohere.Int(topN),
	})
	if err != nil {
		return nil, fmt.Errorf("cohere rerank failed: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("cohere rerank returned no response")
	}

	results := make([]Result, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r == nil {
			continue
		}
		if r.Index < 0 || r.Index >= len(docs) {
			return nil, fmt.Errorf("cohere rerank returned index %d for %d documents", r.Index, len(docs))
		}
		results = append(results, Result{
			ID:             docs[r.Index].ID,
			Index:          r.Index,
			RelevanceScore: r.RelevanceScore,
		})
	}
	return results, nil
}
