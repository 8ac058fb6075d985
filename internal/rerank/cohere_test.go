package rerank

import (
	"context"
	"errors"
	"testing"

	cohere "github.com/cohere-ai/cohere-go/v2"
	"github.com/cohere-ai/cohere-go/v2/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCohere struct {
	calls []*cohere.RerankRequest
	resp  *cohere.RerankResponse
	err   error
}

func (f *fakeCohere) Rerank(_ context.Context, req *cohere.RerankRequest, _ ...option.RequestOption) (*cohere.RerankResponse, error) {
	f.calls = append(f.calls, req)
	return f.resp, f.err
}

func docs() []Document {
	return []Document{
		{ID: "1", Text: "Sales Associate Retail Co"},
		{ID: "2", Text: "Frontend Engineer Acme React TypeScript"},
		{ID: "3", Text: "Data Analyst Initech SQL"},
	}
}

func TestCohereClient_Rerank(t *testing.T) {
	api := &fakeCohere{resp: &cohere.RerankResponse{Results: []*cohere.RerankResponseResultsItem{
		{Index: 1, RelevanceScore: 0.93},
		{Index: 2, RelevanceScore: 0.41},
		{Index: 0, RelevanceScore: 0.02},
	}}}
	c := NewCohereClient(api, "")

	results, err := c.Rerank(context.Background(), "react", docs(), 10)
	require.NoError(t, err)

	assert.Equal(t, []Result{
		{ID: "2", Index: 1, RelevanceScore: 0.93},
		{ID: "3", Index: 2, RelevanceScore: 0.41},
		{ID: "1", Index: 0, RelevanceScore: 0.02},
	}, results)

	require.Len(t, api.calls, 1)
	req := api.calls[0]
	assert.Equal(t, DefaultModel, *req.Model)
	assert.Equal(t, "react", req.Query)
	assert.Equal(t, 3, *req.TopN, "topN is capped at the number of documents")
	require.Len(t, req.Documents, 3)
	assert.Equal(t, "Frontend Engineer Acme React TypeScript", req.Documents[1].String)
}

func TestCohereClient_EmptyQuery(t *testing.T) {
	api := &fakeCohere{}
	c := NewCohereClient(api, "")

	_, err := c.Rerank(context.Background(), "   ", docs(), 10)
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Empty(t, api.calls)
}

func TestCohereClient_NoDocuments(t *testing.T) {
	api := &fakeCohere{}
	results, err := NewCohereClient(api, "").Rerank(context.Background(), "go", nil, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, api.calls)
}

func TestCohereClient_Errors(t *testing.T) {
	c := NewCohereClient(&fakeCohere{err: errors.New("503")}, "rerank-english-v3.0")
	_, err := c.Rerank(context.Background(), "go", docs(), 2)
	assert.ErrorContains(t, err, "cohere rerank failed")

	c = NewCohereClient(&fakeCohere{resp: &cohere.RerankResponse{Results: []*cohere.RerankResponseResultsItem{{Index: 7}}}}, "")
	_, err = c.Rerank(context.Background(), "go", docs(), 2)
	assert.ErrorContains(t, err, "index 7")
}
