// Package rerank scores candidate documents against a free-text query using an external rerank API.
package rerank

import (
	"context"
	"errors"
)

// ErrEmptyQuery is returned when Rerank is called without a query. No request is made.
var ErrEmptyQuery = errors.New("rerank query is empty")

// Document is a record flattened to text for reranking.
type Document struct {
	ID   string
	Text string
}

// Result is one ranked document. Index points into the submitted documents.
type Result struct {
	ID             string
	Index          int
	RelevanceScore float64
}

// Client reranks documents by relevance to query.
// Results are in the service's order, highest relevance first, at most topN long.
type Client interface {
	Rerank(ctx context.Context, query string, docs []Document, topN int) ([]Result, error)
}
