package embedding

import (
	"context"
	"fmt"

	cohere "github.com/cohere-ai/cohere-go/v2"
	"github.com/cohere-ai/cohere-go/v2/option"
)

// DefaultCohereModel is the Cohere embedding model.
const DefaultCohereModel = "embed-english-v3.0"

// CohereAPI is the subset of the Cohere SDK client used for embedding.
type CohereAPI interface {
	Embed(ctx context.Context, request *cohere.EmbedRequest, opts ...option.RequestOption) (*cohere.EmbedResponse, error)
}

// CohereEmbedder implements Embedder with the Cohere embed endpoint.
type CohereEmbedder struct {
	api   CohereAPI
	model string
}

// NewCohereEmbedder returns an embedder for model, or DefaultCohereModel when empty.
func NewCohereEmbedder(api CohereAPI, model string) *CohereEmbedder {
	if model == "" {
		model = DefaultCohereModel
	}
	return &CohereEmbedder{api: api, model: model}
}

// Model returns the configured model name.
func (e *CohereEmbedder) Model() string {
	return e.model
}

// Embed embeds texts as search documents.
func (e *CohereEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	resp, err := e.api.Embed(ctx, &cohere.EmbedRequest{
		Texts:     texts,
		Model:     cohere.String(e.model),
		InputType: cohere.EmbedInputTypeSearchDocument.Ptr(),
	})
	if err != nil {
		return nil, fmt.Errorf("cohere embed failed: %w", err)
	}

	if resp == nil || resp.EmbeddingsFloats == nil {
		return nil, fmt.Errorf("cohere embed returned no float embeddings")
	}
	raw := resp.EmbeddingsFloats.Embeddings
	if len(raw) != len(texts) {
		return nil, fmt.Errorf("cohere embed returned %d vectors for %d texts", len(raw), len(texts))
	}

	vectors := make([][]float32, len(raw))
	for i, v := range raw {
		vectors[i] = toFloat32(v)
	}
	return vectors, nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
