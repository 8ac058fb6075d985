package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

// DefaultGeminiModel is the Gemini embedding model.
const DefaultGeminiModel = "text-embedding-004"

// GeminiEmbedder implements Embedder with the Gemini batch embedding endpoint.
type GeminiEmbedder struct {
	model *genai.EmbeddingModel
	name  string
}

// NewGeminiEmbedder returns an embedder for model, or DefaultGeminiModel when empty.
func NewGeminiEmbedder(client *genai.Client, model string) *GeminiEmbedder {
	if model == "" {
		model = DefaultGeminiModel
	}
	em := client.EmbeddingModel(model)
	em.TaskType = genai.TaskTypeRetrievalDocument
	return &GeminiEmbedder{model: em, name: model}
}

// Model returns the configured model name.
func (e *GeminiEmbedder) Model() string {
	return e.name
}

// Embed embeds texts as retrieval documents.
func (e *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	batch := e.model.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}

	resp, err := e.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("gemini embed failed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini embed returned %d vectors for %d texts", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil {
			return nil, fmt.Errorf("gemini embed returned empty vector at %d", i)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}
