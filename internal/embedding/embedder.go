package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/talentmatch/talent-match/internal/types"
)

// ErrEmptyText is returned when a record has no labelled fields to embed.
var ErrEmptyText = errors.New("no text to embed")

// Embedder calls an embedding API in search-document mode.
// Embed returns one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}

// Generator builds labelled text for domain records and embeds it.
type Generator struct {
	embedder Embedder
}

// NewGenerator returns a Generator backed by embedder.
func NewGenerator(embedder Embedder) *Generator {
	return &Generator{embedder: embedder}
}

// Model reports the embedding model in use.
func (g *Generator) Model() string {
	return g.embedder.Model()
}

// JobEmbedding embeds a job posting.
func (g *Generator) JobEmbedding(ctx context.Context, job *types.JobPosting) ([]float32, error) {
	return g.embedOne(ctx, FormatLabelledText(JobFields(job)))
}

// ApplicantEmbedding embeds a candidate profile.
func (g *Generator) ApplicantEmbedding(ctx context.Context, p *types.CandidateProfile) ([]float32, error) {
	return g.embedOne(ctx, FormatLabelledText(ApplicantFields(p)))
}

// ResumeEmbedding embeds a resume through its stored feedback.
func (g *Generator) ResumeEmbedding(ctx context.Context, r *types.Resume) ([]float32, error) {
	return g.embedOne(ctx, FormatLabelledText(ResumeFields(r)))
}

func (g *Generator) embedOne(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	vectors, err := g.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to embed text with %s: %w", g.embedder.Model(), err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding API returned %d vectors for 1 text", len(vectors))
	}
	return vectors[0], nil
}
