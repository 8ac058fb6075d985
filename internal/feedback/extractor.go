// Package feedback produces structured resume critiques with a generative model.
package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/talentmatch/talent-match/internal/llm"
	"github.com/talentmatch/talent-match/internal/logging"
	"github.com/talentmatch/talent-match/internal/parsing"
	"github.com/talentmatch/talent-match/internal/prompts"
	"github.com/talentmatch/talent-match/internal/schemas"
	"github.com/talentmatch/talent-match/internal/types"
)

// MaxResumeChars bounds the resume text sent to the model.
const MaxResumeChars = 30000

// Extractor asks the model for resume feedback and validates the answer.
type Extractor struct {
	client llm.Client
	tier   llm.ModelTier
	logger *zap.Logger
}

// NewExtractor returns an Extractor using the standard model tier.
func NewExtractor(client llm.Client, logger *zap.Logger) *Extractor {
	return &Extractor{
		client: client,
		tier:   llm.TierStandard,
		logger: logging.OrNop(logger),
	}
}

// Extract returns structured feedback for resumeText.
func (e *Extractor) Extract(ctx context.Context, resumeText string) (*types.Feedback, error) {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return nil, &InputError{Message: "Could not extract text from the resume"}
	}
	if runes := []rune(resumeText); len(runes) > MaxResumeChars {
		resumeText = string(runes[:MaxResumeChars])
	}

	template, err := prompts.Get(prompts.FeedbackFile, prompts.ResumeFeedbackKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback prompt: %w", err)
	}
	prompt := prompts.Format(template, map[string]string{"ResumeText": resumeText})

	raw, err := e.client.GenerateJSON(ctx, prompt, e.tier)
	if err != nil {
		e.logger.Error("feedback generation failed", zap.String("model", e.client.GetModel(e.tier)), zap.Error(err))
		return nil, &UpstreamError{Cause: err}
	}

	fb, err := Decode(raw)
	if err != nil {
		e.logger.Warn("model returned unusable feedback",
			zap.Error(err),
			zap.String("raw", logging.Truncate(raw, logging.DefaultTruncateLimit)))
		return nil, err
	}

	e.logger.Debug("feedback extracted",
		zap.Int("skills", len(fb.Skills)),
		zap.Float64("overall_score", fb.OverallScore))
	return fb, nil
}

// Decode parses model output into Feedback. Fenced code blocks and
// surrounding prose are removed first.
func Decode(raw string) (*types.Feedback, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if !json.Valid([]byte(cleaned)) {
		return nil, &ParseError{Raw: raw}
	}

	if err := schemas.Validate(schemas.ResumeFeedback, cleaned); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return nil, &SchemaError{Raw: raw, Cause: err}
		}
		return nil, fmt.Errorf("failed to validate feedback: %w", err)
	}

	var fb types.Feedback
	if err := json.Unmarshal([]byte(cleaned), &fb); err != nil {
		return nil, &ParseError{Raw: raw, Cause: err}
	}

	fb.Skills = parsing.CanonicalSkills(fb.Skills)
	if err := fb.Validate(); err != nil {
		return nil, &SchemaError{Raw: raw, Cause: err}
	}
	return &fb, nil
}
