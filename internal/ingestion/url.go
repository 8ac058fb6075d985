package ingestion

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/talentmatch/talent-match/internal/fetch"
	"github.com/talentmatch/talent-match/internal/logging"
)

var (
	// ErrHTTPRequestFailed is returned when the page cannot be fetched
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when a page yields no text
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// Fetcher retrieves a page, possibly from cache.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.CachedResult, error)
}

// Ingester fetches job posting pages and cleans their text.
type Ingester struct {
	fetcher Fetcher
	logger  *zap.Logger
}

// NewIngester returns an Ingester using fetcher.
func NewIngester(fetcher Fetcher, logger *zap.Logger) *Ingester {
	return &Ingester{fetcher: fetcher, logger: logging.OrNop(logger)}
}

// IngestFromURL fetches urlStr and returns the cleaned posting text.
// Platform-specific selectors are applied for known job boards.
func (i *Ingester) IngestFromURL(ctx context.Context, urlStr string) (string, *Metadata, error) {
	platform := fetch.DetectPlatform(urlStr)

	result, err := i.fetcher.Fetch(ctx, urlStr)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}

	text, err := fetch.ExtractMainText(result.HTML,
		fetch.PlatformContentSelectors(platform),
		fetch.PlatformNoiseSelectors(platform)...)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return "", nil, ErrContentExtractionFailed
	}

	metadata := NewMetadata(cleaned, urlStr)
	metadata.Platform = string(platform)
	metadata.FromCache = result.FromCache

	i.logger.Debug("ingested job posting",
		zap.String("url", urlStr),
		zap.String("platform", metadata.Platform),
		zap.Bool("from_cache", result.FromCache),
		zap.Int("html_bytes", len(result.HTML)),
		zap.Int("text_chars", len(cleaned)))
	return cleaned, metadata, nil
}
