package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentmatch/talent-match/internal/ingestion"
	"github.com/talentmatch/talent-match/internal/llm"
	"github.com/talentmatch/talent-match/internal/parsing"
	"github.com/talentmatch/talent-match/internal/types"
)

// PageIngester returns the cleaned text of a job posting page.
type PageIngester interface {
	IngestFromURL(ctx context.Context, url string) (string, *ingestion.Metadata, error)
}

// URLImporter turns job posting pages into stored listings.
type URLImporter struct {
	*Importer
	pages  PageIngester
	client llm.Client
	now    func() time.Time
}

// NewURLImporter returns a URLImporter that stores through importer.
func NewURLImporter(importer *Importer, pages PageIngester, client llm.Client) *URLImporter {
	return &URLImporter{Importer: importer, pages: pages, client: client, now: time.Now}
}

// ImportFromURL fetches, parses, embeds and stores one posting.
// postedBy may be nil for system imports.
func (u *URLImporter) ImportFromURL(ctx context.Context, url string, postedBy *uuid.UUID) (*types.JobPosting, error) {
	text, meta, err := u.pages.IngestFromURL(ctx, url)
	if err != nil {
		return nil, err
	}
	return u.importText(ctx, text, url, meta, postedBy)
}

// ImportFromFile parses a local HTML or text posting.
func (u *URLImporter) ImportFromFile(ctx context.Context, path string, postedBy *uuid.UUID) (*types.JobPosting, error) {
	text, meta, err := ingestion.IngestFromFile(path)
	if err != nil {
		return nil, err
	}
	return u.importText(ctx, text, path, meta, postedBy)
}

// ImportURLs imports each URL, keyed by URL in the result.
func (u *URLImporter) ImportURLs(ctx context.Context, urls []string) Result {
	return run(ctx, u.Importer, len(urls), func(n int) string { return urls[n] },
		func(ctx context.Context, n int) error {
			_, err := u.ImportFromURL(ctx, urls[n], nil)
			return err
		})
}

func (u *URLImporter) importText(ctx context.Context, text, source string, meta *ingestion.Metadata, postedBy *uuid.UUID) (*types.JobPosting, error) {
	job, err := parsing.ParseJobPosting(ctx, u.client, text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse job posting from %s: %w", source, err)
	}
	job.PostedBy = postedBy
	if job.PostDate.IsZero() {
		job.PostDate = u.now().UTC()
	}
	if err := u.storeJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to store job posting from %s: %w", source, err)
	}

	fields := []zap.Field{zap.String("source", source), zap.Int64("job_id", job.ID)}
	if meta != nil {
		fields = append(fields, zap.String("platform", meta.Platform), zap.Bool("from_cache", meta.FromCache))
	}
	u.logger.Info("job posting imported", fields...)
	return job, nil
}
