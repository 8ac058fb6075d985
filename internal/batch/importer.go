// Package batch imports jobs and applicants in bulk with per-record results.
package batch

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/talentmatch/talent-match/internal/logging"
	"github.com/talentmatch/talent-match/internal/types"
)

// Store persists imported records.
type Store interface {
	CreateJob(ctx context.Context, job *types.JobPosting) error
	UpsertProfile(ctx context.Context, p *types.CandidateProfile) error
}

// EmbeddingSource computes record embeddings.
type EmbeddingSource interface {
	JobEmbedding(ctx context.Context, job *types.JobPosting) ([]float32, error)
	ApplicantEmbedding(ctx context.Context, p *types.CandidateProfile) ([]float32, error)
}

// Failure is one record that could not be imported.
type Failure struct {
	Key string `json:"key"`
	Err error  `json:"-"`
}

// Result reports every record of a batch. Succeeded and Failed keep input order.
type Result struct {
	Succeeded []string  `json:"succeeded"`
	Failed    []Failure `json:"failed"`
}

// OK reports whether every record was imported.
func (r Result) OK() bool {
	return len(r.Failed) == 0
}

// Total is the number of records processed.
func (r Result) Total() int {
	return len(r.Succeeded) + len(r.Failed)
}

// Summary is a one-line description of the result.
func (r Result) Summary() string {
	return fmt.Sprintf("%d imported, %d failed", len(r.Succeeded), len(r.Failed))
}

// Merge appends other to r.
func (r Result) Merge(other Result) Result {
	return Result{
		Succeeded: append(append([]string{}, r.Succeeded...), other.Succeeded...),
		Failed:    append(append([]Failure{}, r.Failed...), other.Failed...),
	}
}

// Option configures an Importer.
type Option func(*Importer)

// WithConcurrency bounds the number of records processed at once.
func WithConcurrency(n int) Option {
	return func(i *Importer) {
		if n > 0 {
			i.concurrency = n
		}
	}
}

// WithRate limits outbound embedding calls per second. Zero disables the limit.
func WithRate(perSecond float64) Option {
	return func(i *Importer) {
		if perSecond > 0 {
			i.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		} else {
			i.limiter = rate.NewLimiter(rate.Inf, 0)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(i *Importer) {
		i.logger = logging.OrNop(l)
	}
}

// Importer embeds and stores records. A failing record never aborts the batch.
type Importer struct {
	store       Store
	embedder    EmbeddingSource
	concurrency int
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// NewImporter returns an Importer processing one record at a time with no rate limit.
func NewImporter(store Store, embedder EmbeddingSource, opts ...Option) *Importer {
	i := &Importer{
		store:       store,
		embedder:    embedder,
		concurrency: 1,
		limiter:     rate.NewLimiter(rate.Inf, 0),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ImportJobs embeds and inserts each job record.
func (i *Importer) ImportJobs(ctx context.Context, records []JobRecord) Result {
	return run(ctx, i, len(records), func(n int) string { return records[n].Key() },
		func(ctx context.Context, n int) error {
			job, err := records[n].ToJobPosting()
			if err != nil {
				return err
			}
			return i.storeJob(ctx, job)
		})
}

// ImportApplicants embeds and upserts each applicant record.
func (i *Importer) ImportApplicants(ctx context.Context, records []ApplicantRecord) Result {
	return run(ctx, i, len(records), func(n int) string { return records[n].Key() },
		func(ctx context.Context, n int) error {
			profile, err := records[n].ToProfile()
			if err != nil {
				return err
			}
			if err := i.wait(ctx); err != nil {
				return err
			}
			embedding, err := i.embedder.ApplicantEmbedding(ctx, profile)
			if err != nil {
				return err
			}
			profile.Embedding = embedding
			return i.store.UpsertProfile(ctx, profile)
		})
}

func (i *Importer) storeJob(ctx context.Context, job *types.JobPosting) error {
	if err := i.wait(ctx); err != nil {
		return err
	}
	embedding, err := i.embedder.JobEmbedding(ctx, job)
	if err != nil {
		return err
	}
	job.Embedding = embedding
	return i.store.CreateJob(ctx, job)
}

func (i *Importer) wait(ctx context.Context) error {
	if err := i.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

// run processes n records with bounded concurrency and collects the outcome
// of each in input order.
func run(ctx context.Context, i *Importer, n int, key func(int) string, process func(context.Context, int) error) Result {
	errs := make([]error, n)

	var g errgroup.Group
	g.SetLimit(i.concurrency)
	for idx := 0; idx < n; idx++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return nil
			}
			errs[idx] = process(ctx, idx)
			return nil
		})
	}
	_ = g.Wait()

	result := Result{Succeeded: []string{}, Failed: []Failure{}}
	for idx, err := range errs {
		k := key(idx)
		if err != nil {
			i.logger.Warn("record import failed", zap.String("key", k), zap.Error(err))
			result.Failed = append(result.Failed, Failure{Key: k, Err: err})
			continue
		}
		i.logger.Debug("record imported", zap.String("key", k))
		result.Succeeded = append(result.Succeeded, k)
	}
	i.logger.Info("batch finished",
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)))
	return result
}

// FailureReport lists failed keys and their errors, one per line.
func (r Result) FailureReport() string {
	var sb strings.Builder
	for _, f := range r.Failed {
		fmt.Fprintf(&sb, "%s: %v\n", f.Key, f.Err)
	}
	return sb.String()
}
