package matching

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentmatch/talent-match/internal/logging"
	"github.com/talentmatch/talent-match/internal/rerank"
	"github.com/talentmatch/talent-match/internal/types"
)

// JobSource lists every job on the board.
type JobSource interface {
	ListAllJobs(ctx context.Context) ([]types.JobPosting, error)
}

// ResumeSource loads a resume. A missing resume is (nil, nil).
type ResumeSource interface {
	GetResume(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (*types.Resume, error)
}

// SourceError wraps a failure to load the records to rank.
type SourceError struct {
	Cause error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("failed to fetch jobs: %v", e.Cause)
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

// RerankError wraps a rerank API failure.
type RerankError struct {
	Cause error
}

func (e *RerankError) Error() string {
	return fmt.Sprintf("failed to rerank: %v", e.Cause)
}

func (e *RerankError) Unwrap() error {
	return e.Cause
}

// MatchResult is an ordered page of jobs with index-aligned scores.
// Scored is false on the recency path, where scores come from the fallback scorer.
type MatchResult struct {
	Jobs    []types.JobPosting
	Scores  []*int
	Dropped int
	Scored  bool
	Query   string
}

// Recommender runs the job recommendation pipeline.
type Recommender struct {
	jobs     JobSource
	resumes  ResumeSource
	reranker rerank.Client
	fallback FallbackScorer
	limit    int
	logger   *zap.Logger
}

// Option configures a Recommender.
type Option func(*Recommender)

// WithLimit sets the page size, at most types.DefaultMatchLimit.
func WithLimit(n int) Option {
	return func(r *Recommender) {
		if n > 0 {
			r.limit = min(n, types.DefaultMatchLimit)
		}
	}
}

// WithFallbackScorer sets how recency results are scored.
func WithFallbackScorer(s FallbackScorer) Option {
	return func(r *Recommender) {
		if s != nil {
			r.fallback = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Recommender) {
		r.logger = logging.OrNop(l)
	}
}

// NewRecommender wires a Recommender. resumes may be nil when resume-aware queries are not needed.
func NewRecommender(jobs JobSource, resumes ResumeSource, reranker rerank.Client, opts ...Option) *Recommender {
	r := &Recommender{
		jobs:     jobs,
		resumes:  resumes,
		reranker: reranker,
		fallback: Unscored{},
		limit:    types.DefaultMatchLimit,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recommend fetches jobs, filters them, and ranks them against the query.
// Without a query the filtered jobs are returned newest first.
func (r *Recommender) Recommend(ctx context.Context, q types.MatchQuery) (*MatchResult, error) {
	jobs, err := r.jobs.ListAllJobs(ctx)
	if err != nil {
		return nil, &SourceError{Cause: err}
	}

	filtered := FilterJobs(jobs, q.Filters)
	query := r.buildQuery(ctx, q)

	if query == "" {
		page := recent(filtered, r.limit)
		return &MatchResult{Jobs: page, Scores: r.fallback.Scores(len(page))}, nil
	}

	if len(filtered) == 0 {
		return &MatchResult{Jobs: []types.JobPosting{}, Scores: []*int{}, Scored: true, Query: query}, nil
	}

	docs := make([]rerank.Document, len(filtered))
	for i := range filtered {
		docs[i] = rerank.Document{ID: jobKey(&filtered[i]), Text: filtered[i].RerankText()}
	}

	ranked, err := r.reranker.Rerank(ctx, query, docs, r.limit)
	if err != nil {
		return nil, &RerankError{Cause: err}
	}

	c := Compose(ranked, filtered, jobKey, r.limit)
	if c.Dropped > 0 {
		r.logger.Warn("dropped ranked jobs with no matching record",
			zap.Int("dropped", c.Dropped),
			zap.Strings("ids", c.DroppedIDs))
	}

	return &MatchResult{
		Jobs:    c.Items,
		Scores:  c.Scores,
		Dropped: c.Dropped,
		Scored:  true,
		Query:   query,
	}, nil
}

// buildQuery appends the skills of the referenced resume to the search term.
// A missing or unreadable resume contributes nothing.
func (r *Recommender) buildQuery(ctx context.Context, q types.MatchQuery) string {
	query := strings.TrimSpace(q.SearchTerm)
	if q.ResumeID == nil || r.resumes == nil {
		return query
	}

	resume, err := r.resumes.GetResume(ctx, *q.ResumeID, q.OwnerID)
	if err != nil {
		r.logger.Warn("failed to load resume for query", zap.String("resume_id", q.ResumeID.String()), zap.Error(err))
		return query
	}
	if resume == nil {
		r.logger.Info("resume not found for query", zap.String("resume_id", q.ResumeID.String()))
		return query
	}

	skills := types.NormalizeSkills(resume.Skills())
	if len(skills) == 0 {
		return query
	}
	return strings.TrimSpace(query + " " + strings.Join(skills, " "))
}

// recent returns up to limit jobs, newest post date first. Ties keep input order.
func recent(jobs []types.JobPosting, limit int) []types.JobPosting {
	sorted := make([]types.JobPosting, len(jobs))
	copy(sorted, jobs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PostDate.After(sorted[j].PostDate)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func jobKey(j *types.JobPosting) string {
	return strconv.FormatInt(j.ID, 10)
}
