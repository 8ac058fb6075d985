package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/talentmatch/talent-match/internal/rerank"
	"github.com/talentmatch/talent-match/internal/types"
)

// CandidateSource lists applicant profiles.
type CandidateSource interface {
	ListApplicants(ctx context.Context) ([]types.CandidateProfile, error)
}

// JobLookup loads one job. A missing job is (nil, nil).
type JobLookup interface {
	GetJob(ctx context.Context, id int64) (*types.JobPosting, error)
}

// CandidateResult is an ordered page of applicants with index-aligned scores.
type CandidateResult struct {
	Candidates []types.CandidateProfile
	Scores     []*int
	Dropped    int
	Scored     bool
}

// JobNotFoundError is returned when a candidate search references an unknown job.
type JobNotFoundError struct {
	ID int64
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job %d not found", e.ID)
}

// CandidateRecommender ranks applicants for a recruiter query or job.
type CandidateRecommender struct {
	candidates CandidateSource
	jobs       JobLookup
	reranker   rerank.Client
	fallback   FallbackScorer
	limit      int
	logger     *zap.Logger
}

// NewCandidateRecommender wires a CandidateRecommender. It accepts the same options as NewRecommender.
func NewCandidateRecommender(candidates CandidateSource, jobs JobLookup, reranker rerank.Client, opts ...Option) *CandidateRecommender {
	base := NewRecommender(nil, nil, reranker, opts...)
	return &CandidateRecommender{
		candidates: candidates,
		jobs:       jobs,
		reranker:   reranker,
		fallback:   base.fallback,
		limit:      base.limit,
		logger:     base.logger,
	}
}

// Recommend filters applicants and ranks them against the search term, extended
// with the title and required skills of the referenced job.
func (r *CandidateRecommender) Recommend(ctx context.Context, req types.RecommendCandidatesRequest) (*CandidateResult, error) {
	query := strings.TrimSpace(req.SearchTerm)
	if req.JobID != nil {
		job, err := r.jobs.GetJob(ctx, *req.JobID)
		if err != nil {
			return nil, &SourceError{Cause: err}
		}
		if job == nil {
			return nil, &JobNotFoundError{ID: *req.JobID}
		}
		query = types.FormatPlain(query, job.Title, strings.Join(job.RequiredSkills, " "))
	}

	profiles, err := r.candidates.ListApplicants(ctx)
	if err != nil {
		return nil, &SourceError{Cause: err}
	}
	filtered := FilterCandidates(profiles, req.Filters)

	if query == "" {
		sorted := make([]types.CandidateProfile, len(filtered))
		copy(sorted, filtered)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
		})
		if len(sorted) > r.limit {
			sorted = sorted[:r.limit]
		}
		return &CandidateResult{Candidates: sorted, Scores: r.fallback.Scores(len(sorted))}, nil
	}

	if len(filtered) == 0 {
		return &CandidateResult{Candidates: []types.CandidateProfile{}, Scores: []*int{}, Scored: true}, nil
	}

	docs := make([]rerank.Document, len(filtered))
	for i := range filtered {
		docs[i] = rerank.Document{ID: filtered[i].ID.String(), Text: filtered[i].RerankText()}
	}

	ranked, err := r.reranker.Rerank(ctx, query, docs, r.limit)
	if err != nil {
		return nil, &RerankError{Cause: err}
	}

	c := Compose(ranked, filtered, func(p *types.CandidateProfile) string { return p.ID.String() }, r.limit)
	if c.Dropped > 0 {
		r.logger.Warn("dropped ranked candidates with no matching record",
			zap.Int("dropped", c.Dropped),
			zap.Strings("ids", c.DroppedIDs))
	}
	return &CandidateResult{Candidates: c.Items, Scores: c.Scores, Dropped: c.Dropped, Scored: true}, nil
}
