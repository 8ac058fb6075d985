package matching

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/talentmatch/talent-match/internal/rerank"
	"github.com/talentmatch/talent-match/internal/types"
)

type fakeJobs struct {
	jobs []types.JobPosting
	err  error
}

func (f *fakeJobs) ListAllJobs(context.Context) ([]types.JobPosting, error) {
	return f.jobs, f.err
}

func (f *fakeJobs) GetJob(_ context.Context, id int64) (*types.JobPosting, error) {
	for i := range f.jobs {
		if f.jobs[i].ID == id {
			return &f.jobs[i], nil
		}
	}
	return nil, f.err
}

type fakeResumes struct {
	resumes map[uuid.UUID]*types.Resume
	err     error
}

func (f *fakeResumes) GetResume(_ context.Context, id uuid.UUID, _ *uuid.UUID) (*types.Resume, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resumes[id], nil
}

// keywordReranker scores documents by the share of query words they contain.
type keywordReranker struct {
	queries []string
	extra   []rerank.Result
	err     error
}

func (k *keywordReranker) Rerank(_ context.Context, query string, docs []rerank.Document, topN int) ([]rerank.Result, error) {
	k.queries = append(k.queries, query)
	if k.err != nil {
		return nil, k.err
	}
	words := strings.Fields(strings.ToLower(query))
	results := make([]rerank.Result, 0, len(docs))
	for i, d := range docs {
		text := strings.ToLower(d.Text)
		hits := 0
		for _, w := range words {
			if strings.Contains(text, w) {
				hits++
			}
		}
		results = append(results, rerank.Result{ID: d.ID, Index: i, RelevanceScore: float64(hits) / float64(len(words))})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].RelevanceScore > results[j].RelevanceScore })
	results = append(k.extra, results...)
	if len(results) > topN {
		results = results[:topN]
	}
	return results, nil
}

func datedJobs(n int) []types.JobPosting {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jobs := make([]types.JobPosting, n)
	for i := range jobs {
		// shuffled post dates: ids are not in date order
		day := (i * 7) % n
		jobs[i] = types.JobPosting{
			ID:             int64(i + 1),
			Title:          "Job " + strconv.Itoa(i+1),
			Company:        "Acme",
			EmploymentType: "Full-time",
			PostDate:       base.AddDate(0, 0, day),
		}
	}
	return jobs
}

func TestRecommend_EmptyQueryReturnsRecentJobs(t *testing.T) {
	reranker := &keywordReranker{}
	r := NewRecommender(&fakeJobs{jobs: datedJobs(15)}, nil, reranker, WithFallbackScorer(Placeholder{}))

	res, err := r.Recommend(context.Background(), types.MatchQuery{Filters: &types.Filters{}})
	require.NoError(t, err)

	require.Len(t, res.Jobs, 10)
	require.Len(t, res.Scores, 10)
	assert.False(t, res.Scored)
	for i := 1; i < len(res.Jobs); i++ {
		assert.True(t, res.Jobs[i-1].PostDate.After(res.Jobs[i].PostDate), "jobs must be strictly newest first")
	}
	for _, s := range res.Scores {
		require.NotNil(t, s)
		assert.GreaterOrEqual(t, *s, 80)
		assert.LessOrEqual(t, *s, 100)
	}
	assert.Empty(t, reranker.queries, "rerank must not be called without a query")
}

func TestRecommend_LimitNeverExceedsPageSize(t *testing.T) {
	r := NewRecommender(&fakeJobs{jobs: datedJobs(15)}, nil, &keywordReranker{}, WithLimit(25))

	res, err := r.Recommend(context.Background(), types.MatchQuery{})
	require.NoError(t, err)
	assert.Len(t, res.Jobs, types.DefaultMatchLimit)
}

func TestRecommend_EmptyQueryUnscoredByDefault(t *testing.T) {
	r := NewRecommender(&fakeJobs{jobs: datedJobs(3)}, nil, &keywordReranker{})

	res, err := r.Recommend(context.Background(), types.MatchQuery{})
	require.NoError(t, err)

	require.Len(t, res.Scores, 3)
	for _, s := range res.Scores {
		assert.Nil(t, s)
	}
}

func TestRecommend_FiltersWithoutQuerySkipRerank(t *testing.T) {
	jobs := boardJobs()
	reranker := &keywordReranker{}
	r := NewRecommender(&fakeJobs{jobs: jobs}, nil, reranker)

	res, err := r.Recommend(context.Background(), types.MatchQuery{Filters: &types.Filters{JobType: []string{"Full-time"}}})
	require.NoError(t, err)

	assert.ElementsMatch(t, []int64{1, 3}, ids(res.Jobs))
	assert.Len(t, res.Scores, 2)
	assert.Empty(t, reranker.queries)
}

func TestRecommend_ReactDeveloperRanksAboveSales(t *testing.T) {
	jobs := []types.JobPosting{
		{ID: 1, Title: "Sales Manager", Company: "Retail Co", Description: "Lead the regional sales team.", RequiredSkills: []string{"Negotiation"}},
		{ID: 2, Title: "React Developer", Company: "Acme", Description: "Build web apps.", RequiredSkills: []string{"React"}},
	}
	r := NewRecommender(&fakeJobs{jobs: jobs}, nil, &keywordReranker{})

	res, err := r.Recommend(context.Background(), types.MatchQuery{SearchTerm: "react developer"})
	require.NoError(t, err)

	require.Len(t, res.Jobs, 2)
	assert.Equal(t, "React Developer", res.Jobs[0].Title)
	assert.Equal(t, "Sales Manager", res.Jobs[1].Title)
	assert.True(t, res.Scored)
	assert.Equal(t, 100, *res.Scores[0])
	assert.Equal(t, 0, *res.Scores[1])
}

func TestRecommend_AppendsResumeSkills(t *testing.T) {
	resumeID := uuid.New()
	resumes := &fakeResumes{resumes: map[uuid.UUID]*types.Resume{
		resumeID: {ID: resumeID, Feedback: &types.Feedback{Skills: []string{"Go", "Kubernetes", "go"}}},
	}}
	reranker := &keywordReranker{}
	r := NewRecommender(&fakeJobs{jobs: boardJobs()}, resumes, reranker)

	_, err := r.Recommend(context.Background(), types.MatchQuery{SearchTerm: "backend", ResumeID: &resumeID})
	require.NoError(t, err)

	require.Len(t, reranker.queries, 1)
	assert.Equal(t, "backend Go Kubernetes", reranker.queries[0])
}

func TestRecommend_ResumeSkillsAloneFormAQuery(t *testing.T) {
	resumeID := uuid.New()
	resumes := &fakeResumes{resumes: map[uuid.UUID]*types.Resume{
		resumeID: {ID: resumeID, Feedback: &types.Feedback{Skills: []string{"SQL"}}},
	}}
	reranker := &keywordReranker{}
	r := NewRecommender(&fakeJobs{jobs: boardJobs()}, resumes, reranker)

	res, err := r.Recommend(context.Background(), types.MatchQuery{ResumeID: &resumeID})
	require.NoError(t, err)

	assert.Equal(t, []string{"SQL"}, reranker.queries)
	assert.True(t, res.Scored)
}

func TestRecommend_MissingResumeIsIgnored(t *testing.T) {
	missing := uuid.New()
	for _, resumes := range []*fakeResumes{
		{resumes: map[uuid.UUID]*types.Resume{}},
		{err: errors.New("connection reset")},
	} {
		reranker := &keywordReranker{}
		r := NewRecommender(&fakeJobs{jobs: boardJobs()}, resumes, reranker)

		_, err := r.Recommend(context.Background(), types.MatchQuery{SearchTerm: "engineer", ResumeID: &missing})
		require.NoError(t, err)
		assert.Equal(t, []string{"engineer"}, reranker.queries)
	}
}

func TestRecommend_SourceError(t *testing.T) {
	r := NewRecommender(&fakeJobs{err: errors.New("db down")}, nil, &keywordReranker{})

	_, err := r.Recommend(context.Background(), types.MatchQuery{SearchTerm: "go"})
	var sourceErr *SourceError
	require.ErrorAs(t, err, &sourceErr)
	assert.Contains(t, err.Error(), "db down")
}

func TestRecommend_RerankError(t *testing.T) {
	r := NewRecommender(&fakeJobs{jobs: boardJobs()}, nil, &keywordReranker{err: errors.New("rate limited")})

	_, err := r.Recommend(context.Background(), types.MatchQuery{SearchTerm: "go"})
	var rerankErr *RerankError
	require.ErrorAs(t, err, &rerankErr)
}

func TestRecommend_NoJobsAfterFilter(t *testing.T) {
	reranker := &keywordReranker{}
	r := NewRecommender(&fakeJobs{jobs: boardJobs()}, nil, reranker)

	res, err := r.Recommend(context.Background(), types.MatchQuery{
		SearchTerm: "go",
		Filters:    &types.Filters{JobType: []string{"Internship"}},
	})
	require.NoError(t, err)

	assert.Empty(t, res.Jobs)
	assert.Empty(t, res.Scores)
	assert.Empty(t, reranker.queries)
}

func TestRecommend_LogsDroppedResults(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	reranker := &keywordReranker{extra: []rerank.Result{{ID: "999", RelevanceScore: 1}}}
	r := NewRecommender(&fakeJobs{jobs: boardJobs()}, nil, reranker, WithLogger(zap.New(core)), WithLimit(3))

	res, err := r.Recommend(context.Background(), types.MatchQuery{SearchTerm: "engineer"})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Dropped)
	assert.LessOrEqual(t, len(res.Jobs), 3)
	assert.Equal(t, len(res.Jobs), len(res.Scores))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "dropped ranked jobs with no matching record", logs.All()[0].Message)
}
