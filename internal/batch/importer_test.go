package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentmatch/talent-match/internal/ingestion"
	"github.com/talentmatch/talent-match/internal/llm"
	"github.com/talentmatch/talent-match/internal/types"
)

type fakeStore struct {
	mu       sync.Mutex
	jobs     []*types.JobPosting
	profiles map[uuid.UUID]*types.CandidateProfile
	failOn   string
}

func newFakeStore() *fakeStore {
	return &fakeStore{profiles: make(map[uuid.UUID]*types.CandidateProfile)}
}

func (s *fakeStore) CreateJob(_ context.Context, job *types.JobPosting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job.Title == s.failOn {
		return errors.New("insert failed")
	}
	job.ID = int64(len(s.jobs) + 1)
	s.jobs = append(s.jobs, job)
	return nil
}

func (s *fakeStore) UpsertProfile(_ context.Context, p *types.CandidateProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
	return nil
}

type fakeEmbedder struct {
	calls   atomic.Int32
	failFor string
}

func (e *fakeEmbedder) JobEmbedding(_ context.Context, job *types.JobPosting) ([]float32, error) {
	e.calls.Add(1)
	if job.Title == e.failFor {
		return nil, errors.New("embedding api unavailable")
	}
	return []float32{0.1, 0.2}, nil
}

func (e *fakeEmbedder) ApplicantEmbedding(_ context.Context, p *types.CandidateProfile) ([]float32, error) {
	e.calls.Add(1)
	if p.FullName == e.failFor {
		return nil, errors.New("embedding api unavailable")
	}
	return []float32{0.3, 0.4}, nil
}

func jobRecords(titles ...string) []JobRecord {
	records := make([]JobRecord, 0, len(titles))
	for _, title := range titles {
		records = append(records, JobRecord{
			Title:          title,
			Company:        "Acme",
			Description:    "Build things",
			RequiredSkills: []string{"go", "Go", "postgres"},
			PostDate:       "2024-03-01",
		})
	}
	return records
}

func TestImportJobs_AllSucceed(t *testing.T) {
	store := newFakeStore()
	embedder := &fakeEmbedder{}
	imp := NewImporter(store, embedder, WithConcurrency(3))

	result := imp.ImportJobs(context.Background(), jobRecords("A", "B", "C", "D"))

	assert.True(t, result.OK())
	assert.Equal(t, []string{"A @ Acme", "B @ Acme", "C @ Acme", "D @ Acme"}, result.Succeeded)
	assert.Len(t, store.jobs, 4)
	assert.EqualValues(t, 4, embedder.calls.Load())
	for _, job := range store.jobs {
		assert.Equal(t, []float32{0.1, 0.2}, job.Embedding)
		assert.Equal(t, 2024, job.PostDate.Year())
	}
}

func TestImportJobs_FailuresDoNotAbortBatch(t *testing.T) {
	store := newFakeStore()
	store.failOn = "C"
	embedder := &fakeEmbedder{failFor: "A"}
	imp := NewImporter(store, embedder)

	records := jobRecords("A", "B", "C", "D")
	records = append(records, JobRecord{Title: "No company"})

	result := imp.ImportJobs(context.Background(), records)

	assert.False(t, result.OK())
	assert.Equal(t, 5, result.Total())
	assert.Equal(t, []string{"B @ Acme", "D @ Acme"}, result.Succeeded)
	require.Len(t, result.Failed, 3)
	assert.Equal(t, "A @ Acme", result.Failed[0].Key)
	assert.Contains(t, result.Failed[0].Err.Error(), "embedding api unavailable")
	assert.Equal(t, "C @ Acme", result.Failed[1].Key)
	assert.Equal(t, "No company", result.Failed[2].Key)
	assert.Equal(t, "2 imported, 3 failed", result.Summary())
	assert.Contains(t, result.FailureReport(), "C @ Acme: insert failed")
}

func TestImportJobs_InvalidPostDate(t *testing.T) {
	records := jobRecords("A")
	records[0].PostDate = "yesterday"

	result := NewImporter(newFakeStore(), &fakeEmbedder{}).ImportJobs(context.Background(), records)

	require.Len(t, result.Failed, 1)
	assert.Contains(t, result.Failed[0].Err.Error(), "invalid postDate")
}

func TestImportJobs_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	embedder := &fakeEmbedder{}

	result := NewImporter(newFakeStore(), embedder).ImportJobs(ctx, jobRecords("A", "B"))

	assert.Empty(t, result.Succeeded)
	require.Len(t, result.Failed, 2)
	assert.ErrorIs(t, result.Failed[0].Err, context.Canceled)
	assert.Zero(t, embedder.calls.Load())
}

func TestImportJobs_RateLimited(t *testing.T) {
	imp := NewImporter(newFakeStore(), &fakeEmbedder{}, WithRate(20), WithConcurrency(4))

	start := time.Now()
	result := imp.ImportJobs(context.Background(), jobRecords("A", "B", "C"))

	assert.True(t, result.OK())
	// burst of one: the second and third calls each wait ~50ms
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestImportApplicants(t *testing.T) {
	years := 4
	store := newFakeStore()
	imp := NewImporter(store, &fakeEmbedder{failFor: "Broken"}, WithConcurrency(2))

	records := []ApplicantRecord{
		{FullName: "Jane Doe", Email: "jane@example.com", Skills: []string{"python", "Python"}, YearsOfExperience: &years},
		{FullName: "Broken", Email: "broken@example.com"},
		{FullName: "Bad Email", Email: "not-an-email"},
		{ID: "8a1f6d52-2b7e-4c1e-9c57-7f3f0d7a2b10", FullName: "With Id"},
	}
	result := imp.ImportApplicants(context.Background(), records)

	assert.Equal(t, []string{"jane@example.com", "With Id"}, result.Succeeded)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, "broken@example.com", result.Failed[0].Key)
	assert.Equal(t, "not-an-email", result.Failed[1].Key)

	require.Len(t, store.profiles, 2)
	explicit := store.profiles[uuid.MustParse("8a1f6d52-2b7e-4c1e-9c57-7f3f0d7a2b10")]
	require.NotNil(t, explicit)
	assert.Equal(t, types.UserTypeApplicant, explicit.UserType)
	assert.Equal(t, []float32{0.3, 0.4}, explicit.Embedding)
}

func TestApplicantRecord_StableID(t *testing.T) {
	a := ApplicantRecord{FullName: "Jane", Email: "Jane@Example.com"}
	b := ApplicantRecord{FullName: "Jane D.", Email: "jane@example.com"}

	pa, err := a.ToProfile()
	require.NoError(t, err)
	pb, err := b.ToProfile()
	require.NoError(t, err)
	assert.Equal(t, pa.ID, pb.ID)
}

func TestLoadJobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	data := `[{"title":"Go Engineer","company":"Acme","workArrangement":"Remote","requiredSkills":["Go"],"postDate":"2024-05-01T10:00:00Z"}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	records, err := LoadJobs(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Remote", records[0].WorkArrangement)
	assert.Equal(t, []string{"Go"}, records[0].RequiredSkills)

	_, err = LoadJobs(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadApplicants_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applicants.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"fullName":`), 0o600))

	_, err := LoadApplicants(path)
	assert.ErrorContains(t, err, "failed to parse")
}

type fakePages struct {
	text string
	err  error
}

func (p *fakePages) IngestFromURL(_ context.Context, url string) (string, *ingestion.Metadata, error) {
	if p.err != nil {
		return "", nil, p.err
	}
	meta := ingestion.NewMetadata(p.text, url)
	meta.Platform = "greenhouse"
	return p.text, meta, nil
}

type fakeLLM struct {
	response string
}

func (f *fakeLLM) GenerateContent(context.Context, string, llm.ModelTier) (string, error) {
	return f.response, nil
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateContent(ctx, prompt, tier)
}

func (f *fakeLLM) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeLLM) Close() error                  { return nil }

const parsedPosting = "```json\n" + `{
	"title": "Backend Engineer",
	"company": "Acme",
	"location": "Berlin",
	"work_arrangement": "remote",
	"description": "Own the API.",
	"required_skills": ["golang", "postgres"]
}` + "\n```"

func TestImportFromURL(t *testing.T) {
	store := newFakeStore()
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	poster := uuid.New()

	u := NewURLImporter(NewImporter(store, &fakeEmbedder{}), &fakePages{text: "Backend Engineer at Acme"}, &fakeLLM{response: parsedPosting})
	u.now = func() time.Time { return fixed }

	job, err := u.ImportFromURL(context.Background(), "https://boards.greenhouse.io/acme/jobs/1", &poster)
	require.NoError(t, err)

	assert.Equal(t, int64(1), job.ID)
	assert.Equal(t, "Backend Engineer", job.Title)
	assert.Equal(t, fixed, job.PostDate)
	assert.Equal(t, &poster, job.PostedBy)
	assert.Equal(t, []float32{0.1, 0.2}, job.Embedding)
	require.Len(t, store.jobs, 1)
}

func TestImportURLs_ReportsPerURL(t *testing.T) {
	u := NewURLImporter(NewImporter(newFakeStore(), &fakeEmbedder{}),
		&fakePages{err: ingestion.ErrHTTPRequestFailed}, &fakeLLM{})

	result := u.ImportURLs(context.Background(), []string{"https://a.example/1", "https://b.example/2"})

	assert.Empty(t, result.Succeeded)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, "https://a.example/1", result.Failed[0].Key)
	assert.ErrorIs(t, result.Failed[1].Err, ingestion.ErrHTTPRequestFailed)
}

func TestImportFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posting.txt")
	require.NoError(t, os.WriteFile(path, []byte("Backend Engineer\nAcme\nOwn the API."), 0o600))

	store := newFakeStore()
	u := NewURLImporter(NewImporter(store, &fakeEmbedder{}), &fakePages{}, &fakeLLM{response: parsedPosting})

	job, err := u.ImportFromFile(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Nil(t, job.PostedBy)
	assert.False(t, job.PostDate.IsZero())
}
