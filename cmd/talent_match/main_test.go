package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentmatch/talent-match/internal/batch"
	"github.com/talentmatch/talent-match/internal/matching"
	"github.com/talentmatch/talent-match/internal/observability"
	"github.com/talentmatch/talent-match/internal/types"
)

// executeCommand runs the root command in-process.
func executeCommand(t *testing.T, args ...string) error {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	return rootCmd.Execute()
}

func TestImportCommand_RequiresInput(t *testing.T) {
	importJobsFile, importApplicantsFile = "", ""
	err := executeCommand(t, "import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one of --jobs or --applicants")
}

func TestImportCommand_BadFileFailsBeforeConnecting(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	path := filepath.Join(t.TempDir(), "jobs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	err := executeCommand(t, "import", "--jobs", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestImportCommand_RequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TALENT_MATCH_DATABASE_URL", "")
	path := filepath.Join(t.TempDir(), "jobs.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))

	err := executeCommand(t, "import", "--jobs", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
}

func TestValidateImportJobArgs(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		urls    []string
		wantErr string
	}{
		{name: "urls", urls: []string{"https://jobs.example.com/1"}},
		{name: "file", file: "posting.html"},
		{name: "neither", wantErr: "either --file or at least one URL"},
		{name: "both", file: "posting.html", urls: []string{"https://x"}, wantErr: "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateImportJobArgs(tt.file, tt.urls)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRecommendJobs_InvalidResumeID(t *testing.T) {
	t.Cleanup(func() { recResumeID = "" })
	err := executeCommand(t, "recommend", "jobs", "--search", "go", "--resume-id", "not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid query")
}

func TestJobsRequest_Filters(t *testing.T) {
	recSearch, recJobTypes = "golang", []string{"Remote"}
	t.Cleanup(func() { recSearch, recJobTypes = "", nil })

	req, err := jobsRequest()
	require.NoError(t, err)
	assert.Equal(t, "golang", req.SearchTerm)
	require.NotNil(t, req.Filters)
	assert.Equal(t, []string{"Remote"}, req.Filters.JobType)

	recJobTypes = nil
	req, err = jobsRequest()
	require.NoError(t, err)
	assert.Nil(t, req.Filters)
}

func TestPrintJobs_JSONUsesArrays(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJobs(&buf, &matching.MatchResult{}, true))
	assert.JSONEq(t, `{"jobs":[],"matchScores":[]}`, buf.String())

	buf.Reset()
	require.NoError(t, printCandidates(&buf, &matching.CandidateResult{}, false))
	assert.Contains(t, buf.String(), "No matching candidates")
}

type fakeImporter struct {
	jobs, applicants batch.Result
	calls            []string
}

func (f *fakeImporter) ImportJobs(context.Context, []batch.JobRecord) batch.Result {
	f.calls = append(f.calls, "jobs")
	return f.jobs
}

func (f *fakeImporter) ImportApplicants(context.Context, []batch.ApplicantRecord) batch.Result {
	f.calls = append(f.calls, "applicants")
	return f.applicants
}

func TestImportRecords(t *testing.T) {
	ctx := context.Background()
	jobs := []batch.JobRecord{{Title: "Engineer", Company: "Acme"}}
	applicants := []batch.ApplicantRecord{{FullName: "Ada"}}

	t.Run("all succeed", func(t *testing.T) {
		var buf bytes.Buffer
		imp := &fakeImporter{
			jobs:       batch.Result{Succeeded: []string{"Acme/Engineer"}},
			applicants: batch.Result{Succeeded: []string{"Ada"}},
		}
		err := importRecords(ctx, imp, jobs, applicants, observability.NewPrinter(&buf))
		require.NoError(t, err)
		assert.Equal(t, []string{"jobs", "applicants"}, imp.calls)
		assert.Contains(t, buf.String(), "jobs: 1 imported, 0 failed")
	})

	t.Run("one failure fails the command but runs both batches", func(t *testing.T) {
		var buf bytes.Buffer
		imp := &fakeImporter{
			jobs:       batch.Result{Failed: []batch.Failure{{Key: "Acme/Engineer", Err: errors.New("embed failed")}}},
			applicants: batch.Result{Succeeded: []string{"Ada"}},
		}
		err := importRecords(ctx, imp, jobs, applicants, observability.NewPrinter(&buf))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 imported, 1 failed")
		assert.Equal(t, []string{"jobs", "applicants"}, imp.calls)
		assert.Contains(t, buf.String(), "embed failed")
	})

	t.Run("skips empty inputs", func(t *testing.T) {
		imp := &fakeImporter{}
		require.NoError(t, importRecords(ctx, imp, nil, applicants, observability.NewPrinter(&bytes.Buffer{})))
		assert.Equal(t, []string{"applicants"}, imp.calls)
	})
}

func TestRecommendFilters_Empty(t *testing.T) {
	assert.Nil(t, recommendFilters())
	assert.True(t, (*types.Filters)(nil).IsEmpty())
}
