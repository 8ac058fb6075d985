package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/talentmatch/talent-match/internal/config"
	"github.com/talentmatch/talent-match/internal/matching"
	"github.com/talentmatch/talent-match/internal/observability"
	"github.com/talentmatch/talent-match/internal/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Run a recommendation query from the terminal",
}

var recommendJobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Rank jobs for a search term and optional resume",
	RunE:  runRecommendJobs,
}

var recommendCandidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Rank applicants for a search term and optional job",
	RunE:  runRecommendCandidates,
}

var (
	recSearch     string
	recResumeID   string
	recJobID      int64
	recJobTypes   []string
	recLevels     []string
	recLocations  []string
	recJSONOutput bool
)

func init() {
	for _, c := range []*cobra.Command{recommendJobsCmd, recommendCandidatesCmd} {
		c.Flags().StringVarP(&recSearch, "search", "s", "", "Search term")
		c.Flags().StringSliceVar(&recJobTypes, "job-type", nil, "Job type filter (Full-time, Remote, ...)")
		c.Flags().StringSliceVar(&recLevels, "experience-level", nil, "Experience level filter")
		c.Flags().StringSliceVar(&recLocations, "location", nil, "Location filter")
		c.Flags().BoolVar(&recJSONOutput, "json", false, "Print the API response JSON")
	}
	recommendJobsCmd.Flags().StringVar(&recResumeID, "resume-id", "", "Resume whose skills extend the query")
	recommendCandidatesCmd.Flags().Int64Var(&recJobID, "job-id", 0, "Job whose title and skills extend the query")

	recommendCmd.AddCommand(recommendJobsCmd, recommendCandidatesCmd)
	rootCmd.AddCommand(recommendCmd)
}

func recommendFilters() *types.Filters {
	f := &types.Filters{JobType: recJobTypes, ExperienceLevel: recLevels, Location: recLocations}
	if f.IsEmpty() {
		return nil
	}
	return f
}

// jobsRequest builds and validates the request from flags.
func jobsRequest() (types.RecommendJobsRequest, error) {
	req := types.RecommendJobsRequest{SearchTerm: recSearch, Filters: recommendFilters(), ResumeID: recResumeID}
	if err := req.Validate(); err != nil {
		return req, fmt.Errorf("invalid query: %w", err)
	}
	return req, nil
}

func candidatesRequest() (types.RecommendCandidatesRequest, error) {
	req := types.RecommendCandidatesRequest{SearchTerm: recSearch, Filters: recommendFilters()}
	if recJobID != 0 {
		req.JobID = &recJobID
	}
	if err := req.Validate(); err != nil {
		return req, fmt.Errorf("invalid query: %w", err)
	}
	return req, nil
}

// openRecommendApp connects what both recommendation commands need.
func openRecommendApp(ctx context.Context) (*app, error) {
	a, err := newApp(config.RequireDatabase, config.RequireCohere)
	if err != nil {
		return nil, err
	}
	if err := a.openDB(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func runRecommendJobs(cmd *cobra.Command, _ []string) error {
	req, err := jobsRequest()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	a, err := openRecommendApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	// No owner: the CLI may read any resume.
	recommender := matching.NewRecommender(a.db, a.db, a.reranker(), a.matchingOptions()...)
	result, err := recommender.Recommend(ctx, req.ToQuery(nil))
	if err != nil {
		return err
	}
	return printJobs(os.Stdout, result, recJSONOutput)
}

func runRecommendCandidates(cmd *cobra.Command, _ []string) error {
	req, err := candidatesRequest()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	a, err := openRecommendApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	recommender := matching.NewCandidateRecommender(a.db, a.db, a.reranker(), a.matchingOptions()...)
	result, err := recommender.Recommend(ctx, req)
	if err != nil {
		return err
	}
	return printCandidates(os.Stdout, result, recJSONOutput)
}

func printJobs(out io.Writer, result *matching.MatchResult, asJSON bool) error {
	if !asJSON {
		observability.NewPrinter(out).PrintJobMatches(result)
		return nil
	}
	resp := types.RecommendJobsResponse{Jobs: result.Jobs, MatchScores: result.Scores}
	if resp.Jobs == nil {
		resp.Jobs = []types.JobPosting{}
	}
	if resp.MatchScores == nil {
		resp.MatchScores = []*int{}
	}
	return writeJSON(out, resp)
}

func printCandidates(out io.Writer, result *matching.CandidateResult, asJSON bool) error {
	if !asJSON {
		observability.NewPrinter(out).PrintCandidates(result)
		return nil
	}
	resp := types.RecommendCandidatesResponse{Candidates: result.Candidates, MatchScores: result.Scores}
	if resp.Candidates == nil {
		resp.Candidates = []types.CandidateProfile{}
	}
	if resp.MatchScores == nil {
		resp.MatchScores = []*int{}
	}
	return writeJSON(out, resp)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
