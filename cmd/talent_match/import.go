package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/talentmatch/talent-match/internal/batch"
	"github.com/talentmatch/talent-match/internal/config"
	"github.com/talentmatch/talent-match/internal/observability"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import job postings and applicant profiles from JSON files",
	Long: `Import job postings and applicant profiles from JSON array files.
Each record is embedded and stored independently; a failed record is reported
and the rest of the batch continues. The command exits non-zero when any
record failed.`,
	RunE: runImport,
}

var (
	importJobsFile       string
	importApplicantsFile string
)

func init() {
	importCmd.Flags().StringVar(&importJobsFile, "jobs", "", "Path to a JSON array of job postings")
	importCmd.Flags().StringVar(&importApplicantsFile, "applicants", "", "Path to a JSON array of applicant profiles")
	rootCmd.AddCommand(importCmd)
}

// importInputs loads the record files named by the flags.
func importInputs() ([]batch.JobRecord, []batch.ApplicantRecord, error) {
	if importJobsFile == "" && importApplicantsFile == "" {
		return nil, nil, fmt.Errorf("at least one of --jobs or --applicants must be provided")
	}
	var (
		jobs       []batch.JobRecord
		applicants []batch.ApplicantRecord
		err        error
	)
	if importJobsFile != "" {
		if jobs, err = batch.LoadJobs(importJobsFile); err != nil {
			return nil, nil, err
		}
	}
	if importApplicantsFile != "" {
		if applicants, err = batch.LoadApplicants(importApplicantsFile); err != nil {
			return nil, nil, err
		}
	}
	return jobs, applicants, nil
}

func runImport(cmd *cobra.Command, _ []string) error {
	jobs, applicants, err := importInputs()
	if err != nil {
		return err
	}

	a, err := newApp(config.RequireDatabase)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.cfg.Validate(a.cfg.EmbeddingRequirement()); err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := a.openDB(ctx); err != nil {
		return err
	}
	embedder, err := a.embeddings(ctx)
	if err != nil {
		return err
	}

	return importRecords(ctx, a.importer(embedder), jobs, applicants, observability.NewPrinter(os.Stdout))
}

// recordImporter is the part of batch.Importer the import command uses.
type recordImporter interface {
	ImportJobs(ctx context.Context, records []batch.JobRecord) batch.Result
	ImportApplicants(ctx context.Context, records []batch.ApplicantRecord) batch.Result
}

// importRecords runs both batches and fails when any record failed.
func importRecords(ctx context.Context, imp recordImporter, jobs []batch.JobRecord,
	applicants []batch.ApplicantRecord, printer *observability.Printer) error {
	var total batch.Result
	if len(jobs) > 0 {
		result := imp.ImportJobs(ctx, jobs)
		printer.PrintImportResult("jobs", result)
		total = total.Merge(result)
	}
	if len(applicants) > 0 {
		result := imp.ImportApplicants(ctx, applicants)
		printer.PrintImportResult("applicants", result)
		total = total.Merge(result)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !total.OK() {
		return fmt.Errorf("import finished with failures: %s", total.Summary())
	}
	return nil
}
