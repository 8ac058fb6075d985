package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/talentmatch/talent-match/internal/config"
	"github.com/talentmatch/talent-match/internal/observability"
)

var importJobCmd = &cobra.Command{
	Use:   "import-job [url...]",
	Short: "Import job postings from URLs or a saved page",
	Long: `Fetch each posting page, parse it into a structured listing with the
generative model, embed it and store it. A saved HTML or text page can be
imported with --file instead of URLs.`,
	RunE: runImportJob,
}

var importJobFile string

func init() {
	importJobCmd.Flags().StringVarP(&importJobFile, "file", "f", "", "Path to a saved posting page (HTML or text)")
	rootCmd.AddCommand(importJobCmd)
}

func validateImportJobArgs(file string, urls []string) error {
	if file == "" && len(urls) == 0 {
		return fmt.Errorf("either --file or at least one URL must be provided")
	}
	if file != "" && len(urls) > 0 {
		return fmt.Errorf("--file and URLs are mutually exclusive; provide only one")
	}
	return nil
}

func runImportJob(cmd *cobra.Command, args []string) error {
	if err := validateImportJobArgs(importJobFile, args); err != nil {
		return err
	}

	a, err := newApp(config.RequireDatabase, config.RequireGemini)
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
	if err := a.openRedis(ctx); err != nil {
		return err
	}
	embedder, err := a.embeddings(ctx)
	if err != nil {
		return err
	}
	importer, err := a.urlImporter(ctx, embedder)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	if importJobFile != "" {
		job, err := importer.ImportFromFile(ctx, importJobFile, nil)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", importJobFile, err)
		}
		printer.PrintJob(job)
		return nil
	}

	result := importer.ImportURLs(ctx, args)
	printer.PrintImportResult("job postings", result)
	if !result.OK() {
		return fmt.Errorf("import finished with failures: %s", result.Summary())
	}
	return nil
}
