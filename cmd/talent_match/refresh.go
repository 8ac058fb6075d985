package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/talentmatch/talent-match/internal/config"
	"github.com/talentmatch/talent-match/internal/freshness"
	"github.com/talentmatch/talent-match/internal/observability"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh-embeddings",
	Short: "Recompute every stale embedding once",
	Long: `Drain the stale embedding queue: recompute the embedding of every queued
resume, profile and job and store it. Records that fail transiently stay queued.
Requires REDIS_URL; without Redis the queue lives inside the server process.`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	a, err := newApp(config.RequireDatabase)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.cfg.Validate(a.cfg.EmbeddingRequirement()); err != nil {
		return err
	}
	if a.cfg.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required to read the stale embedding queue")
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

	queue := a.queue()
	refresher := freshness.NewRefresher(queue, a.db, embedder, a.cfg.Freshness.BatchSize, a.logger)
	result, err := refresher.Drain(ctx)
	observability.NewPrinter(os.Stdout).PrintImportResult("embeddings refreshed", result)
	if err != nil {
		return err
	}

	if remaining, err := queue.Len(ctx); err == nil && remaining > 0 {
		a.logger.Warn("records left in queue", zap.Int64("remaining", remaining))
	}
	if !result.OK() {
		return fmt.Errorf("refresh finished with failures: %s", result.Summary())
	}
	return nil
}
