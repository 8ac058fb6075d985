package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/talentmatch/talent-match/internal/applications"
	"github.com/talentmatch/talent-match/internal/config"
	"github.com/talentmatch/talent-match/internal/extraction"
	"github.com/talentmatch/talent-match/internal/feedback"
	"github.com/talentmatch/talent-match/internal/freshness"
	"github.com/talentmatch/talent-match/internal/matching"
	"github.com/talentmatch/talent-match/internal/server"
	"github.com/talentmatch/talent-match/internal/server/ratelimit"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the HTTP API. Stale embeddings are refreshed in the background
on the freshness.schedule cron spec.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(config.RequireDatabase, config.RequireAuth, config.RequireCohere,
		config.RequireGemini, config.RequireUnstructured)
	if err != nil {
		return err
	}
	defer a.close()

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
	llmClient, err := a.llmClient(ctx)
	if err != nil {
		return err
	}
	urls, err := a.urlImporter(ctx, embedder)
	if err != nil {
		return err
	}
	reranker := a.reranker()
	queue := a.queue()

	unstructured := extraction.NewUnstructuredClient(a.cfg.Unstructured.URL, a.cfg.Unstructured.APIKey, a.cfg.Unstructured.Timeout)
	limiter := ratelimit.NewLimiter(ratelimit.FromConfig(a.cfg.RateLimit))

	deps := server.Deps{
		Store:        a.db,
		Jobs:         matching.NewRecommender(a.db, a.db, reranker, a.matchingOptions()...),
		Candidates:   matching.NewCandidateRecommender(a.db, a.db, reranker, a.matchingOptions()...),
		Documents:    extraction.NewExtractor(unstructured, a.logger),
		Feedback:     feedback.NewExtractor(llmClient, a.logger),
		Importer:     urls,
		Embeddings:   embedder,
		Applications: applications.NewService(a.db, a.logger),
		Queue:        queue,
		Tokens:       server.NewTokenVerifier(a.cfg.Auth),
		Limiter:      limiter,
		Logger:       a.logger,
	}

	refresher := freshness.NewRefresher(queue, a.db, embedder, a.cfg.Freshness.BatchSize, a.logger)
	scheduler := freshness.NewScheduler(refresher, a.cfg.Freshness.Schedule, a.logger)
	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start embedding refresher: %w", err)
	}
	defer scheduler.Stop()

	port := a.cfg.Port
	if servePort > 0 {
		port = servePort
	}
	a.logger.Info("starting talent match",
		zap.Int("port", port),
		zap.String("embedding_provider", a.cfg.Embedding.Provider),
		zap.Bool("redis", a.rdb != nil))

	return server.New(port, a.cfg.Server, deps).Run(ctx)
}
