package main

import (
	"context"
	"fmt"
	"net/http"

	cohere "github.com/cohere-ai/cohere-go/v2/client"
	"github.com/cohere-ai/cohere-go/v2/option"
	"github.com/google/generative-ai-go/genai"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	apioption "google.golang.org/api/option"

	"github.com/talentmatch/talent-match/internal/batch"
	"github.com/talentmatch/talent-match/internal/config"
	"github.com/talentmatch/talent-match/internal/db"
	"github.com/talentmatch/talent-match/internal/embedding"
	"github.com/talentmatch/talent-match/internal/fetch"
	"github.com/talentmatch/talent-match/internal/freshness"
	"github.com/talentmatch/talent-match/internal/ingestion"
	"github.com/talentmatch/talent-match/internal/llm"
	"github.com/talentmatch/talent-match/internal/logging"
	"github.com/talentmatch/talent-match/internal/matching"
	"github.com/talentmatch/talent-match/internal/rerank"
)

// redisPrefix namespaces every key the service writes to Redis.
const redisPrefix = "talent_match:"

// app holds the clients a command opened. close releases them in reverse order.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *db.DB
	rdb     *redis.Client
	cohere  *cohere.Client
	closers []func()
}

// newApp loads configuration, checks reqs and builds the logger.
func newApp(reqs ...config.Requirement) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(reqs...); err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	a := &app{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() { _ = logger.Sync() })
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// openDB connects and migrates the database.
func (a *app) openDB(ctx context.Context) error {
	store, err := db.Connect(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, store.Close)
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	a.db = store
	return nil
}

// openRedis connects when REDIS_URL is set. Without it rdb stays nil.
func (a *app) openRedis(ctx context.Context) error {
	if a.cfg.RedisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(a.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("redis ping failed: %w", err)
	}
	a.closers = append(a.closers, func() { _ = rdb.Close() })
	a.rdb = rdb
	return nil
}

func (a *app) cohereClient() *cohere.Client {
	if a.cohere == nil {
		a.cohere = cohere.NewClient(
			option.WithToken(a.cfg.Cohere.APIKey),
			option.WithHTTPClient(&http.Client{Timeout: a.cfg.Cohere.Timeout}),
		)
	}
	return a.cohere
}

// embeddings returns the generator for the configured provider.
func (a *app) embeddings(ctx context.Context) (*embedding.Generator, error) {
	if a.cfg.Embedding.Provider == config.EmbeddingProviderGemini {
		client, err := genai.NewClient(ctx, apioption.WithAPIKey(a.cfg.Gemini.APIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		return embedding.NewGenerator(embedding.NewGeminiEmbedder(client, a.cfg.Gemini.EmbedModel)), nil
	}
	return embedding.NewGenerator(embedding.NewCohereEmbedder(a.cohereClient(), a.cfg.Cohere.EmbedModel)), nil
}

func (a *app) reranker() *rerank.CohereClient {
	return rerank.NewCohereClient(a.cohereClient(), a.cfg.Cohere.RerankModel)
}

// llmClient returns the generative model client with the configured standard model.
func (a *app) llmClient(ctx context.Context) (llm.Client, error) {
	cfg := llm.DefaultConfig().WithModel(llm.TierStandard, a.cfg.Gemini.Model)
	client, err := llm.NewClient(ctx, cfg, a.cfg.Gemini.APIKey)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = client.Close() })
	return client, nil
}

// queue is the Redis freshness queue, or an in-memory one without Redis.
func (a *app) queue() freshness.Queue {
	if a.rdb != nil {
		return freshness.NewRedisQueue(a.rdb, freshness.DefaultRedisKey)
	}
	a.logger.Warn("REDIS_URL not set, stale embeddings are tracked in memory only")
	return freshness.NewMemoryQueue()
}

// importer builds the batch importer with configured throughput limits.
func (a *app) importer(embedder batch.EmbeddingSource) *batch.Importer {
	return batch.NewImporter(a.db, embedder,
		batch.WithConcurrency(a.cfg.Batch.Concurrency),
		batch.WithRate(a.cfg.Batch.RatePerSecond),
		batch.WithLogger(a.logger))
}

// urlImporter builds the posting importer. Fetched pages are cached in Redis when available.
func (a *app) urlImporter(ctx context.Context, embedder batch.EmbeddingSource) (*batch.URLImporter, error) {
	client, err := a.llmClient(ctx)
	if err != nil {
		return nil, err
	}
	var cache fetch.PageCache
	if a.rdb != nil {
		cache = fetch.NewRedisPageCache(a.rdb, redisPrefix)
	}
	fetcher := fetch.NewCachedFetcher(cache, fetch.DefaultOptions(), 0, a.logger)
	pages := ingestion.NewIngester(fetcher, a.logger)
	return batch.NewURLImporter(a.importer(embedder), pages, client), nil
}

func (a *app) matchingOptions() []matching.Option {
	return []matching.Option{
		matching.WithLimit(a.cfg.Matching.Limit),
		matching.WithFallbackScorer(matching.NewFallbackScorer(a.cfg.Matching.FallbackScores)),
		matching.WithLogger(a.logger),
	}
}
