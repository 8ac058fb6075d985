// Package config provides configuration loading and validation for the service and CLI.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/talentmatch/talent-match/internal/types"
)

// EnvPrefix prefixes every override environment variable.
const EnvPrefix = "TALENT_MATCH"

// Embedding providers
const (
	EmbeddingProviderCohere = "cohere"
	EmbeddingProviderGemini = "gemini"
)

// Fallback score modes for recommendations without a query
const (
	FallbackScoresNone        = "none"
	FallbackScoresPlaceholder = "placeholder"
)

// Config is the full service configuration.
// Values come from defaults, then an optional config file, then the environment.
type Config struct {
	Port        int    `mapstructure:"port"`
	DatabaseURL string `mapstructure:"database_url"`
	RedisURL    string `mapstructure:"redis_url"`

	Log          LogConfig          `mapstructure:"log"`
	Server       ServerConfig       `mapstructure:"server"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Cohere       CohereConfig       `mapstructure:"cohere"`
	Gemini       GeminiConfig       `mapstructure:"gemini"`
	Unstructured UnstructuredConfig `mapstructure:"unstructured"`
	Embedding    EmbeddingConfig    `mapstructure:"embedding"`
	Matching     MatchingConfig     `mapstructure:"matching"`
	Freshness    FreshnessConfig    `mapstructure:"freshness"`
	Batch        BatchConfig        `mapstructure:"batch"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
}

// LogConfig selects the log encoder and level
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

// CohereConfig holds the embed and rerank API settings
type CohereConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	EmbedModel  string        `mapstructure:"embed_model"`
	RerankModel string        `mapstructure:"rerank_model"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// GeminiConfig holds the generative model settings
type GeminiConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	EmbedModel string `mapstructure:"embed_model"`
}

// UnstructuredConfig holds the document partitioning API settings
type UnstructuredConfig struct {
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// EmbeddingConfig selects the embedding provider
type EmbeddingConfig struct {
	Provider string `mapstructure:"provider"`
}

// MatchingConfig tunes recommendation output
type MatchingConfig struct {
	Limit          int    `mapstructure:"limit"`
	FallbackScores string `mapstructure:"fallback_scores"`
}

// FreshnessConfig schedules the embedding refresher
type FreshnessConfig struct {
	Schedule  string `mapstructure:"schedule"`
	BatchSize int    `mapstructure:"batch_size"`
}

// BatchConfig bounds batch import throughput
type BatchConfig struct {
	Concurrency   int     `mapstructure:"concurrency"`
	RatePerSecond float64 `mapstructure:"rate_per_second"`
}

// RateLimitConfig bounds requests per client IP
type RateLimitConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	DefaultLimit  int           `mapstructure:"default_limit"`
	DefaultWindow time.Duration `mapstructure:"default_window"`
	Whitelist     []string      `mapstructure:"whitelist"`
	Blacklist     []string      `mapstructure:"blacklist"`
}

// bareEnv maps keys to the provider variable names used without the prefix.
var bareEnv = map[string]string{
	"port":                 "PORT",
	"database_url":         "DATABASE_URL",
	"redis_url":            "REDIS_URL",
	"auth.jwt_secret":      "AUTH_JWT_SECRET",
	"cohere.api_key":       "COHERE_API_KEY",
	"gemini.api_key":       "GEMINI_API_KEY",
	"unstructured.url":     "UNSTRUCTURED_API_URL",
	"unstructured.api_key": "UNSTRUCTURED_API_KEY",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("database_url", "")
	v.SetDefault("redis_url", "")

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)

	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.max_upload_bytes", int64(10<<20))

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.audience", "authenticated")

	v.SetDefault("cohere.api_key", "")
	v.SetDefault("cohere.embed_model", "embed-english-v3.0")
	v.SetDefault("cohere.rerank_model", "rerank-english-v2.0")
	v.SetDefault("cohere.timeout", 30*time.Second)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.embed_model", "text-embedding-004")

	v.SetDefault("unstructured.url", "https://api.unstructuredapp.io/general/v0/general")
	v.SetDefault("unstructured.api_key", "")
	v.SetDefault("unstructured.timeout", 120*time.Second)

	v.SetDefault("embedding.provider", EmbeddingProviderCohere)

	v.SetDefault("matching.limit", 10)
	v.SetDefault("matching.fallback_scores", FallbackScoresNone)

	v.SetDefault("freshness.schedule", "@every 10m")
	v.SetDefault("freshness.batch_size", 100)

	v.SetDefault("batch.concurrency", 1)
	v.SetDefault("batch.rate_per_second", 1.5)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.default_limit", 600)
	v.SetDefault("rate_limit.default_window", time.Minute)
	v.SetDefault("rate_limit.whitelist", []string{})
	v.SetDefault("rate_limit.blacklist", []string{})
}

// Load reads configuration. path is optional; when empty only defaults and
// the environment are used.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range bareEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Requirement names a setting a command cannot run without.
type Requirement int

// Requirements checked by Validate
const (
	RequireDatabase Requirement = iota
	RequireCohere
	RequireGemini
	RequireAuth
	RequireUnstructured
)

// Validate checks value ranges, then each requirement.
func (c *Config) Validate(reqs ...Requirement) error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}
	switch c.Embedding.Provider {
	case EmbeddingProviderCohere, EmbeddingProviderGemini:
	default:
		return fmt.Errorf("config error: 'embedding.provider' must be %q or %q, got %q",
			EmbeddingProviderCohere, EmbeddingProviderGemini, c.Embedding.Provider)
	}
	switch c.Matching.FallbackScores {
	case FallbackScoresNone, FallbackScoresPlaceholder:
	default:
		return fmt.Errorf("config error: 'matching.fallback_scores' must be %q or %q, got %q",
			FallbackScoresNone, FallbackScoresPlaceholder, c.Matching.FallbackScores)
	}
	if c.Matching.Limit < 1 || c.Matching.Limit > types.DefaultMatchLimit {
		return fmt.Errorf("config error: 'matching.limit' must be between 1 and %d, got %d",
			types.DefaultMatchLimit, c.Matching.Limit)
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("config error: 'batch.concurrency' must be at least 1")
	}
	if c.Batch.RatePerSecond < 0 {
		return fmt.Errorf("config error: 'batch.rate_per_second' must be non-negative")
	}
	if c.RateLimit.Enabled && (c.RateLimit.DefaultLimit < 1 || c.RateLimit.DefaultWindow <= 0) {
		return fmt.Errorf("config error: 'rate_limit.default_limit' and 'rate_limit.default_window' must be positive")
	}

	var errs []error
	for _, req := range reqs {
		switch req {
		case RequireDatabase:
			if c.DatabaseURL == "" {
				errs = append(errs, errors.New("DATABASE_URL is required"))
			}
		case RequireCohere:
			if c.Cohere.APIKey == "" {
				errs = append(errs, errors.New("COHERE_API_KEY is required"))
			}
		case RequireGemini:
			if c.Gemini.APIKey == "" {
				errs = append(errs, errors.New("GEMINI_API_KEY is required"))
			}
		case RequireAuth:
			if err := c.Auth.normalize(); err != nil {
				errs = append(errs, err)
			}
		case RequireUnstructured:
			if c.Unstructured.URL == "" || c.Unstructured.APIKey == "" {
				errs = append(errs, errors.New("UNSTRUCTURED_API_URL and UNSTRUCTURED_API_KEY are required"))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config error: %w", errors.Join(errs...))
	}
	return nil
}

// EmbeddingRequirement returns the API key requirement of the configured embedding provider.
func (c *Config) EmbeddingRequirement() Requirement {
	if c.Embedding.Provider == EmbeddingProviderGemini {
		return RequireGemini
	}
	return RequireCohere
}
