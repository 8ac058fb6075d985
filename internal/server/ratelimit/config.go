package ratelimit

import (
	"strings"
	"time"

	"github.com/talentmatch/talent-match/internal/config"
)

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// EndpointConfig overrides the default limit for one route.
// A Path ending in "/" matches every path below it.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// DefaultConfig is used when no configuration is supplied.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// FromConfig builds a Config from the service configuration.
func FromConfig(c config.RateLimitConfig) *Config {
	if !c.Enabled {
		return &Config{Enabled: false}
	}
	cfg := DefaultConfig()
	cfg.DefaultLimit = c.DefaultLimit
	cfg.DefaultWindow = c.DefaultWindow
	cfg.Whitelist = toSet(c.Whitelist)
	cfg.Blacklist = toSet(c.Blacklist)
	return cfg
}

// DefaultEndpointConfigs returns the per-route limits. Routes that call paid
// model APIs get the strictest limits.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// model calls
		{Path: "/api/process-resume", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/api/analyze-resume", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/api/jobs/import", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// rerank calls
		{Path: "/api/recommend-jobs", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/recommend-candidates", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},

		// writes
		{Path: "/api/jobs", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/resumes", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/resumes/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/profile", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/applications", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/applications/", Method: "PATCH", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

// MatchEndpoint returns the config for a request, or nil to use the default.
// Health checks are never limited. Exact paths win over prefixes.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" {
		return &EndpointConfig{Path: path, Method: method}
	}
	var prefix *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if prefix == nil && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			prefix = c
		}
	}
	return prefix
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			set[it] = true
		}
	}
	return set
}
