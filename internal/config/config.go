// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/leetboard.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ducslabs/leetboard/internal/ranking"
)

// Config is populated from environment variables.
type Config struct {
	// Tracker service (upstream)
	TrackerBaseURL   string
	RequestTimeout   time.Duration
	TrackerRateLimit int // requests per minute against the tracker

	// Views
	EnabledViews []ranking.View
	DefaultView  ranking.View

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting (inbound)
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool
	RankingTTL   time.Duration

	// Auto refresh (0 disables)
	AutoRefreshInterval time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	baseURL := envOr("TRACKER_BASE_URL", "")
	if baseURL == "" {
		return nil, fmt.Errorf("TRACKER_BASE_URL must be set")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	views, err := parseViews(envList("ENABLED_VIEWS", viewNames(ranking.AllViews())))
	if err != nil {
		return nil, err
	}

	defaultView, err := ranking.ParseView(envOr("DEFAULT_VIEW", string(ranking.ViewToday)))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_VIEW: %w", err)
	}

	return &Config{
		TrackerBaseURL:   baseURL,
		RequestTimeout:   time.Duration(envInt("TRACKER_TIMEOUT_SECONDS", 30)) * time.Second,
		TrackerRateLimit: envInt("TRACKER_RATE_LIMIT_PER_MINUTE", 60),

		EnabledViews: views,
		DefaultView:  defaultView,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8080)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),
		RankingTTL:   time.Duration(envInt("RANKING_CACHE_TTL_SECONDS", 30)) * time.Second,

		AutoRefreshInterval: time.Duration(envInt("AUTO_REFRESH_SECONDS", 0)) * time.Second,
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ViewEnabled reports whether a view is part of the configured set.
func (c *Config) ViewEnabled(v ranking.View) bool {
	for _, enabled := range c.EnabledViews {
		if enabled == v {
			return true
		}
	}
	return false
}

func parseViews(names []string) ([]ranking.View, error) {
	views := make([]ranking.View, 0, len(names))
	for _, name := range names {
		v, err := ranking.ParseView(name)
		if err != nil {
			return nil, fmt.Errorf("ENABLED_VIEWS: %w", err)
		}
		views = append(views, v)
	}
	if len(views) == 0 {
		return nil, fmt.Errorf("ENABLED_VIEWS must name at least one view")
	}
	return views, nil
}

func viewNames(views []ranking.View) []string {
	names := make([]string, len(views))
	for i, v := range views {
		names[i] = string(v)
	}
	return names
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
