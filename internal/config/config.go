// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/sync.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Jurisdiction registry
// --------------------------------------------------------------------------

// Jurisdiction binds a tracked legislature code to the upstream state API
// responsible for it. The registry is built once at startup and injected
// into the orchestrator; the set of jurisdictions actually synced is the
// intersection of this registry with the legislature documents in the store.
type Jurisdiction struct {
	Code        string // short code, e.g. "US-NY"
	Name        string // OpenStates jurisdiction name, e.g. "New York"
	BaseURL     string // state API base URL
	APIKey      string // state API key
	SessionYear int    // current legislative session
}

// Registry returns the jurisdictions this build has adapters for.
func Registry() []Jurisdiction {
	return []Jurisdiction{
		{
			Code:        "US-NY",
			Name:        "New York",
			BaseURL:     envOr("NYSENATE_API_URL", "https://legislation.nysenate.gov/api/3"),
			APIKey:      envOr("NYSENATE_API_KEY", ""),
			SessionYear: envInt("NYSENATE_SESSION_YEAR", currentSessionYear()),
		},
	}
}

// currentSessionYear returns the first year of the current two-year NY
// legislative session (sessions start on odd years).
func currentSessionYear() int {
	y := time.Now().Year()
	if y%2 == 0 {
		y--
	}
	return y
}

// --------------------------------------------------------------------------
// Table names — single source of truth, matches schema.sql
// --------------------------------------------------------------------------

const (
	LegislaturesTable = "legislatures"
	LegislatorsTable  = "legislators"
	LegislationTable  = "legislation"
	SponsorshipsTable = "sponsorships"
	UsersTable        = "users"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// External API keys
	OpenStatesAPIKey string

	// Auth
	AuthSecret string

	// Cache
	RedisURL     string
	CacheEnabled bool

	// Scheduled sync ("" disables the cron trigger)
	SyncSchedule string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:4200",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		OpenStatesAPIKey: envOr("OPENSTATES_API_KEY", ""),

		AuthSecret: envOr("AUTH_SECRET", ""),

		RedisURL:     envOr("REDIS_URL", ""),
		CacheEnabled: envBool("CACHE_ENABLED", true),

		// Weekly Monday entry; the runner skips every Monday after the
		// first of the month (cron ORs day-of-month with weekday).
		SyncSchedule: envOr("SYNC_SCHEDULE", "CRON_TZ=America/New_York 0 5 * * MON"),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
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
