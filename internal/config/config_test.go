package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/civiclens")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.APIPort)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.True(t, cfg.RateLimitEnabled)
	assert.Equal(t, 30*time.Minute, cfg.DBPoolMaxLife)
	assert.Contains(t, cfg.SyncSchedule, "CRON_TZ=America/New_York")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/civiclens")
	t.Setenv("API_PORT", "9000")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://app.example.org, https://staging.example.org")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.APIPort)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://app.example.org", "https://staging.example.org"}, cfg.CORSAllowOrigins)
}

func TestRegistry(t *testing.T) {
	registry := Registry()
	require.Len(t, registry, 1)

	ny := registry[0]
	assert.Equal(t, "US-NY", ny.Code)
	assert.Equal(t, "New York", ny.Name)
	assert.NotZero(t, ny.SessionYear)
	// NY sessions start on odd years.
	assert.Equal(t, 1, ny.SessionYear%2)
}

func TestCurrentSessionYear(t *testing.T) {
	y := currentSessionYear()
	assert.Equal(t, 1, y%2)
	assert.GreaterOrEqual(t, time.Now().Year(), y)
	assert.LessOrEqual(t, time.Now().Year()-y, 1)
}
