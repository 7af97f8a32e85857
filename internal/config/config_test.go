package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/medusa?sslmode=disable")
	t.Setenv("JWT_SECRET", "supersecret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "./migrations", cfg.MigrationsPath)
	assert.Equal(t, 15*time.Second, cfg.CacheTTL)
	assert.Equal(t, 60*time.Second, cfg.PlayerPollInterval)
	assert.Equal(t, 5*time.Second, cfg.ResolveTimeout)
	assert.Equal(t, 3, cfg.RepositoryMaxRetries)
	assert.Equal(t, TimeZoneModeSite, cfg.TimeZoneMode)
	assert.Equal(t, time.UTC, cfg.DefaultTimeZone)
	assert.False(t, cfg.CacheActive(), "no redis address")
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "x")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/medusa")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadRejectsCacheTTLAbovePollInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("PLAYER_POLL_INTERVAL", "30s")

	_, err := Load()
	assert.ErrorContains(t, err, "CACHE_TTL")
}

func TestLoadTimeZoneSettings(t *testing.T) {
	setRequired(t)
	t.Setenv("SCHEDULE_TIMEZONE_MODE", "Fixed")
	t.Setenv("SCHEDULE_DEFAULT_TIMEZONE", "Europe/Berlin")

	cfg, err := Load()
	if err != nil && cfg == nil {
		t.Skipf("tzdata not available: %v", err)
	}
	assert.Equal(t, TimeZoneModeFixed, cfg.TimeZoneMode)
	assert.Equal(t, "Europe/Berlin", cfg.DefaultTimeZone.String())

	t.Setenv("SCHEDULE_TIMEZONE_MODE", "customer")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("SCHEDULE_TIMEZONE_MODE", "site")
	t.Setenv("SCHEDULE_DEFAULT_TIMEZONE", "Nowhere/Special")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	setRequired(t)
	t.Setenv("REPOSITORY_MAX_RETRIES", "many")
	_, err := Load()
	assert.Error(t, err)
}
