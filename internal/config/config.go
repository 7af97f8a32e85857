package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	TimeZoneModeSite  = "site"
	TimeZoneModeFixed = "fixed"
)

// Config holds environment-based settings
type Config struct {
	Environment    string
	DatabaseURL    string
	MigrationsPath string
	JWTSecret      string
	ServerAddress  string
	LogLevel       string

	RedisAddress  string
	RedisUsername string
	RedisPassword string
	CacheEnabled  bool
	CacheTTL      time.Duration
	CachePrefix   string

	PlayerPollInterval   time.Duration
	ResolveTimeout       time.Duration
	RepositoryMaxRetries int
	RetryInitialInterval time.Duration

	// TimeZoneMode is "site" to evaluate schedules in the player's site zone
	// or "fixed" to always use DefaultTimeZone.
	TimeZoneMode    string
	DefaultTimeZone *time.Location
}

// Load reads configuration from environment variables, after loading a .env
// file when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	jwt := os.Getenv("JWT_SECRET")
	if jwt == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	cfg := &Config{
		Environment:    getenv("APP_ENV", "production"),
		DatabaseURL:    dbURL,
		MigrationsPath: getenv("MIGRATIONS_PATH", "./migrations"),
		JWTSecret:      jwt,
		ServerAddress:  getenv("SERVER_ADDRESS", ":8080"),
		LogLevel:       getenv("LOG_LEVEL", "info"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CachePrefix:   getenv("CACHE_PREFIX", "schedules"),

		TimeZoneMode: strings.ToLower(getenv("SCHEDULE_TIMEZONE_MODE", TimeZoneModeSite)),
	}

	var err error
	if cfg.CacheEnabled, err = parseBool("CACHE_ENABLED", "true"); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = parseDuration("CACHE_TTL", "15s"); err != nil {
		return nil, err
	}
	if cfg.PlayerPollInterval, err = parseDuration("PLAYER_POLL_INTERVAL", "60s"); err != nil {
		return nil, err
	}
	if cfg.ResolveTimeout, err = parseDuration("RESOLVE_TIMEOUT", "5s"); err != nil {
		return nil, err
	}
	if cfg.RetryInitialInterval, err = parseDuration("REPOSITORY_RETRY_INTERVAL", "100ms"); err != nil {
		return nil, err
	}
	if cfg.RepositoryMaxRetries, err = parseInt("REPOSITORY_MAX_RETRIES", "3"); err != nil {
		return nil, err
	}

	zone := getenv("SCHEDULE_DEFAULT_TIMEZONE", "UTC")
	if cfg.DefaultTimeZone, err = time.LoadLocation(zone); err != nil {
		return nil, fmt.Errorf("SCHEDULE_DEFAULT_TIMEZONE %q: %w", zone, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CacheActive reports whether the candidate cache should be wired.
func (c *Config) CacheActive() bool {
	return c.CacheEnabled && c.RedisAddress != ""
}

func (c *Config) validate() error {
	if c.TimeZoneMode != TimeZoneModeSite && c.TimeZoneMode != TimeZoneModeFixed {
		return fmt.Errorf("SCHEDULE_TIMEZONE_MODE must be %q or %q, got %q", TimeZoneModeSite, TimeZoneModeFixed, c.TimeZoneMode)
	}
	if c.PlayerPollInterval <= 0 {
		return fmt.Errorf("PLAYER_POLL_INTERVAL must be positive")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.CacheTTL > c.PlayerPollInterval {
		return fmt.Errorf("CACHE_TTL (%s) must not exceed PLAYER_POLL_INTERVAL (%s)", c.CacheTTL, c.PlayerPollInterval)
	}
	if c.ResolveTimeout <= 0 {
		return fmt.Errorf("RESOLVE_TIMEOUT must be positive")
	}
	if c.RepositoryMaxRetries < 0 {
		return fmt.Errorf("REPOSITORY_MAX_RETRIES must not be negative")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenv(key, def))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func parseInt(key, def string) (int, error) {
	n, err := strconv.Atoi(getenv(key, def))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func parseBool(key, def string) (bool, error) {
	b, err := strconv.ParseBool(getenv(key, def))
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
