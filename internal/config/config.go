package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port        int    `envconfig:"PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	Version     string `envconfig:"VERSION" default:"dev"`
	BcryptCost  int    `envconfig:"BCRYPT_COST" default:"12"`

	// Timezone decides which calendar day "today" is.
	Timezone string `envconfig:"TIMEZONE" default:"Africa/Cairo"`

	ScoreCacheTTL     time.Duration `envconfig:"SCORE_CACHE_TTL" default:"5m"`
	DirectoryCacheTTL time.Duration `envconfig:"DIRECTORY_CACHE_TTL" default:"1h"`
	SweepInterval     time.Duration `envconfig:"SWEEP_INTERVAL" default:"1m"`

	FanoutLimit      int           `envconfig:"FANOUT_LIMIT" default:"16"`
	PartitionTimeout time.Duration `envconfig:"PARTITION_TIMEOUT" default:"5s"`

	// StoreRateLimit caps store requests per second. Zero disables the limiter.
	StoreRateLimit float64 `envconfig:"STORE_RATE_LIMIT" default:"0"`
	StoreRateBurst int     `envconfig:"STORE_RATE_BURST" default:"50"`

	LeaderboardLimit int `envconfig:"LEADERBOARD_LIMIT" default:"10"`
	MaxRangeDays     int `envconfig:"MAX_RANGE_DAYS" default:"92"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
