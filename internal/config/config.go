package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

const DefaultStatsFile = "NHL Player Stats 2017-18.csv"

type Config struct {
	StatsFile     string        `validate:"required"`
	Delimiter     string        `validate:"len=1"`
	MissingToken  string        `validate:"required"`
	CacheDuration time.Duration `validate:"gt=0"`
	LogLevel      string        `validate:"oneof=debug info warn warning error"`
}

func Load() (*Config, error) {
	cacheDuration := 5 * time.Minute
	if d := os.Getenv("CACHE_DURATION_MINUTES"); d != "" {
		if minutes, err := strconv.Atoi(d); err == nil {
			cacheDuration = time.Duration(minutes) * time.Minute
		}
	}

	cfg := &Config{
		StatsFile:     getEnvOrDefault("STATS_FILE", DefaultStatsFile),
		Delimiter:     getEnvOrDefault("STATS_DELIMITER", ","),
		MissingToken:  getEnvOrDefault("STATS_MISSING_TOKEN", "--"),
		CacheDuration: cacheDuration,
		LogLevel:      strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config after env loading and again after CLI flag
// overrides are applied.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// DelimiterRune returns the single field separator character.
func (c *Config) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
