// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	RedditClientID     string `env:"REDDIT_CLIENT_ID"`
	RedditClientSecret string `env:"REDDIT_CLIENT_SECRET"`
	RedditUserAgent    string `env:"REDDIT_USER_AGENT" default:"localreco/1.0"`

	GooglePlacesAPIKey string `env:"GOOGLE_PLACES_API_KEY"`

	RedisURL string `env:"REDIS_URL"`

	CacheTTL          time.Duration `env:"CACHE_TTL" default:"10m"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" default:"60s"`
	RateLimitCeiling  int           `env:"RATE_LIMIT_CEILING" default:"30"`
	HTTPRatePerSecond float64       `env:"HTTP_RATE_PER_SECOND" default:"10"`
	HTTPRateBurst     int           `env:"HTTP_RATE_BURST" default:"20"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	// Reddit credentials are optional (the client falls back to the public
	// endpoints) but must be set together.
	if (cfg.RedditClientID == "") != (cfg.RedditClientSecret == "") {
		return fmt.Errorf("REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET must be set together")
	}

	if cfg.RateLimitCeiling <= 0 {
		return fmt.Errorf("RATE_LIMIT_CEILING must be positive")
	}
	if cfg.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	if cfg.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}

	return nil
}
