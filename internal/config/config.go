package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/geohunt.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	// RedisURL is optional; positions are cached in memory without it.
	RedisURL     string        `env:"REDIS_URL"`
	PositionTTL  time.Duration `env:"POSITION_TTL" envDefault:"2m"`
	TickInterval time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`

	ClassifierURL     string        `env:"CLASSIFIER_URL" envDefault:"https://api.anthropic.com/v1/messages"`
	ClassifierAPIKey  string        `env:"CLASSIFIER_API_KEY"`
	ClassifierModel   string        `env:"CLASSIFIER_MODEL" envDefault:"claude-sonnet-4-20250514"`
	ClassifierTimeout time.Duration `env:"CLASSIFIER_TIMEOUT" envDefault:"30s"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	SeedQuestions bool `env:"SEED_QUESTIONS" envDefault:"true"`
}

// Load reads a .env file if present, then the environment.
func Load() (*Config, error) {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("HTTP_ADDR cannot be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, errors.New("TICK_INTERVAL must be positive"))
	}
	if c.PositionTTL <= 0 {
		errs = append(errs, errors.New("POSITION_TTL must be positive"))
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		errs = append(errs, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together"))
	}
	return errors.Join(errs...)
}

// PhotoVerification reports whether a classifier API key is configured.
func (c Config) PhotoVerification() bool {
	return c.ClassifierAPIKey != ""
}
