package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/geohunt/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "data/geohunt.db", cfg.DBPath)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, 2*time.Minute, cfg.PositionTTL)
	assert.Empty(t, cfg.RedisURL)
	assert.True(t, cfg.SeedQuestions)
	assert.False(t, cfg.PhotoVerification())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("CLASSIFIER_API_KEY", "k")
	t.Setenv("SEED_QUESTIONS", "false")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.True(t, cfg.PhotoVerification())
	assert.False(t, cfg.SeedQuestions)
}

func TestValidate(t *testing.T) {
	valid := config.Config{HTTPAddr: ":8080", DBPath: "x.db", TickInterval: time.Second, PositionTTL: time.Minute}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		mod  func(*config.Config)
		want string
	}{
		{"empty addr", func(c *config.Config) { c.HTTPAddr = "" }, "HTTP_ADDR cannot be empty"},
		{"empty db path", func(c *config.Config) { c.DBPath = "" }, "DB_PATH cannot be empty"},
		{"zero tick", func(c *config.Config) { c.TickInterval = 0 }, "TICK_INTERVAL"},
		{"zero ttl", func(c *config.Config) { c.PositionTTL = 0 }, "POSITION_TTL"},
		{"half admin", func(c *config.Config) { c.AdminEmail = "a@b.c" }, "must be set together"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mod(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
