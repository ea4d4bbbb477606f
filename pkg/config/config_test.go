package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/modsearch/pkg/modinfo"
	"github.com/platinummonkey/modsearch/pkg/observability"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "custom")
	t.Setenv("TEST_BOOL", "1")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "forty")
	t.Setenv("TEST_DURATION", "90s")
	t.Setenv("TEST_LIST", " a, b ,,c ")

	assert.Equal(t, "custom", getEnv("TEST_STR", "default"))
	assert.Equal(t, "default", getEnv("TEST_STR_NOT_SET", "default"))
	assert.True(t, getEnvBool("TEST_BOOL", false))
	assert.True(t, getEnvBool("TEST_BOOL_NOT_SET", true))
	assert.Equal(t, 42, getEnvInt("TEST_INT", 0))
	assert.Equal(t, 7, getEnvInt("TEST_BAD_INT", 7))
	assert.Equal(t, 90*time.Second, getEnvDuration("TEST_DURATION", time.Second))
	assert.Equal(t, []string{"a", "b", "c"}, getEnvList("TEST_LIST", nil))
	assert.Equal(t, []string{"x"}, getEnvList("TEST_LIST_NOT_SET", []string{"x"}))
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  observability.LogLevel
	}{
		{"debug", observability.DebugLevel},
		{"INFO", observability.InfoLevel},
		{"warn", observability.WarnLevel},
		{"warning", observability.WarnLevel},
		{"error", observability.ErrorLevel},
		{"nonsense", observability.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.input))
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.HealthPort)
	assert.Equal(t, "https://modules.fajox.one", cfg.Index.URL)
	assert.Equal(t, modinfo.FormatDocstring, cfg.Search.Format())
	assert.Equal(t, 5, cfg.Search.DefaultLimit)
	assert.Equal(t, 0, cfg.Search.MaxLimit)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, observability.InfoLevel, cfg.Observability.Level())
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("MODSEARCH_PORT", "8000")
	t.Setenv("MODSEARCH_INDEX_URL", "https://index.example")
	t.Setenv("MODSEARCH_METADATA_FORMAT", "header")
	t.Setenv("MODSEARCH_MAX_LIMIT", "50")
	t.Setenv("MODSEARCH_FETCH_CONCURRENCY", "4")
	t.Setenv("MODSEARCH_CACHE_ENABLED", "true")
	t.Setenv("MODSEARCH_CACHE_TTL", "1m")
	t.Setenv("MODSEARCH_WARM_SCHEDULE", "@every 5m")
	t.Setenv("MODSEARCH_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "https://index.example", cfg.Index.URL)
	assert.Equal(t, modinfo.FormatHeader, cfg.Search.Format())
	assert.Equal(t, 50, cfg.Search.MaxLimit)
	assert.Equal(t, 4, cfg.Search.FetchConcurrency)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, time.Minute, cfg.Cache.Options().TTL)
	assert.Equal(t, "@every 5m", cfg.Cache.WarmSchedule)
	assert.Equal(t, observability.DebugLevel, cfg.Observability.Level())
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modsearch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "7000"
  cors_origins: ["https://a.example"]
index:
  url: https://file.example
  timeout: 5s
search:
  metadata_format: header
  default_limit: 10
cache:
  enabled: true
  redis_url: redis://localhost:6379/2
observability:
  otel_enabled: true
  otel_endpoint: collector:4317
`), 0o600))

	t.Setenv(ConfigFileEnv, path)
	t.Setenv("MODSEARCH_INDEX_URL", "https://env.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "https://env.example", cfg.Index.URL)
	assert.Equal(t, 5*time.Second, cfg.Index.Timeout)
	assert.Equal(t, 10, cfg.Search.DefaultLimit)
	assert.Equal(t, "redis://localhost:6379/2", cfg.Cache.Options().RedisURL)
	assert.Equal(t, 4096, cfg.Cache.L1Size)

	otel := cfg.Observability.OTel()
	assert.True(t, otel.Enabled)
	assert.Equal(t, "collector:4317", otel.Endpoint)
	assert.Equal(t, "modsearch", otel.ServiceName)
}

func TestLoadConfig_FileErrors(t *testing.T) {
	t.Setenv(ConfigFileEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := LoadConfig()
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))
	t.Setenv(ConfigFileEnv, path)
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"missing port", func(c *Config) { c.Server.Port = "" }, "server port is required"},
		{"same ports", func(c *Config) { c.Server.HealthPort = c.Server.Port }, "must be different"},
		{"negative rate limit", func(c *Config) { c.Server.RateLimit = -1 }, "rate limit"},
		{"missing index", func(c *Config) { c.Index.URL = "" }, "index URL is required"},
		{"bad format", func(c *Config) { c.Search.MetadataFormat = "toml" }, "unknown metadata format"},
		{"zero default limit", func(c *Config) { c.Search.DefaultLimit = 0 }, "default limit must be positive"},
		{"negative max", func(c *Config) { c.Search.MaxLimit = -1 }, "max limit"},
		{"default above max", func(c *Config) { c.Search.MaxLimit = 2 }, "exceeds max limit"},
		{"negative concurrency", func(c *Config) { c.Search.FetchConcurrency = -1 }, "fetch concurrency"},
		{"cache without tiers", func(c *Config) {
			c.Cache.Enabled = true
			c.Cache.L1Size = 0
		}, "L1 size or a redis URL"},
		{"cache without ttl", func(c *Config) {
			c.Cache.Enabled = true
			c.Cache.TTL = 0
		}, "cache TTL"},
		{"warmer without cache", func(c *Config) { c.Cache.WarmSchedule = "@hourly" }, "requires the cache"},
		{"otel without endpoint", func(c *Config) {
			c.Observability.OTelEnabled = true
			c.Observability.OTelEndpoint = ""
		}, "endpoint is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestServerConfig_RateLimitConfig(t *testing.T) {
	s := Default().Server
	assert.Nil(t, s.RateLimitConfig())

	s.RateLimit = 120
	s.RateLimitBurst = 20
	rl := s.RateLimitConfig()
	require.NotNil(t, rl)
	assert.Equal(t, 120, rl.RequestsPerWindow)
	assert.Equal(t, 20, rl.BurstSize)
	assert.Equal(t, time.Minute, rl.WindowDuration)
}
