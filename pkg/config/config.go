package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/platinummonkey/modsearch/pkg/cache"
	"github.com/platinummonkey/modsearch/pkg/index"
	"github.com/platinummonkey/modsearch/pkg/middleware"
	"github.com/platinummonkey/modsearch/pkg/modinfo"
	"github.com/platinummonkey/modsearch/pkg/observability"
	"github.com/platinummonkey/modsearch/pkg/search"
)

// ConfigFileEnv names the environment variable holding an optional YAML file path
const ConfigFileEnv = "MODSEARCH_CONFIG_FILE"

// Config holds all application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Index         IndexConfig         `yaml:"index"`
	Search        SearchConfig        `yaml:"search"`
	Cache         CacheConfig         `yaml:"cache"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Health/metrics server (separate port for k8s probes)
	HealthPort string `yaml:"health_port"`

	CORSOrigins []string `yaml:"cors_origins"`

	// RateLimit is requests per minute per client IP; 0 disables limiting.
	RateLimit      int `yaml:"rate_limit"`
	RateLimitBurst int `yaml:"rate_limit_burst"`
}

// IndexConfig describes the remote module index
type IndexConfig struct {
	URL       string        `yaml:"url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// SearchConfig holds ranking and enrichment settings
type SearchConfig struct {
	MetadataFormat   string `yaml:"metadata_format"`
	DefaultLimit     int    `yaml:"default_limit"`
	MaxLimit         int    `yaml:"max_limit"`
	FetchConcurrency int    `yaml:"fetch_concurrency"`
}

// CacheConfig holds listing cache settings
type CacheConfig struct {
	Enabled       bool          `yaml:"enabled"`
	L1Size        int           `yaml:"l1_size"`
	TTL           time.Duration `yaml:"ttl"`
	RedisURL      string        `yaml:"redis_url"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	RedisPoolSize int           `yaml:"redis_pool_size"`

	// WarmSchedule is a cron expression; empty disables the warmer.
	WarmSchedule string        `yaml:"warm_schedule"`
	WarmTimeout  time.Duration `yaml:"warm_timeout"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel string `yaml:"log_level"`

	MetricsEnabled bool `yaml:"metrics_enabled"`

	OTelEnabled        bool   `yaml:"otel_enabled"`
	OTelEndpoint       string `yaml:"otel_endpoint"`
	OTelServiceName    string `yaml:"otel_service_name"`
	OTelServiceVersion string `yaml:"otel_service_version"`
	OTelInsecure       bool   `yaml:"otel_insecure"` // Use insecure gRPC connection
}

// Default returns the built-in configuration
func Default() *Config {
	cacheDefaults := cache.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			HealthPort:      "9090",
		},
		Index: IndexConfig{
			URL:       index.DefaultBaseURL,
			Timeout:   30 * time.Second,
			UserAgent: index.DefaultUserAgent,
		},
		Search: SearchConfig{
			MetadataFormat:   string(modinfo.FormatDocstring),
			DefaultLimit:     search.DefaultLimit,
			FetchConcurrency: search.DefaultConcurrency,
		},
		Cache: CacheConfig{
			L1Size:      cacheDefaults.L1Size,
			TTL:         cacheDefaults.TTL,
			RedisDB:     -1,
			WarmTimeout: 2 * time.Minute,
		},
		Observability: ObservabilityConfig{
			LogLevel:           "info",
			MetricsEnabled:     true,
			OTelEndpoint:       "localhost:4317",
			OTelServiceName:    "modsearch",
			OTelServiceVersion: "1.0.0",
			OTelInsecure:       true,
		},
	}
}

// LoadConfig loads the defaults, then the YAML file named by
// MODSEARCH_CONFIG_FILE if set, then environment variable overrides.
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadFile merges the YAML file at path into c. Keys absent from the file
// keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	s := &c.Server
	s.Host = getEnv("MODSEARCH_HOST", s.Host)
	s.Port = getEnv("MODSEARCH_PORT", s.Port)
	s.ReadTimeout = getEnvDuration("MODSEARCH_READ_TIMEOUT", s.ReadTimeout)
	s.WriteTimeout = getEnvDuration("MODSEARCH_WRITE_TIMEOUT", s.WriteTimeout)
	s.IdleTimeout = getEnvDuration("MODSEARCH_IDLE_TIMEOUT", s.IdleTimeout)
	s.ShutdownTimeout = getEnvDuration("MODSEARCH_SHUTDOWN_TIMEOUT", s.ShutdownTimeout)
	s.HealthPort = getEnv("MODSEARCH_HEALTH_PORT", s.HealthPort)
	s.CORSOrigins = getEnvList("MODSEARCH_CORS_ORIGINS", s.CORSOrigins)
	s.RateLimit = getEnvInt("MODSEARCH_RATE_LIMIT", s.RateLimit)
	s.RateLimitBurst = getEnvInt("MODSEARCH_RATE_LIMIT_BURST", s.RateLimitBurst)

	i := &c.Index
	i.URL = getEnv("MODSEARCH_INDEX_URL", i.URL)
	i.Timeout = getEnvDuration("MODSEARCH_INDEX_TIMEOUT", i.Timeout)
	i.UserAgent = getEnv("MODSEARCH_USER_AGENT", i.UserAgent)

	q := &c.Search
	q.MetadataFormat = getEnv("MODSEARCH_METADATA_FORMAT", q.MetadataFormat)
	q.DefaultLimit = getEnvInt("MODSEARCH_DEFAULT_LIMIT", q.DefaultLimit)
	q.MaxLimit = getEnvInt("MODSEARCH_MAX_LIMIT", q.MaxLimit)
	q.FetchConcurrency = getEnvInt("MODSEARCH_FETCH_CONCURRENCY", q.FetchConcurrency)

	k := &c.Cache
	k.Enabled = getEnvBool("MODSEARCH_CACHE_ENABLED", k.Enabled)
	k.L1Size = getEnvInt("MODSEARCH_L1_CACHE_SIZE", k.L1Size)
	k.TTL = getEnvDuration("MODSEARCH_CACHE_TTL", k.TTL)
	k.RedisURL = getEnv("MODSEARCH_REDIS_URL", k.RedisURL)
	k.RedisPassword = getEnv("MODSEARCH_REDIS_PASSWORD", k.RedisPassword)
	k.RedisDB = getEnvInt("MODSEARCH_REDIS_DB", k.RedisDB)
	k.RedisPoolSize = getEnvInt("MODSEARCH_REDIS_POOL_SIZE", k.RedisPoolSize)
	k.WarmSchedule = getEnv("MODSEARCH_WARM_SCHEDULE", k.WarmSchedule)
	k.WarmTimeout = getEnvDuration("MODSEARCH_WARM_TIMEOUT", k.WarmTimeout)

	o := &c.Observability
	o.LogLevel = getEnv("MODSEARCH_LOG_LEVEL", o.LogLevel)
	o.MetricsEnabled = getEnvBool("MODSEARCH_METRICS_ENABLED", o.MetricsEnabled)
	o.OTelEnabled = getEnvBool("MODSEARCH_OTEL_ENABLED", o.OTelEnabled)
	o.OTelEndpoint = getEnv("MODSEARCH_OTEL_ENDPOINT", o.OTelEndpoint)
	o.OTelServiceName = getEnv("MODSEARCH_OTEL_SERVICE_NAME", o.OTelServiceName)
	o.OTelServiceVersion = getEnv("MODSEARCH_OTEL_SERVICE_VERSION", o.OTelServiceVersion)
	o.OTelInsecure = getEnvBool("MODSEARCH_OTEL_INSECURE", o.OTelInsecure)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}
	if c.Server.RateLimit < 0 || c.Server.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit and burst must not be negative")
	}

	if c.Index.URL == "" {
		return fmt.Errorf("index URL is required")
	}
	if _, err := modinfo.ParseFormat(c.Search.MetadataFormat); err != nil {
		return err
	}
	if c.Search.DefaultLimit <= 0 {
		return fmt.Errorf("default limit must be positive")
	}
	if c.Search.MaxLimit < 0 {
		return fmt.Errorf("max limit must not be negative")
	}
	if c.Search.MaxLimit > 0 && c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("default limit %d exceeds max limit %d", c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	if c.Search.FetchConcurrency < 0 {
		return fmt.Errorf("fetch concurrency must not be negative")
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache TTL must be positive when the cache is enabled")
		}
		if c.Cache.L1Size <= 0 && c.Cache.RedisURL == "" {
			return fmt.Errorf("cache requires an L1 size or a redis URL")
		}
	} else if c.Cache.WarmSchedule != "" {
		return fmt.Errorf("warm schedule requires the cache to be enabled")
	}

	// Validate OpenTelemetry config
	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// Format returns the parsed metadata format
func (s SearchConfig) Format() modinfo.Format {
	f, err := modinfo.ParseFormat(s.MetadataFormat)
	if err != nil {
		return modinfo.FormatDocstring
	}
	return f
}

// Options converts the settings to pkg/cache configuration
func (c CacheConfig) Options() cache.Config {
	cfg := cache.DefaultConfig()
	cfg.L1Size = c.L1Size
	cfg.TTL = c.TTL
	cfg.RedisURL = c.RedisURL
	cfg.RedisPassword = c.RedisPassword
	cfg.RedisDB = c.RedisDB
	cfg.RedisPoolSize = c.RedisPoolSize
	return cfg
}

// RateLimitConfig converts the settings to pkg/middleware configuration.
// It returns nil when rate limiting is disabled.
func (s ServerConfig) RateLimitConfig() *middleware.RateLimitConfig {
	if s.RateLimit == 0 {
		return nil
	}
	return &middleware.RateLimitConfig{
		RequestsPerWindow: s.RateLimit,
		WindowDuration:    time.Minute,
		BurstSize:         s.RateLimitBurst,
	}
}

// Level returns the parsed log level
func (o ObservabilityConfig) Level() observability.LogLevel {
	return ParseLogLevel(o.LogLevel)
}

// OTel converts the settings to pkg/observability configuration
func (o ObservabilityConfig) OTel() observability.OTelConfig {
	return observability.OTelConfig{
		Enabled:        o.OTelEnabled,
		Endpoint:       o.OTelEndpoint,
		ServiceName:    o.OTelServiceName,
		ServiceVersion: o.OTelServiceVersion,
		Insecure:       o.OTelInsecure,
	}
}

// ParseLogLevel parses a log level string
func ParseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList returns a comma-separated environment variable or a default
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
