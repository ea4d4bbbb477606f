// Package config provides application configuration management from a YAML
// file and environment variables.
//
// # Overview
//
// Defaults are applied first, then the YAML file named by MODSEARCH_CONFIG_FILE
// (if set), then environment variables. The result is validated before use.
//
// # Configuration Structure
//
// Server settings:
//
//	MODSEARCH_HOST="0.0.0.0"
//	MODSEARCH_PORT="8080"
//	MODSEARCH_HEALTH_PORT="9090"
//	MODSEARCH_READ_TIMEOUT="15s"
//	MODSEARCH_CORS_ORIGINS="https://a.example,https://b.example"
//	MODSEARCH_RATE_LIMIT="120"              # requests per minute per client IP, 0 = off
//	MODSEARCH_RATE_LIMIT_BURST="20"
//
// Index and search settings:
//
//	MODSEARCH_INDEX_URL="https://modules.fajox.one"
//	MODSEARCH_INDEX_TIMEOUT="30s"
//	MODSEARCH_METADATA_FORMAT="docstring"  # docstring, header
//	MODSEARCH_DEFAULT_LIMIT="5"
//	MODSEARCH_MAX_LIMIT="0"                # 0 = unbounded
//	MODSEARCH_FETCH_CONCURRENCY="16"       # 0 = unbounded
//
// Cache settings:
//
//	MODSEARCH_CACHE_ENABLED="true"
//	MODSEARCH_CACHE_TTL="10m"
//	MODSEARCH_REDIS_URL="redis://localhost:6379"
//	MODSEARCH_WARM_SCHEDULE="@every 5m"
//
// Observability settings:
//
//	MODSEARCH_LOG_LEVEL="info"  # debug, info, warn, error
//	MODSEARCH_METRICS_ENABLED="true"
//	MODSEARCH_OTEL_ENABLED="true"
//	MODSEARCH_OTEL_ENDPOINT="otel-collector:4317"
//
// The same settings in YAML:
//
//	server:
//	  port: "8080"
//	index:
//	  url: https://modules.fajox.one
//	search:
//	  metadata_format: header
//	cache:
//	  enabled: true
//	  ttl: 10m
//
// # Usage Example
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//	logger := observability.NewLogger(cfg.Observability.Level(), os.Stdout)
package config
