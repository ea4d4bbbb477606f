// Package observability provides structured logging, Prometheus metrics,
// health checks and OpenTelemetry tracing for modsearch.
//
// # Structured Logging
//
// Create logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("query", q).Info("search complete")
//
// Request-scoped logging:
//
//	logger := observability.FromContext(r.Context())
//	logger.WithError(err).Error("search failed")
//
// # Prometheus Metrics
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	metrics.ObserveUpstream("listing", "200", time.Since(start))
//
// All Metrics methods are safe to call on a nil *Metrics.
//
// # Health Checks
//
//	checker := observability.NewHealthChecker(redisClient, indexClient)
//	router.HandleFunc("/health/ready", checker.Readiness)
//
// # OpenTelemetry
//
//	providers, err := observability.InitOTel(ctx, cfg, logger)
//	defer observability.ShutdownOTel(ctx, providers, logger)
//
// # Related Packages
//
//   - pkg/config: Observability configuration
//   - pkg/httputil: Request logging and metrics middleware
package observability
