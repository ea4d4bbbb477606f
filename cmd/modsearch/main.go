package main

import (
	"context"
	"net"
	"net/http"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/platinummonkey/modsearch/pkg/api"
	"github.com/platinummonkey/modsearch/pkg/cache"
	"github.com/platinummonkey/modsearch/pkg/config"
	"github.com/platinummonkey/modsearch/pkg/index"
	"github.com/platinummonkey/modsearch/pkg/middleware"
	"github.com/platinummonkey/modsearch/pkg/observability"
	"github.com/platinummonkey/modsearch/pkg/search"
	"github.com/platinummonkey/modsearch/pkg/warmer"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		observability.NewLogger(observability.ErrorLevel, os.Stderr).
			WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.Level(), os.Stdout).
		WithField("service", cfg.Observability.OTelServiceName)

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("modsearch exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *observability.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	otelCfg := cfg.Observability.OTel()
	otelCfg.ServiceVersion = versionOr(otelCfg.ServiceVersion)
	providers, err := observability.InitOTel(ctx, otelCfg, logger)
	if err != nil {
		return err
	}

	var metrics *observability.Metrics
	registry := prometheus.NewRegistry()
	if cfg.Observability.MetricsEnabled {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = observability.NewMetrics(registry)
	}

	client, err := index.NewClient(cfg.Index.URL,
		index.WithTimeout(cfg.Index.Timeout),
		index.WithUserAgent(cfg.Index.UserAgent),
		index.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}
	logger.WithField("index", client.BaseURL()).Info("Using module index")

	var (
		source search.Source = client
		store  *cache.Cache
		warm   *warmer.Warmer
	)
	if cfg.Cache.Enabled {
		store, err = cache.New(cfg.Cache.Options(), metrics)
		if err != nil {
			return err
		}
		cached := cache.NewSource(client, store, logger)
		source = cached
		logger.WithFields(map[string]interface{}{
			"l1_size": cfg.Cache.L1Size,
			"ttl":     cfg.Cache.TTL.String(),
			"redis":   store.Redis() != nil,
		}).Info("Listing cache enabled")

		if cfg.Cache.WarmSchedule != "" {
			warm, err = warmer.New(cached, cfg.Cache.WarmSchedule, cfg.Cache.WarmTimeout, logger, metrics)
			if err != nil {
				return err
			}
			if err := warm.Start(ctx); err != nil {
				return err
			}
		}
	}

	service := search.NewService(source,
		search.WithFormat(cfg.Search.Format()),
		search.WithConcurrency(cfg.Search.FetchConcurrency),
		search.WithDefaultLimit(cfg.Search.DefaultLimit),
		search.WithMaxLimit(cfg.Search.MaxLimit),
		search.WithMetrics(metrics),
		search.WithLogger(logger),
	)

	var redisClient *redis.Client
	if store != nil {
		redisClient = store.Redis()
	}

	var limiter middleware.Limiter
	if rl := cfg.Server.RateLimitConfig(); rl != nil {
		if redisClient != nil {
			limiter = middleware.NewDistributedRateLimiter(redisClient, rl, cache.DefaultConfig().KeyPrefix+"ratelimit")
		} else {
			local := middleware.NewRateLimiter(rl)
			local.StartCleanup(ctx)
			limiter = local
		}
		logger.WithFields(map[string]interface{}{
			"per_minute":  rl.RequestsPerWindow,
			"burst":       rl.BurstSize,
			"distributed": redisClient != nil,
		}).Info("Rate limiting enabled")
	}

	apiServer := &http.Server{
		Addr: net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: api.NewServer(service, api.Options{
			Logger:      logger,
			Metrics:     metrics,
			CORSOrigins: cfg.Server.CORSOrigins,
			RateLimiter: limiter,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	checker := observability.NewHealthChecker(redisClient, client)
	checker.SetVersion(version)

	healthMux := http.NewServeMux()
	observability.RegisterHealthRoutes(healthMux, checker)
	if metrics != nil {
		observability.RegisterMetricsEndpoint(healthMux, registry)
	}
	healthServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler: healthMux,
	}

	shutdown := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout, apiServer, healthServer)
	if warm != nil {
		shutdown.RegisterShutdownFunc(warm.Stop)
	}
	if store != nil {
		shutdown.RegisterShutdownFunc(func(context.Context) error { return store.Close() })
	}
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return observability.ShutdownOTel(ctx, providers, logger)
	})

	errCh := make(chan error, 2)
	for _, srv := range []*http.Server{apiServer, healthServer} {
		go func() {
			defer observability.RecoverPanic(logger, "http server")
			logger.WithField("addr", srv.Addr).Info("Starting HTTP server")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()
	}

	done := make(chan error, 1)
	go func() { done <- shutdown.WaitForShutdown() }()

	select {
	case err := <-errCh:
		logger.WithError(err).Error("HTTP server failed")
		cancel()
		if serr := shutdown.Shutdown(context.Background()); serr != nil {
			logger.WithError(serr).Error("Shutdown failed")
		}
		return err
	case err := <-done:
		cancel()
		return err
	}
}

func versionOr(configured string) string {
	if version != "dev" {
		return version
	}
	return configured
}
