package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/platinummonkey/modsearch/pkg/config"
	"github.com/platinummonkey/modsearch/pkg/index"
	"github.com/platinummonkey/modsearch/pkg/mcpserver"
	"github.com/platinummonkey/modsearch/pkg/observability"
	"github.com/platinummonkey/modsearch/pkg/search"
)

func main() {
	// stdout carries the MCP protocol, so logs go to stderr.
	logger := observability.NewLogger(observability.InfoLevel, os.Stderr)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}
	logger = observability.NewLogger(cfg.Observability.Level(), os.Stderr).WithField("service", "modsearch-mcp")

	client, err := index.NewClient(cfg.Index.URL,
		index.WithTimeout(cfg.Index.Timeout),
		index.WithUserAgent(cfg.Index.UserAgent),
	)
	if err != nil {
		logger.WithError(err).Error("Failed to create index client")
		os.Exit(1)
	}

	service := search.NewService(client,
		search.WithFormat(cfg.Search.Format()),
		search.WithConcurrency(cfg.Search.FetchConcurrency),
		search.WithDefaultLimit(cfg.Search.DefaultLimit),
		search.WithMaxLimit(cfg.Search.MaxLimit),
		search.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := mcpserver.NewServer(service, logger).Serve(ctx); err != nil {
		logger.WithError(err).Error("MCP server stopped")
		os.Exit(1)
	}
}
