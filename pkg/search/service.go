package search

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/modsearch/pkg/index"
	"github.com/platinummonkey/modsearch/pkg/modinfo"
	"github.com/platinummonkey/modsearch/pkg/observability"
)

// DefaultConcurrency bounds concurrent metadata fetches
const DefaultConcurrency = 16

// Source provides repository listings and module sources. It is satisfied by
// *index.Client and by the caching *cache.Source.
type Source interface {
	ListRepositories(ctx context.Context) ([]index.Repository, error)
	ListModules(ctx context.Context, repoPath string) ([]string, error)
	FetchModuleSource(ctx context.Context, repoPath, moduleName string) (string, error)
	ModuleURL(repoPath, moduleName string) string
}

// Service runs module searches against a Source
type Service struct {
	source       Source
	format       modinfo.Format
	concurrency  int
	defaultLimit int
	maxLimit     int
	metrics      *observability.Metrics
	logger       *observability.Logger
}

// Option configures a Service
type Option func(*Service)

// WithFormat selects the metadata format of module sources
func WithFormat(f modinfo.Format) Option {
	return func(s *Service) { s.format = f }
}

// WithConcurrency bounds concurrent metadata fetches; 0 means unbounded
func WithConcurrency(n int) Option {
	return func(s *Service) { s.concurrency = n }
}

// WithDefaultLimit sets the limit used when a search asks for none
func WithDefaultLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultLimit = n
		}
	}
}

// WithMaxLimit caps the number of results; 0 means no cap
func WithMaxLimit(n int) Option {
	return func(s *Service) { s.maxLimit = n }
}

// WithMetrics records search metrics
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger used outside of a request context
func WithLogger(l *observability.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a search service
func NewService(source Source, opts ...Option) *Service {
	s := &Service{
		source:       source,
		format:       modinfo.FormatDocstring,
		concurrency:  DefaultConcurrency,
		defaultLimit: DefaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultLimit returns the limit applied when a search asks for none
func (s *Service) DefaultLimit() int {
	return s.defaultLimit
}

// Search returns at most limit modules ranked against query. A limit of zero
// or less, including a negative one, counts as absent and selects the default.
func (s *Service) Search(ctx context.Context, query string, limit int) (results []ScoredResult, err error) {
	if query == "" {
		return nil, ErrMissingQuery
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		limit = s.maxLimit
	}

	ctx, span := observability.Tracer().Start(ctx, "SearchService.Search",
		trace.WithAttributes(
			attribute.String("search.query", query),
			attribute.Int("search.limit", limit),
		),
	)
	defer span.End()

	start := time.Now()
	var candidates, matched int
	defer func() {
		s.metrics.ObserveSearch(err, candidates, matched, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "search failed")
		}
	}()

	all, err := s.Collect(ctx)
	if err != nil {
		return nil, err
	}
	candidates = len(all)

	matches := Score(query, all)
	matched = len(matches)

	results, err = s.Enrich(ctx, matches)
	if err != nil {
		return nil, err
	}

	SortResults(results)
	if len(results) > limit {
		results = results[:limit]
	}

	span.SetAttributes(
		attribute.Int("search.candidates", candidates),
		attribute.Int("search.matches", matched),
		attribute.Int("search.results", len(results)),
	)
	s.loggerFor(ctx).WithFields(map[string]interface{}{
		"query":      query,
		"candidates": candidates,
		"matches":    matched,
		"results":    len(results),
	}).Debug("search completed")

	return results, nil
}

// Collect lists every module of every repository, in index order
func (s *Service) Collect(ctx context.Context) ([]Candidate, error) {
	ctx, span := observability.Tracer().Start(ctx, "SearchService.Collect")
	defer span.End()

	repos, err := s.source.ListRepositories(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}
	span.SetAttributes(attribute.Int("search.repositories", len(repos)))

	listings := make([][]string, len(repos))
	g, gctx := errgroup.WithContext(ctx)
	for i, repo := range repos {
		g.Go(func() (err error) {
			defer func() {
				if p := observability.MustRecover(recover()); p != nil {
					err = p
				}
			}()
			names, err := s.source.ListModules(gctx, repo.Path)
			if err != nil {
				return fmt.Errorf("failed to list modules of %s: %w", repo.Path, err)
			}
			listings[i] = names
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	var candidates []Candidate
	for i, repo := range repos {
		for _, name := range listings[i] {
			candidates = append(candidates, Candidate{RepoPath: repo.Path, ModuleName: name})
		}
	}
	s.loggerFor(ctx).Debugf("collected %d candidates from %d repositories", len(candidates), len(repos))
	return candidates, nil
}

// Enrich fetches and extracts metadata for every match concurrently. The
// first failure cancels the remaining fetches and is returned.
func (s *Service) Enrich(ctx context.Context, matches []Match) ([]ScoredResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "SearchService.Enrich",
		trace.WithAttributes(attribute.Int("search.matches", len(matches))),
	)
	defer span.End()

	results := make([]ScoredResult, len(matches))
	g, gctx := errgroup.WithContext(ctx)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}

	for i, m := range matches {
		g.Go(func() (err error) {
			defer func() {
				if p := observability.MustRecover(recover()); p != nil {
					err = p
				}
			}()
			link := s.source.ModuleURL(m.RepoPath, m.ModuleName)
			info, err := s.fetchInfo(gctx, m.RepoPath, m.ModuleName)
			if err != nil {
				return err
			}
			results[i] = newResult(m, link, info)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return results, nil
}

// ModuleInfo fetches and extracts the metadata of a single module
func (s *Service) ModuleInfo(ctx context.Context, repoPath, moduleName string) (*ModuleDetail, error) {
	ctx, span := observability.Tracer().Start(ctx, "SearchService.ModuleInfo",
		trace.WithAttributes(
			attribute.String("module.repository", repoPath),
			attribute.String("module.name", moduleName),
		),
	)
	defer span.End()

	info, err := s.fetchInfo(ctx, repoPath, moduleName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}
	return &ModuleDetail{
		Repository: repoPath,
		Module:     moduleName,
		Link:       s.source.ModuleURL(repoPath, moduleName),
		ModuleInfo: info,
	}, nil
}

func (s *Service) fetchInfo(ctx context.Context, repoPath, moduleName string) (modinfo.ModuleInfo, error) {
	text, err := s.source.FetchModuleSource(ctx, repoPath, moduleName)
	if err != nil {
		return modinfo.ModuleInfo{}, fmt.Errorf("failed to fetch module %s/%s: %w", repoPath, moduleName, err)
	}
	return modinfo.Extract(text, s.format), nil
}

func (s *Service) loggerFor(ctx context.Context) *observability.Logger {
	logger := observability.FromContext(ctx)
	if _, ok := ctx.Value(observability.LoggerKey).(*observability.Logger); !ok && s.logger != nil {
		logger = s.logger
	}
	return observability.WithTraceContext(ctx, logger)
}
