package cache

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/modsearch/pkg/index"
	"github.com/platinummonkey/modsearch/pkg/observability"
)

// Upstream is the subset of the index client that Source caches
type Upstream interface {
	ListRepositories(ctx context.Context) ([]index.Repository, error)
	ListModules(ctx context.Context, repoPath string) ([]string, error)
	FetchModuleSource(ctx context.Context, repoPath, moduleName string) (string, error)
	ModuleURL(repoPath, moduleName string) string
}

const (
	keyRepositories = "repos"
	keyListing      = "listing:"
	keySource       = "source:"
)

// Source is a read-through caching decorator over an Upstream
type Source struct {
	upstream Upstream
	cache    *Cache
	logger   *observability.Logger
}

// NewSource wraps upstream with cache
func NewSource(upstream Upstream, cache *Cache, logger *observability.Logger) *Source {
	return &Source{
		upstream: upstream,
		cache:    cache,
		logger:   logger,
	}
}

// ListRepositories returns the cached repository list, fetching on a miss
func (s *Source) ListRepositories(ctx context.Context) ([]index.Repository, error) {
	var repos []index.Repository
	if s.lookup(ctx, keyRepositories, &repos) {
		return repos, nil
	}

	repos, err := s.upstream.ListRepositories(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, keyRepositories, repos)
	return repos, nil
}

// ListModules returns the cached listing of repoPath, fetching on a miss
func (s *Source) ListModules(ctx context.Context, repoPath string) ([]string, error) {
	key := keyListing + repoPath

	var names []string
	if s.lookup(ctx, key, &names) {
		return names, nil
	}

	names, err := s.upstream.ListModules(ctx, repoPath)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, names)
	return names, nil
}

// FetchModuleSource returns the cached module source, fetching on a miss
func (s *Source) FetchModuleSource(ctx context.Context, repoPath, moduleName string) (string, error) {
	key := keySource + repoPath + "/" + moduleName

	var src string
	if s.lookup(ctx, key, &src) {
		return src, nil
	}

	src, err := s.upstream.FetchModuleSource(ctx, repoPath, moduleName)
	if err != nil {
		return "", err
	}
	s.store(ctx, key, src)
	return src, nil
}

// ModuleURL delegates to the upstream
func (s *Source) ModuleURL(repoPath, moduleName string) string {
	return s.upstream.ModuleURL(repoPath, moduleName)
}

// Refresh re-fetches the repository list and every listing from the upstream
// and overwrites the cached copies. It returns the number of repositories.
func (s *Source) Refresh(ctx context.Context) (int, error) {
	repos, err := s.upstream.ListRepositories(ctx)
	if err != nil {
		return 0, fmt.Errorf("refresh repositories: %w", err)
	}

	listings := make([][]string, len(repos))
	g, gctx := errgroup.WithContext(ctx)
	for i, repo := range repos {
		g.Go(func() error {
			names, err := s.upstream.ListModules(gctx, repo.Path)
			if err != nil {
				return fmt.Errorf("refresh listing %s: %w", repo.Path, err)
			}
			listings[i] = names
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	// Listings first so a reader never sees a repository list whose listings
	// are older than it.
	for i, repo := range repos {
		s.store(ctx, keyListing+repo.Path, listings[i])
	}
	s.store(ctx, keyRepositories, repos)
	return len(repos), nil
}

func (s *Source) lookup(ctx context.Context, key string, dest interface{}) bool {
	ok, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("cache lookup failed")
		return false
	}
	return ok
}

func (s *Source) store(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("cache store failed")
	}
}
