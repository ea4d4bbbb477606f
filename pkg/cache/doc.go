// Package cache provides an optional two-tier read-through cache in front of
// the module index.
//
// L1 is an in-process expirable LRU; L2 is Redis, shared between replicas.
// Either tier may be absent. Cache failures never fail a search: they are
// logged and the request falls through to the index.
//
//	c, err := cache.New(cache.Config{L1Size: 4096, TTL: 10 * time.Minute}, metrics)
//	src := cache.NewSource(indexClient, c, logger)
//	repos, err := src.ListRepositories(ctx)
package cache
