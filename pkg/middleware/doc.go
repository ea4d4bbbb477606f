// Package middleware provides per-client rate limiting for the search API.
//
// Every search fans out to one request per repository plus one per matching
// module, so unbounded clients translate directly into load on the module
// index. Two limiters are available:
//
//   - RateLimiter: in-process token bucket, per replica
//   - DistributedRateLimiter: fixed window counter in Redis, shared by all
//     replicas
//
// Both plug into RateLimit, which keys requests by client IP:
//
//	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimitConfig())
//	handler = middleware.RateLimit(limiter)(handler)
//
// Limiter errors fail open: the request is served and the error logged.
package middleware
