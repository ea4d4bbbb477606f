package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/platinummonkey/modsearch/pkg/httputil"
	"github.com/platinummonkey/modsearch/pkg/middleware"
	"github.com/platinummonkey/modsearch/pkg/observability"
	"github.com/platinummonkey/modsearch/pkg/search"
)

// Options configures the API server
type Options struct {
	Logger  *observability.Logger
	Metrics *observability.Metrics

	// CORSOrigins lists allowed browser origins; "*" allows any.
	CORSOrigins []string

	// RateLimiter limits requests per client IP; nil disables limiting.
	RateLimiter middleware.Limiter
}

// Server is the modsearch HTTP API
type Server struct {
	router  *mux.Router
	handler http.Handler
	search  *search.Handlers
}

// NewServer creates a new API server
func NewServer(service *search.Service, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = observability.NewLogger(observability.InfoLevel, nil)
	}

	s := &Server{
		router: mux.NewRouter(),
		search: search.NewHandlers(service),
	}
	s.setupRoutes()

	chain := httputil.Chain(
		httputil.RequestIDMiddleware(opts.Logger),
		httputil.LoggingMiddleware,
		httputil.RecoveryMiddleware,
		httputil.CORSMiddleware(opts.CORSOrigins),
		observability.HTTPMetricsMiddleware(opts.Metrics),
		middleware.RateLimit(opts.RateLimiter),
	)
	s.handler = otelhttp.NewHandler(chain(s.router), "modsearch",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	s.search.RegisterRoutes(s.router)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteNotFoundError(w, "not found")
	})
}

// Router returns the underlying router, without middleware
func (s *Server) Router() *mux.Router {
	return s.router
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
