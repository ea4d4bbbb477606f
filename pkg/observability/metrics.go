package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Upstream index metrics
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec

	// Cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Search metrics
	SearchesTotal     *prometheus.CounterVec
	SearchCandidates  prometheus.Histogram
	SearchMatches     prometheus.Histogram
	SearchDuration    prometheus.Histogram
	WarmerRunsTotal   *prometheus.CounterVec
	RepositoriesKnown prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modsearch_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "modsearch_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "modsearch_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "path"},
		),

		UpstreamRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modsearch_upstream_requests_total",
				Help: "Total number of requests to the module index",
			},
			[]string{"kind", "status"},
		),
		UpstreamRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "modsearch_upstream_request_duration_seconds",
				Help:    "Module index request duration in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"kind"},
		),

		CacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modsearch_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"tier"},
		),
		CacheMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modsearch_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"tier"},
		),

		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modsearch_searches_total",
				Help: "Total number of searches",
			},
			[]string{"status"},
		),
		SearchCandidates: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "modsearch_search_candidates",
				Help:    "Number of candidate modules scored per search",
				Buckets: prometheus.ExponentialBuckets(10, 2, 10),
			},
		),
		SearchMatches: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "modsearch_search_matches",
				Help:    "Number of candidates with a positive score per search",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		SearchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "modsearch_search_duration_seconds",
				Help:    "End-to-end search duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		WarmerRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modsearch_warmer_runs_total",
				Help: "Total number of listing cache refresh runs",
			},
			[]string{"status"},
		),
		RepositoriesKnown: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "modsearch_repositories_known",
				Help: "Number of repositories in the last fetched index",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
		m.UpstreamRequestsTotal,
		m.UpstreamRequestDuration,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.SearchesTotal,
		m.SearchCandidates,
		m.SearchMatches,
		m.SearchDuration,
		m.WarmerRunsTotal,
		m.RepositoriesKnown,
	)

	return m
}

// ObserveUpstream records one request to the module index
func (m *Metrics) ObserveUpstream(kind, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequestsTotal.WithLabelValues(kind, status).Inc()
	m.UpstreamRequestDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveCache records a cache lookup for the given tier
func (m *Metrics) ObserveCache(tier string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(tier).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(tier).Inc()
	}
}

// ObserveSearch records the outcome of one search
func (m *Metrics) ObserveSearch(err error, candidates, matches int, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.SearchesTotal.WithLabelValues(status).Inc()
	m.SearchDuration.Observe(d.Seconds())
	if err == nil {
		m.SearchCandidates.Observe(float64(candidates))
		m.SearchMatches.Observe(float64(matches))
	}
}

// ObserveWarmerRun records a listing cache refresh
func (m *Metrics) ObserveWarmerRun(err error, repositories int) {
	if m == nil {
		return
	}
	if err != nil {
		m.WarmerRunsTotal.WithLabelValues("error").Inc()
		return
	}
	m.WarmerRunsTotal.WithLabelValues("ok").Inc()
	m.RepositoriesKnown.Set(float64(repositories))
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics
func HTTPMetricsMiddleware(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if metrics == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rw.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
			metrics.HTTPResponseSize.WithLabelValues(r.Method, r.URL.Path).Observe(float64(rw.bytesWritten))
		})
	}
}

// RegisterMetricsEndpoint registers the /metrics endpoint
func RegisterMetricsEndpoint(mux *http.ServeMux, gatherer prometheus.Gatherer) {
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
