package observability

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveUpstream("repos", "200", time.Millisecond)
		m.ObserveCache("memory", true)
		m.ObserveSearch(nil, 1, 1, time.Millisecond)
		m.ObserveWarmerRun(nil, 1)
	})
}

func TestMetrics_Observe(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveUpstream("listing", "200", 10*time.Millisecond)
	m.ObserveUpstream("listing", "200", 20*time.Millisecond)
	m.ObserveUpstream("source", "error", time.Millisecond)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("listing", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("source", "error")))

	m.ObserveCache("redis", true)
	m.ObserveCache("redis", false)
	m.ObserveCache("redis", false)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues("redis")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheMissesTotal.WithLabelValues("redis")))

	m.ObserveSearch(nil, 100, 4, time.Second)
	m.ObserveSearch(errors.New("upstream down"), 0, 0, time.Second)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues("error")))

	m.ObserveWarmerRun(nil, 7)
	assert.Equal(t, 7.0, testutil.ToFloat64(m.RepositoriesKnown))
	m.ObserveWarmerRun(errors.New("x"), 0)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WarmerRunsTotal.WithLabelValues("error")))
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	handler := HTTPMetricsMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("nope"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/search", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/search", "400")))
}

func TestHTTPMetricsMiddleware_NilMetrics(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := HTTPMetricsMiddleware(nil)(next)
	assert.NotNil(t, handler)
}

func TestRegisterMetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	m.ObserveSearch(nil, 1, 1, time.Millisecond)

	mux := http.NewServeMux()
	RegisterMetricsEndpoint(mux, registry)
	server := httptest.NewServer(mux)
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "modsearch_searches_total"))
}
