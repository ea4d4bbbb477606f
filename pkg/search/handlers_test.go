package search

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, fake *fakeIndex, opts ...Option) *mux.Router {
	t.Helper()
	svc, _ := newTestService(t, fake, opts...)
	router := mux.NewRouter()
	NewHandlers(svc).RegisterRoutes(router)
	return router
}

func doGet(router http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlers_Search(t *testing.T) {
	fake := newFakeIndex()
	router := newTestRouter(t, fake)

	for _, path := range []string{"/api/search", "/search"} {
		rec := doGet(router, path+"?q=we&limit=2")
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var resp Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, []string{"webhooks", "weather"}, modules(resp.Results))
	}
}

func TestHandlers_SearchResultShape(t *testing.T) {
	fake := newFakeIndex()
	router := newTestRouter(t, fake)

	rec := doGet(router, "/api/search?q=web&limit=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body["results"], 1)

	result := body["results"][0]
	assert.Equal(t, "webhooks", result["module"])
	assert.Equal(t, 1.0, result["ratio"])
	assert.Equal(t, "webhooks", result["name"])
	assert.Equal(t, "Sends webhooks", result["description"])
	assert.Contains(t, result, "banner")
	assert.Nil(t, result["banner"])
	assert.Nil(t, result["developer"])
	assert.Contains(t, result["link"], "/beta/nested/webhooks.py")
	assert.NotContains(t, result, "Repository")
}

func TestHandlers_SearchLimitParsing(t *testing.T) {
	fake := newFakeIndex()
	router := newTestRouter(t, fake)

	tests := []struct {
		query string
		want  int
	}{
		{"q=w", 4},
		{"q=w&limit=abc", 4},
		{"q=w&limit=3abc", 3},
		{"q=w&limit=%203", 3},
		{"q=w&limit=0", 4},
		{"q=w&limit=1", 1},
		{"q=w&limit=-2", 4},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := doGet(router, "/api/search?"+tt.query)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Len(t, resp.Results, tt.want)
		})
	}
}

func TestHandlers_SearchMissingQuery(t *testing.T) {
	fake := newFakeIndex()
	router := newTestRouter(t, fake)

	for _, target := range []string{"/api/search", "/api/search?q=", "/api/search?limit=3"} {
		rec := doGet(router, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.JSONEq(t, `{"error":"Query parameter 'q' is required"}`, rec.Body.String(), target)
	}
	assert.Zero(t, fake.total())
}

func TestHandlers_SearchNoResults(t *testing.T) {
	fake := newFakeIndex()
	router := newTestRouter(t, fake)

	rec := doGet(router, "/api/search?q=zzz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"results":[]}`, rec.Body.String())
}

func TestHandlers_SearchUpstreamFailure(t *testing.T) {
	fake := newFakeIndex()
	delete(fake.files, "/alpha/full.txt")
	router := newTestRouter(t, fake)

	rec := doGet(router, "/api/search?q=we")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body["error"])
	assert.Contains(t, body["details"], "alpha/full.txt")
	assert.Contains(t, body["details"], "404")
}

func TestHandlers_Module(t *testing.T) {
	fake := newFakeIndex()
	router := newTestRouter(t, fake)

	rec := doGet(router, "/api/modules/beta/nested/wiki")
	require.Equal(t, http.StatusOK, rec.Code)

	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "beta/nested", detail["repository"])
	assert.Equal(t, "wiki", detail["module"])
	assert.Equal(t, "Wiki", detail["name"])
	assert.Equal(t, "No description available", detail["description"])

	rec = doGet(router, "/api/modules/alpha/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlers_MethodNotAllowed(t *testing.T) {
	fake := newFakeIndex()
	router := newTestRouter(t, fake)

	req := httptest.NewRequest(http.MethodPost, "/api/search?q=we", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
