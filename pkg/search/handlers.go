package search

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/modsearch/pkg/httputil"
	"github.com/platinummonkey/modsearch/pkg/index"
	"github.com/platinummonkey/modsearch/pkg/observability"
)

// Handlers provides HTTP handlers for search
type Handlers struct {
	service *Service
}

// NewHandlers creates search handlers backed by service
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers search routes
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/search", h.search).Methods("GET")
	router.HandleFunc("/search", h.search).Methods("GET")
	router.HandleFunc("/api/modules/{repo:.+}/{module}", h.module).Methods("GET")
}

// search handles GET /api/search
func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	query := httputil.ParseQueryString(r, "q", "")
	if query == "" {
		httputil.WriteBadRequest(w, MissingQueryMessage)
		return
	}
	limit := httputil.ParseQueryIntPrefix(r, "limit", h.service.DefaultLimit())

	results, err := h.service.Search(r.Context(), query, limit)
	if errors.Is(err, ErrMissingQuery) {
		httputil.WriteBadRequest(w, MissingQueryMessage)
		return
	}
	if err != nil {
		observability.FromContext(r.Context()).
			WithError(err).
			WithField("query", query).
			Error("search failed")
		httputil.WriteInternalError(w, err)
		return
	}

	if results == nil {
		results = []ScoredResult{}
	}
	httputil.WriteSuccess(w, Response{Results: results})
}

// module handles GET /api/modules/{repo}/{module}
func (h *Handlers) module(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	detail, err := h.service.ModuleInfo(r.Context(), vars["repo"], vars["module"])
	var fetchErr *index.FetchError
	if errors.As(err, &fetchErr) && fetchErr.StatusCode == http.StatusNotFound {
		httputil.WriteNotFoundError(w, "module not found")
		return
	}
	if err != nil {
		observability.FromContext(r.Context()).
			WithError(err).
			WithFields(map[string]interface{}{
				"repository": vars["repo"],
				"module":     vars["module"],
			}).
			Error("module lookup failed")
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteSuccess(w, detail)
}
