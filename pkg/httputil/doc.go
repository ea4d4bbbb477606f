// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Response Helpers
//
//	httputil.WriteJSON(w, http.StatusOK, data)
//	httputil.WriteBadRequest(w, "Query parameter 'q' is required")
//	httputil.WriteInternalError(w, err)
//
// # Request Parsing
//
//	q := httputil.ParseQueryString(r, "q", "")
//	limit := httputil.ParseQueryIntPrefix(r, "limit", 5)
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RequestIDMiddleware(logger),
//		httputil.LoggingMiddleware,
//		httputil.RecoveryMiddleware,
//	)
package httputil
