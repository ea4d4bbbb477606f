// Package search ranks plugin modules from the remote index against a query.
//
// A search collects every (repository, module) pair the index lists, scores
// each module name with Ratio, fetches source text for the modules that
// scored above zero and extracts their metadata, then orders the results
// with SortResults and truncates them to the requested limit.
//
// # HTTP
//
//	GET /api/search?q=<query>&limit=<n>
//	GET /search?q=<query>&limit=<n>
//	GET /api/modules/{repo}/{module}
//
// Responses are {"results": [...]} on success, 400 {"error": ...} when q is
// missing, and 500 {"error": "Internal Server Error", "details": ...} when
// any upstream fetch fails.
package search
