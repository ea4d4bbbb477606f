// Package index is the HTTP client for the remote module index.
//
// The index serves three kinds of documents:
//
//	GET <base>/repos.json               JSON array of {"path": "..."}
//	GET <base>/<repo>/full.txt          newline-delimited module names
//	GET <base>/<repo>/<module>.py       module source text
//
// Every request is traced through otelhttp and recorded in the upstream
// Prometheus metrics. Non-2xx responses are returned as *FetchError.
package index
