// Package cli provides the modsearch command-line interface.
//
// # Commands
//
// search: Rank modules against a query
//
//	modsearch-cli search weather --limit 10
//	modsearch-cli search weather --json
//
// inspect: Print the metadata extracted from one module
//
//	modsearch-cli inspect author/repo weather
//
// # Global Flags
//
//	--index-url   module index base URL (MODSEARCH_INDEX_URL)
//	--format      metadata format, docstring or header (MODSEARCH_METADATA_FORMAT)
//	--timeout     upstream request timeout
//	--verbose     log upstream activity to stderr
//
// Unset flags fall back to the same configuration file and environment
// variables as the server.
package cli
