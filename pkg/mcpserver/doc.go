// Package mcpserver exposes module search as Model Context Protocol tools.
//
// Two tools are registered:
//
//   - search_modules: query (required) and limit (optional, default 5);
//     returns the same {"results": [...]} document as GET /api/search
//   - module_info: repository and module (both required); returns the
//     metadata of a single module
//
// The server speaks MCP over stdio:
//
//	srv := mcpserver.NewServer(searchService, logger)
//	if err := srv.Serve(ctx); err != nil {
//		log.Fatal(err)
//	}
package mcpserver
