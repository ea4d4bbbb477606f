package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/platinummonkey/modsearch/pkg/observability"
	"github.com/platinummonkey/modsearch/pkg/search"
)

const (
	// ServerName is the MCP server name
	ServerName = "modsearch"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with the search service
type Server struct {
	mcp     *server.MCPServer
	service *search.Service
	logger  *observability.Logger
}

// NewServer creates a new MCP server instance
func NewServer(service *search.Service, logger *observability.Logger) *Server {
	s := &Server{
		mcp:     server.NewMCPServer(ServerName, ServerVersion),
		service: service,
		logger:  logger,
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("serving MCP over stdio")
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(searchModulesTool(), s.handleSearchModules)
	s.mcp.AddTool(moduleInfoTool(), s.handleModuleInfo)
}
