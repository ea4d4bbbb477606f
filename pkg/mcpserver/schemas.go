package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// searchModulesTool returns the tool definition for search_modules
func searchModulesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_modules",
		Description: "Search plugin modules across every repository of the module index by name prefix similarity",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Module name or name prefix to look for",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return",
					"default":     5,
					"minimum":     1,
				},
			},
			Required: []string{"query"},
		},
	}
}

// moduleInfoTool returns the tool definition for module_info
func moduleInfoTool() mcp.Tool {
	return mcp.Tool{
		Name:        "module_info",
		Description: "Fetch a single module's source and extract its name, description, banner and developer",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"repository": map[string]interface{}{
					"type":        "string",
					"description": "Repository path as listed in repos.json",
				},
				"module": map[string]interface{}{
					"type":        "string",
					"description": "Module name without the .py extension",
				},
			},
			Required: []string{"repository", "module"},
		},
	}
}
